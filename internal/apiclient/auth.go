package apiclient

import (
	"context"
	"net/http"

	"swizzle-client/internal/models"
)

// LoginResult covers both login outcomes: a full session, or an MFA
// challenge that must be completed before one exists.
type LoginResult struct {
	Token       string           `json:"token"`
	User        models.StaffUser `json:"user"`
	MFARequired bool             `json:"mfaRequired"`
	MFASetup    bool             `json:"mfaSetup"`
	MFAToken    string           `json:"mfaToken"`
}

// MFASetupData is the TOTP enrollment material for first-time setup.
type MFASetupData struct {
	Secret     string `json:"secret"`
	OtpauthURL string `json:"otpauthUrl"`
	QRDataURL  string `json:"qrDataUrl"`
}

// StaffPatch updates a staff account. Nil fields are left untouched.
type StaffPatch struct {
	Name        *string `json:"name,omitempty"`
	Role        *string `json:"role,omitempty"`
	Phone       *string `json:"phone,omitempty"`
	IsActive    *bool   `json:"isActive,omitempty"`
	Password    *string `json:"password,omitempty"`
	MFARequired *bool   `json:"mfaRequired,omitempty"`
}

// RegisterStaffRequest creates a staff account.
type RegisterStaffRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Role     string `json:"role"`
	Phone    string `json:"phone,omitempty"`
}

// Login authenticates a staff member. When the account needs MFA the
// challenge token is stored for the follow-up step and no session exists
// yet; otherwise the full session is stored immediately. A 401 here never
// tears down an existing session.
func (c *Client) Login(ctx context.Context, email, password string) (*LoginResult, error) {
	body := map[string]string{"email": email, "password": password}

	var result LoginResult
	err := c.do(ctx, "login", http.MethodPost, "/auth/login", nil, body, &result,
		withoutAuth(), withoutTeardown())
	if err != nil {
		return nil, err
	}

	if result.MFARequired {
		c.session.StoreMFAToken(result.MFAToken)
	} else {
		c.session.CompleteLogin(result.Token, result.User)
	}

	return &result, nil
}

// MFASetup fetches TOTP enrollment material. Authenticates with the
// challenge token, not a session token.
func (c *Client) MFASetup(ctx context.Context) (*MFASetupData, error) {
	var data MFASetupData
	err := c.do(ctx, "mfa_setup", http.MethodPost, "/auth/mfa/setup", nil,
		struct{}{}, &data,
		withBearer(c.session.MFAToken()), withoutTeardown())
	if err != nil {
		return nil, err
	}
	return &data, nil
}

// MFAConfirmSetup verifies the first TOTP code, enabling MFA and
// completing login with the returned full token.
func (c *Client) MFAConfirmSetup(ctx context.Context, totpCode string) (*LoginResult, error) {
	return c.completeMFA(ctx, "mfa_confirm_setup", "/auth/mfa/confirm-setup", totpCode)
}

// MFAVerify checks a TOTP code on subsequent logins and completes login
// with the returned full token.
func (c *Client) MFAVerify(ctx context.Context, totpCode string) (*LoginResult, error) {
	return c.completeMFA(ctx, "mfa_verify", "/auth/mfa/verify", totpCode)
}

func (c *Client) completeMFA(ctx context.Context, operation, path, totpCode string) (*LoginResult, error) {
	body := map[string]string{"token": totpCode}

	var result LoginResult
	err := c.do(ctx, operation, http.MethodPost, path, nil, body, &result,
		withBearer(c.session.MFAToken()), withoutTeardown())
	if err != nil {
		return nil, err
	}

	c.session.CompleteLogin(result.Token, result.User)
	return &result, nil
}

// Logout drops all local session state. There is no server call; the
// token simply stops being sent.
func (c *Client) Logout() {
	c.session.Clear()
}

// Me fetches the caller's own profile.
func (c *Client) Me(ctx context.Context) (*models.StaffUser, error) {
	var user models.StaffUser
	if err := c.do(ctx, "me", http.MethodGet, "/auth/me", nil, nil, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

// ListStaff lists all staff accounts. Admin only.
func (c *Client) ListStaff(ctx context.Context) ([]models.StaffUser, error) {
	var staff []models.StaffUser
	if err := c.do(ctx, "list_staff", http.MethodGet, "/auth/staff", nil, nil, &staff); err != nil {
		return nil, err
	}
	return staff, nil
}

// RegisterStaff creates a staff account. Admin only.
func (c *Client) RegisterStaff(ctx context.Context, req RegisterStaffRequest) (*models.StaffUser, error) {
	var created models.StaffUser
	if err := c.do(ctx, "register_staff", http.MethodPost, "/auth/register", nil, req, &created); err != nil {
		return nil, err
	}
	return &created, nil
}

// UpdateStaff patches a staff account. Admin only.
func (c *Client) UpdateStaff(ctx context.Context, id string, patch StaffPatch) (*models.StaffUser, error) {
	var updated models.StaffUser
	if err := c.do(ctx, "update_staff", http.MethodPatch, "/auth/staff/"+id, nil, patch, &updated); err != nil {
		return nil, err
	}
	return &updated, nil
}

// DeleteStaff removes a staff account. Admin only.
func (c *Client) DeleteStaff(ctx context.Context, id string) error {
	return c.do(ctx, "delete_staff", http.MethodDelete, "/auth/staff/"+id, nil, nil, nil)
}
