package apiclient

import (
	"context"
	"net/http"

	"swizzle-client/internal/models"
)

// SubmitFeedback posts a customer's post-order rating.
func (c *Client) SubmitFeedback(ctx context.Context, feedback models.Feedback) (*models.Feedback, error) {
	var created models.Feedback
	if err := c.do(ctx, "submit_feedback", http.MethodPost, "/feedback", nil, feedback, &created); err != nil {
		return nil, err
	}
	return &created, nil
}

// ListFeedback fetches all feedback for the back office.
func (c *Client) ListFeedback(ctx context.Context) ([]models.Feedback, error) {
	var feedback []models.Feedback
	if err := c.do(ctx, "list_feedback", http.MethodGet, "/feedback", nil, nil, &feedback); err != nil {
		return nil, err
	}
	return feedback, nil
}
