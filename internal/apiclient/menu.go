package apiclient

import (
	"context"
	"net/http"
	"net/url"

	"swizzle-client/internal/models"
)

// GetCategories fetches menu categories in display order.
func (c *Client) GetCategories(ctx context.Context) ([]models.Category, error) {
	var categories []models.Category
	if err := c.do(ctx, "get_categories", http.MethodGet, "/menu/categories", nil, nil, &categories); err != nil {
		return nil, err
	}
	return categories, nil
}

// GetProducts fetches products, optionally restricted to one category.
func (c *Client) GetProducts(ctx context.Context, categoryID string) ([]models.Product, error) {
	query := url.Values{}
	if categoryID != "" {
		query.Set("categoryId", categoryID)
	}

	var products []models.Product
	if err := c.do(ctx, "get_products", http.MethodGet, "/menu/products", query, nil, &products); err != nil {
		return nil, err
	}
	return products, nil
}

// GetAddons fetches all addon definitions.
func (c *Client) GetAddons(ctx context.Context) ([]models.Addon, error) {
	var addons []models.Addon
	if err := c.do(ctx, "get_addons", http.MethodGet, "/menu/addons", nil, nil, &addons); err != nil {
		return nil, err
	}
	return addons, nil
}

// FetchMenu pulls a full menu snapshot in one pass. The redis cache layer
// stores exactly this shape.
func (c *Client) FetchMenu(ctx context.Context) (*models.Menu, error) {
	categories, err := c.GetCategories(ctx)
	if err != nil {
		return nil, err
	}

	products, err := c.GetProducts(ctx, "")
	if err != nil {
		return nil, err
	}

	addons, err := c.GetAddons(ctx)
	if err != nil {
		return nil, err
	}

	return &models.Menu{
		Categories: categories,
		Products:   products,
		Addons:     addons,
	}, nil
}

// Admin menu CRUD. All of these require an admin session.

// CreateCategory adds a menu category.
func (c *Client) CreateCategory(ctx context.Context, category models.Category) (*models.Category, error) {
	var created models.Category
	if err := c.do(ctx, "create_category", http.MethodPost, "/menu/categories", nil, category, &created); err != nil {
		return nil, err
	}
	return &created, nil
}

// UpdateCategory patches a category's fields.
func (c *Client) UpdateCategory(ctx context.Context, id string, fields map[string]any) (*models.Category, error) {
	var updated models.Category
	if err := c.do(ctx, "update_category", http.MethodPatch, "/menu/categories/"+id, nil, fields, &updated); err != nil {
		return nil, err
	}
	return &updated, nil
}

// DeleteCategory removes a category.
func (c *Client) DeleteCategory(ctx context.Context, id string) error {
	return c.do(ctx, "delete_category", http.MethodDelete, "/menu/categories/"+id, nil, nil, nil)
}

// CreateProduct adds a product to the menu.
func (c *Client) CreateProduct(ctx context.Context, product models.Product) (*models.Product, error) {
	var created models.Product
	if err := c.do(ctx, "create_product", http.MethodPost, "/menu/products", nil, product, &created); err != nil {
		return nil, err
	}
	return &created, nil
}

// UpdateProduct patches a product's fields.
func (c *Client) UpdateProduct(ctx context.Context, id string, fields map[string]any) (*models.Product, error) {
	var updated models.Product
	if err := c.do(ctx, "update_product", http.MethodPatch, "/menu/products/"+id, nil, fields, &updated); err != nil {
		return nil, err
	}
	return &updated, nil
}

// DeleteProduct removes a product from the menu.
func (c *Client) DeleteProduct(ctx context.Context, id string) error {
	return c.do(ctx, "delete_product", http.MethodDelete, "/menu/products/"+id, nil, nil, nil)
}

// CreateAddon adds an addon definition.
func (c *Client) CreateAddon(ctx context.Context, addon models.Addon) (*models.Addon, error) {
	var created models.Addon
	if err := c.do(ctx, "create_addon", http.MethodPost, "/menu/addons", nil, addon, &created); err != nil {
		return nil, err
	}
	return &created, nil
}

// UpdateAddon patches an addon's fields.
func (c *Client) UpdateAddon(ctx context.Context, id string, fields map[string]any) (*models.Addon, error) {
	var updated models.Addon
	if err := c.do(ctx, "update_addon", http.MethodPatch, "/menu/addons/"+id, nil, fields, &updated); err != nil {
		return nil, err
	}
	return &updated, nil
}

// DeleteAddon removes an addon definition.
func (c *Client) DeleteAddon(ctx context.Context, id string) error {
	return c.do(ctx, "delete_addon", http.MethodDelete, "/menu/addons/"+id, nil, nil, nil)
}
