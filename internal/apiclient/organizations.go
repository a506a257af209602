package apiclient

import (
	"context"
	"net/http"
)

type organizationsResponse struct {
	Organizations []Organization `json:"organizations"`
}

// ListOrganizations returns the organizations owned by userID.
func (c *Client) ListOrganizations(ctx context.Context, userID int64) ([]Organization, error) {
	var resp organizationsResponse
	path := idPath("/organizations", userID)
	if err := c.do(ctx, "organizations.list", http.MethodGet, path, nil, &resp); err != nil {
		return nil, err
	}
	return resp.Organizations, nil
}

// CreateOrganization posts a new organization.
func (c *Client) CreateOrganization(ctx context.Context, in OrganizationInput) error {
	return c.do(ctx, "organizations.create", http.MethodPost, "/organizations", in, nil)
}

// UpdateOrganization replaces the organization identified by id.
func (c *Client) UpdateOrganization(ctx context.Context, id int64, in OrganizationInput) error {
	return c.do(ctx, "organizations.update", http.MethodPut, idPath("/organizations", id), in, nil)
}
