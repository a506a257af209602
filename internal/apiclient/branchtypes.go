package apiclient

import (
	"context"
	"net/http"
)

type branchTypesResponse struct {
	BranchTypes []BranchType `json:"branchTypes"`
}

// ListBranchTypes returns the branch types of one organization.
func (c *Client) ListBranchTypes(ctx context.Context, orgID int64) ([]BranchType, error) {
	var resp branchTypesResponse
	path := idPath("/branch-types", orgID)
	if err := c.do(ctx, "branch_types.list", http.MethodGet, path, nil, &resp); err != nil {
		return nil, err
	}
	return resp.BranchTypes, nil
}

// CreateBranchType posts a new branch type.
func (c *Client) CreateBranchType(ctx context.Context, in BranchTypeInput) error {
	return c.do(ctx, "branch_types.create", http.MethodPost, "/branch-types", in, nil)
}

// UpdateBranchType replaces the branch type identified by id.
func (c *Client) UpdateBranchType(ctx context.Context, id int64, in BranchTypeInput) error {
	return c.do(ctx, "branch_types.update", http.MethodPut, idPath("/branch-types", id), in, nil)
}
