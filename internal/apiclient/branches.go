package apiclient

import (
	"context"
	"net/http"
)

type branchesResponse struct {
	Branches []Branch `json:"branches"`
}

// ListBranches returns the branches of one organization.
func (c *Client) ListBranches(ctx context.Context, orgID int64) ([]Branch, error) {
	var resp branchesResponse
	path := idPath("/branches", orgID)
	if err := c.do(ctx, "branches.list", http.MethodGet, path, nil, &resp); err != nil {
		return nil, err
	}
	return resp.Branches, nil
}

// CreateBranch posts a new branch.
func (c *Client) CreateBranch(ctx context.Context, in BranchInput) error {
	return c.do(ctx, "branches.create", http.MethodPost, "/branches", in, nil)
}

// UpdateBranch replaces the branch identified by id.
func (c *Client) UpdateBranch(ctx context.Context, id int64, in BranchInput) error {
	return c.do(ctx, "branches.update", http.MethodPut, idPath("/branches", id), in, nil)
}
