package apiclient

import (
	"context"
	"net/http"
)

// Dashboard fetches the aggregate summary of one organization. The summary
// fields sit at the top level of the envelope.
func (c *Client) Dashboard(ctx context.Context, orgID int64) (DashboardSummary, error) {
	var resp DashboardSummary
	if err := c.do(ctx, "dashboard.get", http.MethodGet, idPath("/dashboard", orgID), nil, &resp); err != nil {
		return DashboardSummary{}, err
	}
	return resp, nil
}
