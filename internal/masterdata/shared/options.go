package shared

import (
	"github.com/branchdesk/branchdesk/internal/apiclient"
)

// Option is one select-box entry derived from a cached list.
type Option struct {
	Value    int64
	Label    string
	Selected bool
}

// OrganizationOptions derives organization options from the cache.
func OrganizationOptions(orgs []apiclient.Organization, selected int64) []Option {
	out := make([]Option, 0, len(orgs))
	for _, o := range orgs {
		out = append(out, Option{Value: o.ID, Label: o.Name, Selected: o.ID == selected})
	}
	return out
}

// BranchTypeOptions derives branch type options from the cache.
func BranchTypeOptions(types []apiclient.BranchType, selected int64) []Option {
	out := make([]Option, 0, len(types))
	for _, bt := range types {
		out = append(out, Option{Value: bt.ID, Label: bt.Name, Selected: bt.ID == selected})
	}
	return out
}

// BranchOptions derives branch options from the cache.
func BranchOptions(branches []apiclient.Branch, selected int64) []Option {
	out := make([]Option, 0, len(branches))
	for _, b := range branches {
		out = append(out, Option{Value: b.ID, Label: b.Name, Selected: b.ID == selected})
	}
	return out
}
