package branches

import (
	"net/http"
	"regexp"
	"strings"

	"github.com/branchdesk/branchdesk/internal/masterdata/shared"
)

var hexColor = regexp.MustCompile(`^#[0-9a-fA-F]{6}$`)

func parseForm(r *http.Request) Form {
	return Form{
		OrganizationID: shared.FormID(r, "organization_id"),
		BranchTypeID:   shared.FormID(r, "branch_type_id"),
		Name:           r.PostFormValue("name"),
		Address:        r.PostFormValue("address"),
		Phone:          r.PostFormValue("phone"),
		Email:          r.PostFormValue("email"),
		BillColor:      strings.TrimSpace(r.PostFormValue("bill_color")),
		BillFont:       strings.TrimSpace(r.PostFormValue("bill_font")),
		BillIcon:       strings.TrimSpace(r.PostFormValue("bill_icon")),
	}
}

func validate(f Form) map[string]string {
	errs := shared.Validate(f)
	if f.BillColor != "" && !hexColor.MatchString(f.BillColor) {
		errs["BillColor"] = "Enter a color like #000000"
	}
	return errs
}
