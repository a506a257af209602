package branches_test

import (
	"net/http"
	"net/url"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/branchdesk/branchdesk/internal/apiclient"
	"github.com/branchdesk/branchdesk/internal/masterdata/branches"
	"github.com/branchdesk/branchdesk/internal/shared"
	_ "github.com/branchdesk/branchdesk/testing"
	"github.com/branchdesk/branchdesk/testing/webtest"
)

func int64p(v int64) *int64 { return &v }

func fixtureAPI() *webtest.FakeAPI {
	return &webtest.FakeAPI{
		Organizations: []apiclient.Organization{{ID: 1, Name: "Acme"}, {ID: 2, Name: "Globex"}},
		BranchTypes: []apiclient.BranchType{
			{ID: 10, OrganizationID: 1, Name: "Retail"},
			{ID: 20, OrganizationID: 2, Name: "Kiosk"},
		},
		Branches: []apiclient.Branch{
			{ID: 100, OrganizationID: 1, BranchTypeID: int64p(10), BranchTypeName: "Retail", Name: "Downtown", Phone: "555-0101", BillColor: "#336699", BillFont: "Georgia"},
			{ID: 101, OrganizationID: 1, Name: "Airport"},
			{ID: 200, OrganizationID: 2, Name: "Harbor"},
		},
	}
}

func setup(t *testing.T, api *webtest.FakeAPI) (*webtest.Env, http.Handler, string) {
	t.Helper()
	env := webtest.New(t)
	h := branches.NewHandler(nil, api, env.Controller(api), env.Page)
	r := chi.NewRouter()
	r.Route("/masterdata/branches", h.MountRoutes)
	sid := env.Login(t, shared.Identity{ID: 7, Username: "alice", FullName: "Alice"})
	return env, r, sid
}

func TestListDefaultsToFirstOrganization(t *testing.T) {
	api := fixtureAPI()
	env, router, sid := setup(t, api)

	res := env.Serve(t, router, webtest.Get("/masterdata/branches"), sid)

	require.Equal(t, http.StatusOK, res.Code)
	body := res.Body.String()
	assert.Contains(t, body, "Downtown")
	assert.Contains(t, body, "Airport")
	assert.NotContains(t, body, "Harbor")
	assert.Contains(t, body, "<td>Acme</td>")
	assert.Contains(t, body, "<td>Retail</td>")
}

func TestListFollowsOrganizationFilter(t *testing.T) {
	api := fixtureAPI()
	env, router, sid := setup(t, api)

	res := env.Serve(t, router, webtest.Get("/masterdata/branches?organization_id=2"), sid)

	require.Equal(t, http.StatusOK, res.Code)
	body := res.Body.String()
	assert.Contains(t, body, "Harbor")
	assert.NotContains(t, body, "Downtown")
	assert.Contains(t, body, `<option value="2" selected>Globex</option>`)
}

func TestFailedLoadShowsCachedRowsOfSameOrganization(t *testing.T) {
	api := fixtureAPI()
	env, router, sid := setup(t, api)
	env.Serve(t, router, webtest.Get("/masterdata/branches?organization_id=1"), sid)

	api.Err = &apiclient.APIError{Status: 500, Message: "database offline"}
	res := env.Serve(t, router, webtest.Get("/masterdata/branches?organization_id=1"), sid)

	require.Equal(t, http.StatusOK, res.Code)
	assert.Contains(t, res.Body.String(), "database offline")
	assert.Contains(t, res.Body.String(), "Downtown")
}

func TestFailedLoadHidesCachedRowsOfOtherOrganization(t *testing.T) {
	api := fixtureAPI()
	env, router, sid := setup(t, api)
	env.Serve(t, router, webtest.Get("/masterdata/branches?organization_id=1"), sid)

	api.Err = &apiclient.APIError{Status: 500, Message: "database offline"}
	res := env.Serve(t, router, webtest.Get("/masterdata/branches?organization_id=2"), sid)

	require.Equal(t, http.StatusOK, res.Code)
	body := res.Body.String()
	assert.Contains(t, body, "database offline")
	assert.Contains(t, body, `<option value="2" selected>Globex</option>`)
	assert.NotContains(t, body, "Downtown")
	assert.NotContains(t, body, "Airport")
}

func TestListWithoutOrganizationsRendersEmpty(t *testing.T) {
	api := &webtest.FakeAPI{}
	env, router, sid := setup(t, api)

	res := env.Serve(t, router, webtest.Get("/masterdata/branches"), sid)

	require.Equal(t, http.StatusOK, res.Code)
	assert.Contains(t, res.Body.String(), "No branches yet.")
	assert.Zero(t, api.ReadCount("branches.list"))
}

func TestNewFormAppliesDefaults(t *testing.T) {
	api := fixtureAPI()
	env, router, sid := setup(t, api)

	res := env.Serve(t, router, webtest.Get("/masterdata/branches/new?organization_id=2"), sid)

	require.Equal(t, http.StatusOK, res.Code)
	body := res.Body.String()
	assert.Contains(t, body, `name="bill_color" value="#000000"`)
	assert.Contains(t, body, `name="bill_font" value="Arial"`)
	assert.Contains(t, body, `<option value="20">Kiosk</option>`)
	assert.NotContains(t, body, "Retail")
}

func TestEditPrefillsAndSelectsType(t *testing.T) {
	api := fixtureAPI()
	env, router, sid := setup(t, api)
	env.Serve(t, router, webtest.Get("/masterdata/branches"), sid)

	res := env.Serve(t, router, webtest.Get("/masterdata/branches/100/edit"), sid)

	require.Equal(t, http.StatusOK, res.Code)
	body := res.Body.String()
	assert.Contains(t, body, `name="id" value="100"`)
	assert.Contains(t, body, `<option value="10" selected>Retail</option>`)
	assert.Contains(t, body, `value="#336699"`)
	assert.Contains(t, body, `value="Georgia"`)
}

func TestEditUnknownBranchReturnsToList(t *testing.T) {
	env, router, sid := setup(t, fixtureAPI())

	res := env.Serve(t, router, webtest.Get("/masterdata/branches/999/edit"), sid)

	assert.Equal(t, http.StatusSeeOther, res.Code)
	assert.Equal(t, "/masterdata/branches", res.Header().Get("Location"))
}

func TestSaveSendsNullBranchTypeWhenUnset(t *testing.T) {
	api := fixtureAPI()
	env, router, sid := setup(t, api)

	res := env.Serve(t, router, webtest.PostForm("/masterdata/branches/save", url.Values{
		"organization_id": {"1"},
		"branch_type_id":  {""},
		"name":            {"Mall"},
		"bill_color":      {"#000000"},
		"bill_font":       {"Arial"},
	}), sid)

	assert.Equal(t, http.StatusSeeOther, res.Code)
	assert.Equal(t, "/masterdata/branches?organization_id=1", res.Header().Get("Location"))
	writes := api.Writes()
	require.Len(t, writes, 1)
	assert.Equal(t, "branches.create", writes[0].Op)
	in := writes[0].Body.(apiclient.BranchInput)
	assert.Nil(t, in.BranchTypeID)
	assert.Equal(t, "Mall", in.Name)
}

func TestSaveUpdateWithType(t *testing.T) {
	api := fixtureAPI()
	env, router, sid := setup(t, api)

	res := env.Serve(t, router, webtest.PostForm("/masterdata/branches/save", url.Values{
		"id":              {"100"},
		"organization_id": {"1"},
		"branch_type_id":  {"10"},
		"name":            {"Downtown"},
		"bill_color":      {"#112233"},
	}), sid)

	assert.Equal(t, http.StatusSeeOther, res.Code)
	writes := api.Writes()
	require.Len(t, writes, 1)
	assert.Equal(t, "branches.update", writes[0].Op)
	assert.Equal(t, int64(100), writes[0].ID)
	in := writes[0].Body.(apiclient.BranchInput)
	require.NotNil(t, in.BranchTypeID)
	assert.Equal(t, int64(10), *in.BranchTypeID)
}

func TestSaveRejectsMalformedColor(t *testing.T) {
	api := fixtureAPI()
	env, router, sid := setup(t, api)

	res := env.Serve(t, router, webtest.PostForm("/masterdata/branches/save", url.Values{
		"organization_id": {"1"},
		"name":            {"Mall"},
		"bill_color":      {"red"},
	}), sid)

	assert.Equal(t, http.StatusBadRequest, res.Code)
	assert.Contains(t, res.Body.String(), "Enter a color like #000000")
	assert.Empty(t, api.Writes())
}

func TestSaveFailureKeepsInput(t *testing.T) {
	api := fixtureAPI()
	api.WriteErr = &apiclient.APIError{Status: 500}
	env, router, sid := setup(t, api)

	res := env.Serve(t, router, webtest.PostForm("/masterdata/branches/save", url.Values{
		"organization_id": {"1"},
		"name":            {"Mall"},
		"phone":           {"555-0123"},
	}), sid)

	assert.Equal(t, http.StatusBadRequest, res.Code)
	assert.Contains(t, res.Body.String(), "Error saving branch")
	assert.Contains(t, res.Body.String(), `value="555-0123"`)
}
