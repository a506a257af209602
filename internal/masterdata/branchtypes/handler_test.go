package branchtypes_test

import (
	"encoding/json"
	"net/http"
	"net/url"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/branchdesk/branchdesk/internal/apiclient"
	"github.com/branchdesk/branchdesk/internal/masterdata/branchtypes"
	"github.com/branchdesk/branchdesk/internal/shared"
	_ "github.com/branchdesk/branchdesk/testing"
	"github.com/branchdesk/branchdesk/testing/webtest"
)

func fixtureAPI() *webtest.FakeAPI {
	return &webtest.FakeAPI{
		Organizations: []apiclient.Organization{{ID: 1, Name: "Acme"}, {ID: 2, Name: "Globex"}},
		BranchTypes: []apiclient.BranchType{
			{ID: 10, OrganizationID: 1, Name: "Retail", Description: "Storefront"},
			{ID: 11, OrganizationID: 1, Name: "Warehouse"},
			{ID: 20, OrganizationID: 2, Name: "Kiosk"},
		},
	}
}

func setup(t *testing.T, api *webtest.FakeAPI) (*webtest.Env, http.Handler, string) {
	t.Helper()
	env := webtest.New(t)
	h := branchtypes.NewHandler(nil, api, env.Controller(api), env.Page)
	r := chi.NewRouter()
	r.Route("/masterdata/branch-types", h.MountRoutes)
	sid := env.Login(t, shared.Identity{ID: 7, Username: "alice", FullName: "Alice"})
	return env, r, sid
}

func TestListWithoutOrganizationLoadsNothing(t *testing.T) {
	api := fixtureAPI()
	env, router, sid := setup(t, api)

	res := env.Serve(t, router, webtest.Get("/masterdata/branch-types"), sid)

	require.Equal(t, http.StatusOK, res.Code)
	assert.Contains(t, res.Body.String(), "Globex")
	assert.NotContains(t, res.Body.String(), "branchTypesTable")
	assert.Zero(t, api.ReadCount("branch_types.list"))
}

func TestListFiltersByOrganization(t *testing.T) {
	api := fixtureAPI()
	env, router, sid := setup(t, api)

	res := env.Serve(t, router, webtest.Get("/masterdata/branch-types?organization_id=1"), sid)

	require.Equal(t, http.StatusOK, res.Code)
	body := res.Body.String()
	assert.Contains(t, body, "Retail")
	assert.Contains(t, body, "Warehouse")
	assert.NotContains(t, body, "Kiosk")
	assert.Contains(t, body, `<option value="1" selected>Acme</option>`)
}

func TestOptionsEndpointFeedsCascade(t *testing.T) {
	api := fixtureAPI()
	env, router, sid := setup(t, api)

	res := env.Serve(t, router, webtest.Get("/masterdata/branch-types/options?organization_id=2"), sid)

	require.Equal(t, http.StatusOK, res.Code)
	var opts []branchtypes.OptionJSON
	require.NoError(t, json.Unmarshal(res.Body.Bytes(), &opts))
	assert.Equal(t, []branchtypes.OptionJSON{{ID: 20, Name: "Kiosk"}}, opts)

	res = env.Serve(t, router, webtest.Get("/masterdata/branch-types/options"), sid)
	require.Equal(t, http.StatusOK, res.Code)
	assert.JSONEq(t, `[]`, res.Body.String())
}

func TestOptionsEndpointReportsFailure(t *testing.T) {
	api := fixtureAPI()
	api.Err = &apiclient.APIError{Status: 500, Message: "boom"}
	env, router, sid := setup(t, api)

	res := env.Serve(t, router, webtest.Get("/masterdata/branch-types/options?organization_id=2"), sid)

	assert.Equal(t, http.StatusBadGateway, res.Code)
	assert.Contains(t, res.Body.String(), "boom")
}

func TestEditUsesPut(t *testing.T) {
	api := fixtureAPI()
	env, router, sid := setup(t, api)
	env.Serve(t, router, webtest.Get("/masterdata/branch-types?organization_id=1"), sid)

	res := env.Serve(t, router, webtest.Get("/masterdata/branch-types/10/edit"), sid)
	require.Equal(t, http.StatusOK, res.Code)
	assert.Contains(t, res.Body.String(), `value="Retail"`)
	assert.Contains(t, res.Body.String(), `name="id" value="10"`)

	res = env.Serve(t, router, webtest.PostForm("/masterdata/branch-types/save", url.Values{
		"id":              {"10"},
		"organization_id": {"1"},
		"name":            {"Retail Store"},
	}), sid)
	assert.Equal(t, http.StatusSeeOther, res.Code)
	assert.Equal(t, "/masterdata/branch-types?organization_id=1", res.Header().Get("Location"))

	res = env.Serve(t, router, webtest.PostForm("/masterdata/branch-types/save", url.Values{
		"organization_id": {"1"},
		"name":            {"Pop-up"},
	}), sid)
	assert.Equal(t, http.StatusSeeOther, res.Code)

	writes := api.Writes()
	require.Len(t, writes, 2)
	assert.Equal(t, "branch_types.update", writes[0].Op)
	assert.Equal(t, int64(10), writes[0].ID)
	assert.Equal(t, "branch_types.create", writes[1].Op)
	assert.Equal(t, apiclient.BranchTypeInput{OrganizationID: 1, Name: "Pop-up"}, writes[1].Body)
}

func TestSaveRequiresOrganization(t *testing.T) {
	api := fixtureAPI()
	env, router, sid := setup(t, api)

	res := env.Serve(t, router, webtest.PostForm("/masterdata/branch-types/save", url.Values{"name": {"Retail"}}), sid)

	assert.Equal(t, http.StatusBadRequest, res.Code)
	assert.Contains(t, res.Body.String(), "This field is required")
	assert.Empty(t, api.Writes())
}

func TestSaveFailureShowsServerMessage(t *testing.T) {
	api := fixtureAPI()
	api.WriteErr = &apiclient.APIError{Status: 409, Message: "Name already used"}
	env, router, sid := setup(t, api)

	res := env.Serve(t, router, webtest.PostForm("/masterdata/branch-types/save", url.Values{
		"organization_id": {"1"},
		"name":            {"Retail"},
	}), sid)

	assert.Equal(t, http.StatusBadRequest, res.Code)
	assert.Contains(t, res.Body.String(), "Name already used")
}
