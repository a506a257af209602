package apiclient

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordedCall struct {
	endpoint string
	outcome  string
}

type recordingObserver struct {
	mu    sync.Mutex
	calls []recordedCall
}

func (o *recordingObserver) ObserveAPICall(endpoint, outcome string, _ time.Duration) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.calls = append(o.calls, recordedCall{endpoint: endpoint, outcome: outcome})
}

func newTestClient(t *testing.T, handler http.HandlerFunc) (*Client, *recordingObserver) {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	obs := &recordingObserver{}
	return NewClient(srv.URL+"/api", time.Second, WithHTTPClient(srv.Client()), WithObserver(obs)), obs
}

func writeJSON(t *testing.T, w http.ResponseWriter, status int, body any) {
	t.Helper()
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	assert.NoError(t, json.NewEncoder(w).Encode(body))
}

func TestLoginReturnsUser(t *testing.T) {
	client, obs := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/api/login", r.URL.Path)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		assert.Equal(t, "req-42", r.Header.Get(middleware.RequestIDHeader))

		var creds Credentials
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&creds))
		assert.Equal(t, "alice", creds.Username)
		assert.Equal(t, "secret", creds.Password)

		writeJSON(t, w, http.StatusOK, map[string]any{
			"success": true,
			"user":    map[string]any{"id": 7, "username": "alice", "full_name": "Alice Doe"},
		})
	})

	ctx := context.WithValue(context.Background(), middleware.RequestIDKey, "req-42")
	user, err := client.Login(ctx, Credentials{Username: "alice", Password: "secret"})
	require.NoError(t, err)
	assert.Equal(t, User{ID: 7, Username: "alice", FullName: "Alice Doe"}, user)
	require.Len(t, obs.calls, 1)
	assert.Equal(t, recordedCall{endpoint: "auth.login", outcome: "success"}, obs.calls[0])
}

func TestLoginRejectedCarriesServerMessage(t *testing.T) {
	client, obs := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(t, w, http.StatusUnauthorized, map[string]any{"success": false, "message": "Invalid credentials"})
	})

	_, err := client.Login(context.Background(), Credentials{Username: "alice", Password: "nope"})
	require.Error(t, err)

	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusUnauthorized, apiErr.Status)
	assert.Equal(t, "Invalid credentials", apiErr.UserMessage())
	assert.False(t, IsTransport(err))
	assert.Equal(t, "rejected", obs.calls[0].outcome)
}

func TestSuccessFalseWithoutMessage(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(t, w, http.StatusOK, map[string]any{"success": false})
	})

	err := client.Register(context.Background(), Registration{Username: "bob"})
	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Empty(t, apiErr.UserMessage())
	assert.Contains(t, apiErr.Error(), "status 200")
}

func TestNonJSONBodyIsTransportFailure(t *testing.T) {
	client, obs := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		_, _ = w.Write([]byte("<html>bad gateway</html>"))
	})

	_, err := client.ListOrganizations(context.Background(), 1)
	require.Error(t, err)
	assert.True(t, IsTransport(err))
	assert.Contains(t, err.Error(), "status 502")
	assert.Equal(t, "transport_error", obs.calls[0].outcome)
}

func TestUnreachableServerIsTransportFailure(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	client := NewClient(url, 200*time.Millisecond)
	_, err := client.ListBranches(context.Background(), 1)
	require.Error(t, err)
	assert.True(t, IsTransport(err))
}

func TestListEndpointsUseResourcePaths(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		switch r.URL.Path {
		case "/api/organizations/3":
			writeJSON(t, w, http.StatusOK, map[string]any{"success": true, "organizations": []map[string]any{{"id": 1, "name": "Acme"}}})
		case "/api/branch-types/1":
			writeJSON(t, w, http.StatusOK, map[string]any{"success": true, "branchTypes": []map[string]any{{"id": 4, "organization_id": 1, "name": "Retail"}}})
		case "/api/branches/1":
			writeJSON(t, w, http.StatusOK, map[string]any{"success": true, "branches": []map[string]any{{"id": 9, "organization_id": 1, "branch_type_id": nil, "name": "Downtown"}}})
		case "/api/products/9":
			writeJSON(t, w, http.StatusOK, map[string]any{"success": true, "products": []map[string]any{{"id": 5, "branch_id": 9, "name": "Widget", "price": "19.99", "tax_rate": 8.5}}})
		case "/api/invoices/9":
			writeJSON(t, w, http.StatusOK, map[string]any{"success": true, "invoices": []map[string]any{{"id": 11, "branch_id": 9, "invoice_number": "INV-1", "total_amount": "65.07", "created_at": "2024-03-01T10:00:00Z"}}})
		default:
			t.Errorf("unexpected path %s", r.URL.Path)
			w.WriteHeader(http.StatusNotFound)
		}
	})
	ctx := context.Background()

	orgs, err := client.ListOrganizations(ctx, 3)
	require.NoError(t, err)
	require.Len(t, orgs, 1)
	assert.Equal(t, "Acme", orgs[0].Name)

	types, err := client.ListBranchTypes(ctx, 1)
	require.NoError(t, err)
	require.Len(t, types, 1)
	assert.Equal(t, "Retail", types[0].Name)

	branches, err := client.ListBranches(ctx, 1)
	require.NoError(t, err)
	require.Len(t, branches, 1)
	assert.Nil(t, branches[0].BranchTypeID)

	products, err := client.ListProducts(ctx, 9)
	require.NoError(t, err)
	require.Len(t, products, 1)
	assert.Equal(t, "19.99", products[0].Price.StringFixed(2))
	assert.Equal(t, "8.50", products[0].TaxRate.StringFixed(2))

	invoices, err := client.ListInvoices(ctx, 9)
	require.NoError(t, err)
	require.Len(t, invoices, 1)
	assert.Equal(t, "65.07", invoices[0].TotalAmount.StringFixed(2))
	assert.Equal(t, 2024, invoices[0].CreatedAt.Year())
}

func TestWriteEndpointsChooseMethodByIdentity(t *testing.T) {
	type seen struct {
		method string
		path   string
	}
	var (
		mu    sync.Mutex
		calls []seen
	)
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		mu.Lock()
		calls = append(calls, seen{method: r.Method, path: r.URL.Path})
		mu.Unlock()
		writeJSON(t, w, http.StatusOK, map[string]any{"success": true})
	})
	ctx := context.Background()

	require.NoError(t, client.CreateOrganization(ctx, OrganizationInput{Name: "Acme"}))
	require.NoError(t, client.UpdateOrganization(ctx, 2, OrganizationInput{Name: "Acme"}))
	require.NoError(t, client.CreateBranchType(ctx, BranchTypeInput{Name: "Retail"}))
	require.NoError(t, client.UpdateBranchType(ctx, 4, BranchTypeInput{Name: "Retail"}))
	require.NoError(t, client.CreateBranch(ctx, BranchInput{Name: "Downtown"}))
	require.NoError(t, client.UpdateBranch(ctx, 9, BranchInput{Name: "Downtown"}))
	require.NoError(t, client.CreateProduct(ctx, ProductInput{Name: "Widget"}))
	require.NoError(t, client.UpdateProduct(ctx, 5, ProductInput{Name: "Widget"}))
	require.NoError(t, client.DeleteProduct(ctx, 5))
	require.NoError(t, client.CreateInvoice(ctx, InvoiceInput{InvoiceNumber: "INV-1"}))

	assert.Equal(t, []seen{
		{http.MethodPost, "/api/organizations"},
		{http.MethodPut, "/api/organizations/2"},
		{http.MethodPost, "/api/branch-types"},
		{http.MethodPut, "/api/branch-types/4"},
		{http.MethodPost, "/api/branches"},
		{http.MethodPut, "/api/branches/9"},
		{http.MethodPost, "/api/products"},
		{http.MethodPut, "/api/products/5"},
		{http.MethodDelete, "/api/products/5"},
		{http.MethodPost, "/api/invoices"},
	}, calls)
}

func TestBranchInputSendsNullBranchType(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		var body map[string]any
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		value, ok := body["branch_type_id"]
		assert.True(t, ok)
		assert.Nil(t, value)
		writeJSON(t, w, http.StatusOK, map[string]any{"success": true})
	})

	require.NoError(t, client.CreateBranch(context.Background(), BranchInput{OrganizationID: 1, Name: "Downtown"}))
}

func TestGetInvoiceReturnsItems(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/invoice/11", r.URL.Path)
		writeJSON(t, w, http.StatusOK, map[string]any{
			"success": true,
			"invoice": map[string]any{"id": 11, "branch_id": 9, "invoice_number": "INV-1", "subtotal": 59.97, "tax_amount": 5.097, "discount": 0, "total_amount": 65.067},
			"items": []map[string]any{
				{"product_id": 5, "product_name": "Widget", "quantity": 3, "unit_price": "19.99", "tax_rate": "8.5", "total": "59.97"},
			},
		})
	})

	detail, err := client.GetInvoice(context.Background(), 11)
	require.NoError(t, err)
	assert.Equal(t, "INV-1", detail.Invoice.InvoiceNumber)
	assert.Equal(t, "5.10", detail.Invoice.TaxAmount.StringFixed(2))
	require.Len(t, detail.Items, 1)
	assert.Equal(t, "Widget", detail.Items[0].ProductName)
	assert.Equal(t, "3", detail.Items[0].Quantity.String())
}

func TestDashboardDecodesTopLevelSummary(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/dashboard/1", r.URL.Path)
		writeJSON(t, w, http.StatusOK, map[string]any{
			"success": true,
			"stats":   map[string]any{"totalBranches": 2, "totalProducts": 10, "totalInvoices": 4, "totalSales": "1234.5"},
			"salesByBranch": []map[string]any{
				{"name": "Downtown", "total": "1000"},
				{"name": "Airport", "total": 234.5},
			},
			"recentInvoices": []map[string]any{
				{"id": 11, "invoice_number": "INV-1", "branch_name": "Downtown", "customer_name": "Jane", "total_amount": "65.07", "created_at": "2024-03-01T10:00:00Z"},
			},
		})
	})

	summary, err := client.Dashboard(context.Background(), 1)
	require.NoError(t, err)
	assert.EqualValues(t, 2, summary.Stats.TotalBranches)
	assert.Equal(t, "1234.50", summary.Stats.TotalSales.StringFixed(2))
	require.Len(t, summary.SalesByBranch, 2)
	assert.Equal(t, "Airport", summary.SalesByBranch[1].Name)
	require.Len(t, summary.RecentInvoices, 1)
	assert.Equal(t, "Jane", summary.RecentInvoices[0].CustomerName)
}

func TestInvoiceCreatedAtFormats(t *testing.T) {
	cases := []struct {
		name string
		raw  any
		want time.Time
	}{
		{"rfc3339", "2024-01-15T10:30:00Z", time.Date(2024, 1, 15, 10, 30, 0, 0, time.UTC)},
		{"rfc3339 with fraction and offset", "2024-01-15T10:30:00.250+02:00", time.Date(2024, 1, 15, 8, 30, 0, 250_000_000, time.UTC)},
		{"sql datetime", "2024-01-15 10:30:00", time.Date(2024, 1, 15, 10, 30, 0, 0, time.UTC)},
		{"date only", "2024-01-15", time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC)},
		{"empty", "", time.Time{}},
		{"null", nil, time.Time{}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				writeJSON(t, w, http.StatusOK, map[string]any{
					"success": true,
					"invoices": []map[string]any{
						{"id": 1, "branch_id": 9, "invoice_number": "INV-1", "total_amount": "10", "created_at": tc.raw},
					},
				})
			})

			invoices, err := client.ListInvoices(context.Background(), 9)
			require.NoError(t, err)
			require.Len(t, invoices, 1)
			assert.True(t, tc.want.Equal(invoices[0].CreatedAt.Time), "got %s", invoices[0].CreatedAt.Time)
			assert.Equal(t, tc.want.IsZero(), invoices[0].CreatedAt.IsZero())
		})
	}
}

func TestDashboardAcceptsSQLTimestamps(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(t, w, http.StatusOK, map[string]any{
			"success": true,
			"stats":   map[string]any{"totalBranches": 1, "totalProducts": 1, "totalInvoices": 1, "totalSales": "10"},
			"recentInvoices": []map[string]any{
				{"id": 11, "invoice_number": "INV-1", "customer_name": "Jane", "total_amount": "10", "created_at": "2024-03-01 09:15:00"},
			},
		})
	})

	summary, err := client.Dashboard(context.Background(), 1)
	require.NoError(t, err)
	require.Len(t, summary.RecentInvoices, 1)
	assert.Equal(t, time.March, summary.RecentInvoices[0].CreatedAt.Month())
	assert.Equal(t, 9, summary.RecentInvoices[0].CreatedAt.Hour())
}

func TestUnrecognisedTimestampFailsDecode(t *testing.T) {
	var ts Timestamp
	assert.Error(t, json.Unmarshal([]byte(`"15/01/2024"`), &ts))
	assert.Error(t, json.Unmarshal([]byte(`12345`), &ts))
}
