// Command seed fills a running invoicing API with a demo account: one
// organization, a branch type, two branches, a product catalog and a few
// invoices, all created through the same client the dashboard uses.
package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"

	"github.com/branchdesk/branchdesk/internal/apiclient"
	"github.com/branchdesk/branchdesk/internal/billing"
	"github.com/branchdesk/branchdesk/internal/invoices"
)

type seedProduct struct {
	name  string
	price string
	tax   string
	stock int64
	unit  string
}

var catalog = []seedProduct{
	{"Espresso beans 1kg", "24.50", "8.5", 120, "bag"},
	{"Milk frother", "39.99", "8.5", 15, "pcs"},
	{"Paper cups (50)", "6.25", "0", 400, "pack"},
	{"Gift card", "25.00", "0", 1000, "pcs"},
}

func main() {
	_ = godotenv.Load()
	baseURL := getenv("API_BASE_URL", "http://localhost:3000/api")
	username := getenv("SEED_USERNAME", "demo")
	password := getenv("SEED_PASSWORD", "demo1234")

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()
	api := apiclient.NewClient(baseURL, 30*time.Second)

	fmt.Println("→ Registering demo user...")
	err := api.Register(ctx, apiclient.Registration{
		Username: username,
		Email:    username + "@example.com",
		FullName: "Demo Owner",
		Password: password,
	})
	if err != nil && !apiclient.IsAPIError(err) {
		log.Fatalf("register: %v", err)
	}
	user, err := api.Login(ctx, apiclient.Credentials{Username: username, Password: password})
	if err != nil {
		log.Fatalf("login: %v", err)
	}

	fmt.Println("→ Seeding organization...")
	org, err := seedOrganization(ctx, api, user.ID)
	if err != nil {
		log.Fatalf("seed organization: %v", err)
	}

	fmt.Println("→ Seeding branches...")
	branches, err := seedBranches(ctx, api, org.ID)
	if err != nil {
		log.Fatalf("seed branches: %v", err)
	}

	for _, branch := range branches {
		fmt.Printf("→ Seeding catalog and invoices for %s...\n", branch.Name)
		products, err := seedProducts(ctx, api, branch.ID)
		if err != nil {
			log.Fatalf("seed products: %v", err)
		}
		if err := seedInvoices(ctx, api, branch, products); err != nil {
			log.Fatalf("seed invoices: %v", err)
		}
	}

	fmt.Println("✓ Seed complete at", time.Now().Format(time.RFC3339))
}

func seedOrganization(ctx context.Context, api *apiclient.Client, userID int64) (apiclient.Organization, error) {
	const name = "Demo Coffee Co."
	if org, ok, err := findOrganization(ctx, api, userID, name); err != nil || ok {
		return org, err
	}
	err := api.CreateOrganization(ctx, apiclient.OrganizationInput{
		UserID:  userID,
		Name:    name,
		Address: "1 Roastery Lane",
		Phone:   "555-0100",
		Email:   "hello@democoffee.example",
		TaxID:   "TX-0001",
	})
	if err != nil {
		return apiclient.Organization{}, err
	}
	org, ok, err := findOrganization(ctx, api, userID, name)
	if err == nil && !ok {
		err = errors.New("organization missing after create")
	}
	return org, err
}

func findOrganization(ctx context.Context, api *apiclient.Client, userID int64, name string) (apiclient.Organization, bool, error) {
	orgs, err := api.ListOrganizations(ctx, userID)
	if err != nil {
		return apiclient.Organization{}, false, err
	}
	for _, org := range orgs {
		if org.Name == name {
			return org, true, nil
		}
	}
	return apiclient.Organization{}, false, nil
}

func seedBranches(ctx context.Context, api *apiclient.Client, orgID int64) ([]apiclient.Branch, error) {
	types, err := api.ListBranchTypes(ctx, orgID)
	if err != nil {
		return nil, err
	}
	if len(types) == 0 {
		err := api.CreateBranchType(ctx, apiclient.BranchTypeInput{
			OrganizationID: orgID,
			Name:           "Retail",
			Description:    "Walk-in shops",
		})
		if err != nil {
			return nil, err
		}
		if types, err = api.ListBranchTypes(ctx, orgID); err != nil {
			return nil, err
		}
	}
	var typeID *int64
	if len(types) > 0 {
		typeID = &types[0].ID
	}

	existing, err := api.ListBranches(ctx, orgID)
	if err != nil {
		return nil, err
	}
	if len(existing) > 0 {
		return existing, nil
	}
	seeds := []apiclient.BranchInput{
		{Name: "Downtown", Address: "10 Main St", Phone: "555-0110", BillColor: "#1f4e79", BillFont: "Georgia"},
		{Name: "Harbor", Address: "2 Pier Rd", Phone: "555-0120", BillColor: "#2e7d32", BillFont: "Arial"},
	}
	for _, in := range seeds {
		in.OrganizationID = orgID
		in.BranchTypeID = typeID
		in.Email = strings.ToLower(in.Name) + "@democoffee.example"
		if err := api.CreateBranch(ctx, in); err != nil {
			return nil, err
		}
	}
	return api.ListBranches(ctx, orgID)
}

func seedProducts(ctx context.Context, api *apiclient.Client, branchID int64) ([]apiclient.Product, error) {
	existing, err := api.ListProducts(ctx, branchID)
	if err != nil || len(existing) > 0 {
		return existing, err
	}
	for _, p := range catalog {
		err := api.CreateProduct(ctx, apiclient.ProductInput{
			BranchID:      branchID,
			Name:          p.name,
			Price:         decimal.RequireFromString(p.price).InexactFloat64(),
			TaxRate:       decimal.RequireFromString(p.tax).InexactFloat64(),
			StockQuantity: p.stock,
			Unit:          p.unit,
		})
		if err != nil {
			return nil, fmt.Errorf("%s: %w", p.name, err)
		}
	}
	return api.ListProducts(ctx, branchID)
}

func seedInvoices(ctx context.Context, api *apiclient.Client, branch apiclient.Branch, products []apiclient.Product) error {
	existing, err := api.ListInvoices(ctx, branch.ID)
	if err != nil || len(existing) > 0 || len(products) == 0 {
		return err
	}
	customers := []billing.Customer{
		{Name: "Ada Park", Email: "ada@example.com", Phone: "555-0200"},
		{Name: "Ben Ortiz", Address: "44 Elm St"},
		{Name: "Cafe Nord", Email: "orders@cafenord.example"},
	}
	now := time.Now()
	for i, customer := range customers {
		draft := billing.NewDraft(branch.ID, fmt.Sprintf("%s-%d", billing.InvoiceNumber(now), i+1))
		draft.Customer = customer
		for j := 0; j <= i && j < len(products); j++ {
			if j > 0 {
				draft.AddLine()
			}
			p := products[j]
			if err := draft.SetProduct(j, &billing.ProductSnapshot{
				ProductID: p.ID,
				Name:      p.Name,
				UnitPrice: p.Price,
				TaxRate:   p.TaxRate,
			}); err != nil {
				return err
			}
			if err := draft.SetQuantity(j, i+j+1); err != nil {
				return err
			}
		}
		if i == 2 {
			draft.SetDiscount(decimal.NewFromInt(5))
		}
		if err := api.CreateInvoice(ctx, invoices.Submission(draft, draft.Totals())); err != nil {
			return fmt.Errorf("%s: %w", draft.InvoiceNumber, err)
		}
	}
	return nil
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
