// Package seed holds the fixed board stages and the initial catalog, company
// and action data the stores start from when no persisted state exists.
package seed

import "salesboard/internal/model"

// CompanyID is the id of the seeded company.
const CompanyID = "c81d4e2e-bcf2-11e6-869b-7df92533d2db"

// CompanyDomain is the seeded company's email domain.
const CompanyDomain = "7salessteps.com"

// SuperAdminEmail is the one immutable super-admin account.
const SuperAdminEmail = "marius@" + CompanyDomain

// Stages are the four fixed board columns.
var Stages = []model.Stage{
	{
		ID:          model.CategoryTarget,
		Title:       "TARGET",
		Description: "Find Prospects that match your Ideal Customer Profile",
		Color:       "#FF0000",
	},
	{
		ID:          model.CategoryInfluence,
		Title:       "INFLUENCE",
		Description: "Building relationships and understanding needs",
		Color:       "#00B0F0",
	},
	{
		ID:          model.CategorySelect,
		Title:       "SELECT",
		Description: "Solution presentation and evaluation",
		Color:       "#D1D1D1",
	},
	{
		ID:          model.CategoryCommit,
		Title:       "COMMIT",
		Description: "Decision making and closing",
		Color:       "#92D050",
	},
}

// Territories is the initial global territory catalog.
func Territories() []model.Territory {
	return []model.Territory{
		{ID: "northeast", Name: "Northeast", Regions: []string{"ME", "NH", "VT", "MA", "RI", "CT", "NY", "NJ", "PA"}},
		{ID: "midwest", Name: "Midwest", Regions: []string{"OH", "IN", "IL", "MI", "WI", "MN", "IA", "MO", "ND", "SD", "NE", "KS"}},
		{ID: "south", Name: "South", Regions: []string{"DE", "MD", "DC", "VA", "WV", "NC", "SC", "GA", "FL", "KY", "TN", "AL", "MS", "AR", "LA", "OK", "TX"}},
		{ID: "west", Name: "West", Regions: []string{"MT", "ID", "WY", "CO", "NM", "AZ", "UT", "NV", "CA", "OR", "WA", "AK", "HI"}},
		{ID: "canada-east", Name: "Canada East", Regions: []string{"ON", "QC", "NB", "NS", "PE", "NL"}},
		{ID: "canada-west", Name: "Canada West", Regions: []string{"BC", "AB", "SK", "MB", "YT", "NT", "NU"}},
	}
}

// Products is the initial global product catalog.
func Products() []model.Product {
	return []model.Product{
		{ID: "p1", Name: "Sales Intelligence Platform", Description: "AI-powered sales insights and recommendations"},
		{ID: "p2", Name: "Pipeline Management Suite", Description: "Advanced pipeline visualization and analytics"},
		{ID: "p3", Name: "Lead Scoring Engine", Description: "Automated lead qualification and prioritization"},
		{ID: "p4", Name: "Sales Engagement Tools", Description: "Multi-channel communication and tracking"},
		{ID: "p5", Name: "Account Planning Software", Description: "Strategic account management and planning"},
		{ID: "p6", Name: "Sales Analytics Dashboard", Description: "Real-time performance metrics and insights"},
		{ID: "p7", Name: "Sales Training Platform", Description: "Interactive learning and skill development"},
		{ID: "p8", Name: "Deal Room", Description: "Secure document sharing and collaboration"},
		{ID: "p9", Name: "Sales Forecasting Tool", Description: "Predictive analytics for sales forecasting"},
		{ID: "p10", Name: "Customer Success Platform", Description: "Post-sale relationship management"},
	}
}

// InitialActions are the default working-set actions every fresh board
// starts from.
func InitialActions() []model.SalesAction {
	return []model.SalesAction{
		{
			ID:          "t1",
			Title:       "Company Size Analysis",
			Description: "Research employee count, revenue, and market capitalization",
			Category:    model.CategoryTarget,
			TargetDate:  "2024-03-15",
			Account:     CompanyDomain,
			IsDefault:   true,
		},
		{
			ID:          "t2",
			Title:       "Industry Vertical Research",
			Description: "Analyze industry classification, sub-sectors, and market position",
			Category:    model.CategoryTarget,
			TargetDate:  "2024-03-16",
			Account:     CompanyDomain,
			IsDefault:   true,
		},
		{
			ID:          "i1",
			Title:       "Stakeholder Mapping",
			Description: "Identify decision makers, influencers, and champions",
			Category:    model.CategoryInfluence,
			TargetDate:  "2024-03-18",
			Account:     CompanyDomain,
			IsDefault:   true,
		},
		{
			ID:          "s1",
			Title:       "Solution Presentation",
			Description: "Present tailored solution mapped to discovered needs",
			Category:    model.CategorySelect,
			TargetDate:  "2024-03-22",
			Account:     CompanyDomain,
			IsDefault:   true,
		},
		{
			ID:          "c1",
			Title:       "Contract Negotiation",
			Description: "Finalize terms, pricing, and legal review",
			Category:    model.CategoryCommit,
			TargetDate:  "2024-03-28",
			Account:     CompanyDomain,
			IsDefault:   true,
		},
	}
}

// DefaultPath builds the reserved default action path owned by the seed
// company.
func DefaultPath() model.ActionPath {
	actions := InitialActions()
	for i := range actions {
		actions[i].ActionPathID = "default"
	}
	return model.ActionPath{
		ID:               "default",
		Name:             "Default Action Path",
		DealSize:         model.DealEnterprise,
		Territories:      []string{},
		Products:         []string{},
		SalesCycleDays:   30,
		EstimatedValue:   10000,
		ConfidenceFactor: 50,
		Actions:          actions,
		CompanyID:        CompanyID,
		IsDefault:        true,
	}
}

// Company builds the seeded company with its super admin.
func Company() model.Company {
	path := DefaultPath()
	return model.Company{
		ID:           CompanyID,
		Name:         "7SalesSteps",
		Domain:       CompanyDomain,
		LogoURL:      "/7SalesStepsSVG.svg",
		LicenseType:  model.LicenseEnterprise,
		BillingCycle: model.BillingAnnual,
		SalesforceCredentials: &model.SalesforceCredentials{
			URL:           "https://7salessteps.salesforce.com",
			Username:      "admin@" + CompanyDomain,
			Password:      "********",
			SecurityToken: "********",
			APIVersion:    "57.0",
		},
		Users: []model.User{
			{
				Email:        SuperAdminEmail,
				Role:         model.RoleAdmin,
				IsAdmin:      true,
				IsSuperAdmin: true,
				CompanyID:    CompanyID,
				Profile: model.UserProfile{
					FirstName:  "Marius",
					LastName:   "Admin",
					Email:      SuperAdminEmail,
					Department: "Management",
					Color:      "#3B82F6",
				},
			},
		},
		DefaultActionPath: &path,
	}
}
