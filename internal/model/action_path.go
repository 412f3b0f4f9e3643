package model

// DealSize buckets an opportunity by expected contract size.
type DealSize string

const (
	DealSmall      DealSize = "SMALL"
	DealMedium     DealSize = "MEDIUM"
	DealEnterprise DealSize = "ENTERPRISE"
)

// DealSizes lists the selectable deal sizes.
var DealSizes = []DealSize{DealSmall, DealMedium, DealEnterprise}

// Territory is a reusable sales-territory catalog entry. CompanyID is empty
// for global entries; a company-owned entry is only deletable by its owner.
type Territory struct {
	ID        string   `json:"id"`
	Name      string   `json:"name"`
	Regions   []string `json:"regions"`
	CompanyID string   `json:"company_id,omitempty"`
}

// Product is a reusable product catalog entry, optionally company-owned.
type Product struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	CompanyID   string `json:"company_id,omitempty"`
}

// ActionPath is a named pipeline of actions plus deal metadata. Actions are
// embedded copies owned by the path, never shared references.
type ActionPath struct {
	ID               string        `json:"id"`
	Name             string        `json:"name"`
	DealSize         DealSize      `json:"deal_size"`
	Territories      []string      `json:"territories"`
	Products         []string      `json:"products"`
	SalesCycleDays   int           `json:"sales_cycle_days"`
	EstimatedValue   float64       `json:"estimated_value"`
	ConfidenceFactor int           `json:"confidence_factor"`
	Actions          []SalesAction `json:"actions"`
	CompanyID        string        `json:"company_id,omitempty"`
	IsDefault        bool          `json:"is_default,omitempty"`
}

// Clone returns a deep copy of the path, including its actions.
func (p ActionPath) Clone() ActionPath {
	out := p
	out.Territories = append([]string(nil), p.Territories...)
	out.Products = append([]string(nil), p.Products...)
	out.Actions = CloneActions(p.Actions)
	return out
}

// ActionPathPatch is a typed partial update for an action path. Nil fields
// are left untouched by the merge.
type ActionPathPatch struct {
	Name             *string        `json:"name,omitempty"`
	DealSize         *DealSize      `json:"deal_size,omitempty"`
	Territories      *[]string      `json:"territories,omitempty"`
	Products         *[]string      `json:"products,omitempty"`
	SalesCycleDays   *int           `json:"sales_cycle_days,omitempty"`
	EstimatedValue   *float64       `json:"estimated_value,omitempty"`
	ConfidenceFactor *int           `json:"confidence_factor,omitempty"`
	Actions          *[]SalesAction `json:"actions,omitempty"`
}

// Apply merges the patch into the path.
func (pt ActionPathPatch) Apply(p *ActionPath) {
	if pt.Name != nil {
		p.Name = *pt.Name
	}
	if pt.DealSize != nil {
		p.DealSize = *pt.DealSize
	}
	if pt.Territories != nil {
		p.Territories = append([]string(nil), (*pt.Territories)...)
	}
	if pt.Products != nil {
		p.Products = append([]string(nil), (*pt.Products)...)
	}
	if pt.SalesCycleDays != nil {
		p.SalesCycleDays = *pt.SalesCycleDays
	}
	if pt.EstimatedValue != nil {
		p.EstimatedValue = *pt.EstimatedValue
	}
	if pt.ConfidenceFactor != nil {
		p.ConfidenceFactor = *pt.ConfidenceFactor
	}
	if pt.Actions != nil {
		p.Actions = CloneActions(*pt.Actions)
	}
}

// TerritoryPatch is a typed partial update for a territory.
type TerritoryPatch struct {
	Name    *string   `json:"name,omitempty"`
	Regions *[]string `json:"regions,omitempty"`
}

// Apply merges the patch into the territory.
func (pt TerritoryPatch) Apply(t *Territory) {
	if pt.Name != nil {
		t.Name = *pt.Name
	}
	if pt.Regions != nil {
		t.Regions = append([]string(nil), (*pt.Regions)...)
	}
}

// ProductPatch is a typed partial update for a product.
type ProductPatch struct {
	Name        *string `json:"name,omitempty"`
	Description *string `json:"description,omitempty"`
}

// Apply merges the patch into the product.
func (pt ProductPatch) Apply(p *Product) {
	if pt.Name != nil {
		p.Name = *pt.Name
	}
	if pt.Description != nil {
		p.Description = *pt.Description
	}
}
