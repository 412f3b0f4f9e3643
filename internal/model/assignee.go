package model

// Assignee is a lightweight person record an action can point to. It is not
// a User; it may or may not correspond to one. (Email, CompanyID) is unique.
type Assignee struct {
	ID        string `json:"id"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Email     string `json:"email"`
	Color     string `json:"color"`
	ImageURL  string `json:"image_url,omitempty"`
	CompanyID string `json:"company_id"`
}

// AssigneePatch is a typed partial update for an assignee.
type AssigneePatch struct {
	FirstName *string `json:"first_name,omitempty"`
	LastName  *string `json:"last_name,omitempty"`
	Color     *string `json:"color,omitempty"`
	ImageURL  *string `json:"image_url,omitempty"`
}

// Apply merges the patch into the assignee.
func (pt AssigneePatch) Apply(a *Assignee) {
	if pt.FirstName != nil {
		a.FirstName = *pt.FirstName
	}
	if pt.LastName != nil {
		a.LastName = *pt.LastName
	}
	if pt.Color != nil {
		a.Color = *pt.Color
	}
	if pt.ImageURL != nil {
		a.ImageURL = *pt.ImageURL
	}
}
