package model

// Tag is a label/color pair actions can reference. Name is unique
// case-insensitively within a company.
type Tag struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Color     string `json:"color"`
	CompanyID string `json:"company_id"`
}

// TagPatch is a typed partial update for a tag.
type TagPatch struct {
	Name  *string `json:"name,omitempty"`
	Color *string `json:"color,omitempty"`
}

// Apply merges the patch into the tag.
func (pt TagPatch) Apply(t *Tag) {
	if pt.Name != nil {
		t.Name = *pt.Name
	}
	if pt.Color != nil {
		t.Color = *pt.Color
	}
}
