package model

// Category is one of the four fixed pipeline stages an action moves through.
type Category string

const (
	CategoryTarget    Category = "TARGET"
	CategoryInfluence Category = "INFLUENCE"
	CategorySelect    Category = "SELECT"
	CategoryCommit    Category = "COMMIT"
)

// Categories lists the stages in board order.
var Categories = []Category{CategoryTarget, CategoryInfluence, CategorySelect, CategoryCommit}

// Valid reports whether c is one of the four known stages.
func (c Category) Valid() bool {
	switch c {
	case CategoryTarget, CategoryInfluence, CategorySelect, CategoryCommit:
		return true
	}
	return false
}

// Stage describes one board column: a fixed category plus its display metadata.
type Stage struct {
	ID          Category `json:"id"`
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Color       string   `json:"color"`
}

// SalesAction is a single sales task on the board. Account holds the owning
// user's email domain and is the tenant partition key for actions.
// ActionPathID is empty for actions not parented to any saved path.
type SalesAction struct {
	ID           string   `json:"id"`
	Title        string   `json:"title"`
	Description  string   `json:"description"`
	Category     Category `json:"category"`
	TargetDate   string   `json:"target_date"`
	AssignedTo   string   `json:"assigned_to"`
	Account      string   `json:"account"`
	ActionPathID string   `json:"action_path_id,omitempty"`
	Methodology  string   `json:"methodology,omitempty"`
	Source       string   `json:"source,omitempty"`
	IsDefault    bool     `json:"is_default,omitempty"`
	Tags         []string `json:"tags,omitempty"`
}

// CloneActions returns a deep copy of the given action slice.
func CloneActions(actions []SalesAction) []SalesAction {
	out := make([]SalesAction, len(actions))
	for i, a := range actions {
		out[i] = a
		if a.Tags != nil {
			out[i].Tags = append([]string(nil), a.Tags...)
		}
	}
	return out
}
