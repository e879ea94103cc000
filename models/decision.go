package models

// Action is the presentation transform chosen for one item.
type Action int

const (
	ActionShow Action = iota
	ActionObscure
	ActionDrop
	ActionPurify
)

func (a Action) String() string {
	switch a {
	case ActionShow:
		return "show"
	case ActionObscure:
		return "obscure"
	case ActionDrop:
		return "drop"
	case ActionPurify:
		return "purify"
	default:
		return "unknown"
	}
}

// Decision is the per-item outcome of the filter.
type Decision struct {
	ItemID int64    `json:"item_id"`
	Action Action   `json:"action"`
	Spans  []string `json:"spans,omitempty"`
	// Flagged marks a purify match so the presentation layer can show a "keyword found" badge,
	// including the case where no span could be masked and Action is ActionShow.
	Flagged bool `json:"flagged,omitempty"`
}
