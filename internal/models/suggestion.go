package models

// ContentSuggestion is one proposed post idea from the suggestion agent
type ContentSuggestion struct {
	Title     string   `json:"title"`
	Intent    string   `json:"intent"`
	Platform  Platform `json:"platform"`
	Category  string   `json:"category"` // trending, evergreen, engagement, promotion
	Urgency   string   `json:"urgency"`  // now, this_week, this_month, anytime
	Reasoning string   `json:"reasoning"`
}
