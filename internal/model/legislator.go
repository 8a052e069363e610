package model

// Legislator represents an elected official residents can contact
type Legislator struct {
	ID       string  `json:"id"`
	Name     string  `json:"name"`
	Party    string  `json:"party"`
	State    string  `json:"state"`
	District *string `json:"district"` // nil for statewide and executive offices
	Chamber  string  `json:"chamber"`
	Title    string  `json:"title,omitempty"`
	Phone    string  `json:"phone,omitempty"`
	Email    string  `json:"email,omitempty"`
	Website  string  `json:"website,omitempty"`
	Office   string  `json:"office,omitempty"`
	ImageURL string  `json:"imageUrl,omitempty"`
}

// Clone returns a copy that does not share the district pointer
func (l Legislator) Clone() Legislator {
	if l.District != nil {
		d := *l.District
		l.District = &d
	}
	return l
}
