package domain

// Space is a bookable desk or room. Availability is toggled by administrators only.
type Space struct {
	ID        string
	Name      string
	Type      string
	Capacity  int
	Equipment []string
	Available bool
}
