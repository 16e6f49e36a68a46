package conceptual

// DrifterID is the data service's identifier for one drifter deployment.
type DrifterID string

func (d DrifterID) String() string {
	return string(d)
}

func (d DrifterID) Empty() bool {
	return d == ""
}
