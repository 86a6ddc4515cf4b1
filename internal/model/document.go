package model

// MembersDocument is the persisted staff list.
type MembersDocument struct {
	Employees []string `json:"employees"`
}

// MonthsDocument is the persisted roster of every month ever activated.
type MonthsDocument struct {
	Months Months `json:"months"`
}

// ConsiderationsDocument is the persisted set of month notes.
type ConsiderationsDocument struct {
	Months ConsiderationBook `json:"months"`
}

// Document names used by the stores.
const (
	DocumentMembers        = "members"
	DocumentMonths         = "months"
	DocumentConsiderations = "considerations"
)
