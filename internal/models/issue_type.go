package models

// IssueType is a catalog entry for the free-text issue recorded on a registration.
type IssueType struct {
	ID          int64  `db:"id" json:"id"`
	Description string `db:"description" json:"description"`
}
