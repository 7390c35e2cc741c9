package dto

// CreateIssueTypeRequest defines the payload for a new issue catalog entry.
type CreateIssueTypeRequest struct {
	Description string `json:"description" validate:"required,max=200"`
}

// UpdateIssueTypeRequest replaces an issue type description.
type UpdateIssueTypeRequest struct {
	Description string `json:"description" validate:"required,max=200"`
}

// AssignIssueRequest records an issue against a registration.
type AssignIssueRequest struct {
	IssueDescription string `json:"issue_description" validate:"required,max=200"`
}

// MemoRequest records a free-text note against a registration.
type MemoRequest struct {
	Memo string `json:"memo" validate:"required,max=1000"`
}

// RegistrationIssueResponse is the issue and note currently attached to a registration.
type RegistrationIssueResponse struct {
	RegistrationID string  `json:"registration_id"`
	StudentID      string  `json:"student_id"`
	Name           string  `json:"name"`
	IssueType      *string `json:"issue_type"`
	Note           *string `json:"note"`
}
