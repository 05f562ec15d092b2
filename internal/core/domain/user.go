package domain

// EmploymentType distinguishes staff from contractors. It does not affect currency.
type EmploymentType string

const (
	EmploymentPermanent  EmploymentType = "permanent"
	EmploymentFreelancer EmploymentType = "freelancer"
)

// User is the slice of the identity/user directory the workflow needs.
type User struct {
	UserID         string          `json:"userID"`
	Name           string          `json:"name"`
	Email          string          `json:"email"`
	Role           Role            `json:"role"`
	HODID          *string         `json:"hodID,omitempty"`
	EmploymentType EmploymentType  `json:"employmentType"`
	Classification EmploymentClass `json:"classification"`
	Currency       Currency        `json:"currency"`
	AuditFields
}
