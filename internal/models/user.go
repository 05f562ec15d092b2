package models

// User is a row of the users table.
type User struct {
	UserID         string  `db:"user_id"`
	Name           string  `db:"name"`
	Email          string  `db:"email"`
	Role           string  `db:"role"`
	HODID          *string `db:"hod_id"`
	EmploymentType string  `db:"employment_type"`
	Classification string  `db:"classification"`
	Currency       string  `db:"currency"`
	AuditFields
}
