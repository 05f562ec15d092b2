package domain

import "time"

// Notification is an in-app message for one user.
type Notification struct {
	NotificationID string     `json:"notificationID"`
	UserID         string     `json:"userID"`
	Title          string     `json:"title"`
	Message        string     `json:"message"`
	ActionURL      string     `json:"actionURL"`
	ReadAt         *time.Time `json:"readAt,omitempty"`
	CreatedAt      time.Time  `json:"createdAt"`
}

// EmailAttachment is a file carried with an email.
type EmailAttachment struct {
	Filename    string
	ContentType string
	Data        []byte
}

// EmailMessage is an outbound email.
type EmailMessage struct {
	To          []string
	Subject     string
	HTMLBody    string
	Attachments []EmailAttachment
}
