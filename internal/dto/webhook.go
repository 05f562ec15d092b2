package dto

// SignatureWebhookRequest is posted by the e-signature provider when an employee finishes signing.
type SignatureWebhookRequest struct {
	UserID      string  `json:"userID" binding:"required"`
	SignatureID string  `json:"signatureID" binding:"required"`
	RequestID   *string `json:"requestID"`
}

// SignatureWebhookResponse tells the provider whether anything changed.
type SignatureWebhookResponse struct {
	Applied   bool    `json:"applied"`
	RequestID *string `json:"requestID,omitempty"`
}
