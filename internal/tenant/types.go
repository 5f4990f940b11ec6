package tenant

import "time"

const (
	StatusActive   = "active"
	StatusInactive = "inactive"
)

// Tenant is one WhatsApp Cloud API integration: a provider phone number
// bound to a chatbot, plus the credentials needed to send on its behalf.
// VerifyToken and AccessToken never leave the process over HTTP.
type Tenant struct {
	ID                string    `json:"id,omitempty"`
	ChatbotID         string    `json:"chatbot_id"`
	PhoneNumberID     string    `json:"phone_number_id"`
	PhoneNumber       string    `json:"phone_number,omitempty"`
	VerifyToken       string    `json:"-"`
	AccessToken       string    `json:"-"`
	BusinessAccountID string    `json:"business_account_id,omitempty"`
	Status            string    `json:"status"`
	Fallback          bool      `json:"fallback,omitempty"`
	CreatedAt         time.Time `json:"created_at"`
	UpdatedAt         time.Time `json:"updated_at"`
}

// ListTenantsResponse wraps the ops listing endpoint payload.
type ListTenantsResponse struct {
	Items []Tenant `json:"items"`
}
