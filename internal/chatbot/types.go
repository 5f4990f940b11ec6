package chatbot

import "time"

// Chatbot represents one AI assistant reachable through the response
// gateway. The API key is a credential and only ever surfaces through
// Service.APIKey.
type Chatbot struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// ListChatbotsResponse wraps a list of chatbots.
type ListChatbotsResponse struct {
	Items []Chatbot `json:"items"`
}
