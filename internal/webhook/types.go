// Package webhook turns Cloud API callback envelopes into stored
// conversation turns and relayed replies.
package webhook

import (
	"context"

	"github.com/waroutehq/waroute/internal/conversation"
	"github.com/waroutehq/waroute/internal/gateway"
	"github.com/waroutehq/waroute/internal/tenant"
	"github.com/waroutehq/waroute/internal/whatsapp"
)

// TenantResolver maps a business phone number id to the tenants bound to it.
// Used once per change batch.
type TenantResolver interface {
	ResolveByPhoneNumberID(ctx context.Context, phoneNumberID string) ([]tenant.Tenant, error)
}

// Store is the conversation persistence the processor needs.
type Store interface {
	UpsertContact(ctx context.Context, params conversation.UpsertContactParams) (conversation.Contact, error)
	AppendMessage(ctx context.Context, params conversation.AppendMessageParams) (conversation.Message, error)
	RecentHistory(ctx context.Context, chatbotID, conversationID string, limit int) ([]conversation.HistoryEntry, error)
	UpdateDeliveryStatus(ctx context.Context, chatbotID, providerMessageID, status string) (bool, error)
}

// Responder relays one user turn to the response gateway.
type Responder interface {
	Respond(ctx context.Context, req gateway.Request) (gateway.Reply, error)
}

// Sender delivers outbound text through the Cloud API.
type Sender interface {
	SendText(ctx context.Context, phoneNumberID, accessToken, to, text string) (whatsapp.SendResult, error)
}

// APIKeySource looks up the gateway credential for a chatbot.
type APIKeySource interface {
	APIKey(ctx context.Context, chatbotID string) (string, error)
}

// outcome classifies how processing one inbound message ended.
type outcome string

const (
	// outcomeReplied: the gateway answered and the reply round completed.
	outcomeReplied outcome = "replied"
	// outcomeStored: persisted but not forwardable, no reply owed.
	outcomeStored outcome = "stored"
	// outcomeSkipped: nothing persisted, the message projected to empty text.
	outcomeSkipped outcome = "skipped"
	// outcomeFatal: no usable chatbot credential, nothing sent to the user.
	outcomeFatal outcome = "fatal"
	// outcomeGateway: the gateway failed, the user got the gateway apology.
	outcomeGateway outcome = "gateway_failed"
	// outcomeInternal: a pipeline step failed, the user got the generic apology.
	outcomeInternal outcome = "internal_error"
)

// Fixed user-facing texts sent when a reply cannot be produced. The end
// user never sees internal error detail beyond these.
const (
	apologyGateway  = "I'm sorry, I'm having trouble processing your message right now. Please try again later."
	apologyInternal = "I'm sorry, something went wrong. Please try again later."
)
