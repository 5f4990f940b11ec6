package webhook

import (
	"context"
	"errors"
	"log/slog"
	"runtime/debug"
	"strconv"
	"strings"
	"time"

	"github.com/waroutehq/waroute/internal/chatbot"
	"github.com/waroutehq/waroute/internal/conversation"
	"github.com/waroutehq/waroute/internal/gateway"
	"github.com/waroutehq/waroute/internal/metrics"
	"github.com/waroutehq/waroute/internal/tenant"
	"github.com/waroutehq/waroute/internal/whatsapp"
)

// Processor walks callback envelopes and runs the per-tenant pipeline:
// contact upsert, inbound persist, gateway relay, reply delivery.
type Processor struct {
	tenants TenantResolver
	store   Store
	gateway Responder
	sender  Sender
	keys    APIKeySource
	metrics *metrics.Metrics

	historyLimit int
	logger       *slog.Logger
}

func NewProcessor(
	log *slog.Logger,
	tenants TenantResolver,
	store Store,
	responder Responder,
	sender Sender,
	keys APIKeySource,
	m *metrics.Metrics,
	historyLimit int,
) *Processor {
	if log == nil {
		log = slog.Default()
	}
	return &Processor{
		tenants:      tenants,
		store:        store,
		gateway:      responder,
		sender:       sender,
		keys:         keys,
		metrics:      m,
		historyLimit: historyLimit,
		logger:       log.With(slog.String("service", "webhook")),
	}
}

// Process handles one callback envelope. It runs after the HTTP
// acknowledgment has been written, so failures are logged and absorbed
// here rather than surfaced to the provider.
func (p *Processor) Process(ctx context.Context, envelope whatsapp.Envelope) {
	for _, entry := range envelope.Entry {
		for _, change := range entry.Changes {
			p.processChange(ctx, change)
		}
	}
}

func (p *Processor) processChange(ctx context.Context, change whatsapp.Change) {
	switch change.Field {
	case whatsapp.FieldMessages:
	case whatsapp.FieldTemplateStatus:
		p.logger.Info("template status update",
			slog.String("phone_number_id", change.Value.Metadata.PhoneNumberID))
		return
	default:
		p.logger.Info("ignoring webhook field", slog.String("field", change.Field))
		return
	}

	phoneNumberID := strings.TrimSpace(change.Value.Metadata.PhoneNumberID)
	if phoneNumberID == "" {
		p.logger.Warn("change batch missing phone number id")
		return
	}

	tenants, err := p.tenants.ResolveByPhoneNumberID(ctx, phoneNumberID)
	if err != nil {
		p.logger.Error("tenant resolution failed",
			slog.String("phone_number_id", phoneNumberID),
			slog.Any("error", err))
		return
	}
	if len(tenants) == 0 {
		p.logger.Warn("no active tenant for phone number id",
			slog.String("phone_number_id", phoneNumberID))
		return
	}

	// A phone number shared by several tenants fans out: each tenant handles
	// the batch on its own, and messages stay in array order within a tenant
	// so conversation turns never interleave.
	for _, tn := range tenants {
		for _, msg := range change.Value.Messages {
			out := p.processMessage(ctx, tn, change.Value, msg)
			p.logger.Info("message processed",
				slog.String("chatbot_id", tn.ChatbotID),
				slog.String("whatsapp_message_id", msg.ID),
				slog.String("outcome", string(out)))
		}
		for _, status := range change.Value.Statuses {
			p.processStatus(ctx, tn, status)
		}
	}
}

func (p *Processor) processMessage(ctx context.Context, tn tenant.Tenant, value whatsapp.Value, msg whatsapp.Message) (out outcome) {
	text, forward := whatsapp.ProjectContent(msg)
	text = strings.TrimSpace(text)
	if text == "" {
		p.logger.Warn("message projected to empty text",
			slog.String("chatbot_id", tn.ChatbotID),
			slog.String("type", msg.Type),
			slog.String("whatsapp_message_id", msg.ID))
		return outcomeSkipped
	}
	p.metrics.ObserveMessage(msg.Type, forward)

	from := strings.TrimSpace(msg.From)

	// One contact's failure must never take down sibling messages or
	// tenants from the same delivery.
	defer func() {
		if r := recover(); r != nil {
			p.logger.Error("panic while processing message",
				slog.String("chatbot_id", tn.ChatbotID),
				slog.Any("panic", r),
				slog.String("stack", string(debug.Stack())))
			p.apologize(ctx, tn, from, apologyInternal)
			out = outcomeInternal
		}
	}()

	name := displayName(value.Contacts, from)
	if _, err := p.store.UpsertContact(ctx, conversation.UpsertContactParams{
		ChatbotID:   tn.ChatbotID,
		PhoneNumber: from,
		DisplayName: name,
		SeenAt:      parseTimestamp(msg.Timestamp),
		MessageID:   msg.ID,
	}); err != nil {
		p.logger.Error("contact upsert failed",
			slog.String("chatbot_id", tn.ChatbotID),
			slog.String("from", from),
			slog.Any("error", err))
		p.apologize(ctx, tn, from, apologyInternal)
		return outcomeInternal
	}

	marker := conversation.Marker(from, tn.ChatbotID)
	if _, err := p.store.AppendMessage(ctx, conversation.AppendMessageParams{
		ChatbotID:      tn.ChatbotID,
		ConversationID: marker,
		Role:           conversation.RoleUser,
		Content:        text,
		Metadata: map[string]any{
			"whatsapp_message_id": msg.ID,
			"whatsapp_type":       msg.Type,
		},
	}); err != nil {
		p.logger.Error("inbound message persist failed",
			slog.String("chatbot_id", tn.ChatbotID),
			slog.String("from", from),
			slog.Any("error", err))
		p.apologize(ctx, tn, from, apologyInternal)
		return outcomeInternal
	}

	if !forward {
		return outcomeStored
	}

	apiKey, err := p.keys.APIKey(ctx, tn.ChatbotID)
	if err != nil {
		if errors.Is(err, chatbot.ErrChatbotNotFound) || errors.Is(err, chatbot.ErrAPIKeyMissing) {
			p.logger.Error("no usable api key for chatbot",
				slog.String("chatbot_id", tn.ChatbotID),
				slog.Any("error", err))
			return outcomeFatal
		}
		p.logger.Error("api key lookup failed",
			slog.String("chatbot_id", tn.ChatbotID),
			slog.Any("error", err))
		p.apologize(ctx, tn, from, apologyInternal)
		return outcomeInternal
	}

	history, err := p.store.RecentHistory(ctx, tn.ChatbotID, marker, p.historyLimit)
	if err != nil {
		p.logger.Error("history fetch failed",
			slog.String("chatbot_id", tn.ChatbotID),
			slog.String("conversation_id", marker),
			slog.Any("error", err))
		p.apologize(ctx, tn, from, apologyInternal)
		return outcomeInternal
	}

	start := time.Now()
	reply, err := p.gateway.Respond(ctx, gateway.Request{
		Query:       text,
		History:     history,
		APIKey:      apiKey,
		ChatbotID:   tn.ChatbotID,
		PhoneNumber: from,
		DisplayName: name,
	})
	elapsed := time.Since(start)
	if err != nil {
		p.metrics.ObserveGatewayRequest("error", elapsed)
		p.logger.Error("gateway call failed",
			slog.String("chatbot_id", tn.ChatbotID),
			slog.String("from", from),
			slog.Any("error", err))
		p.apologize(ctx, tn, from, apologyGateway)
		return outcomeGateway
	}

	answer := strings.TrimSpace(reply.Answer)
	if answer == "" {
		p.metrics.ObserveGatewayRequest("empty", elapsed)
		p.logger.Error("gateway returned empty answer",
			slog.String("chatbot_id", tn.ChatbotID),
			slog.String("from", from))
		p.apologize(ctx, tn, from, apologyGateway)
		return outcomeGateway
	}
	p.metrics.ObserveGatewayRequest("ok", elapsed)

	sendResult, sendErr := p.sender.SendText(ctx, tn.PhoneNumberID, tn.AccessToken, from, answer)
	if sendErr != nil {
		p.metrics.ObserveDelivery("error")
		p.logger.Error("reply delivery failed",
			slog.String("chatbot_id", tn.ChatbotID),
			slog.String("from", from),
			slog.Any("error", sendErr))
	} else {
		p.metrics.ObserveDelivery("ok")
	}

	meta := map[string]any{"latency_ms": reply.LatencyMS}
	if sendResult.MessageID != "" {
		meta["whatsapp_message_id"] = sendResult.MessageID
	}
	if _, err := p.store.AppendMessage(ctx, conversation.AppendMessageParams{
		ChatbotID:      tn.ChatbotID,
		ConversationID: marker,
		Role:           conversation.RoleAssistant,
		Content:        answer,
		Citations:      reply.Citations,
		Metadata:       meta,
	}); err != nil {
		p.logger.Error("assistant message persist failed",
			slog.String("chatbot_id", tn.ChatbotID),
			slog.String("conversation_id", marker),
			slog.Any("error", err))
		p.apologize(ctx, tn, from, apologyInternal)
		return outcomeInternal
	}

	return outcomeReplied
}

// processStatus records one delivery transition. Everything here is
// best-effort telemetry: lookup misses and persistence failures are logged
// and swallowed.
func (p *Processor) processStatus(ctx context.Context, tn tenant.Tenant, status whatsapp.Status) {
	p.metrics.ObserveStatusUpdate(status.Status)
	p.logger.Info("delivery status",
		slog.String("chatbot_id", tn.ChatbotID),
		slog.String("whatsapp_message_id", status.ID),
		slog.String("status", status.Status))
	if status.Status == "failed" && len(status.Errors) > 0 {
		first := status.Errors[0]
		p.logger.Error("delivery reported failed",
			slog.String("chatbot_id", tn.ChatbotID),
			slog.String("whatsapp_message_id", status.ID),
			slog.Int("code", first.Code),
			slog.String("title", first.Title))
	}

	updated, err := p.store.UpdateDeliveryStatus(ctx, tn.ChatbotID, status.ID, status.Status)
	if err != nil {
		p.logger.Warn("delivery status update failed",
			slog.String("chatbot_id", tn.ChatbotID),
			slog.String("whatsapp_message_id", status.ID),
			slog.Any("error", err))
		return
	}
	if !updated {
		p.logger.Debug("delivery status for unknown message",
			slog.String("chatbot_id", tn.ChatbotID),
			slog.String("whatsapp_message_id", status.ID))
	}
}

// apologize sends a fixed fallback text to the contact. A failure to send
// it is logged and absorbed.
func (p *Processor) apologize(ctx context.Context, tn tenant.Tenant, to, text string) {
	if strings.TrimSpace(to) == "" {
		return
	}
	if _, err := p.sender.SendText(ctx, tn.PhoneNumberID, tn.AccessToken, to, text); err != nil {
		p.metrics.ObserveDelivery("error")
		p.logger.Error("apology delivery failed",
			slog.String("chatbot_id", tn.ChatbotID),
			slog.Any("error", err))
		return
	}
	p.metrics.ObserveDelivery("ok")
}

// displayName picks the profile name reported for the sender, falling back
// to the first contact in the batch.
func displayName(contacts []whatsapp.Contact, from string) string {
	for _, c := range contacts {
		if c.WaID == from && strings.TrimSpace(c.Profile.Name) != "" {
			return strings.TrimSpace(c.Profile.Name)
		}
	}
	if len(contacts) > 0 {
		return strings.TrimSpace(contacts[0].Profile.Name)
	}
	return ""
}

// parseTimestamp converts the provider's unix-seconds string. The zero time
// lets the store fall back to its own clock.
func parseTimestamp(value string) time.Time {
	sec, err := strconv.ParseInt(strings.TrimSpace(value), 10, 64)
	if err != nil || sec <= 0 {
		return time.Time{}
	}
	return time.Unix(sec, 0).UTC()
}
