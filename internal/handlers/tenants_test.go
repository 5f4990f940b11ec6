package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/waroutehq/waroute/internal/conversation"
	"github.com/waroutehq/waroute/internal/tenant"
)

type fakeTenantDirectory struct {
	tenants []tenant.Tenant
	getErr  error
}

func (f *fakeTenantDirectory) List(context.Context) ([]tenant.Tenant, error) {
	return f.tenants, nil
}

func (f *fakeTenantDirectory) Get(_ context.Context, tenantID string) (tenant.Tenant, error) {
	if f.getErr != nil {
		return tenant.Tenant{}, f.getErr
	}
	for _, tn := range f.tenants {
		if tn.ID == tenantID {
			return tn, nil
		}
	}
	return tenant.Tenant{}, tenant.ErrNoTenant
}

type fakeMessageReader struct {
	messages []conversation.Message
	chatbots []string
	limits   []int
}

func (f *fakeMessageReader) RecentByChatbot(_ context.Context, chatbotID string, limit int) ([]conversation.Message, error) {
	f.chatbots = append(f.chatbots, chatbotID)
	f.limits = append(f.limits, limit)
	return f.messages, nil
}

func TestListTenantsRedactsCredentials(t *testing.T) {
	directory := &fakeTenantDirectory{tenants: []tenant.Tenant{{
		ID:            "11111111-1111-1111-1111-111111111111",
		ChatbotID:     "22222222-2222-2222-2222-222222222222",
		PhoneNumberID: "106540352242922",
		VerifyToken:   "verify-secret",
		AccessToken:   "access-secret",
		Status:        tenant.StatusActive,
	}}}
	h := NewTenantHandler(nil, directory, &fakeMessageReader{})

	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/tenants", nil)
	rec := httptest.NewRecorder()
	if err := h.ListTenants(e.NewContext(req, rec)); err != nil {
		t.Fatalf("list tenants failed: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("unexpected status: %d", rec.Code)
	}
	body := rec.Body.String()
	if strings.Contains(body, "verify-secret") || strings.Contains(body, "access-secret") {
		t.Fatalf("credentials leaked into response: %s", body)
	}
	var resp tenant.ListTenantsResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if len(resp.Items) != 1 || resp.Items[0].PhoneNumberID != "106540352242922" {
		t.Fatalf("unexpected items: %+v", resp.Items)
	}
}

func TestListTenantMessages(t *testing.T) {
	directory := &fakeTenantDirectory{tenants: []tenant.Tenant{{
		ID:        "11111111-1111-1111-1111-111111111111",
		ChatbotID: "22222222-2222-2222-2222-222222222222",
	}}}
	reader := &fakeMessageReader{messages: []conversation.Message{
		{ID: "m1", Role: conversation.RoleUser, Content: "hello"},
		{ID: "m2", Role: conversation.RoleAssistant, Content: "hi there"},
	}}
	h := NewTenantHandler(nil, directory, reader)

	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/tenants/11111111-1111-1111-1111-111111111111/messages?limit=5", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetPath("/tenants/:id/messages")
	c.SetParamNames("id")
	c.SetParamValues("11111111-1111-1111-1111-111111111111")
	if err := h.ListTenantMessages(c); err != nil {
		t.Fatalf("list messages failed: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("unexpected status: %d", rec.Code)
	}
	if len(reader.chatbots) != 1 || reader.chatbots[0] != "22222222-2222-2222-2222-222222222222" {
		t.Fatalf("unexpected chatbot lookups: %v", reader.chatbots)
	}
	if len(reader.limits) != 1 || reader.limits[0] != 5 {
		t.Fatalf("unexpected limits: %v", reader.limits)
	}
	var resp conversation.ListMessagesResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if len(resp.Items) != 2 || resp.Items[1].Content != "hi there" {
		t.Fatalf("unexpected items: %+v", resp.Items)
	}
}

func TestListTenantMessagesUnknownTenant(t *testing.T) {
	h := NewTenantHandler(nil, &fakeTenantDirectory{}, &fakeMessageReader{})

	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/tenants/unknown/messages", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetPath("/tenants/:id/messages")
	c.SetParamNames("id")
	c.SetParamValues("unknown")
	err := h.ListTenantMessages(c)
	if err == nil {
		t.Fatal("expected not found error")
	}
	httpErr, ok := err.(*echo.HTTPError)
	if !ok {
		t.Fatalf("expected echo HTTP error, got %T", err)
	}
	if httpErr.Code != http.StatusNotFound {
		t.Fatalf("unexpected status code: %d", httpErr.Code)
	}
}

func TestListTenantMessagesClampsLimit(t *testing.T) {
	directory := &fakeTenantDirectory{tenants: []tenant.Tenant{{ID: "t1", ChatbotID: "b1"}}}
	reader := &fakeMessageReader{}
	h := NewTenantHandler(nil, directory, reader)

	for _, raw := range []string{"", "0", "-3", "9999", "abc"} {
		e := echo.New()
		target := "/tenants/t1/messages"
		if raw != "" {
			target += "?limit=" + raw
		}
		req := httptest.NewRequest(http.MethodGet, target, nil)
		rec := httptest.NewRecorder()
		c := e.NewContext(req, rec)
		c.SetPath("/tenants/:id/messages")
		c.SetParamNames("id")
		c.SetParamValues("t1")
		if err := h.ListTenantMessages(c); err != nil {
			t.Fatalf("limit %q failed: %v", raw, err)
		}
	}
	for i, limit := range reader.limits {
		if limit != 50 {
			t.Fatalf("call %d: expected default limit 50, got %d", i, limit)
		}
	}
}
