// Package whatsapp models the WhatsApp Cloud API callback payload and
// delivers outbound text messages through the Graph API.
package whatsapp

// Object and field tags used to route callback envelopes.
const (
	// ObjectBusinessAccount tags callbacks from the WhatsApp Business
	// Platform. Envelopes with any other object tag are acknowledged
	// and dropped.
	ObjectBusinessAccount = "whatsapp_business_account"

	// FieldMessages carries inbound messages and delivery statuses.
	FieldMessages = "messages"

	// FieldTemplateStatus carries template review updates. Logged only,
	// never persisted.
	FieldTemplateStatus = "message_template_status_update"
)

// Envelope is the top-level callback body posted by the provider.
type Envelope struct {
	Object string  `json:"object"`
	Entry  []Entry `json:"entry"`
}

// Entry groups changes for one business account.
type Entry struct {
	ID      string   `json:"id"`
	Changes []Change `json:"changes"`
}

// Change is one event batch within an entry.
type Change struct {
	Field string `json:"field"`
	Value Value  `json:"value"`
}

// Value holds the batch payload. Messages and Statuses never both appear in
// practice, but nothing in the wire format forbids it.
type Value struct {
	MessagingProduct string    `json:"messaging_product"`
	Metadata         Metadata  `json:"metadata"`
	Contacts         []Contact `json:"contacts,omitempty"`
	Messages         []Message `json:"messages,omitempty"`
	Statuses         []Status  `json:"statuses,omitempty"`
}

// Metadata identifies the business phone number the batch belongs to.
// PhoneNumberID is the routing key for tenant resolution.
type Metadata struct {
	DisplayPhoneNumber string `json:"display_phone_number"`
	PhoneNumberID      string `json:"phone_number_id"`
}

// Contact carries the sender's profile as reported by the provider.
type Contact struct {
	WaID    string  `json:"wa_id"`
	Profile Profile `json:"profile"`
}

type Profile struct {
	Name string `json:"name"`
}

// Message is a tagged variant: Type names the populated pointer field.
// Unknown types decode with all pointers nil.
type Message struct {
	From        string       `json:"from"`
	ID          string       `json:"id"`
	Timestamp   string       `json:"timestamp"`
	Type        string       `json:"type"`
	Text        *Text        `json:"text,omitempty"`
	Image       *Media       `json:"image,omitempty"`
	Audio       *Media       `json:"audio,omitempty"`
	Video       *Media       `json:"video,omitempty"`
	Document    *Document    `json:"document,omitempty"`
	Location    *Location    `json:"location,omitempty"`
	Button      *Button      `json:"button,omitempty"`
	Interactive *Interactive `json:"interactive,omitempty"`
}

type Text struct {
	Body string `json:"body"`
}

// Media covers image, audio and video attachments. The binary itself is
// never fetched; only the caption participates in processing.
type Media struct {
	ID       string `json:"id"`
	MimeType string `json:"mime_type"`
	Caption  string `json:"caption,omitempty"`
}

type Document struct {
	ID       string `json:"id"`
	MimeType string `json:"mime_type"`
	Filename string `json:"filename,omitempty"`
	Caption  string `json:"caption,omitempty"`
}

type Location struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
	Name      string  `json:"name,omitempty"`
	Address   string  `json:"address,omitempty"`
}

// Button is a reply to a template quick-reply button.
type Button struct {
	Payload string `json:"payload"`
	Text    string `json:"text"`
}

// Interactive is a reply to an interactive message. Type selects between
// ButtonReply and ListReply.
type Interactive struct {
	Type        string       `json:"type"`
	ButtonReply *ReplyOption `json:"button_reply,omitempty"`
	ListReply   *ReplyOption `json:"list_reply,omitempty"`
}

type ReplyOption struct {
	ID    string `json:"id"`
	Title string `json:"title"`
}

// Status reports a delivery transition for a previously sent message.
type Status struct {
	ID          string        `json:"id"`
	Status      string        `json:"status"`
	Timestamp   string        `json:"timestamp"`
	RecipientID string        `json:"recipient_id"`
	Errors      []StatusError `json:"errors,omitempty"`
}

type StatusError struct {
	Code    int    `json:"code"`
	Title   string `json:"title"`
	Message string `json:"message,omitempty"`
}
