package whatsapp

import "fmt"

// ProjectContent reduces a message to the text that is persisted and, for
// forwardable types, relayed to the response gateway. Only text, button and
// interactive messages forward; every other type yields a placeholder that
// is stored for conversation context and goes no further.
func ProjectContent(m Message) (string, bool) {
	switch m.Type {
	case "text":
		if m.Text == nil {
			return "", true
		}
		return m.Text.Body, true
	case "button":
		if m.Button == nil {
			return "", true
		}
		return m.Button.Text, true
	case "interactive":
		if m.Interactive == nil {
			return "", true
		}
		switch {
		case m.Interactive.ButtonReply != nil:
			return m.Interactive.ButtonReply.Title, true
		case m.Interactive.ListReply != nil:
			return m.Interactive.ListReply.Title, true
		}
		return "", true
	case "image":
		if m.Image != nil && m.Image.Caption != "" {
			return m.Image.Caption, false
		}
		return "[Image]", false
	case "audio":
		return "[Voice message]", false
	case "video":
		if m.Video != nil && m.Video.Caption != "" {
			return m.Video.Caption, false
		}
		return "[Video]", false
	case "document":
		name := ""
		if m.Document != nil {
			name = m.Document.Filename
		}
		return fmt.Sprintf("[Document: %s]", name), false
	case "location":
		if m.Location == nil {
			return "[Location]", false
		}
		return fmt.Sprintf("[Location: %v, %v]", m.Location.Latitude, m.Location.Longitude), false
	default:
		return fmt.Sprintf("[%s]", m.Type), false
	}
}
