// Package mailgun is a typed client for the Mailgun v3 HTTP API.
// It covers sending messages, validating addresses, and managing
// message templates for a single sending domain.
package mailgun

import (
	"fmt"
	"net/mail"
	"time"
)

// EmailAddress is a mailbox with an optional display name.
type EmailAddress struct {
	name    string
	address string
}

// NewEmailAddress creates an EmailAddress without a display name.
func NewEmailAddress(address string) EmailAddress {
	return EmailAddress{address: address}
}

// NewEmailAddressWithName creates an EmailAddress with a display name.
func NewEmailAddressWithName(name, address string) EmailAddress {
	return EmailAddress{name: name, address: address}
}

// ParseAddress parses a single RFC 5322 address, with or without a
// display name (e.g. "Alice <alice@example.com>" or "alice@example.com").
func ParseAddress(s string) (EmailAddress, error) {
	addr, err := mail.ParseAddress(s)
	if err != nil {
		return EmailAddress{}, fmt.Errorf("failed to parse address %q: %w", s, err)
	}
	return EmailAddress{name: addr.Name, address: addr.Address}, nil
}

// Address returns the bare mailbox address.
func (a EmailAddress) Address() string {
	return a.address
}

// String renders the address in its wire form: "Name <addr>" when a
// display name is set, otherwise the bare address.
func (a EmailAddress) String() string {
	if a.name != "" {
		return fmt.Sprintf("%s <%s>", a.name, a.address)
	}
	return a.address
}

// Attachment is a named file attached to a message.
type Attachment struct {
	Filename string
	Content  []byte
}

type bodyKind int

const (
	bodyText bodyKind = iota
	bodyHTML
	bodyHTMLAndText
)

// Body is the message body. Exactly one variant is active: plain text,
// HTML, or HTML with a plain-text alternative. The zero value is an
// empty text body.
type Body struct {
	kind bodyKind
	text string
	html string
}

// TextBody creates a plain-text message body.
func TextBody(text string) Body {
	return Body{kind: bodyText, text: text}
}

// HTMLBody creates an HTML message body.
func HTMLBody(html string) Body {
	return Body{kind: bodyHTML, html: html}
}

// HTMLAndTextBody creates an HTML body with a plain-text alternative.
func HTMLAndTextBody(html, text string) Body {
	return Body{kind: bodyHTMLAndText, html: html, text: text}
}

// Text returns the plain-text content and whether the active variant
// carries one.
func (b Body) Text() (string, bool) {
	return b.text, b.kind == bodyText || b.kind == bodyHTMLAndText
}

// HTML returns the HTML content and whether the active variant carries one.
func (b Body) HTML() (string, bool) {
	return b.html, b.kind == bodyHTML || b.kind == bodyHTMLAndText
}

// addTo writes the body under the API field matching its variant.
func (b Body) addTo(params map[string]string) {
	switch b.kind {
	case bodyText:
		params["text"] = b.text
	case bodyHTML:
		params["html"] = b.html
	case bodyHTMLAndText:
		params["html"] = b.html
		params["text"] = b.text
	}
}

// SendOption is an extra send parameter exposed by the messages API,
// such as test mode or a delivery time.
type SendOption struct {
	key   string
	value string
}

// TestMode marks the message as a test send (o:testmode). Mailgun
// accepts but does not deliver test messages.
func TestMode() SendOption {
	return SendOption{key: "o:testmode", value: "yes"}
}

// DeliveryTime schedules the message for a later delivery
// (o:deliverytime, RFC 2822 format).
func DeliveryTime(t time.Time) SendOption {
	return SendOption{key: "o:deliverytime", value: t.Format(time.RFC1123Z)}
}

// Header attaches a custom MIME header to the delivered message (h:<name>).
func Header(name, value string) SendOption {
	return SendOption{key: "h:" + name, value: value}
}

// Tag tags the message for analytics (o:tag).
func Tag(tag string) SendOption {
	return SendOption{key: "o:tag", value: tag}
}

// Message is an email to send through the messages API. At least one of
// To, Cc, or Bcc should be non-empty; the API rejects a message with no
// recipients, and that rejection is surfaced as an APIError rather than
// checked locally.
type Message struct {
	To          []EmailAddress
	Cc          []EmailAddress
	Bcc         []EmailAddress
	Subject     string
	Body        Body
	Attachments []Attachment
	Options     []SendOption
}
