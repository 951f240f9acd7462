package mailgun

import "strings"

// buildSendParams flattens a sender and message into the form fields of
// the messages API: from, comma-joined to/cc/bcc (omitted when empty),
// subject, the body variant's text/html fields, and any send options.
func buildSendParams(sender EmailAddress, msg Message) map[string]string {
	params := make(map[string]string)

	params["from"] = sender.String()

	addRecipients(params, "to", msg.To)
	addRecipients(params, "cc", msg.Cc)
	addRecipients(params, "bcc", msg.Bcc)

	params["subject"] = msg.Subject

	msg.Body.addTo(params)

	for _, opt := range msg.Options {
		params[opt.key] = opt.value
	}

	return params
}

// addRecipients joins the rendered addresses with commas under the
// given field. Empty lists produce no field at all.
func addRecipients(params map[string]string, field string, addresses []EmailAddress) {
	if len(addresses) == 0 {
		return
	}

	rendered := make([]string, 0, len(addresses))
	for _, addr := range addresses {
		rendered = append(rendered, addr.String())
	}
	params[field] = strings.Join(rendered, ",")
}
