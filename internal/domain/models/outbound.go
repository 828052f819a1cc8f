package models

// OutboundMessageRequest is a text message pushed to a WhatsApp recipient.
type OutboundMessageRequest struct {
	To         string
	Message    string
	PreviewURL bool
}
