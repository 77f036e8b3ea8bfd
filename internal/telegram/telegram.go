package telegram

// Client is the narrow delivery surface the reporters use.
type Client interface {
	// SendMessage delivers a MarkdownV2 message to the configured chat.
	SendMessage(text string) error
}
