package types

// MessageCreated is published after a message append.
type MessageCreated struct {
	Message     Message `json:"message"`
	RecipientID string  `json:"recipientID"`
}
