package entity

import "time"

// ChatMessage moves from unread to read exactly once, when its receiver marks
// the conversation as read.
type ChatMessage struct {
	ID             string    `json:"id"`
	ConversationID string    `json:"conversationId"`
	SenderID       string    `json:"senderId"`
	SenderName     string    `json:"senderName"`
	ReceiverID     string    `json:"receiverId"`
	Body           string    `json:"body"`
	Timestamp      time.Time `json:"timestamp"`
	Read           bool      `json:"read"`
}
