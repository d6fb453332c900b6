package messaging

import "time"

// SendMessageRequest represents a request to send a text message.
type SendMessageRequest struct {
	User        string `json:"user" binding:"required"`
	PhoneNumber string `json:"phone_number" binding:"required"`
	Message     string `json:"message" binding:"required"`
}

// InboundMessage is a received message recorded for the panel's inbox view.
type InboundMessage struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	Session    string    `gorm:"index" json:"session"`
	Sender     string    `json:"sender"`
	PushName   string    `json:"push_name"`
	Content    string    `json:"content"`
	ReceivedAt time.Time `json:"received_at"`
}
