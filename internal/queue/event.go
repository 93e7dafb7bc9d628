// Package queue defines message payloads exchanged over the message broker.
package queue

import "time"

// ContactMessageEvent is published after a contact-form message is stored.
// It carries the whole message so the notifier never reads the database.
type ContactMessageEvent struct {
	MessageID  string    `json:"message_id"`
	SenderName string    `json:"sender_name"`
	Subject    string    `json:"subject"`
	Message    string    `json:"message"`
	ReceivedAt time.Time `json:"received_at"`
}
