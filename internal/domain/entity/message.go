package entity

import "time"

// Message is immutable once written. Messages of a chat are ordered by Timestamp.
type Message struct {
	ID        string    `json:"id" firestore:"-"`
	ChatID    string    `json:"chat_id" firestore:"-"`
	SenderID  string    `json:"user" firestore:"user"`
	Text      string    `json:"mensaje" firestore:"mensaje"`
	Timestamp time.Time `json:"timestamp" firestore:"timestamp"`
}
