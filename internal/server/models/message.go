package models

import "time"

// Message is one direct message between two accounts.
type Message struct {
	ID          int64
	SenderID    int64
	RecipientID int64
	Body        string
	SentAt      time.Time
}
