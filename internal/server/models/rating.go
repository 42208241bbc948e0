package models

import "time"

// Rating is an immutable record of one account's evaluation of another.
// At most one rating may ever exist per ordered (sender, recipient) pair;
// the ratings table enforces this with a unique index.
type Rating struct {
	ID          int64
	SenderID    int64
	RecipientID int64
	Value       int
	CreatedAt   time.Time
}
