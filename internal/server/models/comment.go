package models

import "time"

// Comment is attached to a listing and authored by an account.
type Comment struct {
	ID        int64
	AuthorID  int64
	ListingID int64
	Body      string
	CreatedAt time.Time
}
