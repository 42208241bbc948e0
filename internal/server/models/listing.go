package models

import "time"

// Listing is an advertisement owned by an account. PhotoKey is the S3
// storage key of the listing photo, set after a presigned upload.
type Listing struct {
	ID          int64
	OwnerID     int64
	Title       string
	Description string
	PriceCents  int64
	PhotoKey    *string
	CreatedAt   time.Time
}

// RankedListing is a listing joined with the owner attributes the ranking
// comparator reads.
type RankedListing struct {
	Listing
	OwnerBoosted    bool
	OwnerReputation float64
}
