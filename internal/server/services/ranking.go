package services

import (
	"sort"

	"github.com/dkrasnov-dev/baraholka/internal/server/models"
)

// SortListings orders listings for display:
//
//  1. listings of boosted owners come first;
//  2. within equal boosted status, higher owner reputation first;
//  3. within equal reputation, ascending owner account id.
//
// The third key makes the order fully deterministic; combined with the
// stable sort, repeated application to the same input is a no-op.
func SortListings(listings []*models.RankedListing) {
	sort.SliceStable(listings, func(i, j int) bool {
		return rankedBefore(listings[i], listings[j])
	})
}

func rankedBefore(a, b *models.RankedListing) bool {
	if a.OwnerBoosted != b.OwnerBoosted {
		return a.OwnerBoosted
	}
	if a.OwnerReputation != b.OwnerReputation {
		return a.OwnerReputation > b.OwnerReputation
	}
	return a.OwnerID < b.OwnerID
}
