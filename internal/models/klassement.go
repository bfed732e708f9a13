package models

import (
	"sort"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

// klassementCollator orders seller names the way a Dutch reader expects
// (case-insensitive, accent-aware). Collators are not safe for concurrent
// use, so each ranking pass creates its own.
func klassementCollator() *collate.Collator {
	return collate.New(language.Dutch, collate.IgnoreCase)
}

// RankStandings orders standings for the klassement page and assigns ranks.
// Order: sold count descending, then total listings descending, then display
// name in Dutch collation order. Sellers with identical counts share a rank
// (dense ranking: 1, 2, 2, 3).
func RankStandings(standings []*SellerStanding) {
	col := klassementCollator()
	sort.SliceStable(standings, func(i, j int) bool {
		a, b := standings[i], standings[j]
		if a.SoldCount != b.SoldCount {
			return a.SoldCount > b.SoldCount
		}
		if a.ListingCount != b.ListingCount {
			return a.ListingCount > b.ListingCount
		}
		return col.CompareString(a.DisplayName, b.DisplayName) < 0
	})

	rank := 0
	for i, s := range standings {
		if i == 0 || s.SoldCount != standings[i-1].SoldCount || s.ListingCount != standings[i-1].ListingCount {
			rank++
		}
		s.Rank = rank
	}
}
