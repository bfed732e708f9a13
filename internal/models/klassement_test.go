package models

import (
	"testing"
)

func TestRankStandingsOrdering(t *testing.T) {
	standings := []*SellerStanding{
		{SellerID: 1, DisplayName: "Anna", SoldCount: 1, ListingCount: 3},
		{SellerID: 2, DisplayName: "Bert", SoldCount: 4, ListingCount: 5},
		{SellerID: 3, DisplayName: "Cees", SoldCount: 4, ListingCount: 8},
		{SellerID: 4, DisplayName: "Dirk", SoldCount: 0, ListingCount: 0},
	}

	RankStandings(standings)

	wantOrder := []int64{3, 2, 1, 4}
	for i, want := range wantOrder {
		if standings[i].SellerID != want {
			t.Fatalf("position %d: got seller %d, want %d", i, standings[i].SellerID, want)
		}
	}

	wantRanks := []int{1, 2, 3, 4}
	for i, want := range wantRanks {
		if standings[i].Rank != want {
			t.Errorf("position %d: got rank %d, want %d", i, standings[i].Rank, want)
		}
	}
}

func TestRankStandingsDenseRanksForTies(t *testing.T) {
	standings := []*SellerStanding{
		{SellerID: 1, DisplayName: "Anna", SoldCount: 2, ListingCount: 2},
		{SellerID: 2, DisplayName: "Bert", SoldCount: 2, ListingCount: 2},
		{SellerID: 3, DisplayName: "Cees", SoldCount: 1, ListingCount: 1},
	}

	RankStandings(standings)

	if standings[0].Rank != 1 || standings[1].Rank != 1 {
		t.Errorf("tied sellers should share rank 1, got %d and %d", standings[0].Rank, standings[1].Rank)
	}
	if standings[2].Rank != 2 {
		t.Errorf("next rank after a tie should be dense (2), got %d", standings[2].Rank)
	}
}

func TestRankStandingsDutchNameTieBreak(t *testing.T) {
	// Same counts everywhere: order is decided by name only.
	// Dutch collation is case-insensitive and accent-aware.
	standings := []*SellerStanding{
		{SellerID: 1, DisplayName: "bert"},
		{SellerID: 2, DisplayName: "Anna"},
		{SellerID: 3, DisplayName: "École"},
		{SellerID: 4, DisplayName: "edwin"},
	}

	RankStandings(standings)

	wantNames := []string{"Anna", "bert", "École", "edwin"}
	for i, want := range wantNames {
		if standings[i].DisplayName != want {
			t.Fatalf("position %d: got %q, want %q", i, standings[i].DisplayName, want)
		}
	}

	// All counts equal, so everyone shares rank 1
	for _, s := range standings {
		if s.Rank != 1 {
			t.Errorf("seller %q: got rank %d, want 1", s.DisplayName, s.Rank)
		}
	}
}

func TestRankStandingsEmpty(t *testing.T) {
	RankStandings(nil) // must not panic
}

func TestFormatCents(t *testing.T) {
	cases := []struct {
		cents int64
		want  string
	}{
		{0, "€ 0,00"},
		{5, "€ 0,05"},
		{1234, "€ 12,34"},
		{250000, "€ 2500,00"},
		{-99, "-€ 0,99"},
	}
	for _, tc := range cases {
		if got := formatCents(tc.cents); got != tc.want {
			t.Errorf("formatCents(%d) = %q, want %q", tc.cents, got, tc.want)
		}
	}
}
