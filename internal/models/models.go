// Package models defines core data structures for zoldermarkt
package models

import (
	"fmt"
	"time"
)

// User represents a registered seller account
type User struct {
	ID           int64     `json:"id" db:"id"`
	Username     string    `json:"username" db:"username"`
	Email        string    `json:"email" db:"email"`
	PasswordHash string    `json:"password_hash" db:"password_hash"`
	DisplayName  string    `json:"display_name" db:"display_name"`
	CreatedAt    time.Time `json:"created_at" db:"created_at"`
	UpdatedAt    time.Time `json:"updated_at" db:"updated_at"`
}

// Listing represents an item offered for sale
type Listing struct {
	ID          int64     `json:"id" db:"id"`
	PublicID    string    `json:"public_id" db:"public_id"` // UUID used in external references
	SellerID    int64     `json:"seller_id" db:"seller_id"`
	Title       string    `json:"title" db:"title"`
	Description string    `json:"description" db:"description"`
	PriceCents  int64     `json:"price_cents" db:"price_cents"`
	Sold        bool      `json:"sold" db:"sold"`
	CreatedAt   time.Time `json:"created_at" db:"created_at"`
	UpdatedAt   time.Time `json:"updated_at" db:"updated_at"`
}

// Price returns the listing price formatted in euros
func (l *Listing) Price() string {
	return formatCents(l.PriceCents)
}

// SellerStanding represents one row of the klassement page
type SellerStanding struct {
	Rank         int    `json:"rank" db:"-"`
	SellerID     int64  `json:"seller_id" db:"seller_id"`
	DisplayName  string `json:"display_name" db:"display_name"`
	SoldCount    int    `json:"sold_count" db:"sold_count"`
	ListingCount int    `json:"listing_count" db:"listing_count"`
	RevenueCents int64  `json:"revenue_cents" db:"revenue_cents"`
}

// Revenue returns the total sale value formatted in euros
func (s *SellerStanding) Revenue() string {
	return formatCents(s.RevenueCents)
}

// formatCents renders an amount of euro cents as "€ 12,34"
func formatCents(cents int64) string {
	sign := ""
	if cents < 0 {
		sign = "-"
		cents = -cents
	}
	return fmt.Sprintf("%s€ %d,%02d", sign, cents/100, cents%100)
}
