package database

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/hjkuiper/zoldermarkt/internal/models"
)

// --- User Queries ---

const query_InsertUser = `INSERT INTO users (username, email, password_hash, display_name) VALUES (?, ?, ?, ?)`

// InsertUser creates a new user and returns its ID
func (db *Database) InsertUser(user *models.User) (int64, error) {
	result, err := retryableExec(db.mainDB, query_InsertUser,
		user.Username, user.Email, user.PasswordHash, user.DisplayName)
	if err != nil {
		return 0, fmt.Errorf("failed to insert user '%s': %w", user.Username, err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return 0, err
	}
	user.ID = id
	return id, nil
}

const query_GetUserByUsername = `SELECT id, username, email, password_hash, display_name, created_at, updated_at FROM users WHERE username = ?`

func (db *Database) GetUserByUsername(username string) (*models.User, error) {
	var u models.User
	err := retryableQueryRowScan(db.mainDB, query_GetUserByUsername, []interface{}{username},
		&u.ID, &u.Username, &u.Email, &u.PasswordHash, &u.DisplayName, &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &u, nil
}

const query_GetUserByEmail = `SELECT id, username, email, password_hash, display_name, created_at, updated_at FROM users WHERE email = ?`

func (db *Database) GetUserByEmail(email string) (*models.User, error) {
	var u models.User
	err := retryableQueryRowScan(db.mainDB, query_GetUserByEmail, []interface{}{email},
		&u.ID, &u.Username, &u.Email, &u.PasswordHash, &u.DisplayName, &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &u, nil
}

const query_GetUserByID = `SELECT id, username, email, password_hash, display_name, created_at, updated_at FROM users WHERE id = ?`

func (db *Database) GetUserByID(id int64) (*models.User, error) {
	var u models.User
	err := retryableQueryRowScan(db.mainDB, query_GetUserByID, []interface{}{id},
		&u.ID, &u.Username, &u.Email, &u.PasswordHash, &u.DisplayName, &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &u, nil
}

const query_GetAllUsers = `SELECT id, username, email, password_hash, display_name, created_at, updated_at FROM users ORDER BY username`

func (db *Database) GetAllUsers() ([]*models.User, error) {
	rows, err := retryableQuery(db.mainDB, query_GetAllUsers)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var users []*models.User
	for rows.Next() {
		var user models.User
		if err := rows.Scan(&user.ID, &user.Username, &user.Email, &user.PasswordHash, &user.DisplayName, &user.CreatedAt, &user.UpdatedAt); err != nil {
			return nil, err
		}
		users = append(users, &user)
	}
	return users, rows.Err()
}

// UpdateUserPassword updates a user's password hash
const query_UpdateUserPassword = `UPDATE users SET password_hash = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ?`

func (db *Database) UpdateUserPassword(userID int64, passwordHash string) error {
	_, err := retryableExec(db.mainDB, query_UpdateUserPassword, passwordHash, userID)
	return err
}

const query_DeleteUser = `DELETE FROM users WHERE id = ?`

// DeleteUser removes a user and (via FK cascade) its listings
func (db *Database) DeleteUser(userID int64) error {
	_, err := retryableExec(db.mainDB, query_DeleteUser, userID)
	return err
}

const query_CountUsers = `SELECT COUNT(*) FROM users`

func (db *Database) CountUsers() (int, error) {
	var count int
	err := retryableQueryRowScan(db.mainDB, query_CountUsers, []interface{}{}, &count)
	return count, err
}

// --- Listing Queries ---

const query_InsertListing = `INSERT INTO listings (public_id, seller_id, title, description, price_cents, sold) VALUES (?, ?, ?, ?, ?, ?)`

// InsertListing creates a new listing, assigning a public UUID if missing
func (db *Database) InsertListing(listing *models.Listing) (int64, error) {
	if listing.PublicID == "" {
		listing.PublicID = uuid.NewString()
	}
	result, err := retryableExec(db.mainDB, query_InsertListing,
		listing.PublicID, listing.SellerID, listing.Title, listing.Description, listing.PriceCents, listing.Sold)
	if err != nil {
		return 0, fmt.Errorf("failed to insert listing '%s': %w", listing.Title, err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return 0, err
	}
	listing.ID = id
	return id, nil
}

const query_GetListingByPublicID = `SELECT id, public_id, seller_id, title, description, price_cents, sold, created_at, updated_at FROM listings WHERE public_id = ?`

func (db *Database) GetListingByPublicID(publicID string) (*models.Listing, error) {
	var l models.Listing
	err := retryableQueryRowScan(db.mainDB, query_GetListingByPublicID, []interface{}{publicID},
		&l.ID, &l.PublicID, &l.SellerID, &l.Title, &l.Description, &l.PriceCents, &l.Sold, &l.CreatedAt, &l.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &l, nil
}

const query_GetRecentListings = `SELECT id, public_id, seller_id, title, description, price_cents, sold, created_at, updated_at
	 FROM listings
	 ORDER BY created_at DESC, id DESC
	 LIMIT ?`

// GetRecentListings returns the newest listings, newest first
func (db *Database) GetRecentListings(limit int) ([]*models.Listing, error) {
	if limit <= 0 {
		limit = 10
	}
	rows, err := retryableQuery(db.mainDB, query_GetRecentListings, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var listings []*models.Listing
	for rows.Next() {
		var l models.Listing
		if err := rows.Scan(&l.ID, &l.PublicID, &l.SellerID, &l.Title, &l.Description, &l.PriceCents, &l.Sold, &l.CreatedAt, &l.UpdatedAt); err != nil {
			return nil, err
		}
		listings = append(listings, &l)
	}
	return listings, rows.Err()
}

const query_GetListingsBySeller = `SELECT id, public_id, seller_id, title, description, price_cents, sold, created_at, updated_at
	 FROM listings
	 WHERE seller_id = ?
	 ORDER BY created_at DESC, id DESC`

func (db *Database) GetListingsBySeller(sellerID int64) ([]*models.Listing, error) {
	rows, err := retryableQuery(db.mainDB, query_GetListingsBySeller, sellerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var listings []*models.Listing
	for rows.Next() {
		var l models.Listing
		if err := rows.Scan(&l.ID, &l.PublicID, &l.SellerID, &l.Title, &l.Description, &l.PriceCents, &l.Sold, &l.CreatedAt, &l.UpdatedAt); err != nil {
			return nil, err
		}
		listings = append(listings, &l)
	}
	return listings, rows.Err()
}

const query_MarkListingSold = `UPDATE listings SET sold = 1, updated_at = CURRENT_TIMESTAMP WHERE public_id = ? AND sold = 0`

// MarkListingSold flags a listing as sold. Returns an error if the listing
// does not exist or was already sold.
func (db *Database) MarkListingSold(publicID string) error {
	result, err := retryableExec(db.mainDB, query_MarkListingSold, publicID)
	if err != nil {
		return fmt.Errorf("failed to mark listing sold: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return fmt.Errorf("listing '%s' not found or already sold", publicID)
	}
	return nil
}

const query_CountListings = `SELECT COUNT(*), COALESCE(SUM(sold), 0) FROM listings`

// CountListings returns the total number of listings and how many are sold
func (db *Database) CountListings() (total int, sold int, err error) {
	err = retryableQueryRowScan(db.mainDB, query_CountListings, []interface{}{}, &total, &sold)
	return total, sold, err
}

// --- Klassement Queries ---

const query_GetSellerStandings = `SELECT u.id, u.display_name,
		COALESCE(SUM(l.sold), 0) AS sold_count,
		COUNT(l.id) AS listing_count,
		COALESCE(SUM(CASE WHEN l.sold = 1 THEN l.price_cents ELSE 0 END), 0) AS revenue_cents
	 FROM users u
	 LEFT JOIN listings l ON l.seller_id = u.id
	 GROUP BY u.id, u.display_name`

// GetSellerStandings returns one standing per seller. Ordering and rank
// assignment happen in models.RankStandings, which applies Dutch collation
// that SQLite cannot provide.
func (db *Database) GetSellerStandings() ([]*models.SellerStanding, error) {
	rows, err := retryableQuery(db.mainDB, query_GetSellerStandings)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var standings []*models.SellerStanding
	for rows.Next() {
		var s models.SellerStanding
		if err := rows.Scan(&s.SellerID, &s.DisplayName, &s.SoldCount, &s.ListingCount, &s.RevenueCents); err != nil {
			return nil, err
		}
		standings = append(standings, &s)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	models.RankStandings(standings)
	return standings, nil
}
