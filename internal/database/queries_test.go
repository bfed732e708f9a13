package database

import (
	"database/sql"
	"path/filepath"
	"testing"

	"github.com/hjkuiper/zoldermarkt/internal/models"
)

// openTestDB opens a fresh database in a temporary directory
func openTestDB(t *testing.T) *Database {
	t.Helper()

	dbconfig := DefaultDBConfig()
	dbconfig.DataDir = t.TempDir()

	db, err := OpenDatabase(dbconfig)
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}
	t.Cleanup(func() {
		if err := db.Shutdown(); err != nil {
			t.Errorf("failed to shutdown test database: %v", err)
		}
	})
	return db
}

func insertTestUser(t *testing.T, db *Database, username, displayName string) *models.User {
	t.Helper()
	user := &models.User{
		Username:     username,
		Email:        username + "@example.com",
		PasswordHash: "x",
		DisplayName:  displayName,
	}
	if _, err := db.InsertUser(user); err != nil {
		t.Fatalf("failed to insert user %s: %v", username, err)
	}
	return user
}

func insertTestListing(t *testing.T, db *Database, sellerID int64, title string, priceCents int64, sold bool) *models.Listing {
	t.Helper()
	listing := &models.Listing{
		SellerID:   sellerID,
		Title:      title,
		PriceCents: priceCents,
		Sold:       sold,
	}
	if _, err := db.InsertListing(listing); err != nil {
		t.Fatalf("failed to insert listing %s: %v", title, err)
	}
	return listing
}

func TestMigrateIsIdempotent(t *testing.T) {
	db := openTestDB(t)

	// OpenDatabase already migrated; a second run must be a no-op
	if err := db.Migrate(); err != nil {
		t.Fatalf("second migration run failed: %v", err)
	}
}

func TestUserRoundTrip(t *testing.T) {
	db := openTestDB(t)

	user := insertTestUser(t, db, "jan", "Jan Jansen")
	if user.ID == 0 {
		t.Fatal("InsertUser did not assign an ID")
	}

	byName, err := db.GetUserByUsername("jan")
	if err != nil {
		t.Fatalf("GetUserByUsername failed: %v", err)
	}
	if byName.Email != "jan@example.com" || byName.DisplayName != "Jan Jansen" {
		t.Errorf("unexpected user data: %+v", byName)
	}

	byEmail, err := db.GetUserByEmail("jan@example.com")
	if err != nil {
		t.Fatalf("GetUserByEmail failed: %v", err)
	}
	if byEmail.ID != user.ID {
		t.Errorf("GetUserByEmail returned ID %d, want %d", byEmail.ID, user.ID)
	}

	byID, err := db.GetUserByID(user.ID)
	if err != nil {
		t.Fatalf("GetUserByID failed: %v", err)
	}
	if byID.Username != "jan" {
		t.Errorf("GetUserByID returned username %q, want %q", byID.Username, "jan")
	}

	count, err := db.CountUsers()
	if err != nil {
		t.Fatalf("CountUsers failed: %v", err)
	}
	if count != 1 {
		t.Errorf("CountUsers = %d, want 1", count)
	}
}

func TestDuplicateUsernameRejected(t *testing.T) {
	db := openTestDB(t)

	insertTestUser(t, db, "jan", "Jan")
	user := &models.User{Username: "jan", Email: "other@example.com", PasswordHash: "x"}
	if _, err := db.InsertUser(user); err == nil {
		t.Fatal("expected error inserting duplicate username")
	}
}

func TestUpdateUserPassword(t *testing.T) {
	db := openTestDB(t)

	user := insertTestUser(t, db, "jan", "Jan")
	if err := db.UpdateUserPassword(user.ID, "newhash"); err != nil {
		t.Fatalf("UpdateUserPassword failed: %v", err)
	}

	updated, err := db.GetUserByID(user.ID)
	if err != nil {
		t.Fatalf("GetUserByID failed: %v", err)
	}
	if updated.PasswordHash != "newhash" {
		t.Errorf("password hash not updated, got %q", updated.PasswordHash)
	}
}

func TestDeleteUserCascadesListings(t *testing.T) {
	db := openTestDB(t)

	user := insertTestUser(t, db, "jan", "Jan")
	insertTestListing(t, db, user.ID, "Oude fiets", 2500, false)

	if err := db.DeleteUser(user.ID); err != nil {
		t.Fatalf("DeleteUser failed: %v", err)
	}

	total, _, err := db.CountListings()
	if err != nil {
		t.Fatalf("CountListings failed: %v", err)
	}
	if total != 0 {
		t.Errorf("expected listings to cascade on user delete, %d remain", total)
	}
}

func TestListingRoundTrip(t *testing.T) {
	db := openTestDB(t)

	user := insertTestUser(t, db, "jan", "Jan")
	listing := insertTestListing(t, db, user.ID, "Oude fiets", 2500, false)

	if listing.PublicID == "" {
		t.Fatal("InsertListing did not assign a public ID")
	}

	got, err := db.GetListingByPublicID(listing.PublicID)
	if err != nil {
		t.Fatalf("GetListingByPublicID failed: %v", err)
	}
	if got.Title != "Oude fiets" || got.PriceCents != 2500 || got.Sold {
		t.Errorf("unexpected listing data: %+v", got)
	}
}

func TestGetRecentListingsOrder(t *testing.T) {
	db := openTestDB(t)

	user := insertTestUser(t, db, "jan", "Jan")
	insertTestListing(t, db, user.ID, "eerste", 100, false)
	insertTestListing(t, db, user.ID, "tweede", 200, false)
	insertTestListing(t, db, user.ID, "derde", 300, false)

	recent, err := db.GetRecentListings(2)
	if err != nil {
		t.Fatalf("GetRecentListings failed: %v", err)
	}
	if len(recent) != 2 {
		t.Fatalf("got %d listings, want 2", len(recent))
	}
	if recent[0].Title != "derde" || recent[1].Title != "tweede" {
		t.Errorf("wrong order: got %q, %q", recent[0].Title, recent[1].Title)
	}
}

func TestMarkListingSold(t *testing.T) {
	db := openTestDB(t)

	user := insertTestUser(t, db, "jan", "Jan")
	listing := insertTestListing(t, db, user.ID, "Oude fiets", 2500, false)

	if err := db.MarkListingSold(listing.PublicID); err != nil {
		t.Fatalf("MarkListingSold failed: %v", err)
	}

	got, err := db.GetListingByPublicID(listing.PublicID)
	if err != nil {
		t.Fatalf("GetListingByPublicID failed: %v", err)
	}
	if !got.Sold {
		t.Error("listing not marked as sold")
	}

	// Marking again must fail (already sold)
	if err := db.MarkListingSold(listing.PublicID); err == nil {
		t.Error("expected error marking an already sold listing")
	}

	// Unknown ID must fail
	if err := db.MarkListingSold("no-such-id"); err == nil {
		t.Error("expected error marking an unknown listing")
	}
}

func TestGetSellerStandings(t *testing.T) {
	db := openTestDB(t)

	anna := insertTestUser(t, db, "anna", "Anna")
	bert := insertTestUser(t, db, "bert", "Bert")
	cees := insertTestUser(t, db, "cees", "Cees")

	// Anna: 2 sold out of 3, revenue 300
	insertTestListing(t, db, anna.ID, "a1", 100, true)
	insertTestListing(t, db, anna.ID, "a2", 200, true)
	insertTestListing(t, db, anna.ID, "a3", 400, false)
	// Bert: 1 sold out of 1, revenue 500
	insertTestListing(t, db, bert.ID, "b1", 500, true)
	// Cees: no listings at all

	standings, err := db.GetSellerStandings()
	if err != nil {
		t.Fatalf("GetSellerStandings failed: %v", err)
	}
	if len(standings) != 3 {
		t.Fatalf("got %d standings, want 3 (sellers without listings included)", len(standings))
	}

	if standings[0].SellerID != anna.ID || standings[0].Rank != 1 {
		t.Errorf("expected Anna first with rank 1, got %+v", standings[0])
	}
	if standings[0].SoldCount != 2 || standings[0].ListingCount != 3 || standings[0].RevenueCents != 300 {
		t.Errorf("unexpected counts for Anna: %+v", standings[0])
	}
	if standings[1].SellerID != bert.ID || standings[1].Rank != 2 {
		t.Errorf("expected Bert second with rank 2, got %+v", standings[1])
	}
	if standings[1].RevenueCents != 500 {
		t.Errorf("unexpected revenue for Bert: %+v", standings[1])
	}
	if standings[2].SellerID != cees.ID || standings[2].Rank != 3 {
		t.Errorf("expected Cees last with rank 3, got %+v", standings[2])
	}
	if standings[2].SoldCount != 0 || standings[2].ListingCount != 0 {
		t.Errorf("unexpected counts for Cees: %+v", standings[2])
	}
}

func TestShutdownStateLifecycle(t *testing.T) {
	dbconfig := DefaultDBConfig()
	dbconfig.DataDir = t.TempDir()

	db, err := OpenDatabase(dbconfig)
	if err != nil {
		t.Fatalf("failed to open database: %v", err)
	}

	state, err := db.GetShutdownState()
	if err != nil {
		t.Fatalf("GetShutdownState failed: %v", err)
	}
	if state != ShutdownStateRunning {
		t.Errorf("state after startup = %q, want %q", state, ShutdownStateRunning)
	}

	if err := db.Shutdown(); err != nil {
		t.Fatalf("Shutdown failed: %v", err)
	}

	// Inspect the file directly: Shutdown must have recorded a clean state
	raw, err := sql.Open("sqlite3", filepath.Join(dbconfig.DataDir, "zoldermarkt.sq3"))
	if err != nil {
		t.Fatalf("failed to open database file: %v", err)
	}
	defer raw.Close()

	var recorded string
	if err := raw.QueryRow("SELECT shutdown_state FROM system_status WHERE id = 1").Scan(&recorded); err != nil {
		t.Fatalf("failed to read shutdown state: %v", err)
	}
	if recorded != ShutdownStateClean {
		t.Errorf("recorded state = %q, want %q", recorded, ShutdownStateClean)
	}
}
