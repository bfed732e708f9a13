// Listing manager CLI for zoldermarkt
package main

import (
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/hjkuiper/zoldermarkt/internal/config"
	"github.com/hjkuiper/zoldermarkt/internal/database"
	"github.com/hjkuiper/zoldermarkt/internal/models"
)

var appVersion = "-unset-"

func main() {
	config.AppVersion = appVersion
	log.Printf("zoldermarkt Listing Manager (version: %s)", config.AppVersion)
	var (
		createListing = flag.Bool("create", false, "Create a new listing")
		listListings  = flag.Bool("list", false, "List listings for a seller")
		markSold      = flag.Bool("sold", false, "Mark a listing as sold")
		seller        = flag.String("seller", "", "Username of the seller")
		title         = flag.String("title", "", "Listing title")
		description   = flag.String("description", "", "Listing description")
		priceCents    = flag.Int64("price", 0, "Price in euro cents")
		publicID      = flag.String("id", "", "Public ID of the listing (for -sold)")
		dataDir       = flag.String("data", "", "Directory holding the database files (default: ./data)")
	)
	flag.Parse()

	if !*createListing && !*listListings && !*markSold {
		fmt.Fprintf(os.Stderr, "Usage: %s [options]\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "\nOptions:\n")
		flag.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nExamples:\n")
		fmt.Fprintf(os.Stderr, "  %s -create -seller jan -title \"Oude fiets\" -price 2500\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "  %s -list -seller jan\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "  %s -sold -id <public-id>\n", os.Args[0])
		os.Exit(1)
	}

	// Initialize database
	dbConfig := database.DefaultDBConfig()
	if *dataDir != "" {
		dbConfig.DataDir = *dataDir
	}
	db, err := database.OpenDatabase(dbConfig)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer db.Shutdown()

	switch {
	case *createListing:
		if *seller == "" {
			log.Fatal("Seller username is required for listing creation")
		}
		if *title == "" {
			log.Fatal("Title is required for listing creation")
		}
		if *priceCents < 0 {
			log.Fatal("Price must not be negative")
		}
		if err := createNewListing(db, *seller, *title, *description, *priceCents); err != nil {
			log.Fatalf("Failed to create listing: %v", err)
		}

	case *listListings:
		if *seller == "" {
			log.Fatal("Seller username is required for listing display")
		}
		if err := listSellerListings(db, *seller); err != nil {
			log.Fatalf("Failed to list listings: %v", err)
		}

	case *markSold:
		if *publicID == "" {
			log.Fatal("Listing public ID is required for -sold")
		}
		if err := db.MarkListingSold(*publicID); err != nil {
			log.Fatalf("Failed to mark listing sold: %v", err)
		}
		fmt.Printf("Listing '%s' marked as sold\n", *publicID)
	}
}

func createNewListing(db *database.Database, sellerName, title, description string, priceCents int64) error {
	seller, err := db.GetUserByUsername(sellerName)
	if err != nil {
		return fmt.Errorf("seller '%s' not found", sellerName)
	}

	listing := &models.Listing{
		SellerID:    seller.ID,
		Title:       title,
		Description: description,
		PriceCents:  priceCents,
	}

	if _, err := db.InsertListing(listing); err != nil {
		return err
	}

	fmt.Printf("Listing '%s' created for seller '%s' (public ID: %s)\n", title, sellerName, listing.PublicID)
	return nil
}

func listSellerListings(db *database.Database, sellerName string) error {
	seller, err := db.GetUserByUsername(sellerName)
	if err != nil {
		return fmt.Errorf("seller '%s' not found", sellerName)
	}

	listings, err := db.GetListingsBySeller(seller.ID)
	if err != nil {
		return fmt.Errorf("failed to get listings: %v", err)
	}

	if len(listings) == 0 {
		fmt.Printf("No listings found for seller '%s'\n", sellerName)
		return nil
	}

	fmt.Printf("Found %d listings for seller '%s':\n\n", len(listings), sellerName)
	fmt.Printf("%-36s %-30s %-10s %-8s %s\n", "Public ID", "Title", "Price", "Sold", "Created")
	for _, l := range listings {
		soldMark := "no"
		if l.Sold {
			soldMark = "yes"
		}
		fmt.Printf("%-36s %-30s %-10s %-8s %s\n",
			l.PublicID,
			truncate(l.Title, 30),
			l.Price(),
			soldMark,
			l.CreatedAt.Format("2006-01-02 15:04"),
		)
	}

	return nil
}

// truncate shortens a string for table display
func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen-3] + "..."
}
