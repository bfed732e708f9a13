package web

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/hjkuiper/zoldermarkt/internal/config"
	"github.com/hjkuiper/zoldermarkt/internal/database"
	"github.com/hjkuiper/zoldermarkt/internal/models"
)

// newTestServer spins up a server over a fresh temp database
func newTestServer(t *testing.T) *WebServer {
	t.Helper()

	dbconfig := database.DefaultDBConfig()
	dbconfig.DataDir = t.TempDir()

	db, err := database.OpenDatabase(dbconfig)
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}
	t.Cleanup(func() {
		if err := db.Shutdown(); err != nil {
			t.Errorf("failed to shutdown test database: %v", err)
		}
	})

	webconfig := &config.WebConfig{
		ListenPort:  11980,
		StaticDir:   "../../web/static",
		TemplateDir: "../../web/templates",
	}
	return NewServer(db, webconfig)
}

func seedTestData(t *testing.T, db *database.Database) {
	t.Helper()

	anna := &models.User{Username: "anna", Email: "anna@example.com", PasswordHash: "x", DisplayName: "Anna"}
	bert := &models.User{Username: "bert", Email: "bert@example.com", PasswordHash: "x", DisplayName: "Bert"}
	for _, u := range []*models.User{anna, bert} {
		if _, err := db.InsertUser(u); err != nil {
			t.Fatalf("failed to seed user %s: %v", u.Username, err)
		}
	}

	listings := []*models.Listing{
		{SellerID: anna.ID, Title: "Oude fiets", PriceCents: 2500, Sold: true},
		{SellerID: anna.ID, Title: "Boekenkast", PriceCents: 4000, Sold: false},
		{SellerID: bert.ID, Title: "Grammofoon", PriceCents: 7500, Sold: true},
	}
	for _, l := range listings {
		if _, err := db.InsertListing(l); err != nil {
			t.Fatalf("failed to seed listing %s: %v", l.Title, err)
		}
	}
}

func doRequest(s *WebServer, method, path string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(method, path, nil)
	s.Router.ServeHTTP(w, req)
	return w
}

func TestIndexPage(t *testing.T) {
	s := newTestServer(t)
	seedTestData(t, s.DB)

	w := doRequest(s, http.MethodGet, "/")
	if w.Code != http.StatusOK {
		t.Fatalf("GET / status = %d, want 200", w.Code)
	}
	body := w.Body.String()
	if !strings.Contains(body, "Oude fiets") || !strings.Contains(body, "Grammofoon") {
		t.Error("index page does not show recent listings")
	}
}

func TestIndexPageEmptyDatabase(t *testing.T) {
	s := newTestServer(t)

	w := doRequest(s, http.MethodGet, "/")
	if w.Code != http.StatusOK {
		t.Fatalf("GET / status = %d, want 200", w.Code)
	}
}

func TestKlassementPage(t *testing.T) {
	s := newTestServer(t)
	seedTestData(t, s.DB)

	for _, path := range []string{"/klassement", "/klassement/"} {
		w := doRequest(s, http.MethodGet, path)
		if w.Code != http.StatusOK {
			t.Fatalf("GET %s status = %d, want 200", path, w.Code)
		}
		body := w.Body.String()
		if !strings.Contains(body, "Anna") || !strings.Contains(body, "Bert") {
			t.Errorf("klassement page at %s does not show sellers", path)
		}
	}
}

func TestMethodNotAllowed(t *testing.T) {
	s := newTestServer(t)

	for _, path := range []string{"/", "/klassement"} {
		w := doRequest(s, http.MethodPost, path)
		if w.Code != http.StatusMethodNotAllowed {
			t.Errorf("POST %s status = %d, want 405", path, w.Code)
		}
	}
}

func TestUnknownPathNotFound(t *testing.T) {
	s := newTestServer(t)

	w := doRequest(s, http.MethodGet, "/nope")
	if w.Code != http.StatusNotFound {
		t.Errorf("GET /nope status = %d, want 404", w.Code)
	}
}

func TestRepeatedRequestsIdentical(t *testing.T) {
	s := newTestServer(t)
	seedTestData(t, s.DB)

	for _, path := range []string{"/", "/klassement"} {
		first := doRequest(s, http.MethodGet, path)
		second := doRequest(s, http.MethodGet, path)
		if !bytes.Equal(first.Body.Bytes(), second.Body.Bytes()) {
			t.Errorf("repeated GET %s returned different bodies", path)
		}
	}
}

func TestDuplicateRouteRegistrationPanics(t *testing.T) {
	s := newTestServer(t)

	defer func() {
		if recover() == nil {
			t.Error("expected panic on duplicate route registration")
		}
	}()
	s.handle(http.MethodGet, "/", s.indexPage)
}

func TestPing(t *testing.T) {
	s := newTestServer(t)

	w := doRequest(s, http.MethodGet, "/ping")
	if w.Code != http.StatusOK || w.Body.String() != "pong" {
		t.Errorf("GET /ping = %d %q, want 200 pong", w.Code, w.Body.String())
	}
}

func TestMissingTemplatesRenderError(t *testing.T) {
	s := newTestServer(t)
	s.Config.TemplateDir = t.TempDir() // no templates there

	w := doRequest(s, http.MethodGet, "/")
	if w.Code != http.StatusInternalServerError {
		t.Errorf("GET / with missing templates status = %d, want 500", w.Code)
	}
}
