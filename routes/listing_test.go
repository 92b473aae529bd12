package routes

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/fcreyes/gingereasy/models"
	"github.com/fcreyes/gingereasy/storage"
)

func seedListing(t *testing.T, listing models.Listing) models.Listing {
	t.Helper()
	if err := storage.DB.Create(&listing).Error; err != nil {
		t.Fatalf("failed to seed listing: %v", err)
	}
	return listing
}

func intPtr(n int) *int { return &n }

func listingRequest(method, target, token string, payload map[string]interface{}) *http.Request {
	var body *bytes.Buffer
	if payload != nil {
		raw, _ := json.Marshal(payload)
		body = bytes.NewBuffer(raw)
	} else {
		body = bytes.NewBuffer(nil)
	}
	req := httptest.NewRequest(method, target, body)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	return req
}

func TestListingCRUDRoundTrip(t *testing.T) {
	app := buildTestApp(t)
	user, token := createTestUser(t, "baker")

	payload := map[string]interface{}{
		"title":              "Peppermint Cottage",
		"description":        "Cozy two-room cottage with icing trim.",
		"price":              275000.50,
		"address":            "12 Candy Cane Lane",
		"neighborhood":       "Sugar Plum Village",
		"square_feet":        850,
		"num_rooms":          2,
		"num_candy_canes":    24,
		"has_gumdrop_garden": true,
		"frosting_type":      "royal icing",
	}

	rec := httptest.NewRecorder()
	app.ServeHTTP(rec, listingRequest(http.MethodPost, "/api/listings", token, payload))
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 from create, got %d: %s", rec.Code, rec.Body.String())
	}

	var created models.Listing
	if err := json.Unmarshal(rec.Body.Bytes(), &created); err != nil {
		t.Fatalf("failed to decode created listing: %v", err)
	}
	if created.ID == 0 {
		t.Fatal("expected a non-zero listing id")
	}
	if created.ListingType != "cottage" || created.Status != "available" {
		t.Errorf("expected default listing_type/status, got %q/%q", created.ListingType, created.Status)
	}
	if created.OwnerID == nil || *created.OwnerID != user.ID {
		t.Error("expected the listing owner to be the authenticated user")
	}

	rec = httptest.NewRecorder()
	app.ServeHTTP(rec, listingRequest(http.MethodGet, "/api/listings/"+itoa(created.ID), "", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 from get, got %d: %s", rec.Code, rec.Body.String())
	}

	var fetched models.Listing
	if err := json.Unmarshal(rec.Body.Bytes(), &fetched); err != nil {
		t.Fatalf("failed to decode fetched listing: %v", err)
	}
	if fetched.Title != "Peppermint Cottage" || fetched.Price != 275000.50 {
		t.Errorf("fetched listing does not match created: %+v", fetched)
	}
	if fetched.SquareFeet == nil || *fetched.SquareFeet != 850 {
		t.Errorf("expected square_feet 850, got %v", fetched.SquareFeet)
	}

	payload["title"] = "Peppermint Cottage (Reduced!)"
	payload["price"] = 250000.0
	payload["status"] = "pending"
	rec = httptest.NewRecorder()
	app.ServeHTTP(rec, listingRequest(http.MethodPut, "/api/listings/"+itoa(created.ID), token, payload))
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 from update, got %d: %s", rec.Code, rec.Body.String())
	}

	var updated models.Listing
	if err := json.Unmarshal(rec.Body.Bytes(), &updated); err != nil {
		t.Fatalf("failed to decode updated listing: %v", err)
	}
	if updated.Title != "Peppermint Cottage (Reduced!)" || updated.Status != "pending" {
		t.Errorf("update was not applied: %+v", updated)
	}

	rec = httptest.NewRecorder()
	app.ServeHTTP(rec, listingRequest(http.MethodDelete, "/api/listings/"+itoa(created.ID), token, nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 from delete, got %d: %s", rec.Code, rec.Body.String())
	}
	if !strings.Contains(rec.Body.String(), "Listing deleted successfully") {
		t.Errorf("expected delete confirmation, got %s", rec.Body.String())
	}

	rec = httptest.NewRecorder()
	app.ServeHTTP(rec, listingRequest(http.MethodGet, "/api/listings/"+itoa(created.ID), "", nil))
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404 after delete, got %d", rec.Code)
	}
}

// Replaying an edit with unchanged data must produce the same stored record.
func TestUpdateListingIdempotent(t *testing.T) {
	app := buildTestApp(t)
	_, token := createTestUser(t, "baker")

	create := map[string]interface{}{
		"title":              "Peppermint Cottage",
		"price":              275000.50,
		"address":            "12 Candy Cane Lane",
		"neighborhood":       "Sugar Plum Village",
		"num_rooms":          2,
		"has_gumdrop_garden": true,
	}
	rec := httptest.NewRecorder()
	app.ServeHTTP(rec, listingRequest(http.MethodPost, "/api/listings", token, create))
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 from create, got %d: %s", rec.Code, rec.Body.String())
	}
	var created models.Listing
	if err := json.Unmarshal(rec.Body.Bytes(), &created); err != nil {
		t.Fatalf("failed to decode created listing: %v", err)
	}

	update := map[string]interface{}{
		"title":              "Peppermint Cottage",
		"price":              250000.0,
		"address":            "12 Candy Cane Lane",
		"neighborhood":       "Sugar Plum Village",
		"num_rooms":          2,
		"has_gumdrop_garden": true,
		"status":             "pending",
	}

	var results [2]models.Listing
	for i := range results {
		rec = httptest.NewRecorder()
		app.ServeHTTP(rec, listingRequest(http.MethodPut, "/api/listings/"+itoa(created.ID), token, update))
		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200 from update %d, got %d: %s", i+1, rec.Code, rec.Body.String())
		}
		if err := json.Unmarshal(rec.Body.Bytes(), &results[i]); err != nil {
			t.Fatalf("failed to decode update %d response: %v", i+1, err)
		}
	}

	first, second := results[0], results[1]
	first.UpdatedAt, second.UpdatedAt = time.Time{}, time.Time{}
	firstJSON, _ := json.Marshal(first)
	secondJSON, _ := json.Marshal(second)
	if !bytes.Equal(firstJSON, secondJSON) {
		t.Errorf("replayed update changed the record:\nfirst:  %s\nsecond: %s", firstJSON, secondJSON)
	}

	var stored models.Listing
	if err := storage.DB.First(&stored, created.ID).Error; err != nil {
		t.Fatalf("failed to load stored listing: %v", err)
	}
	if stored.Price != 250000.0 || stored.Status != "pending" {
		t.Errorf("stored record does not match the replayed update: %+v", stored)
	}
}

func TestCreateListingRequiresAuth(t *testing.T) {
	app := buildTestApp(t)

	payload := map[string]interface{}{
		"title":   "Anonymous Cabin",
		"price":   100000.0,
		"address": "1 Nowhere Road",
	}
	rec := httptest.NewRecorder()
	app.ServeHTTP(rec, listingRequest(http.MethodPost, "/api/listings", "", payload))

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 without token, got %d", rec.Code)
	}
}

func TestCreateListingValidation(t *testing.T) {
	app := buildTestApp(t)
	_, token := createTestUser(t, "baker")

	payload := map[string]interface{}{
		"title":   "Free Cottage",
		"price":   0,
		"address": "2 Candy Cane Lane",
	}
	rec := httptest.NewRecorder()
	app.ServeHTTP(rec, listingRequest(http.MethodPost, "/api/listings", token, payload))

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for non-positive price, got %d: %s", rec.Code, rec.Body.String())
	}
}

func TestGetListingNotFound(t *testing.T) {
	app := buildTestApp(t)

	rec := httptest.NewRecorder()
	app.ServeHTTP(rec, listingRequest(http.MethodGet, "/api/listings/9999", "", nil))

	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "Listing not found.") {
		t.Errorf("expected not-found detail, got %s", rec.Body.String())
	}
}

func TestUpdateListingOwnership(t *testing.T) {
	app := buildTestApp(t)
	owner, _ := createTestUser(t, "owner")
	_, intruderToken := createTestUser(t, "intruder")

	listing := seedListing(t, models.Listing{
		Title:   "Guarded Mansion",
		Price:   900000,
		Address: "1 Licorice Boulevard",
		OwnerID: &owner.ID,
	})

	payload := map[string]interface{}{
		"title":   "Stolen Mansion",
		"price":   1.0,
		"address": "1 Licorice Boulevard",
	}
	rec := httptest.NewRecorder()
	app.ServeHTTP(rec, listingRequest(http.MethodPut, "/api/listings/"+itoa(listing.ID), intruderToken, payload))

	if rec.Code != http.StatusForbidden {
		t.Fatalf("expected 403 for non-owner, got %d: %s", rec.Code, rec.Body.String())
	}
	if !strings.Contains(rec.Body.String(), "Not authorized to edit this listing.") {
		t.Errorf("expected ownership detail, got %s", rec.Body.String())
	}
}

// Listings with no recorded owner predate accounts; any signed-in user may
// edit them.
func TestUpdateOwnerlessListing(t *testing.T) {
	app := buildTestApp(t)
	_, token := createTestUser(t, "editor")

	listing := seedListing(t, models.Listing{
		Title:   "Heritage Cabin",
		Price:   120000,
		Address: "7 Old Gingerbread Way",
	})

	payload := map[string]interface{}{
		"title":   "Restored Heritage Cabin",
		"price":   150000.0,
		"address": "7 Old Gingerbread Way",
	}
	rec := httptest.NewRecorder()
	app.ServeHTTP(rec, listingRequest(http.MethodPut, "/api/listings/"+itoa(listing.ID), token, payload))

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 for ownerless listing, got %d: %s", rec.Code, rec.Body.String())
	}
}

func TestDeleteListingOwnership(t *testing.T) {
	app := buildTestApp(t)
	owner, _ := createTestUser(t, "owner")
	_, intruderToken := createTestUser(t, "intruder")

	listing := seedListing(t, models.Listing{
		Title:   "Guarded Castle",
		Price:   2000000,
		Address: "1 Fortress Lane",
		OwnerID: &owner.ID,
	})

	rec := httptest.NewRecorder()
	app.ServeHTTP(rec, listingRequest(http.MethodDelete, "/api/listings/"+itoa(listing.ID), intruderToken, nil))

	if rec.Code != http.StatusForbidden {
		t.Fatalf("expected 403 for non-owner delete, got %d: %s", rec.Code, rec.Body.String())
	}
}

func TestListListingsFilters(t *testing.T) {
	app := buildTestApp(t)

	seedListing(t, models.Listing{
		Title:            "Peppermint Cottage",
		Description:      "Icing trim throughout",
		Price:            275000,
		Address:          "12 Candy Cane Lane",
		Neighborhood:     "Sugar Plum Village",
		NumRooms:         intPtr(2),
		HasGumdropGarden: true,
		ListingType:      "cottage",
		Status:           "available",
	})
	seedListing(t, models.Listing{
		Title:        "Licorice Mansion",
		Price:        950000,
		Address:      "3 Licorice Boulevard",
		Neighborhood: "Frosting Heights",
		NumRooms:     intPtr(8),
		ListingType:  "mansion",
		Status:       "available",
	})
	seedListing(t, models.Listing{
		Title:        "Gumdrop Cabin",
		Price:        95000,
		Address:      "9 Gumdrop Grove",
		Neighborhood: "Sugar Plum Village",
		NumRooms:     intPtr(1),
		ListingType:  "cabin",
		Status:       "sold",
	})

	cases := []struct {
		name  string
		query string
		want  []string
	}{
		{"no filters", "", []string{"Peppermint Cottage", "Licorice Mansion", "Gumdrop Cabin"}},
		{"search matches title", "?search=licorice", []string{"Licorice Mansion"}},
		{"search matches address", "?search=candy+cane", []string{"Peppermint Cottage"}},
		{"min price", "?min_price=500000", []string{"Licorice Mansion"}},
		{"price band", "?min_price=100000&max_price=500000", []string{"Peppermint Cottage"}},
		{"neighborhood", "?min_price=100000&neighborhood=Sugar+Plum+Village", []string{"Peppermint Cottage"}},
		{"listing type", "?listing_type=cabin", []string{"Gumdrop Cabin"}},
		{"status", "?status=available", []string{"Peppermint Cottage", "Licorice Mansion"}},
		{"min rooms", "?min_rooms=3", []string{"Licorice Mansion"}},
		{"gumdrop garden", "?has_gumdrop_garden=true", []string{"Peppermint Cottage"}},
		{"no matches", "?search=chocolate", []string{}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			app.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/listings"+tc.query, nil))
			if rec.Code != http.StatusOK {
				t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
			}

			var listings []models.Listing
			if err := json.Unmarshal(rec.Body.Bytes(), &listings); err != nil {
				t.Fatalf("failed to decode listings: %v", err)
			}

			got := make(map[string]bool, len(listings))
			for _, listing := range listings {
				got[listing.Title] = true
			}
			if len(got) != len(tc.want) {
				t.Fatalf("expected %d listings, got %d: %v", len(tc.want), len(listings), got)
			}
			for _, title := range tc.want {
				if !got[title] {
					t.Errorf("expected %q in results, got %v", title, got)
				}
			}
		})
	}
}

// An empty result must encode as [] so clients can iterate without a nil
// check.
func TestListListingsEmptyArray(t *testing.T) {
	app := buildTestApp(t)

	rec := httptest.NewRecorder()
	app.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/listings", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if body := strings.TrimSpace(rec.Body.String()); body != "[]" {
		t.Errorf("expected empty array body, got %q", body)
	}
}

func TestGetNeighborhoods(t *testing.T) {
	app := buildTestApp(t)

	seedListing(t, models.Listing{Title: "A", Price: 1000, Address: "1 A St", Neighborhood: "Sugar Plum Village"})
	seedListing(t, models.Listing{Title: "B", Price: 1000, Address: "2 B St", Neighborhood: "Frosting Heights"})
	seedListing(t, models.Listing{Title: "C", Price: 1000, Address: "3 C St", Neighborhood: "Sugar Plum Village"})
	seedListing(t, models.Listing{Title: "D", Price: 1000, Address: "4 D St"})

	rec := httptest.NewRecorder()
	app.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/neighborhoods", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var neighborhoods []string
	if err := json.Unmarshal(rec.Body.Bytes(), &neighborhoods); err != nil {
		t.Fatalf("failed to decode neighborhoods: %v", err)
	}

	want := []string{"Frosting Heights", "Sugar Plum Village"}
	if len(neighborhoods) != len(want) {
		t.Fatalf("expected %v, got %v", want, neighborhoods)
	}
	for i, name := range want {
		if neighborhoods[i] != name {
			t.Errorf("expected %v, got %v", want, neighborhoods)
			break
		}
	}
}
