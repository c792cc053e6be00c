package routes_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"gorm.io/gorm"

	"github.com/BruksfildServices01/tour-booking/internal/config"
	"github.com/BruksfildServices01/tour-booking/internal/models"
	"github.com/BruksfildServices01/tour-booking/internal/routes"
	"github.com/BruksfildServices01/tour-booking/internal/testutil"
	"github.com/BruksfildServices01/tour-booking/internal/timezone"
	"github.com/BruksfildServices01/tour-booking/internal/validators"
)

type api struct {
	t   *testing.T
	r   *gin.Engine
	db  *gorm.DB
	cfg *config.Config
}

func newAPI(t *testing.T) *api {
	t.Helper()
	gin.SetMode(gin.TestMode)
	validators.Register()

	db := testutil.NewDB(t)
	cfg := &config.Config{
		JWTSecret:                "test-secret",
		TokenTTL:                 time.Hour,
		Timezone:                 "UTC",
		AvailabilityWindowMonths: 3,
		CancellationNotice:       24 * time.Hour,
	}

	svc, err := routes.NewServices(db, cfg)
	if err != nil {
		t.Fatalf("services: %v", err)
	}
	t.Cleanup(svc.Audit.Close)

	r := gin.New()
	routes.RegisterRoutes(r, db, cfg, svc)
	return &api{t: t, r: r, db: db, cfg: cfg}
}

func (a *api) token(u *models.User) string {
	a.t.Helper()
	s, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub":  u.ID,
		"role": u.Role,
		"exp":  time.Now().Add(time.Hour).Unix(),
	}).SignedString([]byte(a.cfg.JWTSecret))
	if err != nil {
		a.t.Fatalf("sign: %v", err)
	}
	return s
}

func (a *api) do(method, path, token string, body any) (*httptest.ResponseRecorder, map[string]any) {
	a.t.Helper()

	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			a.t.Fatalf("encode: %v", err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	w := httptest.NewRecorder()
	a.r.ServeHTTP(w, req)

	var out map[string]any
	_ = json.Unmarshal(w.Body.Bytes(), &out)
	return w, out
}

// nextMonday is at least a week out so no notice window gets in the way.
func nextMonday() time.Time {
	d := timezone.Date(time.Now().UTC()).AddDate(0, 0, 7)
	for d.Weekday() != time.Monday {
		d = d.AddDate(0, 0, 1)
	}
	return d
}

func TestBookingFlow(t *testing.T) {
	a := newAPI(t)

	alice := testutil.SeedUser(t, a.db, "alice@example.com", models.RoleTraveler)
	bob := testutil.SeedUser(t, a.db, "bob@example.com", models.RoleTraveler)
	guideUser, guide := testutil.SeedGuide(t, a.db, "guide@example.com")
	tour := testutil.SeedTour(t, a.db, guide, testutil.TourOpts{MaxGroupSize: 10})
	slot := tour.TourDates[0]
	date := nextMonday().Format("2006-01-02")

	// ------------------------------
	// create
	// ------------------------------
	w, body := a.do(http.MethodPost, "/api/bookings", a.token(alice), gin.H{
		"tour_id":      tour.ID,
		"tour_date_id": slot.ID,
		"booked_date":  date,
		"group_size":   4,
	})
	if w.Code != http.StatusCreated {
		t.Fatalf("create: status %d body %s", w.Code, w.Body.String())
	}
	booking := body["booking"].(map[string]any)
	if booking["booking_reference"] != "BK-000001" {
		t.Fatalf("reference = %v", booking["booking_reference"])
	}
	if booking["status"] != "pending" || booking["total_price"].(float64) != 400 {
		t.Fatalf("unexpected booking %v", booking)
	}
	if w.Header().Get("X-Request-ID") == "" {
		t.Fatal("missing request id header")
	}

	// ------------------------------
	// capacity
	// ------------------------------
	w, body = a.do(http.MethodPost, "/api/bookings", a.token(bob), gin.H{
		"tour_id":      tour.ID,
		"tour_date_id": slot.ID,
		"booked_date":  date,
		"group_size":   7,
	})
	if w.Code != http.StatusConflict || body["error_code"] != "capacity_exceeded" {
		t.Fatalf("over capacity: status %d body %s", w.Code, w.Body.String())
	}
	if meta := body["meta"].(map[string]any); meta["remaining"].(float64) != 6 {
		t.Fatalf("remaining = %v", meta["remaining"])
	}

	// ------------------------------
	// duplicate
	// ------------------------------
	w, body = a.do(http.MethodPost, "/api/bookings", a.token(alice), gin.H{
		"tour_id":      tour.ID,
		"tour_date_id": slot.ID,
		"booked_date":  date,
		"group_size":   1,
	})
	if w.Code != http.StatusConflict || body["error_code"] != "duplicate_booking" {
		t.Fatalf("duplicate: status %d body %s", w.Code, w.Body.String())
	}

	// ------------------------------
	// availability reflects the booking
	// ------------------------------
	w, body = a.do(http.MethodGet, fmt.Sprintf("/api/tours/%d/available-dates", tour.ID), "", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("availability: status %d", w.Code)
	}
	found := false
	for _, raw := range body["available_dates"].([]any) {
		d := raw.(map[string]any)
		if d["date"] == date {
			found = true
			if d["remaining_capacity"].(float64) != 6 {
				t.Fatalf("remaining on %s = %v", date, d["remaining_capacity"])
			}
		}
	}
	if !found {
		t.Fatalf("%s missing from available dates", date)
	}

	// ------------------------------
	// visibility
	// ------------------------------
	w, _ = a.do(http.MethodGet, "/api/bookings/1", a.token(bob), nil)
	if w.Code != http.StatusNotFound {
		t.Fatalf("other traveler's booking: status %d", w.Code)
	}

	// ------------------------------
	// guide accepts
	// ------------------------------
	w, _ = a.do(http.MethodPatch, "/api/guide/bookings/1/accept", a.token(alice), nil)
	if w.Code != http.StatusForbidden {
		t.Fatalf("traveler on guide route: status %d", w.Code)
	}

	w, body = a.do(http.MethodPatch, "/api/guide/bookings/1/accept", a.token(guideUser), nil)
	if w.Code != http.StatusOK {
		t.Fatalf("accept: status %d body %s", w.Code, w.Body.String())
	}
	if body["booking"].(map[string]any)["status"] != "confirmed" {
		t.Fatalf("accept result %v", body)
	}

	w, body = a.do(http.MethodPatch, "/api/guide/bookings/1/accept", a.token(guideUser), nil)
	if w.Code != http.StatusUnprocessableEntity || body["error_code"] != "invalid_state" {
		t.Fatalf("accept twice: status %d body %s", w.Code, w.Body.String())
	}

	// ------------------------------
	// traveler cancels, capacity returns
	// ------------------------------
	w, body = a.do(http.MethodPatch, "/api/bookings/1/cancel", a.token(alice), nil)
	if w.Code != http.StatusOK || body["booking"].(map[string]any)["status"] != "cancelled" {
		t.Fatalf("cancel: status %d body %s", w.Code, w.Body.String())
	}

	w, _ = a.do(http.MethodPost, "/api/bookings", a.token(bob), gin.H{
		"tour_id":      tour.ID,
		"tour_date_id": slot.ID,
		"booked_date":  date,
		"group_size":   10,
	})
	if w.Code != http.StatusCreated {
		t.Fatalf("full group after cancel: status %d body %s", w.Code, w.Body.String())
	}
}

func TestCreateBookingRejectsBadInput(t *testing.T) {
	a := newAPI(t)
	alice := testutil.SeedUser(t, a.db, "alice@example.com", models.RoleTraveler)
	_, guide := testutil.SeedGuide(t, a.db, "guide@example.com")
	tour := testutil.SeedTour(t, a.db, guide, testutil.TourOpts{})
	slot := tour.TourDates[0]

	w, _ := a.do(http.MethodPost, "/api/bookings", "", gin.H{})
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("anonymous: status %d", w.Code)
	}

	w, body := a.do(http.MethodPost, "/api/bookings", a.token(alice), gin.H{
		"tour_id":      tour.ID,
		"tour_date_id": slot.ID,
		"booked_date":  "02/06/2025",
	})
	if w.Code != http.StatusUnprocessableEntity || body["error_code"] != "invalid_request" {
		t.Fatalf("validation: status %d body %s", w.Code, w.Body.String())
	}
	details := body["details"].(map[string]any)
	for _, field := range []string{"booked_date", "group_size"} {
		if _, ok := details[field]; !ok {
			t.Errorf("details missing %s: %v", field, details)
		}
	}

	// a Tuesday against the Monday slot
	tuesday := nextMonday().AddDate(0, 0, 1).Format("2006-01-02")
	w, body = a.do(http.MethodPost, "/api/bookings", a.token(alice), gin.H{
		"tour_id":      tour.ID,
		"tour_date_id": slot.ID,
		"booked_date":  tuesday,
		"group_size":   1,
	})
	if w.Code != http.StatusUnprocessableEntity || body["error_code"] != "slot_mismatch" {
		t.Fatalf("wrong weekday: status %d body %s", w.Code, w.Body.String())
	}

	w, body = a.do(http.MethodPost, "/api/bookings", a.token(alice), gin.H{
		"tour_id":      tour.ID + 99,
		"tour_date_id": slot.ID,
		"booked_date":  nextMonday().Format("2006-01-02"),
		"group_size":   1,
	})
	if w.Code != http.StatusNotFound || body["error_code"] != "tour_not_found" {
		t.Fatalf("missing tour: status %d body %s", w.Code, w.Body.String())
	}
}

func TestRegisterLoginAndMe(t *testing.T) {
	a := newAPI(t)

	w, body := a.do(http.MethodPost, "/api/auth/register", "", gin.H{
		"name":      "Hassan",
		"email":     "Hassan@Example.com",
		"password":  "secret123",
		"role":      "guide",
		"languages": []string{"ar", "fr"},
	})
	if w.Code != http.StatusCreated {
		t.Fatalf("register: status %d body %s", w.Code, w.Body.String())
	}
	token := body["token"].(string)

	w, _ = a.do(http.MethodPost, "/api/auth/register", "", gin.H{
		"name":     "Again",
		"email":    "hassan@example.com",
		"password": "secret123",
	})
	if w.Code != http.StatusConflict {
		t.Fatalf("duplicate email: status %d", w.Code)
	}

	w, body = a.do(http.MethodGet, "/api/me", token, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("me: status %d body %s", w.Code, w.Body.String())
	}
	guide, ok := body["guide"].(map[string]any)
	if !ok {
		t.Fatalf("guide profile missing: %v", body)
	}
	if langs := guide["languages"].([]any); len(langs) != 2 {
		t.Fatalf("languages = %v", langs)
	}

	w, _ = a.do(http.MethodPost, "/api/auth/login", "", gin.H{
		"email":    "hassan@example.com",
		"password": "wrong-password",
	})
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("bad password: status %d", w.Code)
	}

	w, body = a.do(http.MethodPost, "/api/auth/login", "", gin.H{
		"email":    "hassan@example.com",
		"password": "secret123",
	})
	if w.Code != http.StatusOK || body["token"] == "" {
		t.Fatalf("login: status %d body %s", w.Code, w.Body.String())
	}
}

func TestGuideTourManagement(t *testing.T) {
	a := newAPI(t)
	guideUser, _ := testutil.SeedGuide(t, a.db, "guide@example.com")
	otherUser, _ := testutil.SeedGuide(t, a.db, "other@example.com")

	city := models.City{Name: "Fes", Country: "Morocco"}
	if err := a.db.Create(&city).Error; err != nil {
		t.Fatalf("seed city: %v", err)
	}

	tourBody := func(end string) gin.H {
		return gin.H{
			"title":          "Tannery walk",
			"description":    "Through the old medina.",
			"city_id":        city.ID,
			"price":          45.5,
			"duration":       120,
			"max_group_size": 8,
			"tour_dates": []gin.H{
				{"day_of_week": "Saturday", "start_time": "10:00", "end_time": end},
			},
		}
	}

	w, body := a.do(http.MethodPost, "/api/guide/tours", a.token(guideUser), tourBody("09:00"))
	if w.Code != http.StatusUnprocessableEntity {
		t.Fatalf("end before start: status %d body %s", w.Code, w.Body.String())
	}
	if _, ok := body["details"].(map[string]any)["tour_dates[0].end_time"]; !ok {
		t.Fatalf("details = %v", body["details"])
	}

	w, body = a.do(http.MethodPost, "/api/guide/tours", a.token(guideUser), tourBody("12:00"))
	if w.Code != http.StatusCreated {
		t.Fatalf("create tour: status %d body %s", w.Code, w.Body.String())
	}
	id := uint(body["id"].(float64))
	dates := body["tour_dates"].([]any)
	if len(dates) != 1 || dates[0].(map[string]any)["day_of_week"] != "saturday" {
		t.Fatalf("tour_dates = %v", dates)
	}

	path := fmt.Sprintf("/api/guide/tours/%d", id)

	w, _ = a.do(http.MethodPatch, path, a.token(otherUser), gin.H{"price": 10})
	if w.Code != http.StatusForbidden {
		t.Fatalf("other guide update: status %d", w.Code)
	}

	w, body = a.do(http.MethodPatch, path, a.token(guideUser), gin.H{"availability_status": "temporarily_unavailable"})
	if w.Code != http.StatusOK || body["availability_status"] != "temporarily_unavailable" {
		t.Fatalf("update: status %d body %s", w.Code, w.Body.String())
	}

	w, body = a.do(http.MethodGet, fmt.Sprintf("/api/tours/%d/available-dates", id), "", nil)
	if w.Code != http.StatusUnprocessableEntity || body["error_code"] != "tour_unavailable" {
		t.Fatalf("availability of paused tour: status %d body %s", w.Code, w.Body.String())
	}

	w, _ = a.do(http.MethodDelete, path, a.token(guideUser), nil)
	if w.Code != http.StatusOK {
		t.Fatalf("delete: status %d body %s", w.Code, w.Body.String())
	}
}

func TestProfileUpdateAndPasswordChange(t *testing.T) {
	a := newAPI(t)
	testutil.SeedUser(t, a.db, "taken@example.com", models.RoleTraveler)
	city := models.City{Name: "Chefchaouen", Country: "Morocco"}
	if err := a.db.Create(&city).Error; err != nil {
		t.Fatalf("seed city: %v", err)
	}

	w, body := a.do(http.MethodPost, "/api/auth/register", "", gin.H{
		"name":     "Salma",
		"email":    "salma@example.com",
		"password": "first-pass",
	})
	if w.Code != http.StatusCreated {
		t.Fatalf("register: status %d body %s", w.Code, w.Body.String())
	}
	token := body["token"].(string)

	w, body = a.do(http.MethodPatch, "/api/me", token, gin.H{
		"name":  "Salma B.",
		"email": "TAKEN@example.com",
	})
	if w.Code != http.StatusConflict || body["error_code"] != "email_already_used" {
		t.Fatalf("email of another account: status %d body %s", w.Code, w.Body.String())
	}

	w, body = a.do(http.MethodPatch, "/api/me", token, gin.H{
		"name":    "Salma B.",
		"email":   "salma@example.com",
		"phone":   "+212600000000",
		"city_id": city.ID,
	})
	if w.Code != http.StatusOK {
		t.Fatalf("update profile: status %d body %s", w.Code, w.Body.String())
	}
	user := body["user"].(map[string]any)
	if user["name"] != "Salma B." || user["city_id"] != float64(city.ID) {
		t.Fatalf("user = %v", user)
	}

	w, body = a.do(http.MethodPut, "/api/me/password", token, gin.H{
		"current_password":          "first-pass",
		"new_password":              "second-pass",
		"new_password_confirmation": "different",
	})
	if w.Code != http.StatusUnprocessableEntity {
		t.Fatalf("mismatched confirmation: status %d", w.Code)
	}
	if _, ok := body["details"].(map[string]any)["new_password_confirmation"]; !ok {
		t.Fatalf("details = %v", body["details"])
	}

	w, body = a.do(http.MethodPut, "/api/me/password", token, gin.H{
		"current_password":          "wrong-pass",
		"new_password":              "second-pass",
		"new_password_confirmation": "second-pass",
	})
	if w.Code != http.StatusUnprocessableEntity || body["error_code"] != "invalid_current_password" {
		t.Fatalf("wrong current password: status %d body %s", w.Code, w.Body.String())
	}

	w, _ = a.do(http.MethodPut, "/api/me/password", token, gin.H{
		"current_password":          "first-pass",
		"new_password":              "short",
		"new_password_confirmation": "short",
	})
	if w.Code != http.StatusUnprocessableEntity {
		t.Fatalf("short password: status %d", w.Code)
	}

	w, _ = a.do(http.MethodPut, "/api/me/password", token, gin.H{
		"current_password":          "first-pass",
		"new_password":              "second-pass",
		"new_password_confirmation": "second-pass",
	})
	if w.Code != http.StatusOK {
		t.Fatalf("change password: status %d body %s", w.Code, w.Body.String())
	}

	for pass, want := range map[string]int{"first-pass": http.StatusUnauthorized, "second-pass": http.StatusOK} {
		w, _ = a.do(http.MethodPost, "/api/auth/login", "", gin.H{"email": "salma@example.com", "password": pass})
		if w.Code != want {
			t.Errorf("login with %s: status %d, want %d", pass, w.Code, want)
		}
	}
}

func TestTourDiscovery(t *testing.T) {
	a := newAPI(t)
	_, guide := testutil.SeedGuide(t, a.db, "guide@example.com")
	near := testutil.SeedTour(t, a.db, guide, testutil.TourOpts{})
	far := testutil.SeedTour(t, a.db, guide, testutil.TourOpts{})
	testutil.SeedTour(t, a.db, guide, testutil.TourOpts{Status: models.TourUnavailable})

	ids := func(body map[string]any) map[float64]bool {
		out := map[float64]bool{}
		for _, d := range body["data"].([]any) {
			out[d.(map[string]any)["id"].(float64)] = true
		}
		return out
	}

	w, body := a.do(http.MethodGet, "/api/tours/random", "", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("random: status %d body %s", w.Code, w.Body.String())
	}
	if got := ids(body); len(got) != 2 || !got[float64(near.ID)] || !got[float64(far.ID)] {
		t.Fatalf("random ids = %v", got)
	}

	homeless := testutil.SeedUser(t, a.db, "nomad@example.com", models.RoleTraveler)
	w, body = a.do(http.MethodGet, "/api/tours/nearby", a.token(homeless), nil)
	if w.Code != http.StatusOK || len(ids(body)) != 2 {
		t.Fatalf("nearby without city: status %d body %s", w.Code, w.Body.String())
	}

	local := testutil.SeedUser(t, a.db, "local@example.com", models.RoleTraveler)
	if err := a.db.Model(local).Update("city_id", near.CityID).Error; err != nil {
		t.Fatalf("set city: %v", err)
	}
	w, body = a.do(http.MethodGet, "/api/tours/nearby", a.token(local), nil)
	if got := ids(body); w.Code != http.StatusOK || len(got) != 1 || !got[float64(near.ID)] {
		t.Fatalf("nearby with city: status %d ids %v", w.Code, got)
	}

	w, _ = a.do(http.MethodGet, "/api/tours/nearby", "", nil)
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("nearby anonymous: status %d", w.Code)
	}
}

func TestGuidesIndex(t *testing.T) {
	a := newAPI(t)
	_, plain := testutil.SeedGuide(t, a.db, "plain@example.com")
	_, star := testutil.SeedGuide(t, a.db, "star@example.com")
	if err := a.db.Model(star).Updates(map[string]any{"rating": 4.8, "is_verified": true}).Error; err != nil {
		t.Fatalf("rate guide: %v", err)
	}

	w, body := a.do(http.MethodGet, "/api/guides", "", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("guides: status %d body %s", w.Code, w.Body.String())
	}
	data := body["data"].([]any)
	if len(data) != 2 || data[0].(map[string]any)["id"] != float64(star.ID) {
		t.Fatalf("guides = %v", data)
	}
	if total := body["meta"].(map[string]any)["total"]; total != float64(2) {
		t.Fatalf("total = %v", total)
	}

	w, body = a.do(http.MethodGet, "/api/guides?verified=false", "", nil)
	data = body["data"].([]any)
	if w.Code != http.StatusOK || len(data) != 1 || data[0].(map[string]any)["id"] != float64(plain.ID) {
		t.Fatalf("unverified guides: status %d body %s", w.Code, w.Body.String())
	}

	w, body = a.do(http.MethodGet, "/api/guides?search=STAR", "", nil)
	if data = body["data"].([]any); w.Code != http.StatusOK || len(data) != 1 {
		t.Fatalf("search: status %d body %s", w.Code, w.Body.String())
	}
}
