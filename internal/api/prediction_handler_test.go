package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/itemguard/moderation-api/internal/logger"
	"github.com/itemguard/moderation-api/internal/models"
	"github.com/itemguard/moderation-api/internal/services"
)

// Mock prediction service for testing
type mockPredictionService struct {
	available   bool
	decision    models.Decision
	shouldError bool
	calls       int
}

func (m *mockPredictionService) Available() bool {
	return m.available
}

func (m *mockPredictionService) Predict(_ models.Listing) (models.Decision, error) {
	m.calls++
	if m.shouldError {
		return models.Decision{}, errors.New("mock inference failure")
	}
	return m.decision, nil
}

// Mock approval service
type mockApprovalService struct{}

func (m *mockApprovalService) Approve(listing models.Listing) bool {
	if listing.IsVerifiedSeller {
		return true
	}
	return listing.ImagesQty > 0
}

// Mock lookup service
type mockLookupService struct {
	listings    map[int64]models.Listing
	shouldError bool
	calls       int
}

func (m *mockLookupService) Resolve(_ context.Context, itemID int64) (*models.Listing, error) {
	m.calls++
	if m.shouldError {
		return nil, errors.New("mock store failure")
	}
	listing, ok := m.listings[itemID]
	if !ok {
		return nil, nil
	}
	return &listing, nil
}

// Mock health checker
type mockHealthChecker struct {
	err error
}

func (m *mockHealthChecker) HealthCheck() error {
	return m.err
}

func setupTestRouter(svcs *services.Services, db HealthChecker) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	SetupRoutes(r, svcs, db, logger.NewStdLogger())
	return r
}

func defaultServices() (*services.Services, *mockPredictionService, *mockLookupService) {
	prediction := &mockPredictionService{
		available: true,
		decision:  models.Decision{IsViolation: false, Probability: 0.1},
	}
	lookup := &mockLookupService{listings: map[int64]models.Listing{}}
	svcs := &services.Services{
		Prediction: prediction,
		Approval:   &mockApprovalService{},
		Lookup:     lookup,
	}
	return svcs, prediction, lookup
}

func validPayload() map[string]interface{} {
	return map[string]interface{}{
		"seller_id":          1,
		"is_verified_seller": false,
		"item_id":            100,
		"name":               "Test Item",
		"description":        "Desc",
		"category":           1,
		"images_qty":         1,
	}
}

func postJSON(r *gin.Engine, path string, payload interface{}) *httptest.ResponseRecorder {
	body, _ := json.Marshal(payload)
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decodeDetails(t *testing.T, w *httptest.ResponseRecorder) []models.FieldError {
	t.Helper()
	var body struct {
		Detail []models.FieldError `json:"detail"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("Failed to decode validation details: %v (body: %s)", err, w.Body.String())
	}
	return body.Detail
}

func TestRoot(t *testing.T) {
	svcs, _, _ := defaultServices()
	r := setupTestRouter(svcs, &mockHealthChecker{})

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("Expected 200, got %d", w.Code)
	}
	if w.Body.String() != `{"message":"Hello World"}` {
		t.Errorf("Unexpected root body: %s", w.Body.String())
	}
}

func TestHealth(t *testing.T) {
	svcs, _, _ := defaultServices()
	r := setupTestRouter(svcs, &mockHealthChecker{})

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("Expected 200, got %d", w.Code)
	}

	var body map[string]interface{}
	json.Unmarshal(w.Body.Bytes(), &body)
	if body["model_loaded"] != true {
		t.Error("Expected model_loaded true")
	}
	if body["database"] != "up" {
		t.Error("Expected database up")
	}
}

func TestHealthDatabaseDown(t *testing.T) {
	svcs, _, _ := defaultServices()
	r := setupTestRouter(svcs, &mockHealthChecker{err: errors.New("connection refused")})

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusServiceUnavailable {
		t.Errorf("Expected 503, got %d", w.Code)
	}
}

func TestPredictSuccess(t *testing.T) {
	svcs, prediction, _ := defaultServices()
	prediction.decision = models.Decision{IsViolation: true, Probability: 0.95}
	r := setupTestRouter(svcs, &mockHealthChecker{})

	w := postJSON(r, "/predict", validPayload())

	if w.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d (body: %s)", w.Code, w.Body.String())
	}

	var decision models.Decision
	json.Unmarshal(w.Body.Bytes(), &decision)
	if !decision.IsViolation {
		t.Error("Expected is_violation true")
	}
	if decision.Probability != 0.95 {
		t.Errorf("Expected probability 0.95, got %f", decision.Probability)
	}
}

func TestPredictMissingField(t *testing.T) {
	svcs, _, _ := defaultServices()
	r := setupTestRouter(svcs, &mockHealthChecker{})

	payload := validPayload()
	delete(payload, "seller_id")
	w := postJSON(r, "/predict", payload)

	if w.Code != http.StatusUnprocessableEntity {
		t.Fatalf("Expected 422, got %d", w.Code)
	}

	details := decodeDetails(t, w)
	if len(details) != 1 {
		t.Fatalf("Expected one detail entry, got %d", len(details))
	}
	if details[0].Type != "missing" {
		t.Errorf("Expected constraint kind missing, got %s", details[0].Type)
	}
	if details[0].Loc[len(details[0].Loc)-1] != "seller_id" {
		t.Errorf("Expected field path ending in seller_id, got %v", details[0].Loc)
	}
}

func TestPredictNegativeImages(t *testing.T) {
	svcs, _, _ := defaultServices()
	r := setupTestRouter(svcs, &mockHealthChecker{})

	payload := validPayload()
	payload["images_qty"] = -1
	w := postJSON(r, "/predict", payload)

	if w.Code != http.StatusUnprocessableEntity {
		t.Fatalf("Expected 422, got %d", w.Code)
	}

	details := decodeDetails(t, w)
	if len(details) != 1 {
		t.Fatalf("Expected one detail entry, got %d", len(details))
	}
	if details[0].Type != "greater_than_equal" {
		t.Errorf("Expected constraint kind greater_than_equal, got %s", details[0].Type)
	}
	if details[0].Loc[len(details[0].Loc)-1] != "images_qty" {
		t.Errorf("Expected field path ending in images_qty, got %v", details[0].Loc)
	}
}

func TestPredictWrongType(t *testing.T) {
	svcs, _, _ := defaultServices()
	r := setupTestRouter(svcs, &mockHealthChecker{})

	payload := validPayload()
	payload["images_qty"] = "три"
	w := postJSON(r, "/predict", payload)

	if w.Code != http.StatusUnprocessableEntity {
		t.Fatalf("Expected 422, got %d", w.Code)
	}

	details := decodeDetails(t, w)
	if details[0].Type != "type_mismatch" {
		t.Errorf("Expected constraint kind type_mismatch, got %s", details[0].Type)
	}
}

func TestPredictNameTooShort(t *testing.T) {
	svcs, _, _ := defaultServices()
	r := setupTestRouter(svcs, &mockHealthChecker{})

	payload := validPayload()
	payload["name"] = ""
	w := postJSON(r, "/predict", payload)

	if w.Code != http.StatusUnprocessableEntity {
		t.Fatalf("Expected 422, got %d", w.Code)
	}

	details := decodeDetails(t, w)
	if details[0].Type != "string_too_short" {
		t.Errorf("Expected constraint kind string_too_short, got %s", details[0].Type)
	}
}

func TestPredictModelUnavailable(t *testing.T) {
	svcs, prediction, _ := defaultServices()
	prediction.available = false
	r := setupTestRouter(svcs, &mockHealthChecker{})

	w := postJSON(r, "/predict", validPayload())

	if w.Code != http.StatusServiceUnavailable {
		t.Fatalf("Expected 503, got %d", w.Code)
	}

	var body map[string]string
	json.Unmarshal(w.Body.Bytes(), &body)
	if body["detail"] != "Model is not currently loaded." {
		t.Errorf("Unexpected detail: %q", body["detail"])
	}
	if prediction.calls != 0 {
		t.Error("Predict must not be invoked when the model is unavailable")
	}
}

func TestPredictInternalErrorThenRecovers(t *testing.T) {
	svcs, prediction, _ := defaultServices()
	prediction.shouldError = true
	r := setupTestRouter(svcs, &mockHealthChecker{})

	w := postJSON(r, "/predict", validPayload())

	if w.Code != http.StatusInternalServerError {
		t.Fatalf("Expected 500, got %d", w.Code)
	}

	var body map[string]string
	json.Unmarshal(w.Body.Bytes(), &body)
	if body["detail"] != "Internal server error." {
		t.Errorf("Unexpected detail: %q", body["detail"])
	}
	if bytes.Contains(w.Body.Bytes(), []byte("mock inference failure")) {
		t.Error("Internal error text must not leak to the caller")
	}

	// The service keeps answering subsequent requests
	prediction.shouldError = false
	w = postJSON(r, "/predict", validPayload())
	if w.Code != http.StatusOK {
		t.Errorf("Expected 200 on the next request, got %d", w.Code)
	}
}

func TestSimplePredictSuccess(t *testing.T) {
	svcs, prediction, lookup := defaultServices()
	prediction.decision = models.Decision{IsViolation: true, Probability: 0.8}
	lookup.listings[42] = models.Listing{
		SellerID:         3,
		IsVerifiedSeller: false,
		ItemID:           42,
		Name:             "Stored Item",
		Description:      "Desc",
		Category:         2,
		ImagesQty:        0,
	}
	r := setupTestRouter(svcs, &mockHealthChecker{})

	w := postJSON(r, "/simple_predict?item_id=42", nil)

	if w.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d (body: %s)", w.Code, w.Body.String())
	}

	var decision models.Decision
	json.Unmarshal(w.Body.Bytes(), &decision)
	if !decision.IsViolation || decision.Probability != 0.8 {
		t.Errorf("Unexpected decision: %+v", decision)
	}
}

func TestSimplePredictNotFound(t *testing.T) {
	svcs, _, _ := defaultServices()
	r := setupTestRouter(svcs, &mockHealthChecker{})

	w := postJSON(r, "/simple_predict?item_id=999", nil)

	if w.Code != http.StatusNotFound {
		t.Fatalf("Expected 404, got %d", w.Code)
	}

	var body map[string]string
	json.Unmarshal(w.Body.Bytes(), &body)
	if body["detail"] != fmt.Sprintf("Item %d not found.", 999) {
		t.Errorf("Expected detail naming item 999, got %q", body["detail"])
	}
}

func TestSimplePredictInvalidID(t *testing.T) {
	cases := []struct {
		name string
		path string
		kind string
	}{
		{"missing", "/simple_predict", "missing"},
		{"non-numeric", "/simple_predict?item_id=abc", "type_mismatch"},
		{"zero", "/simple_predict?item_id=0", "greater_than"},
		{"negative", "/simple_predict?item_id=-5", "greater_than"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			svcs, _, _ := defaultServices()
			r := setupTestRouter(svcs, &mockHealthChecker{})

			w := postJSON(r, tc.path, nil)

			if w.Code != http.StatusUnprocessableEntity {
				t.Fatalf("Expected 422, got %d", w.Code)
			}
			details := decodeDetails(t, w)
			if details[0].Type != tc.kind {
				t.Errorf("Expected constraint kind %s, got %s", tc.kind, details[0].Type)
			}
			if details[0].Loc[len(details[0].Loc)-1] != "item_id" {
				t.Errorf("Expected field path ending in item_id, got %v", details[0].Loc)
			}
		})
	}
}

func TestSimplePredictUnavailableBeforeLookup(t *testing.T) {
	// When both the model and the item are missing the caller sees 503:
	// the availability check runs first and the lookup is skipped.
	svcs, prediction, lookup := defaultServices()
	prediction.available = false
	r := setupTestRouter(svcs, &mockHealthChecker{})

	w := postJSON(r, "/simple_predict?item_id=999", nil)

	if w.Code != http.StatusServiceUnavailable {
		t.Fatalf("Expected 503, got %d", w.Code)
	}
	if lookup.calls != 0 {
		t.Error("Lookup must not run when the model is unavailable")
	}
}

func TestSimplePredictStoreError(t *testing.T) {
	svcs, _, lookup := defaultServices()
	lookup.shouldError = true
	r := setupTestRouter(svcs, &mockHealthChecker{})

	w := postJSON(r, "/simple_predict?item_id=1", nil)

	if w.Code != http.StatusInternalServerError {
		t.Fatalf("Expected 500, got %d", w.Code)
	}
	if bytes.Contains(w.Body.Bytes(), []byte("mock store failure")) {
		t.Error("Store error text must not leak to the caller")
	}
}

func TestApproveVerifiedSeller(t *testing.T) {
	svcs, _, _ := defaultServices()
	r := setupTestRouter(svcs, &mockHealthChecker{})

	payload := map[string]interface{}{
		"seller_id":          1,
		"is_verified_seller": true,
		"item_id":            100,
		"name":               "Test Item",
		"description":        "Desc",
		"category":           1,
		"images_qty":         0,
	}
	w := postJSON(r, "/approve", payload)

	if w.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d", w.Code)
	}
	if w.Body.String() != `{"result":true}` {
		t.Errorf("Unexpected body: %s", w.Body.String())
	}
}

func TestApproveRejection(t *testing.T) {
	svcs, _, _ := defaultServices()
	r := setupTestRouter(svcs, &mockHealthChecker{})

	payload := map[string]interface{}{
		"seller_id":          3,
		"is_verified_seller": false,
		"item_id":            102,
		"name":               "Bad Item",
		"description":        "Desc",
		"category":           1,
		"images_qty":         0,
	}
	w := postJSON(r, "/approve", payload)

	if w.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d", w.Code)
	}
	if w.Body.String() != `{"result":false}` {
		t.Errorf("Unexpected body: %s", w.Body.String())
	}
}
