package response

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestParsePagination_Defaults(t *testing.T) {
	r := httptest.NewRequest(http.MethodGet, "/devices", nil)

	page, perPage := ParsePagination(r)
	if page != 1 || perPage != 20 {
		t.Fatalf("expected 1/20, got %d/%d", page, perPage)
	}
}

func TestParsePagination_Clamps(t *testing.T) {
	r := httptest.NewRequest(http.MethodGet, "/devices?page=0&per_page=500", nil)

	page, perPage := ParsePagination(r)
	if page != 1 || perPage != 20 {
		t.Fatalf("expected invalid values ignored, got %d/%d", page, perPage)
	}

	r = httptest.NewRequest(http.MethodGet, "/devices?page=3&per_page=50", nil)
	page, perPage = ParsePagination(r)
	if page != 3 || perPage != 50 {
		t.Fatalf("expected 3/50, got %d/%d", page, perPage)
	}
}

func TestPaginated_TotalPages(t *testing.T) {
	w := httptest.NewRecorder()
	Paginated(w, http.StatusOK, []string{"a", "b"}, 1, 20, 45)

	var body struct {
		Pagination Pagination `json:"pagination"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if body.Pagination.TotalPages != 3 {
		t.Fatalf("expected 3 total pages, got %d", body.Pagination.TotalPages)
	}
}

func TestError_Body(t *testing.T) {
	w := httptest.NewRecorder()
	Error(w, http.StatusNotFound, "not found")

	if w.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", w.Code)
	}
	if ct := w.Header().Get("Content-Type"); ct != "application/json" {
		t.Fatalf("expected json content type, got %s", ct)
	}

	var body map[string]string
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if body["error"] != "not found" {
		t.Fatalf("unexpected body: %v", body)
	}
}
