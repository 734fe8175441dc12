package segmentstore

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/vandana/paligest/internal/segment"
)

func TestClient_BulkInsertSegments(t *testing.T) {
	var gotPath, gotAuth string
	var gotBody map[string]any

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotAuth = r.Header.Get("Authorization")
		if err := json.NewDecoder(r.Body).Decode(&gotBody); err != nil {
			t.Errorf("decode request: %v", err)
		}
		json.NewEncoder(w).Encode(map[string]int{"inserted": 2})
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "test-key")
	defer c.Close()

	rows := []segment.ParsedSegment{
		{VaggaID: 1, SuttaID: 1, ParagraphID: 0, OriginalText: "Evaṃ me sutaṃ."},
		{VaggaID: 1, SuttaID: 1, ParagraphID: 1, OriginalText: "Ekaṃ samayaṃ."},
	}
	n, err := c.BulkInsertSegments(context.Background(), "digha-1", rows)
	if err != nil {
		t.Fatalf("BulkInsertSegments: %v", err)
	}
	if n != 2 {
		t.Errorf("inserted = %d, want 2", n)
	}
	if gotPath != "/works/digha-1/segments/bulk" {
		t.Errorf("path = %q", gotPath)
	}
	if gotAuth != "Bearer test-key" {
		t.Errorf("auth header = %q", gotAuth)
	}
	segs, ok := gotBody["segments"].([]any)
	if !ok || len(segs) != 2 {
		t.Fatalf("request body segments = %v", gotBody["segments"])
	}
	first, _ := segs[0].(map[string]any)
	if first["original_text"] != "Evaṃ me sutaṃ." {
		t.Errorf("first row = %v", first)
	}
}

func TestClient_FindWorkByHash_NotFound(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "test-key")
	defer c.Close()

	_, err := c.FindWorkByHash(context.Background(), "deadbeef")
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
}

func TestClient_RetryableStatusCodes(t *testing.T) {
	for _, code := range []int{http.StatusTooManyRequests, http.StatusInternalServerError, http.StatusServiceUnavailable} {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(code)
		}))
		c := NewClient(srv.URL, "test-key")

		err := c.PutWork(context.Background(), "w1", WorkRequest{Title: "t"})
		var retryable *RetryableError
		if !errors.As(err, &retryable) {
			t.Errorf("status %d: err = %v, want RetryableError", code, err)
		} else if retryable.StatusCode != code {
			t.Errorf("status in error = %d, want %d", retryable.StatusCode, code)
		}

		c.Close()
		srv.Close()
	}
}

func TestClient_NonRetryableStatusIsPlainError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "bad payload", http.StatusBadRequest)
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "test-key")
	defer c.Close()

	err := c.PutWork(context.Background(), "w1", WorkRequest{})
	if err == nil {
		t.Fatal("expected an error for 400")
	}
	var retryable *RetryableError
	if errors.As(err, &retryable) {
		t.Errorf("400 must not be retryable: %v", err)
	}
}

func TestClient_PutTranslationPath(t *testing.T) {
	var gotPath, gotMethod string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotMethod = r.Method
		w.WriteHeader(http.StatusNoContent)
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "test-key")
	defer c.Close()

	row := TranslationRow{VaggaID: 2, SuttaID: 3, ParagraphID: 4, Translation: "Thus have I heard."}
	if err := c.PutTranslation(context.Background(), "digha-1", row); err != nil {
		t.Fatalf("PutTranslation: %v", err)
	}
	if gotMethod != http.MethodPut || gotPath != "/works/digha-1/translations/2/3/4" {
		t.Errorf("request = %s %s", gotMethod, gotPath)
	}
}

func TestClient_ListWorks(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{
			"works": []WorkInfo{{WorkID: "w1", Title: "Dīghanikāya"}},
		})
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "test-key")
	defer c.Close()

	works, err := c.ListWorks(context.Background())
	if err != nil {
		t.Fatalf("ListWorks: %v", err)
	}
	if len(works) != 1 || works[0].WorkID != "w1" {
		t.Errorf("works = %+v", works)
	}
}
