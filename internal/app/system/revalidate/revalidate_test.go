package revalidate

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"go.uber.org/zap"
)

func TestWebhookDeliversHint(t *testing.T) {
	got := make(chan string, 1)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var body struct {
			Path string `json:"path"`
		}
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			t.Errorf("bad hint body: %v", err)
		}
		got <- body.Path
	}))
	defer srv.Close()

	h := NewWebhook(srv.URL, zap.NewNop())
	h.Hint("/thread/abc123")

	select {
	case path := <-got:
		if path != "/thread/abc123" {
			t.Errorf("path: got %q, want %q", path, "/thread/abc123")
		}
	case <-time.After(2 * time.Second):
		t.Fatal("hint never arrived")
	}
}

func TestEmptyURLIsNop(t *testing.T) {
	h := NewWebhook("", zap.NewNop())
	// Must not panic or block.
	h.Hint("/")
}
