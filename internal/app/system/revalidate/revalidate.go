// internal/app/system/revalidate/revalidate.go
//
// The rendering layer caches assembled pages. After a write that changes
// what a page shows (new thread, new reply), the thread service sends it a
// path invalidation hint. The hint is strictly fire-and-forget: a slow or
// absent rendering layer must never fail or delay the write that triggered
// it.
package revalidate

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"time"

	"go.uber.org/zap"
)

// Hinter delivers cache invalidation hints for paths.
type Hinter interface {
	Hint(path string)
}

// Webhook posts {"path": ...} to a configured endpoint in the background.
type Webhook struct {
	url    string
	client *http.Client
	log    *zap.Logger
}

// NewWebhook builds a Hinter for the given endpoint. An empty URL yields a
// hinter that only logs.
func NewWebhook(url string, logger *zap.Logger) Hinter {
	if url == "" {
		return &nop{log: logger}
	}
	return &Webhook{
		url:    url,
		client: &http.Client{Timeout: 5 * time.Second},
		log:    logger,
	}
}

// Hint sends the invalidation in a goroutine and returns immediately.
func (w *Webhook) Hint(path string) {
	go func() {
		body, _ := json.Marshal(map[string]string{"path": path})

		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		req, err := http.NewRequestWithContext(ctx, http.MethodPost, w.url, bytes.NewReader(body))
		if err != nil {
			w.log.Warn("revalidate: building request failed", zap.String("path", path), zap.Error(err))
			return
		}
		req.Header.Set("Content-Type", "application/json")

		resp, err := w.client.Do(req)
		if err != nil {
			w.log.Warn("revalidate: hint not delivered", zap.String("path", path), zap.Error(err))
			return
		}
		resp.Body.Close()
	}()
}

type nop struct {
	log *zap.Logger
}

func (n *nop) Hint(path string) {
	n.log.Debug("revalidate: no endpoint configured, hint dropped", zap.String("path", path))
}
