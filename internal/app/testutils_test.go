package app

import (
	"bytes"
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/ozgurarslan/seminar-booking-system/internal/mocks"
	"github.com/ozgurarslan/seminar-booking-system/internal/validator"
)

const (
	testWebhookSecret = "s3cr3t"
	testProvider      = "payprov"
)

func newTestApplication(opts ...func(*application)) *application {
	app := &application{
		validator: validator.NewValidator(),
		logger:    slog.New(slog.NewTextHandler(io.Discard, nil)),
		notifier:  &mocks.MockNotifier{},
	}

	app.config.env = "test"
	app.config.webhook.secret = testWebhookSecret
	app.config.webhook.processTimeout = 5 * time.Second

	for _, opt := range opts {
		opt(app)
	}

	return app
}

func signBody(secret string, body []byte) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(body)
	return hex.EncodeToString(mac.Sum(nil))
}

// newRequest builds a request with the chi route context populated, so
// handlers can be exercised without spinning up the full router.
func newRequest(method, url string, body []byte, params map[string]string) (*httptest.ResponseRecorder, *http.Request) {
	r := httptest.NewRequest(method, url, bytes.NewReader(body))
	r.Header.Set("Content-Type", "application/json")

	rctx := chi.NewRouteContext()
	for key, value := range params {
		rctx.URLParams.Add(key, value)
	}
	r = r.WithContext(context.WithValue(r.Context(), chi.RouteCtxKey, rctx))

	return httptest.NewRecorder(), r
}

func ptr[T any](v T) *T {
	return &v
}
