package notify_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"devmart/internal/domain/models"
	"devmart/internal/lib/logger/handlers/slogdiscard"
	"devmart/internal/lib/retry"
	"devmart/internal/notify"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testLead() models.Lead {
	return models.Lead{
		ID:        "c8f0f7a2-5b1e-4a53-9d8e-0f2a4c7d9b11",
		Name:      "Ada",
		Email:     "ada@example.com",
		Message:   "We need a new landing page",
		Source:    models.LeadSourceContactForm,
		Status:    models.LeadNew,
		CreatedAt: time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC),
	}
}

func newNotifier(url string, retries int) *notify.EmailNotifier {
	r := retry.New(slogdiscard.NewDiscardLogger(), retry.Policy{
		MaxRetries: retries, InitialDelay: time.Millisecond, Factor: 2, MaxDelay: 5 * time.Millisecond,
	})

	return notify.NewEmailNotifier(slogdiscard.NewDiscardLogger(), notify.EmailConfig{
		Endpoint: url,
		APIKey:   "secret",
	}, r)
}

func TestEmailNotifier_PostsLead(t *testing.T) {
	var got map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		assert.Equal(t, "Bearer secret", r.Header.Get("Authorization"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.WriteHeader(http.StatusAccepted)
	}))
	defer srv.Close()

	err := newNotifier(srv.URL, 3).NotifyLead(context.Background(), testLead())
	require.NoError(t, err)

	assert.Equal(t, "ada@example.com", got["email"])
	assert.Equal(t, "contact_form", got["source"])
	assert.NotContains(t, got, "phone")
}

func TestEmailNotifier_RetriesServerErrors(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if atomic.AddInt32(&calls, 1) < 3 {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	require.NoError(t, newNotifier(srv.URL, 3).NotifyLead(context.Background(), testLead()))
	assert.Equal(t, int32(3), atomic.LoadInt32(&calls))
}

func TestEmailNotifier_ClientErrorIsPermanent(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		http.Error(w, "bad payload", http.StatusBadRequest)
	}))
	defer srv.Close()

	err := newNotifier(srv.URL, 3).NotifyLead(context.Background(), testLead())

	var statusErr *retry.StatusError
	require.ErrorAs(t, err, &statusErr)
	assert.Equal(t, http.StatusBadRequest, statusErr.Code)
	assert.Equal(t, "bad payload", statusErr.Body)
	assert.Equal(t, int32(1), atomic.LoadInt32(&calls))
}

func TestEmailNotifier_GivesUpAfterRetries(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	err := newNotifier(srv.URL, 2).NotifyLead(context.Background(), testLead())
	assert.Error(t, err)
	assert.Equal(t, int32(3), atomic.LoadInt32(&calls))
}
