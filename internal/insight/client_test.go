package insight

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"ms-busbooking/internal/analytics"
	"ms-busbooking/internal/logger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildPrompt(t *testing.T) {
	prompt := BuildPrompt(analytics.Dashboard{TotalRevenue: 2000, TotalBookings: 2, Cancelled: 1, ActiveBuses: 3, TopRoute: "Chennai ➝ Madurai"})

	assert.Contains(t, prompt, "Total Revenue: ₹2000")
	assert.Contains(t, prompt, "Cancelled Tickets: 1")
	assert.Contains(t, prompt, "Active Buses: 3")
	assert.Contains(t, prompt, "Top Performing Route: Chennai ➝ Madurai")

	assert.Contains(t, BuildPrompt(analytics.Dashboard{}), "Top Performing Route: n/a")
}

func TestAsk_ReturnsCandidateText(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "k", r.Header.Get("x-goog-api-key"))
		var req generateRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "hello", req.Contents[0].Parts[0].Text)
		w.Write([]byte(`{"candidates":[{"content":{"parts":[{"text":"**Revenue** looks healthy."}]}}]}`))
	}))
	defer srv.Close()

	c := NewClient(srv.Client(), srv.URL, "k", logger.NewWriterLogger(nil))
	text, err := c.Ask(context.Background(), "hello")

	require.NoError(t, err)
	assert.Equal(t, "**Revenue** looks healthy.", text)
}

func TestAsk_ServiceError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`{"error":{"code":400,"message":"API key not valid"}}`))
	}))
	defer srv.Close()

	c := NewClient(srv.Client(), srv.URL, "", logger.NewWriterLogger(nil))
	_, err := c.Generate(context.Background(), analytics.Dashboard{})

	assert.ErrorContains(t, err, "API key not valid")
}

func TestAsk_EmptyAndUnconfigured(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"candidates":[]}`))
	}))
	defer srv.Close()

	_, err := NewClient(srv.Client(), srv.URL, "", nil).Ask(context.Background(), "x")
	assert.ErrorIs(t, err, ErrEmptyAnswer)

	_, err = NewClient(nil, "", "", nil).Ask(context.Background(), "x")
	assert.ErrorIs(t, err, ErrNotConfigured)
}
