package moderation

import (
	"Inkwell/internal/api/config"
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCheckReturnsVerdict(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		assert.JSONEq(t, `{"content":"you are awful"}`, string(body))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"is_toxic":true,"reason":"Insult","score":0.93,"service":"sentiment"}`))
	}))
	defer srv.Close()

	c := NewClient(config.ModerationConfig{URL: srv.URL, Timeout: time.Second})
	v, err := c.Check(context.Background(), "you are awful")

	require.NoError(t, err)
	assert.True(t, v.IsToxic)
	assert.Equal(t, "Insult", v.Reason)
	assert.InDelta(t, 0.93, v.Score, 1e-9)
}

func TestCheckNon200IsUnavailable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	c := NewClient(config.ModerationConfig{URL: srv.URL})
	_, err := c.Check(context.Background(), "hello")

	assert.ErrorIs(t, err, ErrUnavailable)
}

func TestCheckTimeoutIsUnavailable(t *testing.T) {
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}))
	defer srv.Close()
	defer close(release)

	c := NewClient(config.ModerationConfig{URL: srv.URL, Timeout: 50 * time.Millisecond})
	_, err := c.Check(context.Background(), "hello")

	assert.ErrorIs(t, err, ErrUnavailable)
}

func TestCheckUnreachableIsUnavailable(t *testing.T) {
	c := NewClient(config.ModerationConfig{URL: "http://127.0.0.1:1/check", Timeout: 200 * time.Millisecond})
	_, err := c.Check(context.Background(), "hello")

	assert.ErrorIs(t, err, ErrUnavailable)
}
