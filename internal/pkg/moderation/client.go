package moderation

import (
	"Inkwell/internal/api/config"
	"Inkwell/internal/pkg/metrics"
	"context"
	"errors"
	"fmt"
	log "log/slog"
	"net/http"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/goccy/go-json"
)

const defaultTimeout = 2 * time.Second

// ErrUnavailable means no verdict could be obtained; callers must fail the write closed.
var ErrUnavailable = errors.New("moderation service unavailable")

// Verdict is the classifier response.
type Verdict struct {
	IsToxic bool    `json:"is_toxic"`
	Reason  string  `json:"reason"`
	Score   float64 `json:"score"`
	Service string  `json:"service"`
}

// Checker screens user generated text before it is stored.
type Checker interface {
	Check(ctx context.Context, content string) (*Verdict, error)
}

type Client struct {
	http *resty.Client
	url  string
}

func NewClient(cfg config.ModerationConfig) *Client {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}

	client := resty.New().
		SetTimeout(timeout).
		SetHeader("Content-Type", "application/json").
		SetJSONMarshaler(json.Marshal).
		SetJSONUnmarshaler(json.Unmarshal)

	return &Client{http: client, url: cfg.URL}
}

func (s *Client) Check(ctx context.Context, content string) (*Verdict, error) {
	var verdict Verdict
	start := time.Now()

	resp, err := s.http.R().
		SetContext(ctx).
		SetBody(map[string]string{"content": content}).
		SetResult(&verdict).
		Post(s.url)

	if err != nil {
		metrics.ModerationChecksTotal.WithLabelValues("error").Inc()
		log.WarnContext(ctx, "moderation request failed", "latency", time.Since(start), "err", err)
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}

	if resp.StatusCode() != http.StatusOK {
		metrics.ModerationChecksTotal.WithLabelValues("error").Inc()
		log.WarnContext(ctx, "moderation service returned non-200", "status", resp.StatusCode(), "latency", time.Since(start))
		return nil, fmt.Errorf("%w: status %d", ErrUnavailable, resp.StatusCode())
	}

	if verdict.IsToxic {
		metrics.ModerationChecksTotal.WithLabelValues("toxic").Inc()
	} else {
		metrics.ModerationChecksTotal.WithLabelValues("clean").Inc()
	}
	log.InfoContext(ctx, "moderation verdict", "toxic", verdict.IsToxic, "score", verdict.Score, "latency", time.Since(start))
	return &verdict, nil
}
