// Package api provides the HTTP client for the speakturbo TTS daemon.
package api

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/rs/zerolog/log"
)

const (
	// DefaultBaseURL is where the local daemon listens.
	DefaultBaseURL = "http://127.0.0.1:7125"

	healthTimeout = 10 * time.Second
)

// Client is the HTTP client for the speakturbo daemon.
type Client struct {
	client *resty.Client
}

// NewClient creates a daemon client. No overall timeout is set: the TTS
// response is a long-lived stream that lasts as long as synthesis does.
func NewClient(baseURL string) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &Client{
		client: resty.New().SetBaseURL(baseURL),
	}
}

// HealthResponse is the daemon's readiness report.
type HealthResponse struct {
	Status string   `json:"status"`
	Voices []string `json:"voices"`
}

// Health checks daemon readiness and returns the available voice names.
func (c *Client) Health(ctx context.Context) (*HealthResponse, error) {
	ctx, cancel := context.WithTimeout(ctx, healthTimeout)
	defer cancel()

	resp, err := c.client.R().SetContext(ctx).Get("/health")
	if err != nil {
		return nil, fmt.Errorf("failed to reach daemon: %w", err)
	}

	if !resp.IsSuccess() {
		return nil, fmt.Errorf("daemon returned status %d: %s", resp.StatusCode(), resp.Status())
	}

	var health HealthResponse
	if err := json.Unmarshal(resp.Body(), &health); err != nil {
		return nil, fmt.Errorf("failed to parse health response: %w", err)
	}

	return &health, nil
}

// Synthesize requests speech for the given text and voice, returning the raw
// streaming response body: a 44-byte WAV header followed by 16-bit mono PCM
// chunks sent as they are generated. The caller must close the body.
func (c *Client) Synthesize(ctx context.Context, text, voice string) (io.ReadCloser, error) {
	resp, err := c.client.R().
		SetContext(ctx).
		SetFormData(map[string]string{
			"text":  text,
			"voice": voice,
		}).
		SetDoNotParseResponse(true).
		Post("/tts")
	if err != nil {
		return nil, fmt.Errorf("failed to reach daemon (is it running?): %w", err)
	}

	if !resp.IsSuccess() {
		body := resp.RawBody()
		detail, _ := io.ReadAll(io.LimitReader(body, 512))
		body.Close()
		return nil, fmt.Errorf("daemon returned status %d: %s", resp.StatusCode(), string(detail))
	}

	log.Debug().Str("voice", voice).Int("textLen", len(text)).Msg("Synthesis stream opened")
	return resp.RawBody(), nil
}
