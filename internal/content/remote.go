package content

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/jonathan/site-generator/internal/llm"
)

// OriginRemote marks fragments returned by the generation endpoint
const OriginRemote = "remote"

// Remote source defaults
const (
	DefaultRemoteTimeout    = 15 * time.Second
	DefaultMaxRequestBytes  = 64 << 10
	DefaultMaxResponseBytes = 1 << 20
)

// RemoteOptions configures a RemoteSource.
type RemoteOptions struct {
	Endpoint         string
	APIKey           string
	Timeout          time.Duration
	MaxRequestBytes  int
	MaxResponseBytes int
}

// GenerateRequest is the JSON body posted to the generation endpoint.
type GenerateRequest struct {
	Prompt       string `json:"prompt" validate:"required"`
	BusinessType string `json:"businessType" validate:"required,oneof=app-marketing consulting"`
	Language     string `json:"language" validate:"required"`
	ToneOfVoice  string `json:"toneOfVoice" validate:"required,oneof=professional friendly technical casual"`
}

// GenerateResponse is the JSON body returned by the generation endpoint.
type GenerateResponse struct {
	Content json.RawMessage `json:"content"`
}

// RemoteSource asks an HTTP generation endpoint for section copy.
type RemoteSource struct {
	client           *resty.Client
	endpoint         string
	apiKey           string
	maxRequestBytes  int
	maxResponseBytes int
}

// NewRemoteSource creates a RemoteSource. The endpoint and API key are required.
func NewRemoteSource(opts RemoteOptions) (*RemoteSource, error) {
	if opts.Endpoint == "" {
		return nil, fmt.Errorf("generation endpoint is required")
	}
	if opts.APIKey == "" {
		return nil, llm.ErrMissingAPIKey
	}
	if opts.Timeout <= 0 {
		opts.Timeout = DefaultRemoteTimeout
	}
	if opts.MaxRequestBytes <= 0 {
		opts.MaxRequestBytes = DefaultMaxRequestBytes
	}
	if opts.MaxResponseBytes <= 0 {
		opts.MaxResponseBytes = DefaultMaxResponseBytes
	}

	client := resty.New().
		SetTimeout(opts.Timeout).
		SetResponseBodyLimit(opts.MaxResponseBytes).
		SetHeader("Content-Type", "application/json").
		SetHeader("Accept", "application/json").
		SetHeader("User-Agent", "site-generator/1.0")

	return &RemoteSource{
		client:           client,
		endpoint:         opts.Endpoint,
		apiKey:           opts.APIKey,
		maxRequestBytes:  opts.MaxRequestBytes,
		maxResponseBytes: opts.MaxResponseBytes,
	}, nil
}

// Generate posts the section prompt and decodes the returned content.
func (s *RemoteSource) Generate(ctx context.Context, req Request) (*Fragment, error) {
	cfg := req.Config.WithDefaults()
	if req.Prompt == "" {
		return nil, &RemoteError{Section: req.Section, Message: "empty prompt"}
	}

	body, err := json.Marshal(GenerateRequest{
		Prompt:       req.Prompt,
		BusinessType: string(cfg.BusinessType),
		Language:     cfg.Language,
		ToneOfVoice:  string(cfg.ToneOfVoice),
	})
	if err != nil {
		return nil, &RemoteError{Section: req.Section, Message: "failed to encode request", Cause: err}
	}
	if len(body) > s.maxRequestBytes {
		return nil, &RemoteError{
			Section: req.Section,
			Message: fmt.Sprintf("request body is %d bytes, limit is %d", len(body), s.maxRequestBytes),
		}
	}

	resp, err := s.client.R().
		SetContext(ctx).
		SetAuthToken(s.apiKey).
		SetBody(body).
		Post(s.endpoint)
	if errors.Is(err, resty.ErrResponseBodyTooLarge) {
		return nil, &RemoteError{
			Section: req.Section,
			Status:  resp.StatusCode(),
			Message: fmt.Sprintf("response body too large (limit %d bytes)", s.maxResponseBytes),
		}
	}
	if err != nil {
		return nil, &RemoteError{Section: req.Section, Message: "request failed", Cause: err}
	}
	if !resp.IsSuccess() {
		return nil, &RemoteError{Section: req.Section, Status: resp.StatusCode(), Message: truncate(resp.String(), 200)}
	}

	raw, err := contentPayload(resp.Body())
	if err != nil {
		return nil, &RemoteError{Section: req.Section, Status: resp.StatusCode(), Message: "malformed payload", Cause: err}
	}

	frag, err := DecodeFragment(req.Section, raw)
	if err != nil {
		return nil, &RemoteError{Section: req.Section, Status: resp.StatusCode(), Message: "malformed payload", Cause: err}
	}
	frag.Limit(req.Count)
	frag.Origin = OriginRemote
	return frag, nil
}

// contentPayload extracts the section JSON from a {content: ...} envelope.
// Content delivered as a JSON string is unwrapped and cleaned of markdown fences.
func contentPayload(body []byte) ([]byte, error) {
	var envelope GenerateResponse
	if err := json.Unmarshal(body, &envelope); err != nil {
		return nil, err
	}
	raw := bytes.TrimSpace(envelope.Content)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return nil, fmt.Errorf("response has no content")
	}
	if raw[0] == '"' {
		var text string
		if err := json.Unmarshal(raw, &text); err != nil {
			return nil, err
		}
		return []byte(llm.CleanJSONBlock(text)), nil
	}
	return raw, nil
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
