package restapi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"path"
	"strings"
	"time"

	domainErrors "github.com/polkiloo/membership/internal/domain/errors"
)

const maxErrorBody = 1 << 10

// transport performs JSON requests against the remote API and maps status
// codes onto domain errors.
type transport struct {
	baseURL    *url.URL
	httpClient *http.Client
	logger     *slog.Logger
}

func newTransport(baseURL string, logger *slog.Logger) (*transport, error) {
	parsed, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("parse remote api url: %w", err)
	}
	if !parsed.IsAbs() {
		return nil, fmt.Errorf("remote api url must be absolute")
	}
	return &transport{
		baseURL: parsed,
		logger:  logger,
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}, nil
}

type request struct {
	method string
	path   string
	query  url.Values
	token  string
	body   any
}

func (t *transport) do(ctx context.Context, r request, out any) error {
	endpoint := *t.baseURL
	endpoint.Path = path.Join(endpoint.Path, r.path)
	if len(r.query) > 0 {
		endpoint.RawQuery = r.query.Encode()
	}

	var body io.Reader
	if r.body != nil {
		payload, err := json.Marshal(r.body)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		body = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, r.method, endpoint.String(), body)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if r.token != "" {
		req.Header.Set("Authorization", "Bearer "+r.token)
	}

	resp, err := t.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w: %w", r.method, r.path, domainErrors.ErrBackend, err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNoContent:
		return nil
	case resp.StatusCode >= 200 && resp.StatusCode < 300:
		if out == nil {
			return nil
		}
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return fmt.Errorf("decode %s %s: %w: %w", r.method, r.path, domainErrors.ErrBackend, err)
		}
		return nil
	}

	msg := readMessage(resp.Body)
	switch resp.StatusCode {
	case http.StatusNotFound:
		return fmt.Errorf("%s %s: %w", r.method, r.path, domainErrors.ErrNotFound)
	case http.StatusBadRequest:
		return fmt.Errorf("%s: %w", msg, domainErrors.ErrValidation)
	case http.StatusUnauthorized:
		return fmt.Errorf("%s %s: %w", r.method, r.path, domainErrors.ErrUnauthorized)
	default:
		t.logger.Error("remote request failed",
			slog.String("method", r.method),
			slog.String("path", r.path),
			slog.Int("status", resp.StatusCode),
			slog.String("body", msg),
		)
		return fmt.Errorf("%s %s: %s: %w", r.method, r.path, resp.Status, domainErrors.ErrBackend)
	}
}

func readMessage(r io.Reader) string {
	raw, _ := io.ReadAll(io.LimitReader(r, maxErrorBody))
	var payload struct {
		Error string `json:"error"`
	}
	if json.Unmarshal(raw, &payload) == nil && payload.Error != "" {
		return payload.Error
	}
	if msg := strings.TrimSpace(string(raw)); msg != "" {
		return msg
	}
	return "remote rejected request"
}
