package postgrest

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	pgrst "github.com/supabase-community/postgrest-go"

	"smartWaiter/internal/platform/store"
)

const (
	restPath       = "/rest/v1"
	defaultTimeout = 10 * time.Second
	maxErrorBody   = 4096
)

// Client opens PostgREST queries against a Supabase project. Each call builds its
// own query client so the request context and response status stay per call.
type Client struct {
	baseURL   string
	apiKey    string
	timeout   time.Duration
	transport http.RoundTripper
}

// NewClient targets projectURL's REST endpoint. httpClient only contributes its transport.
func NewClient(projectURL, apiKey string, timeout time.Duration, httpClient *http.Client) *Client {
	trimmed := strings.TrimRight(strings.TrimSpace(projectURL), "/")
	if trimmed == "" {
		trimmed = "http://localhost:54321"
	}
	if !strings.HasSuffix(trimmed, restPath) {
		trimmed += restPath
	}
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	transport := http.DefaultTransport
	if httpClient != nil && httpClient.Transport != nil {
		transport = httpClient.Transport
	}
	return &Client{
		baseURL:   trimmed,
		apiKey:    strings.TrimSpace(apiKey),
		timeout:   timeout,
		transport: transport,
	}
}

// builder shapes one query on the table it is handed.
type builder func(q *pgrst.QueryBuilder) *pgrst.FilterBuilder

// run executes build against table and decodes the JSON array response into rows.
func run[T any](ctx context.Context, c *Client, op, table string, build builder) ([]T, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	rt := &roundTrip{ctx: ctx, transport: c.transport}
	client := pgrst.NewClient(c.baseURL, "", nil).SetApiKey(c.apiKey).SetAuthToken(c.apiKey)
	if client.ClientError != nil {
		return nil, store.NewUpstream(op, client.ClientError)
	}
	client.Transport.Parent = rt

	var rows []T
	if _, err := build(client.From(table)).ExecuteTo(&rows); err != nil {
		return nil, rt.classify(op, table, err)
	}
	if rows == nil {
		rows = []T{}
	}
	return rows, nil
}

// roundTrip binds the request to the caller's context and keeps the status and
// error body of the response for classification.
type roundTrip struct {
	ctx       context.Context
	transport http.RoundTripper
	status    int
	errorBody []byte
}

func (r *roundTrip) RoundTrip(req *http.Request) (*http.Response, error) {
	res, err := r.transport.RoundTrip(req.WithContext(r.ctx))
	if err != nil {
		return nil, err
	}
	r.status = res.StatusCode
	if res.StatusCode >= http.StatusBadRequest {
		raw, _ := io.ReadAll(io.LimitReader(res.Body, maxErrorBody))
		res.Body.Close()
		r.errorBody = raw
		res.Body = io.NopCloser(bytes.NewReader(raw))
	}
	return res, nil
}

func (r *roundTrip) classify(op, table string, err error) error {
	switch {
	case r.status == 0:
		if ctxErr := r.ctx.Err(); ctxErr != nil {
			return store.NewUpstream(op, ctxErr)
		}
		return store.NewUpstream(op, err)
	case r.status < http.StatusBadRequest:
		return store.NewUpstream(op, fmt.Errorf("decode response: %w", err))
	}

	var doc pgrst.ExecuteError
	if jsonErr := json.Unmarshal(r.errorBody, &doc); jsonErr != nil || doc.Message == "" {
		doc.Message = strings.TrimSpace(string(r.errorBody))
		if doc.Message == "" {
			doc.Message = http.StatusText(r.status)
		}
	}

	slog.Warn("postgrest request rejected",
		slog.String("op", op),
		slog.Int("status", r.status),
		slog.String("code", doc.Code),
		slog.String("message", doc.Message),
	)

	if isValidation(r.status, doc.Code) {
		reason := doc.Message
		if doc.Details != "" {
			reason += " (" + doc.Details + ")"
		}
		return store.NewValidation(strings.TrimSuffix(table, "s"), reason)
	}
	return store.NewUpstream(op, errors.New(describe(r.status, doc)))
}

// isValidation treats data-exception (22) and integrity-constraint (23) SQLSTATE
// classes, and PostgREST's own request rejections, as caller mistakes.
func isValidation(status int, code string) bool {
	if strings.HasPrefix(code, "22") || strings.HasPrefix(code, "23") {
		return true
	}
	switch status {
	case http.StatusBadRequest, http.StatusConflict, http.StatusUnprocessableEntity:
		return true
	}
	return false
}

func describe(status int, doc pgrst.ExecuteError) string {
	if doc.Code == "" {
		return fmt.Sprintf("status %d: %s", status, doc.Message)
	}
	return fmt.Sprintf("status %d (%s): %s", status, doc.Code, doc.Message)
}

func first[T any](rows []T, notFound error) (T, error) {
	if len(rows) == 0 {
		var zero T
		return zero, notFound
	}
	return rows[0], nil
}
