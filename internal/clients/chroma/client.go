package chroma

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/yungbote/devportal-backend/internal/pkg/ctxutil"
	"github.com/yungbote/devportal-backend/internal/pkg/logger"
)

const maxErrorBodyBytes = 1024

// UpsertBatch is one idempotent upsert call: parallel slices keyed by the
// content-addressed document id. Re-sending the same ids overwrites in place.
type UpsertBatch struct {
	IDs        []string
	Embeddings [][]float32
	Documents  []string
	Metadatas  []map[string]any
}

// Client is the Chroma HTTP API surface used by the index reconciler.
type Client interface {
	EnsureCollection(ctx context.Context, name string, metadata map[string]any) (string, error)
	Upsert(ctx context.Context, collectionID string, batch UpsertBatch) error
	Count(ctx context.Context, collectionID string) (int, error)
}

type client struct {
	log     *logger.Logger
	cfg     Config
	baseURL string
	http    *http.Client
}

func NewClient(log *logger.Logger, cfg Config) (Client, error) {
	if log == nil {
		return nil, fmt.Errorf("logger required")
	}
	if err := ValidateConfig(cfg); err != nil {
		return nil, err
	}

	c := &client{
		log:     log.With("service", "ChromaClient"),
		cfg:     cfg,
		baseURL: strings.TrimRight(cfg.URL, "/"),
		http: &http.Client{
			Timeout: time.Duration(cfg.TimeoutSeconds) * time.Second,
		},
	}

	log.Info(
		"Chroma client configured",
		"url", c.baseURL,
		"tenant", cfg.Tenant,
		"database", cfg.Database,
	)
	return c, nil
}

type collectionResponse struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// EnsureCollection resolves the collection id for name, creating the
// collection on first use.
func (c *client) EnsureCollection(ctx context.Context, name string, metadata map[string]any) (string, error) {
	const op = "ensure_collection"
	name = strings.TrimSpace(name)
	if name == "" {
		return "", opErr(op, OperationErrorValidation, "collection name is required", nil)
	}

	body := map[string]any{
		"name":          name,
		"get_or_create": true,
	}
	if len(metadata) > 0 {
		body["metadata"] = metadata
	}

	var resp collectionResponse
	if err := c.doJSON(ctx, op, http.MethodPost, c.apiPath("/collections"), body, &resp); err != nil {
		return "", err
	}
	if strings.TrimSpace(resp.ID) == "" {
		return "", opErr(op, OperationErrorDecodeFailed, fmt.Sprintf("collection %q resolved without an id", name), nil)
	}
	return resp.ID, nil
}

func (c *client) Upsert(ctx context.Context, collectionID string, batch UpsertBatch) error {
	const op = "upsert"
	if strings.TrimSpace(collectionID) == "" {
		return opErr(op, OperationErrorValidation, "collection id is required", nil)
	}
	if len(batch.IDs) == 0 {
		return nil
	}
	if len(batch.Embeddings) != len(batch.IDs) ||
		len(batch.Documents) != len(batch.IDs) ||
		(len(batch.Metadatas) != 0 && len(batch.Metadatas) != len(batch.IDs)) {
		return opErr(
			op,
			OperationErrorValidation,
			fmt.Sprintf(
				"batch slices misaligned: ids=%d embeddings=%d documents=%d metadatas=%d",
				len(batch.IDs), len(batch.Embeddings), len(batch.Documents), len(batch.Metadatas),
			),
			nil,
		)
	}
	for i, id := range batch.IDs {
		if strings.TrimSpace(id) == "" {
			return opErr(op, OperationErrorValidation, fmt.Sprintf("document %d has empty id", i), nil)
		}
		if len(batch.Embeddings[i]) == 0 {
			return opErr(op, OperationErrorValidation, fmt.Sprintf("document %q has empty embedding", id), nil)
		}
	}

	body := map[string]any{
		"ids":        batch.IDs,
		"embeddings": batch.Embeddings,
		"documents":  batch.Documents,
	}
	if len(batch.Metadatas) > 0 {
		body["metadatas"] = batch.Metadatas
	}

	path := c.apiPath("/collections/" + url.PathEscape(collectionID) + "/upsert")
	return c.doJSON(ctx, op, http.MethodPost, path, body, nil)
}

func (c *client) Count(ctx context.Context, collectionID string) (int, error) {
	const op = "count"
	if strings.TrimSpace(collectionID) == "" {
		return 0, opErr(op, OperationErrorValidation, "collection id is required", nil)
	}

	var count int
	path := c.apiPath("/collections/" + url.PathEscape(collectionID) + "/count")
	if err := c.doJSON(ctx, op, http.MethodGet, path, nil, &count); err != nil {
		return 0, err
	}
	return count, nil
}

func (c *client) apiPath(suffix string) string {
	if c.cfg.Tenant != "" && c.cfg.Database != "" {
		return "/api/v2/tenants/" + url.PathEscape(c.cfg.Tenant) +
			"/databases/" + url.PathEscape(c.cfg.Database) + suffix
	}
	return "/api/v1" + suffix
}

func (c *client) doJSON(ctx context.Context, op, method, path string, in any, out any) error {
	var body io.Reader
	if in != nil {
		var buf bytes.Buffer
		if err := json.NewEncoder(&buf).Encode(in); err != nil {
			return opErr(op, OperationErrorEncodeFailed, "encode request failed", err)
		}
		body = &buf
	}

	req, err := http.NewRequestWithContext(ctxutil.Default(ctx), method, c.baseURL+path, body)
	if err != nil {
		return opErr(op, OperationErrorTransportFailed, "build request failed", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if c.cfg.AuthToken != "" {
		req.Header.Set("Authorization", "Bearer "+c.cfg.AuthToken)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return classifyHTTPCallError(op, "chroma request failed", err)
	}
	defer resp.Body.Close()

	raw, readErr := io.ReadAll(io.LimitReader(resp.Body, 10*maxErrorBodyBytes))
	if readErr != nil {
		return opErr(op, OperationErrorDecodeFailed, "read response failed", readErr)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return &OperationError{
			Code:       OperationErrorRequestFailed,
			Operation:  op,
			StatusCode: resp.StatusCode,
			Message:    fmt.Sprintf("chroma http status=%d body=%q", resp.StatusCode, truncateBody(raw)),
		}
	}

	if out == nil {
		return nil
	}
	if len(raw) == 0 || string(bytes.TrimSpace(raw)) == "null" {
		return nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return opErr(op, OperationErrorDecodeFailed, "decode chroma response failed", err)
	}
	return nil
}

func classifyHTTPCallError(op, message string, err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return opErr(op, OperationErrorTimeout, message, err)
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return opErr(op, OperationErrorTimeout, message, err)
	}
	return opErr(op, OperationErrorTransportFailed, message, err)
}

func truncateBody(raw []byte) string {
	s := strings.TrimSpace(string(raw))
	if len(s) > maxErrorBodyBytes {
		return s[:maxErrorBodyBytes] + "...(truncated)"
	}
	return s
}
