// Package compute talks to the numeric sidecar that hosts the supervised
// tensor decomposition, the 2-D embedder and the forest importance
// estimator. Transport is plain JSON over HTTP; the sidecar owns all model
// state between fit and refit.
package compute

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"time"

	"gonum.org/v1/gonum/mat"

	"shotlens/internal/metrics"
)

// Config locates the sidecar.
type Config struct {
	BaseURL   string        `koanf:"base_url"`
	Timeout   time.Duration `koanf:"timeout"`
	EmbedSeed int64         `koanf:"embed_seed"`
}

// Client is the shared HTTP transport for all sidecar operations.
type Client struct {
	baseURL string
	http    *http.Client
}

// NewClient creates a sidecar client. A zero timeout defaults to two
// minutes; decompositions over large slabs are slow.
func NewClient(cfg Config) *Client {
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = 2 * time.Minute
	}
	log.Printf("[ComputeClient] sidecar at %s, timeout %v", cfg.BaseURL, timeout)
	return &Client{
		baseURL: cfg.BaseURL,
		http:    &http.Client{Timeout: timeout},
	}
}

type errorBody struct {
	Detail string `json:"detail"`
}

// postJSON posts a request body and decodes the response, recording the call
// outcome. Non-2xx responses become errors carrying the sidecar's detail
// message when it sent one.
func (c *Client) postJSON(ctx context.Context, op, path string, in, out any) error {
	body, err := json.Marshal(in)
	if err != nil {
		return fmt.Errorf("encode %s request: %w", op, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("build %s request: %w", op, err)
	}
	req.Header.Set("Content-Type", "application/json")

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		metrics.SidecarCalls.WithLabelValues(op, "error").Inc()
		return fmt.Errorf("sidecar %s: %w", op, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		metrics.SidecarCalls.WithLabelValues(op, "error").Inc()
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		var eb errorBody
		if json.Unmarshal(raw, &eb) == nil && eb.Detail != "" {
			return fmt.Errorf("sidecar %s: %s (status %d)", op, eb.Detail, resp.StatusCode)
		}
		return fmt.Errorf("sidecar %s: status %d", op, resp.StatusCode)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		metrics.SidecarCalls.WithLabelValues(op, "error").Inc()
		return fmt.Errorf("decode %s response: %w", op, err)
	}
	metrics.SidecarCalls.WithLabelValues(op, "ok").Inc()
	log.Printf("[ComputeClient] %s completed in %v", op, time.Since(start).Round(time.Millisecond))
	return nil
}

// toDense converts a row-major nested slice to a gonum matrix. Empty input
// yields nil.
func toDense(rows [][]float64) *mat.Dense {
	if len(rows) == 0 || len(rows[0]) == 0 {
		return nil
	}
	m := mat.NewDense(len(rows), len(rows[0]), nil)
	for r, row := range rows {
		m.SetRow(r, row)
	}
	return m
}

// fromDense converts a gonum matrix to nested slices for JSON transport.
func fromDense(m *mat.Dense) [][]float64 {
	if m == nil {
		return nil
	}
	rows, cols := m.Dims()
	out := make([][]float64, rows)
	for r := 0; r < rows; r++ {
		out[r] = make([]float64, cols)
		copy(out[r], m.RawRowView(r))
	}
	return out
}
