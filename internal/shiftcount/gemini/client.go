// Package gemini is a thin HTTP client for the generative-AI endpoint
// that transcribes shift-count PDFs into JSON. The prompt and response
// handling live here; what counts as a valid transcription is decided by
// the caller's schema validation.
package gemini

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/google/uuid"
)

type Config struct {
	BaseURL string
	Model   string
	APIKey  string
	Timeout time.Duration
	// RequestDelay is the fixed pause between consecutive calls imposed
	// by the API's rate limit.
	RequestDelay time.Duration
}

type Client struct {
	cfg        Config
	httpClient *http.Client
	log        *slog.Logger

	lastCall time.Time
}

func NewClient(cfg Config, logger *slog.Logger) *Client {
	if logger == nil {
		logger = slog.Default()
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 90 * time.Second
	}
	return &Client{
		cfg:        cfg,
		httpClient: &http.Client{Timeout: cfg.Timeout},
		log:        logger,
	}
}

// Transcribe sends the PDF at path to the model and returns the raw JSON
// text of the transcription. Markdown code fences around the JSON are
// stripped. Honors the configured inter-call delay before each request.
func (c *Client) Transcribe(ctx context.Context, path string) (string, error) {
	rid := uuid.New().String()
	start := time.Now()

	if err := c.throttle(ctx); err != nil {
		return "", err
	}

	pdf, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("read pdf: %w", err)
	}

	c.log.Info("transcribe.start",
		"req_id", rid,
		"model", c.cfg.Model,
		"path", path,
		"pdf_bytes", len(pdf),
	)

	body := map[string]any{
		"contents": []map[string]any{
			{
				"parts": []map[string]any{
					{
						"inline_data": map[string]any{
							"mime_type": "application/pdf",
							"data":      base64.StdEncoding.EncodeToString(pdf),
						},
					},
					{"text": buildPrompt()},
				},
			},
		},
	}

	endpoint := fmt.Sprintf("%s/models/%s:generateContent",
		strings.TrimRight(c.cfg.BaseURL, "/"), c.cfg.Model)
	raw, err := c.post(ctx, endpoint, body)
	if err != nil {
		c.log.Error("transcribe.http_error",
			"req_id", rid, "error", err,
			"elapsed_ms", time.Since(start).Milliseconds(),
		)
		return "", err
	}

	var resp struct {
		Candidates []struct {
			Content struct {
				Parts []struct {
					Text string `json:"text"`
				} `json:"parts"`
			} `json:"content"`
		} `json:"candidates"`
	}
	if err := json.Unmarshal(raw, &resp); err != nil {
		c.log.Error("transcribe.decode_error",
			"req_id", rid, "error", err, "raw_bytes", len(raw),
			"elapsed_ms", time.Since(start).Milliseconds(),
		)
		return "", fmt.Errorf("decode response: %w", err)
	}
	if len(resp.Candidates) == 0 || len(resp.Candidates[0].Content.Parts) == 0 {
		c.log.Error("transcribe.empty_response",
			"req_id", rid,
			"elapsed_ms", time.Since(start).Milliseconds(),
		)
		return "", fmt.Errorf("empty response from model")
	}

	text := CleanJSONResponse(resp.Candidates[0].Content.Parts[0].Text)
	if text == "" {
		return "", fmt.Errorf("model returned no text")
	}

	c.log.Info("transcribe.ok",
		"req_id", rid,
		"text_len", len(text),
		"elapsed_ms", time.Since(start).Milliseconds(),
	)
	return text, nil
}

// throttle enforces the fixed delay between calls.
func (c *Client) throttle(ctx context.Context) error {
	if c.cfg.RequestDelay <= 0 || c.lastCall.IsZero() {
		c.lastCall = time.Now()
		return nil
	}
	wait := c.cfg.RequestDelay - time.Since(c.lastCall)
	if wait > 0 {
		select {
		case <-time.After(wait):
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	c.lastCall = time.Now()
	return nil
}

func (c *Client) post(ctx context.Context, url string, body map[string]any) ([]byte, error) {
	b, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(b))
	if err != nil {
		return nil, err
	}
	req.Header.Set("x-goog-api-key", c.cfg.APIKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("gemini http error: %w", err)
	}
	defer func(body io.ReadCloser) {
		if err := body.Close(); err != nil {
			c.log.Warn("gemini response body close error", "error", err)
		}
	}(resp.Body)

	buf := new(bytes.Buffer)
	if _, err := buf.ReadFrom(resp.Body); err != nil {
		return nil, fmt.Errorf("read response body: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("gemini status %d: %s", resp.StatusCode, buf.String())
	}
	return buf.Bytes(), nil
}

// CleanJSONResponse strips the ```json fences models like to wrap their
// output in.
func CleanJSONResponse(text string) string {
	s := strings.TrimSpace(text)
	s = strings.TrimPrefix(s, "```json")
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimSuffix(s, "```")
	return strings.TrimSpace(s)
}

func buildPrompt() string {
	return strings.Join([]string{
		"Extract data from this German bakery shift report (Mengenliste) PDF and return it as JSON only.",
		"The header reads \"Backtag [DAY] (für [DAY])\"; the table columns are Mengenliste | Aktuelle Menge | Retoure | Ausverkauft/Notizen.",
		"Return a single JSON object keyed by the report date in YYYY-MM-DD format.",
		"That object has: production_day (string), sales_day (string), articles (array).",
		"Each article has: article_name (string), stock (integer or null), leftover (number or null), sold_out (time string or null).",
		"Use null for empty cells, never empty strings. Return ONLY JSON, no prose.",
	}, "\n")
}
