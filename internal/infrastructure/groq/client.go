package groq

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/SquaredPiano/emissionary/internal/domain"
	"github.com/google/uuid"
	"golang.org/x/time/rate"
)

// maxAttempts bounds worst-case latency: one request plus one retry
const maxAttempts = 2

// Client calls the Groq chat-completions API to classify receipt lines
// that the local dictionary could not resolve
type Client struct {
	httpClient  *http.Client
	apiKey      string
	baseURL     string
	model       string
	rateLimiter *rate.Limiter
	debug       bool
}

// NewClient creates a classifier client. timeout bounds each request;
// the limiter keeps bursts of concurrent receipts under the API quota.
func NewClient(apiKey, baseURL, model string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &Client{
		httpClient:  &http.Client{Timeout: timeout},
		apiKey:      apiKey,
		baseURL:     baseURL,
		model:       model,
		rateLimiter: rate.NewLimiter(rate.Limit(2), 5),
	}
}

// SetDebug toggles verbose request/response logging
func (c *Client) SetDebug(debug bool) {
	c.debug = debug
}

// chatRequest is the OpenAI-compatible completion payload
type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	Temperature float64       `json:"temperature"`
	MaxTokens   int           `json:"max_tokens"`
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

// ClassifyLines sends one ordered batch of candidate lines and returns a
// verdict per line. Lines whose response object is missing or malformed
// come back as non-food so the resolver degrades them to unresolved.
func (c *Client) ClassifyLines(ctx context.Context, lines []string) ([]domain.ClassifiedLine, error) {
	if c.apiKey == "" {
		return nil, domain.ErrClassifierDisabled
	}
	if len(lines) == 0 {
		return nil, nil
	}

	rid := uuid.New().String()
	payload := chatRequest{
		Model: c.model,
		Messages: []chatMessage{
			{Role: "system", Content: "You are a grocery receipt parser and food item classifier."},
			{Role: "user", Content: buildPrompt(lines)},
		},
		Temperature: 0.1,
		MaxTokens:   2048,
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("%w: marshal request: %v", domain.ErrClassifierFailure, err)
	}

	var lastErr error
	for attempt := 1; attempt <= maxAttempts; attempt++ {
		if err := c.rateLimiter.Wait(ctx); err != nil {
			return nil, fmt.Errorf("%w: rate limiter: %v", domain.ErrClassifierFailure, err)
		}

		content, err := c.doRequest(ctx, rid, body)
		if err != nil {
			log.Printf("[GROQ] Request error (req_id=%s attempt=%d): %v", rid, attempt, err)
			lastErr = err
			if attempt < maxAttempts {
				select {
				case <-time.After(time.Duration(attempt) * 500 * time.Millisecond):
				case <-ctx.Done():
					return nil, fmt.Errorf("%w: %v", domain.ErrClassifierFailure, ctx.Err())
				}
			}
			continue
		}

		verdicts, err := parseVerdicts(content, len(lines))
		if err != nil {
			// A malformed body is not worth a retry: the model already
			// answered, it just answered badly
			return nil, fmt.Errorf("%w: %v", domain.ErrClassifierFailure, err)
		}
		if c.debug {
			log.Printf("[GROQ] Classified %d lines (req_id=%s)", len(verdicts), rid)
		}
		return verdicts, nil
	}

	return nil, fmt.Errorf("%w: %v", domain.ErrClassifierFailure, lastErr)
}

// doRequest executes one chat-completions call and returns the message content
func (c *Client) doRequest(ctx context.Context, rid string, body []byte) (string, error) {
	endpoint := strings.TrimRight(c.baseURL, "/") + "/chat/completions"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Request-ID", rid)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("read response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("status %d: %s", resp.StatusCode, truncate(string(raw), 200))
	}

	var cc chatResponse
	if err := json.Unmarshal(raw, &cc); err != nil {
		return "", fmt.Errorf("decode response: %w", err)
	}
	if len(cc.Choices) == 0 {
		return "", fmt.Errorf("empty choices in response")
	}
	return cc.Choices[0].Message.Content, nil
}

// buildPrompt asks for strict JSON, one object per numbered line
func buildPrompt(lines []string) string {
	var b strings.Builder
	b.WriteString("You are a grocery receipt parser. For each line below, output a JSON array of objects with: ")
	b.WriteString("original (the original line), is_food_item (true/false), canonical_name (the normalized food name, e.g. 'banana', 'chicken breast', or 'unknown'), ")
	b.WriteString("category (the food category, e.g. 'produce', 'meat', 'dairy', or 'unknown'), ")
	b.WriteString("estimated_weight_kg (estimated weight in kg, or null if unknown), ")
	b.WriteString("estimated_carbon_emissions_kg (estimated total kg CO2e for the item, or null if unknown).\n")
	b.WriteString("Lines:\n")
	for i, line := range lines {
		fmt.Fprintf(&b, "%d. %q\n", i+1, line)
	}
	b.WriteString("Respond ONLY with a JSON array in line order, no explanation, no comments.")
	return b.String()
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
