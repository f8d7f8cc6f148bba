package groq

import (
	"bytes"
	"context"
	"fmt"
	json "github.com/goccy/go-json"
	"github.com/maxaizer/lead-dorker/internal/domain/errs"
	"golang.org/x/time/rate"
	"io"
	"net/http"
	"strings"
	"time"
)

const DefaultURL = "https://api.groq.com/openai/v1/chat/completions"

type HTTPClient interface {
	Do(req *http.Request) (*http.Response, error)
}

type Config struct {
	URL         string
	APIKey      string
	Model       string
	Temperature float32
	MaxTokens   int
	Timeout     time.Duration
}

type message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type completionRequest struct {
	Model       string    `json:"model"`
	Messages    []message `json:"messages"`
	Temperature float32   `json:"temperature"`
	MaxTokens   int       `json:"max_tokens"`
}

type completionResponse struct {
	Choices []struct {
		Message message `json:"message"`
	} `json:"choices"`
}

// Client talks to an OpenAI-compatible chat completion endpoint.
type Client struct {
	httpClient  HTTPClient
	config      Config
	rateLimiter *rate.Limiter
}

func NewClient(config Config) *Client {
	if config.URL == "" {
		config.URL = DefaultURL
	}
	return &Client{httpClient: &http.Client{Timeout: config.Timeout}, config: config}
}

func (c *Client) SetHTTPClient(client HTTPClient) {
	c.httpClient = client
}

func (c *Client) SetMinuteRateLimit(maxRequestsPerMinute float32) {
	if maxRequestsPerMinute <= 0 {
		c.rateLimiter = nil
		return
	}
	c.rateLimiter = rate.NewLimiter(rate.Limit(maxRequestsPerMinute/60), 1)
}

// Complete sends prompt as a single user message and returns the trimmed completion text.
func (c *Client) Complete(ctx context.Context, prompt string) (string, error) {

	if c.rateLimiter != nil {
		if err := c.rateLimiter.Wait(ctx); err != nil {
			return "", err
		}
	}

	payload, err := json.Marshal(completionRequest{
		Model:       c.config.Model,
		Messages:    []message{{Role: "user", Content: prompt}},
		Temperature: c.config.Temperature,
		MaxTokens:   c.config.MaxTokens,
	})
	if err != nil {
		return "", fmt.Errorf("error encoding request: %v", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.config.URL, bytes.NewReader(payload))
	if err != nil {
		return "", fmt.Errorf("error creating request: %v", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.config.APIKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return "", ctx.Err()
		}
		return "", fmt.Errorf("%w: error sending request: %v", errs.ErrTransport, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("%w: error reading response body: %v", errs.ErrTransport, err)
	}

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("%w: request failed with status %v, body: %v", errs.ErrTransport, resp.StatusCode, string(body))
	}

	var completion completionResponse
	if err := json.Unmarshal(body, &completion); err != nil {
		return "", fmt.Errorf("%w: error decoding JSON response: %v", errs.ErrTransport, err)
	}

	if len(completion.Choices) == 0 {
		return "", fmt.Errorf("%w: unexpected API response format: no choices", errs.ErrTransport)
	}

	return strings.TrimSpace(completion.Choices[0].Message.Content), nil
}
