package gemini

import (
	"context"
	"fmt"
	"github.com/google/generative-ai-go/genai"
	"github.com/maxaizer/lead-dorker/internal/domain/errs"
	"golang.org/x/time/rate"
	"google.golang.org/api/option"
	"strings"
)

type Model string

const (
	//Model15Flash is fastest multimodal model with great performance for diverse, repetitive tasks
	Model15Flash Model = "gemini-1.5-flash"
	//Model15Flash8b is the smallest model for lower intelligence use cases
	Model15Flash8b Model = "gemini-1.5-flash-8b"
	//Model15Pro is next-generation model with a breakthrough 2 million context window
	Model15Pro Model = "gemini-1.5-pro"
)

type Client struct {
	client            *genai.Client
	model             *genai.GenerativeModel
	minuteRateLimiter *rate.Limiter
}

func NewClient(ctx context.Context, apiKey string, model Model, temperature float32, maxTokens int) (*Client, error) {

	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, err
	}

	genModel := client.GenerativeModel(string(model))
	genModel.SetTemperature(temperature)
	genModel.SetMaxOutputTokens(int32(maxTokens))

	service := Client{
		client: client,
		model:  genModel,
	}

	return &service, nil
}

func (c *Client) SetMinuteRateLimit(maxRequestsPerMinute float32) {
	if maxRequestsPerMinute <= 0 {
		c.minuteRateLimiter = nil
		return
	}
	c.minuteRateLimiter = rate.NewLimiter(rate.Limit(maxRequestsPerMinute/60), 1)
}

func (c *Client) Close() error {
	return c.client.Close()
}

func (c *Client) Complete(ctx context.Context, text string) (string, error) {

	if c.minuteRateLimiter != nil {
		if err := c.minuteRateLimiter.Wait(ctx); err != nil {
			return "", err
		}
	}

	response, err := c.model.GenerateContent(ctx, genai.Text(text))
	if err != nil {
		if ctx.Err() != nil {
			return "", ctx.Err()
		}
		return "", fmt.Errorf("%w: %v", errs.ErrTransport, err)
	}

	if len(response.Candidates) == 0 || response.Candidates[0].Content == nil ||
		len(response.Candidates[0].Content.Parts) == 0 {
		return "", fmt.Errorf("%w: unexpected API response format: no candidates", errs.ErrTransport)
	}

	var sb strings.Builder
	for _, part := range response.Candidates[0].Content.Parts {
		if textPart, ok := part.(genai.Text); ok {
			sb.WriteString(string(textPart))
		}
	}

	if sb.Len() == 0 {
		return "", fmt.Errorf("%w: response part is not text", errs.ErrTransport)
	}
	return strings.TrimSpace(sb.String()), nil
}
