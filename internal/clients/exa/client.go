package exa

import (
	"bytes"
	"context"
	"fmt"
	json "github.com/goccy/go-json"
	"github.com/maxaizer/lead-dorker/internal/domain/errs"
	"io"
	"net/http"
	"time"
)

const DefaultURL = "https://api.exa.ai/search"

type searchResponse struct {
	Results []Result `json:"results"`
}

type HTTPClient interface {
	Do(req *http.Request) (*http.Response, error)
}

type Client struct {
	httpClient HTTPClient
	apiURL     string
	apiKey     string
}

func NewClient(apiURL, apiKey string, timeout time.Duration) *Client {
	if apiURL == "" {
		apiURL = DefaultURL
	}
	return &Client{httpClient: &http.Client{Timeout: timeout}, apiURL: apiURL, apiKey: apiKey}
}

func (c *Client) SetHTTPClient(client HTTPClient) {
	c.httpClient = client
}

// Search runs a search-and-contents request and returns the results in API order.
func (c *Client) Search(ctx context.Context, parameters SearchParameters) ([]Result, error) {

	if err := parameters.Validate(); err != nil {
		return nil, fmt.Errorf("invalid parameters: %w", err)
	}

	payload, err := json.Marshal(parameters.toRequest())
	if err != nil {
		return nil, fmt.Errorf("error encoding request: %v", err)
	}

	body, err := c.sendRequest(ctx, http.MethodPost, c.apiURL, bytes.NewReader(payload))
	if err != nil {
		return nil, err
	}

	var response searchResponse
	if err := json.NewDecoder(bytes.NewReader(body)).Decode(&response); err != nil {
		return nil, fmt.Errorf("%w: error decoding JSON response: %v", errs.ErrTransport, err)
	}

	return response.Results, nil
}

func (c *Client) sendRequest(ctx context.Context, method string, url string, body io.Reader) ([]byte, error) {

	req, err := http.NewRequestWithContext(ctx, method, url, body)
	if err != nil {
		return nil, fmt.Errorf("error creating request: %v", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-api-key", c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, fmt.Errorf("%w: error sending request: %v", errs.ErrTransport, err)
	}
	defer resp.Body.Close()

	return c.handleResponse(resp)
}

func (c *Client) handleResponse(resp *http.Response) ([]byte, error) {
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: error reading response body: %v", errs.ErrTransport, err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: request failed with status %v, body: %v", errs.ErrTransport, resp.StatusCode, string(body))
	}

	return body, nil
}
