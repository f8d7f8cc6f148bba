package groq

import (
	"bytes"
	"context"
	json "github.com/goccy/go-json"
	"github.com/maxaizer/lead-dorker/internal/domain/errs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"io"
	"net/http"
	"os"
	"testing"
)

type mockHTTPClient struct {
	mock.Mock
}

func (m *mockHTTPClient) Do(req *http.Request) (*http.Response, error) {
	args := m.Called(req)
	resp, _ := args.Get(0).(*http.Response)
	return resp, args.Error(1)
}

func completionMock() (*http.Response, error) {
	file, err := os.ReadFile("testdata/completion.json")

	return &http.Response{
		StatusCode: 200,
		Body:       io.NopCloser(bytes.NewBuffer(file)),
	}, err
}

func newTestClient(httpClient HTTPClient) *Client {
	client := NewClient(Config{
		APIKey:      "secret",
		Model:       "llama3-8b-8192",
		Temperature: 0.3,
		MaxTokens:   2000,
	})
	client.SetHTTPClient(httpClient)
	return client
}

func Test_GroqClient_Complete_ShouldBeSuccessful(t *testing.T) {

	var sent completionRequest
	mockClient := &mockHTTPClient{}
	mockClient.On("Do", mock.MatchedBy(func(req *http.Request) bool {
		body, _ := io.ReadAll(req.Body)
		_ = json.Unmarshal(body, &sent)
		return req.Method == http.MethodPost &&
			req.URL.String() == DefaultURL &&
			req.Header.Get("Authorization") == "Bearer secret"
	})).Return(completionMock())

	response, err := newTestClient(mockClient).Complete(context.Background(), "extract variables")
	require.NoError(t, err)

	assert.True(t, len(response) > 0)
	assert.Equal(t, byte('`'), response[0])
	assert.Equal(t, "llama3-8b-8192", sent.Model)
	assert.Equal(t, float32(0.3), sent.Temperature)
	assert.Equal(t, 2000, sent.MaxTokens)
	require.Len(t, sent.Messages, 1)
	assert.Equal(t, "user", sent.Messages[0].Role)
	assert.Equal(t, "extract variables", sent.Messages[0].Content)
	mockClient.AssertExpectations(t)
}

func Test_GroqClient_Complete_NonOKStatusIsTransportError(t *testing.T) {

	mockClient := &mockHTTPClient{}
	mockClient.On("Do", mock.Anything).Return(&http.Response{
		StatusCode: http.StatusUnauthorized,
		Body:       io.NopCloser(bytes.NewBufferString(`{"error":"invalid key"}`)),
	}, nil)

	_, err := newTestClient(mockClient).Complete(context.Background(), "prompt")

	assert.ErrorIs(t, err, errs.ErrTransport)
	assert.Contains(t, err.Error(), "401")
}

func Test_GroqClient_Complete_MissingChoicesIsError(t *testing.T) {

	mockClient := &mockHTTPClient{}
	mockClient.On("Do", mock.Anything).Return(&http.Response{
		StatusCode: http.StatusOK,
		Body:       io.NopCloser(bytes.NewBufferString(`{"choices": []}`)),
	}, nil)

	_, err := newTestClient(mockClient).Complete(context.Background(), "prompt")

	assert.ErrorIs(t, err, errs.ErrTransport)
	assert.Contains(t, err.Error(), "unexpected API response format")
}

func Test_GroqClient_Complete_SendFailureIsTransportError(t *testing.T) {

	mockClient := &mockHTTPClient{}
	mockClient.On("Do", mock.Anything).Return(nil, io.ErrUnexpectedEOF)

	_, err := newTestClient(mockClient).Complete(context.Background(), "prompt")

	assert.ErrorIs(t, err, errs.ErrTransport)
}
