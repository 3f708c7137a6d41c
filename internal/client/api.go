package client

import (
	"context"
	"fmt"

	"github.com/go-resty/resty/v2"

	"blackgpt-backend/internal/models"
)

// APIError is a non-2xx answer from the chat server.
type APIError struct {
	Status  int
	Code    string
	Message string
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("chat server returned %d", e.Status)
	}
	return fmt.Sprintf("chat server returned %d: %s", e.Status, e.Message)
}

// APIClient speaks the server's JSON API.
type APIClient struct {
	http *resty.Client
}

func NewAPIClient(baseURL string) *APIClient {
	return &APIClient{
		http: resty.New().
			SetBaseURL(baseURL).
			SetHeader("Content-Type", "application/json").
			SetHeader("Accept", "application/json"),
	}
}

func (c *APIClient) Chat(ctx context.Context, req models.ChatRequest) (*models.ChatResponse, error) {
	var out models.ChatResponse
	resp, err := c.http.R().
		SetContext(ctx).
		SetBody(req).
		SetResult(&out).
		SetError(&models.ErrorResponse{}).
		Post("/api/chat")
	if err != nil {
		return nil, fmt.Errorf("chat request failed: %w", err)
	}
	if resp.IsError() {
		return nil, asAPIError(resp)
	}
	return &out, nil
}

func (c *APIClient) CreateMessage(ctx context.Context, in models.InsertMessage) (*models.Message, error) {
	var out models.Message
	resp, err := c.http.R().
		SetContext(ctx).
		SetBody(in).
		SetResult(&out).
		SetError(&models.ErrorResponse{}).
		Post("/api/messages")
	if err != nil {
		return nil, fmt.Errorf("create message request failed: %w", err)
	}
	if resp.IsError() {
		return nil, asAPIError(resp)
	}
	return &out, nil
}

func (c *APIClient) Messages(ctx context.Context, conversationID string) ([]models.Message, error) {
	var out []models.Message
	resp, err := c.http.R().
		SetContext(ctx).
		SetPathParam("id", conversationID).
		SetResult(&out).
		SetError(&models.ErrorResponse{}).
		Get("/api/conversations/{id}/messages")
	if err != nil {
		return nil, fmt.Errorf("messages request failed: %w", err)
	}
	if resp.IsError() {
		return nil, asAPIError(resp)
	}
	if out == nil {
		out = []models.Message{}
	}
	return out, nil
}

func asAPIError(resp *resty.Response) error {
	apiErr := &APIError{Status: resp.StatusCode()}
	if e, ok := resp.Error().(*models.ErrorResponse); ok && e != nil {
		apiErr.Code = e.Error.Code
		apiErr.Message = e.Message
	}
	return apiErr
}
