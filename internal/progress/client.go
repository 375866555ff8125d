package progress

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

const (
	progressPath     = "/api/progress"
	maxResponseBytes = 1 << 20
)

// Client is a JSON-over-HTTP client for the progress API.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// NewClient creates a client rooted at baseURL. A nil httpClient gets a
// client with a ten second timeout.
func NewClient(baseURL string, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 10 * time.Second}
	}
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: httpClient,
	}
}

// BaseURL returns the API root.
func (client *Client) BaseURL() string {
	return client.baseURL
}

// Fetch reads the current progress totals.
func (client *Client) Fetch(ctx context.Context) (Summary, error) {
	const op = "fetch progress"
	request, err := http.NewRequestWithContext(ctx, http.MethodGet, client.baseURL+progressPath, nil)
	if err != nil {
		return Summary{}, &PersistenceError{Op: op, Err: err}
	}
	request.Header.Set("Accept", "application/json")
	return client.do(op, request)
}

// CompleteSession reports a finished work session and returns the updated totals.
func (client *Client) CompleteSession(ctx context.Context, complete CompleteRequest) (Summary, error) {
	const op = "record session"
	body, err := json.Marshal(completeBody{
		Action:          "complete_session",
		SessionID:       complete.SessionID,
		FocusTime:       complete.FocusMinutes,
		SessionDuration: complete.FocusMinutes,
	})
	if err != nil {
		return Summary{}, &PersistenceError{Op: op, Err: err}
	}

	request, err := http.NewRequestWithContext(ctx, http.MethodPost, client.baseURL+progressPath, bytes.NewReader(body))
	if err != nil {
		return Summary{}, &PersistenceError{Op: op, Err: err}
	}
	request.Header.Set("Content-Type", "application/json")
	request.Header.Set("Accept", "application/json")
	return client.do(op, request)
}

func (client *Client) do(op string, request *http.Request) (Summary, error) {
	response, err := client.httpClient.Do(request)
	if err != nil {
		return Summary{}, &PersistenceError{Op: op, Err: err}
	}
	defer response.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(response.Body, maxResponseBytes))
	if err != nil {
		return Summary{}, &PersistenceError{Op: op, StatusCode: response.StatusCode, Err: fmt.Errorf("read body: %w", err)}
	}

	if response.StatusCode < 200 || response.StatusCode > 299 {
		return Summary{}, &PersistenceError{Op: op, StatusCode: response.StatusCode, Err: errors.New(errorMessage(raw))}
	}

	summary, err := decodeSummary(raw)
	if err != nil {
		return Summary{}, &PersistenceError{Op: op, StatusCode: response.StatusCode, Err: err}
	}
	return summary, nil
}

type completeBody struct {
	Action          string `json:"action"`
	SessionID       string `json:"session_id,omitempty"`
	FocusTime       int    `json:"focus_time"`
	SessionDuration int    `json:"session_duration"`
}

type envelope struct {
	Success *bool           `json:"success"`
	Error   string          `json:"error"`
	Data    json.RawMessage `json:"data"`
}

// wireProgress accepts every progress shape the API has served: flat
// completed_sessions/focus_time, today_/total_ prefixed keys, and nested
// today/total objects.
type wireProgress struct {
	CompletedSessions *int `json:"completed_sessions"`
	FocusTime         *int `json:"focus_time"`
	TodayCompleted    *int `json:"today_completed"`
	TodayFocusTime    *int `json:"today_focus_time"`
	TotalCompleted    *int `json:"total_completed"`
	TotalFocusTime    *int `json:"total_focus_time"`
	TotalSessions     *int `json:"total_sessions"`
	Today             *struct {
		CompletedSessions *int `json:"completed_sessions"`
		FocusTime         *int `json:"focus_time"`
	} `json:"today"`
	Total *struct {
		Sessions  *int `json:"sessions"`
		FocusTime *int `json:"focus_time"`
	} `json:"total"`
}

func decodeSummary(raw []byte) (Summary, error) {
	var outer envelope
	if err := json.Unmarshal(raw, &outer); err != nil {
		return Summary{}, fmt.Errorf("decode progress: %w", err)
	}
	if outer.Success != nil && !*outer.Success {
		message := outer.Error
		if message == "" {
			message = "request rejected"
		}
		return Summary{}, errors.New(message)
	}

	payload := raw
	if len(outer.Data) > 0 && string(outer.Data) != "null" {
		payload = outer.Data
	}

	var wire wireProgress
	if err := json.Unmarshal(payload, &wire); err != nil {
		return Summary{}, fmt.Errorf("decode progress: %w", err)
	}

	summary := Summary{
		TodayCompleted:    firstOf(wire.TodayCompleted, wire.CompletedSessions),
		TodayFocusMinutes: firstOf(wire.TodayFocusTime, wire.FocusTime),
		TotalCompleted:    firstOf(wire.TotalCompleted, wire.TotalSessions),
		TotalFocusMinutes: firstOf(wire.TotalFocusTime),
	}
	if wire.Today != nil {
		summary.TodayCompleted = firstOf(wire.Today.CompletedSessions, &summary.TodayCompleted)
		summary.TodayFocusMinutes = firstOf(wire.Today.FocusTime, &summary.TodayFocusMinutes)
	}
	if wire.Total != nil {
		summary.TotalCompleted = firstOf(wire.Total.Sessions, &summary.TotalCompleted)
		summary.TotalFocusMinutes = firstOf(wire.Total.FocusTime, &summary.TotalFocusMinutes)
	}
	return summary, nil
}

func firstOf(values ...*int) int {
	for _, value := range values {
		if value != nil {
			return *value
		}
	}
	return 0
}

func errorMessage(raw []byte) string {
	var outer envelope
	if err := json.Unmarshal(raw, &outer); err == nil && outer.Error != "" {
		return outer.Error
	}
	message := strings.TrimSpace(string(raw))
	if message == "" {
		return "empty response"
	}
	if len(message) > 200 {
		message = message[:200]
	}
	return message
}
