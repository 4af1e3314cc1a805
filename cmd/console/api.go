package main

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/jwebster45206/deficit-slayer/pkg/view"
)

var errNoEventStream = errors.New("event stream not available")

func testConnection(client *http.Client, baseURL string) bool {
	resp, err := client.Get(baseURL + "/health")
	if err != nil {
		return false
	}
	defer func() {
		_ = resp.Body.Close() // Ignore error in defer
	}()
	return resp.StatusCode == http.StatusOK
}

// decodeResponse reads resp into out when it has the wanted status, and
// otherwise turns the API's ErrorResponse into an error.
func decodeResponse(resp *http.Response, want int, action string, out interface{}) error {
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode != want {
		var errorResp view.ErrorResponse
		if err := json.Unmarshal(body, &errorResp); err != nil || errorResp.Error == "" {
			return fmt.Errorf("API returned status %d: %s", resp.StatusCode, string(body))
		}
		return fmt.Errorf("failed to %s: %s", action, errorResp.Error)
	}

	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("failed to parse %s response: %w", action, err)
	}
	return nil
}

func getGameState(client *http.Client, baseURL string) (*view.GameState, error) {
	resp, err := client.Get(baseURL + "/v1/gamestate")
	if err != nil {
		return nil, fmt.Errorf("failed to send request: %w", err)
	}
	defer func() {
		_ = resp.Body.Close() // Ignore error in defer
	}()

	var gs view.GameState
	if err := decodeResponse(resp, http.StatusOK, "get game state", &gs); err != nil {
		return nil, err
	}
	return &gs, nil
}

func getHistory(client *http.Client, baseURL string) ([]view.HistoryEntry, error) {
	resp, err := client.Get(baseURL + "/v1/logs")
	if err != nil {
		return nil, fmt.Errorf("failed to send request: %w", err)
	}
	defer func() {
		_ = resp.Body.Close() // Ignore error in defer
	}()

	var history view.HistoryResponse
	if err := decodeResponse(resp, http.StatusOK, "get battle log", &history); err != nil {
		return nil, err
	}
	return history.Logs, nil
}

func logIntake(client *http.Client, baseURL string, calories int) (*view.LogResponse, error) {
	jsonData, err := json.Marshal(view.LogRequest{Calories: &calories})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	resp, err := client.Post(baseURL+"/v1/battle/log", "application/json", bytes.NewBuffer(jsonData))
	if err != nil {
		return nil, fmt.Errorf("failed to send request: %w", err)
	}
	defer func() {
		_ = resp.Body.Close() // Ignore error in defer
	}()

	var logResp view.LogResponse
	if err := decodeResponse(resp, http.StatusCreated, "log intake", &logResp); err != nil {
		return nil, err
	}
	return &logResp, nil
}

func advanceMonster(client *http.Client, baseURL string) (*view.GameState, error) {
	resp, err := client.Post(baseURL+"/v1/battle/advance", "application/json", nil)
	if err != nil {
		return nil, fmt.Errorf("failed to send request: %w", err)
	}
	defer func() {
		_ = resp.Body.Close() // Ignore error in defer
	}()

	var gs view.GameState
	if err := decodeResponse(resp, http.StatusOK, "advance", &gs); err != nil {
		return nil, err
	}
	return &gs, nil
}

// SSEEvent represents an event from the SSE stream
type SSEEvent struct {
	Type string
	Data json.RawMessage
}

// listenToSSE connects to the SSE endpoint and streams events to a channel.
// It returns errNoEventStream when the server has no stream mounted.
func listenToSSE(ctx context.Context, client *http.Client, baseURL string, eventChan chan<- SSEEvent) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, baseURL+"/v1/events", nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "text/event-stream")
	req.Header.Set("Cache-Control", "no-cache")

	resp, err := client.Do(req)
	if err != nil {
		return fmt.Errorf("failed to connect to SSE: %w", err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode == http.StatusNotFound {
		return errNoEventStream
	}
	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("SSE connection failed with status %d: %s", resp.StatusCode, string(body))
	}

	scanner := bufio.NewScanner(resp.Body)
	var current SSEEvent
	for scanner.Scan() {
		line := scanner.Text()
		switch {
		case line == "":
			if current.Type != "" {
				select {
				case eventChan <- current:
				case <-ctx.Done():
					return ctx.Err()
				}
			}
			current = SSEEvent{}
		case strings.HasPrefix(line, "event: "):
			current.Type = strings.TrimPrefix(line, "event: ")
		case strings.HasPrefix(line, "data: "):
			current.Data = json.RawMessage(strings.TrimPrefix(line, "data: "))
		}
	}

	if err := scanner.Err(); err != nil {
		return fmt.Errorf("error reading SSE stream: %w", err)
	}
	return nil
}
