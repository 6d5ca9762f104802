package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/scythe504/snake-arena/internal"
	"github.com/scythe504/snake-arena/internal/leaderboard"
)

var ErrNoJoinableRoom = errors.New("no joinable room")

// API talks to the HTTP endpoints of the coordination server.
type API struct {
	baseURL string
	http    *http.Client
}

func NewAPI(baseURL string, hc *http.Client) *API {
	if hc == nil {
		hc = http.DefaultClient
	}
	return &API{baseURL: strings.TrimRight(baseURL, "/"), http: hc}
}

func (a *API) Leaderboard(ctx context.Context) ([]leaderboard.Entry, error) {
	var entries []leaderboard.Entry
	if err := a.do(ctx, http.MethodGet, "/api/leaderboard", nil, &entries); err != nil {
		return nil, err
	}
	return entries, nil
}

// SubmitScore returns the rank reported by the server, 0 when unranked.
func (a *API) SubmitScore(ctx context.Context, playerName string, score int) (int, error) {
	body := map[string]any{"playerName": playerName, "score": score}
	var resp struct {
		Success bool `json:"success"`
		Rank    int  `json:"rank"`
	}
	if err := a.do(ctx, http.MethodPost, "/api/submit-score", body, &resp); err != nil {
		return 0, err
	}
	return resp.Rank, nil
}

func (a *API) JoinableRoom(ctx context.Context) (string, error) {
	var resp internal.Response
	err := a.do(ctx, http.MethodGet, "/api/rooms/joinable", nil, &resp)
	var apiErr *APIError
	if errors.As(err, &apiErr) && apiErr.StatusCode == http.StatusNotFound {
		return "", ErrNoJoinableRoom
	}
	if err != nil {
		return "", err
	}
	roomID, ok := resp.Data.(string)
	if !ok {
		return "", fmt.Errorf("unexpected room payload %T", resp.Data)
	}
	return roomID, nil
}

type APIError struct {
	StatusCode int
	Msg        string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("server returned %d: %s", e.StatusCode, e.Msg)
}

func (a *API) do(ctx context.Context, method, path string, in, out any) error {
	var body bytes.Buffer
	if in != nil {
		if err := json.NewEncoder(&body).Encode(in); err != nil {
			return err
		}
	}

	req, err := http.NewRequestWithContext(ctx, method, a.baseURL+path, &body)
	if err != nil {
		return err
	}
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := a.http.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusBadRequest {
		var failure struct {
			Error string `json:"error"`
		}
		_ = json.NewDecoder(resp.Body).Decode(&failure)
		return &APIError{StatusCode: resp.StatusCode, Msg: failure.Error}
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode %s: %w", path, err)
	}
	return nil
}
