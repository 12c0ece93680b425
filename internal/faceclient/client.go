// Package faceclient talks to the external face recognition engine. The
// engine is a black box: it owns detection, embedding, and gallery matching;
// this client only drives it and reads results back.
package faceclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// DetectedFace is one detection returned by the engine for a processed photo.
type DetectedFace struct {
	UserID     string    `json:"user_id,omitempty"`
	Embedding  []float64 `json:"embedding"`
	Confidence float64   `json:"confidence"`
	BoxX       int       `json:"box_x"`
	BoxY       int       `json:"box_y"`
	BoxWidth   int       `json:"box_width"`
	BoxHeight  int       `json:"box_height"`
}

// ProcessResult is the engine's answer for one photo.
type ProcessResult struct {
	PhotoID string         `json:"photo_id"`
	Faces   []DetectedFace `json:"faces"`
}

// HealthStatus reports whether the engine is reachable and has its model
// loaded. Processing is not attempted while the model is cold.
type HealthStatus struct {
	Status      string `json:"status"`
	ModelLoaded bool   `json:"model_loaded"`
}

// EnrollResult is the engine's answer for a face registration.
type EnrollResult struct {
	UserID  string `json:"user_id"`
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
}

// Client calls the face recognition microservice.
type Client struct {
	BaseURL string
	HTTP    *http.Client
	Skip    bool
}

// New creates a client. With skip set, every call returns a canned success so
// the rest of the stack can run without the engine (dev and CI).
func New(baseURL string, timeout time.Duration, skip bool) *Client {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &Client{
		BaseURL: baseURL,
		Skip:    skip,
		HTTP:    &http.Client{Timeout: timeout},
	}
}

// ProcessPhoto asks the engine to detect and recognize faces in an already
// uploaded photo. A timeout is treated by callers exactly like a failure: the
// photo stays unprocessed and is retried by a later pass.
func (c *Client) ProcessPhoto(ctx context.Context, photoID string) (*ProcessResult, error) {
	if c.Skip {
		return &ProcessResult{PhotoID: photoID, Faces: nil}, nil
	}
	if photoID == "" {
		return nil, fmt.Errorf("photo id required")
	}

	body, _ := json.Marshal(map[string]string{"photo_id": photoID})
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.BaseURL+"/process-photo", bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.HTTP.Do(req)
	if err != nil {
		return nil, fmt.Errorf("face service request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		bodyBytes, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("face service error %s: %s", resp.Status, string(bodyBytes))
	}

	var out ProcessResult
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}
	if out.PhotoID == "" {
		out.PhotoID = photoID
	}

	return &out, nil
}

// Enroll registers an attendee's reference photo in the engine's gallery so
// later detections can be matched back to the user.
func (c *Client) Enroll(ctx context.Context, userID, imageURL string) (*EnrollResult, error) {
	if c.Skip {
		return &EnrollResult{UserID: userID, Success: true, Message: "skipped"}, nil
	}

	body, _ := json.Marshal(map[string]string{
		"user_id":   userID,
		"image_url": imageURL,
	})
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.BaseURL+"/enroll", bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.HTTP.Do(req)
	if err != nil {
		return nil, fmt.Errorf("face service request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		bodyBytes, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("face service error %s: %s", resp.Status, string(bodyBytes))
	}

	var out EnrollResult
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}

	return &out, nil
}

// Health checks the engine before a processing pass is attempted.
func (c *Client) Health(ctx context.Context) (*HealthStatus, error) {
	if c.Skip {
		return &HealthStatus{Status: "ok", ModelLoaded: true}, nil
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.BaseURL+"/health", nil)
	if err != nil {
		return nil, err
	}

	resp, err := c.HTTP.Do(req)
	if err != nil {
		return nil, fmt.Errorf("face service unavailable: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		return nil, fmt.Errorf("face service unhealthy: %s", resp.Status)
	}

	var out HealthStatus
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}

	return &out, nil
}
