package repository

import (
	"attendance/domain"
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// faceClient calls the external face recognition microservice. When Skip is
// set the service is never contacted and every roster member comes back
// absent, which lets callers fall through to manual marking.
type faceClient struct {
	BaseURL string
	HTTP    *http.Client
	Skip    bool
}

func NewFaceClient(baseURL string, skip bool) domain.FaceClassifier {
	return &faceClient{
		BaseURL: baseURL,
		Skip:    skip,
		HTTP: &http.Client{
			Timeout: 30 * time.Second, // Face processing can take time
		},
	}
}

func (fc *faceClient) Classify(ctx context.Context, imageURL string, roster []string) ([]domain.FaceMatch, error) {
	if fc.Skip {
		matches := make([]domain.FaceMatch, 0, len(roster))
		for _, ref := range roster {
			matches = append(matches, domain.FaceMatch{StudentRef: ref, Status: "absent"})
		}
		return matches, nil
	}
	if imageURL == "" {
		return nil, fmt.Errorf("image url required")
	}

	body, _ := json.Marshal(map[string]interface{}{
		"image_url": imageURL,
		"roster":    roster,
	})
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, fc.BaseURL+"/classify", bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := fc.HTTP.Do(req)
	if err != nil {
		return nil, fmt.Errorf("face service request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		bodyBytes, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("face service error %s: %s", resp.Status, string(bodyBytes))
	}

	var out struct {
		Matches []domain.FaceMatch `json:"matches"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}

	return out.Matches, nil
}
