package domain

import "context"

// SendResult is how every notification attempt reports back. Failure is a
// normal value, never an error: no caller in this codebase depends on a
// notification succeeding.
type SendResult struct {
	Success   bool   `json:"success"`
	MessageID string `json:"sid,omitempty"`
	Error     string `json:"error,omitempty"`
}

// NotifierRepo sends a single message per call, one attempt, no retry.
type NotifierRepo interface {
	SendText(ctx context.Context, phoneRaw, message string) SendResult
	SendEmail(ctx context.Context, to, subject, body string) SendResult
}

// FaceMatch is one classifier verdict for a roster member. StudentRef is
// whatever identifier the classifier was given: a numeric id or an external
// student code.
type FaceMatch struct {
	StudentRef string  `json:"studentRef"`
	Status     string  `json:"status"`
	Confidence float64 `json:"confidence"`
}

// FaceClassifier is the pluggable face-matching collaborator. The attendance
// core never looks inside it; it only consumes the verdict list.
type FaceClassifier interface {
	Classify(ctx context.Context, imageURL string, roster []string) ([]FaceMatch, error)
}
