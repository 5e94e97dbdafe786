package domain

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// RawMessage represents an unprocessed message from the request topic.
type RawMessage struct {
	Key       []byte
	Value     []byte
	Headers   map[string]string
	Topic     string
	Partition int
	Offset    int64
	Timestamp time.Time
	Commit    func(ctx context.Context) error
}

// OutputMessage is a serialized report ready for the sink topic.
type OutputMessage struct {
	Key     []byte
	Value   []byte
	Headers map[string]string
}

// DistanceRequest is the JSON payload of a request-topic message.
type DistanceRequest struct {
	ID   string `json:"id,omitempty"`
	From string `json:"from"`
	To   string `json:"to"`
}

// ReportEnvelope wraps a report with request metadata for the sink topic.
type ReportEnvelope struct {
	RequestID  string         `json:"request_id"`
	Report     DistanceReport `json:"report"`
	Message    string         `json:"message"`
	ComputedAt time.Time      `json:"computed_at"`
}

// ParseDistanceRequest decodes a request message. The message key is used as
// the request id when the payload has none; a random id is generated when
// both are absent.
func ParseDistanceRequest(raw RawMessage) (DistanceRequest, error) {
	var req DistanceRequest
	if err := json.Unmarshal(raw.Value, &req); err != nil {
		return DistanceRequest{}, fmt.Errorf("unmarshal distance request: %w", err)
	}
	if req.From == "" || req.To == "" {
		return DistanceRequest{}, fmt.Errorf("distance request: from and to are required")
	}
	if req.ID == "" {
		req.ID = string(raw.Key)
	}
	if req.ID == "" {
		req.ID = uuid.NewString()
	}
	return req, nil
}

// SerializeReport wraps a report in an envelope stamped with the current
// clock time and marshals it into an OutputMessage.
func SerializeReport(requestID string, report DistanceReport) (OutputMessage, error) {
	env := ReportEnvelope{
		RequestID:  requestID,
		Report:     report,
		Message:    report.Text(),
		ComputedAt: clock.Now().UTC(),
	}
	data, err := json.Marshal(env)
	if err != nil {
		return OutputMessage{}, fmt.Errorf("serialize distance report: %w", err)
	}
	return OutputMessage{
		Key:   []byte(requestID),
		Value: data,
		Headers: map[string]string{
			"status":      string(report.Status),
			"computed_at": env.ComputedAt.Format(time.RFC3339),
		},
	}, nil
}
