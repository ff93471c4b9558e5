package amqp

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// ReportRequest asks the worker to build and persist one report. Date is the
// optional reference date in YYYY-MM-DD HH:MM:SS form; blank means "now".
type ReportRequest struct {
	ID        string    `json:"id"`
	Kind      string    `json:"kind"`
	Date      string    `json:"date,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

// NewReportRequest creates a request with a fresh ID.
func NewReportRequest(kind, date string) *ReportRequest {
	return &ReportRequest{
		ID:        uuid.NewString(),
		Kind:      kind,
		Date:      date,
		Timestamp: time.Now().UTC(),
	}
}

// ToJSON serializes the request for publishing.
func (m *ReportRequest) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

// ReportRequestFromJSON parses a consumed message body.
func ReportRequestFromJSON(data []byte) (*ReportRequest, error) {
	var msg ReportRequest
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	return &msg, nil
}
