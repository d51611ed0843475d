// Package events announces recomputed household summaries to other
// systems.
package events

import (
	"context"
	"encoding/json"
	"time"

	"github.com/mmynk/fairshare/internal/models"
)

// SummaryEvent is published after every successful household mutation.
type SummaryEvent struct {
	HouseholdID string         `json:"householdId"`
	Operation   string         `json:"operation"`
	Summary     models.Summary `json:"summary"`
	Settlement  string         `json:"settlement,omitempty"`
	OccurredAt  time.Time      `json:"occurredAt"`
}

func (e SummaryEvent) ToJSON() ([]byte, error) {
	return json.Marshal(e)
}

// SummaryEventFromJSON decodes a published message body.
func SummaryEventFromJSON(data []byte) (SummaryEvent, error) {
	var e SummaryEvent
	err := json.Unmarshal(data, &e)
	return e, err
}

// Publisher delivers summary events.
type Publisher interface {
	PublishSummary(ctx context.Context, e SummaryEvent) error
	Close() error
}

// Noop discards every event. It is used when no broker is configured.
type Noop struct{}

func (Noop) PublishSummary(context.Context, SummaryEvent) error { return nil }
func (Noop) Close() error                                       { return nil }
