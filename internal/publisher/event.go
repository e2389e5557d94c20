package publisher

import (
	"context"
	"time"

	ierr "github.com/flexprice/invoicely/internal/errors"
	"github.com/flexprice/invoicely/internal/types"
	jsoniter "github.com/json-iterator/go"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// Event is a domain event describing a change to one record
type Event struct {
	ID        string              `json:"id"`
	Name      types.EventName     `json:"event_name"`
	TenantID  string              `json:"tenant_id"`
	UserID    string              `json:"user_id,omitempty"`
	EntityID  string              `json:"entity_id"`
	Timestamp time.Time           `json:"timestamp"`
	Payload   jsoniter.RawMessage `json:"payload,omitempty"`
}

// NewEvent builds an event for entityID carrying payload encoded as JSON.
// Tenant and user are taken from the context.
func NewEvent(ctx context.Context, name types.EventName, entityID string, payload any) (*Event, error) {
	var raw jsoniter.RawMessage
	if payload != nil {
		b, err := json.Marshal(payload)
		if err != nil {
			return nil, ierr.WithError(err).
				WithHintf("Failed to encode %s payload", name).
				Mark(ierr.ErrSystem)
		}
		raw = b
	}

	return &Event{
		ID:        types.GenerateUUIDWithPrefix(types.UUID_PREFIX_EVENT),
		Name:      name,
		TenantID:  types.GetTenantID(ctx),
		UserID:    types.GetUserID(ctx),
		EntityID:  entityID,
		Timestamp: time.Now().UTC(),
		Payload:   raw,
	}, nil
}

// DecodePayload unmarshals the event payload into v
func (e *Event) DecodePayload(v any) error {
	if len(e.Payload) == 0 {
		return ierr.NewError("event has no payload").
			WithHintf("Event %s carries no payload", e.ID).
			Mark(ierr.ErrValidation)
	}
	return json.Unmarshal(e.Payload, v)
}
