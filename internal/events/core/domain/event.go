package domain

import (
	"time"

	"github.com/google/uuid"
)

// EventKind is the enumerated category of a raw analytics event.
type EventKind string

const (
	KindMessageIn         EventKind = "message_in"
	KindMessageOut        EventKind = "message_out"
	KindConversationStart EventKind = "conversation_start"
	KindConversationEnd   EventKind = "conversation_end"
	KindHandoffRequested  EventKind = "handoff_requested"
	KindHandoffCompleted  EventKind = "handoff_completed"
	KindError             EventKind = "error"
	KindFeedbackPositive  EventKind = "feedback_positive"
	KindFeedbackNegative  EventKind = "feedback_negative"
	KindSpecialistInvoked EventKind = "specialist_invoked"
)

var knownKinds = map[EventKind]struct{}{
	KindMessageIn:         {},
	KindMessageOut:        {},
	KindConversationStart: {},
	KindConversationEnd:   {},
	KindHandoffRequested:  {},
	KindHandoffCompleted:  {},
	KindError:             {},
	KindFeedbackPositive:  {},
	KindFeedbackNegative:  {},
	KindSpecialistInvoked: {},
}

func (k EventKind) Valid() bool {
	_, ok := knownKinds[k]
	return ok
}

// Scope identifies what a record applies to. TenantID is always set;
// WorkspaceID and ChannelID are optional and empty when unset. The same
// value type keys events and both aggregate tiers, so the upsert-by-key
// invariant holds mechanically.
type Scope struct {
	TenantID    string
	WorkspaceID string
	ChannelID   string
}

// TenantWide returns the scope with workspace and channel cleared.
func (s Scope) TenantWide() Scope {
	return Scope{TenantID: s.TenantID}
}

// WithChannel returns the tenant-wide scope narrowed to one channel.
func (s Scope) WithChannel(channelID string) Scope {
	return Scope{TenantID: s.TenantID, ChannelID: channelID}
}

// Metadata carries the kind-specific context of an event. Only the fields
// relevant to a kind are populated: UserID on message and feedback events,
// Model on message_out and specialist_invoked, Detail for handoff reasons
// and error codes.
type Metadata struct {
	UserID string
	Model  string
	Detail string
}

// Event is a single immutable analytics record. Once written it is never
// mutated or reordered; OccurredAt is the sole ordering key within a scope.
type Event struct {
	ID         uuid.UUID
	Scope      Scope
	Kind       EventKind
	OccurredAt time.Time

	// ResponseTimeMs is set on message_out events that measured a latency.
	ResponseTimeMs *int64

	InputTokens  int64
	OutputTokens int64
	Cost         float64

	Meta Metadata
}
