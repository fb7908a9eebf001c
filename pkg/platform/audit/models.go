package audit

import (
	"encoding/hex"
	"time"

	"golang.org/x/crypto/blake2b"
)

// EventCategory classifies audit events by their primary purpose so sinks can
// route and sample them differently.
type EventCategory string

const (
	// CategorySecurity covers verifications whose verdict warrants attention
	// (high or critical risk). Never sampled.
	CategorySecurity EventCategory = "security"

	// CategoryOperations covers routine verification traffic. May be sampled.
	CategoryOperations EventCategory = "operations"
)

type AuditEvent string

const (
	EventVerificationCompleted AuditEvent = "verification_completed"
	EventVerificationFlagged   AuditEvent = "verification_flagged"
	EventVerificationFailed    AuditEvent = "verification_failed"
	EventEngineCircuitOpened   AuditEvent = "engine_circuit_opened"
	EventEngineCircuitClosed   AuditEvent = "engine_circuit_closed"
)

var eventCategories = map[AuditEvent]EventCategory{
	EventVerificationFlagged: CategorySecurity,
	EventEngineCircuitOpened: CategorySecurity,

	EventVerificationCompleted: CategoryOperations,
	EventVerificationFailed:    CategoryOperations,
	EventEngineCircuitClosed:   CategoryOperations,
}

// Category returns the EventCategory for this audit event.
// Unknown events default to CategoryOperations.
func (e AuditEvent) Category() EventCategory {
	if cat, ok := eventCategories[e]; ok {
		return cat
	}
	return CategoryOperations
}

// Event is emitted after a verification. It is transport-agnostic; sinks
// decide how to serialize it. Events carry no raw actor identifiers.
type Event struct {
	Category    EventCategory `json:"category"`
	Timestamp   time.Time     `json:"timestamp"`
	Action      string        `json:"action"`
	Domain      string        `json:"domain,omitempty"`
	ActionType  string        `json:"action_type,omitempty"`
	RiskTier    string        `json:"risk_tier,omitempty"`
	Detectors   []string      `json:"detectors,omitempty"`
	Degraded    bool          `json:"degraded,omitempty"`
	Reason      string        `json:"reason,omitempty"`
	SubjectHash string        `json:"subject_hash,omitempty"`
	RequestID   string        `json:"request_id,omitempty"`
	ClientIP    string        `json:"client_ip,omitempty"`
	ClientAgent string        `json:"client_agent,omitempty"`
}

// HashSubject returns a hex BLAKE2b-256 digest of an actor identifier so
// events stay correlatable without carrying the identifier itself. Empty
// input yields "".
func HashSubject(subject string) string {
	if subject == "" {
		return ""
	}
	sum := blake2b.Sum256([]byte(subject))
	return hex.EncodeToString(sum[:])
}
