package models

import (
	"maps"

	"github.com/shopspring/decimal"
)

// ActionType identifies the domain action a descriptor was built from.
type ActionType string

const (
	ActionEscrowCreation   ActionType = "escrow_creation"
	ActionEscrowRelease    ActionType = "escrow_release"
	ActionProposalCreation ActionType = "proposal_creation"
	ActionVoteSubmission   ActionType = "vote_submission"
)

// Domain groups actions that share recommendation wording.
type Domain string

const (
	DomainEscrow Domain = "escrow"
	DomainVoting Domain = "voting"
)

// RecommendationsKey is the verdict key recommendations are attached under.
func (d Domain) RecommendationsKey() string {
	return string(d) + "_recommendations"
}

// DetectorID names a risk check the detection engine can run.
type DetectorID string

const (
	DetectorApprovals DetectorID = "approvals"
	DetectorMultisig  DetectorID = "multisig"
)

// Descriptor is the canonical, action-agnostic transaction handed to the
// detection engine. JSON keys are the engine's wire format.
//
// ProvidedSignatures and SignatureTimestamps correspond positionally; callers
// guarantee equal length, it is not checked here.
type Descriptor struct {
	ActionType          ActionType       `json:"type"`
	OriginAddress       string           `json:"from"`
	DestinationAddress  string           `json:"to"`
	Amount              *decimal.Decimal `json:"amount,omitempty"`
	TokenAddress        string           `json:"token_address,omitempty"`
	ActorUserID         string           `json:"user_id"`
	ProposalID          string           `json:"proposal_id,omitempty"`
	Signers             []string         `json:"signers"`
	ProvidedSignatures  []string         `json:"provided_signatures"`
	SignatureTimestamps []int64          `json:"signature_timestamps"`
	RequiredSignatures  int              `json:"required_signatures"`
}

// RiskTier is the qualitative severity reported by the engine.
type RiskTier string

const (
	RiskCritical RiskTier = "critical"
	RiskHigh     RiskTier = "high"
	RiskMedium   RiskTier = "medium"
	RiskLow      RiskTier = "low"
	RiskUnknown  RiskTier = "unknown"
)

// OverallRiskKey is the verdict field carrying the risk tier.
const OverallRiskKey = "overall_risk"

// Verdict is the engine's answer. Apart from overall_risk its fields are
// opaque to this service and passed through untouched.
type Verdict map[string]any

// Clone returns a shallow copy so callers can attach keys without touching
// the engine's map.
func (v Verdict) Clone() Verdict {
	out := make(Verdict, len(v)+1)
	maps.Copy(out, v)
	return out
}

// RiskTier reads overall_risk. A verdict without a usable string value, or
// with a value outside the known tiers, yields RiskUnknown and degraded=true.
// Matching is exact.
func (v Verdict) RiskTier() (tier RiskTier, degraded bool) {
	raw, ok := v[OverallRiskKey].(string)
	if !ok {
		return RiskUnknown, true
	}
	switch t := RiskTier(raw); t {
	case RiskCritical, RiskHigh, RiskMedium, RiskLow, RiskUnknown:
		return t, false
	default:
		return RiskUnknown, true
	}
}

// Result is the outcome of one verification.
type Result struct {
	Domain          Domain
	Action          ActionType
	Detectors       []DetectorID
	Verdict         Verdict // engine verdict plus the domain recommendations key
	RiskTier        RiskTier
	Recommendations []string
	// Degraded marks recommendations produced without a usable risk tier.
	Degraded bool
}
