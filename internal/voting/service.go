// Package voting verifies governance proposal creation and vote submission.
package voting

import (
	"context"
	"errors"

	"txguard/internal/verification"
	"txguard/internal/verification/models"
)

const (
	FlagMultisig = "is_multisig"

	// FlagMultisigGovernance selects the multisig detector for proposal
	// creation only. The proposal addendum still follows FlagMultisig.
	FlagMultisigGovernance = "is_multisig_governance"
)

var ProposalCreation = verification.Action{
	Type:   models.ActionProposalCreation,
	Domain: models.DomainVoting,
	Fields: verification.FieldMap{
		Origin:             "creator_address",
		Destination:        "voting_contract_address",
		Actor:              "creator_id",
		Signers:            "authorized_signers",
		RequiredSignatures: "required_signatures",
	},
	Detectors:    verification.DetectorPolicy{MultisigFlag: FlagMultisigGovernance},
	AddendumFlag: FlagMultisig,
}

var VoteSubmission = verification.Action{
	Type:   models.ActionVoteSubmission,
	Domain: models.DomainVoting,
	Fields: verification.FieldMap{
		Origin:              "voter_address",
		Destination:         "voting_contract_address",
		Actor:               "voter_id",
		ProposalID:          "proposal_id",
		Signers:             "signers",
		ProvidedSignatures:  "provided_signatures",
		SignatureTimestamps: "signature_timestamps",
		RequiredSignatures:  "required_signatures",
	},
	Detectors:    verification.DetectorPolicy{MultisigFlag: FlagMultisig},
	AddendumFlag: FlagMultisig,
}

// Runner executes one verification action.
type Runner interface {
	Run(ctx context.Context, action verification.Action, rec models.Record) (*models.Result, error)
}

type Service struct {
	runner Runner
}

func NewService(runner Runner) (*Service, error) {
	if runner == nil {
		return nil, errors.New("verification runner is required")
	}
	return &Service{runner: runner}, nil
}

func (s *Service) VerifyProposalCreation(ctx context.Context, rec models.Record) (*models.Result, error) {
	return s.runner.Run(ctx, ProposalCreation, rec)
}

func (s *Service) VerifyVoteSubmission(ctx context.Context, rec models.Record) (*models.Result, error) {
	return s.runner.Run(ctx, VoteSubmission, rec)
}
