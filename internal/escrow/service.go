// Package escrow verifies escrow creation and escrow release actions.
package escrow

import (
	"context"
	"errors"

	"txguard/internal/verification"
	"txguard/internal/verification/models"
)

// Record flag selecting the multisig detector and the signer addendum.
const FlagMultisig = "is_multisig"

// Creation reads the client's funding request. The approvals detector always
// runs.
var Creation = verification.Action{
	Type:   models.ActionEscrowCreation,
	Domain: models.DomainEscrow,
	Fields: verification.FieldMap{
		Origin:             "client_address",
		Destination:        "escrow_contract_address",
		Amount:             "payment_amount",
		Token:              "token_address",
		Actor:              "client_id",
		Signers:            "authorized_signers",
		RequiredSignatures: "required_signatures",
	},
	Detectors: verification.DetectorPolicy{
		Always:       []models.DetectorID{models.DetectorApprovals},
		MultisigFlag: FlagMultisig,
	},
	AddendumFlag: FlagMultisig,
}

// Release reads a payout request, including the signatures collected so far.
var Release = verification.Action{
	Type:   models.ActionEscrowRelease,
	Domain: models.DomainEscrow,
	Fields: verification.FieldMap{
		Origin:              "sender_address",
		Destination:         "escrow_contract_address",
		Amount:              "release_amount",
		Actor:               "sender_id",
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

// VerifyCreation checks an escrow creation before funds are locked.
func (s *Service) VerifyCreation(ctx context.Context, rec models.Record) (*models.Result, error) {
	return s.runner.Run(ctx, Creation, rec)
}

// VerifyRelease checks an escrow release before funds move.
func (s *Service) VerifyRelease(ctx context.Context, rec models.Record) (*models.Result, error) {
	return s.runner.Run(ctx, Release, rec)
}
