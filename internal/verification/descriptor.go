// Package verification turns domain action records into detection engine
// requests and engine verdicts into recommendation sets.
//
// The flow for every action is the same: BuildDescriptor maps the record to a
// canonical Descriptor, a DetectorPolicy picks the detectors, the engine is
// called once, and the Catalog composes the recommendations for the reported
// risk tier.
package verification

import (
	"txguard/internal/verification/models"
)

// FieldMap names the record keys that feed each descriptor field. An empty
// key means the action does not carry that field and the default applies.
type FieldMap struct {
	Origin              string
	Destination         string
	Amount              string
	Token               string
	Actor               string
	ProposalID          string
	Signers             string
	ProvidedSignatures  string
	SignatureTimestamps string
	RequiredSignatures  string
}

// BuildDescriptor maps rec onto a Descriptor of the given action type.
// Absent keys take defaults (empty string, empty list, zero count, nil
// amount). It fails only when a present value has the wrong shape, with a
// CodeBadRequest domain error naming the key.
func BuildDescriptor(actionType models.ActionType, fields FieldMap, rec models.Record) (models.Descriptor, error) {
	d := models.Descriptor{ActionType: actionType}

	var err error
	if d.OriginAddress, err = rec.String(fields.Origin); err != nil {
		return models.Descriptor{}, err
	}
	if d.DestinationAddress, err = rec.String(fields.Destination); err != nil {
		return models.Descriptor{}, err
	}
	if d.Amount, err = rec.Amount(fields.Amount); err != nil {
		return models.Descriptor{}, err
	}
	if d.TokenAddress, err = rec.String(fields.Token); err != nil {
		return models.Descriptor{}, err
	}
	if d.ActorUserID, err = rec.String(fields.Actor); err != nil {
		return models.Descriptor{}, err
	}
	if d.ProposalID, err = rec.String(fields.ProposalID); err != nil {
		return models.Descriptor{}, err
	}
	if d.Signers, err = rec.Strings(fields.Signers); err != nil {
		return models.Descriptor{}, err
	}
	if d.ProvidedSignatures, err = rec.Strings(fields.ProvidedSignatures); err != nil {
		return models.Descriptor{}, err
	}
	if d.SignatureTimestamps, err = rec.Timestamps(fields.SignatureTimestamps); err != nil {
		return models.Descriptor{}, err
	}
	if d.RequiredSignatures, err = rec.Count(fields.RequiredSignatures); err != nil {
		return models.Descriptor{}, err
	}
	return d, nil
}
