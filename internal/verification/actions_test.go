package verification_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"txguard/internal/escrow"
	"txguard/internal/verification"
	"txguard/internal/verification/models"
	"txguard/internal/voting"
)

func TestActions_EmptyRecordTakesDefaults(t *testing.T) {
	actions := map[string]verification.Action{
		"escrow creation":   escrow.Creation,
		"escrow release":    escrow.Release,
		"proposal creation": voting.ProposalCreation,
		"vote submission":   voting.VoteSubmission,
	}
	for name, action := range actions {
		t.Run(name, func(t *testing.T) {
			for _, rec := range []models.Record{nil, {}} {
				d, err := verification.BuildDescriptor(action.Type, action.Fields, rec)
				require.NoError(t, err)
				assert.Equal(t, models.Descriptor{
					ActionType:          action.Type,
					Signers:             []string{},
					ProvidedSignatures:  []string{},
					SignatureTimestamps: []int64{},
				}, d)
			}
		})
	}
}

func TestActions_EscrowCreationMapping(t *testing.T) {
	rec, err := models.ParseRecord([]byte(`{
		"client_address": "0xC",
		"escrow_contract_address": "0xE",
		"payment_amount": "100.00",
		"token_address": "0xT",
		"client_id": "client-1",
		"authorized_signers": ["0xA", "0xB", "0xC"],
		"required_signatures": 2,
		"signers": ["0xIgnored"]
	}`))
	require.NoError(t, err)

	d, err := verification.BuildDescriptor(escrow.Creation.Type, escrow.Creation.Fields, rec)
	require.NoError(t, err)

	assert.Equal(t, models.ActionEscrowCreation, d.ActionType)
	assert.Equal(t, "0xC", d.OriginAddress)
	assert.Equal(t, "0xE", d.DestinationAddress)
	require.NotNil(t, d.Amount)
	assert.Equal(t, "100", d.Amount.String())
	assert.Equal(t, "0xT", d.TokenAddress)
	assert.Equal(t, "client-1", d.ActorUserID)
	assert.Equal(t, []string{"0xA", "0xB", "0xC"}, d.Signers)
	assert.Equal(t, 2, d.RequiredSignatures)
	assert.Empty(t, d.ProvidedSignatures)
	assert.Empty(t, d.SignatureTimestamps)
}

func TestActions_ProposalCreationMapping(t *testing.T) {
	rec, err := models.ParseRecord([]byte(`{
		"creator_address": "0xP",
		"voting_contract_address": "0xV",
		"creator_id": "creator-9",
		"authorized_signers": ["0xA", "0xB"],
		"required_signatures": 2,
		"proposal_id": "not-read-on-creation"
	}`))
	require.NoError(t, err)

	d, err := verification.BuildDescriptor(voting.ProposalCreation.Type, voting.ProposalCreation.Fields, rec)
	require.NoError(t, err)

	assert.Equal(t, models.ActionProposalCreation, d.ActionType)
	assert.Equal(t, "0xP", d.OriginAddress)
	assert.Equal(t, "0xV", d.DestinationAddress)
	assert.Equal(t, "creator-9", d.ActorUserID)
	assert.Equal(t, []string{"0xA", "0xB"}, d.Signers)
	assert.Equal(t, 2, d.RequiredSignatures)
	assert.Empty(t, d.ProposalID)
	assert.Nil(t, d.Amount)
}
