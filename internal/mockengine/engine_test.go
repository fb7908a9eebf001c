package mockengine

import (
	"context"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"txguard/internal/verification/adapters/httpengine"
	"txguard/internal/verification/models"
)

func TestEngine_Heuristics(t *testing.T) {
	tests := []struct {
		name      string
		d         models.Descriptor
		detectors []models.DetectorID
		want      models.RiskTier
	}{
		{
			name: "complete descriptor",
			d:    models.Descriptor{OriginAddress: "0xA", DestinationAddress: "0xB"},
			want: models.RiskLow,
		},
		{
			name: "missing destination",
			d:    models.Descriptor{OriginAddress: "0xA"},
			want: models.RiskMedium,
		},
		{
			name:      "unsigned multisig",
			d:         models.Descriptor{OriginAddress: "0xA", DestinationAddress: "0xB", RequiredSignatures: 2, ProvidedSignatures: []string{"s1"}},
			detectors: []models.DetectorID{models.DetectorMultisig},
			want:      models.RiskHigh,
		},
		{
			name:      "threshold met",
			d:         models.Descriptor{OriginAddress: "0xA", DestinationAddress: "0xB", RequiredSignatures: 1, ProvidedSignatures: []string{"s1"}},
			detectors: []models.DetectorID{models.DetectorMultisig},
			want:      models.RiskLow,
		},
		{
			name: "threshold ignored without multisig detector",
			d:    models.Descriptor{OriginAddress: "0xA", DestinationAddress: "0xB", RequiredSignatures: 3},
			want: models.RiskLow,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			verdict, err := Engine{}.Analyze(context.Background(), tt.d, tt.detectors)
			require.NoError(t, err)
			tier, degraded := verdict.RiskTier()
			assert.Equal(t, tt.want, tier)
			assert.False(t, degraded)
		})
	}
}

func TestEngine_LatencyHonoursCancel(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()

	_, err := Engine{Latency: time.Second}.Analyze(ctx, models.Descriptor{}, nil)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestHandler_ServesAdapterContract(t *testing.T) {
	srv := httptest.NewServer(Engine{}.Handler())
	defer srv.Close()

	client, err := httpengine.New(srv.URL)
	require.NoError(t, err)

	verdict, err := client.Analyze(context.Background(), models.Descriptor{
		OriginAddress:      "0xA",
		DestinationAddress: "0xB",
		RequiredSignatures: 2,
		ProvidedSignatures: []string{},
	}, []models.DetectorID{models.DetectorMultisig})
	require.NoError(t, err)

	tier, _ := verdict.RiskTier()
	assert.Equal(t, models.RiskHigh, tier)
	assert.Equal(t, []any{"multisig"}, verdict["detectors_run"])
}
