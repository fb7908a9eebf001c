package models

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	dErrors "txguard/pkg/domain-errors"
)

func TestParseRecord(t *testing.T) {
	t.Run("object decodes with precise numbers", func(t *testing.T) {
		rec, err := ParseRecord([]byte(`{"payment_amount": 12345678901234567890.000000001, "client_id": "c-1"}`))
		require.NoError(t, err)
		assert.Equal(t, json.Number("12345678901234567890.000000001"), rec["payment_amount"])
	})

	for name, body := range map[string]string{
		"array":          `["not", "a", "mapping"]`,
		"string":         `"escrow"`,
		"null":           `null`,
		"empty body":     ``,
		"trailing value": `{"a": 1} {"b": 2}`,
		"broken json":    `{"a": `,
	} {
		t.Run(name+" is malformed input", func(t *testing.T) {
			_, err := ParseRecord([]byte(body))
			require.Error(t, err)
			assert.True(t, dErrors.HasCode(err, dErrors.CodeBadRequest))
		})
	}
}

func TestRecordReaders_Defaults(t *testing.T) {
	rec := Record{}

	s, err := rec.String("client_address")
	require.NoError(t, err)
	assert.Empty(t, s)

	list, err := rec.Strings("authorized_signers")
	require.NoError(t, err)
	assert.NotNil(t, list)
	assert.Empty(t, list)

	ts, err := rec.Timestamps("signature_timestamps")
	require.NoError(t, err)
	assert.NotNil(t, ts)
	assert.Empty(t, ts)

	n, err := rec.Count("required_signatures")
	require.NoError(t, err)
	assert.Zero(t, n)

	amount, err := rec.Amount("payment_amount")
	require.NoError(t, err)
	assert.Nil(t, amount)

	flag, err := rec.Flag("is_multisig")
	require.NoError(t, err)
	assert.False(t, flag)
}

func TestRecordReaders_Coercion(t *testing.T) {
	rec := Record{
		"client_id":            json.Number("42"),
		"float_id":             float64(7),
		"signers":              []any{"0xA", json.Number("3")},
		"signature_timestamps": []any{json.Number("1700000000"), "1700000100", "2024-01-02T03:04:05Z"},
		"required_signatures":  json.Number("2"),
		"string_count":         "3",
		"release_amount":       "150.25",
		"is_multisig":          "true",
	}

	s, err := rec.String("client_id")
	require.NoError(t, err)
	assert.Equal(t, "42", s)

	s, err = rec.String("float_id")
	require.NoError(t, err)
	assert.Equal(t, "7", s)

	signers, err := rec.Strings("signers")
	require.NoError(t, err)
	assert.Equal(t, []string{"0xA", "3"}, signers)

	ts, err := rec.Timestamps("signature_timestamps")
	require.NoError(t, err)
	assert.Equal(t, []int64{1700000000, 1700000100, 1704164645}, ts)

	n, err := rec.Count("required_signatures")
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	n, err = rec.Count("string_count")
	require.NoError(t, err)
	assert.Equal(t, 3, n)

	amount, err := rec.Amount("release_amount")
	require.NoError(t, err)
	require.NotNil(t, amount)
	assert.Equal(t, "150.25", amount.String())

	flag, err := rec.Flag("is_multisig")
	require.NoError(t, err)
	assert.True(t, flag)
}

func TestRecordReaders_Malformed(t *testing.T) {
	rec := Record{
		"client_address":       map[string]any{"nested": true},
		"signers":              "0xA,0xB",
		"signers_with_object":  []any{"0xA", map[string]any{}},
		"signature_timestamps": []any{"yesterday"},
		"overflow_timestamps":  []any{1e19},
		"overflow_number":      []any{json.Number("-1e19")},
		"overflow_string":      []any{"9.3e18"},
		"nan_timestamp":        []any{"NaN"},
		"overflow_count":       json.Number("1e19"),
		"required_signatures":  json.Number("-1"),
		"fractional_count":     1.5,
		"payment_amount":       "ten",
		"is_multisig":          "maybe",
		"list_flag":            []any{true},
		"bool_amount":          true,
	}

	checks := map[string]func() error{
		"string":                    func() error { _, err := rec.String("client_address"); return err },
		"list not array":            func() error { _, err := rec.Strings("signers"); return err },
		"list element":              func() error { _, err := rec.Strings("signers_with_object"); return err },
		"timestamps":                func() error { _, err := rec.Timestamps("signature_timestamps"); return err },
		"timestamp float overflow":  func() error { _, err := rec.Timestamps("overflow_timestamps"); return err },
		"timestamp number overflow": func() error { _, err := rec.Timestamps("overflow_number"); return err },
		"timestamp string overflow": func() error { _, err := rec.Timestamps("overflow_string"); return err },
		"timestamp not a number":    func() error { _, err := rec.Timestamps("nan_timestamp"); return err },
		"count overflow":            func() error { _, err := rec.Count("overflow_count"); return err },
		"negative count":            func() error { _, err := rec.Count("required_signatures"); return err },
		"fractional count":          func() error { _, err := rec.Count("fractional_count"); return err },
		"amount text":               func() error { _, err := rec.Amount("payment_amount"); return err },
		"amount bool":               func() error { _, err := rec.Amount("bool_amount"); return err },
		"flag":                      func() error { _, err := rec.Flag("is_multisig"); return err },
		"flag list":                 func() error { _, err := rec.Flag("list_flag"); return err },
	}
	for name, check := range checks {
		t.Run(name, func(t *testing.T) {
			err := check()
			require.Error(t, err)
			assert.True(t, dErrors.HasCode(err, dErrors.CodeBadRequest))
		})
	}
}

func TestRecordReaders_FractionalTimestamps(t *testing.T) {
	rec := Record{
		"signature_timestamps": []any{1700000000.5, json.Number("1700000000.9"), "1700000001.25", -1.5, float64(1700000002)},
	}

	ts, err := rec.Timestamps("signature_timestamps")
	require.NoError(t, err)
	assert.Equal(t, []int64{1700000000, 1700000000, 1700000001, -1, 1700000002}, ts)
}

func TestRecordReaders_NumericFlags(t *testing.T) {
	tests := []struct {
		value any
		want  bool
	}{
		{value: json.Number("1"), want: true},
		{value: json.Number("0"), want: false},
		{value: float64(1), want: true},
		{value: float64(0), want: false},
		{value: 2, want: true},
		{value: int64(0), want: false},
		{value: "1", want: true},
		{value: "0", want: false},
	}
	for _, tt := range tests {
		flag, err := Record{"is_multisig": tt.value}.Flag("is_multisig")
		require.NoError(t, err, "value %#v", tt.value)
		assert.Equal(t, tt.want, flag, "value %#v", tt.value)
	}
}
