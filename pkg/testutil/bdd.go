package testutil

import "testing"

// Given, When and Then nest subtests so failures read as a scenario path,
// e.g. "Given_a_multisig_escrow/When_signatures_are_missing/Then_risk_is_high".
func Given(t *testing.T, context string, fn func(t *testing.T)) {
	t.Helper()
	step(t, "Given", context, fn)
}

func When(t *testing.T, action string, fn func(t *testing.T)) {
	t.Helper()
	step(t, "When", action, fn)
}

func Then(t *testing.T, outcome string, fn func(t *testing.T)) {
	t.Helper()
	step(t, "Then", outcome, fn)
}

func step(t *testing.T, keyword, desc string, fn func(t *testing.T)) {
	t.Helper()
	t.Run(keyword+" "+desc, fn)
}
