package verification

import (
	"fmt"

	"txguard/internal/verification/models"
)

// TierRecommendations is one domain's wording. Elevated covers critical and
// high, Baseline covers low and unknown. Multisig is the addendum appended
// when the action involves multi-party signing.
type TierRecommendations struct {
	Elevated []string `yaml:"elevated"`
	Medium   []string `yaml:"medium"`
	Baseline []string `yaml:"baseline"`
	Multisig string   `yaml:"multisig"`
}

// Catalog maps each domain to its wording.
type Catalog map[models.Domain]TierRecommendations

// CatalogSource returns the catalog to use for one verification. The loader
// in the catalog package swaps it atomically on reload.
type CatalogSource interface {
	Current() Catalog
}

// StaticCatalog is a CatalogSource that never changes.
type StaticCatalog Catalog

func (s StaticCatalog) Current() Catalog { return Catalog(s) }

// DefaultCatalog returns the compiled-in wording.
func DefaultCatalog() Catalog {
	return Catalog{
		models.DomainEscrow: {
			Elevated: []string{
				"Consider canceling this transaction and reviewing the security issues",
				"Verify all parties involved before proceeding",
				"Contact support if you need assistance resolving these issues",
			},
			Medium: []string{
				"Review the security warnings before proceeding",
				"Consider additional verification steps for the involved parties",
			},
			Baseline: []string{
				"Transaction appears safe, but always verify details before confirming",
			},
			Multisig: "Ensure all signers are legitimate and expected for this transaction",
		},
		models.DomainVoting: {
			Elevated: []string{
				"Consider canceling this transaction and reviewing the security issues",
				"Verify all voting parameters before proceeding",
				"Check if this proposal/vote aligns with community guidelines",
			},
			Medium: []string{
				"Review the security warnings before proceeding",
				"Consider waiting for more community feedback before finalizing",
			},
			Baseline: []string{
				"Transaction appears safe, but always verify proposal details before confirming",
			},
			Multisig: "Ensure all signers are legitimate governance participants",
		},
	}
}

// Validate checks that every known domain has non-empty wording for every
// tier and the addendum.
func (c Catalog) Validate() error {
	for _, domain := range []models.Domain{models.DomainEscrow, models.DomainVoting} {
		t, ok := c[domain]
		if !ok {
			return fmt.Errorf("catalog: missing domain %q", domain)
		}
		if err := t.validate(); err != nil {
			return fmt.Errorf("catalog: domain %q: %w", domain, err)
		}
	}
	return nil
}

func (t TierRecommendations) validate() error {
	tiers := map[string][]string{"elevated": t.Elevated, "medium": t.Medium, "baseline": t.Baseline}
	for name, recs := range tiers {
		if len(recs) == 0 {
			return fmt.Errorf("tier %s is empty", name)
		}
		for i, r := range recs {
			if r == "" {
				return fmt.Errorf("tier %s entry %d is blank", name, i)
			}
		}
	}
	if t.Multisig == "" {
		return fmt.Errorf("multisig addendum is blank")
	}
	return nil
}

// Compose returns a fresh recommendation list for the tier, with the
// multisig addendum appended last when requested. Unknown domains yield an
// empty list.
func (c Catalog) Compose(domain models.Domain, tier models.RiskTier, multisig bool) []string {
	t := c[domain]

	var base []string
	switch tier {
	case models.RiskCritical, models.RiskHigh:
		base = t.Elevated
	case models.RiskMedium:
		base = t.Medium
	default:
		base = t.Baseline
	}

	out := make([]string, 0, len(base)+1)
	out = append(out, base...)
	if multisig && t.Multisig != "" {
		out = append(out, t.Multisig)
	}
	return out
}
