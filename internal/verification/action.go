package verification

import "txguard/internal/verification/models"

// Action binds one domain action to its field map, detector policy and
// addendum flag. The escrow and voting packages declare one per entry point.
type Action struct {
	Type      models.ActionType
	Domain    models.Domain
	Fields    FieldMap
	Detectors DetectorPolicy

	// AddendumFlag is the record flag that appends the multisig
	// recommendation. It is not always the flag that selects the multisig
	// detector: proposal creation selects on is_multisig_governance but
	// appends on is_multisig.
	AddendumFlag string
}
