package verification

import "txguard/internal/verification/models"

// DetectorPolicy selects detectors for one action. Always detectors come
// first in declaration order; multisig is appended when MultisigFlag is set
// in the record.
type DetectorPolicy struct {
	Always       []models.DetectorID
	MultisigFlag string
}

// Select returns a fresh, possibly empty, detector list. An empty list is
// still sent to the engine.
func (p DetectorPolicy) Select(rec models.Record) ([]models.DetectorID, error) {
	out := make([]models.DetectorID, 0, len(p.Always)+1)
	out = append(out, p.Always...)

	multisig, err := rec.Flag(p.MultisigFlag)
	if err != nil {
		return nil, err
	}
	if multisig {
		out = append(out, models.DetectorMultisig)
	}
	return out, nil
}
