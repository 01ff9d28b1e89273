package tools

import (
	"context"

	"github.com/project-synapse/synapse/internal/engine"
)

// Damage dispute operations: evidence gathering, fault analysis and
// driver exoneration.

func (s *Simulator) CollectEvidence(_ context.Context, params map[string]any) engine.Observation {
	const tool = "collect_evidence"
	orderID := strParam(params, "order_id")
	if orderID == "" {
		return s.invalid(tool, "order_id required")
	}
	askPhotos := true
	if v, ok := params["ask_photos"].(bool); ok {
		askPhotos = v
	}
	collected := s.chance(0.9)
	fields := map[string]any{
		"order_id":           orderID,
		"evidence_collected": collected,
		"requests_sent":      map[string]any{"customer": askPhotos, "driver": askPhotos},
	}
	if collected {
		fields["evidence_id"] = genID("e")
	}
	return s.ok(tool, fields)
}

// AnalyzeEvidence attributes fault with a confidence score. Merchant
// fault dominates the distribution, matching observed dispute outcomes.
func (s *Simulator) AnalyzeEvidence(_ context.Context, params map[string]any) engine.Observation {
	const tool = "analyze_evidence"
	evidenceID := strParam(params, "evidence_id")
	if evidenceID == "" {
		return s.invalid(tool, "evidence_id required")
	}

	var fault string
	var confidence float64
	switch r := s.float(); {
	case r < 0.60:
		fault = "merchant"
		confidence = round2(0.6 + s.float()*0.35)
	case r < 0.85:
		fault = "driver"
		confidence = round2(0.5 + s.float()*0.45)
	default:
		fault = "unknown"
		confidence = round2(0.3 + s.float()*0.3)
	}
	return s.ok(tool, map[string]any{
		"evidence_id": evidenceID,
		"fault":       fault,
		"confidence":  confidence,
		"explanation": "Evidence analysis based on image metadata and questionnaire.",
	})
}

func (s *Simulator) ExonerateDriver(_ context.Context, params map[string]any) engine.Observation {
	const tool = "exonerate_driver"
	driverID := strParam(params, "driver_id")
	if driverID == "" {
		return s.invalid(tool, "driver_id required")
	}
	note := strParam(params, "reason")
	if note == "" {
		note = "Exonerated by coordinator decision"
	}
	return s.ok(tool, map[string]any{
		"driver_id":  driverID,
		"order_id":   strParam(params, "order_id"),
		"exonerated": true,
		"note":       note,
	})
}
