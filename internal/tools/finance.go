package tools

import (
	"context"
	"fmt"

	"github.com/project-synapse/synapse/internal/authz"
	"github.com/project-synapse/synapse/internal/engine"
)

// Financial operations. Vouchers and refunds above the instant threshold
// come back as APPROVAL_REQUIRED failures so the reflection engine can
// steer the session toward a smaller remedy; the monetary voucher and
// management escalation run the full approval workflow instead.

const instantThreshold = 50.0

func (s *Simulator) IssueVoucher(_ context.Context, params map[string]any) engine.Observation {
	const tool = "issue_voucher"
	customerID := strParam(params, "customer_id")
	amount, ok := floatParam(params, "amount")
	if customerID == "" || !ok {
		return s.invalid(tool, "customer_id and amount required")
	}
	if force, _ := params["require_approval"].(bool); force || amount > instantThreshold {
		return s.fail(tool, "APPROVAL_REQUIRED",
			fmt.Sprintf("Voucher amount %.2f exceeds threshold %.2f", amount, instantThreshold),
			map[string]any{
				"customer_id":       customerID,
				"amount":            amount,
				"requires_approval": true,
			})
	}
	return s.ok(tool, map[string]any{
		"voucher_id":  genID("v"),
		"customer_id": customerID,
		"amount":      amount,
		"currency":    currencyOr(params, "USD"),
		"issued":      true,
		"reason":      strParam(params, "reason"),
	})
}

func (s *Simulator) IssueInstantRefund(_ context.Context, params map[string]any) engine.Observation {
	const tool = "issue_instant_refund"
	orderID := strParam(params, "order_id")
	amount, ok := floatParam(params, "amount")
	if orderID == "" || !ok {
		return s.invalid(tool, "order_id and amount required")
	}
	if force, _ := params["require_approval"].(bool); force || amount > instantThreshold {
		return s.fail(tool, "APPROVAL_REQUIRED",
			fmt.Sprintf("Refund amount %.2f exceeds threshold %.2f", amount, instantThreshold),
			map[string]any{
				"order_id":          orderID,
				"amount":            amount,
				"requires_approval": true,
			})
	}
	return s.ok(tool, map[string]any{
		"refund_id": genID("r"),
		"order_id":  orderID,
		"amount":    amount,
		"currency":  currencyOr(params, "USD"),
		"issued":    true,
		"reason":    strParam(params, "reason"),
	})
}

func (s *Simulator) IssuePartialRefund(_ context.Context, params map[string]any) engine.Observation {
	const tool = "issue_partial_refund"
	orderID := strParam(params, "order_id")
	amount, ok := floatParam(params, "amount")
	if orderID == "" || !ok {
		return s.invalid(tool, "order_id and amount required")
	}
	return s.ok(tool, map[string]any{
		"refund_id": genID("pr"),
		"order_id":  orderID,
		"amount":    amount,
		"currency":  currencyOr(params, "USD"),
	})
}

// IssueMonetaryVoucher runs the approval workflow for arbitrary amounts
// instead of failing above the instant threshold.
func (s *Simulator) IssueMonetaryVoucher(_ context.Context, params map[string]any) engine.Observation {
	const tool = "issue_monetary_voucher"
	customerID := strParam(params, "customer_id")
	reason := strParam(params, "reason")
	if customerID == "" || reason == "" {
		return s.invalid(tool, "customer_id and reason required")
	}
	amount, ok := floatParam(params, "amount")
	if !ok || amount <= 0 {
		return s.fail(tool, "INVALID_AMOUNT", "Amount must be positive", nil)
	}
	if amount > 1000 {
		return s.fail(tool, "AMOUNT_TOO_HIGH", "Maximum voucher amount is $1000", nil)
	}

	req := s.auth.RequestApproval(tool, fmt.Sprintf("Issue $%.2f voucher to customer %s: %s", amount, customerID, reason),
		amount, map[string]any{"customer_id": customerID, "voucher_type": "monetary"}, "medium")
	req = s.resolveApproval(req)

	fields := map[string]any{
		"customer_id":         customerID,
		"reason":              reason,
		"approval_id":         req.ID,
		"approval_status":     string(req.Status),
		"authorization_level": string(req.Level),
	}
	if req.Status != authz.StatusApproved && req.Status != authz.StatusEmergencyOverride {
		fields["voucher_issued"] = false
		fields["requested_amount"] = amount
		return s.fail(tool, "APPROVAL_DENIED", req.RejectionReason, fields)
	}
	fields["voucher_id"] = genID("voucher")
	fields["amount"] = amount
	fields["voucher_issued"] = true
	fields["expiry_date"] = s.now().AddDate(0, 0, 30).Format("2006-01-02")
	if len(req.Conditions) > 0 {
		fields["conditions"] = req.Conditions
	}
	return s.ok(tool, fields)
}

func (s *Simulator) EscalateToManagement(_ context.Context, params map[string]any) engine.Observation {
	const tool = "escalate_to_management"
	issueType := strParam(params, "issue_type")
	description := strParam(params, "description")
	if issueType == "" || description == "" {
		return s.invalid(tool, "issue_type and description required")
	}
	urgency := strParam(params, "urgency")
	switch urgency {
	case "low", "medium", "high", "critical":
	default:
		urgency = "medium"
	}
	cost, _ := floatParam(params, "estimated_cost")

	req := s.auth.RequestApproval(tool, "Management escalation: "+issueType+": "+description,
		cost, map[string]any{"issue_type": issueType, "urgency": urgency}, urgency)
	req = s.resolveApproval(req)

	fields := map[string]any{
		"issue_type":          issueType,
		"urgency":             urgency,
		"approval_id":         req.ID,
		"approval_status":     string(req.Status),
		"authorization_level": string(req.Level),
	}
	if req.Status != authz.StatusApproved && req.Status != authz.StatusEmergencyOverride {
		fields["escalated"] = false
		return s.fail(tool, "APPROVAL_DENIED", req.RejectionReason, fields)
	}
	fields["escalation_id"] = genID("escalation")
	fields["escalated"] = true
	fields["assigned_to"] = "manager_" + s.pickStr("ops", "customer", "logistics")
	fields["estimated_resolution_time"] = fmt.Sprintf("%d hours", s.pickInt(2, 4, 8, 24))
	return s.ok(tool, fields)
}

// resolveApproval drives a pending request to a decision, taking the
// emergency override path when the situation qualifies.
func (s *Simulator) resolveApproval(req *authz.Request) *authz.Request {
	if req.Status != authz.StatusPending {
		return req
	}
	if s.auth.OverrideAvailable(req) {
		return s.auth.ApplyOverride(req, "time-critical logistics disruption")
	}
	return s.auth.SimulateDecision(req)
}

func currencyOr(params map[string]any, fallback string) string {
	if c := strParam(params, "currency"); c != "" {
		return c
	}
	return fallback
}
