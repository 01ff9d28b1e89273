package tools

import (
	"context"
	"time"

	"github.com/project-synapse/synapse/internal/engine"
)

// GrabFood / GrabMart merchant operations.

func (s *Simulator) GetMerchantStatus(_ context.Context, params map[string]any) engine.Observation {
	const tool = "get_merchant_status"
	merchantID := strParam(params, "merchant_id")
	if merchantID == "" {
		return s.invalid(tool, "merchant_id required")
	}
	prep := s.pickInt(15, 20, 25, 30, 40)
	stock := map[string]any{
		"pizza":  s.chance(0.9),
		"burger": s.chance(0.7),
		"soda":   true,
	}
	return s.ok(tool, map[string]any{
		"merchant_id":        merchantID,
		"prep_time_mins":     prep,
		"open":               prep < 35,
		"estimated_ready_at": s.nowISO(),
		"stock":              stock,
	})
}

func (s *Simulator) GetNearbyMerchants(_ context.Context, params map[string]any) engine.Observation {
	const tool = "get_nearby_merchants"
	lat, latOK := floatParam(params, "lat")
	lng, lngOK := floatParam(params, "lng")
	if !latOK || !lngOK {
		return s.invalid(tool, "lat and lng required and must be numeric")
	}
	radius := 1000
	if r, ok := floatParam(params, "radius_m"); ok && r > 0 {
		radius = int(r)
	}
	// Generated distances start at 50m; smaller radii would underflow the
	// random range.
	if radius < 50 {
		radius = 50
	}

	names := []string{"Pizza Palace", "Burger Bros", "Noodle House", "Coffee Corner", "Sushi Spot"}
	merchants := make([]any, 0, 3)
	for i := 0; i < 3; i++ {
		merchants = append(merchants, map[string]any{
			"id":             genID("M"),
			"name":           names[s.intn(len(names))],
			"prep_time_mins": s.pickInt(10, 15, 20, 25),
			"rating":         round2(3.5 + s.float()*1.5),
			"distance_m":     50 + s.intn(radius-49),
		})
	}
	return s.ok(tool, map[string]any{
		"merchants": merchants,
		"query":     map[string]any{"lat": lat, "lng": lng, "radius_m": radius},
	})
}

func (s *Simulator) ContactMerchant(_ context.Context, params map[string]any) engine.Observation {
	const tool = "contact_merchant"
	merchantID := strParam(params, "merchant_id")
	message := strParam(params, "message")
	if merchantID == "" || message == "" {
		return s.invalid(tool, "merchant_id and message required")
	}
	available := s.chance(0.9)
	fields := map[string]any{
		"merchant_id":        merchantID,
		"merchant_available": available,
		"acknowledged":       available,
	}
	if !available {
		return s.fail(tool, "NO_RESPONSE", "merchant did not respond", fields)
	}
	fields["response"] = "Acknowledged"
	return s.ok(tool, fields)
}

func (s *Simulator) ProposeSubstitute(_ context.Context, params map[string]any) engine.Observation {
	const tool = "propose_substitute"
	orderID := strParam(params, "order_id")
	items, ok := listParam(params, "substitute_items")
	if orderID == "" || !ok {
		return s.invalid(tool, "order_id and substitute_items required")
	}
	return s.ok(tool, map[string]any{
		"order_id":               orderID,
		"substitutes":            items,
		"requested_confirmation": true,
	})
}

func (s *Simulator) HoldOrderWithMerchant(_ context.Context, params map[string]any) engine.Observation {
	const tool = "hold_order_with_merchant"
	orderID := strParam(params, "order_id")
	merchantID := strParam(params, "merchant_id")
	if orderID == "" || merchantID == "" {
		return s.invalid(tool, "order_id and merchant_id required")
	}
	holdMinutes := 15
	if v, ok := floatParam(params, "hold_minutes"); ok && v > 0 {
		holdMinutes = int(v)
	}
	if !s.chance(0.9) {
		return s.fail(tool, "MERCHANT_REJECTED", "merchant refused to hold order", map[string]any{
			"order_id":    orderID,
			"merchant_id": merchantID,
		})
	}
	heldUntil := s.now().UTC().Add(time.Duration(holdMinutes) * time.Minute).Truncate(time.Second).Format(time.RFC3339)
	return s.ok(tool, map[string]any{
		"order_id":    orderID,
		"merchant_id": merchantID,
		"held_until":  heldUntil,
	})
}

func (s *Simulator) LogMerchantPackagingFeedback(_ context.Context, params map[string]any) engine.Observation {
	const tool = "log_merchant_packaging_feedback"
	merchantID := strParam(params, "merchant_id")
	feedback, ok := mapParam(params, "feedback")
	if merchantID == "" || !ok || feedback == nil {
		return s.invalid(tool, "merchant_id and feedback required")
	}
	return s.ok(tool, map[string]any{
		"merchant_id":  merchantID,
		"logged":       true,
		"feedback_ref": genID("fb"),
	})
}
