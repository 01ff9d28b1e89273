package tools

import (
	"context"

	"github.com/project-synapse/synapse/internal/engine"
)

// Driver and booking operations shared across verticals.

func (s *Simulator) GetDriverStatus(_ context.Context, params map[string]any) engine.Observation {
	const tool = "get_driver_status"
	driverID := strParam(params, "driver_id")
	if driverID == "" {
		return s.invalid(tool, "driver_id required")
	}
	return s.ok(tool, map[string]any{
		"driver_id": driverID,
		"state":     s.pickStr("idle", "on_trip", "arrived"),
		"location": map[string]any{
			"lat": 1.35 + s.float()*0.01,
			"lng": 103.8 + s.float()*0.01,
		},
	})
}

func (s *Simulator) ReRouteDriver(_ context.Context, params map[string]any) engine.Observation {
	const tool = "re_route_driver"
	driverID := strParam(params, "driver_id")
	newRoute, ok := mapParam(params, "new_route")
	if !ok {
		// Accept a plain task description and wrap it like a route.
		if desc := strParam(params, "new_task_description", "description"); desc != "" {
			newRoute = map[string]any{"description": desc}
			ok = true
		}
	}
	if driverID == "" || !ok {
		return s.invalid(tool, "driver_id and new_route required")
	}
	return s.ok(tool, map[string]any{
		"driver_id":   driverID,
		"new_route":   newRoute,
		"status_text": "rerouted",
	})
}

func (s *Simulator) CancelBooking(_ context.Context, params map[string]any) engine.Observation {
	const tool = "cancel_booking"
	bookingID := strParam(params, "booking_id")
	reason := strParam(params, "reason")
	if bookingID == "" || reason == "" {
		return s.invalid(tool, "booking_id and reason required")
	}
	cancelled := s.chance(0.95)
	fields := map[string]any{
		"booking_id": bookingID,
		"cancelled":  cancelled,
		"reason":     reason,
	}
	if !cancelled {
		return s.fail(tool, "CANCEL_FAILED", "Cancellation failed - booking may be too advanced", fields)
	}
	fields["cancellation_id"] = genID("cancel")
	fields["refund_processed"] = true
	return s.ok(tool, fields)
}

func (s *Simulator) FindReplacementDriver(_ context.Context, params map[string]any) engine.Observation {
	const tool = "find_replacement_driver"
	bookingID := strParam(params, "booking_id")
	location, ok := mapParam(params, "location")
	if bookingID == "" || !ok {
		return s.invalid(tool, "booking_id and location required")
	}
	found := s.chance(0.7)
	fields := map[string]any{
		"booking_id":   bookingID,
		"driver_found": found,
	}
	if !found {
		fields["suggested_wait_time"] = s.pickInt(15, 20, 30)
		return s.fail(tool, "NO_DRIVERS", "No available drivers in the area", fields)
	}
	lat, _ := location["lat"].(float64)
	lng, _ := location["lng"].(float64)
	if lat == 0 {
		lat = 1.35
	}
	if lng == 0 {
		lng = 103.8
	}
	fields["replacement_driver_id"] = genID("driver")
	fields["eta_minutes"] = s.pickInt(5, 10, 15, 20)
	fields["driver_location"] = map[string]any{
		"lat": lat + s.float()*0.01,
		"lng": lng + s.float()*0.01,
	}
	return s.ok(tool, fields)
}

func (s *Simulator) ContactSupportLive(_ context.Context, params map[string]any) engine.Observation {
	const tool = "contact_support_live"
	issue, ok := mapParam(params, "issue")
	if !ok || issue == nil {
		return s.invalid(tool, "issue required")
	}
	priority := strParam(params, "priority")
	if priority == "" {
		priority = "high"
	}
	return s.ok(tool, map[string]any{
		"ticket_id":   genID("TKT"),
		"assigned_to": "support_agent_1",
		"escalated":   true,
		"priority":    priority,
	})
}
