package tools

import (
	"context"

	"github.com/project-synapse/synapse/internal/engine"
)

// GrabCar trip and routing operations.

// CheckTraffic grades the route's incident level. "major" and above mark
// the route blocked; "severe" and "hazardous" indicate safety concerns on
// top of the delay.
func (s *Simulator) CheckTraffic(_ context.Context, params map[string]any) engine.Observation {
	const tool = "check_traffic"
	routeID := strParam(params, "route_id", "route")
	if routeID == "" {
		return s.invalid(tool, "route_id required")
	}
	level := s.pickStr("none", "minor", "major", "severe", "hazardous")
	blocked := level != "none" && level != "minor"
	delay := 0
	if level != "none" {
		delay = 5 + s.intn(41)
	}
	fields := map[string]any{
		"route_id":       routeID,
		"incident_level": level,
		"blocked":        blocked,
		"delay_mins":     delay,
	}
	if blocked {
		fields["details"] = map[string]any{"location": "Junction X", "incident_type": "accident"}
	}
	return s.ok(tool, fields)
}

func (s *Simulator) CalculateAlternativeRoute(_ context.Context, params map[string]any) engine.Observation {
	const tool = "calculate_alternative_route"
	routeID := strParam(params, "route_id", "route")
	if routeID == "" {
		return s.invalid(tool, "route_id required")
	}
	found := s.chance(0.85)
	fields := map[string]any{
		"route_id":          routeID,
		"alternative_found": found,
	}
	if found {
		alternatives := make([]any, 0, 2)
		for i := 0; i < 2; i++ {
			alternatives = append(alternatives, map[string]any{
				"route_id":       genID("R"),
				"eta_delta_mins": s.pickInt(5, 10, 20),
				"distance_m":     s.pickInt(2000, 5000, 12000),
			})
		}
		fields["alternatives"] = alternatives
	}
	return s.ok(tool, fields)
}

func (s *Simulator) NotifyPassengerAndDriver(_ context.Context, params map[string]any) engine.Observation {
	const tool = "notify_passenger_and_driver"
	tripID := strParam(params, "trip_id")
	message := strParam(params, "message")
	if tripID == "" || message == "" {
		return s.invalid(tool, "trip_id and message required")
	}
	passengerAck := s.chance(0.9)
	driverAck := s.chance(0.95)
	fields := map[string]any{
		"trip_id":       tripID,
		"passenger_ack": passengerAck,
		"driver_ack":    driverAck,
	}
	if !passengerAck || !driverAck {
		return s.fail(tool, "ACK_MISSING", "one or both parties did not acknowledge", fields)
	}
	return s.ok(tool, fields)
}

func (s *Simulator) CheckFlightStatus(_ context.Context, params map[string]any) engine.Observation {
	const tool = "check_flight_status"
	flight := strParam(params, "flight_number")
	if flight == "" {
		return s.invalid(tool, "flight_number required")
	}
	return s.ok(tool, map[string]any{
		"flight_number":       flight,
		"scheduled_departure": s.nowISO(),
		"status_text":         s.pickStr("on-time", "delayed", "cancelled"),
	})
}

func (s *Simulator) RerouteDriverToSafeLocation(_ context.Context, params map[string]any) engine.Observation {
	const tool = "reroute_driver_to_safe_location"
	driverID := strParam(params, "driver_id")
	location, ok := mapParam(params, "location")
	if driverID == "" || !ok {
		return s.invalid(tool, "driver_id and location required")
	}
	rerouted := s.chance(0.9)
	fields := map[string]any{
		"driver_id":    driverID,
		"new_location": location,
		"rerouted":     rerouted,
	}
	if !rerouted {
		return s.fail(tool, "REROUTE_FAILED", "driver could not reach the safe location", fields)
	}
	return s.ok(tool, fields)
}

func (s *Simulator) LocateTripPath(_ context.Context, params map[string]any) engine.Observation {
	const tool = "locate_trip_path"
	tripID := strParam(params, "trip_id")
	if tripID == "" {
		return s.invalid(tool, "trip_id required")
	}
	found := s.chance(0.85)
	fields := map[string]any{
		"trip_id":    tripID,
		"trip_found": found,
	}
	if found {
		path := make([]any, 0, 3)
		for i := 0; i < 3; i++ {
			path = append(path, map[string]any{
				"lat": 1.23 + float64(i)*0.001,
				"lng": 103.8 + float64(i)*0.001,
				"ts":  s.nowISO(),
			})
		}
		fields["path"] = path
		fields["last_known"] = path[len(path)-1]
	}
	return s.ok(tool, fields)
}

func (s *Simulator) InitiateLostAndFoundFlow(_ context.Context, params map[string]any) engine.Observation {
	const tool = "initiate_lost_and_found_flow"
	tripID := strParam(params, "trip_id")
	details, ok := mapParam(params, "details")
	if tripID == "" || !ok || details == nil {
		return s.invalid(tool, "trip_id and details required")
	}
	initiated := s.chance(0.9)
	fields := map[string]any{
		"trip_id":        tripID,
		"case_initiated": initiated,
	}
	if initiated {
		fields["case_id"] = genID("LF")
		fields["next_steps"] = []any{"contact_driver", "check_vehicle"}
	}
	return s.ok(tool, fields)
}
