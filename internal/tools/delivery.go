package tools

import (
	"context"

	"github.com/project-synapse/synapse/internal/engine"
)

// GrabExpress parcel delivery operations.

func (s *Simulator) ContactRecipientViaChat(_ context.Context, params map[string]any) engine.Observation {
	const tool = "contact_recipient_via_chat"
	recipientID := strParam(params, "recipient_id")
	message := strParam(params, "message")
	if recipientID == "" || message == "" {
		return s.invalid(tool, "recipient_id and message required")
	}
	channel := strParam(params, "channel")
	if channel == "" {
		channel = "app"
	}
	responded := s.chance(0.75)
	fields := map[string]any{
		"recipient_id":       recipientID,
		"channel":            channel,
		"contact_successful": responded,
	}
	if !responded {
		return s.fail(tool, "NO_RESPONSE", "recipient did not respond to chat", fields)
	}
	fields["response"] = map[string]any{"text": "Please leave at guard", "responded": true}
	return s.ok(tool, fields)
}

func (s *Simulator) SuggestSafeDropOff(_ context.Context, params map[string]any) engine.Observation {
	const tool = "suggest_safe_drop_off"
	options, ok := listParam(params, "options")
	if !ok || len(options) == 0 {
		return s.invalid(tool, "options list required")
	}
	available := s.chance(0.7)
	fields := map[string]any{
		"safe_option_available": available,
		"all_options":           options,
	}
	if !available {
		return s.ok(tool, fields)
	}
	fields["selected_option"] = options[s.intn(len(options))]
	return s.ok(tool, fields)
}

func (s *Simulator) FindNearbyLocker(_ context.Context, params map[string]any) engine.Observation {
	const tool = "find_nearby_locker"
	_, latOK := floatParam(params, "lat")
	_, lngOK := floatParam(params, "lng")
	if !latOK || !lngOK {
		return s.invalid(tool, "lat and lng required and numeric")
	}
	radius := 2000
	if r, ok := floatParam(params, "radius_m"); ok && r > 0 {
		radius = int(r)
	}
	// Generated distances start at 100m; smaller radii would underflow the
	// random range.
	if radius < 100 {
		radius = 100
	}

	lockers := []any{
		map[string]any{"id": genID("L"), "location": "Mall Entrance", "available": s.chance(0.8), "distance_m": 100 + s.intn(radius-99)},
		map[string]any{"id": genID("L"), "location": "Gas Station", "available": s.chance(0.5), "distance_m": 100 + s.intn(radius-99)},
	}
	var selected any
	found := false
	for _, l := range lockers {
		if l.(map[string]any)["available"].(bool) {
			selected = l
			found = true
			break
		}
	}
	fields := map[string]any{
		"lockers":       lockers,
		"lockers_found": found,
	}
	if found {
		fields["selected"] = selected
	}
	return s.ok(tool, fields)
}

func (s *Simulator) ScheduleRedelivery(_ context.Context, params map[string]any) engine.Observation {
	const tool = "schedule_redelivery"
	orderID := strParam(params, "order_id")
	windows, ok := listParam(params, "windows")
	if orderID == "" || !ok || len(windows) == 0 {
		return s.invalid(tool, "order_id and windows required")
	}
	scheduled := s.chance(0.85)
	fields := map[string]any{
		"order_id":  orderID,
		"scheduled": scheduled,
	}
	if scheduled {
		fields["window"] = windows[s.intn(len(windows))]
	}
	return s.ok(tool, fields)
}

// VerifyAddressWithCustomer has three outcomes: the address is confirmed,
// the customer supplies a corrected address, or the customer cannot
// confirm anything.
func (s *Simulator) VerifyAddressWithCustomer(_ context.Context, params map[string]any) engine.Observation {
	const tool = "verify_address_with_customer"
	customerID := strParam(params, "customer_id")
	provided, ok := mapParam(params, "provided_address")
	if customerID == "" || !ok {
		return s.invalid(tool, "customer_id and provided_address required")
	}

	fields := map[string]any{
		"customer_id":      customerID,
		"provided_address": provided,
	}
	switch r := s.float(); {
	case r < 0.6:
		fields["address_confirmed"] = true
	case r < 0.8:
		// Customer corrects the address; the line1 amendment mirrors the
		// common "missing unit number" case.
		corrected := make(map[string]any, len(provided))
		for k, v := range provided {
			corrected[k] = v
		}
		line1, _ := corrected["line1"].(string)
		corrected["line1"] = line1 + " Apt 2"
		fields["address_confirmed"] = true
		fields["corrected_address"] = corrected
	default:
		fields["address_confirmed"] = false
	}
	return s.ok(tool, fields)
}

func (s *Simulator) ContactSender(_ context.Context, params map[string]any) engine.Observation {
	const tool = "contact_sender"
	senderID := strParam(params, "sender_id")
	message := strParam(params, "message")
	if senderID == "" || message == "" {
		return s.invalid(tool, "sender_id and message required")
	}
	ack := s.chance(0.9)
	fields := map[string]any{
		"sender_id":    senderID,
		"acknowledged": ack,
	}
	if !ack {
		return s.fail(tool, "NO_RESPONSE", "sender did not acknowledge", fields)
	}
	return s.ok(tool, fields)
}

func (s *Simulator) NotifyCustomer(_ context.Context, params map[string]any) engine.Observation {
	const tool = "notify_customer"
	customerID := strParam(params, "customer_id")
	message := strParam(params, "message")
	if customerID == "" || message == "" {
		return s.invalid(tool, "customer_id and message required")
	}
	channel := strParam(params, "channel")
	if channel == "" {
		channel = "app"
	}
	delivered := s.chance(0.95)
	fields := map[string]any{
		"customer_id": customerID,
		"channel":     channel,
		"delivered":   delivered,
		"message_id":  genID("msg"),
	}
	if !delivered {
		return s.fail(tool, "DELIVERY_FAILED", "notification could not be delivered", fields)
	}
	return s.ok(tool, fields)
}
