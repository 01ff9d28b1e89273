package tools

import (
	"encoding/json"

	"github.com/project-synapse/synapse/internal/engine"
)

// objSchema renders a flat JSON schema: property name -> type, plus the
// required list. Nested parameter shapes stay unvalidated on purpose; the
// tools themselves tolerate loose input.
func objSchema(props map[string]string, required ...string) string {
	properties := make(map[string]any, len(props))
	for name, typ := range props {
		properties[name] = map[string]any{"type": typ}
	}
	doc := map[string]any{
		"type":       "object",
		"properties": properties,
	}
	if len(required) > 0 {
		doc["required"] = required
	}
	raw, _ := json.Marshal(doc)
	return string(raw)
}

func foodVertical() []string    { return []string{"GrabFood", "GrabMart"} }
func expressVertical() []string { return []string{"GrabExpress"} }
func carVertical() []string     { return []string{"GrabCar"} }
func allVerticals() []string    { return []string{"All"} }

// Registry builds the full tool catalog over one simulator.
func Registry(sim *Simulator) engine.ToolRegistry {
	reg := make(engine.ToolRegistry)
	add := func(name, description, schema string, fn engine.ToolFunc, meta engine.ToolMetadata) {
		reg[name] = engine.Tool{
			Name:        name,
			Description: description,
			SchemaJSON:  schema,
			Fn:          fn,
			Metadata:    meta,
		}
	}

	// Merchant operations (GrabFood / GrabMart).
	add("get_merchant_status",
		"Check a merchant's kitchen load, prep time and stock levels",
		objSchema(map[string]string{"merchant_id": "string"}, "merchant_id"),
		sim.GetMerchantStatus,
		engine.ToolMetadata{Verticals: foodVertical(), Cost: "low"})
	add("get_nearby_merchants",
		"List comparable merchants near a location",
		objSchema(map[string]string{"lat": "number", "lng": "number", "radius_m": "number"}, "lat", "lng"),
		sim.GetNearbyMerchants,
		engine.ToolMetadata{Verticals: foodVertical(), Cost: "low"})
	add("contact_merchant",
		"Send a message to the merchant and wait for acknowledgement",
		objSchema(map[string]string{"merchant_id": "string", "message": "string"}, "merchant_id", "message"),
		sim.ContactMerchant,
		engine.ToolMetadata{Verticals: foodVertical(), Cost: "low"})
	add("propose_substitute",
		"Offer the customer substitute items for unavailable order lines",
		objSchema(map[string]string{"order_id": "string", "substitute_items": "array"}, "order_id", "substitute_items"),
		sim.ProposeSubstitute,
		engine.ToolMetadata{Verticals: foodVertical(), Cost: "low"})
	add("hold_order_with_merchant",
		"Ask the merchant to hold an order for a number of minutes",
		objSchema(map[string]string{"order_id": "string", "merchant_id": "string", "hold_minutes": "number"}, "order_id", "merchant_id"),
		sim.HoldOrderWithMerchant,
		engine.ToolMetadata{Verticals: foodVertical(), Cost: "low"})
	add("log_merchant_packaging_feedback",
		"Record packaging feedback against a merchant for quality follow-up",
		objSchema(map[string]string{"merchant_id": "string", "feedback": "object"}, "merchant_id", "feedback"),
		sim.LogMerchantPackagingFeedback,
		engine.ToolMetadata{Verticals: foodVertical(), Cost: "low"})

	// Parcel delivery operations (GrabExpress).
	add("contact_recipient_via_chat",
		"Reach the parcel recipient over in-app chat",
		objSchema(map[string]string{"recipient_id": "string", "message": "string", "channel": "string"}, "recipient_id", "message"),
		sim.ContactRecipientViaChat,
		engine.ToolMetadata{Verticals: expressVertical(), Cost: "low"})
	add("suggest_safe_drop_off",
		"Evaluate candidate safe drop-off options for an unattended delivery",
		objSchema(map[string]string{"options": "array"}, "options"),
		sim.SuggestSafeDropOff,
		engine.ToolMetadata{Verticals: expressVertical(), Cost: "low"})
	add("find_nearby_locker",
		"Find available parcel lockers near a location",
		objSchema(map[string]string{"lat": "number", "lng": "number", "radius_m": "number"}, "lat", "lng"),
		sim.FindNearbyLocker,
		engine.ToolMetadata{Verticals: expressVertical(), Cost: "low"})
	add("schedule_redelivery",
		"Book a redelivery window for a failed delivery attempt",
		objSchema(map[string]string{"order_id": "string", "windows": "array"}, "order_id", "windows"),
		sim.ScheduleRedelivery,
		engine.ToolMetadata{Verticals: expressVertical(), Cost: "low"})
	add("verify_address_with_customer",
		"Confirm the delivery address with the customer",
		objSchema(map[string]string{"customer_id": "string", "provided_address": "object"}, "customer_id", "provided_address"),
		sim.VerifyAddressWithCustomer,
		engine.ToolMetadata{Verticals: expressVertical(), Cost: "low"})
	add("contact_sender",
		"Reach the parcel sender for delivery guidance",
		objSchema(map[string]string{"sender_id": "string", "message": "string"}, "sender_id", "message"),
		sim.ContactSender,
		engine.ToolMetadata{Verticals: expressVertical(), Cost: "low"})

	// Dispute operations.
	add("collect_evidence",
		"Request damage evidence from the customer and driver",
		objSchema(map[string]string{"order_id": "string", "ask_photos": "boolean"}, "order_id"),
		sim.CollectEvidence,
		engine.ToolMetadata{Verticals: foodVertical(), Cost: "low"})
	add("analyze_evidence",
		"Analyze collected evidence and attribute fault with a confidence score",
		objSchema(map[string]string{"evidence_id": "string"}, "evidence_id"),
		sim.AnalyzeEvidence,
		engine.ToolMetadata{Verticals: foodVertical(), Cost: "medium"})
	add("exonerate_driver",
		"Clear the driver of fault for an incident",
		objSchema(map[string]string{"driver_id": "string", "order_id": "string", "reason": "string"}, "driver_id"),
		sim.ExonerateDriver,
		engine.ToolMetadata{Verticals: allVerticals(), Cost: "low"})

	// Financial operations.
	add("issue_voucher",
		"Issue a goodwill voucher to a customer; larger amounts need approval",
		objSchema(map[string]string{"customer_id": "string", "amount": "number", "currency": "string", "reason": "string"}, "customer_id", "amount"),
		sim.IssueVoucher,
		engine.ToolMetadata{Verticals: foodVertical(), Cost: "low", ApprovalThreshold: instantThreshold})
	add("issue_instant_refund",
		"Refund an order immediately; larger amounts need approval",
		objSchema(map[string]string{"order_id": "string", "amount": "number", "currency": "string", "reason": "string"}, "order_id", "amount"),
		sim.IssueInstantRefund,
		engine.ToolMetadata{Verticals: foodVertical(), Cost: "medium", ApprovalThreshold: instantThreshold})
	add("issue_partial_refund",
		"Refund part of an order's value",
		objSchema(map[string]string{"order_id": "string", "amount": "number", "currency": "string"}, "order_id", "amount"),
		sim.IssuePartialRefund,
		engine.ToolMetadata{Verticals: foodVertical(), Cost: "low"})
	add("issue_monetary_voucher",
		"Issue a monetary voucher through the approval workflow",
		objSchema(map[string]string{"customer_id": "string", "amount": "number", "reason": "string"}, "customer_id", "amount", "reason"),
		sim.IssueMonetaryVoucher,
		engine.ToolMetadata{Verticals: allVerticals(), Cost: "medium", ApprovalThreshold: 10})
	add("escalate_to_management",
		"Escalate a complex issue to management with an estimated cost",
		objSchema(map[string]string{"issue_type": "string", "description": "string", "urgency": "string", "estimated_cost": "number"}, "issue_type", "description"),
		sim.EscalateToManagement,
		engine.ToolMetadata{Verticals: allVerticals(), Cost: "high"})

	// Trip and routing operations (GrabCar).
	add("check_traffic",
		"Grade congestion and incidents on a route",
		objSchema(map[string]string{"route_id": "string"}, "route_id"),
		sim.CheckTraffic,
		engine.ToolMetadata{Verticals: carVertical(), Cost: "low"})
	add("calculate_alternative_route",
		"Compute alternative routes around an obstruction",
		objSchema(map[string]string{"route_id": "string", "constraints": "object"}, "route_id"),
		sim.CalculateAlternativeRoute,
		engine.ToolMetadata{Verticals: carVertical(), Cost: "low"})
	add("notify_passenger_and_driver",
		"Notify both trip parties and collect acknowledgements",
		objSchema(map[string]string{"trip_id": "string", "message": "string"}, "trip_id", "message"),
		sim.NotifyPassengerAndDriver,
		engine.ToolMetadata{Verticals: carVertical(), Cost: "low"})
	add("check_flight_status",
		"Look up a flight's departure status for airport pickups",
		objSchema(map[string]string{"flight_number": "string"}, "flight_number"),
		sim.CheckFlightStatus,
		engine.ToolMetadata{Verticals: carVertical(), Cost: "low"})
	add("reroute_driver_to_safe_location",
		"Move the driver to a safe location away from a hazard",
		objSchema(map[string]string{"driver_id": "string", "location": "object"}, "driver_id", "location"),
		sim.RerouteDriverToSafeLocation,
		engine.ToolMetadata{Verticals: carVertical(), Cost: "low"})
	add("locate_trip_path",
		"Reconstruct a completed trip's path for lost item searches",
		objSchema(map[string]string{"trip_id": "string"}, "trip_id"),
		sim.LocateTripPath,
		engine.ToolMetadata{Verticals: allVerticals(), Cost: "low"})
	add("initiate_lost_and_found_flow",
		"Open a lost and found case for a trip",
		objSchema(map[string]string{"trip_id": "string", "details": "object"}, "trip_id", "details"),
		sim.InitiateLostAndFoundFlow,
		engine.ToolMetadata{Verticals: allVerticals(), Cost: "low"})

	// Driver and booking operations.
	add("get_driver_status",
		"Read the driver's current state and location",
		objSchema(map[string]string{"driver_id": "string"}, "driver_id"),
		sim.GetDriverStatus,
		engine.ToolMetadata{Verticals: allVerticals(), Cost: "low"})
	add("re_route_driver",
		"Assign the driver a new route or task",
		objSchema(map[string]string{"driver_id": "string", "new_route": "object", "new_task_description": "string"}, "driver_id"),
		sim.ReRouteDriver,
		engine.ToolMetadata{Verticals: allVerticals(), Cost: "low"})
	add("cancel_booking",
		"Cancel a booking with a reason and trigger the refund",
		objSchema(map[string]string{"booking_id": "string", "reason": "string"}, "booking_id", "reason"),
		sim.CancelBooking,
		engine.ToolMetadata{Verticals: allVerticals(), Cost: "low"})
	add("find_replacement_driver",
		"Search for a replacement driver near the booking",
		objSchema(map[string]string{"booking_id": "string", "location": "object"}, "booking_id", "location"),
		sim.FindReplacementDriver,
		engine.ToolMetadata{Verticals: allVerticals(), Cost: "medium"})

	// Customer communication and escalation.
	add("notify_customer",
		"Send the customer a status notification",
		objSchema(map[string]string{"customer_id": "string", "message": "string", "channel": "string"}, "customer_id", "message"),
		sim.NotifyCustomer,
		engine.ToolMetadata{Verticals: allVerticals(), Cost: "low"})
	add("contact_support_live",
		"Hand the case to a live human support agent",
		objSchema(map[string]string{"issue": "object", "priority": "string"}, "issue"),
		sim.ContactSupportLive,
		engine.ToolMetadata{Verticals: allVerticals(), Cost: "high"})

	return reg
}
