package tools

import "github.com/project-synapse/synapse/internal/engine"

// DefaultEscalations is the failure-recovery ladder for the tool catalog.
// Each trigger tool maps to ordered rules; the first matching rule names
// the next tool to try. Chains end at contact_support_live or at a tool
// with no entry, where the generic failure handling takes over.
func DefaultEscalations() engine.EscalationTable {
	return engine.EscalationTable{
		// Unreachable recipient chain: chat -> safe drop-off -> locker ->
		// redelivery -> sender.
		"contact_recipient_via_chat": {{
			Reason:      "Recipient contact failed - need alternative delivery approach",
			Alternative: "suggest_safe_drop_off",
			When:        engine.FieldIsFalse("contact_successful"),
		}},
		"suggest_safe_drop_off": {{
			Reason:      "Safe drop-off not available - try locker option",
			Alternative: "find_nearby_locker",
			When:        engine.FieldIsFalse("safe_option_available"),
		}},
		"find_nearby_locker": {{
			Reason:      "No lockers available - escalate to redelivery",
			Alternative: "schedule_redelivery",
			When:        engine.FieldIsFalse("lockers_found"),
		}},
		"schedule_redelivery": {{
			Reason:      "Redelivery scheduling failed - contact sender",
			Alternative: "contact_sender",
			When:        engine.FieldIsFalse("scheduled"),
		}},

		// Merchant chain.
		"contact_merchant": {{
			Reason:      "Merchant unavailable - try direct stock check",
			Alternative: "get_merchant_status",
			When:        engine.FieldIsFalse("merchant_available"),
		}},
		"get_merchant_status": {{
			Reason:      "Merchant is closed - find alternative merchant",
			Alternative: "get_nearby_merchants",
			When:        engine.FieldIsFalse("open"),
		}},

		// Dispute chain.
		"collect_evidence": {{
			Reason:      "Evidence collection failed - proceed with customer satisfaction approach",
			Alternative: "issue_instant_refund",
			When:        engine.FieldIsFalse("evidence_collected"),
		}},
		"analyze_evidence": {{
			Reason:      "Evidence analysis has low confidence - proceed with goodwill approach",
			Alternative: "issue_partial_refund",
			When:        engine.FieldBelow("confidence", 0.5),
		}},
		"issue_instant_refund": {{
			Reason:      "Refund requires approval - try partial refund instead",
			Alternative: "issue_partial_refund",
			When:        engine.FieldPresent("requires_approval"),
		}},

		// Notification failures flag adaptation without a fixed next tool.
		"notify_customer": {{
			Reason: "Customer notification failed - try alternative communication",
			When:   engine.FieldIsFalse("delivered"),
		}},

		// Driver incident chain.
		"get_driver_status": {{
			Reason:      "Driver is idle and unresponsive - need to notify customer and find replacement",
			Alternative: "notify_customer",
			When:        engine.FieldEquals("state", "idle"),
		}},
		"find_replacement_driver": {{
			Reason:      "No replacement driver available - cancel booking and issue refund",
			Alternative: "cancel_booking",
			When:        engine.FieldIsFalse("driver_found"),
		}},
		"cancel_booking": {{
			Reason:      "Booking cancellation failed - escalate to support",
			Alternative: "contact_support_live",
			When:        engine.FieldIsFalse("cancelled"),
		}},

		// Traffic and safety. Hazardous conditions take the safety route;
		// severe ones reroute the driver; major obstructions get an
		// alternative route computed first.
		"check_traffic": {
			{
				Reason:      "Hazardous road conditions detected - prioritize safety with immediate rerouting",
				Alternative: "reroute_driver_to_safe_location",
				When:        engine.FieldEquals("incident_level", "hazardous"),
			},
			{
				Reason:      "Severe traffic detected - need alternative routing",
				Alternative: "re_route_driver",
				When:        engine.FieldEquals("incident_level", "severe"),
			},
			{
				Reason:      "Major traffic obstruction detected - need immediate alternative routing",
				Alternative: "calculate_alternative_route",
				When:        engine.FieldEquals("incident_level", "major"),
			},
		},
		"reroute_driver_to_safe_location": {{
			Reason:      "Safe rerouting failed - notify all parties and escalate",
			Alternative: "notify_passenger_and_driver",
			When:        engine.FieldIsFalse("rerouted"),
		}},
		"notify_passenger_and_driver": {
			{
				Reason:      "Communication failed during safety incident - escalate immediately",
				Alternative: "contact_support_live",
				When:        engine.FieldIsFalse("passenger_ack"),
			},
			{
				Reason:      "Communication failed during safety incident - escalate immediately",
				Alternative: "contact_support_live",
				When:        engine.FieldIsFalse("driver_ack"),
			},
		},
		"calculate_alternative_route": {{
			Reason:      "No alternative route available - notify all parties and consider trip cancellation",
			Alternative: "notify_passenger_and_driver",
			When:        engine.FieldIsFalse("alternative_found"),
		}},

		// Lost and found chain.
		"locate_trip_path": {{
			Reason:      "Trip path could not be located - initiate lost and found process anyway",
			Alternative: "initiate_lost_and_found_flow",
			When:        engine.FieldIsFalse("trip_found"),
		}},
		"initiate_lost_and_found_flow": {{
			Reason:      "Lost and found case failed to initiate - escalate to support",
			Alternative: "contact_support_live",
			When:        engine.FieldIsFalse("case_initiated"),
		}},

		// Address verification: an unconfirmable address goes back to the
		// sender; a corrected one reroutes the driver immediately.
		"verify_address_with_customer": {
			{
				Reason:      "Customer could not confirm correct address - escalate to sender for guidance",
				Alternative: "contact_sender",
				When:        engine.FieldIsFalse("address_confirmed"),
			},
			{
				Reason:      "Customer provided corrected address - need to reroute driver immediately",
				Alternative: "re_route_driver",
				When:        engine.FieldPresent("corrected_address"),
			},
		},
	}
}
