// Package events defines the observability records shipped by trancepoint.
//
// A trace is the sequence of events emitted for one agent execution. Every
// event in a trace shares the same TraceID:
//
//	START (status running) → END (status success)
//	START (status running) → ERROR (status error)
//
// Events are plain values. They are created with NewStart, NewEnd and NewError,
// checked with Validate and encoded with Marshal or wrapped into a Batch for
// transport.
//
// Wire format:
//
//	{
//	  "event_id": "evt_0190b6c1-...",
//	  "trace_id": "tr_0190b6c1-...",
//	  "event_type": "end",
//	  "status": "success",
//	  "agent_name": "research_agent",
//	  "timestamp_ms": 1703352002500,
//	  "output_text": "{\"result\": \"success\"}",
//	  "duration_ms": 2500
//	}
package events
