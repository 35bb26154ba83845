package domain

import (
	"context"
	"time"
)

// EventType defines the category of the event.
type EventType string

const (
	EventDispatch EventType = "dispatch"
	EventTravel   EventType = "travel"
	EventReject   EventType = "reject"
)

// EventBase contains common fields for all events.
type EventBase struct {
	Timestamp time.Time `json:"timestamp"`
	Type      EventType `json:"type"`
	StoreID   string    `json:"store_id"`
}

// DispatchEvent describes an action that was applied to a store.
type DispatchEvent struct {
	EventBase
	Action Action `json:"action"`
	Head   int    `json:"head"`
	Len    int    `json:"len"`
}

// TravelEvent describes a head movement caused by undo, redo or goto.
type TravelEvent struct {
	EventBase
	Action   Action `json:"action"`
	FromHead int    `json:"from_head"`
	ToHead   int    `json:"to_head"`
	Message  string `json:"message"`
}

// RejectEvent describes an action that could not be applied.
// The store state is unchanged when this fires.
type RejectEvent struct {
	EventBase
	Action Action `json:"action"`
	Err    error  `json:"-"`
}

// LifecycleHooks defines callbacks for store observability.
type LifecycleHooks struct {
	OnDispatch func(context.Context, *DispatchEvent)
	OnTravel   func(context.Context, *TravelEvent)
	OnReject   func(context.Context, *RejectEvent)
}

// MergeHooks returns hooks that call every non-nil callback of each input in order.
func MergeHooks(hooks ...LifecycleHooks) LifecycleHooks {
	var merged LifecycleHooks
	for _, h := range hooks {
		h := h
		if h.OnDispatch != nil {
			prev := merged.OnDispatch
			merged.OnDispatch = func(ctx context.Context, e *DispatchEvent) {
				if prev != nil {
					prev(ctx, e)
				}
				h.OnDispatch(ctx, e)
			}
		}
		if h.OnTravel != nil {
			prev := merged.OnTravel
			merged.OnTravel = func(ctx context.Context, e *TravelEvent) {
				if prev != nil {
					prev(ctx, e)
				}
				h.OnTravel(ctx, e)
			}
		}
		if h.OnReject != nil {
			prev := merged.OnReject
			merged.OnReject = func(ctx context.Context, e *RejectEvent) {
				if prev != nil {
					prev(ctx, e)
				}
				h.OnReject(ctx, e)
			}
		}
	}
	return merged
}
