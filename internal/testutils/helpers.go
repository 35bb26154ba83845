package testutils

import (
	"context"
	"sync"

	"github.com/aretw0/rewind/pkg/domain"
)

// HookRecorder collects store events for assertions. Safe for concurrent use.
type HookRecorder struct {
	mu         sync.Mutex
	dispatches []domain.DispatchEvent
	travels    []domain.TravelEvent
	rejects    []domain.RejectEvent
}

// Hooks returns lifecycle hooks feeding the recorder.
func (r *HookRecorder) Hooks() domain.LifecycleHooks {
	return domain.LifecycleHooks{
		OnDispatch: func(_ context.Context, e *domain.DispatchEvent) {
			r.mu.Lock()
			defer r.mu.Unlock()
			r.dispatches = append(r.dispatches, *e)
		},
		OnTravel: func(_ context.Context, e *domain.TravelEvent) {
			r.mu.Lock()
			defer r.mu.Unlock()
			r.travels = append(r.travels, *e)
		},
		OnReject: func(_ context.Context, e *domain.RejectEvent) {
			r.mu.Lock()
			defer r.mu.Unlock()
			r.rejects = append(r.rejects, *e)
		},
	}
}

// Dispatches returns a copy of the recorded dispatch events.
func (r *HookRecorder) Dispatches() []domain.DispatchEvent {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]domain.DispatchEvent(nil), r.dispatches...)
}

// Travels returns a copy of the recorded travel events.
func (r *HookRecorder) Travels() []domain.TravelEvent {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]domain.TravelEvent(nil), r.travels...)
}

// Rejects returns a copy of the recorded reject events.
func (r *HookRecorder) Rejects() []domain.RejectEvent {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]domain.RejectEvent(nil), r.rejects...)
}
