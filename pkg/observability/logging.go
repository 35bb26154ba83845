package observability

import (
	"context"
	"log/slog"

	"github.com/aretw0/rewind/pkg/domain"
)

// LogHooks returns lifecycle hooks that write every store event to logger.
// Dispatches and travels are logged at Debug, rejections at Warn.
func LogHooks(logger *slog.Logger) domain.LifecycleHooks {
	return domain.LifecycleHooks{
		OnDispatch: func(ctx context.Context, e *domain.DispatchEvent) {
			logger.DebugContext(ctx, "Dispatch", "store_id", e.StoreID, "action", e.Action.Type, "head", e.Head, "len", e.Len)
		},
		OnTravel: func(ctx context.Context, e *domain.TravelEvent) {
			logger.DebugContext(ctx, "Travel", "store_id", e.StoreID, "kind", domain.Kind(e.Action.Type), "from", e.FromHead, "to", e.ToHead, "message", e.Message)
		},
		OnReject: func(ctx context.Context, e *domain.RejectEvent) {
			logger.WarnContext(ctx, "Rejected", "store_id", e.StoreID, "action", e.Action.Type, "err", e.Err)
		},
	}
}
