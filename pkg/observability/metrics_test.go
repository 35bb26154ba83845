package observability_test

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"testing"

	"github.com/aretw0/rewind/internal/demo"
	"github.com/aretw0/rewind/pkg/domain"
	"github.com/aretw0/rewind/pkg/observability"
	"github.com/aretw0/rewind/pkg/store"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMetrics_Hooks(t *testing.T) {
	reg := prometheus.NewRegistry()
	m, err := observability.NewMetrics(reg)
	require.NoError(t, err)

	ctx := context.Background()
	s := store.New(demo.Reduce, store.WithID("m1"), store.WithLifecycleHooks(m.Hooks()))

	_, _ = s.Dispatch(ctx, demo.Inc())
	_, _ = s.Commit(ctx, "one")
	_, _ = s.Dispatch(ctx, demo.Inc())
	_, _ = s.Commit(ctx, "two")
	_, _ = s.Goto(ctx, 2)
	_, _ = s.Goto(ctx, 7)
	_, _ = s.Dispatch(ctx, domain.Action{Type: domain.ActionCommit, Payload: 1})

	assert.Equal(t, 2.0, testutil.ToFloat64(m.Actions.WithLabelValues("m1", "passthrough")))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.Actions.WithLabelValues("m1", "commit")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.Actions.WithLabelValues("m1", "goto")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.Rejected.WithLabelValues("m1", "goto", "out_of_range")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.Rejected.WithLabelValues("m1", "commit", "invalid_payload")))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.Head.WithLabelValues("m1")))
	assert.Equal(t, 3.0, testutil.ToFloat64(m.LogLength.WithLabelValues("m1")))
	assert.Equal(t, 1, testutil.CollectAndCount(m.Travel))
}

func TestMetrics_DoubleRegistration(t *testing.T) {
	reg := prometheus.NewRegistry()
	_, err := observability.NewMetrics(reg)
	require.NoError(t, err)

	_, err = observability.NewMetrics(reg)
	assert.Error(t, err)
}

func TestReason(t *testing.T) {
	assert.Equal(t, "out_of_range", observability.Reason(fmt.Errorf("wrap: %w", domain.ErrOutOfRange)))
	assert.Equal(t, "invalid_payload", observability.Reason(domain.ErrInvalidPayload))
	assert.Equal(t, "canceled", observability.Reason(context.Canceled))
	assert.Equal(t, "other", observability.Reason(fmt.Errorf("boom")))
}

func TestLogHooks(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))

	ctx := context.Background()
	s := store.New(demo.Reduce, store.WithLifecycleHooks(observability.LogHooks(logger)))
	_, _ = s.Dispatch(ctx, demo.Inc())
	_, _ = s.Undo(ctx)
	_, _ = s.Goto(ctx, 4)

	out := buf.String()
	assert.Contains(t, out, "msg=Dispatch")
	assert.Contains(t, out, "msg=Travel")
	assert.Contains(t, out, "msg=Rejected")
}
