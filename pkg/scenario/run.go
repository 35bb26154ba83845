package scenario

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"reflect"

	"github.com/aretw0/rewind/pkg/domain"
	"github.com/aretw0/rewind/pkg/enhancer"
	"github.com/aretw0/rewind/pkg/store"
)

// StepResult records the outcome of one replayed step.
type StepResult struct {
	Index  int
	Action domain.Action
	Head   int
	Len    int
	Err    error
}

// Report is the outcome of a replay.
type Report[S any] struct {
	Scenario string
	Steps    []StepResult
	Final    enhancer.State[S]
}

// Failed returns the steps whose outcome did not match the step expectation.
func (r *Report[S]) Failed(sc *Scenario) []StepResult {
	var out []StepResult
	for _, res := range r.Steps {
		if !matchesError(sc.Steps[res.Index].ExpectError, res.Err) {
			out = append(out, res)
		}
	}
	return out
}

// Run replays the scenario against s, step by step. A rejected step does not
// stop the replay; the store keeps its previous state and the error is
// recorded in the report. The returned error is non-nil when a step outcome
// or the final expectation does not match, or when ctx is canceled.
func Run[S any](ctx context.Context, s *store.Store[S], sc *Scenario) (*Report[S], error) {
	report := &Report[S]{Scenario: sc.Name}

	for i, step := range sc.Steps {
		if err := ctx.Err(); err != nil {
			return report, err
		}
		action := step.ToAction()
		st, err := s.Dispatch(ctx, action)
		report.Steps = append(report.Steps, StepResult{
			Index:  i,
			Action: action,
			Head:   st.History.Head(),
			Len:    st.History.Len(),
			Err:    err,
		})
	}
	report.Final = s.State()

	var errs []error
	for _, res := range report.Failed(sc) {
		want := sc.Steps[res.Index].ExpectError
		if want == "" {
			want = "success"
		}
		errs = append(errs, fmt.Errorf("%w: step %d (%s): want %s, got %v",
			ErrExpectation, res.Index+1, res.Action.Type, want, res.Err))
	}
	if err := check(sc.Expect, report.Final); err != nil {
		errs = append(errs, err)
	}
	return report, errors.Join(errs...)
}

func matchesError(want string, err error) bool {
	switch want {
	case "":
		return err == nil
	case "out_of_range":
		return errors.Is(err, domain.ErrOutOfRange)
	case "invalid_payload":
		return errors.Is(err, domain.ErrInvalidPayload)
	}
	return false
}

func check[S any](exp *Expectation, st enhancer.State[S]) error {
	if exp == nil {
		return nil
	}
	if exp.Head != nil && *exp.Head != st.History.Head() {
		return fmt.Errorf("%w: head is %d, want %d", ErrExpectation, st.History.Head(), *exp.Head)
	}
	if exp.Len != nil && *exp.Len != st.History.Len() {
		return fmt.Errorf("%w: log has %d entries, want %d", ErrExpectation, st.History.Len(), *exp.Len)
	}
	if exp.State != nil {
		got, err := normalize(st.Base)
		if err != nil {
			return fmt.Errorf("normalize state: %w", err)
		}
		want, err := normalize(exp.State)
		if err != nil {
			return fmt.Errorf("normalize expected state: %w", err)
		}
		if !reflect.DeepEqual(got, want) {
			return fmt.Errorf("%w: state is %v, want %v", ErrExpectation, got, want)
		}
	}
	return nil
}

// normalize renders v through JSON so that decoded YAML values and typed Go
// values compare equal.
func normalize(v any) (any, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	var out any
	if err := json.Unmarshal(data, &out); err != nil {
		return nil, err
	}
	return out, nil
}
