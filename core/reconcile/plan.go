package reconcile

import (
	"context"
	"fmt"
)

// ApplyPlan executes the actions of a plan in source order.
// Returns the number of items migrated and any error encountered.
//
// Before each migration the destination index is checked again, so the second
// of two same-named source items is skipped. Resolved items are added to the
// index and end up included; the rest end up unresolved. An adapter error
// aborts immediately and leaves the remaining items pending.
func ApplyPlan(ctx context.Context, spec *Spec, plan *ReconcilePlan, opts ReconcileOptions) (executed int, err error) {
	if opts.DryRun {
		return 0, nil
	}

	actions := make(map[int]Action, len(plan.Actions))
	for _, a := range plan.Actions {
		actions[a.Position] = a
	}

	for i := range plan.Results {
		result := &plan.Results[i]

		if result.State == StatePending {
			action, ok := actions[i]
			if !ok {
				return executed, fmt.Errorf("no action planned for pending item %s", result.Key)
			}
			if err := ctx.Err(); err != nil {
				return executed, err
			}

			if plan.index.Contains(action.Key) {
				result.State = StateSkipped
				result.Reason = ReasonAlreadyExists
				plan.Summary.SkippedExisting++
			} else {
				outcome, err := spec.Adapter.Migrate(ctx, action.Item)
				if err != nil {
					return executed, fmt.Errorf("migrate %s: %w", action.Key, err)
				}
				executed++
				applyOutcome(plan, result, outcome)
			}
		}

		if spec.OnResult != nil {
			spec.OnResult(*result)
		}
	}

	return executed, nil
}

func applyOutcome(plan *ReconcilePlan, result *ReconcileResult, outcome Outcome) {
	result.Archives = outcome.Archives
	result.Metadata = outcome.Metadata

	if outcome.Resolved {
		result.State = StateIncluded
		plan.index.Add(result.Key)
		plan.Summary.Included++
		return
	}
	result.State = StateUnresolved
	plan.Summary.Unresolved++
}

// ReconcileAndApply is a convenience wrapper that plans and optionally applies actions.
// It returns the plan, number of items migrated, and any error.
func ReconcileAndApply(ctx context.Context, spec *Spec, opts ReconcileOptions) (*ReconcilePlan, int, error) {
	plan, err := ReconcileWithPlan(ctx, spec)
	if err != nil {
		return nil, 0, err
	}

	executed, err := ApplyPlan(ctx, spec, plan, opts)
	return plan, executed, err
}
