package reconcile

import (
	"context"
	"fmt"
)

// ReconcileWithPlan diffs the source catalog against the destination index
// and returns a plan. Items already present or excluded as DLC are marked
// skipped; every other item gets a migrate action. Nothing is migrated; use
// ApplyPlan for that.
func ReconcileWithPlan(ctx context.Context, spec *Spec) (*ReconcilePlan, error) {
	adapter := spec.Adapter

	index, err := adapter.LoadDestinationIndex(ctx)
	if err != nil {
		return nil, fmt.Errorf("load destination index for %s: %w", adapter.Name(), err)
	}

	items, err := adapter.LoadSourceItems(ctx)
	if err != nil {
		return nil, fmt.Errorf("load source items for %s: %w", adapter.Name(), err)
	}

	plan := &ReconcilePlan{
		Adapter: adapter.Name(),
		Results: make([]ReconcileResult, 0, len(items)),
		index:   index,
	}
	plan.Summary.TotalItems = len(items)

	for i, item := range items {
		result := ReconcileResult{
			Position: i,
			Key:      adapter.ExtractKey(item),
			State:    StatePending,
		}

		switch {
		case index.Contains(result.Key):
			result.State = StateSkipped
			result.Reason = ReasonAlreadyExists
			plan.Summary.SkippedExisting++
		case !spec.IncludeDLC && adapter.IsDLC(item):
			result.State = StateSkipped
			result.Reason = ReasonDLC
			plan.Summary.SkippedDLC++
		default:
			plan.Actions = append(plan.Actions, Action{
				Type:     ActionMigrate,
				Key:      result.Key,
				Position: i,
				Item:     item,
			})
			plan.Summary.MigrateActions++
		}

		plan.Results = append(plan.Results, result)
	}

	return plan, nil
}
