// Package reconcile provides a generic plan/apply engine for migrating the
// items of a source catalog into a destination catalog.
//
// # Architecture
//
// The reconcile system consists of two main components:
//
// 1. Engine: ReconcileWithPlan diffs the source items against the destination
//    Index and produces a ReconcilePlan. Items already present (under the
//    configured KeyPolicy) or excluded as DLC are skipped; every other item gets
//    a migrate action. ApplyPlan then runs the actions in source order.
//
// 2. Adapter: catalog-specific implementations that define how to load the
//    destination index and the source items, how to identify an item, and how
//    to migrate one.
//
// # Item States
//
// Every item starts pending and ends in exactly one terminal state:
//
//	pending -> included | skipped (already_exists, dlc) | unresolved
//
// There are no retries. An adapter error aborts the run.
//
// # Shared Index
//
// Several adapters may migrate into one destination (a base catalog plus DLC
// catalogs). They share one Index; ApplyPlan adds every included key to it, so
// an item included from one catalog is skipped when it appears again later.
//
// # Usage Example
//
//	spec := &reconcile.Spec{
//	    Adapter:    adapter,
//	    IncludeDLC: true,
//	    OnResult:   func(r reconcile.ReconcileResult) { log.Info(r.Key, zap.String("state", string(r.State))) },
//	}
//	plan, migrated, err := reconcile.ReconcileAndApply(ctx, spec, reconcile.ReconcileOptions{})
package reconcile
