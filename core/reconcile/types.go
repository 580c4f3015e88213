package reconcile

import (
	"strings"
	"sync"
)

// SourceItem represents a source catalog entity.
// Adapters define the concrete type.
type SourceItem any

// ItemState is the lifecycle state of one source item.
type ItemState string

const (
	StatePending    ItemState = "pending"
	StateIncluded   ItemState = "included"
	StateSkipped    ItemState = "skipped"
	StateUnresolved ItemState = "unresolved"
)

// SkipReason explains a skipped item.
type SkipReason string

const (
	ReasonAlreadyExists SkipReason = "already_exists"
	ReasonDLC           SkipReason = "dlc"
)

// KeyPolicy decides how item names are compared.
type KeyPolicy string

const (
	// KeyPolicyExact compares names byte for byte.
	KeyPolicyExact KeyPolicy = "exact"
	// KeyPolicyLowercase compares names after lowercasing both sides.
	KeyPolicyLowercase KeyPolicy = "lowercase"
)

// Normalize returns name as the policy compares it.
func (p KeyPolicy) Normalize(name string) string {
	if p == KeyPolicyLowercase {
		return strings.ToLower(name)
	}
	return name
}

// Index is the set of item keys present at the destination.
// It is safe for concurrent use.
type Index struct {
	policy KeyPolicy

	mu   sync.RWMutex
	keys map[string]struct{}
}

// NewIndex returns an index holding names normalized by policy.
func NewIndex(policy KeyPolicy, names ...string) *Index {
	idx := &Index{policy: policy, keys: make(map[string]struct{}, len(names))}
	for _, n := range names {
		idx.keys[policy.Normalize(n)] = struct{}{}
	}
	return idx
}

// Policy returns the key policy the index normalizes with.
func (i *Index) Policy() KeyPolicy {
	return i.policy
}

// Add records name. It reports false when the key was already present.
func (i *Index) Add(name string) bool {
	k := i.policy.Normalize(name)
	i.mu.Lock()
	defer i.mu.Unlock()
	if _, ok := i.keys[k]; ok {
		return false
	}
	i.keys[k] = struct{}{}
	return true
}

// Contains reports whether name is present under the index's policy.
func (i *Index) Contains(name string) bool {
	i.mu.RLock()
	defer i.mu.RUnlock()
	_, ok := i.keys[i.policy.Normalize(name)]
	return ok
}

// Len returns the number of keys.
func (i *Index) Len() int {
	i.mu.RLock()
	defer i.mu.RUnlock()
	return len(i.keys)
}

// Outcome is what an adapter reports after migrating one item.
type Outcome struct {
	// Resolved is true when at least one of the item's archives was produced.
	Resolved bool
	// Archives lists the archives produced for the item.
	Archives []string
	// Metadata contains adapter-specific data (e.g., display key).
	Metadata map[string]string
}

// ReconcileResult represents the reconciliation output for a single source item.
type ReconcileResult struct {
	// Position is the item's index in the source catalog.
	Position int `json:"position"`

	// Key is the item's identity as extracted by the adapter.
	Key string `json:"key"`

	// State is the item's current lifecycle state.
	State ItemState `json:"state"`

	// Reason is set for skipped items.
	Reason SkipReason `json:"reason,omitempty"`

	// Archives lists the archives produced for included items.
	Archives []string `json:"archives,omitempty"`

	// Metadata contains adapter-specific data from the migration.
	Metadata map[string]string `json:"metadata,omitempty"`
}

// Spec defines the configuration for a reconciliation operation.
type Spec struct {
	// Adapter provides catalog-specific logic.
	Adapter Adapter

	// IncludeDLC keeps DLC items. When false they are skipped with ReasonDLC.
	IncludeDLC bool

	// OnResult, if set, is called once per item when it reaches a final state,
	// in source order.
	OnResult func(ReconcileResult)
}

// ActionType represents the type of planned operation.
type ActionType string

const (
	// ActionMigrate migrates one source item into the destination.
	ActionMigrate ActionType = "migrate"
)

// Action represents a planned operation.
type Action struct {
	// Type specifies the action to perform.
	Type ActionType `json:"type"`

	// Key is the item identity.
	Key string `json:"key"`

	// Position is the index of the matching result.
	Position int `json:"position"`

	// Item is the source item to migrate.
	Item SourceItem `json:"-"`
}

// ReconcilePlan contains per-item results and planned actions.
type ReconcilePlan struct {
	// Adapter is the name of the adapter the plan was built with.
	Adapter string `json:"adapter"`

	// Results contains per-item data in source order.
	Results []ReconcileResult `json:"results"`

	// Actions contains planned operations in source order.
	Actions []Action `json:"actions"`

	// Summary provides aggregate counts.
	Summary PlanSummary `json:"summary"`

	index *Index
}

// PlanSummary provides aggregate statistics for a reconcile plan.
type PlanSummary struct {
	// TotalItems is the number of source items.
	TotalItems int `json:"total_items"`

	// SkippedExisting counts items already present at the destination.
	SkippedExisting int `json:"skipped_existing"`

	// SkippedDLC counts DLC items skipped by configuration.
	SkippedDLC int `json:"skipped_dlc"`

	// MigrateActions counts planned migrate actions.
	MigrateActions int `json:"migrate_actions"`

	// Included counts items appended to the destination.
	Included int `json:"included"`

	// Unresolved counts items for which no archive resolved.
	Unresolved int `json:"unresolved"`
}

// Add accumulates other into s.
func (s *PlanSummary) Add(other PlanSummary) {
	s.TotalItems += other.TotalItems
	s.SkippedExisting += other.SkippedExisting
	s.SkippedDLC += other.SkippedDLC
	s.MigrateActions += other.MigrateActions
	s.Included += other.Included
	s.Unresolved += other.Unresolved
}

// ReconcileOptions controls whether planned actions execute.
type ReconcileOptions struct {
	// DryRun plans without migrating anything.
	DryRun bool
}
