// Package store holds the authoritative in-memory state of every finance
// record and writes the full snapshot to a durable slot after each mutation.
//
// A Store is not safe for concurrent use. Exactly one owner (the ledger
// service in this module) must serialize access to it.
package store

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	"smartmoney/internal/core"
	"smartmoney/internal/log"
	"smartmoney/internal/storage"
)

// Snapshot is the persisted shape of the store. Field names are the slot's
// wire format and must not change without a migration.
type Snapshot struct {
	Expenses       []core.Expense            `json:"expenses"`
	Budgets        []core.Budget             `json:"budgets"`
	Settings       *core.Settings            `json:"settings"`
	User           *core.User                `json:"user"`
	SavingsGoals   []core.SavingsGoal        `json:"savingsGoals"`
	Debts          []core.Debt               `json:"debts"`
	Challenges     []core.FinancialChallenge `json:"challenges"`
	EmergencyFund  *core.EmergencyFund       `json:"emergencyFund"`
	RetirementPlan *core.RetirementPlan      `json:"retirementPlan"`
	TaxEstimates   []core.TaxEstimate        `json:"taxEstimates"`
	TravelModes    []core.TravelMode         `json:"travelModes"`
	PendingChanges []core.PendingChange      `json:"pendingChanges"`
}

// normalize replaces nil collections with empty ones so the snapshot always
// encodes lists as [].
func (s *Snapshot) normalize() {
	if s.Expenses == nil {
		s.Expenses = []core.Expense{}
	}
	if s.Budgets == nil {
		s.Budgets = []core.Budget{}
	}
	if s.SavingsGoals == nil {
		s.SavingsGoals = []core.SavingsGoal{}
	}
	if s.Debts == nil {
		s.Debts = []core.Debt{}
	}
	if s.Challenges == nil {
		s.Challenges = []core.FinancialChallenge{}
	}
	if s.TaxEstimates == nil {
		s.TaxEstimates = []core.TaxEstimate{}
	}
	if s.TravelModes == nil {
		s.TravelModes = []core.TravelMode{}
	}
	if s.PendingChanges == nil {
		s.PendingChanges = []core.PendingChange{}
	}
}

// Option configures a Store.
type Option func(*Store)

// WithIDFunc overrides the id generator (uuid v4 by default).
func WithIDFunc(fn func() string) Option {
	return func(s *Store) { s.newID = fn }
}

// WithClock overrides the time source used for createdAt and timestamps.
func WithClock(c core.Clock) Option {
	return func(s *Store) { s.clock = c }
}

// WithLogger sets the logger used to report persistence failures.
func WithLogger(l *log.Logger) Option {
	return func(s *Store) { s.logger = l.WithComponent(log.ComponentStore) }
}

// WithPersistTimeout bounds each write to the slot.
func WithPersistTimeout(d time.Duration) Option {
	return func(s *Store) { s.persistTimeout = d }
}

type Store struct {
	state          Snapshot
	slot           storage.Slot
	logger         *log.Logger
	newID          func() string
	clock          core.Clock
	persistTimeout time.Duration
}

// New returns an empty store bound to slot. Call Load to rehydrate it.
func New(slot storage.Slot, opts ...Option) *Store {
	s := &Store{
		slot:           slot,
		newID:          uuid.NewString,
		clock:          core.SystemClock{},
		persistTimeout: 5 * time.Second,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.logger == nil {
		s.logger = log.New(log.DefaultConfig()).WithComponent(log.ComponentStore)
	}
	s.state.normalize()
	return s
}

// Open creates a store and loads the slot's snapshot into it.
func Open(ctx context.Context, slot storage.Slot, opts ...Option) (*Store, error) {
	s := New(slot, opts...)
	if err := s.Load(ctx); err != nil {
		return nil, err
	}
	return s, nil
}

// Load replaces the in-memory state with the slot's snapshot. An empty slot
// yields an empty store.
func (s *Store) Load(ctx context.Context) error {
	data, err := s.slot.Load(ctx)
	if err != nil {
		return fmt.Errorf("load snapshot: %w", err)
	}
	var snap Snapshot
	if len(data) > 0 {
		if err := json.Unmarshal(data, &snap); err != nil {
			return fmt.Errorf("decode snapshot: %w", err)
		}
	}
	snap.normalize()
	s.state = snap
	s.logger.InfoContext(ctx, "Snapshot loaded",
		log.FieldOperation, log.OpLoad,
		log.FieldBytes, len(data),
		"expenses", len(snap.Expenses))
	return nil
}

// Snapshot returns a deep copy of the full state.
func (s *Store) Snapshot() Snapshot {
	out := Snapshot{
		Expenses:       s.Expenses(),
		Budgets:        s.Budgets(),
		Settings:       s.Settings(),
		User:           s.User(),
		SavingsGoals:   s.SavingsGoals(),
		Debts:          s.Debts(),
		Challenges:     s.Challenges(),
		EmergencyFund:  s.EmergencyFund(),
		RetirementPlan: s.RetirementPlan(),
		TaxEstimates:   s.TaxEstimates(),
		TravelModes:    s.TravelModes(),
		PendingChanges: s.PendingChanges(),
	}
	return out
}

// MarshalSnapshot encodes the current state in the slot format.
func (s *Store) MarshalSnapshot() ([]byte, error) {
	return json.Marshal(s.state)
}

// persist writes the snapshot. Failures are logged, never returned: the
// in-memory state stays authoritative.
func (s *Store) persist(op string) {
	data, err := s.MarshalSnapshot()
	if err != nil {
		s.logger.Error("Failed to encode snapshot", log.NewFields().WithOperation(op).WithError(err).ToSlice()...)
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), s.persistTimeout)
	defer cancel()
	if err := s.slot.Save(ctx, data); err != nil {
		s.logger.ErrorContext(ctx, "Failed to persist snapshot", log.NewFields().WithOperation(op).WithError(err).ToSlice()...)
		return
	}
	s.logger.DebugContext(ctx, "Snapshot persisted", log.FieldOperation, op, log.FieldBytes, len(data))
}

// owner is the current user's uid, or core.DefaultOwner when signed out.
func (s *Store) owner() string {
	if s.state.User != nil && s.state.User.UID != "" {
		return s.state.User.UID
	}
	return core.DefaultOwner
}

// Owner exposes the id stamped on new records.
func (s *Store) Owner() string { return s.owner() }

// SetUser signs a user in, or out when u is nil.
func (s *Store) SetUser(u *core.User) {
	if u == nil {
		s.state.User = nil
	} else {
		cp := *u
		s.state.User = &cp
	}
	s.persist("set_user")
}

func (s *Store) User() *core.User {
	if s.state.User == nil {
		return nil
	}
	cp := *s.state.User
	return &cp
}
