package store

import (
	"encoding/json"

	"smartmoney/internal/core"
)

// SetEmergencyFund replaces the fund wholesale; nil clears it.
func (s *Store) SetEmergencyFund(f *core.EmergencyFund) {
	if f == nil {
		s.state.EmergencyFund = nil
	} else {
		cp := *f
		s.state.EmergencyFund = &cp
	}
	s.persist("set_emergency_fund")
}

// UpdateEmergencyFund merges p onto the fund, or materializes p alone when
// there is no fund yet.
func (s *Store) UpdateEmergencyFund(p core.EmergencyFundPatch) {
	var cur core.EmergencyFund
	if s.state.EmergencyFund != nil {
		cur = *s.state.EmergencyFund
	}
	next := p.Apply(cur)
	s.state.EmergencyFund = &next
	s.persist("update_emergency_fund")
}

func (s *Store) EmergencyFund() *core.EmergencyFund {
	if s.state.EmergencyFund == nil {
		return nil
	}
	cp := *s.state.EmergencyFund
	return &cp
}

// SetRetirementPlan replaces the plan wholesale; nil clears it.
func (s *Store) SetRetirementPlan(r *core.RetirementPlan) {
	if r == nil {
		s.state.RetirementPlan = nil
	} else {
		cp := *r
		s.state.RetirementPlan = &cp
	}
	s.persist("set_retirement_plan")
}

// UpdateRetirementPlan merges p onto the plan, or materializes p alone.
func (s *Store) UpdateRetirementPlan(p core.RetirementPlanPatch) {
	var cur core.RetirementPlan
	if s.state.RetirementPlan != nil {
		cur = *s.state.RetirementPlan
	}
	next := p.Apply(cur)
	s.state.RetirementPlan = &next
	s.persist("update_retirement_plan")
}

func (s *Store) RetirementPlan() *core.RetirementPlan {
	if s.state.RetirementPlan == nil {
		return nil
	}
	cp := *s.state.RetirementPlan
	return &cp
}

// AddPendingChange queues an offline change with a fresh id and the current
// time in milliseconds.
func (s *Store) AddPendingChange(typ core.ChangeType, entity string, data json.RawMessage) {
	s.state.PendingChanges = append(s.state.PendingChanges, core.PendingChange{
		ID:        s.newID(),
		Type:      typ,
		Entity:    entity,
		Data:      append(json.RawMessage(nil), data...),
		Timestamp: s.clock.Now().UnixMilli(),
	})
	s.persist("add_pending_change")
}

func (s *Store) ClearPendingChanges() {
	s.state.PendingChanges = []core.PendingChange{}
	s.persist("clear_pending_changes")
}

// DropPendingChanges removes the changes with the given ids, keeping any
// queued since they were read.
func (s *Store) DropPendingChanges(ids ...string) {
	drop := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		drop[id] = struct{}{}
	}
	var ok bool
	s.state.PendingChanges, ok = deleteWhere(s.state.PendingChanges, func(p core.PendingChange) bool {
		_, hit := drop[p.ID]
		return hit
	})
	if ok {
		s.persist("drop_pending_changes")
	}
}

func (s *Store) PendingChanges() []core.PendingChange {
	return cloneAll(s.state.PendingChanges, clonePendingChange)
}
