package systems

import (
	"cmp"
	"errors"
	"fmt"
	"time"

	"github.com/zeusync/hoverrun/pkg/sequence"
)

type entry struct {
	system  System
	enabled bool
	order   int
	metrics Metrics
}

// Manager runs registered systems once per Update in priority order.
// Systems of equal priority keep registration order. It is not safe for
// concurrent use; the session loop owns it.
type Manager struct {
	entries    []*entry
	registered int
	ordered    []*entry

	updates   uint64
	totalTime time.Duration

	onError      []func(string, error)
	onRegistered []func(System)
}

func NewManager() *Manager {
	return &Manager{}
}

func (m *Manager) RegisterSystem(s System) error {
	if s == nil || s.Name() == "" {
		return ErrInvalidSystem
	}
	if m.HasSystem(s.Name()) {
		return fmt.Errorf("%w: %s", ErrDuplicateSystem, s.Name())
	}
	m.registered++
	m.entries = append(m.entries, &entry{system: s, enabled: true, order: m.registered})
	m.reorder()
	for _, fn := range m.onRegistered {
		fn(s)
	}
	return nil
}

func (m *Manager) UnregisterSystem(name string) error {
	for i, e := range m.entries {
		if e.system.Name() == name {
			m.entries = append(m.entries[:i:i], m.entries[i+1:]...)
			m.reorder()
			return nil
		}
	}
	return fmt.Errorf("%w: %s", ErrSystemNotFound, name)
}

func (m *Manager) GetSystem(name string) (System, bool) {
	e, ok := m.find(name)
	if !ok {
		return nil, false
	}
	return e.system, true
}

func (m *Manager) HasSystem(name string) bool {
	_, ok := m.find(name)
	return ok
}

func (m *Manager) EnableSystem(name string) error  { return m.setEnabled(name, true) }
func (m *Manager) DisableSystem(name string) error { return m.setEnabled(name, false) }

func (m *Manager) setEnabled(name string, enabled bool) error {
	e, ok := m.find(name)
	if !ok {
		return fmt.Errorf("%w: %s", ErrSystemNotFound, name)
	}
	e.enabled = enabled
	return nil
}

// GetExecutionOrder returns system names in the order Update runs them.
func (m *Manager) GetExecutionOrder() []string {
	return sequence.ToArray(sequence.From(m.ordered), func(e *entry) string { return e.system.Name() })
}

func (m *Manager) GetSystemMetrics(name string) (Metrics, bool) {
	e, ok := m.find(name)
	if !ok {
		return Metrics{}, false
	}
	return e.metrics, true
}

func (m *Manager) GetMetrics() ManagerMetrics {
	mm := ManagerMetrics{
		RegisteredSystems: uint32(len(m.entries)),
		Updates:           m.updates,
		TotalUpdateTime:   m.totalTime,
		SystemErrorCount:  make(map[string]uint64, len(m.entries)),
	}
	for _, e := range m.entries {
		if e.enabled {
			mm.EnabledSystems++
		}
		if e.metrics.ErrorCount > 0 {
			mm.SystemErrorCount[e.system.Name()] = e.metrics.ErrorCount
		}
	}
	return mm
}

// OnSystemError registers a callback invoked for every failed system update.
func (m *Manager) OnSystemError(fn func(string, error)) {
	m.onError = append(m.onError, fn)
}

func (m *Manager) OnSystemRegistered(fn func(System)) {
	m.onRegistered = append(m.onRegistered, fn)
}

// Update runs every enabled system once. A failing system does not stop the
// ones after it; all errors are joined.
func (m *Manager) Update(deltaTime float64) error {
	start := time.Now()
	var all error
	for _, e := range m.ordered {
		if !e.enabled {
			continue
		}
		if err := m.run(e, deltaTime); err != nil {
			all = errors.Join(all, fmt.Errorf("%s: %w", e.system.Name(), err))
		}
	}
	m.updates++
	m.totalTime += time.Since(start)
	return all
}

func (m *Manager) run(e *entry, deltaTime float64) error {
	begin := time.Now()
	err := e.system.Update(deltaTime)
	took := time.Since(begin)

	mt := &e.metrics
	mt.ExecutionCount++
	mt.TotalExecutionTime += took
	mt.AverageExecutionTime = mt.TotalExecutionTime / time.Duration(mt.ExecutionCount)
	mt.MaxExecutionTime = max(mt.MaxExecutionTime, took)
	mt.LastExecutionTime = begin
	if err != nil {
		mt.ErrorCount++
		mt.LastError = err
		for _, fn := range m.onError {
			fn(e.system.Name(), err)
		}
	}
	return err
}

func (m *Manager) find(name string) (*entry, bool) {
	return sequence.From(m.entries).Find(func(e *entry) bool { return e.system.Name() == name })
}

func (m *Manager) reorder() {
	m.ordered = sequence.From(m.entries).SortBy(func(a, b *entry) int {
		if c := cmp.Compare(b.system.Priority(), a.system.Priority()); c != 0 {
			return c
		}
		return cmp.Compare(a.order, b.order)
	}).Collect()
}
