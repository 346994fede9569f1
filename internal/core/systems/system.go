package systems

import (
	"errors"
	"time"
)

var (
	ErrDuplicateSystem = errors.New("system already registered")
	ErrSystemNotFound  = errors.New("system not found")
	ErrInvalidSystem   = errors.New("system is nil or unnamed")
)

// System is one per-tick processor of the simulation.
type System interface {
	Name() string
	Priority() Priority
	Update(deltaTime float64) error
}

// Priority defines execution order. Higher priorities run first.
type Priority uint16

const (
	PriorityLowest  Priority = 200
	PriorityLow     Priority = 500
	PriorityNormal  Priority = 600
	PriorityHigh    Priority = 1000
	PriorityHighest Priority = 1300
)

// Metrics provides runtime metrics for a system
type Metrics struct {
	ExecutionCount       uint64
	TotalExecutionTime   time.Duration
	AverageExecutionTime time.Duration
	MaxExecutionTime     time.Duration
	ErrorCount           uint64
	LastError            error
	LastExecutionTime    time.Time
}

// ManagerMetrics provides scheduler statistics
type ManagerMetrics struct {
	RegisteredSystems uint32
	EnabledSystems    uint32
	Updates           uint64
	TotalUpdateTime   time.Duration
	SystemErrorCount  map[string]uint64
}

// Func adapts a function to System.
type Func struct {
	SystemName     string
	SystemPriority Priority
	Fn             func(deltaTime float64) error
}

func (f Func) Name() string                   { return f.SystemName }
func (f Func) Priority() Priority             { return f.SystemPriority }
func (f Func) Update(deltaTime float64) error { return f.Fn(deltaTime) }
