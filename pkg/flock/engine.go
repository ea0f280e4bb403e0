package flock

import (
	"github.com/go-gl/mathgl/mgl32"
	golog "github.com/tochemey/goakt/v3/log"
)

// DefaultForward is the axis an agent's model faces before rotation.
var DefaultForward = mgl32.Vec3{0, 1, 0}

// Engine runs ticks over an AgentSet with one rule table.
// An Engine is not safe for concurrent use; the caller owns the agents
// between ticks.
type Engine struct {
	rules   Rules
	forward mgl32.Vec3
	workers int
	logger  golog.Logger

	acc [][]mgl32.Vec3
}

// Option configures an Engine.
type Option func(*Engine)

// WithWorkers splits the interaction pass over n goroutines.
// Values below 2 keep the pass on the calling goroutine.
func WithWorkers(n int) Option {
	return func(e *Engine) {
		e.workers = n
	}
}

// WithForward sets the model's forward axis used to derive orientation.
func WithForward(forward mgl32.Vec3) Option {
	return func(e *Engine) {
		e.forward = forward
	}
}

// WithLogger sets the logger used to report rule problems.
func WithLogger(logger golog.Logger) Option {
	return func(e *Engine) {
		if logger != nil {
			e.logger = logger
		}
	}
}

// NewEngine returns an engine applying rules.
func NewEngine(rules Rules, opts ...Option) *Engine {
	e := &Engine{
		forward: DefaultForward,
		workers: 1,
		logger:  golog.DiscardLogger,
	}
	for _, opt := range opts {
		opt(e)
	}
	e.SetRules(rules)
	return e
}

// Rules returns a copy of the rule table in use.
func (e *Engine) Rules() Rules {
	return e.rules
}

// SetRules installs a new rule table; it applies from the next tick.
// Suspicious threshold orderings are logged but still applied as written.
func (e *Engine) SetRules(rules Rules) {
	for _, msg := range rules.Inconsistencies() {
		e.logger.Warnf("flock rules: %s", msg)
	}
	e.rules = rules
}

// Workers returns the number of goroutines used by the interaction pass.
func (e *Engine) Workers() int {
	if e.workers < 1 {
		return 1
	}
	return e.workers
}

// Tick advances agents by one step: the interaction pass resolves every
// velocity, then the integration pass moves and orients every agent.
// dt is the tick duration and elapsed the total simulation time, both in
// seconds.
func (e *Engine) Tick(agents AgentSet, dt, elapsed float32) {
	if len(agents) == 0 {
		return
	}
	e.interact(agents, dt, elapsed)
	e.integrate(agents, dt)
}

// Tick runs a single step over agents with a throwaway serial engine.
func Tick(agents AgentSet, rules Rules, dt, elapsed float32) {
	NewEngine(rules).Tick(agents, dt, elapsed)
}
