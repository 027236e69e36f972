package playable

import (
	"go.uber.org/zap"

	"fours/pkg/engine/fsm"
)

// Phase names reported by Grid.Phase.
const (
	PhaseIdle     = "idle"
	PhaseSelected = "selected"
	PhaseRotating = "rotating"
)

type phaseState struct {
	fsm.BaseState
	name string
	log  *zap.Logger
}

func (s *phaseState) Enter() {
	s.log.Debug("phase entered", zap.String("phase", s.name))
}

func newMachine(g *Grid) *fsm.Machine {
	idle := &phaseState{name: PhaseIdle, log: g.log}
	selected := &phaseState{name: PhaseSelected, log: g.log}
	rotating := &phaseState{name: PhaseRotating, log: g.log}

	hasSelection := fsm.FuncPredicate(func() bool { return g.Selected() != nil })
	noSelection := fsm.FuncPredicate(func() bool { return g.Selected() == nil })
	settled := func(p fsm.FuncPredicate) fsm.FuncPredicate {
		return func() bool { return !g.IsRotating() && p() }
	}

	m := fsm.New()
	m.AddAnyTransition(rotating, fsm.FuncPredicate(g.IsRotating))
	m.AddTransition(rotating, selected, settled(hasSelection))
	m.AddTransition(rotating, idle, settled(noSelection))
	m.AddTransition(idle, selected, hasSelection)
	m.AddTransition(selected, idle, noSelection)
	m.SetState(idle)
	return m
}

// Update advances the phase machine. Hosts call it once per frame.
func (g *Grid) Update() {
	g.machineMu.Lock()
	defer g.machineMu.Unlock()
	g.machine.Update()
}

// Phase returns the name of the current phase as of the last Update.
func (g *Grid) Phase() string {
	g.machineMu.Lock()
	defer g.machineMu.Unlock()
	if s, ok := g.machine.Current().(*phaseState); ok {
		return s.name
	}
	return ""
}
