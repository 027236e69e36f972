// Package fsm implements a small predicate-driven state machine. Transitions
// fire when their predicate holds during Update; the first match wins.
package fsm

import (
	"fmt"
	"reflect"
)

// State is a node of the machine. States are matched with ==, so they must
// be pointers (or other comparable values); the machine panics when given a
// state whose dynamic type is not comparable.
type State interface {
	Enter()
	Exit()
	Update()
	FixedUpdate()
}

// BaseState implements State with no-ops, for embedding.
type BaseState struct{}

func (BaseState) Enter()       {}
func (BaseState) Exit()        {}
func (BaseState) Update()      {}
func (BaseState) FixedUpdate() {}

// Predicate guards a transition.
type Predicate interface {
	Evaluate() bool
}

// FuncPredicate adapts a function to Predicate.
type FuncPredicate func() bool

// Evaluate implements Predicate.
func (f FuncPredicate) Evaluate() bool {
	return f()
}

// Transition is an edge to To, taken when Condition holds.
type Transition struct {
	To        State
	Condition Predicate
}

type node struct {
	state       State
	transitions []Transition
}

// Machine drives a graph of States. It is not safe for concurrent use; call
// it from the host's update loop.
type Machine struct {
	current        *node
	nodes          map[State]*node
	anyTransitions []Transition
}

// New creates an empty machine. Call SetState before the first Update.
func New() *Machine {
	return &Machine{nodes: make(map[State]*node)}
}

// Current returns the active state, or nil before SetState.
func (m *Machine) Current() State {
	if m.current == nil {
		return nil
	}
	return m.current.state
}

// SetState makes s current without calling Enter or Exit.
func (m *Machine) SetState(s State) {
	m.current = m.getOrAdd(s)
}

// AddTransition adds an edge from -> to guarded by condition. Edges out of a
// state are tried in the order they were added.
func (m *Machine) AddTransition(from, to State, condition Predicate) {
	n := m.getOrAdd(from)
	m.getOrAdd(to)
	n.transitions = append(n.transitions, Transition{To: to, Condition: condition})
}

// AddAnyTransition adds an edge to `to` that is tried from every state,
// before the current state's own edges.
func (m *Machine) AddAnyTransition(to State, condition Predicate) {
	m.getOrAdd(to)
	m.anyTransitions = append(m.anyTransitions, Transition{To: to, Condition: condition})
}

// Update takes the first transition whose predicate holds, then calls
// Update on the (possibly new) current state.
func (m *Machine) Update() {
	if t, ok := m.next(); ok {
		m.changeState(t.To)
	}
	if m.current != nil {
		m.current.state.Update()
	}
}

// FixedUpdate forwards to the current state.
func (m *Machine) FixedUpdate() {
	if m.current != nil {
		m.current.state.FixedUpdate()
	}
}

func (m *Machine) next() (Transition, bool) {
	for _, t := range m.anyTransitions {
		if t.Condition.Evaluate() {
			return t, true
		}
	}
	if m.current == nil {
		return Transition{}, false
	}
	for _, t := range m.current.transitions {
		if t.Condition.Evaluate() {
			return t, true
		}
	}
	return Transition{}, false
}

func (m *Machine) changeState(s State) {
	if m.current != nil && m.current.state == s {
		return
	}

	if m.current != nil {
		m.current.state.Exit()
	}
	m.current = m.getOrAdd(s)
	m.current.state.Enter()
}

func (m *Machine) getOrAdd(s State) *node {
	if s != nil && !reflect.TypeOf(s).Comparable() {
		panic(fmt.Sprintf("fsm: state of type %T is not comparable; use a pointer", s))
	}
	n, ok := m.nodes[s]
	if !ok {
		n = &node{state: s}
		m.nodes[s] = n
	}
	return n
}
