package position

import (
	"github.com/matzehuels/sysdesign/pkg/dom"
)

// maxPasses bounds how often one Update reruns for requests that arrive while
// it is applying a result.
const maxPasses = 8

// Solver keeps a floating node positioned against a reference node.
//
// Auto-update runs while both nodes are set: layout changes on either node
// and document scroll or resize trigger a recomputation. Clearing either node
// stops it and releases every subscription.
type Solver struct {
	doc       *dom.Document
	cfg       Config
	reference *dom.Node
	floating  *dom.Node

	scope    dom.Scope
	result   Result
	hasValue bool

	updating bool
	pending  bool

	onUpdate func(Result)
}

// SolverOption configures a Solver.
type SolverOption func(*Solver)

// OnUpdate registers a callback run after each computation that changed the
// result.
func OnUpdate(fn func(Result)) SolverOption {
	return func(s *Solver) { s.onUpdate = fn }
}

// NewSolver creates a solver for doc.
func NewSolver(doc *dom.Document, cfg Config, opts ...SolverOption) *Solver {
	s := &Solver{doc: doc, cfg: cfg}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Config returns the solver's configuration.
func (s *Solver) Config() Config { return s.cfg }

// SetReference sets the anchor node. Nil clears it.
func (s *Solver) SetReference(n *dom.Node) {
	if s.reference == n {
		return
	}
	s.reference = n
	s.restart()
}

// SetFloating sets the positioned node. Nil clears it and stops auto-update.
func (s *Solver) SetFloating(n *dom.Node) {
	if s.floating == n {
		return
	}
	s.floating = n
	s.restart()
}

// Running reports whether auto-update is active.
func (s *Solver) Running() bool {
	return s.scope.Len() > 0
}

// Result returns the last computed position.
func (s *Solver) Result() (Result, bool) {
	return s.result, s.hasValue
}

// Stop clears both nodes and releases every subscription.
func (s *Solver) Stop() {
	s.reference, s.floating = nil, nil
	s.scope.Release()
	s.hasValue = false
}

func (s *Solver) restart() {
	s.scope.Release()
	if s.reference == nil || s.floating == nil || s.doc == nil {
		s.hasValue = false
		return
	}
	update := func(*dom.Event) { s.Update() }
	s.scope.Add(
		s.reference.On(dom.EventLayout, update),
		s.floating.On(dom.EventLayout, update),
		s.doc.AddEventListener(dom.EventScroll, update),
		s.doc.AddEventListener(dom.EventResize, update),
	)
	s.Update()
}

// Update recomputes the position now and writes it to the floating node's
// bounds. Calls made while an update is applying its result are coalesced
// into one more pass.
func (s *Solver) Update() {
	if s.reference == nil || s.floating == nil || s.doc == nil {
		return
	}
	if s.updating {
		s.pending = true
		return
	}
	s.updating = true
	defer func() { s.updating = false }()

	for pass := 0; pass < maxPasses; pass++ {
		s.pending = false
		if s.reference == nil || s.floating == nil {
			return
		}
		fl := s.floating.Bounds()
		res := Compute(s.reference.Bounds(), fl, s.doc.Viewport(), s.cfg)
		changed := !s.hasValue || res != s.result
		s.result, s.hasValue = res, true
		s.floating.SetBounds(res.Rect(fl))
		if changed && s.onUpdate != nil {
			s.onUpdate(res)
		}
		if !s.pending {
			return
		}
	}
}
