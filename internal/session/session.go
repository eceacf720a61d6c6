// Package session is the controller between the catalog engine and a
// front end. It owns the ViewState, runs render passes and applies user
// events; the front end only reads Page snapshots and reports events.
//
// A render pass happens after every query or page change. It instantiates
// a fresh disclosure Machine per visible record, closes the accordion and
// drops every ink Layer. Layers are bound from the ink store the first time
// an image is asked for within a pass, so each pass restores stored ink.
// Toggling solved state is a leaf mutation and never renders.
package session

import (
	"errors"
	"math/rand/v2"

	"github.com/rs/zerolog"

	"github.com/mesh-intelligence/puzzlebook/internal/catalog"
	"github.com/mesh-intelligence/puzzlebook/internal/disclosure"
	"github.com/mesh-intelligence/puzzlebook/internal/ink"
	"github.com/mesh-intelligence/puzzlebook/internal/persist"
	"github.com/mesh-intelligence/puzzlebook/pkg/types"
)

// ErrNotOnPage is returned for events that name a record which is not on
// the current page.
var ErrNotOnPage = errors.New("record is not on the current page")

// Default ink surface size when the front end has not measured an image.
const (
	DefaultInkWidth  = 800
	DefaultInkHeight = 600
)

// Effect is a fire-and-forget presentation hint produced by a render pass.
type Effect int

const (
	EffectNone Effect = iota
	// EffectScrollTop scrolls the page to the top (smooth).
	EffectScrollTop
	// EffectScrollIntoView scrolls the focused record into view and flashes
	// it briefly.
	EffectScrollIntoView
)

// Stores groups the persistent maps a session reads and writes.
type Stores struct {
	Solved *persist.SolvedMap
	Ink    *persist.InkMap
	Theme  *persist.ThemePref
}

// Options configure a Session.
type Options struct {
	PageSize  int
	RevealAll bool
	// InkWidth and InkHeight size ink surfaces at bind time. Zero means the
	// defaults.
	InkWidth, InkHeight int
	// Pick returns a uniform value in [0, n). Nil uses math/rand/v2.
	Pick func(n int) int
}

// Session is the single-threaded catalog controller.
type Session struct {
	view      *catalog.ViewState
	stores    Stores
	logger    zerolog.Logger
	pick      func(n int) int
	revealAll bool
	inkW      int
	inkH      int

	accordion disclosure.Accordion
	machines  map[int]*disclosure.Machine
	images    map[string]bool
	layers    map[string]*ink.Layer

	renders int
	effect  Effect
	focus   int
}

// New creates a session over records and performs the first render. Nil
// stores are replaced by memory-only maps.
func New(records []types.Record, infeasible types.InfeasibilityMap, stores Stores, opts Options, logger zerolog.Logger) *Session {
	if stores.Solved == nil {
		stores.Solved = persist.LoadSolved(nil, logger)
	}
	if stores.Ink == nil {
		stores.Ink = persist.LoadInk(nil, nil, logger)
	}
	if stores.Theme == nil {
		stores.Theme = persist.LoadTheme(nil, logger)
	}
	if infeasible == nil {
		infeasible = types.InfeasibilityMap{}
	}
	pick := opts.Pick
	if pick == nil {
		pick = rand.IntN
	}
	s := &Session{
		view:      catalog.NewViewState(records, infeasible, opts.PageSize),
		stores:    stores,
		logger:    logger,
		pick:      pick,
		revealAll: opts.RevealAll,
		inkW:      opts.InkWidth,
		inkH:      opts.InkHeight,
	}
	if s.inkW <= 0 {
		s.inkW = DefaultInkWidth
	}
	if s.inkH <= 0 {
		s.inkH = DefaultInkHeight
	}
	s.render(EffectNone, 0)
	return s
}

// render rebuilds every per-render object for the current page.
func (s *Session) render(effect Effect, focus int) {
	s.renders++
	s.effect = effect
	s.focus = focus
	s.accordion.Reset()

	items := s.view.PageItems()
	s.machines = make(map[int]*disclosure.Machine, len(items))
	s.images = make(map[string]bool)
	s.layers = make(map[string]*ink.Layer)
	for _, r := range items {
		s.machines[r.ID] = disclosure.New(disclosure.Options{RevealAll: s.revealAll})
		for _, url := range r.Images.All() {
			s.images[url] = true
		}
	}
	s.logger.Debug().
		Int("page", s.view.Page()).
		Int("total_pages", s.view.TotalPages()).
		Int("items", len(items)).
		Str("query", s.view.Query()).
		Msg("render")
}

// SetQuery replaces the query, returns to page 1 and renders.
func (s *Session) SetQuery(text string) {
	s.view.SetQuery(text)
	s.render(EffectNone, 0)
}

// SetPage moves to page n (clamped), renders and scrolls to the top.
func (s *Session) SetPage(n int) {
	s.view.SetPage(n)
	s.render(EffectScrollTop, 0)
}

// Next moves one page forward. It reports whether the page changed; at the
// last page nothing renders.
func (s *Session) Next() bool {
	if !s.view.Next() {
		return false
	}
	s.render(EffectScrollTop, 0)
	return true
}

// Prev moves one page back. It reports whether the page changed.
func (s *Session) Prev() bool {
	if !s.view.Prev() {
		return false
	}
	s.render(EffectScrollTop, 0)
	return true
}

// RandomJump navigates to a uniformly random filtered record, renders,
// opens that record and scrolls it into view. It returns false and does
// nothing when no record matches the query.
func (s *Session) RandomJump() (types.Record, bool) {
	r, ok := s.view.RandomJump(s.pick)
	if !ok {
		return types.Record{}, false
	}
	s.render(EffectScrollIntoView, r.ID)
	s.accordion.Open(r.ID)
	s.logger.Debug().Int("id", r.ID).Int("page", s.view.Page()).Msg("random jump")
	return r, true
}

// ToggleOpen opens or closes a record on the current page and reports
// whether it is now open. Opening one record closes any other.
func (s *Session) ToggleOpen(id int) (bool, error) {
	if _, ok := s.machines[id]; !ok {
		return false, ErrNotOnPage
	}
	return s.accordion.Toggle(id), nil
}

// ToggleHint toggles hint k of a record on the current page.
func (s *Session) ToggleHint(id, k int) (disclosure.HintState, error) {
	m, ok := s.machines[id]
	if !ok {
		return disclosure.Locked, ErrNotOnPage
	}
	return m.Toggle(k)
}

// ToggleSolution toggles the solution panel of a record on the current
// page.
func (s *Session) ToggleSolution(id int) (bool, error) {
	m, ok := s.machines[id]
	if !ok {
		return false, ErrNotOnPage
	}
	return m.ToggleSolution(), nil
}

// ToggleSolved flips the solved flag for id and writes it through. It does
// not render, re-filter or touch any panel.
func (s *Session) ToggleSolved(id int) bool {
	return s.stores.Solved.Toggle(id)
}

// SetRevealAll sets the reveal-all toggle and renders, so it sets the
// initial panel state of the records now visible. Panels already toggled by
// hand are rebuilt.
func (s *Session) SetRevealAll(on bool) {
	s.revealAll = on
	s.render(EffectNone, 0)
}

// RevealAll returns the reveal-all toggle.
func (s *Session) RevealAll() bool { return s.revealAll }

// ToggleTheme switches and stores the theme.
func (s *Session) ToggleTheme() types.Theme { return s.stores.Theme.Toggle() }

// Theme returns the current theme.
func (s *Session) Theme() types.Theme { return s.stores.Theme.Get() }

// Layer returns the ink layer for an image URL on the current page, binding
// it on first use in this render pass. Records sharing a URL share the
// layer.
func (s *Session) Layer(url string) (*ink.Layer, bool) {
	if !s.images[url] {
		return nil, false
	}
	if l, ok := s.layers[url]; ok {
		return l, true
	}
	l := ink.NewLayer(s.stores.Ink, s.logger)
	l.Bind(url, s.inkW, s.inkH)
	s.layers[url] = l
	return l, true
}

// Locate moves to the page of the first filtered record showing url and
// reports whether there is one. A move renders like SetPage.
func (s *Session) Locate(url string) bool {
	if s.images[url] {
		return true
	}
	for _, r := range s.view.Filtered() {
		for _, u := range r.Images.All() {
			if u == url {
				s.SetPage(s.view.PageOf(r.ID))
				return true
			}
		}
	}
	return false
}

// Inked reports whether url has stored ink.
func (s *Session) Inked(url string) bool { return s.stores.Ink.Has(url) }

// Machine returns the disclosure machine of a record on the current page.
func (s *Session) Machine(id int) (*disclosure.Machine, bool) {
	m, ok := s.machines[id]
	return m, ok
}

// View exposes the underlying view state for read access.
func (s *Session) View() *catalog.ViewState { return s.view }

// Renders counts render passes since New.
func (s *Session) Renders() int { return s.renders }

// TakeEffect returns the effect of the latest render pass and the focused
// record id, then clears it so each effect is delivered once.
func (s *Session) TakeEffect() (Effect, int) {
	e, id := s.effect, s.focus
	s.effect, s.focus = EffectNone, 0
	return e, id
}
