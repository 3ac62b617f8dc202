// Package session holds document-generation session state.
//
// A Document exposes what the table parser reads from its host: the current page,
// the unit scale factor, the global and document option layers, the snapshot of the
// previously drawn table and, optionally, a rendering surface to scrape markup from.
// Session is an in-memory Document safe for concurrent use.
package session

import (
	"sync"

	"github.com/agentstation/tablespec/pkg/constants"
	"github.com/agentstation/tablespec/pkg/markup"
	"github.com/agentstation/tablespec/pkg/options"
)

// Document is the read side of a document session.
type Document interface {
	// State returns the page, scale factor and previous-table snapshot read atomically.
	State() State

	// GlobalOptions returns the process-wide default options.
	GlobalOptions() options.Options

	// DocumentOptions returns the document-level default options.
	DocumentOptions() options.Options

	// Surface returns the rendering surface, or nil when none is attached.
	Surface() *markup.Surface
}

// Snapshot is what a finished table leaves behind for the next one.
type Snapshot struct {
	StartPageNumber int      `json:"startPageNumber" yaml:"startPageNumber"`
	PageNumber      int      `json:"pageNumber" yaml:"pageNumber"` // pages spanned
	FinalY          *float64 `json:"finalY,omitempty" yaml:"finalY,omitempty"`
}

// EndPage returns the page the table finished on.
func (s Snapshot) EndPage() int {
	return s.StartPageNumber + s.PageNumber - 1
}

// State is an immutable view of the session at the start of a table.
type State struct {
	PageNumber  int       `json:"pageNumber" yaml:"pageNumber"`
	ScaleFactor float64   `json:"scaleFactor" yaml:"scaleFactor"`
	Previous    *Snapshot `json:"previous,omitempty" yaml:"previous,omitempty"`
}

// Scale returns the scale factor, treating non-positive values as 1.
func (s State) Scale() float64 {
	if s.ScaleFactor <= 0 {
		return constants.DefaultScaleFactor
	}
	return s.ScaleFactor
}

// Session is an in-memory Document.
type Session struct {
	mu          sync.RWMutex
	pageNumber  int
	scaleFactor float64
	previous    *Snapshot
	defaults    options.Options
	surface     *markup.Surface
}

// New returns a session positioned on page 1.
func New(opts ...Option) *Session {
	s := &Session{
		pageNumber:  1,
		scaleFactor: constants.DefaultScaleFactor,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Option configures a Session.
type Option func(*Session)

// WithScaleFactor sets the device units per logical unit.
func WithScaleFactor(k float64) Option {
	return func(s *Session) {
		if k > 0 {
			s.scaleFactor = k
		}
	}
}

// WithPage sets the current page.
func WithPage(n int) Option {
	return func(s *Session) {
		if n > 0 {
			s.pageNumber = n
		}
	}
}

// WithDocumentDefaults sets the document option layer.
func WithDocumentDefaults(o options.Options) Option {
	return func(s *Session) { s.defaults = o.Clone() }
}

// WithSurface attaches a rendering surface.
func WithSurface(surface *markup.Surface) Option {
	return func(s *Session) { s.surface = surface }
}

// WithPrevious seeds the previous-table snapshot.
func WithPrevious(snap Snapshot) Option {
	return func(s *Session) { s.previous = &snap }
}

// State implements Document.
func (s *Session) State() State {
	s.mu.RLock()
	defer s.mu.RUnlock()

	st := State{PageNumber: s.pageNumber, ScaleFactor: s.scaleFactor}
	if s.previous != nil {
		prev := *s.previous
		if prev.FinalY != nil {
			y := *prev.FinalY
			prev.FinalY = &y
		}
		st.Previous = &prev
	}
	return st
}

// GlobalOptions implements Document.
func (s *Session) GlobalOptions() options.Options {
	return GlobalDefaults()
}

// DocumentOptions implements Document.
func (s *Session) DocumentOptions() options.Options {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.defaults.Clone()
}

// Surface implements Document.
func (s *Session) Surface() *markup.Surface {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.surface
}

// SetPage moves the session to page n.
func (s *Session) SetPage(n int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.pageNumber = n
}

// AddPage advances to the next page and returns its number.
func (s *Session) AddPage() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.pageNumber++
	return s.pageNumber
}

// SetDocumentDefaults replaces the document option layer.
func (s *Session) SetDocumentDefaults(o options.Options) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.defaults = o.Clone()
}

// AttachSurface sets the rendering surface markup is scraped from.
func (s *Session) AttachSurface(surface *markup.Surface) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.surface = surface
}

// RecordTable stores the snapshot of a finished table.
func (s *Session) RecordTable(snap Snapshot) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.previous = &snap
}

var (
	globalMu       sync.RWMutex
	globalDefaults options.Options
)

// SetGlobalDefaults replaces the process-wide option layer.
func SetGlobalDefaults(o options.Options) {
	globalMu.Lock()
	defer globalMu.Unlock()
	globalDefaults = o.Clone()
}

// GlobalDefaults returns a copy of the process-wide option layer.
func GlobalDefaults() options.Options {
	globalMu.RLock()
	defer globalMu.RUnlock()
	return globalDefaults.Clone()
}
