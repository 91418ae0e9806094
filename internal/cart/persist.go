package cart

import (
	"encoding/json"
	"log/slog"
	"os"
	"path/filepath"
)

// Persister is the durable storage behind a cart session.
type Persister interface {
	Load() ([]byte, error)
	Save(payload []byte) error
}

// FilePersister stores the cart as a JSON file. The file plays the role the
// browser's local storage plays for the web client.
type FilePersister struct {
	Path string
}

func (f FilePersister) Load() ([]byte, error) {
	return os.ReadFile(f.Path)
}

func (f FilePersister) Save(payload []byte) error {
	if err := os.MkdirAll(filepath.Dir(f.Path), 0o755); err != nil {
		return err
	}
	return os.WriteFile(f.Path, payload, 0o644)
}

// Session binds a cart state to a persister. Every transition is written
// through best-effort: a failed write is logged and swallowed, and the
// in-memory state stays authoritative for the rest of the session.
//
// A Session is single-goroutine by construction, mirroring the UI event
// loop that owns the cart.
type Session struct {
	state  State
	store  Persister
	logger *slog.Logger
}

// NewSession hydrates a session from the persister. A missing or malformed
// payload yields an empty cart.
func NewSession(store Persister) *Session {
	s := &Session{state: State{Items: []Item{}}, store: store, logger: slog.Default()}
	if store != nil {
		if payload, err := store.Load(); err == nil {
			s.state = Hydrate(s.state, payload)
		}
	}
	return s
}

// State returns a copy of the current cart state.
func (s *Session) State() State {
	return clone(s.state)
}

func (s *Session) transition(next State) {
	s.state = next
	if s.store == nil {
		return
	}
	payload, err := json.Marshal(s.state)
	if err == nil {
		err = s.store.Save(payload)
	}
	if err != nil {
		// Persistence is best-effort; the session keeps running on the
		// in-memory state.
		s.logger.Warn("cart persist failed", "error", err)
	}
}

func (s *Session) Add(it Item)                 { s.transition(Add(s.state, it)) }
func (s *Session) Remove(sel Selector)         { s.transition(Remove(s.state, sel)) }
func (s *Session) Increment(sel Selector)      { s.transition(Increment(s.state, sel)) }
func (s *Session) Decrement(sel Selector)      { s.transition(Decrement(s.state, sel)) }
func (s *Session) Clear()                      { s.transition(Clear(s.state)) }
func (s *Session) UpdateSelections(sel Selector, patch SelectionPatch) {
	s.transition(UpdateSelections(s.state, sel, patch))
}
