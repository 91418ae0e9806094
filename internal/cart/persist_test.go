package cart

import (
	"errors"
	"path/filepath"
	"testing"
)

func TestSessionRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cart.json")
	store := FilePersister{Path: path}

	s := NewSession(store)
	s.Add(dress(2))
	s.Add(dress(1))

	// A fresh session over the same file sees the persisted cart.
	s2 := NewSession(store)
	got := s2.State()
	if len(got.Items) != 1 || got.Items[0].Quantity != 3 {
		t.Errorf("rehydrated cart = %v, want one line of 3", got.Items)
	}
}

func TestNewSessionMissingFile(t *testing.T) {
	store := FilePersister{Path: filepath.Join(t.TempDir(), "absent.json")}
	s := NewSession(store)
	if len(s.State().Items) != 0 {
		t.Errorf("cart = %v, want empty", s.State().Items)
	}
}

type failingPersister struct{}

func (failingPersister) Load() ([]byte, error) { return nil, errors.New("load failed") }
func (failingPersister) Save([]byte) error     { return errors.New("save failed") }

// TestSessionSurvivesPersistFailure verifies a failed write is swallowed
// and the in-memory state stays authoritative.
func TestSessionSurvivesPersistFailure(t *testing.T) {
	s := NewSession(failingPersister{})
	s.Add(dress(1))
	s.Increment(Selector{SKU: "ADA-001"})

	got := s.State()
	if len(got.Items) != 1 || got.Items[0].Quantity != 2 {
		t.Errorf("cart = %v, want in-memory state kept", got.Items)
	}
}

// TestSessionStateIsCopy verifies callers cannot mutate the session
// through the returned state.
func TestSessionStateIsCopy(t *testing.T) {
	s := NewSession(nil)
	s.Add(dress(1))

	got := s.State()
	got.Items[0].Quantity = 99

	if s.State().Items[0].Quantity != 1 {
		t.Error("State() returned a shared slice")
	}
}
