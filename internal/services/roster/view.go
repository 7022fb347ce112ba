package roster

import (
	"sync"

	"github.com/mcoot/cricketreg/internal/model"
)

// State is the load state of a roster view
type State string

const (
	StateIdle    State = "idle"
	StateLoading State = "loading"
	StateReady   State = "ready"
	StateError   State = "error"
)

// Token identifies one load request; only the latest token may settle the view
type Token uint64

// Snapshot is a consistent copy of a view's state
type Snapshot struct {
	State   State
	League  model.League
	Players []*model.PlayerRegistration
	Err     error
	Seq     Token
}

// View holds one session's roster and discards out-of-order load results
// It is safe for concurrent use
type View struct {
	mu      sync.Mutex
	state   State
	league  model.League
	players []*model.PlayerRegistration
	err     error
	seq     Token
}

// NewView creates an idle view
func NewView() *View {
	return &View{state: StateIdle}
}

// Begin starts a load for league and returns its token
// Any load begun earlier becomes stale
func (v *View) Begin(league model.League) Token {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.seq++
	v.state = StateLoading
	v.league = league
	v.err = nil
	return v.seq
}

// Resolve settles the view with players if token is still current
// It reports false when the result is stale and was discarded
func (v *View) Resolve(token Token, players []*model.PlayerRegistration) bool {
	v.mu.Lock()
	defer v.mu.Unlock()
	if token != v.seq || v.state != StateLoading {
		return false
	}
	v.state = StateReady
	v.players = players
	v.err = nil
	return true
}

// Fail settles the view with err if token is still current
// Previously loaded players are kept
func (v *View) Fail(token Token, err error) bool {
	v.mu.Lock()
	defer v.mu.Unlock()
	if token != v.seq || v.state != StateLoading {
		return false
	}
	v.state = StateError
	v.err = err
	return true
}

// Snapshot returns the current state
func (v *View) Snapshot() Snapshot {
	v.mu.Lock()
	defer v.mu.Unlock()
	players := make([]*model.PlayerRegistration, len(v.players))
	copy(players, v.players)
	return Snapshot{
		State:   v.state,
		League:  v.league,
		Players: players,
		Err:     v.err,
		Seq:     v.seq,
	}
}
