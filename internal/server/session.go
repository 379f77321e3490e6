package server

import (
	"sync"
	"time"

	"github.com/google/uuid"

	cerrors "github.com/matzehuels/cactus/pkg/errors"
	"github.com/matzehuels/cactus/pkg/scene"
	"github.com/matzehuels/cactus/pkg/viewport"
)

// session is one client's view of the tree. Its fields are guarded by mu
// because a client may fetch a frame while posting events.
type session struct {
	id string

	mu       sync.Mutex
	width    float64
	height   float64
	ctrl     *viewport.Controller
	scene    *scene.Scene
	redraws  int
	lastSeen time.Time
}

// sessionView is the JSON form of a session.
type sessionView struct {
	ID       string         `json:"id"`
	Width    float64        `json:"width"`
	Height   float64        `json:"height"`
	Mode     string         `json:"mode"`
	Viewport viewport.State `json:"viewport"`
	Redraws  int            `json:"redraws"`
}

func (s *session) view() sessionView {
	return sessionView{
		ID:       s.id,
		Width:    s.width,
		Height:   s.height,
		Mode:     s.ctrl.Mode().String(),
		Viewport: s.ctrl.State,
		Redraws:  s.redraws,
	}
}

type sessionStore struct {
	ttl time.Duration
	now func() time.Time

	mu       sync.Mutex
	sessions map[string]*session
}

func newSessionStore(ttl time.Duration) *sessionStore {
	return &sessionStore{ttl: ttl, now: time.Now, sessions: make(map[string]*session)}
}

// create registers a session for a width×height surface over sc.
func (st *sessionStore) create(sc *scene.Scene, cfg viewport.Config, width, height float64) *session {
	minZoom, maxZoom := sc.ZoomLimits(width, height)
	ctrl := viewport.NewController(cfg, minZoom, maxZoom)
	ctrl.HitTest = sc.HitTest()

	s := &session{
		id:       uuid.NewString(),
		width:    width,
		height:   height,
		ctrl:     ctrl,
		scene:    sc,
		lastSeen: st.now(),
	}
	ctrl.OnRedraw = func() { s.redraws++ }

	st.mu.Lock()
	st.sessions[s.id] = s
	st.mu.Unlock()
	return s
}

// get returns a live session and marks it as seen.
func (st *sessionStore) get(id string) (*session, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, cerrors.New(cerrors.ErrCodeSessionNotFound, "session %q not found", id)
	}
	st.mu.Lock()
	defer st.mu.Unlock()
	s, ok := st.sessions[id]
	if !ok {
		return nil, cerrors.New(cerrors.ErrCodeSessionNotFound, "session %q not found", id)
	}
	now := st.now()
	if now.Sub(s.touch(now)) > st.ttl {
		delete(st.sessions, id)
		return nil, cerrors.New(cerrors.ErrCodeSessionNotFound, "session %q expired", id)
	}
	return s, nil
}

// touch updates lastSeen and returns the previous value.
func (s *session) touch(now time.Time) time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	prev := s.lastSeen
	s.lastSeen = now
	return prev
}

func (st *sessionStore) delete(id string) bool {
	st.mu.Lock()
	defer st.mu.Unlock()
	_, ok := st.sessions[id]
	delete(st.sessions, id)
	return ok
}

// expire drops sessions idle for longer than the TTL and returns how many.
func (st *sessionStore) expire(now time.Time) int {
	st.mu.Lock()
	defer st.mu.Unlock()
	n := 0
	for id, s := range st.sessions {
		s.mu.Lock()
		idle := now.Sub(s.lastSeen)
		s.mu.Unlock()
		if idle > st.ttl {
			delete(st.sessions, id)
			n++
		}
	}
	return n
}

func (st *sessionStore) len() int {
	st.mu.Lock()
	defer st.mu.Unlock()
	return len(st.sessions)
}
