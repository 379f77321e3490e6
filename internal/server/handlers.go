package server

import (
	"bytes"
	"math"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"gonum.org/v1/gonum/spatial/r2"

	"github.com/matzehuels/cactus/pkg/canvas"
	cerrors "github.com/matzehuels/cactus/pkg/errors"
	"github.com/matzehuels/cactus/pkg/hierarchy"
	"github.com/matzehuels/cactus/pkg/observability"
	"github.com/matzehuels/cactus/pkg/pipeline"
	"github.com/matzehuels/cactus/pkg/route"
	"github.com/matzehuels/cactus/pkg/viewport"
)

func (s *Server) handleTree(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, s.layout)
}

type routeResponse struct {
	From   hierarchy.NodeID   `json:"from"`
	To     hierarchy.NodeID   `json:"to"`
	Path   []hierarchy.NodeID `json:"path"`
	Points [][2]float64       `json:"points"`
}

func (s *Server) handleRoute(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	from, to := hierarchy.NodeID(q.Get("from")), hierarchy.NodeID(q.Get("to"))
	for _, id := range []hierarchy.NodeID{from, to} {
		if err := cerrors.ValidateNodeID(string(id)); err != nil {
			s.writeError(w, err)
			return
		}
	}

	s.mu.Lock()
	path, ok := s.scene.Route(from, to)
	var pts []r2.Vec
	if ok {
		ix := s.scene.Index()
		src, _ := ix.Node(from)
		tgt, _ := ix.Node(to)
		pts = route.PathToCoordinates(path, ix.Coordinates(), ix, src.Center(), tgt.Center())
	}
	s.mu.Unlock()

	if !ok {
		s.writeError(w, cerrors.New(cerrors.ErrCodeNotFound, "no node %q or %q", from, to))
		return
	}
	resp := routeResponse{From: from, To: to, Path: make([]hierarchy.NodeID, len(path)), Points: make([][2]float64, len(pts))}
	for i, n := range path {
		resp.Path[i] = n.Key()
	}
	for i, p := range pts {
		resp.Points[i] = [2]float64{p.X, p.Y}
	}
	writeJSON(w, http.StatusOK, resp)
}

type createSessionRequest struct {
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

func (s *Server) handleCreateSession(w http.ResponseWriter, r *http.Request) {
	req := createSessionRequest{Width: s.cfg.Render.Width, Height: s.cfg.Render.Height}
	if r.ContentLength != 0 {
		if err := decodeJSON(w, r, &req); err != nil {
			s.writeError(w, err)
			return
		}
	}
	if err := cerrors.ValidateDimensions(req.Width, req.Height); err != nil {
		s.writeError(w, err)
		return
	}

	sess := s.sessions.create(pipeline.NewScene(s.layout, s.cfg.Render), s.cfg.Viewport, req.Width, req.Height)
	observability.Interaction().OnSessionEvent(r.Context(), sess.id, "create")
	s.Logger.Debug("session created", "id", sess.id, "width", req.Width, "height", req.Height)

	sess.mu.Lock()
	view := sess.view()
	sess.mu.Unlock()
	writeJSON(w, http.StatusCreated, view)
}

func (s *Server) handleGetSession(w http.ResponseWriter, r *http.Request) {
	sess, err := s.sessions.get(chi.URLParam(r, "id"))
	if err != nil {
		s.writeError(w, err)
		return
	}
	sess.mu.Lock()
	view := sess.view()
	sess.mu.Unlock()
	writeJSON(w, http.StatusOK, view)
}

func (s *Server) handleDeleteSession(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if !s.sessions.delete(id) {
		s.writeError(w, cerrors.New(cerrors.ErrCodeSessionNotFound, "session %q not found", id))
		return
	}
	observability.Interaction().OnSessionEvent(r.Context(), id, "delete")
	w.WriteHeader(http.StatusNoContent)
}

// event is one input event in client coordinates.
type event struct {
	Type    string           `json:"type"`
	X       float64          `json:"x"`
	Y       float64          `json:"y"`
	DeltaY  float64          `json:"delta_y"`
	Touches []viewport.Touch `json:"touches"`
}

var eventTypes = map[string]bool{
	"pointerdown":  true,
	"pointermove":  true,
	"pointerup":    true,
	"pointerleave": true,
	"wheel":        true,
	"touchstart":   true,
	"touchmove":    true,
	"touchend":     true,
}

type eventsRequest struct {
	Events []event `json:"events"`
}

type eventsResponse struct {
	sessionView
	// Consumed counts wheel events the controller handled; a browser client
	// suppresses page scrolling for those.
	Consumed int `json:"consumed"`
}

func (s *Server) handleEvents(w http.ResponseWriter, r *http.Request) {
	sess, err := s.sessions.get(chi.URLParam(r, "id"))
	if err != nil {
		s.writeError(w, err)
		return
	}
	var req eventsRequest
	if err := decodeJSON(w, r, &req); err != nil {
		s.writeError(w, err)
		return
	}
	for i, ev := range req.Events {
		if !eventTypes[strings.ToLower(ev.Type)] {
			s.writeError(w, cerrors.New(cerrors.ErrCodeInvalidInput, "event %d: unknown type %q", i, ev.Type))
			return
		}
	}

	sess.mu.Lock()
	consumed := 0
	for _, ev := range req.Events {
		if apply(sess.ctrl, ev) {
			consumed++
		}
		observability.Interaction().OnSessionEvent(r.Context(), sess.id, strings.ToLower(ev.Type))
	}
	resp := eventsResponse{sessionView: sess.view(), Consumed: consumed}
	sess.mu.Unlock()

	writeJSON(w, http.StatusOK, resp)
}

// apply feeds one event to the controller and reports whether a wheel event
// was consumed.
func apply(c *viewport.Controller, ev event) bool {
	switch strings.ToLower(ev.Type) {
	case "pointerdown":
		c.PointerDown(ev.X, ev.Y)
	case "pointermove":
		c.PointerMove(ev.X, ev.Y)
	case "pointerup":
		c.PointerUp()
	case "pointerleave":
		c.PointerLeave()
	case "wheel":
		return c.Wheel(ev.X, ev.Y, ev.DeltaY)
	case "touchstart":
		c.TouchStart(ev.Touches)
	case "touchmove":
		c.TouchMove(ev.Touches)
	case "touchend":
		c.TouchEnd(ev.Touches)
	}
	return false
}

func (s *Server) handleFrame(w http.ResponseWriter, r *http.Request) {
	sess, err := s.sessions.get(chi.URLParam(r, "id"))
	if err != nil {
		s.writeError(w, err)
		return
	}
	format := strings.ToLower(chi.URLParam(r, "format"))

	sess.mu.Lock()
	defer sess.mu.Unlock()

	start := time.Now()
	opts := pipeline.FrameOptions(sess.width, sess.height, s.cfg.Render)
	var (
		body        []byte
		contentType string
	)
	switch format {
	case pipeline.FormatSVG:
		dc := canvas.NewSVG(sess.width, sess.height)
		stats := sess.scene.Draw(dc, sess.ctrl.State, opts)
		observability.Interaction().OnFrame(r.Context(), sess.id, stats.NodesDrawn, stats.EdgesDrawn, time.Since(start))
		body, contentType = dc.Bytes(), "image/svg+xml"
	case pipeline.FormatPNG:
		dc := canvas.NewRaster(int(math.Ceil(sess.width)), int(math.Ceil(sess.height)))
		stats := sess.scene.Draw(dc, sess.ctrl.State, opts)
		observability.Interaction().OnFrame(r.Context(), sess.id, stats.NodesDrawn, stats.EdgesDrawn, time.Since(start))
		var buf bytes.Buffer
		if err := dc.EncodePNG(&buf); err != nil {
			s.writeError(w, cerrors.Wrap(cerrors.ErrCodeInternal, err, "encode frame"))
			return
		}
		body, contentType = buf.Bytes(), "image/png"
	default:
		s.writeError(w, cerrors.New(cerrors.ErrCodeInvalidFormat, "frames are svg or png, not %q", format))
		return
	}

	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(body)
}
