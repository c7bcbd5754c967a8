// Package net exposes drawing sessions over WebSocket and finds servers on
// the LAN with mDNS.
package net

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"sync"
	"time"

	"LocalSketch/internal/export"
	"LocalSketch/internal/state"
	"LocalSketch/internal/tools"

	"github.com/gorilla/websocket"
)

// maxCanvasSide bounds remote resize requests. A full frame at this size
// is 64 MiB; the engine's history byte budget bounds how many are kept.
const maxCanvasSide = 4096

// Path is where the WebSocket endpoint is mounted.
const Path = "/ws"

// session is one connected client and the engine it drives.
type session struct {
	conn   *websocket.Conn
	engine *state.Engine
	remote string
	sent   uint64
}

// Server hands every WebSocket connection its own engine. Sessions never
// share a canvas.
type Server struct {
	opts     state.Options
	upgrader websocket.Upgrader

	sessions map[string]*session
	mu       sync.RWMutex
}

// NewServer creates a server whose sessions start with opts.
func NewServer(opts state.Options) *Server {
	return &Server{
		opts:     opts,
		sessions: make(map[string]*session),
	}
}

// Handler returns the HTTP handler serving Path.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc(Path, s.serveWS)
	return mux
}

// Sessions returns the number of connected clients.
func (s *Server) Sessions() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.sessions)
}

// Listen opens a TCP listener on addr.
func Listen(addr string) (net.Listener, error) {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, fmt.Errorf("net: listen %s: %w", addr, err)
	}
	return ln, nil
}

// Serve accepts connections on ln until ctx is done.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	srv := &http.Server{Handler: s.Handler(), ReadHeaderTimeout: 10 * time.Second}
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
		s.closeAll()
	}()
	state.Logger().Info("[SERVER] listening", "addr", ln.Addr().String())
	if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("net: serve: %w", err)
	}
	return nil
}

// ListenAndServe listens on addr and serves until ctx is done.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	ln, err := Listen(addr)
	if err != nil {
		return err
	}
	return s.Serve(ctx, ln)
}

func (s *Server) add(sess *session) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions[sess.engine.Session()] = sess
	state.Logger().Info("[SERVER] client connected",
		"remote", sess.remote, "session", state.ShortID(sess.engine.Session()))
}

func (s *Server) remove(sess *session) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, sess.engine.Session())
	state.Logger().Info("[SERVER] client disconnected",
		"remote", sess.remote, "session", state.ShortID(sess.engine.Session()))
}

// closeAll drops every open connection. Their read loops then exit.
func (s *Server) closeAll() {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, sess := range s.sessions {
		_ = sess.conn.Close()
	}
}

func (s *Server) serveWS(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		state.Logger().Warn("[SERVER] upgrade failed", "remote", r.RemoteAddr, "err", err)
		return
	}
	defer conn.Close()

	engine, err := state.NewEngine(s.opts)
	if err != nil {
		state.Logger().Error("[SERVER] engine", "err", err)
		_ = conn.WriteMessage(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseInternalServerErr, "engine unavailable"))
		return
	}
	defer engine.Close()

	sess := &session{conn: conn, engine: engine, remote: r.RemoteAddr}
	s.add(sess)
	defer s.remove(sess)

	if err := sess.flush(true); err != nil {
		return
	}
	for {
		typ, data, err := conn.ReadMessage()
		if err != nil {
			if !websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				state.Logger().Debug("[SERVER] read", "remote", sess.remote, "err", err)
			}
			return
		}
		if typ != websocket.TextMessage {
			if err := sess.writeJSON(ErrorReply{Type: TypeError, Error: "expected a text message"}); err != nil {
				return
			}
			continue
		}
		if err := sess.handle(data); err != nil {
			state.Logger().Debug("[SERVER] write", "remote", sess.remote, "err", err)
			return
		}
	}
}

// handle applies one request and sends the replies. Only write failures are
// returned; request errors go back to the client.
func (sess *session) handle(data []byte) error {
	msg, err := DecodeMessage(data)
	if err != nil {
		return sess.writeJSON(ErrorReply{Type: TypeError, Error: err.Error()})
	}
	reply, err := sess.apply(msg)
	if err != nil {
		state.Logger().Debug("[SERVER] request rejected",
			"session", state.ShortID(sess.engine.Session()), "type", msg.Type, "err", err)
		if werr := sess.writeJSON(ErrorReply{Type: TypeError, Request: msg.Type, Error: err.Error()}); werr != nil {
			return werr
		}
	}
	if reply != nil {
		if err := sess.writeJSON(reply); err != nil {
			return err
		}
	}
	return sess.flush(false)
}

// apply runs msg against the engine. Export returns a reply to send.
func (sess *session) apply(msg Message) (any, error) {
	e := sess.engine
	switch msg.Type {
	case TypePointer:
		ph, err := state.ParsePhase(msg.Phase)
		if err != nil {
			return nil, err
		}
		return nil, e.Pointer(ph, tools.Point{X: msg.X, Y: msg.Y})
	case TypeOffset:
		e.SetSurfaceOffset(msg.X, msg.Y)
		return nil, nil
	case TypeTool:
		t, err := tools.ParseTool(msg.Tool)
		if err != nil {
			return nil, err
		}
		return nil, e.SetTool(t)
	case TypeColor:
		return nil, e.SetColor(msg.Color)
	case TypeWidth:
		return nil, e.SetStrokeWidth(msg.Width)
	case TypeText:
		return nil, e.ConfirmText(msg.Text)
	case TypeCancelText:
		e.CancelText()
		return nil, nil
	case TypeUndo:
		e.Undo()
		return nil, nil
	case TypeRedo:
		e.Redo()
		return nil, nil
	case TypeClear:
		return nil, e.Clear()
	case TypeResize:
		if msg.W > maxCanvasSide || msg.H > maxCanvasSide {
			return nil, fmt.Errorf("net: canvas %dx%d exceeds %d", msg.W, msg.H, maxCanvasSide)
		}
		return nil, e.Resize(msg.W, msg.H)
	case TypeExport:
		f, err := export.ParseFormat(msg.Format)
		if err != nil {
			return nil, err
		}
		var buf bytes.Buffer
		if err := e.Export(&buf, f); err != nil {
			return nil, err
		}
		return ExportReply{Type: TypeExport, Format: string(f), Data: buf.Bytes()}, nil
	default:
		return nil, fmt.Errorf("net: unknown message type %q", msg.Type)
	}
}

// flush sends a PNG frame when the pixels changed since the last one, then
// the session state.
func (sess *session) flush(force bool) error {
	e := sess.engine
	if force || e.Revision() != sess.sent {
		frame, err := e.ExportImage()
		if err != nil {
			return err
		}
		if err := sess.conn.WriteMessage(websocket.BinaryMessage, frame); err != nil {
			return err
		}
		sess.sent = e.Revision()
	}
	return sess.writeJSON(sess.state())
}

func (sess *session) state() State {
	e := sess.engine
	w, h := e.Size()
	p := e.Paint()
	_, pending := e.PendingText()
	return State{
		Type:        TypeState,
		Session:     e.Session(),
		Tool:        e.Tool().String(),
		Color:       tools.FormatColor(p.Color),
		Width:       p.Width,
		CanvasW:     w,
		CanvasH:     h,
		CanUndo:     e.CanUndo(),
		CanRedo:     e.CanRedo(),
		Drawing:     e.Drawing(),
		PendingText: pending,
		Revision:    e.Revision(),
	}
}

func (sess *session) writeJSON(v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("net: encode reply: %w", err)
	}
	return sess.conn.WriteMessage(websocket.TextMessage, data)
}
