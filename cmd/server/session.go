package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/coder/websocket"
	"github.com/google/uuid"

	"github.com/marben/mandelview/internal/config"
	"github.com/marben/mandelview/loop"
	"github.com/marben/mandelview/render"
)

// session is one browser connection with its own renderer.
// All renderer access happens on the goroutine running serve.
type session struct {
	id     uuid.UUID
	conn   *websocket.Conn
	cfg    config.Config
	logger *log.Logger

	r    *render.Renderer
	ctrl *loop.Controller
	buf  []byte

	// rejected commands collected during a Frame, reported after it
	rejected []error
}

func newSession(c *websocket.Conn, cfg config.Config) *session {
	id := uuid.New()
	return &session{
		id:     id,
		conn:   c,
		cfg:    cfg,
		logger: log.New(os.Stderr, fmt.Sprintf("[%s] ", id.String()[:8]), log.LstdFlags|log.Lmsgprefix),
	}
}

func (s *session) logf(format string, a ...any) {
	s.logger.Printf(format, a...)
}

// serve reads commands and pushes frames until the connection or ctx ends.
func (s *session) serve(ctx context.Context) error {
	ctx, cancel := context.WithCancelCause(ctx)
	defer cancel(nil)

	msgs := make(chan []byte, 16)
	go s.readLoop(ctx, cancel, msgs)

	ticker := time.NewTicker(time.Second / time.Duration(s.cfg.Server.FPS))
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return context.Cause(ctx)
		case msg := <-msgs:
			if err := s.handle(msg); err != nil {
				s.logf("rejected message: %v", err)
				if err := s.writeText(ctx, errorMessage(err)); err != nil {
					return err
				}
			}
		case <-ticker.C:
			if err := s.frame(ctx); err != nil {
				return err
			}
		}
	}
}

func (s *session) readLoop(ctx context.Context, cancel context.CancelCauseFunc, msgs chan<- []byte) {
	for {
		typ, data, err := s.conn.Read(ctx)
		if err != nil {
			cancel(err)
			return
		}
		if typ != websocket.MessageText {
			s.logf("ignoring binary message of %d bytes", len(data))
			continue
		}
		select {
		case msgs <- data:
		case <-ctx.Done():
			return
		}
	}
}

func (s *session) handle(msg []byte) error {
	req, err := parseRequest(msg, s.cfg.ZoomStep)
	if err != nil {
		return err
	}
	if req.init != nil {
		return s.resize(req.init.width, req.init.height)
	}
	if s.ctrl == nil {
		return errNotInitialized
	}
	s.ctrl.Submit(req.cmd)
	return nil
}

// resize (re)creates the renderer for a new canvas size. A resize keeps the current view,
// palette and iteration cap; Reset still returns to the configured start.
func (s *session) resize(width, height int) error {
	if width <= 0 || height <= 0 {
		return fmt.Errorf("init %dx%d: %w", width, height, render.ErrInvalidSize)
	}
	if width > s.cfg.Server.MaxPixels/height {
		return fmt.Errorf("init %dx%d: canvas exceeds %d pixels", width, height, s.cfg.Server.MaxPixels)
	}

	r, err := s.cfg.NewRenderer(width, height)
	if err != nil {
		return err
	}
	if s.r != nil {
		if err := r.SetView(s.r.View()); err != nil {
			return err
		}
		if err := r.SetMaxIterations(s.r.MaxIterations()); err != nil {
			return err
		}
		r.SetPalette(s.r.Palette())
	}

	s.r = r
	s.buf = make([]byte, r.BufferLen())
	s.ctrl = loop.New(r, loop.WithCommandErrorHandler(func(cmd loop.Command, err error) {
		s.rejected = append(s.rejected, fmt.Errorf("%s: %w", cmd, err))
	}))
	s.logf("canvas %dx%d", width, height)
	return nil
}

// frame renders if anything changed and sends the picture followed by its status.
func (s *session) frame(ctx context.Context) error {
	if s.ctrl == nil {
		return nil
	}

	start := time.Now()
	rendered, err := s.ctrl.Frame(s.buf)
	if err != nil {
		return fmt.Errorf("render: %w", err)
	}

	rejected := s.rejected
	s.rejected = nil
	for _, err := range rejected {
		s.logf("rejected command: %v", err)
		if err := s.writeText(ctx, errorMessage(err)); err != nil {
			return err
		}
	}

	if !rendered {
		return nil
	}
	st := status{
		session:    s.id,
		generation: s.ctrl.Generation(),
		view:       s.r.View(),
		iterations: s.r.Iterations(),
		elapsed:    time.Since(start),
	}
	if err := s.conn.Write(ctx, websocket.MessageBinary, s.buf); err != nil {
		return fmt.Errorf("write frame: %w", err)
	}
	msg, err := st.marshal()
	if err != nil {
		return err
	}
	return s.writeText(ctx, msg)
}

func (s *session) writeText(ctx context.Context, msg []byte) error {
	if err := s.conn.Write(ctx, websocket.MessageText, msg); err != nil {
		return fmt.Errorf("write text: %w", err)
	}
	return nil
}

// close ends the connection, reporting why the session stopped.
func (s *session) close(err error) {
	switch {
	case err == nil, errors.Is(err, context.Canceled):
		s.conn.Close(websocket.StatusGoingAway, "server shutting down")
	case websocket.CloseStatus(err) != -1:
		s.logf("client closed: %v", err)
		s.conn.CloseNow()
		return
	default:
		s.conn.Close(websocket.StatusInternalError, "session failed")
	}
	s.logf("session ended: %v", err)
}
