package server

import (
	"context"
	"errors"
	"fmt"
	"mood-server/internal/config"
	"mood-server/internal/domain"
	"mood-server/internal/engine"
	"mood-server/internal/i18n"
	"mood-server/internal/network"
	"mood-server/internal/storage"
	"mood-server/pkg/logger"
	"net"
	"slices"
	"strings"
	"sync"
)

// Server принимает игроков по TCP (и по websocket, если включен HTTP)
// и ведет их сессии.
type Server struct {
	cfg     config.Config
	world   *domain.World
	hub     *network.Broadcaster
	loc     *i18n.Localizer
	disp    *engine.Dispatcher
	journal *storage.Journal

	// baseCtx живет, пока работает сервер; его отмена закрывает все сессии
	baseCtx  context.Context
	cancel   context.CancelFunc
	sessions sync.WaitGroup

	mu      sync.Mutex
	active  map[string]*session
	closing bool
}

type Option func(*Server)

// WithJournal открывает журнал команд в /debug/journal.
func WithJournal(j *storage.Journal) Option {
	return func(s *Server) { s.journal = j }
}

func New(cfg config.Config, world *domain.World, hub *network.Broadcaster, loc *i18n.Localizer, disp *engine.Dispatcher, opts ...Option) *Server {
	ctx, cancel := context.WithCancel(context.Background())
	s := &Server{
		cfg:     cfg,
		world:   world,
		hub:     hub,
		loc:     loc,
		disp:    disp,
		baseCtx: ctx,
		cancel:  cancel,
		active:  make(map[string]*session),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// ListenAndServe слушает cfg.Addr() до отмены ctx.
func (s *Server) ListenAndServe(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.cfg.Addr())
	if err != nil {
		return fmt.Errorf("listen %s: %w", s.cfg.Addr(), err)
	}
	return s.Serve(ctx, ln)
}

// Serve принимает соединения с ln, по горутине на каждое.
// После отмены ctx закрывает слушатель и все сессии и ждет их завершения.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	stop := context.AfterFunc(ctx, func() {
		s.shutdown()
		_ = ln.Close()
	})
	defer stop()

	logger.Log.Infof("🐄 MOOD server listening on %s", ln.Addr())

	for {
		conn, err := ln.Accept()
		if err != nil {
			if ctx.Err() != nil || errors.Is(err, net.ErrClosed) {
				s.shutdown()
				s.sessions.Wait()
				logger.Log.Info("Listener stopped")
				return nil
			}
			logger.Log.WithError(err).Warn("Accept failed")
			continue
		}

		t := newTCPTransport(conn, s.cfg.MaxFrameBytes, s.cfg.WriteTimeout)
		if !s.spawn(t) {
			_ = t.Close()
		}
	}
}

// spawn запускает сессию, пока сервер не начал останавливаться.
// Add и Wait у sessions не пересекаются: оба идут после проверки closing под mu.
func (s *Server) spawn(t transport) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closing {
		return false
	}
	s.sessions.Add(1)
	go func() {
		defer s.sessions.Done()
		s.serveConn(s.baseCtx, t)
	}()
	return true
}

// shutdown закрывает прием новых сессий и отменяет текущие.
func (s *Server) shutdown() {
	s.mu.Lock()
	s.closing = true
	s.mu.Unlock()
	s.cancel()
}

func (s *Server) stopping() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.closing
}

func (s *Server) track(ss *session) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.active[ss.id] = ss
}

func (s *Server) untrack(ss *session) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.active, ss.id)
}

// Sessions возвращает открытые соединения, отсортированные по id.
func (s *Server) Sessions() []SessionInfo {
	s.mu.Lock()
	list := make([]SessionInfo, 0, len(s.active))
	for _, ss := range s.active {
		list = append(list, ss.info())
	}
	s.mu.Unlock()

	slices.SortFunc(list, func(a, b SessionInfo) int { return strings.Compare(a.ID, b.ID) })
	return list
}
