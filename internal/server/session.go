package server

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"mood-server/internal/domain"
	"mood-server/internal/engine"
	"mood-server/internal/i18n"
	"mood-server/internal/network"
	"mood-server/pkg/api"
	"mood-server/pkg/logger"
	"net"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"golang.org/x/time/rate"
)

// SessionState - стадия жизни соединения.
type SessionState int32

const (
	StateConnecting SessionState = iota
	StateAuthenticating
	StateActive
	StateClosed
)

func (s SessionState) String() string {
	switch s {
	case StateConnecting:
		return "connecting"
	case StateAuthenticating:
		return "authenticating"
	case StateActive:
		return "active"
	case StateClosed:
		return "closed"
	default:
		return "unknown"
	}
}

// session - один подключенный игрок.
// Читатель крутится в serveConn, писатель в writeLoop; очередь out
// принадлежит сессии и никогда не закрывается.
type session struct {
	id       string
	srv      *Server
	conn     transport
	username string
	log      *logrus.Entry

	out     chan network.Outbound
	done    chan struct{}
	limiter *rate.Limiter

	mu    sync.Mutex
	state SessionState

	releaseOnce sync.Once
}

func (s *Server) newSession(conn transport) *session {
	id := uuid.NewString()
	return &session{
		id:   id,
		srv:  s,
		conn: conn,
		log: logger.Log.WithFields(logrus.Fields{
			"session": id,
			"remote":  conn.RemoteAddr(),
		}),
		out:     make(chan network.Outbound, s.cfg.OutboxSize),
		done:    make(chan struct{}),
		limiter: newLimiter(s.cfg.PaceInterval, s.cfg.PaceBurst),
	}
}

// newLimiter: нулевой интервал отключает ограничение темпа.
func newLimiter(interval time.Duration, burst int) *rate.Limiter {
	if interval <= 0 {
		return rate.NewLimiter(rate.Inf, 0)
	}
	return rate.NewLimiter(rate.Every(interval), burst)
}

func (ss *session) setState(st SessionState) {
	ss.mu.Lock()
	defer ss.mu.Unlock()
	ss.state = st
}

// SessionInfo - срез сессии для /debug/sessions.
type SessionInfo struct {
	ID       string `json:"id"`
	Username string `json:"username,omitempty"`
	Remote   string `json:"remote"`
	State    string `json:"state"`
}

func (ss *session) info() SessionInfo {
	ss.mu.Lock()
	defer ss.mu.Unlock()
	return SessionInfo{
		ID:       ss.id,
		Username: ss.username,
		Remote:   ss.conn.RemoteAddr(),
		State:    ss.state.String(),
	}
}

// serveConn ведет соединение от рукопожатия до закрытия.
func (s *Server) serveConn(ctx context.Context, conn transport) {
	ss := s.newSession(conn)
	s.track(ss)
	stop := context.AfterFunc(ctx, func() { _ = conn.Close() })
	defer stop()
	defer func() {
		_ = conn.Close()
		ss.setState(StateClosed)
		s.untrack(ss)
	}()

	ss.log.Debug("Client connected")

	ss.setState(StateAuthenticating)
	if !ss.handshake() {
		return
	}
	defer ss.release()

	ss.readLoop(ctx)
}

// handshake ждет {"username": ...} и резервирует имя в мире.
func (ss *session) handshake() bool {
	s := ss.srv
	if err := ss.conn.SetReadDeadline(time.Now().Add(s.cfg.HandshakeTimeout)); err != nil {
		ss.log.WithError(err).Warn("failed to set handshake deadline")
	}

	frame, err := ss.conn.ReadFrame()
	if err != nil {
		ss.log.WithError(err).Debug("Handshake failed")
		return false
	}

	var hs api.Handshake
	if err := json.Unmarshal(frame, &hs); err != nil {
		hs = api.Handshake{}
	}

	if _, err := s.world.Join(hs.Username); err != nil {
		key := i18n.MsgUsernameRequired
		if errors.Is(err, domain.ErrUsernameTaken) {
			key = i18n.MsgUsernameTaken
		}
		ss.log.WithError(err).WithField("username", hs.Username).Info("Handshake rejected")
		if werr := ss.conn.WriteJSON(api.Error(s.loc.Text(domain.DefaultLocale, key))); werr != nil {
			ss.log.WithError(werr).Debug("write handshake error failed")
		}
		return false
	}

	ss.mu.Lock()
	ss.username = hs.Username
	ss.state = StateActive
	ss.mu.Unlock()
	ss.log = ss.log.WithField("username", ss.username)
	if err := ss.conn.SetReadDeadline(time.Time{}); err != nil {
		ss.log.WithError(err).Warn("failed to clear read deadline")
	}

	// welcome встает в очередь раньше подписки: ни одна рассылка его не обгонит
	ss.out <- network.Reply(api.Response{
		Type:    api.TypeWelcome,
		Message: s.loc.Text(domain.DefaultLocale, i18n.MsgWelcome, ss.username),
	})

	// Писатель стартует только после подписки и PlayerJoined: release,
	// вызванный ошибкой записи, всегда идет после Register.
	s.hub.Register(ss.username, ss.out, func() {
		ss.log.Warn("Outbound queue full, evicting")
		ss.evict()
	})
	s.hub.Broadcast(network.Notify(domain.PlayerJoined(ss.username)))

	select {
	case <-ss.done:
		return false
	default:
	}
	go ss.writeLoop()

	ss.log.Info("Player joined")
	return true
}

func (ss *session) readLoop(ctx context.Context) {
	s := ss.srv
	ctx = engine.WithSession(ctx, ss.id)

	for {
		frame, err := ss.conn.ReadFrame()
		if err != nil {
			if !errors.Is(err, io.EOF) && !errors.Is(err, net.ErrClosed) {
				ss.log.WithError(err).Debug("Read failed")
			}
			return
		}

		// Лишние команды ждут своей очереди, а не отклоняются
		if err := ss.limiter.Wait(ctx); err != nil {
			return
		}

		cmd, err := api.ParseCommand(frame)
		if err != nil {
			locale := s.world.Locale(ss.username)
			if !ss.enqueue(network.Reply(api.Error(s.loc.Text(locale, i18n.ErrInvalidFormat)))) {
				return
			}
			continue
		}

		res := s.disp.Dispatch(ctx, ss.username, cmd)
		if !ss.enqueue(network.Reply(res.Reply)) {
			return
		}
		for _, ev := range res.Broadcasts {
			s.hub.Broadcast(network.Notify(ev))
		}
	}
}

// enqueue ставит ответ в собственную очередь. Ждет, пока писатель
// освободит место; false значит, что сессия уже закрывается.
func (ss *session) enqueue(msg network.Outbound) bool {
	select {
	case ss.out <- msg:
		return true
	case <-ss.done:
		return false
	}
}

// writeLoop отправляет очередь клиенту. События переводятся на язык
// получателя в момент отправки.
func (ss *session) writeLoop() {
	s := ss.srv
	for {
		select {
		case <-ss.done:
			return
		case msg := <-ss.out:
			var resp api.Response
			switch {
			case msg.Reply != nil:
				resp = *msg.Reply
			case msg.Event != nil:
				resp = s.loc.Render(s.world.Locale(ss.username), *msg.Event)
			default:
				continue
			}

			if err := ss.conn.WriteJSON(resp); err != nil {
				ss.log.WithError(err).Debug("Write failed")
				ss.evict()
				return
			}
		}
	}
}

// release снимает игрока с рассылки и из мира. Выполняется ровно один раз,
// кто бы ни закрыл сессию первым: читатель, писатель или хаб.
func (ss *session) release() {
	ss.releaseOnce.Do(func() {
		s := ss.srv
		close(ss.done)
		s.hub.Unregister(ss.username, ss.out)
		if s.world.Leave(ss.username) {
			s.hub.Broadcast(network.Notify(domain.PlayerLeft(ss.username)))
		}
		ss.log.Info("Player left")
	})
}

// evict закрывает сессию снаружи: после release читатель упадет на закрытом соединении.
func (ss *session) evict() {
	ss.release()
	if err := ss.conn.Close(); err != nil {
		ss.log.WithError(err).Debug("close after evict")
	}
}
