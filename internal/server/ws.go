package server

import (
	"bytes"
	"mood-server/pkg/logger"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

// Настройки WebSocket
const (
	pongWait   = 60 * time.Second
	pingPeriod = (pongWait * 9) / 10
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

// wsTransport - сессия поверх websocket: один объект на текстовый кадр.
type wsTransport struct {
	conn         *websocket.Conn
	writeTimeout time.Duration

	stop      chan struct{}
	closeOnce sync.Once
}

func newWSTransport(conn *websocket.Conn, maxFrame int, writeTimeout time.Duration) *wsTransport {
	t := &wsTransport{
		conn:         conn,
		writeTimeout: writeTimeout,
		stop:         make(chan struct{}),
	}
	conn.SetReadLimit(int64(maxFrame))
	conn.SetPongHandler(func(string) error {
		if err := conn.SetReadDeadline(time.Now().Add(pongWait)); err != nil {
			logger.Log.WithError(err).Warn("failed to set pong read deadline")
		}
		return nil
	})
	go t.pingLoop()
	return t
}

func (t *wsTransport) ReadFrame() ([]byte, error) {
	for {
		_, data, err := t.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				logger.Log.WithError(err).Debug("WS read error")
			}
			return nil, err
		}
		if data = bytes.TrimSpace(data); len(data) > 0 {
			return data, nil
		}
	}
}

func (t *wsTransport) WriteJSON(v any) error {
	if err := t.conn.SetWriteDeadline(time.Now().Add(t.writeTimeout)); err != nil {
		return err
	}
	return t.conn.WriteJSON(v)
}

// SetReadDeadline с нулевым временем возвращает обычный режим: ждем понга.
func (t *wsTransport) SetReadDeadline(deadline time.Time) error {
	if deadline.IsZero() {
		deadline = time.Now().Add(pongWait)
	}
	return t.conn.SetReadDeadline(deadline)
}

func (t *wsTransport) RemoteAddr() string {
	return t.conn.RemoteAddr().String()
}

func (t *wsTransport) Close() error {
	var err error
	t.closeOnce.Do(func() {
		close(t.stop)
		msg := websocket.FormatCloseMessage(websocket.CloseNormalClosure, "")
		if werr := t.conn.WriteControl(websocket.CloseMessage, msg, time.Now().Add(t.writeTimeout)); werr != nil {
			logger.Log.WithError(werr).Debug("write close message failed")
		}
		err = t.conn.Close()
	})
	return err
}

// pingLoop держит соединение живым. WriteControl можно звать
// параллельно с WriteJSON писателя сессии.
func (t *wsTransport) pingLoop() {
	ticker := time.NewTicker(pingPeriod)
	defer ticker.Stop()

	for {
		select {
		case <-t.stop:
			return
		case <-ticker.C:
			if err := t.conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(t.writeTimeout)); err != nil {
				logger.Log.WithError(err).Debug("ping failed")
				return
			}
		}
	}
}

// handleWS поднимает сессию поверх websocket
func (s *Server) handleWS(w http.ResponseWriter, r *http.Request) {
	if s.stopping() {
		http.Error(w, "server is shutting down", http.StatusServiceUnavailable)
		return
	}

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		logger.Log.WithError(err).Error("Upgrade error")
		return
	}

	t := newWSTransport(conn, s.cfg.MaxFrameBytes, s.cfg.WriteTimeout)
	if !s.spawn(t) {
		_ = t.Close()
	}
}
