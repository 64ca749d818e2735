package server

import (
	"encoding/json"
	"fmt"
	"net"
	"time"
)

// transport - соединение, по которому ходит сессия.
// TCP разбирает строки, websocket получает объект целым кадром.
type transport interface {
	// ReadFrame возвращает один JSON-объект от клиента.
	ReadFrame() ([]byte, error)
	// WriteJSON пишет один объект с дедлайном записи.
	WriteJSON(v any) error
	// SetReadDeadline ограничивает ожидание следующего кадра; нулевое время снимает ограничение.
	SetReadDeadline(t time.Time) error
	RemoteAddr() string
	Close() error
}

type tcpTransport struct {
	conn         net.Conn
	frames       *framer
	writeTimeout time.Duration
}

func newTCPTransport(conn net.Conn, maxFrame int, writeTimeout time.Duration) *tcpTransport {
	return &tcpTransport{
		conn:         conn,
		frames:       newFramer(conn, maxFrame),
		writeTimeout: writeTimeout,
	}
}

func (t *tcpTransport) ReadFrame() ([]byte, error) {
	return t.frames.Next()
}

func (t *tcpTransport) WriteJSON(v any) error {
	b, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("marshal response: %w", err)
	}
	b = append(b, '\n')

	if err := t.conn.SetWriteDeadline(time.Now().Add(t.writeTimeout)); err != nil {
		return err
	}
	_, err = t.conn.Write(b)
	return err
}

func (t *tcpTransport) SetReadDeadline(deadline time.Time) error {
	return t.conn.SetReadDeadline(deadline)
}

func (t *tcpTransport) RemoteAddr() string {
	return t.conn.RemoteAddr().String()
}

func (t *tcpTransport) Close() error {
	return t.conn.Close()
}
