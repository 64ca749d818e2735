package agent

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"mood-server/pkg/api"
	"mood-server/pkg/logger"
	"net"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
)

// ErrTimeout - за отведенное время не пришло подходящего сообщения.
var ErrTimeout = errors.New("agent: timed out waiting for message")

// Bot - внешний клиент строкового протокола (headless-игрок).
// Подключается так же, как обычный игрок: строка рукопожатия,
// дальше по JSON-объекту на строку в обе стороны.
//
// Жизненный цикл:
//  1. Dial -> соединение и рукопожатие, первый ответ сервера.
//  2. Фоновый читатель складывает ответы в Inbox.
//  3. Команды отправляются хелперами Move, Attack, SayAll и т.д.
//  4. Close закрывает соединение; Inbox закрывается читателем.
type Bot struct {
	Username string
	Inbox    chan api.Response

	conn net.Conn
	mu   sync.Mutex // сериализует запись команд
	enc  *json.Encoder
	log  *logrus.Entry
}

// Dial подключается к addr и представляется именем username.
// Возвращает бота и первый ответ сервера (welcome или error).
// После ответа error сервер закрывает соединение.
func Dial(ctx context.Context, addr, username string) (*Bot, api.Response, error) {
	var d net.Dialer
	conn, err := d.DialContext(ctx, "tcp", addr)
	if err != nil {
		return nil, api.Response{}, fmt.Errorf("dial %s: %w", addr, err)
	}

	b := &Bot{
		Username: username,
		Inbox:    make(chan api.Response, 256),
		conn:     conn,
		enc:      json.NewEncoder(conn),
		log:      logger.Log.WithField("bot", username),
	}
	go b.readLoop()

	if err := b.Send(api.Handshake{Username: username}); err != nil {
		_ = conn.Close()
		return nil, api.Response{}, err
	}

	first, err := b.Next(handshakeWait(ctx))
	if err != nil {
		_ = conn.Close()
		return nil, api.Response{}, err
	}
	return b, first, nil
}

func handshakeWait(ctx context.Context) time.Duration {
	if deadline, ok := ctx.Deadline(); ok {
		return time.Until(deadline)
	}
	return 5 * time.Second
}

func (b *Bot) readLoop() {
	defer close(b.Inbox)

	dec := json.NewDecoder(b.conn)
	for {
		var resp api.Response
		if err := dec.Decode(&resp); err != nil {
			b.log.WithError(err).Debug("Bot connection closed")
			return
		}
		b.Inbox <- resp
	}
}

// Next ждет следующее сообщение сервера.
func (b *Bot) Next(timeout time.Duration) (api.Response, error) {
	timer := time.NewTimer(timeout)
	defer timer.Stop()

	select {
	case resp, ok := <-b.Inbox:
		if !ok {
			return api.Response{}, net.ErrClosed
		}
		return resp, nil
	case <-timer.C:
		return api.Response{}, ErrTimeout
	}
}

// WaitFor пропускает сообщения, пока match не вернет true.
func (b *Bot) WaitFor(timeout time.Duration, match func(api.Response) bool) (api.Response, error) {
	deadline := time.Now().Add(timeout)
	for {
		left := time.Until(deadline)
		if left <= 0 {
			return api.Response{}, ErrTimeout
		}
		resp, err := b.Next(left)
		if err != nil {
			return api.Response{}, err
		}
		if match(resp) {
			return resp, nil
		}
	}
}

// Send пишет один объект строкой.
func (b *Bot) Send(v any) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if err := b.enc.Encode(v); err != nil {
		return fmt.Errorf("send: %w", err)
	}
	return nil
}

// SendRaw пишет байты как есть (для проверки разбора кадров).
func (b *Bot) SendRaw(data string) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	_, err := b.conn.Write([]byte(data))
	return err
}

// --- Хелперы для отправки команд на сервер ---

type command[T any] struct {
	Type string `json:"type"`
	Body T
}

func (c command[T]) MarshalJSON() ([]byte, error) {
	head, err := json.Marshal(struct {
		Type string `json:"type"`
	}{c.Type})
	if err != nil {
		return nil, err
	}
	body, err := json.Marshal(c.Body)
	if err != nil {
		return nil, err
	}
	if string(body) == "{}" {
		return head, nil
	}
	// {"type":"..."} + ,"dx":1,... без открывающей скобки
	return append(append(head[:len(head)-1], ','), body[1:]...), nil
}

func send[T any](b *Bot, kind string, payload T) error {
	return b.Send(command[T]{Type: kind, Body: payload})
}

func (b *Bot) Move(dx, dy int) error {
	return send(b, "move", api.MovePayload{Dx: dx, Dy: dy})
}

func (b *Bot) AddMonster(x, y int, name, hello string, hp int) error {
	return send(b, "addmon", api.AddMonsterPayload{X: x, Y: y, Name: name, Hello: hello, HP: hp})
}

func (b *Bot) Attack(name, weapon string, damage int) error {
	return send(b, "attack", api.AttackPayload{Name: name, Weapon: weapon, Damage: damage})
}

func (b *Bot) SayAll(message string) error {
	return send(b, "sayall", api.SayAllPayload{Message: message})
}

func (b *Bot) Timer() error {
	return send(b, "timer", struct{}{})
}

func (b *Bot) MoveMonsters(on bool) error {
	state := "off"
	if on {
		state = "on"
	}
	return send(b, "movemonsters", api.MoveMonstersPayload{State: state})
}

func (b *Bot) Locale(locale string) error {
	return send(b, "locale", api.LocalePayload{Locale: locale})
}

func (b *Bot) Help(topic string) error {
	return send(b, "help", api.HelpPayload{Command: topic})
}

// Close разрывает соединение; сервер увидит EOF.
func (b *Bot) Close() error {
	return b.conn.Close()
}
