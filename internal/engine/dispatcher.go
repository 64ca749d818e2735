package engine

import (
	"context"
	"errors"
	"fmt"
	"mood-server/internal/domain"
	"mood-server/internal/engine/handlers"
	"mood-server/internal/i18n"
	"mood-server/internal/storage"
	"mood-server/internal/telemetry"
	"mood-server/pkg/api"
	"mood-server/pkg/logger"

	"github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// Journal принимает записи о выполненных командах.
type Journal interface {
	Append(ctx context.Context, e storage.Entry) error
}

// Dispatcher превращает команду игрока в изменение мира, ответ и рассылку.
type Dispatcher struct {
	world   *domain.World
	loc     *i18n.Localizer
	journal Journal
	tracer  trace.Tracer

	chatWidth int
}

// Option настраивает Dispatcher.
type Option func(*Dispatcher)

// WithJournal включает запись команд в журнал.
func WithJournal(j Journal) Option {
	return func(d *Dispatcher) { d.journal = j }
}

// WithChatWidth ограничивает ширину реплик и приветствий монстров.
func WithChatWidth(cells int) Option {
	return func(d *Dispatcher) { d.chatWidth = cells }
}

func NewDispatcher(world *domain.World, loc *i18n.Localizer, opts ...Option) *Dispatcher {
	d := &Dispatcher{
		world:     world,
		loc:       loc,
		tracer:    telemetry.Tracer("mood-server/engine"),
		chatWidth: 200,
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

type sessionKey struct{}

// WithSession кладет id сессии в контекст для журнала и логов.
func WithSession(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, sessionKey{}, id)
}

func sessionFrom(ctx context.Context) string {
	id, _ := ctx.Value(sessionKey{}).(string)
	return id
}

var errUnknownCommand = errors.New("unknown command")

// Dispatch выполняет одну команду игрока username.
// Ошибки команды не возвращаются наружу: они уже превращены в ответ "error".
func (d *Dispatcher) Dispatch(ctx context.Context, username string, cmd api.Command) handlers.Result {
	kind := domain.ParseCommand(cmd.Type)

	ctx, span := d.tracer.Start(ctx, "dispatch "+kind.String(), trace.WithAttributes(
		attribute.String("mood.username", username),
		attribute.String("mood.command", cmd.Type),
	))
	defer span.End()

	hctx := handlers.Context{Context: ctx, Username: username, Locale: d.world.Locale(username)}

	var (
		res handlers.Result
		err error
	)
	switch kind {
	case domain.CommandMove:
		res, err = handlers.Run(hctx, cmd.Raw, d.move)
	case domain.CommandAddMonster:
		res, err = handlers.Run(hctx, cmd.Raw, d.addMonster)
	case domain.CommandAttack:
		res, err = handlers.Run(hctx, cmd.Raw, d.attack)
	case domain.CommandSayAll:
		res, err = handlers.Run(hctx, cmd.Raw, d.sayAll)
	case domain.CommandTimer:
		res, err = handlers.RunEmpty(hctx, d.timer)
	case domain.CommandMoveMonsters:
		res, err = handlers.Run(hctx, cmd.Raw, d.moveMonsters)
	case domain.CommandLocale:
		res, err = handlers.Run(hctx, cmd.Raw, d.locale)
	case domain.CommandHelp:
		res, err = handlers.Run(hctx, cmd.Raw, d.help)
	default:
		err = errUnknownCommand
	}

	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		res = handlers.Reply(d.errorReply(hctx, err))
	}
	d.record(ctx, username, cmd, err, res)
	return res
}

// rejection - ошибка проверки, у которой уже есть ключ перевода.
type rejection struct {
	key  string
	args []any
}

func (r *rejection) Error() string {
	return fmt.Sprintf(r.key, r.args...)
}

func reject(key string, args ...any) error {
	return &rejection{key: key, args: args}
}

// errorKeys сопоставляет известные ошибки с ключами сообщений.
var errorKeys = []struct {
	err error
	key string
}{
	{handlers.ErrInvalidPayload, i18n.ErrInvalidFormat},
	{errUnknownCommand, i18n.ErrUnknownCommand},
	{api.ErrZeroVector, i18n.ErrInvalidMove},
	{api.ErrStepTooLarge, i18n.ErrInvalidMove},
	{api.ErrNameRequired, i18n.ErrNameRequired},
	{api.ErrEmptyMessage, i18n.ErrEmptyMessage},
	{api.ErrInvalidState, i18n.ErrInvalidState},
	{api.ErrNegativeDamage, i18n.ErrInvalidDamage},
	{domain.ErrInvalidDamage, i18n.ErrInvalidDamage},
	{domain.ErrOutOfBounds, i18n.ErrOutOfBounds},
	{domain.ErrInvalidHitpoints, i18n.ErrInvalidHitpoints},
	{domain.ErrPlayerNotFound, i18n.ErrPlayerNotFound},
}

func (d *Dispatcher) errorReply(ctx handlers.Context, err error) api.Response {
	var r *rejection
	if errors.As(err, &r) {
		return api.Error(d.loc.Text(ctx.Locale, r.key, r.args...))
	}
	for _, e := range errorKeys {
		if errors.Is(err, e.err) {
			return api.Error(d.loc.Text(ctx.Locale, e.key))
		}
	}

	logger.Log.WithError(err).WithField("username", ctx.Username).Error("Unexpected command error")
	return api.Error(d.loc.Text(ctx.Locale, i18n.ErrInternal))
}

func (d *Dispatcher) record(ctx context.Context, username string, cmd api.Command, cmdErr error, res handlers.Result) {
	entry := logger.Log.WithFields(logrus.Fields{
		"session":  sessionFrom(ctx),
		"username": username,
		"command":  cmd.Type,
		"reply":    res.Reply.Type,
	})
	if cmdErr != nil {
		entry.WithError(cmdErr).Debug("Command rejected")
	} else {
		entry.Debug("Command applied")
	}

	if d.journal == nil {
		return
	}
	e := storage.Entry{
		Session:  sessionFrom(ctx),
		Username: username,
		Command:  cmd.Type,
		Payload:  string(cmd.Raw),
		Outcome:  storage.OutcomeOK,
	}
	if e.Command == "" {
		e.Command = domain.CommandUnknown.String()
	}
	if cmdErr != nil {
		e.Outcome = storage.OutcomeRejected
		e.Detail = res.Reply.Message
	}
	// Журнал вспомогательный: его ошибка не отменяет уже примененную команду
	if err := d.journal.Append(context.WithoutCancel(ctx), e); err != nil {
		logger.Log.WithError(err).Warn("Failed to journal command")
	}
}
