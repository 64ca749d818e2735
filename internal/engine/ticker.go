package engine

import (
	"context"
	"mood-server/internal/domain"
	"mood-server/internal/network"
	"mood-server/internal/telemetry"
	"mood-server/pkg/logger"
	"time"

	"github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

// Notifier - то, что тикер умеет делать с рассылкой.
// *network.Broadcaster реализует его.
type Notifier interface {
	Broadcast(msg network.Outbound)
	SendTo(username string, msg network.Outbound) bool
}

// Ticker периодически двигает одного монстра.
type Ticker struct {
	world    *domain.World
	hub      Notifier
	interval time.Duration
	tracer   trace.Tracer
}

func NewTicker(world *domain.World, hub Notifier, interval time.Duration) *Ticker {
	return &Ticker{
		world:    world,
		hub:      hub,
		interval: interval,
		tracer:   telemetry.Tracer("mood-server/engine"),
	}
}

// Run тикает до отмены контекста.
// time.Ticker сам выбрасывает пропущенные тики, очередь не копится.
func (t *Ticker) Run(ctx context.Context) error {
	tk := time.NewTicker(t.interval)
	defer tk.Stop()

	logger.Log.WithField("interval", t.interval).Info("Monster ticker started")
	for {
		select {
		case <-ctx.Done():
			logger.Log.Info("Monster ticker stopped")
			return nil
		case <-tk.C:
			t.Tick(ctx)
		}
	}
}

// Tick делает один шаг. Возвращает true, если монстр сдвинулся.
func (t *Ticker) Tick(ctx context.Context) bool {
	_, span := t.tracer.Start(ctx, "tick")
	defer span.End()

	mv, met := t.world.TickOnce()
	if mv == nil {
		return false
	}
	span.SetAttributes(
		attribute.String("mood.monster", mv.Monster.Name),
		attribute.Int("mood.encounters", len(met)),
	)

	logger.Log.WithFields(logrus.Fields{
		"monster":   mv.Monster.Name,
		"from":      mv.From,
		"to":        mv.To,
		"direction": mv.Direction.String(),
	}).Debug("Monster moved")

	t.hub.Broadcast(network.Notify(domain.MonsterMoved(*mv)))
	for _, username := range met {
		t.hub.SendTo(username, network.Notify(domain.Encounter(mv.Monster)))
	}
	return true
}
