package httpserver

import (
	"context"

	"github.com/rs/zerolog/log"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/metric/noop"

	"github.com/robalobadob/battleship/internal/game"
)

const instrumentationName = "github.com/robalobadob/battleship/internal/httpserver"

func meter() metric.Meter {
	return otel.Meter(instrumentationName)
}

// metrics counts game activity. Without a configured MeterProvider the
// global one discards everything.
type metrics struct {
	shots    metric.Int64Counter
	started  metric.Int64Counter
	finished metric.Int64Counter
}

func newMetrics() *metrics {
	m := meter()
	fallback := noop.Int64Counter{}
	counter := func(name, desc string) metric.Int64Counter {
		c, err := m.Int64Counter(name, metric.WithDescription(desc))
		if err != nil {
			log.Warn().Err(err).Str("metric", name).Msg("create counter")
			return fallback
		}
		return c
	}
	return &metrics{
		shots:    counter("battleship.shots", "Shots fired, by result"),
		started:  counter("battleship.games.started", "Fields generated for play"),
		finished: counter("battleship.games.finished", "Games that ended with every ship sunk"),
	}
}

// shotResult classifies the shot at (x, y) that turned prev into next.
func shotResult(prev, next game.GameState, x, y int) string {
	if next.Same(prev) {
		return "repeat"
	}
	if c, ok := next.Player.Grid.Cell(x, y); ok && c.State == game.CellHit {
		return "hit"
	}
	return "miss"
}

func (m *metrics) shot(ctx context.Context, prev, next game.GameState, x, y int) {
	m.shots.Add(ctx, 1, metric.WithAttributes(attribute.String("result", shotResult(prev, next, x, y))))
}

func (m *metrics) startedGame(ctx context.Context) { m.started.Add(ctx, 1) }

func (m *metrics) finishedGame(ctx context.Context) { m.finished.Add(ctx, 1) }
