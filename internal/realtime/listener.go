package realtime

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"github.com/pinmark/pinmark-backend/internal/logging"
	"github.com/pinmark/pinmark-backend/internal/metrics"
	"github.com/pinmark/pinmark-backend/internal/realtime/domain"
)

// ChangeChannel is the Postgres NOTIFY channel fed by the notify_review_change trigger.
const ChangeChannel = "pinmark_changes"

const defaultReconnectDelay = 5 * time.Second

type Publisher interface {
	Publish(ctx context.Context, ev domain.ChangeEvent) error
}

// Listener holds a dedicated Postgres connection on LISTEN and forwards every
// notification to the publisher. Connection errors are retried after a fixed delay.
type Listener struct {
	dsn   string
	pub   Publisher
	delay time.Duration
}

func NewListener(dsn string, pub Publisher) *Listener {
	return &Listener{dsn: dsn, pub: pub, delay: defaultReconnectDelay}
}

// Run blocks until ctx is cancelled.
func (l *Listener) Run(ctx context.Context) error {
	log := logging.FromContext(ctx).With(zap.String("component", "change_listener"))
	for {
		err := l.listen(ctx)
		if ctx.Err() != nil {
			return nil
		}
		log.Warn("change listener disconnected, reconnecting", zap.Error(err), zap.Duration("delay", l.delay))

		select {
		case <-ctx.Done():
			return nil
		case <-time.After(l.delay):
		}
	}
}

func (l *Listener) listen(ctx context.Context) error {
	conn, err := pgx.Connect(ctx, l.dsn)
	if err != nil {
		return err
	}
	defer conn.Close(context.WithoutCancel(ctx))

	if _, err := conn.Exec(ctx, "LISTEN "+ChangeChannel); err != nil {
		return err
	}
	logging.FromContext(ctx).Info("listening for changes", zap.String("channel", ChangeChannel))

	for {
		n, err := conn.WaitForNotification(ctx)
		if err != nil {
			return err
		}
		l.handle(ctx, n.Payload)
	}
}

func (l *Listener) handle(ctx context.Context, payload string) {
	ev, err := domain.ParsePayload(payload)
	if err != nil {
		logging.FromContext(ctx).Warn("skip change notification", zap.String("payload", payload), zap.Error(err))
		return
	}
	metrics.RecordChangeEvent(ev.Table)

	if err := l.pub.Publish(ctx, ev); err != nil && !errors.Is(err, context.Canceled) {
		logging.FromContext(ctx).Error("publish change event failed",
			zap.String("table", ev.Table), zap.String("project_id", ev.ProjectID), zap.Error(err))
	}
}
