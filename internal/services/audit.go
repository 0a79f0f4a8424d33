package waste

import (
	"context"
	"fmt"

	model "github.com/Anit-Biswas/Waste-management-website/internal/models"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"go.uber.org/zap"
)

var eventsAuditedTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Name: "waste_events_audited_total",
		Help: "Кол-во проверенных событий",
	},
	[]string{"kind"},
)

// Auditor - журнал событий, прочитанных из Kafka
type Auditor struct {
	logger *zap.Logger
}

func NewAuditor(logger *zap.Logger) *Auditor {
	return &Auditor{logger}
}

func (a *Auditor) Audit(ctx context.Context, event model.Event) error {
	switch event.Kind {
	case model.EventNotification, model.EventTicket:
	default:
		return fmt.Errorf("event %d: unknown kind %q", event.ID, event.Kind)
	}
	if event.UID == 0 {
		return fmt.Errorf("event %d: no user", event.ID)
	}
	eventsAuditedTotal.WithLabelValues(event.Kind).Inc()
	a.logger.Info("audit",
		zap.String("kind", event.Kind),
		zap.Int64("id", event.ID),
		zap.Int64("uid", event.UID),
		zap.String("text", event.Text),
		zap.Int64("ts", event.TS),
	)
	return nil
}
