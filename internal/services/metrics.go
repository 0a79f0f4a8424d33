package waste

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// метрики

var (
	operationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "waste_operations_total",
			Help: "Кол-во операций по результату",
		},
		[]string{"op", "result"},
	)

	rewardPointsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "waste_reward_points_total",
			Help: "Начислено баллов",
		},
	)

	paymentsAmountTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "waste_payments_amount_total",
			Help: "Сумма платежей",
		},
		[]string{"purpose"},
	)

	capturedKgTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "waste_captured_kg_total",
			Help: "Вес собранных отходов, кг",
		},
	)
)

func observe(op string, err error) {
	result := "ok"
	if err != nil {
		result = "error"
	}
	operationsTotal.WithLabelValues(op, result).Inc()
}
