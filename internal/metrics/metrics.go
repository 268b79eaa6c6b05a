package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"outcome-book/internal/engine"
	"outcome-book/internal/models"
)

// Metrics holds all matching metrics.
type Metrics struct {
	// Order metrics
	OrdersSubmitted *prometheus.CounterVec
	OrdersRejected  prometheus.Counter
	OrdersFilled    prometheus.Counter
	OrdersRested    prometheus.Counter
	MarketDiscarded prometheus.Counter
	RestingOrders   *prometheus.GaugeVec

	// Trade metrics
	TradesTotal prometheus.Counter
	TradeVolume *prometheus.CounterVec
	TradeValue  *prometheus.CounterVec

	// Engine metrics
	BooksActive  prometheus.Gauge
	MatchLatency prometheus.Histogram
}

// NewMetrics creates all matching metrics and registers them with reg.
func NewMetrics(namespace string, reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)

	return &Metrics{
		OrdersSubmitted: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "orders_submitted_total",
				Help:      "Total number of orders accepted by the engine",
			},
			[]string{"side", "type"},
		),
		OrdersRejected: factory.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "orders_rejected_total",
				Help:      "Total number of orders rejected before matching",
			},
		),
		OrdersFilled: factory.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "orders_filled_total",
				Help:      "Total number of orders completely filled, as taker or maker",
			},
		),
		OrdersRested: factory.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "orders_rested_total",
				Help:      "Total number of limit orders that came to rest in a book",
			},
		),
		MarketDiscarded: factory.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "market_remainder_discarded_contracts_total",
				Help:      "Contracts left unfilled on market orders",
			},
		),
		RestingOrders: factory.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Name:      "orderbook_resting_orders",
				Help:      "Number of resting orders per book and side",
			},
			[]string{"market", "outcome", "side"},
		),

		TradesTotal: factory.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "trades_total",
				Help:      "Total number of trades executed",
			},
		),
		TradeVolume: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "trade_volume_contracts_total",
				Help:      "Contracts traded per book",
			},
			[]string{"market", "outcome"},
		),
		TradeValue: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "trade_value_total",
				Help:      "Traded value (price times quantity) per book",
			},
			[]string{"market", "outcome"},
		),

		BooksActive: factory.NewGauge(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Name:      "orderbooks_active",
				Help:      "Number of order books held by the engine",
			},
		),
		MatchLatency: factory.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "match_duration_seconds",
				Help:      "Time spent in a single submission",
				Buckets:   []float64{0.000001, 0.000005, 0.00001, 0.00005, 0.0001, 0.0005, 0.001, 0.005, 0.01},
			},
		),
	}
}

func bookLabels(key models.BookKey) (string, string) {
	return strconv.FormatInt(int64(key.MarketID), 10), strconv.FormatInt(int64(key.OutcomeID), 10)
}

// RecordSubmission records the order-level outcome of one submission.
func (m *Metrics) RecordSubmission(res *engine.MatchResult, elapsed time.Duration) {
	taker := res.Taker
	m.OrdersSubmitted.WithLabelValues(taker.Side.String(), taker.Type.String()).Inc()
	m.MatchLatency.Observe(elapsed.Seconds())

	if taker.IsFilled() {
		m.OrdersFilled.Inc()
	}
	for i := range res.Makers {
		if res.Makers[i].IsFilled() {
			m.OrdersFilled.Inc()
		}
	}

	if res.Rested {
		m.OrdersRested.Inc()
	} else if taker.Type == models.TypeMarket {
		m.MarketDiscarded.Add(float64(taker.Remaining()))
	}
}

// RecordRejected records an order that failed engine preconditions.
func (m *Metrics) RecordRejected() {
	m.OrdersRejected.Inc()
}

// RecordTrade records a trade execution.
func (m *Metrics) RecordTrade(trade models.Trade) {
	market, outcome := bookLabels(trade.Key())
	value, _ := trade.Notional().Float64()

	m.TradesTotal.Inc()
	m.TradeVolume.WithLabelValues(market, outcome).Add(float64(trade.Quantity))
	m.TradeValue.WithLabelValues(market, outcome).Add(value)
}

// RecordBook refreshes the gauges describing one book.
func (m *Metrics) RecordBook(ob *engine.OrderBook) {
	market, outcome := bookLabels(ob.Key())
	m.RestingOrders.WithLabelValues(market, outcome, "bid").Set(float64(ob.RestingCount(models.SideBuy)))
	m.RestingOrders.WithLabelValues(market, outcome, "ask").Set(float64(ob.RestingCount(models.SideSell)))
}

// RecordEngine refreshes engine-wide gauges.
func (m *Metrics) RecordEngine(e *engine.MatchingEngine) {
	m.BooksActive.Set(float64(e.BookCount()))
}
