package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/luxfi/log"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"outcome-book/internal/engine"
	"outcome-book/internal/metrics"
	"outcome-book/internal/middleware"
	"outcome-book/internal/models"
)

// BookSummary is the read-only view of one book served by /books.
type BookSummary struct {
	MarketID  models.MarketID  `json:"market_id"`
	OutcomeID models.OutcomeID `json:"outcome_id"`
	Bids      int              `json:"bids"`
	Asks      int              `json:"asks"`
	BestBid   *models.Price    `json:"best_bid,omitempty"`
	BestAsk   *models.Price    `json:"best_ask,omitempty"`
	LastSeq   uint64           `json:"last_sequence"`
}

type handler struct {
	engine   *engine.MatchingEngine
	gatherer prometheus.Gatherer
	metrics  *metrics.Metrics
	services func() map[string]string
}

// RegisterRoutes wires the ops endpoints. services reports the state of
// optional collaborators for /healthz and may be nil.
func RegisterRoutes(r *gin.Engine, eng *engine.MatchingEngine, gatherer prometheus.Gatherer, m *metrics.Metrics, services func() map[string]string, logger log.Logger) {
	r.Use(gin.Recovery())
	r.Use(middleware.RequestIDMiddleware())
	r.Use(middleware.LoggingMiddleware(logger))

	h := &handler{engine: eng, gatherer: gatherer, metrics: m, services: services}

	r.GET("/healthz", h.health)
	r.GET("/books", h.listBooks)
	r.GET("/metrics", h.refresh, gin.WrapH(promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})))

	r.NoRoute(func(c *gin.Context) {
		AbortWithError(c, http.StatusNotFound, ErrCodeNotFound, "route not found")
	})
}

func (h *handler) health(c *gin.Context) {
	services := map[string]string{"engine": "healthy"}
	if h.services != nil {
		for k, v := range h.services() {
			services[k] = v
		}
	}
	c.JSON(http.StatusOK, NewHealthResponse(h.engine.BookCount(), services))
}

func (h *handler) listBooks(c *gin.Context) {
	keys := h.engine.Books()
	out := make([]BookSummary, 0, len(keys))
	for _, key := range keys {
		ob, ok := h.engine.Book(key.MarketID, key.OutcomeID)
		if !ok {
			continue
		}
		s := BookSummary{
			MarketID:  key.MarketID,
			OutcomeID: key.OutcomeID,
			Bids:      ob.RestingCount(models.SideBuy),
			Asks:      ob.RestingCount(models.SideSell),
			LastSeq:   ob.LastSequence(),
		}
		if p, _, ok := ob.BestBid(); ok {
			s.BestBid = &p
		}
		if p, _, ok := ob.BestAsk(); ok {
			s.BestAsk = &p
		}
		out = append(out, s)
	}
	c.JSON(http.StatusOK, gin.H{"books": out})
}

// refresh updates book gauges right before a scrape.
func (h *handler) refresh(c *gin.Context) {
	if h.metrics == nil {
		return
	}
	h.metrics.RecordEngine(h.engine)
	for _, key := range h.engine.Books() {
		if ob, ok := h.engine.Book(key.MarketID, key.OutcomeID); ok {
			h.metrics.RecordBook(ob)
		}
	}
}
