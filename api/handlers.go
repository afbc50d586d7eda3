package api

import (
	"net/http"

	"github.com/Ruscigno/StockPulse/model"
	"github.com/Ruscigno/StockPulse/pkg/ratings"
	"github.com/Ruscigno/StockPulse/scraper/storage"
	"github.com/Ruscigno/StockPulse/scraper/worker"
	"github.com/Ruscigno/StockPulse/utils"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type Handler struct {
	store *storage.MongoStorage
	queue *worker.WorkQueue
}

func NewHandler(store *storage.MongoStorage, queue *worker.WorkQueue) *Handler {
	return &Handler{store: store, queue: queue}
}

type scrapeRequest struct {
	Symbol string `json:"symbol" binding:"required"`
}

// StartJob enqueues a ratings scrape for a symbol.
func (h *Handler) StartJob(c *gin.Context) {
	var req scrapeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	symbol := utils.NormalizeSymbol(req.Symbol)
	if err := utils.ValidateSymbol(symbol); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	job := &model.ScrapeJob{ID: uuid.NewString(), Symbol: symbol}
	h.queue.Enqueue(job)
	c.JSON(http.StatusAccepted, job)
}

// GetRatings returns the latest stored snapshot plus its aggregate rating.
func (h *Handler) GetRatings(c *gin.Context) {
	symbol := utils.NormalizeSymbol(c.Param("symbol"))
	if err := utils.ValidateSymbol(symbol); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	snapshot, err := h.store.LatestSnapshot(c.Request.Context(), symbol)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	if snapshot == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "no ratings for symbol"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"snapshot": snapshot,
		"rating":   ratings.Aggregate(snapshot.Recommendations, snapshot.ScrapedAt),
	})
}
