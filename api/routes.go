package api

import (
	"github.com/Ruscigno/StockPulse/scraper/storage"
	"github.com/Ruscigno/StockPulse/scraper/worker"
	"github.com/gin-gonic/gin"
)

func SetupRouter(store *storage.MongoStorage, queue *worker.WorkQueue) *gin.Engine {
	r := gin.Default()
	h := NewHandler(store, queue)

	r.POST("/jobs", h.StartJob)
	r.GET("/ratings/:symbol", h.GetRatings)

	return r
}
