package service

import (
	"context"
	"time"

	"github.com/Ruscigno/StockPulse/feed"
	"github.com/Ruscigno/StockPulse/pkg/database"
	"go.uber.org/zap"
)

// HealthStatus represents the health status of a component
type HealthStatus string

const (
	HealthStatusHealthy   HealthStatus = "healthy"
	HealthStatusUnhealthy HealthStatus = "unhealthy"
	HealthStatusDegraded  HealthStatus = "degraded"
)

// ComponentHealth represents the health of a single component
type ComponentHealth struct {
	Name      string       `json:"name"`
	Status    HealthStatus `json:"status"`
	Message   string       `json:"message,omitempty"`
	Timestamp time.Time    `json:"timestamp"`
	Duration  string       `json:"duration,omitempty"`
}

// HealthResponse represents the overall health response
type HealthResponse struct {
	Status     HealthStatus      `json:"status"`
	Timestamp  time.Time         `json:"timestamp"`
	Version    string            `json:"version"`
	Components []ComponentHealth `json:"components"`
	Uptime     string            `json:"uptime"`
}

// Pinger is a component that can report its own connectivity.
type Pinger interface {
	Health(ctx context.Context) error
}

// HealthService defines the health check service interface
type HealthService interface {
	CheckHealth(ctx context.Context) HealthResponse
}

// healthService implements the HealthService interface
type healthService struct {
	db        *database.DB
	cache     Pinger
	ratings   Pinger
	feed      feed.FeedConsumer
	logger    *zap.Logger
	startTime time.Time
	version   string
}

// NewHealthService creates a new health service. cache and ratings may be
// nil when the corresponding backend is not configured.
func NewHealthService(db *database.DB, cache, ratings Pinger, consumer feed.FeedConsumer, logger *zap.Logger, version string) HealthService {
	return &healthService{
		db:        db,
		cache:     cache,
		ratings:   ratings,
		feed:      consumer,
		logger:    logger,
		startTime: time.Now(),
		version:   version,
	}
}

// CheckHealth performs a comprehensive health check
func (h *healthService) CheckHealth(ctx context.Context) HealthResponse {
	start := time.Now()

	components := []ComponentHealth{h.checkDatabase(ctx)}
	if h.cache != nil {
		components = append(components, h.checkPinger(ctx, "cache", h.cache))
	}
	if h.ratings != nil {
		components = append(components, h.checkPinger(ctx, "ratings_store", h.ratings))
	}
	components = append(components, h.checkFeed())

	overallStatus := h.determineOverallStatus(components)

	response := HealthResponse{
		Status:     overallStatus,
		Timestamp:  time.Now(),
		Version:    h.version,
		Components: components,
		Uptime:     time.Since(h.startTime).String(),
	}

	h.logger.Info("Health check completed",
		zap.String("status", string(overallStatus)),
		zap.Duration("duration", time.Since(start)),
		zap.Int("components", len(components)))

	return response
}

// checkDatabase checks the database health
func (h *healthService) checkDatabase(ctx context.Context) ComponentHealth {
	start := time.Now()

	component := ComponentHealth{
		Name:      "database",
		Timestamp: time.Now(),
	}

	if h.db == nil {
		component.Status = HealthStatusUnhealthy
		component.Message = "Database connection not initialized"
		return component
	}

	if err := h.db.Health(ctx); err != nil {
		component.Status = HealthStatusUnhealthy
		component.Message = err.Error()
		h.logger.Error("Database health check failed", zap.Error(err))
		return component
	}

	stats := h.db.GetStats()
	if stats.OpenConnections > stats.MaxOpenConnections*8/10 { // 80% threshold
		component.Status = HealthStatusDegraded
		component.Message = "High connection usage"
	} else {
		component.Status = HealthStatusHealthy
		component.Message = "Database is healthy"
	}

	component.Duration = time.Since(start).String()
	return component
}

func (h *healthService) checkPinger(ctx context.Context, name string, p Pinger) ComponentHealth {
	start := time.Now()

	component := ComponentHealth{
		Name:      name,
		Timestamp: time.Now(),
	}

	if err := p.Health(ctx); err != nil {
		component.Status = HealthStatusUnhealthy
		component.Message = err.Error()
		h.logger.Error("Component health check failed", zap.String("component", name), zap.Error(err))
	} else {
		component.Status = HealthStatusHealthy
	}

	component.Duration = time.Since(start).String()
	return component
}

// checkFeed verifies the market data provider responds at all. A failure
// degrades the service rather than marking it unhealthy, since cached
// insights remain servable.
func (h *healthService) checkFeed() ComponentHealth {
	start := time.Now()

	component := ComponentHealth{
		Name:      "market_data_feed",
		Timestamp: time.Now(),
	}

	if _, err := h.feed.GetServerTimeZone(); err != nil {
		component.Status = HealthStatusDegraded
		component.Message = err.Error()
	} else {
		component.Status = HealthStatusHealthy
	}

	component.Duration = time.Since(start).String()
	return component
}

// determineOverallStatus determines the overall health status based on component statuses
func (h *healthService) determineOverallStatus(components []ComponentHealth) HealthStatus {
	hasUnhealthy := false
	hasDegraded := false

	for _, component := range components {
		switch component.Status {
		case HealthStatusUnhealthy:
			hasUnhealthy = true
		case HealthStatusDegraded:
			hasDegraded = true
		}
	}

	if hasUnhealthy {
		return HealthStatusUnhealthy
	}
	if hasDegraded {
		return HealthStatusDegraded
	}
	return HealthStatusHealthy
}
