package service

import (
	"errors"
	"testing"
	"time"

	"github.com/Ruscigno/StockPulse/model"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

// unreachableFeed simulates a provider that cannot be contacted.
type unreachableFeed struct{}

func (unreachableFeed) DownloadMarketData(symbol string, startTime time.Time, endTime *time.Time) (*model.MarketData, error) {
	return nil, errors.New("feed unreachable")
}

func (unreachableFeed) GetServerTimeZone() (string, error) {
	return "", errors.New("feed unreachable")
}

func TestCheckFeedDegradesWhenProviderUnreachable(t *testing.T) {
	h := &healthService{feed: unreachableFeed{}, logger: zap.NewNop(), startTime: time.Now()}

	component := h.checkFeed()
	assert.Equal(t, "market_data_feed", component.Name)
	assert.Equal(t, HealthStatusDegraded, component.Status)
	assert.Contains(t, component.Message, "unreachable")
}

func TestCheckFeedHealthyWhenProviderResponds(t *testing.T) {
	h := &healthService{feed: &mockFeed{}, logger: zap.NewNop(), startTime: time.Now()}

	component := h.checkFeed()
	assert.Equal(t, HealthStatusHealthy, component.Status)
}

func TestDetermineOverallStatusRollup(t *testing.T) {
	h := &healthService{logger: zap.NewNop()}

	healthy := ComponentHealth{Status: HealthStatusHealthy}
	degraded := ComponentHealth{Status: HealthStatusDegraded}
	unhealthy := ComponentHealth{Status: HealthStatusUnhealthy}

	assert.Equal(t, HealthStatusHealthy, h.determineOverallStatus([]ComponentHealth{healthy, healthy}))
	assert.Equal(t, HealthStatusDegraded, h.determineOverallStatus([]ComponentHealth{healthy, degraded}))
	assert.Equal(t, HealthStatusUnhealthy, h.determineOverallStatus([]ComponentHealth{degraded, unhealthy}))
}
