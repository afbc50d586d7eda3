package endpoint

import (
	"context"
	"errors"

	"github.com/Ruscigno/StockPulse/pkg/service"
	"github.com/go-kit/kit/endpoint"
)

// ChartRequest asks for the candle series of one symbol.
type ChartRequest struct {
	Symbol string
	Days   int
}

// WatchlistRequest names a symbol to add or remove.
type WatchlistRequest struct {
	Symbol string `json:"symbol"`
}

// Endpoints holds all Go-Kit endpoints.
type Endpoints struct {
	GetInsight          endpoint.Endpoint
	GetChart            endpoint.Endpoint
	GetWatchlist        endpoint.Endpoint
	AddToWatchlist      endpoint.Endpoint
	RemoveFromWatchlist endpoint.Endpoint
	CheckHealth         endpoint.Endpoint
}

// MakeEndpoints creates endpoints for the service.
func MakeEndpoints(s service.Service, h service.HealthService) Endpoints {
	return Endpoints{
		GetInsight:          makeGetInsightEndpoint(s),
		GetChart:            makeGetChartEndpoint(s),
		GetWatchlist:        makeGetWatchlistEndpoint(s),
		AddToWatchlist:      makeAddToWatchlistEndpoint(s),
		RemoveFromWatchlist: makeRemoveFromWatchlistEndpoint(s),
		CheckHealth:         makeCheckHealthEndpoint(h),
	}
}

func makeGetInsightEndpoint(s service.Service) endpoint.Endpoint {
	return func(ctx context.Context, request interface{}) (interface{}, error) {
		symbol, ok := request.(string)
		if !ok {
			return nil, errors.New("invalid request")
		}
		return s.GetInsight(ctx, symbol)
	}
}

func makeGetChartEndpoint(s service.Service) endpoint.Endpoint {
	return func(ctx context.Context, request interface{}) (interface{}, error) {
		req, ok := request.(ChartRequest)
		if !ok {
			return nil, errors.New("invalid request")
		}
		return s.GetChart(ctx, req.Symbol, req.Days)
	}
}

func makeGetWatchlistEndpoint(s service.Service) endpoint.Endpoint {
	return func(ctx context.Context, request interface{}) (interface{}, error) {
		return s.GetWatchlist(ctx)
	}
}

func makeAddToWatchlistEndpoint(s service.Service) endpoint.Endpoint {
	return func(ctx context.Context, request interface{}) (interface{}, error) {
		req, ok := request.(WatchlistRequest)
		if !ok {
			return nil, errors.New("invalid request")
		}
		return s.AddToWatchlist(ctx, req.Symbol)
	}
}

func makeRemoveFromWatchlistEndpoint(s service.Service) endpoint.Endpoint {
	return func(ctx context.Context, request interface{}) (interface{}, error) {
		req, ok := request.(WatchlistRequest)
		if !ok {
			return nil, errors.New("invalid request")
		}
		if err := s.RemoveFromWatchlist(ctx, req.Symbol); err != nil {
			return nil, err
		}
		return map[string]string{"status": "removed", "symbol": req.Symbol}, nil
	}
}

func makeCheckHealthEndpoint(h service.HealthService) endpoint.Endpoint {
	return func(ctx context.Context, request interface{}) (interface{}, error) {
		return h.CheckHealth(ctx), nil
	}
}
