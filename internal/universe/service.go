package universe

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/aristath/statarb/internal/clientdata"
	"github.com/aristath/statarb/internal/domain"
)

// PriceClient fetches daily prices and validates symbols against the
// external market data source.
type PriceClient interface {
	GetDailyPrices(ctx context.Context, symbol, start, end string) (domain.PriceSeries, error)
	ValidateSymbol(ctx context.Context, symbol string) (bool, string, error)
}

// Service provides ticker reference data and cache-first price retrieval.
// The screening engine itself never touches the network or the cache; it
// receives fully fetched series through this service.
type Service struct {
	client PriceClient
	cache  *clientdata.Repository
	ttl    time.Duration
	log    zerolog.Logger
}

// NewService creates a new universe service. cache may be nil to disable
// caching (used in tests).
func NewService(client PriceClient, cache *clientdata.Repository, ttl time.Duration, log zerolog.Logger) *Service {
	return &Service{
		client: client,
		cache:  cache,
		ttl:    ttl,
		log:    log.With().Str("service", "universe").Logger(),
	}
}

// GetPriceSeries returns the daily adjusted-close series for a symbol over
// [start, end], serving from the cache when a fresh window exists.
func (s *Service) GetPriceSeries(ctx context.Context, symbol, start, end string) (domain.PriceSeries, error) {
	if s.cache != nil {
		cached, err := s.cache.GetIfFresh(symbol, start, end)
		if err != nil {
			// Cache failures are not fatal; fall through to the client
			s.log.Warn().Err(err).Str("symbol", symbol).Msg("Price cache read failed")
		} else if cached != nil {
			s.log.Debug().Str("symbol", symbol).Msg("Price cache hit")
			return *cached, nil
		}
	}

	series, err := s.client.GetDailyPrices(ctx, symbol, start, end)
	if err != nil {
		return domain.PriceSeries{}, fmt.Errorf("failed to fetch prices for %s: %w", symbol, err)
	}

	if s.cache != nil {
		if err := s.cache.Store(symbol, start, end, series, s.ttl); err != nil {
			s.log.Warn().Err(err).Str("symbol", symbol).Msg("Price cache write failed")
		}
	}

	return series, nil
}

// ValidateTicker checks a ticker against the market data source and returns
// its display name when valid.
func (s *Service) ValidateTicker(ctx context.Context, ticker string) (bool, string, error) {
	return s.client.ValidateSymbol(ctx, ticker)
}
