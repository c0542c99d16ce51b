package valuation

import (
	"context"

	"github.com/rs/zerolog"
	"github.com/simaogato/networth-backend/internal/domain"
)

// Service fetches the quotes a valuation needs.
// It is the only impure part of the package: ValueHoldings itself never touches the network.
type Service struct {
	provider domain.QuoteProvider
	log      zerolog.Logger
}

// NewService creates a new valuation Service
func NewService(provider domain.QuoteProvider, log zerolog.Logger) *Service {
	return &Service{
		provider: provider,
		log:      log.With().Str("service", "valuation").Logger(),
	}
}

// Quotes fetches each distinct holding symbol once, plus the FX pair when a holding is
// quoted in a foreign currency. Missing quotes are logged and left out of the returned
// lookup so that ValueHoldings degrades them to zero.
func (s *Service) Quotes(ctx context.Context, holdings []domain.Holding, fxSymbol string) (domain.QuoteFunc, domain.Rate) {
	quotes := make(map[string]domain.Quote, len(holdings))
	needFX := false

	for _, h := range holdings {
		if h.IsForeign() {
			needFX = true
		}
		if _, done := quotes[h.Symbol]; done {
			continue
		}
		q, ok := s.provider.GetQuote(ctx, h.Symbol, h.IntervalHint())
		if !ok || !q.Usable() {
			s.log.Warn().Str("symbol", h.Symbol).Msg("Quote unavailable, valuing holding at zero")
			continue
		}
		quotes[h.Symbol] = q
	}

	rate := domain.UnavailableRate
	if needFX && fxSymbol != "" {
		q, ok := s.provider.GetQuote(ctx, fxSymbol, domain.IntervalIntraday)
		rate = domain.RateFromQuote(q, ok)
		if !rate.Available {
			s.log.Warn().Str("symbol", fxSymbol).Msg("FX rate unavailable, foreign holdings valued at zero")
		}
	}

	lookup := func(symbol string) (domain.Quote, bool) {
		q, ok := quotes[symbol]
		return q, ok
	}
	return lookup, rate
}

// Value fetches quotes and values the holdings in one call
func (s *Service) Value(ctx context.Context, holdings []domain.Holding, fxSymbol string) (Valuation, domain.Rate) {
	quoteFn, rate := s.Quotes(ctx, holdings, fxSymbol)
	return ValueHoldings(holdings, quoteFn, rate), rate
}
