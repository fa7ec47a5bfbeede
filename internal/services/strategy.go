package services

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/claudemirLima/changeApp/internal/dto"
)

// ConversionResult is the raw outcome of a strategy before risk analysis.
type ConversionResult struct {
	ConvertedAmount decimal.Decimal
	AppliedRate     decimal.Decimal
	Multiplier      decimal.Decimal
}

// ConversionStrategy converts one request shape. A strategy first declares
// whether it can handle a request; the selector picks the first one that can.
type ConversionStrategy interface {
	Name() string
	CanHandle(req *dto.ConversionRequest) bool
	Convert(ctx context.Context, req *dto.ConversionRequest) (*ConversionResult, error)
}

// StrategySelector picks strategies in registration order, so the most
// specific strategy must be registered first.
type StrategySelector struct {
	strategies []ConversionStrategy
}

func NewStrategySelector(strategies ...ConversionStrategy) *StrategySelector {
	return &StrategySelector{strategies: strategies}
}

// Select returns the first strategy able to handle the request, or nil.
func (s *StrategySelector) Select(req *dto.ConversionRequest) ConversionStrategy {
	for _, strategy := range s.strategies {
		if strategy.CanHandle(req) {
			return strategy
		}
	}
	return nil
}
