// Package fees models the exchange trading fee:
//
//	fee = ceil(multiplier * contracts * p * (1-p) * 100) / 100
//
// The cent ceiling is taken on exact decimals so values that land on a whole
// cent (p=0.5, 100 contracts) are not pushed up by binary float error.
package fees

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/alanyoungcy/kalshiedge/internal/domain"
)

const (
	DefaultTakerMultiplier = 0.07
	DefaultMakerMultiplier = 0.0175
)

var hundred = decimal.NewFromInt(100)

// Model holds the taker and maker fee multipliers.
type Model struct {
	taker decimal.Decimal
	maker decimal.Decimal
}

// NewModel creates a fee model. Both multipliers must lie in (0, 1).
func NewModel(taker, maker float64) (*Model, error) {
	if !ValidMultiplier(taker) {
		return nil, fmt.Errorf("fees: taker multiplier %v outside (0, 1)", taker)
	}
	if !ValidMultiplier(maker) {
		return nil, fmt.Errorf("fees: maker multiplier %v outside (0, 1)", maker)
	}
	return &Model{
		taker: decimal.NewFromFloat(taker),
		maker: decimal.NewFromFloat(maker),
	}, nil
}

// ValidMultiplier reports whether m is usable as a fee multiplier.
func ValidMultiplier(m float64) bool {
	return m > 0 && m < 1
}

// DefaultModel uses the standard 0.07 taker and 0.0175 maker multipliers.
func DefaultModel() *Model {
	return &Model{
		taker: decimal.NewFromFloat(DefaultTakerMultiplier),
		maker: decimal.NewFromFloat(DefaultMakerMultiplier),
	}
}

func (m *Model) raw(price float64, contracts int, maker bool) (decimal.Decimal, error) {
	if !(price > 0 && price < 1) {
		return decimal.Zero, fmt.Errorf("fee at price %v: %w", price, domain.ErrInvalidPrice)
	}
	if contracts <= 0 {
		return decimal.Zero, fmt.Errorf("fee for %d contracts: %w", contracts, domain.ErrInvalidContracts)
	}
	mult := m.taker
	if maker {
		mult = m.maker
	}
	p := decimal.NewFromFloat(price)
	return mult.
		Mul(decimal.NewFromInt(int64(contracts))).
		Mul(p).
		Mul(decimal.NewFromInt(1).Sub(p)), nil
}

// Fee returns the total fee in dollars for buying contracts at price,
// rounded up to the next cent.
func (m *Model) Fee(price float64, contracts int, maker bool) (float64, error) {
	r, err := m.raw(price, contracts, maker)
	if err != nil {
		return 0, err
	}
	return r.Mul(hundred).Ceil().Div(hundred).InexactFloat64(), nil
}

// RawFee is the fee before cent rounding.
func (m *Model) RawFee(price float64, contracts int, maker bool) (float64, error) {
	r, err := m.raw(price, contracts, maker)
	if err != nil {
		return 0, err
	}
	return r.InexactFloat64(), nil
}

// EffectiveCost is the all-in dollar cost of a position: price times
// contracts plus the rounded fee.
func (m *Model) EffectiveCost(price float64, contracts int, maker bool) (float64, error) {
	fee, err := m.Fee(price, contracts, maker)
	if err != nil {
		return 0, err
	}
	return decimal.NewFromFloat(price).
		Mul(decimal.NewFromInt(int64(contracts))).
		Add(decimal.NewFromFloat(fee)).
		InexactFloat64(), nil
}
