package curve

import (
	"errors"
	"fmt"

	"github.com/holiman/uint256"
)

var (
	// ErrUnknownCurve is returned when the curve type does not select a known pricing law.
	ErrUnknownCurve = errors.New("unknown curve type")
	// ErrZeroTrade is returned when a quote is requested for zero tokens.
	ErrZeroTrade = errors.New("trade amount must be greater than zero")
	// ErrSlippageExceeded is returned when the quoted SOL leg violates the caller's bound.
	ErrSlippageExceeded = errors.New("quote violates slippage bound")
	// ErrInsufficientReserves is returned when the reserves cannot source the requested size.
	ErrInsufficientReserves = errors.New("insufficient reserves for trade")
	// ErrOverflow is returned when a resulting reserve or quote does not fit in 64 bits.
	ErrOverflow = errors.New("arithmetic overflow")
)

// Type selects the pricing law applied to a pool's quotes.
type Type uint8

const (
	// TypeBootstrapped prices the first trade 1:1 with the amounts supplied and
	// every later trade at the midpoint spot rate of the trade's reserve span.
	TypeBootstrapped Type = iota
	// TypeLinear prices every trade at the current reserve ratio.
	TypeLinear
)

// String returns the human label for the curve type.
func (t Type) String() string {
	switch t {
	case TypeBootstrapped:
		return "bootstrapped"
	case TypeLinear:
		return "linear"
	default:
		return fmt.Sprintf("curve(%d)", uint8(t))
	}
}

// Valid reports whether t selects a known pricing law.
func (t Type) Valid() bool {
	return t == TypeBootstrapped || t == TypeLinear
}

// Side distinguishes the two trade directions.
type Side uint8

const (
	SideBuy Side = iota
	SideSell
)

func (s Side) String() string {
	if s == SideBuy {
		return "buy"
	}
	return "sell"
}

// Reserves is the authoritative record of what the curve believes is custodied.
// Buys grow both legs, sells shrink both legs; the zero value is an empty pool.
type Reserves struct {
	Tokens uint64 `json:"tokens"`
	Sol    uint64 `json:"sol"`
}

// IsEmpty reports whether no trade has been recorded yet.
func (r Reserves) IsEmpty() bool {
	return r.Tokens == 0 && r.Sol == 0
}

// Quote computes the SOL leg and the resulting reserves for a trade of
// `tokens` on the given side.
//
// The bound is the caller's slippage protection: the maximum SOL paid for a
// buy, the minimum SOL received for a sell. A quote outside the bound fails
// with ErrSlippageExceeded and no other error is consulted first, except that
// reserve exhaustion (ErrInsufficientReserves) takes precedence because no
// price exists at all.
//
// On empty reserves a sell fails with ErrInsufficientReserves and a buy
// bootstraps the pool: the trade is charged the full bound and the reserves
// become exactly (tokens, bound), establishing the initial ratio 1:1 with the
// amounts supplied.
//
// All arithmetic is overflow-checked; a quote or resulting reserve that does
// not fit in 64 bits fails with ErrOverflow, never a silent wraparound.
func Quote(t Type, r Reserves, side Side, tokens, bound uint64) (sol uint64, out Reserves, err error) {
	if !t.Valid() {
		return 0, Reserves{}, fmt.Errorf("%w: %d", ErrUnknownCurve, uint8(t))
	}
	if tokens == 0 {
		return 0, Reserves{}, ErrZeroTrade
	}

	switch side {
	case SideBuy:
		return quoteBuy(t, r, tokens, bound)
	case SideSell:
		return quoteSell(t, r, tokens, bound)
	default:
		return 0, Reserves{}, fmt.Errorf("unknown trade side %d", uint8(side))
	}
}

func quoteBuy(t Type, r Reserves, tokens, maxSol uint64) (uint64, Reserves, error) {
	if r.IsEmpty() {
		// Bootstrap trade: the supplied amounts set the initial ratio.
		return maxSol, Reserves{Tokens: tokens, Sol: maxSol}, nil
	}

	var solIn uint64
	var err error
	switch t {
	case TypeBootstrapped:
		solIn, err = midpointBuy(r.Sol, tokens, r.Tokens)
	case TypeLinear:
		solIn, err = mulDivCeil(r.Sol, tokens, r.Tokens)
	}
	if err != nil {
		return 0, Reserves{}, err
	}
	if solIn > maxSol {
		return 0, Reserves{}, fmt.Errorf("%w: buy costs %d SOL, bound is %d", ErrSlippageExceeded, solIn, maxSol)
	}

	newTokens, ok := checkedAdd(r.Tokens, tokens)
	if !ok {
		return 0, Reserves{}, fmt.Errorf("%w: token reserve", ErrOverflow)
	}
	newSol, ok := checkedAdd(r.Sol, solIn)
	if !ok {
		return 0, Reserves{}, fmt.Errorf("%w: sol reserve", ErrOverflow)
	}
	return solIn, Reserves{Tokens: newTokens, Sol: newSol}, nil
}

func quoteSell(t Type, r Reserves, tokens, minSol uint64) (uint64, Reserves, error) {
	if tokens > r.Tokens {
		return 0, Reserves{}, fmt.Errorf("%w: sell of %d against token reserve %d", ErrInsufficientReserves, tokens, r.Tokens)
	}

	var solOut uint64
	var err error
	switch t {
	case TypeBootstrapped:
		// solOut = floor(2*S*dT / (2*T + dT)); dT <= T keeps it strictly below S.
		solOut, err = mulDivFloor2x(r.Sol, tokens, r.Tokens)
	case TypeLinear:
		solOut, err = mulDivFloor(r.Sol, tokens, r.Tokens)
	}
	if err != nil {
		return 0, Reserves{}, err
	}
	if solOut > r.Sol {
		return 0, Reserves{}, fmt.Errorf("%w: payout %d exceeds sol reserve %d", ErrInsufficientReserves, solOut, r.Sol)
	}
	if solOut < minSol {
		return 0, Reserves{}, fmt.Errorf("%w: sell returns %d SOL, bound is %d", ErrSlippageExceeded, solOut, minSol)
	}

	return solOut, Reserves{Tokens: r.Tokens - tokens, Sol: r.Sol - solOut}, nil
}

func checkedAdd(a, b uint64) (uint64, bool) {
	sum := a + b
	return sum, sum >= a
}

// mulDivFloor returns floor(a*b/d) with the intermediate product held in 256 bits.
func mulDivFloor(a, b, d uint64) (uint64, error) {
	if d == 0 {
		return 0, fmt.Errorf("%w: zero divisor", ErrInsufficientReserves)
	}
	q := new(uint256.Int).Mul(uint256.NewInt(a), uint256.NewInt(b))
	q.Div(q, uint256.NewInt(d))
	if !q.IsUint64() {
		return 0, fmt.Errorf("%w: quote", ErrOverflow)
	}
	return q.Uint64(), nil
}

// mulDivCeil returns ceil(a*b/d) with the intermediate product held in 256 bits.
func mulDivCeil(a, b, d uint64) (uint64, error) {
	if d == 0 {
		return 0, fmt.Errorf("%w: zero divisor", ErrInsufficientReserves)
	}
	num := new(uint256.Int).Mul(uint256.NewInt(a), uint256.NewInt(b))
	div := uint256.NewInt(d)
	q, rem := new(uint256.Int).DivMod(num, div, new(uint256.Int))
	if !rem.IsZero() {
		q.AddUint64(q, 1)
	}
	if !q.IsUint64() {
		return 0, fmt.Errorf("%w: quote", ErrOverflow)
	}
	return q.Uint64(), nil
}

// midpointBuy returns ceil(2*S*dT / (2*T - dT)), the spot rate at the reserve
// midpoint of the trade. Undefined at dT >= 2T where the price runs away.
func midpointBuy(s, dt, t uint64) (uint64, error) {
	twoT := new(uint256.Int).Mul(uint256.NewInt(t), uint256.NewInt(2))
	if uint256.NewInt(dt).Cmp(twoT) >= 0 {
		return 0, fmt.Errorf("%w: buy of %d against token reserve %d", ErrInsufficientReserves, dt, t)
	}
	num := new(uint256.Int).Mul(uint256.NewInt(s), uint256.NewInt(dt))
	num.Mul(num, uint256.NewInt(2))
	den := new(uint256.Int).Sub(twoT, uint256.NewInt(dt))
	q, rem := new(uint256.Int).DivMod(num, den, new(uint256.Int))
	if !rem.IsZero() {
		q.AddUint64(q, 1)
	}
	if !q.IsUint64() {
		return 0, fmt.Errorf("%w: quote", ErrOverflow)
	}
	return q.Uint64(), nil
}

// mulDivFloor2x returns floor(2*S*dT / (2*T + dT)).
func mulDivFloor2x(s, dt, t uint64) (uint64, error) {
	num := new(uint256.Int).Mul(uint256.NewInt(s), uint256.NewInt(dt))
	num.Mul(num, uint256.NewInt(2))
	den := new(uint256.Int).Add(
		new(uint256.Int).Mul(uint256.NewInt(t), uint256.NewInt(2)),
		uint256.NewInt(dt),
	)
	if den.IsZero() {
		return 0, fmt.Errorf("%w: zero divisor", ErrInsufficientReserves)
	}
	num.Div(num, den)
	if !num.IsUint64() {
		return 0, fmt.Errorf("%w: quote", ErrOverflow)
	}
	return num.Uint64(), nil
}
