package graduation

import (
	"errors"
	"fmt"
	"math/big"

	"github.com/shopspring/decimal"

	"github.com/cryptoEnthu14/ThunderLaunch-sub002/launchpad/curve"
)

var (
	// ErrNotEligible is returned when a pool has not reached the graduation threshold.
	ErrNotEligible = errors.New("pool not eligible for graduation")
	// ErrUnknownVenue is returned when the destination does not name a known venue.
	ErrUnknownVenue = errors.New("unknown graduation venue")
)

// Venue is the external exchange a graduated pool migrates to.
type Venue uint8

const (
	VenueRaydium Venue = iota
	VenueOrca
	VenueJupiter
)

// ParseVenue maps a human label to a venue.
func ParseVenue(s string) (Venue, error) {
	switch s {
	case "raydium":
		return VenueRaydium, nil
	case "orca":
		return VenueOrca, nil
	case "jupiter":
		return VenueJupiter, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrUnknownVenue, s)
	}
}

func (v Venue) String() string {
	switch v {
	case VenueRaydium:
		return "raydium"
	case VenueOrca:
		return "orca"
	case VenueJupiter:
		return "jupiter"
	default:
		return fmt.Sprintf("venue(%d)", uint8(v))
	}
}

// Valid reports whether v names a known venue.
func (v Venue) Valid() bool {
	return v <= VenueJupiter
}

// Migration is the exact hand-off computed at graduation: the amounts leaving
// the curve for the destination venue and the fee retained by the protocol.
// The actual venue-side pool creation is outside this module's contract.
type Migration struct {
	Venue  Venue  `json:"venue"`
	Tokens uint64 `json:"tokens"`
	Sol    uint64 `json:"sol"`
	FeeSol uint64 `json:"feeSol"`
}

// Config sets the graduation policy.
type Config struct {
	// ThresholdSol is the minimum SOL reserve a pool must accumulate.
	ThresholdSol uint64
	// MigrationFeeBps is the share of the SOL reserve, in basis points,
	// retained by the protocol instead of migrating.
	MigrationFeeBps uint32
}

// DefaultConfig mirrors mainnet policy: 50 SOL threshold, 1% migration fee.
func DefaultConfig() Config {
	return Config{
		ThresholdSol:    50_000_000_000,
		MigrationFeeBps: 100,
	}
}

// Coordinator evaluates graduation eligibility and computes migration amounts.
// It is pure: the terminal state transition stays with the pool state machine,
// in the same commit as the computation.
type Coordinator struct {
	cfg Config
}

// NewCoordinator creates a coordinator with the given policy.
func NewCoordinator(cfg Config) *Coordinator {
	return &Coordinator{cfg: cfg}
}

// Threshold returns the configured minimum SOL reserve.
func (c *Coordinator) Threshold() uint64 {
	return c.cfg.ThresholdSol
}

// Evaluate reports whether the reserves meet the graduation threshold.
func (c *Coordinator) Evaluate(r curve.Reserves) bool {
	return r.Sol >= c.cfg.ThresholdSol
}

// ComputeMigration computes the exact amounts to migrate off-curve. The full
// token reserve migrates; the SOL reserve migrates minus the protocol fee,
// rounded in the protocol's favor.
func (c *Coordinator) ComputeMigration(r curve.Reserves, venue Venue) (Migration, error) {
	if !venue.Valid() {
		return Migration{}, fmt.Errorf("%w: %d", ErrUnknownVenue, uint8(venue))
	}
	if !c.Evaluate(r) {
		return Migration{}, fmt.Errorf("%w: sol reserve %d below threshold %d", ErrNotEligible, r.Sol, c.cfg.ThresholdSol)
	}

	sol := decimal.NewFromBigInt(new(big.Int).SetUint64(r.Sol), 0)
	feeRate := decimal.New(int64(c.cfg.MigrationFeeBps), -4)
	fee := sol.Mul(feeRate).Ceil()

	feeSol := fee.BigInt().Uint64()
	if feeSol > r.Sol {
		feeSol = r.Sol
	}

	return Migration{
		Venue:  venue,
		Tokens: r.Tokens,
		Sol:    r.Sol - feeSol,
		FeeSol: feeSol,
	}, nil
}
