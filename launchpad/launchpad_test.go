package launchpad

import (
	"testing"

	"github.com/gagliardetto/solana-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cryptoEnthu14/ThunderLaunch-sub002/launchpad/curve"
	"github.com/cryptoEnthu14/ThunderLaunch-sub002/launchpad/graduation"
	"github.com/cryptoEnthu14/ThunderLaunch-sub002/launchpad/vault"
)

func newTestLaunchpad(t *testing.T) (*Launchpad, solana.PublicKey, solana.PublicKey) {
	t.Helper()
	l := New(graduation.NewCoordinator(graduation.Config{ThresholdSol: 1_000}), nil)
	mint := solana.NewWallet().PublicKey()
	authority := solana.NewWallet().PublicKey()
	return l, mint, authority
}

// requireCustodyMatches asserts the vault balances mirror the recorded reserves.
func requireCustodyMatches(t *testing.T, l *Launchpad, mint solana.PublicKey) {
	t.Helper()
	pool, _, acc, err := l.lookup(mint)
	require.NoError(t, err)
	assert.Equal(t, pool.Reserves().Sol, acc.SolBalance(), "sol custody must mirror the sol reserve")
	assert.Equal(t, pool.Reserves().Tokens, acc.TokenBalance(), "token custody must mirror the token reserve")
}

func TestInitPool(t *testing.T) {
	l, mint, authority := newTestLaunchpad(t)

	receipt, err := l.InitPool(mint, curve.TypeBootstrapped, authority)
	require.NoError(t, err)

	view := receipt.View
	assert.Equal(t, mint, view.Mint)
	assert.Equal(t, authority, view.Authority)
	assert.Equal(t, uint64(0), view.TotalTokens)
	assert.Equal(t, uint64(0), view.TotalSol)
	assert.False(t, view.Locked)
	assert.False(t, view.Graduated)

	t.Run("same mint fails AlreadyInitialized", func(t *testing.T) {
		_, err := l.InitPool(mint, curve.TypeBootstrapped, authority)
		assert.ErrorIs(t, err, ErrAlreadyInitialized)
	})

	t.Run("unknown curve type is rejected", func(t *testing.T) {
		_, err := l.InitPool(solana.NewWallet().PublicKey(), curve.Type(42), authority)
		assert.ErrorIs(t, err, curve.ErrUnknownCurve)
	})

	t.Run("distinct mints get distinct addresses", func(t *testing.T) {
		other, err := l.InitPool(solana.NewWallet().PublicKey(), curve.TypeLinear, authority)
		require.NoError(t, err)
		assert.NotEqual(t, receipt.Address, other.Address)
	})
}

// TestTradeLifecycle walks the reference trace: bootstrap buy, midpoint sell,
// lock, graduate.
func TestTradeLifecycle(t *testing.T) {
	l, mint, authority := newTestLaunchpad(t)
	trader := solana.NewWallet().PublicKey()
	require.NoError(t, l.Airdrop(trader, 10_000))

	_, err := l.InitPool(mint, curve.TypeBootstrapped, authority)
	require.NoError(t, err)

	// Bootstrap buy: reserves become exactly the amounts supplied.
	buyReceipt, err := l.Buy(mint, trader, 1_000_000, 1_000)
	require.NoError(t, err)
	assert.Equal(t, uint64(1_000), buyReceipt.Sol)
	assert.Equal(t, curve.Reserves{Tokens: 1_000_000, Sol: 1_000}, buyReceipt.Reserves)
	assert.Equal(t, uint64(9_000), l.SolBalance(trader))
	requireCustodyMatches(t, l, mint)

	// Midpoint sell: removing half the tokens returns 40% of the SOL reserve.
	sellReceipt, err := l.Sell(mint, trader, 500_000, 400)
	require.NoError(t, err)
	assert.Equal(t, uint64(400), sellReceipt.Sol)
	assert.Equal(t, curve.Reserves{Tokens: 500_000, Sol: 600}, sellReceipt.Reserves)
	assert.Equal(t, uint64(9_400), l.SolBalance(trader))
	requireCustodyMatches(t, l, mint)

	// Lock, then verify trading is unaffected while withdrawal is blocked.
	view, err := l.LockLiquidity(mint, authority, true)
	require.NoError(t, err)
	assert.True(t, view.Locked)

	_, err = l.Withdraw(mint, view.VaultSol, 100, authority)
	assert.ErrorIs(t, err, vault.ErrLockedOrUnauthorized)

	_, err = l.Buy(mint, trader, 100_000, 10_000)
	require.NoError(t, err, "trading must succeed while locked")
	_, err = l.Sell(mint, trader, 100_000, 0)
	require.NoError(t, err, "trading must succeed while locked")
	requireCustodyMatches(t, l, mint)

	// Graduate once eligible, terminal.
	pool, _, _, err := l.lookup(mint)
	require.NoError(t, err)
	require.GreaterOrEqual(t, pool.Reserves().Sol, uint64(600))

	// Top reserves past the threshold.
	for pool.Reserves().Sol < 1_000 {
		_, err = l.Buy(mint, trader, 50_000, 10_000)
		require.NoError(t, err)
	}

	gradReceipt, err := l.Graduate(mint, authority, graduation.VenueRaydium)
	require.NoError(t, err)
	assert.Equal(t, graduation.VenueRaydium, gradReceipt.Migration.Venue)
	assert.Equal(t, pool.Reserves().Tokens, gradReceipt.Migration.Tokens)
	assert.Equal(t, pool.Reserves().Sol, gradReceipt.Migration.Sol+gradReceipt.Migration.FeeSol)

	finalView, err := l.FetchByMint(mint)
	require.NoError(t, err)
	assert.True(t, finalView.Graduated)
	assert.True(t, finalView.Locked, "lock flag survives graduation")
	require.NotNil(t, finalView.Migration)

	t.Run("no trade succeeds after graduation", func(t *testing.T) {
		_, err := l.Buy(mint, trader, 1, 10_000)
		assert.ErrorIs(t, err, ErrAlreadyGraduated)
		_, err = l.Sell(mint, trader, 1, 0)
		assert.ErrorIs(t, err, ErrAlreadyGraduated)
	})

	t.Run("second graduation fails AlreadyGraduated", func(t *testing.T) {
		_, err := l.Graduate(mint, authority, graduation.VenueOrca)
		assert.ErrorIs(t, err, ErrAlreadyGraduated)
	})

	t.Run("reserves are frozen terminally", func(t *testing.T) {
		after, err := l.FetchByMint(mint)
		require.NoError(t, err)
		assert.Equal(t, finalView.TotalTokens, after.TotalTokens)
		assert.Equal(t, finalView.TotalSol, after.TotalSol)
	})
}

func TestTradeFailuresLeaveNoSideEffects(t *testing.T) {
	l, mint, authority := newTestLaunchpad(t)
	trader := solana.NewWallet().PublicKey()
	pauper := solana.NewWallet().PublicKey()
	require.NoError(t, l.Airdrop(trader, 5_000))

	_, err := l.InitPool(mint, curve.TypeBootstrapped, authority)
	require.NoError(t, err)
	_, err = l.Buy(mint, trader, 1_000_000, 1_000)
	require.NoError(t, err)

	snapshot := func() (curve.Reserves, uint64) {
		view, err := l.FetchByMint(mint)
		require.NoError(t, err)
		return curve.Reserves{Tokens: view.TotalTokens, Sol: view.TotalSol}, l.SolBalance(trader)
	}
	beforeReserves, beforeBalance := snapshot()

	t.Run("slippage bound on sell", func(t *testing.T) {
		_, err := l.Sell(mint, trader, 500_000, 401)
		require.ErrorIs(t, err, curve.ErrSlippageExceeded)
	})

	t.Run("slippage bound on buy", func(t *testing.T) {
		_, err := l.Buy(mint, trader, 500_000, 1)
		require.ErrorIs(t, err, curve.ErrSlippageExceeded)
	})

	t.Run("unfunded buyer", func(t *testing.T) {
		_, err := l.Buy(mint, pauper, 100_000, 5_000)
		require.ErrorIs(t, err, vault.ErrInsufficientFunds)
	})

	t.Run("oversized sell", func(t *testing.T) {
		_, err := l.Sell(mint, trader, 2_000_000, 0)
		require.ErrorIs(t, err, curve.ErrInsufficientReserves)
	})

	t.Run("unknown mint", func(t *testing.T) {
		_, err := l.Buy(solana.NewWallet().PublicKey(), trader, 1, 1)
		require.ErrorIs(t, err, ErrPoolNotFound)
	})

	afterReserves, afterBalance := snapshot()
	assert.Equal(t, beforeReserves, afterReserves, "failed trades must not move reserves")
	assert.Equal(t, beforeBalance, afterBalance, "failed trades must not move funds")
	requireCustodyMatches(t, l, mint)
}

func TestAuthorityGating(t *testing.T) {
	l, mint, authority := newTestLaunchpad(t)
	stranger := solana.NewWallet().PublicKey()

	_, err := l.InitPool(mint, curve.TypeBootstrapped, authority)
	require.NoError(t, err)

	t.Run("lock requires authority", func(t *testing.T) {
		_, err := l.LockLiquidity(mint, stranger, true)
		assert.ErrorIs(t, err, ErrUnauthorized)
	})

	t.Run("graduate requires authority", func(t *testing.T) {
		_, err := l.Graduate(mint, stranger, graduation.VenueRaydium)
		assert.ErrorIs(t, err, ErrUnauthorized)
	})

	t.Run("graduate fails NotEligible below threshold", func(t *testing.T) {
		_, err := l.Graduate(mint, authority, graduation.VenueRaydium)
		assert.ErrorIs(t, err, graduation.ErrNotEligible)

		view, fetchErr := l.FetchByMint(mint)
		require.NoError(t, fetchErr)
		assert.False(t, view.Graduated, "failed graduation must not transition the pool")
	})

	t.Run("withdraw by stranger fails even unlocked", func(t *testing.T) {
		view, err := l.FetchByMint(mint)
		require.NoError(t, err)
		_, err = l.Withdraw(mint, view.VaultSol, 1, stranger)
		assert.ErrorIs(t, err, vault.ErrLockedOrUnauthorized)
	})
}

func TestWithdraw(t *testing.T) {
	l, mint, authority := newTestLaunchpad(t)
	trader := solana.NewWallet().PublicKey()
	require.NoError(t, l.Airdrop(trader, 2_000))

	_, err := l.InitPool(mint, curve.TypeBootstrapped, authority)
	require.NoError(t, err)
	_, err = l.Buy(mint, trader, 1_000_000, 2_000)
	require.NoError(t, err)

	view, err := l.FetchByMint(mint)
	require.NoError(t, err)

	receipt, err := l.Withdraw(mint, view.VaultSol, 500, authority)
	require.NoError(t, err)
	assert.Equal(t, uint64(500), l.SolBalance(authority))
	assert.Equal(t, uint64(500), receipt.Sol)
	assert.Zero(t, receipt.Tokens)
	assert.Equal(t, view.VaultSol, receipt.Vault)
	assert.Equal(t, curve.Reserves{Tokens: 1_000_000, Sol: 2_000}, receipt.Reserves,
		"recorded reserves are untouched by withdrawal")

	t.Run("unlock reopens withdrawal after a lock round trip", func(t *testing.T) {
		_, err := l.LockLiquidity(mint, authority, true)
		require.NoError(t, err)
		_, err = l.Withdraw(mint, view.VaultSol, 100, authority)
		require.ErrorIs(t, err, vault.ErrLockedOrUnauthorized)

		_, err = l.LockLiquidity(mint, authority, false)
		require.NoError(t, err)
		_, err = l.Withdraw(mint, view.VaultSol, 100, authority)
		require.NoError(t, err)
		assert.Equal(t, uint64(600), l.SolBalance(authority))
	})
}

// A withdrawal legitimately leaves vault custody below the recorded
// reserves. Trades against the missing funds must fail cleanly with every
// balance and the reserve record untouched.
func TestTradeAfterVaultWithdraw(t *testing.T) {
	setup := func(t *testing.T) (*Launchpad, solana.PublicKey, solana.PublicKey, solana.PublicKey, PoolView) {
		t.Helper()
		l, mint, authority := newTestLaunchpad(t)
		trader := solana.NewWallet().PublicKey()
		require.NoError(t, l.Airdrop(trader, 10_000))

		_, err := l.InitPool(mint, curve.TypeBootstrapped, authority)
		require.NoError(t, err)
		_, err = l.Buy(mint, trader, 1_000_000, 1_000)
		require.NoError(t, err)

		view, err := l.FetchByMint(mint)
		require.NoError(t, err)
		return l, mint, authority, trader, view
	}

	t.Run("sell against a drained token vault", func(t *testing.T) {
		l, mint, authority, trader, view := setup(t)
		receipt, err := l.Withdraw(mint, view.VaultToken, 900_000, authority)
		require.NoError(t, err)
		assert.Equal(t, uint64(900_000), receipt.Tokens)

		before := l.SolBalance(trader)
		_, err = l.Sell(mint, trader, 500_000, 0)
		require.ErrorIs(t, err, curve.ErrInsufficientReserves)

		assert.Equal(t, before, l.SolBalance(trader), "failed sell must not pay the seller")
		after, err := l.FetchByMint(mint)
		require.NoError(t, err)
		assert.Equal(t, view.TotalTokens, after.TotalTokens)
		assert.Equal(t, view.TotalSol, after.TotalSol)

		_, err = l.Sell(mint, trader, 50_000, 0)
		require.NoError(t, err, "sells covered by the remaining custody still clear")
	})

	t.Run("sell against a drained sol vault", func(t *testing.T) {
		l, mint, authority, trader, view := setup(t)
		_, err := l.Withdraw(mint, view.VaultSol, 900, authority)
		require.NoError(t, err)

		before := l.SolBalance(trader)
		_, err = l.Sell(mint, trader, 500_000, 0)
		require.ErrorIs(t, err, curve.ErrInsufficientReserves)
		assert.Equal(t, before, l.SolBalance(trader))

		after, err := l.FetchByMint(mint)
		require.NoError(t, err)
		assert.Equal(t, view.TotalTokens, after.TotalTokens)
		assert.Equal(t, view.TotalSol, after.TotalSol)
	})

	t.Run("buys are unaffected by drained custody", func(t *testing.T) {
		l, mint, authority, trader, view := setup(t)
		_, err := l.Withdraw(mint, view.VaultSol, 900, authority)
		require.NoError(t, err)

		_, err = l.Buy(mint, trader, 100_000, 10_000)
		require.NoError(t, err)
	})
}

func TestLinearCurvePool(t *testing.T) {
	l, mint, authority := newTestLaunchpad(t)
	trader := solana.NewWallet().PublicKey()
	require.NoError(t, l.Airdrop(trader, 10_000))

	_, err := l.InitPool(mint, curve.TypeLinear, authority)
	require.NoError(t, err)

	_, err = l.Buy(mint, trader, 1_000_000, 1_000)
	require.NoError(t, err)

	// The linear law trades at the bootstrap ratio in both directions.
	receipt, err := l.Sell(mint, trader, 500_000, 500)
	require.NoError(t, err)
	assert.Equal(t, uint64(500), receipt.Sol)
	assert.Equal(t, curve.Reserves{Tokens: 500_000, Sol: 500}, receipt.Reserves)
}
