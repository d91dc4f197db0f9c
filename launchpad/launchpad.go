// Package launchpad implements the pre-listing liquidity pool state machine:
// curve-priced buys and sells against per-mint pools, authority-gated
// liquidity locking, and the one-way graduation that migrates a pair off the
// curve. Every mutating operation either fully commits or fails with zero
// side effects; the host is expected to linearize calls against a given pool
// (the System wrapper provides that locally).
package launchpad

import (
	"errors"
	"fmt"

	"github.com/gagliardetto/solana-go"
	"go.uber.org/zap"

	"github.com/cryptoEnthu14/ThunderLaunch-sub002/launchpad/curve"
	"github.com/cryptoEnthu14/ThunderLaunch-sub002/launchpad/graduation"
	"github.com/cryptoEnthu14/ThunderLaunch-sub002/launchpad/poolregistry"
	"github.com/cryptoEnthu14/ThunderLaunch-sub002/launchpad/vault"
)

// Launchpad owns the pool registry and the custody ledgers. It is not safe
// for concurrent use; System adds the synchronization layer.
type Launchpad struct {
	grad *graduation.Coordinator

	sol    *vault.Ledger                        // lamport balances, all accounts
	tokens map[solana.PublicKey]*vault.Ledger   // token balances, keyed by mint
	pools  map[solana.PublicKey]*Pool           // keyed by derived pool address
	access map[solana.PublicKey]*vault.Accessor // keyed by derived pool address

	logger *zap.Logger
}

// New creates an empty launchpad. A nil logger disables logging.
func New(grad *graduation.Coordinator, logger *zap.Logger) *Launchpad {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Launchpad{
		grad:   grad,
		sol:    vault.NewLedger(),
		tokens: make(map[solana.PublicKey]*vault.Ledger),
		pools:  make(map[solana.PublicKey]*Pool),
		access: make(map[solana.PublicKey]*vault.Accessor),
		logger: logger,
	}
}

// InitReceipt describes a freshly created pool.
type InitReceipt struct {
	Address solana.PublicKey
	View    PoolView
}

// TradeReceipt describes a committed buy or sell.
type TradeReceipt struct {
	Address  solana.PublicKey
	Mint     solana.PublicKey
	Side     curve.Side
	Tokens   uint64
	Sol      uint64
	Reserves curve.Reserves
}

// GraduationReceipt describes a committed graduation.
type GraduationReceipt struct {
	Address   solana.PublicKey
	Mint      solana.PublicKey
	Migration graduation.Migration
}

// WithdrawReceipt describes a committed authority withdrawal. Exactly one of
// Sol and Tokens is set, matching the vault the funds left. Reserves carry
// the recorded reserves, which a withdrawal never changes.
type WithdrawReceipt struct {
	Address  solana.PublicKey
	Mint     solana.PublicKey
	Vault    solana.PublicKey
	Sol      uint64
	Tokens   uint64
	Reserves curve.Reserves
}

// InitPool creates an active pool with zero reserves at the mint's canonical
// derived address.
func (l *Launchpad) InitPool(mint solana.PublicKey, curveType curve.Type, authority solana.PublicKey) (InitReceipt, error) {
	if !curveType.Valid() {
		return InitReceipt{}, fmt.Errorf("%w: %d", curve.ErrUnknownCurve, uint8(curveType))
	}

	address, bump, err := poolregistry.DerivePool(mint)
	if err != nil {
		return InitReceipt{}, err
	}
	if _, exists := l.pools[address]; exists {
		return InitReceipt{}, fmt.Errorf("%w: %s", ErrAlreadyInitialized, mint)
	}

	vaultSol, err := poolregistry.DeriveVaultSol(address)
	if err != nil {
		return InitReceipt{}, err
	}
	vaultToken, err := poolregistry.DeriveVaultToken(address)
	if err != nil {
		return InitReceipt{}, err
	}

	tokenLedger, ok := l.tokens[mint]
	if !ok {
		tokenLedger = vault.NewLedger()
		l.tokens[mint] = tokenLedger
	}

	pool := newPool(mint, authority, vaultSol, vaultToken, curveType, bump)
	l.pools[address] = pool
	l.access[address] = vault.NewAccessor(l.sol, tokenLedger, vaultSol, vaultToken, authority)

	l.logger.Info("pool initialized",
		zap.Stringer("mint", mint),
		zap.Stringer("address", address),
		zap.Stringer("curve", curveType),
	)
	return InitReceipt{Address: address, View: pool.view(address)}, nil
}

// Buy purchases tokens from the curve. The pool custodies both legs: the
// buyer's lamports land in the SOL vault and the purchased supply is issued
// into the token vault, in the same commit as the reserve update.
func (l *Launchpad) Buy(mint, buyer solana.PublicKey, tokens, maxSol uint64) (TradeReceipt, error) {
	pool, address, acc, err := l.lookup(mint)
	if err != nil {
		return TradeReceipt{}, err
	}
	st, ok := pool.active()
	if !ok {
		return TradeReceipt{}, fmt.Errorf("%w: %s", ErrAlreadyGraduated, mint)
	}

	solIn, newReserves, err := curve.Quote(pool.curveType, st.res, curve.SideBuy, tokens, maxSol)
	if err != nil {
		return TradeReceipt{}, err
	}

	// Every custody move is checked before any is applied, so a failure
	// here leaves no partial state; the reserve flip below cannot fail.
	if err := acc.CommitBuy(buyer, solIn, tokens); err != nil {
		return TradeReceipt{}, err
	}
	pool.commitTrade(st, newReserves)

	l.logger.Debug("buy",
		zap.Stringer("mint", mint),
		zap.Uint64("tokens", tokens),
		zap.Uint64("sol", solIn),
	)
	return TradeReceipt{
		Address:  address,
		Mint:     mint,
		Side:     curve.SideBuy,
		Tokens:   tokens,
		Sol:      solIn,
		Reserves: newReserves,
	}, nil
}

// Sell returns tokens to the curve for lamports. Both reserve legs shrink:
// the payout leaves the SOL vault and the returned supply is retired from the
// token vault, in the same commit as the reserve update.
func (l *Launchpad) Sell(mint, seller solana.PublicKey, tokens, minSol uint64) (TradeReceipt, error) {
	pool, address, acc, err := l.lookup(mint)
	if err != nil {
		return TradeReceipt{}, err
	}
	st, ok := pool.active()
	if !ok {
		return TradeReceipt{}, fmt.Errorf("%w: %s", ErrAlreadyGraduated, mint)
	}

	solOut, newReserves, err := curve.Quote(pool.curveType, st.res, curve.SideSell, tokens, minSol)
	if err != nil {
		return TradeReceipt{}, err
	}

	// Every custody move is checked before any is applied, so a failure
	// here leaves no partial state; the reserve flip below cannot fail.
	// Vault custody can trail the recorded reserves after an authority
	// withdrawal, which surfaces as an exhausted reserve.
	if err := acc.CommitSell(seller, solOut, tokens); err != nil {
		if errors.Is(err, vault.ErrInsufficientFunds) {
			return TradeReceipt{}, fmt.Errorf("%w: %v", curve.ErrInsufficientReserves, err)
		}
		return TradeReceipt{}, err
	}
	pool.commitTrade(st, newReserves)

	l.logger.Debug("sell",
		zap.Stringer("mint", mint),
		zap.Uint64("tokens", tokens),
		zap.Uint64("sol", solOut),
	)
	return TradeReceipt{
		Address:  address,
		Mint:     mint,
		Side:     curve.SideSell,
		Tokens:   tokens,
		Sol:      solOut,
		Reserves: newReserves,
	}, nil
}

// LockLiquidity toggles the withdrawal lock. Trading is never affected.
func (l *Launchpad) LockLiquidity(mint, caller solana.PublicKey, flag bool) (PoolView, error) {
	pool, address, _, err := l.lookup(mint)
	if err != nil {
		return PoolView{}, err
	}
	if caller != pool.authority {
		return PoolView{}, fmt.Errorf("%w: %s", ErrUnauthorized, caller)
	}

	pool.setLocked(flag)
	l.logger.Info("liquidity lock updated", zap.Stringer("mint", mint), zap.Bool("locked", flag))
	return pool.view(address), nil
}

// Graduate performs the terminal transition. Eligibility, the migration
// computation, and the state flip happen in one commit, so no trade can
// observe a half-graduated pool.
func (l *Launchpad) Graduate(mint, caller solana.PublicKey, venue graduation.Venue) (GraduationReceipt, error) {
	pool, address, _, err := l.lookup(mint)
	if err != nil {
		return GraduationReceipt{}, err
	}
	if caller != pool.authority {
		return GraduationReceipt{}, fmt.Errorf("%w: %s", ErrUnauthorized, caller)
	}
	if pool.IsGraduated() {
		return GraduationReceipt{}, fmt.Errorf("%w: %s", ErrAlreadyGraduated, mint)
	}

	mig, err := l.grad.ComputeMigration(pool.Reserves(), venue)
	if err != nil {
		return GraduationReceipt{}, err
	}
	if err := pool.graduate(mig); err != nil {
		return GraduationReceipt{}, err
	}

	l.logger.Info("pool graduated",
		zap.Stringer("mint", mint),
		zap.Stringer("venue", mig.Venue),
		zap.Uint64("tokens", mig.Tokens),
		zap.Uint64("sol", mig.Sol),
	)
	return GraduationReceipt{Address: address, Mint: mint, Migration: mig}, nil
}

// Withdraw moves custodied funds out of one of the pool's vaults. Gated by
// the authority check and the liquidity lock, both enforced by the accessor.
func (l *Launchpad) Withdraw(mint, vaultAddr solana.PublicKey, amount uint64, requester solana.PublicKey) (WithdrawReceipt, error) {
	pool, address, acc, err := l.lookup(mint)
	if err != nil {
		return WithdrawReceipt{}, err
	}
	if err := acc.Withdraw(vaultAddr, amount, requester, pool.Locked()); err != nil {
		return WithdrawReceipt{}, err
	}

	receipt := WithdrawReceipt{
		Address:  address,
		Mint:     mint,
		Vault:    vaultAddr,
		Reserves: pool.Reserves(),
	}
	if vaultAddr == acc.VaultSol() {
		receipt.Sol = amount
	} else {
		receipt.Tokens = amount
	}
	l.logger.Info("withdrawal",
		zap.Stringer("mint", mint),
		zap.Stringer("vault", vaultAddr),
		zap.Uint64("amount", amount),
	)
	return receipt, nil
}

// Airdrop credits lamports to an account. Test and tooling faucet; the real
// deployment receives balances from the host ledger.
func (l *Launchpad) Airdrop(account solana.PublicKey, lamports uint64) error {
	return l.sol.Credit(account, lamports)
}

// SolBalance returns an account's lamport balance.
func (l *Launchpad) SolBalance(account solana.PublicKey) uint64 {
	return l.sol.Balance(account)
}

// Fetch returns a snapshot of the pool at the given derived address.
func (l *Launchpad) Fetch(address solana.PublicKey) (PoolView, error) {
	pool, ok := l.pools[address]
	if !ok {
		return PoolView{}, fmt.Errorf("%w: address %s", ErrPoolNotFound, address)
	}
	return pool.view(address), nil
}

// FetchByMint returns a snapshot of the mint's pool.
func (l *Launchpad) FetchByMint(mint solana.PublicKey) (PoolView, error) {
	pool, address, _, err := l.lookup(mint)
	if err != nil {
		return PoolView{}, err
	}
	return pool.view(address), nil
}

// Views returns snapshots of every pool.
func (l *Launchpad) Views() []PoolView {
	views := make([]PoolView, 0, len(l.pools))
	for address, pool := range l.pools {
		views = append(views, pool.view(address))
	}
	return views
}

func (l *Launchpad) lookup(mint solana.PublicKey) (*Pool, solana.PublicKey, *vault.Accessor, error) {
	address, _, err := poolregistry.DerivePool(mint)
	if err != nil {
		return nil, solana.PublicKey{}, nil, err
	}
	pool, ok := l.pools[address]
	if !ok {
		return nil, solana.PublicKey{}, nil, fmt.Errorf("%w: mint %s", ErrPoolNotFound, mint)
	}
	return pool, address, l.access[address], nil
}
