package launchpad

import (
	"sort"
	"sync"
	"sync/atomic"

	"github.com/gagliardetto/solana-go"
	"go.uber.org/zap"

	"github.com/cryptoEnthu14/ThunderLaunch-sub002/launchpad/curve"
	"github.com/cryptoEnthu14/ThunderLaunch-sub002/launchpad/graduation"
	"github.com/cryptoEnthu14/ThunderLaunch-sub002/launchpad/poolregistry"
)

// StateView is a complete snapshot of every pool, safe for concurrent reads.
type StateView struct {
	Pools map[solana.PublicKey]PoolView `json:"pools"`
}

// System provides the concurrency-safe layer over the Launchpad state
// machine. It uses a sync.RWMutex for writes and an atomic.Pointer for
// lock-free reads; each committed mutation refreshes the cached view and
// publishes one change notification.
type System struct {
	mu         sync.RWMutex
	core       *Launchpad
	cachedView atomic.Pointer[StateView]

	subs    map[uint64]chan Event
	nextSub uint64

	metrics *Metrics
	logger  *zap.Logger
}

// NewSystem creates a concurrency-safe launchpad with the given graduation
// policy. A nil metrics disables collection, a nil logger disables logging.
func NewSystem(gradCfg graduation.Config, metrics *Metrics, logger *zap.Logger) *System {
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &System{
		core:    New(graduation.NewCoordinator(gradCfg), logger),
		subs:    make(map[uint64]chan Event),
		metrics: metrics,
		logger:  logger,
	}
	// Initialize the cached view with an empty, non-nil snapshot.
	s.cachedView.Store(&StateView{Pools: map[solana.PublicKey]PoolView{}})
	return s
}

// updateCachedView generates a fresh snapshot and atomically swaps it in.
// MUST be called from within a write lock.
func (s *System) updateCachedView() {
	pools := make(map[solana.PublicKey]PoolView, len(s.core.pools))
	for _, v := range s.core.Views() {
		pools[v.Address] = v
	}
	s.cachedView.Store(&StateView{Pools: pools})
}

// publish sends an event to every subscriber without blocking the write path.
// MUST be called from within a write lock.
func (s *System) publish(ev Event) {
	for id, ch := range s.subs {
		select {
		case ch <- ev:
		default:
			s.metrics.observeDroppedEvent()
			s.logger.Warn("dropped change notification",
				zap.Uint64("subscriber", id),
				zap.String("type", string(ev.Type)),
			)
		}
	}
}

// Subscribe registers a change-notification channel with the given buffer.
// Events a slow subscriber cannot absorb are dropped, never queued. The
// returned cancel function unregisters and closes the channel.
func (s *System) Subscribe(buffer int) (<-chan Event, func()) {
	if buffer <= 0 {
		buffer = 16
	}
	ch := make(chan Event, buffer)

	s.mu.Lock()
	id := s.nextSub
	s.nextSub++
	s.subs[id] = ch
	s.mu.Unlock()

	cancel := func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		if _, ok := s.subs[id]; ok {
			delete(s.subs, id)
			close(ch)
		}
	}
	return ch, cancel
}

// --- Write Methods ---

// InitPool creates a pool for the mint at its canonical derived address.
func (s *System) InitPool(mint solana.PublicKey, curveType curve.Type, authority solana.PublicKey) (InitReceipt, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	receipt, err := s.core.InitPool(mint, curveType, authority)
	if err != nil {
		return InitReceipt{}, err
	}
	s.metrics.observePool()
	s.metrics.observeReserves(mint.String(), 0, 0)
	s.updateCachedView()
	s.publish(Event{
		Type:    EventInitPool,
		Address: receipt.Address,
		Mint:    mint,
	})
	return receipt, nil
}

// Buy purchases tokens from the mint's curve on behalf of buyer.
func (s *System) Buy(mint, buyer solana.PublicKey, tokens, maxSol uint64) (TradeReceipt, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	receipt, err := s.core.Buy(mint, buyer, tokens, maxSol)
	s.metrics.observeTrade("buy", err)
	if err != nil {
		return TradeReceipt{}, err
	}
	s.metrics.observeReserves(mint.String(), receipt.Reserves.Tokens, receipt.Reserves.Sol)
	s.updateCachedView()
	s.publish(Event{
		Type:     EventBuy,
		Address:  receipt.Address,
		Mint:     mint,
		Tokens:   receipt.Tokens,
		Sol:      receipt.Sol,
		Reserves: receipt.Reserves,
	})
	return receipt, nil
}

// Sell returns tokens to the mint's curve on behalf of seller.
func (s *System) Sell(mint, seller solana.PublicKey, tokens, minSol uint64) (TradeReceipt, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	receipt, err := s.core.Sell(mint, seller, tokens, minSol)
	s.metrics.observeTrade("sell", err)
	if err != nil {
		return TradeReceipt{}, err
	}
	s.metrics.observeReserves(mint.String(), receipt.Reserves.Tokens, receipt.Reserves.Sol)
	s.updateCachedView()
	s.publish(Event{
		Type:     EventSell,
		Address:  receipt.Address,
		Mint:     mint,
		Tokens:   receipt.Tokens,
		Sol:      receipt.Sol,
		Reserves: receipt.Reserves,
	})
	return receipt, nil
}

// LockLiquidity toggles the authority-withdrawal lock on the mint's pool.
func (s *System) LockLiquidity(mint, caller solana.PublicKey, flag bool) (PoolView, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	view, err := s.core.LockLiquidity(mint, caller, flag)
	if err != nil {
		return PoolView{}, err
	}
	s.updateCachedView()
	s.publish(Event{
		Type:    EventLock,
		Address: view.Address,
		Mint:    mint,
		Locked:  view.Locked,
		Reserves: curve.Reserves{
			Tokens: view.TotalTokens,
			Sol:    view.TotalSol,
		},
	})
	return view, nil
}

// Graduate performs the terminal transition of the mint's pool. The
// eligibility check and the state flip happen under the same write lock, so
// no trade can interleave between them.
func (s *System) Graduate(mint, caller solana.PublicKey, venue graduation.Venue) (GraduationReceipt, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	receipt, err := s.core.Graduate(mint, caller, venue)
	if err != nil {
		return GraduationReceipt{}, err
	}
	s.metrics.observeGraduation()
	s.updateCachedView()

	mig := receipt.Migration
	s.publish(Event{
		Type:      EventGraduate,
		Address:   receipt.Address,
		Mint:      mint,
		Reserves:  curve.Reserves{Tokens: mig.Tokens, Sol: mig.Sol + mig.FeeSol},
		Migration: &mig,
	})
	return receipt, nil
}

// Withdraw moves custodied funds out of a pool vault, subject to the
// authority and lock gates. The recorded reserves are untouched, but the
// custody move is published like every other committed mutation so that
// downstream indexers see the vault drain.
func (s *System) Withdraw(mint, vaultAddr solana.PublicKey, amount uint64, requester solana.PublicKey) (WithdrawReceipt, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	receipt, err := s.core.Withdraw(mint, vaultAddr, amount, requester)
	if err != nil {
		return WithdrawReceipt{}, err
	}
	s.publish(Event{
		Type:     EventWithdraw,
		Address:  receipt.Address,
		Mint:     mint,
		Tokens:   receipt.Tokens,
		Sol:      receipt.Sol,
		Reserves: receipt.Reserves,
	})
	return receipt, nil
}

// Airdrop credits lamports to an account (test and tooling faucet).
func (s *System) Airdrop(account solana.PublicKey, lamports uint64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.core.Airdrop(account, lamports)
}

// --- Read Methods ---

// Fetch returns the pool snapshot at the given derived address, lock-free.
func (s *System) Fetch(address solana.PublicKey) (PoolView, error) {
	view := s.cachedView.Load()
	pool, ok := view.Pools[address]
	if !ok {
		return PoolView{}, ErrPoolNotFound
	}
	return pool, nil
}

// FetchByMint returns the snapshot of the mint's pool, lock-free.
func (s *System) FetchByMint(mint solana.PublicKey) (PoolView, error) {
	address, _, err := poolregistry.DerivePool(mint)
	if err != nil {
		return PoolView{}, err
	}
	return s.Fetch(address)
}

// Pools returns snapshots of every pool, ordered by address for stable output.
func (s *System) Pools() []PoolView {
	view := s.cachedView.Load()
	pools := make([]PoolView, 0, len(view.Pools))
	for _, p := range view.Pools {
		pools = append(pools, p)
	}
	sort.Slice(pools, func(i, j int) bool {
		return pools[i].Address.String() < pools[j].Address.String()
	})
	return pools
}

// SolBalance returns an account's lamport balance.
func (s *System) SolBalance(account solana.PublicKey) uint64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.core.SolBalance(account)
}
