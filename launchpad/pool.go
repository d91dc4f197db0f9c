package launchpad

import (
	"github.com/gagliardetto/solana-go"

	"github.com/cryptoEnthu14/ThunderLaunch-sub002/launchpad/curve"
	"github.com/cryptoEnthu14/ThunderLaunch-sub002/launchpad/graduation"
)

// Pool is the single mutable record for one trading pair. Identity fields are
// immutable after creation; the lifecycle lives in a tagged state variant so
// that a graduated pool carries frozen reserves and no mutable reserve path.
//
// Transitions are strictly one-way: a pool is created active with zero
// reserves and can only move to graduated, never back.
type Pool struct {
	mint       solana.PublicKey
	authority  solana.PublicKey
	vaultSol   solana.PublicKey
	vaultToken solana.PublicKey
	curveType  curve.Type
	bump       uint8

	state poolState
}

// poolState is the lifecycle variant. Reserves live inside the variant, not
// on the Pool, so post-graduation mutation is unrepresentable rather than
// merely checked.
type poolState interface {
	reserves() curve.Reserves
	isLocked() bool
	withLock(flag bool) poolState
}

type activeState struct {
	res    curve.Reserves
	locked bool
}

func (s activeState) reserves() curve.Reserves     { return s.res }
func (s activeState) isLocked() bool               { return s.locked }
func (s activeState) withLock(flag bool) poolState { s.locked = flag; return s }

type graduatedState struct {
	frozen    curve.Reserves
	locked    bool
	migration graduation.Migration
}

func (s graduatedState) reserves() curve.Reserves     { return s.frozen }
func (s graduatedState) isLocked() bool               { return s.locked }
func (s graduatedState) withLock(flag bool) poolState { s.locked = flag; return s }

func newPool(mint, authority, vaultSol, vaultToken solana.PublicKey, curveType curve.Type, bump uint8) *Pool {
	return &Pool{
		mint:       mint,
		authority:  authority,
		vaultSol:   vaultSol,
		vaultToken: vaultToken,
		curveType:  curveType,
		bump:       bump,
		state:      activeState{},
	}
}

// Mint returns the identity of the traded asset.
func (p *Pool) Mint() solana.PublicKey { return p.mint }

// Authority returns the identity permitted to lock and graduate this pool.
func (p *Pool) Authority() solana.PublicKey { return p.authority }

// Reserves returns the recorded reserves; frozen once graduated.
func (p *Pool) Reserves() curve.Reserves { return p.state.reserves() }

// Locked reports whether authority withdrawal is currently blocked.
func (p *Pool) Locked() bool { return p.state.isLocked() }

// IsGraduated reports whether the pool reached its terminal state.
func (p *Pool) IsGraduated() bool {
	_, ok := p.state.(graduatedState)
	return ok
}

// Migration returns the migration record of a graduated pool.
func (p *Pool) Migration() (graduation.Migration, bool) {
	st, ok := p.state.(graduatedState)
	if !ok {
		return graduation.Migration{}, false
	}
	return st.migration, true
}

func (p *Pool) setLocked(flag bool) {
	p.state = p.state.withLock(flag)
}

// active returns the live variant of the pool, or false once graduated.
func (p *Pool) active() (activeState, bool) {
	st, ok := p.state.(activeState)
	return st, ok
}

// commitTrade stores the post-trade reserves for the variant obtained from
// active in the same critical section. It cannot fail, so the caller can run
// every fallible custody move first and flip the record last.
func (p *Pool) commitTrade(st activeState, r curve.Reserves) {
	st.res = r
	p.state = st
}

// graduate performs the terminal transition, freezing the reserves and
// recording the migration.
func (p *Pool) graduate(mig graduation.Migration) error {
	st, ok := p.state.(activeState)
	if !ok {
		return ErrAlreadyGraduated
	}
	p.state = graduatedState{frozen: st.res, locked: st.locked, migration: mig}
	return nil
}

// PoolView is an immutable snapshot of a pool for readers: the downstream
// charting and risk services consume these, never the live record.
type PoolView struct {
	Address    solana.PublicKey `json:"address"`
	Mint       solana.PublicKey `json:"mint"`
	Authority  solana.PublicKey `json:"authority"`
	VaultSol   solana.PublicKey `json:"vaultSol"`
	VaultToken solana.PublicKey `json:"vaultToken"`
	CurveType  curve.Type       `json:"curveType"`
	Bump       uint8            `json:"bump"`

	TotalTokens uint64 `json:"totalTokens"`
	TotalSol    uint64 `json:"totalSol"`
	Locked      bool   `json:"locked"`
	Graduated   bool   `json:"graduated"`

	Migration *graduation.Migration `json:"migration,omitempty"`
}

func (p *Pool) view(address solana.PublicKey) PoolView {
	v := PoolView{
		Address:     address,
		Mint:        p.mint,
		Authority:   p.authority,
		VaultSol:    p.vaultSol,
		VaultToken:  p.vaultToken,
		CurveType:   p.curveType,
		Bump:        p.bump,
		TotalTokens: p.Reserves().Tokens,
		TotalSol:    p.Reserves().Sol,
		Locked:      p.Locked(),
		Graduated:   p.IsGraduated(),
	}
	if mig, ok := p.Migration(); ok {
		migCopy := mig
		v.Migration = &migCopy
	}
	return v
}
