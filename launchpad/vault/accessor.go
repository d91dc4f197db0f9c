package vault

import (
	"fmt"

	"github.com/gagliardetto/solana-go"
)

// Accessor mediates access to the two custodial balances backing one pool:
// the SOL vault on the lamport ledger and the token vault on the mint's token
// ledger. The trade path moves funds through CommitBuy and CommitSell;
// Withdraw is the only authority-facing exit and the only operation the
// locked flag gates.
type Accessor struct {
	vaultSol   solana.PublicKey
	vaultToken solana.PublicKey
	authority  solana.PublicKey

	sol    *Ledger
	tokens *Ledger
}

// NewAccessor binds an accessor to a pool's vault addresses and authority.
func NewAccessor(sol, tokens *Ledger, vaultSol, vaultToken, authority solana.PublicKey) *Accessor {
	return &Accessor{
		vaultSol:   vaultSol,
		vaultToken: vaultToken,
		authority:  authority,
		sol:        sol,
		tokens:     tokens,
	}
}

// VaultSol returns the SOL vault address.
func (a *Accessor) VaultSol() solana.PublicKey { return a.vaultSol }

// VaultToken returns the token vault address.
func (a *Accessor) VaultToken() solana.PublicKey { return a.vaultToken }

// SolBalance returns the lamports currently custodied.
func (a *Accessor) SolBalance() uint64 { return a.sol.Balance(a.vaultSol) }

// TokenBalance returns the tokens currently custodied.
func (a *Accessor) TokenBalance() uint64 { return a.tokens.Balance(a.vaultToken) }

// CommitBuy moves both legs of a buy: the payer's lamports into the SOL
// vault and the purchased supply into the token vault. The full set of moves
// is checked before any of them is applied, so a failure leaves every
// balance untouched.
func (a *Accessor) CommitBuy(payer solana.PublicKey, solIn, tokens uint64) error {
	if !a.sol.CanDebit(payer, solIn) {
		return fmt.Errorf("%w: account %s holds %d, needs %d", ErrInsufficientFunds, payer, a.sol.Balance(payer), solIn)
	}
	if !a.sol.CanCredit(a.vaultSol, solIn) {
		return fmt.Errorf("%w: sol vault %s", ErrBalanceOverflow, a.vaultSol)
	}
	if !a.tokens.CanCredit(a.vaultToken, tokens) {
		return fmt.Errorf("%w: token vault %s", ErrBalanceOverflow, a.vaultToken)
	}
	if err := a.sol.Transfer(payer, a.vaultSol, solIn); err != nil {
		return err
	}
	return a.tokens.Credit(a.vaultToken, tokens)
}

// CommitSell moves both legs of a sell: the returned supply out of the token
// vault and the payout out of the SOL vault to the recipient. Vault custody
// can legitimately fall short of the recorded reserves after an authority
// withdrawal, so both vault legs are verified before anything moves; a
// failure leaves every balance untouched.
func (a *Accessor) CommitSell(recipient solana.PublicKey, solOut, tokens uint64) error {
	if !a.tokens.CanDebit(a.vaultToken, tokens) {
		return fmt.Errorf("%w: token vault holds %d, trade needs %d", ErrInsufficientFunds, a.tokens.Balance(a.vaultToken), tokens)
	}
	if !a.sol.CanDebit(a.vaultSol, solOut) {
		return fmt.Errorf("%w: sol vault holds %d, trade needs %d", ErrInsufficientFunds, a.sol.Balance(a.vaultSol), solOut)
	}
	if !a.sol.CanCredit(recipient, solOut) {
		return fmt.Errorf("%w: account %s", ErrBalanceOverflow, recipient)
	}
	if err := a.tokens.Debit(a.vaultToken, tokens); err != nil {
		return err
	}
	return a.sol.Transfer(a.vaultSol, recipient, solOut)
}

// Withdraw moves custodied funds out of one of the pool's vaults to the
// requester. Only the pool authority may withdraw, and never while liquidity
// is locked.
func (a *Accessor) Withdraw(vault solana.PublicKey, amount uint64, requester solana.PublicKey, locked bool) error {
	if requester != a.authority || locked {
		return fmt.Errorf("%w: requester %s", ErrLockedOrUnauthorized, requester)
	}
	switch vault {
	case a.vaultSol:
		return a.sol.Transfer(a.vaultSol, requester, amount)
	case a.vaultToken:
		return a.tokens.Transfer(a.vaultToken, requester, amount)
	default:
		return fmt.Errorf("vault %s does not back this pool", vault)
	}
}
