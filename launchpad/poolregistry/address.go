// Package poolregistry derives the canonical addresses for pools and their
// vaults. Derivation is deterministic and idempotent: the same mint always
// yields the same pool address, distinct mints never collide.
package poolregistry

import (
	"fmt"

	"github.com/gagliardetto/solana-go"
)

// ProgramID is the program that owns every pool account.
var ProgramID = solana.MustPublicKeyFromBase58("6avMmcRVikm9UKbVjWKFvS7tYaaVRWRTPPNXvtPffhwD")

// Derivation seeds.
const (
	SeedPool       = "pool"
	SeedVaultSol   = "vault_sol"
	SeedVaultToken = "vault_token"
)

// DerivePool returns the canonical pool address for a mint along with the
// bump seed that made the address fall off the ed25519 curve.
func DerivePool(mint solana.PublicKey) (solana.PublicKey, uint8, error) {
	addr, bump, err := solana.FindProgramAddress(
		[][]byte{[]byte(SeedPool), mint.Bytes()},
		ProgramID,
	)
	if err != nil {
		return solana.PublicKey{}, 0, fmt.Errorf("derive pool for mint %s: %w", mint, err)
	}
	return addr, bump, nil
}

// DeriveVaultSol returns the SOL vault address backing a pool.
func DeriveVaultSol(pool solana.PublicKey) (solana.PublicKey, error) {
	addr, _, err := solana.FindProgramAddress(
		[][]byte{[]byte(SeedVaultSol), pool.Bytes()},
		ProgramID,
	)
	if err != nil {
		return solana.PublicKey{}, fmt.Errorf("derive sol vault for pool %s: %w", pool, err)
	}
	return addr, nil
}

// DeriveVaultToken returns the token vault address backing a pool.
func DeriveVaultToken(pool solana.PublicKey) (solana.PublicKey, error) {
	addr, _, err := solana.FindProgramAddress(
		[][]byte{[]byte(SeedVaultToken), pool.Bytes()},
		ProgramID,
	)
	if err != nil {
		return solana.PublicKey{}, fmt.Errorf("derive token vault for pool %s: %w", pool, err)
	}
	return addr, nil
}
