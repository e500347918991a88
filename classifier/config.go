package classifier

import "github.com/shopspring/decimal"

// Associated-token-account rent deposit in lamports. Rent refunds observed
// on account close are at or below this.
const ataRentLamports = 2039280

// RentRefundParams tunes the filter that drops rent-refund SOL rows before
// aggregation. Magnitude alone is not enough (legitimate micro-swaps
// exist), so by default a row must also look like a temporary account
// open/close: a zero pre- or post-balance.
type RentRefundParams struct {
	MaxLamports      uint64
	RequireLifecycle bool
}

// Config is the immutable classifier configuration. It is threaded into
// the engine at construction; nothing here is process-wide state.
type Config struct {
	// CoreMints are the settlement/stable assets, in priority order.
	// Entries are canonicalized, so listing either SOL representation
	// covers both.
	CoreMints []string

	// MinimumValueUSD gates otherwise-valid results in the policy layer
	// (ApplyMinimumValueGate). Zero disables the gate.
	MinimumValueUSD decimal.Decimal

	// NoiseFloorLamports bounds the net SOL residue treated as fee noise
	// rather than a traded asset. A stable-quoted or token-for-token swap
	// always leaves a fee-sized SOL delta on the fee payer; a net SOL
	// move at or below this floor collapses when two significant assets
	// remain. Zero disables the collapse.
	NoiseFloorLamports uint64

	RentRefund RentRefundParams
}

// DefaultConfig returns the deployment defaults: SOL/WSOL, USDC and USDT
// as core, rent filtering capped at the ATA rent deposit.
func DefaultConfig() Config {
	return Config{
		CoreMints: []string{
			WrappedSOLMint,
			NativeSOLMint,
			USDCMint,
			USDTMint,
		},
		MinimumValueUSD:    decimal.Zero,
		NoiseFloorLamports: ataRentLamports,
		RentRefund: RentRefundParams{
			MaxLamports:      ataRentLamports,
			RequireLifecycle: true,
		},
	}
}
