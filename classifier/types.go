package classifier

import (
	"math/big"
	"time"

	"github.com/shopspring/decimal"
)

// Well-known mints. Native SOL balance rows come in under the system
// pseudo-mint; wrapped SOL is a regular SPL mint. Both canonicalize to the
// wrapped-SOL mint before any per-asset aggregation.
const (
	NativeSOLMint  = "11111111111111111111111111111111"
	WrappedSOLMint = "So11111111111111111111111111111111111111112"
	USDCMint       = "EPjFWdd5AufqSSqeM2qN1xzybapC8G4wEGGkZwyTDt1v"
	USDTMint       = "Es9vMFrzaCERmJfrF4H2FYD4KCoNkY11McCe8BenwNYB"

	SOLDecimals = 9
)

// CanonicalMint collapses native SOL and wrapped SOL into one asset.
func CanonicalMint(mint string) string {
	if mint == NativeSOLMint {
		return WrappedSOLMint
	}
	return mint
}

// Action type tags, as produced by the transaction adapter.
const (
	ActionSwap          = "SWAP"
	ActionTokenTransfer = "TOKEN_TRANSFER"
	ActionSolTransfer   = "SOL_TRANSFER"
)

// BalanceChange is one per-account balance row from the raw transaction.
// Amounts are raw base units (lamports for SOL).
type BalanceChange struct {
	Mint         string
	Owner        string
	Symbol       string
	Decimals     uint8
	ChangeAmount *big.Int // post - pre
	PreBalance   *big.Int
	PostBalance  *big.Int
}

// ActionToken is one side of a decoded swap action.
type ActionToken struct {
	Mint     string
	Symbol   string
	Amount   string // raw base units, decimal string; unparseable means absent
	Decimals uint8
}

// TokensSwapped carries the pool-declared legs of a SWAP action. These are
// supplementary only: wallet balance deltas remain the ground truth.
type TokensSwapped struct {
	In  ActionToken
	Out ActionToken
}

// TransferInfo is the payload of a transfer-type action.
type TransferInfo struct {
	Mint        string
	Amount      string // raw base units, decimal string
	Decimals    uint8
	Source      string
	Destination string
	Authority   string
}

// Action is one decoded protocol action from the raw transaction.
type Action struct {
	Type          string
	Protocol      string
	TokensSwapped *TokensSwapped // SWAP actions
	Transfer      *TransferInfo  // transfer actions
	PlatformFee   string         // raw lamports, optional
	PriorityFee   string         // raw lamports, optional
}

// Protocol describes the top-level program the transaction went through.
type Protocol struct {
	Name    string
	Address string
}

// RawTransaction is the immutable classifier input. It is produced by an
// external fetching collaborator (see the txadapter package).
type RawTransaction struct {
	Signature      string
	Timestamp      time.Time
	Status         string
	FeeLamports    uint64
	FeePayer       string
	Signers        []string
	Protocol       *Protocol
	BalanceChanges []BalanceChange
	Actions        []Action
}

// DeltaProvenance records where an AssetDelta's amount came from.
type DeltaProvenance string

const (
	FromBalanceChanges DeltaProvenance = "balance_changes"
	FromSwapAction     DeltaProvenance = "swap_action"
)

// AssetDelta is the net signed movement of one canonical mint for the
// identified swapper.
type AssetDelta struct {
	Mint       string
	Symbol     string
	Decimals   uint8
	RawDelta   *big.Int
	Provenance DeltaProvenance
}

// Asset identifies one side of a swap leg.
type Asset struct {
	Mint     string
	Symbol   string
	Decimals uint8
}

type Direction string

const (
	Buy  Direction = "BUY"
	Sell Direction = "SELL"
)

type Confidence string

const (
	ConfidenceHigh   Confidence = "HIGH"
	ConfidenceMedium Confidence = "MEDIUM"
	ConfidenceLow    Confidence = "LOW"
)

// SwapperMethod tags how the trader address was identified.
type SwapperMethod string

const (
	MethodFeePayer SwapperMethod = "FEE_PAYER"
	MethodSigner   SwapperMethod = "SIGNER"
)

// FeeBreakdown is informational only. Fee components are never subtracted
// from the balance-delta-derived amounts.
type FeeBreakdown struct {
	TransactionFeeSOL   decimal.Decimal
	TransactionFeeQuote decimal.Decimal
	PlatformFee         decimal.Decimal
	PriorityFee         decimal.Decimal
	TotalFeeQuote       decimal.Decimal
}

// Amounts carries the balance-truth amounts of a leg. BaseAmount is always
// set; the optional fields are populated only when an actual wallet delta
// (or a sign/asset-consistent action report) backs them.
type Amounts struct {
	BaseAmount        decimal.Decimal
	SwapInputAmount   *decimal.Decimal
	SwapOutputAmount  *decimal.Decimal
	TotalWalletCost   *decimal.Decimal
	NetWalletReceived *decimal.Decimal
	Fees              FeeBreakdown
}

// SwapLeg is one directional swap event.
type SwapLeg struct {
	Signature                   string
	Direction                   Direction
	Swapper                     string
	QuoteAsset                  Asset
	BaseAsset                   Asset
	Amounts                     Amounts
	Confidence                  Confidence
	SwapperIdentificationMethod SwapperMethod
	RentRefundsFiltered         bool
	IntermediateAssetsCollapsed []string
	Protocol                    string
}

// SplitSwapPair is a token-for-token trade represented as two directional
// legs; each leg's quote is the other leg's asset acting as a proxy
// settlement unit. Both legs share signature and swapper.
type SplitSwapPair struct {
	SellRecord  SwapLeg
	BuyRecord   SwapLeg
	SplitReason string
}
