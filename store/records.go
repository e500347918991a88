// Package store maps classifier results onto persistable swap records and
// owns their MySQL persistence, including the atomic two-row write a split
// swap requires.
package store

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/Bharatsaini2/alpha-sub002/classifier"
)

// Record types. The legacy ambiguous "both" type has no constant and no
// code path here: a split always becomes two rows.
const (
	TypeBuy  = "buy"
	TypeSell = "sell"
)

// ClassificationSource distinguishes plain swaps from split legs.
const (
	SourceSwap      = "swap"
	SourceSplitSell = "split_sell"
	SourceSplitBuy  = "split_buy"
)

// PricedAmounts is supplied by the caller from external pricing; the
// classifier itself never prices anything.
type PricedAmounts struct {
	AmountUSD decimal.Decimal
}

// PersistedSwapRecord is one storable row. A split transaction produces
// exactly two records sharing a signature with different types, enforced
// by the compound unique key on (signature, type).
type PersistedSwapRecord struct {
	Signature            string
	Type                 string
	ClassificationSource string
	Swapper              string
	Protocol             string

	// Exactly one of these is non-zero.
	BuyAmount  decimal.Decimal
	SellAmount decimal.Decimal

	// Set only when the leg settles in SOL.
	BuySolAmount  *decimal.Decimal
	SellSolAmount *decimal.Decimal

	TokenIn  string
	TokenOut string

	Timestamp time.Time
}

// MapLeg maps one swap leg to a record. For a buy the wallet pays the
// quote asset and receives the base asset; for a sell the reverse.
func MapLeg(leg classifier.SwapLeg, source string, priced PricedAmounts) PersistedSwapRecord {
	rec := PersistedSwapRecord{
		Signature:            leg.Signature,
		ClassificationSource: source,
		Swapper:              leg.Swapper,
		Protocol:             leg.Protocol,
	}

	quoteIsSOL := classifier.CanonicalMint(leg.QuoteAsset.Mint) == classifier.WrappedSOLMint

	switch leg.Direction {
	case classifier.Buy:
		rec.Type = TypeBuy
		rec.BuyAmount = priced.AmountUSD
		rec.TokenIn = leg.QuoteAsset.Mint
		rec.TokenOut = leg.BaseAsset.Mint
		if quoteIsSOL && leg.Amounts.TotalWalletCost != nil {
			v := *leg.Amounts.TotalWalletCost
			rec.BuySolAmount = &v
		}
	case classifier.Sell:
		rec.Type = TypeSell
		rec.SellAmount = priced.AmountUSD
		rec.TokenIn = leg.BaseAsset.Mint
		rec.TokenOut = leg.QuoteAsset.Mint
		if quoteIsSOL && leg.Amounts.NetWalletReceived != nil {
			v := *leg.Amounts.NetWalletReceived
			rec.SellSolAmount = &v
		}
	}

	return rec
}

// MapSwap maps a plain parsed swap.
func MapSwap(leg classifier.SwapLeg, priced PricedAmounts) PersistedSwapRecord {
	return MapLeg(leg, SourceSwap, priced)
}

// MapSplitPair maps a split pair to its two rows. Both carry the shared
// signature; persistence of the pair must be atomic (SaveSplitPair).
func MapSplitPair(pair classifier.SplitSwapPair, pricedSell, pricedBuy PricedAmounts) (sell, buy PersistedSwapRecord) {
	sell = MapLeg(pair.SellRecord, SourceSplitSell, pricedSell)
	buy = MapLeg(pair.BuyRecord, SourceSplitBuy, pricedBuy)
	return sell, buy
}
