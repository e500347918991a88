package classifier

import (
	"math/big"
	"strconv"

	"github.com/shopspring/decimal"
)

// legAmounts computes the balance-truth amounts for one leg.
//
// The base amount is always the normalized absolute base-asset delta.
// Wallet cost/received fields are set only when the quote side is a real
// settlement asset whose delta was observed in balance changes. Action
// amounts are supplementary corroboration and never override a delta.
func (e *Engine) legAmounts(tx *RawTransaction, direction Direction, base, quote AssetDelta, quoteIsSettlement bool) Amounts {
	am := Amounts{
		BaseAmount: normalizeAbs(base.RawDelta, base.Decimals),
		Fees:       e.feeBreakdown(tx, quote, quoteIsSettlement),
	}

	if quoteIsSettlement && quote.Provenance == FromBalanceChanges {
		v := normalizeAbs(quote.RawDelta, quote.Decimals)
		switch direction {
		case Buy:
			am.TotalWalletCost = &v
		case Sell:
			am.NetWalletReceived = &v
		}
	}

	// The wallet's outflow asset maps to the swap input, the inflow asset
	// to the swap output.
	outflow, inflow := quote, base
	if direction == Sell {
		outflow, inflow = base, quote
	}

	if act := firstSwapAction(tx); act != nil {
		if CanonicalMint(act.TokensSwapped.In.Mint) == outflow.Mint {
			if v, ok := parseRawAmount(act.TokensSwapped.In.Amount, outflow.Decimals); ok {
				am.SwapInputAmount = &v
			}
		}
		if CanonicalMint(act.TokensSwapped.Out.Mint) == inflow.Mint {
			if v, ok := parseRawAmount(act.TokensSwapped.Out.Amount, inflow.Decimals); ok {
				am.SwapOutputAmount = &v
			}
		}
	}

	return am
}

// feeBreakdown is informational only; nothing here feeds back into the
// amount fields. TotalFeeQuote sums the quote-denominated components, so
// for a non-SOL quote the SOL-denominated fees stay out of it.
func (e *Engine) feeBreakdown(tx *RawTransaction, quote AssetDelta, quoteIsSettlement bool) FeeBreakdown {
	fb := FeeBreakdown{
		TransactionFeeSOL: decimal.New(int64(tx.FeeLamports), -SOLDecimals),
	}

	if act := firstSwapAction(tx); act != nil {
		fb.PlatformFee = lamportsFromString(act.PlatformFee)
		fb.PriorityFee = lamportsFromString(act.PriorityFee)
	}

	quoteIsSOL := quoteIsSettlement && quote.Mint == WrappedSOLMint
	if quoteIsSOL {
		fb.TransactionFeeQuote = fb.TransactionFeeSOL
		fb.TotalFeeQuote = fb.TransactionFeeQuote.Add(fb.PlatformFee).Add(fb.PriorityFee)
	}

	return fb
}

func normalizeAbs(raw *big.Int, decimals uint8) decimal.Decimal {
	if raw == nil {
		return decimal.Zero
	}
	return decimal.NewFromBigInt(new(big.Int).Abs(raw), -int32(decimals))
}

// parseRawAmount converts an action-reported raw amount string. Failure
// means the corroborating data is simply absent.
func parseRawAmount(s string, decimals uint8) (decimal.Decimal, bool) {
	n, ok := new(big.Int).SetString(s, 10)
	if !ok || n.Sign() <= 0 {
		return decimal.Zero, false
	}
	return decimal.NewFromBigInt(n, -int32(decimals)), true
}

func lamportsFromString(s string) decimal.Decimal {
	if s == "" {
		return decimal.Zero
	}
	v, err := strconv.ParseInt(s, 10, 64)
	if err != nil || v < 0 {
		return decimal.Zero
	}
	return decimal.New(v, -SOLDecimals)
}
