package store

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/Bharatsaini2/alpha-sub002/classifier"
)

const (
	recSig     = "5KtP3EzxQvSig111111111111111111111111111111111111111111111111111111111111111111111111"
	recSwapper = "8Yx1un1WcCJHsqFBkmJsjKJf4Vt2tPQGQbKWCwFZDoPe"
	recTokenA  = "TokenAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAA"
	recTokenB  = "TokenBBBBBBBBBBBBBBBBBBBBBBBBBBBBBBBBBBBBBBB"
)

func leg(direction classifier.Direction, base, quote string) classifier.SwapLeg {
	return classifier.SwapLeg{
		Signature:  recSig,
		Direction:  direction,
		Swapper:    recSwapper,
		BaseAsset:  classifier.Asset{Mint: base, Decimals: 9},
		QuoteAsset: classifier.Asset{Mint: quote, Decimals: 9},
		Protocol:   "JUPITER",
	}
}

func TestMapLeg_Buy(t *testing.T) {
	l := leg(classifier.Buy, recTokenA, classifier.WrappedSOLMint)
	cost := decimal.RequireFromString("3.74")
	l.Amounts.TotalWalletCost = &cost

	rec := MapSwap(l, PricedAmounts{AmountUSD: decimal.NewFromInt(700)})

	require.Equal(t, TypeBuy, rec.Type)
	require.Equal(t, SourceSwap, rec.ClassificationSource)
	require.Equal(t, "700", rec.BuyAmount.String())
	require.True(t, rec.SellAmount.IsZero())
	require.Equal(t, classifier.WrappedSOLMint, rec.TokenIn)
	require.Equal(t, recTokenA, rec.TokenOut)
	require.NotNil(t, rec.BuySolAmount)
	require.Equal(t, "3.74", rec.BuySolAmount.String())
	require.Nil(t, rec.SellSolAmount)
}

func TestMapLeg_SellWithNonSOLQuote(t *testing.T) {
	l := leg(classifier.Sell, recTokenA, classifier.USDCMint)
	recv := decimal.RequireFromString("2000")
	l.Amounts.NetWalletReceived = &recv

	rec := MapSwap(l, PricedAmounts{AmountUSD: decimal.NewFromInt(2000)})

	require.Equal(t, TypeSell, rec.Type)
	require.Equal(t, "2000", rec.SellAmount.String())
	require.True(t, rec.BuyAmount.IsZero())
	require.Equal(t, recTokenA, rec.TokenIn)
	require.Equal(t, classifier.USDCMint, rec.TokenOut)
	require.Nil(t, rec.SellSolAmount, "USDC settlement carries no SOL amount")
}

func TestMapSplitPair(t *testing.T) {
	pair := classifier.SplitSwapPair{
		SellRecord:  leg(classifier.Sell, recTokenA, recTokenB),
		BuyRecord:   leg(classifier.Buy, recTokenB, recTokenA),
		SplitReason: "no_common_core_settlement_asset",
	}

	sell, buy := MapSplitPair(pair,
		PricedAmounts{AmountUSD: decimal.NewFromInt(150)},
		PricedAmounts{AmountUSD: decimal.NewFromInt(149)})

	// Shared signature, distinct types: exactly what the compound unique
	// key (signature, type) admits.
	require.Equal(t, sell.Signature, buy.Signature)
	require.NotEqual(t, sell.Type, buy.Type)
	require.Equal(t, TypeSell, sell.Type)
	require.Equal(t, TypeBuy, buy.Type)
	require.Equal(t, SourceSplitSell, sell.ClassificationSource)
	require.Equal(t, SourceSplitBuy, buy.ClassificationSource)

	require.Equal(t, "150", sell.SellAmount.String())
	require.True(t, sell.BuyAmount.IsZero())
	require.Equal(t, "149", buy.BuyAmount.String())
	require.True(t, buy.SellAmount.IsZero())

	// Proxy-quoted legs never settle in SOL.
	require.Nil(t, sell.SellSolAmount)
	require.Nil(t, buy.BuySolAmount)
}

func TestMapLeg_NeverProducesBothType(t *testing.T) {
	for _, d := range []classifier.Direction{classifier.Buy, classifier.Sell} {
		rec := MapSwap(leg(d, recTokenA, classifier.WrappedSOLMint), PricedAmounts{})
		require.Contains(t, []string{TypeBuy, TypeSell}, rec.Type)
	}
}

func TestSaveSplitPair_Validation(t *testing.T) {
	s := &SwapStorage{} // validation runs before any DB access

	sell := MapLeg(leg(classifier.Sell, recTokenA, recTokenB), SourceSplitSell, PricedAmounts{})
	buy := MapLeg(leg(classifier.Buy, recTokenB, recTokenA), SourceSplitBuy, PricedAmounts{})

	t.Run("mismatched signatures", func(t *testing.T) {
		b := buy
		b.Signature = "otherSig"
		err := s.SaveSplitPair(context.Background(), sell, b)
		require.Error(t, err)
	})

	t.Run("wrong types", func(t *testing.T) {
		err := s.SaveSplitPair(context.Background(), buy, sell)
		require.Error(t, err)
	})
}
