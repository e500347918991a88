package classifier

import (
	"fmt"
	"math/big"
)

// deltaSet is the collector output: at most two net non-zero assets for
// the swapper, plus what was filtered or collapsed along the way.
type deltaSet struct {
	deltas          []AssetDelta // first-seen order
	collapsed       []string     // mints that netted to zero (multi-hop routing)
	rentFiltered    bool
	synthesizedMint string // non-empty when the fallback added a missing leg
}

// collectDeltas reduces the swapper's balance-change rows to one net
// signed delta per canonical mint. SOL and wrapped SOL are merged BEFORE
// grouping, so the 2-asset count never sees them as separate assets.
func (e *Engine) collectDeltas(tx *RawTransaction, swapper string) (*deltaSet, *Rejected) {
	ds := &deltaSet{}

	agg := make(map[string]*AssetDelta)
	var order []string

	for _, bc := range tx.BalanceChanges {
		if bc.Owner != swapper {
			continue
		}
		mint := CanonicalMint(bc.Mint)
		isSOL := mint == WrappedSOLMint

		if isSOL && e.isRentRefundRow(bc) {
			ds.rentFiltered = true
			continue
		}

		d, ok := agg[mint]
		if !ok {
			decimals := bc.Decimals
			if isSOL {
				decimals = SOLDecimals
			}
			d = &AssetDelta{
				Mint:       mint,
				Symbol:     bc.Symbol,
				Decimals:   decimals,
				RawDelta:   new(big.Int),
				Provenance: FromBalanceChanges,
			}
			agg[mint] = d
			order = append(order, mint)
		}
		if bc.ChangeAmount != nil {
			d.RawDelta.Add(d.RawDelta, bc.ChangeAmount)
		}
		if d.Symbol == "" && bc.Symbol != "" {
			d.Symbol = bc.Symbol
		}
	}

	for _, mint := range order {
		d := agg[mint]
		if d.RawDelta.Sign() == 0 {
			// Transient routing asset: touched, but netted out.
			ds.collapsed = append(ds.collapsed, mint)
			continue
		}
		ds.deltas = append(ds.deltas, *d)
	}

	e.collapseNoise(ds)

	switch len(ds.deltas) {
	case 2:
		return ds, nil

	case 1:
		if rej := e.synthesizeMissingLeg(tx, ds); rej != nil {
			return nil, rej
		}
		return ds, nil

	case 0:
		if hasTransferAction(tx) && !hasSwapAction(tx) {
			r := reject(ReasonOnlyTransferActions, map[string]any{
				"note": "transfer actions only, no balance deltas for swapper",
			})
			return nil, &r
		}
		r := reject(ReasonInvalidAssetCount, map[string]any{
			"assetCount": 0,
			"collapsed":  append([]string(nil), ds.collapsed...),
		})
		return nil, &r

	default:
		r := reject(ReasonInvalidAssetCount, map[string]any{
			"assetCount":  len(ds.deltas),
			"assetDeltas": describeDeltas(ds.deltas),
		})
		return nil, &r
	}
}

// collapseNoise drops a fee-sized net SOL delta when two significant
// assets remain. The transaction fee guarantees the fee payer's lamport
// row moves on every swap, so a stable-quoted or token-for-token trade
// would otherwise always carry a third SOL asset. With fewer than two
// significant assets the small SOL delta stays: it may be the quote side
// of a legitimate micro-swap.
func (e *Engine) collapseNoise(ds *deltaSet) {
	if e.cfg.NoiseFloorLamports == 0 || len(ds.deltas) <= 2 {
		return
	}

	var kept, noise []AssetDelta
	for _, d := range ds.deltas {
		if e.isNoiseDelta(d) {
			noise = append(noise, d)
		} else {
			kept = append(kept, d)
		}
	}
	if len(noise) == 0 || len(kept) < 2 {
		return
	}

	for _, d := range noise {
		ds.collapsed = append(ds.collapsed, d.Mint)
	}
	ds.deltas = kept
}

func (e *Engine) isNoiseDelta(d AssetDelta) bool {
	if d.Mint != WrappedSOLMint {
		return false
	}
	abs := new(big.Int).Abs(d.RawDelta)
	return abs.IsUint64() && abs.Uint64() <= e.cfg.NoiseFloorLamports
}

// synthesizeMissingLeg covers the case where the counter-asset never
// reached the swapper's own account (pool paid an associated/intermediate
// account, or a multi-hop route). It reads the top-level SWAP action and
// adds ONLY the leg that is absent from the balance-change-derived set;
// re-adding the observed leg would double-count it.
func (e *Engine) synthesizeMissingLeg(tx *RawTransaction, ds *deltaSet) *Rejected {
	have := ds.deltas[0]

	act := firstSwapAction(tx)
	if act == nil {
		if len(tx.Actions) == 0 || hasTransferAction(tx) {
			r := reject(ReasonSimpleTransferDetected, map[string]any{
				"assetDeltas": describeDeltas(ds.deltas),
				"note":        "single unidirectional balance change with no swap action",
			})
			return &r
		}
		r := reject(ReasonNoSwapAction, map[string]any{
			"assetDeltas": describeDeltas(ds.deltas),
		})
		return &r
	}

	inMint := CanonicalMint(act.TokensSwapped.In.Mint)
	outMint := CanonicalMint(act.TokensSwapped.Out.Mint)

	var missing ActionToken
	var sign int
	switch have.Mint {
	case inMint:
		missing, sign = act.TokensSwapped.Out, +1
	case outMint:
		missing, sign = act.TokensSwapped.In, -1
	default:
		r := reject(ReasonInvalidAssetCount, map[string]any{
			"assetDeltas": describeDeltas(ds.deltas),
			"swapAction":  fmt.Sprintf("in=%s out=%s", inMint, outMint),
			"note":        "swap action legs do not include the observed asset",
		})
		return &r
	}

	amount, ok := new(big.Int).SetString(missing.Amount, 10)
	if !ok || amount.Sign() <= 0 {
		r := reject(ReasonInvalidAssetCount, map[string]any{
			"assetDeltas": describeDeltas(ds.deltas),
			"note":        "swap action amount for missing leg absent or unparseable",
		})
		return &r
	}
	if sign < 0 {
		amount.Neg(amount)
	}

	mint := CanonicalMint(missing.Mint)
	decimals := missing.Decimals
	if mint == WrappedSOLMint {
		decimals = SOLDecimals
	}
	ds.deltas = append(ds.deltas, AssetDelta{
		Mint:       mint,
		Symbol:     missing.Symbol,
		Decimals:   decimals,
		RawDelta:   amount,
		Provenance: FromSwapAction,
	})
	ds.synthesizedMint = mint
	return nil
}

// isRentRefundRow flags tiny SOL rows that are ATA rent artifacts rather
// than trade proceeds. The lifecycle check (zero pre- or post-balance)
// keeps legitimate micro-swaps out of the filter.
func (e *Engine) isRentRefundRow(bc BalanceChange) bool {
	p := e.cfg.RentRefund
	change := bc.ChangeAmount
	if change == nil {
		change = new(big.Int)
	}
	abs := new(big.Int).Abs(change)
	if !abs.IsUint64() || abs.Uint64() > p.MaxLamports {
		return false
	}
	if !p.RequireLifecycle {
		return true
	}
	return bigIsZero(bc.PreBalance) || bigIsZero(bc.PostBalance)
}

func bigIsZero(n *big.Int) bool {
	return n == nil || n.Sign() == 0
}

func firstSwapAction(tx *RawTransaction) *Action {
	for i := range tx.Actions {
		a := &tx.Actions[i]
		if a.Type == ActionSwap && a.TokensSwapped != nil {
			return a
		}
	}
	return nil
}

func hasSwapAction(tx *RawTransaction) bool {
	return firstSwapAction(tx) != nil
}

func hasTransferAction(tx *RawTransaction) bool {
	for _, a := range tx.Actions {
		if a.Type == ActionTokenTransfer || a.Type == ActionSolTransfer {
			return true
		}
	}
	return false
}

func describeDeltas(deltas []AssetDelta) []string {
	out := make([]string, 0, len(deltas))
	for _, d := range deltas {
		out = append(out, fmt.Sprintf("%s=%s (%s)", d.Mint, d.RawDelta.String(), d.Provenance))
	}
	return out
}
