package classifier

// swapShape is the resolved economic shape of the two-asset delta set.
type swapShape int

const (
	shapeStandard swapShape = iota
	shapeSplit
)

type shapeResolution struct {
	kind swapShape

	// standard swap
	direction Direction
	base      AssetDelta
	quote     AssetDelta

	// split swap: the outgoing and incoming non-core assets
	sellSide AssetDelta
	buySide  AssetDelta
}

// resolveShape decides standard vs split vs rejection from the signed
// deltas and their core/non-core tags. Exactly two deltas arrive here.
func (e *Engine) resolveShape(ds *deltaSet) (*shapeResolution, *Rejected) {
	a, b := ds.deltas[0], ds.deltas[1]
	aCore, bCore := e.isCore(a.Mint), e.isCore(b.Mint)

	switch {
	case aCore && bCore:
		r := reject(ReasonAmbiguousCoreToCore, map[string]any{
			"assetDeltas": describeDeltas(ds.deltas),
		})
		return nil, &r

	case aCore || bCore:
		core, noncore := a, b
		if bCore {
			core, noncore = b, a
		}
		if core.RawDelta.Sign() == noncore.RawDelta.Sign() {
			r := reject(ReasonNoOppositeDeltas, map[string]any{
				"assetDeltas": describeDeltas(ds.deltas),
			})
			return nil, &r
		}
		res := &shapeResolution{kind: shapeStandard, base: noncore, quote: core}
		// Core outflow means the wallet paid settlement currency: a buy.
		if core.RawDelta.Sign() < 0 {
			res.direction = Buy
		} else {
			res.direction = Sell
		}
		if noncore.RawDelta.Sign() == 0 || core.RawDelta.Sign() == 0 {
			r := reject(ReasonQuoteBaseDetectionFailed, map[string]any{
				"assetDeltas": describeDeltas(ds.deltas),
			})
			return nil, &r
		}
		return res, nil

	default:
		// Token-for-token with no common settlement currency: split.
		if a.RawDelta.Sign() == b.RawDelta.Sign() {
			r := reject(ReasonNoOppositeDeltas, map[string]any{
				"assetDeltas": describeDeltas(ds.deltas),
			})
			return nil, &r
		}
		res := &shapeResolution{kind: shapeSplit}
		if a.RawDelta.Sign() < 0 {
			res.sellSide, res.buySide = a, b
		} else {
			res.sellSide, res.buySide = b, a
		}
		return res, nil
	}
}

func (e *Engine) isCore(mint string) bool {
	return e.core[CanonicalMint(mint)]
}
