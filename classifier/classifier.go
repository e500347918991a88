// Package classifier turns raw Solana transaction records into normalized
// swap events: a BUY, a SELL, a split pair of both, or a typed rejection.
//
// The engine is a pure function of its input and configuration: no I/O, no
// clocks, no shared mutable state. Classifying the same transaction twice
// yields the same result, and the engine is safe for concurrent use.
package classifier

import (
	"errors"

	"github.com/sirupsen/logrus"
)

const splitReasonNoCoreAsset = "no_common_core_settlement_asset"

// Engine classifies raw transactions against an immutable Config.
type Engine struct {
	cfg  Config
	core map[string]bool
	log  *logrus.Logger
}

// New builds an engine. The default logger only surfaces warnings so pure
// library use stays quiet.
func New(cfg Config) *Engine {
	log := logrus.New()
	log.SetFormatter(&logrus.TextFormatter{
		TimestampFormat: "2006-01-02 15:04:05",
		FullTimestamp:   true,
	})
	log.SetLevel(logrus.WarnLevel)
	return NewWithLogger(cfg, log)
}

// NewWithLogger builds an engine with the caller's logger.
func NewWithLogger(cfg Config, log *logrus.Logger) *Engine {
	core := make(map[string]bool, len(cfg.CoreMints))
	for _, mint := range cfg.CoreMints {
		core[CanonicalMint(mint)] = true
	}
	return &Engine{cfg: cfg, core: core, log: log}
}

// Classify runs the full pipeline. The error return is reserved for
// unrecoverable input-shape violations; every other failure mode comes
// back as a Rejected value with a reason and debug payload.
func (e *Engine) Classify(tx *RawTransaction) (Result, error) {
	if tx == nil {
		return nil, errors.New("nil transaction")
	}
	if tx.Signature == "" {
		return nil, errors.New("transaction signature is required")
	}
	if tx.FeePayer == "" && len(tx.Signers) == 0 {
		return nil, errors.New("transaction has no fee payer and no signers")
	}

	swapper, method, ok := identifySwapper(tx)
	if !ok {
		e.log.WithField("signature", tx.Signature).Debug("no fee payer or signer owns a balance row")
		return reject(ReasonSwapperIdentificationFailed, map[string]any{
			"feePayer": tx.FeePayer,
			"signers":  append([]string(nil), tx.Signers...),
		}), nil
	}

	ds, rej := e.collectDeltas(tx, swapper)
	if rej != nil {
		e.log.WithFields(logrus.Fields{
			"signature": tx.Signature,
			"reason":    rej.Reason,
		}).Debug("delta collection rejected transaction")
		return *rej, nil
	}

	shape, rej := e.resolveShape(ds)
	if rej != nil {
		return *rej, nil
	}

	protocol := e.protocolName(tx)

	switch shape.kind {
	case shapeStandard:
		leg := e.buildLeg(tx, shape.direction, shape.base, shape.quote, true, swapper, method, ds, protocol)
		return Parsed{Leg: leg}, nil

	case shapeSplit:
		pair := SplitSwapPair{
			SellRecord:  e.buildLeg(tx, Sell, shape.sellSide, shape.buySide, false, swapper, method, ds, protocol),
			BuyRecord:   e.buildLeg(tx, Buy, shape.buySide, shape.sellSide, false, swapper, method, ds, protocol),
			SplitReason: splitReasonNoCoreAsset,
		}
		return Split{Pair: pair}, nil
	}

	return reject(ReasonUnknownErase, nil), nil
}

func (e *Engine) buildLeg(tx *RawTransaction, direction Direction, base, quote AssetDelta, quoteIsSettlement bool, swapper string, method SwapperMethod, ds *deltaSet, protocol string) SwapLeg {
	return SwapLeg{
		Signature:                   tx.Signature,
		Direction:                   direction,
		Swapper:                     swapper,
		BaseAsset:                   Asset{Mint: base.Mint, Symbol: base.Symbol, Decimals: base.Decimals},
		QuoteAsset:                  Asset{Mint: quote.Mint, Symbol: quote.Symbol, Decimals: quote.Decimals},
		Amounts:                     e.legAmounts(tx, direction, base, quote, quoteIsSettlement),
		Confidence:                  confidenceFor(base, ds, method),
		SwapperIdentificationMethod: method,
		RentRefundsFiltered:         ds.rentFiltered,
		IntermediateAssetsCollapsed: append([]string(nil), ds.collapsed...),
		Protocol:                    protocol,
	}
}

// confidenceFor tags provenance quality. A base amount that exists only
// because the fallback read it off the swap action is the weakest case.
func confidenceFor(base AssetDelta, ds *deltaSet, method SwapperMethod) Confidence {
	if base.Provenance == FromSwapAction {
		return ConfidenceLow
	}
	if ds.synthesizedMint != "" || method == MethodSigner {
		return ConfidenceMedium
	}
	return ConfidenceHigh
}

func (e *Engine) protocolName(tx *RawTransaction) string {
	if tx.Protocol != nil && tx.Protocol.Name != "" {
		return tx.Protocol.Name
	}
	if act := firstSwapAction(tx); act != nil && act.Protocol != "" {
		return act.Protocol
	}
	return "UNKNOWN"
}
