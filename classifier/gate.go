package classifier

import "github.com/shopspring/decimal"

// ApplyMinimumValueGate is the policy layer on top of classification: the
// caller prices the result externally and passes the leg's USD value here.
// It lives outside Classify so that classification stays testable without
// any pricing, and a zero threshold disables it entirely.
func (e *Engine) ApplyMinimumValueGate(res Result, usdValue decimal.Decimal) Result {
	if e.cfg.MinimumValueUSD.IsZero() {
		return res
	}

	switch res.(type) {
	case Parsed, Split:
		if usdValue.LessThan(e.cfg.MinimumValueUSD) {
			return reject(ReasonBelowMinimumValueThreshold, map[string]any{
				"usdValue":  usdValue.String(),
				"threshold": e.cfg.MinimumValueUSD.String(),
			})
		}
	}
	return res
}
