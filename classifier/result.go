package classifier

// RejectionReason is the stable string enum consumed by callers for
// metrics and alerting. New reasons extend the list; existing strings
// never change.
type RejectionReason string

const (
	ReasonSwapperIdentificationFailed RejectionReason = "swapper_identification_failed"
	ReasonSimpleTransferDetected      RejectionReason = "simple_transfer_detected"
	ReasonOnlyTransferActions         RejectionReason = "only_transfer_actions"
	ReasonNoOppositeDeltas            RejectionReason = "no_opposite_deltas"
	ReasonInvalidAssetCount           RejectionReason = "invalid_asset_count"
	ReasonAmbiguousCoreToCore         RejectionReason = "ambiguous_core_to_core"
	ReasonQuoteBaseDetectionFailed    RejectionReason = "quote_base_detection_failed"
	ReasonNoSwapAction                RejectionReason = "no_swap_action"
	ReasonBelowMinimumValueThreshold  RejectionReason = "below_minimum_value_threshold"
	ReasonUnknownErase                RejectionReason = "unknown_erase_reason"
)

// Result is the classifier output: exactly one of Parsed, Split or
// Rejected. The private marker method seals the set, so every consumer
// handles all three shapes with a type switch instead of probing for
// fields the way the legacy record did.
type Result interface {
	isResult()
}

// Parsed is a standard single-leg swap.
type Parsed struct {
	Leg SwapLeg
}

// Split is a non-core to non-core trade expressed as two legs.
type Split struct {
	Pair SplitSwapPair
}

// Rejected is a typed non-swap outcome. DebugInfo carries the deltas and
// intermediate decisions that led here.
type Rejected struct {
	Reason    RejectionReason
	DebugInfo map[string]any
}

func (Parsed) isResult()   {}
func (Split) isResult()    {}
func (Rejected) isResult() {}

// reject builds a Rejected value, defaulting an empty reason to
// unknown_erase_reason so callers always see a member of the enum.
func reject(reason RejectionReason, debug map[string]any) Rejected {
	if reason == "" {
		reason = ReasonUnknownErase
	}
	return Rejected{Reason: reason, DebugInfo: debug}
}
