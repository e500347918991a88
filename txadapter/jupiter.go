package txadapter

import (
	"fmt"
	"strconv"

	ag_binary "github.com/gagliardetto/binary"
	"github.com/gagliardetto/solana-go"
	"github.com/mr-tron/base58"

	"github.com/Bharatsaini2/alpha-sub002/classifier"
)

// JupiterSwapEvent is the borsh layout of the Jupiter RouteV2 event.
type JupiterSwapEvent struct {
	Amm          solana.PublicKey
	InputMint    solana.PublicKey
	InputAmount  uint64
	OutputMint   solana.PublicKey
	OutputAmount uint64
}

// jupiterSwapAction decodes a route event into a SWAP action. The event is
// the pool's declaration of both legs; the classifier treats it as
// supplementary to wallet deltas.
func (b *Builder) jupiterSwapAction(instruction solana.CompiledInstruction) (*classifier.Action, error) {
	decodedBytes, err := base58.Decode(instruction.Data.String())
	if err != nil {
		return nil, fmt.Errorf("error decoding instruction data: %w", err)
	}
	if len(decodedBytes) < 16 {
		return nil, fmt.Errorf("jupiter event data too short: %d", len(decodedBytes))
	}

	decoder := ag_binary.NewBorshDecoder(decodedBytes[16:])
	var event JupiterSwapEvent
	if err := decoder.Decode(&event); err != nil {
		return nil, fmt.Errorf("error unmarshaling JupiterSwapEvent: %w", err)
	}

	return &classifier.Action{
		Type:     classifier.ActionSwap,
		Protocol: ProtocolJupiter,
		TokensSwapped: &classifier.TokensSwapped{
			In: classifier.ActionToken{
				Mint:     event.InputMint.String(),
				Amount:   strconv.FormatUint(event.InputAmount, 10),
				Decimals: b.splDecimalsMap[event.InputMint.String()],
			},
			Out: classifier.ActionToken{
				Mint:     event.OutputMint.String(),
				Amount:   strconv.FormatUint(event.OutputAmount, 10),
				Decimals: b.splDecimalsMap[event.OutputMint.String()],
			},
		},
	}, nil
}
