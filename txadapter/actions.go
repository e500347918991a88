package txadapter

import (
	"encoding/binary"
	"strconv"

	"github.com/gagliardetto/solana-go"

	"github.com/Bharatsaini2/alpha-sub002/classifier"
)

// collectActions walks outer and inner instructions and decodes the ones
// the classifier cares about: swap route events and plain value transfers.
func (b *Builder) collectActions() []classifier.Action {
	var actions []classifier.Action

	process := func(inst solana.CompiledInstruction) {
		switch {
		case b.isJupiterRouteEventInstruction(inst):
			if act, err := b.jupiterSwapAction(inst); err == nil {
				actions = append(actions, *act)
			} else {
				b.Log.Warnf("failed to decode jupiter route event: %s", err)
			}
		case b.isTransferCheck(inst):
			actions = append(actions, b.transferCheckedAction(inst))
		case b.isTransfer(inst):
			actions = append(actions, b.transferAction(inst))
		case b.isSystemTransfer(inst):
			actions = append(actions, classifier.Action{Type: classifier.ActionSolTransfer})
		}
	}

	for _, instr := range b.txInfo.Message.Instructions {
		process(instr)
	}
	for _, innerSet := range b.txMeta.InnerInstructions {
		for _, instr := range innerSet.Instructions {
			process(b.convertRPCToSolanaInstruction(instr))
		}
	}

	return actions
}

// transferAction decodes Token Program Transfer(3). The mint is resolved
// through the token-account map, preferring the destination side.
func (b *Builder) transferAction(instr solana.CompiledInstruction) classifier.Action {
	amount := binary.LittleEndian.Uint64(instr.Data[1:9])

	srcKey := b.allAccountKeys[instr.Accounts[0]].String()
	dstKey := b.allAccountKeys[instr.Accounts[1]].String()

	mint := b.splTokenInfoMap[dstKey].Mint
	if mint == "" {
		mint = b.splTokenInfoMap[srcKey].Mint
	}

	var decimals uint8
	if mint != "" {
		decimals = b.splDecimalsMap[mint]
	}

	return classifier.Action{
		Type: classifier.ActionTokenTransfer,
		Transfer: &classifier.TransferInfo{
			Mint:        mint,
			Amount:      strconv.FormatUint(amount, 10),
			Decimals:    decimals,
			Source:      srcKey,
			Destination: dstKey,
			Authority:   b.allAccountKeys[instr.Accounts[2]].String(),
		},
	}
}

// transferCheckedAction decodes TransferChecked(12): accounts=[src, mint, dst, auth].
func (b *Builder) transferCheckedAction(instr solana.CompiledInstruction) classifier.Action {
	amount := binary.LittleEndian.Uint64(instr.Data[1:9])
	mint := b.allAccountKeys[instr.Accounts[1]].String()

	return classifier.Action{
		Type: classifier.ActionTokenTransfer,
		Transfer: &classifier.TransferInfo{
			Mint:        mint,
			Amount:      strconv.FormatUint(amount, 10),
			Decimals:    b.splDecimalsMap[mint],
			Source:      b.allAccountKeys[instr.Accounts[0]].String(),
			Destination: b.allAccountKeys[instr.Accounts[2]].String(),
			Authority:   b.allAccountKeys[instr.Accounts[3]].String(),
		},
	}
}
