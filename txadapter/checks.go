package txadapter

import (
	"bytes"

	"github.com/gagliardetto/solana-go"
	"github.com/gagliardetto/solana-go/rpc"
	"github.com/mr-tron/base58"
)

// Treat both Token and Token-2022 as token program.
func (b *Builder) isTokenProgram(pk solana.PublicKey) bool {
	return pk.Equals(solana.TokenProgramID) || pk.Equals(solana.Token2022ProgramID)
}

// isTransfer: Token Program "Transfer" (3)
func (b *Builder) isTransfer(instr solana.CompiledInstruction) bool {
	progID := b.allAccountKeys[instr.ProgramIDIndex]
	if !progID.Equals(solana.TokenProgramID) {
		return false
	}
	if len(instr.Accounts) < 3 || len(instr.Data) < 9 {
		return false
	}
	if instr.Data[0] != 3 {
		return false
	}
	for i := 0; i < 3; i++ {
		if int(instr.Accounts[i]) >= len(b.allAccountKeys) {
			return false
		}
	}
	return true
}

// isTransferCheck: Token or Token-2022 "TransferChecked" (12)
func (b *Builder) isTransferCheck(instr solana.CompiledInstruction) bool {
	progID := b.allAccountKeys[instr.ProgramIDIndex]
	if !b.isTokenProgram(progID) {
		return false
	}
	if len(instr.Accounts) < 4 || len(instr.Data) < 9 {
		return false
	}
	if instr.Data[0] != 12 {
		return false
	}
	for i := 0; i < 4; i++ {
		if int(instr.Accounts[i]) >= len(b.allAccountKeys) {
			return false
		}
	}
	return true
}

// isSystemTransfer: System Program "Transfer" (enum index 2, u32 LE prefix)
func (b *Builder) isSystemTransfer(instr solana.CompiledInstruction) bool {
	progID := b.allAccountKeys[instr.ProgramIDIndex]
	if !progID.Equals(SYSTEM_PROGRAM_ID) {
		return false
	}
	if len(instr.Accounts) < 2 || len(instr.Data) < 12 {
		return false
	}
	return instr.Data[0] == 2 && instr.Data[1] == 0 && instr.Data[2] == 0 && instr.Data[3] == 0
}

func (b *Builder) isJupiterRouteEventInstruction(inst solana.CompiledInstruction) bool {
	if !b.allAccountKeys[inst.ProgramIDIndex].Equals(JUPITER_PROGRAM_ID) || len(inst.Data) == 0 {
		return false
	}
	enc := inst.Data.String()
	if len(enc) == 0 {
		return false
	}
	decodedBytes, err := base58.Decode(enc)
	if err != nil || len(decodedBytes) < 16 {
		return false
	}
	return bytes.Equal(decodedBytes[:16], JupiterRouteEventDiscriminator[:])
}

func (b *Builder) convertRPCToSolanaInstruction(inst rpc.CompiledInstruction) solana.CompiledInstruction {
	return solana.CompiledInstruction{
		ProgramIDIndex: inst.ProgramIDIndex,
		Accounts:       inst.Accounts,
		Data:           inst.Data,
	}
}
