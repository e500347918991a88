package txadapter

import (
	"bytes"
	"encoding/binary"
	"math/big"
	"testing"

	"github.com/gagliardetto/solana-go"
	"github.com/gagliardetto/solana-go/rpc"
	"github.com/stretchr/testify/require"

	"github.com/Bharatsaini2/alpha-sub002/classifier"
)

// fixture is one hand-built transaction: the payer sends 750000 units of
// an SPL token from its account (index 1) to another (index 2), paying
// 5000 lamports in fees, through a Raydium outer instruction.
type fixture struct {
	payer, srcTok, dstTok, mint solana.PublicKey
	keys                        []solana.PublicKey
	tx                          *solana.Transaction
	meta                        *rpc.TransactionMeta
}

const (
	idxPayer = iota
	idxSrcTok
	idxDstTok
	idxMint
	idxTokenProg
	idxRaydium
)

func newFixture(t *testing.T) *fixture {
	t.Helper()
	f := &fixture{
		payer:  solana.NewWallet().PublicKey(),
		srcTok: solana.NewWallet().PublicKey(),
		dstTok: solana.NewWallet().PublicKey(),
		mint:   solana.NewWallet().PublicKey(),
	}
	f.keys = []solana.PublicKey{
		f.payer, f.srcTok, f.dstTok, f.mint,
		solana.TokenProgramID, RAYDIUM_V4_PROGRAM_ID,
	}

	transferData := make([]byte, 9)
	transferData[0] = 3
	binary.LittleEndian.PutUint64(transferData[1:], 750000)

	f.tx = &solana.Transaction{
		Signatures: []solana.Signature{{1, 2, 3}},
		Message: solana.Message{
			Header:      solana.MessageHeader{NumRequiredSignatures: 1},
			AccountKeys: f.keys,
			Instructions: []solana.CompiledInstruction{
				{ProgramIDIndex: idxRaydium, Accounts: []uint16{idxSrcTok, idxDstTok}},
				{ProgramIDIndex: idxTokenProg, Accounts: []uint16{idxSrcTok, idxDstTok, idxPayer}, Data: solana.Base58(transferData)},
			},
		},
	}

	owner := f.payer
	other := f.dstTok
	f.meta = &rpc.TransactionMeta{
		Fee: 5000,
		// Only the payer's lamports move.
		PreBalances:  []uint64{10_000_000_000, 2_039_280, 2_039_280, 1_461_600, 1, 1},
		PostBalances: []uint64{9_999_995_000, 2_039_280, 2_039_280, 1_461_600, 1, 1},
		PreTokenBalances: []rpc.TokenBalance{
			{AccountIndex: idxSrcTok, Mint: f.mint, Owner: &owner,
				UiTokenAmount: &rpc.UiTokenAmount{Amount: "5000000", Decimals: 6}},
			{AccountIndex: idxDstTok, Mint: f.mint, Owner: &other,
				UiTokenAmount: &rpc.UiTokenAmount{Amount: "0", Decimals: 6}},
		},
		PostTokenBalances: []rpc.TokenBalance{
			{AccountIndex: idxSrcTok, Mint: f.mint, Owner: &owner,
				UiTokenAmount: &rpc.UiTokenAmount{Amount: "4250000", Decimals: 6}},
			{AccountIndex: idxDstTok, Mint: f.mint, Owner: &other,
				UiTokenAmount: &rpc.UiTokenAmount{Amount: "750000", Decimals: 6}},
		},
	}
	return f
}

func (f *fixture) build(t *testing.T) *classifier.RawTransaction {
	t.Helper()
	b, err := NewBuilderFromTransaction(f.tx, f.meta)
	require.NoError(t, err)
	raw, err := b.Build()
	require.NoError(t, err)
	return raw
}

func TestBuild_Identity(t *testing.T) {
	f := newFixture(t)
	raw := f.build(t)

	require.Equal(t, f.tx.Signatures[0].String(), raw.Signature)
	require.Equal(t, "success", raw.Status)
	require.Equal(t, uint64(5000), raw.FeeLamports)
	require.Equal(t, f.payer.String(), raw.FeePayer)
	require.Equal(t, []string{f.payer.String()}, raw.Signers)
}

func TestBuild_FailedStatus(t *testing.T) {
	f := newFixture(t)
	f.meta.Err = map[string]any{"InstructionError": []any{}}
	raw := f.build(t)
	require.Equal(t, "failed", raw.Status)
}

func TestBuild_TokenBalanceChanges(t *testing.T) {
	f := newFixture(t)
	raw := f.build(t)

	byOwner := map[string]classifier.BalanceChange{}
	for _, bc := range raw.BalanceChanges {
		if bc.Mint == f.mint.String() {
			byOwner[bc.Owner] = bc
		}
	}

	src, ok := byOwner[f.payer.String()]
	require.True(t, ok, "payer-owned token row missing")
	require.Equal(t, big.NewInt(-750_000), src.ChangeAmount)
	require.Equal(t, big.NewInt(5_000_000), src.PreBalance)
	require.Equal(t, big.NewInt(4_250_000), src.PostBalance)
	require.Equal(t, uint8(6), src.Decimals)

	dst, ok := byOwner[f.dstTok.String()]
	require.True(t, ok)
	require.Equal(t, big.NewInt(750_000), dst.ChangeAmount)
}

func TestBuild_LamportBalanceChanges(t *testing.T) {
	f := newFixture(t)
	raw := f.build(t)

	var solRows []classifier.BalanceChange
	for _, bc := range raw.BalanceChanges {
		if bc.Mint == classifier.NativeSOLMint {
			solRows = append(solRows, bc)
		}
	}

	// Unchanged accounts produce no row; only the payer's fee debit shows.
	require.Len(t, solRows, 1)
	require.Equal(t, f.payer.String(), solRows[0].Owner)
	require.Equal(t, big.NewInt(-5000), solRows[0].ChangeAmount)
}

func TestBuild_TransferAction(t *testing.T) {
	f := newFixture(t)
	raw := f.build(t)

	var transfers []classifier.Action
	for _, a := range raw.Actions {
		if a.Type == classifier.ActionTokenTransfer {
			transfers = append(transfers, a)
		}
	}
	require.Len(t, transfers, 1)

	tr := transfers[0].Transfer
	require.NotNil(t, tr)
	require.Equal(t, f.mint.String(), tr.Mint)
	require.Equal(t, "750000", tr.Amount)
	require.Equal(t, uint8(6), tr.Decimals)
	require.Equal(t, f.srcTok.String(), tr.Source)
	require.Equal(t, f.dstTok.String(), tr.Destination)
	require.Equal(t, f.payer.String(), tr.Authority)
}

func TestBuild_InnerTransferChecked(t *testing.T) {
	f := newFixture(t)

	data := make([]byte, 10)
	data[0] = 12
	binary.LittleEndian.PutUint64(data[1:9], 123456)
	data[9] = 6 // decimals
	f.meta.InnerInstructions = []rpc.InnerInstruction{{
		Index: 0,
		Instructions: []rpc.CompiledInstruction{{
			ProgramIDIndex: idxTokenProg,
			Accounts:       []uint16{idxSrcTok, idxMint, idxDstTok, idxPayer},
			Data:           solana.Base58(data),
		}},
	}}

	raw := f.build(t)

	var checked *classifier.TransferInfo
	for _, a := range raw.Actions {
		if a.Type == classifier.ActionTokenTransfer && a.Transfer != nil && a.Transfer.Amount == "123456" {
			checked = a.Transfer
		}
	}
	require.NotNil(t, checked, "inner TransferChecked not decoded")
	require.Equal(t, f.mint.String(), checked.Mint)
	require.Equal(t, f.srcTok.String(), checked.Source)
	require.Equal(t, f.dstTok.String(), checked.Destination)
	require.Equal(t, f.payer.String(), checked.Authority)
	require.Equal(t, uint8(6), checked.Decimals)
}

func TestBuild_SystemTransferAction(t *testing.T) {
	f := newFixture(t)

	f.keys = append(f.keys, SYSTEM_PROGRAM_ID)
	f.tx.Message.AccountKeys = f.keys
	f.meta.PreBalances = append(f.meta.PreBalances, 1)
	f.meta.PostBalances = append(f.meta.PostBalances, 1)

	data := make([]byte, 12)
	data[0] = 2
	binary.LittleEndian.PutUint64(data[4:], 1_000_000)
	f.tx.Message.Instructions = append(f.tx.Message.Instructions, solana.CompiledInstruction{
		ProgramIDIndex: uint16(len(f.keys) - 1),
		Accounts:       []uint16{idxPayer, idxDstTok},
		Data:           solana.Base58(data),
	})

	raw := f.build(t)

	var found bool
	for _, a := range raw.Actions {
		if a.Type == classifier.ActionSolTransfer {
			found = true
		}
	}
	require.True(t, found)
}

func TestBuild_ProtocolDescriptor(t *testing.T) {
	f := newFixture(t)
	raw := f.build(t)

	require.NotNil(t, raw.Protocol)
	require.Equal(t, ProtocolRaydium, raw.Protocol.Name)
	require.Equal(t, RAYDIUM_V4_PROGRAM_ID.String(), raw.Protocol.Address)
}

func TestBuild_JupiterRouteEvent(t *testing.T) {
	f := newFixture(t)

	inputMint := solana.NewWallet().PublicKey()
	f.keys = append(f.keys, JUPITER_PROGRAM_ID)
	f.tx.Message.AccountKeys = f.keys
	f.meta.PreBalances = append(f.meta.PreBalances, 1)
	f.meta.PostBalances = append(f.meta.PostBalances, 1)

	var buf bytes.Buffer
	buf.Write(JupiterRouteEventDiscriminator[:])
	buf.Write(solana.NewWallet().PublicKey().Bytes()) // amm
	buf.Write(inputMint.Bytes())
	var amt [8]byte
	binary.LittleEndian.PutUint64(amt[:], 3_740_000_000)
	buf.Write(amt[:])
	buf.Write(f.mint.Bytes())
	binary.LittleEndian.PutUint64(amt[:], 750_000)
	buf.Write(amt[:])

	f.tx.Message.Instructions = append(f.tx.Message.Instructions, solana.CompiledInstruction{
		ProgramIDIndex: uint16(len(f.keys) - 1),
		Data:           solana.Base58(buf.Bytes()),
	})

	raw := f.build(t)

	var swap *classifier.Action
	for i := range raw.Actions {
		if raw.Actions[i].Type == classifier.ActionSwap {
			swap = &raw.Actions[i]
		}
	}
	require.NotNil(t, swap, "route event not decoded")
	require.Equal(t, ProtocolJupiter, swap.Protocol)
	require.Equal(t, inputMint.String(), swap.TokensSwapped.In.Mint)
	require.Equal(t, "3740000000", swap.TokensSwapped.In.Amount)
	require.Equal(t, f.mint.String(), swap.TokensSwapped.Out.Mint)
	require.Equal(t, "750000", swap.TokensSwapped.Out.Amount)
	require.Equal(t, uint8(6), swap.TokensSwapped.Out.Decimals)
}

func TestNewBuilderFromTransaction_RequiresInputs(t *testing.T) {
	_, err := NewBuilderFromTransaction(nil, &rpc.TransactionMeta{})
	require.Error(t, err)
	_, err = NewBuilderFromTransaction(&solana.Transaction{}, nil)
	require.Error(t, err)
}

func TestBuild_RequiresAccountKeys(t *testing.T) {
	tx := &solana.Transaction{
		Signatures: []solana.Signature{{1}},
		Message: solana.Message{
			Header: solana.MessageHeader{NumRequiredSignatures: 1},
		},
	}
	b, err := NewBuilderFromTransaction(tx, &rpc.TransactionMeta{})
	require.NoError(t, err)

	_, err = b.Build()
	require.Error(t, err, "signed but keyless transaction must error, not panic")
}
