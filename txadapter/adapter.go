// Package txadapter converts fetched Solana transactions into the
// classifier's RawTransaction input: per-account balance deltas from
// pre/post balances, decoded transfer and swap actions, and a protocol
// descriptor derived from the programs the transaction went through.
package txadapter

import (
	"fmt"
	"math/big"
	"time"

	"github.com/gagliardetto/solana-go"
	"github.com/gagliardetto/solana-go/rpc"
	"github.com/sirupsen/logrus"

	"github.com/Bharatsaini2/alpha-sub002/classifier"
)

// TokenInfo maps a token account to its mint and decimals.
type TokenInfo struct {
	Mint     string
	Decimals uint8
}

// Builder adapts one transaction. It carries the flattened account keys
// and the token-account maps derived from pre/post balances.
type Builder struct {
	txMeta          *rpc.TransactionMeta
	txInfo          *solana.Transaction
	allAccountKeys  solana.PublicKeySlice
	splTokenInfoMap map[string]TokenInfo
	splDecimalsMap  map[string]uint8
	blockTime       time.Time
	Log             *logrus.Logger
}

func NewBuilder(tx *rpc.GetTransactionResult) (*Builder, error) {
	txInfo, err := tx.Transaction.GetTransaction()
	if err != nil {
		return nil, fmt.Errorf("failed to get transaction: %w", err)
	}

	b, err := NewBuilderFromTransaction(txInfo, tx.Meta)
	if err != nil {
		return nil, err
	}
	if tx.BlockTime != nil {
		b.blockTime = tx.BlockTime.Time()
	}
	return b, nil
}

func NewBuilderFromTransaction(tx *solana.Transaction, txMeta *rpc.TransactionMeta) (*Builder, error) {
	if tx == nil || txMeta == nil {
		return nil, fmt.Errorf("transaction and meta are required")
	}

	allAccountKeys := append(solana.PublicKeySlice{}, tx.Message.AccountKeys...)
	allAccountKeys = append(allAccountKeys, txMeta.LoadedAddresses.Writable...)
	allAccountKeys = append(allAccountKeys, txMeta.LoadedAddresses.ReadOnly...)

	log := logrus.New()
	log.SetFormatter(&logrus.TextFormatter{
		TimestampFormat: "2006-01-02 15:04:05",
		FullTimestamp:   true,
	})

	b := &Builder{
		txMeta:         txMeta,
		txInfo:         tx,
		allAccountKeys: allAccountKeys,
		Log:            log,
	}

	b.extractSPLTokenInfo()
	b.extractSPLDecimals()

	return b, nil
}

// Build produces the classifier input.
func (b *Builder) Build() (*classifier.RawTransaction, error) {
	if len(b.txInfo.Signatures) == 0 {
		return nil, fmt.Errorf("transaction has no signatures")
	}
	if len(b.allAccountKeys) == 0 {
		return nil, fmt.Errorf("transaction has no account keys")
	}

	status := "success"
	if b.txMeta.Err != nil {
		status = "failed"
	}

	numSigners := int(b.txInfo.Message.Header.NumRequiredSignatures)
	if numSigners > len(b.txInfo.Message.AccountKeys) {
		numSigners = len(b.txInfo.Message.AccountKeys)
	}
	signers := make([]string, 0, numSigners)
	for i := 0; i < numSigners; i++ {
		signers = append(signers, b.txInfo.Message.AccountKeys[i].String())
	}

	raw := &classifier.RawTransaction{
		Signature:   b.txInfo.Signatures[0].String(),
		Timestamp:   b.blockTime,
		Status:      status,
		FeeLamports: b.txMeta.Fee,
		FeePayer:    b.allAccountKeys[0].String(),
		Signers:     signers,
	}

	raw.BalanceChanges = append(raw.BalanceChanges, b.tokenBalanceChanges()...)
	raw.BalanceChanges = append(raw.BalanceChanges, b.lamportBalanceChanges()...)
	raw.Actions = b.collectActions()
	raw.Protocol = b.protocolDescriptor()

	return raw, nil
}

// tokenBalanceChanges builds one row per token account the transaction
// touched, with post-pre deltas in raw base units.
func (b *Builder) tokenBalanceChanges() []classifier.BalanceChange {
	type row struct {
		mint     string
		owner    string
		decimals uint8
		pre      *big.Int
		post     *big.Int
	}

	rows := make(map[uint16]*row)
	var order []uint16

	touch := func(idx uint16, mint solana.PublicKey, owner *solana.PublicKey, decimals uint8) *row {
		r, ok := rows[idx]
		if !ok {
			r = &row{pre: new(big.Int), post: new(big.Int)}
			rows[idx] = r
			order = append(order, idx)
		}
		if !mint.IsZero() {
			r.mint = mint.String()
		}
		if owner != nil {
			r.owner = owner.String()
		}
		r.decimals = decimals
		return r
	}

	for _, tb := range b.txMeta.PreTokenBalances {
		r := touch(tb.AccountIndex, tb.Mint, tb.Owner, tb.UiTokenAmount.Decimals)
		r.pre = parseRawInt(tb.UiTokenAmount.Amount)
	}
	for _, tb := range b.txMeta.PostTokenBalances {
		r := touch(tb.AccountIndex, tb.Mint, tb.Owner, tb.UiTokenAmount.Decimals)
		r.post = parseRawInt(tb.UiTokenAmount.Amount)
	}

	out := make([]classifier.BalanceChange, 0, len(order))
	for _, idx := range order {
		r := rows[idx]
		out = append(out, classifier.BalanceChange{
			Mint:         r.mint,
			Owner:        r.owner,
			Decimals:     r.decimals,
			ChangeAmount: new(big.Int).Sub(r.post, r.pre),
			PreBalance:   r.pre,
			PostBalance:  r.post,
		})
	}
	return out
}

// lamportBalanceChanges builds native-SOL rows for the statically keyed
// accounts. The owner of a lamport row is the account itself, so only the
// wallet-level rows ever match the identified swapper.
func (b *Builder) lamportBalanceChanges() []classifier.BalanceChange {
	var out []classifier.BalanceChange
	n := len(b.txInfo.Message.AccountKeys)
	if len(b.txMeta.PreBalances) < n || len(b.txMeta.PostBalances) < n {
		n = min(len(b.txMeta.PreBalances), len(b.txMeta.PostBalances))
	}
	for i := 0; i < n; i++ {
		pre := new(big.Int).SetUint64(b.txMeta.PreBalances[i])
		post := new(big.Int).SetUint64(b.txMeta.PostBalances[i])
		if pre.Cmp(post) == 0 {
			continue
		}
		out = append(out, classifier.BalanceChange{
			Mint:         classifier.NativeSOLMint,
			Owner:        b.txInfo.Message.AccountKeys[i].String(),
			Decimals:     classifier.SOLDecimals,
			ChangeAmount: new(big.Int).Sub(post, pre),
			PreBalance:   pre,
			PostBalance:  post,
		})
	}
	return out
}

func (b *Builder) protocolDescriptor() *classifier.Protocol {
	for _, instr := range b.txInfo.Message.Instructions {
		if int(instr.ProgramIDIndex) >= len(b.allAccountKeys) {
			continue
		}
		progID := b.allAccountKeys[instr.ProgramIDIndex]
		if name := protocolFor(progID); name != "" {
			return &classifier.Protocol{Name: name, Address: progID.String()}
		}
	}
	return nil
}

// extractSPLTokenInfo builds token-account -> (mint,decimals) using both
// PRE and POST balances, and propagates mint on plain Transfer(3) when one
// side is known.
func (b *Builder) extractSPLTokenInfo() {
	splTokenAddresses := make(map[string]TokenInfo)

	for _, accountInfo := range b.txMeta.PreTokenBalances {
		if !accountInfo.Mint.IsZero() && int(accountInfo.AccountIndex) < len(b.allAccountKeys) {
			accountKey := b.allAccountKeys[accountInfo.AccountIndex].String()
			splTokenAddresses[accountKey] = TokenInfo{
				Mint:     accountInfo.Mint.String(),
				Decimals: accountInfo.UiTokenAmount.Decimals,
			}
		}
	}
	for _, accountInfo := range b.txMeta.PostTokenBalances {
		if !accountInfo.Mint.IsZero() && int(accountInfo.AccountIndex) < len(b.allAccountKeys) {
			accountKey := b.allAccountKeys[accountInfo.AccountIndex].String()
			splTokenAddresses[accountKey] = TokenInfo{
				Mint:     accountInfo.Mint.String(),
				Decimals: accountInfo.UiTokenAmount.Decimals,
			}
		}
	}

	processInstruction := func(instr solana.CompiledInstruction) {
		if int(instr.ProgramIDIndex) >= len(b.allAccountKeys) {
			return
		}
		if !b.isTokenProgram(b.allAccountKeys[instr.ProgramIDIndex]) {
			return
		}
		if len(instr.Data) == 0 || len(instr.Accounts) < 2 {
			return
		}
		for i := 0; i < 2; i++ {
			if int(instr.Accounts[i]) >= len(b.allAccountKeys) {
				return
			}
		}

		op := instr.Data[0]
		source := b.allAccountKeys[instr.Accounts[0]].String()
		destination := b.allAccountKeys[instr.Accounts[1]].String()
		if _, exists := splTokenAddresses[source]; !exists {
			splTokenAddresses[source] = TokenInfo{}
		}
		if _, exists := splTokenAddresses[destination]; !exists {
			splTokenAddresses[destination] = TokenInfo{}
		}

		// TransferChecked(12): accounts=[src, mint, dst, ...]
		if op == 12 && len(instr.Accounts) >= 3 && int(instr.Accounts[2]) < len(b.allAccountKeys) {
			mint := b.allAccountKeys[instr.Accounts[1]].String()
			dst := b.allAccountKeys[instr.Accounts[2]].String()
			if ti := splTokenAddresses[source]; ti.Mint == "" {
				splTokenAddresses[source] = TokenInfo{Mint: mint, Decimals: ti.Decimals}
			}
			if ti := splTokenAddresses[dst]; ti.Mint == "" {
				splTokenAddresses[dst] = TokenInfo{Mint: mint, Decimals: ti.Decimals}
			}
		}

		// Transfer(3): both sides share a mint; propagate the known side.
		if op == 3 {
			sInfo := splTokenAddresses[source]
			dInfo := splTokenAddresses[destination]
			switch {
			case sInfo.Mint != "" && dInfo.Mint == "":
				splTokenAddresses[destination] = TokenInfo{Mint: sInfo.Mint, Decimals: dInfo.Decimals}
			case dInfo.Mint != "" && sInfo.Mint == "":
				splTokenAddresses[source] = TokenInfo{Mint: dInfo.Mint, Decimals: sInfo.Decimals}
			}
		}
	}

	for _, instr := range b.txInfo.Message.Instructions {
		processInstruction(instr)
	}
	for _, innerSet := range b.txMeta.InnerInstructions {
		for _, instr := range innerSet.Instructions {
			processInstruction(b.convertRPCToSolanaInstruction(instr))
		}
	}

	b.splTokenInfoMap = splTokenAddresses
}

func (b *Builder) extractSPLDecimals() {
	mintToDecimals := make(map[string]uint8)

	for _, accountInfo := range b.txMeta.PostTokenBalances {
		if !accountInfo.Mint.IsZero() {
			mintToDecimals[accountInfo.Mint.String()] = accountInfo.UiTokenAmount.Decimals
		}
	}
	for _, accountInfo := range b.txMeta.PreTokenBalances {
		mint := accountInfo.Mint.String()
		if !accountInfo.Mint.IsZero() {
			if _, exists := mintToDecimals[mint]; !exists {
				mintToDecimals[mint] = accountInfo.UiTokenAmount.Decimals
			}
		}
	}

	mintToDecimals[classifier.WrappedSOLMint] = classifier.SOLDecimals
	mintToDecimals[classifier.NativeSOLMint] = classifier.SOLDecimals

	b.splDecimalsMap = mintToDecimals
}

func parseRawInt(s string) *big.Int {
	n := new(big.Int)
	if _, ok := n.SetString(s, 10); !ok {
		return new(big.Int)
	}
	return n
}

func min(a, b int) int {
	if a < b {
		return a
	}
	return b
}
