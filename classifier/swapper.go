package classifier

// identifySwapper picks the trader address: the fee payer if it owns at
// least one balance-change row, otherwise the first signer (in array
// order) that does.
func identifySwapper(tx *RawTransaction) (string, SwapperMethod, bool) {
	if tx.FeePayer != "" && ownsBalanceRow(tx, tx.FeePayer) {
		return tx.FeePayer, MethodFeePayer, true
	}
	for _, signer := range tx.Signers {
		if signer == tx.FeePayer {
			continue
		}
		if ownsBalanceRow(tx, signer) {
			return signer, MethodSigner, true
		}
	}
	return "", "", false
}

func ownsBalanceRow(tx *RawTransaction, owner string) bool {
	for _, bc := range tx.BalanceChanges {
		if bc.Owner == owner {
			return true
		}
	}
	return false
}
