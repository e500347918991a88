package txadapter

import "github.com/gagliardetto/solana-go"

var (
	RAYDIUM_V4_PROGRAM_ID                     = solana.MustPublicKeyFromBase58("675kPX9MHTjS2zt1qfr1NYHuzeLXfQM9H24wFSUt1Mp8")
	RAYDIUM_CPMM_PROGRAM_ID                   = solana.MustPublicKeyFromBase58("CPMMoo8L3F4NbTegBCKVNunggL7H1ZpdTHKxQB5qKP1C")
	RAYDIUM_CONCENTRATED_LIQUIDITY_PROGRAM_ID = solana.MustPublicKeyFromBase58("CAMMCzo5YL8w4VFF8KVHrK22GGUsp5VTaW7grrKgrWqK")
	RAYDIUM_LAUNCHLAB_PROGRAM_ID              = solana.MustPublicKeyFromBase58("LanMV9sAd7wArD4vJFi2qDdfnVhFxYSUg6eADduJ3uj")

	ORCA_PROGRAM_ID = solana.MustPublicKeyFromBase58("whirLbMiicVdio4qvUfM5KAg6Ct8VwpYzGff3uctyCc")

	METEORA_DLMM_PROGRAM_ID  = solana.MustPublicKeyFromBase58("LBUZKhRxPF3XUpBCjp4YzTKgLccjZhTSDM9YuVaPwxo")
	METEORA_POOLS_PROGRAM_ID = solana.MustPublicKeyFromBase58("Eo7WjKq67rjJQSZxS6z3YkapzY3eMj6Xy8X5EQVn5UaB")

	PUMP_FUN_PROGRAM_ID    = solana.MustPublicKeyFromBase58("6EF8rrecthR5Dkzon8Nwu78hRvfCKubJ14M5uBEwF6P")
	PUMPFUN_AMM_PROGRAM_ID = solana.MustPublicKeyFromBase58("pAMMBay6oceH9fJKBRHGP5D4bD4sWpmSwMn52FMfXEA")

	JUPITER_PROGRAM_ID     = solana.MustPublicKeyFromBase58("JUP6LkbZbjS1jKKwapdHNy74zcZ3tLUZoi5QNyVTaV4")
	JUPITER_DCA_PROGRAM_ID = solana.MustPublicKeyFromBase58("DCA265Vj8a9CEuX1eb1LWRnDT7uK6q1xMipnNyatn23M")

	SYSTEM_PROGRAM_ID = solana.MustPublicKeyFromBase58("11111111111111111111111111111111")
)

// Anchor event discriminator for the Jupiter RouteV2 event.
var JupiterRouteEventDiscriminator = [16]byte{228, 69, 165, 46, 81, 203, 154, 29, 64, 198, 205, 232, 38, 8, 113, 226}

// Protocol names surfaced on the RawTransaction descriptor.
const (
	ProtocolRaydium = "RAYDIUM"
	ProtocolOrca    = "ORCA"
	ProtocolMeteora = "METEORA"
	ProtocolPumpfun = "PUMPFUN"
	ProtocolJupiter = "JUPITER"
)

// protocolFor maps a program id to a protocol name; empty when unknown.
func protocolFor(pk solana.PublicKey) string {
	switch {
	case pk.Equals(JUPITER_PROGRAM_ID), pk.Equals(JUPITER_DCA_PROGRAM_ID):
		return ProtocolJupiter
	case pk.Equals(RAYDIUM_V4_PROGRAM_ID),
		pk.Equals(RAYDIUM_CPMM_PROGRAM_ID),
		pk.Equals(RAYDIUM_CONCENTRATED_LIQUIDITY_PROGRAM_ID),
		pk.Equals(RAYDIUM_LAUNCHLAB_PROGRAM_ID):
		return ProtocolRaydium
	case pk.Equals(ORCA_PROGRAM_ID):
		return ProtocolOrca
	case pk.Equals(METEORA_DLMM_PROGRAM_ID), pk.Equals(METEORA_POOLS_PROGRAM_ID):
		return ProtocolMeteora
	case pk.Equals(PUMP_FUN_PROGRAM_ID), pk.Equals(PUMPFUN_AMM_PROGRAM_ID):
		return ProtocolPumpfun
	default:
		return ""
	}
}
