package types

const (
	// ModuleName defines the module name
	ModuleName = "pricefeed"

	// StoreKey defines the primary module store key
	StoreKey = ModuleName

	// RouterKey defines the module's message routing key
	RouterKey = ModuleName

	// MemStoreKey defines the in-memory store key
	MemStoreKey = "mem_pricefeed"
)

// KV Store key prefix bytes
const (
	prefixParams = iota + 1
	prefixWindow
	prefixAverage
	prefixNextEligibleHeight
)

// KV Store key prefixes
var (
	KeyParams             = []byte{prefixParams}
	KeyWindow             = []byte{prefixWindow}
	KeyAverage            = []byte{prefixAverage}
	KeyNextEligibleHeight = []byte{prefixNextEligibleHeight}
)
