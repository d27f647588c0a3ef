package domain

// SwapQuote is the output of one swap computation. It exists only for the
// duration of the request; nothing here is persisted.
type SwapQuote struct {
	EffectiveFeeBps   uint64 `json:"effectiveFeeBps"`
	RawAmountOut      uint64 `json:"rawAmountOut"`
	NetAmountOut      uint64 `json:"netAmountOut"`
	LpFeeAmount       uint64 `json:"lpFeeAmount"`
	ProtocolFeeAmount uint64 `json:"protocolFeeAmount"`
}

// UnstakeReceipt reports the outcome of an unstake.
type UnstakeReceipt struct {
	Requested  uint64 `json:"requested"`
	PaidOut    uint64 `json:"paidOut"`
	ExitFeeBps uint64 `json:"exitFeeBps"`
	ExitFee    uint64 `json:"exitFee"`
}
