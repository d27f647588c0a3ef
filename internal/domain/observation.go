package domain

// PriceObservation is one oracle reading, consumed read-only per call.
// Price is scaled by 10^Exponent; Conf is the uncertainty radius in the same
// units as Price. A usable observation has Price > 0.
type PriceObservation struct {
	Price       int64 `json:"price"`
	Conf        uint64 `json:"conf"`
	Exponent    int32 `json:"exponent"`
	PublishTime int64 `json:"publishTime"` // unix seconds
}
