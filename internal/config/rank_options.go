package config

// Basis names accepted on the command line and in API queries.
const (
	BasisInstant  = "instant"
	BasisStanding = "standing"
)

// RankOptions are the caller-supplied ranking knobs. They come from flags or
// query parameters, never from the environment.
type RankOptions struct {
	CostBasis    string `json:"cost_basis" validate:"oneof=instant standing"`
	RevenueBasis string `json:"revenue_basis" validate:"oneof=instant standing"`
	MinBuyVolume int64  `json:"min_buy_volume" validate:"gte=0"` // 0 = no liquidity floor
	TopN         int    `json:"top_n" validate:"gte=0"`          // 0 = show everything
	Workers      int    `json:"workers" validate:"gte=0,lte=256"`
}

// DefaultRankOptions buys recipe components instantly and sells the product
// through a standing offer, printing the top 10.
func DefaultRankOptions() RankOptions {
	return RankOptions{
		CostBasis:    BasisInstant,
		RevenueBasis: BasisStanding,
		MinBuyVolume: 0,
		TopN:         10,
		Workers:      1,
	}
}

// Validate checks the struct tags on RankOptions.
func (o RankOptions) Validate() error {
	return validateStruct("rank options", o)
}
