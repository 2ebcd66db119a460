package types

// TradeType is the direction of a swap: which side of the trade is fixed
type TradeType int

const (
	ExactInput  TradeType = iota // sell amount is fixed
	ExactOutput                  // buy amount is fixed
)

func (t TradeType) String() string {
	if t == ExactOutput {
		return "EXACT_OUTPUT"
	}
	return "EXACT_INPUT"
}

// SwapCommand represents a user's swap command
type SwapCommand struct {
	Amount      string
	InputToken  string
	OutputToken string
	TradeType   TradeType
	Recipient   string
	Affiliate   string
}

// QuoteDisplay holds formatted quote information for display
type QuoteDisplay struct {
	State           string `json:"state"`
	InputAmount     string `json:"input_amount,omitempty"`
	InputToken      string `json:"input_token"`
	OutputAmount    string `json:"output_amount,omitempty"`
	OutputToken     string `json:"output_token"`
	TradeType       string `json:"trade_type"`
	Price           string `json:"price,omitempty"`
	MinimumOut      string `json:"minimum_out,omitempty"`
	MaximumIn       string `json:"maximum_in,omitempty"`
	EstimatedGas    string `json:"estimated_gas,omitempty"`
	GasCost         string `json:"gas_cost,omitempty"`
	PaymentFees     string `json:"payment_fees,omitempty"`
	Router          string `json:"router,omitempty"`
	AllowanceTarget string `json:"allowance_target,omitempty"`
	Error           string `json:"error,omitempty"`
}

// PositionDisplay holds formatted liquidity position information for display
type PositionDisplay struct {
	Pair         string `json:"pair"`
	Address      string `json:"address,omitempty"`
	HasLiquidity bool   `json:"has_liquidity"`
	Liquidity    string `json:"liquidity,omitempty"`
	PoolShare    string `json:"pool_share,omitempty"`
	Token0       string `json:"token0"`
	Deposit0     string `json:"deposited0,omitempty"`
	Token1       string `json:"token1"`
	Deposit1     string `json:"deposited1,omitempty"`
	Error        string `json:"error,omitempty"`
}
