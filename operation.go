package rebalance

// Action is the side of a rebalance operation.
type Action string

const (
	Buy  Action = "buy"
	Sell Action = "sell"
)

// Operation is a recommended trade on a single asset.
//
// Quantity and Value are always positive, the direction is given by Action.
type Operation struct {
	AssetID   ID      `json:"assetId,omitempty"`
	AssetName string  `json:"assetName"`
	Action    Action  `json:"action"`
	Quantity  float64 `json:"quantity"`
	Value     float64 `json:"value"`
}

// signed returns the quantity to add to the asset position.
func (o Operation) signed() float64 {
	if o.Action == Buy {
		return o.Quantity
	}
	return -o.Quantity
}
