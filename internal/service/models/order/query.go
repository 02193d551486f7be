package order

// QueryOrdersModel is the filter for listing orders.
type QueryOrdersModel struct {
	Ids         []int64
	CustomerIds []int64
	Limit       int
	Offset      int
}
