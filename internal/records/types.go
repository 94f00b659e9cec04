package records

// TransactionRecord is a single land-sale entry as written to the records queue.
type TransactionRecord struct {
	PlotNumber      string `json:"plot_num"`
	Size            string `json:"size"`
	County          string `json:"county"`
	Location        string `json:"location"`
	BuyerName       string `json:"buyer_name"`
	BuyerID         string `json:"buyer_id"`
	BuyerTel        string `json:"buyer_tel"`
	SellerName      string `json:"seller_name"`
	SellerID        string `json:"seller_id"`
	SellerTel       string `json:"seller_tel"`
	Value           string `json:"value"`
	TransactionCost string `json:"transaction_cost"`

	// SubmissionID correlates a queued record with its receipt; never serialized
	// into the queue body, which the ledger backend parses as-is.
	SubmissionID string `json:"-"`
}

// CachedRecord is a committed record as stored by the backend in the records
// cache. Its shape is owned by the backend; the frontend only requires a JSON object.
type CachedRecord map[string]any

// PlotNumberKey is the display field attached to a cached record on lookup.
const PlotNumberKey = "PlotNumber"
