package validation

// SubmitForm is the form-encoded payload for POST /add.
// Empty fields are accepted; only the length of each field is bounded.
type SubmitForm struct {
	PlotNumber      string `form:"p_num" json:"p_num" validate:"max=256"`
	Size            string `form:"size" json:"size" validate:"max=256"`
	County          string `form:"county" json:"county" validate:"max=256"`
	Location        string `form:"location" json:"location" validate:"max=256"`
	BuyerName       string `form:"b_name" json:"b_name" validate:"max=256"`
	BuyerID         string `form:"b_id" json:"b_id" validate:"max=256"`
	BuyerTel        string `form:"b_tel" json:"b_tel" validate:"max=256"`
	SellerName      string `form:"s_name" json:"s_name" validate:"max=256"`
	SellerID        string `form:"s_id" json:"s_id" validate:"max=256"`
	SellerTel       string `form:"s_tel" json:"s_tel" validate:"max=256"`
	SaleValue       string `form:"sale_val" json:"sale_val" validate:"max=256"`
	TransactionCost string `form:"trans_cost" json:"trans_cost" validate:"max=256"`
	SubmissionID    string `form:"submission_id" json:"submission_id" validate:"omitempty,max=64"`
}

// FindForm is the payload for POST /find.
type FindForm struct {
	Query string `form:"query" json:"query" validate:"required,max=256"`
}

// AlertPayload is the notification posted by the backend once a queued
// record was committed to (or rejected by) its ledger. Exactly one of the
// two fields is set.
type AlertPayload struct {
	Success string `form:"success" json:"success" validate:"max=256"`
	Failure string `form:"failure" json:"failure" validate:"max=256"`
}
