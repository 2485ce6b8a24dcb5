package model

// BulkTagItem is one transaction update in a bulk tag request: the complete
// new tag list for the transaction, not a delta.
type BulkTagItem struct {
	TransactionID string   `json:"transactionId"`
	TagIDs        []string `json:"tags"`
	BankName      string   `json:"bankName"`
}

// BulkFailure records one transaction that the bulk update sink rejected.
type BulkFailure struct {
	ID    string `json:"id"`
	Error string `json:"error"`
}

// BulkTagResult is the sink's aggregate response to a bulk update.
type BulkTagResult struct {
	Successful int           `json:"successful"`
	Failed     []BulkFailure `json:"failed"`
}
