package entity

// ShopProfile carries the tenant's shop identity printed on invoices.
// BillCreators is the list of staff names selectable as bill authors.
type ShopProfile struct {
	ID           string
	AccountID    string
	ShopName     string
	Address      string
	Mobile       string
	GSTNo        string
	Terms        string
	UPIID        string
	Logo         string // object URL in GCS, empty if none
	BillCreators []string
}
