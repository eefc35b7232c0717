package receipt

// Item is one purchased line on a receipt
type Item struct {
	ShortDescription string `json:"shortDescription" validate:"required,shortdesc"`
	Price            string `json:"price" validate:"required,money"`
}

// Receipt is the unit that gets scored. Field values are kept in the exact
// string form they were validated in, since the identifier is derived from them.
type Receipt struct {
	Retailer     string `json:"retailer" validate:"required,nowhitespace"`
	PurchaseDate string `json:"purchaseDate" validate:"required,datetime=2006-01-02"`
	PurchaseTime string `json:"purchaseTime" validate:"required,len=5,datetime=15:04"`
	Items        []Item `json:"items" validate:"required,dive"`
	Total        string `json:"total" validate:"required,money"`
}

// ScoreRecord is the stored result for one distinct receipt
type ScoreRecord struct {
	ID     string `json:"id"`
	Points int    `json:"points"`
}
