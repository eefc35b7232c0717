package receipt

import (
	"github.com/fxamacker/cbor/v2"
	"github.com/google/uuid"
)

// canonicalVersion is bumped whenever the canonical layout changes. Doing so
// changes every identifier.
const canonicalVersion = 1

// receiptNamespace scopes receipt identifiers so the same bytes hashed for a
// different purpose never collide with them.
var receiptNamespace = uuid.NewSHA1(uuid.NameSpaceOID, []byte("receipt-points/receipt"))

var canonicalEncMode cbor.EncMode

func init() {
	var err error
	canonicalEncMode, err = cbor.CoreDetEncOptions().EncMode()
	if err != nil {
		panic("receipt: CBOR encoder initialization failed: " + err.Error())
	}
}

type canonicalItem struct {
	ShortDescription string `cbor:"1,keyasint"`
	Price            string `cbor:"2,keyasint"`
}

type canonicalReceipt struct {
	Version      int             `cbor:"0,keyasint"`
	Retailer     string          `cbor:"1,keyasint"`
	PurchaseDate string          `cbor:"2,keyasint"`
	PurchaseTime string          `cbor:"3,keyasint"`
	Items        []canonicalItem `cbor:"4,keyasint"`
	Total        string          `cbor:"5,keyasint"`
}

// Canonical returns the deterministic encoding of every field of r, items in
// their given order. Strings are length-prefixed in CBOR, so two different
// receipts can never encode to the same bytes.
func Canonical(r *Receipt) []byte {
	c := canonicalReceipt{
		Version:      canonicalVersion,
		Retailer:     r.Retailer,
		PurchaseDate: r.PurchaseDate,
		PurchaseTime: r.PurchaseTime,
		Items:        make([]canonicalItem, len(r.Items)),
		Total:        r.Total,
	}
	for i, item := range r.Items {
		c.Items[i] = canonicalItem{ShortDescription: item.ShortDescription, Price: item.Price}
	}

	data, err := canonicalEncMode.Marshal(c)
	if err != nil {
		// Only strings, ints and slices are encoded; this cannot fail.
		panic("receipt: canonical encoding failed: " + err.Error())
	}
	return data
}

// Identify returns the stable identifier for r's content
func Identify(r *Receipt) string {
	return uuid.NewSHA1(receiptNamespace, Canonical(r)).String()
}
