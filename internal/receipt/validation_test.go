package receipt

import (
	"encoding/json"
	"errors"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

const sampleJSON = `{
  "retailer": "Target",
  "purchaseDate": "2022-01-01",
  "purchaseTime": "13:01",
  "items": [
    {"shortDescription": "Mountain Dew 12PK", "price": "6.49"},
    {"shortDescription": "Emils Cheese Pizza", "price": "12.25"},
    {"shortDescription": "Knorr Creamy Chicken", "price": "1.26"},
    {"shortDescription": "Doritos Nacho Cheese", "price": "3.35"},
    {"shortDescription": "Klarbrunn 12-PK 12 FL OZ", "price": "12.00"}
  ],
  "total": "35.35"
}`

var _ = Describe("Validator", func() {
	var validator *Validator

	BeforeEach(func() {
		validator = NewValidator()
	})

	Describe("ParseReceipt", func() {
		var (
			input []byte
			rcpt  *Receipt
			err   error
		)

		BeforeEach(func() {
			input = []byte(sampleJSON)
		})

		JustBeforeEach(func() {
			rcpt, err = validator.ParseReceipt(input)
		})

		When("the receipt is valid", func() {
			It("should not return an error", func() {
				Expect(err).NotTo(HaveOccurred())
			})

			It("should decode every field", func() {
				Expect(rcpt).To(Equal(sampleReceipt()))
			})
		})

		When("scalar fields carry surrounding whitespace", func() {
			BeforeEach(func() {
				input = []byte(`{"retailer": " Target ", "purchaseDate": " 2022-01-01", "purchaseTime": "13:01 ",
					"items": [{"shortDescription": "  Pepsi  ", "price": "1.25"}], "total": " 1.25 "}`)
			})

			It("should trim them", func() {
				Expect(err).NotTo(HaveOccurred())
				Expect(rcpt.Retailer).To(Equal("Target"))
				Expect(rcpt.PurchaseDate).To(Equal("2022-01-01"))
				Expect(rcpt.PurchaseTime).To(Equal("13:01"))
				Expect(rcpt.Total).To(Equal("1.25"))
			})

			It("should keep item descriptions as sent", func() {
				Expect(rcpt.Items[0].ShortDescription).To(Equal("  Pepsi  "))
			})
		})

		When("the items list is empty", func() {
			BeforeEach(func() {
				input = []byte(`{"retailer": "Target", "purchaseDate": "2022-01-01", "purchaseTime": "13:01", "items": [], "total": "0.00"}`)
			})

			It("should accept it", func() {
				Expect(err).NotTo(HaveOccurred())
				Expect(rcpt.Items).To(BeEmpty())
			})
		})

		When("an amount has the largest accepted number of digits", func() {
			BeforeEach(func() {
				input = []byte(`{"retailer": "Target", "purchaseDate": "2022-01-01", "purchaseTime": "13:01",
					"items": [{"shortDescription": "abc", "price": "999999999999.99"}], "total": "999999999999.99"}`)
			})

			It("should accept it", func() {
				Expect(err).NotTo(HaveOccurred())
			})
		})

		When("the body is not JSON", func() {
			BeforeEach(func() {
				input = []byte(`retailer=Target`)
			})

			It("should return a ValidationError", func() {
				var verr *ValidationError
				Expect(errors.As(err, &verr)).To(BeTrue())
			})
		})

		DescribeTable("rejecting malformed fields",
			func(mutate func(m map[string]any)) {
				var m map[string]any
				Expect(json.Unmarshal([]byte(sampleJSON), &m)).To(Succeed())
				mutate(m)
				data, marshalErr := json.Marshal(m)
				Expect(marshalErr).NotTo(HaveOccurred())

				_, parseErr := validator.ParseReceipt(data)
				var verr *ValidationError
				Expect(errors.As(parseErr, &verr)).To(BeTrue())
			},
			Entry("missing retailer", func(m map[string]any) { delete(m, "retailer") }),
			Entry("retailer with inner whitespace", func(m map[string]any) { m["retailer"] = "M&M Corner Market" }),
			Entry("blank retailer", func(m map[string]any) { m["retailer"] = "   " }),
			Entry("impossible date", func(m map[string]any) { m["purchaseDate"] = "2022-02-30" }),
			Entry("slashed date", func(m map[string]any) { m["purchaseDate"] = "2022/01/01" }),
			Entry("hour out of range", func(m map[string]any) { m["purchaseTime"] = "24:00" }),
			Entry("single digit hour", func(m map[string]any) { m["purchaseTime"] = "9:05" }),
			Entry("time with seconds", func(m map[string]any) { m["purchaseTime"] = "13:01:00" }),
			Entry("total with one decimal", func(m map[string]any) { m["total"] = "35.3" }),
			Entry("total with three decimals", func(m map[string]any) { m["total"] = "35.355" }),
			Entry("negative total", func(m map[string]any) { m["total"] = "-1.00" }),
			Entry("numeric total", func(m map[string]any) { m["total"] = 35.35 }),
			Entry("total with too many integer digits", func(m map[string]any) { m["total"] = "1000000000000.00" }),
			Entry("missing items", func(m map[string]any) { delete(m, "items") }),
			Entry("item price without cents", func(m map[string]any) {
				m["items"] = []any{map[string]any{"shortDescription": "Pepsi", "price": "1"}}
			}),
			Entry("item price beyond the int range", func(m map[string]any) {
				m["items"] = []any{map[string]any{"shortDescription": "abc", "price": "50000000000000000000.00"}}
			}),
			Entry("item description with punctuation", func(m map[string]any) {
				m["items"] = []any{map[string]any{"shortDescription": "Pepsi!", "price": "1.00"}}
			}),
			Entry("item without description", func(m map[string]any) {
				m["items"] = []any{map[string]any{"price": "1.00"}}
			}),
		)
	})
})
