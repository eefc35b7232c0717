package receipt

import (
	"github.com/google/uuid"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("Identify", func() {
	var base string

	BeforeEach(func() {
		base = Identify(sampleReceipt())
	})

	It("should return a version 5 UUID", func() {
		parsed, err := uuid.Parse(base)
		Expect(err).NotTo(HaveOccurred())
		Expect(parsed.Version()).To(Equal(uuid.Version(5)))
	})

	It("should be stable across calls and copies", func() {
		for i := 0; i < 5; i++ {
			Expect(Identify(sampleReceipt())).To(Equal(base))
		}
	})

	It("should not depend on the receipt being shared", func() {
		r := sampleReceipt()
		items := make([]Item, len(r.Items))
		copy(items, r.Items)
		r.Items = items
		Expect(Identify(r)).To(Equal(base))
	})

	DescribeTable("changing any single field changes the identifier",
		func(mutate func(r *Receipt)) {
			r := sampleReceipt()
			mutate(r)
			Expect(Identify(r)).NotTo(Equal(base))
		},
		Entry("retailer", func(r *Receipt) { r.Retailer = "Walmart" }),
		Entry("retailer case", func(r *Receipt) { r.Retailer = "target" }),
		Entry("purchase date", func(r *Receipt) { r.PurchaseDate = "2022-01-02" }),
		Entry("purchase time", func(r *Receipt) { r.PurchaseTime = "13:02" }),
		Entry("total", func(r *Receipt) { r.Total = "35.36" }),
		Entry("item price", func(r *Receipt) { r.Items[0].Price = "6.50" }),
		Entry("item description", func(r *Receipt) { r.Items[1].ShortDescription = "Emils Cheese Pizzas" }),
		Entry("extra space in a description", func(r *Receipt) { r.Items[2].ShortDescription += " " }),
		Entry("item order", func(r *Receipt) { r.Items[0], r.Items[1] = r.Items[1], r.Items[0] }),
		Entry("dropped item", func(r *Receipt) { r.Items = r.Items[:4] }),
		Entry("duplicated item", func(r *Receipt) { r.Items = append(r.Items, r.Items[0]) }),
		Entry("no items", func(r *Receipt) { r.Items = nil }),
	)
})

var _ = Describe("Canonical", func() {
	It("should keep field boundaries apart", func() {
		a := &Receipt{Retailer: "AB", PurchaseDate: "C"}
		b := &Receipt{Retailer: "A", PurchaseDate: "BC"}
		Expect(Canonical(a)).NotTo(Equal(Canonical(b)))
	})

	It("should keep item boundaries apart", func() {
		a := &Receipt{Items: []Item{{ShortDescription: "ab", Price: "1.00"}, {ShortDescription: "c", Price: "2.00"}}}
		b := &Receipt{Items: []Item{{ShortDescription: "a", Price: "1.00"}, {ShortDescription: "bc", Price: "2.00"}}}
		Expect(Canonical(a)).NotTo(Equal(Canonical(b)))
	})

	It("should not confuse a description with a price", func() {
		a := &Receipt{Items: []Item{{ShortDescription: "1.00", Price: ""}}}
		b := &Receipt{Items: []Item{{ShortDescription: "", Price: "1.00"}}}
		Expect(Canonical(a)).NotTo(Equal(Canonical(b)))
	})

	It("should produce identical bytes for identical content", func() {
		Expect(Canonical(sampleReceipt())).To(Equal(Canonical(sampleReceipt())))
	})

	It("should encode nil and empty item lists the same way", func() {
		Expect(Canonical(&Receipt{Items: nil})).To(Equal(Canonical(&Receipt{Items: []Item{}})))
	})
})
