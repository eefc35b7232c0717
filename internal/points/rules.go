package points

import (
	"fmt"
	"math"
	"strings"
	"time"
	"unicode"

	"github.com/shopspring/decimal"

	"github.com/zombor/receipt-points/internal/receipt"
)

var (
	oneDollar      = decimal.New(1, 0)
	quarterDollar  = decimal.New(25, -2)
	descriptionPct = decimal.New(2, -1)
	maxPoints      = decimal.NewFromInt(math.MaxInt)
)

// Rule awards points for one property of a receipt
type Rule struct {
	Name  string
	Apply func(r *receipt.Receipt) int
}

// DefaultRules returns the standard rule set
func DefaultRules() []Rule {
	return []Rule{
		{Name: "retailer_alnum", Apply: retailerCharacters},
		{Name: "round_dollar_total", Apply: roundDollarTotal},
		{Name: "quarter_multiple_total", Apply: quarterMultipleTotal},
		{Name: "item_pairs", Apply: itemPairs},
		{Name: "description_length", Apply: descriptionLength},
		{Name: "odd_purchase_day", Apply: oddPurchaseDay},
		{Name: "afternoon_purchase", Apply: afternoonPurchase},
	}
}

// retailerCharacters awards one point per letter or digit in the retailer name
func retailerCharacters(r *receipt.Receipt) int {
	n := 0
	for _, c := range r.Retailer {
		if unicode.IsLetter(c) || unicode.IsDigit(c) {
			n++
		}
	}
	return n
}

func roundDollarTotal(r *receipt.Receipt) int {
	if mustDecimal(r.Total).Mod(oneDollar).IsZero() {
		return 50
	}
	return 0
}

func quarterMultipleTotal(r *receipt.Receipt) int {
	if mustDecimal(r.Total).Mod(quarterDollar).IsZero() {
		return 25
	}
	return 0
}

func itemPairs(r *receipt.Receipt) int {
	return 5 * (len(r.Items) / 2)
}

// descriptionLength awards ceil(price * 0.2) for every item whose trimmed
// description length is a multiple of three
func descriptionLength(r *receipt.Receipt) int {
	total := 0
	for _, item := range r.Items {
		n := len([]rune(strings.TrimSpace(item.ShortDescription)))
		if n == 0 || n%3 != 0 {
			continue
		}
		total = addPoints(total, clampPoints(mustDecimal(item.Price).Mul(descriptionPct).Ceil()))
	}
	return total
}

func oddPurchaseDay(r *receipt.Receipt) int {
	date := mustParse("2006-01-02", r.PurchaseDate)
	if date.Day()%2 == 1 {
		return 6
	}
	return 0
}

// afternoonPurchase awards points for purchases from 14:00 up to but
// excluding 16:00
func afternoonPurchase(r *receipt.Receipt) int {
	t := mustParse("15:04", r.PurchaseTime)
	if t.Hour() >= 14 && t.Hour() < 16 {
		return 10
	}
	return 0
}

// clampPoints converts a non-negative amount to points, stopping at the
// largest int instead of wrapping
func clampPoints(d decimal.Decimal) int {
	if d.GreaterThan(maxPoints) {
		return math.MaxInt
	}
	return int(d.IntPart())
}

// addPoints adds two non-negative scores, saturating at the largest int
func addPoints(a, b int) int {
	if a > math.MaxInt-b {
		return math.MaxInt
	}
	return a + b
}

// mustDecimal parses an amount that validation already accepted. Failure
// means an unvalidated receipt reached the engine.
func mustDecimal(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(fmt.Sprintf("points: unvalidated amount %q: %v", s, err))
	}
	return d
}

func mustParse(layout, value string) time.Time {
	t, err := time.Parse(layout, value)
	if err != nil {
		panic(fmt.Sprintf("points: unvalidated %q value %q: %v", layout, value, err))
	}
	return t
}
