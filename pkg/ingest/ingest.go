// Package ingest is the single validation contract every project entry path
// (form, paste, file) runs its rows through before anything is inserted.
package ingest

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"

	"shiptrack/pkg/normalize"
)

// Candidate is a raw, untrusted project row.
type Candidate struct {
	DGWPIC         string `json:"dgw_pic"`
	AsusPIC        string `json:"asus_pic"`
	PartNumber     string `json:"partnumber"`
	SKUCode        string `json:"sku_code"`
	Qty            string `json:"qty"`
	PriceVND       string `json:"price_vnd"`
	AsusOrderEmail string `json:"asus_order_email"`
	SI             string `json:"si"`
	EU             string `json:"eu"`
}

// ValidRow is a Candidate that passed trimming, coercion and the field rules.
type ValidRow struct {
	DGWPIC         string `validate:"required"`
	AsusPIC        string `validate:"required"`
	PartNumber     *string
	SKUCode        string  `validate:"required"`
	Qty            int     `validate:"gt=0"`
	PriceVND       float64 `validate:"gte=0"`
	AsusOrderEmail *string
	SI             string `validate:"required"`
	EU             string `validate:"required"`
}

type SkipReason string

const (
	SkipBlankRequired SkipReason = "missing required field"
	SkipBadQty        SkipReason = "quantity must be a positive number"
	SkipBadPrice      SkipReason = "unit price must be a non-negative number"
	SkipShortLine     SkipReason = "too few columns"
)

// Result is the per-row outcome: exactly one of Row and Skip is set.
type Result struct {
	Row  *ValidRow
	Skip SkipReason
}

func (r Result) OK() bool { return r.Row != nil }

// ValidationError rejects a single-row submission.
type ValidationError struct{ Reason SkipReason }

func (e *ValidationError) Error() string { return "invalid project: " + string(e.Reason) }

// MappingError aborts a file import before any row is looked at.
type MappingError struct{ Missing []string }

func (e *MappingError) Error() string {
	return fmt.Sprintf("missing required columns: %s", strings.Join(e.Missing, ", "))
}

var validate = validator.New(validator.WithRequiredStructEnabled())

// Validate trims every field, upper-cases SKU and coerces quantity and price.
func Validate(c Candidate) Result {
	row := ValidRow{
		DGWPIC:         strings.TrimSpace(c.DGWPIC),
		AsusPIC:        strings.TrimSpace(c.AsusPIC),
		PartNumber:     normalize.Ptr(c.PartNumber),
		SKUCode:        strings.ToUpper(strings.TrimSpace(c.SKUCode)),
		AsusOrderEmail: normalize.Ptr(c.AsusOrderEmail),
		SI:             strings.TrimSpace(c.SI),
		EU:             strings.TrimSpace(c.EU),
	}
	qty, qtyOK := normalize.String(c.Qty)
	price, priceOK := normalize.String(c.PriceVND)
	if !qtyOK || !priceOK {
		return Result{Skip: SkipBlankRequired}
	}

	q, err := decimal.NewFromString(qty)
	if err != nil {
		return Result{Skip: SkipBadQty}
	}
	// 12.7 -> 12; anything past int64 cannot be stored
	whole := q.Truncate(0)
	if !whole.BigInt().IsInt64() {
		return Result{Skip: SkipBadQty}
	}
	row.Qty = int(whole.IntPart())

	p, err := decimal.NewFromString(price)
	if err != nil {
		return Result{Skip: SkipBadPrice}
	}
	row.PriceVND = p.InexactFloat64()

	if err := validate.Struct(&row); err != nil {
		return Result{Skip: reasonFor(err)}
	}
	return Result{Row: &row}
}

func reasonFor(err error) SkipReason {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return SkipBlankRequired
	}
	// required fields are checked before the numeric ones
	for _, fe := range verrs {
		if fe.Tag() == "required" {
			return SkipBlankRequired
		}
	}
	switch verrs[0].StructField() {
	case "Qty":
		return SkipBadQty
	case "PriceVND":
		return SkipBadPrice
	}
	return SkipBlankRequired
}

// Tally is the only thing a batch reports back.
type Tally struct {
	Created int `json:"created"`
	Skipped int `json:"skipped"`
}

// ValidateAll folds a batch into the rows to insert and the skip count.
func ValidateAll(cands []Candidate) (rows []ValidRow, skipped int) {
	for _, c := range cands {
		res := Validate(c)
		if !res.OK() {
			skipped++
			continue
		}
		rows = append(rows, *res.Row)
	}
	return rows, skipped
}
