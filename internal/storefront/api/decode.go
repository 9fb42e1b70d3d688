package api

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/storefront-core/server/internal/storefront/model"
)

var (
	errMissingValue = errors.New("missing value")
	errNotInteger   = errors.New("not an integer")
)

var maxRating = decimal.NewFromInt(5)

// ParseReport summarises one pass over a listing response.
type ParseReport struct {
	Accepted int
	Rejected []RecordError
}

// RecordError describes a listing record that failed validation.
type RecordError struct {
	Index int
	ID    string
	Err   error
}

func (e RecordError) Error() string {
	return fmt.Sprintf("record %d (id=%s): %v", e.Index, e.ID, e.Err)
}

func (e RecordError) Unwrap() error { return e.Err }

// rawProduct mirrors the loosely typed API record. Numbers may arrive as strings
// and some fields appear in both snake_case and camelCase.
type rawProduct struct {
	ID              json.RawMessage `json:"id"`
	Name            string          `json:"name"`
	Price           json.RawMessage `json:"price"`
	Category        json.RawMessage `json:"category"`
	CategoryName    string          `json:"category_name"`
	Description     string          `json:"description"`
	Rating          json.RawMessage `json:"rating"`
	InStock         json.RawMessage `json:"in_stock"`
	InStockCamel    json.RawMessage `json:"inStock"`
	StockCount      json.RawMessage `json:"stock_count"`
	StockCountCamel json.RawMessage `json:"stockCount"`
}

type rawCategory struct {
	ID          json.RawMessage `json:"id"`
	Name        string          `json:"name"`
	Description string          `json:"description"`
}

// decodeList accepts either a bare JSON array or an object with a "data" array.
func decodeList(body []byte) ([]json.RawMessage, error) {
	trimmed := bytes.TrimSpace(body)
	if len(trimmed) == 0 {
		return nil, errors.New("empty response body")
	}

	switch trimmed[0] {
	case '[':
		var items []json.RawMessage
		if err := json.Unmarshal(trimmed, &items); err != nil {
			return nil, fmt.Errorf("decode list: %w", err)
		}
		return items, nil
	case '{':
		var env struct {
			Data []json.RawMessage `json:"data"`
		}
		if err := json.Unmarshal(trimmed, &env); err != nil {
			return nil, fmt.Errorf("decode envelope: %w", err)
		}
		if env.Data == nil {
			return nil, errors.New("envelope has no data array")
		}
		return env.Data, nil
	default:
		return nil, fmt.Errorf("unexpected response body starting with %q", trimmed[0])
	}
}

// ParseProducts normalises raw listing records into model.Product. Records
// with an unparseable id, price or rating, a negative price or stock count, or a
// rating outside 0..5 are rejected and reported instead of returned.
func ParseProducts(body []byte) ([]model.Product, ParseReport, error) {
	items, err := decodeList(body)
	if err != nil {
		return nil, ParseReport{}, err
	}

	var report ParseReport
	out := make([]model.Product, 0, len(items))
	for i, item := range items {
		var raw rawProduct
		if err := json.Unmarshal(item, &raw); err != nil {
			report.Rejected = append(report.Rejected, RecordError{Index: i, Err: err})
			continue
		}
		p, err := raw.normalize()
		if err != nil {
			report.Rejected = append(report.Rejected, RecordError{Index: i, ID: rawString(raw.ID), Err: err})
			continue
		}
		out = append(out, p)
	}
	report.Accepted = len(out)
	return out, report, nil
}

func ParseCategories(body []byte) ([]model.Category, ParseReport, error) {
	items, err := decodeList(body)
	if err != nil {
		return nil, ParseReport{}, err
	}

	var report ParseReport
	out := make([]model.Category, 0, len(items))
	for i, item := range items {
		var raw rawCategory
		if err := json.Unmarshal(item, &raw); err != nil {
			report.Rejected = append(report.Rejected, RecordError{Index: i, Err: err})
			continue
		}
		id, err := parseInt(raw.ID)
		if err != nil {
			report.Rejected = append(report.Rejected, RecordError{Index: i, ID: rawString(raw.ID), Err: fmt.Errorf("id: %w", err)})
			continue
		}
		out = append(out, model.Category{ID: id, Name: strings.TrimSpace(raw.Name), Description: raw.Description})
	}
	report.Accepted = len(out)
	return out, report, nil
}

func (r rawProduct) normalize() (model.Product, error) {
	id, err := parseInt(r.ID)
	if err != nil {
		return model.Product{}, fmt.Errorf("id: %w", err)
	}

	price, err := parseDecimal(r.Price)
	if err != nil {
		return model.Product{}, fmt.Errorf("price: %w", err)
	}
	if price.IsNegative() {
		return model.Product{}, fmt.Errorf("price: negative value %s", price)
	}

	rating := decimal.Zero
	if !isAbsent(r.Rating) {
		if rating, err = parseDecimal(r.Rating); err != nil {
			return model.Product{}, fmt.Errorf("rating: %w", err)
		}
		if rating.IsNegative() || rating.GreaterThan(maxRating) {
			return model.Product{}, fmt.Errorf("rating: %s outside 0..5", rating)
		}
	}

	inStock, err := parseOptionalBool(firstPresent(r.InStock, r.InStockCamel))
	if err != nil {
		return model.Product{}, fmt.Errorf("in_stock: %w", err)
	}

	stockCount, err := parseOptionalInt(firstPresent(r.StockCount, r.StockCountCamel))
	if err != nil {
		return model.Product{}, fmt.Errorf("stock_count: %w", err)
	}
	if stockCount != nil && *stockCount < 0 {
		return model.Product{}, fmt.Errorf("stock_count: negative value %d", *stockCount)
	}

	category, err := parseCategory(r.Category, r.CategoryName)
	if err != nil {
		return model.Product{}, fmt.Errorf("category: %w", err)
	}

	return model.Product{
		ID:          id,
		Name:        strings.TrimSpace(r.Name),
		Price:       price,
		Category:    category,
		Description: r.Description,
		Rating:      rating.InexactFloat64(),
		InStock:     inStock,
		StockCount:  stockCount,
	}, nil
}

// parseCategory accepts a plain string or an embedded {"name": ...} object.
func parseCategory(raw json.RawMessage, fallback string) (string, error) {
	if isAbsent(raw) {
		return strings.TrimSpace(fallback), nil
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return strings.TrimSpace(s), nil
	}
	var obj struct {
		Name string `json:"name"`
	}
	if err := json.Unmarshal(raw, &obj); err != nil {
		return "", err
	}
	return strings.TrimSpace(obj.Name), nil
}

func isAbsent(raw json.RawMessage) bool {
	t := bytes.TrimSpace(raw)
	return len(t) == 0 || bytes.Equal(t, []byte("null"))
}

func firstPresent(values ...json.RawMessage) json.RawMessage {
	for _, v := range values {
		if !isAbsent(v) {
			return v
		}
	}
	return nil
}

// rawString returns the unquoted text of a scalar JSON value.
func rawString(raw json.RawMessage) string {
	t := bytes.TrimSpace(raw)
	if len(t) >= 2 && t[0] == '"' {
		var s string
		if err := json.Unmarshal(t, &s); err == nil {
			return strings.TrimSpace(s)
		}
	}
	return string(t)
}

func parseDecimal(raw json.RawMessage) (decimal.Decimal, error) {
	if isAbsent(raw) {
		return decimal.Decimal{}, errMissingValue
	}
	s := rawString(raw)
	if s == "" {
		return decimal.Decimal{}, errMissingValue
	}
	return decimal.NewFromString(s)
}

func parseInt(raw json.RawMessage) (int, error) {
	d, err := parseDecimal(raw)
	if err != nil {
		return 0, err
	}
	if !d.IsInteger() {
		return 0, fmt.Errorf("%w: %s", errNotInteger, d)
	}
	return int(d.IntPart()), nil
}

func parseOptionalInt(raw json.RawMessage) (*int, error) {
	if isAbsent(raw) {
		return nil, nil
	}
	n, err := parseInt(raw)
	if err != nil {
		return nil, err
	}
	return &n, nil
}

func parseOptionalBool(raw json.RawMessage) (*bool, error) {
	if isAbsent(raw) {
		return nil, nil
	}
	b, err := strconv.ParseBool(strings.ToLower(rawString(raw)))
	if err != nil {
		return nil, err
	}
	return &b, nil
}
