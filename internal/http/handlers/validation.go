package handlers

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"

	"github.com/rogerio-castellano/catalog-api/internal/models"
)

type ProductValidationError struct {
	Field       string `json:"field"`
	Description string `json:"description"`
}

// validateProduct turns raw body fields into a ProductInput. A non-empty
// error slice means the input must be rejected.
func validateProduct(fields map[string]any) (models.ProductInput, []ProductValidationError) {
	var in models.ProductInput
	errs := []ProductValidationError{}

	rawName, hasName := present(fields, "name")
	rawPrice, hasPrice := present(fields, "price")
	hasPrice = hasPrice && !blank(rawPrice)
	if !hasName || !hasPrice {
		if !hasName {
			errs = append(errs, ProductValidationError{Field: "name", Description: "name is required"})
		}
		if !hasPrice {
			errs = append(errs, ProductValidationError{Field: "price", Description: "price is required"})
		}
		return in, errs
	}

	if name, ok := rawName.(string); !ok {
		errs = append(errs, ProductValidationError{Field: "name", Description: "name must be a string"})
	} else if in.Name = strings.TrimSpace(name); in.Name == "" {
		errs = append(errs, ProductValidationError{Field: "name", Description: "name is required"})
	}

	if price, ok := toFloat(rawPrice); !ok || price < 0 {
		errs = append(errs, ProductValidationError{Field: "price", Description: "price must be a valid non-negative number"})
	} else {
		in.Price = price
	}

	if raw, ok := present(fields, "description"); ok {
		if desc, isString := raw.(string); !isString {
			errs = append(errs, ProductValidationError{Field: "description", Description: "description must be a string"})
		} else if desc = strings.TrimSpace(desc); desc != "" {
			in.Description = &desc
		}
	}

	if raw, ok := present(fields, "stock"); ok && !blank(raw) {
		if stock, isInt := toInt(raw); !isInt || stock < 0 || stock > math.MaxInt32 {
			errs = append(errs, ProductValidationError{Field: "stock", Description: "stock must be a non-negative integer"})
		} else {
			in.Stock = int(stock)
		}
	}

	return in, errs
}

// present reports whether key carries a non-null value.
func present(fields map[string]any, key string) (any, bool) {
	v, ok := fields[key]
	if !ok || v == nil {
		return nil, false
	}
	return v, true
}

// blank is true for strings holding only whitespace. Empty form inputs for
// numeric fields are treated as missing.
func blank(v any) bool {
	s, ok := v.(string)
	return ok && strings.TrimSpace(s) == ""
}

func toFloat(v any) (float64, bool) {
	var (
		f   float64
		err error
	)
	switch t := v.(type) {
	case json.Number:
		f, err = t.Float64()
	case string:
		f, err = strconv.ParseFloat(strings.TrimSpace(t), 64)
	default:
		return 0, false
	}
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}

func toInt(v any) (int64, bool) {
	var (
		n   int64
		err error
	)
	switch t := v.(type) {
	case json.Number:
		n, err = t.Int64()
	case string:
		n, err = strconv.ParseInt(strings.TrimSpace(t), 10, 64)
	default:
		return 0, false
	}
	return n, err == nil
}

func validationMessage(errs []ProductValidationError) string {
	parts := make([]string, 0, len(errs))
	for _, e := range errs {
		parts = append(parts, e.Description)
	}
	return strings.Join(parts, "; ")
}
