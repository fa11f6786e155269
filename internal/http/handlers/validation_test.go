package handlers

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fieldsFrom(t *testing.T, body string) map[string]any {
	t.Helper()
	dec := json.NewDecoder(strings.NewReader(body))
	dec.UseNumber()
	var fields map[string]any
	require.NoError(t, dec.Decode(&fields))
	return fields
}

func TestValidateProduct_Valid(t *testing.T) {
	tests := []struct {
		name      string
		body      string
		wantName  string
		wantDesc  *string
		wantPrice float64
		wantStock int
	}{
		{"minimal", `{"name":"Widget","price":9.99}`, "Widget", nil, 9.99, 0},
		{"zero price", `{"name":"Free","price":0}`, "Free", nil, 0, 0},
		{"string numbers", `{"name":"W","price":" 3.5 ","stock":"2"}`, "W", nil, 3.5, 2},
		{"integer stock", `{"name":"W","price":1,"stock":4}`, "W", nil, 1, 4},
		{"null stock", `{"name":"W","price":1,"stock":null}`, "W", nil, 1, 0},
		{"null description", `{"name":"W","price":1,"description":null}`, "W", nil, 1, 0},
		{"trimmed description", `{"name":" W ","price":1,"description":"  hi  "}`, "W", ptr("hi"), 1, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in, errs := validateProduct(fieldsFrom(t, tt.body))
			require.Empty(t, errs)
			assert.Equal(t, tt.wantName, in.Name)
			assert.Equal(t, tt.wantDesc, in.Description)
			assert.Equal(t, tt.wantPrice, in.Price)
			assert.Equal(t, tt.wantStock, in.Stock)
		})
	}
}

func TestValidateProduct_Invalid(t *testing.T) {
	tests := []struct {
		name       string
		body       string
		wantFields []string
	}{
		{"empty object", `{}`, []string{"name", "price"}},
		{"blank price string", `{"name":"W","price":"  "}`, []string{"price"}},
		{"negative price", `{"name":"W","price":-0.01}`, []string{"price"}},
		{"infinite price", `{"name":"W","price":"Inf"}`, []string{"price"}},
		{"nan price", `{"name":"W","price":"NaN"}`, []string{"price"}},
		{"array name", `{"name":["W"],"price":1}`, []string{"name"}},
		{"stock overflow", `{"name":"W","price":1,"stock":99999999999}`, []string{"stock"}},
		{"stock exponent", `{"name":"W","price":1,"stock":1e2}`, []string{"stock"}},
		{"stock decimal point", `{"name":"W","price":1,"stock":1.0}`, []string{"stock"}},
		{"stock exponent string", `{"name":"W","price":1,"stock":"1e2"}`, []string{"stock"}},
		{"several", `{"name":"","price":-1,"stock":-1,"description":3}`, []string{"name", "price", "description", "stock"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, errs := validateProduct(fieldsFrom(t, tt.body))

			fields := make([]string, 0, len(errs))
			for _, e := range errs {
				fields = append(fields, e.Field)
			}
			assert.Equal(t, tt.wantFields, fields)
		})
	}
}

func TestValidationMessage(t *testing.T) {
	msg := validationMessage([]ProductValidationError{
		{Field: "name", Description: "name is required"},
		{Field: "price", Description: "price is required"},
	})
	assert.Equal(t, "name is required; price is required", msg)
}

func ptr(s string) *string { return &s }
