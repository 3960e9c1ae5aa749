package invoice_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jmeindl/umlage/internal/invoice"
)

func TestParseAmount(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    int64
		wantErr bool
	}{
		{name: "PlainComma", input: "588,74", want: 58874},
		{name: "ThousandsSeparator", input: "1.234,56", want: 123456},
		{name: "WholeEuros", input: "900", want: 90000},
		{name: "Negative", input: "-588,74", want: -58874},
		{name: "EuroSuffix", input: "1.234,56 €", want: 123456},
		{name: "Whitespace", input: "  12,50 ", want: 1250},
		{name: "Zero", input: "0,00", want: 0},
		{name: "Empty", input: "", wantErr: true},
		{name: "Garbage", input: "abc", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := invoice.ParseAmount(tt.input)

			if tt.wantErr {
				assert.Error(t, err)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}
