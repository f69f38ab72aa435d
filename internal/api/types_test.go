package api

import (
	"encoding/json"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNumber_DecodesNumbersStringsAndNull(t *testing.T) {
	var got struct {
		A Number `json:"a"`
		B Number `json:"b"`
		C Number `json:"c"`
	}
	require.NoError(t, json.Unmarshal([]byte(`{"a":12.5,"b":"-3.25","c":null}`), &got))
	assert.Equal(t, "12.5", got.A.String())
	assert.Equal(t, "-3.25", got.B.String())
	assert.True(t, got.C.IsZero())

	require.Error(t, json.Unmarshal([]byte(`{"a":"abc"}`), &got))
}

func TestTransaction_RoundTripsVerbatim(t *testing.T) {
	in := `{"id":2,"amt":-50}`
	var tx Transaction
	require.NoError(t, json.Unmarshal([]byte(in), &tx))
	assert.Equal(t, ID("2"), tx.ID)

	out, err := json.Marshal(tx)
	require.NoError(t, err)
	assert.JSONEq(t, in, string(out))

	var named Transaction
	require.NoError(t, json.Unmarshal([]byte(`{"id":"01HXYZ","amt":"10"}`), &named))
	out, err = json.Marshal(named)
	require.NoError(t, err)
	assert.JSONEq(t, `{"id":"01HXYZ","amt":10}`, string(out))
}

func TestID_MarshalJSON(t *testing.T) {
	tests := []struct {
		id   ID
		want string
	}{
		{"42", `42`},
		{"-7", `-7`},
		{"0", `0`},
		{"99999999999999999999", `99999999999999999999`},
		{"007", `"007"`},
		{"+5", `"+5"`},
		{"-0", `"-0"`},
		{"-", `"-"`},
		{"", `""`},
		{"01HXYZ", `"01HXYZ"`},
	}
	for _, tt := range tests {
		got, err := json.Marshal(tt.id)
		require.NoError(t, err, "id %q", tt.id)
		assert.Equal(t, tt.want, string(got), "id %q", tt.id)
	}
}

func TestTransaction_IDsSurviveEncoding(t *testing.T) {
	var big Transaction
	require.NoError(t, json.Unmarshal([]byte(`{"id":99999999999999999999,"amt":1}`), &big))
	out, err := json.Marshal(big)
	require.NoError(t, err)
	assert.Equal(t, `{"id":99999999999999999999,"amt":1}`, string(out))

	var padded Transaction
	require.NoError(t, json.Unmarshal([]byte(`{"id":"007","amt":1}`), &padded))
	out, err = json.Marshal(padded)
	require.NoError(t, err)
	assert.Equal(t, `{"id":"007","amt":1}`, string(out))
}

func TestParseTransactionType(t *testing.T) {
	got, err := ParseTransactionType("  BUY ")
	require.NoError(t, err)
	assert.Equal(t, TypeBuy, got)

	_, err = ParseTransactionType("swap")
	require.Error(t, err)
}

func TestPricePoint_ParsedDate(t *testing.T) {
	p := PricePoint{Date: "2024-03-01"}
	assert.Equal(t, 2024, p.ParsedDate().Year())
	assert.True(t, PricePoint{Date: "yesterday"}.ParsedDate().IsZero())
}

func TestFormatMoney(t *testing.T) {
	assert.Equal(t, "$1,234.50", FormatMoney(decimal.RequireFromString("1234.5"), "usd"))
	assert.Equal(t, "-$50.00", FormatMoney(decimal.NewFromInt(-50), "USD"))
	assert.Equal(t, "12.30", FormatMoney(decimal.RequireFromString("12.3"), ""))
}

func TestPercentChange(t *testing.T) {
	assert.Equal(t, "10", PercentChange(decimal.NewFromInt(100), decimal.NewFromInt(110)).String())
	assert.True(t, PercentChange(decimal.Zero, decimal.NewFromInt(5)).IsZero())
}
