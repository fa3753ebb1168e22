package pricing

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const samplePriceJSON = `{
  "product": {"attributes": {"instanceType": "t3.micro"}},
  "terms": {
    "OnDemand": {
      "SKU123.JRTCKXETXF": {
        "priceDimensions": {
          "SKU123.JRTCKXETXF.6YS6EN2CT7": {
            "unit": "Hrs",
            "pricePerUnit": {"USD": "0.0104000000"}
          }
        }
      }
    }
  }
}`

func TestExtractOnDemandPrice(t *testing.T) {
	price, err := extractOnDemandPrice(samplePriceJSON)
	require.NoError(t, err)
	assert.InDelta(t, 0.0104, price, 1e-9)
}

func TestExtractOnDemandPriceErrors(t *testing.T) {
	cases := []struct {
		name string
		json string
	}{
		{"invalid json", "{"},
		{"no terms", `{"product": {}}`},
		{"empty on-demand", `{"terms": {"OnDemand": {}}}`},
		{"missing usd", `{"terms": {"OnDemand": {"sku": {"priceDimensions": {"dim": {"pricePerUnit": {}}}}}}}`},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := extractOnDemandPrice(tc.json)
			assert.Error(t, err)
		})
	}
}

func TestCacheRoundTrip(t *testing.T) {
	c := &Client{cache: make(map[string]float64)}

	_, ok := c.cached("us-east-1:t3.micro")
	assert.False(t, ok)

	c.store("us-east-1:t3.micro", 0.0104)
	price, ok := c.cached("us-east-1:t3.micro")
	require.True(t, ok)
	assert.Equal(t, 0.0104, price)
}
