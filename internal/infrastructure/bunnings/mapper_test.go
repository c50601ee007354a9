package bunnings

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func floatPtr(v float64) *float64 { return &v }

func TestMapPrices_PrefersUnitPrice(t *testing.T) {
	prices := mapPrices([]priceResult{
		{ItemNumber: "A", UnitPrice: floatPtr(0), LineUnitPrice: floatPtr(9.99)},
	})

	require.Len(t, prices, 1)
	assert.Equal(t, 0.0, prices[0].UnitPrice, "an explicit zero unit price wins over lineUnitPrice")
}

func TestCoordinates(t *testing.T) {
	tests := []struct {
		name    string
		loc     locationResult
		wantLat float64
		wantLng float64
	}{
		{
			name:    "geoLocation wins",
			loc:     locationResult{GeoLocation: &geoLocation{Latitude: floatPtr(-27.4), Longitude: floatPtr(153.0)}, Latitude: floatPtr(1), Longitude: floatPtr(2)},
			wantLat: -27.4,
			wantLng: 153.0,
		},
		{
			name:    "partial geoLocation falls back per field",
			loc:     locationResult{GeoLocation: &geoLocation{Latitude: floatPtr(-27.4)}, Longitude: floatPtr(152.9)},
			wantLat: -27.4,
			wantLng: 152.9,
		},
		{
			name: "nothing present",
			loc:  locationResult{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			lat, lng := coordinates(tt.loc)
			assert.Equal(t, tt.wantLat, lat)
			assert.Equal(t, tt.wantLng, lng)
		})
	}
}

func TestJoinAddress(t *testing.T) {
	assert.Equal(t, "", joinAddress(nil))
	assert.Equal(t, "1 Main St, 3000", joinAddress(&locationAddress{Line1: "1 Main St", PostCode: "3000"}))
}

func TestParseLocations_Malformed(t *testing.T) {
	_, err := parseLocations([]byte(`[{"locationCode":`))
	assert.Error(t, err)

	_, err = parseItemLocations([]byte(`"unexpected"`))
	assert.Error(t, err)
}

func TestIsJSONArray(t *testing.T) {
	assert.True(t, isJSONArray([]byte("  \n[1]")))
	assert.False(t, isJSONArray([]byte(`{"results":[]}`)))
	assert.False(t, isJSONArray(nil))
}
