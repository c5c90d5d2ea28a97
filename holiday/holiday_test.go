package holiday

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLookup(t *testing.T) {
	testData := map[string]struct {
		country  string
		t        time.Time
		expName  string
		expFound bool
	}{
		"us christmas": {
			country:  "us",
			t:        time.Date(2024, 12, 25, 19, 0, 0, 0, time.UTC),
			expName:  "Christmas Day",
			expFound: true,
		},
		"us independence day": {
			country:  "US",
			t:        time.Date(2024, 7, 4, 12, 0, 0, 0, time.UTC),
			expName:  "Independence Day",
			expFound: true,
		},
		"us regular day": {
			country: "us",
			t:       time.Date(2024, 1, 16, 12, 0, 0, 0, time.UTC),
		},
		"gb boxing day": {
			country:  "gb",
			t:        time.Date(2024, 12, 26, 12, 0, 0, 0, time.UTC),
			expName:  "Boxing Day",
			expFound: true,
		},
		"gb independence day is not a holiday": {
			country: "gb",
			t:       time.Date(2024, 7, 4, 12, 0, 0, 0, time.UTC),
		},
	}

	for name, td := range testData {
		t.Run(name, func(t *testing.T) {
			c, err := New(td.country)
			require.Nil(t, err)
			require.NotNil(t, c)

			hol, found := c.Lookup(td.t)
			assert.Equal(t, td.expFound, found)
			assert.Equal(t, td.expName, hol)
		})
	}
}

func TestNewDisabled(t *testing.T) {
	c, err := New("  ")
	require.Nil(t, err)
	assert.Nil(t, c)

	hol, found := c.Lookup(time.Date(2024, 12, 25, 0, 0, 0, 0, time.UTC))
	assert.False(t, found)
	assert.Equal(t, "", hol)
	assert.Equal(t, "", c.Country())
}

func TestNewUnknownCountry(t *testing.T) {
	_, err := New("xx")
	assert.ErrorIs(t, err, ErrUnknownCountry)
}

func TestCountries(t *testing.T) {
	for _, country := range Countries() {
		c, err := New(country)
		require.Nil(t, err)
		assert.Equal(t, country, c.Country())
	}
}
