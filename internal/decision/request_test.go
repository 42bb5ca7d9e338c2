package decision

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/iTrooz/cryo-dash/internal/market"
)

func TestRequestValidate(t *testing.T) {
	testCases := []struct {
		name          string
		request       Request
		expectedIs    error
		expectedError string
	}{
		{
			name:    "valid_preset",
			request: Request{Symbol: "BTC/USDT", Minutes: 240},
		},
		{
			name:    "valid_custom_lower_bound",
			request: Request{Symbol: "DOGE/USDT", Minutes: 30},
		},
		{
			name:    "valid_custom_upper_bound",
			request: Request{Symbol: "ETH/USDT", Minutes: 2880},
		},
		{
			name:          "missing_symbol",
			request:       Request{Minutes: 240},
			expectedIs:    ErrInvalidRequest,
			expectedError: "symbol is required",
		},
		{
			name:          "unsupported_symbol",
			request:       Request{Symbol: "PEPE/USDT", Minutes: 240},
			expectedIs:    market.ErrUnsupportedSymbol,
			expectedError: `"PEPE/USDT"`,
		},
		{
			name:          "too_short",
			request:       Request{Symbol: "BTC/USDT", Minutes: 29},
			expectedIs:    ErrHorizonOutOfRange,
			expectedError: "horizon must be between 30 and 2880 minutes",
		},
		{
			name:          "too_long",
			request:       Request{Symbol: "BTC/USDT", Minutes: 2881},
			expectedIs:    ErrHorizonOutOfRange,
			expectedError: "horizon must be between 30 and 2880 minutes",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			err := tc.request.Validate()

			if tc.expectedIs == nil {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, tc.expectedIs)
			assert.ErrorIs(t, err, ErrInvalidRequest)
			assert.Contains(t, err.Error(), tc.expectedError)
		})
	}
}
