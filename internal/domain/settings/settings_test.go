package settings

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	tests := []struct {
		name     string
		currency string
		batch    float64
		wantErr  error
	}{
		{name: "valid", currency: " $ ", batch: 19},
		{name: "euro", currency: "€", batch: 5},
		{name: "empty currency", currency: "  ", batch: 19, wantErr: ErrCurrencyRequired},
		{name: "long currency", currency: "DOLLARS!!", batch: 19, wantErr: ErrCurrencyTooLong},
		{name: "zero batch", currency: "$", batch: 0, wantErr: ErrInvalidBatchSize},
		{name: "NaN batch", currency: "$", batch: math.NaN(), wantErr: ErrInvalidBatchSize},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, err := New(tt.currency, tt.batch)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.NotContains(t, s.CurrencySymbol, " ")
			assert.Equal(t, tt.batch, s.DefaultBatchSizeLiters)
		})
	}
}
