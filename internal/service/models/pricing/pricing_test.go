package pricing

import (
	"testing"

	"github.com/quickeats/fulfillment/internal/service/models/apperr"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCompute(t *testing.T) {
	tests := []struct {
		name             string
		subtotalCents    int64
		deliveryFeeCents int64
		discountCents    int64
		taxRate          float64
		want             Quote
		wantErrKind      apperr.Kind
	}{
		{
			name:             "no_discount_no_tax",
			subtotalCents:    2500,
			deliveryFeeCents: 500,
			want:             Quote{SubtotalCents: 2500, DeliveryFeeCents: 500, TotalCents: 3000},
		},
		{
			name:             "percentage_welcome_discount",
			subtotalCents:    5300,
			deliveryFeeCents: 400,
			discountCents:    530,
			taxRate:          8.5,
			want:             Quote{SubtotalCents: 5300, DeliveryFeeCents: 400, DiscountCents: 530, TaxCents: 451, TotalCents: 5621},
		},
		{
			name:          "tax_rounds_half_up",
			subtotalCents: 1050,
			taxRate:       8.5,
			// 1050 * 8.5% = 89.25 -> 89
			want: Quote{SubtotalCents: 1050, TaxCents: 89, TotalCents: 1139},
		},
		{
			name:          "tax_fraction_at_half_rounds_up",
			subtotalCents: 1000,
			taxRate:       8.25,
			// 1000 * 8.25% = 82.5 -> 83
			want: Quote{SubtotalCents: 1000, TaxCents: 83, TotalCents: 1083},
		},
		{
			name:             "discount_clamped_to_subtotal",
			subtotalCents:    1000,
			deliveryFeeCents: 300,
			discountCents:    5000,
			want:             Quote{SubtotalCents: 1000, DeliveryFeeCents: 300, DiscountCents: 1000, TotalCents: 300},
		},
		{
			name:        "zero_subtotal_rejected",
			wantErrKind: apperr.KindValidation,
		},
		{
			name:          "negative_subtotal_rejected",
			subtotalCents: -100,
			wantErrKind:   apperr.KindValidation,
		},
		{
			name:             "negative_fee_rejected",
			subtotalCents:    1000,
			deliveryFeeCents: -1,
			wantErrKind:      apperr.KindValidation,
		},
		{
			name:          "negative_discount_rejected",
			subtotalCents: 1000,
			discountCents: -1,
			wantErrKind:   apperr.KindValidation,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Compute(tt.subtotalCents, tt.deliveryFeeCents, tt.discountCents, tt.taxRate)
			if tt.wantErrKind != "" {
				require.Error(t, err)
				assert.Equal(t, tt.wantErrKind, apperr.KindOf(err))

				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestComputeTotalNeverNegative(t *testing.T) {
	// Discount equal to the subtotal with no fee and no tax floors at zero.
	got, err := Compute(1000, 0, 1000, 0)
	require.NoError(t, err)
	assert.Equal(t, int64(0), got.TotalCents)
}
