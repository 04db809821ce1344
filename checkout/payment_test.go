package checkout_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/chronoluxe/rental-frontend/checkout"
	interrors "github.com/chronoluxe/rental-frontend/internal/errors"
)

var validDetails = checkout.PaymentDetails{
	CardNumber: "4111 1111 1111 1111",
	CardName:   "Ada Lovelace",
	ExpiryDate: "12/30",
	CVV:        "123",
}

var paymentNow = time.Date(2026, 3, 14, 12, 0, 0, 0, time.UTC)

func TestPaymentDetails_Validate(t *testing.T) {
	t.Run("valid details pass", func(t *testing.T) {
		require.Nil(t, validDetails.Validate(paymentNow))
	})

	t.Run("fully empty submission surfaces exactly four errors together", func(t *testing.T) {
		errs := checkout.PaymentDetails{}.Validate(paymentNow)
		require.Len(t, errs, 4)
		require.Equal(t, "Please enter a valid card number", errs[checkout.FieldCardNumber])
		require.Equal(t, "Please enter the cardholder name", errs[checkout.FieldCardName])
		require.Equal(t, "Please enter a valid expiry date (MM/YY)", errs[checkout.FieldExpiryDate])
		require.Equal(t, "Please enter a valid CVV", errs[checkout.FieldCVV])
	})

	t.Run("expired card is the only error when everything else is valid", func(t *testing.T) {
		details := validDetails
		details.ExpiryDate = "01/20"
		errs := details.Validate(paymentNow)
		require.Len(t, errs, 1)
		require.Equal(t, "Card has expired", errs[checkout.FieldExpiryDate])
	})

	t.Run("card numbers", func(t *testing.T) {
		cases := map[string]bool{
			"4111 1111 1111 1111": true,  // 16 digits, grouped
			"4111111111111111":    true,  // 16 digits, raw
			"378282246310005":     true,  // 15 digits
			"41111111111111":      false, // 14 digits
			"4111 1111 1111 111a": false,
			"":                    false,
		}
		for input, ok := range cases {
			details := validDetails
			details.CardNumber = input
			errs := details.Validate(paymentNow)
			if ok {
				require.NotContains(t, errs, checkout.FieldCardNumber, "input %q", input)
			} else {
				require.Equal(t, "Please enter a valid card number", errs[checkout.FieldCardNumber], "input %q", input)
			}
		}
	})

	t.Run("cardholder name must be non-blank after trimming", func(t *testing.T) {
		details := validDetails
		details.CardName = "   "
		errs := details.Validate(paymentNow)
		require.Equal(t, "Please enter the cardholder name", errs[checkout.FieldCardName])
	})

	t.Run("expiry format", func(t *testing.T) {
		for _, input := range []string{"13/30", "00/30", "1/30", "12-30", "1230", "12/3"} {
			details := validDetails
			details.ExpiryDate = input
			errs := details.Validate(paymentNow)
			require.Equal(t, "Please enter a valid expiry date (MM/YY)", errs[checkout.FieldExpiryDate], "input %q", input)
		}
	})

	t.Run("expiry in the current month counts as expired", func(t *testing.T) {
		details := validDetails
		details.ExpiryDate = "03/26" // reconstructed as 2026-03-01, not after mid-March 2026
		errs := details.Validate(paymentNow)
		require.Equal(t, "Card has expired", errs[checkout.FieldExpiryDate])
	})

	t.Run("cvv", func(t *testing.T) {
		for input, ok := range map[string]bool{"123": true, "1234": true, "12": false, "12345": false, "12a": false} {
			details := validDetails
			details.CVV = input
			errs := details.Validate(paymentNow)
			if ok {
				require.NotContains(t, errs, checkout.FieldCVV, "input %q", input)
			} else {
				require.Equal(t, "Please enter a valid CVV", errs[checkout.FieldCVV], "input %q", input)
			}
		}
	})

	t.Run("field errors match the validation sentinel", func(t *testing.T) {
		var err error = checkout.PaymentDetails{}.Validate(paymentNow)
		require.ErrorIs(t, err, interrors.ErrValidation)
	})
}

func TestFormatCardNumber(t *testing.T) {
	t.Run("groups digits in runs of four", func(t *testing.T) {
		require.Equal(t, "4111 1111 1111 1111", checkout.FormatCardNumber("4111111111111111"))
	})

	t.Run("idempotent on an already formatted value", func(t *testing.T) {
		formatted := "4111 1111 1111 1111"
		require.Equal(t, formatted, checkout.FormatCardNumber(formatted))
	})

	t.Run("partial input", func(t *testing.T) {
		require.Equal(t, "4111 11", checkout.FormatCardNumber("411111"))
		require.Equal(t, "4111", checkout.FormatCardNumber("4111"))
		require.Equal(t, "411", checkout.FormatCardNumber("411"))
		require.Equal(t, "", checkout.FormatCardNumber(""))
	})

	t.Run("fifteen digit numbers", func(t *testing.T) {
		require.Equal(t, "3782 8224 6310 005", checkout.FormatCardNumber("378282246310005"))
	})
}

func TestFormatExpiry(t *testing.T) {
	t.Run("inserts slash after second digit", func(t *testing.T) {
		require.Equal(t, "12/3", checkout.FormatExpiry("123"))
		require.Equal(t, "12/30", checkout.FormatExpiry("1230"))
	})

	t.Run("two or fewer digits stay bare", func(t *testing.T) {
		require.Equal(t, "1", checkout.FormatExpiry("1"))
		require.Equal(t, "12", checkout.FormatExpiry("12"))
	})

	t.Run("strips non-digits", func(t *testing.T) {
		require.Equal(t, "12/30", checkout.FormatExpiry("12/30"))
		require.Equal(t, "12/30", checkout.FormatExpiry("12-30"))
	})

	t.Run("truncates beyond four digits", func(t *testing.T) {
		require.Equal(t, "12/30", checkout.FormatExpiry("123056"))
	})
}
