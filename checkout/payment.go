package checkout

import (
	"regexp"
	"strconv"
	"strings"
	"time"

	interrors "github.com/chronoluxe/rental-frontend/internal/errors"
)

// PaymentMethod selects the payment path. PayPal skips card validation
// entirely; the card path validates every field before any network call.
type PaymentMethod string

const (
	MethodCreditCard PaymentMethod = "Credit Card"
	MethodPayPal     PaymentMethod = "PayPal"
)

// Payment form field names, matching the legacy form.
const (
	FieldCardNumber = "cardNumber"
	FieldCardName   = "cardName"
	FieldExpiryDate = "expiryDate"
	FieldCVV        = "cvv"
)

// PaymentDetails is the transient card form state. It is validated just
// before submission, sent nowhere except the card fields' own validation,
// and never persisted.
type PaymentDetails struct {
	CardNumber string
	CardName   string
	ExpiryDate string // "MM/YY"
	CVV        string
}

// FieldErrors maps field names to the message shown under them. All
// applicable errors are reported together, never just the first.
type FieldErrors map[string]string

func (e FieldErrors) Error() string {
	parts := make([]string, 0, len(e))
	for _, field := range []string{FieldCardNumber, FieldCardName, FieldExpiryDate, FieldCVV} {
		if message, ok := e[field]; ok {
			parts = append(parts, field+": "+message)
		}
	}
	return strings.Join(parts, "; ")
}

// Is lets callers match FieldErrors against the validation sentinel.
func (e FieldErrors) Is(target error) bool {
	return target == interrors.ErrValidation
}

var (
	cardNumberPattern = regexp.MustCompile(`^\d{15,16}$`)
	expiryPattern     = regexp.MustCompile(`^(0[1-9]|1[0-2])/(\d{2})$`)
	cvvPattern        = regexp.MustCompile(`^\d{3,4}$`)
)

// Validate checks every card field independently and returns all failures
// at once; an empty map means the form may be submitted. A structurally
// valid expiry is additionally checked against now: the reconstructed
// (2000+YY, MM, 1) date must lie in the future, else the field reports
// "Card has expired" instead.
func (d PaymentDetails) Validate(now time.Time) FieldErrors {
	errs := make(FieldErrors)

	if !cardNumberPattern.MatchString(strings.ReplaceAll(d.CardNumber, " ", "")) {
		errs[FieldCardNumber] = "Please enter a valid card number"
	}

	if strings.TrimSpace(d.CardName) == "" {
		errs[FieldCardName] = "Please enter the cardholder name"
	}

	if match := expiryPattern.FindStringSubmatch(d.ExpiryDate); match == nil {
		errs[FieldExpiryDate] = "Please enter a valid expiry date (MM/YY)"
	} else {
		month, _ := strconv.Atoi(match[1])
		year, _ := strconv.Atoi(match[2])
		expiry := time.Date(2000+year, time.Month(month), 1, 0, 0, 0, 0, time.UTC)
		if !expiry.After(now) {
			errs[FieldExpiryDate] = "Card has expired"
		}
	}

	if !cvvPattern.MatchString(d.CVV) {
		errs[FieldCVV] = "Please enter a valid CVV"
	}

	if len(errs) == 0 {
		return nil
	}
	return errs
}

// FormatCardNumber normalizes card input on every keystroke: digits grouped
// in runs of four separated by single spaces, no trailing space. Formatting
// an already-formatted value is a no-op.
func FormatCardNumber(input string) string {
	stripped := strings.ReplaceAll(input, " ", "")
	var grouped strings.Builder
	for i, r := range stripped {
		if i > 0 && i%4 == 0 {
			grouped.WriteByte(' ')
		}
		grouped.WriteRune(r)
	}
	return strings.TrimRight(grouped.String(), " ")
}

// FormatExpiry normalizes expiry input on every keystroke: non-digits are
// stripped, a slash is inserted after the second digit once a third
// arrives, and anything past four digits is truncated.
func FormatExpiry(input string) string {
	var digits strings.Builder
	for _, r := range input {
		if r >= '0' && r <= '9' {
			digits.WriteRune(r)
		}
	}
	cleaned := digits.String()
	if len(cleaned) > 4 {
		cleaned = cleaned[:4]
	}
	if len(cleaned) > 2 {
		return cleaned[:2] + "/" + cleaned[2:]
	}
	return cleaned
}
