package booking

import (
	"fmt"
	"strings"
)

// PaymentStatus is owned by the payment collaborator; the booking only records it.
type PaymentStatus string

const (
	PaymentUnpaid        PaymentStatus = "Unpaid"
	PaymentPartiallyPaid PaymentStatus = "Partially Paid"
	PaymentPaid          PaymentStatus = "Paid"
	PaymentRefunded      PaymentStatus = "Refunded"
)

var paymentStatuses = []PaymentStatus{PaymentUnpaid, PaymentPartiallyPaid, PaymentPaid, PaymentRefunded}

// IsValid returns true if the status is a recognized payment status.
func (p PaymentStatus) IsValid() bool {
	for _, s := range paymentStatuses {
		if s == p {
			return true
		}
	}
	return false
}

func (p PaymentStatus) String() string {
	return string(p)
}

// ParsePaymentStatus accepts "Partially Paid", "partially_paid" and other case variants.
func ParsePaymentStatus(s string) (PaymentStatus, error) {
	normalized := strings.ReplaceAll(strings.TrimSpace(s), "_", " ")
	for _, status := range paymentStatuses {
		if strings.EqualFold(string(status), normalized) {
			return status, nil
		}
	}
	return "", fmt.Errorf("invalid payment status: %s", s)
}
