package models

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// PaymentStatus tracks how much of a sale has been settled.
type PaymentStatus string

const (
	PaymentPaid          PaymentStatus = "Paid"
	PaymentPending       PaymentStatus = "Pending"
	PaymentPartiallyPaid PaymentStatus = "Partially Paid"
)

// ParsePaymentStatus validates a payment status. Empty input yields Pending.
func ParsePaymentStatus(value string) (PaymentStatus, error) {
	switch s := PaymentStatus(strings.TrimSpace(value)); s {
	case "":
		return PaymentPending, nil
	case PaymentPaid, PaymentPending, PaymentPartiallyPaid:
		return s, nil
	default:
		return "", Invalid("paymentStatus", "unsupported payment status %q", value)
	}
}

// PaymentMethod is how a customer paid.
type PaymentMethod string

const (
	PaymentCash         PaymentMethod = "Cash"
	PaymentUPI          PaymentMethod = "UPI"
	PaymentBankTransfer PaymentMethod = "Bank Transfer"
	PaymentCheque       PaymentMethod = "Cheque"
	PaymentOtherMethod  PaymentMethod = "Other"
)

// ParseSalePaymentMethod validates the methods a sale accepts. Empty input yields Cash.
func ParseSalePaymentMethod(value string) (PaymentMethod, error) {
	switch m := PaymentMethod(strings.TrimSpace(value)); m {
	case "":
		return PaymentCash, nil
	case PaymentCash, PaymentUPI, PaymentBankTransfer, PaymentOtherMethod:
		return m, nil
	default:
		return "", Invalid("paymentMethod", "unsupported payment method %q", value)
	}
}

// Customer identifies the buyer of a sale.
type Customer struct {
	Name        string `bson:"name" json:"name"`
	PhoneNumber string `bson:"phoneNumber" json:"phoneNumber"`
	Address     string `bson:"address" json:"address"`
}

// Validate requires every customer field.
func (c Customer) Validate() error {
	switch {
	case strings.TrimSpace(c.Name) == "":
		return Invalid("name", "is required")
	case strings.TrimSpace(c.PhoneNumber) == "":
		return Invalid("phoneNumber", "is required")
	case strings.TrimSpace(c.Address) == "":
		return Invalid("address", "is required")
	}
	return nil
}

// SaleLineItem is one product line of a sale. Amount is always Quantity × Rate.
type SaleLineItem struct {
	ItemType ItemType `bson:"itemType" json:"itemType"`
	Quantity float64  `bson:"quantity" json:"quantity"`
	Rate     float64  `bson:"rate" json:"rate"`
	Amount   float64  `bson:"amount" json:"amount"`
}

// SumAmounts adds the stored line amounts exactly. A sale's TotalAmount is
// always this sum; compare in decimal, float64 addition can drift in the
// last digit.
func SumAmounts(lines []SaleLineItem) decimal.Decimal {
	total := decimal.Zero
	for _, line := range lines {
		total = total.Add(decimal.NewFromFloat(line.Amount))
	}
	return total
}

// LineItemInput is a line item as submitted by a caller. Any amount the
// caller sends is ignored.
type LineItemInput struct {
	ItemType string  `json:"itemType"`
	Quantity float64 `json:"quantity"`
	Rate     float64 `json:"rate"`
}

// Sale is a customer purchase of milled products out of stock.
type Sale struct {
	ID       string `bson:"_id" json:"_id"`
	ClientID string `bson:"clientId" json:"clientId"`

	Customer `bson:",inline"`

	Items         []SaleLineItem `bson:"items" json:"items"`
	TotalAmount   float64        `bson:"totalAmount" json:"totalAmount"`
	PaymentStatus PaymentStatus  `bson:"paymentStatus" json:"paymentStatus"`
	PaymentMethod PaymentMethod  `bson:"paymentMethod" json:"paymentMethod"`
	CreatedAt     time.Time      `bson:"createdAt" json:"createdAt"`
	UpdatedAt     time.Time      `bson:"updatedAt" json:"updatedAt"`
}

// SalePatch carries the optional fields of a sale update. Nil pointers and
// empty strings leave the stored value untouched; a non-nil Items replaces
// every line item.
type SalePatch struct {
	Name          *string         `json:"name"`
	PhoneNumber   *string         `json:"phoneNumber"`
	Address       *string         `json:"address"`
	PaymentStatus *string         `json:"paymentStatus"`
	PaymentMethod *string         `json:"paymentMethod"`
	Items         []LineItemInput `json:"items"`
}
