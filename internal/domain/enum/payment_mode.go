package enum

import (
	"database/sql/driver"
	"errors"
	"strings"
)

// PaymentMode is how a receipt was settled. The canonical form is upper case.
type PaymentMode string

const (
	PaymentModeCash         PaymentMode = "CASH"
	PaymentModeCard         PaymentMode = "CARD"
	PaymentModeUPI          PaymentMode = "UPI"
	PaymentModeBankTransfer PaymentMode = "BANK_TRANSFER"
	PaymentModeCheque       PaymentMode = "CHEQUE"
	PaymentModeOther        PaymentMode = "OTHER"
)

var (
	ErrPaymentModeRequired = errors.New("payment mode is required")
	ErrInvalidPaymentMode  = errors.New("invalid payment mode")
)

// PaymentModes lists every accepted mode
func PaymentModes() []PaymentMode {
	return []PaymentMode{
		PaymentModeCash,
		PaymentModeCard,
		PaymentModeUPI,
		PaymentModeBankTransfer,
		PaymentModeCheque,
		PaymentModeOther,
	}
}

// ParsePaymentMode matches s case-insensitively against the accepted modes
func ParsePaymentMode(s string) (PaymentMode, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return "", ErrPaymentModeRequired
	}
	for _, m := range PaymentModes() {
		if strings.EqualFold(s, string(m)) {
			return m, nil
		}
	}
	return "", ErrInvalidPaymentMode
}

func (p PaymentMode) String() string {
	return string(p)
}

func (p PaymentMode) Value() (driver.Value, error) {
	return string(p), nil
}

func (p *PaymentMode) Scan(value interface{}) error {
	switch v := value.(type) {
	case nil:
		*p = ""
	case string:
		*p = PaymentMode(v)
	case []byte:
		*p = PaymentMode(v)
	default:
		return errors.New("enum: unsupported payment mode column type")
	}
	return nil
}
