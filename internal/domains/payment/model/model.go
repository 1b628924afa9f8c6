package model

import (
	"time"

	"github.com/lphuocloc/Oasis-Go-BE/shared/model"
)

const (
	TableName  = "payments"
	EntityName = "payment"

	FieldID            = "id"
	FieldBookingID     = "booking_id"
	FieldOrderID       = "order_id"
	FieldAmount        = "amount"
	FieldStatus        = "status"
	FieldTransactionNo = "transaction_no"
	FieldBankCode      = "bank_code"
	FieldResponseCode  = "response_code"
	FieldPayDate       = "pay_date"
	FieldRawSignature  = "raw_signature"
	FieldAuthorizedAt  = "authorized_at"
)

const MethodVNPay = "VNPAY"

type Status string

const (
	StatusInitiated Status = "INITIATED"
	StatusCompleted Status = "COMPLETED"
	StatusFailed    Status = "FAILED"
	StatusRefunded  Status = "REFUNDED"
	StatusCancelled Status = "CANCELLED"
)

type Payment struct {
	ID            string     `db:"id"`
	BookingID     string     `db:"booking_id"`
	OrderID       string     `db:"order_id"`
	Amount        int64      `db:"amount"`
	Method        string     `db:"method"`
	Status        Status     `db:"status"`
	TransactionNo string     `db:"transaction_no"`
	BankCode      string     `db:"bank_code"`
	ResponseCode  string     `db:"response_code"`
	PayDate       string     `db:"pay_date"`
	RawSignature  string     `db:"raw_signature"`
	AuthorizedAt  *time.Time `db:"authorized_at"`
	model.Metadata
}

// IsTerminal reports whether the payment has left INITIATED. Terminal
// payments are never mutated again by gateway callbacks.
func (p *Payment) IsTerminal() bool {
	return p.Status != StatusInitiated
}
