package dto

import (
	"github.com/lphuocloc/Oasis-Go-BE/internal/domains/payment/model"
	"github.com/lphuocloc/Oasis-Go-BE/shared"
	"github.com/lphuocloc/Oasis-Go-BE/shared/constant"
	gDto "github.com/lphuocloc/Oasis-Go-BE/shared/dto"
	"github.com/lphuocloc/Oasis-Go-BE/shared/timezone"
)

type CreatePaymentURLRequest struct {
	BookingID string `json:"booking_id" validate:"omitempty"`
	Amount    int64  `json:"amount"     validate:"required,gt=0"`
	BankCode  string `json:"bank_code"  validate:"omitempty,max=20"`
	OrderInfo string `json:"order_info" validate:"omitempty,max=255"`
	Locale    string `json:"locale"     validate:"omitempty,oneof=vn en"`

	// ClientIP is filled from the request by the handler, never from the
	// body.
	ClientIP string `json:"-"`
}

type CreatePaymentURLResponse struct {
	PaymentID  string `json:"payment_id"`
	OrderID    string `json:"order_id"`
	PaymentURL string `json:"payment_url"`
}

// IPNResponse is the fixed acknowledgement vocabulary the gateway expects.
// Field names and codes are part of the wire contract and must not change.
type IPNResponse struct {
	RspCode string `json:"RspCode"`
	Message string `json:"Message"`
}

type RefundRequest struct {
	OrderID string `json:"order_id" validate:"required"`
	Amount  int64  `json:"amount"   validate:"required,gt=0"`
	Reason  string `json:"reason"   validate:"omitempty,max=255"`
}

type PaymentResponse struct {
	ID            string `json:"id"`
	BookingID     string `json:"booking_id"`
	OrderID       string `json:"order_id"`
	Amount        int64  `json:"amount"`
	Method        string `json:"method"`
	Status        string `json:"status"`
	TransactionNo string `json:"transaction_no,omitempty"`
	BankCode      string `json:"bank_code,omitempty"`
	ResponseCode  string `json:"response_code,omitempty"`
	PayDate       string `json:"pay_date,omitempty"`
	AuthorizedAt  string `json:"authorized_at,omitempty"`
	gDto.Metadata
}

func (r *PaymentResponse) FromModel(model model.Payment) {
	r.ID = model.ID
	r.BookingID = model.BookingID
	r.OrderID = model.OrderID
	r.Amount = model.Amount
	r.Method = model.Method
	r.Status = string(model.Status)
	r.TransactionNo = model.TransactionNo
	r.BankCode = model.BankCode
	r.ResponseCode = model.ResponseCode
	r.PayDate = model.PayDate

	if model.AuthorizedAt != nil {
		r.AuthorizedAt = timezone.Format(*model.AuthorizedAt, constant.DateFormat)
	}

	r.Metadata.FromModel(model.Metadata)
}

type GetPaymentsResponse struct {
	Payments  []PaymentResponse `json:"payments"`
	TotalPage int               `json:"total_page"`
	TotalData int               `json:"total_data"`
}

func (r *GetPaymentsResponse) FromModels(models []model.Payment, totalData, limit int) {
	r.TotalData = totalData
	r.TotalPage = shared.CalculateTotalPage(totalData, limit)

	r.Payments = make([]PaymentResponse, len(models))
	for i, mod := range models {
		r.Payments[i].FromModel(mod)
	}
}
