package service_test

import (
	"context"
	"errors"
	"net/http"
	"net/url"
	"strconv"
	"testing"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/lphuocloc/Oasis-Go-BE/config"
	kafkaMocks "github.com/lphuocloc/Oasis-Go-BE/infras/kafka/mocks"
	"github.com/lphuocloc/Oasis-Go-BE/infras/otel/mocks"
	paymentMocks "github.com/lphuocloc/Oasis-Go-BE/internal/domains/payment/mocks"
	"github.com/lphuocloc/Oasis-Go-BE/internal/domains/payment/model"
	"github.com/lphuocloc/Oasis-Go-BE/internal/domains/payment/model/dto"
	"github.com/lphuocloc/Oasis-Go-BE/internal/domains/payment/service"
	"github.com/lphuocloc/Oasis-Go-BE/shared/constant"
	"github.com/lphuocloc/Oasis-Go-BE/shared/failure"
	"github.com/lphuocloc/Oasis-Go-BE/shared/signature"
)

const testSecret = "test-hash-secret"

type fakeTransactor struct {
}

func (f *fakeTransactor) WithTransaction(_ context.Context, fn func(tx *sqlx.Tx) error) error {
	return fn(nil)
}

func testConfig() *config.Config {
	cfg := &config.Config{}
	cfg.Payment.VNPay.TmnCode = "TESTTMN"
	cfg.Payment.VNPay.HashSecret = testSecret
	cfg.Payment.VNPay.PayURL = "https://sandbox.vnpayment.vn/paymentv2/vpcpay.html"
	cfg.Payment.VNPay.ReturnURL = "https://oasis.example.com/v1/payments/vnpay-return"
	cfg.Payment.VNPay.ExpireMinutes = 15

	return cfg
}

func testContext() context.Context {
	return context.WithValue(context.Background(), constant.ContextKeyUserID, "renter-1")
}

func newService(t *testing.T) (service.Payment, *paymentMocks.MockPayment, *paymentMocks.MockGateway) {
	t.Helper()

	ctrl := gomock.NewController(t)

	mockRepo := paymentMocks.NewMockPayment(ctrl)
	mockGateway := paymentMocks.NewMockGateway(ctrl)

	svc := service.New(mockRepo, &fakeTransactor{}, mockGateway, testConfig(), kafkaMocks.NewNoop(), mocks.NewOtel())

	return svc, mockRepo, mockGateway
}

// signedCallback builds a callback parameter set carrying a valid signature,
// the way the gateway would.
func signedCallback(orderID string, amount int64, responseCode string) map[string]string {
	params := map[string]string{
		"vnp_TxnRef":        orderID,
		"vnp_Amount":        strconv.FormatInt(amount*constant.GatewayAmountMultiplier, 10),
		"vnp_ResponseCode":  responseCode,
		"vnp_TransactionNo": "14226112",
		"vnp_BankCode":      "NCB",
		"vnp_PayDate":       "20250601142530",
		"vnp_TmnCode":       "TESTTMN",
	}

	params["vnp_SecureHash"] = signature.HashValue(params, testSecret)

	return params
}

func initiatedPayment(orderID string, amount int64) model.Payment {
	return model.Payment{
		ID:        "payment-1",
		BookingID: "booking-1",
		OrderID:   orderID,
		Amount:    amount,
		Method:    model.MethodVNPay,
		Status:    model.StatusInitiated,
	}
}

func TestPaymentService_CreatePaymentURL(t *testing.T) {
	svc, mockRepo, _ := newService(t)

	t.Run("sequence continues within the same day", func(t *testing.T) {
		today := time.Now().In(time.FixedZone(constant.GatewayTimezoneName, constant.GatewayTimezoneOffset)).Format(constant.OrderIDDateFormat)
		prefix := constant.OrderIDPrefix + "-" + today + "-"

		mockRepo.EXPECT().
			LastOrderIDTx(gomock.Any(), gomock.Any(), prefix+"%").
			Return(prefix+"003", nil)

		var inserted model.Payment

		mockRepo.EXPECT().
			InsertTx(gomock.Any(), gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, _ *sqlx.Tx, payment model.Payment) error {
				inserted = payment

				return nil
			})

		res, err := svc.CreatePaymentURL(testContext(), dto.CreatePaymentURLRequest{
			BookingID: "booking-1",
			Amount:    150000,
			ClientIP:  "203.0.113.7",
		})

		require.NoError(t, err)
		assert.Equal(t, prefix+"004", res.OrderID)
		assert.Equal(t, prefix+"004", inserted.OrderID)
		assert.Equal(t, model.StatusInitiated, inserted.Status)
		assert.Equal(t, int64(150000), inserted.Amount)
	})

	t.Run("first order of the day", func(t *testing.T) {
		mockRepo.EXPECT().
			LastOrderIDTx(gomock.Any(), gomock.Any(), gomock.Any()).
			Return("", nil)

		mockRepo.EXPECT().
			InsertTx(gomock.Any(), gomock.Any(), gomock.Any()).
			Return(nil)

		res, err := svc.CreatePaymentURL(testContext(), dto.CreatePaymentURLRequest{
			BookingID: "booking-1",
			Amount:    80000,
		})

		require.NoError(t, err)
		assert.Regexp(t, `^ORDER-\d{8}-001$`, res.OrderID)
	})

	t.Run("sequence scan failure falls back to a timestamp id", func(t *testing.T) {
		mockRepo.EXPECT().
			LastOrderIDTx(gomock.Any(), gomock.Any(), gomock.Any()).
			Return("", errors.New("lock timeout"))

		mockRepo.EXPECT().
			InsertTx(gomock.Any(), gomock.Any(), gomock.Any()).
			Return(nil)

		res, err := svc.CreatePaymentURL(testContext(), dto.CreatePaymentURLRequest{
			BookingID: "booking-1",
			Amount:    80000,
		})

		require.NoError(t, err)
		assert.Regexp(t, `^ORDER-\d+$`, res.OrderID)
	})

	t.Run("exhausted daily sequence falls back to a timestamp id", func(t *testing.T) {
		today := time.Now().In(time.FixedZone(constant.GatewayTimezoneName, constant.GatewayTimezoneOffset)).Format(constant.OrderIDDateFormat)
		prefix := constant.OrderIDPrefix + "-" + today + "-"

		mockRepo.EXPECT().
			LastOrderIDTx(gomock.Any(), gomock.Any(), gomock.Any()).
			Return(prefix+"999", nil)

		mockRepo.EXPECT().
			InsertTx(gomock.Any(), gomock.Any(), gomock.Any()).
			Return(nil)

		res, err := svc.CreatePaymentURL(testContext(), dto.CreatePaymentURLRequest{
			BookingID: "booking-1",
			Amount:    80000,
		})

		require.NoError(t, err)
		assert.Regexp(t, `^ORDER-\d+$`, res.OrderID)
	})

	t.Run("payment url carries a valid signature", func(t *testing.T) {
		mockRepo.EXPECT().
			LastOrderIDTx(gomock.Any(), gomock.Any(), gomock.Any()).
			Return("", nil)

		mockRepo.EXPECT().
			InsertTx(gomock.Any(), gomock.Any(), gomock.Any()).
			Return(nil)

		res, err := svc.CreatePaymentURL(testContext(), dto.CreatePaymentURLRequest{
			BookingID: "booking-1",
			Amount:    150000,
			BankCode:  "NCB",
			ClientIP:  "203.0.113.7",
		})

		require.NoError(t, err)

		parsed, err := url.Parse(res.PaymentURL)
		require.NoError(t, err)

		query := parsed.Query()
		assert.Equal(t, "2.1.0", query.Get("vnp_Version"))
		assert.Equal(t, "pay", query.Get("vnp_Command"))
		assert.Equal(t, "TESTTMN", query.Get("vnp_TmnCode"))
		assert.Equal(t, "VND", query.Get("vnp_CurrCode"))
		assert.Equal(t, "15000000", query.Get("vnp_Amount"))
		assert.Equal(t, "NCB", query.Get("vnp_BankCode"))
		assert.Equal(t, res.OrderID, query.Get("vnp_TxnRef"))

		params := make(map[string]string, len(query))

		for key := range query {
			if key == "vnp_SecureHash" {
				continue
			}

			params[key] = query.Get(key)
		}

		assert.True(t, signature.Verify(params, testSecret, query.Get("vnp_SecureHash")))
	})

	t.Run("insert failure surfaces", func(t *testing.T) {
		mockRepo.EXPECT().
			LastOrderIDTx(gomock.Any(), gomock.Any(), gomock.Any()).
			Return("", nil)

		mockRepo.EXPECT().
			InsertTx(gomock.Any(), gomock.Any(), gomock.Any()).
			Return(errors.New("constraint violation"))

		_, err := svc.CreatePaymentURL(testContext(), dto.CreatePaymentURLRequest{
			BookingID: "booking-1",
			Amount:    80000,
		})

		assert.Error(t, err)
	})
}

func TestPaymentService_HandleIPN(t *testing.T) {
	const orderID = "ORDER-20250601-001"

	tests := []struct {
		name        string
		params      func() map[string]string
		setupMock   func(mockRepo *paymentMocks.MockPayment)
		wantRspCode string
	}{
		{
			name:   "fresh success settles the payment",
			params: func() map[string]string { return signedCallback(orderID, 150000, "00") },
			setupMock: func(mockRepo *paymentMocks.MockPayment) {
				mockRepo.EXPECT().
					GetForUpdateTx(gomock.Any(), gomock.Any(), gomock.Any()).
					Return(initiatedPayment(orderID, 150000), nil)

				mockRepo.EXPECT().
					UpdateTxCount(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
					Return(int64(1), nil)
			},
			wantRspCode: constant.IPNCodeSuccess,
		},
		{
			name:   "gateway failure marks the payment failed",
			params: func() map[string]string { return signedCallback(orderID, 150000, "24") },
			setupMock: func(mockRepo *paymentMocks.MockPayment) {
				mockRepo.EXPECT().
					GetForUpdateTx(gomock.Any(), gomock.Any(), gomock.Any()).
					Return(initiatedPayment(orderID, 150000), nil)

				mockRepo.EXPECT().
					UpdateTxCount(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
					Return(int64(1), nil)
			},
			wantRspCode: constant.IPNCodeSuccess,
		},
		{
			name:   "duplicate success delivery acknowledges without mutating",
			params: func() map[string]string { return signedCallback(orderID, 150000, "00") },
			setupMock: func(mockRepo *paymentMocks.MockPayment) {
				settled := initiatedPayment(orderID, 150000)
				settled.Status = model.StatusCompleted

				mockRepo.EXPECT().
					GetForUpdateTx(gomock.Any(), gomock.Any(), gomock.Any()).
					Return(settled, nil)
			},
			wantRspCode: constant.IPNCodeSuccess,
		},
		{
			name:   "callback for a failed payment is refused",
			params: func() map[string]string { return signedCallback(orderID, 150000, "00") },
			setupMock: func(mockRepo *paymentMocks.MockPayment) {
				failed := initiatedPayment(orderID, 150000)
				failed.Status = model.StatusFailed

				mockRepo.EXPECT().
					GetForUpdateTx(gomock.Any(), gomock.Any(), gomock.Any()).
					Return(failed, nil)
			},
			wantRspCode: constant.IPNCodeAlreadyConfirmed,
		},
		{
			name:   "unknown order",
			params: func() map[string]string { return signedCallback("ORDER-20250601-999", 150000, "00") },
			setupMock: func(mockRepo *paymentMocks.MockPayment) {
				mockRepo.EXPECT().
					GetForUpdateTx(gomock.Any(), gomock.Any(), gomock.Any()).
					Return(model.Payment{}, nil)
			},
			wantRspCode: constant.IPNCodeOrderNotFound,
		},
		{
			name:   "amount mismatch",
			params: func() map[string]string { return signedCallback(orderID, 150000, "00") },
			setupMock: func(mockRepo *paymentMocks.MockPayment) {
				mockRepo.EXPECT().
					GetForUpdateTx(gomock.Any(), gomock.Any(), gomock.Any()).
					Return(initiatedPayment(orderID, 120000), nil)
			},
			wantRspCode: constant.IPNCodeAmountMismatch,
		},
		{
			name: "amount off by less than one gateway unit is refused",
			params: func() map[string]string {
				params := signedCallback(orderID, 150000, "00")

				delete(params, "vnp_SecureHash")
				params["vnp_Amount"] = "15000050"
				params["vnp_SecureHash"] = signature.HashValue(params, testSecret)

				return params
			},
			setupMock: func(mockRepo *paymentMocks.MockPayment) {
				mockRepo.EXPECT().
					GetForUpdateTx(gomock.Any(), gomock.Any(), gomock.Any()).
					Return(initiatedPayment(orderID, 150000), nil)
			},
			wantRspCode: constant.IPNCodeAmountMismatch,
		},
		{
			name: "tampered signature",
			params: func() map[string]string {
				params := signedCallback(orderID, 150000, "00")
				params["vnp_Amount"] = "999999999"

				return params
			},
			setupMock:   func(mockRepo *paymentMocks.MockPayment) {},
			wantRspCode: constant.IPNCodeInvalidSignature,
		},
		{
			name:   "database fault maps to unknown error",
			params: func() map[string]string { return signedCallback(orderID, 150000, "00") },
			setupMock: func(mockRepo *paymentMocks.MockPayment) {
				mockRepo.EXPECT().
					GetForUpdateTx(gomock.Any(), gomock.Any(), gomock.Any()).
					Return(model.Payment{}, errors.New("connection reset"))
			},
			wantRspCode: constant.IPNCodeUnknownError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, mockRepo, _ := newService(t)
			tt.setupMock(mockRepo)

			res := svc.HandleIPN(testContext(), tt.params())

			assert.Equal(t, tt.wantRspCode, res.RspCode)
		})
	}
}

func TestPaymentService_HandleReturn(t *testing.T) {
	const orderID = "ORDER-20250601-001"

	t.Run("successful return settles and echoes the payment", func(t *testing.T) {
		svc, mockRepo, _ := newService(t)

		mockRepo.EXPECT().
			GetForUpdateTx(gomock.Any(), gomock.Any(), gomock.Any()).
			Return(initiatedPayment(orderID, 150000), nil)

		mockRepo.EXPECT().
			UpdateTxCount(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
			Return(int64(1), nil)

		res, err := svc.HandleReturn(testContext(), signedCallback(orderID, 150000, "00"))

		require.NoError(t, err)
		assert.Equal(t, orderID, res.OrderID)
		assert.Equal(t, string(model.StatusCompleted), res.Status)
	})

	t.Run("lost race to a concurrent callback echoes the settled payment", func(t *testing.T) {
		svc, mockRepo, _ := newService(t)

		settled := initiatedPayment(orderID, 150000)
		settled.Status = model.StatusCompleted

		gomock.InOrder(
			mockRepo.EXPECT().
				GetForUpdateTx(gomock.Any(), gomock.Any(), gomock.Any()).
				Return(initiatedPayment(orderID, 150000), nil),
			mockRepo.EXPECT().
				UpdateTxCount(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
				Return(int64(0), nil),
			mockRepo.EXPECT().
				GetForUpdateTx(gomock.Any(), gomock.Any(), gomock.Any()).
				Return(settled, nil),
		)

		res, err := svc.HandleReturn(testContext(), signedCallback(orderID, 150000, "00"))

		require.NoError(t, err)
		assert.Equal(t, orderID, res.OrderID)
		assert.Equal(t, string(model.StatusCompleted), res.Status)
	})

	t.Run("invalid signature maps to a bad request", func(t *testing.T) {
		svc, _, _ := newService(t)

		params := signedCallback(orderID, 150000, "00")
		params["vnp_SecureHash"] = "deadbeef"

		_, err := svc.HandleReturn(testContext(), params)

		assert.Error(t, err)
		assert.True(t, failure.HasCode(err, http.StatusBadRequest))
	})

	t.Run("unknown order maps to not found", func(t *testing.T) {
		svc, mockRepo, _ := newService(t)

		mockRepo.EXPECT().
			GetForUpdateTx(gomock.Any(), gomock.Any(), gomock.Any()).
			Return(model.Payment{}, nil)

		_, err := svc.HandleReturn(testContext(), signedCallback(orderID, 150000, "00"))

		assert.Error(t, err)
		assert.True(t, failure.HasCode(err, http.StatusNotFound))
	})
}

func TestPaymentService_Refund(t *testing.T) {
	const orderID = "ORDER-20250601-001"

	completed := initiatedPayment(orderID, 150000)
	completed.Status = model.StatusCompleted

	t.Run("successful refund", func(t *testing.T) {
		svc, mockRepo, mockGateway := newService(t)

		mockRepo.EXPECT().
			Get(gomock.Any(), gomock.Any()).
			Return(completed, nil)

		mockGateway.EXPECT().
			Refund(gomock.Any(), orderID, int64(150000), "pod unusable").
			Return(nil)

		mockRepo.EXPECT().
			UpdateCount(gomock.Any(), gomock.Any(), gomock.Any()).
			Return(int64(1), nil)

		err := svc.Refund(testContext(), dto.RefundRequest{OrderID: orderID, Amount: 150000, Reason: "pod unusable"})

		assert.NoError(t, err)
	})

	t.Run("only completed payments refund", func(t *testing.T) {
		svc, mockRepo, _ := newService(t)

		mockRepo.EXPECT().
			Get(gomock.Any(), gomock.Any()).
			Return(initiatedPayment(orderID, 150000), nil)

		err := svc.Refund(testContext(), dto.RefundRequest{OrderID: orderID, Amount: 150000})

		assert.Error(t, err)
		assert.True(t, failure.HasCode(err, http.StatusConflict))
	})

	t.Run("refund above the paid amount is refused", func(t *testing.T) {
		svc, mockRepo, _ := newService(t)

		mockRepo.EXPECT().
			Get(gomock.Any(), gomock.Any()).
			Return(completed, nil)

		err := svc.Refund(testContext(), dto.RefundRequest{OrderID: orderID, Amount: 200000})

		assert.Error(t, err)
		assert.True(t, failure.HasCode(err, http.StatusUnprocessableEntity))
	})

	t.Run("gateway rejection keeps the local state", func(t *testing.T) {
		svc, mockRepo, mockGateway := newService(t)

		mockRepo.EXPECT().
			Get(gomock.Any(), gomock.Any()).
			Return(completed, nil)

		mockGateway.EXPECT().
			Refund(gomock.Any(), orderID, int64(150000), gomock.Any()).
			Return(errors.New("gateway unavailable"))

		err := svc.Refund(testContext(), dto.RefundRequest{OrderID: orderID, Amount: 150000})

		assert.Error(t, err)
	})
}
