package service

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/rs/zerolog/log"

	"github.com/lphuocloc/Oasis-Go-BE/config"
	"github.com/lphuocloc/Oasis-Go-BE/infras/kafka"
	"github.com/lphuocloc/Oasis-Go-BE/infras/otel"
	"github.com/lphuocloc/Oasis-Go-BE/infras/postgres"
	"github.com/lphuocloc/Oasis-Go-BE/internal/domains/payment/model"
	"github.com/lphuocloc/Oasis-Go-BE/internal/domains/payment/model/dto"
	"github.com/lphuocloc/Oasis-Go-BE/internal/domains/payment/repository"
	"github.com/lphuocloc/Oasis-Go-BE/shared/constant"
	gDto "github.com/lphuocloc/Oasis-Go-BE/shared/dto"
	"github.com/lphuocloc/Oasis-Go-BE/shared/failure"
	gModel "github.com/lphuocloc/Oasis-Go-BE/shared/model"
	"github.com/lphuocloc/Oasis-Go-BE/shared/signature"
	"github.com/lphuocloc/Oasis-Go-BE/shared/timezone"
)

const (
	paramAmount         = "vnp_Amount"
	paramBankCode       = "vnp_BankCode"
	paramCommand        = "vnp_Command"
	paramCreateDate     = "vnp_CreateDate"
	paramCurrCode       = "vnp_CurrCode"
	paramExpireDate     = "vnp_ExpireDate"
	paramIPAddr         = "vnp_IpAddr"
	paramLocale         = "vnp_Locale"
	paramOrderInfo      = "vnp_OrderInfo"
	paramOrderType      = "vnp_OrderType"
	paramPayDate        = "vnp_PayDate"
	paramResponseCode   = "vnp_ResponseCode"
	paramReturnURL      = "vnp_ReturnUrl"
	paramSecureHash     = "vnp_SecureHash"
	paramSecureHashType = "vnp_SecureHashType"
	paramTmnCode        = "vnp_TmnCode"
	paramTransactionNo  = "vnp_TransactionNo"
	paramTxnRef         = "vnp_TxnRef"
	paramVersion        = "vnp_Version"

	protocolVersion    = "2.1.0"
	commandPay         = "pay"
	currencyCode       = "VND"
	defaultLocale      = "vn"
	defaultOrderType   = "other"
	gatewaySuccessCode = "00"

	eventPaymentSettled = "payment.settled"
)

type paymentEvent struct {
	Type      string `json:"type"`
	PaymentID string `json:"payment_id"`
	OrderID   string `json:"order_id"`
	BookingID string `json:"booking_id"`
	Amount    int64  `json:"amount"`
	Status    string `json:"status"`
}

type Payment interface {
	CreatePaymentURL(ctx context.Context, req dto.CreatePaymentURLRequest) (dto.CreatePaymentURLResponse, error)
	HandleIPN(ctx context.Context, params map[string]string) dto.IPNResponse
	HandleReturn(ctx context.Context, params map[string]string) (dto.PaymentResponse, error)
	Refund(ctx context.Context, req dto.RefundRequest) error
	Get(ctx context.Context, orderID string) (dto.PaymentResponse, error)
	GetAll(ctx context.Context, req gDto.QueryParams, filter gDto.FilterGroup) (dto.GetPaymentsResponse, error)
}

type serviceImpl struct {
	repo       repository.Payment
	transactor postgres.Transactor
	gateway    Gateway
	cfg        *config.Config
	kafka      kafka.Client
	otel       otel.Otel
}

func New(repo repository.Payment, transactor postgres.Transactor, gateway Gateway, cfg *config.Config, kafka kafka.Client, otel otel.Otel) Payment {
	return &serviceImpl{
		repo:       repo,
		transactor: transactor,
		gateway:    gateway,
		cfg:        cfg,
		kafka:      kafka,
		otel:       otel,
	}
}

// gatewayLocation is the fixed UTC+7 offset every gateway timestamp and
// order-id date uses, regardless of the application timezone.
var gatewayLocation = time.FixedZone(constant.GatewayTimezoneName, constant.GatewayTimezoneOffset)

// CreatePaymentURL records an INITIATED payment and builds the signed
// redirect URL for the gateway's hosted payment page.
func (s *serviceImpl) CreatePaymentURL(ctx context.Context, req dto.CreatePaymentURLRequest) (res dto.CreatePaymentURLResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".CreatePaymentURL")
	defer scope.End()
	defer scope.TraceIfError(err)

	user, _ := ctx.Value(constant.ContextKeyUserID).(string)

	now := time.Now().In(gatewayLocation)

	bookingID := req.BookingID
	if bookingID == constant.Empty {
		// Payments may be initiated before a booking exists; the
		// placeholder keeps the column non-null and greppable.
		bookingID = fmt.Sprintf("PENDING-%d", now.Unix())
	}

	payment := model.Payment{
		ID:        uuid.NewString(),
		BookingID: bookingID,
		Amount:    req.Amount,
		Method:    model.MethodVNPay,
		Status:    model.StatusInitiated,
		Metadata: gModel.Metadata{
			CreatedAt:  timezone.Now(),
			ModifiedAt: timezone.Now(),
			CreatedBy:  user,
			ModifiedBy: user,
		},
	}

	err = s.transactor.WithTransaction(ctx, func(tx *sqlx.Tx) error {
		orderID, txErr := s.nextOrderID(ctx, tx, now)
		if txErr != nil {
			// Sequence scan failed; fall back to a timestamp id so the
			// payment flow survives at the cost of readability.
			log.Warn().Err(txErr).Msg("order id generation failed, falling back to timestamp id")

			orderID = fmt.Sprintf("%s-%d", constant.OrderIDPrefix, now.UnixNano())
		}

		payment.OrderID = orderID

		return s.repo.InsertTx(ctx, tx, payment)
	})
	if err != nil {
		log.Error().Err(err).Msg("failed to create payment")

		return res, fmt.Errorf("failed to create payment: %w", err)
	}

	res.PaymentID = payment.ID
	res.OrderID = payment.OrderID
	res.PaymentURL = s.buildPaymentURL(payment, req, now)

	return res, nil
}

// nextOrderID scans today's highest sequence under the row lock and
// increments it. The date prefix is computed in the gateway's UTC+7 day,
// so the sequence resets exactly when the gateway's calendar rolls over.
func (s *serviceImpl) nextOrderID(ctx context.Context, tx *sqlx.Tx, now time.Time) (string, error) {
	prefix := fmt.Sprintf("%s-%s-", constant.OrderIDPrefix, now.Format(constant.OrderIDDateFormat))

	last, err := s.repo.LastOrderIDTx(ctx, tx, prefix+"%")
	if err != nil {
		return "", err
	}

	seq := 1

	if last != constant.Empty {
		n, convErr := strconv.Atoi(last[len(prefix):])
		if convErr != nil {
			return "", fmt.Errorf("malformed order id %q: %w", last, convErr)
		}

		seq = n + 1
	}

	// A sequence wider than the fixed suffix would sort behind the existing
	// maximum and re-issue the same id forever.
	limit := 1
	for range constant.OrderIDSeqDigits {
		limit *= 10
	}

	if seq >= limit {
		return "", fmt.Errorf("order id sequence for %s exhausted at %d", prefix, seq-1)
	}

	return fmt.Sprintf("%s%0*d", prefix, constant.OrderIDSeqDigits, seq), nil
}

func (s *serviceImpl) buildPaymentURL(payment model.Payment, req dto.CreatePaymentURLRequest, now time.Time) string {
	vnpay := s.cfg.Payment.VNPay

	locale := req.Locale
	if locale == constant.Empty {
		locale = defaultLocale
	}

	orderInfo := req.OrderInfo
	if orderInfo == constant.Empty {
		orderInfo = "Payment for order " + payment.OrderID
	}

	expire := now.Add(time.Duration(vnpay.ExpireMinutes) * time.Minute)

	params := map[string]string{
		paramVersion:    protocolVersion,
		paramCommand:    commandPay,
		paramTmnCode:    vnpay.TmnCode,
		paramLocale:     locale,
		paramCurrCode:   currencyCode,
		paramTxnRef:     payment.OrderID,
		paramOrderInfo:  orderInfo,
		paramOrderType:  defaultOrderType,
		paramAmount:     strconv.FormatInt(payment.Amount*constant.GatewayAmountMultiplier, 10),
		paramReturnURL:  vnpay.ReturnURL,
		paramIPAddr:     req.ClientIP,
		paramCreateDate: now.Format(constant.GatewayTimeFormat),
		paramExpireDate: expire.Format(constant.GatewayTimeFormat),
	}

	if req.BankCode != constant.Empty {
		params[paramBankCode] = req.BankCode
	}

	query := signature.BuildQuery(params)
	hash := signature.Sign(query, vnpay.HashSecret)

	return vnpay.PayURL + "?" + query + "&" + paramSecureHash + "=" + hash
}

// HandleIPN processes the gateway's asynchronous notification. It never
// returns an error: every outcome, including internal faults, maps to the
// fixed RspCode vocabulary so the gateway is always acknowledged.
func (s *serviceImpl) HandleIPN(ctx context.Context, params map[string]string) dto.IPNResponse {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".HandleIPN")
	defer scope.End()

	_, res := s.reconcile(ctx, params)

	return res
}

// HandleReturn processes the synchronous redirect from the gateway. It
// shares the reconciliation path with the IPN so whichever callback lands
// first settles the payment; the renter gets the payment state back.
func (s *serviceImpl) HandleReturn(ctx context.Context, params map[string]string) (res dto.PaymentResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".HandleReturn")
	defer scope.End()
	defer scope.TraceIfError(err)

	payment, outcome := s.reconcile(ctx, params)

	switch outcome.RspCode {
	case constant.IPNCodeSuccess, constant.IPNCodeAlreadyConfirmed:
		res.FromModel(payment)

		return res, nil
	case constant.IPNCodeOrderNotFound:
		return res, failure.NotFound("payment not found") // nolint:wrapcheck
	case constant.IPNCodeInvalidSignature:
		return res, failure.BadRequestFromString("invalid signature") // nolint:wrapcheck
	case constant.IPNCodeAmountMismatch:
		return res, failure.BadRequestFromString("amount mismatch") // nolint:wrapcheck
	default:
		return res, failure.InternalError(fmt.Errorf("payment reconciliation failed: %s", outcome.Message)) // nolint:wrapcheck
	}
}

// reconcile applies one gateway callback to the local payment record.
// Signature verification is pure computation and happens before any I/O;
// everything stateful runs in a single transaction holding a row lock on
// the payment, so duplicate deliveries serialize and the terminal-state
// short-circuit runs after the lock.
func (s *serviceImpl) reconcile(ctx context.Context, params map[string]string) (model.Payment, dto.IPNResponse) {
	inbound := params[paramSecureHash]

	// The gateway signs every parameter except the hash fields themselves.
	signed := make(map[string]string, len(params))

	for key, value := range params {
		if key == paramSecureHash || key == paramSecureHashType {
			continue
		}

		signed[key] = value
	}

	if !signature.Verify(signed, s.cfg.Payment.VNPay.HashSecret, inbound) {
		log.Warn().Str("orderID", params[paramTxnRef]).Msg("payment callback signature mismatch")

		return model.Payment{}, dto.IPNResponse{RspCode: constant.IPNCodeInvalidSignature, Message: "Invalid signature"}
	}

	orderID := params[paramTxnRef]

	var (
		payment model.Payment
		res     dto.IPNResponse
		settled bool
	)

	err := s.transactor.WithTransaction(ctx, func(tx *sqlx.Tx) error {
		var txErr error

		payment, txErr = s.repo.GetForUpdateTx(ctx, tx, filterByOrderID(orderID))
		if txErr != nil {
			return fmt.Errorf("failed to lock payment: %w", txErr)
		}

		if payment.ID == constant.Empty {
			res = dto.IPNResponse{RspCode: constant.IPNCodeOrderNotFound, Message: "Order not found"}

			return nil
		}

		callbackAmount, convErr := strconv.ParseInt(params[paramAmount], 10, 64)
		if convErr != nil || callbackAmount != payment.Amount*constant.GatewayAmountMultiplier {
			res = dto.IPNResponse{RspCode: constant.IPNCodeAmountMismatch, Message: "Invalid amount"}

			return nil
		}

		success := params[paramResponseCode] == gatewaySuccessCode

		if payment.IsTerminal() {
			// At-least-once delivery: the gateway re-sends until it gets
			// "00". A duplicate of the settled success is acknowledged as
			// success; anything else is refused as already confirmed.
			if payment.Status == model.StatusCompleted && success {
				res = dto.IPNResponse{RspCode: constant.IPNCodeSuccess, Message: "Order already confirmed"}
			} else {
				res = dto.IPNResponse{RspCode: constant.IPNCodeAlreadyConfirmed, Message: "Order already confirmed"}
			}

			return nil
		}

		target := model.StatusFailed
		fields := map[string]any{
			model.FieldResponseCode:  params[paramResponseCode],
			model.FieldRawSignature:  inbound,
			constant.FieldModifiedAt: timezone.Now(),
		}

		if success {
			target = model.StatusCompleted
			fields[model.FieldTransactionNo] = params[paramTransactionNo]
			fields[model.FieldBankCode] = params[paramBankCode]
			fields[model.FieldPayDate] = params[paramPayDate]
			fields[model.FieldAuthorizedAt] = timezone.Now()
		}

		fields[model.FieldStatus] = target

		affected, txErr := s.repo.UpdateTxCount(ctx, tx, fields, filterByIDAndStatus(payment.ID, model.StatusInitiated))
		if txErr != nil {
			return fmt.Errorf("failed to update payment status: %w", txErr)
		}

		if affected == 0 {
			// Lost the race to another callback. Reload so the caller sees
			// the terminal record, not the stale pre-update snapshot.
			payment, txErr = s.repo.GetForUpdateTx(ctx, tx, filterByOrderID(orderID))
			if txErr != nil {
				return fmt.Errorf("failed to reload payment: %w", txErr)
			}

			res = dto.IPNResponse{RspCode: constant.IPNCodeAlreadyConfirmed, Message: "Order already confirmed"}

			return nil
		}

		payment.Status = target
		settled = success
		res = dto.IPNResponse{RspCode: constant.IPNCodeSuccess, Message: "Confirm success"}

		return nil
	})
	if err != nil {
		log.Error().Err(err).Str("orderID", orderID).Msg("payment reconciliation failed")

		return payment, dto.IPNResponse{RspCode: constant.IPNCodeUnknownError, Message: "Unknown error"}
	}

	if settled {
		s.publishSettled(ctx, payment)
	}

	return payment, res
}

// Refund originates a refund for a settled payment. The upstream call goes
// through the Gateway boundary; the local record moves to REFUNDED only
// after the gateway accepts.
func (s *serviceImpl) Refund(ctx context.Context, req dto.RefundRequest) (err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Refund")
	defer scope.End()
	defer scope.TraceIfError(err)

	user, _ := ctx.Value(constant.ContextKeyUserID).(string)

	payment, err := s.loadPayment(ctx, req.OrderID)
	if err != nil {
		return err
	}

	if payment.Status != model.StatusCompleted {
		return failure.Conflict(fmt.Sprintf("payment is %s, only COMPLETED payments can be refunded", payment.Status)) // nolint:wrapcheck
	}

	if req.Amount > payment.Amount {
		return failure.UnprocessableEntity(fmt.Sprintf("refund amount %d exceeds the paid amount %d", req.Amount, payment.Amount)) // nolint:wrapcheck
	}

	if err = s.gateway.Refund(ctx, req.OrderID, req.Amount, req.Reason); err != nil {
		log.Error().Err(err).Str("orderID", req.OrderID).Msg("gateway refund failed")

		return fmt.Errorf("gateway refund failed: %w", err)
	}

	affected, err := s.repo.UpdateCount(ctx, map[string]any{
		model.FieldStatus:        model.StatusRefunded,
		constant.FieldModifiedAt: timezone.Now(),
		constant.FieldModifiedBy: user,
	}, filterByIDAndStatus(payment.ID, model.StatusCompleted))
	if err != nil {
		log.Error().Err(err).Msg("failed to mark payment refunded")

		return fmt.Errorf("failed to mark payment refunded: %w", err)
	}

	if affected == 0 {
		return failure.Conflict("payment was modified concurrently, no longer COMPLETED") // nolint:wrapcheck
	}

	return nil
}

func (s *serviceImpl) Get(ctx context.Context, orderID string) (res dto.PaymentResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Get")
	defer scope.End()
	defer scope.TraceIfError(err)

	payment, err := s.loadPayment(ctx, orderID)
	if err != nil {
		return res, err
	}

	res.FromModel(payment)

	return res, nil
}

func (s *serviceImpl) GetAll(ctx context.Context, req gDto.QueryParams, filter gDto.FilterGroup) (res dto.GetPaymentsResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".GetAll")
	defer scope.End()
	defer scope.TraceIfError(err)

	total, err := s.repo.Count(ctx, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to count payments")

		return res, fmt.Errorf("failed to count payments: %w", err)
	}

	models, err := s.repo.GetAll(ctx, req, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to get payments")

		return res, fmt.Errorf("failed to get payments: %w", err)
	}

	res.FromModels(models, total, req.Limit)

	return res, nil
}

func (s *serviceImpl) loadPayment(ctx context.Context, orderID string) (model.Payment, error) {
	payment, err := s.repo.Get(ctx, filterByOrderID(orderID))
	if err != nil {
		log.Error().Err(err).Msg("failed to get payment")

		return payment, fmt.Errorf("failed to get payment: %w", err)
	}

	if payment.ID == constant.Empty {
		return payment, failure.NotFound("payment not found") // nolint:wrapcheck
	}

	return payment, nil
}

// publishSettled fires exactly once, on the INITIATED→COMPLETED transition.
// Duplicate IPNs short-circuit before reaching here.
func (s *serviceImpl) publishSettled(ctx context.Context, payment model.Payment) {
	go func() {
		c := context.WithoutCancel(ctx)

		err := s.kafka.SendMessages(c, s.cfg.Kafka.Topics.PaymentEvents, kafka.Message{
			Key: payment.OrderID,
			Value: paymentEvent{
				Type:      eventPaymentSettled,
				PaymentID: payment.ID,
				OrderID:   payment.OrderID,
				BookingID: payment.BookingID,
				Amount:    payment.Amount,
				Status:    string(payment.Status),
			},
		})
		if err != nil {
			log.Error().Err(err).Str("orderID", payment.OrderID).Msg("failed to publish payment settled event")
		}
	}()
}

func filterByOrderID(orderID string) gDto.FilterGroup {
	return gDto.FilterGroup{
		Operator: gDto.FilterGroupOperatorAnd,
		Filters: []any{
			gDto.Filter{
				Field:    model.FieldOrderID,
				Value:    orderID,
				Operator: gDto.FilterOperatorEq,
				Table:    model.TableName,
			},
		},
	}
}

func filterByIDAndStatus(id string, status model.Status) gDto.FilterGroup {
	return gDto.FilterGroup{
		Operator: gDto.FilterGroupOperatorAnd,
		Filters: []any{
			gDto.Filter{
				Field:    model.FieldID,
				Value:    id,
				Operator: gDto.FilterOperatorEq,
				Table:    model.TableName,
			},
			gDto.Filter{
				Field:    model.FieldStatus,
				Value:    status,
				Operator: gDto.FilterOperatorEq,
				Table:    model.TableName,
			},
		},
	}
}
