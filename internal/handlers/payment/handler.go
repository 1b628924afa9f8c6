package payment

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"

	"github.com/lphuocloc/Oasis-Go-BE/infras/otel"
	"github.com/lphuocloc/Oasis-Go-BE/internal/domains/payment/model"
	"github.com/lphuocloc/Oasis-Go-BE/internal/domains/payment/model/dto"
	"github.com/lphuocloc/Oasis-Go-BE/internal/domains/payment/service"
	"github.com/lphuocloc/Oasis-Go-BE/shared/constant"
	gDto "github.com/lphuocloc/Oasis-Go-BE/shared/dto"
	"github.com/lphuocloc/Oasis-Go-BE/shared/validator"
	"github.com/lphuocloc/Oasis-Go-BE/transport/http/response"
)

type Handler struct {
	service service.Payment
	otel    otel.Otel
}

func New(service service.Payment, otel otel.Otel) Handler {
	return Handler{
		service: service,
		otel:    otel,
	}
}

func (handler *Handler) Router(router chi.Router) {
	router.Route("/payments", func(routerGroup chi.Router) {
		routerGroup.Post("/", handler.CreatePaymentURL)
		routerGroup.Get("/", handler.GetPayments)
		routerGroup.Get("/vnpay-return", handler.VNPayReturn)
		routerGroup.Get("/vnpay-ipn", handler.VNPayIPN)
		routerGroup.Post("/refund", handler.Refund)
		routerGroup.Get("/{orderId}", handler.GetPaymentByOrderID)
	})
}

// CreatePaymentURL creates a payment and returns the gateway redirect URL.
// @Summary Create a payment URL
// @Description Record an INITIATED payment and build the signed VNPay redirect URL.
// @Tags Payment
// @Accept json
// @Produce json
// @Param request body dto.CreatePaymentURLRequest true "Create Payment Request"
// @Success 201 {object} response.Data[dto.CreatePaymentURLResponse] "Payment URL created"
// @Failure 400 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/payments [post]
// @Security BearerAuth
func (handler *Handler) CreatePaymentURL(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".CreatePaymentURL")
	defer scope.End()

	req := dto.CreatePaymentURLRequest{}

	if err := validator.Validate(r.Body, &req); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to validate request body")

		response.WithError(w, err)

		return
	}

	req.ClientIP = clientIP(r)

	payment, err := handler.service.CreatePaymentURL(ctx, req)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to create payment URL")

		response.WithError(w, err)

		return
	}

	scope.AddEvent("Payment URL created for order " + payment.OrderID)

	response.WithJSON(w, http.StatusCreated, payment)
}

// VNPayReturn handles the synchronous redirect back from the gateway.
// @Summary VNPay return callback
// @Description Verify and reconcile the redirect callback, then return the payment state.
// @Tags Payment
// @Produce json
// @Success 200 {object} response.Data[dto.PaymentResponse] "Payment state"
// @Failure 400 {object} response.Error
// @Failure 404 {object} response.Error
// @Router /v1/payments/vnpay-return [get]
func (handler *Handler) VNPayReturn(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".VNPayReturn")
	defer scope.End()

	payment, err := handler.service.HandleReturn(ctx, queryToParams(r))
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to handle payment return")

		response.WithError(w, err)

		return
	}

	scope.AddEvent("Payment return processed for order " + payment.OrderID)

	response.WithJSON(w, http.StatusOK, payment)
}

// VNPayIPN handles the asynchronous instant payment notification. The
// gateway retries until it receives RspCode "00", so this endpoint always
// answers HTTP 200 with the fixed {RspCode, Message} body and never the
// regular error envelope.
// @Summary VNPay IPN callback
// @Description Verify and reconcile the asynchronous gateway notification.
// @Tags Payment
// @Produce json
// @Success 200 {object} dto.IPNResponse "Acknowledgement"
// @Router /v1/payments/vnpay-ipn [get]
func (handler *Handler) VNPayIPN(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".VNPayIPN")
	defer scope.End()

	res := handler.service.HandleIPN(ctx, queryToParams(r))

	scope.AddEvent("Payment IPN processed with RspCode " + res.RspCode)

	w.Header().Set(constant.RequestHeaderContentType, constant.ContentTypeJSON)
	w.WriteHeader(http.StatusOK)

	if err := json.NewEncoder(w).Encode(res); err != nil {
		log.Error().Err(err).Msg("failed to write IPN response")
	}
}

// Refund originates a refund for a completed payment.
// @Summary Refund a payment
// @Description Refund a COMPLETED payment, bounded by the paid amount.
// @Tags Payment
// @Accept json
// @Produce json
// @Param request body dto.RefundRequest true "Refund Request"
// @Success 200 {object} response.Message "Refund recorded"
// @Failure 400 {object} response.Error
// @Failure 404 {object} response.Error
// @Failure 409 {object} response.Error
// @Failure 422 {object} response.Error
// @Router /v1/payments/refund [post]
// @Security BearerAuth
func (handler *Handler) Refund(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".Refund")
	defer scope.End()

	req := dto.RefundRequest{}

	if err := validator.Validate(r.Body, &req); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to validate request body")

		response.WithError(w, err)

		return
	}

	if err := handler.service.Refund(ctx, req); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to refund payment")

		response.WithError(w, err)

		return
	}

	scope.AddEvent("Refund recorded for order " + req.OrderID)

	response.WithMessage(w, http.StatusOK, "Refund recorded")
}

// GetPayments retrieves all payments based on query parameters.
// @Summary Get all payments
// @Description Retrieve all payments with optional filtering and pagination.
// @Tags Payment
// @Accept json
// @Produce json
// @Param pagination query gDto.QueryParams false "Pagination parameters"
// @Param status query string false "Filter by status"
// @Success 200 {object} response.Data[dto.GetPaymentsResponse] "List of payments"
// @Failure 500 {object} response.Error
// @Router /v1/payments [get]
// @Security BearerAuth
func (handler *Handler) GetPayments(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetPayments")
	defer scope.End()

	queryParams := gDto.QueryParams{}
	queryParams.FromRequest(r, true)

	status := r.URL.Query().Get(model.FieldStatus)

	filterGroup := gDto.FilterGroup{
		Operator: gDto.FilterGroupOperatorAnd,
		Filters:  []any{},
	}

	if status != "" {
		filterGroup.Filters = append(filterGroup.Filters, gDto.Filter{
			Field:    model.FieldStatus,
			Operator: gDto.FilterOperatorEq,
			Value:    status,
			Table:    model.TableName,
		})
	}

	payments, err := handler.service.GetAll(ctx, queryParams, filterGroup)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to get payments")

		response.WithError(w, err)

		return
	}

	scope.AddEvent("Payments retrieved successfully")

	response.WithJSON(w, http.StatusOK, payments)
}

// GetPaymentByOrderID retrieves a payment by its gateway-facing order id.
// @Summary Get a payment by order ID
// @Description Retrieve a payment by the order id used with the gateway.
// @Tags Payment
// @Produce json
// @Param orderId path string true "Order ID"
// @Success 200 {object} response.Data[dto.PaymentResponse] "Payment details"
// @Failure 404 {object} response.Error
// @Router /v1/payments/{orderId} [get]
// @Security BearerAuth
func (handler *Handler) GetPaymentByOrderID(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetPaymentByOrderID")
	defer scope.End()

	orderID := chi.URLParam(r, "orderId")

	payment, err := handler.service.Get(ctx, orderID)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to get payment by order ID")

		response.WithError(w, err)

		return
	}

	scope.AddEvent("Payment retrieved successfully")

	response.WithJSON(w, http.StatusOK, payment)
}

// queryToParams flattens the callback query string to the single-valued
// form the signature scheme is defined over.
func queryToParams(r *http.Request) map[string]string {
	params := make(map[string]string, len(r.URL.Query()))

	for key, values := range r.URL.Query() {
		if len(values) > 0 {
			params[key] = values[0]
		}
	}

	return params
}

func clientIP(r *http.Request) string {
	if xff := r.Header.Get(constant.RequestHeaderForwardedFor); xff != "" {
		return xff
	}

	if xri := r.Header.Get(constant.RequestHeaderRealIP); xri != "" {
		return xri
	}

	return r.RemoteAddr
}
