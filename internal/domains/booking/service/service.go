package service

import (
	"context"
	"fmt"
	"net/http"

	"github.com/jmoiron/sqlx"
	"github.com/rs/zerolog/log"

	"github.com/lphuocloc/Oasis-Go-BE/config"
	"github.com/lphuocloc/Oasis-Go-BE/infras/kafka"
	"github.com/lphuocloc/Oasis-Go-BE/infras/otel"
	"github.com/lphuocloc/Oasis-Go-BE/infras/postgres"
	"github.com/lphuocloc/Oasis-Go-BE/internal/domains/booking/model"
	"github.com/lphuocloc/Oasis-Go-BE/internal/domains/booking/model/dto"
	"github.com/lphuocloc/Oasis-Go-BE/internal/domains/booking/repository"
	podModel "github.com/lphuocloc/Oasis-Go-BE/internal/domains/pod/model"
	podRepo "github.com/lphuocloc/Oasis-Go-BE/internal/domains/pod/repository"
	"github.com/lphuocloc/Oasis-Go-BE/shared"
	"github.com/lphuocloc/Oasis-Go-BE/shared/cache"
	"github.com/lphuocloc/Oasis-Go-BE/shared/constant"
	gDto "github.com/lphuocloc/Oasis-Go-BE/shared/dto"
	"github.com/lphuocloc/Oasis-Go-BE/shared/failure"
	"github.com/lphuocloc/Oasis-Go-BE/shared/timezone"
)

const (
	cacheGetBooking    = "booking:get"
	cacheGetAllBooking = "booking:gets"

	eventBookingCreated   = "booking.created"
	eventBookingStarted   = "booking.started"
	eventBookingCompleted = "booking.completed"
	eventBookingCancelled = "booking.cancelled"
)

type bookingEvent struct {
	Type      string `json:"type"`
	BookingID string `json:"booking_id"`
	PodID     string `json:"pod_id"`
	Status    string `json:"status"`
}

type Booking interface {
	Create(ctx context.Context, req dto.CreateBookingRequest) (dto.BookingResponse, error)
	GetAll(ctx context.Context, req gDto.QueryParams, filter gDto.FilterGroup) (dto.GetBookingsResponse, error)
	Get(ctx context.Context, id string) (dto.BookingResponse, error)
	StartSession(ctx context.Context, id string) error
	Complete(ctx context.Context, id string) error
	Cancel(ctx context.Context, id string) error
}

type serviceImpl struct {
	repo       repository.Booking
	podRepo    podRepo.Pod
	transactor postgres.Transactor
	cfg        *config.Config
	cache      cache.RedisCache
	kafka      kafka.Client
	otel       otel.Otel
}

func New(repo repository.Booking, podRepo podRepo.Pod, transactor postgres.Transactor, cfg *config.Config, cache cache.RedisCache, kafka kafka.Client, otel otel.Otel) Booking {
	return &serviceImpl{
		repo:       repo,
		podRepo:    podRepo,
		transactor: transactor,
		cfg:        cfg,
		cache:      cache,
		kafka:      kafka,
		otel:       otel,
	}
}

// Create reserves a pod for a time window. The whole reservation runs in
// one transaction holding a row lock on the pod, so two requests racing for
// the same pod serialize: the second sees either the OCCUPIED status or the
// freshly inserted booking and is refused.
func (s *serviceImpl) Create(ctx context.Context, req dto.CreateBookingRequest) (res dto.BookingResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Create")
	defer scope.End()
	defer scope.TraceIfError(err)

	user, _ := ctx.Value(constant.ContextKeyUserID).(string)

	booking, err := req.ToModel(user)
	if err != nil {
		return res, failure.BadRequestFromString("start_time and end_time must be RFC3339 timestamps") // nolint:wrapcheck
	}

	if !booking.StartTime.Before(booking.EndTime) {
		return res, failure.BadRequestFromString("start_time must be before end_time") // nolint:wrapcheck
	}

	err = s.transactor.WithTransaction(ctx, func(tx *sqlx.Tx) error {
		pod, txErr := s.podRepo.GetForUpdateTx(ctx, tx, shared.FilterByID(booking.PodID, podModel.FieldID, podModel.TableName))
		if txErr != nil {
			return fmt.Errorf("failed to lock pod: %w", txErr)
		}

		if pod.ID == constant.Empty {
			return failure.NotFound("pod not found") // nolint:wrapcheck
		}

		if pod.Status != podModel.StatusAvailable {
			return failure.Conflict(fmt.Sprintf("pod %s is %s and cannot be booked", pod.Code, pod.Status)) // nolint:wrapcheck
		}

		active, txErr := s.repo.GetAllTx(ctx, tx, filterActiveByPod(booking.PodID))
		if txErr != nil {
			return fmt.Errorf("failed to load active bookings: %w", txErr)
		}

		for i := range active {
			if active[i].Overlaps(booking.StartTime, booking.EndTime) {
				return failure.Conflict(fmt.Sprintf(
					"time slot conflicts with an existing booking from %s to %s",
					timezone.Format(active[i].StartTime, constant.DateFormat),
					timezone.Format(active[i].EndTime, constant.DateFormat),
				)) // nolint:wrapcheck
			}
		}

		if txErr = s.repo.InsertTx(ctx, tx, booking); txErr != nil {
			return fmt.Errorf("failed to insert booking: %w", txErr)
		}

		affected, txErr := s.podRepo.UpdateTxCount(ctx, tx, map[string]any{
			podModel.FieldStatus:     podModel.StatusOccupied,
			constant.FieldModifiedAt: timezone.Now(),
			constant.FieldModifiedBy: user,
		}, filterPodByIDAndStatus(booking.PodID, podModel.StatusAvailable))
		if txErr != nil {
			return fmt.Errorf("failed to occupy pod: %w", txErr)
		}

		if affected == 0 {
			return failure.Conflict(fmt.Sprintf("pod %s was modified concurrently, no longer AVAILABLE", pod.Code)) // nolint:wrapcheck
		}

		return nil
	})
	if err != nil {
		if failure.GetCode(err) == http.StatusInternalServerError {
			log.Error().Err(err).Msg("failed to create booking")
		}

		return res, err // nolint:wrapcheck
	}

	s.invalidateBookingCaches(ctx, booking.ID)
	s.publishEvent(ctx, eventBookingCreated, booking)

	res.FromModel(booking)

	return res, nil
}

func (s *serviceImpl) GetAll(ctx context.Context, req gDto.QueryParams, filter gDto.FilterGroup) (res dto.GetBookingsResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".GetAll")
	defer scope.End()
	defer scope.TraceIfError(err)

	cacheKey := shared.BuildCacheKeyWithQuery(cacheGetAllBooking, req, filter)

	err = s.cache.Get(ctx, cacheKey, &res)
	if err == nil {
		log.Info().Str("cacheKey", cacheKey).Msg("cache hit for bookings")

		return res, nil
	}

	total, err := s.repo.Count(ctx, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to count bookings")

		return res, fmt.Errorf("failed to count bookings: %w", err)
	}

	models, err := s.repo.GetAll(ctx, req, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to get bookings")

		return res, fmt.Errorf("failed to get bookings: %w", err)
	}

	res.FromModels(models, total, req.Limit)

	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Save(c, cacheKey, res, s.cfg.Cache.TTL); err != nil {
			log.Error().Err(err).Msg("failed to save bookings to cache")
		}
	}()

	return res, nil
}

func (s *serviceImpl) Get(ctx context.Context, id string) (res dto.BookingResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Get")
	defer scope.End()
	defer scope.TraceIfError(err)

	cacheKey := shared.BuildCacheKey(cacheGetBooking, id)

	err = s.cache.Get(ctx, cacheKey, &res)
	if err == nil {
		log.Info().Str("cacheKey", cacheKey).Msg("cache hit for booking")

		return res, nil
	}

	booking, err := s.loadBooking(ctx, id)
	if err != nil {
		return res, err
	}

	res.FromModel(booking)

	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Save(c, cacheKey, res, s.cfg.Cache.TTL); err != nil {
			log.Error().Err(err).Msg("failed to save booking to cache")
		}
	}()

	return res, nil
}

// StartSession moves a booking from BOOKED to IN_USE when the renter
// checks in. The pod stays OCCUPIED throughout.
func (s *serviceImpl) StartSession(ctx context.Context, id string) (err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".StartSession")
	defer scope.End()
	defer scope.TraceIfError(err)

	user, _ := ctx.Value(constant.ContextKeyUserID).(string)

	booking, err := s.loadBooking(ctx, id)
	if err != nil {
		return err
	}

	if booking.Status != model.StatusBooked {
		return failure.Conflict(fmt.Sprintf("booking is %s, only BOOKED sessions can start", booking.Status)) // nolint:wrapcheck
	}

	affected, err := s.repo.UpdateCount(ctx, map[string]any{
		model.FieldStatus:        model.StatusInUse,
		constant.FieldModifiedAt: timezone.Now(),
		constant.FieldModifiedBy: user,
	}, filterByIDAndStatus(id, model.StatusBooked))
	if err != nil {
		log.Error().Err(err).Msg("failed to start booking session")

		return fmt.Errorf("failed to start booking session: %w", err)
	}

	if affected == 0 {
		return failure.Conflict("booking was modified concurrently, no longer BOOKED") // nolint:wrapcheck
	}

	booking.Status = model.StatusInUse

	s.invalidateBookingCaches(ctx, id)
	s.publishEvent(ctx, eventBookingStarted, booking)

	return nil
}

// Complete finishes a session: the booking goes COMPLETED with the actual
// end stamped, and the pod is sent to NEEDS_CLEANING for turnover.
func (s *serviceImpl) Complete(ctx context.Context, id string) (err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Complete")
	defer scope.End()
	defer scope.TraceIfError(err)

	return s.finish(ctx, id, model.StatusCompleted, podModel.StatusNeedsCleaning, eventBookingCompleted)
}

// Cancel voids a booking before it completes and hands the pod back to
// AVAILABLE. Completed bookings cannot be cancelled.
func (s *serviceImpl) Cancel(ctx context.Context, id string) (err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Cancel")
	defer scope.End()
	defer scope.TraceIfError(err)

	return s.finish(ctx, id, model.StatusCancelled, podModel.StatusAvailable, eventBookingCancelled)
}

// finish closes out an active booking and releases its pod in a single
// transaction. Both status flips are guarded by their prior state so a
// concurrent actor surfaces as a conflict, never a double-apply.
func (s *serviceImpl) finish(ctx context.Context, id string, target model.Status, podTarget podModel.Status, event string) error {
	user, _ := ctx.Value(constant.ContextKeyUserID).(string)

	var booking model.Booking

	err := s.transactor.WithTransaction(ctx, func(tx *sqlx.Tx) error {
		var txErr error

		booking, txErr = s.repo.GetForUpdateTx(ctx, tx, shared.FilterByID(id, model.FieldID, model.TableName))
		if txErr != nil {
			return fmt.Errorf("failed to lock booking: %w", txErr)
		}

		if booking.ID == constant.Empty {
			return failure.NotFound("booking not found") // nolint:wrapcheck
		}

		if booking.Status == model.StatusCompleted {
			return failure.Conflict("booking is already COMPLETED") // nolint:wrapcheck
		}

		if booking.Status == model.StatusCancelled {
			return failure.Conflict("booking is already CANCELLED") // nolint:wrapcheck
		}

		if target == model.StatusCompleted && booking.Status != model.StatusInUse {
			return failure.Conflict(fmt.Sprintf("booking is %s, only IN_USE sessions can complete", booking.Status)) // nolint:wrapcheck
		}

		fields := map[string]any{
			model.FieldStatus:        target,
			constant.FieldModifiedAt: timezone.Now(),
			constant.FieldModifiedBy: user,
		}

		if target == model.StatusCompleted {
			fields[model.FieldActualEndTime] = timezone.Now()
		}

		affected, txErr := s.repo.UpdateTxCount(ctx, tx, fields, filterByIDAndStatus(id, booking.Status))
		if txErr != nil {
			return fmt.Errorf("failed to update booking status: %w", txErr)
		}

		if affected == 0 {
			return failure.Conflict("booking was modified concurrently") // nolint:wrapcheck
		}

		affected, txErr = s.podRepo.UpdateTxCount(ctx, tx, map[string]any{
			podModel.FieldStatus:     podTarget,
			constant.FieldModifiedAt: timezone.Now(),
			constant.FieldModifiedBy: user,
		}, filterPodByIDAndStatus(booking.PodID, podModel.StatusOccupied))
		if txErr != nil {
			return fmt.Errorf("failed to release pod: %w", txErr)
		}

		if affected == 0 {
			return failure.Conflict("pod is no longer OCCUPIED, release it manually") // nolint:wrapcheck
		}

		return nil
	})
	if err != nil {
		if failure.GetCode(err) == http.StatusInternalServerError {
			log.Error().Err(err).Msg("failed to finish booking")
		}

		return err // nolint:wrapcheck
	}

	booking.Status = target

	s.invalidateBookingCaches(ctx, id)
	s.publishEvent(ctx, event, booking)

	return nil
}

func (s *serviceImpl) loadBooking(ctx context.Context, id string) (model.Booking, error) {
	booking, err := s.repo.Get(ctx, shared.FilterByID(id, model.FieldID, model.TableName))
	if err != nil {
		log.Error().Err(err).Msg("failed to get booking")

		return booking, fmt.Errorf("failed to get booking: %w", err)
	}

	if booking.ID == constant.Empty {
		return booking, failure.NotFound("booking not found") // nolint:wrapcheck
	}

	return booking, nil
}

// publishEvent ships a lifecycle event after the database work committed.
// Delivery is best effort: a broker outage never fails the request.
func (s *serviceImpl) publishEvent(ctx context.Context, event string, booking model.Booking) {
	go func() {
		c := context.WithoutCancel(ctx)

		err := s.kafka.SendMessages(c, s.cfg.Kafka.Topics.BookingEvents, kafka.Message{
			Key: booking.ID,
			Value: bookingEvent{
				Type:      event,
				BookingID: booking.ID,
				PodID:     booking.PodID,
				Status:    string(booking.Status),
			},
		})
		if err != nil {
			log.Error().Err(err).Str("event", event).Msg("failed to publish booking event")
		}
	}()
}

func (s *serviceImpl) invalidateBookingCaches(ctx context.Context, id string) {
	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Delete(c, shared.BuildCacheKey(cacheGetBooking, id)); err != nil {
			log.Error().Err(err).Msg("failed to delete booking from cache")
		}

		shared.InvalidateCaches(c, s.cache, cacheGetAllBooking)
	}()
}

func filterActiveByPod(podID string) gDto.FilterGroup {
	return gDto.FilterGroup{
		Operator: gDto.FilterGroupOperatorAnd,
		Filters: []any{
			gDto.Filter{
				Field:    model.FieldPodID,
				Value:    podID,
				Operator: gDto.FilterOperatorEq,
				Table:    model.TableName,
			},
			gDto.Filter{
				Field:    model.FieldStatus,
				Value:    model.ActiveStatuses,
				Operator: gDto.FilterOperatorIn,
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

func filterPodByIDAndStatus(id string, status podModel.Status) gDto.FilterGroup {
	return gDto.FilterGroup{
		Operator: gDto.FilterGroupOperatorAnd,
		Filters: []any{
			gDto.Filter{
				Field:    podModel.FieldID,
				Value:    id,
				Operator: gDto.FilterOperatorEq,
				Table:    podModel.TableName,
			},
			gDto.Filter{
				Field:    podModel.FieldStatus,
				Value:    status,
				Operator: gDto.FilterOperatorEq,
				Table:    podModel.TableName,
			},
		},
	}
}
