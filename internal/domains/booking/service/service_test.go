package service_test

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"go.uber.org/mock/gomock"

	"github.com/lphuocloc/Oasis-Go-BE/config"
	kafkaMocks "github.com/lphuocloc/Oasis-Go-BE/infras/kafka/mocks"
	"github.com/lphuocloc/Oasis-Go-BE/infras/otel/mocks"
	bookingMocks "github.com/lphuocloc/Oasis-Go-BE/internal/domains/booking/mocks"
	"github.com/lphuocloc/Oasis-Go-BE/internal/domains/booking/model"
	"github.com/lphuocloc/Oasis-Go-BE/internal/domains/booking/model/dto"
	"github.com/lphuocloc/Oasis-Go-BE/internal/domains/booking/service"
	podMocks "github.com/lphuocloc/Oasis-Go-BE/internal/domains/pod/mocks"
	podModel "github.com/lphuocloc/Oasis-Go-BE/internal/domains/pod/model"
	cacheMocks "github.com/lphuocloc/Oasis-Go-BE/shared/cache/mocks"
	"github.com/lphuocloc/Oasis-Go-BE/shared/constant"
	"github.com/lphuocloc/Oasis-Go-BE/shared/failure"
)

type fakeTransactor struct {
}

func (f *fakeTransactor) WithTransaction(_ context.Context, fn func(tx *sqlx.Tx) error) error {
	return fn(nil)
}

func testContext() context.Context {
	return context.WithValue(context.Background(), constant.ContextKeyUserID, "renter-1")
}

func TestBookingService_Create(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockRepo := bookingMocks.NewMockBooking(ctrl)
	mockPodRepo := podMocks.NewMockPod(ctrl)

	svc := service.New(mockRepo, mockPodRepo, &fakeTransactor{}, &config.Config{}, cacheMocks.NewNoop(), kafkaMocks.NewNoop(), mocks.NewOtel())

	availablePod := podModel.Pod{ID: "pod-1", Code: "A01L", Status: podModel.StatusAvailable}

	windowStart := time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC)
	windowEnd := windowStart.Add(2 * time.Hour)

	existing := model.Booking{
		ID:        "booking-0",
		PodID:     "pod-1",
		StartTime: windowStart,
		EndTime:   windowEnd,
		Status:    model.StatusBooked,
	}

	req := func(start, end time.Time) dto.CreateBookingRequest {
		return dto.CreateBookingRequest{
			PodID:     "pod-1",
			StartTime: start.Format(time.RFC3339),
			EndTime:   end.Format(time.RFC3339),
		}
	}

	tests := []struct {
		name      string
		req       dto.CreateBookingRequest
		setupMock func()
		wantErr   bool
		wantCode  int
	}{
		{
			name: "successful booking",
			req:  req(windowStart.Add(3*time.Hour), windowStart.Add(4*time.Hour)),
			setupMock: func() {
				mockPodRepo.EXPECT().
					GetForUpdateTx(gomock.Any(), gomock.Any(), gomock.Any()).
					Return(availablePod, nil)

				mockRepo.EXPECT().
					GetAllTx(gomock.Any(), gomock.Any(), gomock.Any()).
					Return(nil, nil)

				mockRepo.EXPECT().
					InsertTx(gomock.Any(), gomock.Any(), gomock.Any()).
					Return(nil)

				mockPodRepo.EXPECT().
					UpdateTxCount(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
					Return(int64(1), nil)
			},
			wantErr: false,
		},
		{
			name: "adjacent window is accepted",
			req:  req(windowEnd, windowEnd.Add(time.Hour)),
			setupMock: func() {
				mockPodRepo.EXPECT().
					GetForUpdateTx(gomock.Any(), gomock.Any(), gomock.Any()).
					Return(availablePod, nil)

				mockRepo.EXPECT().
					GetAllTx(gomock.Any(), gomock.Any(), gomock.Any()).
					Return([]model.Booking{existing}, nil)

				mockRepo.EXPECT().
					InsertTx(gomock.Any(), gomock.Any(), gomock.Any()).
					Return(nil)

				mockPodRepo.EXPECT().
					UpdateTxCount(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
					Return(int64(1), nil)
			},
			wantErr: false,
		},
		{
			name: "overlapping window is refused",
			req:  req(windowStart.Add(time.Hour), windowStart.Add(3*time.Hour)),
			setupMock: func() {
				mockPodRepo.EXPECT().
					GetForUpdateTx(gomock.Any(), gomock.Any(), gomock.Any()).
					Return(availablePod, nil)

				mockRepo.EXPECT().
					GetAllTx(gomock.Any(), gomock.Any(), gomock.Any()).
					Return([]model.Booking{existing}, nil)
			},
			wantErr:  true,
			wantCode: http.StatusConflict,
		},
		{
			name: "pod is not available",
			req:  req(windowStart, windowEnd),
			setupMock: func() {
				occupied := availablePod
				occupied.Status = podModel.StatusOccupied

				mockPodRepo.EXPECT().
					GetForUpdateTx(gomock.Any(), gomock.Any(), gomock.Any()).
					Return(occupied, nil)
			},
			wantErr:  true,
			wantCode: http.StatusConflict,
		},
		{
			name: "pod not found",
			req:  req(windowStart, windowEnd),
			setupMock: func() {
				mockPodRepo.EXPECT().
					GetForUpdateTx(gomock.Any(), gomock.Any(), gomock.Any()).
					Return(podModel.Pod{}, nil)
			},
			wantErr:  true,
			wantCode: http.StatusNotFound,
		},
		{
			name: "pod flipped concurrently",
			req:  req(windowStart, windowEnd),
			setupMock: func() {
				mockPodRepo.EXPECT().
					GetForUpdateTx(gomock.Any(), gomock.Any(), gomock.Any()).
					Return(availablePod, nil)

				mockRepo.EXPECT().
					GetAllTx(gomock.Any(), gomock.Any(), gomock.Any()).
					Return(nil, nil)

				mockRepo.EXPECT().
					InsertTx(gomock.Any(), gomock.Any(), gomock.Any()).
					Return(nil)

				mockPodRepo.EXPECT().
					UpdateTxCount(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
					Return(int64(0), nil)
			},
			wantErr:  true,
			wantCode: http.StatusConflict,
		},
		{
			name: "malformed timestamps",
			req: dto.CreateBookingRequest{
				PodID:     "pod-1",
				StartTime: "tomorrow",
				EndTime:   "later",
			},
			setupMock: func() {},
			wantErr:   true,
			wantCode:  http.StatusBadRequest,
		},
		{
			name:      "start after end",
			req:       req(windowEnd, windowStart),
			setupMock: func() {},
			wantErr:   true,
			wantCode:  http.StatusBadRequest,
		},
		{
			name:      "zero-length window",
			req:       req(windowStart, windowStart),
			setupMock: func() {},
			wantErr:   true,
			wantCode:  http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.setupMock()

			res, err := svc.Create(testContext(), tt.req)

			if tt.wantErr {
				assert.Error(t, err)

				if tt.wantCode != 0 {
					assert.True(t, failure.HasCode(err, tt.wantCode))
				}
			} else {
				assert.NoError(t, err)
				assert.Equal(t, "pod-1", res.PodID)
				assert.Equal(t, string(model.StatusBooked), res.Status)
			}
		})
	}
}

func TestBookingService_StartSession(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockRepo := bookingMocks.NewMockBooking(ctrl)
	mockPodRepo := podMocks.NewMockPod(ctrl)

	svc := service.New(mockRepo, mockPodRepo, &fakeTransactor{}, &config.Config{}, cacheMocks.NewNoop(), kafkaMocks.NewNoop(), mocks.NewOtel())

	tests := []struct {
		name      string
		setupMock func()
		wantErr   bool
		wantCode  int
	}{
		{
			name: "booked session starts",
			setupMock: func() {
				mockRepo.EXPECT().
					Get(gomock.Any(), gomock.Any()).
					Return(model.Booking{ID: "booking-1", PodID: "pod-1", Status: model.StatusBooked}, nil)

				mockRepo.EXPECT().
					UpdateCount(gomock.Any(), gomock.Any(), gomock.Any()).
					Return(int64(1), nil)
			},
			wantErr: false,
		},
		{
			name: "session already in use",
			setupMock: func() {
				mockRepo.EXPECT().
					Get(gomock.Any(), gomock.Any()).
					Return(model.Booking{ID: "booking-1", Status: model.StatusInUse}, nil)
			},
			wantErr:  true,
			wantCode: http.StatusConflict,
		},
		{
			name: "booking not found",
			setupMock: func() {
				mockRepo.EXPECT().
					Get(gomock.Any(), gomock.Any()).
					Return(model.Booking{}, nil)
			},
			wantErr:  true,
			wantCode: http.StatusNotFound,
		},
		{
			name: "concurrent flip",
			setupMock: func() {
				mockRepo.EXPECT().
					Get(gomock.Any(), gomock.Any()).
					Return(model.Booking{ID: "booking-1", Status: model.StatusBooked}, nil)

				mockRepo.EXPECT().
					UpdateCount(gomock.Any(), gomock.Any(), gomock.Any()).
					Return(int64(0), nil)
			},
			wantErr:  true,
			wantCode: http.StatusConflict,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.setupMock()

			err := svc.StartSession(testContext(), "booking-1")

			if tt.wantErr {
				assert.Error(t, err)

				if tt.wantCode != 0 {
					assert.True(t, failure.HasCode(err, tt.wantCode))
				}
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestBookingService_Complete(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockRepo := bookingMocks.NewMockBooking(ctrl)
	mockPodRepo := podMocks.NewMockPod(ctrl)

	svc := service.New(mockRepo, mockPodRepo, &fakeTransactor{}, &config.Config{}, cacheMocks.NewNoop(), kafkaMocks.NewNoop(), mocks.NewOtel())

	inUse := model.Booking{ID: "booking-1", PodID: "pod-1", Status: model.StatusInUse}

	tests := []struct {
		name      string
		setupMock func()
		wantErr   bool
		wantCode  int
	}{
		{
			name: "in-use session completes and queues cleaning",
			setupMock: func() {
				mockRepo.EXPECT().
					GetForUpdateTx(gomock.Any(), gomock.Any(), gomock.Any()).
					Return(inUse, nil)

				mockRepo.EXPECT().
					UpdateTxCount(gomock.Any(), gomock.Any(), matchField(model.FieldActualEndTime), gomock.Any()).
					Return(int64(1), nil)

				mockPodRepo.EXPECT().
					UpdateTxCount(gomock.Any(), gomock.Any(), matchFieldValue(podModel.FieldStatus, podModel.StatusNeedsCleaning), gomock.Any()).
					Return(int64(1), nil)
			},
			wantErr: false,
		},
		{
			name: "booked session cannot complete without starting",
			setupMock: func() {
				mockRepo.EXPECT().
					GetForUpdateTx(gomock.Any(), gomock.Any(), gomock.Any()).
					Return(model.Booking{ID: "booking-1", Status: model.StatusBooked}, nil)
			},
			wantErr:  true,
			wantCode: http.StatusConflict,
		},
		{
			name: "already completed",
			setupMock: func() {
				mockRepo.EXPECT().
					GetForUpdateTx(gomock.Any(), gomock.Any(), gomock.Any()).
					Return(model.Booking{ID: "booking-1", Status: model.StatusCompleted}, nil)
			},
			wantErr:  true,
			wantCode: http.StatusConflict,
		},
		{
			name: "pod no longer occupied",
			setupMock: func() {
				mockRepo.EXPECT().
					GetForUpdateTx(gomock.Any(), gomock.Any(), gomock.Any()).
					Return(inUse, nil)

				mockRepo.EXPECT().
					UpdateTxCount(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
					Return(int64(1), nil)

				mockPodRepo.EXPECT().
					UpdateTxCount(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
					Return(int64(0), nil)
			},
			wantErr:  true,
			wantCode: http.StatusConflict,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.setupMock()

			err := svc.Complete(testContext(), "booking-1")

			if tt.wantErr {
				assert.Error(t, err)

				if tt.wantCode != 0 {
					assert.True(t, failure.HasCode(err, tt.wantCode))
				}
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestBookingService_Cancel(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockRepo := bookingMocks.NewMockBooking(ctrl)
	mockPodRepo := podMocks.NewMockPod(ctrl)

	svc := service.New(mockRepo, mockPodRepo, &fakeTransactor{}, &config.Config{}, cacheMocks.NewNoop(), kafkaMocks.NewNoop(), mocks.NewOtel())

	tests := []struct {
		name      string
		setupMock func()
		wantErr   bool
		wantCode  int
	}{
		{
			name: "booked session cancels and frees the pod",
			setupMock: func() {
				mockRepo.EXPECT().
					GetForUpdateTx(gomock.Any(), gomock.Any(), gomock.Any()).
					Return(model.Booking{ID: "booking-1", PodID: "pod-1", Status: model.StatusBooked}, nil)

				mockRepo.EXPECT().
					UpdateTxCount(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
					Return(int64(1), nil)

				mockPodRepo.EXPECT().
					UpdateTxCount(gomock.Any(), gomock.Any(), matchFieldValue(podModel.FieldStatus, podModel.StatusAvailable), gomock.Any()).
					Return(int64(1), nil)
			},
			wantErr: false,
		},
		{
			name: "completed booking cannot be cancelled",
			setupMock: func() {
				mockRepo.EXPECT().
					GetForUpdateTx(gomock.Any(), gomock.Any(), gomock.Any()).
					Return(model.Booking{ID: "booking-1", Status: model.StatusCompleted}, nil)
			},
			wantErr:  true,
			wantCode: http.StatusConflict,
		},
		{
			name: "already cancelled",
			setupMock: func() {
				mockRepo.EXPECT().
					GetForUpdateTx(gomock.Any(), gomock.Any(), gomock.Any()).
					Return(model.Booking{ID: "booking-1", Status: model.StatusCancelled}, nil)
			},
			wantErr:  true,
			wantCode: http.StatusConflict,
		},
		{
			name: "booking not found",
			setupMock: func() {
				mockRepo.EXPECT().
					GetForUpdateTx(gomock.Any(), gomock.Any(), gomock.Any()).
					Return(model.Booking{}, nil)
			},
			wantErr:  true,
			wantCode: http.StatusNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.setupMock()

			err := svc.Cancel(testContext(), "booking-1")

			if tt.wantErr {
				assert.Error(t, err)

				if tt.wantCode != 0 {
					assert.True(t, failure.HasCode(err, tt.wantCode))
				}
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

// matchField matches any update map containing the given column.
func matchField(field string) gomock.Matcher {
	return gomock.Cond(func(x any) bool {
		fields, ok := x.(map[string]any)
		if !ok {
			return false
		}

		_, ok = fields[field]

		return ok
	})
}

// matchFieldValue matches an update map setting the given column to the
// given value.
func matchFieldValue(field string, want any) gomock.Matcher {
	return gomock.Cond(func(x any) bool {
		fields, ok := x.(map[string]any)
		if !ok {
			return false
		}

		return fields[field] == want
	})
}
