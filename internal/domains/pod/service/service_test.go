package service_test

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"go.uber.org/mock/gomock"

	"github.com/lphuocloc/Oasis-Go-BE/config"
	"github.com/lphuocloc/Oasis-Go-BE/infras/otel/mocks"
	clusterMocks "github.com/lphuocloc/Oasis-Go-BE/internal/domains/cluster/mocks"
	podMocks "github.com/lphuocloc/Oasis-Go-BE/internal/domains/pod/mocks"
	"github.com/lphuocloc/Oasis-Go-BE/internal/domains/pod/model"
	"github.com/lphuocloc/Oasis-Go-BE/internal/domains/pod/model/dto"
	"github.com/lphuocloc/Oasis-Go-BE/internal/domains/pod/service"
	cacheMocks "github.com/lphuocloc/Oasis-Go-BE/shared/cache/mocks"
	"github.com/lphuocloc/Oasis-Go-BE/shared/constant"
	"github.com/lphuocloc/Oasis-Go-BE/shared/failure"
	gModel "github.com/lphuocloc/Oasis-Go-BE/shared/model"
	"github.com/lphuocloc/Oasis-Go-BE/shared/timezone"
)

type fakeTransactor struct {
}

func (f *fakeTransactor) WithTransaction(_ context.Context, fn func(tx *sqlx.Tx) error) error {
	return fn(nil)
}

func testConfig() *config.Config {
	cfg := &config.Config{}
	cfg.Pod.Grid.MaxRows = 26
	cfg.Pod.Grid.MaxCols = 20
	cfg.Pod.Grid.MaxPods = 200

	return cfg
}

func testContext() context.Context {
	return context.WithValue(context.Background(), constant.ContextKeyUserID, "staff-1")
}

func availablePod(id string) model.Pod {
	return model.Pod{
		ID:        id,
		ClusterID: "cluster-1",
		Code:      "A01L",
		Name:      "Pod A01L",
		Status:    model.StatusAvailable,
		Metadata: gModel.Metadata{
			CreatedAt:  timezone.Now(),
			ModifiedAt: timezone.Now(),
			CreatedBy:  "system",
			ModifiedBy: "system",
		},
	}
}

func TestPodService_Create(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockRepo := podMocks.NewMockPod(ctrl)
	mockClusterRepo := clusterMocks.NewMockCluster(ctrl)

	svc := service.New(mockRepo, mockClusterRepo, &fakeTransactor{}, testConfig(), cacheMocks.NewNoop(), mocks.NewOtel())

	tests := []struct {
		name      string
		req       dto.CreatePodRequest
		setupMock func()
		wantErr   bool
		wantCode  int
	}{
		{
			name: "successful create",
			req:  dto.CreatePodRequest{ClusterID: "cluster-1", Code: "A01L"},
			setupMock: func() {
				mockClusterRepo.EXPECT().
					Exist(gomock.Any(), gomock.Any()).
					Return(true, nil)

				mockRepo.EXPECT().
					Insert(gomock.Any(), gomock.Any()).
					Return(nil)
			},
			wantErr: false,
		},
		{
			name: "cluster does not exist",
			req:  dto.CreatePodRequest{ClusterID: "ghost", Code: "A01L"},
			setupMock: func() {
				mockClusterRepo.EXPECT().
					Exist(gomock.Any(), gomock.Any()).
					Return(false, nil)
			},
			wantErr:  true,
			wantCode: http.StatusBadRequest,
		},
		{
			name: "duplicate code in cluster",
			req:  dto.CreatePodRequest{ClusterID: "cluster-1", Code: "A01L"},
			setupMock: func() {
				mockClusterRepo.EXPECT().
					Exist(gomock.Any(), gomock.Any()).
					Return(true, nil)

				mockRepo.EXPECT().
					Insert(gomock.Any(), gomock.Any()).
					Return(&pq.Error{Code: pq.ErrorCode(constant.PqErrorCodeUniqueViolation)})
			},
			wantErr:  true,
			wantCode: http.StatusConflict,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.setupMock()

			err := svc.Create(testContext(), tt.req)

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

func TestPodService_CreateGrid(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockRepo := podMocks.NewMockPod(ctrl)
	mockClusterRepo := clusterMocks.NewMockCluster(ctrl)

	svc := service.New(mockRepo, mockClusterRepo, &fakeTransactor{}, testConfig(), cacheMocks.NewNoop(), mocks.NewOtel())

	tests := []struct {
		name        string
		req         dto.CreatePodGridRequest
		setupMock   func()
		wantCreated int
		wantErr     bool
		wantCode    int
	}{
		{
			name: "2x2 grid creates eight pods",
			req:  dto.CreatePodGridRequest{ClusterID: "cluster-1", NumRows: 2, NumCols: 2},
			setupMock: func() {
				mockClusterRepo.EXPECT().
					Exist(gomock.Any(), gomock.Any()).
					Return(true, nil)

				mockRepo.EXPECT().
					Count(gomock.Any(), gomock.Any()).
					Return(0, nil)

				mockRepo.EXPECT().
					InsertBulkTx(gomock.Any(), gomock.Any(), gomock.Len(8)).
					Return(nil)
			},
			wantCreated: 8,
			wantErr:     false,
		},
		{
			name:      "too many rows",
			req:       dto.CreatePodGridRequest{ClusterID: "cluster-1", NumRows: 27, NumCols: 2},
			setupMock: func() {},
			wantErr:   true,
			wantCode:  http.StatusUnprocessableEntity,
		},
		{
			name:      "too many columns",
			req:       dto.CreatePodGridRequest{ClusterID: "cluster-1", NumRows: 2, NumCols: 21},
			setupMock: func() {},
			wantErr:   true,
			wantCode:  http.StatusUnprocessableEntity,
		},
		{
			name:      "grid exceeds the pod ceiling",
			req:       dto.CreatePodGridRequest{ClusterID: "cluster-1", NumRows: 20, NumCols: 20},
			setupMock: func() {},
			wantErr:   true,
			wantCode:  http.StatusUnprocessableEntity,
		},
		{
			name: "cluster does not exist",
			req:  dto.CreatePodGridRequest{ClusterID: "ghost", NumRows: 2, NumCols: 2},
			setupMock: func() {
				mockClusterRepo.EXPECT().
					Exist(gomock.Any(), gomock.Any()).
					Return(false, nil)
			},
			wantErr:  true,
			wantCode: http.StatusBadRequest,
		},
		{
			name: "colliding codes abort the whole batch",
			req:  dto.CreatePodGridRequest{ClusterID: "cluster-1", NumRows: 2, NumCols: 2},
			setupMock: func() {
				mockClusterRepo.EXPECT().
					Exist(gomock.Any(), gomock.Any()).
					Return(true, nil)

				mockRepo.EXPECT().
					Count(gomock.Any(), gomock.Any()).
					Return(3, nil)
			},
			wantErr:  true,
			wantCode: http.StatusConflict,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.setupMock()

			created, err := svc.CreateGrid(testContext(), tt.req)

			if tt.wantErr {
				assert.Error(t, err)
				assert.Zero(t, created)

				if tt.wantCode != 0 {
					assert.True(t, failure.HasCode(err, tt.wantCode))
				}
			} else {
				assert.NoError(t, err)
				assert.Equal(t, tt.wantCreated, created)
			}
		})
	}
}

func TestPodService_Transitions(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockRepo := podMocks.NewMockPod(ctrl)
	mockClusterRepo := clusterMocks.NewMockCluster(ctrl)

	svc := service.New(mockRepo, mockClusterRepo, &fakeTransactor{}, testConfig(), cacheMocks.NewNoop(), mocks.NewOtel())

	podWith := func(status model.Status) model.Pod {
		pod := availablePod("pod-1")
		pod.Status = status

		return pod
	}

	tests := []struct {
		name      string
		run       func(ctx context.Context) error
		setupMock func()
		wantErr   bool
		wantCode  int
	}{
		{
			name: "reserve an available pod",
			run:  func(ctx context.Context) error { return svc.Reserve(ctx, "pod-1") },
			setupMock: func() {
				mockRepo.EXPECT().
					Get(gomock.Any(), gomock.Any()).
					Return(podWith(model.StatusAvailable), nil)

				mockRepo.EXPECT().
					UpdateCount(gomock.Any(), gomock.Any(), gomock.Any()).
					Return(int64(1), nil)
			},
			wantErr: false,
		},
		{
			name: "reserve refused when pod is occupied",
			run:  func(ctx context.Context) error { return svc.Reserve(ctx, "pod-1") },
			setupMock: func() {
				mockRepo.EXPECT().
					Get(gomock.Any(), gomock.Any()).
					Return(podWith(model.StatusOccupied), nil)
			},
			wantErr:  true,
			wantCode: http.StatusConflict,
		},
		{
			name: "reserve refused when pod needs cleaning",
			run:  func(ctx context.Context) error { return svc.Reserve(ctx, "pod-1") },
			setupMock: func() {
				mockRepo.EXPECT().
					Get(gomock.Any(), gomock.Any()).
					Return(podWith(model.StatusNeedsCleaning), nil)
			},
			wantErr:  true,
			wantCode: http.StatusConflict,
		},
		{
			name: "release to cleaning queue",
			run:  func(ctx context.Context) error { return svc.Release(ctx, "pod-1", true) },
			setupMock: func() {
				mockRepo.EXPECT().
					Get(gomock.Any(), gomock.Any()).
					Return(podWith(model.StatusOccupied), nil)

				mockRepo.EXPECT().
					UpdateCount(gomock.Any(), gomock.Any(), gomock.Any()).
					Return(int64(1), nil)
			},
			wantErr: false,
		},
		{
			name: "complete cleaning returns the pod to available",
			run:  func(ctx context.Context) error { return svc.CompleteCleaning(ctx, "pod-1") },
			setupMock: func() {
				mockRepo.EXPECT().
					Get(gomock.Any(), gomock.Any()).
					Return(podWith(model.StatusCleaning), nil)

				mockRepo.EXPECT().
					UpdateCount(gomock.Any(), gomock.Any(), gomock.Any()).
					Return(int64(1), nil)
			},
			wantErr: false,
		},
		{
			name: "complete cleaning refused when pod is under maintenance",
			run:  func(ctx context.Context) error { return svc.CompleteCleaning(ctx, "pod-1") },
			setupMock: func() {
				mockRepo.EXPECT().
					Get(gomock.Any(), gomock.Any()).
					Return(podWith(model.StatusMaintenance), nil)
			},
			wantErr:  true,
			wantCode: http.StatusConflict,
		},
		{
			name: "complete cleaning refused when cleaning never started",
			run:  func(ctx context.Context) error { return svc.CompleteCleaning(ctx, "pod-1") },
			setupMock: func() {
				mockRepo.EXPECT().
					Get(gomock.Any(), gomock.Any()).
					Return(podWith(model.StatusNeedsCleaning), nil)
			},
			wantErr:  true,
			wantCode: http.StatusConflict,
		},
		{
			name: "release refused when pod is under maintenance",
			run:  func(ctx context.Context) error { return svc.Release(ctx, "pod-1", false) },
			setupMock: func() {
				mockRepo.EXPECT().
					Get(gomock.Any(), gomock.Any()).
					Return(podWith(model.StatusMaintenance), nil)
			},
			wantErr:  true,
			wantCode: http.StatusConflict,
		},
		{
			name: "force out of service from occupied",
			run:  func(ctx context.Context) error { return svc.ForceOutOfService(ctx, "pod-1", "flooding") },
			setupMock: func() {
				mockRepo.EXPECT().
					Get(gomock.Any(), gomock.Any()).
					Return(podWith(model.StatusOccupied), nil)

				mockRepo.EXPECT().
					UpdateCount(gomock.Any(), gomock.Any(), gomock.Any()).
					Return(int64(1), nil)
			},
			wantErr: false,
		},
		{
			name: "exit maintenance",
			run:  func(ctx context.Context) error { return svc.ExitMaintenance(ctx, "pod-1") },
			setupMock: func() {
				mockRepo.EXPECT().
					Get(gomock.Any(), gomock.Any()).
					Return(podWith(model.StatusMaintenance), nil)

				mockRepo.EXPECT().
					UpdateCount(gomock.Any(), gomock.Any(), gomock.Any()).
					Return(int64(1), nil)
			},
			wantErr: false,
		},
		{
			name: "exit maintenance refused when pod is occupied",
			run:  func(ctx context.Context) error { return svc.ExitMaintenance(ctx, "pod-1") },
			setupMock: func() {
				mockRepo.EXPECT().
					Get(gomock.Any(), gomock.Any()).
					Return(podWith(model.StatusOccupied), nil)
			},
			wantErr:  true,
			wantCode: http.StatusConflict,
		},
		{
			name: "exit maintenance from out of service",
			run:  func(ctx context.Context) error { return svc.ExitMaintenance(ctx, "pod-1") },
			setupMock: func() {
				mockRepo.EXPECT().
					Get(gomock.Any(), gomock.Any()).
					Return(podWith(model.StatusOutOfService), nil)

				mockRepo.EXPECT().
					UpdateCount(gomock.Any(), gomock.Any(), gomock.Any()).
					Return(int64(1), nil)
			},
			wantErr: false,
		},
		{
			name: "concurrent flip surfaces as a conflict",
			run:  func(ctx context.Context) error { return svc.Reserve(ctx, "pod-1") },
			setupMock: func() {
				mockRepo.EXPECT().
					Get(gomock.Any(), gomock.Any()).
					Return(podWith(model.StatusAvailable), nil)

				mockRepo.EXPECT().
					UpdateCount(gomock.Any(), gomock.Any(), gomock.Any()).
					Return(int64(0), nil)
			},
			wantErr:  true,
			wantCode: http.StatusConflict,
		},
		{
			name: "pod not found",
			run:  func(ctx context.Context) error { return svc.Reserve(ctx, "ghost") },
			setupMock: func() {
				mockRepo.EXPECT().
					Get(gomock.Any(), gomock.Any()).
					Return(model.Pod{}, nil)
			},
			wantErr:  true,
			wantCode: http.StatusNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.setupMock()

			err := tt.run(testContext())

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

func TestPodService_Delete(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockRepo := podMocks.NewMockPod(ctrl)
	mockClusterRepo := clusterMocks.NewMockCluster(ctrl)

	svc := service.New(mockRepo, mockClusterRepo, &fakeTransactor{}, testConfig(), cacheMocks.NewNoop(), mocks.NewOtel())

	t.Run("occupied pod cannot be deleted", func(t *testing.T) {
		pod := availablePod("pod-1")
		pod.Status = model.StatusOccupied

		mockRepo.EXPECT().
			Get(gomock.Any(), gomock.Any()).
			Return(pod, nil)

		err := svc.Delete(testContext(), "pod-1")

		assert.Error(t, err)
		assert.True(t, failure.HasCode(err, http.StatusConflict))
	})

	t.Run("successful delete", func(t *testing.T) {
		mockRepo.EXPECT().
			Get(gomock.Any(), gomock.Any()).
			Return(availablePod("pod-1"), nil)

		mockRepo.EXPECT().
			Delete(gomock.Any(), gomock.Any()).
			Return(nil)

		err := svc.Delete(testContext(), "pod-1")

		assert.NoError(t, err)
	})

	t.Run("repository error is wrapped", func(t *testing.T) {
		mockRepo.EXPECT().
			Get(gomock.Any(), gomock.Any()).
			Return(model.Pod{}, errors.New("connection reset"))

		err := svc.Delete(testContext(), "pod-1")

		assert.Error(t, err)
	})
}

func TestPodService_Get(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockRepo := podMocks.NewMockPod(ctrl)
	mockClusterRepo := clusterMocks.NewMockCluster(ctrl)
	mockCache := cacheMocks.NewMockRedisCache(ctrl)

	svc := service.New(mockRepo, mockClusterRepo, &fakeTransactor{}, testConfig(), mockCache, mocks.NewOtel())

	t.Run("cache hit skips the repository", func(t *testing.T) {
		mockCache.EXPECT().
			Get(gomock.Any(), "pod:get:pod-1", gomock.Any()).
			DoAndReturn(func(_ context.Context, _ string, value any) error {
				res, _ := value.(*dto.PodResponse)
				res.ID = "pod-1"
				res.Status = string(model.StatusAvailable)

				return nil
			})

		res, err := svc.Get(testContext(), "pod-1")

		assert.NoError(t, err)
		assert.Equal(t, "pod-1", res.ID)
	})

	t.Run("pod not found", func(t *testing.T) {
		mockCache.EXPECT().
			Get(gomock.Any(), gomock.Any(), gomock.Any()).
			Return(errors.New("cache miss"))

		mockRepo.EXPECT().
			Get(gomock.Any(), gomock.Any()).
			Return(model.Pod{}, nil)

		_, err := svc.Get(testContext(), "ghost")

		assert.Error(t, err)
		assert.True(t, failure.HasCode(err, http.StatusNotFound))
	})
}
