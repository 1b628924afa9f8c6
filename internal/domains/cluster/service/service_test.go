package service_test

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"go.uber.org/mock/gomock"

	"github.com/lphuocloc/Oasis-Go-BE/config"
	"github.com/lphuocloc/Oasis-Go-BE/infras/otel/mocks"
	clusterMocks "github.com/lphuocloc/Oasis-Go-BE/internal/domains/cluster/mocks"
	"github.com/lphuocloc/Oasis-Go-BE/internal/domains/cluster/model"
	"github.com/lphuocloc/Oasis-Go-BE/internal/domains/cluster/model/dto"
	"github.com/lphuocloc/Oasis-Go-BE/internal/domains/cluster/service"
	"github.com/lphuocloc/Oasis-Go-BE/shared/constant"
	gDto "github.com/lphuocloc/Oasis-Go-BE/shared/dto"
	"github.com/lphuocloc/Oasis-Go-BE/shared/failure"
)

func testContext() context.Context {
	return context.WithValue(context.Background(), constant.ContextKeyUserID, "admin-1")
}

func TestClusterService_Create(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockRepo := clusterMocks.NewMockCluster(ctrl)

	svc := service.New(mockRepo, &config.Config{}, mocks.NewOtel())

	req := dto.CreateClusterRequest{LocationID: "location-1", Name: "North Wing"}

	t.Run("successful create", func(t *testing.T) {
		mockRepo.EXPECT().
			Insert(gomock.Any(), gomock.Any()).
			Return(nil)

		assert.NoError(t, svc.Create(testContext(), req))
	})

	t.Run("duplicate name in location", func(t *testing.T) {
		mockRepo.EXPECT().
			Insert(gomock.Any(), gomock.Any()).
			Return(&pq.Error{Code: pq.ErrorCode(constant.PqErrorCodeUniqueViolation)})

		err := svc.Create(testContext(), req)

		assert.Error(t, err)
		assert.True(t, failure.HasCode(err, http.StatusConflict))
	})

	t.Run("insert failure surfaces", func(t *testing.T) {
		mockRepo.EXPECT().
			Insert(gomock.Any(), gomock.Any()).
			Return(errors.New("connection reset"))

		assert.Error(t, svc.Create(testContext(), req))
	})
}

func TestClusterService_Get(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockRepo := clusterMocks.NewMockCluster(ctrl)

	svc := service.New(mockRepo, &config.Config{}, mocks.NewOtel())

	t.Run("found", func(t *testing.T) {
		mockRepo.EXPECT().
			Get(gomock.Any(), gomock.Any()).
			Return(model.Cluster{ID: "cluster-1", Name: "North Wing"}, nil)

		res, err := svc.Get(testContext(), "cluster-1")

		assert.NoError(t, err)
		assert.Equal(t, "cluster-1", res.ID)
	})

	t.Run("not found", func(t *testing.T) {
		mockRepo.EXPECT().
			Get(gomock.Any(), gomock.Any()).
			Return(model.Cluster{}, nil)

		_, err := svc.Get(testContext(), "ghost")

		assert.Error(t, err)
		assert.True(t, failure.HasCode(err, http.StatusNotFound))
	})
}

func TestClusterService_GetAll(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockRepo := clusterMocks.NewMockCluster(ctrl)

	svc := service.New(mockRepo, &config.Config{}, mocks.NewOtel())

	mockRepo.EXPECT().
		Count(gomock.Any(), gomock.Any()).
		Return(3, nil)

	mockRepo.EXPECT().
		GetAll(gomock.Any(), gomock.Any(), gomock.Any()).
		Return([]model.Cluster{{ID: "cluster-1"}, {ID: "cluster-2"}}, nil)

	res, err := svc.GetAll(testContext(), gDto.QueryParams{Page: 1, Limit: 2}, gDto.FilterGroup{})

	assert.NoError(t, err)
	assert.Len(t, res.Clusters, 2)
	assert.Equal(t, 3, res.TotalData)
	assert.Equal(t, 2, res.TotalPage)
}
