package service_test

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/mock/gomock"

	"github.com/lphuocloc/Oasis-Go-BE/infras/otel/mocks"
	incidentMocks "github.com/lphuocloc/Oasis-Go-BE/internal/domains/incident/mocks"
	"github.com/lphuocloc/Oasis-Go-BE/internal/domains/incident/model"
	"github.com/lphuocloc/Oasis-Go-BE/internal/domains/incident/model/dto"
	"github.com/lphuocloc/Oasis-Go-BE/internal/domains/incident/service"
	podMocks "github.com/lphuocloc/Oasis-Go-BE/internal/domains/pod/mocks"
	podServiceMocks "github.com/lphuocloc/Oasis-Go-BE/internal/domains/pod/service/mocks"
	"github.com/lphuocloc/Oasis-Go-BE/shared/constant"
	"github.com/lphuocloc/Oasis-Go-BE/shared/failure"
)

func testContext() context.Context {
	return context.WithValue(context.Background(), constant.ContextKeyUserID, "renter-1")
}

func TestIncidentService_Report(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockRepo := incidentMocks.NewMockIncident(ctrl)
	mockPodRepo := podMocks.NewMockPod(ctrl)
	mockPodService := podServiceMocks.NewMockPod(ctrl)

	svc := service.New(mockRepo, mockPodRepo, mockPodService, mocks.NewOtel())

	tests := []struct {
		name      string
		req       dto.ReportIncidentRequest
		setupMock func()
		wantErr   bool
		wantCode  int
	}{
		{
			name: "low severity leaves the pod alone",
			req:  dto.ReportIncidentRequest{PodID: "pod-1", Description: "flickering light", Severity: string(model.SeverityLow)},
			setupMock: func() {
				mockPodRepo.EXPECT().
					Exist(gomock.Any(), gomock.Any()).
					Return(true, nil)

				mockRepo.EXPECT().
					Insert(gomock.Any(), gomock.Any()).
					Return(nil)
			},
			wantErr: false,
		},
		{
			name: "high severity forces the pod out of service",
			req:  dto.ReportIncidentRequest{PodID: "pod-1", Description: "door lock jammed", Severity: string(model.SeverityHigh)},
			setupMock: func() {
				mockPodRepo.EXPECT().
					Exist(gomock.Any(), gomock.Any()).
					Return(true, nil)

				mockRepo.EXPECT().
					Insert(gomock.Any(), gomock.Any()).
					Return(nil)

				mockPodService.EXPECT().
					ForceOutOfService(gomock.Any(), "pod-1", "HIGH incident: door lock jammed").
					Return(nil)
			},
			wantErr: false,
		},
		{
			name: "critical severity forces the pod out of service",
			req:  dto.ReportIncidentRequest{PodID: "pod-1", Description: "smoke detected", Severity: string(model.SeverityCritical)},
			setupMock: func() {
				mockPodRepo.EXPECT().
					Exist(gomock.Any(), gomock.Any()).
					Return(true, nil)

				mockRepo.EXPECT().
					Insert(gomock.Any(), gomock.Any()).
					Return(nil)

				mockPodService.EXPECT().
					ForceOutOfService(gomock.Any(), "pod-1", gomock.Any()).
					Return(nil)
			},
			wantErr: false,
		},
		{
			name: "incident stands when the pod is already out of service",
			req:  dto.ReportIncidentRequest{PodID: "pod-1", Description: "smoke detected", Severity: string(model.SeverityCritical)},
			setupMock: func() {
				mockPodRepo.EXPECT().
					Exist(gomock.Any(), gomock.Any()).
					Return(true, nil)

				mockRepo.EXPECT().
					Insert(gomock.Any(), gomock.Any()).
					Return(nil)

				mockPodService.EXPECT().
					ForceOutOfService(gomock.Any(), "pod-1", gomock.Any()).
					Return(failure.Conflict("pod A01L cannot move from OUT_OF_SERVICE to OUT_OF_SERVICE"))
			},
			wantErr: false,
		},
		{
			name: "pod not found",
			req:  dto.ReportIncidentRequest{PodID: "ghost", Description: "noise", Severity: string(model.SeverityLow)},
			setupMock: func() {
				mockPodRepo.EXPECT().
					Exist(gomock.Any(), gomock.Any()).
					Return(false, nil)
			},
			wantErr:  true,
			wantCode: http.StatusNotFound,
		},
		{
			name: "insert failure surfaces",
			req:  dto.ReportIncidentRequest{PodID: "pod-1", Description: "noise", Severity: string(model.SeverityLow)},
			setupMock: func() {
				mockPodRepo.EXPECT().
					Exist(gomock.Any(), gomock.Any()).
					Return(true, nil)

				mockRepo.EXPECT().
					Insert(gomock.Any(), gomock.Any()).
					Return(errors.New("connection reset"))
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.setupMock()

			res, err := svc.Report(testContext(), tt.req)

			if tt.wantErr {
				assert.Error(t, err)

				if tt.wantCode != 0 {
					assert.True(t, failure.HasCode(err, tt.wantCode))
				}
			} else {
				assert.NoError(t, err)
				assert.Equal(t, tt.req.PodID, res.PodID)
				assert.Equal(t, string(model.StatusPending), res.Status)
			}
		})
	}
}

func TestIncidentService_UpdateStatus(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockRepo := incidentMocks.NewMockIncident(ctrl)
	mockPodRepo := podMocks.NewMockPod(ctrl)
	mockPodService := podServiceMocks.NewMockPod(ctrl)

	svc := service.New(mockRepo, mockPodRepo, mockPodService, mocks.NewOtel())

	pending := model.Incident{ID: "incident-1", PodID: "pod-1", Status: model.StatusPending}

	tests := []struct {
		name      string
		target    string
		setupMock func()
		wantErr   bool
		wantCode  int
	}{
		{
			name:   "advance to investigating",
			target: string(model.StatusInvestigating),
			setupMock: func() {
				mockRepo.EXPECT().
					Get(gomock.Any(), gomock.Any()).
					Return(pending, nil)

				mockRepo.EXPECT().
					UpdateCount(gomock.Any(), gomock.Any(), gomock.Any()).
					Return(int64(1), nil)
			},
			wantErr: false,
		},
		{
			name:   "skip ahead to closed",
			target: string(model.StatusClosed),
			setupMock: func() {
				mockRepo.EXPECT().
					Get(gomock.Any(), gomock.Any()).
					Return(pending, nil)

				mockRepo.EXPECT().
					UpdateCount(gomock.Any(), gomock.Any(), gomock.Any()).
					Return(int64(1), nil)
			},
			wantErr: false,
		},
		{
			name:   "backward move refused",
			target: string(model.StatusPending),
			setupMock: func() {
				resolved := pending
				resolved.Status = model.StatusResolved

				mockRepo.EXPECT().
					Get(gomock.Any(), gomock.Any()).
					Return(resolved, nil)
			},
			wantErr:  true,
			wantCode: http.StatusConflict,
		},
		{
			name:   "same status refused",
			target: string(model.StatusPending),
			setupMock: func() {
				mockRepo.EXPECT().
					Get(gomock.Any(), gomock.Any()).
					Return(pending, nil)
			},
			wantErr:  true,
			wantCode: http.StatusConflict,
		},
		{
			name:   "incident not found",
			target: string(model.StatusClosed),
			setupMock: func() {
				mockRepo.EXPECT().
					Get(gomock.Any(), gomock.Any()).
					Return(model.Incident{}, nil)
			},
			wantErr:  true,
			wantCode: http.StatusNotFound,
		},
		{
			name:   "concurrent flip",
			target: string(model.StatusClosed),
			setupMock: func() {
				mockRepo.EXPECT().
					Get(gomock.Any(), gomock.Any()).
					Return(pending, nil)

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

			err := svc.UpdateStatus(testContext(), "incident-1", dto.UpdateIncidentStatusRequest{Status: tt.target})

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
