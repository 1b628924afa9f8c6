package dto

import (
	"time"

	"github.com/google/uuid"

	"github.com/lphuocloc/Oasis-Go-BE/internal/domains/booking/model"
	"github.com/lphuocloc/Oasis-Go-BE/shared"
	"github.com/lphuocloc/Oasis-Go-BE/shared/constant"
	gDto "github.com/lphuocloc/Oasis-Go-BE/shared/dto"
	gModel "github.com/lphuocloc/Oasis-Go-BE/shared/model"
	"github.com/lphuocloc/Oasis-Go-BE/shared/timezone"
)

type CreateBookingRequest struct {
	PodID     string `json:"pod_id"     validate:"required"`
	StartTime string `json:"start_time" validate:"required"`
	EndTime   string `json:"end_time"   validate:"required"`
}

func (c *CreateBookingRequest) ToModel(user string) (model.Booking, error) {
	startTime, err := time.Parse(time.RFC3339, c.StartTime)
	if err != nil {
		return model.Booking{}, err
	}

	endTime, err := time.Parse(time.RFC3339, c.EndTime)
	if err != nil {
		return model.Booking{}, err
	}

	return model.Booking{
		ID:        uuid.NewString(),
		PodID:     c.PodID,
		StartTime: startTime,
		EndTime:   endTime,
		Status:    model.StatusBooked,
		Metadata: gModel.Metadata{
			CreatedAt:  timezone.Now(),
			ModifiedAt: timezone.Now(),
			CreatedBy:  user,
			ModifiedBy: user,
		},
	}, nil
}

type BookingResponse struct {
	ID            string `json:"id"`
	PodID         string `json:"pod_id"`
	StartTime     string `json:"start_time"`
	EndTime       string `json:"end_time"`
	ActualEndTime string `json:"actual_end_time,omitempty"`
	Status        string `json:"status"`
	gDto.Metadata
}

func (r *BookingResponse) FromModel(model model.Booking) {
	r.ID = model.ID
	r.PodID = model.PodID
	r.StartTime = timezone.Format(model.StartTime, constant.DateFormat)
	r.EndTime = timezone.Format(model.EndTime, constant.DateFormat)
	r.Status = string(model.Status)

	if model.ActualEndTime != nil {
		r.ActualEndTime = timezone.Format(*model.ActualEndTime, constant.DateFormat)
	}

	r.Metadata.FromModel(model.Metadata)
}

type GetBookingsResponse struct {
	Bookings  []BookingResponse `json:"bookings"`
	TotalPage int               `json:"total_page"`
	TotalData int               `json:"total_data"`
}

func (r *GetBookingsResponse) FromModels(models []model.Booking, totalData, limit int) {
	r.TotalData = totalData
	r.TotalPage = shared.CalculateTotalPage(totalData, limit)

	r.Bookings = make([]BookingResponse, len(models))
	for i, mod := range models {
		r.Bookings[i].FromModel(mod)
	}
}
