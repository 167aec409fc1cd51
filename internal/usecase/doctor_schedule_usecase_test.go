package usecase

import (
	"context"
	"testing"

	"medical-appointment-scheduler/internal/delivery/dto"
	"medical-appointment-scheduler/internal/domain/entity"
	"medical-appointment-scheduler/internal/service"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func weekday(d int) *int { return &d }

func TestReplaceSchedulesSwapsWholeWeek(t *testing.T) {
	doctorID := uuid.New()
	doctors := &fakeDoctorProfileRepo{profiles: map[uuid.UUID]*entity.DoctorProfile{doctorID: {UserID: doctorID}}}
	schedules := &fakeScheduleRepo{schedules: []entity.DoctorSchedule{
		{DoctorID: doctorID, DayOfWeek: 1, StartTime: "08:00", EndTime: "12:00", SlotDuration: 30},
	}}
	audit := &fakeAuditService{}
	usecase := NewDoctorScheduleUsecase(nil, quietLogger(), fakeTxManager{}, schedules, doctors, audit)

	resp, err := usecase.ReplaceSchedules(asActor(doctorID, entity.RoleIDDoctor), doctorID, &dto.ReplaceSchedulesRequest{
		Schedules: []dto.ScheduleRequest{
			{DayOfWeek: weekday(2), StartTime: "09:00", EndTime: "13:00", SlotDuration: 20},
			{DayOfWeek: weekday(2), StartTime: "14:00", EndTime: "17:00", SlotDuration: 20, MaxPatients: 4},
		},
	})
	require.NoError(t, err)

	require.Equal(t, 2, resp.Total)
	assert.Equal(t, "Tuesday", resp.Schedules[0].DayName)
	assert.Equal(t, 1, resp.Schedules[0].MaxPatients)
	assert.Equal(t, 4, resp.Schedules[1].MaxPatients)
	assert.Equal(t, []string{entity.AuditActionScheduleReplace}, audit.actions())
}

func TestReplaceSchedulesValidatesWindows(t *testing.T) {
	doctorID := uuid.New()
	doctors := &fakeDoctorProfileRepo{profiles: map[uuid.UUID]*entity.DoctorProfile{doctorID: {UserID: doctorID}}}
	schedules := &fakeScheduleRepo{}
	usecase := NewDoctorScheduleUsecase(nil, quietLogger(), fakeTxManager{}, schedules, doctors, &fakeAuditService{})
	ctx := asActor(doctorID, entity.RoleIDDoctor)

	_, err := usecase.ReplaceSchedules(ctx, doctorID, &dto.ReplaceSchedulesRequest{
		Schedules: []dto.ScheduleRequest{{DayOfWeek: weekday(1), StartTime: "12:00", EndTime: "08:00", SlotDuration: 30}},
	})
	assert.ErrorIs(t, err, ErrInvalidScheduleWindow)

	_, err = usecase.ReplaceSchedules(ctx, doctorID, &dto.ReplaceSchedulesRequest{
		Schedules: []dto.ScheduleRequest{{DayOfWeek: weekday(1), StartTime: "24:00", EndTime: "25:00", SlotDuration: 30}},
	})
	assert.ErrorIs(t, err, service.ErrInvalidClockTime)

	_, err = usecase.ReplaceSchedules(ctx, uuid.New(), &dto.ReplaceSchedulesRequest{})
	assert.ErrorIs(t, err, ErrDoctorNotFound)

	assert.Nil(t, schedules.replaced)
}

func TestGetSchedulesByDoctorUnknownDoctor(t *testing.T) {
	usecase := NewDoctorScheduleUsecase(nil, quietLogger(), fakeTxManager{}, &fakeScheduleRepo{},
		&fakeDoctorProfileRepo{}, &fakeAuditService{})

	_, err := usecase.GetSchedulesByDoctor(context.Background(), uuid.New())
	assert.ErrorIs(t, err, ErrDoctorNotFound)
}
