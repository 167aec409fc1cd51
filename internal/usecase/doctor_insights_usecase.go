package usecase

import (
	"bytes"
	"context"
	"fmt"
	"math"
	"sort"
	"time"

	"medical-appointment-scheduler/internal/converter"
	"medical-appointment-scheduler/internal/delivery/dto"
	"medical-appointment-scheduler/internal/domain/entity"
	"medical-appointment-scheduler/internal/domain/repository"
	"medical-appointment-scheduler/internal/service"
	"medical-appointment-scheduler/pkg/clock"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"
)

const (
	analyticsMonths  = 6
	popularHourLimit = 5
)

// ageRanges are inclusive [min, max] in years; max < 0 means open ended.
var ageRanges = []struct {
	label    string
	min, max int
}{
	{"0-18", 0, 18},
	{"19-35", 19, 35},
	{"36-50", 36, 50},
	{"51-65", 51, 65},
	{"65+", 66, -1},
}

type DoctorInsightsUsecase interface {
	GetDashboard(ctx context.Context, doctorID uuid.UUID) (*dto.DoctorDashboardResponse, error)
	GetAnalytics(ctx context.Context, doctorID uuid.UUID) (*dto.DoctorAnalyticsResponse, error)
	// ExportAppointments returns an xlsx workbook and its file name.
	ExportAppointments(ctx context.Context, doctorID uuid.UUID) (*bytes.Buffer, string, error)
	// ExportCalendar returns an iCalendar feed of active appointments from
	// today on, and its file name.
	ExportCalendar(ctx context.Context, doctorID uuid.UUID) ([]byte, string, error)
}

type doctorInsightsUsecase struct {
	db                *gorm.DB
	log               *logrus.Logger
	loc               *time.Location
	clock             clock.Clock
	doctorProfileRepo repository.DoctorProfileRepository
	appointmentRepo   repository.AppointmentRepository
	exportService     service.ExportService
	calendarService   service.CalendarService
}

func NewDoctorInsightsUsecase(
	db *gorm.DB,
	log *logrus.Logger,
	loc *time.Location,
	clk clock.Clock,
	doctorProfileRepo repository.DoctorProfileRepository,
	appointmentRepo repository.AppointmentRepository,
	exportService service.ExportService,
	calendarService service.CalendarService,
) DoctorInsightsUsecase {
	return &doctorInsightsUsecase{
		db:                db,
		log:               log,
		loc:               loc,
		clock:             clk,
		doctorProfileRepo: doctorProfileRepo,
		appointmentRepo:   appointmentRepo,
		exportService:     exportService,
		calendarService:   calendarService,
	}
}

func (u *doctorInsightsUsecase) findDoctor(ctx context.Context, doctorID uuid.UUID) (*entity.DoctorProfile, error) {
	doctor, err := u.doctorProfileRepo.FindByUserID(ctx, u.db, doctorID)
	if err != nil {
		u.log.Warnf("Failed to find doctor %s: %+v", doctorID, err)
		return nil, err
	}
	if doctor == nil {
		return nil, ErrDoctorNotFound
	}
	return doctor, nil
}

// GetDashboard returns today's agenda, the number of active appointments
// after today and the all-time count per status.
func (u *doctorInsightsUsecase) GetDashboard(ctx context.Context, doctorID uuid.UUID) (*dto.DoctorDashboardResponse, error) {
	if _, err := u.findDoctor(ctx, doctorID); err != nil {
		return nil, err
	}

	now := u.clock.Now()
	todayStart, tomorrowStart := dayBounds(now, u.loc)

	var (
		today    []entity.Appointment
		upcoming []entity.Appointment
		counts   map[entity.AppointmentStatus]int64
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		today, err = u.appointmentRepo.FindAll(gctx, u.db, entity.AppointmentFilter{
			DoctorID: &doctorID,
			From:     &todayStart,
			To:       &tomorrowStart,
		})
		return err
	})
	g.Go(func() error {
		var err error
		upcoming, err = u.appointmentRepo.FindAll(gctx, u.db, entity.AppointmentFilter{
			DoctorID: &doctorID,
			Statuses: entity.ActiveAppointmentStatuses,
			From:     &tomorrowStart,
		})
		return err
	})
	g.Go(func() error {
		var err error
		counts, err = u.appointmentRepo.CountByStatus(gctx, u.db, doctorID)
		return err
	})
	if err := g.Wait(); err != nil {
		u.log.Warnf("Failed to build dashboard for doctor %s: %+v", doctorID, err)
		return nil, err
	}

	statusCounts := make(map[string]int64, len(entity.AllAppointmentStatuses))
	for _, s := range entity.AllAppointmentStatuses {
		statusCounts[string(s)] = counts[s]
	}

	return &dto.DoctorDashboardResponse{
		Date:          todayStart.Format("2006-01-02"),
		Today:         converter.AppointmentsToResponses(today),
		TodayCount:    len(today),
		UpcomingCount: len(upcoming),
		StatusCounts:  statusCounts,
	}, nil
}

// GetAnalytics combines all-time status totals with a breakdown of the last
// six calendar months, including the current one.
func (u *doctorInsightsUsecase) GetAnalytics(ctx context.Context, doctorID uuid.UUID) (*dto.DoctorAnalyticsResponse, error) {
	if _, err := u.findDoctor(ctx, doctorID); err != nil {
		return nil, err
	}

	now := u.clock.Now().In(u.loc)
	windowStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, u.loc).AddDate(0, -(analyticsMonths - 1), 0)

	var (
		counts map[entity.AppointmentStatus]int64
		recent []entity.Appointment
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		counts, err = u.appointmentRepo.CountByStatus(gctx, u.db, doctorID)
		return err
	})
	g.Go(func() error {
		var err error
		recent, err = u.appointmentRepo.FindAll(gctx, u.db, entity.AppointmentFilter{
			DoctorID: &doctorID,
			From:     &windowStart,
		})
		return err
	})
	if err := g.Wait(); err != nil {
		u.log.Warnf("Failed to build analytics for doctor %s: %+v", doctorID, err)
		return nil, err
	}

	var total int64
	for _, c := range counts {
		total += c
	}
	completed := counts[entity.AppointmentStatusCompleted]
	cancelled := counts[entity.AppointmentStatusCancelled]

	return &dto.DoctorAnalyticsResponse{
		TotalAppointments: total,
		Completed:         completed,
		Cancelled:         cancelled,
		NoShow:            counts[entity.AppointmentStatusNoShow],
		CompletionRate:    percentage(completed, total),
		CancellationRate:  percentage(cancelled, total),
		UniquePatients:    countUniquePatients(recent),
		Monthly:           monthlyCounts(recent, windowStart, u.loc),
		PopularHours:      popularHours(recent, u.loc),
		AgeDistribution:   ageDistribution(recent, now),
	}, nil
}

func (u *doctorInsightsUsecase) ExportAppointments(ctx context.Context, doctorID uuid.UUID) (*bytes.Buffer, string, error) {
	doctor, err := u.findDoctor(ctx, doctorID)
	if err != nil {
		return nil, "", err
	}

	appointments, err := u.appointmentRepo.FindAll(ctx, u.db, entity.AppointmentFilter{DoctorID: &doctorID})
	if err != nil {
		u.log.Warnf("Failed to find appointments for export: %+v", err)
		return nil, "", err
	}

	buf, err := u.exportService.AppointmentsWorkbook(doctor.User.FullName, appointments, u.loc)
	if err != nil {
		return nil, "", err
	}

	filename := fmt.Sprintf("agenda_%s_%s.xlsx", doctorID, u.clock.Now().In(u.loc).Format("20060102"))
	return buf, filename, nil
}

func (u *doctorInsightsUsecase) ExportCalendar(ctx context.Context, doctorID uuid.UUID) ([]byte, string, error) {
	doctor, err := u.findDoctor(ctx, doctorID)
	if err != nil {
		return nil, "", err
	}

	todayStart, _ := dayBounds(u.clock.Now(), u.loc)
	appointments, err := u.appointmentRepo.FindAll(ctx, u.db, entity.AppointmentFilter{
		DoctorID: &doctorID,
		Statuses: entity.ActiveAppointmentStatuses,
		From:     &todayStart,
	})
	if err != nil {
		u.log.Warnf("Failed to find appointments for calendar: %+v", err)
		return nil, "", err
	}

	return u.calendarService.AppointmentsCalendar(doctor, appointments, u.loc), fmt.Sprintf("agenda_%s.ics", doctorID), nil
}

// percentage returns part/total*100 rounded to one decimal, or 0.
func percentage(part, total int64) float64 {
	if total == 0 {
		return 0
	}
	return math.Round(float64(part)/float64(total)*1000) / 10
}

func countUniquePatients(appointments []entity.Appointment) int {
	seen := make(map[uuid.UUID]struct{})
	for _, a := range appointments {
		seen[a.PatientID] = struct{}{}
	}
	return len(seen)
}

func monthlyCounts(appointments []entity.Appointment, windowStart time.Time, loc *time.Location) []dto.MonthlyCount {
	months := make([]dto.MonthlyCount, analyticsMonths)
	index := make(map[string]int, analyticsMonths)
	for i := range months {
		key := windowStart.AddDate(0, i, 0).Format("2006-01")
		months[i].Month = key
		index[key] = i
	}

	for _, a := range appointments {
		i, ok := index[a.ScheduledAt.In(loc).Format("2006-01")]
		if !ok {
			continue
		}
		months[i].Total++
		switch a.Status {
		case entity.AppointmentStatusCompleted:
			months[i].Completed++
		case entity.AppointmentStatusCancelled:
			months[i].Cancelled++
		}
	}
	return months
}

// popularHours ranks start hours by appointment count, ties by hour.
// Cancelled appointments are not counted.
func popularHours(appointments []entity.Appointment, loc *time.Location) []dto.HourCount {
	byHour := make(map[string]int)
	for _, a := range appointments {
		if a.Status == entity.AppointmentStatusCancelled {
			continue
		}
		byHour[fmt.Sprintf("%02d:00", a.ScheduledAt.In(loc).Hour())]++
	}

	hours := make([]dto.HourCount, 0, len(byHour))
	for h, c := range byHour {
		hours = append(hours, dto.HourCount{Hour: h, Count: c})
	}
	sort.Slice(hours, func(i, j int) bool {
		if hours[i].Count != hours[j].Count {
			return hours[i].Count > hours[j].Count
		}
		return hours[i].Hour < hours[j].Hour
	})
	if len(hours) > popularHourLimit {
		hours = hours[:popularHourLimit]
	}
	return hours
}

// ageDistribution buckets distinct patients by age; patients without a
// birth date are left out.
func ageDistribution(appointments []entity.Appointment, now time.Time) []dto.AgeBucket {
	buckets := make([]dto.AgeBucket, len(ageRanges))
	for i, r := range ageRanges {
		buckets[i].Range = r.label
	}

	seen := make(map[uuid.UUID]bool)
	for _, a := range appointments {
		if seen[a.PatientID] {
			continue
		}
		seen[a.PatientID] = true

		age := a.Patient.AgeAt(now)
		if age < 0 {
			continue
		}
		for i, r := range ageRanges {
			if age >= r.min && (r.max < 0 || age <= r.max) {
				buckets[i].Count++
				break
			}
		}
	}
	return buckets
}
