package usecase

import (
	"context"
	"time"

	"medical-appointment-scheduler/internal/delivery/http/middleware"
	"medical-appointment-scheduler/internal/domain/entity"
	"medical-appointment-scheduler/pkg/clock"

	"github.com/google/uuid"
)

// actor is the authenticated caller.
type actor struct {
	UserID uuid.UUID
	RoleID int
}

func (a actor) IsAdmin() bool   { return a.RoleID == entity.RoleIDAdmin }
func (a actor) IsDoctor() bool  { return a.RoleID == entity.RoleIDDoctor }
func (a actor) IsPatient() bool { return a.RoleID == entity.RoleIDPatient }

func currentActor(ctx context.Context) (actor, error) {
	userID, ok := middleware.GetUserIDFromContext(ctx)
	if !ok {
		return actor{}, ErrUnauthenticated
	}
	roleID, ok := middleware.GetRoleIDFromContext(ctx)
	if !ok {
		return actor{}, ErrUnauthenticated
	}
	return actor{UserID: userID, RoleID: roleID}, nil
}

// dayBounds returns [start of date, start of next day) in loc. AddDate keeps
// the window correct across DST changes.
func dayBounds(date time.Time, loc *time.Location) (time.Time, time.Time) {
	start := clock.StartOfDay(date, loc)
	return start, start.AddDate(0, 0, 1)
}

// parseDate reads a YYYY-MM-DD calendar date in loc.
func parseDate(s string, loc *time.Location) (time.Time, error) {
	t, err := time.ParseInLocation("2006-01-02", s, loc)
	if err != nil {
		return time.Time{}, ErrInvalidDate
	}
	return t, nil
}
