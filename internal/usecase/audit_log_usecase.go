package usecase

import (
	"context"

	"medical-appointment-scheduler/internal/converter"
	"medical-appointment-scheduler/internal/delivery/dto"
	"medical-appointment-scheduler/internal/domain/repository"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

const maxAuditLogPageSize = 100

type AuditLogUsecase interface {
	GetAuditLogs(ctx context.Context, page, limit int) (*dto.AuditLogListResponse, error)
}

type auditLogUsecase struct {
	db           *gorm.DB
	log          *logrus.Logger
	auditLogRepo repository.AuditLogRepository
}

func NewAuditLogUsecase(
	db *gorm.DB,
	log *logrus.Logger,
	auditLogRepo repository.AuditLogRepository,
) AuditLogUsecase {
	return &auditLogUsecase{
		db:           db,
		log:          log,
		auditLogRepo: auditLogRepo,
	}
}

// GetAuditLogs returns one page, newest first. page starts at 1.
func (u *auditLogUsecase) GetAuditLogs(ctx context.Context, page, limit int) (*dto.AuditLogListResponse, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > maxAuditLogPageSize {
		limit = 20
	}

	logs, total, err := u.auditLogRepo.FindAll(ctx, u.db, limit, (page-1)*limit)
	if err != nil {
		u.log.Warnf("Failed to find audit logs: %+v", err)
		return nil, err
	}

	return &dto.AuditLogListResponse{
		Logs:  converter.AuditLogsToResponses(logs),
		Page:  page,
		Limit: limit,
		Total: total,
	}, nil
}
