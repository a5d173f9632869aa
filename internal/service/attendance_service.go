package service

import (
	"context"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/sekolahdev/presensi-api/internal/models"
	appErrors "github.com/sekolahdev/presensi-api/pkg/errors"
)

type attendanceLister interface {
	List(ctx context.Context, filter models.AttendanceFilter) ([]models.AttendanceListRow, int, error)
}

// AttendanceService exposes the ledger read surface consumed by the external
// reporting layer. Writes go exclusively through ScanService and LeaveService.
type AttendanceService struct {
	repo   attendanceLister
	logger *zap.Logger
}

// NewAttendanceService constructs the service.
func NewAttendanceService(repo attendanceLister, logger *zap.Logger) *AttendanceService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AttendanceService{repo: repo, logger: logger}
}

// AttendanceListRequest carries query parameters for ledger listing.
type AttendanceListRequest struct {
	Date       string
	DateFrom   string
	DateTo     string
	ClassID    string
	AttendeeID string
	Status     string
	Page       int
	PageSize   int
	SortBy     string
	SortOrder  string
}

// List returns paginated ledger rows.
func (s *AttendanceService) List(ctx context.Context, req AttendanceListRequest) ([]models.AttendanceListRow, *models.Pagination, error) {
	filter := models.AttendanceFilter{
		ClassID:    req.ClassID,
		AttendeeID: req.AttendeeID,
		SortBy:     req.SortBy,
		SortOrder:  req.SortOrder,
	}

	var err error
	if filter.Date, err = parseOptionalDate(req.Date); err != nil {
		return nil, nil, appErrors.Clone(appErrors.ErrValidation, "invalid date, expected YYYY-MM-DD")
	}
	if filter.DateFrom, err = parseOptionalDate(req.DateFrom); err != nil {
		return nil, nil, appErrors.Clone(appErrors.ErrValidation, "invalid dateFrom, expected YYYY-MM-DD")
	}
	if filter.DateTo, err = parseOptionalDate(req.DateTo); err != nil {
		return nil, nil, appErrors.Clone(appErrors.ErrValidation, "invalid dateTo, expected YYYY-MM-DD")
	}
	if req.Status != "" {
		status := models.AttendanceStatus(strings.ToUpper(req.Status))
		if !status.Valid() {
			return nil, nil, appErrors.Clone(appErrors.ErrValidation, "invalid status")
		}
		filter.Status = &status
	}

	filter.Page = req.Page
	if filter.Page < 1 {
		filter.Page = 1
	}
	filter.PageSize = req.PageSize
	if filter.PageSize <= 0 {
		filter.PageSize = 50
	}

	rows, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list attendance")
	}
	pagination := &models.Pagination{Page: filter.Page, PageSize: filter.PageSize, TotalCount: total}
	return rows, pagination, nil
}

func parseOptionalDate(raw string) (*time.Time, error) {
	if raw == "" {
		return nil, nil
	}
	parsed, err := time.Parse("2006-01-02", raw)
	if err != nil {
		return nil, err
	}
	d := models.DateOf(parsed)
	return &d, nil
}
