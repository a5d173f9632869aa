package service

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/sekolahdev/presensi-api/internal/dto"
	"github.com/sekolahdev/presensi-api/internal/models"
	"github.com/sekolahdev/presensi-api/pkg/clock"
	appErrors "github.com/sekolahdev/presensi-api/pkg/errors"
)

// Classify maps a scan timestamp onto an attendance status against the rule's
// check-in window. Only the time-of-day component matters. A scan inside
// [CheckInStart, CheckInEnd] is PRESENT; anything else is LATE — a scan that
// slipped past the rule's applicability check must never be silently marked
// present.
func Classify(scanAt time.Time, rule *models.AttendanceRule) models.AttendanceStatus {
	tod := models.TimeOfDayOf(scanAt)
	if tod >= rule.CheckInStart && tod <= rule.CheckInEnd {
		return models.AttendanceStatusPresent
	}
	return models.AttendanceStatusLate
}

type directoryLookup interface {
	FindAttendeeByBadge(ctx context.Context, badgeID string) (models.Attendee, error)
	FindDevice(ctx context.Context, id string) (*models.Device, error)
}

type attendanceStore interface {
	FindByAttendeeAndDate(ctx context.Context, attendeeID string, date time.Time) (*models.AttendanceRecord, error)
	InsertCheckIn(ctx context.Context, record *models.AttendanceRecord) (*models.AttendanceRecord, error)
	SetCheckOut(ctx context.Context, attendeeID string, date time.Time, at time.Time) (*models.AttendanceRecord, error)
}

type ruleResolver interface {
	Resolve(ctx context.Context, groupID *string, when time.Time) (*models.AttendanceRule, error)
}

// ScanService advances an attendee's daily record through the
// NONE → CHECKED_IN → CHECKED_OUT state machine.
type ScanService struct {
	directory  directoryLookup
	attendance attendanceStore
	rules      ruleResolver
	validator  *validator.Validate
	clock      clock.Clock
	logger     *zap.Logger
	metrics    *MetricsService
}

// NewScanService constructs the scan processor.
func NewScanService(directory directoryLookup, attendance attendanceStore, rules ruleResolver, validate *validator.Validate, clk clock.Clock, logger *zap.Logger, metrics *MetricsService) *ScanService {
	if validate == nil {
		validate = validator.New()
	}
	if clk == nil {
		clk = clock.System{}
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	svc := &ScanService{
		directory:  directory,
		attendance: attendance,
		rules:      rules,
		validator:  validate,
		clock:      clk,
		logger:     logger,
		metrics:    metrics,
	}
	svc.validator.RegisterValidation("scan_event", func(fl validator.FieldLevel) bool {
		v := fl.Field().String()
		return v == dto.ScanEventIn || v == dto.ScanEventOut
	})
	return svc
}

// ProcessScan handles one device scan event. The transition is decided by the
// resolved rule's windows, not by the device-reported event type: devices in
// the field emit a single scan stream and the checkout-window boundary is
// what separates a duplicate check-in from a check-out.
func (s *ScanService) ProcessScan(ctx context.Context, req dto.ScanRequest) (*dto.ScanResult, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid scan payload")
	}

	scanAt := s.clock.Now()
	if req.Timestamp != "" {
		parsed, err := time.Parse(time.RFC3339, req.Timestamp)
		if err != nil {
			return nil, appErrors.Clone(appErrors.ErrValidation, "invalid timestamp, expected RFC3339")
		}
		scanAt = parsed
	}

	attendee, err := s.directory.FindAttendeeByBadge(ctx, req.BadgeID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrUnknownBadge, "")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "directory lookup failed")
	}

	device, err := s.directory.FindDevice(ctx, req.DeviceID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "device is not registered")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "device lookup failed")
	}
	if !device.Active {
		return nil, appErrors.Clone(appErrors.ErrDeviceInactive, "")
	}

	rule, err := s.rules.Resolve(ctx, attendee.Group(), scanAt)
	if err != nil {
		return nil, err
	}

	existing, err := s.attendance.FindByAttendeeAndDate(ctx, attendee.AttendeeID(), scanAt)
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load attendance record")
	}

	if existing == nil {
		return s.checkIn(ctx, attendee, device, rule, scanAt)
	}
	return s.checkOut(ctx, attendee, existing, rule, scanAt)
}

func (s *ScanService) checkIn(ctx context.Context, attendee models.Attendee, device *models.Device, rule *models.AttendanceRule, scanAt time.Time) (*dto.ScanResult, error) {
	status := Classify(scanAt, rule)
	deviceID := device.ID
	record := &models.AttendanceRecord{
		AttendeeID: attendee.AttendeeID(),
		Date:       scanAt,
		Status:     status,
		CheckInAt:  &scanAt,
		DeviceID:   &deviceID,
	}

	stored, err := s.attendance.InsertCheckIn(ctx, record)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to store check-in")
	}
	if stored == nil {
		// Lost the create race: a concurrent first scan already made the row.
		s.metrics.ObserveScanConflict(appErrors.ErrAlreadyCheckedIn.Code)
		return nil, appErrors.Clone(appErrors.ErrAlreadyCheckedIn, "")
	}

	s.metrics.ObserveScan(status, dto.TransitionCheckedIn)
	s.logger.Info("scan accepted",
		zap.String("attendee_id", attendee.AttendeeID()),
		zap.String("status", string(status)),
		zap.String("device_id", deviceID))

	return &dto.ScanResult{
		AttendeeID:   attendee.AttendeeID(),
		AttendeeName: attendee.DisplayName(),
		Date:         stored.Date.Format("2006-01-02"),
		Transition:   dto.TransitionCheckedIn,
		Status:       stored.Status,
		CheckInAt:    stored.CheckInAt,
		Event: &dto.ScanAccepted{
			AttendeeID:   attendee.AttendeeID(),
			AttendeeName: attendee.DisplayName(),
			GroupID:      attendee.Group(),
			DeviceID:     deviceID,
			Status:       status,
			ScannedAt:    scanAt,
		},
	}, nil
}

func (s *ScanService) checkOut(ctx context.Context, attendee models.Attendee, existing *models.AttendanceRecord, rule *models.AttendanceRule, scanAt time.Time) (*dto.ScanResult, error) {
	if existing.Completed() {
		s.metrics.ObserveScanConflict(appErrors.ErrAlreadyCompleted.Code)
		return nil, appErrors.Clone(appErrors.ErrAlreadyCompleted, "")
	}

	// Compare time-of-day only so a scan near midnight cannot jump the
	// date boundary into the wrong transition.
	if models.TimeOfDayOf(scanAt) < rule.CheckOutStart {
		s.metrics.ObserveScanConflict(appErrors.ErrAlreadyCheckedIn.Code)
		return nil, appErrors.Clone(appErrors.ErrAlreadyCheckedIn, "")
	}

	stored, err := s.attendance.SetCheckOut(ctx, attendee.AttendeeID(), existing.Date, scanAt)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to store check-out")
	}
	if stored == nil {
		s.metrics.ObserveScanConflict(appErrors.ErrAlreadyCompleted.Code)
		return nil, appErrors.Clone(appErrors.ErrAlreadyCompleted, "")
	}

	// Status stays as classified at check-in; check-out never re-classifies.
	s.metrics.ObserveScan(stored.Status, dto.TransitionCheckedOut)
	return &dto.ScanResult{
		AttendeeID:   attendee.AttendeeID(),
		AttendeeName: attendee.DisplayName(),
		Date:         stored.Date.Format("2006-01-02"),
		Transition:   dto.TransitionCheckedOut,
		Status:       stored.Status,
		CheckInAt:    stored.CheckInAt,
		CheckOutAt:   stored.CheckOutAt,
	}, nil
}
