package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/sekolahdev/presensi-api/internal/models"
)

// DirectoryRepository resolves device-reported identifiers against the
// attendee directory. The directory itself is owned externally; this is a
// read-only lookup.
type DirectoryRepository struct {
	db *sqlx.DB
}

// NewDirectoryRepository constructs the repository.
func NewDirectoryRepository(db *sqlx.DB) *DirectoryRepository {
	return &DirectoryRepository{db: db}
}

// FindAttendeeByBadge resolves a badge to a student or teacher adapter.
// Students are checked first; returns sql.ErrNoRows when no match exists.
func (r *DirectoryRepository) FindAttendeeByBadge(ctx context.Context, badgeID string) (models.Attendee, error) {
	var student models.Student
	err := r.db.GetContext(ctx, &student,
		`SELECT id, full_name, class_id, badge_id, active, created_at FROM students WHERE badge_id = $1 AND active`, badgeID)
	if err == nil {
		return &student, nil
	}
	if err != sql.ErrNoRows {
		return nil, fmt.Errorf("find student by badge: %w", err)
	}

	var teacher models.Teacher
	err = r.db.GetContext(ctx, &teacher,
		`SELECT id, full_name, badge_id, active, created_at FROM teachers WHERE badge_id = $1 AND active`, badgeID)
	if err == nil {
		return &teacher, nil
	}
	if err != sql.ErrNoRows {
		return nil, fmt.Errorf("find teacher by badge: %w", err)
	}
	return nil, sql.ErrNoRows
}

// FindAttendeeByID resolves a directory identifier to a student or teacher
// adapter. Returns sql.ErrNoRows when no match exists.
func (r *DirectoryRepository) FindAttendeeByID(ctx context.Context, id string) (models.Attendee, error) {
	var student models.Student
	err := r.db.GetContext(ctx, &student,
		`SELECT id, full_name, class_id, badge_id, active, created_at FROM students WHERE id = $1`, id)
	if err == nil {
		return &student, nil
	}
	if err != sql.ErrNoRows {
		return nil, fmt.Errorf("find student by id: %w", err)
	}

	var teacher models.Teacher
	err = r.db.GetContext(ctx, &teacher,
		`SELECT id, full_name, badge_id, active, created_at FROM teachers WHERE id = $1`, id)
	if err == nil {
		return &teacher, nil
	}
	if err != sql.ErrNoRows {
		return nil, fmt.Errorf("find teacher by id: %w", err)
	}
	return nil, sql.ErrNoRows
}

// FindDevice loads a device by identifier. Returns sql.ErrNoRows when absent.
func (r *DirectoryRepository) FindDevice(ctx context.Context, id string) (*models.Device, error) {
	var device models.Device
	err := r.db.GetContext(ctx, &device,
		`SELECT id, name, location, active, created_at FROM devices WHERE id = $1`, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("find device: %w", err)
	}
	return &device, nil
}
