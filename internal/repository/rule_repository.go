package repository

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/sekolahdev/presensi-api/internal/models"
)

// RuleRepository handles persistence for attendance rules. Rules are written
// by the configuration surface and read-only here.
type RuleRepository struct {
	db *sqlx.DB
}

// NewRuleRepository constructs the repository.
func NewRuleRepository(db *sqlx.DB) *RuleRepository {
	return &RuleRepository{db: db}
}

const ruleColumns = `id, group_id, date_override, weekdays, check_in_start, check_in_end, check_out_start, check_out_end, created_at, updated_at`

// ListByGroup returns every rule for the group, newest first so that a more
// recently configured rule wins ties. A nil group selects group-less rules.
func (r *RuleRepository) ListByGroup(ctx context.Context, groupID *string) ([]models.AttendanceRule, error) {
	var rules []models.AttendanceRule
	if groupID == nil {
		query := fmt.Sprintf(`SELECT %s FROM attendance_rules WHERE group_id IS NULL ORDER BY created_at DESC`, ruleColumns)
		if err := r.db.SelectContext(ctx, &rules, query); err != nil {
			return nil, fmt.Errorf("list group-less attendance rules: %w", err)
		}
		return rules, nil
	}
	query := fmt.Sprintf(`SELECT %s FROM attendance_rules WHERE group_id = $1 ORDER BY created_at DESC`, ruleColumns)
	if err := r.db.SelectContext(ctx, &rules, query, *groupID); err != nil {
		return nil, fmt.Errorf("list attendance rules for group %s: %w", *groupID, err)
	}
	return rules, nil
}
