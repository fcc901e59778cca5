package store

import (
	"database/sql"
	"fmt"

	"github.com/hyunwoopark/meritpoint/internal/model"
)

type RedemptionStore struct {
	db *sql.DB
}

func NewRedemptionStore(db *sql.DB) *RedemptionStore {
	return &RedemptionStore{db: db}
}

// CreateIfAffordable records a redemption only if the user's spendable
// balance (approved merit plus demerit minus prior redemptions) covers the
// value. The balance check and the insert are one statement, so concurrent
// redeemers for the same user cannot jointly overdraw: SQLite serializes
// writers, and the loser's subquery already sees the winner's row. Returns
// false when the balance was insufficient.
func (s *RedemptionStore) CreateIfAffordable(userID, recordedBy string, value int, reason string) (bool, error) {
	result, err := s.db.Exec(
		`INSERT INTO redemptions (user_id, recorded_by, value, reason)
		 SELECT ?, ?, ?, ?
		 WHERE (SELECT COALESCE(SUM(value), 0) FROM points WHERE receiver_id = ? AND status = 'approved')
		     - (SELECT COALESCE(SUM(value), 0) FROM redemptions WHERE user_id = ?) >= ?`,
		userID, recordedBy, value, reason,
		userID, userID, value,
	)
	if err != nil {
		return false, fmt.Errorf("insert redemption: %w", err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("rows affected: %w", err)
	}
	return n > 0, nil
}

// SumByUser returns the total value redeemed by the user.
func (s *RedemptionStore) SumByUser(userID string) (int, error) {
	var total int
	err := s.db.QueryRow(
		`SELECT COALESCE(SUM(value), 0) FROM redemptions WHERE user_id = ?`,
		userID,
	).Scan(&total)
	if err != nil {
		return 0, fmt.Errorf("sum redemptions: %w", err)
	}
	return total, nil
}

// ListByUser returns the user's redemptions, most recent first, with the
// recorder's display name resolved.
func (s *RedemptionStore) ListByUser(userID string) ([]model.Redemption, error) {
	rows, err := s.db.Query(
		`SELECT u.id, u.user_id, u.recorded_by, u.value, u.reason, u.created_at, COALESCE(a.name, u.recorded_by)
		 FROM redemptions u
		 LEFT JOIN actors a ON a.sn = u.recorded_by
		 WHERE u.user_id = ?
		 ORDER BY u.created_at DESC, u.id DESC`,
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("list redemptions: %w", err)
	}
	defer rows.Close()

	var redemptions []model.Redemption
	for rows.Next() {
		var r model.Redemption
		if err := rows.Scan(&r.ID, &r.UserID, &r.RecordedBy, &r.Value, &r.Reason, &r.CreatedAt, &r.RecorderName); err != nil {
			return nil, fmt.Errorf("scan redemption: %w", err)
		}
		redemptions = append(redemptions, r)
	}
	return redemptions, rows.Err()
}
