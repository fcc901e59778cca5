package store

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/hyunwoopark/meritpoint/internal/model"
)

type PointStore struct {
	db *sql.DB
}

func NewPointStore(db *sql.DB) *PointStore {
	return &PointStore{db: db}
}

// CreatePointParams carries a fully-resolved entry: the lifecycle manager
// decides giver/receiver/approver and the initial status before calling
// Create.
type CreatePointParams struct {
	GiverID    string
	ReceiverID string
	ApproverID string
	Value      int
	Reason     string
	GivenAt    time.Time
	Status     model.PointStatus
	ApprovedAt *time.Time
}

const pointCols = `p.id, p.giver_id, p.receiver_id, p.approver_id, p.value, p.reason, p.given_at, p.created_at, p.status, p.approved_at, p.rejected_at, p.rejected_reason`

func scanPoint(scanner interface{ Scan(...any) error }) (*model.Point, error) {
	var p model.Point
	var approvedAt, rejectedAt sql.NullTime
	var rejectedReason, giverName, receiverName sql.NullString

	err := scanner.Scan(
		&p.ID, &p.GiverID, &p.ReceiverID, &p.ApproverID, &p.Value, &p.Reason,
		&p.GivenAt, &p.CreatedAt, &p.Status, &approvedAt, &rejectedAt, &rejectedReason,
		&giverName, &receiverName,
	)
	if err != nil {
		return nil, err
	}

	if approvedAt.Valid {
		p.ApprovedAt = &approvedAt.Time
	}
	if rejectedAt.Valid {
		p.RejectedAt = &rejectedAt.Time
	}
	if rejectedReason.Valid {
		p.RejectedReason = &rejectedReason.String
	}
	p.GiverName = giverName.String
	p.ReceiverName = receiverName.String
	return &p, nil
}

func (s *PointStore) Create(params CreatePointParams) (*model.Point, error) {
	var approvedAt sql.NullTime
	if params.ApprovedAt != nil {
		approvedAt = sql.NullTime{Time: *params.ApprovedAt, Valid: true}
	}

	result, err := s.db.Exec(
		`INSERT INTO points (giver_id, receiver_id, approver_id, value, reason, given_at, status, approved_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		params.GiverID, params.ReceiverID, params.ApproverID, params.Value,
		params.Reason, params.GivenAt, params.Status, approvedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("insert point: %w", err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("last insert id: %w", err)
	}
	return s.GetByID(id)
}

func (s *PointStore) GetByID(id int64) (*model.Point, error) {
	row := s.db.QueryRow(
		`SELECT `+pointCols+`, g.name, r.name
		 FROM points p
		 LEFT JOIN actors g ON g.sn = p.giver_id
		 LEFT JOIN actors r ON r.sn = p.receiver_id
		 WHERE p.id = ?`,
		id,
	)
	p, err := scanPoint(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get point: %w", err)
	}
	return p, nil
}

func (s *PointStore) listItems(query string, arg any) ([]model.PointListItem, error) {
	rows, err := s.db.Query(query, arg)
	if err != nil {
		return nil, fmt.Errorf("list points: %w", err)
	}
	defer rows.Close()

	var items []model.PointListItem
	for rows.Next() {
		var it model.PointListItem
		var rejectedReason sql.NullString
		if err := rows.Scan(&it.ID, &it.Status, &rejectedReason, &it.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan point item: %w", err)
		}
		if rejectedReason.Valid {
			it.RejectedReason = &rejectedReason.String
		}
		items = append(items, it)
	}
	return items, rows.Err()
}

// ListByReceiver returns a receiver's entries, most recent first.
func (s *PointStore) ListByReceiver(sn string) ([]model.PointListItem, error) {
	return s.listItems(
		`SELECT id, status, rejected_reason, created_at FROM points WHERE receiver_id = ? ORDER BY created_at DESC, id DESC`,
		sn,
	)
}

// ListByGiver returns a giver's entries, most recent first.
func (s *PointStore) ListByGiver(sn string) ([]model.PointListItem, error) {
	return s.listItems(
		`SELECT id, status, rejected_reason, created_at FROM points WHERE giver_id = ? ORDER BY created_at DESC, id DESC`,
		sn,
	)
}

// ListPendingByApprover returns the pending entries designated to the
// approver, most recently given first. Display names fall back to the raw
// id when the account is gone.
func (s *PointStore) ListPendingByApprover(sn string) ([]model.PendingPoint, error) {
	rows, err := s.db.Query(
		`SELECT p.id, p.value, p.reason, p.given_at,
		        COALESCE(g.name, p.giver_id), COALESCE(r.name, p.receiver_id)
		 FROM points p
		 LEFT JOIN actors g ON g.sn = p.giver_id
		 LEFT JOIN actors r ON r.sn = p.receiver_id
		 WHERE p.approver_id = ? AND p.status = 'pending'
		 ORDER BY p.given_at DESC, p.id DESC`,
		sn,
	)
	if err != nil {
		return nil, fmt.Errorf("list pending points: %w", err)
	}
	defer rows.Close()

	var pending []model.PendingPoint
	for rows.Next() {
		var p model.PendingPoint
		if err := rows.Scan(&p.ID, &p.Value, &p.Reason, &p.GivenAt, &p.Giver, &p.Receiver); err != nil {
			return nil, fmt.Errorf("scan pending point: %w", err)
		}
		pending = append(pending, p)
	}
	return pending, rows.Err()
}

// SetApproved transitions a pending entry to approved. The status predicate
// makes the write conditional: of two concurrent transitions on the same
// entry only one sees a row, the other gets false.
func (s *PointStore) SetApproved(id int64) (bool, error) {
	result, err := s.db.Exec(
		`UPDATE points
		 SET status = 'approved', approved_at = CURRENT_TIMESTAMP, rejected_at = NULL, rejected_reason = NULL
		 WHERE id = ? AND status = 'pending'`,
		id,
	)
	if err != nil {
		return false, fmt.Errorf("approve point: %w", err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("rows affected: %w", err)
	}
	return n > 0, nil
}

// SetRejected transitions a pending entry to rejected with the given reason.
func (s *PointStore) SetRejected(id int64, reason string) (bool, error) {
	result, err := s.db.Exec(
		`UPDATE points
		 SET status = 'rejected', rejected_at = CURRENT_TIMESTAMP, rejected_reason = ?, approved_at = NULL
		 WHERE id = ? AND status = 'pending'`,
		reason, id,
	)
	if err != nil {
		return false, fmt.Errorf("reject point: %w", err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("rows affected: %w", err)
	}
	return n > 0, nil
}

func (s *PointStore) Delete(id int64) error {
	_, err := s.db.Exec(`DELETE FROM points WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete point: %w", err)
	}
	return nil
}

// SumApproved returns the receiver's approved merit (sum of positive values)
// and demerit (sum of negative values, a negative number).
func (s *PointStore) SumApproved(receiverID string) (merit, demerit int, err error) {
	err = s.db.QueryRow(
		`SELECT COALESCE(SUM(value), 0) FROM points WHERE receiver_id = ? AND status = 'approved' AND value > 0`,
		receiverID,
	).Scan(&merit)
	if err != nil {
		return 0, 0, fmt.Errorf("sum merit: %w", err)
	}

	err = s.db.QueryRow(
		`SELECT COALESCE(SUM(value), 0) FROM points WHERE receiver_id = ? AND status = 'approved' AND value < 0`,
		receiverID,
	).Scan(&demerit)
	if err != nil {
		return 0, 0, fmt.Errorf("sum demerit: %w", err)
	}
	return merit, demerit, nil
}

func (s *PointStore) counts(column, sn string) (model.PointCounts, error) {
	rows, err := s.db.Query(
		`SELECT status, COUNT(*) FROM points WHERE `+column+` = ? GROUP BY status`,
		sn,
	)
	if err != nil {
		return model.PointCounts{}, fmt.Errorf("count points: %w", err)
	}
	defer rows.Close()

	var c model.PointCounts
	for rows.Next() {
		var status model.PointStatus
		var n int
		if err := rows.Scan(&status, &n); err != nil {
			return model.PointCounts{}, fmt.Errorf("scan count: %w", err)
		}
		switch status {
		case model.PointApproved:
			c.Approved = n
		case model.PointPending:
			c.Pending = n
		case model.PointRejected:
			c.Rejected = n
		}
	}
	return c, rows.Err()
}

// CountsByGiver returns status counts over entries the actor gave.
func (s *PointStore) CountsByGiver(sn string) (model.PointCounts, error) {
	return s.counts("giver_id", sn)
}

// CountsByReceiver returns status counts over entries the actor received.
func (s *PointStore) CountsByReceiver(sn string) (model.PointCounts, error) {
	return s.counts("receiver_id", sn)
}
