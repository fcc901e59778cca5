package store

import (
	"database/sql"
	"fmt"

	"github.com/hyunwoopark/meritpoint/internal/model"
)

type ActorStore struct {
	db *sql.DB
}

func NewActorStore(db *sql.DB) *ActorStore {
	return &ActorStore{db: db}
}

const actorCols = `sn, name, role, unit, verified_at, rejected_at, deleted_at, created_at`

func scanActor(scanner interface{ Scan(...any) error }) (*model.Actor, error) {
	var a model.Actor
	var unit sql.NullString
	var verifiedAt, rejectedAt, deletedAt sql.NullTime

	err := scanner.Scan(&a.SN, &a.Name, &a.Role, &unit, &verifiedAt, &rejectedAt, &deletedAt, &a.CreatedAt)
	if err != nil {
		return nil, err
	}

	if unit.Valid {
		u := model.Unit(unit.String)
		a.Unit = &u
	}
	if verifiedAt.Valid {
		a.VerifiedAt = &verifiedAt.Time
	}
	if rejectedAt.Valid {
		a.RejectedAt = &rejectedAt.Time
	}
	if deletedAt.Valid {
		a.DeletedAt = &deletedAt.Time
	}
	return &a, nil
}

// Create registers an unverified actor. Verification happens through the
// administrative workflow before the actor can use the API.
func (s *ActorStore) Create(sn, name string, role model.Role) (*model.Actor, error) {
	_, err := s.db.Exec(
		`INSERT INTO actors (sn, name, role) VALUES (?, ?, ?)`,
		sn, name, role,
	)
	if err != nil {
		return nil, fmt.Errorf("insert actor: %w", err)
	}
	return s.GetBySN(sn)
}

// GetBySN returns the actor with its capability set, or nil when absent.
func (s *ActorStore) GetBySN(sn string) (*model.Actor, error) {
	row := s.db.QueryRow(`SELECT `+actorCols+` FROM actors WHERE sn = ?`, sn)
	a, err := scanActor(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get actor: %w", err)
	}

	rows, err := s.db.Query(`SELECT value FROM capabilities WHERE actor_sn = ?`, sn)
	if err != nil {
		return nil, fmt.Errorf("get capabilities: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var c model.Capability
		if err := rows.Scan(&c); err != nil {
			return nil, fmt.Errorf("scan capability: %w", err)
		}
		a.Capabilities = append(a.Capabilities, c)
	}
	return a, rows.Err()
}

// SetCapabilities replaces the actor's capability set in one transaction.
func (s *ActorStore) SetCapabilities(sn string, caps []model.Capability) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec(`DELETE FROM capabilities WHERE actor_sn = ?`, sn); err != nil {
		return fmt.Errorf("clear capabilities: %w", err)
	}

	stmt, err := tx.Prepare(`INSERT INTO capabilities (actor_sn, value) VALUES (?, ?)`)
	if err != nil {
		return fmt.Errorf("prepare stmt: %w", err)
	}
	defer stmt.Close()

	for _, c := range caps {
		if _, err := stmt.Exec(sn, c); err != nil {
			return fmt.Errorf("insert capability %s: %w", c, err)
		}
	}

	return tx.Commit()
}

// Verify marks the actor verified or rejected. The two markers are mutually
// exclusive; setting one clears the other.
func (s *ActorStore) Verify(sn string, approve bool) error {
	var query string
	if approve {
		query = `UPDATE actors SET verified_at = CURRENT_TIMESTAMP, rejected_at = NULL WHERE sn = ?`
	} else {
		query = `UPDATE actors SET rejected_at = CURRENT_TIMESTAMP, verified_at = NULL WHERE sn = ?`
	}
	if _, err := s.db.Exec(query, sn); err != nil {
		return fmt.Errorf("verify actor: %w", err)
	}
	return nil
}

// SetDeleted soft-deletes or restores the actor.
func (s *ActorStore) SetDeleted(sn string, deleted bool) error {
	var query string
	if deleted {
		query = `UPDATE actors SET deleted_at = CURRENT_TIMESTAMP WHERE sn = ?`
	} else {
		query = `UPDATE actors SET deleted_at = NULL WHERE sn = ?`
	}
	if _, err := s.db.Exec(query, sn); err != nil {
		return fmt.Errorf("set actor deleted: %w", err)
	}
	return nil
}

// SetUnit changes the actor's unit affiliation. A nil unit clears it.
func (s *ActorStore) SetUnit(sn string, unit *model.Unit) error {
	var u sql.NullString
	if unit != nil {
		u = sql.NullString{String: string(*unit), Valid: true}
	}
	if _, err := s.db.Exec(`UPDATE actors SET unit = ? WHERE sn = ?`, u, sn); err != nil {
		return fmt.Errorf("set actor unit: %w", err)
	}
	return nil
}

// ListCommanders returns actors holding the Commander capability, for
// approver selection.
func (s *ActorStore) ListCommanders() ([]model.ActorRef, error) {
	rows, err := s.db.Query(
		`SELECT a.sn, a.name, a.unit
		 FROM actors a
		 INNER JOIN capabilities c ON c.actor_sn = a.sn
		 WHERE c.value = ? AND a.deleted_at IS NULL
		 ORDER BY a.name ASC`,
		model.CapCommander,
	)
	if err != nil {
		return nil, fmt.Errorf("list commanders: %w", err)
	}
	defer rows.Close()

	var refs []model.ActorRef
	for rows.Next() {
		var ref model.ActorRef
		var unit sql.NullString
		if err := rows.Scan(&ref.SN, &ref.Name, &unit); err != nil {
			return nil, fmt.Errorf("scan commander: %w", err)
		}
		if unit.Valid {
			u := model.Unit(unit.String)
			ref.Unit = &u
		}
		refs = append(refs, ref)
	}
	return refs, rows.Err()
}
