package registration

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"
)

// MemberRecord is what the guild knows about a registered member.
type MemberRecord struct {
	MemberID             string
	StudentID            string
	FirstName            string
	LastName             string
	NonStudentReason     string
	AnotherAccountReason string
	RegisteredAt         time.Time
	UpdatedAt            time.Time
}

func (r MemberRecord) FullName() string {
	switch {
	case r.FirstName == "":
		return r.LastName
	case r.LastName == "":
		return r.FirstName
	}
	return r.FirstName + " " + r.LastName
}

type MemberStore interface {
	Get(ctx context.Context, memberID string) (MemberRecord, error)
	Save(ctx context.Context, rec MemberRecord) error
	FindByStudentID(ctx context.Context, studentID string) ([]MemberRecord, error)
	List(ctx context.Context) ([]MemberRecord, error)
}

// SQLiteMemberStore reads and writes the registered_members table.
type SQLiteMemberStore struct {
	db *sql.DB
}

func NewSQLiteMemberStore(db *sql.DB) *SQLiteMemberStore {
	return &SQLiteMemberStore{db: db}
}

const memberColumns = `member_id, student_id, first_name, last_name, non_student_reason, another_account_reason, registered_at, updated_at`

func (s *SQLiteMemberStore) Get(ctx context.Context, memberID string) (MemberRecord, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+memberColumns+` FROM registered_members WHERE member_id = ?`, memberID)
	rec, err := scanMember(row)
	if errors.Is(err, sql.ErrNoRows) {
		return MemberRecord{}, fmt.Errorf("%w: %s", ErrMemberNotFound, memberID)
	}
	return rec, err
}

// Save inserts the record or replaces every editable field of an existing one.
func (s *SQLiteMemberStore) Save(ctx context.Context, rec MemberRecord) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO registered_members (member_id, student_id, first_name, last_name, non_student_reason, another_account_reason, registered_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, CURRENT_TIMESTAMP, CURRENT_TIMESTAMP)
		ON CONFLICT(member_id) DO UPDATE SET
			student_id = excluded.student_id,
			first_name = excluded.first_name,
			last_name = excluded.last_name,
			non_student_reason = excluded.non_student_reason,
			another_account_reason = excluded.another_account_reason,
			updated_at = CURRENT_TIMESTAMP
	`, rec.MemberID, rec.StudentID, rec.FirstName, rec.LastName, rec.NonStudentReason, rec.AnotherAccountReason)
	return err
}

func (s *SQLiteMemberStore) FindByStudentID(ctx context.Context, studentID string) ([]MemberRecord, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT `+memberColumns+` FROM registered_members WHERE student_id = ? ORDER BY member_id`, studentID)
	if err != nil {
		return nil, err
	}
	return collectMembers(rows)
}

func (s *SQLiteMemberStore) List(ctx context.Context) ([]MemberRecord, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT `+memberColumns+` FROM registered_members ORDER BY member_id`)
	if err != nil {
		return nil, err
	}
	return collectMembers(rows)
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanMember(row rowScanner) (MemberRecord, error) {
	var rec MemberRecord
	var registeredAt, updatedAt sql.NullTime
	err := row.Scan(&rec.MemberID, &rec.StudentID, &rec.FirstName, &rec.LastName,
		&rec.NonStudentReason, &rec.AnotherAccountReason, &registeredAt, &updatedAt)
	if err != nil {
		return MemberRecord{}, err
	}
	rec.RegisteredAt = registeredAt.Time
	rec.UpdatedAt = updatedAt.Time
	return rec, nil
}

func collectMembers(rows *sql.Rows) ([]MemberRecord, error) {
	defer rows.Close()

	var out []MemberRecord
	for rows.Next() {
		rec, err := scanMember(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}
