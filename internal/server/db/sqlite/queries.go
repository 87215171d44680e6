package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/ccheshirecat/folio/internal/server/db"
)

var timestampLayouts = []string{
	"2006-01-02 15:04:05",
	time.RFC3339,
	time.RFC3339Nano,
}

// executor abstracts *sql.DB and *sql.Tx for shared query logic.
type executor interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

type queries struct {
	exec executor
}

var _ db.Queries = (*queries)(nil)

func (q *queries) Messages() db.MessageRepository {
	return &messageRepository{exec: q.exec}
}

type messageRepository struct {
	exec executor
}

var _ db.MessageRepository = (*messageRepository)(nil)

type rowScanner interface {
	Scan(dest ...any) error
}

const messageColumns = `id, name, email, body, recipient, status, remote_ip, created_at, updated_at`

func (r *messageRepository) Create(ctx context.Context, msg *db.ContactMessage) (int64, error) {
	status := msg.Status
	if status == "" {
		status = db.MessageStatusReceived
	}
	res, err := r.exec.ExecContext(
		ctx,
		`INSERT INTO contact_messages (name, email, body, recipient, status, remote_ip)
         VALUES (?, ?, ?, ?, ?, ?);`,
		msg.Name,
		msg.Email,
		msg.Body,
		nullableString(msg.Recipient),
		string(status),
		nullableString(msg.RemoteIP),
	)
	if err != nil {
		return 0, fmt.Errorf("insert contact message: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("contact message last insert id: %w", err)
	}
	return id, nil
}

func (r *messageRepository) Get(ctx context.Context, id int64) (*db.ContactMessage, error) {
	row := r.exec.QueryRowContext(ctx, `SELECT `+messageColumns+` FROM contact_messages WHERE id = ?;`, id)
	msg, err := scanMessage(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, db.ErrMessageNotFound
		}
		return nil, err
	}
	return &msg, nil
}

func (r *messageRepository) List(ctx context.Context, limit int) ([]db.ContactMessage, error) {
	if limit <= 0 {
		limit = -1
	}
	rows, err := r.exec.QueryContext(ctx, `SELECT `+messageColumns+` FROM contact_messages ORDER BY id DESC LIMIT ?;`, limit)
	if err != nil {
		return nil, fmt.Errorf("list contact messages: %w", err)
	}
	defer rows.Close()

	var messages []db.ContactMessage
	for rows.Next() {
		msg, err := scanMessage(rows)
		if err != nil {
			return nil, err
		}
		messages = append(messages, msg)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate contact messages: %w", err)
	}
	return messages, nil
}

func (r *messageRepository) UpdateStatus(ctx context.Context, id int64, status db.MessageStatus) error {
	res, err := r.exec.ExecContext(ctx, `UPDATE contact_messages SET status = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ?;`, string(status), id)
	if err != nil {
		return fmt.Errorf("update contact message status: %w", err)
	}
	return requireAffected(res)
}

func (r *messageRepository) Delete(ctx context.Context, id int64) error {
	res, err := r.exec.ExecContext(ctx, `DELETE FROM contact_messages WHERE id = ?;`, id)
	if err != nil {
		return fmt.Errorf("delete contact message: %w", err)
	}
	return requireAffected(res)
}

func requireAffected(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if n == 0 {
		return db.ErrMessageNotFound
	}
	return nil
}

func scanMessage(row rowScanner) (db.ContactMessage, error) {
	var (
		msg        db.ContactMessage
		recipient  sql.NullString
		status     string
		remoteIP   sql.NullString
		createdRaw any
		updatedRaw any
	)

	if err := row.Scan(
		&msg.ID,
		&msg.Name,
		&msg.Email,
		&msg.Body,
		&recipient,
		&status,
		&remoteIP,
		&createdRaw,
		&updatedRaw,
	); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return db.ContactMessage{}, err
		}
		return db.ContactMessage{}, fmt.Errorf("scan contact message: %w", err)
	}

	msg.Recipient = recipient.String
	msg.Status = db.MessageStatus(status)
	msg.RemoteIP = remoteIP.String

	created, err := coerceTime(createdRaw)
	if err != nil {
		return db.ContactMessage{}, fmt.Errorf("parse created_at: %w", err)
	}
	updated, err := coerceTime(updatedRaw)
	if err != nil {
		return db.ContactMessage{}, fmt.Errorf("parse updated_at: %w", err)
	}
	msg.CreatedAt = created
	msg.UpdatedAt = updated
	return msg, nil
}

func nullableString(v string) any {
	if v == "" {
		return nil
	}
	return v
}

func coerceTime(value any) (time.Time, error) {
	switch v := value.(type) {
	case time.Time:
		return v.UTC(), nil
	case string:
		return parseTimestamp(v)
	case []byte:
		return parseTimestamp(string(v))
	case nil:
		return time.Time{}, nil
	default:
		return time.Time{}, fmt.Errorf("unsupported time type %T", value)
	}
}

func parseTimestamp(s string) (time.Time, error) {
	for _, layout := range timestampLayouts {
		if t, err := time.ParseInLocation(layout, s, time.UTC); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognised time format: %q", s)
}
