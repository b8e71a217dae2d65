package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"portal-backend/internal/domain"
	"portal-backend/internal/repository"
)

const createAccessLogsTable = `
CREATE TABLE IF NOT EXISTS access_logs (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	user_id INTEGER NULL REFERENCES users(id) ON DELETE SET NULL,
	access_time DATETIME NOT NULL,
	ip_address TEXT NOT NULL DEFAULT '',
	user_agent TEXT NOT NULL DEFAULT '',
	endpoint TEXT NULL,
	method TEXT NULL,
	status_code INTEGER NULL
);
CREATE INDEX IF NOT EXISTS idx_access_logs_access_time ON access_logs(access_time);
CREATE INDEX IF NOT EXISTS idx_access_logs_user_id ON access_logs(user_id);
`

const selectAccessLogEntry = `
SELECT a.id, a.user_id, a.access_time, a.ip_address, a.user_agent, a.endpoint, a.method, a.status_code, u.username, u.email
FROM access_logs a
LEFT OUTER JOIN users u ON u.id = a.user_id`

// group columns are never taken from user input verbatim
var accessLogGroupColumns = map[domain.AccessLogGroup]string{
	domain.AccessLogGroupEndpoint: "endpoint",
	domain.AccessLogGroupMethod:   "method",
	domain.AccessLogGroupStatus:   "status_code",
}

type AccessLogRepository struct {
	db  *sql.DB
	now func() time.Time
}

func NewAccessLogRepository(db *sql.DB) repository.AccessLogRepository {
	return &AccessLogRepository{db: db, now: time.Now}
}

func (r *AccessLogRepository) Init(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, createAccessLogsTable); err != nil {
		return fmt.Errorf("create access_logs table: %w", err)
	}
	return nil
}

func (r *AccessLogRepository) Create(ctx context.Context, log *domain.AccessLog) (int64, error) {
	log.AccessTime = r.now().UTC()

	res, err := r.db.ExecContext(ctx, `
INSERT INTO access_logs (user_id, access_time, ip_address, user_agent, endpoint, method, status_code)
VALUES (?, ?, ?, ?, ?, ?, ?)`,
		nullInt64(log.UserID),
		log.AccessTime,
		log.IPAddress,
		log.UserAgent,
		nullString(log.Endpoint),
		nullString(log.Method),
		nullInt(log.StatusCode),
	)
	if err != nil {
		if isForeignKeyViolation(err) {
			return 0, fmt.Errorf("access log user: %w", domain.ErrNotFound)
		}
		return 0, fmt.Errorf("insert access log: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("access log last insert id: %w", err)
	}
	log.ID = id
	return id, nil
}

func (r *AccessLogRepository) Delete(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM access_logs WHERE id=?`, id)
	if err != nil {
		return fmt.Errorf("delete access log: %w", err)
	}
	return expectAffected(res, "access log", id)
}

func (r *AccessLogRepository) Get(ctx context.Context, id int64) (*domain.AccessLog, error) {
	entry, err := scanAccessLogEntry(r.db.QueryRowContext(ctx, selectAccessLogEntry+` WHERE a.id = ?`, id))
	if err != nil {
		return nil, err
	}
	return &entry.AccessLog, nil
}

func (r *AccessLogRepository) ListRecent(ctx context.Context, skip, limit int) ([]domain.AccessLogEntry, error) {
	rows, err := r.db.QueryContext(ctx, selectAccessLogEntry+`
ORDER BY a.access_time DESC, a.id DESC
LIMIT ? OFFSET ?`, limit, skip)
	if err != nil {
		return nil, fmt.Errorf("list recent access logs: %w", err)
	}
	return collectAccessLogEntries(rows)
}

func (r *AccessLogRepository) ListByUser(ctx context.Context, userID int64, skip, limit int) ([]domain.AccessLogEntry, error) {
	rows, err := r.db.QueryContext(ctx, selectAccessLogEntry+`
WHERE a.user_id = ?
ORDER BY a.access_time DESC, a.id DESC
LIMIT ? OFFSET ?`, userID, limit, skip)
	if err != nil {
		return nil, fmt.Errorf("list user access logs: %w", err)
	}
	return collectAccessLogEntries(rows)
}

func (r *AccessLogRepository) CountSince(ctx context.Context, since time.Time) (int64, error) {
	return count(r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM access_logs WHERE access_time >= ?`, since.UTC()), "recent access logs")
}

func (r *AccessLogRepository) CountBy(ctx context.Context, group domain.AccessLogGroup) (map[string]int64, error) {
	column, ok := accessLogGroupColumns[group]
	if !ok {
		return nil, fmt.Errorf("unknown access log group %q: %w", group, domain.ErrInvalid)
	}

	rows, err := r.db.QueryContext(ctx, fmt.Sprintf(`
SELECT CAST(%[1]s AS TEXT), COUNT(id)
FROM access_logs
WHERE %[1]s IS NOT NULL
GROUP BY %[1]s`, column))
	if err != nil {
		return nil, fmt.Errorf("count access logs by %s: %w", column, err)
	}
	defer rows.Close()

	tally := make(map[string]int64)
	for rows.Next() {
		var (
			key string
			n   int64
		)
		if err := rows.Scan(&key, &n); err != nil {
			return nil, fmt.Errorf("scan access log tally: %w", err)
		}
		tally[key] = n
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate access log tally: %w", err)
	}
	return tally, nil
}

func collectAccessLogEntries(rows *sql.Rows) ([]domain.AccessLogEntry, error) {
	defer rows.Close()

	entries := []domain.AccessLogEntry{}
	for rows.Next() {
		entry, err := scanAccessLogEntry(rows)
		if err != nil {
			return nil, err
		}
		entries = append(entries, *entry)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate access logs: %w", err)
	}
	return entries, nil
}

func scanAccessLogEntry(row scanner) (*domain.AccessLogEntry, error) {
	var (
		entry      domain.AccessLogEntry
		userID     sql.NullInt64
		endpoint   sql.NullString
		method     sql.NullString
		statusCode sql.NullInt64
		username   sql.NullString
		email      sql.NullString
	)
	if err := row.Scan(
		&entry.ID,
		&userID,
		&entry.AccessTime,
		&entry.IPAddress,
		&entry.UserAgent,
		&endpoint,
		&method,
		&statusCode,
		&username,
		&email,
	); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("access log: %w", domain.ErrNotFound)
		}
		return nil, fmt.Errorf("scan access log: %w", err)
	}
	entry.UserID = int64Ptr(userID)
	entry.Endpoint = stringPtr(endpoint)
	entry.Method = stringPtr(method)
	entry.StatusCode = intPtr(statusCode)
	entry.Username = stringPtr(username)
	entry.Email = stringPtr(email)
	return &entry, nil
}
