package storage

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"brightdesk-hq/readiness/pkg/assessment"
)

// DeleteChunkSize is the maximum number of ids bound into a single DELETE.
// SQLite limits a statement to 999 host parameters on older builds.
const DeleteChunkSize = 500

// dialect captures what differs between the SQL backends.
type dialect struct {
	// name is the backend name used in StorageError.
	name string

	// placeholder returns the bind marker for the n-th (1-based) argument.
	placeholder func(n int) string

	// unlimited is the LIMIT value meaning "no limit", needed before OFFSET.
	unlimited string

	// selectColumns lists the columns in scan order.
	selectColumns string

	// timeArg converts a timestamp into a created_at argument.
	timeArg func(t time.Time) any

	// newTimeDest returns a scan destination for created_at and a func
	// that converts it back to time.Time.
	newTimeDest func() (any, func() time.Time)
}

// sqlStore implements assessment.Storage on database/sql. The SQLite and
// Postgres backends differ only in their dialect and in how they open and
// migrate the database.
type sqlStore struct {
	db           *sql.DB
	dialect      dialect
	queryTimeout time.Duration
}

func (s *sqlStore) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if s.queryTimeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, s.queryTimeout)
}

func (s *sqlStore) storageError(operation string, err error) error {
	return assessment.NewStorageError(s.dialect.name, operation, err)
}

// Insert stores a new assessment. An existing id yields ErrDuplicateID.
func (s *sqlStore) Insert(ctx context.Context, a *assessment.Assessment) (string, error) {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	p := s.dialect.placeholder
	query := fmt.Sprintf(`
		INSERT INTO assessments (
			id, email, tech_stack, monthly_tickets, ticket_distribution,
			additional_context, report_data, created_at
		) VALUES (%s, %s, %s, %s, %s, %s, %s, %s)
		ON CONFLICT (id) DO NOTHING`,
		p(1), p(2), p(3), p(4), p(5), p(6), p(7), p(8))

	result, err := s.db.ExecContext(ctx, query,
		a.ID, a.Email,
		rawArg(a.TechStack), rawArg(a.MonthlyTickets), rawArg(a.TicketDistribution),
		nullString(a.AdditionalContext), rawArg(a.ReportData),
		s.dialect.timeArg(a.CreatedAt),
	)
	if err != nil {
		return "", s.storageError("insert", err)
	}

	n, err := result.RowsAffected()
	if err != nil {
		return "", s.storageError("insert", err)
	}
	if n == 0 {
		return "", s.storageError("insert", assessment.ErrDuplicateID)
	}

	return a.ID, nil
}

// FindByID returns the assessment with the given id, or (nil, nil).
func (s *sqlStore) FindByID(ctx context.Context, id string) (*assessment.Assessment, error) {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	query := fmt.Sprintf("SELECT %s FROM assessments WHERE id = %s",
		s.dialect.selectColumns, s.dialect.placeholder(1))

	rows, err := s.db.QueryContext(ctx, query, id)
	if err != nil {
		return nil, s.storageError("find_by_id", err)
	}
	defer rows.Close()

	if !rows.Next() {
		if err := rows.Err(); err != nil {
			return nil, s.storageError("find_by_id", err)
		}
		return nil, nil
	}

	a, err := s.scanRow(rows)
	if err != nil {
		return nil, s.storageError("scan", err)
	}
	return a, nil
}

// FindOlderThan returns every assessment created strictly before cutoff,
// oldest first with ties broken by id.
func (s *sqlStore) FindOlderThan(ctx context.Context, cutoff time.Time) ([]*assessment.Assessment, error) {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	query := fmt.Sprintf("SELECT %s FROM assessments WHERE created_at < %s ORDER BY created_at ASC, id ASC",
		s.dialect.selectColumns, s.dialect.placeholder(1))

	return s.queryAll(ctx, "find_older_than", query, s.dialect.timeArg(cutoff))
}

// DeleteByIDs removes the given ids in chunks of DeleteChunkSize.
func (s *sqlStore) DeleteByIDs(ctx context.Context, ids []string) (int64, error) {
	var deleted int64

	for start := 0; start < len(ids); start += DeleteChunkSize {
		end := start + DeleteChunkSize
		if end > len(ids) {
			end = len(ids)
		}

		n, err := s.deleteChunk(ctx, ids[start:end])
		if err != nil {
			return deleted, err
		}
		deleted += n
	}

	return deleted, nil
}

func (s *sqlStore) deleteChunk(ctx context.Context, ids []string) (int64, error) {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	markers := make([]string, len(ids))
	args := make([]any, len(ids))
	for i, id := range ids {
		markers[i] = s.dialect.placeholder(i + 1)
		args[i] = id
	}

	query := "DELETE FROM assessments WHERE id IN (" + strings.Join(markers, ", ") + ")"

	result, err := s.db.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, s.storageError("delete_by_ids", err)
	}

	n, err := result.RowsAffected()
	if err != nil {
		return 0, s.storageError("delete_by_ids", err)
	}
	return n, nil
}

// List returns assessments matching the query.
func (s *sqlStore) List(ctx context.Context, query *assessment.Query) ([]*assessment.Assessment, error) {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	if query == nil {
		query = &assessment.Query{}
	}

	whereClause, args := s.buildWhereClause(query)

	sqlQuery := fmt.Sprintf("SELECT %s FROM assessments", s.dialect.selectColumns)
	if whereClause != "" {
		sqlQuery += " WHERE " + whereClause
	}

	sortOrder := "ASC"
	if strings.EqualFold(query.SortOrder, "desc") {
		sortOrder = "DESC"
	}
	sqlQuery += fmt.Sprintf(" ORDER BY created_at %s, id %s", sortOrder, sortOrder)

	if query.Limit > 0 {
		sqlQuery += fmt.Sprintf(" LIMIT %d", query.Limit)
	}
	if query.Offset > 0 {
		if query.Limit <= 0 {
			sqlQuery += " LIMIT " + s.dialect.unlimited
		}
		sqlQuery += fmt.Sprintf(" OFFSET %d", query.Offset)
	}

	return s.queryAll(ctx, "list", sqlQuery, args...)
}

// Count returns the number of assessments matching the query.
func (s *sqlStore) Count(ctx context.Context, query *assessment.Query) (int64, error) {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	if query == nil {
		query = &assessment.Query{}
	}

	whereClause, args := s.buildWhereClause(query)

	sqlQuery := "SELECT COUNT(*) FROM assessments"
	if whereClause != "" {
		sqlQuery += " WHERE " + whereClause
	}

	var count int64
	if err := s.db.QueryRowContext(ctx, sqlQuery, args...).Scan(&count); err != nil {
		return 0, s.storageError("count", err)
	}
	return count, nil
}

// Ping checks that the database is reachable.
func (s *sqlStore) Ping(ctx context.Context) error {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	if err := s.db.PingContext(ctx); err != nil {
		return s.storageError("ping", err)
	}
	return nil
}

// DB returns the underlying database handle.
func (s *sqlStore) DB() *sql.DB {
	return s.db
}

func (s *sqlStore) queryAll(ctx context.Context, operation, query string, args ...any) ([]*assessment.Assessment, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, s.storageError(operation, err)
	}
	defer rows.Close()

	records := []*assessment.Assessment{}
	for rows.Next() {
		a, err := s.scanRow(rows)
		if err != nil {
			return nil, s.storageError("scan", err)
		}
		records = append(records, a)
	}

	if err := rows.Err(); err != nil {
		return nil, s.storageError(operation, err)
	}
	return records, nil
}

// buildWhereClause builds a SQL WHERE clause (without the keyword) and its
// arguments from query filters.
func (s *sqlStore) buildWhereClause(query *assessment.Query) (string, []any) {
	var conditions []string
	var args []any

	next := func(arg any) string {
		args = append(args, arg)
		return s.dialect.placeholder(len(args))
	}

	if query.CreatedAfter != nil {
		conditions = append(conditions, "created_at >= "+next(s.dialect.timeArg(*query.CreatedAfter)))
	}
	if query.CreatedBefore != nil {
		conditions = append(conditions, "created_at < "+next(s.dialect.timeArg(*query.CreatedBefore)))
	}
	if query.Email != "" {
		conditions = append(conditions, "email = "+next(query.Email))
	}

	return strings.Join(conditions, " AND "), args
}

func (s *sqlStore) scanRow(rows *sql.Rows) (*assessment.Assessment, error) {
	var a assessment.Assessment
	var techStack, monthlyTickets, ticketDistribution, reportData sql.NullString
	var additionalContext sql.NullString
	createdAt, toTime := s.dialect.newTimeDest()

	err := rows.Scan(
		&a.ID, &a.Email,
		&techStack, &monthlyTickets, &ticketDistribution,
		&additionalContext, &reportData,
		createdAt,
	)
	if err != nil {
		return nil, err
	}

	a.TechStack = rawValue(techStack)
	a.MonthlyTickets = rawValue(monthlyTickets)
	a.TicketDistribution = rawValue(ticketDistribution)
	a.ReportData = rawValue(reportData)
	a.AdditionalContext = additionalContext.String
	a.CreatedAt = toTime()

	return &a, nil
}

func rawArg(r []byte) any {
	if len(r) == 0 {
		return nil
	}
	return string(r)
}

func rawValue(v sql.NullString) []byte {
	if !v.Valid {
		return nil
	}
	return []byte(v.String)
}

func nullString(v string) any {
	if v == "" {
		return nil
	}
	return v
}
