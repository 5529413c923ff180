package storage

import (
	"context"
	"database/sql"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	_ "github.com/lib/pq"
	_ "github.com/mattn/go-sqlite3"

	"github.com/matzehuels/habitmosaic/pkg/chain"
)

//go:embed schema.sql
var schemaSQL string

// SQLStore keeps chains in a single table. The same SQL serves SQLite and
// PostgreSQL; only the placeholder style differs. Timestamps are stored as
// RFC 3339 text and the day set as a JSON object.
type SQLStore struct {
	db      *sql.DB
	dialect string
}

// OpenSQLite opens or creates a SQLite database at path.
//
// The connection uses WAL mode and a single writer, which avoids
// SQLITE_BUSY under concurrent HTTP requests.
func OpenSQLite(ctx context.Context, path string) (*SQLStore, error) {
	if path == "" {
		return nil, fmt.Errorf("sqlite store: path is required")
	}
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	for _, pragma := range []string{
		"PRAGMA journal_mode = WAL",
		"PRAGMA synchronous = NORMAL",
		"PRAGMA busy_timeout = 5000",
	} {
		if _, err := db.ExecContext(ctx, pragma); err != nil {
			db.Close()
			return nil, fmt.Errorf("execute %q: %w", pragma, err)
		}
	}
	return newSQLStore(ctx, db, "sqlite")
}

// OpenPostgres connects to the PostgreSQL database at url.
func OpenPostgres(ctx context.Context, url string) (*SQLStore, error) {
	db, err := sql.Open("postgres", url)
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}
	return newSQLStore(ctx, db, "postgres")
}

func newSQLStore(ctx context.Context, db *sql.DB, dialect string) (*SQLStore, error) {
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("connect to %s: %w", dialect, err)
	}
	for _, stmt := range strings.Split(schemaSQL, ";") {
		if strings.TrimSpace(stmt) == "" {
			continue
		}
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			db.Close()
			return nil, fmt.Errorf("apply schema: %w", err)
		}
	}
	return &SQLStore{db: db, dialect: dialect}, nil
}

func (s *SQLStore) Backend() string { return s.dialect }

// rebind rewrites ? placeholders as $1, $2, ... for PostgreSQL.
func (s *SQLStore) rebind(query string) string {
	if s.dialect != "postgres" {
		return query
	}
	var b strings.Builder
	n := 0
	for _, r := range query {
		if r == '?' {
			n++
			b.WriteByte('$')
			b.WriteString(strconv.Itoa(n))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

const selectChains = `SELECT id, name, description, goal, color, start_date, end_date, days, created_at, updated_at FROM chains`

func (s *SQLStore) Get(ctx context.Context, id string) (*chain.Chain, error) {
	row := s.db.QueryRowContext(ctx, s.rebind(selectChains+` WHERE id = ?`), id)
	c, err := scanChain(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, chain.ErrNotFound
	}
	return c, err
}

func (s *SQLStore) List(ctx context.Context) ([]*chain.Chain, error) {
	rows, err := s.db.QueryContext(ctx, selectChains+` ORDER BY created_at`)
	if err != nil {
		return nil, fmt.Errorf("query chains: %w", err)
	}
	defer rows.Close()

	var out []*chain.Chain
	for rows.Next() {
		c, err := scanChain(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

func (s *SQLStore) Put(ctx context.Context, c *chain.Chain) error {
	days, err := json.Marshal(c.Days)
	if err != nil {
		return fmt.Errorf("marshal days: %w", err)
	}
	var end sql.NullString
	if c.EndDate != nil {
		end = sql.NullString{String: formatTime(*c.EndDate), Valid: true}
	}

	_, err = s.db.ExecContext(ctx, s.rebind(`
		INSERT INTO chains (id, name, description, goal, color, start_date, end_date, days, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (id) DO UPDATE SET
			name = excluded.name,
			description = excluded.description,
			goal = excluded.goal,
			color = excluded.color,
			start_date = excluded.start_date,
			end_date = excluded.end_date,
			days = excluded.days,
			updated_at = excluded.updated_at`),
		c.ID, c.Name, c.Description, c.Goal, c.Color,
		formatTime(c.StartDate), end, string(days),
		formatTime(c.CreatedAt), formatTime(c.UpdatedAt),
	)
	if err != nil {
		return fmt.Errorf("upsert chain: %w", err)
	}
	return nil
}

func (s *SQLStore) Delete(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, s.rebind(`DELETE FROM chains WHERE id = ?`), id)
	if err != nil {
		return fmt.Errorf("delete chain: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete chain: %w", err)
	}
	if n == 0 {
		return chain.ErrNotFound
	}
	return nil
}

func (s *SQLStore) Close() error {
	return s.db.Close()
}

type scanner interface {
	Scan(dest ...any) error
}

func scanChain(row scanner) (*chain.Chain, error) {
	var (
		c                             chain.Chain
		start, days, created, updated string
		end                           sql.NullString
	)
	if err := row.Scan(&c.ID, &c.Name, &c.Description, &c.Goal, &c.Color,
		&start, &end, &days, &created, &updated); err != nil {
		return nil, err
	}

	var err error
	if c.StartDate, err = parseTime(start); err != nil {
		return nil, err
	}
	if end.Valid {
		t, err := parseTime(end.String)
		if err != nil {
			return nil, err
		}
		c.EndDate = &t
	}
	if c.CreatedAt, err = parseTime(created); err != nil {
		return nil, err
	}
	if c.UpdatedAt, err = parseTime(updated); err != nil {
		return nil, err
	}
	if err := json.Unmarshal([]byte(days), &c.Days); err != nil {
		return nil, fmt.Errorf("parse days of chain %s: %w", c.ID, err)
	}
	if c.Days == nil {
		c.Days = map[string]bool{}
	}
	return &c, nil
}

func formatTime(t time.Time) string {
	return t.UTC().Format(time.RFC3339Nano)
}

func parseTime(s string) (time.Time, error) {
	t, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("parse timestamp %q: %w", s, err)
	}
	return t, nil
}

var _ chain.Store = (*SQLStore)(nil)
