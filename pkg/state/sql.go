package state

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"
)

// Dialect names accepted by NewSQLCache. They match the database/sql driver
// names registered by modernc.org/sqlite, go-sql-driver/mysql and lib/pq.
const (
	DialectSQLite   = "sqlite"
	DialectMySQL    = "mysql"
	DialectPostgres = "postgres"
)

// DefaultTable is the table used when SQLOptions.Table is empty.
const DefaultTable = "formschema_states"

var tableName = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

type dialect struct {
	create string
	upsert string
	get    string
	delete string
	scan   string
	bind   func(n int) string
}

func question(int) string { return "?" }
func dollar(n int) string { return fmt.Sprintf("$%d", n) }

func dialectFor(name, table string) (dialect, error) {
	var d dialect
	switch name {
	case DialectSQLite:
		d.bind = question
		d.create = `CREATE TABLE IF NOT EXISTS %[1]s (cache_key TEXT PRIMARY KEY, value BLOB NOT NULL, expires_at INTEGER NOT NULL DEFAULT 0)`
		d.upsert = `INSERT INTO %[1]s (cache_key, value, expires_at) VALUES (?, ?, ?) ON CONFLICT(cache_key) DO UPDATE SET value = excluded.value, expires_at = excluded.expires_at`
	case DialectMySQL:
		d.bind = question
		d.create = `CREATE TABLE IF NOT EXISTS %[1]s (cache_key VARCHAR(%[2]d) NOT NULL PRIMARY KEY, value LONGBLOB NOT NULL, expires_at BIGINT NOT NULL DEFAULT 0)`
		d.upsert = `INSERT INTO %[1]s (cache_key, value, expires_at) VALUES (?, ?, ?) ON DUPLICATE KEY UPDATE value = VALUES(value), expires_at = VALUES(expires_at)`
	case DialectPostgres:
		d.bind = dollar
		d.create = `CREATE TABLE IF NOT EXISTS %[1]s (cache_key TEXT PRIMARY KEY, value BYTEA NOT NULL, expires_at BIGINT NOT NULL DEFAULT 0)`
		d.upsert = `INSERT INTO %[1]s (cache_key, value, expires_at) VALUES ($1, $2, $3) ON CONFLICT (cache_key) DO UPDATE SET value = EXCLUDED.value, expires_at = EXCLUDED.expires_at`
	default:
		return dialect{}, fmt.Errorf("state: unsupported sql dialect %q", name)
	}
	d.create = fmt.Sprintf(d.create, table, MaxKeyLength)
	d.upsert = fmt.Sprintf(d.upsert, table)
	d.get = fmt.Sprintf("SELECT value, expires_at FROM %s WHERE cache_key = %s", table, d.bind(1))
	d.delete = fmt.Sprintf("DELETE FROM %s WHERE cache_key = %s", table, d.bind(1))
	d.scan = fmt.Sprintf("SELECT cache_key, value, expires_at FROM %s WHERE cache_key LIKE %s", table, d.bind(1))
	return d, nil
}

// SQLOptions configures a SQLCache.
type SQLOptions struct {
	// Dialect is one of DialectSQLite, DialectMySQL or DialectPostgres.
	Dialect string
	Table   string
}

// SQLCache stores entries in a single key/value table. Expiry is stored as
// Unix nanoseconds, zero meaning never.
type SQLCache struct {
	db      *sql.DB
	dialect dialect
	name    string
	now     func() time.Time
}

// NewSQLCache wraps db. Call Migrate to create the table.
func NewSQLCache(db *sql.DB, opts SQLOptions) (*SQLCache, error) {
	if db == nil {
		return nil, errors.New("state: sql db is required")
	}
	table := strings.TrimSpace(opts.Table)
	if table == "" {
		table = DefaultTable
	}
	if !tableName.MatchString(table) {
		return nil, fmt.Errorf("state: invalid table name %q", table)
	}
	d, err := dialectFor(opts.Dialect, table)
	if err != nil {
		return nil, err
	}
	return &SQLCache{db: db, dialect: d, name: opts.Dialect, now: time.Now}, nil
}

// Dialect returns the configured dialect name.
func (c *SQLCache) Dialect() string { return c.name }

// Migrate creates the backing table when missing.
func (c *SQLCache) Migrate(ctx context.Context) error {
	if _, err := c.db.ExecContext(ctx, c.dialect.create); err != nil {
		return fmt.Errorf("state: migrate: %w", err)
	}
	return nil
}

func (c *SQLCache) Get(ctx context.Context, key string) ([]byte, error) {
	var (
		value     []byte
		expiresAt int64
	)
	err := c.db.QueryRowContext(ctx, c.dialect.get, key).Scan(&value, &expiresAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("state: get %q: %w", key, err)
	}
	if c.expired(expiresAt) {
		if err := c.Delete(ctx, key); err != nil {
			return nil, err
		}
		return nil, nil
	}
	return value, nil
}

func (c *SQLCache) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	if len(key) > MaxKeyLength {
		return fmt.Errorf("state: set: key is %d bytes, limit %d", len(key), MaxKeyLength)
	}
	var expiresAt int64
	if ttl > 0 {
		expiresAt = c.now().Add(ttl).UnixNano()
	}
	if _, err := c.db.ExecContext(ctx, c.dialect.upsert, key, value, expiresAt); err != nil {
		return fmt.Errorf("state: set %q: %w", key, err)
	}
	return nil
}

func (c *SQLCache) Delete(ctx context.Context, key string) error {
	if _, err := c.db.ExecContext(ctx, c.dialect.delete, key); err != nil {
		return fmt.Errorf("state: delete %q: %w", key, err)
	}
	return nil
}

// Scan matches with LIKE and re-checks the prefix, since "_" and "%" in keys
// are LIKE wildcards.
func (c *SQLCache) Scan(ctx context.Context, prefix string) (map[string][]byte, error) {
	rows, err := c.db.QueryContext(ctx, c.dialect.scan, prefix+"%")
	if err != nil {
		return nil, fmt.Errorf("state: scan %q: %w", prefix, err)
	}
	defer rows.Close()

	out := make(map[string][]byte)
	for rows.Next() {
		var (
			key       string
			value     []byte
			expiresAt int64
		)
		if err := rows.Scan(&key, &value, &expiresAt); err != nil {
			return nil, fmt.Errorf("state: scan %q: %w", prefix, err)
		}
		if !strings.HasPrefix(key, prefix) || c.expired(expiresAt) {
			continue
		}
		out[key] = value
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("state: scan %q: %w", prefix, err)
	}
	return out, nil
}

func (c *SQLCache) expired(expiresAt int64) bool {
	return expiresAt != 0 && c.now().UnixNano() >= expiresAt
}
