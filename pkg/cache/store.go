package cache

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/arthur-debert/aka/pkg/errors"
	"github.com/arthur-debert/aka/pkg/logging"
	"github.com/arthur-debert/aka/pkg/types"
	"github.com/rs/zerolog"

	_ "modernc.org/sqlite"
)

const columns = `key, name, command, line, resolved_path, resolved_args, env_blob,
	exec_mode, excl_args, prefix, prefix_condition, charset_conv, charset_conv_condition,
	updated_at`

const schema = `CREATE TABLE IF NOT EXISTS aliases (
	key                    TEXT PRIMARY KEY NOT NULL,
	name                   TEXT NOT NULL,
	command                TEXT NOT NULL,
	line                   INTEGER NOT NULL,
	resolved_path          TEXT NOT NULL,
	resolved_args          TEXT,
	env_blob               TEXT,
	exec_mode              INTEGER NOT NULL DEFAULT -1,
	excl_args              TEXT,
	prefix                 TEXT,
	prefix_condition       TEXT,
	charset_conv           TEXT,
	charset_conv_condition TEXT,
	updated_at             INTEGER NOT NULL
) WITHOUT ROWID`

// Options tunes a Store.
type Options struct {
	BusyTimeout time.Duration

	// Now stamps records and the store file; defaults to time.Now.
	Now func() time.Time
}

// Store is the resolution cache. A nil *Store is a disabled cache: reads
// miss and writes are dropped.
type Store struct {
	path   string
	opts   Options
	db     *sql.DB
	logger zerolog.Logger
}

// Open opens or creates the store at path.
func Open(ctx context.Context, path string, opts Options) (*Store, error) {
	if opts.Now == nil {
		opts.Now = time.Now
	}
	s := &Store{
		path:   path,
		opts:   opts,
		logger: logging.GetLogger("cache"),
	}
	if err := s.open(ctx); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *Store) open(ctx context.Context) error {
	dsn := fmt.Sprintf("%s?_pragma=busy_timeout(%d)", s.path, s.opts.BusyTimeout.Milliseconds())
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return errors.Wrapf(err, errors.ErrCacheIO, "cannot open cache %s", s.path).WithDetail("path", s.path)
	}
	db.SetMaxOpenConns(1)

	if _, err := db.ExecContext(ctx, schema); err != nil {
		_ = db.Close()
		return errors.Wrapf(err, errors.ErrCacheCorrupt, "cannot initialize cache %s", s.path).WithDetail("path", s.path)
	}
	s.db = db
	return nil
}

// Path returns the store file.
func (s *Store) Path() string {
	if s == nil {
		return ""
	}
	return s.path
}

// IsValid reports whether the store exists and is not older than the
// configuration file. Both stats follow symlinks.
func (s *Store) IsValid(configPath string) bool {
	if s == nil {
		return false
	}
	return IsValid(s.path, configPath)
}

// IsValid is the freshness rule on bare paths.
func IsValid(storePath, configPath string) bool {
	storeInfo, err := os.Stat(storePath)
	if err != nil {
		return false
	}
	configInfo, err := os.Stat(configPath)
	if err != nil {
		return false
	}
	return !storeInfo.ModTime().Before(configInfo.ModTime())
}

// Get returns the cached settings for key. A record whose resolved path no
// longer exists is reported as absent but left in place. A read error other
// than a miss deletes the store.
func (s *Store) Get(ctx context.Context, key string) (*types.Settings, bool) {
	if s == nil || s.db == nil {
		return nil, false
	}

	var r row
	err := s.db.QueryRowContext(ctx,
		`SELECT `+columns+` FROM aliases WHERE key = ?`, strings.ToLower(key),
	).Scan(r.scanTarget()...)
	if err == sql.ErrNoRows {
		return nil, false
	}
	if err != nil {
		s.logger.Debug().Err(err).Str("key", key).Msg("Cache read failed, discarding store")
		s.heal(ctx)
		return nil, false
	}

	if _, err := os.Stat(r.ResolvedPath); err != nil {
		s.logger.Debug().Str("key", key).Str("path", r.ResolvedPath).Msg("Cached target vanished")
		return nil, false
	}
	return r.settings(), true
}

// Put upserts settings under their key, stamping UpdatedAt with the
// current time. Failures are logged and dropped.
func (s *Store) Put(ctx context.Context, settings *types.Settings) {
	if s == nil || s.db == nil || settings == nil {
		return
	}
	now := s.opts.Now()
	settings.UpdatedAt = now

	r := toRow(settings)
	r.Key = strings.ToLower(r.Key)
	_, err := s.db.ExecContext(ctx,
		`INSERT OR REPLACE INTO aliases (`+columns+`) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		r.values()...,
	)
	if err != nil {
		s.logger.Debug().Err(err).Str("key", r.Key).Msg("Cache write failed")
		return
	}
	s.touch(now)
}

// ListAll returns every record ordered by key. Records are returned even if
// their target vanished.
func (s *Store) ListAll(ctx context.Context) []*types.Settings {
	if s == nil || s.db == nil {
		return nil
	}
	rows, err := s.db.QueryContext(ctx, `SELECT `+columns+` FROM aliases ORDER BY key`)
	if err != nil {
		s.logger.Debug().Err(err).Msg("Cache listing failed")
		return nil
	}
	defer func() { _ = rows.Close() }()

	var out []*types.Settings
	for rows.Next() {
		var r row
		if err := rows.Scan(r.scanTarget()...); err != nil {
			s.logger.Debug().Err(err).Msg("Skipping unreadable cache row")
			continue
		}
		out = append(out, r.settings())
	}
	if err := rows.Err(); err != nil {
		s.logger.Debug().Err(err).Msg("Cache listing interrupted")
	}
	return out
}

// Clear removes every record.
func (s *Store) Clear(ctx context.Context) {
	if s == nil || s.db == nil {
		return
	}
	if _, err := s.db.ExecContext(ctx, `DELETE FROM aliases`); err != nil {
		s.logger.Debug().Err(err).Msg("Cache clear failed, discarding store")
		s.heal(ctx)
		return
	}
	s.touch(s.opts.Now())
}

// Close releases the database handle.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	err := s.db.Close()
	s.db = nil
	if err != nil {
		return errors.Wrap(err, errors.ErrCacheIO, "failed to close cache")
	}
	return nil
}

// heal deletes a damaged store and starts an empty one. If that fails the
// store stays disabled for the rest of the invocation.
func (s *Store) heal(ctx context.Context) {
	if s.db != nil {
		_ = s.db.Close()
		s.db = nil
	}
	for _, p := range []string{s.path, s.path + "-journal", s.path + "-wal", s.path + "-shm"} {
		if err := os.Remove(p); err != nil && !os.IsNotExist(err) {
			s.logger.Debug().Err(err).Str("path", p).Msg("Cannot remove damaged cache file")
		}
	}
	if err := s.open(ctx); err != nil {
		s.logger.Debug().Err(err).Msg("Cache disabled")
	}
}

// touch stamps the store file so freshness follows the last write.
func (s *Store) touch(now time.Time) {
	if err := os.Chtimes(s.path, now, now); err != nil {
		s.logger.Trace().Err(err).Msg("Cannot stamp cache file")
	}
}
