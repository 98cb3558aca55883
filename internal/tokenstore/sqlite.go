package tokenstore

import (
	"database/sql"
	"encoding/json"
	"os"
	"path/filepath"

	"github.com/rs/zerolog"
	"github.com/ruta66/motoclub/internal/domain"

	_ "modernc.org/sqlite"
)

const (
	keyAccess  = "access"
	keyRefresh = "refresh"
	keyUser    = "user"
)

// SQLiteStore keeps credentials in a local SQLite file, the durable storage of
// the CLI client.
type SQLiteStore struct {
	db  *sql.DB
	log zerolog.Logger
}

// OpenSQLite opens (and if needed creates) the credential database at path.
func OpenSQLite(path string, log zerolog.Logger) (*SQLiteStore, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return nil, err
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}

	if _, err := db.Exec(`PRAGMA journal_mode=WAL`); err != nil {
		db.Close()
		return nil, err
	}
	if _, err := db.Exec(`
		CREATE TABLE IF NOT EXISTS credential (
			key   TEXT PRIMARY KEY,
			value TEXT NOT NULL
		)
	`); err != nil {
		db.Close()
		return nil, err
	}

	return &SQLiteStore{db: db, log: log}, nil
}

func (s *SQLiteStore) Load() Credentials {
	rows, err := s.db.Query(`SELECT key, value FROM credential`)
	if err != nil {
		s.log.Error().Err(err).Msg("credential load failed")
		return Credentials{}
	}
	defer rows.Close()

	var creds Credentials
	for rows.Next() {
		var key, value string
		if err := rows.Scan(&key, &value); err != nil {
			s.log.Error().Err(err).Msg("credential scan failed")
			return Credentials{}
		}
		switch key {
		case keyAccess:
			creds.Access = value
		case keyRefresh:
			creds.Refresh = value
		case keyUser:
			var user domain.User
			if err := json.Unmarshal([]byte(value), &user); err != nil {
				s.log.Error().Err(err).Msg("stored user is malformed, treating as absent")
				continue
			}
			creds.User = &user
		}
	}
	return creds
}

func (s *SQLiteStore) Save(user *domain.User, access, refresh string) {
	userJSON, err := json.Marshal(user)
	if err != nil {
		s.log.Error().Err(err).Msg("credential save failed: user not serializable")
		return
	}

	tx, err := s.db.Begin()
	if err != nil {
		s.log.Error().Err(err).Msg("credential save failed")
		return
	}
	defer tx.Rollback()

	for key, value := range map[string]string{
		keyAccess:  access,
		keyRefresh: refresh,
		keyUser:    string(userJSON),
	} {
		if _, err := tx.Exec(`
			INSERT INTO credential (key, value) VALUES (?, ?)
			ON CONFLICT(key) DO UPDATE SET value = excluded.value
		`, key, value); err != nil {
			s.log.Error().Err(err).Str("key", key).Msg("credential save failed")
			return
		}
	}

	if err := tx.Commit(); err != nil {
		s.log.Error().Err(err).Msg("credential save failed")
	}
}

func (s *SQLiteStore) Clear() {
	if _, err := s.db.Exec(`DELETE FROM credential`); err != nil {
		s.log.Error().Err(err).Msg("credential clear failed")
	}
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}
