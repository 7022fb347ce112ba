// Package sqlite is a SQLite-backed implementation of the storage interface
package sqlite

import (
	"context"
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/golang-migrate/migrate/v4"
	migratesqlite "github.com/golang-migrate/migrate/v4/database/sqlite3"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"github.com/mattn/go-sqlite3"

	"github.com/mcoot/cricketreg/internal/model"
	"github.com/mcoot/cricketreg/internal/storage"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

// Storage is a SQLite-backed implementation of the storage interface
type Storage struct {
	db *sql.DB
}

// New opens the database file at path, creating its directory if needed,
// and applies the embedded migrations
func New(path string) (*Storage, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("error creating database directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite3", path+"?_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("error opening database: %w", err)
	}
	// Single writer
	db.SetMaxOpenConns(1)

	if err := runMigrations(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("error running migrations: %w", err)
	}

	return &Storage{db: db}, nil
}

// Close closes the database connection
func (s *Storage) Close() error {
	return s.db.Close()
}

func runMigrations(db *sql.DB) error {
	driver, err := migratesqlite.WithInstance(db, &migratesqlite.Config{})
	if err != nil {
		return fmt.Errorf("could not create migrate driver: %w", err)
	}

	source, err := iofs.New(migrationsFS, "migrations")
	if err != nil {
		return fmt.Errorf("could not create source: %w", err)
	}

	m, err := migrate.NewWithInstance("iofs", source, "sqlite3", driver)
	if err != nil {
		return fmt.Errorf("could not create migrate instance: %w", err)
	}

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("could not run migrations: %w", err)
	}
	return nil
}

// Ensure Storage implements the interface
var _ storage.Storage = (*Storage)(nil)

func isConstraintViolation(err error) bool {
	var sqliteErr sqlite3.Error
	return errors.As(err, &sqliteErr) && sqliteErr.Code == sqlite3.ErrConstraint
}

// Registration operations

const registrationColumns = `id, league, registrant_name, registrant_code, player_name, relationship,
	date_of_birth, contact_number, player_profile, batting_style, bowling_style,
	available_jan_10, available_jan_11, available_jan_18, created_at`

func (s *Storage) SaveRegistration(ctx context.Context, reg *model.PlayerRegistration) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO registrations (`+registrationColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		string(reg.ID),
		string(reg.League),
		reg.RegistrantName,
		reg.RegistrantCode,
		reg.PlayerName,
		string(reg.Relationship),
		reg.DateOfBirth.Format(model.DateLayout),
		reg.ContactNumber,
		string(reg.Profile),
		string(reg.BattingStyle),
		string(reg.BowlingStyle),
		reg.Availability.Jan10,
		reg.Availability.Jan11,
		reg.Availability.Jan18,
		reg.CreatedAt.UnixNano(),
	)
	if err != nil {
		if isConstraintViolation(err) {
			return model.ErrRegistrationExists
		}
		return err
	}
	return nil
}

func (s *Storage) GetRegistration(ctx context.Context, id model.RegistrationID) (*model.PlayerRegistration, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+registrationColumns+` FROM registrations WHERE id = ?`, string(id))
	reg, err := scanRegistration(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, model.ErrRegistrationNotFound
		}
		return nil, err
	}
	return reg, nil
}

func (s *Storage) ListRegistrations(ctx context.Context, league model.League) ([]*model.PlayerRegistration, error) {
	query := `SELECT ` + registrationColumns + ` FROM registrations`
	var args []any
	if league != "" {
		query += ` WHERE league = ?`
		args = append(args, string(league))
	}
	query += ` ORDER BY created_at DESC, id DESC`

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	regs := []*model.PlayerRegistration{}
	for rows.Next() {
		reg, err := scanRegistration(rows)
		if err != nil {
			return nil, err
		}
		regs = append(regs, reg)
	}
	return regs, rows.Err()
}

type scanner interface {
	Scan(dest ...any) error
}

func scanRegistration(row scanner) (*model.PlayerRegistration, error) {
	var reg model.PlayerRegistration
	var id, league, relationship, dob, profile string
	var battingStyle, bowlingStyle string
	var createdAt int64
	err := row.Scan(
		&id,
		&league,
		&reg.RegistrantName,
		&reg.RegistrantCode,
		&reg.PlayerName,
		&relationship,
		&dob,
		&reg.ContactNumber,
		&profile,
		&battingStyle,
		&bowlingStyle,
		&reg.Availability.Jan10,
		&reg.Availability.Jan11,
		&reg.Availability.Jan18,
		&createdAt,
	)
	if err != nil {
		return nil, err
	}

	parsedDOB, err := time.Parse(model.DateLayout, dob)
	if err != nil {
		return nil, fmt.Errorf("registration %s has malformed date of birth: %w", id, err)
	}

	reg.ID = model.RegistrationID(id)
	reg.League = model.League(league)
	reg.Relationship = model.Relationship(relationship)
	reg.DateOfBirth = parsedDOB
	reg.Profile = model.PlayerProfile(profile)
	reg.BattingStyle = model.BattingStyle(battingStyle)
	reg.BowlingStyle = model.BowlingStyle(bowlingStyle)
	reg.CreatedAt = time.Unix(0, createdAt).UTC()
	return &reg, nil
}

// User operations

func (s *Storage) SaveUser(ctx context.Context, user *model.User) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO users (id, username, password_hash, created_at)
		VALUES (?, ?, ?, ?)
		ON CONFLICT (id) DO UPDATE SET username = excluded.username, password_hash = excluded.password_hash`,
		string(user.ID), user.Username, user.PasswordHash, user.CreatedAt.UnixNano(),
	)
	if err != nil {
		if isConstraintViolation(err) {
			return model.ErrUserExists
		}
		return err
	}
	return nil
}

func (s *Storage) GetUser(ctx context.Context, id model.UserID) (*model.User, error) {
	return s.getUser(ctx, `SELECT id, username, password_hash, created_at FROM users WHERE id = ?`, string(id))
}

func (s *Storage) GetUserByUsername(ctx context.Context, username string) (*model.User, error) {
	return s.getUser(ctx, `SELECT id, username, password_hash, created_at FROM users WHERE username = ?`, username)
}

func (s *Storage) getUser(ctx context.Context, query string, arg string) (*model.User, error) {
	var (
		user      model.User
		id        string
		createdAt int64
	)
	err := s.db.QueryRowContext(ctx, query, arg).Scan(&id, &user.Username, &user.PasswordHash, &createdAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, model.ErrUserNotFound
		}
		return nil, err
	}
	user.ID = model.UserID(id)
	user.CreatedAt = time.Unix(0, createdAt).UTC()
	return &user, nil
}

// Admin allow-list operations

func (s *Storage) AddAdmin(ctx context.Context, id model.UserID) error {
	_, err := s.db.ExecContext(ctx, `INSERT OR IGNORE INTO admins (user_id) VALUES (?)`, string(id))
	return err
}

func (s *Storage) RemoveAdmin(ctx context.Context, id model.UserID) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM admins WHERE user_id = ?`, string(id))
	return err
}

func (s *Storage) IsAdmin(ctx context.Context, id model.UserID) (bool, error) {
	var exists bool
	err := s.db.QueryRowContext(ctx,
		`SELECT EXISTS (SELECT 1 FROM admins WHERE user_id = ?)`, string(id)).Scan(&exists)
	return exists, err
}
