package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	_ "github.com/jackc/pgx/v5/stdlib"
	"go.uber.org/zap"
	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"

	"pokeidle/shared/game/types"
)

var (
	ErrNotFound = errors.New("not found")
	ErrConflict = errors.New("already exists")
)

// Supported drivers.
const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

type User struct {
	ID           int64
	Username     string
	Email        string
	PasswordHash string
	GoogleID     *string
	Player       types.Player
	LastLoginAt  *time.Time
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

type BaseStats struct {
	HP     int `json:"hp"`
	Atk    int `json:"atk"`
	Def    int `json:"def"`
	SpeAtk int `json:"spe_atk"`
	SpeDef int `json:"spe_def"`
	Speed  int `json:"speed"`
}

type Species struct {
	ID              int64     `json:"id"`
	TyradexID       int       `json:"tyradexId"`
	Slug            string    `json:"slug"`
	NameFr          string    `json:"nameFr"`
	NameEn          string    `json:"nameEn"`
	Type1           string    `json:"type1"`
	Type2           string    `json:"type2,omitempty"`
	Generation      int       `json:"generation"`
	BaseStats       BaseStats `json:"baseStats"`
	EvolutionFamily string    `json:"-"`
	SpriteRegular   string    `json:"spriteRegular"`
	SpriteShiny     string    `json:"spriteShiny"`
}

type TrainerMember struct {
	Slug   string `json:"slug"`
	NameFr string `json:"nameFr"`
	NameEn string `json:"nameEn"`
	Level  int    `json:"level"`
}

type Trainer struct {
	ID               int64           `json:"id"`
	Name             string          `json:"name"`
	Slug             string          `json:"slug"`
	Generation       int             `json:"generation"`
	Zone             int             `json:"zone"`
	StageNumber      int             `json:"stageNumber"`
	IsBoss           bool            `json:"isBoss"`
	BossTimerSeconds *int            `json:"bossTimerSeconds"`
	Team             []TrainerMember `json:"team"`
}

// Store is the persistence boundary of the game server.
type Store interface {
	CreateUser(ctx context.Context, u *User) error
	UserByID(ctx context.Context, id int64) (*User, error)
	UserByEmail(ctx context.Context, email string) (*User, error)
	UserByUsername(ctx context.Context, username string) (*User, error)
	UserByGoogleID(ctx context.Context, googleID string) (*User, error)
	UpdateUser(ctx context.Context, u *User) error

	ListPokemons(ctx context.Context, userID int64) ([]types.OwnedPokemon, error)
	ReplacePokemons(ctx context.Context, userID int64, list []types.OwnedPokemon) error

	UpsertSpecies(ctx context.Context, s *Species) error
	ListSpecies(ctx context.Context) ([]Species, error)
	SpeciesBySlug(ctx context.Context, slug string) (*Species, error)
	SpeciesByID(ctx context.Context, id int64) (*Species, error)

	UpsertTrainer(ctx context.Context, t *Trainer) error
	ListTrainers(ctx context.Context, generation int) ([]Trainer, error)

	RevokeToken(ctx context.Context, jti string, expiresAt time.Time) error
	IsTokenRevoked(ctx context.Context, jti string) (bool, error)
	PurgeRevoked(ctx context.Context, now time.Time) (int64, error)

	Close() error
}

// SQLStore implements Store for both SQLite and Postgres.
type SQLStore struct {
	db      *sql.DB
	dialect dialect
	log     *zap.Logger
}

var _ Store = (*SQLStore)(nil)

// Open connects to the database and runs migrations.
func Open(ctx context.Context, driver, dsn string, log *zap.Logger) (*SQLStore, error) {
	var (
		db  *sql.DB
		err error
		d   dialect
	)
	switch driver {
	case DriverSQLite, "":
		d = sqliteDialect{}
		db, err = sql.Open("sqlite", sqliteDSN(dsn))
		if err == nil {
			// one writer; also keeps in-memory databases on a single connection
			db.SetMaxOpenConns(1)
		}
	case DriverPostgres:
		d = postgresDialect{}
		db, err = sql.Open("pgx", dsn)
	default:
		return nil, fmt.Errorf("store: unknown driver %q", driver)
	}
	if err != nil {
		return nil, fmt.Errorf("store: open %s: %w", driver, err)
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("store: ping %s: %w", driver, err)
	}
	s := &SQLStore{db: db, dialect: d, log: log.Named("store")}
	if err := s.Migrate(ctx); err != nil {
		_ = db.Close()
		return nil, err
	}
	return s, nil
}

func sqliteDSN(dsn string) string {
	if strings.Contains(dsn, "_pragma=") {
		return dsn
	}
	sep := "?"
	if strings.Contains(dsn, "?") {
		sep = "&"
	}
	return dsn + sep + "_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)"
}

func (s *SQLStore) Close() error { return s.db.Close() }

func (s *SQLStore) DB() *sql.DB { return s.db }

func (s *SQLStore) exec(ctx context.Context, q string, args ...any) (sql.Result, error) {
	return s.db.ExecContext(ctx, s.dialect.rebind(q), args...)
}

func (s *SQLStore) query(ctx context.Context, q string, args ...any) (*sql.Rows, error) {
	return s.db.QueryContext(ctx, s.dialect.rebind(q), args...)
}

func (s *SQLStore) queryRow(ctx context.Context, q string, args ...any) *sql.Row {
	return s.db.QueryRowContext(ctx, s.dialect.rebind(q), args...)
}

// classify maps driver errors onto the package sentinels.
func classify(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, sql.ErrNoRows) {
		return ErrNotFound
	}
	if isUniqueViolation(err) {
		return fmt.Errorf("%w: %v", ErrConflict, err)
	}
	return err
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23505"
	}
	var liteErr *sqlite.Error
	if errors.As(err, &liteErr) {
		switch liteErr.Code() {
		case sqlite3.SQLITE_CONSTRAINT_UNIQUE, sqlite3.SQLITE_CONSTRAINT_PRIMARYKEY:
			return true
		}
	}
	return false
}

func unix(t time.Time) int64 { return t.Unix() }

func fromUnix(v int64) time.Time { return time.Unix(v, 0).UTC() }

func nullUnix(t *time.Time) sql.NullInt64 {
	if t == nil {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: t.Unix(), Valid: true}
}

func timePtr(v sql.NullInt64) *time.Time {
	if !v.Valid {
		return nil
	}
	t := fromUnix(v.Int64)
	return &t
}
