package audit

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/pgdialect"
	"github.com/uptrace/bun/driver/pgdriver"
	logx "github.com/naruebet/memochat/pkg/logger"
)

type Config struct {
	DSN     string        `envconfig:"DSN" split_words:"true"`
	Timeout time.Duration `envconfig:"TIMEOUT" split_words:"true" default:"5s"`
}

// Turn is one completed user/assistant exchange.
type Turn struct {
	bun.BaseModel `bun:"table:conversation_turns,alias:ct"`

	ID               uuid.UUID `bun:"id,pk,type:uuid"`
	UserID           string    `bun:"user_id,notnull"`
	UserMessage      string    `bun:"user_message,notnull"`
	AssistantMessage string    `bun:"assistant_message,notnull"`
	ToolCalls        int       `bun:"tool_calls,notnull,default:0"`
	CreatedAt        time.Time `bun:"created_at,notnull"`
}

func (t *Turn) ensureDefaults(now time.Time) {
	if t.ID == uuid.Nil {
		t.ID = uuid.New()
	}
	if t.CreatedAt.IsZero() {
		t.CreatedAt = now.UTC()
	}
}

// Store is a durable per-turn audit log in Postgres. It is an optional
// collaborator: when no DSN is configured the store is simply absent and the
// session falls back to its in-process turn counter.
type Store struct {
	db  *bun.DB
	log zerolog.Logger
}

func NewStore(cfg Config) (*Store, error) {
	dsn := strings.TrimSpace(cfg.DSN)
	if dsn == "" {
		return nil, errors.New("audit dsn is required")
	}

	sqldb := sql.OpenDB(pgdriver.NewConnector(
		pgdriver.WithDSN(dsn),
		pgdriver.WithTimeout(cfg.Timeout),
	))
	db := bun.NewDB(sqldb, pgdialect.New())

	return &Store{
		db:  db,
		log: logx.Component("audit"),
	}, nil
}

// Init creates the turn table when missing.
func (s *Store) Init(ctx context.Context) error {
	_, err := s.db.NewCreateTable().
		Model((*Turn)(nil)).
		IfNotExists().
		Exec(ctx)
	return err
}

// Record inserts one turn. Best-effort by contract: callers log and continue
// on failure.
func (s *Store) Record(ctx context.Context, turn *Turn) error {
	if turn == nil {
		return errors.New("nil turn")
	}
	turn.ensureDefaults(time.Now())
	_, err := s.db.NewInsert().Model(turn).Exec(ctx)
	return err
}

// CountForUser returns the number of recorded turns for a user.
func (s *Store) CountForUser(ctx context.Context, userID string) (int, error) {
	return s.db.NewSelect().
		Model((*Turn)(nil)).
		Where("user_id = ?", userID).
		Count(ctx)
}

func (s *Store) Close() error {
	return s.db.Close()
}
