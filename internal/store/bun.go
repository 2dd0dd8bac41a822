package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	_ "github.com/lib/pq"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/pgdialect"
	"github.com/uptrace/bun/dialect/sqlitedialect"
	"github.com/uptrace/bun/driver/sqliteshim"
)

// CollectionRow is one persisted collection.
type CollectionRow struct {
	bun.BaseModel `bun:"table:collections"`

	Name      string    `bun:"name,pk"`
	Payload   string    `bun:"payload,notnull"`
	UpdatedAt time.Time `bun:"updated_at,notnull"`
}

// BunKV keeps collections in a SQL table through bun.
type BunKV struct {
	Bun *bun.DB
}

// OpenBun opens a sqlite or postgres database and wraps it with the matching dialect.
func OpenBun(driver, dsn string) (*bun.DB, error) {
	switch driver {
	case "sqlite":
		sqldb, err := sql.Open(sqliteshim.ShimName, dsn)
		if err != nil {
			return nil, fmt.Errorf("failed to open sqlite: %w", err)
		}
		return bun.NewDB(sqldb, sqlitedialect.New()), nil
	case "postgres":
		sqldb, err := sql.Open("postgres", dsn)
		if err != nil {
			return nil, fmt.Errorf("failed to open postgres: %w", err)
		}
		if err := sqldb.Ping(); err != nil {
			sqldb.Close()
			return nil, fmt.Errorf("failed to connect to postgres: %w", err)
		}
		return bun.NewDB(sqldb, pgdialect.New()), nil
	default:
		return nil, fmt.Errorf("unsupported sql driver %q", driver)
	}
}

// NewBunKV creates the collections table when missing.
func NewBunKV(ctx context.Context, db *bun.DB) (*BunKV, error) {
	_, err := db.NewCreateTable().
		Model((*CollectionRow)(nil)).
		IfNotExists().
		Exec(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to create collections table: %w", err)
	}
	return &BunKV{Bun: db}, nil
}

func (b *BunKV) Get(ctx context.Context, key string) ([]byte, error) {
	var row CollectionRow
	err := b.Bun.NewSelect().
		Model(&row).
		Where("name = ?", key).
		Limit(1).
		Scan(ctx)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return []byte(row.Payload), nil
}

func (b *BunKV) Set(ctx context.Context, key string, value []byte) error {
	row := CollectionRow{
		Name:      key,
		Payload:   string(value),
		UpdatedAt: time.Now().UTC(),
	}
	_, err := b.Bun.NewInsert().
		Model(&row).
		On("CONFLICT (name) DO UPDATE").
		Set("payload = EXCLUDED.payload").
		Set("updated_at = EXCLUDED.updated_at").
		Exec(ctx)
	return err
}
