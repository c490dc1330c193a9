// postgres предоставляет реализацию storage.Storage на базе PostgreSQL:
// пользователи и refresh-токены, профили, разделы, темы и голоса.
//
// Все репозитории работают через Querier, выбираемый из контекста:
// внутри RunInTx - транзакция, иначе - пул соединений.
package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	_ "github.com/jackc/pgx/v5/stdlib" // драйвер pgx для database/sql (goose)
	"github.com/pressly/goose/v3"
	"github.com/pribylovaa/go-forum/internal/storage"
)

// Querier - общий интерфейс *pgxpool.Pool и pgx.Tx.
type Querier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// DB - пул соединений. Реализуется *pgxpool.Pool и pgxmock.PgxPoolIface.
type DB interface {
	Querier
	Begin(ctx context.Context) (pgx.Tx, error)
	Ping(ctx context.Context) error
	Close()
}

// psql - построитель запросов squirrel с плейсхолдерами $N.
var psql = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

type Storage struct {
	db DB
}

// New создает новое подключение к PostgreSQL.
func New(ctx context.Context, dbURL string) (*Storage, error) {
	const op = "storage/postgres/New"

	config, err := pgxpool.ParseConfig(dbURL)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	db, err := pgxpool.NewWithConfig(ctx, config)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	if err := db.Ping(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return &Storage{db: db}, nil
}

// NewWithDB оборачивает готовый пул (используется в тестах с pgxmock).
func NewWithDB(db DB) *Storage {
	return &Storage{db: db}
}

// Close закрывает пул соединений.
func (s *Storage) Close() {
	s.db.Close()
}

// Ping проверяет доступность БД.
func (s *Storage) Ping(ctx context.Context) error {
	return s.db.Ping(ctx)
}

type txKey struct{}

// querier возвращает транзакцию из контекста, если она есть, иначе пул.
func (s *Storage) querier(ctx context.Context) Querier {
	if tx, ok := ctx.Value(txKey{}).(pgx.Tx); ok {
		return tx
	}

	return s.db
}

// RunInTx выполняет fn в транзакции (Read Committed).
// Ошибка fn или паника откатывают транзакцию; вложенный вызов
// присоединяется к внешней транзакции.
func (s *Storage) RunInTx(ctx context.Context, fn func(ctx context.Context) error) (err error) {
	const op = "storage/postgres/RunInTx"

	if _, ok := ctx.Value(txKey{}).(pgx.Tx); ok {
		return fn(ctx)
	}

	tx, err := s.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("%s: begin: %w", op, err)
	}

	defer func() {
		if r := recover(); r != nil {
			_ = tx.Rollback(ctx)
			panic(r)
		}
	}()

	if err := fn(context.WithValue(ctx, txKey{}, tx)); err != nil {
		if rbErr := tx.Rollback(ctx); rbErr != nil {
			return fmt.Errorf("%s: rollback: %w (original error: %v)", op, rbErr, err)
		}

		return err
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("%s: commit: %w", op, err)
	}

	return nil
}

// Migrate применяет goose-миграции из каталога dir и возвращает
// количество применённых миграций.
func Migrate(ctx context.Context, dbURL, dir string) (int, error) {
	const op = "storage/postgres/Migrate"

	db, err := sql.Open("pgx", dbURL)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	defer db.Close()

	provider, err := goose.NewProvider(goose.DialectPostgres, db, os.DirFS(dir))
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}

	results, err := provider.Up(ctx)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}

	return len(results), nil
}

// mapError переводит ошибки pgx/PostgreSQL в ошибки пакета storage.
func mapError(err error) error {
	if errors.Is(err, pgx.ErrNoRows) {
		return storage.ErrNotFound
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case pgerrcode.UniqueViolation:
			return storage.ErrAlreadyExists
		case pgerrcode.ForeignKeyViolation:
			return storage.ErrNotFound
		case pgerrcode.CheckViolation, pgerrcode.InvalidTextRepresentation:
			return storage.ErrInvalidArgument
		}
	}

	return err
}

// Проверка на соответствие интерфейсу Storage.
var _ storage.Storage = (*Storage)(nil)
