// Package repository содержит реализацию доступа к данным в PostgreSQL.
package repository

import (
	"context"
	"embed"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"
	"github.com/sethvargo/go-retry"

	"github.com/mmeshcher/hempmart-system/internal/model"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

// ErrSignupExists возвращается при повторной подписке с тем же email.
var (
	ErrSignupExists = errors.New("signup already exists")
	// ErrSignupNotFound возвращается, если заявка не найдена.
	ErrSignupNotFound = errors.New("signup not found")
)

// PostgresRepository предоставляет доступ к хранилищу данных в PostgreSQL.
type PostgresRepository struct {
	pool *pgxpool.Pool
}

// NewPostgresRepository создаёт новый репозиторий и инициализирует схему БД через миграции.
func NewPostgresRepository(dsn string) (*PostgresRepository, error) {
	cfg, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("parse pool config: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("create pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	r := &PostgresRepository{pool: pool}

	if err := r.runMigrations(ctx); err != nil {
		pool.Close()
		return nil, err
	}

	return r, nil
}

func (r *PostgresRepository) runMigrations(ctx context.Context) error {
	db := stdlib.OpenDBFromPool(r.pool)
	defer db.Close()

	goose.SetBaseFS(migrationsFS)

	if err := goose.SetDialect("postgres"); err != nil {
		return fmt.Errorf("set dialect: %w", err)
	}

	if err := goose.UpContext(ctx, db, "migrations"); err != nil {
		return fmt.Errorf("run migrations: %w", err)
	}

	return nil
}

// withRetry повторяет операцию при временных ошибках: сериализация,
// дедлоки и обрывы соединения. Остальные ошибки возвращаются сразу.
func (r *PostgresRepository) withRetry(ctx context.Context, fn func(ctx context.Context) error) error {
	backoff := retry.WithMaxRetries(3, retry.NewConstant(time.Second))

	return retry.Do(ctx, backoff, func(ctx context.Context) error {
		err := fn(ctx)
		if err == nil {
			return nil
		}
		if isTransient(err) {
			return retry.RetryableError(err)
		}
		return err
	})
}

func isTransient(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == pgerrcode.SerializationFailure || pgErr.Code == pgerrcode.DeadlockDetected
	}

	return strings.Contains(err.Error(), "connection refused") ||
		strings.Contains(err.Error(), "broken pipe") ||
		strings.Contains(err.Error(), "connection reset by peer")
}

// Close закрывает пул соединений с БД.
func (r *PostgresRepository) Close() error {
	r.pool.Close()
	return nil
}

// CreateSignup сохраняет заявку на подписку и возвращает её идентификатор.
func (r *PostgresRepository) CreateSignup(ctx context.Context, email, firstName, lastName string) (int64, error) {
	var id int64

	err := r.withRetry(ctx, func(ctx context.Context) error {
		return r.pool.QueryRow(ctx,
			`INSERT INTO signups (email, first_name, last_name) VALUES ($1, $2, $3) RETURNING id`,
			email, firstName, lastName,
		).Scan(&id)
	})
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation {
			return 0, fmt.Errorf("%w: %s", ErrSignupExists, email)
		}
		return 0, fmt.Errorf("create signup: %w", err)
	}

	return id, nil
}

// GetSignupByEmail возвращает заявку по email.
func (r *PostgresRepository) GetSignupByEmail(ctx context.Context, email string) (*model.Signup, error) {
	row := r.pool.QueryRow(ctx,
		`SELECT id, email, first_name, last_name, created_at FROM signups WHERE email = $1`,
		email,
	)

	var s model.Signup
	err := row.Scan(&s.ID, &s.Email, &s.FirstName, &s.LastName, &s.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrSignupNotFound
		}
		return nil, fmt.Errorf("get signup: %w", err)
	}

	return &s, nil
}
