package core

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"

	"didacta-calendar/pkg/resources"
)

const (
	userColumns        = "id, rut, password_hash, is_admin, is_active, created_at"
	uniqueViolationSQL = "23505"
)

type UserRepository interface {
	SaveUser(ctx context.Context, user *User) (*User, error)
	GetUserByRut(ctx context.Context, rut string) (*User, error)
	GetUserById(ctx context.Context, id string) (*User, error)
}

type userRepository struct {
	tracer  trace.Tracer
	metrics *DBMetrics
	pool    resources.DBInstance
}

func NewUserRepository(pool resources.DBInstance) UserRepository {
	return &userRepository{
		tracer:  otel.GetTracerProvider().Tracer("didacta-calendar/core"),
		metrics: NewDBMetrics(),
		pool:    pool,
	}
}

func (r *userRepository) SaveUser(ctx context.Context, user *User) (*User, error) {
	start := time.Now()

	var err error

	defer func() { r.metrics.Observe(ctx, "save_user", start, err) }()

	ctx, span := r.tracer.Start(ctx, "repository.SaveUser")
	defer span.End()

	var saved User

	err = scanUser(r.pool.QueryRow(ctx,
		"INSERT INTO users (rut, password_hash, is_admin, is_active) "+
			"VALUES ($1, $2, $3, $4) "+
			"RETURNING "+userColumns,
		user.Rut, user.PasswordHash, user.IsAdmin, user.IsActive), &saved)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolationSQL {
			return nil, ErrRutTaken
		}

		return nil, fmt.Errorf("failed to insert user: %w", err)
	}

	return &saved, nil
}

func (r *userRepository) GetUserByRut(ctx context.Context, rut string) (*User, error) {
	return r.getUser(ctx, "get_user_by_rut", "rut", rut)
}

func (r *userRepository) GetUserById(ctx context.Context, id string) (*User, error) {
	return r.getUser(ctx, "get_user_by_id", "id", id)
}

func (r *userRepository) getUser(ctx context.Context, op string, column string, value string) (*User, error) {
	start := time.Now()

	var err error

	defer func() { r.metrics.Observe(ctx, op, start, err) }()

	ctx, span := r.tracer.Start(ctx, "repository."+op)
	defer span.End()

	var u User

	//nolint:gosec
	err = scanUser(r.pool.QueryRow(ctx,
		`SELECT `+userColumns+`
		 FROM users
		 WHERE `+column+` = $1`,
		value,
	), &u)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrUserNotFound
	}

	if err != nil {
		return nil, fmt.Errorf("failed to get user by %s: %w", column, err)
	}

	return &u, nil
}

func scanUser(row pgx.Row, u *User) error {
	return row.Scan(&u.Id, &u.Rut, &u.PasswordHash, &u.IsAdmin, &u.IsActive, &u.CreatedAt)
}
