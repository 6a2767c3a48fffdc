package service

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/tutorhub/tutorhub/internal/repository"
	"github.com/tutorhub/tutorhub/internal/repository/base"
)

// pgxDB is the production DB: store bundles over the pgx pool, with
// transactions via base.WithTx.
type pgxDB struct {
	pool *pgxpool.Pool
}

func NewDB(pool *pgxpool.Pool) DB {
	return &pgxDB{pool: pool}
}

func storesOver(q base.Querier) Stores {
	return Stores{
		Sessions:    repository.NewSessionRepository(q),
		Courses:     repository.NewCourseRepository(q),
		Enrollments: repository.NewEnrollmentRepository(q),
		Requests:    repository.NewRequestRepository(q),
		Users:       repository.NewUserRepository(q),
		Messages:    repository.NewMessageRepository(q),
	}
}

func (d *pgxDB) Stores() Stores {
	return storesOver(d.pool)
}

func (d *pgxDB) InTx(ctx context.Context, fn func(st Stores) error) error {
	return base.WithTx(ctx, d.pool, func(tx pgx.Tx) error {
		return fn(storesOver(tx))
	})
}
