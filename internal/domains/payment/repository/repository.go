package repository

//go:generate go run go.uber.org/mock/mockgen -source=./repository.go -destination=../mocks/repository_mock.go -package=mocks

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/rs/zerolog/log"

	"github.com/lphuocloc/Oasis-Go-BE/infras/otel"
	"github.com/lphuocloc/Oasis-Go-BE/infras/postgres"
	"github.com/lphuocloc/Oasis-Go-BE/internal/domains/payment/model"
	"github.com/lphuocloc/Oasis-Go-BE/shared/constant"
	gDto "github.com/lphuocloc/Oasis-Go-BE/shared/dto"
	gRepo "github.com/lphuocloc/Oasis-Go-BE/shared/repository"
)

type Payment interface {
	Insert(ctx context.Context, model model.Payment) error
	InsertTx(ctx context.Context, sqltx *sqlx.Tx, model model.Payment) error
	Get(ctx context.Context, filter gDto.FilterGroup, columns ...string) (model.Payment, error)
	GetForUpdateTx(ctx context.Context, sqltx *sqlx.Tx, filter gDto.FilterGroup) (model.Payment, error)
	GetAll(ctx context.Context, params gDto.QueryParams, filter gDto.FilterGroup, columns ...string) ([]model.Payment, error)
	Count(ctx context.Context, filter gDto.FilterGroup) (int, error)
	Update(ctx context.Context, req map[string]any, filter gDto.FilterGroup) error
	UpdateCount(ctx context.Context, req map[string]any, filter gDto.FilterGroup) (int64, error)
	UpdateTxCount(ctx context.Context, sqltx *sqlx.Tx, req map[string]any, filter gDto.FilterGroup) (int64, error)
	LastOrderIDTx(ctx context.Context, sqltx *sqlx.Tx, pattern string) (string, error)
}

type repositoryImpl struct {
	gRepo.Repository[model.Payment]
	db   *postgres.Connection
	otel otel.Otel
}

func New(db *postgres.Connection, otel otel.Otel) Payment {
	return &repositoryImpl{
		Repository: gRepo.NewRepository[model.Payment](model.EntityName, model.TableName, model.FieldID, db, otel),
		db:         db,
		otel:       otel,
	}
}

// LastOrderIDTx returns the highest order id matching the LIKE pattern,
// locking the row so two concurrent generators cannot read the same
// sequence. Returns the empty string when no order matches yet.
func (r *repositoryImpl) LastOrderIDTx(ctx context.Context, sqltx *sqlx.Tx, pattern string) (orderID string, err error) {
	ctx, scope := r.otel.NewScope(ctx, constant.OtelRepositoryScopeName, constant.OtelRepositoryScopeName+".payment.LastOrderIDTx")
	defer scope.End()
	defer scope.TraceIfError(err)

	query := fmt.Sprintf(
		"SELECT %s FROM %s WHERE %s LIKE $1 ORDER BY %s DESC LIMIT 1 FOR UPDATE",
		model.FieldOrderID, model.TableName, model.FieldOrderID, model.FieldOrderID,
	)

	err = sqltx.GetContext(ctx, &orderID, query, pattern)
	if errors.Is(err, sql.ErrNoRows) {
		return "", nil
	}

	if err != nil {
		log.Error().Err(err).Msg("Failed to get last order id")

		return "", fmt.Errorf("failed to get last order id: %w", err)
	}

	return orderID, nil
}
