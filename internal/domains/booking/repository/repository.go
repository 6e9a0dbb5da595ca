package repository

//go:generate go run go.uber.org/mock/mockgen -source=./repository.go -destination=../mocks/repository_mock.go -package=mocks

import (
	"context"
	"tourwise/infras/otel"
	"tourwise/infras/postgres"
	"tourwise/internal/domains/booking/model"
	gDto "tourwise/shared/dto"
	gRepo "tourwise/shared/repository"

	"github.com/jmoiron/sqlx"
)

type Request interface {
	Insert(ctx context.Context, model model.TouristRequest) error
	Get(ctx context.Context, filter gDto.FilterGroup, columns ...string) (model.TouristRequest, error)
	GetAll(ctx context.Context, params gDto.QueryParams, filter gDto.FilterGroup, columns ...string) ([]model.TouristRequest, error)
	Exist(ctx context.Context, filter gDto.FilterGroup) (bool, error)
	Count(ctx context.Context, filter gDto.FilterGroup) (int, error)
	Update(ctx context.Context, req map[string]any, filter gDto.FilterGroup) error
	Delete(ctx context.Context, filter gDto.FilterGroup) error
	Transact(ctx context.Context, fn func(tx *sqlx.Tx) error) error
	GetForUpdateTx(ctx context.Context, tx *sqlx.Tx, filter gDto.FilterGroup) (model.TouristRequest, bool, error)
	UpdateTx(ctx context.Context, tx *sqlx.Tx, req map[string]any, filter gDto.FilterGroup) error
	UpdateGuardedTx(ctx context.Context, tx *sqlx.Tx, req map[string]any, filter gDto.FilterGroup) (int64, error)
}

type requestImpl struct {
	gRepo.Repository[model.TouristRequest]
	db   *postgres.Connection
	otel otel.Otel
}

func NewRequest(db *postgres.Connection, otel otel.Otel) Request {
	return &requestImpl{
		Repository: gRepo.NewRepository[model.TouristRequest](model.RequestEntityName, model.RequestTableName, model.RequestFieldID, db, otel),
		db:         db,
		otel:       otel,
	}
}

type Selection interface {
	Insert(ctx context.Context, model model.RequestSelection) error
	InsertBulk(ctx context.Context, models []model.RequestSelection) error
	InsertTx(ctx context.Context, tx *sqlx.Tx, model model.RequestSelection) error
	Get(ctx context.Context, filter gDto.FilterGroup, columns ...string) (model.RequestSelection, error)
	GetAll(ctx context.Context, params gDto.QueryParams, filter gDto.FilterGroup, columns ...string) ([]model.RequestSelection, error)
	Exist(ctx context.Context, filter gDto.FilterGroup) (bool, error)
	Delete(ctx context.Context, filter gDto.FilterGroup) error
	DeleteTx(ctx context.Context, tx *sqlx.Tx, filter gDto.FilterGroup) error
	Transact(ctx context.Context, fn func(tx *sqlx.Tx) error) error
	GetForUpdateTx(ctx context.Context, tx *sqlx.Tx, filter gDto.FilterGroup) (model.RequestSelection, bool, error)
	UpdateTx(ctx context.Context, tx *sqlx.Tx, req map[string]any, filter gDto.FilterGroup) error
	UpdateGuardedTx(ctx context.Context, tx *sqlx.Tx, req map[string]any, filter gDto.FilterGroup) (int64, error)
	InsertBulkTx(ctx context.Context, tx *sqlx.Tx, models []model.RequestSelection) error
}

type selectionImpl struct {
	gRepo.Repository[model.RequestSelection]
	db   *postgres.Connection
	otel otel.Otel
}

func NewSelection(db *postgres.Connection, otel otel.Otel) Selection {
	return &selectionImpl{
		Repository: gRepo.NewRepository[model.RequestSelection](model.SelectionEntityName, model.SelectionTableName, model.SelectionFieldID, db, otel),
		db:         db,
		otel:       otel,
	}
}
