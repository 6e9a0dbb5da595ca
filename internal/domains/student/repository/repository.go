package repository

//go:generate go run go.uber.org/mock/mockgen -source=./repository.go -destination=../mocks/repository_mock.go -package=mocks

import (
	"context"
	"tourwise/infras/otel"
	"tourwise/infras/postgres"
	"tourwise/internal/domains/student/model"
	gDto "tourwise/shared/dto"
	gRepo "tourwise/shared/repository"

	"github.com/jmoiron/sqlx"
)

type Student interface {
	Insert(ctx context.Context, model model.Student) error
	Get(ctx context.Context, filter gDto.FilterGroup, columns ...string) (model.Student, error)
	GetAll(ctx context.Context, params gDto.QueryParams, filter gDto.FilterGroup, columns ...string) ([]model.Student, error)
	Exist(ctx context.Context, filter gDto.FilterGroup) (bool, error)
	Count(ctx context.Context, filter gDto.FilterGroup) (int, error)
	Update(ctx context.Context, req map[string]any, filter gDto.FilterGroup) error
	Delete(ctx context.Context, filter gDto.FilterGroup) error
	Transact(ctx context.Context, fn func(tx *sqlx.Tx) error) error
	GetForUpdateTx(ctx context.Context, tx *sqlx.Tx, filter gDto.FilterGroup) (model.Student, bool, error)
	UpdateTx(ctx context.Context, tx *sqlx.Tx, req map[string]any, filter gDto.FilterGroup) error
}

type repositoryImpl struct {
	gRepo.Repository[model.Student]
	db   *postgres.Connection
	otel otel.Otel
}

func New(db *postgres.Connection, otel otel.Otel) Student {
	return &repositoryImpl{
		Repository: gRepo.NewRepository[model.Student](model.EntityName, model.TableName, model.FieldID, db, otel),
		db:         db,
		otel:       otel,
	}
}

type Availability interface {
	Insert(ctx context.Context, model model.Availability) error
	InsertBulk(ctx context.Context, models []model.Availability) error
	GetAll(ctx context.Context, params gDto.QueryParams, filter gDto.FilterGroup, columns ...string) ([]model.Availability, error)
	Delete(ctx context.Context, filter gDto.FilterGroup) error
}

type availabilityImpl struct {
	gRepo.Repository[model.Availability]
	db   *postgres.Connection
	otel otel.Otel
}

func NewAvailability(db *postgres.Connection, otel otel.Otel) Availability {
	return &availabilityImpl{
		Repository: gRepo.NewRepository[model.Availability](model.AvailabilityEntityName, model.AvailabilityTableName, model.AvailabilityFieldID, db, otel),
		db:         db,
		otel:       otel,
	}
}
