package service

//go:generate go run go.uber.org/mock/mockgen -source=./service.go -destination=../mocks/service_mock.go -package=mocks

import (
	"context"
	"errors"
	"fmt"
	"tourwise/config"
	"tourwise/infras/otel"
	bookingModel "tourwise/internal/domains/booking/model"
	bookingRepo "tourwise/internal/domains/booking/repository"
	"tourwise/internal/domains/review/model"
	"tourwise/internal/domains/review/model/dto"
	"tourwise/internal/domains/review/repository"
	studentModel "tourwise/internal/domains/student/model"
	studentRepo "tourwise/internal/domains/student/repository"
	userModel "tourwise/internal/domains/user/model"
	userRepo "tourwise/internal/domains/user/repository"
	"tourwise/internal/notification"
	"tourwise/shared"
	"tourwise/shared/cache"
	"tourwise/shared/constant"
	gDto "tourwise/shared/dto"
	"tourwise/shared/failure"
	"tourwise/shared/timezone"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/rs/zerolog/log"
)

const cacheGetStudent = "student:get"

type Review interface {
	Create(ctx context.Context, req dto.CreateReviewRequest, touristID string) (dto.ReviewResponse, error)
	GetByRequest(ctx context.Context, requestID string) (dto.ReviewResponse, error)
	GetAllByStudent(ctx context.Context, studentID string) (dto.GetReviewsResponse, error)
	RecomputeMetrics(ctx context.Context, studentID string) (dto.MetricsResponse, error)
}

type serviceImpl struct {
	repo        repository.Review
	requestRepo bookingRepo.Request
	studentRepo studentRepo.Student
	userRepo    userRepo.User
	notifier    notification.Notifier
	cfg         *config.Config
	cache       cache.RedisCache
	otel        otel.Otel
}

func New(
	repo repository.Review,
	requestRepo bookingRepo.Request,
	sRepo studentRepo.Student,
	uRepo userRepo.User,
	notifier notification.Notifier,
	cfg *config.Config,
	cache cache.RedisCache,
	otel otel.Otel,
) Review {
	return &serviceImpl{
		repo:        repo,
		requestRepo: requestRepo,
		studentRepo: sRepo,
		userRepo:    uRepo,
		notifier:    notifier,
		cfg:         cfg,
		cache:       cache,
		otel:        otel,
	}
}

// Create writes the review and recomputes the guide's aggregates inside one
// transaction. The unique constraint on request_id is the source of truth for
// one-review-per-request; a lost race maps to the same conflict as the
// up-front check.
func (s *serviceImpl) Create(ctx context.Context, req dto.CreateReviewRequest, touristID string) (res dto.ReviewResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Create")
	defer scope.End()
	defer scope.TraceIfError(err)

	user, _ := ctx.Value(constant.ContextKeyUserID).(string)

	request, err := s.requestRepo.Get(ctx, shared.FilterByID(req.RequestID, bookingModel.RequestFieldID, bookingModel.RequestTableName))
	if err != nil {
		log.Error().Err(err).Msg("failed to get trip request")

		return res, fmt.Errorf("failed to get trip request: %w", err)
	}

	if request.ID == constant.Empty {
		return res, failure.RequestNotFound // nolint:wrapcheck
	}

	if request.TouristID != touristID {
		return res, failure.ResourceRestrictedError // nolint:wrapcheck
	}

	if request.Status != bookingModel.RequestStatusAccepted || request.AssignedStudentID == nil {
		return res, failure.BadRequestFromString("trip request has no accepted guide to review")
	}

	studentID := *request.AssignedStudentID

	exists, err := s.repo.Exist(ctx, s.requestReviewFilter(req.RequestID))
	if err != nil {
		log.Error().Err(err).Msg("failed to check if review exists")

		return res, fmt.Errorf("failed to check if review exists: %w", err)
	}

	if exists {
		return res, failure.ReviewAlreadyExists // nolint:wrapcheck
	}

	review := req.ToModel(studentID, touristID, user)

	err = s.repo.Transact(ctx, func(tx *sqlx.Tx) error {
		if err := s.repo.InsertTx(ctx, tx, review); err != nil {
			if isUniqueViolation(err) {
				return failure.ReviewAlreadyExists // nolint:wrapcheck
			}

			return fmt.Errorf("failed to insert review: %w", err)
		}

		return s.recomputeInTx(ctx, tx, studentID, user)
	})
	if err != nil {
		return res, err
	}

	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Delete(c, shared.BuildCacheKey(cacheGetStudent, studentID)); err != nil {
			log.Error().Err(err).Msg("failed to delete student from cache")
		}

		s.notifier.ReviewCreated(c, notification.ReviewEvent{
			RequestID:  req.RequestID,
			StudentID:  studentID,
			Rating:     req.Rating,
			GuideEmail: s.guideEmail(c, studentID),
			OccurredAt: timezone.Now(),
		})
	}()

	res.FromModel(review)

	return res, nil
}

func (s *serviceImpl) GetByRequest(ctx context.Context, requestID string) (res dto.ReviewResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".GetByRequest")
	defer scope.End()
	defer scope.TraceIfError(err)

	review, err := s.repo.Get(ctx, s.requestReviewFilter(requestID))
	if err != nil {
		log.Error().Err(err).Msg("failed to get review")

		return res, fmt.Errorf("failed to get review: %w", err)
	}

	if review.ID == constant.Empty {
		return res, failure.NotFound("review not found") // nolint:wrapcheck
	}

	res.FromModel(review)

	return res, nil
}

func (s *serviceImpl) GetAllByStudent(ctx context.Context, studentID string) (res dto.GetReviewsResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".GetAllByStudent")
	defer scope.End()
	defer scope.TraceIfError(err)

	reviews, err := s.repo.GetAll(ctx, gDto.QueryParams{}, s.studentReviewsFilter(studentID))
	if err != nil {
		log.Error().Err(err).Msg("failed to get reviews")

		return res, fmt.Errorf("failed to get reviews: %w", err)
	}

	res.FromModels(reviews)

	return res, nil
}

// RecomputeMetrics rebuilds a guide's aggregates from their review set.
// Running it twice over the same reviews yields the same stored values.
func (s *serviceImpl) RecomputeMetrics(ctx context.Context, studentID string) (res dto.MetricsResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".RecomputeMetrics")
	defer scope.End()
	defer scope.TraceIfError(err)

	exist, err := s.studentRepo.Exist(ctx, shared.FilterByID(studentID, studentModel.FieldID, studentModel.TableName))
	if err != nil {
		log.Error().Err(err).Msg("failed to check if student exists")

		return res, fmt.Errorf("failed to check if student exists: %w", err)
	}

	if !exist {
		return res, failure.NotFound("guide not found") // nolint:wrapcheck
	}

	var metrics Metrics

	err = s.repo.Transact(ctx, func(tx *sqlx.Tx) error {
		reviews, err := s.repo.GetAllTx(ctx, tx, s.studentReviewsFilter(studentID))
		if err != nil {
			return fmt.Errorf("failed to get reviews: %w", err)
		}

		metrics = ComputeMetrics(reviews)

		return s.applyMetricsTx(ctx, tx, studentID, metrics, constant.UserSystem)
	})
	if err != nil {
		return res, err
	}

	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Delete(c, shared.BuildCacheKey(cacheGetStudent, studentID)); err != nil {
			log.Error().Err(err).Msg("failed to delete student from cache")
		}
	}()

	return dto.MetricsResponse{
		StudentID:        studentID,
		AverageRating:    metrics.AverageRating,
		NoShowCount:      metrics.NoShowCount,
		TripsHosted:      metrics.TripsHosted,
		TotalReviews:     metrics.TotalReviews,
		CompletionRate:   metrics.CompletionRate,
		ReliabilityBadge: metrics.ReliabilityBadge,
	}, nil
}

func (s *serviceImpl) recomputeInTx(ctx context.Context, tx *sqlx.Tx, studentID, user string) error {
	reviews, err := s.repo.GetAllTx(ctx, tx, s.studentReviewsFilter(studentID))
	if err != nil {
		return fmt.Errorf("failed to get reviews: %w", err)
	}

	return s.applyMetricsTx(ctx, tx, studentID, ComputeMetrics(reviews), user)
}

func (s *serviceImpl) applyMetricsTx(ctx context.Context, tx *sqlx.Tx, studentID string, metrics Metrics, user string) error {
	updatedFields := map[string]any{
		studentModel.FieldAverageRating:    metrics.AverageRating,
		studentModel.FieldNoShowCount:      metrics.NoShowCount,
		studentModel.FieldTripsHosted:      metrics.TripsHosted,
		studentModel.FieldReliabilityBadge: metrics.ReliabilityBadge,
		constant.FieldModifiedAt:           timezone.Now(),
		constant.FieldModifiedBy:           user,
	}

	err := s.studentRepo.UpdateTx(ctx, tx, updatedFields, shared.FilterByID(studentID, studentModel.FieldID, studentModel.TableName))
	if err != nil {
		return fmt.Errorf("failed to update guide metrics: %w", err)
	}

	return nil
}

func (s *serviceImpl) requestReviewFilter(requestID string) gDto.FilterGroup {
	return gDto.FilterGroup{
		Filters: []any{
			gDto.Filter{
				Field:    model.FieldRequestID,
				Operator: gDto.FilterOperatorEq,
				Value:    requestID,
				Table:    model.TableName,
			},
		},
	}
}

func (s *serviceImpl) studentReviewsFilter(studentID string) gDto.FilterGroup {
	return gDto.FilterGroup{
		Filters: []any{
			gDto.Filter{
				Field:    model.FieldStudentID,
				Operator: gDto.FilterOperatorEq,
				Value:    studentID,
				Table:    model.TableName,
			},
		},
	}
}

func (s *serviceImpl) guideEmail(ctx context.Context, studentID string) string {
	student, err := s.studentRepo.Get(ctx, shared.FilterByID(studentID, studentModel.FieldID, studentModel.TableName))
	if err != nil || student.UserID == constant.Empty {
		return constant.Empty
	}

	guideUser, err := s.userRepo.Get(ctx, shared.FilterByID(student.UserID, userModel.FieldID, userModel.TableName))
	if err != nil {
		log.Error().Err(err).Str("user_id", student.UserID).Msg("failed to get guide user for notification")

		return constant.Empty
	}

	return guideUser.Email
}

func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return string(pqErr.Code) == constant.PqErrorCodeUniqueViolation
	}

	return false
}
