package service

//go:generate go run go.uber.org/mock/mockgen -source=./service.go -destination=../mocks/service_mock.go -package=mocks

import (
	"context"
	"fmt"
	"time"
	"tourwise/config"
	"tourwise/infras/otel"
	bookingModel "tourwise/internal/domains/booking/model"
	bookingRepo "tourwise/internal/domains/booking/repository"
	"tourwise/internal/domains/matching/engine"
	"tourwise/internal/domains/matching/model/dto"
	studentModel "tourwise/internal/domains/student/model"
	studentRepo "tourwise/internal/domains/student/repository"
	"tourwise/shared"
	"tourwise/shared/cache"
	"tourwise/shared/constant"
	gDto "tourwise/shared/dto"
	"tourwise/shared/failure"
	"tourwise/shared/timezone"

	"github.com/rs/zerolog/log"
)

const cacheFindMatches = "matching:find"

type Matching interface {
	FindMatches(ctx context.Context, requestID string) (dto.FindMatchesResponse, error)
	InvalidateMatches(ctx context.Context, requestID string)
}

type serviceImpl struct {
	requestRepo      bookingRepo.Request
	studentRepo      studentRepo.Student
	availabilityRepo studentRepo.Availability
	cfg              *config.Config
	cache            cache.RedisCache
	otel             otel.Otel
}

func New(requestRepo bookingRepo.Request, sRepo studentRepo.Student, availabilityRepo studentRepo.Availability, cfg *config.Config, cache cache.RedisCache, otel otel.Otel) Matching {
	return &serviceImpl{
		requestRepo:      requestRepo,
		studentRepo:      sRepo,
		availabilityRepo: availabilityRepo,
		cfg:              cfg,
		cache:            cache,
		otel:             otel,
	}
}

// FindMatches ranks approved guides in the request's city for the given trip
// request. Results are memoized for a short TTL; the cache is never
// authoritative and is dropped when selections are finalized.
func (s *serviceImpl) FindMatches(ctx context.Context, requestID string) (res dto.FindMatchesResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".FindMatches")
	defer scope.End()
	defer scope.TraceIfError(err)

	cacheKey := shared.BuildCacheKey(cacheFindMatches, requestID)

	err = s.cache.Get(ctx, cacheKey, &res)
	if err == nil {
		log.Info().Str("cacheKey", cacheKey).Msg("cache hit for matches")

		return res, nil
	}

	request, err := s.requestRepo.Get(ctx, shared.FilterByID(requestID, bookingModel.RequestFieldID, bookingModel.RequestTableName))
	if err != nil {
		log.Error().Err(err).Msg("failed to get trip request")

		return res, fmt.Errorf("failed to get trip request: %w", err)
	}

	if request.ID == constant.Empty {
		return res, failure.RequestNotFound // nolint:wrapcheck
	}

	if request.Status == bookingModel.RequestStatusPending && request.Expired(timezone.Now()) {
		s.expireLazily(ctx, request.ID)

		return res, failure.RequestExpired // nolint:wrapcheck
	}

	switch request.Status {
	case bookingModel.RequestStatusPending, bookingModel.RequestStatusMatched:
	case bookingModel.RequestStatusExpired:
		return res, failure.RequestExpired // nolint:wrapcheck
	case bookingModel.RequestStatusCancelled:
		return res, failure.RequestCancelled // nolint:wrapcheck
	default:
		return res, failure.RequestAlreadyAccepted // nolint:wrapcheck
	}

	candidates, badges, trips, err := s.loadCandidates(ctx, request.City)
	if err != nil {
		return res, err
	}

	criteria := engine.Criteria{
		City:      request.City,
		Languages: request.PreferredLanguages,
		Gender:    request.PreferredGender,
		Interests: request.Interests,
		Dates:     engine.ParseDateSelector(request.TripDates),
	}

	if request.PreferredNationality != nil {
		criteria.Nationality = *request.PreferredNationality
	}

	scored := engine.FindMatches(criteria, candidates, engine.Options{
		MaxResults:    s.cfg.Matching.MaxResults,
		DefaultRating: s.cfg.Matching.DefaultRating,
	})

	res.FromScored(requestID, scored, badges, trips)

	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Save(c, cacheKey, res, s.cfg.Matching.CacheTTL); err != nil {
			log.Error().Err(err).Msg("failed to save matches to cache")
		}
	}()

	return res, nil
}

// InvalidateMatches drops the memoized shortlist for a request. Called when
// its selections are finalized so stale matches are never served after a
// booking is decided.
func (s *serviceImpl) InvalidateMatches(ctx context.Context, requestID string) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".InvalidateMatches")
	defer scope.End()

	if err := s.cache.Delete(ctx, shared.BuildCacheKey(cacheFindMatches, requestID)); err != nil {
		log.Error().Err(err).Str("request_id", requestID).Msg("failed to invalidate match cache")
	}
}

func (s *serviceImpl) loadCandidates(ctx context.Context, city string) ([]engine.Candidate, map[string]string, map[string]int, error) {
	cityFilter := gDto.FilterGroup{
		Filters: []any{
			gDto.Filter{
				Field:    studentModel.FieldCity,
				Operator: gDto.FilterOperatorEq,
				Value:    city,
				Table:    studentModel.TableName,
			},
			gDto.Filter{
				Field:    studentModel.FieldStatus,
				Operator: gDto.FilterOperatorEq,
				Value:    studentModel.StatusApproved,
				Table:    studentModel.TableName,
			},
		},
		Operator: gDto.FilterGroupOperatorAnd,
	}

	students, err := s.studentRepo.GetAll(ctx, gDto.QueryParams{}, cityFilter)
	if err != nil {
		log.Error().Err(err).Msg("failed to get candidate guides")

		return nil, nil, nil, fmt.Errorf("failed to get candidate guides: %w", err)
	}

	if len(students) == 0 {
		return nil, nil, nil, nil
	}

	studentIDs := make([]string, len(students))
	for i, student := range students {
		studentIDs[i] = student.ID
	}

	slotFilter := gDto.FilterGroup{
		Filters: []any{
			gDto.Filter{
				Field:    studentModel.AvailabilityFieldStudentID,
				Operator: gDto.FilterOperatorIn,
				Value:    studentIDs,
				Table:    studentModel.AvailabilityTableName,
			},
		},
	}

	slots, err := s.availabilityRepo.GetAll(ctx, gDto.QueryParams{}, slotFilter)
	if err != nil {
		log.Error().Err(err).Msg("failed to get availability slots")

		return nil, nil, nil, fmt.Errorf("failed to get availability slots: %w", err)
	}

	available := map[string]map[time.Weekday]bool{}
	for _, slot := range slots {
		if available[slot.StudentID] == nil {
			available[slot.StudentID] = map[time.Weekday]bool{}
		}

		available[slot.StudentID][time.Weekday(slot.DayOfWeek)] = true
	}

	candidates := make([]engine.Candidate, len(students))
	badges := make(map[string]string, len(students))
	trips := make(map[string]int, len(students))

	for i, student := range students {
		candidates[i] = engine.Candidate{
			ID:            student.ID,
			City:          student.City,
			Approved:      student.Status == studentModel.StatusApproved,
			Nationality:   student.Nationality,
			Gender:        student.Gender,
			Languages:     student.Languages,
			Interests:     student.Interests,
			AverageRating: student.AverageRating,
			NoShowCount:   student.NoShowCount,
			AvailableDays: available[student.ID],
		}

		badges[student.ID] = student.ReliabilityBadge
		trips[student.ID] = student.TripsHosted
	}

	return candidates, badges, trips, nil
}

// expireLazily flips a PENDING request whose deadline passed. The status guard
// makes the write a no-op when a concurrent reader already flipped it.
func (s *serviceImpl) expireLazily(ctx context.Context, requestID string) {
	filter := gDto.FilterGroup{
		Filters: []any{
			gDto.Filter{
				Field:    bookingModel.RequestFieldID,
				Operator: gDto.FilterOperatorEq,
				Value:    requestID,
				Table:    bookingModel.RequestTableName,
			},
			gDto.Filter{
				Field:    bookingModel.RequestFieldStatus,
				Operator: gDto.FilterOperatorEq,
				Value:    bookingModel.RequestStatusPending,
				Table:    bookingModel.RequestTableName,
			},
		},
		Operator: gDto.FilterGroupOperatorAnd,
	}

	updatedFields := map[string]any{
		bookingModel.RequestFieldStatus: bookingModel.RequestStatusExpired,
		constant.FieldModifiedAt:        timezone.Now(),
		constant.FieldModifiedBy:        constant.UserSystem,
	}

	if err := s.requestRepo.Update(ctx, updatedFields, filter); err != nil {
		log.Error().Err(err).Str("request_id", requestID).Msg("failed to expire trip request")
	}
}
