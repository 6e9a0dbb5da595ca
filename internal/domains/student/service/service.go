package service

//go:generate go run go.uber.org/mock/mockgen -source=./service.go -destination=../mocks/service_mock.go -package=mocks

import (
	"context"
	"fmt"
	"mime/multipart"
	"tourwise/config"
	"tourwise/infras/otel"
	"tourwise/infras/s3"
	"tourwise/internal/domains/student/model"
	"tourwise/internal/domains/student/model/dto"
	"tourwise/internal/domains/student/repository"
	"tourwise/shared"
	"tourwise/shared/cache"
	"tourwise/shared/constant"
	gDto "tourwise/shared/dto"
	"tourwise/shared/failure"
	"tourwise/shared/timezone"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/rs/zerolog/log"
)

const (
	cacheGetStudent    = "student:get"
	cacheGetAllStudent = "student:gets"
	cacheCountStudent  = "student:count"

	verificationDocDirectory = "verification-docs"
)

type Student interface {
	Create(ctx context.Context, req dto.CreateStudentRequest, userID string) error
	GetAll(ctx context.Context, req gDto.QueryParams, filter gDto.FilterGroup) (dto.GetStudentsResponse, error)
	Count(ctx context.Context, req gDto.QueryParams, filter gDto.FilterGroup) (int, error)
	Get(ctx context.Context, id string) (dto.StudentResponse, error)
	Update(ctx context.Context, req dto.UpdateStudentRequest, id string) error
	SetStatus(ctx context.Context, req dto.UpdateStudentStatusRequest, id string) error
	ReplaceAvailability(ctx context.Context, req dto.ReplaceAvailabilityRequest, id string) error
	UploadVerificationDoc(ctx context.Context, id string, file multipart.File, fileHeader *multipart.FileHeader) (dto.UploadVerificationDocResponse, error)
}

type serviceImpl struct {
	repo             repository.Student
	availabilityRepo repository.Availability
	cfg              *config.Config
	cache            cache.RedisCache
	s3               s3.S3
	otel             otel.Otel
}

func New(repo repository.Student, availabilityRepo repository.Availability, cfg *config.Config, cache cache.RedisCache, s3Client s3.S3, otel otel.Otel) Student {
	return &serviceImpl{
		repo:             repo,
		availabilityRepo: availabilityRepo,
		cfg:              cfg,
		cache:            cache,
		s3:               s3Client,
		otel:             otel,
	}
}

func (s *serviceImpl) Create(ctx context.Context, req dto.CreateStudentRequest, userID string) (err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Create")
	defer scope.End()
	defer scope.TraceIfError(err)

	user, _ := ctx.Value(constant.ContextKeyUserID).(string)

	userFilter := gDto.FilterGroup{
		Filters: []any{
			gDto.Filter{
				Field:    model.FieldUserID,
				Operator: gDto.FilterOperatorEq,
				Value:    userID,
				Table:    model.TableName,
			},
		},
	}

	exists, err := s.repo.Exist(ctx, userFilter)
	if err != nil {
		log.Error().Err(err).Msg("failed to check if guide profile exists")

		return fmt.Errorf("failed to check if guide profile exists: %w", err)
	}

	if exists {
		return failure.BadRequestFromString("guide profile already exists for this user")
	}

	student := req.ToModel(userID, user)

	if err = s.repo.Insert(ctx, student); err != nil {
		log.Error().Err(err).Msg("failed to create guide profile")

		return fmt.Errorf("failed to create guide profile: %w", err)
	}

	if len(req.Availability) > 0 {
		if err = s.availabilityRepo.InsertBulk(ctx, req.ToAvailabilityModels(student.ID, user)); err != nil {
			log.Error().Err(err).Msg("failed to create availability slots")

			return fmt.Errorf("failed to create availability slots: %w", err)
		}
	}

	go func() {
		c := context.WithoutCancel(ctx)

		shared.InvalidateCaches(c, s.cache, cacheGetAllStudent)
		shared.InvalidateCaches(c, s.cache, cacheCountStudent)
	}()

	return nil
}

func (s *serviceImpl) GetAll(ctx context.Context, req gDto.QueryParams, filter gDto.FilterGroup) (res dto.GetStudentsResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".GetAll")
	defer scope.End()
	defer scope.TraceIfError(err)

	cacheKey := shared.BuildCacheKeyWithQuery(cacheGetAllStudent, req, filter)

	err = s.cache.Get(ctx, cacheKey, &res)
	if err == nil {
		log.Info().Str("cacheKey", cacheKey).Msg("cache hit for students")

		return res, nil
	}

	total, err := s.Count(ctx, req, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to count students")

		return res, fmt.Errorf("failed to count students: %w", err)
	}

	models, err := s.repo.GetAll(ctx, req, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to get students")

		return res, fmt.Errorf("failed to get students: %w", err)
	}

	res.FromModels(models, total, req.Limit)

	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Save(c, cacheKey, res, s.cfg.Cache.TTL); err != nil {
			log.Error().Err(err).Msg("failed to save students to cache")
		}
	}()

	return res, nil
}

func (s *serviceImpl) Count(ctx context.Context, req gDto.QueryParams, filter gDto.FilterGroup) (res int, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Count")
	defer scope.End()
	defer scope.TraceIfError(err)

	cacheKey := shared.BuildCacheKeyWithQuery(cacheCountStudent, req, filter)

	err = s.cache.Get(ctx, cacheKey, &res)
	if err == nil {
		log.Info().Str("cacheKey", cacheKey).Msg("cache hit for student count")

		return res, nil
	}

	res, err = s.repo.Count(ctx, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to count students")

		return res, fmt.Errorf("failed to count students: %w", err)
	}

	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Save(c, cacheKey, res, s.cfg.Cache.TTL); err != nil {
			log.Error().Err(err).Msg("failed to save student count to cache")
		}
	}()

	return res, nil
}

func (s *serviceImpl) Get(ctx context.Context, id string) (res dto.StudentResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Get")
	defer scope.End()
	defer scope.TraceIfError(err)

	cacheKey := shared.BuildCacheKey(cacheGetStudent, id)

	err = s.cache.Get(ctx, cacheKey, &res)
	if err == nil {
		log.Info().Str("cacheKey", cacheKey).Msg("cache hit for student")

		return res, nil
	}

	student, err := s.repo.Get(ctx, shared.FilterByID(id, model.FieldID, model.TableName))
	if err != nil {
		log.Error().Err(err).Msg("failed to get student")

		return res, fmt.Errorf("failed to get student: %w", err)
	}

	if student.ID == constant.Empty {
		return res, failure.NotFound("guide not found") // nolint:wrapcheck
	}

	slots, err := s.availabilityRepo.GetAll(ctx, gDto.QueryParams{}, s.availabilityFilter(id))
	if err != nil {
		log.Error().Err(err).Msg("failed to get availability slots")

		return res, fmt.Errorf("failed to get availability slots: %w", err)
	}

	res.FromModel(student)
	res.WithAvailability(slots)

	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Save(c, cacheKey, res, s.cfg.Cache.TTL); err != nil {
			log.Error().Err(err).Msg("failed to save student to cache")
		}
	}()

	return res, nil
}

func (s *serviceImpl) Update(ctx context.Context, req dto.UpdateStudentRequest, id string) (err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Update")
	defer scope.End()
	defer scope.TraceIfError(err)

	user, _ := ctx.Value(constant.ContextKeyUserID).(string)
	filter := shared.FilterByID(id, model.FieldID, model.TableName)

	exist, err := s.repo.Exist(ctx, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to check if student exists")

		return fmt.Errorf("failed to check if student exists: %w", err)
	}

	if !exist {
		log.Error().Msg("guide not found")

		return failure.NotFound("guide not found") // nolint:wrapcheck
	}

	updatedFields := shared.TransformFields(req, user)

	// Array columns carry no db tag, so the reflection pass skips them.
	if len(req.Languages) > 0 {
		updatedFields[model.FieldLanguages] = pq.StringArray(req.Languages)
	}

	if len(req.Interests) > 0 {
		updatedFields[model.FieldInterests] = pq.StringArray(req.Interests)
	}

	if err := s.repo.Update(ctx, updatedFields, filter); err != nil {
		log.Error().Err(err).Msg("failed to update student")

		return fmt.Errorf("failed to update student: %w", err)
	}

	s.invalidate(ctx, id)

	return nil
}

func (s *serviceImpl) SetStatus(ctx context.Context, req dto.UpdateStudentStatusRequest, id string) (err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".SetStatus")
	defer scope.End()
	defer scope.TraceIfError(err)

	user, _ := ctx.Value(constant.ContextKeyUserID).(string)
	filter := shared.FilterByID(id, model.FieldID, model.TableName)

	exist, err := s.repo.Exist(ctx, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to check if student exists")

		return fmt.Errorf("failed to check if student exists: %w", err)
	}

	if !exist {
		return failure.NotFound("guide not found") // nolint:wrapcheck
	}

	updatedFields := shared.TransformFields(req, user)
	if err := s.repo.Update(ctx, updatedFields, filter); err != nil {
		log.Error().Err(err).Msg("failed to update student status")

		return fmt.Errorf("failed to update student status: %w", err)
	}

	log.Info().Str("student_id", id).Str("status", req.Status).Msg("guide approval status changed")

	s.invalidate(ctx, id)

	return nil
}

func (s *serviceImpl) ReplaceAvailability(ctx context.Context, req dto.ReplaceAvailabilityRequest, id string) (err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".ReplaceAvailability")
	defer scope.End()
	defer scope.TraceIfError(err)

	user, _ := ctx.Value(constant.ContextKeyUserID).(string)

	exist, err := s.repo.Exist(ctx, shared.FilterByID(id, model.FieldID, model.TableName))
	if err != nil {
		log.Error().Err(err).Msg("failed to check if student exists")

		return fmt.Errorf("failed to check if student exists: %w", err)
	}

	if !exist {
		return failure.NotFound("guide not found") // nolint:wrapcheck
	}

	if err = s.availabilityRepo.Delete(ctx, s.availabilityFilter(id)); err != nil {
		log.Error().Err(err).Msg("failed to delete availability slots")

		return fmt.Errorf("failed to delete availability slots: %w", err)
	}

	if len(req.Availability) > 0 {
		create := dto.CreateStudentRequest{Availability: req.Availability}
		if err = s.availabilityRepo.InsertBulk(ctx, create.ToAvailabilityModels(id, user)); err != nil {
			log.Error().Err(err).Msg("failed to create availability slots")

			return fmt.Errorf("failed to create availability slots: %w", err)
		}
	}

	s.invalidate(ctx, id)

	return nil
}

func (s *serviceImpl) UploadVerificationDoc(ctx context.Context, id string, file multipart.File, fileHeader *multipart.FileHeader) (res dto.UploadVerificationDocResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".UploadVerificationDoc")
	defer scope.End()
	defer scope.TraceIfError(err)

	user, _ := ctx.Value(constant.ContextKeyUserID).(string)
	filter := shared.FilterByID(id, model.FieldID, model.TableName)

	exist, err := s.repo.Exist(ctx, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to check if student exists")

		return res, fmt.Errorf("failed to check if student exists: %w", err)
	}

	if !exist {
		return res, failure.NotFound("guide not found") // nolint:wrapcheck
	}

	fileName := fmt.Sprintf("%s-%s", id, uuid.NewString())

	url, err := s.s3.UploadFile(ctx, s.cfg.S3.DocumentBucket, verificationDocDirectory, file, fileHeader, fileName)
	if err != nil {
		log.Error().Err(err).Msg("failed to upload verification document")

		return res, fmt.Errorf("failed to upload verification document: %w", err)
	}

	updatedFields := map[string]any{
		model.FieldVerificationDocURL: url,
		constant.FieldModifiedAt:      timezone.Now(),
		constant.FieldModifiedBy:      user,
	}

	if err = s.repo.Update(ctx, updatedFields, filter); err != nil {
		log.Error().Err(err).Msg("failed to store verification document url")

		return res, fmt.Errorf("failed to store verification document url: %w", err)
	}

	s.invalidate(ctx, id)

	return dto.UploadVerificationDocResponse{URL: url}, nil
}

func (s *serviceImpl) availabilityFilter(studentID string) gDto.FilterGroup {
	return gDto.FilterGroup{
		Filters: []any{
			gDto.Filter{
				Field:    model.AvailabilityFieldStudentID,
				Operator: gDto.FilterOperatorEq,
				Value:    studentID,
				Table:    model.AvailabilityTableName,
			},
		},
	}
}

func (s *serviceImpl) invalidate(ctx context.Context, id string) {
	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Delete(c, shared.BuildCacheKey(cacheGetStudent, id)); err != nil {
			log.Error().Err(err).Msg("failed to delete student from cache")
		}

		shared.InvalidateCaches(c, s.cache, cacheGetAllStudent)
		shared.InvalidateCaches(c, s.cache, cacheCountStudent)
	}()
}
