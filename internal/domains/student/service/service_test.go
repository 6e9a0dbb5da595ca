package service_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/mock/gomock"

	"tourwise/config"
	"tourwise/infras/otel/mocks"
	s3Mocks "tourwise/infras/s3/mocks"
	studentMocks "tourwise/internal/domains/student/mocks"
	"tourwise/internal/domains/student/model"
	"tourwise/internal/domains/student/model/dto"
	"tourwise/internal/domains/student/service"
	cacheMocks "tourwise/shared/cache/mocks"
	gDto "tourwise/shared/dto"
	"tourwise/shared/failure"
)

type studentMockSet struct {
	repo             *studentMocks.MockStudent
	availabilityRepo *studentMocks.MockAvailability
	cache            *cacheMocks.MockRedisCache
	s3               *s3Mocks.MockS3
}

func newStudentService(ctrl *gomock.Controller) (service.Student, studentMockSet) {
	m := studentMockSet{
		repo:             studentMocks.NewMockStudent(ctrl),
		availabilityRepo: studentMocks.NewMockAvailability(ctrl),
		cache:            cacheMocks.NewMockRedisCache(ctrl),
		s3:               s3Mocks.NewMockS3(ctrl),
	}

	cfg := &config.Config{}
	cfg.Cache.TTL = 3600
	cfg.S3.DocumentBucket = "verification-docs"

	svc := service.New(m.repo, m.availabilityRepo, cfg, m.cache, m.s3, mocks.NewOtel())

	return svc, m
}

func (m studentMockSet) expectInvalidate() {
	m.cache.EXPECT().
		Delete(gomock.Any(), gomock.Any()).
		Return(nil).
		AnyTimes()

	m.cache.EXPECT().
		Clear(gomock.Any(), gomock.Any()).
		Return(nil).
		AnyTimes()
}

func TestStudentService_Create(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	svc, m := newStudentService(ctrl)

	req := dto.CreateStudentRequest{
		City:        "Yogyakarta",
		Nationality: "Indonesian",
		Gender:      "female",
		Languages:   []string{"en", "id"},
		Interests:   []string{"history", "food"},
		Availability: []dto.AvailabilitySlot{
			{DayOfWeek: 1, StartTime: "09:00", EndTime: "17:00"},
		},
	}

	tests := []struct {
		name      string
		req       dto.CreateStudentRequest
		setupMock func()
		wantErr   bool
	}{
		{
			name: "successful creation with availability",
			req:  req,
			setupMock: func() {
				m.repo.EXPECT().
					Exist(gomock.Any(), gomock.Any()).
					Return(false, nil)

				m.repo.EXPECT().
					Insert(gomock.Any(), gomock.Any()).
					DoAndReturn(func(ctx context.Context, student model.Student) error {
						assert.Equal(t, "Yogyakarta", student.City)
						assert.Equal(t, model.StatusPendingApproval, student.Status)
						assert.Equal(t, model.BadgeNone, student.ReliabilityBadge)
						return nil
					})

				m.availabilityRepo.EXPECT().
					InsertBulk(gomock.Any(), gomock.Any()).
					DoAndReturn(func(ctx context.Context, slots []model.Availability) error {
						assert.Len(t, slots, 1)
						return nil
					})

				m.expectInvalidate()
			},
		},
		{
			name: "profile already exists",
			req:  req,
			setupMock: func() {
				m.repo.EXPECT().
					Exist(gomock.Any(), gomock.Any()).
					Return(true, nil)
			},
			wantErr: true,
		},
		{
			name: "insert error",
			req:  req,
			setupMock: func() {
				m.repo.EXPECT().
					Exist(gomock.Any(), gomock.Any()).
					Return(false, nil)

				m.repo.EXPECT().
					Insert(gomock.Any(), gomock.Any()).
					Return(errors.New("database error"))
			},
			wantErr: true,
		},
		{
			name: "no availability skips the bulk insert",
			req: dto.CreateStudentRequest{
				City:        "Yogyakarta",
				Nationality: "Indonesian",
				Gender:      "female",
				Languages:   []string{"en"},
			},
			setupMock: func() {
				m.repo.EXPECT().
					Exist(gomock.Any(), gomock.Any()).
					Return(false, nil)

				m.repo.EXPECT().
					Insert(gomock.Any(), gomock.Any()).
					Return(nil)

				m.expectInvalidate()
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.setupMock()

			err := svc.Create(context.Background(), tt.req, "user-id")

			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestStudentService_Get(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	svc, m := newStudentService(ctrl)

	tests := []struct {
		name      string
		setupMock func()
		wantErr   error
	}{
		{
			name: "cache hit",
			setupMock: func() {
				m.cache.EXPECT().
					Get(gomock.Any(), gomock.Any(), gomock.Any()).
					DoAndReturn(func(ctx context.Context, key string, value any) error {
						res := value.(*dto.StudentResponse)
						res.ID = "student-id"
						return nil
					})
			},
		},
		{
			name: "cache miss loads profile and availability",
			setupMock: func() {
				m.cache.EXPECT().
					Get(gomock.Any(), gomock.Any(), gomock.Any()).
					Return(errors.New("cache miss"))

				m.repo.EXPECT().
					Get(gomock.Any(), gomock.Any()).
					Return(model.Student{ID: "student-id", City: "Yogyakarta"}, nil)

				m.availabilityRepo.EXPECT().
					GetAll(gomock.Any(), gomock.Any(), gomock.Any()).
					Return([]model.Availability{
						{StudentID: "student-id", DayOfWeek: 1, StartTime: "09:00", EndTime: "17:00"},
					}, nil)

				m.cache.EXPECT().
					Save(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
					Return(nil).
					AnyTimes()
			},
		},
		{
			name: "guide not found",
			setupMock: func() {
				m.cache.EXPECT().
					Get(gomock.Any(), gomock.Any(), gomock.Any()).
					Return(errors.New("cache miss"))

				m.repo.EXPECT().
					Get(gomock.Any(), gomock.Any()).
					Return(model.Student{}, nil)
			},
			wantErr: failure.NotFound("guide not found"),
		},
		{
			name: "availability lookup error",
			setupMock: func() {
				m.cache.EXPECT().
					Get(gomock.Any(), gomock.Any(), gomock.Any()).
					Return(errors.New("cache miss"))

				m.repo.EXPECT().
					Get(gomock.Any(), gomock.Any()).
					Return(model.Student{ID: "student-id"}, nil)

				m.availabilityRepo.EXPECT().
					GetAll(gomock.Any(), gomock.Any(), gomock.Any()).
					Return(nil, errors.New("database error"))
			},
			wantErr: errors.New("failed to get availability slots: database error"),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.setupMock()

			res, err := svc.Get(context.Background(), "student-id")

			if tt.wantErr != nil {
				assert.Error(t, err)
				assert.EqualError(t, err, tt.wantErr.Error())
			} else {
				assert.NoError(t, err)
				assert.Equal(t, "student-id", res.ID)
			}
		})
	}
}

func TestStudentService_Update(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	svc, m := newStudentService(ctrl)

	tests := []struct {
		name      string
		req       dto.UpdateStudentRequest
		setupMock func()
		wantErr   bool
	}{
		{
			name: "successful update carries array columns",
			req: dto.UpdateStudentRequest{
				Bio:       "Licensed city guide",
				Languages: []string{"en", "ja"},
			},
			setupMock: func() {
				m.repo.EXPECT().
					Exist(gomock.Any(), gomock.Any()).
					Return(true, nil)

				m.repo.EXPECT().
					Update(gomock.Any(), gomock.Any(), gomock.Any()).
					DoAndReturn(func(ctx context.Context, fields map[string]any, filter gDto.FilterGroup) error {
						assert.Contains(t, fields, model.FieldLanguages)
						assert.Contains(t, fields, model.FieldBio)
						return nil
					})

				m.expectInvalidate()
			},
		},
		{
			name: "guide not found",
			req:  dto.UpdateStudentRequest{Bio: "Licensed city guide"},
			setupMock: func() {
				m.repo.EXPECT().
					Exist(gomock.Any(), gomock.Any()).
					Return(false, nil)
			},
			wantErr: true,
		},
		{
			name: "update error",
			req:  dto.UpdateStudentRequest{Bio: "Licensed city guide"},
			setupMock: func() {
				m.repo.EXPECT().
					Exist(gomock.Any(), gomock.Any()).
					Return(true, nil)

				m.repo.EXPECT().
					Update(gomock.Any(), gomock.Any(), gomock.Any()).
					Return(errors.New("database error"))
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.setupMock()

			err := svc.Update(context.Background(), tt.req, "student-id")

			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestStudentService_SetStatus(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	svc, m := newStudentService(ctrl)

	req := dto.UpdateStudentStatusRequest{Status: model.StatusApproved}

	tests := []struct {
		name      string
		setupMock func()
		wantErr   bool
	}{
		{
			name: "approves a pending guide",
			setupMock: func() {
				m.repo.EXPECT().
					Exist(gomock.Any(), gomock.Any()).
					Return(true, nil)

				m.repo.EXPECT().
					Update(gomock.Any(), gomock.Any(), gomock.Any()).
					DoAndReturn(func(ctx context.Context, fields map[string]any, filter gDto.FilterGroup) error {
						assert.Equal(t, model.StatusApproved, fields[model.FieldStatus])
						return nil
					})

				m.expectInvalidate()
			},
		},
		{
			name: "guide not found",
			setupMock: func() {
				m.repo.EXPECT().
					Exist(gomock.Any(), gomock.Any()).
					Return(false, nil)
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.setupMock()

			err := svc.SetStatus(context.Background(), req, "student-id")

			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestStudentService_ReplaceAvailability(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	svc, m := newStudentService(ctrl)

	req := dto.ReplaceAvailabilityRequest{
		Availability: []dto.AvailabilitySlot{
			{DayOfWeek: 5, StartTime: "10:00", EndTime: "18:00"},
			{DayOfWeek: 6, StartTime: "10:00", EndTime: "18:00"},
		},
	}

	tests := []struct {
		name      string
		req       dto.ReplaceAvailabilityRequest
		setupMock func()
		wantErr   bool
	}{
		{
			name: "replaces existing slots",
			req:  req,
			setupMock: func() {
				m.repo.EXPECT().
					Exist(gomock.Any(), gomock.Any()).
					Return(true, nil)

				m.availabilityRepo.EXPECT().
					Delete(gomock.Any(), gomock.Any()).
					Return(nil)

				m.availabilityRepo.EXPECT().
					InsertBulk(gomock.Any(), gomock.Any()).
					DoAndReturn(func(ctx context.Context, slots []model.Availability) error {
						assert.Len(t, slots, 2)
						return nil
					})

				m.expectInvalidate()
			},
		},
		{
			name: "empty request clears the schedule",
			req:  dto.ReplaceAvailabilityRequest{},
			setupMock: func() {
				m.repo.EXPECT().
					Exist(gomock.Any(), gomock.Any()).
					Return(true, nil)

				m.availabilityRepo.EXPECT().
					Delete(gomock.Any(), gomock.Any()).
					Return(nil)

				m.expectInvalidate()
			},
		},
		{
			name: "guide not found",
			req:  req,
			setupMock: func() {
				m.repo.EXPECT().
					Exist(gomock.Any(), gomock.Any()).
					Return(false, nil)
			},
			wantErr: true,
		},
		{
			name: "delete error",
			req:  req,
			setupMock: func() {
				m.repo.EXPECT().
					Exist(gomock.Any(), gomock.Any()).
					Return(true, nil)

				m.availabilityRepo.EXPECT().
					Delete(gomock.Any(), gomock.Any()).
					Return(errors.New("database error"))
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.setupMock()

			err := svc.ReplaceAvailability(context.Background(), tt.req, "student-id")

			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestStudentService_UploadVerificationDoc(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	svc, m := newStudentService(ctrl)

	tests := []struct {
		name      string
		setupMock func()
		wantErr   bool
	}{
		{
			name: "uploads and stores the document url",
			setupMock: func() {
				m.repo.EXPECT().
					Exist(gomock.Any(), gomock.Any()).
					Return(true, nil)

				m.s3.EXPECT().
					UploadFile(gomock.Any(), "verification-docs", gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
					Return("https://cdn.example.com/verification-docs/student-id.pdf", nil)

				m.repo.EXPECT().
					Update(gomock.Any(), gomock.Any(), gomock.Any()).
					DoAndReturn(func(ctx context.Context, fields map[string]any, filter gDto.FilterGroup) error {
						assert.Equal(t, "https://cdn.example.com/verification-docs/student-id.pdf", fields[model.FieldVerificationDocURL])
						return nil
					})

				m.expectInvalidate()
			},
		},
		{
			name: "guide not found",
			setupMock: func() {
				m.repo.EXPECT().
					Exist(gomock.Any(), gomock.Any()).
					Return(false, nil)
			},
			wantErr: true,
		},
		{
			name: "upload error",
			setupMock: func() {
				m.repo.EXPECT().
					Exist(gomock.Any(), gomock.Any()).
					Return(true, nil)

				m.s3.EXPECT().
					UploadFile(gomock.Any(), "verification-docs", gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
					Return("", errors.New("upload failed"))
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.setupMock()

			res, err := svc.UploadVerificationDoc(context.Background(), "student-id", nil, nil)

			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
				assert.NotEmpty(t, res.URL)
			}
		})
	}
}
