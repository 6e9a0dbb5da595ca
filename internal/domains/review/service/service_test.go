package service_test

import (
	"context"
	"errors"
	"testing"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"go.uber.org/mock/gomock"

	"tourwise/config"
	"tourwise/infras/otel/mocks"
	bookingMocks "tourwise/internal/domains/booking/mocks"
	bookingModel "tourwise/internal/domains/booking/model"
	reviewMocks "tourwise/internal/domains/review/mocks"
	"tourwise/internal/domains/review/model"
	"tourwise/internal/domains/review/model/dto"
	"tourwise/internal/domains/review/service"
	studentMocks "tourwise/internal/domains/student/mocks"
	studentModel "tourwise/internal/domains/student/model"
	userMocks "tourwise/internal/domains/user/mocks"
	userModel "tourwise/internal/domains/user/model"
	notificationMocks "tourwise/internal/notification/mocks"
	cacheMocks "tourwise/shared/cache/mocks"
	"tourwise/shared/constant"
	"tourwise/shared/failure"
)

func TestReviewService_Create(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockRepo := reviewMocks.NewMockReview(ctrl)
	mockRequestRepo := bookingMocks.NewMockRequest(ctrl)
	mockStudentRepo := studentMocks.NewMockStudent(ctrl)
	mockUserRepo := userMocks.NewMockUser(ctrl)
	mockNotifier := notificationMocks.NewMockNotifier(ctrl)
	mockCache := cacheMocks.NewMockRedisCache(ctrl)
	mockOtel := mocks.NewOtel()

	cfg := &config.Config{}
	cfg.Cache.TTL = 3600

	svc := service.New(mockRepo, mockRequestRepo, mockStudentRepo, mockUserRepo, mockNotifier, cfg, mockCache, mockOtel)

	studentID := "student-id"
	acceptedRequest := bookingModel.TouristRequest{
		ID:                "request-id",
		TouristID:         "tourist-id",
		Status:            bookingModel.RequestStatusAccepted,
		AssignedStudentID: &studentID,
	}

	req := dto.CreateReviewRequest{
		RequestID: "request-id",
		Rating:    5,
		Comment:   "Great trip",
	}

	tests := []struct {
		name      string
		req       dto.CreateReviewRequest
		touristID string
		setupMock func()
		wantErr   error
	}{
		{
			name:      "successful creation recomputes metrics in the same transaction",
			req:       req,
			touristID: "tourist-id",
			setupMock: func() {
				mockRequestRepo.EXPECT().
					Get(gomock.Any(), gomock.Any()).
					Return(acceptedRequest, nil)

				mockRepo.EXPECT().
					Exist(gomock.Any(), gomock.Any()).
					Return(false, nil)

				mockRepo.EXPECT().
					Transact(gomock.Any(), gomock.Any()).
					DoAndReturn(func(ctx context.Context, fn func(tx *sqlx.Tx) error) error {
						return fn(nil)
					})

				mockRepo.EXPECT().
					InsertTx(gomock.Any(), gomock.Any(), gomock.Any()).
					Return(nil)

				mockRepo.EXPECT().
					GetAllTx(gomock.Any(), gomock.Any(), gomock.Any()).
					Return([]model.Review{{StudentID: studentID, Rating: 5}}, nil)

				mockStudentRepo.EXPECT().
					UpdateTx(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
					Return(nil)

				mockCache.EXPECT().
					Delete(gomock.Any(), gomock.Any()).
					Return(nil).
					AnyTimes()

				mockStudentRepo.EXPECT().
					Get(gomock.Any(), gomock.Any()).
					Return(studentModel.Student{ID: studentID, UserID: "user-id"}, nil).
					AnyTimes()

				mockUserRepo.EXPECT().
					Get(gomock.Any(), gomock.Any()).
					Return(userModel.User{ID: "user-id", Email: "guide@example.com"}, nil).
					AnyTimes()

				mockNotifier.EXPECT().
					ReviewCreated(gomock.Any(), gomock.Any()).
					AnyTimes()
			},
		},
		{
			name:      "trip request not found",
			req:       req,
			touristID: "tourist-id",
			setupMock: func() {
				mockRequestRepo.EXPECT().
					Get(gomock.Any(), gomock.Any()).
					Return(bookingModel.TouristRequest{}, nil)
			},
			wantErr: failure.RequestNotFound,
		},
		{
			name:      "reviewer does not own the request",
			req:       req,
			touristID: "someone-else",
			setupMock: func() {
				mockRequestRepo.EXPECT().
					Get(gomock.Any(), gomock.Any()).
					Return(acceptedRequest, nil)
			},
			wantErr: failure.ResourceRestrictedError,
		},
		{
			name:      "request has no accepted guide",
			req:       req,
			touristID: "tourist-id",
			setupMock: func() {
				pending := acceptedRequest
				pending.Status = bookingModel.RequestStatusPending
				pending.AssignedStudentID = nil

				mockRequestRepo.EXPECT().
					Get(gomock.Any(), gomock.Any()).
					Return(pending, nil)
			},
			wantErr: failure.BadRequestFromString("trip request has no accepted guide to review"),
		},
		{
			name:      "review already exists",
			req:       req,
			touristID: "tourist-id",
			setupMock: func() {
				mockRequestRepo.EXPECT().
					Get(gomock.Any(), gomock.Any()).
					Return(acceptedRequest, nil)

				mockRepo.EXPECT().
					Exist(gomock.Any(), gomock.Any()).
					Return(true, nil)
			},
			wantErr: failure.ReviewAlreadyExists,
		},
		{
			name:      "lost insert race maps to the same conflict",
			req:       req,
			touristID: "tourist-id",
			setupMock: func() {
				mockRequestRepo.EXPECT().
					Get(gomock.Any(), gomock.Any()).
					Return(acceptedRequest, nil)

				mockRepo.EXPECT().
					Exist(gomock.Any(), gomock.Any()).
					Return(false, nil)

				mockRepo.EXPECT().
					Transact(gomock.Any(), gomock.Any()).
					DoAndReturn(func(ctx context.Context, fn func(tx *sqlx.Tx) error) error {
						return fn(nil)
					})

				mockRepo.EXPECT().
					InsertTx(gomock.Any(), gomock.Any(), gomock.Any()).
					Return(&pq.Error{Code: pq.ErrorCode(constant.PqErrorCodeUniqueViolation)})
			},
			wantErr: failure.ReviewAlreadyExists,
		},
		{
			name:      "request lookup error",
			req:       req,
			touristID: "tourist-id",
			setupMock: func() {
				mockRequestRepo.EXPECT().
					Get(gomock.Any(), gomock.Any()).
					Return(bookingModel.TouristRequest{}, errors.New("database error"))
			},
			wantErr: errors.New("failed to get trip request: database error"),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.setupMock()

			ctx := context.WithValue(context.Background(), constant.ContextKeyUserID, "tourist-id")
			res, err := svc.Create(ctx, tt.req, tt.touristID)

			if tt.wantErr != nil {
				assert.Error(t, err)

				var f *failure.Failure
				if errors.As(tt.wantErr, &f) {
					assert.Equal(t, f.Code, failure.GetCode(err))
					assert.EqualError(t, err, f.Message)
				}
			} else {
				assert.NoError(t, err)
				assert.Equal(t, tt.req.RequestID, res.RequestID)
				assert.Equal(t, studentID, res.StudentID)
			}
		})
	}
}

func TestReviewService_Create_AnonymousHidesTourist(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockRepo := reviewMocks.NewMockReview(ctrl)
	mockRequestRepo := bookingMocks.NewMockRequest(ctrl)
	mockStudentRepo := studentMocks.NewMockStudent(ctrl)
	mockUserRepo := userMocks.NewMockUser(ctrl)
	mockNotifier := notificationMocks.NewMockNotifier(ctrl)
	mockCache := cacheMocks.NewMockRedisCache(ctrl)
	mockOtel := mocks.NewOtel()

	cfg := &config.Config{}

	svc := service.New(mockRepo, mockRequestRepo, mockStudentRepo, mockUserRepo, mockNotifier, cfg, mockCache, mockOtel)

	studentID := "student-id"

	mockRequestRepo.EXPECT().
		Get(gomock.Any(), gomock.Any()).
		Return(bookingModel.TouristRequest{
			ID:                "request-id",
			TouristID:         "tourist-id",
			Status:            bookingModel.RequestStatusAccepted,
			AssignedStudentID: &studentID,
		}, nil)

	mockRepo.EXPECT().
		Exist(gomock.Any(), gomock.Any()).
		Return(false, nil)

	mockRepo.EXPECT().
		Transact(gomock.Any(), gomock.Any()).
		DoAndReturn(func(ctx context.Context, fn func(tx *sqlx.Tx) error) error {
			return fn(nil)
		})

	mockRepo.EXPECT().
		InsertTx(gomock.Any(), gomock.Any(), gomock.Any()).
		Return(nil)

	mockRepo.EXPECT().
		GetAllTx(gomock.Any(), gomock.Any(), gomock.Any()).
		Return([]model.Review{{StudentID: studentID, Rating: 4}}, nil)

	mockStudentRepo.EXPECT().
		UpdateTx(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
		Return(nil)

	mockCache.EXPECT().Delete(gomock.Any(), gomock.Any()).Return(nil).AnyTimes()
	mockStudentRepo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(studentModel.Student{}, nil).AnyTimes()
	mockNotifier.EXPECT().ReviewCreated(gomock.Any(), gomock.Any()).AnyTimes()

	ctx := context.WithValue(context.Background(), constant.ContextKeyUserID, "tourist-id")
	res, err := svc.Create(ctx, dto.CreateReviewRequest{
		RequestID: "request-id",
		Rating:    4,
		Anonymous: true,
	}, "tourist-id")

	assert.NoError(t, err)
	assert.Empty(t, res.TouristID)
	assert.True(t, res.Anonymous)
}

func TestReviewService_GetByRequest(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockRepo := reviewMocks.NewMockReview(ctrl)
	mockRequestRepo := bookingMocks.NewMockRequest(ctrl)
	mockStudentRepo := studentMocks.NewMockStudent(ctrl)
	mockUserRepo := userMocks.NewMockUser(ctrl)
	mockNotifier := notificationMocks.NewMockNotifier(ctrl)
	mockCache := cacheMocks.NewMockRedisCache(ctrl)
	mockOtel := mocks.NewOtel()

	cfg := &config.Config{}

	svc := service.New(mockRepo, mockRequestRepo, mockStudentRepo, mockUserRepo, mockNotifier, cfg, mockCache, mockOtel)

	tests := []struct {
		name      string
		setupMock func()
		wantErr   bool
	}{
		{
			name: "review found",
			setupMock: func() {
				mockRepo.EXPECT().
					Get(gomock.Any(), gomock.Any()).
					Return(model.Review{ID: "review-id", RequestID: "request-id"}, nil)
			},
		},
		{
			name: "review not found",
			setupMock: func() {
				mockRepo.EXPECT().
					Get(gomock.Any(), gomock.Any()).
					Return(model.Review{}, nil)
			},
			wantErr: true,
		},
		{
			name: "repository error",
			setupMock: func() {
				mockRepo.EXPECT().
					Get(gomock.Any(), gomock.Any()).
					Return(model.Review{}, errors.New("database error"))
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.setupMock()

			result, err := svc.GetByRequest(context.Background(), "request-id")

			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
				assert.Equal(t, "review-id", result.ID)
			}
		})
	}
}

func TestReviewService_GetAllByStudent(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockRepo := reviewMocks.NewMockReview(ctrl)
	mockRequestRepo := bookingMocks.NewMockRequest(ctrl)
	mockStudentRepo := studentMocks.NewMockStudent(ctrl)
	mockUserRepo := userMocks.NewMockUser(ctrl)
	mockNotifier := notificationMocks.NewMockNotifier(ctrl)
	mockCache := cacheMocks.NewMockRedisCache(ctrl)
	mockOtel := mocks.NewOtel()

	cfg := &config.Config{}

	svc := service.New(mockRepo, mockRequestRepo, mockStudentRepo, mockUserRepo, mockNotifier, cfg, mockCache, mockOtel)

	t.Run("returns all reviews for the guide", func(t *testing.T) {
		mockRepo.EXPECT().
			GetAll(gomock.Any(), gomock.Any(), gomock.Any()).
			Return([]model.Review{
				{ID: "review-1", StudentID: "student-id"},
				{ID: "review-2", StudentID: "student-id"},
			}, nil)

		result, err := svc.GetAllByStudent(context.Background(), "student-id")

		assert.NoError(t, err)
		assert.Len(t, result.Reviews, 2)
	})

	t.Run("repository error", func(t *testing.T) {
		mockRepo.EXPECT().
			GetAll(gomock.Any(), gomock.Any(), gomock.Any()).
			Return(nil, errors.New("database error"))

		_, err := svc.GetAllByStudent(context.Background(), "student-id")

		assert.Error(t, err)
	})
}

func TestReviewService_RecomputeMetrics(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockRepo := reviewMocks.NewMockReview(ctrl)
	mockRequestRepo := bookingMocks.NewMockRequest(ctrl)
	mockStudentRepo := studentMocks.NewMockStudent(ctrl)
	mockUserRepo := userMocks.NewMockUser(ctrl)
	mockNotifier := notificationMocks.NewMockNotifier(ctrl)
	mockCache := cacheMocks.NewMockRedisCache(ctrl)
	mockOtel := mocks.NewOtel()

	cfg := &config.Config{}

	svc := service.New(mockRepo, mockRequestRepo, mockStudentRepo, mockUserRepo, mockNotifier, cfg, mockCache, mockOtel)

	tests := []struct {
		name       string
		setupMock  func()
		wantErr    bool
		wantBadge  string
		wantHosted int
	}{
		{
			name: "recomputes aggregates from the review set",
			setupMock: func() {
				mockStudentRepo.EXPECT().
					Exist(gomock.Any(), gomock.Any()).
					Return(true, nil)

				mockRepo.EXPECT().
					Transact(gomock.Any(), gomock.Any()).
					DoAndReturn(func(ctx context.Context, fn func(tx *sqlx.Tx) error) error {
						return fn(nil)
					})

				mockRepo.EXPECT().
					GetAllTx(gomock.Any(), gomock.Any(), gomock.Any()).
					Return(reviewSet(10, 0, 5), nil)

				mockStudentRepo.EXPECT().
					UpdateTx(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
					Return(nil)

				mockCache.EXPECT().
					Delete(gomock.Any(), gomock.Any()).
					Return(nil).
					AnyTimes()
			},
			wantBadge:  studentModel.BadgeGold,
			wantHosted: 10,
		},
		{
			name: "guide not found",
			setupMock: func() {
				mockStudentRepo.EXPECT().
					Exist(gomock.Any(), gomock.Any()).
					Return(false, nil)
			},
			wantErr: true,
		},
		{
			name: "update error rolls the transaction back",
			setupMock: func() {
				mockStudentRepo.EXPECT().
					Exist(gomock.Any(), gomock.Any()).
					Return(true, nil)

				mockRepo.EXPECT().
					Transact(gomock.Any(), gomock.Any()).
					DoAndReturn(func(ctx context.Context, fn func(tx *sqlx.Tx) error) error {
						return fn(nil)
					})

				mockRepo.EXPECT().
					GetAllTx(gomock.Any(), gomock.Any(), gomock.Any()).
					Return(reviewSet(3, 0, 4), nil)

				mockStudentRepo.EXPECT().
					UpdateTx(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
					Return(errors.New("update error"))
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.setupMock()

			result, err := svc.RecomputeMetrics(context.Background(), "student-id")

			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
				assert.Equal(t, tt.wantBadge, result.ReliabilityBadge)
				assert.Equal(t, tt.wantHosted, result.TripsHosted)
			}
		})
	}
}
