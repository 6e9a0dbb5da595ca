package service

//go:generate go run go.uber.org/mock/mockgen -source=./service.go -destination=../mocks/service_mock.go -package=mocks

import (
	"context"
	"fmt"
	"time"
	"tourwise/config"
	"tourwise/infras/otel"
	"tourwise/internal/domains/booking/model"
	"tourwise/internal/domains/booking/model/dto"
	"tourwise/internal/domains/booking/repository"
	matchingService "tourwise/internal/domains/matching/service"
	studentModel "tourwise/internal/domains/student/model"
	studentRepo "tourwise/internal/domains/student/repository"
	userModel "tourwise/internal/domains/user/model"
	userRepo "tourwise/internal/domains/user/repository"
	"tourwise/internal/notification"
	"tourwise/shared"
	"tourwise/shared/constant"
	gDto "tourwise/shared/dto"
	"tourwise/shared/failure"
	gModel "tourwise/shared/model"
	"tourwise/shared/timezone"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/rs/zerolog/log"
)

type Booking interface {
	Create(ctx context.Context, req dto.CreateTripRequest, touristID string) (dto.TripRequestResponse, error)
	GetAll(ctx context.Context, req gDto.QueryParams, filter gDto.FilterGroup) (dto.GetTripRequestsResponse, error)
	Count(ctx context.Context, req gDto.QueryParams, filter gDto.FilterGroup) (int, error)
	Get(ctx context.Context, id string) (dto.TripRequestResponse, error)
	Cancel(ctx context.Context, id string) error
	GetSelections(ctx context.Context, requestID string) (dto.GetSelectionsResponse, error)
	SelectGuides(ctx context.Context, requestID string, req dto.SelectGuidesRequest) error
	AcceptSelection(ctx context.Context, requestID, studentID string) (dto.AcceptSelectionResponse, error)
	RejectSelection(ctx context.Context, requestID, studentID string) (dto.RejectSelectionResponse, error)
	AssignGuide(ctx context.Context, requestID, studentID string) (dto.AssignGuideResponse, error)
}

type serviceImpl struct {
	requestRepo   repository.Request
	selectionRepo repository.Selection
	studentRepo   studentRepo.Student
	userRepo      userRepo.User
	matching      matchingService.Matching
	notifier      notification.Notifier
	cfg           *config.Config
	otel          otel.Otel
}

func New(
	requestRepo repository.Request,
	selectionRepo repository.Selection,
	sRepo studentRepo.Student,
	uRepo userRepo.User,
	matching matchingService.Matching,
	notifier notification.Notifier,
	cfg *config.Config,
	otel otel.Otel,
) Booking {
	return &serviceImpl{
		requestRepo:   requestRepo,
		selectionRepo: selectionRepo,
		studentRepo:   sRepo,
		userRepo:      uRepo,
		matching:      matching,
		notifier:      notifier,
		cfg:           cfg,
		otel:          otel,
	}
}

func (s *serviceImpl) Create(ctx context.Context, req dto.CreateTripRequest, touristID string) (res dto.TripRequestResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Create")
	defer scope.End()
	defer scope.TraceIfError(err)

	user, _ := ctx.Value(constant.ContextKeyUserID).(string)

	expiresAt := timezone.Now().AddDate(0, 0, s.cfg.Matching.RequestTTLDays)
	request := req.ToModel(touristID, user, expiresAt)

	if err = s.requestRepo.Insert(ctx, request); err != nil {
		log.Error().Err(err).Msg("failed to create trip request")

		return res, fmt.Errorf("failed to create trip request: %w", err)
	}

	res.FromModel(request)

	return res, nil
}

func (s *serviceImpl) GetAll(ctx context.Context, req gDto.QueryParams, filter gDto.FilterGroup) (res dto.GetTripRequestsResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".GetAll")
	defer scope.End()
	defer scope.TraceIfError(err)

	total, err := s.Count(ctx, req, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to count trip requests")

		return res, fmt.Errorf("failed to count trip requests: %w", err)
	}

	models, err := s.requestRepo.GetAll(ctx, req, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to get trip requests")

		return res, fmt.Errorf("failed to get trip requests: %w", err)
	}

	res.FromModels(models, total, req.Limit)

	return res, nil
}

func (s *serviceImpl) Count(ctx context.Context, req gDto.QueryParams, filter gDto.FilterGroup) (res int, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Count")
	defer scope.End()
	defer scope.TraceIfError(err)

	res, err = s.requestRepo.Count(ctx, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to count trip requests")

		return res, fmt.Errorf("failed to count trip requests: %w", err)
	}

	return res, nil
}

// Get returns a trip request, lazily flipping it to EXPIRED when a PENDING
// request is read past its deadline. Responses are served straight from the
// database: caching request state would defeat expiry-on-read.
func (s *serviceImpl) Get(ctx context.Context, id string) (res dto.TripRequestResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Get")
	defer scope.End()
	defer scope.TraceIfError(err)

	request, err := s.requestRepo.Get(ctx, shared.FilterByID(id, model.RequestFieldID, model.RequestTableName))
	if err != nil {
		log.Error().Err(err).Msg("failed to get trip request")

		return res, fmt.Errorf("failed to get trip request: %w", err)
	}

	if request.ID == constant.Empty {
		return res, failure.RequestNotFound // nolint:wrapcheck
	}

	if request.Status == model.RequestStatusPending && request.Expired(timezone.Now()) {
		s.expireLazily(ctx, request.ID)
		request.Status = model.RequestStatusExpired
	}

	res.FromModel(request)

	return res, nil
}

func (s *serviceImpl) Cancel(ctx context.Context, id string) (err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Cancel")
	defer scope.End()
	defer scope.TraceIfError(err)

	user, _ := ctx.Value(constant.ContextKeyUserID).(string)

	err = s.requestRepo.Transact(ctx, func(tx *sqlx.Tx) error {
		request, found, err := s.requestRepo.GetForUpdateTx(ctx, tx, shared.FilterByID(id, model.RequestFieldID, model.RequestTableName))
		if err != nil {
			return fmt.Errorf("failed to lock trip request: %w", err)
		}

		if !found {
			return failure.RequestNotFound // nolint:wrapcheck
		}

		switch request.Status {
		case model.RequestStatusAccepted:
			return failure.RequestAlreadyAccepted // nolint:wrapcheck
		case model.RequestStatusCancelled:
			return failure.RequestCancelled // nolint:wrapcheck
		case model.RequestStatusExpired:
			return failure.RequestExpired // nolint:wrapcheck
		}

		updatedFields := map[string]any{
			model.RequestFieldStatus: model.RequestStatusCancelled,
			constant.FieldModifiedAt: timezone.Now(),
			constant.FieldModifiedBy: user,
		}

		return s.requestRepo.UpdateTx(ctx, tx, updatedFields, shared.FilterByID(id, model.RequestFieldID, model.RequestTableName)) // nolint:wrapcheck
	})
	if err != nil {
		return err
	}

	go func() {
		c := context.WithoutCancel(ctx)
		s.matching.InvalidateMatches(c, id)
	}()

	return nil
}

func (s *serviceImpl) GetSelections(ctx context.Context, requestID string) (res dto.GetSelectionsResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".GetSelections")
	defer scope.End()
	defer scope.TraceIfError(err)

	exist, err := s.requestRepo.Exist(ctx, shared.FilterByID(requestID, model.RequestFieldID, model.RequestTableName))
	if err != nil {
		log.Error().Err(err).Msg("failed to check if trip request exists")

		return res, fmt.Errorf("failed to check if trip request exists: %w", err)
	}

	if !exist {
		return res, failure.RequestNotFound // nolint:wrapcheck
	}

	selections, err := s.selectionRepo.GetAll(ctx, gDto.QueryParams{}, s.requestSelectionsFilter(requestID))
	if err != nil {
		log.Error().Err(err).Msg("failed to get selections")

		return res, fmt.Errorf("failed to get selections: %w", err)
	}

	res.FromModels(selections)

	return res, nil
}

// SelectGuides replaces the request's shortlist with the given guides and
// moves the request to MATCHED. Re-selection is a full replace, not a merge.
func (s *serviceImpl) SelectGuides(ctx context.Context, requestID string, req dto.SelectGuidesRequest) (err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".SelectGuides")
	defer scope.End()
	defer scope.TraceIfError(err)

	user, _ := ctx.Value(constant.ContextKeyUserID).(string)
	now := timezone.Now()

	count, err := s.studentRepo.Count(ctx, gDto.FilterGroup{
		Filters: []any{
			gDto.Filter{
				Field:    studentModel.FieldID,
				Operator: gDto.FilterOperatorIn,
				Value:    req.StudentIDs,
				Table:    studentModel.TableName,
			},
		},
	})
	if err != nil {
		log.Error().Err(err).Msg("failed to count selected guides")

		return fmt.Errorf("failed to count selected guides: %w", err)
	}

	if count != len(req.StudentIDs) {
		return failure.BadRequestFromString("one or more selected guides do not exist")
	}

	var request model.TouristRequest

	err = s.requestRepo.Transact(ctx, func(tx *sqlx.Tx) error {
		var found bool

		request, found, err = s.requestRepo.GetForUpdateTx(ctx, tx, shared.FilterByID(requestID, model.RequestFieldID, model.RequestTableName))
		if err != nil {
			return fmt.Errorf("failed to lock trip request: %w", err)
		}

		if !found {
			return failure.RequestNotFound // nolint:wrapcheck
		}

		if request.Status == model.RequestStatusPending && request.Expired(now) {
			s.expireInTx(ctx, tx, requestID, user)

			return failure.RequestExpired // nolint:wrapcheck
		}

		switch request.Status {
		case model.RequestStatusPending, model.RequestStatusMatched:
		case model.RequestStatusAccepted:
			return failure.RequestAlreadyAccepted // nolint:wrapcheck
		case model.RequestStatusCancelled:
			return failure.RequestCancelled // nolint:wrapcheck
		default:
			return failure.RequestExpired // nolint:wrapcheck
		}

		if err := s.selectionRepo.DeleteTx(ctx, tx, s.requestSelectionsFilter(requestID)); err != nil {
			return fmt.Errorf("failed to clear existing selections: %w", err)
		}

		selections := make([]model.RequestSelection, len(req.StudentIDs))
		for i, studentID := range req.StudentIDs {
			selections[i] = model.RequestSelection{
				ID:        uuid.NewString(),
				RequestID: requestID,
				StudentID: studentID,
				Status:    model.SelectionStatusPending,
				Metadata: gModel.Metadata{
					CreatedAt:  now,
					ModifiedAt: now,
					CreatedBy:  user,
					ModifiedBy: user,
				},
			}
		}

		if err := s.selectionRepo.InsertBulkTx(ctx, tx, selections); err != nil {
			return fmt.Errorf("failed to insert selections: %w", err)
		}

		updatedFields := map[string]any{
			model.RequestFieldStatus: model.RequestStatusMatched,
			constant.FieldModifiedAt: now,
			constant.FieldModifiedBy: user,
		}

		return s.requestRepo.UpdateTx(ctx, tx, updatedFields, shared.FilterByID(requestID, model.RequestFieldID, model.RequestTableName)) // nolint:wrapcheck
	})
	if err != nil {
		return err
	}

	go func() {
		c := context.WithoutCancel(ctx)

		s.matching.InvalidateMatches(c, requestID)
		s.notifier.GuidesShortlisted(c, notification.ShortlistEvent{
			RequestID:   requestID,
			StudentIDs:  req.StudentIDs,
			GuideEmails: s.guideEmails(c, req.StudentIDs),
			City:        request.City,
			OccurredAt:  now,
		})
	}()

	return nil
}

// AcceptSelection is the concurrency-critical transition: the request row is
// locked FOR UPDATE and its status re-checked inside the transaction, so two
// guides racing to accept serialize on the row and exactly one wins. The
// accept, the sibling rejections and the request update commit together or
// not at all.
func (s *serviceImpl) AcceptSelection(ctx context.Context, requestID, studentID string) (res dto.AcceptSelectionResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".AcceptSelection")
	defer scope.End()
	defer scope.TraceIfError(err)

	user, _ := ctx.Value(constant.ContextKeyUserID).(string)
	now := timezone.Now()

	student, err := s.studentRepo.Get(ctx, shared.FilterByID(studentID, studentModel.FieldID, studentModel.TableName))
	if err != nil {
		log.Error().Err(err).Msg("failed to get guide")

		return res, fmt.Errorf("failed to get guide: %w", err)
	}

	var (
		request   model.TouristRequest
		selection model.RequestSelection
	)

	err = s.requestRepo.Transact(ctx, func(tx *sqlx.Tx) error {
		var found bool

		request, found, err = s.requestRepo.GetForUpdateTx(ctx, tx, shared.FilterByID(requestID, model.RequestFieldID, model.RequestTableName))
		if err != nil {
			return fmt.Errorf("failed to lock trip request: %w", err)
		}

		if !found {
			return failure.RequestNotFound // nolint:wrapcheck
		}

		switch request.Status {
		case model.RequestStatusAccepted:
			return failure.RequestAlreadyAccepted // nolint:wrapcheck
		case model.RequestStatusCancelled:
			return failure.RequestCancelled // nolint:wrapcheck
		case model.RequestStatusExpired:
			return failure.RequestExpired // nolint:wrapcheck
		}

		if request.Expired(now) {
			if request.Status == model.RequestStatusPending {
				s.expireInTx(ctx, tx, requestID, user)
			}

			return failure.RequestExpired // nolint:wrapcheck
		}

		selection, found, err = s.selectionRepo.GetForUpdateTx(ctx, tx, s.selectionFilter(requestID, studentID))
		if err != nil {
			return fmt.Errorf("failed to lock selection: %w", err)
		}

		if !found {
			return failure.SelectionNotFound // nolint:wrapcheck
		}

		if selection.Status != model.SelectionStatusPending {
			return failure.SelectionAlreadyResolved // nolint:wrapcheck
		}

		if student.ID == constant.Empty || student.Status != studentModel.StatusApproved {
			return failure.GuideNotApproved // nolint:wrapcheck
		}

		acceptFields := map[string]any{
			model.SelectionFieldStatus:     model.SelectionStatusAccepted,
			model.SelectionFieldAcceptedAt: now,
			constant.FieldModifiedAt:       now,
			constant.FieldModifiedBy:       user,
		}

		if err := s.selectionRepo.UpdateTx(ctx, tx, acceptFields, shared.FilterByID(selection.ID, model.SelectionFieldID, model.SelectionTableName)); err != nil {
			return fmt.Errorf("failed to accept selection: %w", err)
		}

		rejectFields := map[string]any{
			model.SelectionFieldStatus: model.SelectionStatusRejected,
			constant.FieldModifiedAt:   now,
			constant.FieldModifiedBy:   user,
		}

		if err := s.selectionRepo.UpdateTx(ctx, tx, rejectFields, s.siblingSelectionsFilter(requestID, selection.ID)); err != nil {
			return fmt.Errorf("failed to reject sibling selections: %w", err)
		}

		requestFields := map[string]any{
			model.RequestFieldStatus:            model.RequestStatusAccepted,
			model.RequestFieldAssignedStudentID: studentID,
			constant.FieldModifiedAt:            now,
			constant.FieldModifiedBy:            user,
		}

		return s.requestRepo.UpdateTx(ctx, tx, requestFields, shared.FilterByID(requestID, model.RequestFieldID, model.RequestTableName)) // nolint:wrapcheck
	})
	if err != nil {
		return res, err
	}

	go func() {
		c := context.WithoutCancel(ctx)

		s.matching.InvalidateMatches(c, requestID)
		s.notifier.BookingAccepted(c, notification.BookingEvent{
			RequestID:    requestID,
			StudentID:    studentID,
			City:         request.City,
			TouristEmail: request.ContactEmail,
			GuideEmail:   s.guideEmail(c, student),
			OccurredAt:   now,
		})
	}()

	res = dto.AcceptSelectionResponse{
		RequestID:   requestID,
		SelectionID: selection.ID,
		AcceptedAt:  now,
		TouristContact: dto.TouristContactInfo{
			Email: request.ContactEmail,
			Phone: request.ContactPhone,
		},
	}

	return res, nil
}

// RejectSelection declines a shortlist entry. The write is guarded on the
// selection still being pending; zero affected rows means it changed under
// the caller and is surfaced as a conflict.
func (s *serviceImpl) RejectSelection(ctx context.Context, requestID, studentID string) (res dto.RejectSelectionResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".RejectSelection")
	defer scope.End()
	defer scope.TraceIfError(err)

	user, _ := ctx.Value(constant.ContextKeyUserID).(string)
	now := timezone.Now()

	selection, err := s.selectionRepo.Get(ctx, s.selectionFilter(requestID, studentID))
	if err != nil {
		log.Error().Err(err).Msg("failed to get selection")

		return res, fmt.Errorf("failed to get selection: %w", err)
	}

	if selection.ID == constant.Empty {
		return res, failure.SelectionNotFound // nolint:wrapcheck
	}

	if selection.Status != model.SelectionStatusPending {
		return res, failure.SelectionAlreadyResolved // nolint:wrapcheck
	}

	err = s.selectionRepo.Transact(ctx, func(tx *sqlx.Tx) error {
		guard := gDto.FilterGroup{
			Filters: []any{
				gDto.Filter{
					Field:    model.SelectionFieldID,
					Operator: gDto.FilterOperatorEq,
					Value:    selection.ID,
					Table:    model.SelectionTableName,
				},
				gDto.Filter{
					Field:    model.SelectionFieldStatus,
					Operator: gDto.FilterOperatorEq,
					Value:    model.SelectionStatusPending,
					Table:    model.SelectionTableName,
				},
			},
			Operator: gDto.FilterGroupOperatorAnd,
		}

		updatedFields := map[string]any{
			model.SelectionFieldStatus: model.SelectionStatusRejected,
			constant.FieldModifiedAt:   now,
			constant.FieldModifiedBy:   user,
		}

		affected, err := s.selectionRepo.UpdateGuardedTx(ctx, tx, updatedFields, guard)
		if err != nil {
			return fmt.Errorf("failed to reject selection: %w", err)
		}

		if affected == 0 {
			return failure.SelectionConcurrentChange // nolint:wrapcheck
		}

		return nil
	})
	if err != nil {
		return res, err
	}

	selection.Status = model.SelectionStatusRejected
	res.Selection.FromModel(selection)

	return res, nil
}

// AssignGuide is the admin override: it bypasses the guide's own response,
// creating the selection if none exists. Reassigning away from a previously
// accepted guide moves the hosted-trip counters inside the same transaction.
func (s *serviceImpl) AssignGuide(ctx context.Context, requestID, studentID string) (res dto.AssignGuideResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".AssignGuide")
	defer scope.End()
	defer scope.TraceIfError(err)

	user, _ := ctx.Value(constant.ContextKeyUserID).(string)
	now := timezone.Now()

	student, err := s.studentRepo.Get(ctx, shared.FilterByID(studentID, studentModel.FieldID, studentModel.TableName))
	if err != nil {
		log.Error().Err(err).Msg("failed to get guide")

		return res, fmt.Errorf("failed to get guide: %w", err)
	}

	if student.ID == constant.Empty {
		return res, failure.NotFound("guide not found") // nolint:wrapcheck
	}

	if student.Status != studentModel.StatusApproved {
		return res, failure.GuideNotApproved // nolint:wrapcheck
	}

	var (
		request     model.TouristRequest
		selectionID string
	)

	err = s.requestRepo.Transact(ctx, func(tx *sqlx.Tx) error {
		var found bool

		request, found, err = s.requestRepo.GetForUpdateTx(ctx, tx, shared.FilterByID(requestID, model.RequestFieldID, model.RequestTableName))
		if err != nil {
			return fmt.Errorf("failed to lock trip request: %w", err)
		}

		if !found {
			return failure.RequestNotFound // nolint:wrapcheck
		}

		switch request.Status {
		case model.RequestStatusCancelled:
			return failure.RequestCancelled // nolint:wrapcheck
		case model.RequestStatusExpired:
			return failure.RequestExpired // nolint:wrapcheck
		}

		if request.Status == model.RequestStatusPending && request.Expired(now) {
			s.expireInTx(ctx, tx, requestID, user)

			return failure.RequestExpired // nolint:wrapcheck
		}

		previousStudentID := request.AssignedStudentID
		if previousStudentID != nil && *previousStudentID == studentID {
			existing, _, err := s.selectionRepo.GetForUpdateTx(ctx, tx, s.selectionFilter(requestID, studentID))
			if err != nil {
				return fmt.Errorf("failed to lock selection: %w", err)
			}

			selectionID = existing.ID

			return nil
		}

		selection, found, err := s.selectionRepo.GetForUpdateTx(ctx, tx, s.selectionFilter(requestID, studentID))
		if err != nil {
			return fmt.Errorf("failed to lock selection: %w", err)
		}

		if found {
			selectionID = selection.ID

			acceptFields := map[string]any{
				model.SelectionFieldStatus:     model.SelectionStatusAccepted,
				model.SelectionFieldAcceptedAt: now,
				constant.FieldModifiedAt:       now,
				constant.FieldModifiedBy:       user,
			}

			if err := s.selectionRepo.UpdateTx(ctx, tx, acceptFields, shared.FilterByID(selection.ID, model.SelectionFieldID, model.SelectionTableName)); err != nil {
				return fmt.Errorf("failed to accept selection: %w", err)
			}
		} else {
			selectionID = uuid.NewString()

			newSelection := model.RequestSelection{
				ID:         selectionID,
				RequestID:  requestID,
				StudentID:  studentID,
				Status:     model.SelectionStatusAccepted,
				AcceptedAt: &now,
				Metadata: gModel.Metadata{
					CreatedAt:  now,
					ModifiedAt: now,
					CreatedBy:  user,
					ModifiedBy: user,
				},
			}

			if err := s.selectionRepo.InsertTx(ctx, tx, newSelection); err != nil {
				return fmt.Errorf("failed to insert selection: %w", err)
			}
		}

		rejectFields := map[string]any{
			model.SelectionFieldStatus: model.SelectionStatusRejected,
			constant.FieldModifiedAt:   now,
			constant.FieldModifiedBy:   user,
		}

		if err := s.selectionRepo.UpdateTx(ctx, tx, rejectFields, s.siblingSelectionsFilter(requestID, selectionID)); err != nil {
			return fmt.Errorf("failed to reject sibling selections: %w", err)
		}

		if previousStudentID != nil && *previousStudentID != studentID {
			if err := s.moveTripCounters(ctx, tx, *previousStudentID, studentID, user, now); err != nil {
				return err
			}
		}

		requestFields := map[string]any{
			model.RequestFieldStatus:            model.RequestStatusAccepted,
			model.RequestFieldAssignedStudentID: studentID,
			constant.FieldModifiedAt:            now,
			constant.FieldModifiedBy:            user,
		}

		return s.requestRepo.UpdateTx(ctx, tx, requestFields, shared.FilterByID(requestID, model.RequestFieldID, model.RequestTableName)) // nolint:wrapcheck
	})
	if err != nil {
		return res, err
	}

	go func() {
		c := context.WithoutCancel(ctx)

		s.matching.InvalidateMatches(c, requestID)
		s.notifier.BookingAssigned(c, notification.BookingEvent{
			RequestID:    requestID,
			StudentID:    studentID,
			City:         request.City,
			TouristEmail: request.ContactEmail,
			GuideEmail:   s.guideEmail(c, student),
			OccurredAt:   now,
		})
	}()

	return dto.AssignGuideResponse{SelectionID: selectionID}, nil
}

// moveTripCounters shifts one hosted trip from the previously accepted guide
// to the newly assigned one. Both rows are locked so the counters move exactly
// once even under concurrent reassignment.
func (s *serviceImpl) moveTripCounters(ctx context.Context, tx *sqlx.Tx, fromStudentID, toStudentID, user string, now time.Time) error {
	from, found, err := s.studentRepo.GetForUpdateTx(ctx, tx, shared.FilterByID(fromStudentID, studentModel.FieldID, studentModel.TableName))
	if err != nil {
		return fmt.Errorf("failed to lock previous guide: %w", err)
	}

	if found {
		fields := map[string]any{
			studentModel.FieldTripsHosted: from.TripsHosted - 1,
			constant.FieldModifiedAt:      now,
			constant.FieldModifiedBy:      user,
		}

		if err := s.studentRepo.UpdateTx(ctx, tx, fields, shared.FilterByID(fromStudentID, studentModel.FieldID, studentModel.TableName)); err != nil {
			return fmt.Errorf("failed to decrement previous guide trips: %w", err)
		}
	}

	to, found, err := s.studentRepo.GetForUpdateTx(ctx, tx, shared.FilterByID(toStudentID, studentModel.FieldID, studentModel.TableName))
	if err != nil {
		return fmt.Errorf("failed to lock new guide: %w", err)
	}

	if found {
		fields := map[string]any{
			studentModel.FieldTripsHosted: to.TripsHosted + 1,
			constant.FieldModifiedAt:      now,
			constant.FieldModifiedBy:      user,
		}

		if err := s.studentRepo.UpdateTx(ctx, tx, fields, shared.FilterByID(toStudentID, studentModel.FieldID, studentModel.TableName)); err != nil {
			return fmt.Errorf("failed to increment new guide trips: %w", err)
		}
	}

	return nil
}

func (s *serviceImpl) selectionFilter(requestID, studentID string) gDto.FilterGroup {
	return gDto.FilterGroup{
		Filters: []any{
			gDto.Filter{
				Field:    model.SelectionFieldRequestID,
				Operator: gDto.FilterOperatorEq,
				Value:    requestID,
				Table:    model.SelectionTableName,
			},
			gDto.Filter{
				Field:    model.SelectionFieldStudentID,
				Operator: gDto.FilterOperatorEq,
				Value:    studentID,
				Table:    model.SelectionTableName,
			},
		},
		Operator: gDto.FilterGroupOperatorAnd,
	}
}

func (s *serviceImpl) requestSelectionsFilter(requestID string) gDto.FilterGroup {
	return gDto.FilterGroup{
		Filters: []any{
			gDto.Filter{
				Field:    model.SelectionFieldRequestID,
				Operator: gDto.FilterOperatorEq,
				Value:    requestID,
				Table:    model.SelectionTableName,
			},
		},
	}
}

func (s *serviceImpl) siblingSelectionsFilter(requestID, selectionID string) gDto.FilterGroup {
	return gDto.FilterGroup{
		Filters: []any{
			gDto.Filter{
				Field:    model.SelectionFieldRequestID,
				Operator: gDto.FilterOperatorEq,
				Value:    requestID,
				Table:    model.SelectionTableName,
			},
			gDto.Filter{
				Field:    model.SelectionFieldID,
				Operator: gDto.FilterOperatorNotEq,
				Value:    selectionID,
				Table:    model.SelectionTableName,
				ArgName:  "selection_id",
			},
			gDto.Filter{
				Field:    model.SelectionFieldStatus,
				Operator: gDto.FilterOperatorNotEq,
				Value:    model.SelectionStatusRejected,
				Table:    model.SelectionTableName,
			},
		},
		Operator: gDto.FilterGroupOperatorAnd,
	}
}

// expireInTx flips a request to EXPIRED inside an open transaction so the
// lazy expiry commits even though the caller's operation fails.
func (s *serviceImpl) expireInTx(ctx context.Context, tx *sqlx.Tx, requestID, user string) {
	updatedFields := map[string]any{
		model.RequestFieldStatus: model.RequestStatusExpired,
		constant.FieldModifiedAt: timezone.Now(),
		constant.FieldModifiedBy: user,
	}

	if err := s.requestRepo.UpdateTx(ctx, tx, updatedFields, shared.FilterByID(requestID, model.RequestFieldID, model.RequestTableName)); err != nil {
		log.Error().Err(err).Str("request_id", requestID).Msg("failed to expire trip request")
	}
}

// expireLazily is the out-of-transaction variant used on plain reads; the
// status guard makes the write a no-op if another reader got there first.
func (s *serviceImpl) expireLazily(ctx context.Context, requestID string) {
	filter := gDto.FilterGroup{
		Filters: []any{
			gDto.Filter{
				Field:    model.RequestFieldID,
				Operator: gDto.FilterOperatorEq,
				Value:    requestID,
				Table:    model.RequestTableName,
			},
			gDto.Filter{
				Field:    model.RequestFieldStatus,
				Operator: gDto.FilterOperatorEq,
				Value:    model.RequestStatusPending,
				Table:    model.RequestTableName,
			},
		},
		Operator: gDto.FilterGroupOperatorAnd,
	}

	updatedFields := map[string]any{
		model.RequestFieldStatus: model.RequestStatusExpired,
		constant.FieldModifiedAt: timezone.Now(),
		constant.FieldModifiedBy: constant.UserSystem,
	}

	if err := s.requestRepo.Update(ctx, updatedFields, filter); err != nil {
		log.Error().Err(err).Str("request_id", requestID).Msg("failed to expire trip request")
	}
}

func (s *serviceImpl) guideEmail(ctx context.Context, student studentModel.Student) string {
	if student.UserID == constant.Empty {
		return constant.Empty
	}

	guideUser, err := s.userRepo.Get(ctx, shared.FilterByID(student.UserID, userModel.FieldID, userModel.TableName))
	if err != nil {
		log.Error().Err(err).Str("user_id", student.UserID).Msg("failed to get guide user for notification")

		return constant.Empty
	}

	return guideUser.Email
}

func (s *serviceImpl) guideEmails(ctx context.Context, studentIDs []string) []string {
	students, err := s.studentRepo.GetAll(ctx, gDto.QueryParams{}, gDto.FilterGroup{
		Filters: []any{
			gDto.Filter{
				Field:    studentModel.FieldID,
				Operator: gDto.FilterOperatorIn,
				Value:    studentIDs,
				Table:    studentModel.TableName,
			},
		},
	})
	if err != nil {
		log.Error().Err(err).Msg("failed to get guides for notification")

		return nil
	}

	emails := []string{}

	for _, student := range students {
		if email := s.guideEmail(ctx, student); email != constant.Empty {
			emails = append(emails, email)
		}
	}

	return emails
}
