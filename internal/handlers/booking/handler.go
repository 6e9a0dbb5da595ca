package booking

import (
	"net/http"
	"tourwise/infras/otel"
	"tourwise/internal/domains/booking/model"
	"tourwise/internal/domains/booking/model/dto"
	"tourwise/internal/domains/booking/service"
	"tourwise/shared/constant"
	gDto "tourwise/shared/dto"
	"tourwise/shared/failure"
	"tourwise/shared/validator"
	"tourwise/transport/http/response"

	"github.com/go-chi/chi/v5"

	"github.com/rs/zerolog/log"
)

type Handler struct {
	service service.Booking
	otel    otel.Otel
}

func New(service service.Booking, otel otel.Otel) Handler {
	return Handler{
		service: service,
		otel:    otel,
	}
}

func (handler *Handler) Router(router chi.Router) {
	router.Route("/requests", func(routerGroup chi.Router) {
		routerGroup.Post("/", handler.CreateTripRequest)
		routerGroup.Get("/", handler.GetTripRequests)
		routerGroup.Get("/myrequests", handler.GetMyTripRequests)
		routerGroup.Get("/{id}", handler.GetTripRequestByID)
		routerGroup.Delete("/{id}", handler.CancelTripRequest)
		routerGroup.Get("/{id}/selections", handler.GetSelections)
		routerGroup.Post("/{id}/selections", handler.SelectGuides)
		routerGroup.Post("/{id}/selections/{student_id}/accept", handler.AcceptSelection)
		routerGroup.Post("/{id}/selections/{student_id}/reject", handler.RejectSelection)
		routerGroup.Post("/{id}/assign/{student_id}", handler.AssignGuide)
	})
}

// CreateTripRequest handles the creation of a new trip request.
// @Summary Create a new trip request
// @Description Create a new trip request with travel dates, preferences and budget. The request expires after the configured TTL if no guide accepts.
// @Tags TripRequest
// @Accept json
// @Produce json
// @Param request body dto.CreateTripRequest true "Create Trip Request"
// @Success 201 {object} response.Data[dto.TripRequestResponse] "Trip request created successfully"
// @Failure 400 {object} response.Error
// @Failure 401 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/requests [post]
// @Security BearerAuth
func (handler *Handler) CreateTripRequest(writer http.ResponseWriter, request *http.Request) {
	ctx, scope := handler.otel.NewScope(request.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".CreateTripRequest")
	defer scope.End()

	touristID, ok := ctx.Value(constant.ContextKeyUserID).(string)
	if !ok || touristID == "" {
		scope.TraceError(nil)
		log.Error().Msg("failed to get user ID from context")
		response.WithError(writer, failure.Unauthorized("unauthorized"))

		return
	}

	req := dto.CreateTripRequest{}

	if err := validator.Validate(request.Body, &req); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to validate request body")

		response.WithError(writer, err)

		return
	}

	res, err := handler.service.Create(ctx, req, touristID)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to create trip request")

		response.WithError(writer, err)

		return
	}

	scope.AddEvent("Trip request created successfully by user " + touristID)

	response.WithJSON(writer, http.StatusCreated, res)
}

// GetTripRequests retrieves all trip requests based on query parameters.
// @Summary Get all trip requests
// @Description Retrieve all trip requests with optional filtering and pagination.
// @Tags TripRequest
// @Accept json
// @Produce json
// @Param pagination query gDto.QueryParams false "Pagination parameters"
// @Param city query string false "Filter by city"
// @Param status query string false "Filter by status (PENDING, MATCHED, ACCEPTED, EXPIRED, CANCELLED)"
// @Success 200 {object} response.Data[dto.GetTripRequestsResponse] "List of trip requests"
// @Failure 400 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/requests [get]
// @Security BearerAuth
func (handler *Handler) GetTripRequests(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetTripRequests")
	defer scope.End()

	queryParams := gDto.QueryParams{}
	queryParams.FromRequest(r, true)

	city := r.URL.Query().Get(model.RequestFieldCity)
	status := r.URL.Query().Get(model.RequestFieldStatus)

	filterGroup := gDto.FilterGroup{
		Operator: gDto.FilterGroupOperatorAnd,
		Filters:  []any{},
	}

	if city != "" {
		filterGroup.Filters = append(filterGroup.Filters, gDto.Filter{
			Field:    model.RequestFieldCity,
			Operator: gDto.FilterOperatorEq,
			Value:    city,
			Table:    model.RequestTableName,
		})
	}

	if status != "" {
		filterGroup.Filters = append(filterGroup.Filters, gDto.Filter{
			Field:    model.RequestFieldStatus,
			Operator: gDto.FilterOperatorEq,
			Value:    status,
			Table:    model.RequestTableName,
		})
	}

	requests, err := handler.service.GetAll(ctx, queryParams, filterGroup)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to get trip requests")

		response.WithError(w, err)

		return
	}

	scope.AddEvent("Trip requests retrieved successfully")

	response.WithJSON(w, http.StatusOK, requests)
}

// GetMyTripRequests retrieves all trip requests for the currently authenticated tourist.
// @Summary Get my trip requests
// @Description Retrieve all trip requests created by the currently authenticated tourist with optional filtering and pagination.
// @Tags TripRequest
// @Accept json
// @Produce json
// @Param pagination query gDto.QueryParams false "Pagination parameters"
// @Param status query string false "Filter by status (PENDING, MATCHED, ACCEPTED, EXPIRED, CANCELLED)"
// @Success 200 {object} response.Data[dto.GetTripRequestsResponse] "List of the tourist's trip requests"
// @Failure 400 {object} response.Error
// @Failure 401 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/requests/myrequests [get]
// @Security BearerAuth
func (handler *Handler) GetMyTripRequests(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetMyTripRequests")
	defer scope.End()

	touristID, ok := ctx.Value(constant.ContextKeyUserID).(string)
	if !ok || touristID == "" {
		scope.TraceError(nil)
		log.Error().Msg("failed to get user ID from context")
		response.WithError(w, failure.Unauthorized("unauthorized"))

		return
	}

	queryParams := gDto.QueryParams{}
	queryParams.FromRequest(r, true)

	status := r.URL.Query().Get(model.RequestFieldStatus)

	filterGroup := gDto.FilterGroup{
		Operator: gDto.FilterGroupOperatorAnd,
		Filters: []any{
			gDto.Filter{
				Field:    model.RequestFieldTouristID,
				Operator: gDto.FilterOperatorEq,
				Value:    touristID,
				Table:    model.RequestTableName,
			},
		},
	}

	if status != "" {
		filterGroup.Filters = append(filterGroup.Filters, gDto.Filter{
			Field:    model.RequestFieldStatus,
			Operator: gDto.FilterOperatorEq,
			Value:    status,
			Table:    model.RequestTableName,
		})
	}

	requests, err := handler.service.GetAll(ctx, queryParams, filterGroup)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to get tourist trip requests")

		response.WithError(w, err)

		return
	}

	scope.AddEvent("Trip requests retrieved successfully for user " + touristID)

	response.WithJSON(w, http.StatusOK, requests)
}

// GetTripRequestByID retrieves a trip request by its ID.
// @Summary Get a trip request by ID
// @Description Retrieve a trip request by its unique identifier. A pending request past its deadline is reported as EXPIRED.
// @Tags TripRequest
// @Accept json
// @Produce json
// @Param id path string true "Trip Request ID"
// @Success 200 {object} response.Data[dto.TripRequestResponse] "Trip request details"
// @Failure 400 {object} response.Error
// @Failure 404 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/requests/{id} [get]
// @Security BearerAuth
func (handler *Handler) GetTripRequestByID(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetTripRequestByID")
	defer scope.End()

	id := chi.URLParam(r, constant.RequestParamID)

	request, err := handler.service.Get(ctx, id)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to get trip request by ID")

		response.WithError(w, err)

		return
	}

	scope.AddEvent("Trip request retrieved successfully")

	response.WithJSON(w, http.StatusOK, request)
}

// CancelTripRequest cancels a trip request by its ID.
// @Summary Cancel a trip request
// @Description Cancel a trip request. Accepted, expired or already cancelled requests cannot be cancelled.
// @Tags TripRequest
// @Accept json
// @Produce json
// @Param id path string true "Trip Request ID"
// @Success 200 {object} response.Message "Trip request cancelled successfully"
// @Failure 400 {object} response.Error
// @Failure 404 {object} response.Error
// @Failure 409 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/requests/{id} [delete]
// @Security BearerAuth
func (handler *Handler) CancelTripRequest(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".CancelTripRequest")
	defer scope.End()

	id := chi.URLParam(r, constant.RequestParamID)

	if err := handler.service.Cancel(ctx, id); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to cancel trip request")

		response.WithError(w, err)

		return
	}

	user, _ := ctx.Value(constant.ContextKeyUserID).(string)
	scope.AddEvent("Trip request cancelled successfully by user " + user)

	response.WithMessage(w, http.StatusOK, "Trip request cancelled successfully")
}

// GetSelections retrieves the guide selections of a trip request.
// @Summary Get selections for a trip request
// @Description Retrieve the shortlisted guide selections of a trip request with their current status.
// @Tags Selection
// @Accept json
// @Produce json
// @Param id path string true "Trip Request ID"
// @Success 200 {object} response.Data[dto.GetSelectionsResponse] "List of selections"
// @Failure 400 {object} response.Error
// @Failure 404 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/requests/{id}/selections [get]
// @Security BearerAuth
func (handler *Handler) GetSelections(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetSelections")
	defer scope.End()

	id := chi.URLParam(r, constant.RequestParamID)

	selections, err := handler.service.GetSelections(ctx, id)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to get selections")

		response.WithError(w, err)

		return
	}

	scope.AddEvent("Selections retrieved successfully")

	response.WithJSON(w, http.StatusOK, selections)
}

// SelectGuides shortlists guides for a trip request.
// @Summary Select guides for a trip request
// @Description Shortlist the given guides for a trip request. Replaces any previous shortlist and moves the request to MATCHED.
// @Tags Selection
// @Accept json
// @Produce json
// @Param id path string true "Trip Request ID"
// @Param request body dto.SelectGuidesRequest true "Select Guides Request"
// @Success 201 {object} response.Message "Guides selected successfully"
// @Failure 400 {object} response.Error
// @Failure 404 {object} response.Error
// @Failure 409 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/requests/{id}/selections [post]
// @Security BearerAuth
func (handler *Handler) SelectGuides(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".SelectGuides")
	defer scope.End()

	id := chi.URLParam(r, constant.RequestParamID)

	req := dto.SelectGuidesRequest{}
	if err := validator.Validate(r.Body, &req); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to validate request body")

		response.WithError(w, err)

		return
	}

	if err := handler.service.SelectGuides(ctx, id, req); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to select guides")

		response.WithError(w, err)

		return
	}

	user, _ := ctx.Value(constant.ContextKeyUserID).(string)
	scope.AddEvent("Guides selected successfully by user " + user)

	response.WithMessage(w, http.StatusCreated, "Guides selected successfully")
}

// AcceptSelection lets a guide accept a trip request they were shortlisted for.
// @Summary Accept a selection
// @Description Accept a pending selection as a guide. The first accepting guide wins the request; the tourist's contact information is revealed in the response.
// @Tags Selection
// @Accept json
// @Produce json
// @Param id path string true "Trip Request ID"
// @Param student_id path string true "Guide ID"
// @Success 200 {object} response.Data[dto.AcceptSelectionResponse] "Selection accepted successfully"
// @Failure 400 {object} response.Error
// @Failure 403 {object} response.Error
// @Failure 404 {object} response.Error
// @Failure 409 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/requests/{id}/selections/{student_id}/accept [post]
// @Security BearerAuth
func (handler *Handler) AcceptSelection(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".AcceptSelection")
	defer scope.End()

	id := chi.URLParam(r, constant.RequestParamID)
	studentID := chi.URLParam(r, constant.RequestParamStudentID)

	res, err := handler.service.AcceptSelection(ctx, id, studentID)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to accept selection")

		response.WithError(w, err)

		return
	}

	user, _ := ctx.Value(constant.ContextKeyUserID).(string)
	scope.AddEvent("Selection accepted successfully by user " + user)

	response.WithJSON(w, http.StatusOK, res)
}

// RejectSelection lets a guide decline a trip request they were shortlisted for.
// @Summary Reject a selection
// @Description Reject a pending selection as a guide. Other pending selections for the request are unaffected.
// @Tags Selection
// @Accept json
// @Produce json
// @Param id path string true "Trip Request ID"
// @Param student_id path string true "Guide ID"
// @Success 200 {object} response.Data[dto.RejectSelectionResponse] "Selection rejected successfully"
// @Failure 400 {object} response.Error
// @Failure 404 {object} response.Error
// @Failure 409 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/requests/{id}/selections/{student_id}/reject [post]
// @Security BearerAuth
func (handler *Handler) RejectSelection(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".RejectSelection")
	defer scope.End()

	id := chi.URLParam(r, constant.RequestParamID)
	studentID := chi.URLParam(r, constant.RequestParamStudentID)

	res, err := handler.service.RejectSelection(ctx, id, studentID)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to reject selection")

		response.WithError(w, err)

		return
	}

	user, _ := ctx.Value(constant.ContextKeyUserID).(string)
	scope.AddEvent("Selection rejected successfully by user " + user)

	response.WithJSON(w, http.StatusOK, res)
}

// AssignGuide directly assigns a guide to a trip request.
// @Summary Assign a guide to a trip request
// @Description Assign an approved guide to a trip request on behalf of the marketplace, overriding the normal accept flow. Reassignment moves the hosted-trip counter between guides.
// @Tags Selection
// @Accept json
// @Produce json
// @Param id path string true "Trip Request ID"
// @Param student_id path string true "Guide ID"
// @Success 200 {object} response.Data[dto.AssignGuideResponse] "Guide assigned successfully"
// @Failure 400 {object} response.Error
// @Failure 403 {object} response.Error
// @Failure 404 {object} response.Error
// @Failure 409 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/requests/{id}/assign/{student_id} [post]
// @Security BearerAuth
func (handler *Handler) AssignGuide(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".AssignGuide")
	defer scope.End()

	id := chi.URLParam(r, constant.RequestParamID)
	studentID := chi.URLParam(r, constant.RequestParamStudentID)

	res, err := handler.service.AssignGuide(ctx, id, studentID)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to assign guide")

		response.WithError(w, err)

		return
	}

	user, _ := ctx.Value(constant.ContextKeyUserID).(string)
	scope.AddEvent("Guide assigned successfully by user " + user)

	response.WithJSON(w, http.StatusOK, res)
}
