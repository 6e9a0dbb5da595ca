package student

import (
	"net/http"
	"tourwise/infras/otel"
	"tourwise/internal/domains/student/model"
	"tourwise/internal/domains/student/model/dto"
	"tourwise/internal/domains/student/service"
	"tourwise/shared/constant"
	gDto "tourwise/shared/dto"
	"tourwise/shared/failure"
	"tourwise/shared/validator"
	"tourwise/transport/http/response"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"
)

type Handler struct {
	service service.Student
	otel    otel.Otel
}

func New(service service.Student, otel otel.Otel) Handler {
	return Handler{
		service: service,
		otel:    otel,
	}
}

func (handler *Handler) Router(router chi.Router) {
	router.Route("/guides", func(routerGroup chi.Router) {
		routerGroup.Post("/", handler.CreateGuideProfile)
		routerGroup.Get("/", handler.GetGuides)
		routerGroup.Get("/{id}", handler.GetGuideByID)
		routerGroup.Patch("/{id}", handler.UpdateGuide)
		routerGroup.Patch("/{id}/status", handler.UpdateGuideStatus)
		routerGroup.Put("/{id}/availability", handler.ReplaceAvailability)
		routerGroup.Post("/{id}/verification-doc", handler.UploadVerificationDoc)
	})
}

// CreateGuideProfile handles the creation of a guide profile for the authenticated user.
// @Summary Create a guide profile
// @Description Create a guide profile with city, languages, interests and weekly availability. The profile starts in PENDING_APPROVAL status.
// @Tags Guide
// @Accept json
// @Produce json
// @Param request body dto.CreateStudentRequest true "Create Guide Profile Request"
// @Success 201 {object} response.Message "Guide profile created successfully"
// @Failure 400 {object} response.Error
// @Failure 401 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/guides [post]
// @Security BearerAuth
func (handler *Handler) CreateGuideProfile(writer http.ResponseWriter, request *http.Request) {
	ctx, scope := handler.otel.NewScope(request.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".CreateGuideProfile")
	defer scope.End()

	userID, ok := ctx.Value(constant.ContextKeyUserID).(string)
	if !ok || userID == "" {
		scope.TraceError(nil)
		log.Error().Msg("failed to get user ID from context")
		response.WithError(writer, failure.Unauthorized("unauthorized"))

		return
	}

	req := dto.CreateStudentRequest{}

	if err := validator.Validate(request.Body, &req); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to validate request body")

		response.WithError(writer, err)

		return
	}

	if err := handler.service.Create(ctx, req, userID); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to create guide profile")

		response.WithError(writer, err)

		return
	}

	scope.AddEvent("Guide profile created successfully by user " + userID)

	response.WithMessage(writer, http.StatusCreated, "Guide profile created successfully")
}

// GetGuides retrieves all guide profiles based on query parameters.
// @Summary Get all guides
// @Description Retrieve all guide profiles with optional filtering and pagination.
// @Tags Guide
// @Accept json
// @Produce json
// @Param pagination query gDto.QueryParams false "Pagination parameters"
// @Param city query string false "Filter by city"
// @Param status query string false "Filter by status (PENDING_APPROVAL, APPROVED, SUSPENDED)"
// @Success 200 {object} response.Data[dto.GetStudentsResponse] "List of guides"
// @Failure 400 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/guides [get]
func (handler *Handler) GetGuides(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetGuides")
	defer scope.End()

	queryParams := gDto.QueryParams{}
	queryParams.FromRequest(r, true)

	city := r.URL.Query().Get(model.FieldCity)
	status := r.URL.Query().Get(model.FieldStatus)

	filterGroup := gDto.FilterGroup{
		Operator: gDto.FilterGroupOperatorAnd,
		Filters:  []any{},
	}

	if city != "" {
		filterGroup.Filters = append(filterGroup.Filters, gDto.Filter{
			Field:    model.FieldCity,
			Operator: gDto.FilterOperatorEq,
			Value:    city,
			Table:    model.TableName,
		})
	}

	if status != "" {
		filterGroup.Filters = append(filterGroup.Filters, gDto.Filter{
			Field:    model.FieldStatus,
			Operator: gDto.FilterOperatorEq,
			Value:    status,
			Table:    model.TableName,
		})
	}

	guides, err := handler.service.GetAll(ctx, queryParams, filterGroup)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to get guides")

		response.WithError(w, err)

		return
	}

	scope.AddEvent("Guides retrieved successfully")

	response.WithJSON(w, http.StatusOK, guides)
}

// GetGuideByID retrieves a guide profile by its ID.
// @Summary Get a guide by ID
// @Description Retrieve a guide profile, including weekly availability, by its unique identifier.
// @Tags Guide
// @Accept json
// @Produce json
// @Param id path string true "Guide ID"
// @Success 200 {object} response.Data[dto.StudentResponse] "Guide details"
// @Failure 400 {object} response.Error
// @Failure 404 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/guides/{id} [get]
func (handler *Handler) GetGuideByID(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetGuideByID")
	defer scope.End()

	id := chi.URLParam(r, constant.RequestParamID)

	guide, err := handler.service.Get(ctx, id)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to get guide by ID")

		response.WithError(w, err)

		return
	}

	scope.AddEvent("Guide retrieved successfully")

	response.WithJSON(w, http.StatusOK, guide)
}

// UpdateGuide updates an existing guide profile by its ID.
// @Summary Update a guide by ID
// @Description Update the details of an existing guide profile.
// @Tags Guide
// @Accept json
// @Produce json
// @Param id path string true "Guide ID"
// @Param request body dto.UpdateStudentRequest true "Update Guide Request"
// @Success 200 {object} response.Message "Guide updated successfully"
// @Failure 400 {object} response.Error
// @Failure 404 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/guides/{id} [patch]
// @Security BearerAuth
func (handler *Handler) UpdateGuide(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".UpdateGuide")
	defer scope.End()

	id := chi.URLParam(r, constant.RequestParamID)

	req := dto.UpdateStudentRequest{}
	if err := validator.Validate(r.Body, &req); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to validate request body")

		response.WithError(w, err)

		return
	}

	if err := handler.service.Update(ctx, req, id); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to update guide")

		response.WithError(w, err)

		return
	}

	user, _ := ctx.Value(constant.ContextKeyUserID).(string)
	scope.AddEvent("Guide updated successfully by user " + user)

	response.WithMessage(w, http.StatusOK, "Guide updated successfully")
}

// UpdateGuideStatus approves or suspends a guide profile.
// @Summary Update guide status
// @Description Set a guide profile status to APPROVED or SUSPENDED. Only approved guides appear in matching.
// @Tags Guide
// @Accept json
// @Produce json
// @Param id path string true "Guide ID"
// @Param request body dto.UpdateStudentStatusRequest true "Update Guide Status Request"
// @Success 200 {object} response.Message "Guide status updated successfully"
// @Failure 400 {object} response.Error
// @Failure 404 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/guides/{id}/status [patch]
// @Security BearerAuth
func (handler *Handler) UpdateGuideStatus(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".UpdateGuideStatus")
	defer scope.End()

	id := chi.URLParam(r, constant.RequestParamID)

	req := dto.UpdateStudentStatusRequest{}
	if err := validator.Validate(r.Body, &req); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to validate request body")

		response.WithError(w, err)

		return
	}

	if err := handler.service.SetStatus(ctx, req, id); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to update guide status")

		response.WithError(w, err)

		return
	}

	user, _ := ctx.Value(constant.ContextKeyUserID).(string)
	scope.AddEvent("Guide status updated successfully by user " + user)

	response.WithMessage(w, http.StatusOK, "Guide status updated successfully")
}

// ReplaceAvailability replaces the weekly availability of a guide.
// @Summary Replace guide availability
// @Description Replace all weekly availability slots of a guide with the provided set.
// @Tags Guide
// @Accept json
// @Produce json
// @Param id path string true "Guide ID"
// @Param request body dto.ReplaceAvailabilityRequest true "Replace Availability Request"
// @Success 200 {object} response.Message "Guide availability updated successfully"
// @Failure 400 {object} response.Error
// @Failure 404 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/guides/{id}/availability [put]
// @Security BearerAuth
func (handler *Handler) ReplaceAvailability(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".ReplaceAvailability")
	defer scope.End()

	id := chi.URLParam(r, constant.RequestParamID)

	req := dto.ReplaceAvailabilityRequest{}
	if err := validator.Validate(r.Body, &req); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to validate request body")

		response.WithError(w, err)

		return
	}

	if err := handler.service.ReplaceAvailability(ctx, req, id); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to replace guide availability")

		response.WithError(w, err)

		return
	}

	user, _ := ctx.Value(constant.ContextKeyUserID).(string)
	scope.AddEvent("Guide availability updated successfully by user " + user)

	response.WithMessage(w, http.StatusOK, "Guide availability updated successfully")
}

// UploadVerificationDoc uploads a student status verification document for a guide.
// @Summary Upload verification document
// @Description Upload a document proving current student enrollment. The file is stored in object storage and linked to the guide profile.
// @Tags Guide
// @Accept multipart/form-data
// @Produce json
// @Param id path string true "Guide ID"
// @Param file formData file true "Verification document"
// @Success 200 {object} response.Data[dto.UploadVerificationDocResponse] "Document uploaded successfully"
// @Failure 400 {object} response.Error
// @Failure 404 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/guides/{id}/verification-doc [post]
// @Security BearerAuth
func (handler *Handler) UploadVerificationDoc(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".UploadVerificationDoc")
	defer scope.End()

	id := chi.URLParam(r, constant.RequestParamID)

	if err := r.ParseMultipartForm(constant.RequestMaxMemory); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to parse multipart form")
		response.WithError(w, failure.BadRequest(err))

		return
	}

	file, fileHeader, err := r.FormFile(constant.FormFile)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to read uploaded file")
		response.WithError(w, failure.BadRequestFromString("verification document file is required"))

		return
	}

	defer file.Close()

	res, err := handler.service.UploadVerificationDoc(ctx, id, file, fileHeader)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to upload verification document")

		response.WithError(w, err)

		return
	}

	user, _ := ctx.Value(constant.ContextKeyUserID).(string)
	scope.AddEvent("Verification document uploaded successfully by user " + user)

	response.WithJSON(w, http.StatusOK, res)
}
