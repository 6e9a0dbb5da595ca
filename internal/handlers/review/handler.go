package review

import (
	"net/http"
	"tourwise/infras/otel"
	"tourwise/internal/domains/review/model/dto"
	"tourwise/internal/domains/review/service"
	"tourwise/shared/constant"
	"tourwise/shared/failure"
	"tourwise/shared/validator"
	"tourwise/transport/http/response"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"
)

type Handler struct {
	service service.Review
	otel    otel.Otel
}

func New(service service.Review, otel otel.Otel) Handler {
	return Handler{
		service: service,
		otel:    otel,
	}
}

func (handler *Handler) Router(router chi.Router) {
	router.Route("/reviews", func(routerGroup chi.Router) {
		routerGroup.Post("/", handler.CreateReview)
		routerGroup.Get("/request/{id}", handler.GetReviewByRequest)
		routerGroup.Get("/guide/{id}", handler.GetReviewsByGuide)
		routerGroup.Get("/guide/{id}/metrics", handler.GetGuideMetrics)
	})
}

// CreateReview handles the creation of a review for a completed trip request.
// @Summary Create a review
// @Description Review the assigned guide of an accepted trip request. Each request can be reviewed once; the guide's aggregates are recomputed in the same transaction.
// @Tags Review
// @Accept json
// @Produce json
// @Param request body dto.CreateReviewRequest true "Create Review Request"
// @Success 201 {object} response.Data[dto.ReviewResponse] "Review created successfully"
// @Failure 400 {object} response.Error
// @Failure 401 {object} response.Error
// @Failure 403 {object} response.Error
// @Failure 404 {object} response.Error
// @Failure 409 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/reviews [post]
// @Security BearerAuth
func (handler *Handler) CreateReview(writer http.ResponseWriter, request *http.Request) {
	ctx, scope := handler.otel.NewScope(request.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".CreateReview")
	defer scope.End()

	touristID, ok := ctx.Value(constant.ContextKeyUserID).(string)
	if !ok || touristID == "" {
		scope.TraceError(nil)
		log.Error().Msg("failed to get user ID from context")
		response.WithError(writer, failure.Unauthorized("unauthorized"))

		return
	}

	req := dto.CreateReviewRequest{}

	if err := validator.Validate(request.Body, &req); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to validate request body")

		response.WithError(writer, err)

		return
	}

	res, err := handler.service.Create(ctx, req, touristID)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to create review")

		response.WithError(writer, err)

		return
	}

	scope.AddEvent("Review created successfully by user " + touristID)

	response.WithJSON(writer, http.StatusCreated, res)
}

// GetReviewByRequest retrieves the review of a trip request.
// @Summary Get the review of a trip request
// @Description Retrieve the review written for a trip request, if any.
// @Tags Review
// @Accept json
// @Produce json
// @Param id path string true "Trip Request ID"
// @Success 200 {object} response.Data[dto.ReviewResponse] "Review details"
// @Failure 400 {object} response.Error
// @Failure 404 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/reviews/request/{id} [get]
func (handler *Handler) GetReviewByRequest(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetReviewByRequest")
	defer scope.End()

	id := chi.URLParam(r, constant.RequestParamID)

	review, err := handler.service.GetByRequest(ctx, id)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to get review by request")

		response.WithError(w, err)

		return
	}

	scope.AddEvent("Review retrieved successfully")

	response.WithJSON(w, http.StatusOK, review)
}

// GetReviewsByGuide retrieves all reviews of a guide.
// @Summary Get all reviews of a guide
// @Description Retrieve all reviews written for a guide. Anonymous reviews omit the reviewer's identity.
// @Tags Review
// @Accept json
// @Produce json
// @Param id path string true "Guide ID"
// @Success 200 {object} response.Data[dto.GetReviewsResponse] "List of reviews"
// @Failure 400 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/reviews/guide/{id} [get]
func (handler *Handler) GetReviewsByGuide(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetReviewsByGuide")
	defer scope.End()

	id := chi.URLParam(r, constant.RequestParamID)

	reviews, err := handler.service.GetAllByStudent(ctx, id)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to get reviews by guide")

		response.WithError(w, err)

		return
	}

	scope.AddEvent("Reviews retrieved successfully")

	response.WithJSON(w, http.StatusOK, reviews)
}

// GetGuideMetrics recomputes and returns the reliability metrics of a guide.
// @Summary Get guide metrics
// @Description Recompute a guide's average rating, no-show count, hosted trips, completion rate and reliability badge from their review history and return the result.
// @Tags Review
// @Accept json
// @Produce json
// @Param id path string true "Guide ID"
// @Success 200 {object} response.Data[dto.MetricsResponse] "Guide metrics"
// @Failure 400 {object} response.Error
// @Failure 404 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/reviews/guide/{id}/metrics [get]
func (handler *Handler) GetGuideMetrics(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetGuideMetrics")
	defer scope.End()

	id := chi.URLParam(r, constant.RequestParamID)

	metrics, err := handler.service.RecomputeMetrics(ctx, id)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to compute guide metrics")

		response.WithError(w, err)

		return
	}

	scope.AddEvent("Guide metrics computed successfully")

	response.WithJSON(w, http.StatusOK, metrics)
}
