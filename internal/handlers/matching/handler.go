package matching

import (
	"net/http"
	"tourwise/infras/otel"
	"tourwise/internal/domains/matching/service"
	"tourwise/shared/constant"
	"tourwise/transport/http/response"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"
)

type Handler struct {
	service service.Matching
	otel    otel.Otel
}

func New(service service.Matching, otel otel.Otel) Handler {
	return Handler{
		service: service,
		otel:    otel,
	}
}

func (handler *Handler) Router(router chi.Router) {
	router.Route("/matches", func(routerGroup chi.Router) {
		routerGroup.Get("/{id}", handler.FindMatches)
	})
}

// FindMatches returns the ranked guide shortlist for a trip request.
// @Summary Find matching guides
// @Description Return up to the configured number of approved guides ranked by availability, rating, reliability and interest overlap for the given trip request. Guides are presented under anonymous display names.
// @Tags Matching
// @Accept json
// @Produce json
// @Param id path string true "Trip Request ID"
// @Success 200 {object} response.Data[dto.FindMatchesResponse] "Ranked guide matches"
// @Failure 400 {object} response.Error
// @Failure 404 {object} response.Error
// @Failure 409 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/matches/{id} [get]
// @Security BearerAuth
func (handler *Handler) FindMatches(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".FindMatches")
	defer scope.End()

	id := chi.URLParam(r, constant.RequestParamID)

	matches, err := handler.service.FindMatches(ctx, id)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to find matches")

		response.WithError(w, err)

		return
	}

	scope.AddEvent("Matches retrieved successfully")

	response.WithJSON(w, http.StatusOK, matches)
}
