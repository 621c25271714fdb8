package controllers

import (
	"net/http"

	"github.com/julienschmidt/httprouter"
	"github.com/lintang-b-s/cityroute/pkg/geo"
	helper "github.com/lintang-b-s/cityroute/pkg/http/router/routerhelper"
	"github.com/lintang-b-s/cityroute/pkg/routeprovider"
	"go.uber.org/zap"
)

type detourAPI struct {
	baseAPI
	detourService DetourService
}

func NewDetourAPI(detourService DetourService, log *zap.Logger) *detourAPI {
	return &detourAPI{
		baseAPI: baseAPI{
			log:       log,
			validator: newRequestValidator(),
		},
		detourService: detourService,
	}
}

func (api *detourAPI) Routes(group *helper.RouteGroup) {
	group.POST("/route", api.route)
	group.POST("/detour", api.evaluateDetour)
	group.POST("/detour/rank", api.rankCandidates)
}

func profileOrDefault(profile string) string {
	if profile == "" {
		return routeprovider.OSRM_DEFAULT_PROFILE
	}
	return profile
}

// route
//
//	@Summary		multi stop route from the external routing service, origin + up to 5 stops + destination
//	@Tags			detour
//	@Accept			json
//	@Produce		json
//	@Param			body	body		routeRequest	true	"waypoints as [lat, lng]"
//	@Success		200		{object}	routeResponse
//	@Router			/route [post]
func (api *detourAPI) route(w http.ResponseWriter, r *http.Request, p httprouter.Params) {
	var request routeRequest
	if err := readJSON(w, r, &request); err != nil {
		api.BadRequestResponse(w, r, err)
		return
	}
	if err := api.validator.Struct(request); err != nil {
		api.BadRequestResponse(w, r, err)
		return
	}

	route, err := api.detourService.Route(r.Context(), profileOrDefault(request.Profile), fromPairs(request.Waypoints))
	if err != nil {
		api.getStatusCode(w, r, err)
		return
	}

	if err := api.writeJSON(w, http.StatusOK, envelope{"data": NewRouteResponse(route)}, nil); err != nil {
		api.ServerErrorResponse(w, r, err)
	}
}

// evaluateDetour
//
//	@Summary		extra distance and duration of stopping at candidate right before the destination
//	@Tags			detour
//	@Accept			json
//	@Produce		json
//	@Param			body	body		detourRequest	true	"base route and candidate stop as [lat, lng]"
//	@Success		200		{object}	detourResponse
//	@Router			/detour [post]
func (api *detourAPI) evaluateDetour(w http.ResponseWriter, r *http.Request, p httprouter.Params) {
	var request detourRequest
	if err := readJSON(w, r, &request); err != nil {
		api.BadRequestResponse(w, r, err)
		return
	}
	if err := api.validator.Struct(request); err != nil {
		api.BadRequestResponse(w, r, err)
		return
	}

	res, err := api.detourService.EvaluateDetour(r.Context(), profileOrDefault(request.Profile),
		fromPairs(request.Base), geo.NewCoordinateFromPair(request.Candidate))
	if err != nil {
		api.getStatusCode(w, r, err)
		return
	}

	if err := api.writeJSON(w, http.StatusOK, envelope{"data": NewDetourResponse(res)}, nil); err != nil {
		api.ServerErrorResponse(w, r, err)
	}
}

// rankCandidates
//
//	@Summary		candidate stops sorted by extra duration, failed candidates last
//	@Tags			detour
//	@Accept			json
//	@Produce		json
//	@Param			body	body	rankDetourRequest	true	"base route and candidate stops as [lat, lng]"
//	@Success		200		{array}	rankedCandidateResponse
//	@Router			/detour/rank [post]
func (api *detourAPI) rankCandidates(w http.ResponseWriter, r *http.Request, p httprouter.Params) {
	var request rankDetourRequest
	if err := readJSON(w, r, &request); err != nil {
		api.BadRequestResponse(w, r, err)
		return
	}
	if err := api.validator.Struct(request); err != nil {
		api.BadRequestResponse(w, r, err)
		return
	}

	ranked, err := api.detourService.RankCandidates(r.Context(), profileOrDefault(request.Profile),
		fromPairs(request.Base), fromPairs(request.Candidates))
	if err != nil {
		api.getStatusCode(w, r, err)
		return
	}

	if err := api.writeJSON(w, http.StatusOK, envelope{"data": NewRankedCandidatesResponse(ranked)}, nil); err != nil {
		api.ServerErrorResponse(w, r, err)
	}
}
