package controllers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/julienschmidt/httprouter"
	"github.com/lintang-b-s/cityroute/pkg"
	helper "github.com/lintang-b-s/cityroute/pkg/http/router/routerhelper"
	"go.uber.org/zap"
)

type routingAPI struct {
	baseAPI
	routingService RoutingService
}

func New(routingService RoutingService, log *zap.Logger) *routingAPI {
	return &routingAPI{
		baseAPI: baseAPI{
			log:       log,
			validator: newRequestValidator(),
		},
		routingService: routingService,
	}
}

func (api *routingAPI) Routes(group *helper.RouteGroup) {
	group.GET("/computeRoutes", api.shortestPath)
	group.GET("/info", api.graphInfo)
}

// shortestPath
//
//	@Summary		shortest path between two points of the city street graph
//	@Tags			routing
//	@Param			origin_lat		query	number	true	"origin latitude"
//	@Param			origin_lon		query	number	true	"origin longitude"
//	@Param			destination_lat	query	number	true	"destination latitude"
//	@Param			destination_lon	query	number	true	"destination longitude"
//	@Param			mode			query	string	false	"driving, walking or cycling"
//	@Produce		json
//	@Success		200	{object}	shortestPathResponse
//	@Router			/computeRoutes [get]
func (api *routingAPI) shortestPath(w http.ResponseWriter, r *http.Request, p httprouter.Params) {
	var (
		request shortestPathRequest
		err     error
	)

	query := r.URL.Query()

	request.OriginLat, err = strconv.ParseFloat(query.Get("origin_lat"), 64)
	if err != nil {
		api.BadRequestResponse(w, r, errors.New("origin_lat is required and must be a valid float"))
		return
	}
	request.OriginLon, err = strconv.ParseFloat(query.Get("origin_lon"), 64)
	if err != nil {
		api.BadRequestResponse(w, r, errors.New("origin_lon is required and must be a valid float"))
		return
	}
	request.DestinationLat, err = strconv.ParseFloat(query.Get("destination_lat"), 64)
	if err != nil {
		api.BadRequestResponse(w, r, errors.New("destination_lat is required and must be a valid float"))
		return
	}
	request.DestinationLon, err = strconv.ParseFloat(query.Get("destination_lon"), 64)
	if err != nil {
		api.BadRequestResponse(w, r, errors.New("destination_lon is required and must be a valid float"))
		return
	}
	request.Mode = query.Get("mode")

	if err := api.validator.Struct(request); err != nil {
		api.BadRequestResponse(w, r, err)
		return
	}

	route, err := api.routingService.ShortestPath(r.Context(), request.OriginLat, request.OriginLon,
		request.DestinationLat, request.DestinationLon, pkg.ParseTravelMode(request.Mode))
	if err != nil {
		api.getStatusCode(w, r, err)
		return
	}

	headers := make(http.Header)

	if err := api.writeJSON(w, http.StatusOK, envelope{"data": NewShortestPathResponse(route)}, headers); err != nil {
		api.ServerErrorResponse(w, r, err)
		return
	}
}

// graphInfo
//
//	@Summary		street graph statistics and the shortest path algorithm in use
//	@Tags			routing
//	@Produce		json
//	@Success		200	{object}	graphInfoResponse
//	@Router			/info [get]
func (api *routingAPI) graphInfo(w http.ResponseWriter, r *http.Request, p httprouter.Params) {
	info, err := api.routingService.GraphInfo()
	if err != nil {
		api.getStatusCode(w, r, err)
		return
	}

	if err := api.writeJSON(w, http.StatusOK, envelope{"data": NewGraphInfoResponse(info)}, nil); err != nil {
		api.ServerErrorResponse(w, r, err)
		return
	}
}
