package router

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/julienschmidt/httprouter"
	"github.com/justinas/alice"
	"github.com/lintang-b-s/cityroute/pkg/http/router/controllers"
	router_helper "github.com/lintang-b-s/cityroute/pkg/http/router/routerhelper"
	http_server "github.com/lintang-b-s/cityroute/pkg/http/server"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/cors"
	"go.uber.org/zap"

	httpSwagger "github.com/swaggo/http-swagger"
)

const shutdownTimeout = 10 * time.Second

type API struct {
	log     *zap.Logger
	hub     *controllers.Hub
	metrics *Metrics
}

func NewAPI(log *zap.Logger) *API {
	return &API{log: log}
}

//	@title			cityroute API
//	@version		1.0
//	@description	in-city shortest path over a randomized OpenStreetMap street graph, plus multi stop routes and detour evaluation through an external routing service.

//	@contact.name	Lintang Birda Saputra
//	@contact.url	_
//	@contact.email	lintang.birda.saputra@mail.ugm.ac.id

//	@license.name	BSD License
//	@license.url	https://opensource.org/license/bsd-2-clause

// @host		localhost
// @BasePath	/api
func (api *API) Handler(
	ctx context.Context,
	config http_server.Config,
	routingService controllers.RoutingService,
	detourService controllers.DetourService,
) http.Handler {
	router := httprouter.New()

	corsHandler := cors.New(cors.Options{ //nolint:gocritic // ignore
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-CSRF-Token"},
		ExposedHeaders:   []string{"Link"},
		AllowCredentials: true,
		MaxAge:           300, //nolint:mnd // ignore
	})

	api.metrics = NewMetrics(prometheus.NewRegistry())
	api.hub = controllers.NewHub(routingService, api.log)

	router.GET("/doc/*any", swaggerHandler)
	router.Handler(http.MethodGet, "/metrics", api.metrics.Handler())
	router.GET("/ws", api.serveWebsocket(ctx))

	group := router_helper.NewRouteGroup(router, "/api")
	group.Use(api.metrics.Instrument)

	controllers.New(routingService, api.log).Routes(group)
	controllers.NewDetourAPI(detourService, api.log).Routes(group)

	mwChain := []alice.Constructor{corsHandler.Handler, EnforceJSONHandler, api.recoverPanic,
		RealIP, Heartbeat("healthz"), Logger(api.log)}
	if config.UseRateLimit {
		mwChain = append(mwChain, Limit(config.RequestsPerSecond, config.Burst))
	}
	return alice.New(mwChain...).Then(router)
}

// Run serves until ctx is done or the listener fails.
func (api *API) Run(
	ctx context.Context,
	config http_server.Config,
	routingService controllers.RoutingService,
	detourService controllers.DetourService,
) error {
	api.log.Info("Run httprouter API")

	srv := http_server.New(ctx, api.Handler(ctx, config, routingService, detourService), config)
	api.log.Info(fmt.Sprintf("API run on port %d", config.Port))

	serverErr := make(chan error, 1)
	go func() {
		serverErr <- srv.ListenAndServe()
	}()

	select {
	case err := <-serverErr:
		api.log.Info("HTTP server stopped", zap.Error(err))
		api.hub.RemoveAllUser()
		return err

	case <-ctx.Done():
		api.log.Info("Context canceled, shutting down server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		err := srv.Shutdown(shutdownCtx)
		// Shutdown does not wait for hijacked connections
		api.hub.RemoveAllUser()
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return ctx.Err()
	}
}

func swaggerHandler(res http.ResponseWriter, req *http.Request, p httprouter.Params) {
	httpSwagger.WrapHandler(res, req)
}
