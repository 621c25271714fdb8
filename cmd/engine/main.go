package main

import (
	"context"
	"errors"
	"flag"

	"github.com/lintang-b-s/cityroute/pkg/detour"
	"github.com/lintang-b-s/cityroute/pkg/engine"
	"github.com/lintang-b-s/cityroute/pkg/http"
	"github.com/lintang-b-s/cityroute/pkg/http/usecases"
	"github.com/lintang-b-s/cityroute/pkg/logger"
	"github.com/lintang-b-s/cityroute/pkg/routeprovider"
	"github.com/lintang-b-s/cityroute/pkg/util"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

var (
	mapFile   = flag.String("f", "", "openstreetmap (.osm.pbf, .osm, .osm.bz2) or node-link geojson file of the city, overrides city.map_file")
	graphFile = flag.String("graph", "", "preprocessed graph file from cmd/preprocessor, overrides city.graph_file")
	cityName  = flag.String("city", "", "city name, e.g. \"Maricá, Rio de Janeiro, Brazil\", overrides city.name")
	seed      = flag.Uint64("seed", 0, "edge weight randomization seed, 0 = seeded from clock")
)

func main() {
	flag.Parse()
	if err := util.ReadConfig(); err != nil {
		panic(err)
	}
	overrideConfig()

	logger, err := logger.New()
	if err != nil {
		panic(err)
	}
	defer logger.Sync()

	provider, err := routeprovider.NewProviderFromViper(logger)
	if err != nil {
		logger.Fatal("creating external routing provider", zap.Error(err))
	}

	routingService := usecases.NewRoutingService(logger, nil)
	detourService := usecases.NewDetourService(logger, provider, detour.NewEvaluator(provider, logger))

	ctx, cleanup, err := NewContext()
	if err != nil {
		panic(err)
	}

	// queries answer 503 until the street graph is loaded and randomized
	go func() {
		routingEngine, err := engine.NewEngine(engine.ConfigFromViper(), logger)
		if err != nil {
			logger.Fatal("loading city routing engine", zap.Error(err))
		}
		routingService.SetEngine(routingEngine)
	}()

	api := http.NewServer(logger)
	if _, err := api.Use(ctx, logger, routingService, detourService); err != nil {
		logger.Fatal("starting http server", zap.Error(err))
	}

	go func() {
		signal := http.GracefulShutdown()
		logger.Info("cityroute server stopping", zap.String("signal", signal.String()))
		cleanup()
	}()

	if err := api.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		logger.Error("cityroute server stopped", zap.Error(err))
		return
	}
	logger.Info("cityroute server stopped")
}

func overrideConfig() {
	if *mapFile != "" {
		viper.Set("city.map_file", *mapFile)
	}
	if *graphFile != "" {
		viper.Set("city.graph_file", *graphFile)
	}
	if *cityName != "" {
		viper.Set("city.name", *cityName)
	}
	if *seed != 0 {
		viper.Set("graph.random_seed", *seed)
	}
}

func NewContext() (context.Context, func(), error) {
	ctx, cancel := context.WithCancel(context.Background())
	cb := func() {
		cancel()
	}

	return ctx, cb, nil
}
