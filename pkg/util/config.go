package util

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

const envPrefix = "CITYROUTE"

func setDefaults() {
	viper.SetDefault("city.name", "Maricá, Rio de Janeiro, Brazil")
	viper.SetDefault("city.map_file", "./data/marica.osm.pbf")
	viper.SetDefault("city.graph_file", "")

	viper.SetDefault("graph.projected", true)
	viper.SetDefault("graph.random_factor_min", 0.8)
	viper.SetDefault("graph.random_factor_max", 1.2)
	viper.SetDefault("graph.random_seed", 0)

	viper.SetDefault("routing_provider.kind", "osrm")
	viper.SetDefault("routing_provider.osrm_url", "https://router.project-osrm.org")
	viper.SetDefault("routing_provider.google_api_key", "")
	viper.SetDefault("routing_provider.timeout", 10*time.Second)
	viper.SetDefault("routing_provider.rate_per_second", 1.0)
	viper.SetDefault("routing_provider.user_agent", "cityroute/1.0")

	viper.SetDefault("log.level", "info")
}

// ReadConfig loads ./data/config.yaml when present. Environment variables
// (CITYROUTE_CITY_NAME, CITYROUTE_API_PORT, ...) override file values.
func ReadConfig() error {
	setDefaults()

	viper.SetEnvPrefix(envPrefix)
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	viper.SetConfigName("config")
	viper.AddConfigPath("./data/")

	err := viper.ReadInConfig()
	if err != nil {
		var notFound viper.ConfigFileNotFoundError
		if errors.As(err, &notFound) {
			return nil
		}
		return fmt.Errorf("fatal error config file: %w", err)
	}
	return nil
}
