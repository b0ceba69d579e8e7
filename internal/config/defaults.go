package config

import "time"

// DefaultTopN is the number of recommendations returned when none is requested.
const DefaultTopN = 5

// ApplyDefaults sets default values for any zero values in cfg.
func ApplyDefaults(cfg *Config) {
	if cfg.Server.Host == "" {
		cfg.Server.Host = "localhost"
	}
	if cfg.Server.Port == 0 {
		cfg.Server.Port = 8080
	}
	if cfg.Catalog.MoviesPath == "" {
		cfg.Catalog.MoviesPath = "./data/movies.csv"
	}
	if cfg.Recommend.DefaultN == 0 {
		cfg.Recommend.DefaultN = DefaultTopN
	}
	if cfg.Recommend.SuggestionLimit == 0 {
		cfg.Recommend.SuggestionLimit = 5
	}
	if cfg.HTTP.CORSAllowedOrigins == nil {
		cfg.HTTP.CORSAllowedOrigins = []string{"http://localhost:3000"}
	}
	if cfg.HTTP.RateLimitRequests == 0 {
		cfg.HTTP.RateLimitRequests = 100
	}
	if cfg.HTTP.RateLimitWindow == 0 {
		cfg.HTTP.RateLimitWindow = time.Minute
	}
	if cfg.HTTP.RequestTimeout == 0 {
		cfg.HTTP.RequestTimeout = 30 * time.Second
	}
}
