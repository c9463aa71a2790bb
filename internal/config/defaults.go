package config

import "time"

// ApplyDefaults sets default values for any zero values in cfg.
func ApplyDefaults(cfg *Config) {
	if cfg.Server.Host == "" {
		cfg.Server.Host = "0.0.0.0"
	}
	if cfg.Server.Port == 0 {
		cfg.Server.Port = 5000
	}
	if cfg.Server.FrontendURL == "" {
		cfg.Server.FrontendURL = "*"
	}
	if cfg.Server.RequestTimeout == 0 {
		cfg.Server.RequestTimeout = 60 * time.Second
	}
	if cfg.Server.RateLimit.Window == 0 {
		cfg.Server.RateLimit.Window = time.Minute
	}
	if cfg.Catalog.Path == "" {
		cfg.Catalog.Path = "./data/movies.csv"
	}
	if cfg.Catalog.Table == "" {
		cfg.Catalog.Table = "movies"
	}
	if cfg.Features.MaxFeatures == 0 {
		cfg.Features.MaxFeatures = 5000
	}
	if cfg.Features.MinTermLength == 0 {
		cfg.Features.MinTermLength = 2
	}
	if cfg.Recommend.DefaultCount == 0 {
		cfg.Recommend.DefaultCount = 12
	}
	if cfg.Recommend.MaxCount == 0 {
		cfg.Recommend.MaxCount = 100
	}
	if cfg.Recommend.CandidateMultiplier == 0 {
		cfg.Recommend.CandidateMultiplier = 5
	}
	if cfg.Recommend.SearchLimit == 0 {
		cfg.Recommend.SearchLimit = 20
	}
}
