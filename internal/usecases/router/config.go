package router

type Config struct {
	// StagePrefixes префиксы стадии API Gateway, срезается не больше одного
	StagePrefixes []string `envconfig:"STAGE_PREFIXES" default:"default"`
	CORSOrigin    string   `envconfig:"CORS_ORIGIN" default:"*"`
}
