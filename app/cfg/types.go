package cfg

type Cfg struct {
	// HTTP configuration
	Port           string
	APIAccessKey   string
	MaxBodyBytes   int64
	RateLimit      float64
	RateBurst      int
	TrustedProxies []string

	// Scoring configuration
	ScoringProfile string

	// Application metadata
	Timezone string
	Debug    bool
	Version  string
}
