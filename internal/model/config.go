package model

import "time"

// Config holds all varscout configuration
type Config struct {
	HTTP        HTTPConfig        `yaml:"http" json:"http"`
	Retry       RetryConfig       `yaml:"retry" json:"retry"`
	Endpoints   EndpointsConfig   `yaml:"endpoints" json:"endpoints"`
	Assembly    AssemblyConfig    `yaml:"assembly" json:"assembly"`
	Cache       CacheConfig       `yaml:"cache" json:"cache"`
	RateLimit   RateLimitConfig   `yaml:"rate_limit" json:"rate_limit"`
	Concurrency ConcurrencyConfig `yaml:"concurrency" json:"concurrency"`
	LLM         LLMConfig         `yaml:"llm" json:"llm"`
	Output      OutputConfig      `yaml:"output" json:"output"`
}

// HTTPConfig configures outbound HTTP behavior
type HTTPConfig struct {
	Timeout      time.Duration `yaml:"timeout" json:"timeout"`
	UserAgent    string        `yaml:"user_agent" json:"user_agent"`
	MaxBodyBytes int64         `yaml:"max_body_bytes" json:"max_body_bytes"`
	InsecureTLS  bool          `yaml:"insecure_tls" json:"insecure_tls"`
	HTTPProxy    string        `yaml:"http_proxy" json:"http_proxy"`
	HTTPSProxy   string        `yaml:"https_proxy" json:"https_proxy"`
	NoProxy      string        `yaml:"no_proxy" json:"no_proxy"`
}

// RetryConfig configures the resilient call client
type RetryConfig struct {
	// MaxAttempts is the number of retries after the first try
	// (attempts are numbered 0..MaxAttempts inclusive)
	MaxAttempts int `yaml:"max_attempts" json:"max_attempts"`
}

// EndpointsConfig holds the base URLs of the upstream services.
// Overridable so tests can point at local servers.
type EndpointsConfig struct {
	Ensembl   string `yaml:"ensembl" json:"ensembl"`     // Gene lookup, variant recoder, variation db
	UCSC      string `yaml:"ucsc" json:"ucsc"`           // Annotation track API
	MyVariant string `yaml:"myvariant" json:"myvariant"` // Last-resort direct variant lookup
}

// AssemblyConfig pins the reference build
type AssemblyConfig struct {
	Name       string `yaml:"name" json:"name"`               // Assembly label as reported by the variation db (e.g. GRCh38)
	UCSCGenome string `yaml:"ucsc_genome" json:"ucsc_genome"` // UCSC genome label for the same build (e.g. hg38)
}

// CacheConfig configures the lookup response cache
type CacheConfig struct {
	Enabled bool          `yaml:"enabled" json:"enabled"`
	TTL     time.Duration `yaml:"ttl" json:"ttl"`
	Dir     string        `yaml:"dir" json:"dir"` // Disk layer directory; empty = memory only
}

// RateLimitConfig bounds the request rate per upstream host
type RateLimitConfig struct {
	RequestsPerSecond float64 `yaml:"requests_per_second" json:"requests_per_second"`
	Burst             int     `yaml:"burst" json:"burst"`
}

// ConcurrencyConfig bounds worker parallelism
type ConcurrencyConfig struct {
	BatchWorkers int `yaml:"batch_workers" json:"batch_workers"`
}

// LLMConfig configures the optional LLM collaborator
type LLMConfig struct {
	Provider  string `yaml:"provider" json:"provider"` // openai, anthropic, ollama, "" = disabled
	Model     string `yaml:"model" json:"model"`
	APIKey    string `yaml:"api_key" json:"api_key"`
	BaseURL   string `yaml:"base_url" json:"base_url"`
	Timeout   int    `yaml:"timeout" json:"timeout"` // seconds
	MaxTokens int    `yaml:"max_tokens" json:"max_tokens"`
}

// OutputConfig configures report rendering
type OutputConfig struct {
	Verbose       bool `yaml:"verbose" json:"verbose"`
	IncludeFooter bool `yaml:"include_footer" json:"include_footer"`
}

// DefaultConfig returns the built-in defaults
func DefaultConfig() *Config {
	return &Config{
		HTTP: HTTPConfig{
			Timeout:      30 * time.Second,
			UserAgent:    "varscout/0.2 (+https://github.com/varscout/varscout)",
			MaxBodyBytes: 4_000_000,
		},
		Retry: RetryConfig{
			MaxAttempts: 2,
		},
		Endpoints: EndpointsConfig{
			Ensembl:   "https://rest.ensembl.org",
			UCSC:      "https://api.genome.ucsc.edu",
			MyVariant: "https://myvariant.info/v1",
		},
		Assembly: AssemblyConfig{
			Name:       "GRCh38",
			UCSCGenome: "hg38",
		},
		Cache: CacheConfig{
			Enabled: true,
			TTL:     6 * time.Hour,
		},
		RateLimit: RateLimitConfig{
			RequestsPerSecond: 10,
			Burst:             5,
		},
		Concurrency: ConcurrencyConfig{
			BatchWorkers: 4,
		},
		LLM: LLMConfig{
			Provider:  "", // Disabled by default
			Timeout:   30,
			MaxTokens: 1000,
		},
		Output: OutputConfig{
			IncludeFooter: true,
		},
	}
}
