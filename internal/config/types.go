package config

// Config is the root configuration for costwise.
type Config struct {
	Server    ServerConfig    `yaml:"server,omitempty"`
	Providers ProvidersConfig `yaml:"providers,omitempty"`
	Cache     CacheConfig     `yaml:"cache,omitempty"`
	History   HistoryConfig   `yaml:"history,omitempty"`
	Analysis  AnalysisConfig  `yaml:"analysis,omitempty"`
	MCP       MCPConfig       `yaml:"mcp,omitempty"`
	Logging   LoggingConfig   `yaml:"logging,omitempty"`
}

// ServerConfig controls the gateway HTTP/WebSocket server.
type ServerConfig struct {
	Port           int        `yaml:"port,omitempty"`
	Bind           string     `yaml:"bind,omitempty"` // "auto" | "lan" | "loopback" | "custom"
	CustomBindHost string     `yaml:"customBindHost,omitempty"`
	Auth           ServerAuth `yaml:"auth,omitempty"`
	TLS            ServerTLS  `yaml:"tls,omitempty"`
	CORSOrigins    []string   `yaml:"corsOrigins,omitempty"`
	StaticDir      string     `yaml:"staticDir,omitempty"` // built web UI, served when set
}

// ServerAuth configures gateway authentication. An empty token disables auth.
type ServerAuth struct {
	Token string `yaml:"token,omitempty"`
}

// ServerTLS configures TLS for the gateway.
type ServerTLS struct {
	Enabled  bool   `yaml:"enabled,omitempty"`
	CertPath string `yaml:"certPath,omitempty"`
	KeyPath  string `yaml:"keyPath,omitempty"`
}

// ProvidersConfig holds per-provider settings.
type ProvidersConfig struct {
	AWS AWSConfig `yaml:"aws,omitempty"`
	GCP GCPConfig `yaml:"gcp,omitempty"`
}

// AWSConfig configures the AWS pricing client.
type AWSConfig struct {
	Region string `yaml:"region,omitempty"`
	// Live enables real API lookups when credentials are present. When
	// false the client always serves estimates from the static tables.
	Live bool `yaml:"live,omitempty"`
}

// GCPConfig configures the GCP pricing client.
type GCPConfig struct {
	Region  string `yaml:"region,omitempty"`
	Project string `yaml:"project,omitempty"`
	Live    bool   `yaml:"live,omitempty"`
}

// CacheConfig configures the Redis price cache.
type CacheConfig struct {
	Enabled    bool   `yaml:"enabled,omitempty"`
	Addr       string `yaml:"addr,omitempty"`
	Password   string `yaml:"password,omitempty"`
	DB         int    `yaml:"db,omitempty"`
	TTLMinutes int    `yaml:"ttlMinutes,omitempty"`
}

// HistoryConfig configures analysis history persistence.
type HistoryConfig struct {
	Store string `yaml:"store,omitempty"` // "sqlite" | "memory"
}

// AnalysisConfig holds analysis pipeline defaults.
type AnalysisConfig struct {
	TimeHorizonMonths int `yaml:"timeHorizonMonths,omitempty"`
}

// MCPConfig optionally points the crew at external MCP server binaries.
// Empty commands mean the servers run in-process.
type MCPConfig struct {
	AWSCommand        string `yaml:"awsCommand,omitempty"`
	GCPCommand        string `yaml:"gcpCommand,omitempty"`
	ComparisonCommand string `yaml:"comparisonCommand,omitempty"`
}

// LoggingConfig controls logging behavior.
type LoggingConfig struct {
	Level string `yaml:"level,omitempty"` // "silent" | "fatal" | "error" | "warn" | "info" | "debug" | "trace"
	Style string `yaml:"style,omitempty"` // "pretty" | "json"
}
