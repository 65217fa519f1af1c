package config

import (
	"log"
	"os"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

// SalesServiceConfig configures cmd/sales-service.
type SalesServiceConfig struct {
	Env          string `yaml:"env" env-default:"local"`
	HTTPServer   `yaml:"http_server"`
	GRPCServer   `yaml:"grpc_server"`
	SalesDB      `yaml:"sales_db"`
	LogConfig    `yaml:"log_config"`
	KafkaService `yaml:"kafka-service"`
	RedisCache   `yaml:"redis_cache"`
	Telegram     `yaml:"telegram"`
}

// AgentConfig configures cmd/promoter-agent.
type AgentConfig struct {
	Env          string `yaml:"env" env-default:"local"`
	HTTPServer   `yaml:"http_server"`
	LogConfig    `yaml:"log_config"`
	LocalQueue   `yaml:"local_queue"`
	SalesService `yaml:"sales_service"`
	Identity     `yaml:"identity"`
	Connectivity `yaml:"connectivity"`
}

type HTTPServer struct {
	Host string `yaml:"host" env-default:"0.0.0.0"`
	Port string `yaml:"port" env-default:"8080"`
}

type GRPCServer struct {
	Host string `yaml:"host" env-default:"0.0.0.0"`
	Port string `yaml:"port" env-default:"50051"`
}

type SalesDB struct {
	Dsn            string `yaml:"dsn" env:"SALES_DB_DSN"`
	MigrationsPath string `yaml:"migrations_path" env-default:"migrations"`
}

type LogConfig struct {
	LogLevel  string `yaml:"log_level" env-default:"info"`
	LogFormat string `yaml:"log_format" env-default:"json"`
	LogOutput string `yaml:"log_output" env-default:"stdout"`
}

type KafkaService struct {
	Host       string `yaml:"host"`
	Port       string `yaml:"port"`
	Topic      string `yaml:"topic" env-default:"sale-events"`
	Username   string `yaml:"username" env:"KAFKA_USERNAME"`
	Password   string `yaml:"password" env:"KAFKA_PASSWORD"`
	Mechanism  string `yaml:"mechanism"`
	TLSEnabled bool   `yaml:"tls_enabled"`
}

type RedisCache struct {
	Addr     string        `yaml:"addr"`
	Password string        `yaml:"password" env:"REDIS_PASSWORD"`
	DB       int           `yaml:"db"`
	TTL      time.Duration `yaml:"ttl" env-default:"1m"`
}

type Telegram struct {
	BotToken   string        `yaml:"bot_token" env:"TELEGRAM_BOT_TOKEN"`
	MaxAuthAge time.Duration `yaml:"max_auth_age" env-default:"600s"`
}

type LocalQueue struct {
	Path            string        `yaml:"path" env-default:"promoter-agent.db"`
	PurgeOnSync     bool          `yaml:"purge_on_sync"`
	Retention       time.Duration `yaml:"retention" env-default:"168h"`
	PurgeInterval   time.Duration `yaml:"purge_interval" env-default:"1h"`
	SnapshotRefresh time.Duration `yaml:"snapshot_refresh" env-default:"5m"`
}

type SalesService struct {
	BaseURL     string        `yaml:"base_url"`
	GRPCAddress string        `yaml:"grpc_address"`
	Timeout     time.Duration `yaml:"timeout" env-default:"10s"`
}

type Identity struct {
	PromoterID   string `yaml:"promoter_id"`
	SessionToken string `yaml:"session_token" env:"AGENT_SESSION_TOKEN"`
	InitData     string `yaml:"init_data" env:"AGENT_TELEGRAM_INIT_DATA"`
	// RetryInterval paces login attempts while the identity is stale.
	RetryInterval time.Duration `yaml:"retry_interval" env-default:"30s"`
}

type Connectivity struct {
	Probe         string        `yaml:"probe" env-default:"http"`
	ProbeInterval time.Duration `yaml:"probe_interval" env-default:"5s"`
	ProbeTimeout  time.Duration `yaml:"probe_timeout" env-default:"3s"`
	SyncInterval  time.Duration `yaml:"sync_interval" env-default:"30s"`
}

func MustLoadSalesService() *SalesServiceConfig {
	var cfg SalesServiceConfig
	mustRead("SALES_CONFIG_PATH", &cfg)
	return &cfg
}

func MustLoadAgent() *AgentConfig {
	var cfg AgentConfig
	mustRead("AGENT_CONFIG_PATH", &cfg)
	return &cfg
}

func mustRead(envVar string, cfg any) {
	// Processing env config variable and file
	configPath := os.Getenv(envVar)

	if configPath == "" {
		log.Fatalf("%s was not found\n", envVar)
	}

	if _, err := os.Stat(configPath); err != nil {
		log.Fatalf("failed to find config file: %v\n", err)
	}

	// YAML to struct object
	if err := cleanenv.ReadConfig(configPath, cfg); err != nil {
		log.Fatalf("failed to read config file: %v", err)
	}
}
