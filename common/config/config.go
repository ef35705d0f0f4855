package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/samber/lo"
)

const DefaultUserAgent = "CasaNova-Bot/1.0 (International Mobility Info Aggregator; contact@casanova.app)"

func getEnv(key, defaultValue string) string {
	value, exists := os.LookupEnv(key)
	if !exists {
		return defaultValue
	}
	return value
}

func loadEnvString(key string, result *string) {
	s, ok := os.LookupEnv(key)

	if !ok {
		return
	}
	*result = s
}

func loadEnvUint(key string, result *uint) {
	s, ok := os.LookupEnv(key)

	if !ok {
		return
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return
	}
	*result = uint(n)
}

// loadEnvList reads a comma separated list, ignoring blank items.
func loadEnvList(key string, result *[]string) {
	s, ok := os.LookupEnv(key)
	if !ok {
		return
	}
	items := lo.Compact(lo.Map(strings.Split(s, ","), func(item string, _ int) string {
		return strings.TrimSpace(item)
	}))
	if len(items) > 0 {
		*result = items
	}
}

func loadEnvBool(key string, result *bool) {
	s, ok := os.LookupEnv(key)
	if !ok {
		return
	}
	b, err := strconv.ParseBool(strings.TrimSpace(s))
	if err != nil {
		return
	}
	*result = b
}

// loadEnvDuration accepts Go duration strings ("2s", "1h") or a bare number of milliseconds.
func loadEnvDuration(key string, result *time.Duration) {
	s, ok := os.LookupEnv(key)
	if !ok {
		return
	}
	s = strings.TrimSpace(s)
	if d, err := time.ParseDuration(s); err == nil {
		*result = d
		return
	}
	if ms, err := strconv.Atoi(s); err == nil {
		*result = time.Duration(ms) * time.Millisecond
	}
}

/* PgSQL Configuration */
type pgSqlConfig struct {
	Host     string `json:"host"`
	Port     uint   `json:"port"`
	Database string `json:"database"`
	SslMode  string `json:"ssl_mode"`
	User     string `json:"user"`
	Password string `json:"password"`
	MaxConns uint   `json:"max_conns"`
	MinConns uint   `json:"min_conns"`
}

func (p pgSqlConfig) ConnStr() string {
	return fmt.Sprintf("host=%s port=%d user=%s password=%s database=%s sslmode=%s", p.Host, p.Port, p.User, p.Password, p.Database, p.SslMode)
}

func defaultPgSql() pgSqlConfig {
	return pgSqlConfig{
		Host:     "localhost",
		Port:     5432,
		Database: "casanova",
		User:     "",
		Password: "",
		SslMode:  "disable",
		MaxConns: 20,
		MinConns: 2,
	}
}

func (p *pgSqlConfig) loadFromEnv() {
	loadEnvString("POSTGRES_HOST", &p.Host)
	loadEnvUint("POSTGRES_PORT", &p.Port)
	loadEnvString("POSTGRES_DB_NAME", &p.Database)
	loadEnvString("POSTGRES_SSLMODE", &p.SslMode)
	loadEnvString("POSTGRES_USERNAME", &p.User)
	loadEnvString("POSTGRES_PASSWORD", &p.Password)
	loadEnvUint("POSTGRES_MAX_CONNS", &p.MaxConns)
	loadEnvUint("POSTGRES_MIN_CONNS", &p.MinConns)
}

/* Listen Configuration */

// ScrapeTimeout bounds every request since POST /scrape/{code} scrapes inline.
type listenConfig struct {
	Host          string        `json:"host"`
	Port          uint          `json:"port"`
	CorsOrigins   []string      `json:"cors_origins"`
	ScrapeTimeout time.Duration `json:"scrape_timeout"`
}

func (l listenConfig) Addr() string {
	return fmt.Sprintf("%s:%d", l.Host, l.Port)
}

func defaultListenConfig() listenConfig {
	return listenConfig{
		Host:          "127.0.0.1",
		Port:          8080,
		CorsOrigins:   []string{"*"},
		ScrapeTimeout: 5 * time.Minute,
	}
}

func (l *listenConfig) loadFromEnv() {
	loadEnvString("LISTEN_HOST", &l.Host)
	loadEnvUint("LISTEN_PORT", &l.Port)
	loadEnvList("LISTEN_CORS_ORIGINS", &l.CorsOrigins)
	loadEnvDuration("LISTEN_SCRAPE_TIMEOUT", &l.ScrapeTimeout)
}

/* Log Configuration */

type logConfig struct {
	Level  string `json:"level"`
	Pretty bool   `json:"pretty"`
}

func defaultLogConfig() logConfig {
	return logConfig{
		Level:  "info",
		Pretty: false,
	}
}

func (l *logConfig) loadFromEnv() {
	loadEnvString("LOG_LEVEL", &l.Level)
	loadEnvBool("LOG_PRETTY", &l.Pretty)
}

type natsConfig struct {
	Enabled          bool
	Host             string
	Port             uint
	Username         string
	Password         string
	JetStreamEnabled bool
	StreamName       string
}

func (c *natsConfig) loadFromEnv() {
	loadEnvBool("NATS_ENABLED", &c.Enabled)
	c.Host = getEnv("NATS_HOST", c.Host)

	if portStr := getEnv("NATS_PORT", ""); portStr != "" {
		if port, err := strconv.Atoi(portStr); err == nil {
			c.Port = uint(port)
		}
	}

	c.Username = getEnv("NATS_USER", "")
	c.Password = getEnv("NATS_PASSWORD", "")

	if jsEnabled := getEnv("NATS_JETSTREAM_ENABLED", "true"); jsEnabled == "true" {
		c.JetStreamEnabled = true
	} else {
		c.JetStreamEnabled = false
	}

	loadEnvString("NATS_STREAM_NAME", &c.StreamName)
}

func (c *natsConfig) URL() string {
	return fmt.Sprintf("nats://%s:%d", c.Host, c.Port)
}

func defaultNatsConfig() natsConfig {
	return natsConfig{
		Enabled:          false,
		Host:             "localhost",
		Port:             4222,
		Username:         "",
		Password:         "",
		JetStreamEnabled: true,
		StreamName:       "CASANOVA_SCRAPES",
	}
}

type redisConfig struct {
	Host      string `json:"host"`
	Port      uint   `json:"port"`
	Password  string `json:"-"`
	DB        int    `json:"db"`
	KeyPrefix string `json:"key_prefix"`
}

func (r *redisConfig) loadFromEnv() {
	loadEnvString("REDIS_HOST", &r.Host)
	loadEnvUint("REDIS_PORT", &r.Port)
	loadEnvString("REDIS_PASSWORD", &r.Password)
	loadEnvString("REDIS_KEY_PREFIX", &r.KeyPrefix)

	if dbStr := getEnv("REDIS_DB", "0"); dbStr != "" {
		if db, err := strconv.Atoi(dbStr); err == nil {
			r.DB = db
		}
	}
	log.Debug().Interface("redis", r).Msg("Redis config loaded")
}

func (r redisConfig) Addr() string {
	return fmt.Sprintf("%s:%d", r.Host, r.Port)
}

func defaultRedisConfig() redisConfig {
	return redisConfig{
		Host:     "localhost",
		Port:     6379,
		Password:  "",
		DB:        0,
		KeyPrefix: "casanova:",
	}
}

type GCSConfig struct {
	ProjectID       string
	CredentialsFile string
	Bucket          string
}

// Enabled reports whether page snapshots should be archived.
func (g GCSConfig) Enabled() bool {
	return g.Bucket != ""
}

func (g *GCSConfig) loadFromEnv() {
	g.ProjectID = getEnv("GCS_PROJECT_ID", "")
	g.CredentialsFile = getEnv("GCS_CREDENTIALS_FILE", "")
	g.Bucket = getEnv("GCS_STORAGE_BUCKET", "")
}

func defaultGcsConfig() GCSConfig {
	return GCSConfig{
		ProjectID:       "",
		CredentialsFile: "",
		Bucket:          "",
	}
}

/* Scraper Configuration */

type ScraperConfig struct {
	UserAgent      string
	AcceptLanguage string
	RateInterval   time.Duration
	FetchTimeout   time.Duration
	RobotsTimeout  time.Duration
	MaxRedirects   uint
	RobotsCacheTTL time.Duration
	SourcesFile    string
	Upsert         bool
}

func defaultScraperConfig() ScraperConfig {
	return ScraperConfig{
		UserAgent:      DefaultUserAgent,
		AcceptLanguage: "en-US,en;q=0.5,fr;q=0.3",
		RateInterval:   2000 * time.Millisecond,
		FetchTimeout:   30 * time.Second,
		RobotsTimeout:  5 * time.Second,
		MaxRedirects:   5,
		RobotsCacheTTL: time.Hour,
		SourcesFile:    "",
		Upsert:         false,
	}
}

func (s *ScraperConfig) loadFromEnv() {
	loadEnvString("SCRAPER_USER_AGENT", &s.UserAgent)
	loadEnvString("SCRAPER_ACCEPT_LANGUAGE", &s.AcceptLanguage)
	loadEnvDuration("SCRAPER_RATE_INTERVAL", &s.RateInterval)
	loadEnvDuration("SCRAPER_FETCH_TIMEOUT", &s.FetchTimeout)
	loadEnvDuration("SCRAPER_ROBOTS_TIMEOUT", &s.RobotsTimeout)
	loadEnvUint("SCRAPER_MAX_REDIRECTS", &s.MaxRedirects)
	loadEnvDuration("SCRAPER_ROBOTS_CACHE_TTL", &s.RobotsCacheTTL)
	loadEnvString("SCRAPER_SOURCES_FILE", &s.SourcesFile)
	loadEnvBool("SCRAPER_UPSERT", &s.Upsert)
}

type Config struct {
	Listen  listenConfig
	PgSql   pgSqlConfig
	Log     logConfig
	Nats    natsConfig
	Redis   redisConfig
	GCS     GCSConfig
	Scraper ScraperConfig
}

func (c *Config) LoadFromEnv() {
	c.Listen.loadFromEnv()
	c.PgSql.loadFromEnv()
	c.Log.loadFromEnv()
	c.Nats.loadFromEnv()
	c.Redis.loadFromEnv()
	c.GCS.loadFromEnv()
	c.Scraper.loadFromEnv()
}

func DefaultConfig() Config {
	return Config{
		Listen:  defaultListenConfig(),
		PgSql:   defaultPgSql(),
		Log:     defaultLogConfig(),
		Nats:    defaultNatsConfig(),
		Redis:   defaultRedisConfig(),
		GCS:     defaultGcsConfig(),
		Scraper: defaultScraperConfig(),
	}
}
