// Package config gerencia configurações da aplicação via variáveis de ambiente.
//
// # Variáveis de Ambiente
//
// ## Servidor
//   - SERVER_PORT: Porta HTTP (default: 8080)
//   - GIN_MODE: Modo do gin, debug/release/test (default: release)
//
// ## Despacho
//   - CANONICAL_HOST: Host canônico para onde visitantes são enviados (default: healthbuzzonline.com)
//   - DISPATCH_POLICY: prefetch-redirect, client-redirect ou client-redirect-www (default: prefetch-redirect)
//   - TRACKING_PARAMS: Parâmetros de query com id de rastreio, CSV (default: fbclid)
//   - CRAWLER_SIGNATURES: Assinaturas de User-Agent de crawlers, CSV (default: lista embutida)
//   - SOCIAL_REFERRER_DOMAINS: Domínios de referrer social, CSV (default: lista embutida)
//
// ## Fonte de conteúdo
//   - CONTENT_SOURCE: graphql ou typesense (default: graphql)
//   - CONTENT_SOURCE_ENDPOINT: Endpoint GraphQL do CMS (obrigatório para graphql)
//   - CONTENT_SOURCE_TOKEN: Bearer token opcional do endpoint GraphQL
//   - CONTENT_SOURCE_TIMEOUT: Timeout de cada busca (default: 10s)
//
// ## Typesense
//   - TYPESENSE_HOST: Host do servidor Typesense (default: localhost)
//   - TYPESENSE_PORT: Porta do servidor (default: 8108)
//   - TYPESENSE_API_KEY: Chave de API do Typesense
//   - TYPESENSE_PROTOCOL: Protocolo http/https (default: http)
//   - TYPESENSE_COLLECTION: Collection espelho dos posts (default: posts)
//
// ## Cache
//   - CACHE_REDIS_URL: URL do Redis para cache de artigos; vazio desativa o cache
//   - CACHE_TTL: Tempo de vida de cada artigo em cache (default: 5m)
//
// ## Logs e tracing
//   - LOG_LEVEL: debug, info, warn ou error (default: info)
//   - LOG_FORMAT: json ou console (default: json)
//   - LOG_FILE: Arquivo de log rotacionado, opcional
//   - TRACING_ENABLED: Habilita exportação OTLP (default: false)
//   - TRACING_ENDPOINT: Endpoint do coletor OTLP gRPC (default: localhost:4317)
package config

import (
	"fmt"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	ContentSourceGraphQL   = "graphql"
	ContentSourceTypesense = "typesense"
)

// LogConfig controla o logger global
type LogConfig struct {
	Level  string
	Format string
	File   string
}

// TypesenseConfig contém a conexão com a collection espelho do CMS
type TypesenseConfig struct {
	Host       string
	Port       string
	APIKey     string
	Protocol   string
	Collection string
}

// ServerURL monta a URL base do servidor Typesense
func (t TypesenseConfig) ServerURL() string {
	return fmt.Sprintf("%s://%s:%s", t.Protocol, t.Host, t.Port)
}

type Config struct {
	ServerPort string
	GinMode    string

	// Despacho
	CanonicalHost         string
	DispatchPolicy        string
	TrackingParams        []string
	CrawlerSignatures     []string
	SocialReferrerDomains []string

	// Fonte de conteúdo
	ContentSource         string
	ContentSourceEndpoint string
	ContentSourceToken    string
	ContentSourceTimeout  time.Duration

	Typesense TypesenseConfig

	// Cache
	CacheRedisURL string
	CacheTTL      time.Duration

	Log LogConfig

	// Tracing configuration
	TracingEnabled  bool
	TracingEndpoint string
}

func LoadConfig() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		ServerPort: getEnv("SERVER_PORT", "8080"),
		GinMode:    getEnv("GIN_MODE", "release"),

		CanonicalHost:         getEnv("CANONICAL_HOST", "healthbuzzonline.com"),
		DispatchPolicy:        getEnv("DISPATCH_POLICY", "prefetch-redirect"),
		TrackingParams:        getEnvList("TRACKING_PARAMS", []string{"fbclid"}),
		CrawlerSignatures:     getEnvList("CRAWLER_SIGNATURES", nil),
		SocialReferrerDomains: getEnvList("SOCIAL_REFERRER_DOMAINS", nil),

		ContentSource:         strings.ToLower(getEnv("CONTENT_SOURCE", ContentSourceGraphQL)),
		ContentSourceEndpoint: getEnv("CONTENT_SOURCE_ENDPOINT", ""),
		ContentSourceToken:    getEnv("CONTENT_SOURCE_TOKEN", ""),
		ContentSourceTimeout:  getEnvDuration("CONTENT_SOURCE_TIMEOUT", 10*time.Second),

		Typesense: TypesenseConfig{
			Host:       getEnv("TYPESENSE_HOST", "localhost"),
			Port:       getEnv("TYPESENSE_PORT", "8108"),
			APIKey:     getEnv("TYPESENSE_API_KEY", ""),
			Protocol:   getEnv("TYPESENSE_PROTOCOL", "http"),
			Collection: getEnv("TYPESENSE_COLLECTION", "posts"),
		},

		CacheRedisURL: getEnv("CACHE_REDIS_URL", ""),
		CacheTTL:      getEnvDuration("CACHE_TTL", 5*time.Minute),

		Log: LogConfig{
			Level:  getEnv("LOG_LEVEL", "info"),
			Format: getEnv("LOG_FORMAT", "json"),
			File:   getEnv("LOG_FILE", ""),
		},

		// Tracing configuration
		TracingEnabled:  getEnv("TRACING_ENABLED", "false") == "true",
		TracingEndpoint: getEnv("TRACING_ENDPOINT", "localhost:4317"),
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate verifica combinações obrigatórias de configuração
func (c *Config) Validate() error {
	if strings.TrimSpace(c.CanonicalHost) == "" {
		return fmt.Errorf("%w: CANONICAL_HOST", ErrMissingRequired)
	}
	if c.ContentSourceTimeout <= 0 {
		return fmt.Errorf("%w: CONTENT_SOURCE_TIMEOUT deve ser positivo", ErrInvalidValue)
	}
	if c.CacheTTL <= 0 {
		return fmt.Errorf("%w: CACHE_TTL deve ser positivo", ErrInvalidValue)
	}

	switch c.ContentSource {
	case ContentSourceGraphQL:
		if c.ContentSourceEndpoint == "" {
			return fmt.Errorf("%w: CONTENT_SOURCE_ENDPOINT é obrigatório para a fonte graphql", ErrMissingRequired)
		}
		if u, err := url.Parse(c.ContentSourceEndpoint); err != nil || u.Scheme == "" || u.Host == "" {
			return fmt.Errorf("%w: CONTENT_SOURCE_ENDPOINT %q não é uma URL absoluta", ErrInvalidValue, c.ContentSourceEndpoint)
		}
	case ContentSourceTypesense:
		if c.Typesense.APIKey == "" {
			return fmt.Errorf("%w: TYPESENSE_API_KEY é obrigatório para a fonte typesense", ErrMissingRequired)
		}
		if c.Typesense.Collection == "" {
			return fmt.Errorf("%w: TYPESENSE_COLLECTION", ErrMissingRequired)
		}
	default:
		return fmt.Errorf("%w: CONTENT_SOURCE %q", ErrInvalidValue, c.ContentSource)
	}

	switch strings.ToLower(c.Log.Format) {
	case "json", "console":
	default:
		return fmt.Errorf("%w: LOG_FORMAT %q", ErrInvalidValue, c.Log.Format)
	}

	return nil
}

func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value, exists := os.LookupEnv(key); exists {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

// getEnvDuration aceita "10s", "1m30s" ou um número inteiro de segundos
func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value, exists := os.LookupEnv(key); exists {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
		if seconds := getEnvInt(key, -1); seconds >= 0 {
			return time.Duration(seconds) * time.Second
		}
	}
	return defaultValue
}

func getEnvList(key string, defaultValue []string) []string {
	value, exists := os.LookupEnv(key)
	if !exists {
		return defaultValue
	}

	var items []string
	for _, item := range strings.Split(value, ",") {
		if item = strings.TrimSpace(item); item != "" {
			items = append(items, item)
		}
	}
	if len(items) == 0 {
		return defaultValue
	}
	return items
}
