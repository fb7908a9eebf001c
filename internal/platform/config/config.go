package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	platformstrings "txguard/pkg/platform/strings"
)

// Engine modes.
const (
	EngineModeHTTP = "http"
	EngineModeMock = "mock"
)

// Server captures process configuration.
type Server struct {
	Addr         string
	LogLevel     string
	LogFormat    string
	MaxBodyBytes int64

	Engine          Engine
	Recommendations string // optional catalog YAML path
	Audit           Audit
}

// Engine configures the detection engine adapter.
type Engine struct {
	Mode             string
	URL              string
	Timeout          time.Duration
	MaxResponseBytes int64
	BreakerFailures  int
	BreakerSuccesses int
	BreakerCooldown  time.Duration
}

// Audit configures the audit publisher. With no brokers, events go to the
// log.
type Audit struct {
	Brokers       []string
	Topic         string
	Buffer        int
	OpsSampleRate float64
}

// FromEnv builds a Server config from environment variables so main stays lean.
func FromEnv() (Server, error) {
	var p parser
	cfg := Server{
		Addr:         p.str("TXGUARD_ADDR", ":8080"),
		LogLevel:     p.str("LOG_LEVEL", "info"),
		LogFormat:    p.str("LOG_FORMAT", "json"),
		MaxBodyBytes: p.int64("MAX_BODY_BYTES", 1<<20),
		Engine: Engine{
			Mode:             strings.ToLower(p.str("ENGINE_MODE", EngineModeHTTP)),
			URL:              p.str("ENGINE_URL", ""),
			Timeout:          p.duration("ENGINE_TIMEOUT", 10*time.Second),
			MaxResponseBytes: p.int64("ENGINE_MAX_RESPONSE_BYTES", 1<<20),
			BreakerFailures:  p.int("ENGINE_BREAKER_FAILURES", 5),
			BreakerSuccesses: p.int("ENGINE_BREAKER_SUCCESSES", 1),
			BreakerCooldown:  p.duration("ENGINE_BREAKER_COOLDOWN", 30*time.Second),
		},
		Recommendations: p.str("RECOMMENDATIONS_FILE", ""),
		Audit: Audit{
			Brokers:       platformstrings.SplitList(os.Getenv("KAFKA_BROKERS"), ","),
			Topic:         p.str("KAFKA_AUDIT_TOPIC", "txguard.verifications"),
			Buffer:        p.int("AUDIT_BUFFER", 1024),
			OpsSampleRate: p.float("AUDIT_OPS_SAMPLE_RATE", 1.0),
		},
	}
	if p.err != nil {
		return Server{}, p.err
	}
	return cfg, cfg.Validate()
}

// Validate checks cross-field constraints.
func (s Server) Validate() error {
	switch s.Engine.Mode {
	case EngineModeHTTP:
		if s.Engine.URL == "" {
			return fmt.Errorf("ENGINE_URL is required when ENGINE_MODE=%s", EngineModeHTTP)
		}
	case EngineModeMock:
	default:
		return fmt.Errorf("ENGINE_MODE must be %q or %q, got %q", EngineModeHTTP, EngineModeMock, s.Engine.Mode)
	}
	if s.Audit.OpsSampleRate < 0 || s.Audit.OpsSampleRate > 1 {
		return fmt.Errorf("AUDIT_OPS_SAMPLE_RATE must be within [0, 1], got %v", s.Audit.OpsSampleRate)
	}
	if s.MaxBodyBytes <= 0 {
		return fmt.Errorf("MAX_BODY_BYTES must be positive")
	}
	return nil
}

// parser keeps the first parse error so FromEnv reads linearly.
type parser struct {
	err error
}

func (p *parser) lookup(key string) (string, bool) {
	v, ok := os.LookupEnv(key)
	v = strings.TrimSpace(v)
	return v, ok && v != ""
}

func (p *parser) str(key, def string) string {
	if v, ok := p.lookup(key); ok {
		return v
	}
	return def
}

func (p *parser) int(key string, def int) int {
	v, ok := p.lookup(key)
	if !ok {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		p.fail(key, v, err)
		return def
	}
	return n
}

func (p *parser) int64(key string, def int64) int64 {
	v, ok := p.lookup(key)
	if !ok {
		return def
	}
	n, err := strconv.ParseInt(v, 10, 64)
	if err != nil {
		p.fail(key, v, err)
		return def
	}
	return n
}

func (p *parser) float(key string, def float64) float64 {
	v, ok := p.lookup(key)
	if !ok {
		return def
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		p.fail(key, v, err)
		return def
	}
	return f
}

func (p *parser) duration(key string, def time.Duration) time.Duration {
	v, ok := p.lookup(key)
	if !ok {
		return def
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		p.fail(key, v, err)
		return def
	}
	return d
}

func (p *parser) fail(key, value string, err error) {
	if p.err == nil {
		p.err = fmt.Errorf("invalid %s=%q: %w", key, value, err)
	}
}
