package enhancer

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/aretw0/rewind/internal/logging"
	"github.com/aretw0/rewind/pkg/domain"
	"github.com/mitchellh/mapstructure"
)

// Config holds the enhancer settings.
type Config struct {
	// InitialMessage labels the synthetic first entry of the log.
	InitialMessage string `json:"initialMessage" yaml:"initial_message" mapstructure:"initial_message"`
}

// DefaultConfig returns the configuration used when no option is given.
func DefaultConfig() Config {
	return Config{InitialMessage: ""}
}

// DecodeConfig builds a Config from a loosely typed option map, as found in
// JSON or YAML documents. Keys are matched ignoring case and underscores, so
// both "initialMessage" and "initial_message" are accepted. Unknown keys are
// ignored. If a known key has the wrong type the default configuration is
// returned along with an error wrapping domain.ErrInvalidConfig.
func DecodeConfig(raw map[string]any) (Config, error) {
	cfg := DefaultConfig()
	if len(raw) == 0 {
		return cfg, nil
	}

	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:      &cfg,
		TagName:     "mapstructure",
		ErrorUnused: false,
		MatchName: func(mapKey, fieldName string) bool {
			return normalizeKey(mapKey) == normalizeKey(fieldName)
		},
	})
	if err != nil {
		return DefaultConfig(), fmt.Errorf("%w: %v", domain.ErrInvalidConfig, err)
	}

	if err := decoder.Decode(raw); err != nil {
		return DefaultConfig(), fmt.Errorf("%w: %v", domain.ErrInvalidConfig, err)
	}
	return cfg, nil
}

func normalizeKey(key string) string {
	return strings.ToLower(strings.ReplaceAll(key, "_", ""))
}

type settings struct {
	config    Config
	logger    *slog.Logger
	decodeErr error
}

// Option configures an enhancer.
type Option func(*settings)

// WithInitialMessage sets the label of the synthetic first entry.
func WithInitialMessage(message string) Option {
	return func(s *settings) {
		s.config.InitialMessage = message
	}
}

// WithConfig replaces the whole configuration.
func WithConfig(cfg Config) Option {
	return func(s *settings) {
		s.config = cfg
	}
}

// WithOptions decodes a loose option map (see DecodeConfig).
// A malformed map is logged and leaves the default configuration in place.
func WithOptions(raw map[string]any) Option {
	return func(s *settings) {
		cfg, err := DecodeConfig(raw)
		s.config = cfg
		s.decodeErr = err
	}
}

// WithLogger sets the structured logger used for time-travel transitions.
func WithLogger(logger *slog.Logger) Option {
	return func(s *settings) {
		if logger != nil {
			s.logger = logger
		}
	}
}

func newSettings(opts ...Option) *settings {
	s := &settings{
		config: DefaultConfig(),
		logger: logging.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.decodeErr != nil {
		s.logger.Warn("Ignoring enhancer options, using defaults", "err", s.decodeErr)
	}
	return s
}
