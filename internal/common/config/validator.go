package config

import (
	"fmt"
	"strings"
)

// ValidationError lists every problem found in a configuration.
type ValidationError struct {
	Problems []string
}

func (e *ValidationError) Error() string {
	var sb strings.Builder
	sb.WriteString("invalid configuration:")
	for _, p := range e.Problems {
		sb.WriteString("\n--> ")
		sb.WriteString(p)
	}
	return sb.String()
}

// Validate checks the settings the server cannot start without.
func Validate(cfg *APIServerConfig) error {
	var problems []string

	switch cfg.Database.Type {
	case "sqlite", "postgres", "mysql":
	default:
		problems = append(problems, fmt.Sprintf("unsupported database type %q", cfg.Database.Type))
	}
	if cfg.Storage.Type != "disk" {
		problems = append(problems, fmt.Sprintf("unsupported storage type %q", cfg.Storage.Type))
	}
	switch cfg.EmailLog.Type {
	case "memory":
	case "redis":
		if cfg.EmailLog.Redis.Addr == "" {
			problems = append(problems, "email_log.redis.addr is required when email_log.type is redis")
		}
	default:
		problems = append(problems, fmt.Sprintf("unsupported email_log type %q", cfg.EmailLog.Type))
	}
	if cfg.Slides.MinSlides < 2 || cfg.Slides.MaxSlides > 100 || cfg.Slides.MinSlides > cfg.Slides.MaxSlides {
		problems = append(problems, fmt.Sprintf("slides bounds must satisfy 2 <= min <= max <= 100, got %d..%d",
			cfg.Slides.MinSlides, cfg.Slides.MaxSlides))
	}
	if cfg.Tracing.Enabled {
		switch cfg.Tracing.Protocol {
		case "", "grpc", "http":
		default:
			problems = append(problems, fmt.Sprintf("unsupported tracing protocol %q", cfg.Tracing.Protocol))
		}
	}

	if len(problems) > 0 {
		return &ValidationError{Problems: problems}
	}
	return nil
}
