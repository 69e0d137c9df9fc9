package config

import (
	"os"
	"strings"
	"time"
)

// Server captures process-level configuration.
type Server struct {
	Addr string

	// DatabaseURL selects the postgres ledger when set; empty runs the
	// in-memory ledger (development and tests).
	DatabaseURL string

	// KafkaBrokers selects the Kafka event publisher when non-empty.
	KafkaBrokers []string
	KafkaTopic   string

	JWTSigningKey string
	JWTIssuer     string
	JWTAudience   string

	// AttestationMode is "permissive" (accept any non-empty payload, the
	// reference behavior) or "strict" (require a verifiable ed25519 binding).
	AttestationMode string

	ShutdownTimeout time.Duration
}

// FromEnv builds a Server config from environment variables so main stays lean.
func FromEnv() Server {
	addr := os.Getenv("MOSTOKEY_ADDR")
	if addr == "" {
		addr = ":8080"
	}

	topic := os.Getenv("MOSTOKEY_KAFKA_TOPIC")
	if topic == "" {
		topic = "mostokey.rights.events"
	}

	var brokers []string
	if raw := os.Getenv("MOSTOKEY_KAFKA_BROKERS"); raw != "" {
		for _, b := range strings.Split(raw, ",") {
			if b = strings.TrimSpace(b); b != "" {
				brokers = append(brokers, b)
			}
		}
	}

	signingKey := os.Getenv("MOSTOKEY_JWT_SIGNING_KEY")
	if signingKey == "" {
		// Development default - must be overridden in production.
		signingKey = "dev-secret-key-change-in-production"
	}

	mode := os.Getenv("MOSTOKEY_ATTESTATION_VERIFY")
	if mode == "" {
		mode = "permissive"
	}

	return Server{
		Addr:            addr,
		DatabaseURL:     os.Getenv("DATABASE_URL"),
		KafkaBrokers:    brokers,
		KafkaTopic:      topic,
		JWTSigningKey:   signingKey,
		JWTIssuer:       "mostokey",
		JWTAudience:     "mostokey-api",
		AttestationMode: mode,
		ShutdownTimeout: 10 * time.Second,
	}
}
