package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/peterbourgon/ff/v4"
	"github.com/peterbourgon/ff/v4/ffhelp"
)

const (
	StoreCockroach = "cockroach"
	StoreSQLite    = "sqlite"
)

type Config struct {
	Store             string        `ff:"long: store, default: cockroach, usage: Store backend (cockroach or sqlite)"`
	CockroachURL      string        `ff:"long: cockroach-url, default: postgresql://root@127.0.0.1:26257/defaultdb?sslmode=disable, usage: URL for the CockroachDB database"`
	SQLitePath        string        `ff:"long: sqlite-path, default: casa.db, usage: Path to the SQLite database file"`
	Port              uint32        `ff:"long: port, short: p, default: 4444, usage: Port for the HTTP server"`
	MinioEndpoint     string        `ff:"long: minio-endpoint, default: localhost:9000, usage: MinIO endpoint"`
	MinioAccessKey    string        `ff:"long: minio-access-key, default: minioadmin, usage: MinIO access key"`
	MinioSecretKey    string        `ff:"long: minio-secret-key, default: minioadmin, usage: MinIO secret key"`
	MinioSecure       bool          `ff:"long: minio-secure, default: false, usage: Use secure connection to MinIO"`
	MinioPublicURL    string        `ff:"long: minio-public-url, usage: Public base URL for attachments (defaults to the MinIO endpoint)"`
	NatsURL           string        `ff:"long: nats-url, usage: NATS server URL (message events are not published when empty)"`
	BackgroundTimeout time.Duration `ff:"long: background-timeout, default: 15s, usage: Timeout for background operations"`
	RequestTimeout    time.Duration `ff:"long: request-timeout, default: 30s, usage: Timeout for each HTTP request"`
}

func Load() (Config, error) {
	_ = godotenv.Load()

	var cfg Config
	fs := ff.NewFlagSetFrom("casa", &cfg)
	err := ff.Parse(fs, os.Args[1:], ff.WithEnvVarPrefix("CASA"))
	if errors.Is(err, ff.ErrHelp) {
		fmt.Println(ffhelp.Flags(fs))
		os.Exit(0)
	}

	if err != nil {
		return cfg, err
	}

	return cfg, cfg.Validate()
}

func (cfg Config) Validate() error {
	if cfg.Store != StoreCockroach && cfg.Store != StoreSQLite {
		return fmt.Errorf("unknown store %q, want %s or %s", cfg.Store, StoreCockroach, StoreSQLite)
	}

	if cfg.RequestTimeout <= 0 {
		return errors.New("request timeout must be positive")
	}

	return nil
}
