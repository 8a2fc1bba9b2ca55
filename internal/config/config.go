// Package config carga la configuración del servicio: archivo YAML opcional,
// luego variables de entorno (mismos nombres que usaba el MVP) encima.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

const (
	StorageMemory   = "memory"
	StoragePostgres = "postgres"
	StorageSQLite   = "sqlite"

	BlobFS     = "fs"
	BlobS3     = "s3"
	BlobMemory = "memory"

	AuthDev    = "dev"
	AuthJWT    = "jwt"
	AuthRemote = "remote"

	DeletionStrict     = "strict"
	DeletionPermissive = "permissive"
)

// DefaultMaxUploadBytes es el límite de adjuntos de registros de salud (5 MiB).
const DefaultMaxUploadBytes int64 = 5 << 20

type Config struct {
	HTTP          HTTP          `yaml:"http"`
	Log           Log           `yaml:"log"`
	Storage       Storage       `yaml:"storage"`
	Blob          Blob          `yaml:"blob"`
	Auth          Auth          `yaml:"auth"`
	HealthRecords HealthRecords `yaml:"health_records"`
}

type HTTP struct {
	Addr            string        `yaml:"addr"`
	ReadTimeout     time.Duration `yaml:"read_timeout"`
	WriteTimeout    time.Duration `yaml:"write_timeout"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`
}

type Log struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
	App    string `yaml:"app"`
}

type Storage struct {
	Driver string `yaml:"driver"`
	DSN    string `yaml:"dsn"`
}

type Blob struct {
	Driver         string `yaml:"driver"`
	FSRoot         string `yaml:"fs_root"`
	MaxUploadBytes int64  `yaml:"max_upload_bytes"`
	S3             S3     `yaml:"s3"`
}

type S3 struct {
	Bucket          string `yaml:"bucket"`
	Region          string `yaml:"region"`
	Endpoint        string `yaml:"endpoint"`
	AccessKeyID     string `yaml:"access_key_id"`
	SecretAccessKey string `yaml:"secret_access_key"`
	PathStyle       bool   `yaml:"path_style"`
}

type Auth struct {
	Mode   string     `yaml:"mode"`
	JWT    JWTAuth    `yaml:"jwt"`
	Remote RemoteAuth `yaml:"remote"`
}

type JWTAuth struct {
	Secret string `yaml:"secret"`
	Issuer string `yaml:"issuer"`
}

type RemoteAuth struct {
	BaseURL string        `yaml:"base_url"`
	APIKey  string        `yaml:"api_key"`
	Timeout time.Duration `yaml:"timeout"`
}

type HealthRecords struct {
	DeletionRule string `yaml:"deletion_rule"`
}

func Default() Config {
	return Config{
		HTTP: HTTP{
			Addr:            ":8080",
			ReadTimeout:     5 * time.Second,
			WriteTimeout:    10 * time.Second,
			ShutdownTimeout: 10 * time.Second,
		},
		Log:     Log{Level: "info", Format: "text", App: "pet-care-manager"},
		Storage: Storage{Driver: StorageMemory},
		Blob: Blob{
			Driver:         BlobFS,
			FSRoot:         "./data/uploads",
			MaxUploadBytes: DefaultMaxUploadBytes,
			S3:             S3{Region: "us-east-1"},
		},
		Auth:          Auth{Mode: AuthDev, Remote: RemoteAuth{Timeout: 5 * time.Second}},
		HealthRecords: HealthRecords{DeletionRule: DeletionStrict},
	}
}

// Load arma la config: defaults, luego path (si no está vacío), luego env.
func Load(path string) (Config, error) {
	cfg := Default()

	if strings.TrimSpace(path) != "" {
		raw, err := os.ReadFile(path)
		if err != nil {
			return Config{}, fmt.Errorf("config: read %s: %w", path, err)
		}
		if err := yaml.Unmarshal(raw, &cfg); err != nil {
			return Config{}, fmt.Errorf("config: parse %s: %w", path, err)
		}
	}

	if err := cfg.applyEnv(os.LookupEnv); err != nil {
		return Config{}, err
	}
	cfg.normalize()

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

type lookupFunc func(string) (string, bool)

func (c *Config) applyEnv(lookup lookupFunc) error {
	str := func(key string, dst *string) {
		if v, ok := lookup(key); ok && strings.TrimSpace(v) != "" {
			*dst = strings.TrimSpace(v)
		}
	}

	if v, ok := lookup("PORT"); ok && strings.TrimSpace(v) != "" {
		c.HTTP.Addr = ":" + strings.TrimPrefix(strings.TrimSpace(v), ":")
	}
	str("LOG_LEVEL", &c.Log.Level)
	str("LOG_FORMAT", &c.Log.Format)
	str("APP_NAME", &c.Log.App)

	// DB_DSN sin driver explícito implica postgres (comportamiento del MVP).
	if v, ok := lookup("DB_DSN"); ok && strings.TrimSpace(v) != "" {
		c.Storage.DSN = strings.TrimSpace(v)
		if _, set := lookup("STORAGE_DRIVER"); !set && c.Storage.Driver == StorageMemory {
			c.Storage.Driver = StoragePostgres
		}
	}
	str("STORAGE_DRIVER", &c.Storage.Driver)

	str("BLOB_DRIVER", &c.Blob.Driver)
	str("BLOB_FS_ROOT", &c.Blob.FSRoot)
	str("BLOB_S3_BUCKET", &c.Blob.S3.Bucket)
	str("BLOB_S3_REGION", &c.Blob.S3.Region)
	str("BLOB_S3_ENDPOINT", &c.Blob.S3.Endpoint)
	if v, ok := lookup("BLOB_S3_PATH_STYLE"); ok && strings.TrimSpace(v) != "" {
		b, err := strconv.ParseBool(strings.TrimSpace(v))
		if err != nil {
			return fmt.Errorf("config: BLOB_S3_PATH_STYLE: %w", err)
		}
		c.Blob.S3.PathStyle = b
	}
	if v, ok := lookup("BLOB_MAX_UPLOAD_BYTES"); ok && strings.TrimSpace(v) != "" {
		n, err := strconv.ParseInt(strings.TrimSpace(v), 10, 64)
		if err != nil {
			return fmt.Errorf("config: BLOB_MAX_UPLOAD_BYTES: %w", err)
		}
		c.Blob.MaxUploadBytes = n
	}

	str("AUTH_MODE", &c.Auth.Mode)
	str("AUTH_JWT_SECRET", &c.Auth.JWT.Secret)
	str("AUTH_JWT_ISSUER", &c.Auth.JWT.Issuer)
	str("AUTH_REMOTE_BASE_URL", &c.Auth.Remote.BaseURL)
	str("AUTH_REMOTE_API_KEY", &c.Auth.Remote.APIKey)

	str("HEALTH_RECORDS_DELETION_RULE", &c.HealthRecords.DeletionRule)
	return nil
}

func (c *Config) normalize() {
	c.Storage.Driver = strings.ToLower(strings.TrimSpace(c.Storage.Driver))
	c.Blob.Driver = strings.ToLower(strings.TrimSpace(c.Blob.Driver))
	c.Auth.Mode = strings.ToLower(strings.TrimSpace(c.Auth.Mode))
	c.HealthRecords.DeletionRule = strings.ToLower(strings.TrimSpace(c.HealthRecords.DeletionRule))
	if c.HealthRecords.DeletionRule == "" {
		c.HealthRecords.DeletionRule = DeletionStrict
	}
	if c.Blob.MaxUploadBytes == 0 {
		c.Blob.MaxUploadBytes = DefaultMaxUploadBytes
	}
}

// Validate junta todos los problemas en un solo error.
func (c Config) Validate() error {
	var errs []error

	if strings.TrimSpace(c.HTTP.Addr) == "" {
		errs = append(errs, errors.New("http.addr is required"))
	}

	switch c.Storage.Driver {
	case StorageMemory:
	case StoragePostgres, StorageSQLite:
		if strings.TrimSpace(c.Storage.DSN) == "" {
			errs = append(errs, fmt.Errorf("storage.dsn is required for driver %q", c.Storage.Driver))
		}
	default:
		errs = append(errs, fmt.Errorf("storage.driver %q must be one of memory|postgres|sqlite", c.Storage.Driver))
	}

	switch c.Blob.Driver {
	case BlobFS, BlobMemory:
	case BlobS3:
		if strings.TrimSpace(c.Blob.S3.Bucket) == "" {
			errs = append(errs, errors.New("blob.s3.bucket is required for driver s3"))
		}
	default:
		errs = append(errs, fmt.Errorf("blob.driver %q must be one of fs|s3|memory", c.Blob.Driver))
	}
	if c.Blob.MaxUploadBytes < 0 {
		errs = append(errs, errors.New("blob.max_upload_bytes must be positive"))
	}

	switch c.Auth.Mode {
	case AuthDev:
	case AuthJWT:
		if len(c.Auth.JWT.Secret) < 16 {
			errs = append(errs, errors.New("auth.jwt.secret must have at least 16 bytes"))
		}
	case AuthRemote:
		if strings.TrimSpace(c.Auth.Remote.BaseURL) == "" || strings.TrimSpace(c.Auth.Remote.APIKey) == "" {
			errs = append(errs, errors.New("auth.remote.base_url and auth.remote.api_key are required for mode remote"))
		}
	default:
		errs = append(errs, fmt.Errorf("auth.mode %q must be one of dev|jwt|remote", c.Auth.Mode))
	}

	switch c.HealthRecords.DeletionRule {
	case DeletionStrict, DeletionPermissive:
	default:
		errs = append(errs, fmt.Errorf("health_records.deletion_rule %q must be strict|permissive", c.HealthRecords.DeletionRule))
	}

	if len(errs) == 0 {
		return nil
	}
	return fmt.Errorf("config: %w", errors.Join(errs...))
}
