package config

import (
	"os"
	"path/filepath"
	"strings"
	"time"
	"unicode"

	"github.com/go-viper/mapstructure/v2"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env/v2"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
	"github.com/pkg/errors"
)

const (
	defaultPath         = "."
	defaultSyncInterval = 5 * time.Minute
	defaultSyncTimeout  = 15 * time.Second
	defaultCachePath    = "marketpin.db"
)

type Config struct {
	Env struct {
		Env         string `json:"env" yaml:"env"`
		ServiceName string `json:"serviceName" yaml:"serviceName"`
		Debug       bool   `json:"debug" yaml:"debug"`
		Log         Log    `json:"log" yaml:"log"`
	} `json:"env" yaml:"env"`

	HTTP struct {
		Port     int `json:"port" yaml:"port"`
		Timeouts struct {
			ReadTimeout       time.Duration `json:"readTimeout" yaml:"readTimeout"`
			ReadHeaderTimeout time.Duration `json:"readHeaderTimeout" yaml:"readHeaderTimeout"`
			WriteTimeout      time.Duration `json:"writeTimeout" yaml:"writeTimeout"`
			IdleTimeout       time.Duration `json:"idleTimeout" yaml:"idleTimeout"`
		} `json:"timeouts" yaml:"timeouts"`
	} `json:"http" yaml:"http"`

	// Cache configures the on-device SQLite store.
	Cache struct {
		Path string `json:"path" yaml:"path"`
	} `json:"cache" yaml:"cache"`

	// Directory configures access to the remote authority.
	Directory *DirectoryConfig `json:"directory" yaml:"directory"`

	// Sync configures the reconciliation loop.
	Sync SyncConfig `json:"sync" yaml:"sync"`

	// Session configures where the UI layer leaves the signed-in ID token.
	Session *SessionConfig `json:"session" yaml:"session"`

	// Storage configures photo uploads.
	Storage *StorageConfig `json:"storage" yaml:"storage"`

	// PubSub configures submission event publishing.
	PubSub *PubSubConfig `json:"pubsub" yaml:"pubsub"`

	// ShareCode configures market share QR generation.
	ShareCode *ShareCodeConfig `json:"shareCode" yaml:"shareCode"`
}

type Log struct {
	Pretty bool   `json:"pretty" yaml:"pretty"`
	Level  string `json:"level" yaml:"level"`
}

// DirectoryConfig defines the remote document store endpoints.
type DirectoryConfig struct {
	// DatabaseURL is the realtime-database root, e.g.
	// https://example-app-default-rtdb.firebaseio.com
	DatabaseURL string `json:"databaseUrl" yaml:"databaseUrl"`

	// CredentialsPath points at the service credentials file. Optional: the
	// public read paths work unauthenticated.
	CredentialsPath string `json:"credentialsPath" yaml:"credentialsPath"`

	// ProbeURL is what the connectivity checker pings. Defaults to DatabaseURL.
	ProbeURL string `json:"probeUrl" yaml:"probeUrl"`
}

// SyncConfig defines reconciliation loop behavior.
type SyncConfig struct {
	// Interval between background reconciliation passes.
	Interval time.Duration `json:"interval" yaml:"interval"`

	// Timeout bounds the remote fetches of a single pass; expiry is a
	// recoverable network failure, not a crash.
	Timeout time.Duration `json:"timeout" yaml:"timeout"`

	// ConnectivityTTL caches the last probe result to avoid pinging on every
	// read path.
	ConnectivityTTL time.Duration `json:"connectivityTtl" yaml:"connectivityTtl"`
}

// SessionConfig defines where the stored ID token lives.
type SessionConfig struct {
	TokenPath string `json:"tokenPath" yaml:"tokenPath"`
}

// StorageConfig defines the photo upload bucket.
type StorageConfig struct {
	// BucketURL in gocloud form, e.g. "gs://example-app.firebasestorage.app"
	// or "file:///tmp/marketpin-photos" for development.
	BucketURL string `json:"bucketUrl" yaml:"bucketUrl"`

	// PublicBaseURL prefixes object names to form the download URL.
	PublicBaseURL string `json:"publicBaseUrl" yaml:"publicBaseUrl"`
}

// PubSubConfig defines Pub/Sub configuration for event publishing.
type PubSubConfig struct {
	// Provider type: "local" for local HTTP or "google" for Google Pub/Sub.
	Provider string `json:"provider" yaml:"provider"`

	// Google Cloud project ID (for google provider).
	ProjectID string `json:"projectId" yaml:"projectId"`

	// Pub/Sub topic ID (for google provider).
	TopicID string `json:"topicId" yaml:"topicId"`

	// Local HTTP endpoint for development (for local provider).
	LocalEndpoint string `json:"localEndpoint" yaml:"localEndpoint"`
}

// ShareCodeConfig defines share-code generation configuration.
type ShareCodeConfig struct {
	Size                 int    `json:"size" yaml:"size"`
	ErrorCorrectionLevel string `json:"errorCorrectionLevel" yaml:"errorCorrectionLevel"`
}

// LoadWithEnv loads .yaml files through koanf, then applies environment
// variable overrides.
func LoadWithEnv[T any](currEnv string, configPath ...string) (*T, error) {
	cfg := new(T)
	koanfInstance := koanf.New(".")

	// Build list of paths to search for config file
	searchPaths := []string{defaultPath}
	if len(configPath) != 0 {
		pwd, err := os.Getwd()
		if err != nil {
			return nil, errors.Wrap(err, "os.Getwd")
		}
		for _, path := range configPath {
			searchPaths = append(searchPaths, filepath.Join(pwd, path))
		}
	}

	var configFile string
	var found bool
	for _, path := range searchPaths {
		candidate := filepath.Join(path, currEnv+".yaml")
		if _, err := os.Stat(candidate); err == nil {
			configFile = candidate
			found = true

			break
		}
	}

	if !found {
		return nil, errors.Errorf("config file %s.yaml not found in any search path", currEnv)
	}

	if err := koanfInstance.Load(file.Provider(configFile), yaml.Parser()); err != nil {
		return nil, errors.Wrapf(err, "read %s config failed", currEnv)
	}

	existingConfigMap := koanfInstance.Raw()

	if err := koanfInstance.Load(env.Provider(".", env.Opt{
		TransformFunc: func(k, v string) (string, any) {
			// Convert ENV_VAR_NAME to a path and align each segment with
			// existing YAML keys.
			// Example: DIRECTORY_DATABASEURL -> directory.databaseUrl
			return canonicalizeEnvKey(k, existingConfigMap), v
		},
	}), nil); err != nil {
		return nil, errors.Wrap(err, "load env variables failed")
	}

	if err := koanfInstance.UnmarshalWithConf("", cfg, koanf.UnmarshalConf{
		DecoderConfig: &mapstructure.DecoderConfig{
			Result:           cfg,
			WeaklyTypedInput: true,
			DecodeHook: mapstructure.ComposeDecodeHookFunc(
				mapstructure.StringToTimeDurationHookFunc(),
			),
			MatchName: func(mapKey, fieldName string) bool {
				// Case-insensitive matching for env var overrides
				return strings.EqualFold(mapKey, fieldName)
			},
		},
	}); err != nil {
		return nil, errors.Wrapf(err, "unmarshal %s config failed", currEnv)
	}

	return cfg, nil
}

func New() (*Config, error) {
	cfg, err := LoadWithEnv[Config]("config", "config", "../config", "../../config")
	if err != nil {
		return nil, err
	}

	if cfg.Directory == nil || cfg.Directory.DatabaseURL == "" {
		return nil, errors.New("directory.databaseUrl must be configured")
	}
	if cfg.Directory.ProbeURL == "" {
		cfg.Directory.ProbeURL = cfg.Directory.DatabaseURL
	}
	if strings.TrimSpace(cfg.Cache.Path) == "" {
		cfg.Cache.Path = defaultCachePath
	}
	if cfg.Sync.Interval <= 0 {
		cfg.Sync.Interval = defaultSyncInterval
	}
	if cfg.Sync.Timeout <= 0 {
		cfg.Sync.Timeout = defaultSyncTimeout
	}

	return cfg, nil
}

func canonicalizeEnvKey(rawKey string, existing map[string]any) string {
	segments := strings.Split(strings.ToLower(rawKey), "_")
	canonical := make([]string, 0, len(segments))
	current := existing

	for _, segment := range segments {
		if segment == "" {
			continue
		}

		if matched, next, ok := findExistingSegment(current, segment); ok {
			canonical = append(canonical, matched)
			current = next
		} else {
			canonical = append(canonical, segment)
			current = nil
		}
	}

	return strings.Join(canonical, ".")
}

func findExistingSegment(current map[string]any, segment string) (matched string, next map[string]any, ok bool) {
	if len(current) == 0 {
		return "", nil, false
	}

	needle := normalizeToken(segment)
	for key, value := range current {
		if normalizeToken(key) != needle {
			continue
		}

		child, _ := value.(map[string]any)

		return key, child, true
	}

	return "", nil, false
}

func normalizeToken(s string) string {
	var normalized strings.Builder
	normalized.Grow(len(s))

	for _, r := range s {
		if !unicode.IsLetter(r) && !unicode.IsDigit(r) {
			continue
		}
		normalized.WriteRune(unicode.ToLower(r))
	}

	return normalized.String()
}
