package config

import (
	"os"
	"path/filepath"
	"strings"
	"time"
	"unicode"

	"github.com/go-viper/mapstructure/v2"
	"github.com/joho/godotenv"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env/v2"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
	"github.com/pkg/errors"
)

const (
	StorageMemory   = "memory"
	StoragePostgres = "postgres"

	defaultConfigName = "config.yaml"
	devSecret         = "dev_secret_change_me"
)

// Configはアプリ全体の設定
type Config struct {
	Env struct {
		Name  string `yaml:"name"`
		Debug bool   `yaml:"debug"`
		Log   Log    `yaml:"log"`
	} `yaml:"env"`

	HTTP struct {
		Port            int           `yaml:"port"`
		AllowOrigins    []string      `yaml:"allowOrigins"`
		ShutdownTimeout time.Duration `yaml:"shutdownTimeout"`
	} `yaml:"http"`

	Storage struct {
		// memory / postgres
		Driver string `yaml:"driver"`
	} `yaml:"storage"`

	Postgres Postgres `yaml:"postgres"`

	Auth struct {
		JWTSecret  string        `yaml:"jwtSecret"`
		AccessTTL  time.Duration `yaml:"accessTTL"`
		BcryptCost int           `yaml:"bcryptCost"`
	} `yaml:"auth"`

	Seed struct {
		Enabled bool `yaml:"enabled"`
		// 0なら起動時刻から決める
		RandSeed uint64 `yaml:"randSeed"`
	} `yaml:"seed"`
}

type Log struct {
	Pretty bool   `yaml:"pretty"`
	Level  string `yaml:"level"`
}

// URLがあればそれを優先
type Postgres struct {
	URL      string `yaml:"url"`
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	DBName   string `yaml:"dbName"`
	SSLMode  string `yaml:"sslMode"`
}

func Default() Config {
	var cfg Config
	cfg.Env.Name = "development"
	cfg.Env.Log = Log{Level: "info"}
	cfg.HTTP.Port = 8080
	cfg.HTTP.AllowOrigins = []string{"*"}
	cfg.HTTP.ShutdownTimeout = 10 * time.Second
	cfg.Storage.Driver = StorageMemory
	cfg.Postgres = Postgres{
		Host:     "localhost",
		Port:     5432,
		User:     "postgres",
		Password: "postgres",
		DBName:   "storefront",
		SSLMode:  "disable",
	}
	cfg.Auth.JWTSecret = devSecret
	cfg.Auth.AccessTTL = 24 * time.Hour
	cfg.Auth.BcryptCost = 10
	cfg.Seed.Enabled = true
	return cfg
}

// Loadは .env → config.yaml → 環境変数 の順に読み、後勝ちで上書きする
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, errors.Wrap(err, "load .env")
	}

	path := os.Getenv("CONFIG_FILE")
	if path == "" {
		path = findConfigFile(".", "..", "../..")
	}

	cfg, err := LoadFrom(path)
	if err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// pathが空ならyamlは読まずに既定値＋環境変数だけ
func LoadFrom(path string) (*Config, error) {
	k := koanf.New(".")

	if path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, errors.Wrapf(err, "read config %s", path)
		}
	}

	if err := k.Load(env.Provider(".", env.Opt{
		TransformFunc: func(key, value string) (string, any) {
			canonical, ok := canonicalizeEnvKey(key, knownKeys)
			if !ok {
				// 設定と関係ない環境変数は読まない
				return "", nil
			}
			if canonical == "http.allowOrigins" {
				return canonical, strings.Split(value, ",")
			}
			return canonical, value
		},
	}), nil); err != nil {
		return nil, errors.Wrap(err, "load env variables")
	}

	cfg := Default()
	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{
		Tag: "yaml",
		DecoderConfig: &mapstructure.DecoderConfig{
			Result:           &cfg,
			TagName:          "yaml",
			WeaklyTypedInput: true,
			DecodeHook: mapstructure.ComposeDecodeHookFunc(
				mapstructure.StringToTimeDurationHookFunc(),
				mapstructure.StringToSliceHookFunc(","),
			),
			MatchName: func(mapKey, fieldName string) bool {
				return strings.EqualFold(mapKey, fieldName)
			},
		},
	}); err != nil {
		return nil, errors.Wrap(err, "unmarshal config")
	}

	return &cfg, nil
}

func (c *Config) Validate() error {
	switch c.Storage.Driver {
	case StorageMemory, StoragePostgres:
	default:
		return errors.Errorf("unknown storage driver: %q", c.Storage.Driver)
	}
	if c.HTTP.Port <= 0 || c.HTTP.Port > 65535 {
		return errors.Errorf("invalid http port: %d", c.HTTP.Port)
	}
	if strings.TrimSpace(c.Auth.JWTSecret) == "" {
		return errors.New("auth.jwtSecret is required")
	}
	if c.IsProduction() && c.Auth.JWTSecret == devSecret {
		return errors.New("auth.jwtSecret must be set in production")
	}
	if c.Auth.AccessTTL <= 0 {
		return errors.New("auth.accessTTL must be positive")
	}
	return nil
}

func (c *Config) IsProduction() bool {
	return strings.EqualFold(c.Env.Name, "production")
}

func findConfigFile(dirs ...string) string {
	for _, dir := range dirs {
		candidate := filepath.Join(dir, defaultConfigName)
		if _, err := os.Stat(candidate); err == nil {
			return candidate
		}
	}
	return ""
}

// 環境変数で上書きできるキー
var knownKeys = map[string]any{
	"env": map[string]any{
		"name":  nil,
		"debug": nil,
		"log":   map[string]any{"pretty": nil, "level": nil},
	},
	"http": map[string]any{
		"port":            nil,
		"allowOrigins":    nil,
		"shutdownTimeout": nil,
	},
	"storage": map[string]any{"driver": nil},
	"postgres": map[string]any{
		"url":      nil,
		"host":     nil,
		"port":     nil,
		"user":     nil,
		"password": nil,
		"dbName":   nil,
		"sslMode":  nil,
	},
	"auth": map[string]any{
		"jwtSecret":  nil,
		"accessTTL":  nil,
		"bcryptCost": nil,
	},
	"seed": map[string]any{
		"enabled":  nil,
		"randSeed": nil,
	},
}

// POSTGRES_DBNAME / AUTH_JWT_SECRET -> postgres.dbName / auth.jwtSecret のように既知のキーに合わせる。
// 既知のキーの末端まで辿れなければ ok=false
func canonicalizeEnvKey(rawKey string, known map[string]any) (string, bool) {
	segments := make([]string, 0, 4)
	for _, seg := range strings.Split(strings.ToLower(rawKey), "_") {
		if seg != "" {
			segments = append(segments, seg)
		}
	}
	if len(segments) == 0 {
		return "", false
	}

	canonical := make([]string, 0, len(segments))
	current := known
	for i := 0; i < len(segments); {
		matched, next, used, ok := findExistingSegment(current, segments[i:])
		if !ok {
			return "", false
		}
		canonical = append(canonical, matched)
		i += used
		if next == nil {
			if i != len(segments) {
				return "", false
			}
			return strings.Join(canonical, "."), true
		}
		current = next
	}
	return "", false
}

// 先頭から何個のセグメントを繋げるとキーに一致するか（短い方を優先）
func findExistingSegment(current map[string]any, segments []string) (string, map[string]any, int, bool) {
	if len(current) == 0 {
		return "", nil, 0, false
	}
	needle := ""
	for n, segment := range segments {
		needle += normalizeToken(segment)
		for key, value := range current {
			if normalizeToken(key) != needle {
				continue
			}
			child, _ := value.(map[string]any)
			return key, child, n + 1, true
		}
	}
	return "", nil, 0, false
}

func normalizeToken(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if !unicode.IsLetter(r) && !unicode.IsDigit(r) {
			continue
		}
		b.WriteRune(unicode.ToLower(r))
	}
	return b.String()
}
