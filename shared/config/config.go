package config

import (
	"crypto/sha256"
	"fmt"
	"io"
	"os"
	"path"
	"strconv"
	"time"
	_ "time/tzdata"

	"github.com/joho/godotenv"
	"github.com/tastelink/tastelink/shared/utils"
	"golang.org/x/crypto/hkdf"
	"gopkg.in/yaml.v2"
)

type Config struct {
	Public  Public
	Private Private
}

type Public struct {
	Store    Store    `yaml:"store" validate:"required"`
	Listing  Listing  `yaml:"listing" validate:"required"`
	Map      Map      `yaml:"map" validate:"required"`
	Timezone string   `yaml:"timezone" validate:"required"`
	Log      Log      `yaml:"log"`
	Server   Server   `yaml:"server" validate:"required"`
	Security Security `yaml:"security"`

	// SeedOnStart creates the demo posts when the remote store is empty.
	SeedOnStart bool `yaml:"seed_on_start"`
}

type Store struct {
	BaseURL string        `yaml:"base_url" validate:"required,url"`
	Timeout time.Duration `yaml:"timeout" validate:"required"`
	RPS     float64       `yaml:"rps" validate:"gt=0"`
	Burst   int           `yaml:"burst" validate:"gte=1"`
}

type Listing struct {
	PageSize             int           `yaml:"page_size" validate:"gte=1"`
	DefaultCapacity      int           `yaml:"default_capacity" validate:"gte=1"` // card fallback when no capacity field resolves
	CacheTTL             time.Duration `yaml:"cache_ttl" validate:"required"`
	CacheRefreshInterval time.Duration `yaml:"cache_refresh_interval" validate:"required"`
}

type Map struct {
	KakaoBaseURL   string  `yaml:"kakao_base_url" validate:"required,url"`
	DefaultLat     float64 `yaml:"default_lat" validate:"gte=-90,lte=90"`
	DefaultLng     float64 `yaml:"default_lng" validate:"gte=-180,lte=180"`
	DefaultRadius  int     `yaml:"default_radius" validate:"gte=1,lte=20000"`
	DefaultKeyword string  `yaml:"default_keyword" validate:"required"`
}

type Log struct {
	Level string `yaml:"level"`
	JSON  bool   `yaml:"json"`
}

type Server struct {
	Port           string        `yaml:"port" validate:"required"`
	ReadTimeout    time.Duration `yaml:"read_timeout" validate:"required"`
	WriteTimeout   time.Duration `yaml:"write_timeout" validate:"required"`
	TemplatesPath  string        `yaml:"templates_path" validate:"required"`
	StaticPath     string        `yaml:"static_path" validate:"required"`
	AllowedOrigins []string      `yaml:"allowed_origins"`
}

type Security struct {
	SecureCookies bool `yaml:"secure_cookies"`

	// Mutations (join/cancel/like/review/create) allowed per client per second.
	MutationRPS   float64 `yaml:"mutation_rps"`
	MutationBurst int     `yaml:"mutation_burst"`
}

type Private struct {
	SessionSecret string `yaml:"session_secret" validate:"required,min=16"`
	KakaoRestKey  string `yaml:"kakao_rest_key"`
	KakaoJSKey    string `yaml:"kakao_js_key"`
}

// Location returns the configured time zone, falling back to UTC.
func (p Public) Location() *time.Location {
	loc, err := time.LoadLocation(p.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}

// SessionKey derives the cookie signing key from the session secret.
func (c *Config) SessionKey() []byte {
	return c.deriveKey("tastelink session v1")
}

func (c *Config) deriveKey(info string) []byte {
	r := hkdf.New(sha256.New, []byte(c.Private.SessionSecret), nil, []byte(info))
	key := make([]byte, 32)
	if _, err := io.ReadFull(r, key); err != nil {
		panic("can't derive key: " + err.Error())
	}
	return key
}

func mustLoadPath(configPath string, output interface{}) {
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		panic("config file does not exist: " + configPath)
	}
	configFile, err := os.ReadFile(configPath)
	if err != nil {
		panic("can't read config file")
	}

	if err := yaml.Unmarshal(configFile, output); err != nil {
		panic(fmt.Sprintf("can't unmarshal config file %s: %v", configPath, err))
	}
}

// applyEnv lets secrets and deployment knobs come from the environment
// (or a .env file next to the binary) instead of private.yaml.
func applyEnv(cfg *Config) {
	_ = godotenv.Load()

	if v := os.Getenv("TL_SESSION_SECRET"); v != "" {
		cfg.Private.SessionSecret = v
	}
	if v := os.Getenv("KAKAO_REST_KEY"); v != "" {
		cfg.Private.KakaoRestKey = v
	}
	if v := os.Getenv("KAKAO_JS_KEY"); v != "" {
		cfg.Private.KakaoJSKey = v
	}
	if v := os.Getenv("TL_STORE_BASE_URL"); v != "" {
		cfg.Public.Store.BaseURL = v
	}
	if v := os.Getenv("PORT"); v != "" {
		cfg.Public.Server.Port = v
	}
	if v := os.Getenv("TL_SECURE_COOKIES"); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			cfg.Public.Security.SecureCookies = b
		}
	}
}

// MustLoad reads public.yaml and private.yaml from configFolder, applies
// environment overrides and panics when the result is invalid.
// private.yaml may be absent when every secret comes from the environment.
func MustLoad(configFolder string) *Config {
	var public Public
	mustLoadPath(path.Join(configFolder, "public.yaml"), &public)

	var private Private
	privatePath := path.Join(configFolder, "private.yaml")
	if _, err := os.Stat(privatePath); err == nil {
		mustLoadPath(privatePath, &private)
	}

	cfg := &Config{Public: public, Private: private}
	applyEnv(cfg)

	if err := utils.Validator().Struct(cfg); err != nil {
		panic("invalid config: " + err.Error())
	}
	return cfg
}
