package config

import (
	"time"
)

type DB struct {
	Url string `envconfig:"URL"`
}

// Firebase holds the settings used to verify Firebase ID tokens.
type Firebase struct {
	ProjectID string `envconfig:"PROJECT_ID"`
	KeysURL   string `envconfig:"KEYS_URL" default:"https://www.googleapis.com/robot/v1/metadata/x509/securetoken@system.gserviceaccount.com"`
}

type Hmac struct {
	Secret string `envconfig:"SECRET"`
	Issuer string `envconfig:"ISSUER" default:"casevault-dev"`
}

type Auth struct {
	Strategy string    `envconfig:"STRATEGY" default:"firebase"`
	Firebase *Firebase `envconfig:"FIREBASE"`
	Hmac     *Hmac     `envconfig:"HMAC"`
}

// Identity configures the password sign-in provider used by the client.
type Identity struct {
	ApiKey      string        `envconfig:"API_KEY"`
	BaseURL     string        `envconfig:"BASE_URL" default:"https://identitytoolkit.googleapis.com"`
	HTTPTimeout time.Duration `envconfig:"HTTP_TIMEOUT" default:"10s"`
}

type Relay struct {
	URL     string        `envconfig:"URL" default:"http://localhost:5000/login"`
	Timeout time.Duration `envconfig:"TIMEOUT" default:"5s"`
}

type Redis struct {
	URL          string        `envconfig:"URL"`
	KeyPrefix    string        `envconfig:"KEY_PREFIX" default:"casevault:"`
	PoolSize     int           `envconfig:"POOL_SIZE" default:"10"`
	DialTimeout  time.Duration `envconfig:"DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"READ_TIMEOUT" default:"3s"`
	WriteTimeout time.Duration `envconfig:"WRITE_TIMEOUT" default:"3s"`
}

type DocumentCache struct {
	TTL    time.Duration `envconfig:"TTL" default:"5m"`
	Prefix string        `envconfig:"PREFIX" default:"doc:"`
}

type RateLimit struct {
	MaxRequests int           `envconfig:"MAX_REQUESTS" default:"100"`
	Window      time.Duration `envconfig:"WINDOW" default:"1m"`
}

type Log struct {
	Level      int    `envconfig:"LEVEL" default:"0"`
	Format     string `envconfig:"FORMAT" default:"text"`
	TimeFormat string `envconfig:"TIME_FORMAT" default:"2006-01-02 15:04:05"`
	Prefix     string `envconfig:"PREFIX" default:"[casevault]"`
}

type Server struct {
	Scheme string `envconfig:"SCHEME" default:"http"`
	Host   string `envconfig:"HOST" default:"localhost"`
	Port   int    `envconfig:"PORT" default:"5000"`
}

type App struct {
	Env           string         `envconfig:"APP_ENV" default:"development"`
	Server        *Server        `envconfig:"SERVER"`
	Log           *Log           `envconfig:"LOG"`
	DB            *DB            `envconfig:"DATABASE"`
	Auth          *Auth          `envconfig:"AUTH"`
	Identity      *Identity      `envconfig:"IDENTITY"`
	Relay         *Relay         `envconfig:"RELAY"`
	Redis         *Redis         `envconfig:"REDIS"`
	DocumentCache *DocumentCache `envconfig:"DOCUMENT_CACHE"`
	RateLimit     *RateLimit     `envconfig:"RATE_LIMIT"`
}
