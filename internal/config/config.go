package config

import (
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"github.com/stefanorainone/sales-management/internal/llm"
)

const envPrefix = "SALES"

var validate = validator.New(validator.WithRequiredStructEnabled())

type Config struct {
	Env      string         `mapstructure:"env" validate:"oneof=development production test"`
	HTTP     HTTPConfig     `mapstructure:"http"`
	Database DatabaseConfig `mapstructure:"database"`
	Storage  StorageConfig  `mapstructure:"storage"`
	Redis    RedisConfig    `mapstructure:"redis"`
	Log      LogConfig      `mapstructure:"log"`
	LLM      LLMSection     `mapstructure:"llm"`
	DemoMode bool           `mapstructure:"demoMode"`
}

type HTTPConfig struct {
	Addr string `mapstructure:"addr" validate:"required"`
}

type DatabaseConfig struct {
	Path string `mapstructure:"path" validate:"required"`
}

type StorageConfig struct {
	Dir     string `mapstructure:"dir" validate:"required"`
	BaseURL string `mapstructure:"baseURL" validate:"required"`
}

// RedisConfig is optional. An empty URL selects the in-process locker.
type RedisConfig struct {
	URL string `mapstructure:"url" validate:"omitempty,url"`
}

type LogConfig struct {
	Level  string `mapstructure:"level" validate:"oneof=debug info warn error"`
	Format string `mapstructure:"format" validate:"oneof=auto text json"`
}

type LLMSection struct {
	Provider   string `mapstructure:"provider" validate:"oneof=mock ollama openai gemini"`
	Model      string `mapstructure:"model"`
	Endpoint   string `mapstructure:"endpoint"`
	APIKey     string `mapstructure:"apiKey"`
	TimeoutMs  int    `mapstructure:"timeoutMs" validate:"gt=0"`
	MaxRetries int    `mapstructure:"maxRetries" validate:"gte=0,lte=5"`
	LogCalls   bool   `mapstructure:"logCalls"`
}

func setDefaults(v *viper.Viper) {
	llmDefaults := llm.DefaultConfig()
	v.SetDefault("env", "development")
	v.SetDefault("http.addr", ":8080")
	v.SetDefault("database.path", "salescoach.db")
	v.SetDefault("storage.dir", "attachments")
	v.SetDefault("storage.baseURL", "/files")
	v.SetDefault("redis.url", "")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "auto")
	v.SetDefault("llm.provider", string(llmDefaults.Provider))
	v.SetDefault("llm.model", llmDefaults.Model)
	v.SetDefault("llm.endpoint", llmDefaults.Endpoint)
	v.SetDefault("llm.apiKey", "")
	v.SetDefault("llm.timeoutMs", llmDefaults.TimeoutMs)
	v.SetDefault("llm.maxRetries", llmDefaults.MaxRetries)
	v.SetDefault("llm.logCalls", llmDefaults.LogCalls)
	v.SetDefault("demoMode", false)
}

// Load reads .env (if present), SALES_* environment variables and the given
// flags, in increasing order of precedence. flags may be nil.
func Load(flags *pflag.FlagSet) (*Config, error) {
	// A missing .env file is fine.
	_ = godotenv.Load()

	v := viper.New()
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	setDefaults(v)
	for key, env := range envAliases {
		if err := v.BindEnv(key, env); err != nil {
			return nil, fmt.Errorf("binding %s: %w", env, err)
		}
	}

	if flags != nil {
		if err := bindFlags(v, flags); err != nil {
			return nil, err
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decoding config: %w", err)
	}
	if err := validate.Struct(&cfg); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return &cfg, nil
}

// envAliases names the variables of camelCase keys, which AutomaticEnv
// would otherwise expect without a separator.
var envAliases = map[string]string{
	"demoMode":        "SALES_DEMO_MODE",
	"storage.baseURL": "SALES_STORAGE_BASE_URL",
	"llm.apiKey":      "SALES_LLM_API_KEY",
	"llm.timeoutMs":   "SALES_LLM_TIMEOUT_MS",
	"llm.maxRetries":  "SALES_LLM_MAX_RETRIES",
	"llm.logCalls":    "SALES_LLM_LOG_CALLS",
}

// flagKeys maps CLI flag names onto config keys.
var flagKeys = map[string]string{
	"addr":         "http.addr",
	"db":           "database.path",
	"storage-dir":  "storage.dir",
	"redis-url":    "redis.url",
	"log-level":    "log.level",
	"log-format":   "log.format",
	"llm-provider": "llm.provider",
	"demo":         "demoMode",
}

func bindFlags(v *viper.Viper, flags *pflag.FlagSet) error {
	for name, key := range flagKeys {
		f := flags.Lookup(name)
		if f == nil {
			continue
		}
		if err := v.BindPFlag(key, f); err != nil {
			return fmt.Errorf("binding flag %s: %w", name, err)
		}
	}
	return nil
}

// LLMConfig converts the llm section into the client configuration.
// Demo mode forces the mock provider.
func (c *Config) LLMConfig() llm.LLMConfig {
	out := llm.DefaultConfig()
	out.Provider = llm.Provider(c.LLM.Provider)
	if c.DemoMode {
		out.Provider = llm.ProviderMock
	}
	out.Model = c.LLM.Model
	out.Endpoint = c.LLM.Endpoint
	out.APIKey = c.LLM.APIKey
	out.TimeoutMs = c.LLM.TimeoutMs
	out.MaxRetries = c.LLM.MaxRetries
	out.LogCalls = c.LLM.LogCalls
	return out
}
