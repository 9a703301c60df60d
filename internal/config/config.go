package config

import (
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	Env            string        `mapstructure:"ENV"`
	Port           string        `mapstructure:"PORT"`
	DatabaseURL    string        `mapstructure:"DATABASE_URL"`
	AdminKey       string        `mapstructure:"ADMIN_KEY"`
	NotifyURL      string        `mapstructure:"NOTIFY_URL"`
	CORSAllowed    string        `mapstructure:"CORS_ALLOWED_ORIGINS"`
	RequestTimeout time.Duration `mapstructure:"REQUEST_TIMEOUT"`
	LogLevel       string        `mapstructure:"LOG_LEVEL"`

	// Protocol constants. Defaults match the documented engine contract;
	// override only with a matching change on the supervisor side.
	MatchThreshold float64       `mapstructure:"MATCH_THRESHOLD"`
	UrgentTimeout  time.Duration `mapstructure:"URGENT_TIMEOUT"`
	DefaultTimeout time.Duration `mapstructure:"DEFAULT_TIMEOUT"`
	SweepInterval  time.Duration `mapstructure:"SWEEP_INTERVAL"`
}

func Load() (Config, error) {
	v := viper.New()
	v.SetConfigFile(".env")
	v.SetConfigType("env")
	v.AutomaticEnv()
	_ = v.ReadInConfig()

	v.SetDefault("ENV", "dev")
	v.SetDefault("PORT", "8001")
	v.SetDefault("REQUEST_TIMEOUT", "30s")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("CORS_ALLOWED_ORIGINS", "*")
	v.SetDefault("MATCH_THRESHOLD", 0.7)
	v.SetDefault("URGENT_TIMEOUT", "1h")
	v.SetDefault("DEFAULT_TIMEOUT", "4h")
	v.SetDefault("SWEEP_INTERVAL", "10m")

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}
