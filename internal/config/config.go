package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

// FileName is the optional JSON config file looked up in the config dir.
const FileName = "battleship.cfg.json"

// Config is the typed view of the loaded settings.
type Config struct {
	LogLevel      string      `json:"logLevel" mapstructure:"logLevel"`
	Port          string      `json:"port" mapstructure:"port"`
	DBPath        string      `json:"dbPath" mapstructure:"dbPath"`
	ClientOrigin  string      `json:"clientOrigin" mapstructure:"clientOrigin"`
	CookieName    string      `json:"cookieName" mapstructure:"cookieName"`
	SecureCookies bool        `json:"secureCookies" mapstructure:"secureCookies"`
	JWT           JWTConfig   `json:"jwt" mapstructure:"jwt"`
	Daily         DailyConfig `json:"daily" mapstructure:"daily"`
	Game          GameConfig  `json:"game" mapstructure:"game"`
}

// JWTConfig holds token signing settings.
type JWTConfig struct {
	Secret      string `json:"secret" mapstructure:"secret"`
	ExpiresDays int    `json:"expiresDays" mapstructure:"expiresDays"`
}

// DailyConfig holds daily-field settings.
type DailyConfig struct {
	Salt string `json:"salt" mapstructure:"salt"`
}

// GameConfig holds board settings.
type GameConfig struct {
	FieldSize  int    `json:"fieldSize" mapstructure:"fieldSize"`
	LayoutFile string `json:"layoutFile" mapstructure:"layoutFile"`
}

// Load sets defaults, reads battleship.cfg.json from configDir if present and
// applies environment overrides (BATTLESHIP_<KEY>, dots become underscores).
// A missing config file is not an error.
func Load(configDir string) (Config, error) {
	viper.SetDefault("logLevel", "info")
	viper.SetDefault("port", "5175")
	viper.SetDefault("dbPath", "./data/battleship.db")
	viper.SetDefault("clientOrigin", "http://localhost:5173")
	viper.SetDefault("cookieName", "battleship_token")
	viper.SetDefault("secureCookies", false)

	viper.SetDefault("jwt.secret", "dev_secret_change_me")
	viper.SetDefault("jwt.expiresDays", 14)

	viper.SetDefault("daily.salt", "local_dev_salt")

	viper.SetDefault("game.fieldSize", 10)
	viper.SetDefault("game.layoutFile", "")

	viper.SetEnvPrefix("BATTLESHIP")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()
	// plain names kept from the .env files of earlier deployments
	_ = viper.BindEnv("port", "BATTLESHIP_PORT", "PORT")
	_ = viper.BindEnv("logLevel", "BATTLESHIP_LOGLEVEL", "LOG_LEVEL")
	_ = viper.BindEnv("jwt.secret", "BATTLESHIP_JWT_SECRET", "JWT_SECRET")

	viper.SetConfigName(FileName)
	viper.SetConfigType("json")
	if configDir != "" {
		viper.AddConfigPath(configDir)
	}

	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return Config{}, fmt.Errorf("error reading config file: %w", err)
		}
	}

	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("error decoding config: %w", err)
	}
	if cfg.Game.FieldSize < 1 {
		return Config{}, fmt.Errorf("game.fieldSize must be positive, got %d", cfg.Game.FieldSize)
	}
	return cfg, nil
}
