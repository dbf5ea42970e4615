package store

import (
	"log"
	"os"

	"github.com/mitchellh/go-homedir"
	"github.com/spf13/viper"
)

// Config is the resolved runtime configuration.
type Config interface {
	// BasePath is the root directory of the project library.
	BasePath() string
	// EnginePath is the playback engine binary, empty when none is configured.
	EnginePath() string
	// LogLevel is one of debug, info, warn or error.
	LogLevel() string
}

func LoadConfig() (Config, error) {
	viper.SetDefault("path", "~/.anthem")
	viper.SetDefault("engine", "")
	viper.SetDefault("log_level", "warn")
	viper.SetConfigName(".anthem") // .yaml is implicit
	viper.SetEnvPrefix("ANTHEM")
	viper.AutomaticEnv()

	if override := os.Getenv("ANTHEM_CONFIG_PATH"); override != "" {
		viper.AddConfigPath(override)
	}

	viper.AddConfigPath("./")
	viper.AddConfigPath("$HOME")

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			log.Printf("error reading config file: %v", err)
			return nil, err
		}
	}

	path, err := homedir.Expand(viper.GetString("path"))
	if err != nil {
		return nil, err
	}
	engine, err := homedir.Expand(viper.GetString("engine"))
	if err != nil {
		return nil, err
	}

	return &fileConfig{
		Path:   path,
		Engine: engine,
		Level:  viper.GetString("log_level"),
	}, nil
}

type fileConfig struct {
	Path   string `json:"path"`
	Engine string `json:"engine"`
	Level  string `json:"log_level"`
}

func (f *fileConfig) BasePath() string {
	return f.Path
}

func (f *fileConfig) EnginePath() string {
	return f.Engine
}

func (f *fileConfig) LogLevel() string {
	return f.Level
}
