package store

import (
	"fmt"
	"os"

	homedir "github.com/mitchellh/go-homedir"
	"github.com/spf13/viper"
)

// Config supplies the base path for on-disk storage.
type Config interface {
	BasePath() string
}

// LoadConfig resolves the storage path from, in order: a .cadence config
// file, CADENCE_* environment variables, and the built-in default.
func LoadConfig() (Config, error) {
	viper.SetDefault("path", "~/.cadence.db")
	viper.SetConfigName(".cadence") // .yaml is implicit
	viper.SetEnvPrefix("CADENCE")
	viper.AutomaticEnv()

	if override := os.Getenv("CADENCE_CONFIG_PATH"); override != "" {
		viper.AddConfigPath(override)
	}

	viper.AddConfigPath("./")
	viper.AddConfigPath("$HOME")

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("store: read config: %w", err)
		}
	}

	path, err := homedir.Expand(viper.GetString("path"))
	if err != nil {
		return nil, fmt.Errorf("store: expand path: %w", err)
	}

	return &fileConfig{Path: path}, nil
}

type fileConfig struct {
	Path string `json:"path"`
}

func (f *fileConfig) BasePath() string {
	return f.Path
}
