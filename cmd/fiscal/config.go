// Config loading for the fiscal CLI.
//
// Precedence: flags > fiscal.yaml > defaults. The config file is optional;
// a missing one is not an error.
package main

import (
	"fmt"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

const (
	cfgKeyPort       = "port"
	cfgKeyDB         = "db"
	cfgKeyParamsFile = "params"

	defaultPort = 8080
)

// config is the resolved CLI configuration.
type config struct {
	Port       int
	DBPath     string
	ParamsFile string
}

// loadConfig reads fiscal.yaml (or the --config file) through viper and
// binds the given flag set over it, so changed flags win.
func loadConfig(path string, flags *pflag.FlagSet) (*config, error) {
	v := viper.New()
	v.SetDefault(cfgKeyPort, defaultPort)
	v.SetDefault(cfgKeyDB, "")
	v.SetDefault(cfgKeyParamsFile, "")

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("fiscal")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
	}

	// A missing default config file is fine; an explicitly named one that
	// is missing, or any file that fails to parse, is not.
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	if flags != nil {
		for _, key := range []string{cfgKeyPort, cfgKeyDB, cfgKeyParamsFile} {
			if f := flags.Lookup(key); f != nil {
				if err := v.BindPFlag(key, f); err != nil {
					return nil, err
				}
			}
		}
	}

	return &config{
		Port:       v.GetInt(cfgKeyPort),
		DBPath:     v.GetString(cfgKeyDB),
		ParamsFile: v.GetString(cfgKeyParamsFile),
	}, nil
}
