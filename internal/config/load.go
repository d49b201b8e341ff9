package config

import (
	"fmt"
	"strings"
	"sync"

	"github.com/mitchellh/mapstructure"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

var defineFlagsOnce sync.Once

// Load loads Config from multiple sources with the following precedence:
// 1. Command line flags
// 2. Environment variables (GQLSPARQL_ prefixed)
// 3. Config file
// 4. Default values
func Load() (*Config, error) {
	v := viper.New()
	setDefaults(v)

	defineFlags()
	if !pflag.Parsed() {
		pflag.Parse()
	}

	cfgPath, _ := pflag.CommandLine.GetString("config")
	if cfgPath != "" {
		v.SetConfigFile(cfgPath)
	} else {
		v.SetConfigName("graphqlsparql")
		v.SetConfigType("yaml")
		v.AddConfigPath("/etc/graphqlsparql/")
		v.AddConfigPath("$HOME/.graphqlsparql")
		v.AddConfigPath(".")
	}

	if err := v.ReadInConfig(); err != nil {
		if cfgPath != "" {
			return nil, fmt.Errorf("failed to read config file %q: %w", cfgPath, err)
		}
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	v.SetEnvPrefix("GQLSPARQL")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()

	bindChangedFlagsToViper(v)

	var cfg Config
	if err := v.UnmarshalExact(&cfg, viper.DecodeHook(
		mapstructure.ComposeDecodeHookFunc(
			mapstructure.StringToTimeDurationHookFunc(),
		),
	)); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	return &cfg, nil
}

func bindChangedFlagsToViper(v *viper.Viper) {
	pflag.CommandLine.Visit(func(f *pflag.Flag) {
		if f.Name == "config" {
			return
		}
		switch f.Value.Type() {
		case "string":
			val, _ := pflag.CommandLine.GetString(f.Name)
			v.Set(f.Name, val)
		case "int":
			val, _ := pflag.CommandLine.GetInt(f.Name)
			v.Set(f.Name, val)
		case "bool":
			val, _ := pflag.CommandLine.GetBool(f.Name)
			v.Set(f.Name, val)
		default:
			v.Set(f.Name, f.Value.String())
		}
	})
}

func defineFlags() {
	defineFlagsOnce.Do(func() {
		pflag.String("query_endpoint_url", "", "SPARQL query endpoint URL")
		pflag.String("update_endpoint_url", "", "SPARQL update endpoint URL")
		pflag.Int("timeout_ms", 0, "Request timeout in milliseconds")
		pflag.Int("max_results", 0, "Maximum results returned per query")
		pflag.Bool("validate_query", false, "Validate generated SPARQL before sending")
		pflag.Bool("cache_enabled", false, "Enable the query result cache")
		pflag.Int("cache_max_entries", 0, "Maximum cache entries")
		pflag.Int("cache_ttl_ms", 0, "Cache entry time-to-live in milliseconds")
		pflag.Int("retry_attempts", 0, "Endpoint request retry attempts")
		pflag.Int("retry_delay_ms", 0, "Delay between retry attempts in milliseconds")
		pflag.Bool("debug", false, "Enable debug logging")
		pflag.StringP("config", "c", "", "Config file path")
	})
}

func setDefaults(v *viper.Viper) {
	d := Default()
	v.SetDefault("query_endpoint_url", "")
	v.SetDefault("update_endpoint_url", "")
	v.SetDefault("timeout_ms", d.TimeoutMS)
	v.SetDefault("max_results", d.MaxResults)
	v.SetDefault("validate_query", d.ValidateQuery)
	v.SetDefault("cache_enabled", d.CacheEnabled)
	v.SetDefault("cache_max_entries", d.CacheMaxEntries)
	v.SetDefault("cache_ttl_ms", d.CacheTTLMS)
	v.SetDefault("retry_attempts", d.RetryAttempts)
	v.SetDefault("retry_delay_ms", d.RetryDelayMS)
	v.SetDefault("debug", d.Debug)
}
