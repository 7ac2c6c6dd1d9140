package config

import (
	"os"
	"strconv"
	"time"
)

// EnvPrefix starts every environment override, e.g. UPGRADER_REGISTRY_URL.
const EnvPrefix = "UPGRADER_"

// ApplyEnvOverrides applies UPGRADER_[SECTION]_[KEY] variables to cfg and
// returns the names of the variables it applied. Unparsable values are skipped.
func ApplyEnvOverrides(cfg *Config) []string {
	var applied []string
	track := func(key string, ok bool) {
		if ok {
			applied = append(applied, key)
		}
	}

	track(setEnvString(&cfg.Registry.URL, EnvPrefix+"REGISTRY_URL"))
	track(setEnvDuration(&cfg.Registry.Timeout, EnvPrefix+"REGISTRY_TIMEOUT"))
	track(setEnvInt(&cfg.Registry.Retries, EnvPrefix+"REGISTRY_RETRIES"))
	track(setEnvFloat64(&cfg.Registry.RateLimit, EnvPrefix+"REGISTRY_RATE_LIMIT"))
	track(setEnvInt(&cfg.Registry.Burst, EnvPrefix+"REGISTRY_BURST"))

	track(setEnvInt(&cfg.Check.Concurrency, EnvPrefix+"CHECK_CONCURRENCY"))

	track(setEnvString(&cfg.Server.Addr, EnvPrefix+"SERVER_ADDR"))
	track(setEnvDuration(&cfg.Server.SessionTTL, EnvPrefix+"SERVER_SESSION_TTL"))

	return applied
}

func setEnvString(target *string, key string) (string, bool) {
	if val, ok := os.LookupEnv(key); ok {
		*target = val
		return key, true
	}
	return key, false
}

func setEnvInt(target *int, key string) (string, bool) {
	if val, ok := os.LookupEnv(key); ok {
		if i, err := strconv.Atoi(val); err == nil {
			*target = i
			return key, true
		}
	}
	return key, false
}

func setEnvFloat64(target *float64, key string) (string, bool) {
	if val, ok := os.LookupEnv(key); ok {
		if f, err := strconv.ParseFloat(val, 64); err == nil {
			*target = f
			return key, true
		}
	}
	return key, false
}

func setEnvDuration(target *time.Duration, key string) (string, bool) {
	if val, ok := os.LookupEnv(key); ok {
		if d, err := time.ParseDuration(val); err == nil {
			*target = d
			return key, true
		}
	}
	return key, false
}
