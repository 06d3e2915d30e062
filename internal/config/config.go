package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config aggregates every setting the service reads.
type Config struct {
	Server   ServerConfig
	World    WorldConfig
	Director DirectorConfig
}

// Load reads configuration from the environment.
func Load() (*Config, error) {
	server, err := loadServerConfig()
	if err != nil {
		return nil, err
	}

	world, err := loadWorldConfig()
	if err != nil {
		return nil, err
	}

	director, err := loadDirectorConfig()
	if err != nil {
		return nil, err
	}

	return &Config{Server: server, World: world, Director: director}, nil
}

// ServerConfig describes the HTTP listener.
type ServerConfig struct {
	Addr string
}

func loadServerConfig() (ServerConfig, error) {
	port := strings.TrimSpace(os.Getenv("PORT"))
	if port == "" {
		port = "8080"
	}

	if strings.Contains(port, ":") {
		// Accept ":8080" or "127.0.0.1:8080" as given.
		return ServerConfig{Addr: port}, nil
	}

	if strings.Contains(port, " ") {
		return ServerConfig{}, fmt.Errorf("invalid PORT value: %q", port)
	}

	return ServerConfig{Addr: ":" + port}, nil
}

// WorldConfig describes the world itself: the persona catalog that
// populates it and the seed its randomness grows from.
type WorldConfig struct {
	Seed         *int64
	PersonasFile string
}

// SeedValue returns the pinned seed, or the current time when none
// was set. A pinned seed makes a run reproducible.
func (c WorldConfig) SeedValue() int64 {
	if c.Seed != nil {
		return *c.Seed
	}
	return time.Now().UnixNano()
}

func loadWorldConfig() (WorldConfig, error) {
	seed, err := parseOptionalInt64Env("WORLD_SEED")
	if err != nil {
		return WorldConfig{}, err
	}

	return WorldConfig{
		Seed:         seed,
		PersonasFile: strings.TrimSpace(os.Getenv("PERSONAS_FILE")),
	}, nil
}

// DirectorConfig describes the pacing of agent activity.
type DirectorConfig struct {
	DelayMin      time.Duration
	DelayMax      time.Duration
	InitiateEvery time.Duration
}

func loadDirectorConfig() (DirectorConfig, error) {
	delayMin, err := parseMillisEnv("RESPOND_DELAY_MIN_MS", 400)
	if err != nil {
		return DirectorConfig{}, err
	}

	delayMax, err := parseMillisEnv("RESPOND_DELAY_MAX_MS", 2500)
	if err != nil {
		return DirectorConfig{}, err
	}

	initiate, err := parseMillisEnv("INITIATE_INTERVAL_MS", 45000)
	if err != nil {
		return DirectorConfig{}, err
	}

	return DirectorConfig{DelayMin: delayMin, DelayMax: delayMax, InitiateEvery: initiate}, nil
}

func parseMillisEnv(key string, defaultMillis int64) (time.Duration, error) {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return time.Duration(defaultMillis) * time.Millisecond, nil
	}

	val, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid %s value %q: %w", key, raw, err)
	}
	if val < 0 {
		return 0, fmt.Errorf("invalid %s value %q: must not be negative", key, raw)
	}
	return time.Duration(val) * time.Millisecond, nil
}

func parseOptionalInt64Env(key string) (*int64, error) {
	raw, ok := os.LookupEnv(key)
	if !ok {
		return nil, nil
	}

	value := strings.TrimSpace(raw)
	if value == "" {
		return nil, nil
	}

	val, err := strconv.ParseInt(value, 10, 64)
	if err != nil {
		return nil, fmt.Errorf("invalid %s value %q: %w", key, value, err)
	}
	return &val, nil
}
