package config

import (
	"os"
	"path/filepath"
	"strconv"

	"github.com/joho/godotenv"

	"github.com/vango-dev/crmnav/internal/errors"
)

// ApplyEnv overrides configuration values from the environment.
// The process environment wins over the .env file next to the config file.
func (c *Config) ApplyEnv() error {
	fileEnv, err := c.readEnvFile()
	if err != nil {
		return err
	}

	lookup := func(key string) (string, bool) {
		if v, ok := os.LookupEnv(key); ok {
			return v, true
		}
		v, ok := fileEnv[key]
		return v, ok
	}

	if v, ok := lookup(EnvBaseURL); ok && v != "" {
		c.BasePath = v
	}
	if v, ok := lookup(EnvHost); ok && v != "" {
		c.Server.Host = v
	}
	if v, ok := lookup(EnvPort); ok && v != "" {
		port, err := strconv.Atoi(v)
		if err != nil {
			return errors.New("E103").
				WithDetail(EnvPort + " is not a number: " + strconv.Quote(v))
		}
		c.Server.Port = port
	}
	if v, ok := lookup(EnvLogLevel); ok && v != "" {
		c.Log.Level = v
	}
	if v, ok := lookup(EnvBucket); ok && v != "" {
		c.Manifest.Bucket = v
	}

	return nil
}

// readEnvFile parses the optional .env file. A missing file is not an error.
func (c *Config) readEnvFile() (map[string]string, error) {
	path := filepath.Join(c.Dir(), EnvFileName)
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil, nil
	}

	values, err := godotenv.Read(path)
	if err != nil {
		return nil, errors.New("E106").Wrap(err)
	}
	return values, nil
}
