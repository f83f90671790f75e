package env

import (
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

var Env map[string]string

func GetEnv(key, def string) string {
	// First check our loaded Env map
	if val, ok := Env[key]; ok {
		return val
	}
	// Fallback to OS environment variables (for Docker/tests)
	if val := os.Getenv(key); val != "" {
		return val
	}
	return def
}

// GetEnvInt returns the integer value of key, or def if it is unset or not a number.
func GetEnvInt(key string, def int) int {
	raw := GetEnv(key, "")
	if raw == "" {
		return def
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return def
	}
	return n
}

// GetEnvBool accepts the usual strconv.ParseBool spellings.
func GetEnvBool(key string, def bool) bool {
	raw := GetEnv(key, "")
	if raw == "" {
		return def
	}
	b, err := strconv.ParseBool(raw)
	if err != nil {
		return def
	}
	return b
}

// SetupEnvFile loads the first .env file found. Unlike the web server, the CLI
// tools run fine on plain OS environment, so a missing file is only reported.
func SetupEnvFile() error {
	envFiles := []string{
		".env",          // Current directory
		"../../.env",    // From cmd/<tool> to project root
		"../../../.env", // Fallback for deeper nesting
	}

	var err error
	for _, envFile := range envFiles {
		Env, err = godotenv.Read(envFile)
		if err == nil {
			return nil
		}
	}

	Env = map[string]string{}
	return err
}

func IsDev() bool {
	return GetEnv("APP_ENV", "prod") == "dev"
}
