package environment

import (
	"os"

	"github.com/joho/godotenv"
	"github.com/mitchellh/mapstructure"
)

// Production defines the prod environment
const Production = "prod"

// Staging defines the staging environment
const Staging = "staging"

// Dev defines the dev environment
const Dev = "dev"

// Store backends
const (
	StoreMemory = "memory"
	StoreSheets = "sheets"
	StoreMongo  = "mongo"
)

// Environment holds the configuration of the server
type Environment struct {
	Environment       string `mapstructure:"APP_ENV"`
	Cors              string `mapstructure:"CORS"`
	Port              string `mapstructure:"PORT"`
	Store             string `mapstructure:"STORE"`
	SpreadsheetID     string `mapstructure:"SPREADSHEET_ID"`
	GoogleCredentials string `mapstructure:"GOOGLE_CREDENTIALS"`
	GoogleProject     string `mapstructure:"GOOGLE_PROJECT"`
	Database          string `mapstructure:"DATABASE"`
	DatabaseURL       string `mapstructure:"DATABASE_URL"`
	Redis             string `mapstructure:"REDIS"`
	RedisPassword     string `mapstructure:"REDIS_PASSWORD"`
}

var keys = []string{
	"APP_ENV", "CORS", "PORT", "STORE", "SPREADSHEET_ID", "GOOGLE_CREDENTIALS", "GOOGLE_PROJECT",
	"DATABASE", "DATABASE_URL", "REDIS", "REDIS_PASSWORD",
}

var defaults = map[string]string{
	"APP_ENV":  Dev,
	"PORT":     "3001",
	"STORE":    StoreMemory,
	"DATABASE": "taskboard",
	"CORS":     "*",
}

// Global is the configuration loaded by Initialize
var Global Environment

// Initialize loads .env into Global and panics on failure
func Initialize() {
	env, err := Load(".env")
	if err != nil {
		panic(err)
	}

	Global = env
}

// Load reads the dotenv file at path if it exists. Process environment variables win over the file.
func Load(path string) (Environment, error) {
	data := map[string]string{}
	for key, value := range defaults {
		data[key] = value
	}

	if _, err := os.Stat(path); err == nil {
		fileData, err := godotenv.Read(path)
		if err != nil {
			return Environment{}, err
		}
		for key, value := range fileData {
			data[key] = value
		}
	}

	for _, key := range keys {
		if value, ok := os.LookupEnv(key); ok {
			data[key] = value
		}
	}

	env := Environment{}
	err := mapstructure.Decode(data, &env)
	if err != nil {
		return Environment{}, err
	}

	return env, nil
}
