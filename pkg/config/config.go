package config

import (
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type Config struct {
	ServerPort  string
	Environment string

	StorageDriver    string // memory, redis, firestore, mongo
	StorageNamespace string
	StorageCompress  bool

	RedisAddr     string
	RedisPassword string
	RedisDB       int

	FirebaseProject            string
	FirebaseServiceAccountPath string
	FirebaseServiceAccountJSON string

	MongoURI      string
	MongoDatabase string

	SeedDemoData     bool
	AuthRateLimitRPM int
}

func Load() (*Config, error) {
	godotenv.Load()

	v := viper.New()
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	v.SetDefault("SERVER_PORT", "8080")
	v.SetDefault("ENVIRONMENT", "development")
	v.SetDefault("STORAGE_DRIVER", "memory")
	v.SetDefault("STORAGE_NAMESPACE", "swapi_")
	v.SetDefault("STORAGE_COMPRESS", false)
	v.SetDefault("REDIS_ADDR", "localhost:6379")
	v.SetDefault("REDIS_PASSWORD", "")
	v.SetDefault("REDIS_DB", 0)
	v.SetDefault("FIREBASE_PROJECT_ID", "")
	v.SetDefault("FIREBASE_SERVICE_ACCOUNT_PATH", "")
	v.SetDefault("FIREBASE_SERVICE_ACCOUNT_JSON", "")
	v.SetDefault("MONGODB_URI", "mongodb://localhost:27017")
	v.SetDefault("MONGODB_DATABASE", "swapi")
	v.SetDefault("SEED_DEMO_DATA", false)
	v.SetDefault("AUTH_RATE_LIMIT_RPM", 10)

	// An optional YAML file can hold the same keys; environment wins.
	if file := v.GetString("CONFIG_FILE"); file != "" {
		v.SetConfigFile(file)
		if err := v.ReadInConfig(); err != nil {
			return nil, err
		}
	}

	config := &Config{
		ServerPort:                 v.GetString("SERVER_PORT"),
		Environment:                v.GetString("ENVIRONMENT"),
		StorageDriver:              strings.ToLower(v.GetString("STORAGE_DRIVER")),
		StorageNamespace:           v.GetString("STORAGE_NAMESPACE"),
		StorageCompress:            v.GetBool("STORAGE_COMPRESS"),
		RedisAddr:                  v.GetString("REDIS_ADDR"),
		RedisPassword:              v.GetString("REDIS_PASSWORD"),
		RedisDB:                    v.GetInt("REDIS_DB"),
		FirebaseProject:            v.GetString("FIREBASE_PROJECT_ID"),
		FirebaseServiceAccountPath: v.GetString("FIREBASE_SERVICE_ACCOUNT_PATH"),
		FirebaseServiceAccountJSON: v.GetString("FIREBASE_SERVICE_ACCOUNT_JSON"),
		MongoURI:                   v.GetString("MONGODB_URI"),
		MongoDatabase:              v.GetString("MONGODB_DATABASE"),
		SeedDemoData:               v.GetBool("SEED_DEMO_DATA"),
		AuthRateLimitRPM:           v.GetInt("AUTH_RATE_LIMIT_RPM"),
	}

	return config, nil
}

func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}
