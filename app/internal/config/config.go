package config

import (
	"log"
	"sync"

	"github.com/ilyakaznacheev/cleanenv"
)

type Config struct {
	IsDebug bool `env:"IS_DEBUG" env-default:"false"`

	HTTP struct {
		Port int `env:"PORT" env-default:"3000"`
	}

	Proxy struct {
		// UpstreamTimeoutSec bounds the whole upstream exchange, from dialing
		// to the last response byte.
		UpstreamTimeoutSec int `env:"UPSTREAM_TIMEOUT" env-default:"30"`
	}

	Upstreams struct {
		API   string `env:"API_UPSTREAM" env-default:"api:8001"`
		AI    string `env:"AI_UPSTREAM" env-default:"ai:8002"`
		Media string `env:"MEDIA_UPSTREAM" env-default:"minio:9000"`
	}

	Routes struct {
		// File optionally replaces the built-in route table with a YAML file.
		File string `env:"ROUTES_FILE" env-default:""`
	}

	Repository struct {
		Type      string `env:"REPOSITORY_TYPE" env-default:"memory"`
		SQLiteDSN string `env:"SQLITE_DSN" env-default:"routestats.db"`
	}
}

// Singleton: Config should only ever be created once.
var instance *Config

// Once is an object that will perform exactly one action.
var once sync.Once

// GetConfig returns pointer to Config.
func GetConfig() *Config {
	once.Do(func() {
		log.Print("collecting config...")

		instance = &Config{}

		// Read environment variables into the instance of the Config
		if err := cleanenv.ReadEnv(instance); err != nil {
			helpText := "Environment variables error:"
			help, err := cleanenv.GetDescription(instance, &helpText)
			if err != nil {
				log.Fatal(err)
			}
			log.Print(help)
			log.Printf("%+v\n", instance)

			log.Fatal(err)
		}
	})
	return instance
}
