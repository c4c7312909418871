package config

import (
	"log"
	"os"
	"sync"

	"github.com/joho/godotenv"
)

var (
	once     sync.Once
	instance *Config
)

// Config is a singleton view over the process environment. The env file
// carries the store addresses (postgres, redis), the JWT secret and the
// Groq credentials; everything is read lazily through GetString.
type Config struct {
}

// New loads ./configs/.env on the first call. A missing env file is fatal
// since the service cannot reach its stores without it.
func New() *Config {
	once.Do(func() {
		err := godotenv.Load("./configs/.env")
		if err != nil {
			log.Fatal("loading envs error: ", err)
		}
		instance = &Config{}
	})
	return instance
}

// GetString returns the raw value for key, empty when unset.
func (c *Config) GetString(key string) string {
	return os.Getenv(key)
}
