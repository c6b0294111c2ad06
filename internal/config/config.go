package config

import (
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"storefront/internal/models"
)

var AppEnv Config

type Config struct {
	MongoURI        string
	DBName          string
	DataDir         string
	JWTSecret       string
	OrderServiceURL string
	OrderTimeout    time.Duration
	Fees            models.FeeConfig
}

func Load() {
	if err := godotenv.Load(); err != nil {
		log.Println(".env not loaded:", err)
	}
	AppEnv = Config{
		MongoURI:        getEnvOrDefault("MONGO_URI", ""),
		DBName:          getEnvOrDefault("DB_NAME", "storefront"),
		DataDir:         getEnvOrDefault("DATA_DIR", "data"),
		JWTSecret:       getEnvOrDefault("JWT_SECRET", ""),
		OrderServiceURL: getEnvOrDefault("ORDER_SERVICE_URL", "http://localhost:9000"),
		OrderTimeout:    getDurationEnv("ORDER_TIMEOUT", 10, time.Second),
		Fees: models.FeeConfig{
			FreeShippingThreshold: getFloatEnv("FREE_SHIPPING_THRESHOLD", 50),
			FlatDeliveryFee:       getFloatEnv("DELIVERY_FEE", 25),
			HandlingFee:           getFloatEnv("HANDLING_FEE", 5),
		},
	}
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := strings.TrimSpace(os.Getenv(key)); value != "" {
		return value
	}
	return defaultValue
}

func getDurationEnv(key string, defaultValue int, unit time.Duration) time.Duration {
	if value := strings.TrimSpace(os.Getenv(key)); value != "" {
		if parsed, err := strconv.Atoi(value); err == nil && parsed > 0 {
			return time.Duration(parsed) * unit
		}
	}
	return time.Duration(defaultValue) * unit
}

func getFloatEnv(key string, defaultValue float64) float64 {
	if value := strings.TrimSpace(os.Getenv(key)); value != "" {
		if parsed, err := strconv.ParseFloat(value, 64); err == nil && parsed >= 0 {
			return parsed
		}
	}
	return defaultValue
}
