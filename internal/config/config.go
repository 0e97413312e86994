package config

import (
	"log"
	"os"

	"github.com/ilyakaznacheev/cleanenv"
)

type ServiceConfig struct {
	Env          string `yaml:"env"`
	HTTPServer   `yaml:"http_server"`
	PaymentDB    `yaml:"payment_db"`
	LogConfig    `yaml:"log_config"`
	KafkaService `yaml:"kafka-service"`
	Datatrans    `yaml:"datatrans"`
}

type HTTPServer struct {
	Host string `yaml:"host"`
	Port string `yaml:"port"`
}

type PaymentDB struct {
	Dsn            string `yaml:"dsn" env:"PAYMENT_DB_DSN"`
	MigrationsPath string `yaml:"migrations_path"`
}

type LogConfig struct {
	LogLevel  string `yaml:"log_level"`
	LogFormat string `yaml:"log_format"`
	LogOutput string `yaml:"log_output"`
}

type KafkaService struct {
	Host  string `yaml:"host"`
	Port  string `yaml:"port"`
	Topic string `yaml:"topic" env-default:"payment-events"`
}

// Datatrans holds the merchant-level gateway credentials. These are global,
// not per-event: one merchant account serves the whole installation.
type Datatrans struct {
	Sandbox        bool     `yaml:"sandbox" env:"DATATRANS_SANDBOX"`
	MerchantID     string   `yaml:"merchant_id" env:"DATATRANS_MERCHANT_ID"`
	APIPassword    string   `yaml:"api_password" env:"DATATRANS_API_PASSWORD"`
	HMACSigningKey string   `yaml:"hmac_signing_key" env:"DATATRANS_HMAC_SIGNING_KEY"`
	PublicBaseURL  string   `yaml:"public_base_url"`
	PaymentMethods []string `yaml:"payment_methods"`
}

func MustLoad() *ServiceConfig {

	// Processing env config variable and file
	configPath := os.Getenv("DATATRANS_CONFIG_PATH")

	if configPath == "" {
		log.Fatalf("DATATRANS_CONFIG_PATH was not found\n")
	}

	if _, err := os.Stat(configPath); err != nil {
		log.Fatalf("failed to find config file: %v\n", err)
	}

	// YAML to struct object
	var cfg ServiceConfig
	if err := cleanenv.ReadConfig(configPath, &cfg); err != nil {
		log.Fatalf("failed to read config file: %v", err)
	}

	return &cfg
}
