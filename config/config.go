package config

import (
	"log"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Config holds application configuration
type Config struct {
	Port      string
	JWTKey    string
	SaltRound int

	// AppDomain is the public base URL embedded in verification QR codes.
	// When empty, the inbound request's own host is used instead.
	AppDomain string

	// Certificate rendering assets
	CertTemplatePath string
	FontDir          string

	// Storage backend: "local", "supabase" or "oss"
	StorageBackend string
	UploadDir      string

	SupabaseURL    string
	SupabaseKey    string
	SupabaseBucket string

	OSSEndpoint  string
	OSSKeyID     string
	OSSKeySecret string
	OSSBucket    string

	EmailSender string
	Password    string // SMTP App Password
}

// AppConfig is a global variable to access configuration
var AppConfig *Config

// LoadConfig initializes configuration from environment variables or defaults
func LoadConfig() {
	// Load .env file if it exists
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: .env file not found. Using system environment variables.")
	}

	AppConfig = &Config{
		Port:      getEnv("PORT", "3000"),
		JWTKey:    getEnv("JWT_SECRET_KEY", "defaultSecret"),
		SaltRound: getEnvInt("SALT_ROUND", 10),

		AppDomain: getEnv("APP_DOMAIN", ""),

		CertTemplatePath: getEnv("CERT_TEMPLATE_PATH", "uploads/certificates/certificate_wapl_id.jpg"),
		FontDir:          getEnv("FONT_DIR", "fonts"),

		StorageBackend: getEnv("STORAGE_BACKEND", "local"),
		UploadDir:      getEnv("UPLOAD_DIR", "uploads"),

		SupabaseURL:    getEnv("SUPABASE_URL", ""),
		SupabaseKey:    getEnv("SUPABASE_KEY", ""),
		SupabaseBucket: getEnv("SUPABASE_BUCKET", "uploads"),

		OSSEndpoint:  getEnv("OSS_ENDPOINT", ""),
		OSSKeyID:     getEnv("OSS_ACCESS_KEY_ID", ""),
		OSSKeySecret: getEnv("OSS_ACCESS_KEY_SECRET", ""),
		OSSBucket:    getEnv("OSS_BUCKET", ""),

		EmailSender: getEnv("EMAIL_SENDER", ""),
		Password:    getEnv("PASSWORD", ""),
	}

	// Validate critical configuration
	if AppConfig.JWTKey == "defaultSecret" {
		log.Println("Warning: Using default JWT_SECRET_KEY. Update it in your environment.")
	}
	if AppConfig.AppDomain == "" {
		log.Println("Warning: APP_DOMAIN not set. Verification URLs will use the request host.")
	}
}

// getEnv retrieves an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

// getEnvInt retrieves an environment variable as an integer or returns the default integer value
func getEnvInt(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	intValue, err := strconv.Atoi(value)
	if err != nil {
		log.Printf("Error converting environment variable %s to int: %v", key, err)
		return defaultValue
	}
	return intValue
}
