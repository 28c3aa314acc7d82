package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
	"unicode"

	"github.com/joho/godotenv"
	"golang.org/x/crypto/bcrypt"
)

type Config struct {
	HTTPHost      string
	HTTPPort      string
	MongoURI      string
	MongoDatabase string

	// LoginTokenSecret and ResetTokenSecret are separate on purpose: a token
	// signed for one flow must never verify under the other.
	LoginTokenSecret string
	ResetTokenSecret string
	LoginTokenTTL    time.Duration
	ResetTokenTTL    time.Duration

	BcryptCost int

	SMTPHost      string
	SMTPPort      string
	SMTPUser      string
	SMTPPassword  string
	MailFrom      string
	ResetLinkBase string

	LogLevel  string
	LogFormat string

	PasswordPolicy PasswordPolicy
}

type PasswordPolicy struct {
	MinLength        int
	RequireUppercase bool
	RequireLowercase bool
	RequireNumber    bool
	RequireSpecial   bool
}

func (p PasswordPolicy) Validate(password string) error {
	if len(password) < p.MinLength {
		return fmt.Errorf("password must be at least %d characters long", p.MinLength)
	}

	var hasUpper, hasLower, hasNumber, hasSpecial bool
	for _, ch := range password {
		switch {
		case unicode.IsUpper(ch):
			hasUpper = true
		case unicode.IsLower(ch):
			hasLower = true
		case unicode.IsDigit(ch):
			hasNumber = true
		case unicode.IsPunct(ch) || unicode.IsSymbol(ch):
			hasSpecial = true
		}
	}

	var missing []string
	if p.RequireUppercase && !hasUpper {
		missing = append(missing, "uppercase letter")
	}
	if p.RequireLowercase && !hasLower {
		missing = append(missing, "lowercase letter")
	}
	if p.RequireNumber && !hasNumber {
		missing = append(missing, "number")
	}
	if p.RequireSpecial && !hasSpecial {
		missing = append(missing, "special character")
	}

	if len(missing) > 0 {
		return fmt.Errorf("password must contain at least one: %s", strings.Join(missing, ", "))
	}

	return nil
}

func Load() (*Config, error) {
	// Load .env file if it exists (ignores error if not found)
	_ = godotenv.Load()

	mongoURI := os.Getenv("MONGO_URI")
	if mongoURI == "" {
		return nil, errors.New("MONGO_URI environment variable is required")
	}

	loginSecret := os.Getenv("JWT_LOGIN_SECRET")
	if loginSecret == "" {
		return nil, errors.New("JWT_LOGIN_SECRET environment variable is required")
	}

	resetSecret := os.Getenv("JWT_RESET_SECRET")
	if resetSecret == "" {
		return nil, errors.New("JWT_RESET_SECRET environment variable is required")
	}

	if loginSecret == resetSecret {
		return nil, errors.New("JWT_LOGIN_SECRET and JWT_RESET_SECRET must differ")
	}

	cost := getIntEnv("BCRYPT_COST", 10)
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		return nil, fmt.Errorf("BCRYPT_COST must be between %d and %d", bcrypt.MinCost, bcrypt.MaxCost)
	}

	return &Config{
		HTTPHost:         getEnv("HTTP_HOST", ""),
		HTTPPort:         getEnv("HTTP_PORT", "3000"),
		MongoURI:         mongoURI,
		MongoDatabase:    getEnv("MONGO_DATABASE", "pinpoint"),
		LoginTokenSecret: loginSecret,
		ResetTokenSecret: resetSecret,
		LoginTokenTTL:    getDurationEnv("LOGIN_TOKEN_TTL", 1*time.Hour),
		ResetTokenTTL:    getDurationEnv("RESET_TOKEN_TTL", 1*time.Hour),
		BcryptCost:       cost,
		SMTPHost:         getEnv("SMTP_HOST", "localhost"),
		SMTPPort:         getEnv("SMTP_PORT", "587"),
		SMTPUser:         os.Getenv("SMTP_USER"),
		SMTPPassword:     os.Getenv("SMTP_PASSWORD"),
		MailFrom:         getEnv("MAIL_FROM", "no-reply@pinpoint.app"),
		ResetLinkBase:    getEnv("RESET_LINK_BASE", "http://localhost:3000/reset"),
		LogLevel:         getEnv("LOG_LEVEL", "info"),
		LogFormat:        getEnv("LOG_FORMAT", "text"),
		PasswordPolicy:   loadPasswordPolicy(),
	}, nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getDurationEnv(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if minutes, err := strconv.Atoi(value); err == nil {
			return time.Duration(minutes) * time.Minute
		}
	}
	return defaultValue
}

func getBoolEnv(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if b, err := strconv.ParseBool(value); err == nil {
			return b
		}
	}
	return defaultValue
}

func getIntEnv(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if n, err := strconv.Atoi(value); err == nil {
			return n
		}
	}
	return defaultValue
}

// Strictness is opt-in: the default policy accepts any non-empty password.
func loadPasswordPolicy() PasswordPolicy {
	return PasswordPolicy{
		MinLength:        getIntEnv("PASSWORD_MIN_LENGTH", 1),
		RequireUppercase: getBoolEnv("PASSWORD_REQUIRE_UPPERCASE", false),
		RequireLowercase: getBoolEnv("PASSWORD_REQUIRE_LOWERCASE", false),
		RequireNumber:    getBoolEnv("PASSWORD_REQUIRE_NUMBER", false),
		RequireSpecial:   getBoolEnv("PASSWORD_REQUIRE_SPECIAL", false),
	}
}
