package config // package config loads application configuration from environment variables

import (
	"log"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds all runtime configuration values.  Each field corresponds to
// an environment variable; only JWT_SECRET has no default.
type Config struct {
	Env            string        // application environment (dev, prod)
	Port           string        // HTTP port to listen on
	DBDriver       string        // sqlite, mysql or postgres
	DBDSN          string        // full DSN; built from the DB_* parts when empty
	DBUser         string        // database username
	DBPass         string        // database password (optional)
	DBHost         string        // database host address
	DBPort         string        // database port number
	DBName         string        // database name
	JWTSecret      string        // secret used to sign admin sessions
	SessionTTL     time.Duration // admin session lifetime
	BcryptCost     int           // bcrypt cost for hashing ADMIN_PASSWORD
	AdminUsername  string        // the single admin account
	AdminPassword  string        // plain password, hashed at startup
	AdminHash      string        // bcrypt hash; wins over AdminPassword
	BookingLogPath string        // file the booking event consumer appends to
	RabbitMQURL    string        // empty disables booking events
	TelegramToken  string        // empty disables Telegram notifications
	TelegramChatID int64         // chat that receives notifications
	Hotel          Hotel         // public hotel details
}

// Load reads configuration values from environment variables and returns a
// Config.  A missing JWT_SECRET stops the process.
func Load() Config {
	return Config{
		Env:            getenv("APP_ENV", "dev"),
		Port:           getenv("APP_PORT", "8080"),
		DBDriver:       strings.ToLower(getenv("DB_DRIVER", "sqlite")),
		DBDSN:          os.Getenv("DB_DSN"),
		DBUser:         getenv("DB_USER", "root"),
		DBPass:         os.Getenv("DB_PASS"),
		DBHost:         getenv("DB_HOST", "localhost"),
		DBPort:         os.Getenv("DB_PORT"),
		DBName:         getenv("DB_NAME", "hotel"),
		JWTSecret:      must("JWT_SECRET"),
		SessionTTL:     time.Duration(envInt("SESSION_TTL_MIN", 120)) * time.Minute,
		BcryptCost:     envInt("BCRYPT_COST", 12),
		AdminUsername:  getenv("ADMIN_USERNAME", "admin"),
		AdminPassword:  os.Getenv("ADMIN_PASSWORD"),
		AdminHash:      os.Getenv("ADMIN_PASSWORD_HASH"),
		BookingLogPath: getenv("BOOKING_LOG_PATH", "logs/booking.log"),
		RabbitMQURL:    os.Getenv("RABBITMQ_URL"),
		TelegramToken:  os.Getenv("TELEGRAM_BOT_TOKEN"),
		TelegramChatID: envInt64("TELEGRAM_CHAT_ID", 0),
		Hotel:          LoadHotel(),
	}
}

// Dev reports whether the app runs in the development environment.
func (c Config) Dev() bool { return c.Env == "dev" }

// must retrieves the value of a required environment variable.  If the
// variable is unset or empty, the application logs a fatal error and exits.
func must(key string) string {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		log.Fatalf("missing required env var: %s", key)
	}
	return v
}

func envInt64(k string, d int64) int64 {
	v := os.Getenv(k)
	if v == "" {
		return d
	}
	n, err := strconv.ParseInt(v, 10, 64)
	if err != nil {
		log.Printf("config: invalid int for %s: %q, using %d", k, v, d)
		return d
	}
	return n
}
