package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Exchange names used by the event broadcaster. All of them are fanout
// exchanges; clients bind their own queues to the ones they care about.
const (
	STUDENT_QUEUE_EXCHANGE   = "queue.student.changed"
	TUTOR_QUEUE_EXCHANGE     = "queue.tutor.changed"
	SESSION_CREATED_EXCHANGE = "session.created"
	SESSION_STATUS_EXCHANGE  = "session.status.changed"
)

// DatabaseConfig holds the PostgreSQL connection details.
type DatabaseConfig struct {
	host     string
	port     int32
	user     string
	password string
	dbName   string
}

func (c *DatabaseConfig) GetHost() string     { return c.host }
func (c *DatabaseConfig) GetPort() int32      { return c.port }
func (c *DatabaseConfig) GetUser() string     { return c.user }
func (c *DatabaseConfig) GetPassword() string { return c.password }
func (c *DatabaseConfig) GetDBName() string   { return c.dbName }

// GlobalConfig holds all configuration for the matching service.
type GlobalConfig struct {
	LogLevel       string
	RabbitHost     string
	RabbitPort     int32
	RabbitUser     string
	RabbitPass     string
	Host           string
	Port           string
	MeetingBaseURL string
	StoreTimeout   time.Duration
	database       DatabaseConfig
}

func (c *GlobalConfig) GetHost() string                    { return c.Host }
func (c *GlobalConfig) GetPort() string                    { return c.Port }
func (c *GlobalConfig) GetRabbitMQHost() string            { return c.RabbitHost }
func (c *GlobalConfig) GetRabbitMQPort() int32             { return c.RabbitPort }
func (c *GlobalConfig) GetDatabaseConfig() *DatabaseConfig { return &c.database }

// GetRabbitMQURL builds the AMQP connection URL from the configured parts.
func (c *GlobalConfig) GetRabbitMQURL() string {
	return fmt.Sprintf("amqp://%s:%s@%s:%d/", c.RabbitUser, c.RabbitPass, c.RabbitHost, c.RabbitPort)
}

// NewConfig builds a GlobalConfig from environment variables. A local .env
// file is loaded first when present; every required variable missing from
// the environment is an error.
func NewConfig() (GlobalConfig, error) {
	if err := godotenv.Load(".env"); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	logLevel, err := requireEnv("LOG_LEVEL")
	if err != nil {
		return GlobalConfig{}, err
	}

	host, err := requireEnv("HOST")
	if err != nil {
		return GlobalConfig{}, err
	}
	port, err := requireEnv("PORT")
	if err != nil {
		return GlobalConfig{}, err
	}

	rabbitHost, err := requireEnv("RABBITMQ_HOST")
	if err != nil {
		return GlobalConfig{}, err
	}
	rabbitPortStr, err := requireEnv("RABBITMQ_PORT")
	if err != nil {
		return GlobalConfig{}, err
	}
	rabbitPort, err := strconv.ParseInt(rabbitPortStr, 10, 32)
	if err != nil {
		return GlobalConfig{}, fmt.Errorf("RABBITMQ_PORT must be a valid integer: %w", err)
	}
	rabbitUser, err := requireEnv("RABBITMQ_USER")
	if err != nil {
		return GlobalConfig{}, err
	}
	rabbitPass, err := requireEnv("RABBITMQ_PASS")
	if err != nil {
		return GlobalConfig{}, err
	}

	dbHost, err := requireEnv("DB_HOST")
	if err != nil {
		return GlobalConfig{}, err
	}
	dbPortStr, err := requireEnv("DB_PORT")
	if err != nil {
		return GlobalConfig{}, err
	}
	dbPort, err := strconv.ParseInt(dbPortStr, 10, 32)
	if err != nil {
		return GlobalConfig{}, fmt.Errorf("DB_PORT must be a valid integer: %w", err)
	}
	dbUser, err := requireEnv("DB_USER")
	if err != nil {
		return GlobalConfig{}, err
	}
	dbPass, err := requireEnv("DB_PASSWORD")
	if err != nil {
		return GlobalConfig{}, err
	}
	dbName, err := requireEnv("DB_DATABASE")
	if err != nil {
		return GlobalConfig{}, err
	}

	meetingBaseURL, err := requireEnv("MEETING_BASE_URL")
	if err != nil {
		return GlobalConfig{}, err
	}

	storeTimeout := 5 * time.Second
	if s := os.Getenv("STORE_TIMEOUT_SECONDS"); s != "" {
		secs, err := strconv.Atoi(s)
		if err != nil {
			return GlobalConfig{}, fmt.Errorf("STORE_TIMEOUT_SECONDS must be a valid integer: %w", err)
		}
		storeTimeout = time.Duration(secs) * time.Second
	}

	return GlobalConfig{
		LogLevel:       logLevel,
		RabbitHost:     rabbitHost,
		RabbitPort:     int32(rabbitPort),
		RabbitUser:     rabbitUser,
		RabbitPass:     rabbitPass,
		Host:           host,
		Port:           port,
		MeetingBaseURL: meetingBaseURL,
		StoreTimeout:   storeTimeout,
		database: DatabaseConfig{
			host:     dbHost,
			port:     int32(dbPort),
			user:     dbUser,
			password: dbPass,
			dbName:   dbName,
		},
	}, nil
}

func requireEnv(key string) (string, error) {
	v := os.Getenv(key)
	if v == "" {
		return "", fmt.Errorf("%s environment variable is required", key)
	}
	return v, nil
}
