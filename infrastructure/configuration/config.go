package configuration

import (
	"fmt"
	"os"
	"strconv"

	"github.com/cjodon01/autoauthadmin/infrastructure/logger"

	"github.com/spf13/viper"
)

type Config struct {
	Database    Database    `json:"database"`
	App         App         `json:"app"`
	Pubsub      Pubsub      `json:"pubsub"`
	ServiceBus  ServiceBus  `json:"serviceBus"`
	RedisClient RedisClient `json:"redisClient"`
	Logger      Logger      `json:"logger"`
	Social      Social      `json:"social"`
	Audit       Audit       `json:"audit"`
}

type App struct {
	Port        int    `json:"port"`
	SecretKey   string `json:"secretKey"`
	TLSEnabled  bool   `json:"tlsEnabled"`
	TLSCertFile string `json:"tlsCertFile"`
	TLSKeyFile  string `json:"tlsKeyFile"`
	// AllowedOrigins lists the admin console origins accepted by CORS.
	AllowedOrigins []string `json:"allowedOrigins"`
}

type Database struct {
	// Vendor selects the store: "postgres" (default) or "mssql".
	Vendor string `json:"vendor"`
	Psql   Db     `json:"psql"`
	Mssql  Db     `json:"mssql"`
}

type Db struct {
	Name     string `json:"name"`
	Host     string `json:"host"`
	Port     string `json:"port"`
	User     string `json:"user"`
	Password string `json:"password"`
	SSLMode  string `json:"sslMode"`
}

type Pubsub struct {
	ProjectID       string `json:"projectID"`
	Topic           string `json:"topic"`
	CredentialsFile string `json:"credentialsFile"`
}

type ServiceBus struct {
	Namespace string `json:"namespace"`
	Queue     string `json:"queue"`
}

type RedisClient struct {
	Host         string `json:"host"`
	Port         string `json:"port"`
	Password     string `json:"password"`
	DatabaseName string `json:"databaseName"`
	Username     string `json:"username"`
	BacklogKey   string `json:"backlogKey"`
}

type Logger struct {
	Level string `json:"level"`
}

// Social holds upstream platform settings.
type Social struct {
	TimeoutSeconds  int    `json:"timeoutSeconds"`
	GraphBaseURL    string `json:"graphBaseURL"`
	LinkedInBaseURL string `json:"linkedInBaseURL"`
}

// Audit tunes call record durability and backlog replay.
type Audit struct {
	Retries               int `json:"retries"`
	RetryDelayMillis      int `json:"retryDelayMillis"`
	WriteTimeoutSeconds   int `json:"writeTimeoutSeconds"`
	ReplayIntervalSeconds int `json:"replayIntervalSeconds"`
	ReplayBatch           int `json:"replayBatch"`
}

var C Config

func init() {
	LoadEnvFiles("config.env", ".env")
	LoadConfig()
	initDatabase(&C)
	initApp(&C)
	initSocial(&C)
	initAudit(&C)
	if C.Logger.Level != "" {
		logger.SetLevel(C.Logger.Level)
	}
}

func LoadConfig() {
	name := getConfig()
	viper.SetConfigName(name)
	viper.SetConfigType("json")
	viper.AddConfigPath(".")
	viper.AddConfigPath("../")
	viper.AddConfigPath("../../")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			logger.GetLogger().Warn("Config file not found")
		} else {
			logger.GetLogger().WithField("error", err).Error("Error reading config file")
		}
	}

	logger.GetLogger().WithField("config", name).Info("Config set up successfully")
	if err := viper.Unmarshal(&C); err != nil {
		logger.GetLogger().WithField("error", err).Error("Viper unable to decode into struct")
	}
}

func getConfig() string {
	name := "config"
	env := os.Getenv("ENV")
	if env != "" {
		name = fmt.Sprintf("%s-%s", name, env)
	}
	return name
}

func initDatabase(C *Config) {
	if v := os.Getenv("DB_VENDOR"); v != "" {
		C.Database.Vendor = v
	}
	if C.Database.Vendor == "" {
		C.Database.Vendor = "postgres"
	}

	if C.Database.Psql.Name == "" {
		C.Database.Psql.Name = os.Getenv("DB_NAME")
	}
	if C.Database.Psql.Host == "" {
		C.Database.Psql.Host = os.Getenv("DB_HOST")
	}
	if C.Database.Psql.User == "" {
		C.Database.Psql.User = os.Getenv("DB_USER")
	}
	if C.Database.Psql.Password == "" {
		C.Database.Psql.Password = os.Getenv("DB_PASSWORD")
	}
	if C.Database.Psql.Port == "" {
		C.Database.Psql.Port = os.Getenv("DB_PORT")
	}
	if C.Database.Psql.SSLMode == "" {
		C.Database.Psql.SSLMode = os.Getenv("DB_SSLMODE")
	}
	if C.Database.Psql.Port == "" {
		C.Database.Psql.Port = "5432"
	}

	// Optional MSSQL config via environment variables (for Azure SQL in production)
	if C.Database.Mssql.Name == "" {
		C.Database.Mssql.Name = os.Getenv("MSSQL_DB_NAME")
	}
	if C.Database.Mssql.Host == "" {
		C.Database.Mssql.Host = os.Getenv("MSSQL_HOST")
	}
	if C.Database.Mssql.Password == "" {
		C.Database.Mssql.Password = os.Getenv("MSSQL_PASSWORD")
	}
	if C.Database.Mssql.User == "" {
		C.Database.Mssql.User = os.Getenv("MSSQL_USER")
	}
	if C.Database.Mssql.Port == "" {
		if v := os.Getenv("MSSQL_PORT"); v != "" {
			C.Database.Mssql.Port = v
		} else {
			C.Database.Mssql.Port = "1433"
		}
	}
	if C.Database.Mssql.Host == "" {
		C.Database.Mssql.Host = "localhost"
	}
	logger.GetLogger().WithField("vendor", C.Database.Vendor).WithField("host", C.Database.Psql.Host).Info("Database configuration")
}

func initApp(C *Config) {
	// SECRET_KEY from environment overrides the config file
	if v := os.Getenv("SECRET_KEY"); v != "" {
		C.App.SecretKey = v
	}
	// Port resolution order (env overrides config): APP_PORT -> PORT -> config -> default 10001
	if v := os.Getenv("APP_PORT"); v != "" {
		if p, err := strconv.Atoi(v); err == nil {
			C.App.Port = p
		}
	} else if v := os.Getenv("PORT"); v != "" {
		if p, err := strconv.Atoi(v); err == nil {
			C.App.Port = p
		}
	}
	if C.App.Port == 0 {
		C.App.Port = 10001
	}
	if v := os.Getenv("TLS_ENABLED"); v != "" {
		switch v {
		case "1", "true", "TRUE", "True":
			C.App.TLSEnabled = true
		case "0", "false", "FALSE", "False":
			C.App.TLSEnabled = false
		}
	}
	if C.App.TLSCertFile == "" {
		C.App.TLSCertFile = os.Getenv("TLS_CERT_FILE")
	}
	if C.App.TLSKeyFile == "" {
		C.App.TLSKeyFile = os.Getenv("TLS_KEY_FILE")
	}
	if len(C.App.AllowedOrigins) == 0 {
		C.App.AllowedOrigins = []string{"http://localhost:5173", "http://localhost:4173"}
	}
	if C.App.SecretKey == "" {
		logger.GetLogger().Warn("App.SecretKey not set; JWT authentication will fail. Provide SECRET_KEY via environment.")
	}
}

func initSocial(C *Config) {
	if C.Social.TimeoutSeconds <= 0 {
		C.Social.TimeoutSeconds = 15
	}
	if v := os.Getenv("GRAPH_BASE_URL"); v != "" {
		C.Social.GraphBaseURL = v
	}
	if v := os.Getenv("LINKEDIN_BASE_URL"); v != "" {
		C.Social.LinkedInBaseURL = v
	}
}

func initAudit(C *Config) {
	if C.Audit.Retries <= 0 {
		C.Audit.Retries = 3
	}
	if C.Audit.RetryDelayMillis <= 0 {
		C.Audit.RetryDelayMillis = 200
	}
	if C.Audit.WriteTimeoutSeconds <= 0 {
		C.Audit.WriteTimeoutSeconds = 5
	}
	if C.Audit.ReplayIntervalSeconds <= 0 {
		C.Audit.ReplayIntervalSeconds = 30
	}
	if C.Audit.ReplayBatch <= 0 {
		C.Audit.ReplayBatch = 100
	}
}
