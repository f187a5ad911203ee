package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Server    ServerConfig   `yaml:"server"`
	Database  DatabaseConfig `yaml:"database"`
	Security  SecurityConfig `yaml:"security"`
	Login     LoginConfig    `yaml:"login"`
	Mail      MailConfig     `yaml:"mail"`
	Visits    VisitsConfig   `yaml:"visits"`
	Companies []string       `yaml:"default_companies"`
}

type ServerConfig struct {
	Host string `yaml:"host"`
	Port int    `yaml:"port"`
	Mode string `yaml:"mode"`
}

type DatabaseConfig struct {
	Type   string       `yaml:"type"`
	SQLite SQLiteConfig `yaml:"sqlite"`
	MySQL  MySQLConfig  `yaml:"mysql"`
}

type SQLiteConfig struct {
	Path string `yaml:"path"`
}

type MySQLConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	Username string `yaml:"username"`
	Password string `yaml:"password"`
	Database string `yaml:"database"`
	Charset  string `yaml:"charset"`
}

type SecurityConfig struct {
	BcryptCost int `yaml:"bcrypt_cost"`
}

// LoginConfig drives the two-step login: the emailed one-time code and
// the session issued once the code is verified.
type LoginConfig struct {
	CodeLength   int    `yaml:"code_length"`
	CodeTTL      string `yaml:"code_ttl"`
	SessionTTL   string `yaml:"session_ttl"`
	TicketSecret string `yaml:"ticket_secret"`
	Issuer       string `yaml:"issuer"`
}

type MailConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	Secure   bool   `yaml:"secure"`
	Username string `yaml:"username"`
	Password string `yaml:"password"`
	Domain   string `yaml:"domain"`
	Sender   string `yaml:"sender"`
}

type VisitsConfig struct {
	// Scope of the rendered visit list: "all" shows every inspector's
	// visits, "mine" only the authenticated user's.
	Scope string `yaml:"scope"`
}

// Load reads the configuration file and environment variables
func Load(configPath string) (*Config, error) {
	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	// Override with environment variables
	if port := os.Getenv("PORT"); port != "" {
		p, err := strconv.Atoi(port)
		if err != nil {
			return nil, fmt.Errorf("invalid PORT value: %w", err)
		}
		cfg.Server.Port = p
	}

	if mailHost := os.Getenv("MAIL_HOST"); mailHost != "" {
		cfg.Mail.Host = mailHost
	}

	if mailPort := os.Getenv("MAIL_PORT"); mailPort != "" {
		p, err := strconv.Atoi(mailPort)
		if err != nil {
			return nil, fmt.Errorf("invalid MAIL_PORT value: %w", err)
		}
		cfg.Mail.Port = p
	}

	if mailSecure := os.Getenv("MAIL_SECURE"); mailSecure != "" {
		cfg.Mail.Secure = mailSecure == "true"
	}

	if mailUser := os.Getenv("MAIL_USER"); mailUser != "" {
		cfg.Mail.Username = mailUser
	}

	if mailPass := os.Getenv("MAIL_PASSWORD"); mailPass != "" {
		cfg.Mail.Password = mailPass
	}

	if mailDomain := os.Getenv("MAIL_DOMAIN"); mailDomain != "" {
		cfg.Mail.Domain = mailDomain
	}

	if mailSender := os.Getenv("MAIL_SENDER"); mailSender != "" {
		cfg.Mail.Sender = mailSender
	}

	if ticketSecret := os.Getenv("VISITLOG_TICKET_SECRET"); ticketSecret != "" {
		cfg.Login.TicketSecret = ticketSecret
	}

	if dbType := os.Getenv("VISITLOG_DB_TYPE"); dbType != "" {
		cfg.Database.Type = dbType
	}

	if dbPath := os.Getenv("VISITLOG_DB_PATH"); dbPath != "" {
		cfg.Database.SQLite.Path = dbPath
	}

	if mysqlHost := os.Getenv("VISITLOG_MYSQL_HOST"); mysqlHost != "" {
		cfg.Database.MySQL.Host = mysqlHost
	}

	if mysqlUser := os.Getenv("VISITLOG_MYSQL_USER"); mysqlUser != "" {
		cfg.Database.MySQL.Username = mysqlUser
	}

	if mysqlPass := os.Getenv("VISITLOG_MYSQL_PASSWORD"); mysqlPass != "" {
		cfg.Database.MySQL.Password = mysqlPass
	}

	if mysqlDB := os.Getenv("VISITLOG_MYSQL_DATABASE"); mysqlDB != "" {
		cfg.Database.MySQL.Database = mysqlDB
	}

	// Ensure data directory exists for SQLite
	if cfg.Database.Type == "sqlite" {
		dataDir := filepath.Dir(cfg.Database.SQLite.Path)
		if err := os.MkdirAll(dataDir, 0755); err != nil {
			return nil, fmt.Errorf("failed to create data directory: %w", err)
		}
	}

	// Validate MySQL configuration if MySQL is selected
	if cfg.Database.Type == "mysql" {
		if cfg.Database.MySQL.Username == "" {
			return nil, fmt.Errorf("MySQL username is required")
		}
		if cfg.Database.MySQL.Database == "" {
			return nil, fmt.Errorf("MySQL database name is required")
		}
	}

	if cfg.Visits.Scope == "" {
		cfg.Visits.Scope = "all"
	}
	if cfg.Visits.Scope != "all" && cfg.Visits.Scope != "mine" {
		return nil, fmt.Errorf("unsupported visits scope: %s", cfg.Visits.Scope)
	}

	return &cfg, nil
}
