package core

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// App names accepted in Config.Apps.
const (
	AppFyyur  = "fyyur"
	AppTrivia = "trivia"
	AppCoffee = "coffee"
)

type (
	Config struct {
		Env          string
		Debug        bool
		TestMode     bool
		Build        string
		AppName      string
		Apps         []string
		RollbarToken string

		Server   ServerConfig
		Database DatabaseConfig
		Auth     AuthConfig
		Trivia   TriviaConfig
	}

	ServerConfig struct {
		Host            string
		Address         string
		DebugHost       string
		ReadTimeout     time.Duration
		WriteTimeout    time.Duration
		ShutdownTimeout time.Duration
		DisableReqLogs  bool
	}

	DatabaseConfig struct {
		Engine        string // postgres | sqlite
		Host          string
		Port          int
		Name          string
		User          string
		Password      string
		AdminUser     string
		AdminPassword string
		DisableTLS    bool
		Path          string // sqlite only
		MaxOpenConns  int
	}

	AuthConfig struct {
		Domain    string
		Issuer    string // overrides the issuer derived from Domain
		Audience  []string
		CacheTTL  time.Duration
		ClockSkew time.Duration
	}

	TriviaConfig struct {
		QuestionsPerPage int
	}
)

// Address returns the database "host:port".
func (c DatabaseConfig) Address() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// IssuerURL returns the token issuer, e.g. "https://tenant.auth0.com/".
func (c AuthConfig) IssuerURL() string {
	if c.Issuer != "" {
		return c.Issuer
	}
	return "https://" + c.Domain + "/"
}

// HasApp reports whether the named app is enabled.
func (c *Config) HasApp(name string) bool {
	for _, app := range c.Apps {
		if strings.EqualFold(app, name) {
			return true
		}
	}
	return false
}

// NewConfig loads the configuration from defaults, an optional `config/.env.<env>` file and the environment.
// Environment variables are prefixed by the current env, e.g. `DEV_DATABASE_HOST`.
func NewConfig() *Config {
	v := viper.New()

	// defaults
	v.SetTypeByDefaultValue(true)
	v.SetDefault("debug", true)
	v.SetDefault("testMode", false)
	v.SetDefault("build", "develop")
	v.SetDefault("appName", "fsnd")
	v.SetDefault("apps", []string{AppFyyur, AppTrivia, AppCoffee})
	v.SetDefault("rollbarToken", "")

	v.SetDefault("server.host", "localhost")
	v.SetDefault("server.address", ":8000")
	v.SetDefault("server.debugHost", "localhost:4000")
	v.SetDefault("server.readTimeout", 5*time.Second)
	v.SetDefault("server.writeTimeout", 5*time.Second)
	v.SetDefault("server.shutdownTimeout", 5*time.Second)
	v.SetDefault("server.disableReqLogs", false)

	v.SetDefault("database.engine", "sqlite")
	v.SetDefault("database.host", "localhost")
	v.SetDefault("database.port", 5432)
	v.SetDefault("database.name", "fsnd")
	v.SetDefault("database.user", "")
	v.SetDefault("database.password", "")
	v.SetDefault("database.adminUser", "")
	v.SetDefault("database.adminPassword", "")
	v.SetDefault("database.disableTLS", true)
	v.SetDefault("database.path", "fsnd.db")
	v.SetDefault("database.maxOpenConns", 10)

	v.SetDefault("auth.domain", "fsnd.us.auth0.com")
	v.SetDefault("auth.issuer", "")
	v.SetDefault("auth.audience", []string{"drinks"})
	v.SetDefault("auth.cacheTTL", 5*time.Minute)
	v.SetDefault("auth.clockSkew", 30*time.Second)

	v.SetDefault("trivia.questionsPerPage", 10)

	env := strings.ToUpper(os.Getenv("ENV")) // DEV (local; default), TEST, QA, PROD
	switch env {
	case "":
		env = "DEV"
	case "TEST":
		v.SetDefault("testMode", true)
	}
	v.SetDefault("env", env)
	v.SetEnvPrefix(env)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	// load .env if it exists (ignore if it does not)
	if root, err := ProjectRoot(); err == nil {
		dotEnvPath := filepath.Join(root, "config", ".env."+strings.ToLower(env))
		if _, err := os.Stat(dotEnvPath); err == nil {
			if err := godotenv.Load(dotEnvPath); err != nil {
				log.Fatalf("config.godotenv(%s): %v", dotEnvPath, err)
			}
		} else if !os.IsNotExist(err) {
			log.Fatalf("config.os.Stat(%s): %v", dotEnvPath, err)
		}
	}
	v.AutomaticEnv()

	return &Config{
		Env:          v.GetString("env"),
		Debug:        v.GetBool("debug"),
		TestMode:     v.GetBool("testMode"),
		Build:        v.GetString("build"),
		AppName:      v.GetString("appName"),
		Apps:         splitList(v.GetStringSlice("apps")),
		RollbarToken: v.GetString("rollbarToken"),
		Server: ServerConfig{
			Host:            v.GetString("server.host"),
			Address:         v.GetString("server.address"),
			DebugHost:       v.GetString("server.debugHost"),
			ReadTimeout:     v.GetDuration("server.readTimeout"),
			WriteTimeout:    v.GetDuration("server.writeTimeout"),
			ShutdownTimeout: v.GetDuration("server.shutdownTimeout"),
			DisableReqLogs:  v.GetBool("server.disableReqLogs"),
		},
		Database: DatabaseConfig{
			Engine:        v.GetString("database.engine"),
			Host:          v.GetString("database.host"),
			Port:          v.GetInt("database.port"),
			Name:          v.GetString("database.name"),
			User:          v.GetString("database.user"),
			Password:      v.GetString("database.password"),
			AdminUser:     v.GetString("database.adminUser"),
			AdminPassword: v.GetString("database.adminPassword"),
			DisableTLS:    v.GetBool("database.disableTLS"),
			Path:          v.GetString("database.path"),
			MaxOpenConns:  v.GetInt("database.maxOpenConns"),
		},
		Auth: AuthConfig{
			Domain:    v.GetString("auth.domain"),
			Issuer:    v.GetString("auth.issuer"),
			Audience:  splitList(v.GetStringSlice("auth.audience")),
			CacheTTL:  v.GetDuration("auth.cacheTTL"),
			ClockSkew: v.GetDuration("auth.clockSkew"),
		},
		Trivia: TriviaConfig{
			QuestionsPerPage: v.GetInt("trivia.questionsPerPage"),
		},
	}
}

// splitList accepts both `a b` (viper's env splitting) and `a,b`.
func splitList(in []string) []string {
	out := make([]string, 0, len(in))
	for _, s := range in {
		for _, part := range strings.Split(s, ",") {
			if part = CleanString(part); part != "" {
				out = append(out, part)
			}
		}
	}
	return out
}
