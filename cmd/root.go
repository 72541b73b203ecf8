package cmd

import (
	"errors"
	"log"
	"strings"
	"time"

	"github.com/spigell/career-advisor/internal/advisor"
	"github.com/spigell/career-advisor/internal/ai/gemini"
	"github.com/spigell/career-advisor/internal/auth"
	"github.com/spigell/career-advisor/internal/server"
	"github.com/spigell/career-advisor/internal/store"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

const (
	app       = "career-advisor"
	envPrefix = "CAREER_ADVISOR"
)

type Config struct {
	Server server.Config     `mapstructure:"server"`
	Redis  store.RedisConfig `mapstructure:"redis"`
	Auth   AuthConfig        `mapstructure:"auth"`
	Plans  server.Plans      `mapstructure:"plans"`
	AI     *AIConfig         `mapstructure:"ai"`
	Policy advisor.Policy    `mapstructure:"policy"`
}

type AuthConfig struct {
	JWTSecret     string        `mapstructure:"jwt-secret"`
	JWTSecretFile string        `mapstructure:"jwt-secret-file"`
	TokenTTL      time.Duration `mapstructure:"token-ttl"`
	BcryptCost    int           `mapstructure:"bcrypt-cost"`
}

type AIConfig struct {
	Enabled  bool          `mapstructure:"enabled"`
	Provider string        `mapstructure:"provider"`
	Gemini   *GeminiConfig `mapstructure:"gemini"`
}

type GeminiConfig struct {
	APIKey       string `mapstructure:"api-key"`
	APIKeyFile   string `mapstructure:"api-key-file"`
	Model        string `mapstructure:"model"`
	MaxLogLength int    `mapstructure:"max-log-length"`
}

var (
	// Used for flags.
	cfgFile string

	rootCmd = &cobra.Command{
		Use:   app,
		Short: "career-advisor serves career guidance, resume analysis and onboarding suggestions",
	}
)

// Execute executes the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "a config file (default is career-advisor.yaml in current directory)")
	rootCmd.PersistentFlags().BoolP("debug", "d", false, "verbose/debug output")
	rootCmd.PersistentFlags().BoolP("json", "j", false, "json format for logging")

	viper.BindPFlag("debug", rootCmd.PersistentFlags().Lookup("debug"))
	viper.BindPFlag("json", rootCmd.PersistentFlags().Lookup("json"))
}

func initConfig() {
	// A missing .env is fine; variables may come from the environment itself.
	_ = godotenv.Load()

	configure(viper.GetViper())

	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.AddConfigPath(".")
		viper.SetConfigName(app)
		viper.SetConfigType("yaml")
	}

	// The default config file is optional, an explicit one is not.
	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if cfgFile != "" || !errors.As(err, &notFound) {
			log.Fatal(err)
		}
	}
}

// configure registers defaults for every key so that environment variables
// such as CAREER_ADVISOR_REDIS_ADDR reach Unmarshal.
func configure(v *viper.Viper) {
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()

	serverDefaults := server.DefaultConfig()
	v.SetDefault("server.addr", serverDefaults.Addr)
	v.SetDefault("server.read-timeout", serverDefaults.ReadTimeout)
	v.SetDefault("server.write-timeout", serverDefaults.WriteTimeout)
	v.SetDefault("server.max-upload-bytes", serverDefaults.MaxUploadBytes)

	v.SetDefault("redis.addr", "localhost:6379")
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)

	v.SetDefault("auth.jwt-secret", "")
	v.SetDefault("auth.jwt-secret-file", "")
	v.SetDefault("auth.token-ttl", auth.DefaultTokenTTL)
	v.SetDefault("auth.bcrypt-cost", auth.DefaultBcryptCost)

	plans := server.DefaultPlans()
	v.SetDefault("plans.free-chat-messages", plans.FreeChatMessages)
	v.SetDefault("plans.free-resume-scans", plans.FreeResumeScans)
	v.SetDefault("plans.chat-context-turns", plans.ChatContextTurns)
	v.SetDefault("plans.chat-history-limit", plans.ChatHistoryLimit)
	v.SetDefault("plans.resume-history-limit", plans.ResumeHistoryLimit)

	v.SetDefault("ai.enabled", false)
	v.SetDefault("ai.provider", "gemini")
	v.SetDefault("ai.gemini.api-key", "")
	v.SetDefault("ai.gemini.api-key-file", "")
	v.SetDefault("ai.gemini.model", gemini.DefaultModel)
	v.SetDefault("ai.gemini.max-log-length", 0)
}

func getConfig() (*Config, error) {
	return decodeConfig(viper.GetViper())
}

func decodeConfig(v *viper.Viper) (*Config, error) {
	var config *Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, err
	}

	if config == nil {
		return nil, errors.New("config is empty")
	}

	return config, nil
}
