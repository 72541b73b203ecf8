package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spigell/career-advisor/internal/auth"
	"github.com/spigell/career-advisor/internal/metrics"
	"github.com/spigell/career-advisor/internal/server"
	"github.com/spigell/career-advisor/internal/store"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API",
	Run: func(_ *cobra.Command, _ []string) {
		serve()
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().String("addr", "", "listen address, overrides server.addr")
	viper.BindPFlag("server.addr", serveCmd.Flags().Lookup("addr"))
}

func serve() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger := buildLogger()
	defer logger.Sync()

	config, err := getConfig()
	if err != nil {
		logger.Fatal("getting a config", zap.Error(err))
	}

	logger.Info("starting the career-advisor", zap.String("version", version))

	tokens, err := newTokens(config.Auth)
	if err != nil {
		logger.Fatal("loading jwt secret", zap.Error(err))
	}

	db, err := store.Connect(ctx, config.Redis)
	if err != nil {
		logger.Fatal("connecting to redis", zap.Error(err), zap.String("addr", config.Redis.Addr))
	}
	defer db.Close()

	m := metrics.New()

	adv, err := newAdvisor(ctx, config, logger, m)
	if err != nil {
		logger.Fatal("building the advisor", zap.Error(err))
	}

	srv, err := server.New(config.Server, config.Plans, server.Deps{
		Advisor:   adv,
		Store:     db,
		Tokens:    tokens,
		Passwords: auth.NewPasswords(config.Auth.BcryptCost),
		Metrics:   m,
		Logger:    logger,
	})
	if err != nil {
		logger.Fatal("building the server", zap.Error(err))
	}

	if err := srv.Run(ctx); err != nil {
		logger.Fatal("server stopped with error", zap.Error(err))
	}
}
