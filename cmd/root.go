package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/dtrann/clothify/internal/common"
	"github.com/dtrann/clothify/internal/log"
)

func Start() {
	logger := log.InitLogger("/var/log/clothify.log").
		With().
		Str(log.KeyAppName, common.AppClothifyApi).
		Str(log.KeyTag, "main Start").
		Logger()

	logger.Info().Msg("adding listener for SIGINT and SIGTERM")
	c, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	logger.Info().Msg("added listener for SIGINT and SIGTERM")

	c = logger.WithContext(c)

	rootCmd := &cobra.Command{Use: "clothify"}
	rootCmd.AddCommand(&cobra.Command{
		Use:   "serve",
		Short: "Run the clothify api server",
		Run: func(cmd *cobra.Command, args []string) {
			RunApiServer(cmd.Context())
		},
	})
	if err := rootCmd.ExecuteContext(c); err != nil {
		logger.Fatal().Err(err).Msgf("error when executing command=%s", err.Error())
	}
}
