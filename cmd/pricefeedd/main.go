package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/foresta-global/pricefeed/feed/config"
	"github.com/foresta-global/pricefeed/feed/daemon"
	feedlog "github.com/foresta-global/pricefeed/feed/log"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "pricefeedd",
		Short: "Offchain price feed daemon",
	}
	rootCmd.PersistentFlags().String("home", "", "daemon home directory (default ~/.pricefeedd)")
	rootCmd.AddCommand(startCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func startCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "start",
		Short: "Run the fetch-sign-submit worker",
		RunE: func(cmd *cobra.Command, args []string) error {
			home, err := cmd.Flags().GetString("home")
			if err != nil {
				return err
			}

			feedlog.InitLogger()
			config.Load(home)
			feedlog.ResetLogger(config.Home())
			config.Print()

			ctx, cancel := context.WithCancel(cmd.Context())
			defer cancel()

			d, err := daemon.New(ctx)
			if err != nil {
				return fmt.Errorf("failed to create daemon: %w", err)
			}
			d.Start()

			c := make(chan os.Signal, 1)
			signal.Notify(c, os.Interrupt, syscall.SIGTERM)
			<-c

			feedlog.Info("Shutting down")
			cancel()
			d.Wait()
			return nil
		},
	}
}
