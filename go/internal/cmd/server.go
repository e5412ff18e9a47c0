package main

import (
	"net"

	"github.com/mcdev12/hackclock/go/internal/alert"
	"github.com/mcdev12/hackclock/go/internal/gateway"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

func newServeCmd(opts *rootOptions) *cobra.Command {
	var port string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the countdown to websocket clients",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := signalContext()
			defer cancel()

			cfg := opts.cfg
			if port != "" {
				cfg.Gateway.Port = port
			}

			services, err := setupServices(cfg, alert.Log{})
			if err != nil {
				return err
			}
			defer services.Close()

			if err := services.connectNATS(ctx, true); err != nil {
				return err
			}

			var natsStatus gateway.NATSStatus
			if services.Consumer != nil {
				natsStatus = services.Consumer
			}
			gatewayService := gateway.NewService(gateway.DefaultConnectionConfig(), services.Engine, natsStatus)
			gatewayService.SetMetrics(services.Metrics)
			services.Engine.Subscribe(gatewayService.Sink())

			go gatewayService.Start(ctx)
			services.startConsumer(ctx)
			services.loadInitial(ctx)

			log.Info().
				Str("server_url", cfg.Server.URL).
				Str("port", cfg.Gateway.Port).
				Bool("nats", cfg.NATS.Enabled).
				Msg("starting countdown gateway")

			return gatewayService.ListenAndServe(ctx, net.JoinHostPort("", cfg.Gateway.Port))
		},
	}

	cmd.Flags().StringVar(&port, "port", "", "listen port (overrides gateway.port)")
	return cmd
}
