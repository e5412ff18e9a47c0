package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/mcdev12/hackclock/go/clients/hackathon_client"
	"github.com/mcdev12/hackclock/go/internal/admin"
	"github.com/mcdev12/hackclock/go/internal/countdown"
	"github.com/mcdev12/hackclock/go/internal/render"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

// signalContext is cancelled on SIGINT or SIGTERM.
func signalContext() (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithCancel(context.Background())

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	go func() {
		select {
		case sig := <-sigChan:
			log.Info().Str("signal", sig.String()).Msg("received shutdown signal")
			cancel()
		case <-ctx.Done():
		}
		signal.Stop(sigChan)
	}()

	return ctx, cancel
}

func newWatchCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "watch",
		Short: "Show the live countdown in the terminal",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := signalContext()
			defer cancel()

			term := render.NewTerminal(cmd.OutOrStdout(), opts.cfg.Render.Color)
			services, err := setupServices(opts.cfg, term)
			if err != nil {
				return err
			}
			defer services.Close()

			services.Engine.Subscribe(
				term.CountdownSink(),
				term.SubmitSink(),
				term.MenuSink(),
				term.BannerSink(),
			)
			services.Details.Subscribe(term.DetailsSink())

			if err := services.connectNATS(ctx, true); err != nil {
				log.Warn().Err(err).Msg("continuing without live updates")
			}
			services.startConsumer(ctx)
			services.loadInitial(ctx)

			<-ctx.Done()
			fmt.Fprintln(cmd.OutOrStdout())
			return nil
		},
	}
}

func newUpdateCmd(opts *rootOptions) *cobra.Command {
	var update hackathon_client.HackathonUpdate

	cmd := &cobra.Command{
		Use:   "update",
		Short: "Update the hackathon deadline and details",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := signalContext()
			defer cancel()

			term := render.NewTerminal(cmd.OutOrStdout(), opts.cfg.Render.Color)
			services, err := setupServices(opts.cfg, term)
			if err != nil {
				return err
			}
			defer services.Close()

			if err := services.connectNATS(ctx, false); err != nil {
				log.Warn().Err(err).Msg("update will not be announced to other clients")
			}

			var publisher admin.Publisher
			if services.Publisher != nil {
				publisher = services.Publisher
			}
			svc := admin.NewService(services.Client, services.Engine, services.Details, publisher, term, services.Location)

			phase, err := svc.Update(ctx, update)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), countdown.CountdownText(phase))
			return nil
		},
	}

	flags := cmd.Flags()
	flags.StringVar(&update.Deadline, "deadline", "", "new submission deadline")
	flags.StringVar(&update.Title, "title", "", "hackathon title")
	flags.StringVar(&update.Description, "description", "", "hackathon description")
	flags.StringArrayVar(&update.Rules, "rule", nil, "a rule (repeatable)")
	flags.StringVar(&update.Prizes.First, "prize-first", "", "first prize")
	flags.StringVar(&update.Prizes.Second, "prize-second", "", "second prize")
	flags.StringVar(&update.Prizes.Third, "prize-third", "", "third prize")
	return cmd
}

func newDetailsCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "details",
		Short: "Print the hackathon details with derived deadlines",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := signalContext()
			defer cancel()

			term := render.NewTerminal(cmd.OutOrStdout(), opts.cfg.Render.Color)
			services, err := setupServices(opts.cfg, term)
			if err != nil {
				return err
			}
			defer services.Close()

			services.Details.Subscribe(term.DetailsSink())
			_, err = services.Details.Refresh(ctx)
			return err
		},
	}
}
