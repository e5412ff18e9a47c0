package main

import (
	"context"

	"github.com/mcdev12/hackclock/go/clients/hackathon_client"
	"github.com/mcdev12/hackclock/go/internal/render"
	"github.com/mcdev12/hackclock/go/internal/submission"
	"github.com/spf13/cobra"
)

// submissionCommand wires the terminal, services and submission service for one run.
func submissionCommand(opts *rootOptions, cmd *cobra.Command, run func(ctx context.Context, svc *submission.Service, term *render.Terminal) error) error {
	ctx, cancel := signalContext()
	defer cancel()

	term := render.NewTerminal(cmd.OutOrStdout(), opts.cfg.Render.Color)
	services, err := setupServices(opts.cfg, term)
	if err != nil {
		return err
	}
	defer services.Close()

	svc := submission.NewService(services.Client, services.Engine, term)
	return run(ctx, svc, term)
}

func newSubmitCmd(opts *rootOptions) *cobra.Command {
	var project hackathon_client.ProjectSubmission

	cmd := &cobra.Command{
		Use:   "submit",
		Short: "Submit a project before the deadline",
		RunE: func(cmd *cobra.Command, args []string) error {
			return submissionCommand(opts, cmd, func(ctx context.Context, svc *submission.Service, term *render.Terminal) error {
				_, err := svc.Submit(ctx, project)
				return err
			})
		},
	}

	flags := cmd.Flags()
	flags.StringVar(&project.Email, "email", "", "team contact email")
	flags.StringVar(&project.GitHub, "github", "", "GitHub repository URL")
	flags.StringVar(&project.Video, "video", "", "demo video URL")
	return cmd
}

func newSubmissionsCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "submissions",
		Short: "List submitted projects, newest first",
		RunE: func(cmd *cobra.Command, args []string) error {
			return submissionCommand(opts, cmd, func(ctx context.Context, svc *submission.Service, term *render.Terminal) error {
				submissions, err := svc.Submissions(ctx)
				if err != nil {
					return err
				}
				term.Print(term.FormatSubmissions(submissions))
				return nil
			})
		},
	}
}

func newWinnersCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "winners",
		Short: "List the announced winners",
		RunE: func(cmd *cobra.Command, args []string) error {
			return submissionCommand(opts, cmd, func(ctx context.Context, svc *submission.Service, term *render.Terminal) error {
				winners, err := svc.Winners(ctx)
				if err != nil {
					return err
				}
				term.Print(term.FormatWinners(winners))
				return nil
			})
		},
	}
}
