package cli

import (
	"github.com/spf13/cobra"
)

func newTeamsCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "teams",
		Short: "List the teams cases are routed to",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := a.open(cmd.Context(), cmd.ErrOrStderr()); err != nil {
				return err
			}
			teams, err := a.cases.Teams(cmd.Context())
			if err != nil {
				return err
			}
			return a.printer(cmd.OutOrStdout()).teams(teams)
		},
	}
}

func newQueueCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "queue <team>",
		Short: "Show the cases a team should act on, soonest due first",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.open(cmd.Context(), cmd.ErrOrStderr()); err != nil {
				return err
			}
			cases, err := a.cases.Queue(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			return a.printer(cmd.OutOrStdout()).cases(cases)
		},
	}
}

func newOverdueCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "overdue",
		Short: "Show unfinished cases past their SLA due date",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := a.open(cmd.Context(), cmd.ErrOrStderr()); err != nil {
				return err
			}
			cases, err := a.cases.Overdue(cmd.Context())
			if err != nil {
				return err
			}
			return a.printer(cmd.OutOrStdout()).cases(cases)
		},
	}
}
