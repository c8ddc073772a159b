package cli

import (
	"errors"
	"strings"

	"github.com/spf13/cobra"

	"github.com/rpggio/feeuplift/internal/domain/casefile"
	"github.com/rpggio/feeuplift/internal/domain/workflow"
)

func newCaseCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "case",
		Short: "Create, inspect and move fee uplift cases",
	}
	cmd.AddCommand(
		newCaseCreateCmd(a),
		newCaseShowCmd(a),
		newCaseListCmd(a),
		newCaseActionsCmd(a),
		newCaseTransitionCmd(a),
		newCaseHistoryCmd(a),
		newCaseTasksCmd(a),
	)
	return cmd
}

func newCaseCreateCmd(a *app) *cobra.Command {
	var (
		req       casefile.CreateRequest
		signature string
	)
	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a case in DRAFT and route it to the Data team",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := a.open(cmd.Context(), cmd.ErrOrStderr()); err != nil {
				return err
			}
			req.SignatureType = casefile.SignatureType(strings.ToUpper(strings.TrimSpace(signature)))
			req.Actor = a.actor()
			c, err := a.cases.CreateCase(cmd.Context(), req)
			if err != nil {
				return err
			}
			return a.printer(cmd.OutOrStdout()).caseDetail(c, workflow.ActionsFor(c.Status))
		},
	}
	cmd.Flags().StringVar(&req.Title, "title", "", "case title (required)")
	cmd.Flags().StringVar(&req.ClientName, "client", "", "client name (required)")
	cmd.Flags().StringVar(&req.ClientIOReference, "io-ref", "", "client reference in the back-office system")
	cmd.Flags().StringVar(&req.ProviderName, "provider", "", "provider name (required)")
	cmd.Flags().StringVar(&signature, "signature", string(casefile.SignatureDocuSign), "signature type: DOCUSIGN, WET or POSITIVE_CONSENT")
	cmd.Flags().IntVar(&req.SLADays, "sla-days", 0, "SLA window in days (default from config)")
	return cmd
}

func newCaseShowCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "show <case-id>",
		Short: "Show a case and the actions available on it",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.open(cmd.Context(), cmd.ErrOrStderr()); err != nil {
				return err
			}
			c, err := a.cases.Get(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			return a.printer(cmd.OutOrStdout()).caseDetail(c, workflow.ActionsFor(c.Status))
		},
	}
}

func newCaseListCmd(a *app) *cobra.Command {
	var (
		statuses []string
		opts     casefile.ListOptions
	)
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List cases, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			for _, raw := range statuses {
				status, err := workflow.ParseStatus(strings.ToUpper(strings.TrimSpace(raw)))
				if err != nil {
					return err
				}
				opts.Statuses = append(opts.Statuses, status)
			}
			if opts.Limit < 0 || opts.Offset < 0 {
				return errors.New("limit and offset must not be negative")
			}
			if err := a.open(cmd.Context(), cmd.ErrOrStderr()); err != nil {
				return err
			}
			cases, err := a.cases.List(cmd.Context(), opts)
			if err != nil {
				return err
			}
			return a.printer(cmd.OutOrStdout()).cases(cases)
		},
	}
	cmd.Flags().StringSliceVar(&statuses, "status", nil, "only cases in these statuses")
	cmd.Flags().StringVar(&opts.TeamName, "team", "", "only cases assigned to this team")
	cmd.Flags().IntVar(&opts.Limit, "limit", 0, "maximum number of cases")
	cmd.Flags().IntVar(&opts.Offset, "offset", 0, "number of cases to skip")
	return cmd
}

func newCaseActionsCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "actions <case-id>",
		Short: "List the actions valid for a case right now",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.open(cmd.Context(), cmd.ErrOrStderr()); err != nil {
				return err
			}
			actions, err := a.cases.CurrentActions(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			return a.printer(cmd.OutOrStdout()).actions(actions)
		},
	}
}

func newCaseTransitionCmd(a *app) *cobra.Command {
	var (
		note            string
		expectedVersion int64
	)
	cmd := &cobra.Command{
		Use:   "transition <case-id> <action>",
		Short: "Apply an action to a case",
		Long: `Apply an action to a case. The action is one of the labels listed by
'feeuplift case actions', for example "Mark Ready to Send".`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.open(cmd.Context(), cmd.ErrOrStderr()); err != nil {
				return err
			}
			req := casefile.TransitionRequest{
				CaseID: args[0],
				Action: args[1],
				Note:   note,
				Actor:  a.actor(),
			}
			if cmd.Flags().Changed("expected-version") {
				req.ExpectedVersion = &expectedVersion
			}
			res, err := a.cases.ApplyTransition(cmd.Context(), req)
			if err != nil {
				return err
			}
			return a.printer(cmd.OutOrStdout()).transition(res)
		},
	}
	cmd.Flags().StringVar(&note, "note", "", "note recorded in the audit trail")
	cmd.Flags().Int64Var(&expectedVersion, "expected-version", 0, "reject the action if the case version differs")
	return cmd
}

func newCaseHistoryCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "history <case-id>",
		Short: "Show a case's audit trail",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.open(cmd.Context(), cmd.ErrOrStderr()); err != nil {
				return err
			}
			entries, err := a.cases.History(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			return a.printer(cmd.OutOrStdout()).history(entries)
		},
	}
}

func newCaseTasksCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "tasks <case-id>",
		Short: "Show the follow-up tasks spawned for a case",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.open(cmd.Context(), cmd.ErrOrStderr()); err != nil {
				return err
			}
			tasks, err := a.cases.Tasks(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			return a.printer(cmd.OutOrStdout()).tasks(tasks)
		},
	}
}
