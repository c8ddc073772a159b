package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/rpggio/feeuplift/internal/domain/audit"
	"github.com/rpggio/feeuplift/internal/domain/casefile"
	"github.com/rpggio/feeuplift/internal/domain/task"
	"github.com/rpggio/feeuplift/internal/domain/team"
)

var (
	headerStyle  = lipgloss.NewStyle().Bold(true).Padding(0, 1)
	cellStyle    = lipgloss.NewStyle().Padding(0, 1)
	overdueStyle = cellStyle.Foreground(lipgloss.Color("9"))
	borderStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
	labelStyle   = lipgloss.NewStyle().Bold(true).Width(14)
)

const timeLayout = "2006-01-02 15:04"

// printer writes command results as tables or, with --json, as JSON.
type printer struct {
	w    io.Writer
	json bool
	now  time.Time
}

func (a *app) printer(w io.Writer) *printer {
	return &printer{w: w, json: a.jsonOutput, now: time.Now().UTC()}
}

func (p *printer) encode(v any) error {
	enc := json.NewEncoder(p.w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func (p *printer) table(headers []string, rows [][]string, highlight func(row int) bool) {
	t := table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(borderStyle).
		StyleFunc(func(row, _ int) lipgloss.Style {
			switch {
			case row == table.HeaderRow:
				return headerStyle
			case highlight != nil && highlight(row):
				return overdueStyle
			default:
				return cellStyle
			}
		}).
		Headers(headers...).
		Rows(rows...)
	fmt.Fprintln(p.w, t.Render())
}

func (p *printer) cases(cases []casefile.Case) error {
	if p.json {
		if cases == nil {
			cases = []casefile.Case{}
		}
		return p.encode(cases)
	}
	if len(cases) == 0 {
		fmt.Fprintln(p.w, "no cases")
		return nil
	}
	rows := make([][]string, 0, len(cases))
	for _, c := range cases {
		rows = append(rows, []string{
			c.ID, c.Title, c.ClientName, c.ProviderName, string(c.Status), teamName(c.AssignedTeam), formatDue(c.DueAt),
		})
	}
	p.table([]string{"ID", "TITLE", "CLIENT", "PROVIDER", "STATUS", "TEAM", "DUE"}, rows, func(row int) bool {
		return cases[row].IsOverdue(p.now)
	})
	return nil
}

func (p *printer) caseDetail(c *casefile.Case, actions []string) error {
	if p.json {
		if actions == nil {
			actions = []string{}
		}
		return p.encode(struct {
			*casefile.Case
			Actions []string `json:"actions"`
			Overdue bool     `json:"overdue"`
		}{c, actions, c.IsOverdue(p.now)})
	}
	fields := [][2]string{
		{"ID", c.ID},
		{"Title", c.Title},
		{"Client", c.ClientName},
		{"Provider", c.ProviderName},
		{"Signature", string(c.SignatureType)},
		{"Status", string(c.Status)},
		{"Team", teamName(c.AssignedTeam)},
		{"SLA days", strconv.Itoa(c.SLADays)},
		{"Due", formatDue(c.DueAt)},
		{"Version", strconv.FormatInt(c.Version, 10)},
	}
	for _, f := range fields {
		fmt.Fprintln(p.w, labelStyle.Render(f[0])+f[1])
	}
	if c.IsOverdue(p.now) {
		fmt.Fprintln(p.w, overdueStyle.Render("OVERDUE"))
	}
	return p.actions(actions)
}

func (p *printer) actions(actions []string) error {
	if p.json {
		if actions == nil {
			actions = []string{}
		}
		return p.encode(actions)
	}
	if len(actions) == 0 {
		fmt.Fprintln(p.w, "no further actions")
		return nil
	}
	fmt.Fprintln(p.w, "Next actions:")
	for _, action := range actions {
		fmt.Fprintf(p.w, "  - %s\n", action)
	}
	return nil
}

func (p *printer) transition(res *casefile.TransitionResult) error {
	if p.json {
		return p.encode(res)
	}
	fmt.Fprintf(p.w, "%s -> %s (version %d)\n", res.Transition.From, res.Transition.To, res.Case.Version)
	if res.Task != nil {
		fmt.Fprintf(p.w, "task %q assigned to %s, due %s\n", res.Task.Title, res.Task.Team.Name, res.Task.DueAt.Format(timeLayout))
	}
	return nil
}

func (p *printer) history(entries []audit.Entry) error {
	if p.json {
		if entries == nil {
			entries = []audit.Entry{}
		}
		return p.encode(entries)
	}
	rows := make([][]string, 0, len(entries))
	for _, e := range entries {
		rows = append(rows, []string{e.CreatedAt.Format(timeLayout), e.Actor.String(), e.Action, e.Note})
	}
	p.table([]string{"WHEN", "ACTOR", "ACTION", "NOTE"}, rows, nil)
	return nil
}

func (p *printer) tasks(tasks []task.Task) error {
	if p.json {
		if tasks == nil {
			tasks = []task.Task{}
		}
		return p.encode(tasks)
	}
	if len(tasks) == 0 {
		fmt.Fprintln(p.w, "no tasks")
		return nil
	}
	rows := make([][]string, 0, len(tasks))
	for _, t := range tasks {
		rows = append(rows, []string{t.Title, t.Team.Name, string(t.Status), t.DueAt.Format(timeLayout)})
	}
	p.table([]string{"TITLE", "TEAM", "STATUS", "DUE"}, rows, nil)
	return nil
}

func (p *printer) teams(teams []team.Team) error {
	if p.json {
		if teams == nil {
			teams = []team.Team{}
		}
		return p.encode(teams)
	}
	rows := make([][]string, 0, len(teams))
	for _, t := range teams {
		rows = append(rows, []string{t.Name, t.ID})
	}
	p.table([]string{"TEAM", "ID"}, rows, nil)
	return nil
}

func teamName(ref *team.Ref) string {
	if ref == nil {
		return "-"
	}
	return ref.Name
}

func formatDue(due *time.Time) string {
	if due == nil {
		return "-"
	}
	return due.Format(timeLayout)
}
