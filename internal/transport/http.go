package transport

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/rpggio/feeuplift/internal/domain/audit"
	"github.com/rpggio/feeuplift/internal/domain/casefile"
	"github.com/rpggio/feeuplift/internal/domain/task"
	"github.com/rpggio/feeuplift/internal/domain/team"
	"github.com/rpggio/feeuplift/internal/domain/workflow"
)

// CaseService defines case operations needed by the REST API.
type CaseService interface {
	CreateCase(ctx context.Context, req casefile.CreateRequest) (*casefile.Case, error)
	Get(ctx context.Context, id string) (*casefile.Case, error)
	List(ctx context.Context, opts casefile.ListOptions) ([]casefile.Case, error)
	CurrentActions(ctx context.Context, caseID string) ([]string, error)
	ApplyTransition(ctx context.Context, req casefile.TransitionRequest) (*casefile.TransitionResult, error)
	History(ctx context.Context, caseID string) ([]audit.Entry, error)
	Tasks(ctx context.Context, caseID string) ([]task.Task, error)
	Queue(ctx context.Context, teamName string) ([]casefile.Case, error)
	Overdue(ctx context.Context) ([]casefile.Case, error)
	Teams(ctx context.Context) ([]team.Team, error)
}

// Server wires HTTP handlers.
type Server struct {
	cases  CaseService
	logger *slog.Logger
}

// NewServer creates the HTTP router. mcpHandler, when non-nil, is mounted at /mcp.
func NewServer(cases CaseService, mcpHandler http.Handler, logger *slog.Logger) *chi.Mux {
	r := chi.NewRouter()

	r.Use(middleware.Recoverer)
	r.Use(requestLogger(logger))
	r.Use(ActorMiddleware)

	srv := &Server{cases: cases, logger: logger}

	r.Get("/health", srv.handleHealth)

	r.Get("/teams", srv.handleListTeams)
	r.Get("/teams/{name}/queue", srv.handleTeamQueue)

	r.Route("/cases", func(r chi.Router) {
		r.Post("/", srv.handleCreateCase)
		r.Get("/", srv.handleListCases)
		r.Get("/overdue", srv.handleOverdue)

		r.Route("/{id}", func(r chi.Router) {
			r.Get("/", srv.handleGetCase)
			r.Get("/actions", srv.handleActions)
			r.Post("/transitions", srv.handleTransition)
			r.Get("/history", srv.handleHistory)
			r.Get("/tasks", srv.handleTasks)
		})
	})

	if mcpHandler != nil {
		r.Handle("/mcp", mcpHandler)
		r.Handle("/mcp/*", mcpHandler)
	}

	return r
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

type createCaseRequest struct {
	Title             string `json:"title"`
	ClientName        string `json:"client_name"`
	ClientIOReference string `json:"client_io_reference"`
	ProviderName      string `json:"provider_name"`
	SignatureType     string `json:"signature_type"`
	SLADays           int    `json:"sla_days"`
}

type transitionRequest struct {
	Action          string `json:"action"`
	Note            string `json:"note"`
	ExpectedVersion *int64 `json:"expected_version"`
}

type caseResponse struct {
	*casefile.Case
	Actions []string `json:"actions"`
	Overdue bool     `json:"overdue"`
}

func (s *Server) handleCreateCase(w http.ResponseWriter, r *http.Request) {
	var req createCaseRequest
	if err := decodeJSON(r.Body, &req); err != nil {
		writeError(w, err)
		return
	}

	c, err := s.cases.CreateCase(r.Context(), casefile.CreateRequest{
		Title:             req.Title,
		ClientName:        req.ClientName,
		ClientIOReference: req.ClientIOReference,
		ProviderName:      req.ProviderName,
		SignatureType:     casefile.SignatureType(strings.ToUpper(strings.TrimSpace(req.SignatureType))),
		SLADays:           req.SLADays,
		Actor:             ActorFromContext(r.Context()),
	})
	if err != nil {
		s.fail(w, r, err)
		return
	}

	w.Header().Set("Location", "/cases/"+c.ID)
	writeJSON(w, http.StatusCreated, newCaseResponse(c))
}

func (s *Server) handleListCases(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	opts := casefile.ListOptions{TeamName: strings.TrimSpace(query.Get("team"))}

	for _, raw := range query["status"] {
		status, err := workflow.ParseStatus(strings.ToUpper(strings.TrimSpace(raw)))
		if err != nil {
			writeJSON(w, http.StatusBadRequest, ErrorBody{Code: "invalid_input", Message: err.Error()})
			return
		}
		opts.Statuses = append(opts.Statuses, status)
	}

	var err error
	if opts.Limit, err = intParam(query.Get("limit")); err != nil {
		writeJSON(w, http.StatusBadRequest, ErrorBody{Code: "invalid_input", Message: "limit must be a non-negative integer"})
		return
	}
	if opts.Offset, err = intParam(query.Get("offset")); err != nil {
		writeJSON(w, http.StatusBadRequest, ErrorBody{Code: "invalid_input", Message: "offset must be a non-negative integer"})
		return
	}

	cases, err := s.cases.List(r.Context(), opts)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, nonNil(cases))
}

func (s *Server) handleOverdue(w http.ResponseWriter, r *http.Request) {
	cases, err := s.cases.Overdue(r.Context())
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, nonNil(cases))
}

func (s *Server) handleGetCase(w http.ResponseWriter, r *http.Request) {
	c, err := s.cases.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, newCaseResponse(c))
}

func (s *Server) handleActions(w http.ResponseWriter, r *http.Request) {
	actions, err := s.cases.CurrentActions(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, actions)
}

func (s *Server) handleTransition(w http.ResponseWriter, r *http.Request) {
	var req transitionRequest
	if err := decodeJSON(r.Body, &req); err != nil {
		writeError(w, err)
		return
	}

	res, err := s.cases.ApplyTransition(r.Context(), casefile.TransitionRequest{
		CaseID:          chi.URLParam(r, "id"),
		Actor:           ActorFromContext(r.Context()),
		Action:          req.Action,
		Note:            req.Note,
		ExpectedVersion: req.ExpectedVersion,
	})
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

func (s *Server) handleHistory(w http.ResponseWriter, r *http.Request) {
	entries, err := s.cases.History(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, nonNil(entries))
}

func (s *Server) handleTasks(w http.ResponseWriter, r *http.Request) {
	tasks, err := s.cases.Tasks(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, nonNil(tasks))
}

func (s *Server) handleListTeams(w http.ResponseWriter, r *http.Request) {
	teams, err := s.cases.Teams(r.Context())
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, nonNil(teams))
}

func (s *Server) handleTeamQueue(w http.ResponseWriter, r *http.Request) {
	cases, err := s.cases.Queue(r.Context(), chi.URLParam(r, "name"))
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, nonNil(cases))
}

func (s *Server) fail(w http.ResponseWriter, r *http.Request, err error) {
	if status, _ := StatusFor(err); status == http.StatusInternalServerError && s.logger != nil {
		s.logger.Error("request failed", "method", r.Method, "path", r.URL.Path, "error", err)
	}
	writeError(w, err)
}

func newCaseResponse(c *casefile.Case) caseResponse {
	actions := workflow.ActionsFor(c.Status)
	if actions == nil {
		actions = []string{}
	}
	return caseResponse{Case: c, Actions: actions, Overdue: c.IsOverdue(time.Now().UTC())}
}

func nonNil[T any](items []T) []T {
	if items == nil {
		return []T{}
	}
	return items
}

func intParam(raw string) (int, error) {
	if raw == "" {
		return 0, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil || v < 0 {
		return 0, strconv.ErrSyntax
	}
	return v, nil
}

func requestLogger(logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if logger == nil || !logger.Enabled(r.Context(), slog.LevelDebug) {
				next.ServeHTTP(w, r)
				return
			}
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			start := time.Now()
			next.ServeHTTP(ww, r)
			logger.Debug("http request",
				"method", r.Method,
				"path", r.URL.Path,
				"status", ww.Status(),
				"actor", ActorFromContext(r.Context()).String(),
				"duration", time.Since(start),
			)
		})
	}
}
