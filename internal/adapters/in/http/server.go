package http

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"dispatch/internal/adapters/in/payload"
	"dispatch/internal/core/application/usecases/commands"
	"dispatch/internal/core/application/usecases/queries"
	"dispatch/internal/core/domain/model/assignment"
	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/domain/services"
	"dispatch/internal/pkg/auth"

	"github.com/labstack/echo/v4"
	"github.com/oapi-codegen/runtime"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	echoSwagger "github.com/swaggo/echo-swagger"
)

// Use case ports of the server. The command and query handlers implement them.
type (
	AssignJobsHandler interface {
		Handle(ctx context.Context, cmd commands.AssignJobsCommand) ([]assignment.Result, error)
	}
	DispatchJobsHandler interface {
		Handle(ctx context.Context, cmd commands.DispatchJobsCommand) ([]assignment.Result, error)
	}
	RunBatchHandler interface {
		Handle(ctx context.Context, cmd commands.RunBatchCommand) (commands.BatchReport, error)
	}
	CreateCarrierHandler interface {
		Handle(ctx context.Context, cmd commands.CreateCarrierCommand) error
	}
	GetAllCarriersHandler interface {
		Handle(ctx context.Context, query queries.GetAllCarriersQuery) ([]queries.GetAllCarriersQueryResponse, error)
	}
)

// Handlers groups the use cases served over HTTP. RunBatch, DispatchJobs and
// the carrier handlers may be nil; their routes are then not registered.
type Handlers struct {
	AssignJobs     AssignJobsHandler
	DispatchJobs   DispatchJobsHandler
	RunBatch       RunBatchHandler
	CreateCarrier  CreateCarrierHandler
	GetAllCarriers GetAllCarriersHandler
}

type Config struct {
	// MaxHours is used when a request does not set max_hours. Defaults to 9.
	MaxHours float64
	// JWTSecret guards batch runs when set.
	JWTSecret []byte
	// Gatherer backs /metrics. Defaults to prometheus.DefaultGatherer.
	Gatherer prometheus.Gatherer
	Logger   *slog.Logger
	Now      func() time.Time
}

// Server adapts HTTP requests to the dispatch use cases.
type Server struct {
	handlers Handlers
	cfg      Config
	logger   *slog.Logger
}

func NewServer(handlers Handlers, cfg Config) *Server {
	if cfg.MaxHours <= 0 {
		cfg.MaxHours = services.DefaultMaxHours
	}
	if cfg.Gatherer == nil {
		cfg.Gatherer = prometheus.DefaultGatherer
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.New(slog.DiscardHandler)
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	return &Server{
		handlers: handlers,
		cfg:      cfg,
		logger:   cfg.Logger.With("component", "http_server"),
	}
}

// Register mounts every route on e. API routes are validated against the
// embedded OpenAPI description.
func (s *Server) Register(ctx context.Context, e *echo.Echo) error {
	doc, err := LoadOpenAPI(ctx)
	if err != nil {
		return fmt.Errorf("load openapi: %w", err)
	}
	validator, err := RequestValidator(doc)
	if err != nil {
		return fmt.Errorf("openapi router: %w", err)
	}
	if err = registerDoc(doc); err != nil {
		return fmt.Errorf("register api docs: %w", err)
	}

	e.GET("/health", func(c echo.Context) error {
		return c.String(http.StatusOK, "Healthy")
	})
	e.GET("/metrics", echo.WrapHandler(promhttp.HandlerFor(s.cfg.Gatherer, promhttp.HandlerOpts{})))
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	api := e.Group("/api/v1", validator)
	api.POST("/assignments", s.AssignJobs)
	if s.handlers.DispatchJobs != nil {
		api.POST("/dispatch", s.DispatchJobs)
	}
	if s.handlers.RunBatch != nil {
		api.POST("/batch-runs", s.RunBatch, s.requireBatchToken)
	}
	if s.handlers.CreateCarrier != nil {
		api.POST("/carriers", s.CreateCarrier)
	}
	if s.handlers.GetAllCarriers != nil {
		api.GET("/carriers", s.GetCarriers)
	}

	return nil
}

type assignmentRequest struct {
	Records  []payload.Record `json:"records"`
	MaxHours *float64         `json:"max_hours"`
}

type assignmentResponse struct {
	Assignments []payload.Assignment `json:"assignments"`
}

// AssignJobs handles POST /api/v1/assignments.
func (s *Server) AssignJobs(c echo.Context) error {
	var req assignmentRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}

	records, err := payload.ToRecords(req.Records)
	if err != nil {
		return writeError(c, err)
	}

	cmd, err := commands.NewAssignJobsCommand(records, s.maxHours(req.MaxHours))
	if err != nil {
		return writeError(c, err)
	}

	results, err := s.handlers.AssignJobs.Handle(c.Request().Context(), cmd)
	if err != nil {
		return writeError(c, err)
	}

	return c.JSON(http.StatusOK, assignmentResponse{Assignments: payload.FromResults(results)})
}

type dispatchJob struct {
	JobID       int64    `json:"job_id"`
	Destination location `json:"destination"`
}

type location struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

type dispatchRequest struct {
	Jobs          []dispatchJob `json:"jobs"`
	DepartureHour *int          `json:"departure_hour"`
	Weekday       *int          `json:"weekday"`
	MaxHours      *float64      `json:"max_hours"`
}

// DispatchJobs handles POST /api/v1/dispatch. Departure defaults to the
// current hour and weekday of the server clock.
func (s *Server) DispatchJobs(c echo.Context) error {
	var req dispatchRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}

	jobs := make([]commands.JobRequest, 0, len(req.Jobs))
	for _, j := range req.Jobs {
		dest, err := kernel.NewGeoPoint(j.Destination.Lat, j.Destination.Lng)
		if err != nil {
			return writeError(c, err)
		}
		jobs = append(jobs, commands.JobRequest{JobID: kernel.JobID(j.JobID), Destination: dest})
	}

	now := s.cfg.Now()
	hour := now.Hour()
	if req.DepartureHour != nil {
		hour = *req.DepartureHour
	}
	weekday := (int(now.Weekday()) + 6) % 7
	if req.Weekday != nil {
		weekday = *req.Weekday
	}

	cmd, err := commands.NewDispatchJobsCommand(jobs, hour, weekday, s.maxHours(req.MaxHours))
	if err != nil {
		return writeError(c, err)
	}

	results, err := s.handlers.DispatchJobs.Handle(c.Request().Context(), cmd)
	if err != nil {
		return writeError(c, err)
	}

	return c.JSON(http.StatusOK, assignmentResponse{Assignments: payload.FromResults(results)})
}

type batchRunResponse struct {
	RunID        string               `json:"run_id"`
	InputKey     string               `json:"input_key"`
	OutputKey    string               `json:"output_key"`
	DeletedInput bool                 `json:"deleted_input"`
	Assignments  []payload.Assignment `json:"assignments"`
}

// RunBatch handles POST /api/v1/batch-runs.
func (s *Server) RunBatch(c echo.Context) error {
	var maxHours *float64
	if err := runtime.BindQueryParameter("form", true, false, "max_hours", c.QueryParams(), &maxHours); err != nil {
		return badRequest(c, "Invalid max_hours: "+err.Error())
	}

	cmd, err := commands.NewRunBatchCommand(commands.TriggerHTTP, s.maxHours(maxHours))
	if err != nil {
		return writeError(c, err)
	}

	ctx := c.Request().Context()
	report, err := s.handlers.RunBatch.Handle(ctx, cmd)
	if err != nil {
		if status, _ := errorResponse(err); status >= http.StatusInternalServerError {
			s.logger.ErrorContext(ctx, "Batch run failed", "run_id", cmd.RunID().String(), "error", err)
		}
		return writeError(c, err)
	}

	return c.JSON(http.StatusOK, batchRunResponse{
		RunID:        report.RunID.String(),
		InputKey:     report.InputKey,
		OutputKey:    report.OutputKey,
		DeletedInput: report.DeletedInput,
		Assignments:  payload.FromResults(report.Results),
	})
}

type newCarrier struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	Location    location `json:"location"`
	HoursWorked float64  `json:"hours_worked"`
}

// CreateCarrier handles POST /api/v1/carriers.
func (s *Server) CreateCarrier(c echo.Context) error {
	var req newCarrier
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}

	loc, err := kernel.NewGeoPoint(req.Location.Lat, req.Location.Lng)
	if err != nil {
		return badRequest(c, "Invalid carrier data: "+err.Error())
	}

	cmd, err := commands.NewCreateCarrierCommand(req.ID, req.Name, loc, req.HoursWorked)
	if err != nil {
		return badRequest(c, "Invalid carrier data: "+err.Error())
	}

	if err = s.handlers.CreateCarrier.Handle(c.Request().Context(), cmd); err != nil {
		s.logger.WarnContext(c.Request().Context(), "Failed to create carrier", "carrier_id", req.ID, "error", err)
		return c.JSON(http.StatusConflict, payload.Error{
			Code:    http.StatusConflict,
			Message: "Failed to create carrier",
		})
	}

	return c.NoContent(http.StatusCreated)
}

type carrierResponse struct {
	ID             string   `json:"id"`
	Name           string   `json:"name"`
	Location       location `json:"location"`
	HoursWorked    float64  `json:"hours_worked"`
	RemainingHours float64  `json:"remaining_hours"`
}

// GetCarriers handles GET /api/v1/carriers.
func (s *Server) GetCarriers(c echo.Context) error {
	var maxHours *float64
	if err := runtime.BindQueryParameter("form", true, false, "max_hours", c.QueryParams(), &maxHours); err != nil {
		return badRequest(c, "Invalid max_hours: "+err.Error())
	}

	query, err := queries.NewGetAllCarriersQuery(s.maxHours(maxHours))
	if err != nil {
		return writeError(c, err)
	}

	carriers, err := s.handlers.GetAllCarriers.Handle(c.Request().Context(), query)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, payload.Error{
			Code:    http.StatusInternalServerError,
			Message: "Failed to retrieve carriers",
		})
	}

	response := make([]carrierResponse, len(carriers))
	for i, carrier := range carriers {
		response[i] = carrierResponse{
			ID:   carrier.ID.String(),
			Name: carrier.Name,
			Location: location{
				Lat: carrier.Location.Lat(),
				Lng: carrier.Location.Lng(),
			},
			HoursWorked:    carrier.HoursWorked,
			RemainingHours: carrier.RemainingHours,
		}
	}

	return c.JSON(http.StatusOK, response)
}

// requireBatchToken checks the bearer token when a JWT secret is configured.
func (s *Server) requireBatchToken(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		if len(s.cfg.JWTSecret) == 0 {
			return next(c)
		}

		header := c.Request().Header.Get(echo.HeaderAuthorization)
		token, found := strings.CutPrefix(header, "Bearer ")
		if !found || token == "" {
			return unauthorized(c, "Missing bearer token")
		}
		if _, err := auth.VerifyToken(s.cfg.JWTSecret, token); err != nil {
			return unauthorized(c, "Invalid bearer token")
		}
		return next(c)
	}
}

func unauthorized(c echo.Context, message string) error {
	return c.JSON(http.StatusUnauthorized, payload.Error{
		Code:    http.StatusUnauthorized,
		Message: message,
	})
}

func (s *Server) maxHours(requested *float64) float64 {
	if requested != nil {
		return *requested
	}
	return s.cfg.MaxHours
}
