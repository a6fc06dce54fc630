// Package lambda serves batch runs behind API Gateway.
package lambda

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"dispatch/internal/adapters/in/payload"
	"dispatch/internal/core/application/usecases/commands"

	"github.com/aws/aws-lambda-go/events"
)

// BatchRunner runs one batch. *commands.RunBatchCommandHandler implements it.
type BatchRunner interface {
	Handle(ctx context.Context, cmd commands.RunBatchCommand) (commands.BatchReport, error)
}

type response struct {
	RunID            string               `json:"run_id"`
	OptimizedKey     string               `json:"optimized_s3_key"`
	Assignments      []payload.Assignment `json:"assignments"`
	DeletedInputFile bool                 `json:"deleted_input_file"`
	// DeletedKey is the consumed input key, set even when deletion failed.
	DeletedKey       string               `json:"deleted_key"`
}

type errorBody struct {
	Error string `json:"error"`
	Stage string `json:"stage,omitempty"`
}

type Handler struct {
	runner   BatchRunner
	maxHours float64
	logger   *slog.Logger
}

func NewHandler(runner BatchRunner, maxHours float64, logger *slog.Logger) *Handler {
	return &Handler{
		runner:   runner,
		maxHours: maxHours,
		logger:   logger.With("component", "lambda_handler"),
	}
}

// Handle runs a batch. The max_hours query string parameter overrides the
// configured cap. Every response carries a permissive CORS header.
func (h *Handler) Handle(ctx context.Context, req events.APIGatewayProxyRequest) (events.APIGatewayProxyResponse, error) {
	maxHours := h.maxHours
	if raw, ok := req.QueryStringParameters["max_hours"]; ok {
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return reply(http.StatusBadRequest, errorBody{Error: "invalid max_hours: " + raw})
		}
		maxHours = v
	}

	cmd, err := commands.NewRunBatchCommand(commands.TriggerLambda, maxHours)
	if err != nil {
		return reply(http.StatusBadRequest, errorBody{Error: err.Error()})
	}

	report, err := h.runner.Handle(ctx, cmd)
	if err != nil {
		return h.failure(ctx, cmd, err)
	}

	return reply(http.StatusOK, response{
		RunID:            report.RunID.String(),
		OptimizedKey:     report.OutputKey,
		Assignments:      payload.FromResults(report.Results),
		DeletedInputFile: report.DeletedInput,
		DeletedKey:       report.InputKey,
	})
}

func (h *Handler) failure(ctx context.Context, cmd commands.RunBatchCommand, err error) (events.APIGatewayProxyResponse, error) {
	var batchErr *commands.BatchError
	switch {
	case errors.Is(err, commands.ErrNoPredictions):
		return reply(http.StatusNotFound, errorBody{Error: err.Error()})
	case errors.Is(err, commands.ErrBatchInProgress):
		return reply(http.StatusConflict, errorBody{Error: err.Error()})
	case errors.As(err, &batchErr):
		h.logger.ErrorContext(ctx, "Batch run failed", "run_id", cmd.RunID().String(), "stage", batchErr.Stage, "error", err)
		return reply(http.StatusInternalServerError, errorBody{Error: err.Error(), Stage: string(batchErr.Stage)})
	default:
		h.logger.ErrorContext(ctx, "Batch run failed", "run_id", cmd.RunID().String(), "error", err)
		return reply(http.StatusInternalServerError, errorBody{Error: err.Error()})
	}
}

func reply(status int, body any) (events.APIGatewayProxyResponse, error) {
	raw, err := json.Marshal(body)
	if err != nil {
		return events.APIGatewayProxyResponse{}, err
	}
	return events.APIGatewayProxyResponse{
		StatusCode: status,
		Headers: map[string]string{
			"Access-Control-Allow-Origin": "*",
			"Content-Type":                "application/json",
		},
		Body: string(raw),
	}, nil
}
