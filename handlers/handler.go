package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"
	"github.com/surajsub/workflow-dispatch/dispatcher"
	"github.com/surajsub/workflow-dispatch/models"
	"gopkg.in/yaml.v2"
)

// Dispatcher is the part of dispatcher.Dispatcher the handlers use.
type Dispatcher interface {
	Dispatch(ctx context.Context, req models.DispatchRequest) dispatcher.Result
}

// DispatchOverrides is the optional request body of POST /v1/dispatch. A set
// Inputs block replaces all four inputs.
type DispatchOverrides struct {
	Ref    string                 `json:"ref" yaml:"ref"`
	Inputs *models.WorkflowInputs `json:"inputs" yaml:"inputs"`
}

type Handler struct {
	dispatcher Dispatcher
	base       models.DispatchRequest
	logger     *logrus.Logger
}

func NewHandler(d Dispatcher, base models.DispatchRequest, logger *logrus.Logger) *Handler {
	return &Handler{dispatcher: d, base: base, logger: logger}
}

// SubmitDispatchHandler triggers one workflow dispatch.
func (h *Handler) SubmitDispatchHandler(c echo.Context) error {
	body, err := io.ReadAll(c.Request().Body)
	if err != nil {
		h.logger.WithError(err).Error("Failed to read body")
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "cannot read body"})
	}

	var overrides DispatchOverrides
	if len(strings.TrimSpace(string(body))) > 0 {
		contentType := mediaType(c.Request().Header.Get(echo.HeaderContentType))
		switch contentType {
		case "application/json":
			err = json.Unmarshal(body, &overrides)
		case "application/x-yaml", "text/yaml", "application/yaml":
			err = yaml.Unmarshal(body, &overrides)
		default:
			h.logger.Warnf("Unsupported Content-Type: %s", contentType)
			return c.JSON(http.StatusUnsupportedMediaType, echo.Map{"error": "unsupported content type"})
		}
		if err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
		}
	}

	req := h.base
	if overrides.Ref != "" {
		req.Ref = overrides.Ref
	}
	if overrides.Inputs != nil {
		req.Inputs = *overrides.Inputs
	}

	res := h.dispatcher.Dispatch(c.Request().Context(), req)
	if res.Err != nil {
		return c.JSON(http.StatusBadGateway, echo.Map{
			"dispatch_id": res.DispatchID,
			"status":      "failed",
			"status_code": res.StatusCode,
			"error":       res.Err.Error(),
		})
	}
	return c.JSON(http.StatusAccepted, echo.Map{
		"dispatch_id": res.DispatchID,
		"status":      "dispatched",
		"status_code": res.StatusCode,
		"ref":         req.Ref,
	})
}

func HealthHandler(c echo.Context) error {
	return c.JSON(http.StatusOK, echo.Map{"status": "ok"})
}

func mediaType(contentType string) string {
	mt, _, _ := strings.Cut(contentType, ";")
	return strings.ToLower(strings.TrimSpace(mt))
}

// CustomHTTPErrorHandler keeps echo's own HTTP errors and hides everything
// else behind a request ID.
func CustomHTTPErrorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}

	var he *echo.HTTPError
	if errors.As(err, &he) {
		_ = c.JSON(he.Code, echo.Map{"error": he.Message})
		return
	}

	requestID, _ := c.Get("requestID").(string)
	if requestID == "" {
		requestID = uuid.New().String()
	}

	// Log the full error with request ID
	c.Logger().Errorf("Request ID: %s | Internal error: %v", requestID, err)

	_ = c.JSON(http.StatusInternalServerError, echo.Map{
		"error":      "Internal server error. Please contact support with the request ID.",
		"request_id": requestID,
	})
}

func RequestIDMiddleware(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		requestID := uuid.New().String()
		c.Set("requestID", requestID)
		c.Response().Header().Set("X-Request-ID", requestID)
		return next(c)
	}
}
