package http

import (
	"context"
	"fmt"
	"html/template"
	stdhttp "net/http"
	"strconv"
	"strings"

	"github.com/danielgtaylor/huma/v2"
	"github.com/rotisserie/eris"
	"github.com/sirupsen/logrus"

	"bannercms/app/internal/data/database"
	"bannercms/app/internal/domain/banner"
	"bannercms/app/internal/domain/organization"
	"bannercms/app/internal/domain/plugin"
	"bannercms/app/internal/presentation/templates"
)

const (
	htmlContentType      = "text/html; charset=utf-8"
	errorFallbackMessage = "We couldn't process your request right now."
)

var pageStylesheets = []string{"/static/css/base.css", "/static/css/large_banner.css"}

type htmlResponse struct {
	Status      int
	ContentType string `header:"Content-Type"`
	Body        []byte
}

type placeholderInput struct {
	Slot     string `path:"slot" maxLength:"255"`
	Language string `query:"language" maxLength:"15"`
}

type pluginInput struct {
	ID uint `path:"id"`
}

type healthResponse struct {
	Status int
	Body   struct {
		Status   string   `json:"status"`
		Database string   `json:"database"`
		Plugins  []string `json:"plugins"`
	}
}

func (s *Server) registerPlaceholderRoute() {
	huma.Get(s.api, "/placeholders/{slot}", s.placeholderHandler, htmlOperation(
		"Render a placeholder",
		stdhttp.StatusNotFound,
		stdhttp.StatusInternalServerError,
	))
}

func (s *Server) registerPluginRoute() {
	huma.Get(s.api, "/plugins/{id}", s.pluginHandler, htmlOperation(
		"Render a plugin instance",
		stdhttp.StatusNotFound,
		stdhttp.StatusInternalServerError,
	))
}

func (s *Server) registerHealthRoute() {
	huma.Get(s.api, "/healthz", s.healthHandler, func(op *huma.Operation) {
		op.Summary = "Health check"
	})
}

func (s *Server) placeholderHandler(ctx context.Context, input *placeholderInput) (*htmlResponse, error) {
	slot := strings.TrimSpace(input.Slot)
	language := s.language(input.Language)

	body, err := s.renderer.RenderPlaceholder(ctx, slot, language, s.renderContext(ctx, language))
	if err != nil {
		status, message := classifyError(err)
		s.recordError(ctx, err, "rendering placeholder", logrus.Fields{"slot": slot, "language": language})
		return s.renderErrorResponse(ctx, status, message), nil
	}

	page, err := renderComponent(ctx, s.templates.Page(templates.PageData{
		Title:       slot,
		Language:    language,
		Slot:        slot,
		Stylesheets: pageStylesheets,
		// #nosec G203 -- plugin templates escape their own content.
		Body: template.HTML(body),
	}))
	if err != nil {
		s.recordError(ctx, err, "rendering page layout", logrus.Fields{"slot": slot})
		return s.renderErrorResponse(ctx, stdhttp.StatusInternalServerError, errorFallbackMessage), nil
	}

	return newHTMLResponse(stdhttp.StatusOK, page), nil
}

func (s *Server) pluginHandler(ctx context.Context, input *pluginInput) (*htmlResponse, error) {
	body, err := s.renderer.RenderInstance(ctx, input.ID, s.renderContext(ctx, s.defaultLanguage))
	if err != nil {
		status, message := classifyError(err)
		s.recordError(ctx, err, "rendering plugin", logrus.Fields{"plugin_id": input.ID})
		return s.renderErrorResponse(ctx, status, message), nil
	}

	return newHTMLResponse(stdhttp.StatusOK, []byte(body)), nil
}

func (s *Server) healthHandler(ctx context.Context, _ *struct{}) (*healthResponse, error) {
	resp := &healthResponse{Status: stdhttp.StatusOK}
	resp.Body.Status = "ok"
	resp.Body.Database = "ok"
	resp.Body.Plugins = s.renderer.PluginTypes()

	sqlDB, err := database.SQLDB(s.db)
	if err != nil {
		s.recordError(ctx, err, "obtaining sql db", nil)
		resp.Body.Status = "degraded"
		resp.Body.Database = "error"
		resp.Status = stdhttp.StatusServiceUnavailable
	} else if pingErr := sqlDB.PingContext(ctx); pingErr != nil {
		s.recordError(ctx, pingErr, "pinging database", nil)
		resp.Body.Status = "degraded"
		resp.Body.Database = "error"
		resp.Status = stdhttp.StatusServiceUnavailable
	}

	return resp, nil
}

func (s *Server) language(raw string) string {
	if trimmed := strings.TrimSpace(raw); trimmed != "" {
		return trimmed
	}
	return s.defaultLanguage
}

func (s *Server) renderContext(ctx context.Context, language string) plugin.Context {
	renderCtx := plugin.Context{"language": language}
	if requestID := RequestIDFromContext(ctx); requestID != "" {
		renderCtx["request_id"] = requestID
	}
	return renderCtx
}

func newHTMLResponse(status int, body []byte) *htmlResponse {
	return &htmlResponse{
		Status:      status,
		ContentType: htmlContentType,
		Body:        body,
	}
}

func htmlOperation(summary string, statuses ...int) func(op *huma.Operation) {
	return func(op *huma.Operation) {
		if summary != "" {
			op.Summary = summary
		}
		if op.Responses == nil {
			op.Responses = map[string]*huma.Response{}
		}

		statusCodes := append([]int{stdhttp.StatusOK}, statuses...)
		for _, status := range statusCodes {
			code := strconv.Itoa(status)
			op.Responses[code] = &huma.Response{
				Description: stdhttp.StatusText(status),
				Content: map[string]*huma.MediaType{
					htmlContentType: {
						Schema: &huma.Schema{Type: "string"},
					},
				},
			}
		}
	}
}

func classifyError(err error) (int, string) {
	switch {
	case err == nil:
		return stdhttp.StatusInternalServerError, errorFallbackMessage
	case eris.Is(err, plugin.ErrPlaceholderNotFound):
		return stdhttp.StatusNotFound, "This placeholder does not exist."
	case eris.Is(err, plugin.ErrInstanceNotFound),
		eris.Is(err, banner.ErrNotFound),
		eris.Is(err, organization.ErrNotFound):
		return stdhttp.StatusNotFound, "This content does not exist."
	default:
		return stdhttp.StatusInternalServerError, errorFallbackMessage
	}
}

func (s *Server) renderErrorResponse(ctx context.Context, status int, message string) *htmlResponse {
	label := fmt.Sprintf("%d %s", status, stdhttp.StatusText(status))
	component := s.templates.ErrorPage(templates.ErrorPageData{
		StatusLabel: label,
		Message:     message,
	})

	body, err := renderComponent(ctx, component)
	if err != nil {
		s.recordError(ctx, err, "rendering error page", logrus.Fields{"status": status})
		fallback := fmt.Sprintf("<html><body><h1>%s</h1><p>%s</p></body></html>",
			template.HTMLEscapeString(label), template.HTMLEscapeString(message))
		return newHTMLResponse(status, []byte(fallback))
	}

	return newHTMLResponse(status, body)
}
