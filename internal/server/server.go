package server

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/tartampluch/go-mealplan/internal/calendar"
	"github.com/tartampluch/go-mealplan/internal/config"
	"github.com/tartampluch/go-mealplan/internal/engine"
	"github.com/tartampluch/go-mealplan/internal/i18n"
	"github.com/tartampluch/go-mealplan/internal/layout"
	"github.com/tartampluch/go-mealplan/internal/meals"
)

// ErrInvalidQuery is returned for plan requests with malformed parameters.
var ErrInvalidQuery = errors.New(config.ErrInvalidQuery)

// Renderer produces meal plan documents.
type Renderer interface {
	Render(ctx context.Context, req engine.Request) (*engine.Output, error)
}

// PlanServer serves rendered meal plans over HTTP.
type PlanServer struct {
	Port     string
	Renderer Renderer
	Clock    calendar.Clock

	// Language is used when a request has no lang parameter.
	Language string
}

// NewPlanServer creates a new instance of the server.
func NewPlanServer(port string, r Renderer, clock calendar.Clock) *PlanServer {
	if clock == nil {
		clock = calendar.RealClock{}
	}
	return &PlanServer{
		Port:     port,
		Renderer: r,
		Clock:    clock,
	}
}

// Handler returns the routes of the server.
func (s *PlanServer) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc(config.RoutePlan, s.handlePlanRequest)
	mux.HandleFunc(config.RouteHealth, s.handleHealth)
	return mux
}

// Start initializes the HTTP server and blocks until the context is cancelled.
func (s *PlanServer) Start(ctx context.Context) error {
	if s.Port == "" {
		return errors.New(config.ErrPortRequired)
	}

	srv := &http.Server{
		Addr:         config.LocalhostBindAddr + config.AddrSeparator + s.Port,
		Handler:      s.Handler(),
		ReadTimeout:  config.ServerReadTimeout,
		WriteTimeout: config.ServerWriteTimeout,
		IdleTimeout:  config.ServerIdleTimeout,
	}

	serverError := make(chan error, config.ChannelBufferSize)

	go func() {
		slog.Info(config.MsgServerListen,
			config.LogKeyComponent, config.CompServer,
			config.LogKeyPort, s.Port,
		)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			serverError <- err
		}
	}()

	select {
	case <-ctx.Done():
		slog.Info(config.MsgServerStop, config.LogKeyComponent, config.CompServer)
		shutdownCtx, cancel := context.WithTimeout(context.Background(), config.ShutdownTimeout)
		defer cancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("%s: %w", config.ErrServerShutdown, err)
		}
		return nil

	case err := <-serverError:
		return fmt.Errorf("%s: %w", config.ErrServerStartup, err)
	}
}

// ParseRequest builds a rendering request from plan query parameters.
// Missing parameters fall back to the current month, JSON output, every
// week, decoration and notes.
func ParseRequest(q url.Values, now calendar.Month) (engine.Request, error) {
	req := engine.Request{
		Month:    now,
		Format:   config.DefaultFormat,
		Options:  layout.DefaultOptions(),
		Language: q.Get(config.ParamLanguage),
	}

	if v := q.Get(config.ParamMonth); v != "" {
		m, err := calendar.ParseMonth(v)
		if err != nil {
			return req, err
		}
		req.Month = m
	}
	if v := q.Get(config.ParamFormat); v != "" {
		req.Format = strings.ToLower(v)
	}
	if v := q.Get(config.ParamMealsOnly); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return req, fmt.Errorf("%w: %s=%q", ErrInvalidQuery, config.ParamMealsOnly, v)
		}
		req.Options.MealsOnly = b
	}
	if v := q.Get(config.ParamNotes); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return req, fmt.Errorf("%w: %s=%q", ErrInvalidQuery, config.ParamNotes, v)
		}
		req.Options.PrintNotes = b
	}
	if v := q.Get(config.ParamWeeks); v != "" {
		weeks, err := ParseWeeks(v)
		if err != nil {
			return req, err
		}
		req.Options.WeeksToPrint = weeks
	}
	return req, nil
}

// ParseWeeks parses a comma separated list of week rows such as "0,2".
func ParseWeeks(v string) ([]int, error) {
	weeks := []int{}
	for _, part := range strings.Split(v, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		w, err := strconv.Atoi(part)
		if err != nil {
			return nil, fmt.Errorf("%w: %s=%q", ErrInvalidQuery, config.ParamWeeks, v)
		}
		weeks = append(weeks, w)
	}
	return weeks, nil
}

// statusOf maps a rendering error to its HTTP status and public message.
func statusOf(err error) (int, string) {
	switch {
	case errors.Is(err, ErrInvalidQuery),
		errors.Is(err, calendar.ErrInvalidMonthSpecification),
		errors.Is(err, layout.ErrInvalidOptions),
		errors.Is(err, engine.ErrUnsupportedFormat),
		errors.Is(err, i18n.ErrUnsupportedLanguage):
		return http.StatusBadRequest, err.Error()
	case errors.Is(err, meals.ErrSourceUnavailable):
		return http.StatusBadGateway, config.HTTPMsgSourceErr
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return http.StatusServiceUnavailable, http.StatusText(http.StatusServiceUnavailable)
	default:
		return http.StatusInternalServerError, config.HTTPMsgInternalErr
	}
}

// handlePlanRequest renders the requested month with HTTP caching support.
func (s *PlanServer) handlePlanRequest(w http.ResponseWriter, r *http.Request) {
	// 1. Method Validation
	if r.Method != http.MethodGet && r.Method != http.MethodHead {
		w.Header().Set(config.HeaderAllow, config.AllowedMethods)
		http.Error(w, config.HTTPMsgMethodNotAll, http.StatusMethodNotAllowed)
		return
	}

	// 2. Request Parsing
	req, err := ParseRequest(r.URL.Query(), calendar.CurrentMonth(s.Clock))
	if err == nil && req.Language == "" {
		req.Language = s.Language
	}

	// 3. Rendering
	var out *engine.Output
	if err == nil {
		out, err = s.Renderer.Render(r.Context(), req)
	}
	if err != nil {
		status, msg := statusOf(err)
		level := slog.LevelWarn
		if status >= http.StatusInternalServerError {
			level = slog.LevelError
		}
		slog.Log(r.Context(), level, config.MsgRequestInvalid,
			config.LogKeyComponent, config.CompServer,
			config.LogKeyURL, r.URL.String(),
			config.LogKeyStatus, status,
			config.LogKeyError, err,
		)
		http.Error(w, msg, status)
		return
	}

	hash := sha256.Sum256(out.Data)
	etag := fmt.Sprintf(config.FormatETag, hex.EncodeToString(hash[:]))

	// 4. Set Response Headers
	w.Header().Set(config.HeaderContentType, out.ContentType)
	w.Header().Set(config.HeaderXContentType, config.MimeNoSniff)
	w.Header().Set(config.HeaderCacheControl, config.CacheControlPrivate)
	w.Header().Set(config.HeaderContentDisposition, fmt.Sprintf(config.FormatDisposition, out.FileName))
	w.Header().Set(config.HeaderETag, etag)

	slog.Debug(config.MsgPlanServed,
		config.LogKeyComponent, config.CompServer,
		config.LogKeyMonth, req.Month.String(),
		config.LogKeyFormat, req.Format,
		config.LogKeySizeBytes, len(out.Data),
		config.LogKeyETag, etag,
	)

	// 5. Check Conditional Headers (Browser Caching)
	if match := r.Header.Get(config.HeaderIfNoneMatch); match == etag {
		w.WriteHeader(http.StatusNotModified)
		return
	}

	// 6. Serve Content
	w.Header().Set(config.HeaderContentLength, strconv.Itoa(len(out.Data)))
	if r.Method == http.MethodGet {
		if _, err := io.Copy(w, bytes.NewReader(out.Data)); err != nil {
			slog.Error(config.ErrWriteResp,
				config.LogKeyComponent, config.CompServer,
				config.LogKeyError, err,
			)
		}
	}
}

func (s *PlanServer) handleHealth(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet && r.Method != http.MethodHead {
		w.Header().Set(config.HeaderAllow, config.AllowedMethods)
		http.Error(w, config.HTTPMsgMethodNotAll, http.StatusMethodNotAllowed)
		return
	}
	w.Header().Set(config.HeaderContentType, config.MimeTextPlain)
	if r.Method == http.MethodGet {
		_, _ = io.WriteString(w, config.HTTPMsgOK)
	}
}
