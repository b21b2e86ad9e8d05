// Package server exposes the board over a JSON HTTP API.
package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/runoshun/taskboard/internal/app"
	"github.com/runoshun/taskboard/internal/domain"
	"github.com/runoshun/taskboard/internal/usecase"
)

const logCategory = "server"

// maxImportSize bounds the body of an import request.
const maxImportSize = 32 << 20

// Server is the HTTP API in front of the board store.
type Server struct {
	c      *app.Container
	router chi.Router
	logger domain.Logger
}

// New creates a Server with all routes configured.
func New(c *app.Container) *Server {
	s := &Server{c: c, logger: c.Logger}
	s.router = s.buildRouter()
	return s
}

// ServeHTTP delegates to the chi router, satisfying http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// ListenAndServe serves on addr until ctx is cancelled, then shuts down
// gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      time.Minute,
		IdleTimeout:       2 * time.Minute,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info(logCategory, fmt.Sprintf("listening on %s", addr))
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	if err := <-errCh; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// buildRouter constructs the chi router with all routes and middleware.
func (s *Server) buildRouter() chi.Router {
	r := chi.NewRouter()

	r.Use(middleware.Recoverer)
	r.Use(s.requestLogger)

	r.Get("/health", s.handleHealth)

	r.Route("/api", func(r chi.Router) {
		r.Get("/board", s.handleBoard)
		r.Get("/search", s.handleSearch)

		r.Route("/columns", func(r chi.Router) {
			r.Post("/", s.handleAddColumn)
			r.Put("/order", s.handleOrderColumns)
			r.Patch("/{column}", s.handleRenameColumn)
			r.Delete("/{column}", s.handleDeleteColumn)
			r.Post("/{column}/tasks", s.handleSetColumnTasks)
		})

		r.Route("/tasks", func(r chi.Router) {
			r.Post("/", s.handleAddTask)
			r.Route("/{task}", func(r chi.Router) {
				r.Get("/", s.handleShowTask)
				r.Patch("/", s.handleEditTask)
				r.Delete("/", s.handleDeleteTask)
				r.Post("/move", s.handleMoveTask)
				r.Post("/subtasks", s.handleAddItem(usecase.ItemSubtask))
				r.Delete("/subtasks/{item}", s.handleRemoveItem(usecase.ItemSubtask))
				r.Post("/subtasks/{item}/toggle", s.handleToggleSubtask)
				r.Post("/notes", s.handleAddItem(usecase.ItemNote))
				r.Delete("/notes/{item}", s.handleRemoveItem(usecase.ItemNote))
				r.Post("/attachments", s.handleAddItem(usecase.ItemAttachment))
				r.Delete("/attachments/{item}", s.handleRemoveItem(usecase.ItemAttachment))
			})
		})

		r.Route("/tags", func(r chi.Router) {
			r.Get("/", s.handleListTags)
			r.Post("/", s.handleAddTag)
			r.Patch("/{tag}", s.handleEditTag)
			r.Delete("/{tag}", s.handleDeleteTag)
		})

		r.Get("/export", s.handleExport)
		r.Post("/import", s.handleImport)

		r.Route("/backup", func(r chi.Router) {
			r.Get("/", s.handleBackupStatus)
			r.Post("/", s.handleRunBackup)
			r.Delete("/", s.handleClearBackups)
		})
		r.Post("/recover", s.handleRecover)
	})

	return r
}

// requestLogger logs every request at debug level, and server errors at
// error level.
func (s *Server) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)

		msg := fmt.Sprintf("%s %s %d %s", r.Method, r.URL.Path, ww.Status(), time.Since(start).Round(time.Microsecond))
		if ww.Status() >= http.StatusInternalServerError {
			s.logger.Error(logCategory, msg)
			return
		}
		s.logger.Debug(logCategory, msg)
	})
}
