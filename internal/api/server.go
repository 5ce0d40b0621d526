// Package api exposes the assistant, suggestion and table services over
// HTTP for the platform frontend.
package api

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/settatam/shop-sub011/internal/assist"
	"github.com/settatam/shop-sub011/internal/store"
	"github.com/settatam/shop-sub011/internal/suggest"
	"github.com/settatam/shop-sub011/internal/table"
	"github.com/settatam/shop-sub011/internal/tool"

	"go.uber.org/zap"
)

const shutdownTimeout = 10 * time.Second

type Server struct {
	st          *store.Store
	assistant   *assist.Assistant
	suggestions *suggest.Service
	tables      *table.Service
	registry    *tool.Registry
	logger      *zap.Logger
}

func NewServer(st *store.Store, assistant *assist.Assistant, suggestions *suggest.Service, tables *table.Service, registry *tool.Registry, logger *zap.Logger) *Server {
	return &Server{
		st:          st,
		assistant:   assistant,
		suggestions: suggestions,
		tables:      tables,
		registry:    registry,
		logger:      logger.Named("api"),
	}
}

// Handler builds the route table. Store-scoped routes parse and validate
// {id} before their handler runs.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /healthz", s.handleHealthz)
	mux.HandleFunc("POST /stores/{id}/assist", s.storeScoped(s.handleAssist))
	mux.HandleFunc("GET /stores/{id}/tools", s.storeScoped(s.handleTools))
	mux.HandleFunc("POST /stores/{id}/suggestions/{kind}", s.storeScoped(s.handleCreateSuggestion))
	mux.HandleFunc("PATCH /stores/{id}/suggestions/{sid}", s.storeScoped(s.handleReviewSuggestion))
	mux.HandleFunc("GET /stores/{id}/suggestions", s.storeScoped(s.handleListSuggestions))
	mux.HandleFunc("GET /stores/{id}/usage", s.storeScoped(s.handleUsage))
	mux.HandleFunc("GET /stores/{id}/tables", s.storeScoped(s.handleTableDefinitions))
	mux.HandleFunc("GET /stores/{id}/tables/{name}", s.storeScoped(s.handleTablePage))

	return chain(mux, s.withRecovery, s.withRequestLog)
}

// ListenAndServe blocks until the context is canceled, then drains in-flight
// requests before returning.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	httpServer := &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- httpServer.ListenAndServe()
	}()
	s.logger.Info("http server listening", zap.String("addr", addr))

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		s.logger.Info("http server draining")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return httpServer.Shutdown(shutdownCtx)
	}
}

type storeHandler func(w http.ResponseWriter, r *http.Request, storeID int64)

func (s *Server) storeScoped(next storeHandler) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
		if err != nil || id < 1 {
			badRequest(w, "invalid store id")
			return
		}
		next(w, r, id)
	}
}
