package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/settatam/shop-sub011/internal/assist"
	"github.com/settatam/shop-sub011/internal/llm"
	"github.com/settatam/shop-sub011/internal/store"
	"github.com/settatam/shop-sub011/internal/suggest"
	"github.com/settatam/shop-sub011/internal/table"
	"github.com/settatam/shop-sub011/internal/tool/retail"

	"go.uber.org/zap"
)

type assistRequest struct {
	Query   string        `json:"query"`
	History []historyTurn `json:"history,omitempty"`
}

type historyTurn struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type suggestionRequest struct {
	ProductID int64  `json:"product_id,omitempty"`
	Notes     string `json:"notes,omitempty"`
}

type reviewRequest struct {
	Status string `json:"status"`
}

type toolListResponse struct {
	Tools []llm.ToolDefinition `json:"tools"`
}

type suggestionListResponse struct {
	Suggestions []store.Suggestion `json:"suggestions"`
}

type usageResponse struct {
	Period string             `json:"period"`
	From   time.Time          `json:"from"`
	To     time.Time          `json:"to"`
	Usage  store.UsageSummary `json:"usage"`
}

type tableListResponse struct {
	Tables []table.Definition `json:"tables"`
}

type tablePageResponse struct {
	Definition table.Definition `json:"definition"`
	Page       table.Page       `json:"page"`
}

func (s *Server) handleHealthz(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleAssist(w http.ResponseWriter, r *http.Request, storeID int64) {
	var req assistRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		badRequest(w, "invalid JSON body")
		return
	}
	if strings.TrimSpace(req.Query) == "" {
		badRequest(w, "query is required")
		return
	}

	var history *assist.History
	if len(req.History) > 0 {
		history = assist.NewHistory(0, 0, s.logger)
		for _, turn := range req.History {
			switch turn.Role {
			case "user":
				history.Append(llm.UserMessage(turn.Content))
			case "assistant":
				history.Append(llm.AssistantMessage(turn.Content))
			}
		}
	}

	answer, err := s.assistant.Ask(r.Context(), storeID, req.Query, history)
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, answer)
}

func (s *Server) handleTools(w http.ResponseWriter, _ *http.Request, _ int64) {
	writeJSON(w, http.StatusOK, toolListResponse{Tools: s.registry.Definitions()})
}

func (s *Server) handleCreateSuggestion(w http.ResponseWriter, r *http.Request, storeID int64) {
	var req suggestionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		badRequest(w, "invalid JSON body")
		return
	}

	result, err := s.suggestions.Generate(r.Context(), storeID, r.PathValue("kind"), suggest.Input{
		ProductID: req.ProductID,
		Notes:     req.Notes,
	})
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, result)
}

func (s *Server) handleReviewSuggestion(w http.ResponseWriter, r *http.Request, storeID int64) {
	sid, err := strconv.ParseInt(r.PathValue("sid"), 10, 64)
	if err != nil || sid < 1 {
		badRequest(w, "invalid suggestion id")
		return
	}

	var req reviewRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		badRequest(w, "invalid JSON body")
		return
	}
	if req.Status != "accepted" && req.Status != "rejected" {
		badRequest(w, "status must be accepted or rejected")
		return
	}

	if err := s.st.UpdateSuggestionStatus(r.Context(), storeID, sid, req.Status); err != nil {
		s.writeError(w, err)
		return
	}
	updated, err := s.st.GetSuggestion(r.Context(), storeID, sid)
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, updated)
}

func (s *Server) handleListSuggestions(w http.ResponseWriter, r *http.Request, storeID int64) {
	status := r.URL.Query().Get("status")
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))

	rows, err := s.st.ListSuggestions(r.Context(), storeID, status, limit)
	if err != nil {
		s.writeError(w, err)
		return
	}
	if rows == nil {
		rows = []store.Suggestion{}
	}
	writeJSON(w, http.StatusOK, suggestionListResponse{Suggestions: rows})
}

func (s *Server) handleUsage(w http.ResponseWriter, r *http.Request, storeID int64) {
	period := r.URL.Query().Get("period")
	if period == "" {
		period = "this_month"
	}
	from, to, err := retail.ResolvePeriod(period, time.Now())
	if err != nil {
		badRequest(w, err.Error())
		return
	}

	summary, err := s.st.AIUsageSummary(r.Context(), storeID, from, to)
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, usageResponse{Period: period, From: from, To: to, Usage: summary})
}

func (s *Server) handleTableDefinitions(w http.ResponseWriter, _ *http.Request, _ int64) {
	writeJSON(w, http.StatusOK, tableListResponse{Tables: s.tables.Definitions()})
}

func (s *Server) handleTablePage(w http.ResponseWriter, r *http.Request, storeID int64) {
	name := r.PathValue("name")
	req, err := parseTableRequest(r)
	if err != nil {
		badRequest(w, err.Error())
		return
	}

	page, err := s.tables.Fetch(r.Context(), storeID, name, req)
	if err != nil {
		s.writeError(w, err)
		return
	}
	def, err := s.tables.Definition(name)
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, tablePageResponse{Definition: def, Page: page})
}

// parseTableRequest reads paging, sorting and filter[...] query params.
// Unknown keys are left for the table layer to reject against the
// definition.
func parseTableRequest(r *http.Request) (table.Request, error) {
	q := r.URL.Query()
	req := table.Request{
		Sort:   q.Get("sort"),
		Dir:    q.Get("dir"),
		Search: q.Get("search"),
	}

	var err error
	if req.Page, err = intParam(q.Get("page")); err != nil {
		return table.Request{}, errors.New("page must be an integer")
	}
	if req.PerPage, err = intParam(q.Get("per_page")); err != nil {
		return table.Request{}, errors.New("per_page must be an integer")
	}

	for key, values := range q {
		if !strings.HasPrefix(key, "filter[") || !strings.HasSuffix(key, "]") || len(values) == 0 {
			continue
		}
		name := key[len("filter[") : len(key)-1]
		if name == "" {
			continue
		}
		if req.Filters == nil {
			req.Filters = make(map[string]string)
		}
		req.Filters[name] = values[0]
	}
	return req, nil
}

func intParam(raw string) (int, error) {
	if raw == "" {
		return 0, nil
	}
	return strconv.Atoi(raw)
}

// writeError maps sentinel errors onto status codes; everything else is a
// logged 500 with a generic body.
func (s *Server) writeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, store.ErrNotFound):
		writeJSON(w, http.StatusNotFound, errorBody(err.Error()))
	case errors.Is(err, store.ErrUnknownTable),
		errors.Is(err, suggest.ErrUnknownKind),
		errors.Is(err, table.ErrInvalidRequest):
		writeJSON(w, http.StatusBadRequest, errorBody(err.Error()))
	case errors.Is(err, llm.ErrNotConfigured):
		writeJSON(w, http.StatusServiceUnavailable, errorBody("no AI provider is configured"))
	default:
		s.logger.Error("request failed", zap.Error(err))
		writeJSON(w, http.StatusInternalServerError, errorBody("internal server error"))
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func badRequest(w http.ResponseWriter, msg string) {
	writeJSON(w, http.StatusBadRequest, errorBody(msg))
}

func errorBody(msg string) map[string]string {
	return map[string]string{"error": msg}
}
