// Package suggest generates AI product suggestions (descriptions, pricing,
// categorization, marketing copy) and persists them for human review.
package suggest

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/settatam/shop-sub011/internal/llm"
	"github.com/settatam/shop-sub011/internal/store"

	"go.uber.org/zap"
)

const (
	KindDescription = "description"
	KindPricing     = "pricing"
	KindCategory    = "category"
	KindTemplate    = "template"
)

var ErrUnknownKind = errors.New("unknown suggestion kind")

func Kinds() []string {
	return []string{KindDescription, KindPricing, KindCategory, KindTemplate}
}

// Input names what the suggestion is about: a product on file, or free-form
// notes about an item not yet entered.
type Input struct {
	ProductID int64  `json:"product_id,omitempty"`
	Notes     string `json:"notes,omitempty"`
}

// Result pairs the persisted suggestion with its parsed fields.
type Result struct {
	Suggestion store.Suggestion `json:"suggestion"`
	Fields     map[string]any   `json:"fields"`
	Fallback   bool             `json:"fallback"`
}

type Service struct {
	st     *store.Store
	llm    *llm.Manager
	logger *zap.Logger
}

func NewService(st *store.Store, manager *llm.Manager, logger *zap.Logger) *Service {
	return &Service{
		st:     st,
		llm:    manager,
		logger: logger.Named("suggest"),
	}
}

// Generate builds the prompt for a suggestion kind, runs one completion,
// parses the model's JSON and persists the suggestion as pending review.
// Provider failures and malformed replies fall back to a deterministic
// template; exactly one suggestion row is written either way.
func (s *Service) Generate(ctx context.Context, storeID int64, kind string, in Input) (Result, error) {
	if !validKind(kind) {
		return Result{}, fmt.Errorf("%w: %s", ErrUnknownKind, kind)
	}

	info, err := s.st.GetStore(ctx, storeID)
	if err != nil {
		return Result{}, err
	}

	subj := freeSubject(info.Name, in.Notes)
	if in.ProductID > 0 {
		product, err := s.st.GetProduct(ctx, storeID, in.ProductID)
		if err != nil {
			return Result{}, err
		}
		subj = productSubject(info.Name, product, in.Notes)
	}

	fields, raw, fallback := s.complete(ctx, info, kind, subj)

	selection := s.llm.Resolve(info)
	meta, _ := json.Marshal(map[string]any{
		"provider": selection.Provider,
		"model":    selection.Model,
		"fallback": fallback,
	})

	sg := &store.Suggestion{
		StoreID:     storeID,
		SubjectType: subj.Type,
		SubjectID:   subj.ID,
		Kind:        kind,
		Content:     raw,
		Metadata:    string(meta),
	}
	if err := s.st.InsertSuggestion(ctx, sg); err != nil {
		return Result{}, err
	}

	return Result{Suggestion: *sg, Fields: fields, Fallback: fallback}, nil
}

func (s *Service) complete(ctx context.Context, info store.StoreInfo, kind string, subj subject) (map[string]any, string, bool) {
	p := buildPrompt(kind, subj)

	resp, err := s.llm.Complete(ctx, info, kind, llm.Request{
		System:   p.System,
		Messages: []llm.Message{llm.UserMessage(p.User)},
		JSONOnly: true,
	})
	if err != nil {
		s.logger.Warn("completion failed, using fallback",
			zap.String("kind", kind), zap.Error(err))
		return s.fallback(kind, subj)
	}

	fields, raw, err := extractJSON(resp.Message.Content)
	if err != nil {
		s.logger.Warn("model reply was not JSON, using fallback",
			zap.String("kind", kind), zap.Error(err))
		return s.fallback(kind, subj)
	}
	if _, ok := fields[primaryKey(kind)]; !ok {
		s.logger.Warn("model reply missing expected field, using fallback",
			zap.String("kind", kind), zap.String("field", primaryKey(kind)))
		return s.fallback(kind, subj)
	}
	return fields, raw, false
}

func (s *Service) fallback(kind string, subj subject) (map[string]any, string, bool) {
	fields := fallbackFields(kind, subj)
	raw, _ := json.Marshal(fields)
	return fields, string(raw), true
}

func validKind(kind string) bool {
	for _, k := range Kinds() {
		if k == kind {
			return true
		}
	}
	return false
}

// extractJSON pulls the first JSON object out of a model reply, tolerating
// markdown fences and prose around it.
func extractJSON(text string) (map[string]any, string, error) {
	start := strings.Index(text, "{")
	end := strings.LastIndex(text, "}")
	if start < 0 || end <= start {
		return nil, "", errors.New("no JSON object in model reply")
	}
	raw := text[start : end+1]
	var fields map[string]any
	if err := json.Unmarshal([]byte(raw), &fields); err != nil {
		return nil, "", fmt.Errorf("parse model reply: %w", err)
	}
	return fields, raw, nil
}
