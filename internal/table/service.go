package table

import (
	"context"
	"fmt"
	"sort"

	"github.com/settatam/shop-sub011/internal/store"

	"go.uber.org/zap"
)

type Service struct {
	st     *store.Store
	defs   map[string]Definition
	logger *zap.Logger
}

func NewService(st *store.Store, logger *zap.Logger) *Service {
	return &Service{
		st:     st,
		defs:   definitions(),
		logger: logger.Named("table"),
	}
}

// Definitions returns every registered table, sorted by name.
func (s *Service) Definitions() []Definition {
	out := make([]Definition, 0, len(s.defs))
	for _, def := range s.defs {
		out = append(out, def)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

func (s *Service) Definition(name string) (Definition, error) {
	def, ok := s.defs[name]
	if !ok {
		return Definition{}, fmt.Errorf("%w: %s", store.ErrUnknownTable, name)
	}
	return def, nil
}

// Fetch validates the request against the table's declaration and returns
// one page of rows.
func (s *Service) Fetch(ctx context.Context, storeID int64, name string, req Request) (Page, error) {
	def, err := s.Definition(name)
	if err != nil {
		return Page{}, err
	}

	req = req.normalize()
	if err := validate(def, req); err != nil {
		return Page{}, err
	}

	rows, err := s.st.TablePage(ctx, storeID, store.TableQuery{
		Table:    name,
		Search:   req.Search,
		Filters:  req.Filters,
		SortKey:  req.Sort,
		SortDesc: req.Dir == "desc",
		Limit:    req.PerPage,
		Offset:   (req.Page - 1) * req.PerPage,
	})
	if err != nil {
		return Page{}, err
	}

	if rows.Rows == nil {
		rows.Rows = []map[string]any{}
	}
	lastPage := (rows.Total + req.PerPage - 1) / req.PerPage
	if lastPage < 1 {
		lastPage = 1
	}

	s.logger.Debug("table page",
		zap.String("table", name),
		zap.Int64("store_id", storeID),
		zap.Int("page", req.Page),
		zap.Int("rows", len(rows.Rows)),
		zap.Int("total", rows.Total),
	)

	return Page{
		Rows:     rows.Rows,
		Total:    rows.Total,
		Page:     req.Page,
		PerPage:  req.PerPage,
		LastPage: lastPage,
	}, nil
}
