package http

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"sort"
	"strconv"

	"carteira/internal/core"
)

// chart wraps a chart builder with filtering and response caching. Cached
// payloads are keyed on the full request URL and dropped on every mutation.
func (s *Server) chart(build func(r *http.Request, rows core.Ledger) any) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		key := r.URL.Path
		if r.URL.RawQuery != "" {
			key += "?" + r.URL.RawQuery
		}
		if payload, ok := s.chartCache.Get(key); ok {
			writeCachedJSON(w, payload)
			return
		}

		rows := parseFilter(r).Apply(s.svc.Snapshot())
		payload, err := json.Marshal(build(r, rows))
		if err != nil {
			slog.Error("Failed to encode chart", "error", err, "path", r.URL.Path)
			apiError(w, http.StatusInternalServerError, "Erro ao montar o gráfico.")
			return
		}

		s.chartCache.Set(key, payload)
		writeCachedJSON(w, payload)
	}
}

func groupRows(groups []core.GroupTotal, primaryField, secondaryField string) []map[string]any {
	out := make([]map[string]any, 0, len(groups))
	for _, g := range groups {
		row := map[string]any{
			primaryField:  g.Key.Primary,
			"valor_cents": g.Amount.Cents,
			"valor":       core.FormatDecimal(g.Amount.Cents),
		}
		if secondaryField != "" {
			row[secondaryField] = g.Key.Secondary
		}
		out = append(out, row)
	}
	return out
}

// chartCategories sums amounts per category and kind, for the stacked
// category bar chart.
func (s *Server) chartCategories(r *http.Request, rows core.Ledger) any {
	groups := core.GroupSum(rows, core.ByCategoryAndKind)
	return map[string]any{"grupos": groupRows(groups, "categoria", "tipo")}
}

// chartKinds sums amounts per kind, for the income/expense pie chart.
func (s *Server) chartKinds(r *http.Request, rows core.Ledger) any {
	groups := core.GroupSum(rows, core.ByKind)
	return map[string]any{"grupos": groupRows(groups, "tipo", "")}
}

// chartBalanceHistory returns the cumulative balance series over dated rows.
func (s *Server) chartBalanceHistory(r *http.Request, rows core.Ledger) any {
	points := core.BalanceHistory(rows)
	out := make([]map[string]any, 0, len(points))
	for _, p := range points {
		out = append(out, map[string]any{
			"data":        p.Date.String(),
			"saldo_cents": p.Balance.Cents,
			"saldo":       core.FormatDecimal(p.Balance.Cents),
		})
	}
	return map[string]any{"pontos": out}
}

// chartMonthly sums amounts per month and kind, sorted chronologically.
func (s *Server) chartMonthly(r *http.Request, rows core.Ledger) any {
	groups := core.GroupSum(rows, core.ByMonthAndKind)
	sort.SliceStable(groups, func(i, j int) bool {
		return groups[i].Key.Primary < groups[j].Key.Primary
	})
	return map[string]any{"grupos": groupRows(groups, "mes", "tipo")}
}

// chartTop returns the largest description/kind totals, biggest first.
// The size is taken from the n query parameter, defaulting to 10.
func (s *Server) chartTop(r *http.Request, rows core.Ledger) any {
	groups := core.TopN(core.GroupSum(rows, core.ByDescriptionAndKind), topN(r))
	return map[string]any{"grupos": groupRows(groups, "descricao", "tipo")}
}

// topN reads the n parameter; malformed or non-positive values fall back
// to the default of 10.
func topN(r *http.Request) int {
	n, err := strconv.Atoi(r.URL.Query().Get("n"))
	if err != nil || n <= 0 {
		return 10
	}
	return n
}

// chartWeekdays sums amounts per weekday and month, for the habits heatmap.
func (s *Server) chartWeekdays(r *http.Request, rows core.Ledger) any {
	groups := core.GroupSum(rows, core.ByWeekdayAndMonth)
	return map[string]any{"grupos": groupRows(groups, "dia_semana", "mes")}
}
