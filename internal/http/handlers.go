package http

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"carteira/internal/assistant"
	"carteira/internal/core"
	"carteira/internal/services"
)

// transactionJSON is the wire shape of a single ledger row. Amounts travel
// both as integer cents and as a formatted decimal string.
type transactionJSON struct {
	ID         int64  `json:"id"`
	Data       string `json:"data,omitempty"`
	Tipo       string `json:"tipo"`
	Descricao  string `json:"descricao"`
	ValorCents int64  `json:"valor_cents"`
	Valor      string `json:"valor"`
	Categoria  string `json:"categoria"`
}

func toTransactionJSON(tx core.Transaction) transactionJSON {
	return transactionJSON{
		ID:         tx.ID,
		Data:       tx.Date.String(),
		Tipo:       string(tx.Kind),
		Descricao:  tx.Description,
		ValorCents: tx.Amount.Cents,
		Valor:      core.FormatDecimal(tx.Amount.Cents),
		Categoria:  tx.Category,
	}
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleListTransactions(w http.ResponseWriter, r *http.Request) {
	filter := parseFilter(r)
	rows := filter.Apply(s.svc.Snapshot())

	out := make([]transactionJSON, 0, len(rows))
	for _, tx := range rows {
		out = append(out, toTransactionJSON(tx))
	}
	writeJSON(w, http.StatusOK, map[string]any{"transacoes": out})
}

// decimalField accepts a JSON number or a quoted decimal string.
type decimalField string

func (d *decimalField) UnmarshalJSON(b []byte) error {
	s := strings.TrimSpace(string(b))
	if len(s) >= 2 && s[0] == '"' && s[len(s)-1] == '"' {
		var unquoted string
		if err := json.Unmarshal(b, &unquoted); err != nil {
			return err
		}
		*d = decimalField(unquoted)
		return nil
	}
	*d = decimalField(s)
	return nil
}

type createRequest struct {
	Data      string       `json:"data"`
	Tipo      string       `json:"tipo"`
	Descricao string       `json:"descricao"`
	Valor     decimalField `json:"valor"`
	Categoria string       `json:"categoria"`
}

func (s *Server) handleCreateTransaction(w http.ResponseWriter, r *http.Request) {
	var req createRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, 1<<20)).Decode(&req); err != nil {
		apiError(w, http.StatusBadRequest, "Corpo da requisição inválido.")
		return
	}

	kind, err := core.ParseKind(req.Tipo)
	if err != nil {
		apiError(w, http.StatusBadRequest, "Por favor, preencha todos os campos corretamente.")
		return
	}
	cents, err := core.ParseDecimalToCents(string(req.Valor))
	if err != nil {
		apiError(w, http.StatusBadRequest, "Por favor, preencha todos os campos corretamente.")
		return
	}

	tx, err := s.svc.Create(r.Context(), services.CreateInput{
		Date:        core.ParseDate(req.Data),
		Kind:        kind,
		Description: sanitizeInput(req.Descricao),
		Amount:      core.Money{Cents: cents},
		Category:    sanitizeInput(req.Categoria),
	})
	if err != nil {
		switch {
		case errors.Is(err, core.ErrInsufficientBalance):
			apiError(w, http.StatusUnprocessableEntity, "Saldo insuficiente para registrar este gasto.")
		case errors.Is(err, core.ErrEmptyDescription),
			errors.Is(err, core.ErrInvalidAmount),
			errors.Is(err, core.ErrInvalidKind):
			apiError(w, http.StatusBadRequest, "Por favor, preencha todos os campos corretamente.")
		default:
			slog.Error("Failed to create transaction", "error", err)
			apiError(w, http.StatusInternalServerError, "Erro ao salvar a transação.")
		}
		return
	}

	s.invalidateDerived()
	writeJSON(w, http.StatusCreated, toTransactionJSON(tx))
}

func (s *Server) handleDeleteTransaction(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil || id <= 0 {
		apiError(w, http.StatusBadRequest, "Identificador inválido.")
		return
	}

	if err := s.svc.Delete(r.Context(), id); err != nil {
		slog.Error("Failed to delete transaction", "error", err, "id", id)
		apiError(w, http.StatusInternalServerError, "Erro ao remover a transação.")
		return
	}

	s.invalidateDerived()
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleCategories(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"categorias": core.CategoryOptions(s.svc.Snapshot()),
	})
}

func (s *Server) handleFilterDefaults(w http.ResponseWriter, r *http.Request) {
	ledger := s.svc.Snapshot()
	from, to := core.DefaultRange(ledger)
	writeJSON(w, http.StatusOK, map[string]any{
		"tipos":      []string{string(core.Income), string(core.Expense)},
		"categorias": core.CategoryOptions(ledger),
		"de":         from.String(),
		"ate":        to.String(),
	})
}

func (s *Server) handleSummary(w http.ResponseWriter, r *http.Request) {
	filter := parseFilter(r)
	rows := filter.Apply(s.svc.Snapshot())

	income := core.Total(rows, core.Income)
	expense := core.Total(rows, core.Expense)
	balance := core.Balance(rows)

	writeJSON(w, http.StatusOK, map[string]any{
		"ganhos_cents": income.Cents,
		"gastos_cents": expense.Cents,
		"saldo_cents":  balance.Cents,
		"ganhos":       core.FormatBRL(income.Cents),
		"gastos":       core.FormatBRL(expense.Cents),
		"saldo":        core.FormatBRL(balance.Cents),
		"transacoes":   len(rows),
	})
}

type chatRequest struct {
	Pergunta string `json:"pergunta"`
}

func (s *Server) handleChat(w http.ResponseWriter, r *http.Request) {
	if s.generator == nil {
		apiError(w, http.StatusServiceUnavailable, "Assistente não configurado.")
		return
	}

	var req chatRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, 1<<20)).Decode(&req); err != nil {
		apiError(w, http.StatusBadRequest, "Corpo da requisição inválido.")
		return
	}
	question := sanitizeInput(req.Pergunta)
	if question == "" {
		apiError(w, http.StatusBadRequest, "Pergunta vazia.")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), s.chatTimeout)
	defer cancel()

	answer := assistant.Answer(ctx, s.generator, question, s.svc.Snapshot())
	writeJSON(w, http.StatusOK, map[string]string{"resposta": answer})
}
