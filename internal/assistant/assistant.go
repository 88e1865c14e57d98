// Package assistant is the boundary to the external text-generation
// service. The ledger core never depends on it; failures degrade to an
// error string and never abort the ledger workflow.
package assistant

import (
	"context"
	"log/slog"
	"strings"

	"carteira/internal/core"
)

// Generator produces a text answer for a prompt.
type Generator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// BuildPrompt composes the user's question with a financial context
// summary (balance, totals, per-category breakdown, currency-formatted) so
// the model can answer about the actual ledger.
func BuildPrompt(question string, l core.Ledger) string {
	var b strings.Builder
	b.WriteString("Você é um assistente financeiro pessoal. ")
	b.WriteString("Responda em português, de forma curta e objetiva, usando apenas o resumo abaixo.\n\n")
	b.WriteString("Resumo financeiro:\n")
	b.WriteString("- Total de ganhos: " + core.FormatBRL(core.Total(l, core.Income).Cents) + "\n")
	b.WriteString("- Total de gastos: " + core.FormatBRL(core.Total(l, core.Expense).Cents) + "\n")
	b.WriteString("- Saldo atual: " + core.FormatBRL(core.Balance(l).Cents) + "\n")

	if groups := core.GroupSum(l, core.ByCategoryAndKind); len(groups) > 0 {
		b.WriteString("- Por categoria:\n")
		for _, g := range groups {
			b.WriteString("  - " + g.Key.Primary + " (" + g.Key.Secondary + "): " +
				core.FormatBRL(g.Amount.Cents) + "\n")
		}
	}

	b.WriteString("\nPergunta: " + question + "\n")
	return b.String()
}

// Answer runs the generator over the composed prompt. Any failure becomes
// an error string in the reply; the caller never sees an error.
func Answer(ctx context.Context, g Generator, question string, l core.Ledger) string {
	reply, err := g.Generate(ctx, BuildPrompt(question, l))
	if err != nil {
		slog.WarnContext(ctx, "Assistant call failed", "error", err)
		return "Erro na conexão com o assistente: " + err.Error()
	}
	return reply
}
