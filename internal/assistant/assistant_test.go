package assistant

import (
	"context"
	"errors"
	"strings"
	"testing"

	"carteira/internal/core"
)

type fakeGenerator struct {
	reply  string
	err    error
	prompt string
}

func (f *fakeGenerator) Generate(_ context.Context, prompt string) (string, error) {
	f.prompt = prompt
	return f.reply, f.err
}

func testLedger() core.Ledger {
	return core.Ledger{
		{ID: 1, Date: core.NewDate(2024, 1, 1), Kind: core.Income, Description: "salário", Amount: core.Money{Cents: 100000}, Category: "Salário"},
		{ID: 2, Date: core.NewDate(2024, 1, 2), Kind: core.Expense, Description: "mercado", Amount: core.Money{Cents: 25000}, Category: "Alimentação"},
	}
}

func TestBuildPromptCarriesFinancialContext(t *testing.T) {
	prompt := BuildPrompt("posso gastar R$ 50?", testLedger())

	for _, want := range []string{
		"R$ 1000.00", // income total
		"R$ 250.00",  // expense total
		"R$ 750.00",  // balance
		"Salário (Ganho)",
		"Alimentação (Gasto)",
		"posso gastar R$ 50?",
	} {
		if !strings.Contains(prompt, want) {
			t.Fatalf("prompt missing %q:\n%s", want, prompt)
		}
	}
}

func TestAnswerReturnsGeneratorReply(t *testing.T) {
	g := &fakeGenerator{reply: "Pode sim."}
	got := Answer(context.Background(), g, "posso?", testLedger())
	if got != "Pode sim." {
		t.Fatalf("unexpected answer: %q", got)
	}
	if !strings.Contains(g.prompt, "Pergunta: posso?") {
		t.Fatalf("generator did not receive the composed prompt: %q", g.prompt)
	}
}

func TestAnswerDegradesFailureToErrorString(t *testing.T) {
	g := &fakeGenerator{err: errors.New("connection refused")}
	got := Answer(context.Background(), g, "posso?", testLedger())
	if !strings.Contains(got, "Erro na conexão com o assistente") {
		t.Fatalf("expected degraded error string, got %q", got)
	}
}
