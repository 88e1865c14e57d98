package http

import (
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	"carteira/internal/core"
)

func TestParseFilter(t *testing.T) {
	r := httptest.NewRequest("GET", "/api/transactions?tipo=Gasto&categoria=Lazer,Outros&de=2024-01-01&ate=2024-01-31", nil)
	f := parseFilter(r)

	assert.Equal(t, []core.Kind{core.Expense}, f.Kinds)
	assert.Equal(t, []string{"Lazer", "Outros"}, f.Categories)
	assert.Equal(t, "2024-01-01", f.From.String())
	assert.Equal(t, "2024-01-31", f.To.String())
}

func TestParseFilterSkipsUnknownKinds(t *testing.T) {
	r := httptest.NewRequest("GET", "/?tipo=Transfer%C3%AAncia&tipo=Ganho", nil)
	f := parseFilter(r)
	assert.Equal(t, []core.Kind{core.Income}, f.Kinds)
}

func TestParseFilterEmptyIsUnbounded(t *testing.T) {
	r := httptest.NewRequest("GET", "/", nil)
	f := parseFilter(r)
	assert.Empty(t, f.Kinds)
	assert.Empty(t, f.Categories)
	assert.True(t, f.From.IsNull())
	assert.True(t, f.To.IsNull())
}

func TestParseFilterBadDateLeavesBoundOpen(t *testing.T) {
	r := httptest.NewRequest("GET", "/?de=not-a-date&ate=2024-05-01", nil)
	f := parseFilter(r)
	assert.True(t, f.From.IsNull())
	assert.Equal(t, "2024-05-01", f.To.String())
}

func TestSplitParams(t *testing.T) {
	assert.Equal(t, []string{"a", "b", "c"}, splitParams([]string{"a,b", " c "}))
	assert.Nil(t, splitParams([]string{"", " , "}))
}

func TestSanitizeInput(t *testing.T) {
	assert.Equal(t, "Mercado", sanitizeInput("  Mercado\n"))
	assert.Equal(t, "a\tb", sanitizeInput("a\tb\x00"))
}

func TestClientIP(t *testing.T) {
	r := httptest.NewRequest("GET", "/", nil)
	r.RemoteAddr = "10.0.0.1:1234"
	assert.Equal(t, "10.0.0.1", clientIP(r))

	r.Header.Set("X-Forwarded-For", "203.0.113.9, 10.0.0.1")
	assert.Equal(t, "203.0.113.9", clientIP(r))
}
