package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/alecthomas/kong"
	"golang.org/x/sync/errgroup"

	"carteira/internal/amqp"
	"carteira/internal/assistant"
	"carteira/internal/assistant/ollama"
	"carteira/internal/cli"
	"carteira/internal/config"
	"carteira/internal/core"
	carteirahttp "carteira/internal/http"
	"carteira/internal/services"
)

// cliArgs defines the available subcommands.
var cliArgs struct {
	Serve   serveCmd   `cmd:"" help:"Run the HTTP API server."`
	Events  eventsCmd  `cmd:"" help:"Run the ledger event consumer."`
	Add     addCmd     `cmd:"" help:"Record a new transaction."`
	Remove  removeCmd  `cmd:"" help:"Remove a transaction by ID."`
	List    listCmd    `cmd:"" help:"List transactions."`
	Summary summaryCmd `cmd:"" help:"Show income, expense and balance totals."`
	Chat    chatCmd    `cmd:"" help:"Ask the assistant about your finances."`
}

func main() {
	ctx := kong.Parse(&cliArgs,
		kong.Name("carteira"),
		kong.Description("Personal finance ledger."),
		kong.UsageOnError(),
	)
	ctx.FatalIfErrorf(ctx.Run())
}

// app holds the wiring shared by every subcommand.
type app struct {
	logger  *slog.Logger
	cfg     *config.Config
	svc     *services.LedgerService
	cleanup func()
}

// bootstrap loads config, opens storage and builds the ledger service.
// Event publishing is only wired for the long-running server.
func bootstrap(withEvents bool) (*app, error) {
	logger := cli.SetupLogger()
	cli.LoadEnvFile()
	cfg := cli.LoadAndValidateConfig(logger)

	store, storeCleanup := cli.InitStore(logger, cfg)

	var events services.EventPublisher
	if withEvents && cfg.AMQPURL != "" {
		client, err := amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue)
		if err != nil {
			logger.Warn("AMQP unavailable, events disabled", "error", err)
		} else {
			events = client
		}
	}

	svc, err := services.NewLedgerService(context.Background(), store, events)
	if err != nil {
		if storeCleanup != nil {
			storeCleanup()
		}
		return nil, err
	}

	return &app{
		logger: logger,
		cfg:    cfg,
		svc:    svc,
		cleanup: func() {
			if err := svc.Close(); err != nil {
				logger.Warn("Failed to close ledger service", "error", err)
			}
			if storeCleanup != nil {
				storeCleanup()
			}
		},
	}, nil
}

func (a *app) generator() assistant.Generator {
	return ollama.New(a.cfg.OllamaURL,
		ollama.WithModel(a.cfg.OllamaModel),
		ollama.WithMaxTokens(a.cfg.OllamaMaxTokens),
		ollama.WithTemperature(a.cfg.OllamaTemperature),
	)
}

type serveCmd struct{}

func (c *serveCmd) Run() error {
	a, err := bootstrap(true)
	if err != nil {
		return err
	}
	defer a.cleanup()

	server := carteirahttp.NewServer(":"+a.cfg.Port, a.svc, a.generator(), a.cfg.ChatTimeout)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		a.logger.Info("Server starting", "port", a.cfg.Port, "backend", a.cfg.StorageBackend)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-ctx.Done()
		a.logger.Info("Shutdown signal received")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		return fmt.Errorf("server error: %w", err)
	}
	a.logger.Info("Server stopped")
	return nil
}

type eventsCmd struct{}

// Run consumes ledger events from the configured queue and logs them until
// interrupted. It is the consuming counterpart of the publisher wired into
// the server.
func (c *eventsCmd) Run() error {
	logger := cli.SetupLogger()
	cli.LoadEnvFile()
	cfg := cli.LoadAndValidateConfig(logger)

	if cfg.AMQPURL == "" {
		return fmt.Errorf("AMQP_URL is required for the event consumer")
	}

	client, err := amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue)
	if err != nil {
		return fmt.Errorf("connect to broker: %w", err)
	}
	defer client.Close()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	logger.Info("Event consumer starting", "queue", cfg.AMQPQueue)
	err = client.ConsumeLedgerEvents(ctx, func(msg *amqp.LedgerEventMessage) error {
		return logLedgerEvent(logger, msg)
	})
	if err != nil && !errors.Is(err, context.Canceled) {
		return fmt.Errorf("consume events: %w", err)
	}
	logger.Info("Event consumer stopped")
	return nil
}

// logLedgerEvent records one received ledger event. Unknown operations are
// acknowledged with a warning; erroring would requeue them indefinitely.
func logLedgerEvent(logger *slog.Logger, msg *amqp.LedgerEventMessage) error {
	switch msg.Op {
	case amqp.OpCreated:
		logger.Info("Ledger event received",
			"op", msg.Op, "id", msg.ID, "kind", msg.Kind,
			"amount_cents", msg.AmountCents, "timestamp", msg.Timestamp)
	case amqp.OpDeleted:
		logger.Info("Ledger event received",
			"op", msg.Op, "id", msg.ID, "timestamp", msg.Timestamp)
	default:
		logger.Warn("Ignoring unknown ledger event op", "op", msg.Op, "id", msg.ID)
	}
	return nil
}

type addCmd struct {
	Tipo      string `required:"" help:"Transaction kind: Ganho or Gasto."`
	Valor     string `required:"" help:"Amount, e.g. 45,60 or 45.60."`
	Descricao string `required:"" help:"Short description."`
	Categoria string `help:"Category (defaults to Outros)."`
	Data      string `help:"Date as YYYY-MM-DD (defaults to today)."`
}

func (c *addCmd) Run() error {
	a, err := bootstrap(false)
	if err != nil {
		return err
	}
	defer a.cleanup()

	kind, err := core.ParseKind(c.Tipo)
	if err != nil {
		return err
	}
	cents, err := core.ParseDecimalToCents(c.Valor)
	if err != nil {
		return fmt.Errorf("invalid amount %q: %w", c.Valor, err)
	}
	date := c.Data
	if date == "" {
		date = time.Now().Format(core.DateLayout)
	}

	tx, err := a.svc.Create(context.Background(), services.CreateInput{
		Date:        core.ParseDate(date),
		Kind:        kind,
		Description: c.Descricao,
		Amount:      core.Money{Cents: cents},
		Category:    c.Categoria,
	})
	if err != nil {
		if errors.Is(err, core.ErrInsufficientBalance) {
			return fmt.Errorf("saldo insuficiente para registrar este gasto")
		}
		return err
	}

	fmt.Printf("Registrado #%d: %s %s (%s) em %s\n",
		tx.ID, tx.Kind, core.FormatBRL(tx.Amount.Cents), tx.Category, tx.Date.String())
	return nil
}

type removeCmd struct {
	ID int64 `arg:"" help:"Transaction ID to remove."`
}

func (c *removeCmd) Run() error {
	if c.ID <= 0 {
		return fmt.Errorf("invalid id %d", c.ID)
	}
	a, err := bootstrap(false)
	if err != nil {
		return err
	}
	defer a.cleanup()

	if err := a.svc.Delete(context.Background(), c.ID); err != nil {
		return err
	}
	fmt.Printf("Removido #%d\n", c.ID)
	return nil
}

type listCmd struct {
	Tipo      []string `help:"Filter by kind (Ganho, Gasto)."`
	Categoria []string `help:"Filter by category."`
	De        string   `help:"Start date, inclusive (YYYY-MM-DD)."`
	Ate       string   `help:"End date, inclusive (YYYY-MM-DD)."`
}

func (c *listCmd) Run() error {
	a, err := bootstrap(false)
	if err != nil {
		return err
	}
	defer a.cleanup()

	filter := core.Filter{Categories: c.Categoria}
	for _, raw := range c.Tipo {
		kind, err := core.ParseKind(raw)
		if err != nil {
			return err
		}
		filter.Kinds = append(filter.Kinds, kind)
	}
	if c.De != "" {
		filter.From = core.ParseDate(c.De)
	}
	if c.Ate != "" {
		filter.To = core.ParseDate(c.Ate)
	}

	rows := filter.Apply(a.svc.Snapshot())
	if len(rows) == 0 {
		fmt.Println("Nenhuma transação encontrada.")
		return nil
	}

	fmt.Printf("%-5s %-12s %-7s %-30s %12s  %s\n", "ID", "Data", "Tipo", "Descrição", "Valor", "Categoria")
	for _, tx := range rows {
		date := tx.Date.String()
		if date == "" {
			date = "-"
		}
		fmt.Printf("%-5d %-12s %-7s %-30s %12s  %s\n",
			tx.ID, date, tx.Kind, truncate(tx.Description, 30),
			core.FormatDecimal(tx.Amount.Cents), tx.Category)
	}
	return nil
}

func truncate(s string, max int) string {
	r := []rune(s)
	if len(r) <= max {
		return s
	}
	return string(r[:max-1]) + "…"
}

type summaryCmd struct{}

func (c *summaryCmd) Run() error {
	a, err := bootstrap(false)
	if err != nil {
		return err
	}
	defer a.cleanup()

	ledger := a.svc.Snapshot()
	fmt.Printf("Ganhos: %s\n", core.FormatBRL(core.Total(ledger, core.Income).Cents))
	fmt.Printf("Gastos: %s\n", core.FormatBRL(core.Total(ledger, core.Expense).Cents))
	fmt.Printf("Saldo:  %s\n", core.FormatBRL(core.Balance(ledger).Cents))
	return nil
}

type chatCmd struct {
	Pergunta []string `arg:"" help:"Question for the assistant."`
}

func (c *chatCmd) Run() error {
	a, err := bootstrap(false)
	if err != nil {
		return err
	}
	defer a.cleanup()

	question := strings.TrimSpace(strings.Join(c.Pergunta, " "))
	if question == "" {
		return fmt.Errorf("pergunta vazia")
	}

	ctx, cancel := context.WithTimeout(context.Background(), a.cfg.ChatTimeout)
	defer cancel()

	fmt.Println(assistant.Answer(ctx, a.generator(), question, a.svc.Snapshot()))
	return nil
}
