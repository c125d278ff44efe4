package statement

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"ordercash/internal"
	"ordercash/internal/config"
	"ordercash/internal/tabular"
	"ordercash/internal/util"
)

const augustWeekOne = `Statement
4 August 2025 - 10 August 2025
1 04/08/25 12345678 Delivered £100.00
Commission to Marketplace
Commission charges
£20.00
Subtotal
`

const augustWeekTwo = `Statement
11 August 2025 - 17 August 2025
1 11/08/25 22334455 Delivered £50.00
`

func testConfig(t *testing.T) config.Config {
	t.Helper()
	dir := t.TempDir()
	return config.Config{
		StatementDir:    filepath.Join(dir, "statements"),
		OutputDir:       filepath.Join(dir, "out"),
		AuditDir:        filepath.Join(dir, "out", "audit"),
		StatementMarker: "Statement",
	}
}

func placeStatement(t *testing.T, dir, name string) string {
	t.Helper()
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatal(err)
	}
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte("%PDF-1.4"), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestDiscoverFiltersByFilenameWindow(t *testing.T) {
	cfg := testConfig(t)
	inRange := placeStatement(t, cfg.StatementDir, "25.08.04 Statement.pdf")
	placeStatement(t, cfg.StatementDir, "25.07.07 Statement.pdf")
	placeStatement(t, cfg.StatementDir, "25.08.04 Invoice.pdf")
	placeStatement(t, cfg.StatementDir, "Statement no date.pdf")

	p, err := NewProcessor(cfg, zerolog.Nop())
	if err != nil {
		t.Fatalf("NewProcessor: %v", err)
	}

	period := util.Window{
		Start: time.Date(2025, 8, 4, 0, 0, 0, 0, time.UTC),
		End:   time.Date(2025, 8, 17, 0, 0, 0, 0, time.UTC),
	}
	files, err := p.Discover(period)
	if err != nil {
		t.Fatalf("Discover: %v", err)
	}
	if len(files) != 1 || files[0] != inRange {
		t.Fatalf("Discover() = %v, want only %s", files, inRange)
	}
}

func TestDiscoverOverlapIncludesTouchingWindow(t *testing.T) {
	cfg := testConfig(t)
	// Starts 28 July, covers through 3 August: overlaps a period starting
	// 3 August on its last day.
	touching := placeStatement(t, cfg.StatementDir, "25.07.28 Statement.pdf")

	p, err := NewProcessor(cfg, zerolog.Nop())
	if err != nil {
		t.Fatalf("NewProcessor: %v", err)
	}

	period := util.Window{
		Start: time.Date(2025, 8, 3, 0, 0, 0, 0, time.UTC),
		End:   time.Date(2025, 8, 10, 0, 0, 0, 0, time.UTC),
	}
	files, err := p.Discover(period)
	if err != nil {
		t.Fatalf("Discover: %v", err)
	}
	if len(files) != 1 || files[0] != touching {
		t.Fatalf("Discover() = %v, want %s", files, touching)
	}
}

func TestProcessConsolidatesStatements(t *testing.T) {
	cfg := testConfig(t)
	one := placeStatement(t, cfg.StatementDir, "25.08.04 Statement.pdf")
	two := placeStatement(t, cfg.StatementDir, "25.08.11 Statement.pdf")

	p, err := NewProcessor(cfg, zerolog.Nop())
	if err != nil {
		t.Fatalf("NewProcessor: %v", err)
	}
	p.Parser().WithExtractor(fakeExtractor{pages: map[string][]string{
		one: {augustWeekOne},
		two: {augustWeekTwo},
	}})

	period := util.Window{
		Start: time.Date(2025, 8, 4, 0, 0, 0, 0, time.UTC),
		End:   time.Date(2025, 8, 17, 0, 0, 0, 0, time.UTC),
	}
	path, err := p.Process(period)
	if err != nil {
		t.Fatalf("Process: %v", err)
	}

	wantName := "25.08.04 - 25.08.11 - Order Level Detail.csv"
	if filepath.Base(path) != wantName {
		t.Fatalf("ledger name = %s, want %s", filepath.Base(path), wantName)
	}

	ledger, err := tabular.Read(path)
	if err != nil {
		t.Fatalf("read ledger: %v", err)
	}
	// Two order rows plus the commission aggregate from week one.
	if len(ledger.Rows) != 3 {
		t.Fatalf("ledger has %d rows, want 3", len(ledger.Rows))
	}

	// Rows sort by statement start, then order id: the commission aggregate
	// has no order id so it leads its week.
	if ledger.Rows[0]["transaction_type"] != "Commission" || ledger.Rows[0]["mp_total"] != "-24.00" {
		t.Fatalf("first row = %v, want the week-one commission aggregate", ledger.Rows[0])
	}

	order := ledger.Rows[1]
	if order["mp_order_id"] != "12345678" {
		t.Fatalf("second row order = %q, want 12345678", order["mp_order_id"])
	}
	if order["mp_total"] != "100.00" || order["transaction_type"] != "Order" {
		t.Fatalf("second row = %v", order)
	}
	if order["statement_start"] != "2025-08-04" || order["statement_end"] != "2025-08-10" {
		t.Fatalf("second row window = %s to %s", order["statement_start"], order["statement_end"])
	}
	if ledger.Rows[2]["mp_order_id"] != "22334455" {
		t.Fatalf("third row = %v, want the week-two order", ledger.Rows[2])
	}

	audit := filepath.Join(cfg.AuditDir, "25.08.04 Statement_DeductionDetails.csv")
	if _, err := os.Stat(audit); err != nil {
		t.Fatalf("audit file missing: %v", err)
	}
}

func TestProcessNoMatchingStatements(t *testing.T) {
	cfg := testConfig(t)
	placeStatement(t, cfg.StatementDir, "25.01.06 Statement.pdf")

	p, err := NewProcessor(cfg, zerolog.Nop())
	if err != nil {
		t.Fatalf("NewProcessor: %v", err)
	}

	period := util.Window{
		Start: time.Date(2025, 8, 4, 0, 0, 0, 0, time.UTC),
		End:   time.Date(2025, 8, 10, 0, 0, 0, 0, time.UTC),
	}
	_, err = p.Process(period)
	var notFound *internal.NotFoundError
	if !errors.As(err, &notFound) {
		t.Fatalf("Process error = %v, want NotFoundError", err)
	}
}

func TestProcessSkipsBrokenStatement(t *testing.T) {
	cfg := testConfig(t)
	good := placeStatement(t, cfg.StatementDir, "25.08.04 Statement.pdf")
	broken := placeStatement(t, cfg.StatementDir, "25.08.11 Statement.pdf")

	p, err := NewProcessor(cfg, zerolog.Nop())
	if err != nil {
		t.Fatalf("NewProcessor: %v", err)
	}
	p.Parser().WithExtractor(fakeExtractor{pages: map[string][]string{
		good:   {augustWeekOne},
		broken: {"no period header in this one"},
	}})

	period := util.Window{
		Start: time.Date(2025, 8, 4, 0, 0, 0, 0, time.UTC),
		End:   time.Date(2025, 8, 17, 0, 0, 0, 0, time.UTC),
	}
	path, err := p.Process(period)
	if err != nil {
		t.Fatalf("Process: %v", err)
	}
	if filepath.Base(path) != "25.08.04 - 25.08.04 - Order Level Detail.csv" {
		t.Fatalf("ledger name = %s", filepath.Base(path))
	}
}
