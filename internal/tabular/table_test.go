package tabular

import (
	"os"
	"path/filepath"
	"testing"
)

func TestReadWriteRoundTrip(t *testing.T) {
	tmp := t.TempDir()
	path := filepath.Join(tmp, "t.csv")
	if err := os.WriteFile(path, []byte("a,b\n1,2\n3\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	tab, err := Read(path)
	if err != nil {
		t.Fatal(err)
	}
	if len(tab.Rows) != 2 {
		t.Fatalf("rows=%d", len(tab.Rows))
	}
	if tab.Rows[0]["b"] != "2" {
		t.Fatalf("b=%q", tab.Rows[0]["b"])
	}
	if tab.Rows[1]["b"] != "" {
		t.Fatalf("short row should leave column empty, got %q", tab.Rows[1]["b"])
	}

	out := filepath.Join(tmp, "out.csv")
	if err := tab.Write(out); err != nil {
		t.Fatal(err)
	}
	again, err := Read(out)
	if err != nil {
		t.Fatal(err)
	}
	if len(again.Rows) != 2 || again.Rows[0]["a"] != "1" {
		t.Fatalf("round trip lost data: %+v", again.Rows)
	}
}

func TestRename(t *testing.T) {
	tab := New("ORDER_ID", "TOTAL")
	tab.AddRow(map[string]string{"ORDER_ID": "1", "TOTAL": "9.99"})
	tab.Rename(map[string]string{"ORDER_ID": "gp_order_id"})

	if tab.Headers[0] != "gp_order_id" || tab.Headers[1] != "TOTAL" {
		t.Fatalf("headers=%v", tab.Headers)
	}
	if tab.Rows[0]["gp_order_id"] != "1" {
		t.Fatalf("row=%v", tab.Rows[0])
	}
	if _, ok := tab.Rows[0]["ORDER_ID"]; ok {
		t.Fatal("old key kept")
	}
}

func TestAppendUnionsHeaders(t *testing.T) {
	a := New("x", "y")
	a.AddRow(map[string]string{"x": "1", "y": "2"})
	b := New("y", "z")
	b.AddRow(map[string]string{"y": "3", "z": "4"})

	a.Append(b)
	if len(a.Headers) != 3 {
		t.Fatalf("headers=%v", a.Headers)
	}
	if a.Rows[1]["z"] != "4" || a.Rows[1]["x"] != "" {
		t.Fatalf("rows=%v", a.Rows)
	}
}
