package statement

import (
	"os"
	"path/filepath"
	"regexp"
	"testing"
)

func TestClassifyDefaultRules(t *testing.T) {
	c := NewClassifier(DefaultRules())

	tests := []struct {
		name       string
		desc       string
		wantReason string
		wantOrder  string
	}{
		{
			name:       "customer compensation",
			desc:       "Customer compensation for missing items query 12345678",
			wantReason: "missing items",
			wantOrder:  "12345678",
		},
		{
			name:       "customer compensation wrong order",
			desc:       "Customer compensation for wrong order query 87654321",
			wantReason: "wrong order",
			wantOrder:  "87654321",
		},
		{
			name:       "restaurant comp cancelled",
			desc:       "Restaurant Comp - Cancelled Order - 11223344",
			wantReason: "Restaurant Comp - Cancelled Order",
			wantOrder:  "11223344",
		},
		{
			name:       "partner compensation recook",
			desc:       "Order ID: 99887766 - Partner Compensation Recook",
			wantReason: "Partner Compensation Recook",
			wantOrder:  "99887766",
		},
		{
			name:       "recook without colon",
			desc:       "Order ID 99887766 - Partner Compensation Recook",
			wantReason: "Partner Compensation Recook",
			wantOrder:  "99887766",
		},
		{
			name:       "no match",
			desc:       "Delivery fee adjustment",
			wantReason: "",
			wantOrder:  "",
		},
		{
			name:       "empty",
			desc:       "",
			wantReason: "",
			wantOrder:  "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			reason, orderID := c.Classify(tt.desc)
			if reason != tt.wantReason || orderID != tt.wantOrder {
				t.Fatalf("Classify(%q) = (%q, %q), want (%q, %q)",
					tt.desc, reason, orderID, tt.wantReason, tt.wantOrder)
			}
		})
	}
}

func TestClassifyFirstMatchWins(t *testing.T) {
	rules := []Rule{
		{Name: "specific", Pattern: regexp.MustCompile(`fee for order (\d+)`), FixedReason: "specific", OrderGroup: 1},
		{Name: "broad", Pattern: regexp.MustCompile(`fee`), FixedReason: "broad"},
	}
	c := NewClassifier(rules)

	reason, orderID := c.Classify("fee for order 12345")
	if reason != "specific" || orderID != "12345" {
		t.Fatalf("got (%q, %q), want (specific, 12345)", reason, orderID)
	}

	reason, _ = c.Classify("service fee")
	if reason != "broad" {
		t.Fatalf("got reason %q, want broad", reason)
	}
}

func TestLoadRules(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "rules.yml")
	body := `- name: late-delivery
  pattern: 'Late delivery credit order (\d+)'
  reason: Late Delivery Credit
  order_group: 1
`
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}

	rules, err := LoadRules(path)
	if err != nil {
		t.Fatalf("LoadRules: %v", err)
	}
	if len(rules) != 1 {
		t.Fatalf("got %d rules, want 1", len(rules))
	}

	c := NewClassifier(append(DefaultRules(), rules...))
	reason, orderID := c.Classify("late delivery credit order 55667788")
	if reason != "Late Delivery Credit" || orderID != "55667788" {
		t.Fatalf("got (%q, %q), want (Late Delivery Credit, 55667788)", reason, orderID)
	}
}

func TestLoadRulesRejectsBadPattern(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "rules.yml")
	body := `- name: broken
  pattern: '([unclosed'
`
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadRules(path); err == nil {
		t.Fatal("expected error for invalid pattern")
	}
}
