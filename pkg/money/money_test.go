package money

import "testing"

func TestParseAmountEmptyIsNil(t *testing.T) {
	for _, value := range []string{"", "   "} {
		amount, err := ParseAmount(value)
		if err != nil {
			t.Fatalf("ParseAmount(%q): %v", value, err)
		}
		if amount != nil {
			t.Fatalf("expected nil for %q, got %s", value, amount)
		}
	}
}

func TestParseAmount(t *testing.T) {
	amount, err := ParseAmount("19.99")
	if err != nil {
		t.Fatalf("ParseAmount: %v", err)
	}
	if amount == nil || amount.String() != "19.99" {
		t.Fatalf("unexpected amount %v", amount)
	}

	if _, err := ParseAmount("nineteen"); err == nil {
		t.Fatal("expected error for non-numeric amount")
	}
}
