package match

import (
	"testing"

	"github.com/kumar10248/keyreplacer/internal/mapping"
)

func table(entries map[string]string, caseSensitive bool) *mapping.Table {
	return mapping.NewTable(entries, caseSensitive)
}

func TestTryMatchBasic(t *testing.T) {
	tbl := table(map[string]string{"addr": "123 Main St"}, false)

	res, ok := TryMatch("addr", tbl)
	if !ok {
		t.Fatal("expected match")
	}
	if res.Shortcut != "addr" || res.Expansion != "123 Main St" || res.Length != 4 {
		t.Errorf("Result = %+v", res)
	}
}

func TestTryMatchTrailingOnly(t *testing.T) {
	tbl := table(map[string]string{"addr": "x"}, false)

	if _, ok := TryMatch("addrz", tbl); ok {
		t.Error("shortcut in the middle of the window must not match")
	}
	if res, ok := TryMatch("hello addr", tbl); !ok || res.Length != 4 {
		t.Errorf("trailing shortcut after space should match, got ok=%v res=%+v", ok, res)
	}
}

func TestTryMatchWordBoundary(t *testing.T) {
	tbl := table(map[string]string{"email": "me@example.com"}, false)

	tests := []struct {
		window string
		want   bool
	}{
		{"email", true},    // window start is a boundary
		{" email", true},   // space boundary
		{".email", true},   // punctuation boundary
		{"myemail", false}, // suffix of a longer word
		{"2email", false},  // digit is a word character
		{"my email", true}, // boundary inside a phrase
	}

	for _, tt := range tests {
		if _, ok := TryMatch(tt.window, tbl); ok != tt.want {
			t.Errorf("TryMatch(%q) = %v, want %v", tt.window, ok, tt.want)
		}
	}
}

func TestTryMatchLongestWins(t *testing.T) {
	tbl := table(map[string]string{
		"em":    "short",
		"email": "long",
	}, false)

	res, ok := TryMatch("email", tbl)
	if !ok {
		t.Fatal("expected match")
	}
	if res.Shortcut != "email" || res.Expansion != "long" || res.Length != 5 {
		t.Errorf("longest match lost: %+v", res)
	}

	// The shorter one still fires when it stands alone.
	res, ok = TryMatch("so em", tbl)
	if !ok || res.Shortcut != "em" {
		t.Errorf("short shortcut should fire alone, got ok=%v res=%+v", ok, res)
	}
}

func TestTryMatchCaseFolding(t *testing.T) {
	insensitive := table(map[string]string{"addr": "x"}, false)
	if res, ok := TryMatch("ADDR", insensitive); !ok || res.Shortcut != "addr" || res.Length != 4 {
		t.Errorf("case-insensitive ADDR: ok=%v res=%+v", ok, res)
	}

	sensitive := table(map[string]string{"addr": "x"}, true)
	if _, ok := TryMatch("ADDR", sensitive); ok {
		t.Error("case-sensitive ADDR must not match")
	}
}

func TestTryMatchWindowShorterThanLongestShortcut(t *testing.T) {
	tbl := table(map[string]string{"helloworld": "hi", "em": "e"}, false)

	if _, ok := TryMatch("hellow", tbl); ok {
		t.Error("partial shortcut must not match")
	}
	// The boundary rule holds for long shortcuts too: a letter before
	// the trailing match suppresses it, a separator or the window edge
	// allows it.
	if _, ok := TryMatch("xhelloworld", tbl); ok {
		t.Error("letter before the shortcut must not match")
	}
	if res, ok := TryMatch(" helloworld", tbl); !ok || res.Length != 10 {
		t.Errorf("separator boundary: ok=%v res=%+v", ok, res)
	}
	if res, ok := TryMatch("helloworld", tbl); !ok || res.Length != 10 {
		t.Errorf("window-edge boundary: ok=%v res=%+v", ok, res)
	}
}

func TestTryMatchEmptyInputs(t *testing.T) {
	tbl := table(map[string]string{"addr": "x"}, false)

	if _, ok := TryMatch("", tbl); ok {
		t.Error("empty window must not match")
	}
	if _, ok := TryMatch("addr", mapping.EmptyTable(false)); ok {
		t.Error("empty table must not match")
	}
	if _, ok := TryMatch("addr", nil); ok {
		t.Error("nil table must not match")
	}
}

func TestTryMatchNoSideEffects(t *testing.T) {
	tbl := table(map[string]string{"addr": "x"}, false)

	for i := 0; i < 3; i++ {
		res, ok := TryMatch("addr", tbl)
		if !ok || res.Length != 4 {
			t.Fatalf("iteration %d: ok=%v res=%+v", i, ok, res)
		}
	}
}
