package parser

import (
	"encoding/json"
	"testing"
)

func TestPrintASTJSONProducesParsableJSON(t *testing.T) {
	stmts := parseSource(t, "var x = 1 + 2; return x;")
	out, err := PrintASTJSON(stmts)
	if err != nil {
		t.Fatalf("PrintASTJSON() error = %v", err)
	}

	var decoded []any
	if err := json.Unmarshal([]byte(out), &decoded); err != nil {
		t.Fatalf("PrintASTJSON() output did not parse as JSON: %v", err)
	}
	if len(decoded) != 2 {
		t.Fatalf("got %d top-level entries, want 2", len(decoded))
	}

	varStmt, ok := decoded[0].(map[string]any)
	if !ok || varStmt["type"] != "VarStmt" {
		t.Errorf("decoded[0] = %v, want a VarStmt entry", decoded[0])
	}
}

func TestPrintASTJSONRendersBinaryExpressionShape(t *testing.T) {
	stmts := parseSource(t, "return 1 + 2;")
	out, err := PrintASTJSON(stmts)
	if err != nil {
		t.Fatalf("PrintASTJSON() error = %v", err)
	}

	var decoded []any
	if err := json.Unmarshal([]byte(out), &decoded); err != nil {
		t.Fatalf("PrintASTJSON() output did not parse as JSON: %v", err)
	}
	ret := decoded[0].(map[string]any)
	value, ok := ret["value"].(map[string]any)
	if !ok || value["type"] != "Binary" || value["operator"] != "+" {
		t.Errorf("return value = %v, want a Binary '+' entry", ret["value"])
	}
}

func TestWriteASTJSONToFileWritesReadableFile(t *testing.T) {
	stmts := parseSource(t, "return 1;")
	path := t.TempDir() + "/out.json"
	if err := WriteASTJSONToFile(stmts, path); err != nil {
		t.Fatalf("WriteASTJSONToFile() error = %v", err)
	}
}
