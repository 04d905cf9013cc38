package lexer

import (
	"testing"

	"asteria/token"
)

func tokenTypes(toks []token.Token) []token.TokenType {
	out := make([]token.TokenType, len(toks))
	for i, tok := range toks {
		out[i] = tok.TokenType
	}
	return out
}

func runTestSuccess(t *testing.T, scanner *Lexer, expected []token.TokenType) {
	t.Run("ValidTokenScan", func(t *testing.T) {
		got, err := scanner.Scan()
		if err != nil {
			t.Fatalf("scanner.Scan() raised an error: %v", err)
		}
		gotTypes := tokenTypes(got)
		if len(gotTypes) != len(expected) {
			t.Fatalf("scanner.Scan() = %v, want %v", gotTypes, expected)
		}
		for i := range expected {
			if gotTypes[i] != expected[i] {
				t.Errorf("token[%d] = %v, want %v", i, gotTypes[i], expected[i])
			}
		}
	})
}

func TestOperatorsSuccess(t *testing.T) {
	expected := []token.TokenType{
		token.EQUAL_EQUAL, token.DIV_ASSIGN, token.MULT, token.ADD,
		token.LARGER, token.SUB, token.LESS, token.NOT_EQUAL, token.SPACESHIP,
		token.ASSIGN, token.BANG, token.BANG, token.EOF,
	}
	scanner := CreateLexer("==/=*+>-<!=<=>=!!")
	runTestSuccess(t, scanner, expected)
}

func TestScanSuccess(t *testing.T) {
	expected := []token.TokenType{
		token.LPA, token.RPA, token.LCUR, token.RCUR, token.MULT, token.MULT,
		token.SEMICOLON, token.ADD, token.NOT_EQUAL, token.LESS_EQUAL, token.EOF,
	}
	scanner := CreateLexer("(){}**;+!=<=")
	runTestSuccess(t, scanner, expected)
}

func TestScanModifierBrackets(t *testing.T) {
	expected := []token.TokenType{
		token.IDENTIFIER, token.LBRK_HEAD, token.IDENTIFIER, token.LBRK_TAIL,
		token.IDENTIFIER, token.LBRK_RAND, token.SEMICOLON, token.EOF,
	}
	scanner := CreateLexer("a[^] b[$] c[?];")
	runTestSuccess(t, scanner, expected)
}

func TestScanNumericLiterals(t *testing.T) {
	scanner := CreateLexer("0x1F 0b101 3.14 1_000")
	toks, err := scanner.Scan()
	if err != nil {
		t.Fatalf("scan error: %v", err)
	}
	want := []struct {
		tt      token.TokenType
		literal any
	}{
		{token.INT, int64(31)},
		{token.INT, int64(5)},
		{token.REAL, 3.14},
		{token.INT, int64(1000)},
	}
	if len(toks) < len(want) {
		t.Fatalf("got %d tokens, want at least %d", len(toks), len(want))
	}
	for i, w := range want {
		if toks[i].TokenType != w.tt {
			t.Errorf("token[%d].TokenType = %v, want %v", i, toks[i].TokenType, w.tt)
		}
		if toks[i].Literal != w.literal {
			t.Errorf("token[%d].Literal = %v, want %v", i, toks[i].Literal, w.literal)
		}
	}
}

func TestScanQuestionMarkForms(t *testing.T) {
	expected := []token.TokenType{
		token.QUESTION, token.TERN_ASSIGN, token.COALESCE, token.COAL_ASSIGN, token.EOF,
	}
	scanner := CreateLexer("? ?= ?? ??=")
	runTestSuccess(t, scanner, expected)
}
