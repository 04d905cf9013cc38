package token

import "testing"

func TestCreateToken(t *testing.T) {
	tests := []struct {
		name      string
		tokenType TokenType
		lexeme    string
	}{
		{"ASSIGN token", ASSIGN, "="},
		{"IDENTIFIER token", IDENTIFIER, "myVar"},
		{"MULT token", MULT, "*"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := CreateToken(tt.tokenType, tt.lexeme, "<test>", 1, 1)
			if got.TokenType != tt.tokenType || got.Lexeme != tt.lexeme {
				t.Errorf("CreateToken() = %+v, want type %v lexeme %q", got, tt.tokenType, tt.lexeme)
			}
		})
	}
}

func TestCreateLiteralToken(t *testing.T) {
	got := CreateLiteralToken(INT, int64(42), "42", "<test>", 3, 5)
	if got.Literal != int64(42) {
		t.Errorf("CreateLiteralToken() literal = %v, want 42", got.Literal)
	}
	if got.Line != 3 || got.Column != 5 {
		t.Errorf("CreateLiteralToken() position = %d:%d, want 3:5", got.Line, got.Column)
	}
}

func TestIsReservedIdentifier(t *testing.T) {
	tests := []struct {
		lexeme string
		want   bool
	}{
		{"__fma", true},
		{"__x", true},
		{"_single", false},
		{"plain", false},
	}
	for _, tt := range tests {
		if got := IsReservedIdentifier(tt.lexeme); got != tt.want {
			t.Errorf("IsReservedIdentifier(%q) = %v, want %v", tt.lexeme, got, tt.want)
		}
	}
}
