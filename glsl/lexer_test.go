package glsl

import "testing"

func TestLexerBasicTokens(t *testing.T) {
	tests := []struct {
		input    string
		expected []TokenKind
	}{
		{"+ - * /", []TokenKind{TokenPlus, TokenMinus, TokenStar, TokenSlash, TokenEOF}},
		{"( ) { }", []TokenKind{TokenLeftParen, TokenRightParen, TokenLeftBrace, TokenRightBrace, TokenEOF}},
		{"[ ] , .", []TokenKind{TokenLeftBracket, TokenRightBracket, TokenComma, TokenDot, TokenEOF}},
		{": ; ?", []TokenKind{TokenColon, TokenSemicolon, TokenQuestion, TokenEOF}},
	}

	for _, tt := range tests {
		lexer := NewLexer(tt.input)
		tokens, err := lexer.Tokenize()
		if err != nil {
			t.Errorf("input %q: unexpected error: %v", tt.input, err)
			continue
		}
		if len(tokens) != len(tt.expected) {
			t.Errorf("input %q: expected %d tokens, got %d", tt.input, len(tt.expected), len(tokens))
			continue
		}
		for i, tok := range tokens {
			if tok.Kind != tt.expected[i] {
				t.Errorf("input %q: token %d: expected %v, got %v", tt.input, i, tt.expected[i], tok.Kind)
			}
		}
	}
}

func TestLexerOperators(t *testing.T) {
	input := "== != <= >= && || << >> ++ -- += -= *= /= %="
	expected := []TokenKind{
		TokenEqualEqual, TokenNotEqual, TokenLessEqual, TokenGreaterEqual,
		TokenAmpAmp, TokenPipePipe, TokenShiftLeft, TokenShiftRight,
		TokenPlusPlus, TokenMinusMinus, TokenPlusEqual, TokenMinusEqual,
		TokenStarEqual, TokenSlashEqual, TokenPercentEqual, TokenEOF,
	}

	lexer := NewLexer(input)
	tokens, err := lexer.Tokenize()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(tokens) != len(expected) {
		t.Fatalf("expected %d tokens, got %d", len(expected), len(tokens))
	}
	for i, tok := range tokens {
		if tok.Kind != expected[i] {
			t.Errorf("token %d: expected %v, got %v", i, expected[i], tok.Kind)
		}
	}
}

func TestLexerKeywords(t *testing.T) {
	input := "if else for while do return break continue const in out inout struct void true false"
	expected := []TokenKind{
		TokenIf, TokenElse, TokenFor, TokenWhile, TokenDo, TokenReturn,
		TokenBreak, TokenContinue, TokenConst, TokenIn, TokenOut, TokenInout,
		TokenStruct, TokenVoid, TokenTrue, TokenFalse, TokenEOF,
	}

	lexer := NewLexer(input)
	tokens, err := lexer.Tokenize()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(tokens) != len(expected) {
		t.Fatalf("expected %d tokens, got %d", len(expected), len(tokens))
	}
	for i, tok := range tokens {
		if tok.Kind != expected[i] {
			t.Errorf("token %d: expected %v, got %v", i, expected[i], tok.Kind)
		}
	}
}

func TestLexerTypeNamesLexAsIdent(t *testing.T) {
	lexer := NewLexer("vec3 mat4 uint")
	tokens, err := lexer.Tokenize()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for i, want := range []string{"vec3", "mat4", "uint"} {
		if tokens[i].Kind != TokenIdent || tokens[i].Text != want {
			t.Errorf("token %d: expected ident %q, got %v %q", i, want, tokens[i].Kind, tokens[i].Text)
		}
		if !IsTypeName(tokens[i].Text) {
			t.Errorf("IsTypeName(%q) = false, want true", want)
		}
	}
}

func TestLexerNumberLiterals(t *testing.T) {
	tests := []struct {
		input string
		kind  TokenKind
	}{
		{"42", TokenIntLiteral},
		{"42u", TokenIntLiteral},
		{"3.14", TokenFloatLiteral},
		{"1.0f", TokenFloatLiteral},
		{".5", TokenFloatLiteral},
		{"1e10", TokenFloatLiteral},
		{"1.5e-3", TokenFloatLiteral},
	}
	for _, tt := range tests {
		lexer := NewLexer(tt.input)
		tokens, err := lexer.Tokenize()
		if err != nil {
			t.Errorf("input %q: unexpected error: %v", tt.input, err)
			continue
		}
		if tokens[0].Kind != tt.kind {
			t.Errorf("input %q: expected %v, got %v", tt.input, tt.kind, tokens[0].Kind)
		}
	}
}

func TestLexerComments(t *testing.T) {
	input := "1 // a comment\n+ /* block\ncomment */ 2"
	lexer := NewLexer(input)
	tokens, err := lexer.Tokenize()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	expected := []TokenKind{TokenIntLiteral, TokenPlus, TokenIntLiteral, TokenEOF}
	if len(tokens) != len(expected) {
		t.Fatalf("expected %d tokens, got %d", len(expected), len(tokens))
	}
	for i, tok := range tokens {
		if tok.Kind != expected[i] {
			t.Errorf("token %d: expected %v, got %v", i, expected[i], tok.Kind)
		}
	}
}

func TestLexerLineColumnTracking(t *testing.T) {
	input := "a\nb  c"
	lexer := NewLexer(input)
	tokens, err := lexer.Tokenize()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if tokens[0].Line != 1 || tokens[0].Column != 1 {
		t.Errorf("token 'a': got line %d col %d, want 1 1", tokens[0].Line, tokens[0].Column)
	}
	if tokens[1].Line != 2 || tokens[1].Column != 1 {
		t.Errorf("token 'b': got line %d col %d, want 2 1", tokens[1].Line, tokens[1].Column)
	}
	if tokens[2].Line != 2 || tokens[2].Column != 4 {
		t.Errorf("token 'c': got line %d col %d, want 2 4", tokens[2].Line, tokens[2].Column)
	}
}
