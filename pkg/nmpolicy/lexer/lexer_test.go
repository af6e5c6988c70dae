package lexer

import (
	"testing"
)

func TestTokenize(t *testing.T) {
	tests := []struct {
		name       string
		expression string
		want       []Token
		hasError   bool
	}{
		{
			name:       "simple path",
			expression: "routes.running.0",
			want: []Token{
				{Pos: 0, Kind: Identity, Text: "routes"},
				{Pos: 6, Kind: Dot},
				{Pos: 7, Kind: Identity, Text: "running"},
				{Pos: 14, Kind: Dot},
				{Pos: 15, Kind: Number, Num: 0},
			},
		},
		{
			name:       "eqfilter with quoted string",
			expression: `routes.running.destination == '0.0.0.0/0'`,
			want: []Token{
				{Pos: 0, Kind: Identity, Text: "routes"},
				{Pos: 6, Kind: Dot},
				{Pos: 7, Kind: Identity, Text: "running"},
				{Pos: 14, Kind: Dot},
				{Pos: 15, Kind: Identity, Text: "destination"},
				{Pos: 27, Kind: EqFilter},
				{Pos: 30, Kind: Str, Text: "0.0.0.0/0"},
			},
		},
		{
			name:       "pipe and replace",
			expression: "capture.default-gw | routes.running.next-hop-interface := 'br1'",
			want: []Token{
				{Pos: 0, Kind: Identity, Text: "capture"},
				{Pos: 7, Kind: Dot},
				{Pos: 8, Kind: Identity, Text: "default-gw"},
				{Pos: 19, Kind: Pipe},
				{Pos: 21, Kind: Identity, Text: "routes"},
				{Pos: 27, Kind: Dot},
				{Pos: 28, Kind: Identity, Text: "running"},
				{Pos: 35, Kind: Dot},
				{Pos: 36, Kind: Identity, Text: "next-hop-interface"},
				{Pos: 55, Kind: Replace},
				{Pos: 58, Kind: Str, Text: "br1"},
			},
		},
		{
			name:       "true and false are ordinary identities, not literals",
			expression: "true false",
			want: []Token{
				{Pos: 0, Kind: Identity, Text: "true"},
				{Pos: 5, Kind: Identity, Text: "false"},
			},
		},
		{
			name:       "true used as an ordinary path segment",
			expression: "a.true.b",
			want: []Token{
				{Pos: 0, Kind: Identity, Text: "a"},
				{Pos: 1, Kind: Dot},
				{Pos: 2, Kind: Identity, Text: "true"},
				{Pos: 6, Kind: Dot},
				{Pos: 7, Kind: Identity, Text: "b"},
			},
		},
		{
			name:       "number terminator error",
			expression: "255 1,3",
			hasError:   true,
		},
		{
			name:       "unterminated string",
			expression: `'unterminated`,
			hasError:   true,
		},
		{
			name:       "illegal char",
			expression: "routes.running.destination & '0.0.0.0/0'",
			hasError:   true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Tokenize(tt.expression)
			if tt.hasError {
				if err == nil {
					t.Fatalf("expected error, got none; tokens=%v", got)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if len(got) != len(tt.want) {
				t.Fatalf("token count mismatch: got %d want %d (%v)", len(got), len(tt.want), got)
			}
			for i, tok := range got {
				if tok.Pos != tt.want[i].Pos || tok.Kind != tt.want[i].Kind ||
					tok.Text != tt.want[i].Text || tok.Num != tt.want[i].Num {
					t.Errorf("token %d mismatch: got %+v want %+v", i, tok, tt.want[i])
				}
			}
		})
	}
}

func TestTokenizeNumberTerminatorErrorPosition(t *testing.T) {
	_, err := Tokenize("255 1,3")
	if err == nil {
		t.Fatal("expected error")
	}
	const wantPos = 5 // caret under ',' (0-indexed byte offset), matching the spec's column 5 example
	type poser interface{ Pos() int }
	pe, ok := err.(poser)
	if !ok {
		t.Fatalf("error does not expose Pos(): %T", err)
	}
	if pe.Pos() != wantPos {
		t.Errorf("got pos %d want %d", pe.Pos(), wantPos)
	}
}
