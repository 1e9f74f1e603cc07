package prefs

import (
	"reflect"
	"testing"
)

func TestTokenize_LowercasesAndSplits(t *testing.T) {
	tokens := Tokenize("Refactor The Auth Module")

	expected := []string{"refactor", "the", "auth", "module"}
	if !reflect.DeepEqual(tokens, expected) {
		t.Errorf("expected %v, got %v", expected, tokens)
	}
}

func TestTokenize_PunctuationActsAsSeparator(t *testing.T) {
	tokens := Tokenize("refactor,auth;module(now)")

	expected := []string{"refactor", "auth", "module", "now"}
	if !reflect.DeepEqual(tokens, expected) {
		t.Errorf("expected %v, got %v", expected, tokens)
	}
}

func TestTokenize_KeepsIdentifierCharacters(t *testing.T) {
	tokens := Tokenize("wire next.js with build_script and my-tool")

	expected := []string{"wire", "next.js", "with", "build_script", "and", "my-tool"}
	if !reflect.DeepEqual(tokens, expected) {
		t.Errorf("expected %v, got %v", expected, tokens)
	}
}

func TestTokenize_TrimsEdgePunctuation(t *testing.T) {
	tokens := Tokenize("improve docs.")

	expected := []string{"improve", "docs"}
	if !reflect.DeepEqual(tokens, expected) {
		t.Errorf("expected %v, got %v", expected, tokens)
	}
}

func TestTokenize_EmptyInput(t *testing.T) {
	tokens := Tokenize("")

	if len(tokens) != 0 {
		t.Errorf("expected no tokens for empty input, got %v", tokens)
	}
}

func TestTokenize_WhitespaceOnlyInput(t *testing.T) {
	tokens := Tokenize("   \t  \n ")

	if len(tokens) != 0 {
		t.Errorf("expected no tokens for whitespace input, got %v", tokens)
	}
}

func TestTokenize_PurePunctuationTokenDropped(t *testing.T) {
	tokens := Tokenize("wait ... done")

	expected := []string{"wait", "done"}
	if !reflect.DeepEqual(tokens, expected) {
		t.Errorf("expected %v, got %v", expected, tokens)
	}
}

func TestTokenize_Restartable(t *testing.T) {
	input := "Write unit tests for the parser!"

	first := Tokenize(input)
	second := Tokenize(input)

	if !reflect.DeepEqual(first, second) {
		t.Errorf("expected identical sequences, got %v then %v", first, second)
	}
}
