package nlp

import "testing"

func TestTokens_Flags(t *testing.T) {
	engine, err := NewEngine()
	if err != nil {
		t.Fatalf("NewEngine: %v", err)
	}

	tokens, err := engine.Tokens("the flood destroyed homes near https://example.com today")
	if err != nil {
		t.Fatalf("Tokens: %v", err)
	}

	byText := make(map[string]int)
	for i, tok := range tokens {
		byText[tok.Lemma] = i
	}

	idx, ok := byText["the"]
	if !ok {
		t.Fatal("tokenizer dropped a word")
	}
	if !tokens[idx].Stop {
		t.Error("closed-class word not flagged as stop word")
	}

	idx, ok = byText["flood"]
	if !ok {
		t.Fatal("content word missing from token stream")
	}
	if tokens[idx].Stop {
		t.Error("content word flagged as stop word")
	}
	if tokens[idx].Lemma != "flood" {
		t.Errorf("lemma = %q, want lower-cased surface form", tokens[idx].Lemma)
	}

	if idx, ok = byText["https://example.com"]; ok && !tokens[idx].URL {
		t.Error("URL token not flagged")
	}
}

func TestTokens_EmailFlag(t *testing.T) {
	engine, err := NewEngine()
	if err != nil {
		t.Fatalf("NewEngine: %v", err)
	}

	tokens, err := engine.Tokens("contact press@example.com for details")
	if err != nil {
		t.Fatalf("Tokens: %v", err)
	}
	for _, tok := range tokens {
		if tok.Lemma == "press@example.com" && !tok.Email {
			t.Error("email token not flagged")
		}
	}
}

func TestExtractPlace_NoEntity(t *testing.T) {
	engine, err := NewEngine()
	if err != nil {
		t.Fatalf("NewEngine: %v", err)
	}

	place, err := engine.ExtractPlace("it was a quiet afternoon")
	if err != nil {
		t.Fatalf("ExtractPlace: %v", err)
	}
	if place != "Unknown" {
		t.Errorf("place = %q, want the unknown sentinel", place)
	}
}
