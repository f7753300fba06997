package score

import (
	"errors"
	"reflect"
	"testing"

	"github.com/kr4wiec/aud-crisis/internal/lexicon"
	"github.com/kr4wiec/aud-crisis/internal/model"
)

// fakeTokenizer returns a fixed token stream regardless of input.
type fakeTokenizer struct {
	tokens []model.Token
	err    error
}

func (f *fakeTokenizer) Tokens(string) ([]model.Token, error) {
	return f.tokens, f.err
}

func testLexicon() *lexicon.Lexicon {
	return lexicon.New(
		[]lexicon.Category{
			{Name: "Earthquake", Keywords: []string{"earthquake", "tremor"}},
			{Name: "Flood", Keywords: []string{"flood"}},
		},
		map[string]float64{"earthquake": 8, "deadly": 3},
		map[string]float64{"minor": -2},
		[]string{"earthquake"},
	)
}

func TestScorer_Severity(t *testing.T) {
	s := NewScorer(testLexicon(), &fakeTokenizer{}, 10)

	tests := []struct {
		name   string
		title  string
		text   string
		weight float64
		want   float64
	}{
		{"empty text", "", "", 1.0, 0},
		{"single weighted keyword", "", "an earthquake struck the coast", 1.0, 8},
		{"keyword counted once despite repetition", "", "earthquake after earthquake", 1.0, 8},
		{"negative modifier alone", "", "minor damage", 1.0, -2},
		{"modifier reduces weighted score", "", "minor earthquake", 1.0, 6},
		{"title bonus", "Earthquake hits coast", "", 1.0, 2},
		{"title keywords do not score as body", "", "nothing to see", 1.0, 0},
		{"source weight multiplies", "", "deadly earthquake", 0.5, 5.5},
		{"source weight above one", "", "earthquake", 1.5, 12},
		{"case insensitive", "", "EARTHQUAKE", 1.0, 8},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := s.Severity(tt.title, tt.text, tt.weight)
			if got != tt.want {
				t.Errorf("Severity(%q, %q, %v) = %v, want %v", tt.title, tt.text, tt.weight, got, tt.want)
			}
		})
	}
}

func TestScorer_Severity_Rounding(t *testing.T) {
	s := NewScorer(testLexicon(), &fakeTokenizer{}, 10)

	// 8 * 0.333 = 2.664, rounded to two decimals.
	got := s.Severity("", "earthquake", 0.333)
	if got != 2.66 {
		t.Errorf("expected 2.66, got %v", got)
	}
}

func TestScorer_CasualtyExtraction(t *testing.T) {
	// Empty tables isolate the casualty contribution.
	lex := lexicon.New(nil, nil, nil, nil)
	s := NewScorer(lex, &fakeTokenizer{}, 10)

	tests := []struct {
		text string
		want float64
	}{
		{"150 killed", 8},
		{"50 killed", 5},
		{"5 killed", 3},
		{"3 killed", 0},
		{"abc killed", 0},
		{"12 injured", 3},
		{"25 injured", 5},
		{"200 dead", 8},
		{"120 zabitych", 8},
		{"30 rannych", 5},
		{"no numbers here", 0},
		// Independent matches accumulate, no merge across matches.
		{"150 killed and 30 injured", 13},
	}

	for _, tt := range tests {
		t.Run(tt.text, func(t *testing.T) {
			got := s.Severity("", tt.text, 1.0)
			if got != tt.want {
				t.Errorf("Severity(%q) = %v, want %v", tt.text, got, tt.want)
			}
		})
	}
}

func TestScorer_Category(t *testing.T) {
	s := NewScorer(testLexicon(), &fakeTokenizer{}, 10)

	tests := []struct {
		name string
		text string
		want string
	}{
		{"no match falls back", "calm day in the city", lexicon.General},
		{"empty text falls back", "", lexicon.General},
		{"dominant category wins", "earthquake tremor near the river flood", "Earthquake"},
		{"tie goes to first declared", "earthquake and flood", "Earthquake"},
		{"single match", "flood warning issued", "Flood"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := s.Category(tt.text); got != tt.want {
				t.Errorf("Category(%q) = %q, want %q", tt.text, got, tt.want)
			}
		})
	}
}

func TestScorer_EventKeywords(t *testing.T) {
	s := NewScorer(testLexicon(), &fakeTokenizer{}, 10)

	got := s.EventKeywords("Tremor then flood, then another tremor")
	want := []string{"tremor", "flood"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("EventKeywords = %v, want %v", got, want)
	}

	if kws := s.EventKeywords(""); len(kws) != 0 {
		t.Errorf("expected no keywords for empty text, got %v", kws)
	}
}

func TestScorer_FreeKeywords(t *testing.T) {
	noun := func(text string) model.Token { return model.Token{Text: text, Lemma: text, POS: "NN"} }

	tokens := []model.Token{
		noun("village"),
		{Text: "struck", Lemma: "struck", POS: "VBD"},         // not a noun
		{Text: "the", Lemma: "the", POS: "DT", Stop: true},    // stop word
		{Text: "it", Lemma: "it", POS: "NN", Stop: true},      // noun but stop
		{Text: "ab", Lemma: "ab", POS: "NN"},                  // too short
		{Text: "7.2", Lemma: "7.2", POS: "CD"},                // not alphabetic
		{Text: "x51", Lemma: "x51", POS: "NN"},                // not alphabetic
		{Text: "http://e.co/x", Lemma: "http://e.co/x", POS: "NN", URL: true},
		{Text: "a@b.com", Lemma: "a@b.com", POS: "NN", Email: true},
		noun("village"), // duplicate
		{Text: "Tokyo", Lemma: "tokyo", POS: "NNP"},
		noun("rescue"),
	}

	s := NewScorer(testLexicon(), &fakeTokenizer{tokens: tokens}, 10)
	got, err := s.FreeKeywords("whatever")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := []string{"village", "tokyo", "rescue"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("FreeKeywords = %v, want %v", got, want)
	}
}

func TestScorer_FreeKeywords_Cap(t *testing.T) {
	var tokens []model.Token
	for _, w := range []string{"alpha", "bravo", "charlie", "delta", "echo"} {
		tokens = append(tokens, model.Token{Text: w, Lemma: w, POS: "NN"})
	}

	s := NewScorer(testLexicon(), &fakeTokenizer{tokens: tokens}, 3)
	got, err := s.FreeKeywords("whatever")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 3 {
		t.Errorf("expected 3 keywords, got %v", got)
	}
}

func TestScorer_Score_TokenizerFailure(t *testing.T) {
	s := NewScorer(testLexicon(), &fakeTokenizer{err: errors.New("model gone")}, 10)

	res, err := s.Score("Earthquake", "earthquake near the coast", 1.0)
	if err == nil {
		t.Fatal("expected tokenizer error to surface")
	}
	// Severity and category must survive the degraded extraction.
	if res.Severity == 0 {
		t.Error("expected non-zero severity despite tokenizer failure")
	}
	if res.Category != "Earthquake" {
		t.Errorf("expected Earthquake category, got %q", res.Category)
	}
	if len(res.FreeKeywords) != 0 {
		t.Errorf("expected no free keywords, got %v", res.FreeKeywords)
	}
}

func TestGate_Accept(t *testing.T) {
	g := Gate{Threshold: 4.0}

	tests := []struct {
		severity float64
		want     bool
	}{
		{2.5, false},
		{4.0, false}, // must exceed, not meet
		{4.01, true},
		{10, true},
	}

	for _, tt := range tests {
		if got := g.Accept(tt.severity); got != tt.want {
			t.Errorf("Accept(%v) = %v, want %v", tt.severity, got, tt.want)
		}
	}
}
