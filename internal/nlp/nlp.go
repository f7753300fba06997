// Package nlp adapts the prose NLP library to the place-extraction and
// tokenization contracts consumed by the resolver and the scorer.
package nlp

import (
	"fmt"
	"regexp"
	"strings"

	prose "github.com/jdkato/prose/v2"

	"github.com/kr4wiec/aud-crisis/internal/model"
)

var (
	urlRe   = regexp.MustCompile(`^(?:https?://|www\.)\S+$`)
	emailRe = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
)

// Engine wraps a prose model behind the collaborator interfaces.
type Engine struct{}

// NewEngine initializes the NLP engine and verifies the model loads.
// A failure here is fatal for the whole pipeline: every report needs
// entity extraction and tagging.
func NewEngine() (*Engine, error) {
	if _, err := prose.NewDocument("warm up"); err != nil {
		return nil, fmt.Errorf("load NLP model: %w", err)
	}
	return &Engine{}, nil
}

// ExtractPlace returns the first geopolitical entity found in text, or
// model.Unknown when there is none.
func (e *Engine) ExtractPlace(text string) (string, error) {
	doc, err := prose.NewDocument(text)
	if err != nil {
		return model.Unknown, fmt.Errorf("parse text: %w", err)
	}
	for _, ent := range doc.Entities() {
		if ent.Label == "GPE" {
			return ent.Text, nil
		}
	}
	return model.Unknown, nil
}

// Tokens produces POS-tagged tokens with stop-word, URL and email flags.
// prose has no lemmatizer; the lower-cased surface form stands in for
// the lemma.
func (e *Engine) Tokens(text string) ([]model.Token, error) {
	doc, err := prose.NewDocument(text, prose.WithExtraction(false))
	if err != nil {
		return nil, fmt.Errorf("parse text: %w", err)
	}

	proseTokens := doc.Tokens()
	tokens := make([]model.Token, 0, len(proseTokens))
	for _, tok := range proseTokens {
		lower := strings.ToLower(tok.Text)
		tokens = append(tokens, model.Token{
			Text:  tok.Text,
			Lemma: lower,
			POS:   tok.Tag,
			Stop:  stopwords[lower],
			URL:   urlRe.MatchString(lower),
			Email: emailRe.MatchString(lower),
		})
	}
	return tokens, nil
}

// stopwords is the small English closed-class vocabulary excluded from
// free-keyword extraction.
var stopwords = func() map[string]bool {
	list := []string{
		"a", "about", "above", "after", "again", "against", "all", "am",
		"an", "and", "any", "are", "as", "at", "be", "because", "been",
		"before", "being", "below", "between", "both", "but", "by", "can",
		"could", "did", "do", "does", "doing", "down", "during", "each",
		"few", "for", "from", "further", "had", "has", "have", "having",
		"he", "her", "here", "hers", "him", "his", "how", "i", "if", "in",
		"into", "is", "it", "its", "just", "me", "more", "most", "my",
		"no", "nor", "not", "now", "of", "off", "on", "once", "only",
		"or", "other", "our", "ours", "out", "over", "own", "same", "she",
		"should", "so", "some", "such", "than", "that", "the", "their",
		"theirs", "them", "then", "there", "these", "they", "this",
		"those", "through", "to", "too", "under", "until", "up", "very",
		"was", "we", "were", "what", "when", "where", "which", "while",
		"who", "whom", "why", "will", "with", "would", "you", "your",
		"yours",
	}
	m := make(map[string]bool, len(list))
	for _, w := range list {
		m[w] = true
	}
	return m
}()
