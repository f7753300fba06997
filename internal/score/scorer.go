package score

import (
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"
	"unicode"

	"github.com/kr4wiec/aud-crisis/internal/lexicon"
	"github.com/kr4wiec/aud-crisis/internal/model"
)

// Tokenizer is the linguistic collaborator consumed by the free-keyword
// extractor. It produces POS-tagged, flagged tokens; the scorer only
// applies its filtering policy over them.
type Tokenizer interface {
	Tokens(text string) ([]model.Token, error)
}

// Scorer computes severity scores, category labels and keyword sets for
// report text. Matching is substring containment over lower-cased text,
// not word-boundary matching, so overlapping phrases can double-count.
type Scorer struct {
	lex        *lexicon.Lexicon
	tokenizer  Tokenizer
	keywordCap int
	casualtyRe *regexp.Regexp
}

// titleBonus is added once when any category keyword appears in the title.
const titleBonus = 2.0

// casualtyPattern captures a small integer directly followed by a
// casualty term, including the localized equivalents carried over from
// the source feeds.
const casualtyPattern = `(\d{1,4})\s*(dead|killed|wounded|ofiar|zabitych|rann|poszkodowanych|casualties|injured)`

// NewScorer creates a scorer over the given lexicon. keywordCap bounds
// the number of free keywords extracted per report.
func NewScorer(lex *lexicon.Lexicon, tokenizer Tokenizer, keywordCap int) *Scorer {
	if keywordCap <= 0 {
		keywordCap = 10
	}
	return &Scorer{
		lex:        lex,
		tokenizer:  tokenizer,
		keywordCap: keywordCap,
		casualtyRe: regexp.MustCompile(casualtyPattern),
	}
}

// Result is the scorer's full output for one report.
type Result struct {
	Severity      float64
	Category      string
	EventKeywords []string
	FreeKeywords  []string
}

// Score runs the complete scoring pass over one report. A tokenizer
// failure degrades to empty free keywords and is returned alongside the
// otherwise complete result so the caller can log it.
func (s *Scorer) Score(title, text string, sourceWeight float64) (Result, error) {
	res := Result{
		Severity:      s.Severity(title, text, sourceWeight),
		Category:      s.Category(text),
		EventKeywords: s.EventKeywords(text),
	}

	free, err := s.FreeKeywords(text)
	if err != nil {
		return res, fmt.Errorf("free keywords: %w", err)
	}
	res.FreeKeywords = free
	return res, nil
}

// Severity computes the composite severity score: weighted keyword
// matches plus context modifiers plus the title bonus plus casualty
// deltas, multiplied by the source weight and rounded to two decimals.
// The source weight is a pure multiplier, never clipped.
func (s *Scorer) Severity(title, text string, sourceWeight float64) float64 {
	title = strings.ToLower(title)
	text = strings.ToLower(text)

	var score float64
	for kw, w := range s.lex.SeverityWeights() {
		if strings.Contains(text, kw) {
			score += w
		}
	}
	for kw, w := range s.lex.ContextModifiers() {
		if strings.Contains(text, kw) {
			score += w
		}
	}

	for _, kw := range s.lex.FlatKeywords() {
		if strings.Contains(title, kw) {
			score += titleBonus
			break
		}
	}

	score += s.casualtyDelta(text)

	return math.Round(score*sourceWeight*100) / 100
}

// casualtyDelta maps every casualty-count match to a severity delta.
// Matches contribute independently; malformed integers are skipped.
func (s *Scorer) casualtyDelta(text string) float64 {
	var delta float64
	for _, m := range s.casualtyRe.FindAllStringSubmatch(text, -1) {
		n, err := strconv.Atoi(m[1])
		if err != nil {
			continue
		}
		switch {
		case n >= 100:
			delta += 8
		case n >= 20:
			delta += 5
		case n >= 5:
			delta += 3
		}
	}
	return delta
}

// Category returns the category whose keyword list has the highest
// containment count in text. Ties go to the first-declared category;
// zero matches everywhere yields the General catch-all.
func (s *Scorer) Category(text string) string {
	text = strings.ToLower(text)

	best := lexicon.General
	bestCount := 0
	for _, cat := range s.lex.Categories() {
		count := 0
		for _, kw := range cat.Keywords {
			if strings.Contains(text, kw) {
				count++
			}
		}
		if count > bestCount {
			best = cat.Name
			bestCount = count
		}
	}
	return best
}

// EventKeywords returns every category-lexicon keyword found in text,
// deduplicated, in category declaration order.
func (s *Scorer) EventKeywords(text string) []string {
	text = strings.ToLower(text)

	var out []string
	seen := make(map[string]struct{})
	for _, kw := range s.lex.FlatKeywords() {
		if _, dup := seen[kw]; dup {
			continue
		}
		if strings.Contains(text, kw) {
			seen[kw] = struct{}{}
			out = append(out, kw)
		}
	}
	return out
}

// FreeKeywords extracts up to the configured cap of open-vocabulary
// keywords from the tokenizer's stream: noun or proper-noun lemmas,
// alphabetic, longer than two runes, excluding stop words, URLs and
// emails, deduplicated preserving first occurrence.
func (s *Scorer) FreeKeywords(text string) ([]string, error) {
	tokens, err := s.tokenizer.Tokens(strings.ToLower(text))
	if err != nil {
		return nil, err
	}

	var out []string
	seen := make(map[string]struct{})
	for _, tok := range tokens {
		if !isNoun(tok.POS) || tok.Stop || tok.URL || tok.Email {
			continue
		}
		lemma := tok.Lemma
		if lemma == "" {
			lemma = tok.Text
		}
		if len([]rune(lemma)) <= 2 || !alphabetic(lemma) {
			continue
		}
		if _, dup := seen[lemma]; dup {
			continue
		}
		seen[lemma] = struct{}{}
		out = append(out, lemma)
		if len(out) == s.keywordCap {
			break
		}
	}
	return out, nil
}

func isNoun(pos string) bool {
	return strings.HasPrefix(pos, "NN")
}

func alphabetic(s string) bool {
	for _, r := range s {
		if !unicode.IsLetter(r) {
			return false
		}
	}
	return len(s) > 0
}
