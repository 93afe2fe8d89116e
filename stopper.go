package docexp

import (
	"bufio"
	"os"
	"strings"

	"github.com/bbalet/stopwords"
	"github.com/pkg/errors"
)

// Stopper is a set of stop words that can be removed from term vectors and queries. A nil Stopper removes nothing.
type Stopper struct {
	words map[string]struct{}
	// lang is a language code for the built-in stop lists, or empty when only the word set is used.
	lang string
}

// NewStopper creates a stopper from a list of words.
func NewStopper(words ...string) *Stopper {
	s := &Stopper{words: make(map[string]struct{}, len(words))}
	for _, word := range words {
		s.Add(word)
	}
	return s
}

// NewEnglishStopper creates a stopper that uses a built-in English stop list in addition to any supplied words.
func NewEnglishStopper(words ...string) *Stopper {
	stopwords.DontStripDigits()
	s := NewStopper(words...)
	s.lang = "en"
	return s
}

// LoadStopper reads a stop list containing one word per line.
func LoadStopper(path string) (*Stopper, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrapf(err, "opening stoplist %s", path)
	}
	defer f.Close()

	s := NewStopper()
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		s.Add(scanner.Text())
	}
	if err := scanner.Err(); err != nil {
		return nil, errors.Wrapf(err, "reading stoplist %s", path)
	}
	return s, nil
}

// Add adds a word to the stopper.
func (s *Stopper) Add(word string) {
	word = strings.TrimSpace(word)
	if len(word) == 0 {
		return
	}
	s.words[word] = struct{}{}
}

// IsStopWord reports whether term should be removed.
func (s *Stopper) IsStopWord(term string) bool {
	if s == nil {
		return false
	}
	if _, ok := s.words[term]; ok {
		return true
	}
	if s.lang != "" {
		return len(strings.TrimSpace(stopwords.CleanString(term, s.lang, false))) == 0
	}
	return false
}

// Len is the number of words explicitly added to the stopper.
func (s *Stopper) Len() int {
	if s == nil {
		return 0
	}
	return len(s.words)
}

func (s *Stopper) usesLanguage() bool {
	return s != nil && s.lang != ""
}
