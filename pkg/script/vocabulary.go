package script

import (
	"fmt"
	"os"
	"slices"
	"strings"

	"gopkg.in/yaml.v3"
)

// Vocabulary lists the speaker tags a script may use. Personas are the
// internal voices whose presence can gate a line with checkvoice; speakers are
// every other valid tag (narrator, the princess, ...).
type Vocabulary struct {
	Speakers []string `yaml:"speakers"`
	Personas []string `yaml:"personas"`

	speakers map[string]bool
	personas map[string]bool
}

// DefaultVocabulary returns the built-in speaker set.
func DefaultVocabulary() *Vocabulary {
	return NewVocabulary(
		[]string{"narrator", "narratorprincess", "princess", "player", "p1", "p2", "shifting", "voices"},
		[]string{"hero", "broken", "cheated", "cold", "contrarian", "hunted", "opportunist", "paranoid", "skeptic", "smitten", "stubborn"},
	)
}

// NewVocabulary builds a vocabulary; tags are matched case-insensitively.
func NewVocabulary(speakers, personas []string) *Vocabulary {
	v := &Vocabulary{Speakers: speakers, Personas: personas}
	v.index()
	return v
}

// LoadVocabulary reads a YAML vocabulary file.
func LoadVocabulary(path string) (*Vocabulary, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read vocabulary file: %w", err)
	}

	var v Vocabulary
	if err := yaml.Unmarshal(data, &v); err != nil {
		return nil, fmt.Errorf("failed to parse vocabulary file %s: %w", path, err)
	}
	if len(v.Speakers) == 0 && len(v.Personas) == 0 {
		return nil, fmt.Errorf("vocabulary file %s defines no speakers or personas", path)
	}
	v.index()
	return &v, nil
}

func (v *Vocabulary) index() {
	v.speakers = make(map[string]bool, len(v.Speakers))
	v.personas = make(map[string]bool, len(v.Personas))
	for _, s := range v.Speakers {
		v.speakers[strings.ToLower(s)] = true
	}
	for _, p := range v.Personas {
		v.personas[strings.ToLower(p)] = true
	}
}

// IsSpeaker reports whether tag may start a dialogue line.
func (v *Vocabulary) IsSpeaker(tag string) bool {
	tag = strings.ToLower(tag)
	return v.speakers[tag] || v.personas[tag]
}

// IsPersona reports whether tag names a persona.
func (v *Vocabulary) IsPersona(tag string) bool {
	return v.personas[strings.ToLower(tag)]
}

// AllSpeakers returns every valid tag, sorted.
func (v *Vocabulary) AllSpeakers() []string {
	out := make([]string, 0, len(v.speakers)+len(v.personas))
	for s := range v.speakers {
		out = append(out, s)
	}
	for p := range v.personas {
		out = append(out, p)
	}
	slices.Sort(out)
	return slices.Compact(out)
}

// Fingerprint is a stable description of the vocabulary. Two vocabularies
// with the same fingerprint accept exactly the same scripts.
func (v *Vocabulary) Fingerprint() string {
	personas := make([]string, 0, len(v.personas))
	for p := range v.personas {
		personas = append(personas, p)
	}
	slices.Sort(personas)
	return strings.Join(v.AllSpeakers(), ",") + "|" + strings.Join(personas, ",")
}
