package script

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse_IndexesLinesFromOne(t *testing.T) {
	f, err := ParseString("cabin.txt", cabinScript)
	require.NoError(t, err)

	assert.Equal(t, OpBlank, f.Line(0).Op)
	assert.Equal(t, OpComment, f.Line(1).Op)
	assert.Equal(t, 1, f.Lines()[0].Number)
	assert.Equal(t, "jumpanchor start", f.Line(2).Raw)
	assert.Equal(t, f.Len(), len(f.Lines()))
}

func TestLabelIndex(t *testing.T) {
	f, err := ParseString("cabin.txt", cabinScript)
	require.NoError(t, err)

	n, ok := f.Labels().Lookup("second")
	require.True(t, ok)
	assert.Equal(t, 8, n)

	assert.Equal(t, []string{"start", "second", "third", "bladeCheck", "cabinBlade", "cabinNoBlade"}, f.Labels().Names())
	assert.Equal(t, 6, f.Labels().Len())
	assert.False(t, f.Labels().Has("cabin"))
	assert.Empty(t, f.Labels().Collisions())
}

func TestLabelIndex_FirstDeclarationWins(t *testing.T) {
	content := "jumpanchor a\nnarrator first\n\njumpanchor a\nnarrator second\n"
	f, err := ParseString("dup.txt", content)
	require.NoError(t, err)

	n, _ := f.Labels().Lookup("a")
	assert.Equal(t, 1, n)
	assert.Equal(t, []Collision{{Name: "a", First: 1, Duplicate: 4}}, f.Labels().Collisions())
	assert.Equal(t, 1, f.Labels().Len())
}

func TestSections(t *testing.T) {
	f, err := ParseString("cabin.txt", cabinScript)
	require.NoError(t, err)

	tests := []struct {
		anchor     string
		start, end int
		terminated bool
		length     int
	}{
		{"start", 2, 7, true, 4},
		{"second", 8, 12, true, 3},
		{"third", 13, 15, true, 1},
		{"cabinNoBlade", 22, 24, false, 1},
	}

	for _, tt := range tests {
		t.Run(tt.anchor, func(t *testing.T) {
			s, ok := f.Section(tt.anchor)
			require.True(t, ok)
			assert.Equal(t, tt.start, s.Start)
			assert.Equal(t, tt.end, s.End)
			assert.Equal(t, tt.terminated, s.Terminated)
			assert.Equal(t, tt.length, s.Len())
		})
	}

	_, ok := f.Section("nope")
	assert.False(t, ok)
}

func TestVocabulary(t *testing.T) {
	v := DefaultVocabulary()
	assert.True(t, v.IsSpeaker("narrator"))
	assert.True(t, v.IsSpeaker("Hero"))
	assert.True(t, v.IsPersona("hero"))
	assert.False(t, v.IsPersona("narrator"))
	assert.False(t, v.IsSpeaker("goblin"))

	custom := NewVocabulary([]string{"narrator"}, []string{"hero", "hero"})
	assert.Equal(t, []string{"hero", "narrator"}, custom.AllSpeakers())
}

func TestLoadVocabulary(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "voices.yaml")
	require.NoError(t, os.WriteFile(path, []byte("speakers: [narrator, Princess]\npersonas: [hero, cold]\n"), 0o644))

	v, err := LoadVocabulary(path)
	require.NoError(t, err)
	assert.True(t, v.IsSpeaker("princess"))
	assert.True(t, v.IsPersona("cold"))
	assert.False(t, v.IsSpeaker("smitten"))

	empty := filepath.Join(dir, "empty.yaml")
	require.NoError(t, os.WriteFile(empty, []byte("{}\n"), 0o644))
	_, err = LoadVocabulary(empty)
	assert.Error(t, err)

	_, err = LoadVocabulary(filepath.Join(dir, "missing.yaml"))
	assert.Error(t, err)
}

func TestVocabulary_Fingerprint(t *testing.T) {
	a := NewVocabulary([]string{"Narrator", "princess"}, []string{"hero"})
	b := NewVocabulary([]string{"princess", "narrator"}, []string{"HERO"})
	c := NewVocabulary([]string{"narrator", "princess", "hero"}, nil)

	assert.Equal(t, a.Fingerprint(), b.Fingerprint())
	assert.NotEqual(t, a.Fingerprint(), c.Fingerprint())
}
