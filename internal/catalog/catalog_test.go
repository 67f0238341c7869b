package catalog

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/daikw/philofight/internal/session"
)

func TestDefault_IsValid(t *testing.T) {
	cat := Default()

	assert.Empty(t, cat.Validate())
	assert.NotEmpty(t, cat.Philosophers())
	assert.NotEmpty(t, cat.Debates())

	for _, d := range cat.Debates() {
		cfg, err := cat.SessionConfig(d.ID)
		require.NoError(t, err, d.ID)
		assert.NoError(t, cfg.Validate(), d.ID)
	}

	for _, p := range cat.Philosophers() {
		assert.NotEmpty(t, p.Responses, p.ID)
	}
}

func TestLookups(t *testing.T) {
	cat := Default()

	p, ok := cat.Philosopher("kant")
	require.True(t, ok)
	assert.Equal(t, "Immanuel Kant", p.Name)

	p, ok = cat.PhilosopherByName("immanuel KANT")
	require.True(t, ok)
	assert.Equal(t, "kant", p.ID)

	p, ok = cat.Resolve("René Descartes")
	require.True(t, ok)
	assert.Equal(t, "descartes", p.ID)

	_, ok = cat.Philosopher("wittgenstein")
	assert.False(t, ok)

	d, ok := cat.DebateBySquadID("squad-meaning-of-life")
	require.True(t, ok)
	assert.Equal(t, "meaning-of-life", d.ID)

	_, ok = cat.DebateBySquadID("")
	assert.False(t, ok)
}

func TestSearch(t *testing.T) {
	cat := Default()

	t.Run("case insensitive title", func(t *testing.T) {
		results := cat.Search("TROLLEY")
		require.Len(t, results, 1)
		assert.Equal(t, "trolley-problem", results[0].ID)
	})

	t.Run("matches participant names", func(t *testing.T) {
		results := cat.Search("beauvoir")
		require.Len(t, results, 1)
		assert.Equal(t, "meaning-of-life", results[0].ID)
	})

	t.Run("empty query returns all", func(t *testing.T) {
		assert.Len(t, cat.Search("  "), len(cat.Debates()))
	})

	t.Run("no match", func(t *testing.T) {
		assert.Empty(t, cat.Search("quantum chromodynamics"))
	})
}

func TestByCategory(t *testing.T) {
	cat := Default()

	ethics := cat.ByCategory("Ethics")
	assert.Len(t, ethics, 2)
	assert.Contains(t, cat.Categories(), "metaphysics")
	assert.IsIncreasing(t, cat.Categories())
}

func TestSessionConfig(t *testing.T) {
	cat := Default()

	cfg, err := cat.SessionConfig("examined-life")
	require.NoError(t, err)
	assert.Equal(t, session.SessionConfig{PersonaID: "socrates"}, cfg)

	cfg, err = cat.SessionConfig("meaning-of-life")
	require.NoError(t, err)
	assert.Equal(t, "squad-meaning-of-life", cfg.SquadID)
	assert.Nil(t, cfg.Squad)

	cfg, err = cat.SessionConfig("trolley-problem")
	require.NoError(t, err)
	require.NotNil(t, cfg.Squad)
	assert.Len(t, cfg.Squad.Members, 2)
	assert.Equal(t, "squad", cfg.Kind())

	_, err = cat.SessionConfig("missing")
	assert.ErrorContains(t, err, "does not exist")
}

func TestValidate(t *testing.T) {
	cat := New(
		[]Philosopher{{ID: "kant", Name: "Immanuel Kant"}},
		[]Debate{
			{ID: "nobody", Title: "Empty"},
			{ID: "ghost", PersonaID: "wittgenstein"},
			{ID: "both", PersonaID: "kant", SquadID: "sq"},
			{ID: "hollow", Squad: &session.Squad{Name: "hollow"}},
			{ID: "loop", Squad: &session.Squad{Members: []session.Member{
				{PersonaID: "kant", Destinations: []session.Destination{{TargetPersonaName: "Immanuel Kant"}}},
			}}},
		},
	)

	problems := cat.Validate()
	assert.Len(t, problems, 4)
	assert.Contains(t, problems, "debate nobody: no persona or squad")
	assert.Contains(t, problems, `debate ghost: unknown persona "wittgenstein"`)
	assert.Contains(t, problems, "debate both: set either personaId or a squad, not both")
	assert.Contains(t, problems, "debate hollow: squad has no members")
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()

	t.Run("valid file", func(t *testing.T) {
		path := filepath.Join(dir, "catalog.json")
		content := `{
  "philosophers": [{"id": "hume", "name": "David Hume", "responses": ["Custom rules."]}],
  "debates": [{"id": "habit", "title": "Habit", "topic": "Causation", "category": "epistemology", "personaId": "hume"}]
}`
		require.NoError(t, os.WriteFile(path, []byte(content), 0644))

		cat, err := Load(path)
		require.NoError(t, err)
		d, ok := cat.Debate("habit")
		require.True(t, ok)
		assert.Equal(t, "Causation", d.Topic)
	})

	t.Run("broken reference", func(t *testing.T) {
		path := filepath.Join(dir, "broken.json")
		content := `{"philosophers": [], "debates": [{"id": "x", "personaId": "nobody"}]}`
		require.NoError(t, os.WriteFile(path, []byte(content), 0644))

		_, err := Load(path)
		assert.ErrorContains(t, err, "unknown persona")
	})

	t.Run("missing file", func(t *testing.T) {
		_, err := Load(filepath.Join(dir, "absent.json"))
		assert.Error(t, err)
	})
}
