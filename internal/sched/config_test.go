package sched

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "scheme.yml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestLoad_EmptyPath_Defaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, DefaultSchemeID, cfg.Scheme)
	assert.Empty(t, cfg.Levels)
}

func TestLoad_MissingFile_Defaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "absent.yml"))
	require.NoError(t, err)
	assert.Equal(t, defaultConfig(), cfg)
}

func TestLoad_SchemeID(t *testing.T) {
	cfg, err := Load(writeConfig(t, "scheme: 3\n"))
	require.NoError(t, err)

	s := cfg.Resolve()
	assert.Equal(t, 3, s.ID)
	assert.Equal(t, "RR(3), RR(5), RR(6), RR(20)", s.String())
}

func TestLoad_CustomLevels(t *testing.T) {
	cfg, err := Load(writeConfig(t, `
levels:
  - policy: rr
    quantum: 2
  - policy: stcf
`))
	require.NoError(t, err)

	s := cfg.Resolve()
	assert.Equal(t, "custom", s.Name)
	levels, err := s.Build()
	require.NoError(t, err)
	require.Len(t, levels, 2)
	assert.Equal(t, KindRoundRobin, levels[0].Kind())
	assert.Equal(t, 2, levels[0].Quantum())
	assert.Equal(t, KindSTCF, levels[1].Kind())
}

func TestLoad_Malformed(t *testing.T) {
	_, err := Load(writeConfig(t, "levels: [policy: rr\n"))
	assert.Error(t, err)
}

func TestConfig_Resolve_UnknownSchemeFallsBack(t *testing.T) {
	s := Config{Scheme: 17}.Resolve()
	assert.Equal(t, DefaultSchemeID, s.ID)
}

func TestScheme_Build_Errors(t *testing.T) {
	_, err := Scheme{}.Build()
	assert.ErrorIs(t, err, ErrNoLevels)

	_, err = Scheme{Levels: []LevelSpec{{Policy: "lottery"}}}.Build()
	assert.ErrorIs(t, err, ErrUnknownPolicy)

	_, err = Scheme{Levels: []LevelSpec{{Policy: "rr", Quantum: -1}}}.Build()
	assert.ErrorIs(t, err, ErrInvalidQuantum)
}

func TestSchemes_NamedLayouts(t *testing.T) {
	want := map[int]string{
		1: "RR(1), RR(3), RR(4), SJF",
		2: "RR(2), RR(3), RR(4), STCF",
		3: "RR(3), RR(5), RR(6), RR(20)",
	}
	for _, s := range Schemes() {
		assert.Equal(t, want[s.ID], s.String())
	}
	_, ok := SchemeByID(4)
	assert.False(t, ok)
}

func TestSchemes_ReturnsCopies(t *testing.T) {
	s := Schemes()
	s[0].Levels[0].Quantum = 99

	again, _ := SchemeByID(1)
	assert.Equal(t, 1, again.Levels[0].Quantum)
}
