package main

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"qscore-workers/internal/qscore"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestRun(t *testing.T) {
	file := writeFile(t, "assessment.json", `{
		"problemStory": "We are building a revolutionary and game-changing platform for busy teams.",
		"conversationCount": "many",
		"financial": {"mrr": 12000, "monthlyBurn": 30000, "runway": 10}
	}`)
	previous := writeFile(t, "previous.json", `{"overall": 20, "breakdown": {"financial": {"score": 10}}}`)

	out, err := run(file, previous, "saas_b2c")
	require.NoError(t, err)

	var got report
	require.NoError(t, json.Unmarshal(out, &got))
	require.NotNil(t, got.QScore)
	assert.Nil(t, got.QScore.Percentile)
	assert.Len(t, got.Recommendations, 3)
	assert.Len(t, got.Issues, 1)
	require.NotEmpty(t, got.BluffSignals)
	assert.Equal(t, qscore.SignalGeneric, got.BluffSignals[0].Signal)
	assert.Equal(t, qscore.TrendUp, got.QScore.Breakdown[qscore.Financial].Trend)
	assert.LessOrEqual(t, got.QScore.Overall, got.PreBluffOverall)
}

func TestRun_Errors(t *testing.T) {
	tests := []struct {
		name   string
		file   string
		sector string
	}{
		{name: "missing file", file: filepath.Join(t.TempDir(), "nope.json"), sector: qscore.DefaultSector},
		{name: "not an object", file: writeFile(t, "list.json", `[1, 2]`), sector: qscore.DefaultSector},
		{name: "unknown sector", file: writeFile(t, "empty.json", `{}`), sector: "space_mining"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := run(tt.file, "", tt.sector)
			assert.Error(t, err)
		})
	}
}
