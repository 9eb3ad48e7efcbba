package main

import (
	"bytes"
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yourusername/streak-quiz-api/internal/service"
	"github.com/yourusername/streak-quiz-api/internal/service/questiongen"
)

func TestRunGenerate_MockMode(t *testing.T) {
	// Arrange
	quiz := service.NewQuizService(questiongen.NewGenerator(questiongen.DefaultConfig(), nil))
	var out bytes.Buffer

	// Act
	err := runGenerate(context.Background(), quiz, "History", 3, &out)

	// Assert
	require.NoError(t, err)
	var got struct {
		Mode      string `json:"mode"`
		Category  string `json:"category"`
		Questions []struct {
			Question     string   `json:"question"`
			Options      []string `json:"options"`
			CorrectIndex int      `json:"correctIndex"`
		} `json:"questions"`
	}
	require.NoError(t, json.Unmarshal(out.Bytes(), &got))
	assert.Equal(t, "mock", got.Mode)
	assert.Equal(t, "History", got.Category)
	require.Len(t, got.Questions, 3)
	for _, q := range got.Questions {
		assert.NotEmpty(t, q.Question)
		assert.GreaterOrEqual(t, len(q.Options), 2)
	}
}

func TestRunGenerate_RejectsBadCount(t *testing.T) {
	quiz := service.NewQuizService(questiongen.NewGenerator(questiongen.DefaultConfig(), nil))

	err := runGenerate(context.Background(), quiz, "History", 0, &bytes.Buffer{})

	assert.Error(t, err)
}

func TestParseVersion(t *testing.T) {
	v, err := parseVersion("2")
	require.NoError(t, err)
	assert.Equal(t, 2, v)

	v, err = parseVersion("-1")
	require.NoError(t, err)
	assert.Equal(t, -1, v)

	_, err = parseVersion("abc")
	assert.Error(t, err)
	_, err = parseVersion("-5")
	assert.Error(t, err)
}

func TestRootCmd_HasSubcommands(t *testing.T) {
	root := newRootCmd()

	names := map[string]bool{}
	for _, c := range root.Commands() {
		names[c.Name()] = true
	}
	assert.True(t, names["generate"])
	assert.True(t, names["migrate"])
}
