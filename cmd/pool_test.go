package main

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	types "github.com/yungbote/memoquiz-backend/internal/domain"
)

func samplePool() types.Pool {
	return types.Pool{
		"b": {ID: "b", SourceID: "m", Question: "q2", CorrectAnswer: "a2", Distractors: []string{"x"}, SuccessCount: 1, FailureCount: 3},
		"a": {ID: "a", SourceID: "m", Question: "q1", CorrectAnswer: "a1", Distractors: []string{"y"}, SuccessCount: 2, FailureCount: 1},
	}
}

func TestWritePoolYAML(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, writePool(&buf, samplePool(), "yaml"))

	var items []types.QuizItem
	require.NoError(t, yaml.Unmarshal(buf.Bytes(), &items))
	require.Len(t, items, 2)
	assert.Equal(t, "a", items[0].ID)
	assert.Equal(t, 3, items[1].FailureCount)
}

func TestWritePoolJSONSorted(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, writePool(&buf, samplePool(), "json"))
	out := buf.String()
	assert.Less(t, bytes.Index([]byte(out), []byte(`"id": "a"`)), bytes.Index([]byte(out), []byte(`"id": "b"`)))
}

func TestWritePoolUnknownFormat(t *testing.T) {
	assert.Error(t, writePool(&bytes.Buffer{}, samplePool(), "xml"))
}
