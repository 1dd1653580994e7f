package matcher

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestKeywords(t *testing.T) {
	tests := []struct {
		name string
		text string
		want []string
	}{
		{"empty", "", []string{}},
		{"lower-cases", "Kubernetes DOCKER", []string{"docker", "kubernetes"}},
		{"drops short tokens", "go ml sql", []string{"sql"}},
		{"drops stop-words", "the team and with them", []string{"team"}},
		{"strips punctuation", "C++, Node.js & Go!", []string{"nodejs"}},
		{"strips accents", "café résumé", []string{"caf", "rsum"}},
		{"keeps digits", "python3 k8s 2024", []string{"2024", "k8s", "python3"}},
		{"splits on any whitespace", "rust\tzig\nodin\r\nnim", []string{"nim", "odin", "rust", "zig"}},
		{"dedupes", "java JAVA Java.", []string{"java"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Keywords(tt.text).Sorted())
		})
	}
}

func TestStopWordsAreFiltered(t *testing.T) {
	for w := range StopWords {
		assert.Empty(t, Keywords(w), w)
	}
	assert.True(t, IsStopWord("with"))
	assert.False(t, IsStopWord("python"))
}
