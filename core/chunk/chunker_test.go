package chunk

import (
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gaurav-prasanna/pagesift/core"
)

func TestSplit(t *testing.T) {
	tests := []struct {
		name      string
		text      string
		maxLength int
		want      []string
	}{
		{name: "empty", text: "", maxLength: 4, want: []string{}},
		{name: "shorter than bound", text: "Hello world", maxLength: 6000, want: []string{"Hello world"}},
		{name: "exact multiple", text: "abcdef", maxLength: 3, want: []string{"abc", "def"}},
		{name: "short tail", text: "abcdefg", maxLength: 3, want: []string{"abc", "def", "g"}},
		{name: "bound of one", text: "abc", maxLength: 1, want: []string{"a", "b", "c"}},
		{name: "newlines count as characters", text: "ab\ncd", maxLength: 2, want: []string{"ab", "\nc", "d"}},
		{name: "multibyte runes", text: "héllo wörld", maxLength: 4, want: []string{"héll", "o wö", "rld"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Split(tt.text, tt.maxLength)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestSplit_InvalidBound(t *testing.T) {
	for _, n := range []int{0, -1, -6000} {
		_, err := Split("text", n)
		require.Error(t, err)
		assert.True(t, core.IsKind(err, core.KindInvalidArgument), "bound %d", n)
	}
}

func TestSplit_TwelveThousandCharacters(t *testing.T) {
	text := strings.Repeat("x", 12000)

	chunks, err := Split(text, DefaultMaxLength)
	require.NoError(t, err)
	require.Len(t, chunks, 2)
	assert.Len(t, chunks[0], 6000)
	assert.Len(t, chunks[1], 6000)
}

func TestSplit_Properties(t *testing.T) {
	texts := []string{
		"a",
		"Hello world",
		strings.Repeat("lorem ipsum dolor\n", 777),
		strings.Repeat("日本語のテキスト", 301),
		"\xff\xfe broken utf8 \xc3",
	}
	bounds := []int{1, 2, 7, 100, 6000, 100000}

	for _, text := range texts {
		for _, n := range bounds {
			chunks, err := Split(text, n)
			require.NoError(t, err)

			// Round trip.
			assert.Equal(t, text, strings.Join(chunks, ""))
			// Count.
			want := (utf8.RuneCountInString(text) + n - 1) / n
			assert.Len(t, chunks, want)
			assert.Equal(t, want, Count(text, n))
			// Bound.
			for _, c := range chunks {
				assert.LessOrEqual(t, utf8.RuneCountInString(c), n)
			}
		}
	}
}

func TestChunks_Restartable(t *testing.T) {
	seq, err := Chunks("abcdefgh", 3)
	require.NoError(t, err)

	collect := func() []string {
		var out []string
		for c := range seq {
			out = append(out, c)
		}
		return out
	}
	first := collect()
	assert.Equal(t, []string{"abc", "def", "gh"}, first)
	assert.Equal(t, first, collect())
}

func TestChunks_EarlyStop(t *testing.T) {
	seq, err := Chunks("abcdefgh", 2)
	require.NoError(t, err)

	var got []string
	for c := range seq {
		got = append(got, c)
		if len(got) == 2 {
			break
		}
	}
	assert.Equal(t, []string{"ab", "cd"}, got)
}

func TestChunker_DefaultBound(t *testing.T) {
	c := New(0)
	assert.Equal(t, DefaultMaxLength, c.MaxLength)

	chunks, err := c.Chunk(strings.Repeat("y", 6001))
	require.NoError(t, err)
	require.Len(t, chunks, 2)
	assert.Equal(t, "y", chunks[1])

	_, err = New(-5).Chunk("abc")
	assert.True(t, core.IsKind(err, core.KindInvalidArgument))
}
