package output

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFilenameFromURL(t *testing.T) {
	tests := []struct {
		url  string
		want string
	}{
		{url: "https://example.com", want: "example_com"},
		{url: "https://example.com/", want: "example_com"},
		{url: "https://example.com/docs/intro", want: "example_com_docs_intro"},
		{url: "https://sub.example.com:8080/a-b/c.html", want: "sub_example_com_8080_a_b_c_html"},
		{url: "not a url", want: "not_a_url"},
	}
	for _, tt := range tests {
		t.Run(tt.url, func(t *testing.T) {
			assert.Equal(t, tt.want, FilenameFromURL(tt.url))
		})
	}
}

func TestWriter_Write(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "out")
	w, err := New(dir)
	require.NoError(t, err)

	path, err := w.Write("https://example.com/page", []byte("Hello world"), ".txt")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "example_com_page.txt"), path)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "Hello world", string(data))
}
