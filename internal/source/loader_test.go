package source

import (
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func memLoader(t *testing.T, files map[string]string) *Loader {
	t.Helper()
	fsys := afero.NewMemMapFs()
	for path, body := range files {
		require.NoError(t, afero.WriteFile(fsys, path, []byte(body), 0o644))
	}
	return &Loader{Fs: fsys}
}

func TestLoadFile_JSON(t *testing.T) {
	l := memLoader(t, map[string]string{
		"/posts/p.json": `{"id":"7","title":"Hello","slug":"hello","body":"<p>x</p>","has_featured_asset":true}`,
	})
	docs, err := l.LoadFile("/posts/p.json")
	require.NoError(t, err)
	require.Len(t, docs, 1)
	assert.Equal(t, "7", docs[0].ID)
	assert.Equal(t, "Hello", docs[0].Title)
	assert.True(t, docs[0].HasFeaturedAsset)
}

func TestLoadFile_CSVManifest(t *testing.T) {
	l := memLoader(t, map[string]string{
		"/m.csv": "id,title,body\n1,First,<p>a</p>\n,Second,<p>b</p>\n",
	})
	docs, err := l.LoadFile("/m.csv")
	require.NoError(t, err)
	require.Len(t, docs, 2)
	assert.Equal(t, "1", docs[0].ID)
	assert.Equal(t, "row-3", docs[1].ID)
}

func TestLoadFile_Unsupported(t *testing.T) {
	l := memLoader(t, map[string]string{"/x.bin": "zz"})
	_, err := l.LoadFile("/x.bin")
	assert.Error(t, err)
}

func TestLoadFile_Missing(t *testing.T) {
	l := memLoader(t, nil)
	_, err := l.Load("/nope.json")
	assert.Error(t, err)
}

func TestLoadDir_LexicalRecursive(t *testing.T) {
	l := memLoader(t, map[string]string{
		"/site/b.md":          "# B\n\nbody\n",
		"/site/a.html":        "<p>a</p>",
		"/site/sub/c.txt":     "plain text",
		"/site/skip.bin":      "ignored",
		"/site/.hidden/d.txt": "hidden",
		"/site/.e.txt":        "hidden",
	})
	docs, err := l.Load("/site")
	require.NoError(t, err)

	var ids []string
	for _, d := range docs {
		ids = append(ids, d.ID)
	}
	assert.Equal(t, []string{"a", "b", "c"}, ids)
}

func TestLoadDir_PropagatesParseErrors(t *testing.T) {
	l := memLoader(t, map[string]string{
		"/site/a.json": "{not json",
	})
	_, err := l.LoadDir("/site")
	assert.Error(t, err)
}
