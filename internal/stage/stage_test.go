package stage_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Alia5/protocpp/internal/stage"
)

func writeTree(t *testing.T, dir string, files map[string]string) {
	t.Helper()
	for name, content := range files {
		p := filepath.Join(dir, filepath.FromSlash(name))
		require.NoError(t, os.MkdirAll(filepath.Dir(p), 0o755))
		require.NoError(t, os.WriteFile(p, []byte(content), 0o644))
	}
}

func readTree(t *testing.T, root string) map[string]string {
	t.Helper()
	out := map[string]string{}
	err := filepath.WalkDir(root, func(p string, d os.DirEntry, err error) error {
		if err != nil || d.IsDir() {
			return err
		}
		rel, err := filepath.Rel(root, p)
		if err != nil {
			return err
		}
		data, err := os.ReadFile(p)
		if err != nil {
			return err
		}
		out[filepath.ToSlash(rel)] = string(data)
		return nil
	})
	require.NoError(t, err)
	return out
}

func TestCommitCreatesDestination(t *testing.T) {
	root := t.TempDir()
	dest := filepath.Join(root, "nested", "out")

	s, err := stage.New(dest)
	require.NoError(t, err)
	require.NoError(t, s.WriteFile("inc/a.h", []byte("a")))
	require.NoError(t, s.Mkdir("proto"))

	_, err = os.Stat(dest)
	assert.True(t, os.IsNotExist(err), "destination must not exist before commit")

	require.NoError(t, s.Commit())
	require.NoError(t, s.Discard())

	data, err := os.ReadFile(filepath.Join(dest, "inc", "a.h"))
	require.NoError(t, err)
	assert.Equal(t, "a", string(data))
	assert.DirExists(t, filepath.Join(dest, "proto"))
	assert.NoDirExists(t, s.Dir())
}

func TestCommitReplacesPreviousOutput(t *testing.T) {
	root := t.TempDir()
	dest := filepath.Join(root, "out")
	require.NoError(t, os.MkdirAll(filepath.Join(dest, "inc"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dest, "inc", "stale.h"), []byte("old"), 0o644))

	src := filepath.Join(root, "a.proto")
	require.NoError(t, os.WriteFile(src, []byte("syntax = \"proto3\";"), 0o644))

	s, err := stage.New(dest)
	require.NoError(t, err)
	require.NoError(t, s.WriteFile("inc/fresh.h", []byte("new")))
	require.NoError(t, s.CopyFile("proto/a.proto", src))
	assert.Equal(t, []string{"inc/fresh.h", "proto/a.proto"}, s.Written())
	assert.Equal(t, []string{"inc", "proto"}, s.Owned())

	require.NoError(t, s.Commit())

	assert.NoFileExists(t, filepath.Join(dest, "inc", "stale.h"))
	assert.FileExists(t, filepath.Join(dest, "inc", "fresh.h"))
	copied, err := os.ReadFile(filepath.Join(dest, "proto", "a.proto"))
	require.NoError(t, err)
	assert.Equal(t, "syntax = \"proto3\";", string(copied))

	entries, err := os.ReadDir(root)
	require.NoError(t, err)
	var names []string
	for _, e := range entries {
		names = append(names, e.Name())
	}
	assert.ElementsMatch(t, []string{"out", "a.proto"}, names, "no staging or backup directories left behind")
}

func TestCommitKeepsUnrelatedEntries(t *testing.T) {
	root := t.TempDir()
	dest := filepath.Join(root, "out")
	writeTree(t, dest, map[string]string{
		"main.cpp":        "int main() {}",
		"schemas/a.proto": "syntax = \"proto3\";",
		"inc/old.h":       "old",
	})

	s, err := stage.New(dest)
	require.NoError(t, err)
	require.NoError(t, s.WriteFile("inc/a.h", []byte("a")))
	require.NoError(t, s.WriteFile("README.md", []byte("readme")))
	require.NoError(t, s.Commit())

	assert.Equal(t, map[string]string{
		"main.cpp":        "int main() {}",
		"schemas/a.proto": "syntax = \"proto3\";",
		"inc/a.h":         "a",
		"README.md":       "readme",
	}, readTree(t, dest))
}

func TestCommitFailureRestoresDestination(t *testing.T) {
	root := t.TempDir()
	dest := filepath.Join(root, "out")
	before := map[string]string{
		"a/x":      "old x",
		"b/y":      "old y",
		"user.txt": "mine",
	}
	writeTree(t, dest, before)

	s, err := stage.New(dest)
	require.NoError(t, err)
	require.NoError(t, s.WriteFile("a/x", []byte("new x")))
	require.NoError(t, s.WriteFile("b/y", []byte("new y")))
	// The second entry vanishes from the stage, so its swap fails after the
	// first one already happened.
	require.NoError(t, os.RemoveAll(filepath.Join(s.Dir(), "b")))

	assert.Error(t, s.Commit())
	require.NoError(t, s.Discard())

	assert.Equal(t, before, readTree(t, dest))
	entries, err := os.ReadDir(root)
	require.NoError(t, err)
	require.Len(t, entries, 1, "no staging or backup directories left behind")
}

func TestDiscardLeavesDestinationUntouched(t *testing.T) {
	root := t.TempDir()
	dest := filepath.Join(root, "out")
	require.NoError(t, os.MkdirAll(dest, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dest, "keep.h"), []byte("keep"), 0o644))

	s, err := stage.New(dest)
	require.NoError(t, err)
	require.NoError(t, s.WriteFile("keep.h", []byte("overwritten")))
	require.NoError(t, s.Discard())

	data, err := os.ReadFile(filepath.Join(dest, "keep.h"))
	require.NoError(t, err)
	assert.Equal(t, "keep", string(data))
	assert.NoDirExists(t, s.Dir())
}

func TestNewRejectsFileDestination(t *testing.T) {
	root := t.TempDir()
	dest := filepath.Join(root, "out")
	require.NoError(t, os.WriteFile(dest, []byte("x"), 0o644))

	_, err := stage.New(dest)
	assert.Error(t, err)
}
