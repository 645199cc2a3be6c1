package gitutil

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing/object"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func initRepo(t *testing.T) (root, target, sha string) {
	t.Helper()
	root = t.TempDir()
	repo, err := git.PlainInit(root, false)
	require.NoError(t, err)

	target = filepath.Join(root, "src", "video", "drastic_video.c")
	require.NoError(t, os.MkdirAll(filepath.Dir(target), 0o755))
	require.NoError(t, os.WriteFile(target, []byte("int drm_init();\n"), 0o644))

	wt, err := repo.Worktree()
	require.NoError(t, err)
	_, err = wt.Add("src/video/drastic_video.c")
	require.NoError(t, err)
	hash, err := wt.Commit("import", &git.CommitOptions{
		Author: &object.Signature{Name: "t", Email: "t@example.com", When: time.Now()},
	})
	require.NoError(t, err)
	return root, target, hash.String()
}

func TestClient_Revision(t *testing.T) {
	root, target, sha := initRepo(t)
	c := NewClient(nil)

	rev, ok, err := c.Revision(target)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, sha, rev.Head)
	assert.Equal(t, sha[:12], rev.Short())
	assert.False(t, rev.Dirty)
	assert.False(t, rev.TargetModified)
	assert.Equal(t, filepath.Clean(root), filepath.Clean(rev.Root))

	require.NoError(t, os.WriteFile(target, []byte("int drm_init(void);\n"), 0o644))
	rev, ok, err = c.Revision(target)
	require.NoError(t, err)
	require.True(t, ok)
	assert.True(t, rev.Dirty)
	assert.True(t, rev.TargetModified)
}

func TestClient_RevisionOutsideRepository(t *testing.T) {
	target := filepath.Join(t.TempDir(), "a.c")
	require.NoError(t, os.WriteFile(target, []byte("x"), 0o644))

	_, ok, err := NewClient(nil).Revision(target)
	require.NoError(t, err)
	assert.False(t, ok)
}
