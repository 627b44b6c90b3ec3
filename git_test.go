package odoosentry

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
)

const testSHA = "2f3c1a9b8d7e6f5a4b3c2d1e0f9a8b7c6d5e4f3a"

func writeGitFixture(t *testing.T, files map[string]string) string {
	t.Helper()
	dir := t.TempDir()
	for name, content := range files {
		path := filepath.Join(dir, ".git", filepath.FromSlash(name))
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
			t.Fatal(err)
		}
	}
	return dir
}

func TestGitCommitEmptyDir(t *testing.T) {
	if got := GitCommit(""); got != "" {
		t.Errorf("GitCommit(\"\") = %q, want empty", got)
	}
}

func TestGitCommitNotARepo(t *testing.T) {
	logrus.SetLevel(logrus.DebugLevel)
	defer logrus.SetLevel(logrus.InfoLevel)
	hook := test.NewGlobal()
	defer hook.Reset()

	// Must swallow the failure, not raise it.
	if got := GitCommit(t.TempDir()); got != "" {
		t.Errorf("GitCommit(non-repo) = %q, want empty", got)
	}

	entry := hook.LastEntry()
	if entry == nil {
		t.Fatal("invalid repository was not logged")
	}
	if entry.Level != logrus.DebugLevel {
		t.Errorf("invalid repository logged at %v, want debug", entry.Level)
	}
}

func TestGitCommitLooseRef(t *testing.T) {
	dir := writeGitFixture(t, map[string]string{
		"HEAD":            "ref: refs/heads/main\n",
		"refs/heads/main": testSHA + "\n",
	})

	if got := GitCommit(dir); got != testSHA {
		t.Errorf("GitCommit = %q, want %q", got, testSHA)
	}
}

func TestGitCommitDetachedHead(t *testing.T) {
	dir := writeGitFixture(t, map[string]string{
		"HEAD": testSHA + "\n",
	})

	if got := GitCommit(dir); got != testSHA {
		t.Errorf("GitCommit = %q, want %q", got, testSHA)
	}
}

func TestGitCommitPackedRef(t *testing.T) {
	dir := writeGitFixture(t, map[string]string{
		"HEAD": "ref: refs/heads/main\n",
		"packed-refs": "# pack-refs with: peeled fully-peeled sorted\n" +
			"aaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaa refs/heads/other\n" +
			testSHA + " refs/heads/main\n" +
			"^bbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbb\n",
	})

	if got := GitCommit(dir); got != testSHA {
		t.Errorf("GitCommit = %q, want %q", got, testSHA)
	}
}

func TestFetchGitSHAErrors(t *testing.T) {
	tests := []struct {
		name  string
		files map[string]string
	}{
		{
			name:  "garbage HEAD",
			files: map[string]string{"HEAD": "what is this\n"},
		},
		{
			name: "dangling ref",
			files: map[string]string{
				"HEAD": "ref: refs/heads/gone\n",
			},
		},
		{
			name: "ref missing from packed-refs",
			files: map[string]string{
				"HEAD":        "ref: refs/heads/gone\n",
				"packed-refs": testSHA + " refs/heads/main\n",
			},
		},
		{
			name: "loose ref without a commit",
			files: map[string]string{
				"HEAD":            "ref: refs/heads/main\n",
				"refs/heads/main": "nonsense\n",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := writeGitFixture(t, tt.files)
			if _, err := fetchGitSHA(dir); err == nil {
				t.Error("fetchGitSHA returned no error")
			}
		})
	}
}
