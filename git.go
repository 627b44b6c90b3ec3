package odoosentry

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/sirupsen/logrus"
)

// GitCommit returns the current commit hash of the git checkout at dir, used
// as the release fallback when no explicit release is configured. An empty
// dir or anything that is not a valid repository yields the empty string;
// the failure is logged at debug level and never propagated.
func GitCommit(dir string) string {
	if dir == "" {
		return ""
	}
	sha, err := fetchGitSHA(dir)
	if err != nil {
		logrus.WithError(err).Debugf("directory %q is not a valid git repository", dir)
		return ""
	}
	return sha
}

// fetchGitSHA resolves HEAD by hand: symbolic ref to a loose ref file,
// falling back to packed-refs, or a detached 40-hex HEAD.
func fetchGitSHA(dir string) (string, error) {
	head, err := os.ReadFile(filepath.Join(dir, ".git", "HEAD"))
	if err != nil {
		return "", fmt.Errorf("read HEAD: %w", err)
	}

	line := strings.TrimSpace(string(head))
	if !strings.HasPrefix(line, "ref: ") {
		if isHexSHA(line) {
			return line, nil
		}
		return "", fmt.Errorf("HEAD is neither a ref nor a commit: %q", line)
	}

	ref := strings.TrimSpace(strings.TrimPrefix(line, "ref: "))
	loose, err := os.ReadFile(filepath.Join(dir, ".git", filepath.FromSlash(ref)))
	if err == nil {
		sha := strings.TrimSpace(string(loose))
		if !isHexSHA(sha) {
			return "", fmt.Errorf("ref %s holds no commit: %q", ref, sha)
		}
		return sha, nil
	}

	return packedRef(dir, ref)
}

func packedRef(dir, ref string) (string, error) {
	packed, err := os.ReadFile(filepath.Join(dir, ".git", "packed-refs"))
	if err != nil {
		return "", fmt.Errorf("resolve ref %s: %w", ref, err)
	}

	for _, line := range strings.Split(string(packed), "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") || strings.HasPrefix(line, "^") {
			continue
		}
		fields := strings.Fields(line)
		if len(fields) == 2 && fields[1] == ref && isHexSHA(fields[0]) {
			return fields[0], nil
		}
	}
	return "", fmt.Errorf("ref %s not found in packed-refs", ref)
}

func isHexSHA(s string) bool {
	if len(s) != 40 {
		return false
	}
	for _, c := range s {
		if (c < '0' || c > '9') && (c < 'a' || c > 'f') {
			return false
		}
	}
	return true
}
