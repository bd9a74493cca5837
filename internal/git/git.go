package git

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"gitgraphs/internal/analyzer"
	"gitgraphs/internal/types"
)

// LogFormat is the header layout ParseCommitLog expects.
const LogFormat = "%H|%an|%ae|%aI"

var (
	ErrGitUnavailable = errors.New("git executable not found")
	ErrNotRepository  = errors.New("not a git repository")
)

// ExtractionError is returned when the commit log could not be read at all.
// Malformed log content never produces one.
type ExtractionError struct {
	Path   string
	Stderr string
	Err    error
}

func (e *ExtractionError) Error() string {
	msg := fmt.Sprintf("failed to read git history of %s: %v", e.Path, e.Err)
	if e.Stderr != "" {
		msg += " (" + e.Stderr + ")"
	}
	return msg
}

func (e *ExtractionError) Unwrap() error {
	return e.Err
}

// Options controls LoadStats.
type Options struct {
	// Timeout bounds the git invocations; zero means no limit.
	Timeout time.Duration
	// Ignore drops commits before aggregation.
	Ignore   func(types.CommitRecord) bool
	Location *time.Location
	Logger   logrus.FieldLogger
}

// LoadStats reads the non-merge history of repoPath and aggregates it.
// A repository without commits yields empty stats, not an error.
func LoadStats(ctx context.Context, repoPath string, opts Options) (*types.RepositoryStats, error) {
	log := opts.Logger
	if log == nil {
		log = logrus.StandardLogger()
	}

	if opts.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, opts.Timeout)
		defer cancel()
	}

	if err := ValidateRepository(ctx, repoPath); err != nil {
		return nil, err
	}

	agg := analyzer.New(opts.Location)

	if !HasCommits(ctx, repoPath) {
		log.WithField("path", repoPath).Debug("repository has no commits yet")
		return agg.Aggregate(nil), nil
	}

	start := time.Now()
	text, err := ReadCommitLog(ctx, repoPath)
	if err != nil {
		return nil, err
	}

	commits := ParseCommitLog(text)
	if opts.Ignore != nil {
		kept := commits[:0]
		for _, c := range commits {
			if !opts.Ignore(c) {
				kept = append(kept, c)
			}
		}
		commits = kept
	}

	log.WithFields(logrus.Fields{
		"path":    repoPath,
		"commits": len(commits),
		"bytes":   len(text),
		"elapsed": time.Since(start).Round(time.Millisecond),
	}).Debug("parsed commit log")

	return agg.Aggregate(commits), nil
}

// ValidateRepository checks that git is installed and repoPath is inside a work tree.
func ValidateRepository(ctx context.Context, repoPath string) error {
	if _, err := exec.LookPath("git"); err != nil {
		return &ExtractionError{Path: repoPath, Err: ErrGitUnavailable}
	}

	_, stderr, err := run(ctx, repoPath, "rev-parse", "--git-dir")
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return &ExtractionError{Path: repoPath, Err: ctxErr}
		}
		return &ExtractionError{Path: repoPath, Stderr: stderr, Err: ErrNotRepository}
	}
	return nil
}

// HasCommits reports whether HEAD resolves; git log fails on unborn branches.
func HasCommits(ctx context.Context, repoPath string) bool {
	_, _, err := run(ctx, repoPath, "rev-parse", "--verify", "--quiet", "HEAD")
	return err == nil
}

// ReadCommitLog returns the raw non-merge log of repoPath with per-file numstat lines.
func ReadCommitLog(ctx context.Context, repoPath string) (string, error) {
	out, stderr, err := run(ctx, repoPath, "log", "--no-merges", "--format="+LogFormat, "--numstat")
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			err = ctxErr
		}
		return "", &ExtractionError{Path: repoPath, Stderr: stderr, Err: err}
	}
	return out, nil
}

func run(ctx context.Context, repoPath string, args ...string) (string, string, error) {
	cmd := exec.CommandContext(ctx, "git", append([]string{"-C", repoPath}, args...)...)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	err := cmd.Run()
	return stdout.String(), strings.TrimSpace(stderr.String()), err
}
