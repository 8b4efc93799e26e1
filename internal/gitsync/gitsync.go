package gitsync

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	"github.com/bluegrove/aquamon-core/internal/infrastructure/config"
	"github.com/bluegrove/aquamon-core/internal/infrastructure/logging"
)

// ErrDisabled indicates git sync is disabled in config.
var ErrDisabled = errors.New("gitsync: disabled in configuration")

// defaultTimeout is used when the config carries no timeout.
const defaultTimeout = 60 * time.Second

// Syncer commits and pushes the data file from its containing repo.
type Syncer struct {
	cfg     config.GitSyncConfig
	repoDir string
	file    string
	logger  *logging.Logger
}

// New creates a syncer for the given data file path.
//
// The file's parent directory must be inside a git working tree; the
// syncer stages only the file itself.
func New(cfg config.GitSyncConfig, dataPath string, logger *logging.Logger) (*Syncer, error) {
	if !cfg.Enabled {
		return nil, ErrDisabled
	}

	return &Syncer{
		cfg:     cfg,
		repoDir: filepath.Dir(dataPath),
		file:    filepath.Base(dataPath),
		logger:  logger,
	}, nil
}

// Sync stages, commits, and pushes the data file.
//
// "Nothing to commit" is a normal outcome, not an error: a sampling
// cycle where every sensor failed produces no file change.
//
// Parameters:
//   - ctx: Context for cancellation; each git command also gets the
//     configured per-command timeout
//
// Returns:
//   - error: If any git command fails
func (s *Syncer) Sync(ctx context.Context) error {
	if _, _, err := s.run(ctx, "add", s.file); err != nil {
		return fmt.Errorf("git add: %w", err)
	}

	msg := fmt.Sprintf("Update sensor data at %s", time.Now().UTC().Format(time.RFC3339))
	stdout, _, err := s.run(ctx, "commit", "-m", msg)
	if err != nil {
		if strings.Contains(stdout, "nothing to commit") {
			s.logger.Debug("git sync: no changes to commit")
			return nil
		}
		return fmt.Errorf("git commit: %w", err)
	}

	if _, _, err := s.run(ctx, "push"); err != nil {
		return fmt.Errorf("git push: %w", err)
	}

	s.logger.Info("pushed data to git remote", "file", s.file)
	return nil
}

// run executes one git command in the repo directory and returns its
// captured stdout and stderr.
func (s *Syncer) run(ctx context.Context, args ...string) (string, string, error) {
	cmdCtx, cancel := context.WithTimeout(ctx, s.timeout())
	defer cancel()

	cmd := exec.CommandContext(cmdCtx, "git", args...)
	cmd.Dir = s.repoDir

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		return stdout.String(), stderr.String(),
			fmt.Errorf("%w: %s", err, strings.TrimSpace(stderr.String()))
	}
	return stdout.String(), stderr.String(), nil
}

// timeout returns the configured per-command timeout.
func (s *Syncer) timeout() time.Duration {
	if s.cfg.Timeout > 0 {
		return time.Duration(s.cfg.Timeout) * time.Second
	}
	return defaultTimeout
}
