package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/tieubaoca/doc2cal/config"
	"github.com/tieubaoca/doc2cal/types"
)

const (
	TokenFileEnv = "GOOGLE_OAUTH_TOKEN_FILE"

	stderrTailBytes = 2048
	waitDelay       = time.Second
)

// Executor runs generated scripts in a separate interpreter process with the
// script on stdin. Only stdout is returned to the user; stderr is kept for
// faults.
type Executor struct {
	interpreter string
	args        []string
	workDir     string
	timeout     time.Duration
	tokenFile   string
	logger      *zap.Logger
}

func NewExecutor(cfg config.ExecutorConfig, tokenFile string, logger *zap.Logger) *Executor {
	if cfg.Interpreter == "" {
		cfg.Interpreter = "python3"
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	if tokenFile != "" {
		if abs, err := filepath.Abs(tokenFile); err == nil {
			tokenFile = abs
		}
	}
	return &Executor{
		interpreter: cfg.Interpreter,
		args:        cfg.Args,
		workDir:     cfg.WorkDir,
		timeout:     cfg.Timeout,
		tokenFile:   tokenFile,
		logger:      logger.With(zap.String("module", "executor")),
	}
}

func (e *Executor) Run(ctx context.Context, script string) types.ExecutionResult {
	if strings.TrimSpace(script) == "" {
		return types.ExecutionResult{}
	}
	if e.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, e.timeout)
		defer cancel()
	}

	cmd := exec.CommandContext(ctx, e.interpreter, e.args...)
	cmd.Dir = e.workDir
	env := append([]string{}, os.Environ()...)
	env = append(env, "PYTHONUNBUFFERED=1")
	if e.tokenFile != "" {
		env = append(env, TokenFileEnv+"="+e.tokenFile)
	}
	cmd.Env = env
	cmd.Stdin = strings.NewReader(script)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	// Children that inherit the pipes must not keep Wait blocked after a kill.
	cmd.WaitDelay = waitDelay

	start := time.Now()
	err := cmd.Run()
	result := types.ExecutionResult{Output: stdout.String()}
	if err != nil {
		result.Fault = e.fault(ctx, err, stderr.String())
		e.logger.Warn("Script execution failed",
			zap.Duration("elapsed", time.Since(start)),
			zap.String("fault", result.Fault))
		return result
	}
	e.logger.Info("Script executed", zap.Duration("elapsed", time.Since(start)), zap.Int("output_length", stdout.Len()))
	return result
}

func (e *Executor) fault(ctx context.Context, err error, stderr string) string {
	msg := err.Error()
	if errors.Is(ctx.Err(), context.DeadlineExceeded) {
		msg = fmt.Sprintf("execution timed out after %s", e.timeout)
	}
	if tail := tailString(strings.TrimSpace(stderr), stderrTailBytes); tail != "" {
		msg += ": " + tail
	}
	return msg
}

func tailString(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[len(s)-n:]
}
