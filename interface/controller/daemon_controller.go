package controller

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strconv"
	"strings"
	"syscall"

	"github.com/ca-srg/tzexplorer/domain"
	"github.com/ca-srg/tzexplorer/infrastructure/config"
	usecase "github.com/ca-srg/tzexplorer/usecase/interface"
)

// ForegroundFunc is the long-running part of a daemon run, e.g. the tray loop
type ForegroundFunc func(ctx context.Context) error

// DaemonController owns the process-level lifecycle of long-running commands:
// PID file, periodic metrics and shutdown signals.
type DaemonController struct {
	config         *config.AppConfig
	metricsService usecase.MetricsService
	logger         domain.Logger
	pidFile        string
}

// NewDaemonController creates a new daemon controller. metricsService may be nil.
func NewDaemonController(
	cfg *config.AppConfig,
	metricsService usecase.MetricsService,
	logger domain.Logger,
) *DaemonController {
	return &DaemonController{
		config:         cfg,
		metricsService: metricsService,
		logger:         logger,
	}
}

// Run starts the daemon services, runs fg until it returns or a signal
// arrives, and then shuts everything down.
func (d *DaemonController) Run(ctx context.Context, fg ForegroundFunc) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	d.logger.Info(ctx, "Starting tzexplorer daemon...")

	if err := d.writePIDFile(); err != nil {
		return err
	}
	defer func() {
		if err := d.removePIDFile(); err != nil {
			d.logger.Error(ctx, "Failed to remove PID file", domain.NewField("error", err.Error()))
		}
	}()

	stopSignals := d.setupSignalHandlers(ctx, cancel)
	defer stopSignals()

	if d.metricsService != nil {
		if err := d.metricsService.StartPeriodicMetrics(); err != nil {
			d.logger.Warn(ctx, "Periodic metrics not started", domain.NewField("error", err.Error()))
		} else {
			defer func() {
				if err := d.metricsService.StopPeriodicMetrics(); err != nil {
					d.logger.Error(ctx, "Failed to stop metrics", domain.NewField("error", err.Error()))
				}
			}()
		}
	}

	d.logger.Info(ctx, "Daemon started successfully")
	err := fg(ctx)
	d.logger.Info(ctx, "Daemon stopped")
	return err
}

// setupSignalHandlers cancels the run on SIGINT/SIGTERM
func (d *DaemonController) setupSignalHandlers(ctx context.Context, cancel context.CancelFunc) func() {
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	done := make(chan struct{})
	go func() {
		select {
		case sig := <-sigChan:
			d.logger.Info(ctx, "Received signal", domain.NewField("signal", sig.String()))
			cancel()
		case <-done:
		}
	}()

	return func() {
		signal.Stop(sigChan)
		close(done)
	}
}

// writePIDFile writes the process ID, refusing to clobber a live daemon
func (d *DaemonController) writePIDFile() error {
	if d.config == nil || d.config.Daemon == nil || d.config.Daemon.PidFile == "" {
		return nil
	}
	path := d.config.Daemon.PidFile

	if pid, err := ReadPIDFile(path); err == nil && pid != os.Getpid() && processAlive(pid) {
		return domain.ErrInvalidInput("pid_file", fmt.Sprintf("tzexplorer already running with pid %d", pid)).
			WithDetails("path", path)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return domain.ErrFileOperationWithCause("CreatePIDDir", filepath.Dir(path), err)
	}
	if err := os.WriteFile(path, []byte(strconv.Itoa(os.Getpid())), 0644); err != nil {
		return domain.ErrFileOperationWithCause("WritePIDFile", path, err)
	}

	d.pidFile = path
	return nil
}

// removePIDFile removes the PID file written by this process
func (d *DaemonController) removePIDFile() error {
	if d.pidFile == "" {
		return nil
	}

	if err := os.Remove(d.pidFile); err != nil && !os.IsNotExist(err) {
		return domain.ErrFileOperationWithCause("RemovePIDFile", d.pidFile, err)
	}
	d.pidFile = ""
	return nil
}

// ReadPIDFile returns the process ID stored at path
func ReadPIDFile(path string) (int, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return 0, err
	}
	pid, err := strconv.Atoi(strings.TrimSpace(string(data)))
	if err != nil || pid <= 0 {
		return 0, domain.ErrInvalidInput("pid_file", "malformed PID file").WithDetails("path", path)
	}
	return pid, nil
}

func processAlive(pid int) bool {
	proc, err := os.FindProcess(pid)
	if err != nil {
		return false
	}
	err = proc.Signal(syscall.Signal(0))
	// EPERM means the process exists but belongs to someone else
	return err == nil || errors.Is(err, syscall.EPERM)
}
