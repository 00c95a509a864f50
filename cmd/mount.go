// Copyright 2024 Google LLC
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/google/uuid"
	"github.com/googlecloudplatform/failfs/cfg"
	"github.com/googlecloudplatform/failfs/common"
	"github.com/googlecloudplatform/failfs/internal/faultreader"
	"github.com/googlecloudplatform/failfs/internal/fs"
	"github.com/googlecloudplatform/failfs/internal/logger"
	"github.com/googlecloudplatform/failfs/internal/monitor"
	"github.com/googlecloudplatform/failfs/internal/perms"
	"github.com/googlecloudplatform/failfs/internal/util"
	"github.com/jacobsa/daemonize"
	"github.com/jacobsa/fuse"
	"github.com/jacobsa/timeutil"
	"github.com/kardianos/osext"
	"github.com/prometheus/client_golang/prometheus"
	"golang.org/x/sys/unix"
)

const (
	SuccessfulMountMessage         = "File system has been successfully mounted."
	UnsuccessfulMountMessagePrefix = "Error while mounting failfs"
)

func registerTerminatingSignalHandler(mountPoint string) {
	// Register for SIGINT and SIGTERM.
	signalChan := make(chan os.Signal, 1)
	signal.Notify(signalChan, os.Interrupt, unix.SIGTERM)

	// Start a goroutine that will unmount when the signal is received.
	go func() {
		for {
			sig := <-signalChan
			sigName := "undefined"
			switch sig {
			case unix.SIGTERM:
				sigName = "SIGTERM"
			case os.Interrupt:
				sigName = "SIGINT"
			}
			logger.Infof("Received %s, attempting to unmount...", sigName)

			err := fuse.Unmount(mountPoint)
			if err != nil {
				logger.Errorf("Failed to unmount in response to %s: %v", sigName, err)
			} else {
				logger.Infof("Successfully unmounted in response to %s.", sigName)
				return
			}
		}
	}()
}

func getServerConfig(c *cfg.Config, uid, gid uint32, reg prometheus.Registerer) *fs.ServerConfig {
	return &fs.ServerConfig{
		CacheClock:             timeutil.RealClock(),
		FileName:               c.FileName,
		Uid:                    uid,
		Gid:                    gid,
		FilePerms:              os.FileMode(c.FileSystem.FileMode),
		DirPerms:               os.FileMode(c.FileSystem.DirMode),
		InodeAttributeCacheTTL: c.MetadataCache.TTL(),
		DirectIO:               c.FileSystem.DirectIo,
		FaultInjection: faultreader.Config{
			AdvertisedSize:   c.FaultInjection.AdvertisedSize,
			MinChunks:        c.FaultInjection.MinChunks,
			FailureThreshold: c.FaultInjection.FailureThreshold,
			Template:         c.FaultInjection.Template,
		},
		DebugFS:           c.Debug.Fuse,
		MetricsRegisterer: reg,
	}
}

// mountWithConfig mounts the file system, returning a
// fuse.MountedFileSystem that can be joined to wait for unmounting.
func mountWithConfig(ctx context.Context, mountPoint string, c *cfg.Config, reg prometheus.Registerer) (mfs *fuse.MountedFileSystem, err error) {
	// Find the current process's UID and GID. If it was invoked as root and the
	// user hasn't explicitly overridden --uid, everything is going to be owned
	// by root. This is probably not what the user wants, so print a warning.
	uid, gid, err := perms.ResolveOwner(c.FileSystem.Uid, c.FileSystem.Gid)
	if err != nil {
		return nil, fmt.Errorf("ResolveOwner: %w", err)
	}

	if os.Getuid() == 0 && c.FileSystem.Uid < 0 {
		fmt.Fprintln(os.Stdout, `
WARNING: failfs invoked as root. This will cause all files to be owned by
root. If this is not what you intended, invoke failfs as the user that will
be interacting with the file system.`)
	}

	if err = os.MkdirAll(mountPoint, 0755); err != nil {
		return nil, fmt.Errorf("creating mount point %q: %w", mountPoint, err)
	}

	server, err := fs.NewServer(ctx, getServerConfig(c, uid, gid, reg))
	if err != nil {
		return nil, fmt.Errorf("fs.NewServer: %w", err)
	}

	logger.Infof("Creating a mount at %q\n", mountPoint)
	mfs, err = fuse.Mount(mountPoint, server, getFuseMountConfig(ctx, c))
	if err != nil {
		return nil, fmt.Errorf("mount: %w", err)
	}

	return mfs, nil
}

// daemonEnv is the environment of the background process.
func daemonEnv() []string {
	env := []string{
		fmt.Sprintf("PATH=%s", os.Getenv("PATH")),
	}

	// Pass through the working directory, so that relative paths on the
	// command line resolve the same way in the daemon.
	if parentProcessExecutionDir, err := os.Getwd(); err == nil {
		env = append(env, fmt.Sprintf("%s=%s", util.FAILFS_PARENT_PROCESS_DIR,
			parentProcessExecutionDir))
	}

	// Pass through the HOME, so that ~ resolves the same way in the daemon.
	if homeDir, err := os.UserHomeDir(); err == nil {
		env = append(env, fmt.Sprintf("HOME=%s", homeDir))
	}

	// This environment variable will be helpful to distinguish b/w the main
	// process and daemon process.
	env = append(env, fmt.Sprintf("%s=true", logger.FailFSInBackgroundMode))

	return env
}

// Mount mounts the file system at mountPoint and serves it until it is
// unmounted. Unless running in the foreground, it starts a daemon that does
// this and returns once the daemon reports the outcome of mounting.
func Mount(c *cfg.Config, mountPoint string) (err error) {
	logger.SetLogFormat(c.Logging.Format)

	if c.Foreground {
		if err = logger.InitLogFile(c.Logging); err != nil {
			return fmt.Errorf("init log file: %w", err)
		}
		logger.SetMountInstanceID(uuid.NewString())
	}

	logger.Infof("Start failfs/%s for app %q using mount point: %s\n", common.GetVersion(), c.AppName, mountPoint)

	// Log the config once: in the foreground, or in the parent when there is
	// no log file to share with the daemon.
	if c.Foreground || c.Logging.FilePath == "" {
		if s, err := cfg.Stringify(c); err == nil {
			logger.Info("failfs config", "config", s)
		} else {
			logger.Warnf("Failed to render the config: %v", err)
		}
	}

	// If we haven't been asked to run in foreground mode, we should run a daemon
	// with the foreground flag set and wait for it to mount.
	if !c.Foreground {
		// Find the executable.
		var path string
		path, err = osext.Executable()
		if err != nil {
			return fmt.Errorf("osext.Executable: %w", err)
		}

		// Set up arguments. Relative paths among them resolve against the
		// parent's working directory passed in the environment.
		args := append([]string{"--foreground"}, os.Args[1:]...)

		// Pass along the stderr of the daemon to a file next to the log file.
		var stderrFile *os.File
		if c.Logging.FilePath != "" {
			stderrFileName := string(c.Logging.FilePath) + ".stderr"
			if stderrFile, err = os.OpenFile(stderrFileName, os.O_WRONLY|os.O_CREATE|os.O_APPEND, 0644); err != nil {
				return err
			}
			defer stderrFile.Close()
		}

		// Run. Pass along the stdout of the daemon for the status messages.
		err = daemonize.Run(path, args, daemonEnv(), os.Stdout, stderrFile)
		if err != nil {
			return fmt.Errorf("daemonize.Run: %w", err)
		}
		logger.Infof(SuccessfulMountMessage)
		return nil
	}

	ctx := context.Background()
	reg := prometheus.NewRegistry()
	var metricExporterShutdownFn common.ShutdownFn
	if cfg.IsMetricsEnabled(&c.Metrics) {
		metricExporterShutdownFn = monitor.StartPrometheusExporter(c.Metrics.PrometheusPort, reg)
	}
	// The log file is closed last so that the shutdown of the exporter can
	// still be logged.
	shutdownFn := common.JoinShutdownFunc(metricExporterShutdownFn, func(context.Context) error {
		return logger.Close()
	})

	// Mount, writing information about our progress to the writer that package
	// daemonize gives us and telling it about the outcome.
	var mfs *fuse.MountedFileSystem
	{
		mfs, err = mountWithConfig(ctx, mountPoint, c, reg)

		// This utility is to absorb the error
		// returned by daemonize.SignalOutcome calls by simply
		// logging them as error logs.
		callDaemonizeSignalOutcome := func(err error) {
			if err2 := daemonize.SignalOutcome(err); err2 != nil {
				logger.Errorf("Failed to signal error to parent-process from daemon: %v", err2)
			}
		}

		if err != nil {
			logger.Errorf("%s: %v\n", UnsuccessfulMountMessagePrefix, err)
			callDaemonizeSignalOutcome(fmt.Errorf("%s: mountWithConfig: %w", UnsuccessfulMountMessagePrefix, err))
			_ = shutdownFn(ctx)
			return err
		}

		logger.Info(SuccessfulMountMessage)
		callDaemonizeSignalOutcome(nil)
	}

	// Let the user unmount with Ctrl-C (SIGINT) or SIGTERM.
	registerTerminatingSignalHandler(mfs.Dir())

	// Wait for the file system to be unmounted.
	if err = mfs.Join(ctx); err != nil {
		err = fmt.Errorf("MountedFileSystem.Join: %w", err)
	}

	if shutdownErr := shutdownFn(ctx); shutdownErr != nil {
		logger.Errorf("Error while shutting down: %v", shutdownErr)
	}

	return err
}
