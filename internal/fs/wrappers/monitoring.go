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

package wrappers

import (
	"context"
	"errors"
	"syscall"
	"time"

	"github.com/googlecloudplatform/failfs/common"
	"github.com/googlecloudplatform/failfs/internal/monitor"
	"github.com/jacobsa/fuse/fuseops"
	"github.com/jacobsa/fuse/fuseutil"
	"golang.org/x/sys/unix"
)

// errnoName returns the symbolic name of the errno carried by err, e.g.
// "ENOENT", for use as a metric label.
func errnoName(err error) string {
	var errno syscall.Errno
	if !errors.As(err, &errno) {
		errno = DefaultFSError
	}
	if name := unix.ErrnoName(errno); name != "" {
		return name
	}
	return errno.Error()
}

// WithMonitoring takes a FileSystem, returns a FileSystem with monitoring
// on the counts of requests and errors per API. It expects errors that have
// already been mapped to errnos.
func WithMonitoring(wrapped fuseutil.FileSystem, metrics *monitor.FSMetrics) fuseutil.FileSystem {
	return &monitoringFileSystem{
		FileSystem: wrapped,
		metrics:    metrics,
	}
}

type monitoringFileSystem struct {
	fuseutil.FileSystem
	metrics *monitor.FSMetrics
}

func (fs *monitoringFileSystem) record(method string, err error) error {
	fs.metrics.RequestReceived(method)
	if err != nil {
		fs.metrics.RequestFailed(method, errnoName(err))
	}
	return err
}

func (fs *monitoringFileSystem) StatFS(
	ctx context.Context,
	op *fuseops.StatFSOp) error {
	return fs.record(common.OpStatFS, fs.FileSystem.StatFS(ctx, op))
}

func (fs *monitoringFileSystem) LookUpInode(
	ctx context.Context,
	op *fuseops.LookUpInodeOp) error {
	return fs.record(common.OpLookUpInode, fs.FileSystem.LookUpInode(ctx, op))
}

func (fs *monitoringFileSystem) GetInodeAttributes(
	ctx context.Context,
	op *fuseops.GetInodeAttributesOp) error {
	return fs.record(common.OpGetInodeAttributes, fs.FileSystem.GetInodeAttributes(ctx, op))
}

func (fs *monitoringFileSystem) ForgetInode(
	ctx context.Context,
	op *fuseops.ForgetInodeOp) error {
	return fs.record(common.OpForgetInode, fs.FileSystem.ForgetInode(ctx, op))
}

func (fs *monitoringFileSystem) BatchForget(
	ctx context.Context,
	op *fuseops.BatchForgetOp) error {
	return fs.record(common.OpBatchForget, fs.FileSystem.BatchForget(ctx, op))
}

func (fs *monitoringFileSystem) OpenDir(
	ctx context.Context,
	op *fuseops.OpenDirOp) error {
	return fs.record(common.OpOpenDir, fs.FileSystem.OpenDir(ctx, op))
}

func (fs *monitoringFileSystem) ReadDir(
	ctx context.Context,
	op *fuseops.ReadDirOp) error {
	return fs.record(common.OpReadDir, fs.FileSystem.ReadDir(ctx, op))
}

func (fs *monitoringFileSystem) ReleaseDirHandle(
	ctx context.Context,
	op *fuseops.ReleaseDirHandleOp) error {
	return fs.record(common.OpReleaseDirHandle, fs.FileSystem.ReleaseDirHandle(ctx, op))
}

func (fs *monitoringFileSystem) OpenFile(
	ctx context.Context,
	op *fuseops.OpenFileOp) error {
	return fs.record(common.OpOpenFile, fs.FileSystem.OpenFile(ctx, op))
}

func (fs *monitoringFileSystem) ReadFile(
	ctx context.Context,
	op *fuseops.ReadFileOp) error {
	start := time.Now()
	err := fs.FileSystem.ReadFile(ctx, op)
	fs.metrics.RecordReadLatency(start)

	if errors.Is(err, unix.EOWNERDEAD) {
		fs.metrics.FaultInjected()
	}
	fs.metrics.BytesRead(op.BytesRead)
	return fs.record(common.OpReadFile, err)
}

func (fs *monitoringFileSystem) FlushFile(
	ctx context.Context,
	op *fuseops.FlushFileOp) error {
	return fs.record(common.OpFlushFile, fs.FileSystem.FlushFile(ctx, op))
}

func (fs *monitoringFileSystem) ReleaseFileHandle(
	ctx context.Context,
	op *fuseops.ReleaseFileHandleOp) error {
	return fs.record(common.OpReleaseFileHandle, fs.FileSystem.ReleaseFileHandle(ctx, op))
}
