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

	"github.com/googlecloudplatform/failfs/internal/fs/failfs_errors"
	"github.com/googlecloudplatform/failfs/internal/logger"
	"github.com/jacobsa/fuse/fuseops"
	"github.com/jacobsa/fuse/fuseutil"
	"golang.org/x/sys/unix"
)

// DefaultFSError is returned for errors that carry no errno of their own.
const DefaultFSError = syscall.EIO

func errno(err error) error {
	if err == nil {
		return nil
	}

	// Use existing FS errno
	var errno syscall.Errno
	if errors.As(err, &errno) {
		return errno
	}

	var nfe *failfs_errors.NotFoundError
	if errors.As(err, &nfe) {
		return syscall.ENOENT
	}

	// The injected failure must not look retryable to the client.
	var fte *failfs_errors.FatalTransferError
	if errors.As(err, &fte) {
		return unix.EOWNERDEAD
	}

	// Unknown errors
	logger.Errorf("Unexpected file system error, reporting %v: %v", DefaultFSError, err)
	return DefaultFSError
}

// WithErrorMapping wraps a FileSystem, processing the returned errors, and
// mapping them into syscall.Errno that can be understood by FUSE. Operations
// the file system does not serve are passed through untouched.
func WithErrorMapping(wrapped fuseutil.FileSystem) fuseutil.FileSystem {
	return &errorMapping{FileSystem: wrapped}
}

type errorMapping struct {
	fuseutil.FileSystem
}

func (fs *errorMapping) StatFS(
	ctx context.Context,
	op *fuseops.StatFSOp) error {
	err := fs.FileSystem.StatFS(ctx, op)
	return errno(err)
}

func (fs *errorMapping) LookUpInode(
	ctx context.Context,
	op *fuseops.LookUpInodeOp) error {
	err := fs.FileSystem.LookUpInode(ctx, op)
	return errno(err)
}

func (fs *errorMapping) GetInodeAttributes(
	ctx context.Context,
	op *fuseops.GetInodeAttributesOp) error {
	err := fs.FileSystem.GetInodeAttributes(ctx, op)
	return errno(err)
}

func (fs *errorMapping) ForgetInode(
	ctx context.Context,
	op *fuseops.ForgetInodeOp) error {
	err := fs.FileSystem.ForgetInode(ctx, op)
	return errno(err)
}

func (fs *errorMapping) BatchForget(
	ctx context.Context,
	op *fuseops.BatchForgetOp) error {
	err := fs.FileSystem.BatchForget(ctx, op)
	return errno(err)
}

func (fs *errorMapping) OpenDir(
	ctx context.Context,
	op *fuseops.OpenDirOp) error {
	err := fs.FileSystem.OpenDir(ctx, op)
	return errno(err)
}

func (fs *errorMapping) ReadDir(
	ctx context.Context,
	op *fuseops.ReadDirOp) error {
	err := fs.FileSystem.ReadDir(ctx, op)
	return errno(err)
}

func (fs *errorMapping) ReleaseDirHandle(
	ctx context.Context,
	op *fuseops.ReleaseDirHandleOp) error {
	err := fs.FileSystem.ReleaseDirHandle(ctx, op)
	return errno(err)
}

func (fs *errorMapping) OpenFile(
	ctx context.Context,
	op *fuseops.OpenFileOp) error {
	err := fs.FileSystem.OpenFile(ctx, op)
	return errno(err)
}

func (fs *errorMapping) ReadFile(
	ctx context.Context,
	op *fuseops.ReadFileOp) error {
	err := fs.FileSystem.ReadFile(ctx, op)
	return errno(err)
}

func (fs *errorMapping) FlushFile(
	ctx context.Context,
	op *fuseops.FlushFileOp) error {
	err := fs.FileSystem.FlushFile(ctx, op)
	return errno(err)
}

func (fs *errorMapping) ReleaseFileHandle(
	ctx context.Context,
	op *fuseops.ReleaseFileHandleOp) error {
	err := fs.FileSystem.ReleaseFileHandle(ctx, op)
	return errno(err)
}
