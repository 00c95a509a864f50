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
	"fmt"
	"syscall"
	"testing"

	"github.com/googlecloudplatform/failfs/internal/fs/failfs_errors"
	"github.com/jacobsa/fuse/fuseops"
	"github.com/jacobsa/fuse/fuseutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/suite"
	"golang.org/x/sys/unix"
)

// erroringFileSystem fails every served operation with err and reports
// readBytes for reads.
type erroringFileSystem struct {
	fuseutil.NotImplementedFileSystem
	err       error
	readBytes int
}

func (fs *erroringFileSystem) LookUpInode(ctx context.Context, op *fuseops.LookUpInodeOp) error {
	return fs.err
}

func (fs *erroringFileSystem) ReadFile(ctx context.Context, op *fuseops.ReadFileOp) error {
	op.BytesRead = fs.readBytes
	return fs.err
}

type ErrorMapping struct {
	suite.Suite
}

func TestWithErrorMapping(testSuite *testing.T) {
	suite.Run(testSuite, new(ErrorMapping))
}

func (testSuite *ErrorMapping) TestNil() {
	assert.Nil(testSuite.T(), errno(nil))
}

func (testSuite *ErrorMapping) TestNotFoundError() {
	fsErr := errno(&failfs_errors.NotFoundError{Parent: 1, Name: "x"})

	assert.Equal(testSuite.T(), syscall.ENOENT, fsErr)
}

func (testSuite *ErrorMapping) TestWrappedNotFoundError() {
	fsErr := errno(fmt.Errorf("lookup: %w", &failfs_errors.NotFoundError{Inode: 9}))

	assert.Equal(testSuite.T(), syscall.ENOENT, fsErr)
}

func (testSuite *ErrorMapping) TestFatalTransferError() {
	fsErr := errno(&failfs_errors.FatalTransferError{Offset: 1, Size: 2, Progress: 0.9})

	assert.Equal(testSuite.T(), unix.EOWNERDEAD, fsErr)
}

func (testSuite *ErrorMapping) TestErrnoPassesThrough() {
	for _, e := range []syscall.Errno{syscall.ENOTDIR, syscall.EISDIR, syscall.ENOSYS} {
		assert.Equal(testSuite.T(), e, errno(fmt.Errorf("wrapped: %w", e)))
	}
}

func (testSuite *ErrorMapping) TestUnknownErrorIsEIO() {
	fsErr := errno(fmt.Errorf("some random error"))

	assert.Equal(testSuite.T(), syscall.EIO, fsErr)
}

func (testSuite *ErrorMapping) TestWrapperMapsOperationErrors() {
	fs := WithErrorMapping(&erroringFileSystem{err: &failfs_errors.NotFoundError{Parent: 1, Name: "x"}})

	err := fs.LookUpInode(context.Background(), &fuseops.LookUpInodeOp{Parent: 1, Name: "x"})

	assert.Equal(testSuite.T(), syscall.ENOENT, err)
}

func (testSuite *ErrorMapping) TestWrapperPassesThroughUnservedOperations() {
	fs := WithErrorMapping(&erroringFileSystem{})

	err := fs.MkDir(context.Background(), &fuseops.MkDirOp{})

	assert.Equal(testSuite.T(), syscall.ENOSYS, err)
}
