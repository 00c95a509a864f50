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

package fs

import (
	"context"
	"fmt"
	"os"
	"syscall"
	"time"

	"github.com/googlecloudplatform/failfs/internal/faultreader"
	"github.com/googlecloudplatform/failfs/internal/fs/failfs_errors"
	"github.com/googlecloudplatform/failfs/internal/fs/handle"
	"github.com/googlecloudplatform/failfs/internal/fs/inode"
	"github.com/googlecloudplatform/failfs/internal/logger"
	"github.com/jacobsa/fuse/fuseops"
	"github.com/jacobsa/fuse/fuseutil"
	"github.com/jacobsa/timeutil"
	"github.com/prometheus/client_golang/prometheus"
)

type ServerConfig struct {
	// A clock used for attribute and entry expiration. It is *not* used for
	// inode times, which are all the Unix epoch.
	CacheClock timeutil.Clock

	// Name of the single file in the root directory.
	FileName string

	// The UID and GID that own all inodes in the file system.
	Uid uint32
	Gid uint32

	// Permissions bits to use for files and directories. No bits outside of
	// os.ModePerm may be set.
	FilePerms os.FileMode
	DirPerms  os.FileMode

	// How long to allow the kernel to cache inode attributes and name lookups.
	InodeAttributeCacheTTL time.Duration

	// Ask the kernel to bypass the page cache for the file, so that every
	// short chunk reaches the reading process as is.
	DirectIO bool

	// Shape of the truncated transfer.
	FaultInjection faultreader.Config

	// Log every served operation at DEBUG severity.
	DebugFS bool

	// If set, per-operation metrics are registered here.
	MetricsRegisterer prometheus.Registerer
}

// NewFileSystem creates a file system serving the table and read engine
// described by cfg. Nothing is shared between file systems.
func NewFileSystem(ctx context.Context, cfg *ServerConfig) (fuseutil.FileSystem, error) {
	if cfg.CacheClock == nil {
		return nil, fmt.Errorf("no cache clock")
	}

	if cfg.FilePerms&^os.ModePerm != 0 || cfg.DirPerms&^os.ModePerm != 0 {
		return nil, fmt.Errorf("illegal permissions: file %v, dir %v", cfg.FilePerms, cfg.DirPerms)
	}

	reader, err := faultreader.NewReader(cfg.FaultInjection)
	if err != nil {
		return nil, err
	}

	table := inode.NewTable(inode.TableConfig{
		FileName:       cfg.FileName,
		AdvertisedSize: uint64(cfg.FaultInjection.AdvertisedSize),
		Uid:            cfg.Uid,
		Gid:            cfg.Gid,
		DirMode:        cfg.DirPerms,
		FileMode:       cfg.FilePerms,
	})

	fs := &fileSystem{
		cacheClock:             cfg.CacheClock,
		table:                  table,
		reader:                 reader,
		inodeAttributeCacheTTL: cfg.InodeAttributeCacheTTL,
		directIO:               cfg.DirectIO,
	}

	logger.Infof("Serving %q: advertised size %d, chunks of at most %d bytes, failing at progress %v",
		cfg.FileName, cfg.FaultInjection.AdvertisedSize, reader.MaxChunkSize(), cfg.FaultInjection.FailureThreshold)

	return fs, nil
}

////////////////////////////////////////////////////////////////////////
// fileSystem type
////////////////////////////////////////////////////////////////////////

// fileSystem holds no mutable state: the table and the reader are immutable
// and handles are not tracked, so operations run concurrently without locks.
type fileSystem struct {
	fuseutil.NotImplementedFileSystem

	/////////////////////////
	// Dependencies
	/////////////////////////

	cacheClock timeutil.Clock
	table      *inode.Table
	reader     *faultreader.Reader

	/////////////////////////
	// Constant data
	/////////////////////////

	inodeAttributeCacheTTL time.Duration
	directIO               bool
}

// expiration is the end of the lease granted with a lookup or getattr
// response.
func (fs *fileSystem) expiration() time.Time {
	return fs.cacheClock.Now().Add(fs.inodeAttributeCacheTTL)
}

////////////////////////////////////////////////////////////////////////
// fuse.FileSystem methods
////////////////////////////////////////////////////////////////////////

func (fs *fileSystem) StatFS(
	ctx context.Context,
	op *fuseops.StatFSOp) (err error) {
	size := uint64(fs.reader.Config().AdvertisedSize)

	op.BlockSize = inode.BlockSize
	op.Blocks = (size + inode.BlockSize - 1) / inode.BlockSize
	op.BlocksFree = 0
	op.BlocksAvailable = 0

	// The root and the file.
	op.Inodes = 2
	op.InodesFree = 0

	op.IoSize = uint32(fs.reader.MaxChunkSize())

	return
}

func (fs *fileSystem) LookUpInode(
	ctx context.Context,
	op *fuseops.LookUpInodeOp) (err error) {
	e, err := fs.table.Resolve(op.Parent, op.Name)
	if err != nil {
		return
	}

	expiration := fs.expiration()
	op.Entry.Child = e.ID
	op.Entry.Attributes = e.Attributes.InodeAttributes()
	op.Entry.AttributesExpiration = expiration
	op.Entry.EntryExpiration = expiration

	return
}

func (fs *fileSystem) GetInodeAttributes(
	ctx context.Context,
	op *fuseops.GetInodeAttributesOp) (err error) {
	attrs, err := fs.table.Attributes(op.Inode)
	if err != nil {
		return
	}

	op.Attributes = attrs.InodeAttributes()
	op.AttributesExpiration = fs.expiration()

	return
}

func (fs *fileSystem) ForgetInode(
	ctx context.Context,
	op *fuseops.ForgetInodeOp) (err error) {
	// Both inodes live for the lifetime of the file system.
	return
}

func (fs *fileSystem) BatchForget(
	ctx context.Context,
	op *fuseops.BatchForgetOp) (err error) {
	return
}

func (fs *fileSystem) OpenDir(
	ctx context.Context,
	op *fuseops.OpenDirOp) (err error) {
	e, err := fs.table.Entry(op.Inode)
	if err != nil {
		return
	}

	if e.Kind != inode.Directory {
		err = syscall.ENOTDIR
		return
	}

	return
}

func (fs *fileSystem) ReadDir(
	ctx context.Context,
	op *fuseops.ReadDirOp) (err error) {
	entries, err := handle.ListEntries(fs.table, op.Inode, op.Offset)
	if err != nil {
		return
	}

	op.BytesRead = handle.WriteEntries(op.Dst, entries)

	return
}

func (fs *fileSystem) ReleaseDirHandle(
	ctx context.Context,
	op *fuseops.ReleaseDirHandleOp) (err error) {
	return
}

func (fs *fileSystem) OpenFile(
	ctx context.Context,
	op *fuseops.OpenFileOp) (err error) {
	e, err := fs.table.Entry(op.Inode)
	if err != nil {
		return
	}

	if e.Kind != inode.RegularFile {
		err = syscall.EISDIR
		return
	}

	// The content never changes, so the kernel may keep what it has cached
	// from one open to the next.
	op.KeepPageCache = !fs.directIO
	op.UseDirectIO = fs.directIO

	return
}

func (fs *fileSystem) ReadFile(
	ctx context.Context,
	op *fuseops.ReadFileOp) (err error) {
	if op.Inode != inode.FileInodeID {
		err = &failfs_errors.NotFoundError{Inode: op.Inode}
		return
	}

	dst := op.Dst
	if int64(len(dst)) > op.Size {
		dst = dst[:op.Size]
	}

	op.BytesRead, err = fs.reader.ReadAt(dst, op.Offset)

	return
}

func (fs *fileSystem) FlushFile(
	ctx context.Context,
	op *fuseops.FlushFileOp) (err error) {
	// Nothing is ever written.
	return
}

func (fs *fileSystem) ReleaseFileHandle(
	ctx context.Context,
	op *fuseops.ReleaseFileHandleOp) (err error) {
	return
}
