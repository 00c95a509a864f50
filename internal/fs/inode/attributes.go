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

package inode

import (
	"os"
	"time"

	"github.com/jacobsa/fuse/fuseops"
	"github.com/jacobsa/fuse/fuseutil"
)

// Kind is the type of a metadata entry.
type Kind int

const (
	Directory Kind = iota
	RegularFile
)

func (k Kind) String() string {
	switch k {
	case Directory:
		return "Directory"
	case RegularFile:
		return "RegularFile"
	}
	return "Unknown"
}

// DirentType returns the type reported for k in directory listings.
func (k Kind) DirentType() fuseutil.DirentType {
	if k == Directory {
		return fuseutil.DT_Directory
	}
	return fuseutil.DT_File
}

// BlockSize is the preferred I/O block size of every entry.
const BlockSize = 512

// Epoch is the value of every timestamp served by the file system.
var Epoch = time.Unix(0, 0)

// Attributes is the metadata record attached to an entry.
type Attributes struct {
	Size      uint64
	Perm      os.FileMode
	Uid       uint32
	Gid       uint32
	Nlink     uint32
	BlockSize uint32
	Blocks    uint64
	Atime     time.Time
	Mtime     time.Time
	Ctime     time.Time
	Crtime    time.Time
	Kind      Kind
}

// InodeAttributes converts the record into the form expected by the kernel.
// BlockSize has no counterpart there; it is reported through StatFS.
func (a Attributes) InodeAttributes() fuseops.InodeAttributes {
	mode := a.Perm & os.ModePerm
	if a.Kind == Directory {
		mode |= os.ModeDir
	}

	return fuseops.InodeAttributes{
		Size:   a.Size,
		Nlink:  a.Nlink,
		Mode:   mode,
		Atime:  a.Atime,
		Mtime:  a.Mtime,
		Ctime:  a.Ctime,
		Crtime: a.Crtime,
		Uid:    a.Uid,
		Gid:    a.Gid,
	}
}
