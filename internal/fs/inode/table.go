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

	"github.com/googlecloudplatform/failfs/internal/fs/failfs_errors"
	"github.com/jacobsa/fuse/fuseops"
)

const (
	RootInodeID = fuseops.RootInodeID
	FileInodeID = fuseops.InodeID(2)

	// RootName is the name recorded for the root entry.
	RootName = "."
)

// Entry is one node of the file system tree.
type Entry struct {
	ID         fuseops.InodeID
	Kind       Kind
	Name       string
	Attributes Attributes
}

type TableConfig struct {
	// Name of the file in the root directory. Must be a valid single path
	// component.
	FileName string

	// Size reported for the file, regardless of how many bytes reads deliver.
	AdvertisedSize uint64

	Uid      uint32
	Gid      uint32
	DirMode  os.FileMode
	FileMode os.FileMode
}

// Table holds the two entries of the file system. It is built once and never
// modified, so it is safe for concurrent use without locking.
type Table struct {
	root Entry
	file Entry
}

func NewTable(c TableConfig) *Table {
	common := Attributes{
		Uid:       c.Uid,
		Gid:       c.Gid,
		BlockSize: BlockSize,
		Atime:     Epoch,
		Mtime:     Epoch,
		Ctime:     Epoch,
		Crtime:    Epoch,
	}

	rootAttrs := common
	rootAttrs.Kind = Directory
	rootAttrs.Perm = c.DirMode
	rootAttrs.Nlink = 2

	fileAttrs := common
	fileAttrs.Kind = RegularFile
	fileAttrs.Perm = c.FileMode
	fileAttrs.Nlink = 1
	fileAttrs.Size = c.AdvertisedSize
	fileAttrs.Blocks = 1

	return &Table{
		root: Entry{ID: RootInodeID, Kind: Directory, Name: RootName, Attributes: rootAttrs},
		file: Entry{ID: FileInodeID, Kind: RegularFile, Name: c.FileName, Attributes: fileAttrs},
	}
}

func (t *Table) Root() Entry {
	return t.root
}

func (t *Table) File() Entry {
	return t.file
}

// Entry returns the entry with the given id.
func (t *Table) Entry(id fuseops.InodeID) (Entry, error) {
	switch id {
	case RootInodeID:
		return t.root, nil
	case FileInodeID:
		return t.file, nil
	}
	return Entry{}, &failfs_errors.NotFoundError{Inode: id}
}

// Attributes returns the attributes of the entry with the given id. Repeated
// calls return identical values.
func (t *Table) Attributes(id fuseops.InodeID) (Attributes, error) {
	e, err := t.Entry(id)
	if err != nil {
		return Attributes{}, err
	}
	return e.Attributes, nil
}

// Resolve looks up name inside parent. Only the file, looked up by its exact
// name inside the root, can be resolved; "." and ".." are answered by the
// kernel and are not resolvable here.
func (t *Table) Resolve(parent fuseops.InodeID, name string) (Entry, error) {
	if parent == RootInodeID && name == t.file.Name {
		return t.file, nil
	}
	return Entry{}, &failfs_errors.NotFoundError{Parent: parent, Name: name}
}
