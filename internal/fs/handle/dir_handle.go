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

package handle

import (
	"github.com/googlecloudplatform/failfs/internal/fs/failfs_errors"
	"github.com/googlecloudplatform/failfs/internal/fs/inode"
	"github.com/jacobsa/fuse/fuseops"
	"github.com/jacobsa/fuse/fuseutil"
)

// ListEntries returns the listing of dir starting at offset. The full listing
// of the root is ".", ".." and the file, in that order.
//
// INVARIANT: entries[i].Offset == offset + i + 1, i.e. each entry carries the
// offset at which a subsequent call resumes.
//
// An offset at or past the end yields an empty listing. Listing anything other
// than the root fails with a *NotFoundError.
func ListEntries(table *inode.Table, dir fuseops.InodeID, offset fuseops.DirOffset) (entries []fuseutil.Dirent, err error) {
	if dir != inode.RootInodeID {
		err = &failfs_errors.NotFoundError{Inode: dir}
		return
	}

	root := table.Root()
	file := table.File()
	all := []fuseutil.Dirent{
		{Inode: root.ID, Name: ".", Type: root.Kind.DirentType()},
		{Inode: root.ID, Name: "..", Type: root.Kind.DirentType()},
		{Inode: file.ID, Name: file.Name, Type: file.Kind.DirentType()},
	}

	if offset >= fuseops.DirOffset(len(all)) {
		return
	}

	for i := int(offset); i < len(all); i++ {
		e := all[i]
		e.Offset = fuseops.DirOffset(i) + 1
		entries = append(entries, e)
	}

	return
}

// WriteEntries copies entries into dst until either runs out, and returns the
// number of bytes written. A full buffer results in a short, possibly empty,
// listing; the kernel resumes from the offset of the last entry written.
func WriteEntries(dst []byte, entries []fuseutil.Dirent) (bytesRead int) {
	for _, e := range entries {
		n := fuseutil.WriteDirent(dst[bytesRead:], e)
		if n == 0 {
			break
		}

		bytesRead += n
	}

	return
}
