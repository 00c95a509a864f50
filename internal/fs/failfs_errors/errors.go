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

package failfs_errors

import (
	"fmt"

	"github.com/jacobsa/fuse/fuseops"
)

// A *NotFoundError indicates that an inode id, or a name inside a directory,
// does not exist in the metadata table.
type NotFoundError struct {
	// Set for failed name lookups.
	Parent fuseops.InodeID
	Name   string

	// Set for operations addressed at an inode id.
	Inode fuseops.InodeID
}

func (nfe *NotFoundError) Error() string {
	if nfe.Name != "" {
		return fmt.Sprintf("failfs.NotFoundError: no entry %q in inode %d", nfe.Name, nfe.Parent)
	}
	return fmt.Sprintf("failfs.NotFoundError: no inode %d", nfe.Inode)
}

// A *FatalTransferError is the injected failure: the read that would bring
// progress to or past the failure threshold.
type FatalTransferError struct {
	Offset   int64
	Size     int64
	Progress float64
}

func (fte *FatalTransferError) Error() string {
	return fmt.Sprintf("failfs.FatalTransferError: read of %d bytes at offset %d reaches progress %.4f", fte.Size, fte.Offset, fte.Progress)
}
