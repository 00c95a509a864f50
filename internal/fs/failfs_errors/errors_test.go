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
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNotFoundErrorMessage(t *testing.T) {
	testCases := []struct {
		name     string
		err      *NotFoundError
		expected string
	}{
		{
			name:     "name_lookup",
			err:      &NotFoundError{Parent: 1, Name: "other.txt"},
			expected: `failfs.NotFoundError: no entry "other.txt" in inode 1`,
		},
		{
			name:     "inode_id",
			err:      &NotFoundError{Inode: 7},
			expected: "failfs.NotFoundError: no inode 7",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, tc.err.Error())
		})
	}
}

func TestFatalTransferErrorMessage(t *testing.T) {
	err := &FatalTransferError{Offset: 786432, Size: 262144, Progress: 1}

	assert.Equal(t, "failfs.FatalTransferError: read of 262144 bytes at offset 786432 reaches progress 1.0000", err.Error())
}

func TestErrorsSurviveWrapping(t *testing.T) {
	wrapped := fmt.Errorf("ReadFile: %w", &FatalTransferError{Offset: 10})

	var fte *FatalTransferError
	assert.True(t, errors.As(wrapped, &fte))
	assert.Equal(t, int64(10), fte.Offset)
	var nfe *NotFoundError
	assert.False(t, errors.As(wrapped, &nfe))
}
