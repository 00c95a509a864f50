// Copyright 2023 Google LLC
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

package util

import (
	"fmt"
	"os"
	"path"
	"path/filepath"
	"strings"
)

// FAILFS_PARENT_PROCESS_DIR carries the working directory of the process
// that started the daemon, so that relative paths given on its command line
// keep their meaning.
const FAILFS_PARENT_PROCESS_DIR = "failfs-parent-process-dir"

// 1. Returns the same filepath in case of absolute path or empty filename.
// 2. For child process, it resolves relative path like, ./test.txt, test.txt
// ../test.txt etc, with respect to FAILFS_PARENT_PROCESS_DIR
// because we execute the child process from different directory and input
// files are provided with respect to FAILFS_PARENT_PROCESS_DIR.
// 3. For relative path starting with ~, it resolves with respect to home dir.
func GetResolvedPath(filePath string) (resolvedPath string, err error) {
	if filePath == "" || path.IsAbs(filePath) {
		resolvedPath = filePath
		return
	}

	// Relative path starting with tilda (~)
	if strings.HasPrefix(filePath, "~/") {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("fetch home dir: %w", err)
		}
		return filepath.Join(homeDir, filePath[2:]), err
	}

	// We reach here, when relative path starts with . or .. or other than (/ or ~)
	parentProcessDir, _ := os.LookupEnv(FAILFS_PARENT_PROCESS_DIR)
	parentProcessDir = strings.TrimSpace(parentProcessDir)
	if parentProcessDir == "" {
		return filepath.Abs(filePath)
	}
	return filepath.Join(parentProcessDir, filePath), nil
}
