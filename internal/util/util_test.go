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
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
)

const parentProcessDir = "/var/generic/failfs"

////////////////////////////////////////////////////////////////////////
// Boilerplate
////////////////////////////////////////////////////////////////////////

type UtilTest struct {
	suite.Suite
}

func TestUtilSuite(t *testing.T) {
	suite.Run(t, new(UtilTest))
}

////////////////////////////////////////////////////////////////////////
// Tests
////////////////////////////////////////////////////////////////////////

func (ts *UtilTest) TestResolveWhenParentProcDirEnvNotSetAndFilePathStartsWithTilda() {
	resolvedPath, err := GetResolvedPath("~/test.txt")

	require.NoError(ts.T(), err)
	homeDir, err := os.UserHomeDir()
	require.NoError(ts.T(), err)
	assert.Equal(ts.T(), filepath.Join(homeDir, "test.txt"), resolvedPath)
}

func (ts *UtilTest) TestResolveWhenParentProcDirEnvNotSetAndRelativePath() {
	resolvedPath, err := GetResolvedPath("./mnt/failfs")

	require.NoError(ts.T(), err)
	currentWorkingDir, err := os.Getwd()
	require.NoError(ts.T(), err)
	assert.Equal(ts.T(), filepath.Join(currentWorkingDir, "mnt/failfs"), resolvedPath)
}

func (ts *UtilTest) TestResolveAbsoluteFilePath() {
	resolvedPath, err := GetResolvedPath("/var/dir/test.txt")

	require.NoError(ts.T(), err)
	assert.Equal(ts.T(), "/var/dir/test.txt", resolvedPath)
}

func (ts *UtilTest) TestResolveEmptyFilePath() {
	resolvedPath, err := GetResolvedPath("")

	require.NoError(ts.T(), err)
	assert.Equal(ts.T(), "", resolvedPath)
}

func (ts *UtilTest) TestResolveWhenParentProcDirEnvSetAndFilePathStartsWithDoubleDot() {
	ts.T().Setenv(FAILFS_PARENT_PROCESS_DIR, parentProcessDir)

	resolvedPath, err := GetResolvedPath("../test.txt")

	require.NoError(ts.T(), err)
	assert.Equal(ts.T(), "/var/generic/test.txt", resolvedPath)
}

func (ts *UtilTest) TestResolveWhenParentProcDirEnvSetAndRelativePath() {
	ts.T().Setenv(FAILFS_PARENT_PROCESS_DIR, parentProcessDir)

	resolvedPath, err := GetResolvedPath("test.txt")

	require.NoError(ts.T(), err)
	assert.Equal(ts.T(), filepath.Join(parentProcessDir, "test.txt"), resolvedPath)
}
