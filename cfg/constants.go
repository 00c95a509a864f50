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

package cfg

const (
	// Log format constants.

	TextLogFormat string = "text"
	JSONLogFormat string = "json"
)

const (
	// DefaultMountPoint is used when no mount point argument is given.
	DefaultMountPoint = "/mnt/failfs"

	// FSName is the fixed name under which the file system shows up in the
	// mount table.
	FSName = "failfs"
)
