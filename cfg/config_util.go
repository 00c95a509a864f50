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

import (
	"fmt"
	"math"
	"time"

	"gopkg.in/yaml.v3"
)

// MaxSupportedTtlInSeconds represents maximum multiple of seconds representable by time.Duration.
const MaxSupportedTtlInSeconds = math.MaxInt64 / int64(time.Second)

// TTL converts metadata-cache:ttl-secs to a time.Duration. The config must
// have been validated.
func (c *MetadataCacheConfig) TTL() time.Duration {
	return time.Duration(c.TtlSecs) * time.Second
}

func IsMetricsEnabled(c *MetricsConfig) bool {
	return c.PrometheusPort > 0
}

// Stringify renders the config the same way it is written in a config file.
func Stringify(c *Config) (string, error) {
	out, err := yaml.Marshal(c)
	if err != nil {
		return "", fmt.Errorf("error while marshalling config: %w", err)
	}
	return string(out), nil
}
