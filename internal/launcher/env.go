// SPDX-License-Identifier: MPL-2.0

package launcher

import (
	"maps"
	"slices"
	"strings"
)

// MergeEnv overlays extra on base (a KEY=VALUE list such as os.Environ) and
// returns the result as a sorted KEY=VALUE list. On key collisions the value
// from extra wins; within base the last entry for a key wins.
func MergeEnv(base []string, extra map[string]string) []string {
	env := make(map[string]string, len(base)+len(extra))
	for _, kv := range base {
		key, value, ok := strings.Cut(kv, "=")
		if !ok || key == "" {
			continue
		}
		env[key] = value
	}
	maps.Copy(env, extra)

	merged := make([]string, 0, len(env))
	for _, key := range slices.Sorted(maps.Keys(env)) {
		merged = append(merged, key+"="+env[key])
	}
	return merged
}
