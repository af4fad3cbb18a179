// SPDX-License-Identifier: MPL-2.0

package launcher

import (
	"slices"
	"testing"
)

func TestMergeEnv(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		base  []string
		extra map[string]string
		want  []string
	}{
		{
			name:  "extra overrides inherited",
			base:  []string{"HOME=/home/dev", "NETWORK=mainnet"},
			extra: map[string]string{"NETWORK": "localhost"},
			want:  []string{"HOME=/home/dev", "NETWORK=localhost"},
		},
		{
			name:  "extra adds new keys",
			base:  []string{"A=1"},
			extra: map[string]string{"B": "2"},
			want:  []string{"A=1", "B=2"},
		},
		{
			name: "values may contain equals signs",
			base: []string{"OPTS=--a=b --c=d"},
			want: []string{"OPTS=--a=b --c=d"},
		},
		{
			name: "malformed and empty-key entries are dropped",
			base: []string{"NOEQUALS", "=C:=C:\\", "OK=1"},
			want: []string{"OK=1"},
		},
		{
			name: "later duplicate in base wins",
			base: []string{"DUP=first", "DUP=second"},
			want: []string{"DUP=second"},
		},
		{
			name:  "empty value overrides",
			base:  []string{"DEBUG=1"},
			extra: map[string]string{"DEBUG": ""},
			want:  []string{"DEBUG="},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if got := MergeEnv(tt.base, tt.extra); !slices.Equal(got, tt.want) {
				t.Errorf("MergeEnv() = %q, want %q", got, tt.want)
			}
		})
	}
}
