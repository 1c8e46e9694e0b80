package flagx

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFilterArgs(t *testing.T) {
	tests := []struct {
		name    string
		args    []string
		allowed []string
		want    []string
	}{
		{
			name:    "separate value is kept",
			args:    []string{"-a", ":8080", "-x", "junk"},
			allowed: []string{"-a"},
			want:    []string{"-a", ":8080"},
		},
		{
			name:    "combined form is kept",
			args:    []string{"--config=conf.json", "-other=1"},
			allowed: []string{"--config"},
			want:    []string{"--config=conf.json"},
		},
		{
			name:    "unknown flags filtered out",
			args:    []string{"-z", "1", "-q"},
			allowed: []string{"-a"},
			want:    []string{},
		},
		{
			name:    "flag followed by another flag keeps only the flag",
			args:    []string{"-a", "-b", "val"},
			allowed: []string{"-a", "-b"},
			want:    []string{"-a", "-b", "val"},
		},
		{
			name:    "empty args",
			args:    nil,
			allowed: []string{"-a"},
			want:    []string{},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := FilterArgs(tc.args, tc.allowed)
			assert.Equal(t, tc.want, got)
		})
	}
}
