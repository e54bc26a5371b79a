package flagx

import (
	"os"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestFilterArgs(t *testing.T) {
	tests := []struct {
		name    string
		args    []string
		allowed []string
		want    []string
	}{
		{
			name:    "separate value",
			args:    []string{"-a", "http://localhost:8080", "-x", "other"},
			allowed: []string{"-a"},
			want:    []string{"-a", "http://localhost:8080"},
		},
		{
			name:    "combined value",
			args:    []string{"--config=conf.json", "-a", "addr"},
			allowed: []string{"--config"},
			want:    []string{"--config=conf.json"},
		},
		{
			name:    "nothing allowed",
			args:    []string{"-a", "addr"},
			allowed: []string{"-z"},
			want:    []string{},
		},
		{
			name:    "flag followed by another flag keeps no value",
			args:    []string{"-v", "-a", "addr"},
			allowed: []string{"-v"},
			want:    []string{"-v"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.want, FilterArgs(tt.args, tt.allowed))
		})
	}
}

func TestJsonConfigFlags(t *testing.T) {
	origArgs := os.Args
	defer func() { os.Args = origArgs }()

	os.Args = []string{"cli", "-c", "conf.json", "-a", "addr"}
	require.Equal(t, "conf.json", JsonConfigFlags())

	os.Args = []string{"cli", "--config=other.json"}
	require.Equal(t, "other.json", JsonConfigFlags())

	os.Args = []string{"cli", "-a", "addr"}
	require.Equal(t, "", JsonConfigFlags())
}
