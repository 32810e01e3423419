package policy

import (
	"reflect"
	"testing"
)

func TestSplitSegments(t *testing.T) {
	tests := []struct {
		name    string
		command string
		want    []string
	}{
		{
			name:    "single command",
			command: "ls -la",
			want:    []string{"ls -la"},
		},
		{
			name:    "pipe",
			command: "ps aux | grep nginx",
			want:    []string{"ps aux", "grep nginx"},
		},
		{
			name:    "logical and",
			command: "cd /tmp && make build",
			want:    []string{"cd /tmp", "make build"},
		},
		{
			name:    "logical or",
			command: "test -f a || touch a",
			want:    []string{"test -f a", "touch a"},
		},
		{
			name:    "semicolons",
			command: "echo one; echo two; echo three",
			want:    []string{"echo one", "echo two", "echo three"},
		},
		{
			name:    "separators inside quotes stay intact",
			command: `echo "a && b" | wc -c`,
			want:    []string{`echo "a && b"`, "wc -c"},
		},
		{
			name:    "single quotes",
			command: "grep 'a|b' file",
			want:    []string{"grep 'a|b' file"},
		},
		{
			name:    "subshell stays intact",
			command: "(cd /tmp && ls) | head",
			want:    []string{"(cd /tmp && ls)", "head"},
		},
		{
			name:    "background operator stays with command",
			command: "sleep 10 &",
			want:    []string{"sleep 10 &"},
		},
		{
			name:    "shell -c expands inner command",
			command: "bash -c 'pkill myapp'",
			want:    []string{"bash -c 'pkill myapp'", "pkill myapp"},
		},
		{
			name:    "shell -c with chained inner commands",
			command: `sh -c "echo hi && pkill myapp"`,
			want:    []string{`sh -c "echo hi && pkill myapp"`, "echo hi", "pkill myapp"},
		},
		{
			name:    "empty",
			command: "",
			want:    nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := splitSegments(tt.command)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("splitSegments(%q) = %v, want %v", tt.command, got, tt.want)
			}
		})
	}
}

func TestTokenize(t *testing.T) {
	tests := []struct {
		segment string
		want    []string
	}{
		{"pkill -f myapp", []string{"pkill", "-f", "myapp"}},
		{"pkill -f 'myapp worker'", []string{"pkill", "-f", "myapp worker"}},
		{`echo "two words"`, []string{"echo", "two words"}},
		{"  spaced   out  ", []string{"spaced", "out"}},
		{"", nil},
	}

	for _, tt := range tests {
		t.Run(tt.segment, func(t *testing.T) {
			got := tokenize(tt.segment)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("tokenize(%q) = %v, want %v", tt.segment, got, tt.want)
			}
		})
	}
}
