package policy

import (
	"strings"
	"testing"

	"github.com/prodguard/prodguard/internal/config"
)

func TestEvaluate_Dispatch(t *testing.T) {
	e := New(&config.Config{
		Directories: []string{"/srv/www"},
		Containers:  []string{"app-db"},
	})

	tests := []struct {
		name        string
		call        ToolCall
		shouldBlock bool
	}{
		{
			name:        "write to production directory",
			call:        ToolCall{Name: ToolWrite, Input: ToolInput{FilePath: "/srv/www/index.html"}},
			shouldBlock: true,
		},
		{
			name:        "edit in production directory",
			call:        ToolCall{Name: ToolEdit, Input: ToolInput{FilePath: "/srv/www/app.py"}},
			shouldBlock: true,
		},
		{
			name:        "write outside production",
			call:        ToolCall{Name: ToolWrite, Input: ToolInput{FilePath: "/tmp/scratch.txt"}},
			shouldBlock: false,
		},
		{
			name:        "bash mutating production container",
			call:        ToolCall{Name: ToolBash, Input: ToolInput{Command: "docker stop app-db"}},
			shouldBlock: true,
		},
		{
			name:        "unknown tool is allowed",
			call:        ToolCall{Name: "Read", Input: ToolInput{FilePath: "/srv/www/index.html"}},
			shouldBlock: false,
		},
		{
			name:        "write with no file path is allowed",
			call:        ToolCall{Name: ToolWrite},
			shouldBlock: false,
		},
		{
			name:        "bash with no command is allowed",
			call:        ToolCall{Name: ToolBash},
			shouldBlock: false,
		},
		{
			name:        "empty tool call is allowed",
			call:        ToolCall{},
			shouldBlock: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := e.Evaluate(tt.call)
			if v.Blocked() != tt.shouldBlock {
				t.Errorf("Evaluate(%+v) blocked=%v, want %v (reason %q)", tt.call, v.Blocked(), tt.shouldBlock, v.Reason)
			}
			if tt.shouldBlock && v.Reason == "" {
				t.Error("blocked verdict has no reason")
			}
		})
	}
}

func TestEvaluate_Idempotent(t *testing.T) {
	e := New(&config.Config{Containers: []string{"app-db"}})
	call := ToolCall{Name: ToolBash, Input: ToolInput{Command: "docker rm app-db"}}

	first := e.Evaluate(call)
	for i := 0; i < 5; i++ {
		if got := e.Evaluate(call); got != first {
			t.Fatalf("evaluation %d returned %+v, first returned %+v", i, got, first)
		}
	}
}

func TestEvaluate_FirstMatchWins(t *testing.T) {
	e := New(&config.Config{Containers: []string{"app-db"}})

	// The command trips both the service guard and the container
	// matcher; the service guard runs first and its reason surfaces.
	v := e.Evaluate(ToolCall{
		Name:  ToolBash,
		Input: ToolInput{Command: "systemctl restart postgresql && docker stop app-db"},
	})
	if !v.Blocked() {
		t.Fatal("expected block")
	}
	if want := "systemctl restart affects system-wide services"; v.Reason != want {
		t.Errorf("reason %q, want the service guard's %q", v.Reason, want)
	}
}

func TestEvaluate_NilConfig(t *testing.T) {
	e := New(nil)

	if v := e.Evaluate(ToolCall{Name: ToolBash, Input: ToolInput{Command: "rm -rf /srv"}}); v.Blocked() {
		t.Errorf("nil config should protect nothing, got block: %s", v.Reason)
	}
	// Service guard still applies with no configuration at all.
	if v := e.Evaluate(ToolCall{Name: ToolBash, Input: ToolInput{Command: "systemctl stop nginx"}}); !v.Blocked() {
		t.Error("systemctl stop should block even with nil config")
	}
}

func TestEvaluate_EndToEndScenarios(t *testing.T) {
	tests := []struct {
		name        string
		cfg         *config.Config
		call        ToolCall
		shouldBlock bool
	}{
		{
			name:        "write under production directory",
			cfg:         &config.Config{Directories: []string{"/home/user/prod"}},
			call:        ToolCall{Name: ToolWrite, Input: ToolInput{FilePath: "/home/user/prod/app.conf"}},
			shouldBlock: true,
		},
		{
			name: "write under safe subdirectory",
			cfg: &config.Config{
				Directories:     []string{"/home/user/prod"},
				SafeDirectories: []string{"/home/user/prod/scratch"},
			},
			call:        ToolCall{Name: ToolWrite, Input: ToolInput{FilePath: "/home/user/prod/scratch/notes.txt"}},
			shouldBlock: false,
		},
		{
			name:        "docker rm production container",
			cfg:         &config.Config{Containers: []string{"my-db"}},
			call:        ToolCall{Name: ToolBash, Input: ToolInput{Command: "docker rm my-db"}},
			shouldBlock: true,
		},
		{
			name:        "docker rm dev variant",
			cfg:         &config.Config{Containers: []string{"my-db"}},
			call:        ToolCall{Name: ToolBash, Input: ToolInput{Command: "docker rm my-db-dev"}},
			shouldBlock: false,
		},
		{
			name:        "bind production port",
			cfg:         &config.Config{Ports: []int{5432}},
			call:        ToolCall{Name: ToolBash, Input: ToolInput{Command: "PORT=5432 node server.js"}},
			shouldBlock: true,
		},
		{
			name:        "bind development port",
			cfg:         &config.Config{Ports: []int{5432}},
			call:        ToolCall{Name: ToolBash, Input: ToolInput{Command: "PORT=5433 node server.js"}},
			shouldBlock: false,
		},
		{
			name:        "pkill matching keyword substring",
			cfg:         &config.Config{ProcessKeywords: []string{"myapp"}},
			call:        ToolCall{Name: ToolBash, Input: ToolInput{Command: "pkill -f myapp-worker"}},
			shouldBlock: true,
		},
		{
			name:        "pkill unrelated pattern",
			cfg:         &config.Config{ProcessKeywords: []string{"myapp"}},
			call:        ToolCall{Name: ToolBash, Input: ToolInput{Command: "pkill -f unrelated-script"}},
			shouldBlock: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := New(tt.cfg).Evaluate(tt.call)
			if v.Blocked() != tt.shouldBlock {
				t.Errorf("blocked=%v, want %v (reason %q)", v.Blocked(), tt.shouldBlock, v.Reason)
			}
		})
	}
}

func TestEvaluate_BlockReasonNamesPath(t *testing.T) {
	e := New(&config.Config{Directories: []string{"/home/user/prod"}})

	v := e.Evaluate(ToolCall{Name: ToolWrite, Input: ToolInput{FilePath: "/home/user/prod/app.conf"}})
	if !v.Blocked() {
		t.Fatal("expected block")
	}
	if want := "/home/user/prod/app.conf"; !strings.Contains(v.Reason, want) {
		t.Errorf("reason %q does not mention %q", v.Reason, want)
	}
}
