package policy

import (
	"testing"

	"github.com/prodguard/prodguard/internal/config"
)

func TestCheckFileOp(t *testing.T) {
	e := New(&config.Config{Directories: []string{"/var/www", "/etc/nginx"}})

	tests := []struct {
		command     string
		shouldBlock bool
	}{
		{"rm -rf /var/www/html", true},
		{"rm -r /var/www", true},
		{"mv -f /etc/nginx/nginx.conf /tmp/", true},
		{"cp -r ./site /var/www/html", true},
		{"chmod -R 755 /var/www", true},
		{"chown -R www-data /var/www/html", true},
		{"echo backup && rm -rf /var/www/old", true},

		// No flag argument: the heuristic requires one
		{"rm /var/www/html/index.html", false},
		{"mv /etc/nginx/a /etc/nginx/b", false},

		// Outside production directories
		{"rm -rf /tmp/build", false},
		{"chmod -R 755 /home/user/site", false},
		{"cp -r ./a ./b", false},

		// Different commands entirely
		{"ls -la /var/www", false},
		{"tar -czf backup.tgz /var/www", false},
	}

	for _, tt := range tests {
		t.Run(tt.command, func(t *testing.T) {
			v := e.checkFileOp(tt.command)
			if v.Blocked() != tt.shouldBlock {
				t.Errorf("checkFileOp(%q) blocked=%v, want %v (reason %q)", tt.command, v.Blocked(), tt.shouldBlock, v.Reason)
			}
		})
	}
}
