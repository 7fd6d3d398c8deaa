package cli

import (
	"strings"
	"testing"

	"github.com/alecthomas/kong"
)

func TestResolve(t *testing.T) {
	tests := []struct {
		name      string
		config    string
		args      []string
		wantLevel string
		wantMax   int
		wantFiles []string
		wantFlag  bool
	}{
		{
			name:      "empty",
			config:    "",
			wantLevel: "warn",
			wantMax:   8,
		},
		{
			name:      "hyphenated",
			config:    "log-level: debug\nmax-string: 16\nflag: true\n",
			wantLevel: "debug",
			wantMax:   16,
			wantFlag:  true,
		},
		{
			name:      "underscored",
			config:    "log_level: error\nmax_string: 32\nfiles: [a, b]\n",
			wantLevel: "error",
			wantMax:   32,
			wantFiles: []string{"a", "b"},
		},
		{
			name:      "args_override",
			config:    "log-level: debug\n",
			args:      []string{"--log-level=info"},
			wantLevel: "info",
			wantMax:   8,
		},
		{
			name:      "invalid_ignored",
			config:    "log-level: [unclosed\n",
			wantLevel: "warn",
			wantMax:   8,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var cli struct {
				LogLevel  string   `default:"warn"`
				MaxString int      `default:"8"`
				Files     []string
				Flag      bool
			}

			loader := resolve(t.Context())

			resolver, err := loader(strings.NewReader(tt.config))
			if err != nil {
				t.Fatalf("loader error: %v", err)
			}

			parser, err := kong.New(&cli, kong.Resolvers(resolver))
			if err != nil {
				t.Fatal(err)
			}

			if _, err := parser.Parse(tt.args); err != nil {
				t.Fatalf("Parse error: %v", err)
			}

			if cli.LogLevel != tt.wantLevel || cli.MaxString != tt.wantMax || cli.Flag != tt.wantFlag {
				t.Errorf("got level=%q max=%d flag=%v, want level=%q max=%d flag=%v",
					cli.LogLevel, cli.MaxString, cli.Flag,
					tt.wantLevel, tt.wantMax, tt.wantFlag)
			}

			if strings.Join(cli.Files, ",") != strings.Join(tt.wantFiles, ",") {
				t.Errorf("files = %v, want %v", cli.Files, tt.wantFiles)
			}
		})
	}
}

func TestFlagText(t *testing.T) {
	tests := []struct {
		in   any
		want any
	}{
		{uint64(3), "3"},
		{int64(-3), "-3"},
		{1.5, "1.5"},
		{"s", "s"},
		{true, true},
	}

	for _, tt := range tests {
		if got := flagText(tt.in); got != tt.want {
			t.Errorf("flagText(%#v) = %#v, want %#v", tt.in, got, tt.want)
		}
	}
}
