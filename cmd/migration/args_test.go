package main

import "testing"

func TestParseSteps(t *testing.T) {
	tests := []struct {
		in      string
		want    int
		wantErr bool
	}{
		{in: "", want: 1},
		{in: " 3 ", want: 3},
		{in: "0", wantErr: true},
		{in: "two", wantErr: true},
	}

	for _, tt := range tests {
		got, err := parseSteps(tt.in)
		if tt.wantErr {
			if err == nil {
				t.Fatalf("parseSteps(%q): expected error", tt.in)
			}
			continue
		}
		if err != nil || got != tt.want {
			t.Fatalf("parseSteps(%q)=%d,%v want=%d", tt.in, got, err, tt.want)
		}
	}
}

func TestParseVersionAndTarget(t *testing.T) {
	if _, err := parseVersion(""); err == nil {
		t.Fatalf("expected error for missing version")
	}
	if _, err := parseVersion("-1"); err == nil {
		t.Fatalf("expected error for negative version")
	}
	if got, err := parseVersion("2"); err != nil || got != 2 {
		t.Fatalf("parseVersion(2)=%d,%v", got, err)
	}
	if _, err := parseTarget("-1"); err == nil {
		t.Fatalf("expected error for negative target")
	}
	if got, err := parseTarget("1"); err != nil || got != 1 {
		t.Fatalf("parseTarget(1)=%d,%v", got, err)
	}
}

func TestResolveMigrationsDir_Explicit(t *testing.T) {
	dir := t.TempDir()
	got, err := resolveMigrationsDir(dir)
	if err != nil {
		t.Fatalf("resolve dir: %v", err)
	}
	if got != dir {
		t.Fatalf("unexpected dir: %q", got)
	}
}
