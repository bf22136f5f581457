package main

import (
	"bytes"
	"strings"
	"testing"
)

func TestVersionCommand(t *testing.T) {
	tests := []struct {
		args    []string
		want    string
		wantErr bool
	}{
		{args: nil, want: "chatwire " + Version},
		{args: []string{"-o", "short"}, want: Version},
		{args: []string{"--output", "json"}, want: `"version": "` + Version + `"`},
		{args: []string{"-o", "yaml"}, wantErr: true},
	}

	for _, tt := range tests {
		cmd := NewVersionCommand()
		var out bytes.Buffer
		cmd.SetOut(&out)
		cmd.SetErr(&out)
		cmd.SetArgs(tt.args)

		err := cmd.Execute()
		if tt.wantErr {
			if err == nil {
				t.Errorf("%v: expected error", tt.args)
			}
			continue
		}
		if err != nil {
			t.Fatalf("%v: %v", tt.args, err)
		}
		if !strings.Contains(out.String(), tt.want) {
			t.Errorf("%v: output %q does not contain %q", tt.args, out.String(), tt.want)
		}
	}
}
