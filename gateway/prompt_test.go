package gateway

import (
	"testing"

	"chatwire/model"
	"chatwire/provider/testutil"

	"github.com/google/go-cmp/cmp"
)

func TestBuildPrompt(t *testing.T) {
	system := model.Turn{Role: model.RoleSystem, Text: "be nice"}

	tests := []struct {
		name    string
		system  string
		history []model.Turn
		message string
		window  int
		want    []model.Turn
	}{
		{
			name:    "no history",
			system:  "be nice",
			message: "  hello  ",
			window:  10,
			want:    []model.Turn{system, {Role: model.RoleUser, Text: "hello"}},
		},
		{
			name:    "empty system prompt omitted",
			message: "hello",
			window:  10,
			want:    []model.Turn{{Role: model.RoleUser, Text: "hello"}},
		},
		{
			name:    "history under window kept verbatim",
			system:  "be nice",
			history: []model.Turn{{Role: model.RoleUser, Text: " spaced "}, {Role: model.RoleAssistant, Text: "reply"}},
			message: "next",
			window:  10,
			want: []model.Turn{
				system,
				{Role: model.RoleUser, Text: " spaced "},
				{Role: model.RoleAssistant, Text: "reply"},
				{Role: model.RoleUser, Text: "next"},
			},
		},
		{
			name:    "history truncated to the most recent turns",
			system:  "be nice",
			history: testutil.AlternatingHistory(15),
			message: "next",
			window:  10,
			want: append(append([]model.Turn{system}, testutil.AlternatingHistory(15)[5:]...),
				model.Turn{Role: model.RoleUser, Text: "next"}),
		},
		{
			name:    "zero window drops history",
			history: testutil.AlternatingHistory(3),
			message: "next",
			window:  0,
			want:    []model.Turn{{Role: model.RoleUser, Text: "next"}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := BuildPrompt(tt.system, tt.history, tt.message, tt.window)
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("BuildPrompt mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestBuildPromptDoesNotAliasHistory(t *testing.T) {
	history := testutil.AlternatingHistory(4)
	prompt := BuildPrompt("sys", history, "next", 10)

	prompt[1].Text = "changed"
	if history[0].Text != "turn 0" {
		t.Errorf("history mutated through prompt: %q", history[0].Text)
	}
}
