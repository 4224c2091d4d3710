package telegram

import (
	"reflect"
	"testing"
)

func TestParseCommand(t *testing.T) {
	tests := []struct {
		name string
		text string
		want *Command
	}{
		{
			name: "bang prefix with args",
			text: "!balas conv-1 halo dari support",
			want: &Command{Name: "balas", Args: []string{"conv-1", "halo", "dari", "support"}, RawArgs: "conv-1 halo dari support"},
		},
		{
			name: "slash prefix",
			text: "/list",
			want: &Command{Name: "list"},
		},
		{
			name: "bot mention stripped",
			text: "/help@balasin_bot",
			want: &Command{Name: "help"},
		},
		{
			name: "uppercase name lowered",
			text: "!BALAS conv-1 ok",
			want: &Command{Name: "balas", Args: []string{"conv-1", "ok"}, RawArgs: "conv-1 ok"},
		},
		{
			name: "surrounding whitespace",
			text: "  !tutup conv-1  ",
			want: &Command{Name: "tutup", Args: []string{"conv-1"}, RawArgs: "conv-1"},
		},
		{
			name: "plain text is not a command",
			text: "halo semuanya",
			want: nil,
		},
		{
			name: "bare prefix",
			text: "!",
			want: nil,
		},
		{
			name: "prefix followed by space",
			text: "! balas conv-1",
			want: nil,
		},
		{
			name: "empty string",
			text: "",
			want: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ParseCommand(tt.text)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("ParseCommand(%q) = %+v, want %+v", tt.text, got, tt.want)
			}
		})
	}
}

func TestSplitReplyArgs(t *testing.T) {
	tests := []struct {
		name        string
		rawArgs     string
		wantConv    string
		wantContent string
	}{
		{"id and content", "conv-1 halo dari support", "conv-1", "halo dari support"},
		{"id only", "conv-1", "conv-1", ""},
		{"empty", "", "", ""},
		{"content keeps inner spacing", "conv-1 a  b", "conv-1", "a  b"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			conv, content := SplitReplyArgs(tt.rawArgs)
			if conv != tt.wantConv || content != tt.wantContent {
				t.Errorf("SplitReplyArgs(%q) = (%q, %q), want (%q, %q)",
					tt.rawArgs, conv, content, tt.wantConv, tt.wantContent)
			}
		})
	}
}
