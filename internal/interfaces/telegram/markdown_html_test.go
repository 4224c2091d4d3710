package telegram

import (
	"strings"
	"testing"
)

func TestMarkdownToTelegramHTML(t *testing.T) {
	tests := []struct {
		name     string
		markdown string
		want     string
	}{
		{"empty", "", ""},
		{"plain text", "halo dunia", "halo dunia"},
		{"bold", "ini **penting** sekali", "ini <b>penting</b> sekali"},
		{"italic", "kata *miring* saja", "kata <i>miring</i> saja"},
		{"inline code", "jalankan `npm start` dulu", "jalankan <code>npm start</code> dulu"},
		{"heading becomes bold", "# Judul", "<b>Judul</b>"},
		{"html escaped", "nilai a<b harus di-escape", "nilai a&lt;b harus di-escape"},
		{"link", "[dokumen](https://example.com)", `<a href="https://example.com">dokumen</a>`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := MarkdownToTelegramHTML(tt.markdown)
			if got != tt.want {
				t.Errorf("MarkdownToTelegramHTML(%q) = %q, want %q", tt.markdown, got, tt.want)
			}
		})
	}

	t.Run("fenced code block", func(t *testing.T) {
		got := MarkdownToTelegramHTML("```\nselect 1;\n```")
		if !strings.Contains(got, "<pre>select 1;\n</pre>") {
			t.Errorf("expected <pre> block, got %q", got)
		}
	})

	t.Run("list items bulleted", func(t *testing.T) {
		got := MarkdownToTelegramHTML("- satu\n- dua")
		if !strings.Contains(got, "• satu") || !strings.Contains(got, "• dua") {
			t.Errorf("expected bulleted items, got %q", got)
		}
	})

	t.Run("code content escaped", func(t *testing.T) {
		got := MarkdownToTelegramHTML("`a<b>`")
		if !strings.Contains(got, "<code>a&lt;b&gt;</code>") {
			t.Errorf("expected escaped code span, got %q", got)
		}
	})
}
