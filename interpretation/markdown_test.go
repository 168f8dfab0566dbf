package interpretation_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"juspatria-backend/interpretation"
)

func TestRenderMarkdown(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{name: "empty", in: "", want: ""},
		{name: "bold", in: "**Art. 5º**", want: "<strong>Art. 5º</strong>"},
		{name: "italic", in: "*caput*", want: "<em>caput</em>"},
		{name: "bold before italic", in: "**a** e *b*", want: "<strong>a</strong> e <em>b</em>"},
		{name: "blockquote", in: "> citação", want: "<blockquote>citação</blockquote>"},
		{name: "line breaks", in: "um\ndois", want: "um<br />dois"},
		{
			name: "mixed",
			in:   "> **Súmula 331**\ntexto *livre*",
			want: "<blockquote><strong>Súmula 331</strong></blockquote><br />texto <em>livre</em>",
		},
		{name: "bold does not span lines", in: "**a\nb**", want: "<em></em>a<br />b<em></em>"},
		{name: "escapes html", in: "<script>x</script>", want: "&lt;script&gt;x&lt;/script&gt;"},
		{name: "lists stay plain", in: "- item", want: "- item"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, interpretation.RenderMarkdown(tt.in))
		})
	}
}
