package security

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestArticleSanitizer(t *testing.T) {
	s := NewArticleSanitizer()

	tests := []struct {
		name        string
		in          string
		contains    []string
		notContains []string
	}{
		{
			name:     "keeps paragraphs",
			in:       "<p>Arsenal <strong>won</strong> 2-1.</p>",
			contains: []string{"<p>", "<strong>won</strong>"},
		},
		{
			name:        "drops script",
			in:          `<p>hi</p><script>alert(1)</script>`,
			contains:    []string{"<p>hi</p>"},
			notContains: []string{"<script", "alert"},
		},
		{
			name:        "drops iframes and styles",
			in:          `<iframe src="https://evil.example"></iframe><style>p{}</style><p>ok</p>`,
			contains:    []string{"<p>ok</p>"},
			notContains: []string{"iframe", "<style"},
		},
		{
			name:        "drops event handlers",
			in:          `<p onclick="steal()">tap</p>`,
			contains:    []string{"<p>tap</p>"},
			notContains: []string{"onclick"},
		},
		{
			name:        "drops javascript links",
			in:          `<a href="javascript:alert(1)">x</a>`,
			notContains: []string{"javascript"},
		},
		{
			name:     "links open in new tab",
			in:       `<a href="https://www.theguardian.com/football">more</a>`,
			contains: []string{`href="https://www.theguardian.com/football"`, `target="_blank"`, "noreferrer"},
		},
		{
			name:     "keeps figures",
			in:       `<figure><img src="https://i.guim.co.uk/a.jpg" alt="goal"><figcaption>Goal</figcaption></figure>`,
			contains: []string{"<figure>", `src="https://i.guim.co.uk/a.jpg"`, "<figcaption>Goal</figcaption>"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out := s.Sanitize(tt.in)
			for _, want := range tt.contains {
				assert.Contains(t, out, want)
			}
			for _, unwanted := range tt.notContains {
				assert.NotContains(t, out, unwanted)
			}
		})
	}
}

func TestArticleSanitizer_Empty(t *testing.T) {
	assert.Equal(t, "", NewArticleSanitizer().Sanitize(""))
}

func TestArticleSanitizer_Idempotent(t *testing.T) {
	s := NewArticleSanitizer()
	once := s.Sanitize(`<p>One <em>two</em></p><script>x</script>`)
	assert.Equal(t, "<p>One <em>two</em></p>", once)
	assert.Equal(t, once, s.Sanitize(once))
}
