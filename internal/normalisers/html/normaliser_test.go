package html

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/tailor/internal/core/domain"
	"github.com/custodia-labs/tailor/internal/core/ports/driven"
)

func TestInterfaceCompliance(t *testing.T) {
	var _ driven.Normaliser = (*Normaliser)(nil)
}

func TestSupportedMIMETypes(t *testing.T) {
	mimeTypes := New().SupportedMIMETypes()
	assert.Equal(t, []string{"text/html", "application/xhtml+xml"}, mimeTypes)
}

func TestPriority(t *testing.T) {
	assert.Equal(t, 50, New().Priority())
}

func TestNormalise_Resume(t *testing.T) {
	page := `<html><head><title>Jane Doe &amp; CV</title><style>p{}</style></head>
<body>
<h1>Jane Doe</h1>
<h2>Work <em>Experience</em></h2>
<ul><li>Built Go services</li><li>Cut costs by 30%</li></ul>
<p>Contact:&nbsp;jane@example.com<br/>London</p>
<script>alert(1)</script>
<!-- hidden -->
</body></html>`
	raw := &domain.RawDocument{URI: "cv.html", MIMEType: "text/html", Content: []byte(page)}

	result, err := New().Normalise(context.Background(), raw)
	require.NoError(t, err)

	doc := result.Document
	assert.Equal(t, "Jane Doe & CV", doc.Title)
	assert.Equal(t, "html", doc.Metadata["format"])
	assert.Equal(t,
		"JANE DOE\nWORK EXPERIENCE\nBuilt Go services\nCut costs by 30%\nContact: jane@example.com\nLondon",
		doc.Content)
}

func TestNormalise_TitleFallsBackToFilename(t *testing.T) {
	raw := &domain.RawDocument{URI: "/tmp/my-resume.html", MIMEType: "text/html", Content: []byte("<p>Hi</p>")}

	result, err := New().Normalise(context.Background(), raw)
	require.NoError(t, err)
	assert.Equal(t, "my resume", result.Document.Title)
	assert.Equal(t, "Hi", result.Document.Content)
}

func TestNormalise_NilDocument(t *testing.T) {
	result, err := New().Normalise(context.Background(), nil)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	assert.Nil(t, result)
}

func TestStripHTML(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{name: "empty", input: "", expected: ""},
		{name: "entities", input: "<p>R&amp;D &lt;team&gt;</p>", expected: "R&D <team>"},
		{name: "collapses spaces", input: "<p>a   \t b</p>", expected: "a b"},
		{name: "preserves paragraph order", input: "<p>one</p><div>two</div>", expected: "one\ntwo"},
		{name: "does not treat pre as p", input: "<pre>x</pre><param>y", expected: "x\ny"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, stripHTML(tt.input))
		})
	}
}
