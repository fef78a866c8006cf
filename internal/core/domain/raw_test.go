package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMIMETypeForPath(t *testing.T) {
	tests := []struct {
		name string
		want string
	}{
		{"cv.MD", "text/markdown"},
		{"notes.markdown", "text/markdown"},
		{"cv.txt", "text/plain"},
		{"cv.pdf", "application/pdf"},
		{"cv.docx", "application/vnd.openxmlformats-officedocument.wordprocessingml.document"},
		{"/tmp/cv.html", "text/html"},
		{"cv", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, MIMETypeForPath(tt.name))
		})
	}
}
