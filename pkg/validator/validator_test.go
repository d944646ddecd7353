package validator

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEmail(t *testing.T) {
	assert.NoError(t, Email("alice@example.com"))
	assert.Error(t, Email(""))
	assert.Error(t, Email("not-an-email"))
	assert.Error(t, Email("a@b"))
	assert.Error(t, Email(strings.Repeat("a", 250)+"@example.com"))
}

func TestPassword(t *testing.T) {
	assert.NoError(t, Password("longenough"))
	assert.Error(t, Password("short"))
	assert.Error(t, Password(strings.Repeat("x", 129)))
}

func TestFormName(t *testing.T) {
	assert.NoError(t, FormName("Contact Form"))
	assert.Error(t, FormName(""))
	assert.Error(t, FormName(strings.Repeat("n", 256)))
}

func TestFileName(t *testing.T) {
	assert.NoError(t, FileName("report.pdf"))
	assert.Error(t, FileName(""))
	assert.Error(t, FileName("../etc/passwd"))
	assert.Error(t, FileName("dir/file.txt"))
	assert.Error(t, FileName("dir\\file.txt"))
	assert.Error(t, FileName("bad\x00name"))
	assert.Error(t, FileName(strings.Repeat("f", 256)))
}

func TestFileSize(t *testing.T) {
	assert.NoError(t, FileSize(0))
	assert.NoError(t, FileSize(100*1024*1024))
	assert.Error(t, FileSize(-1))
	assert.Error(t, FileSize(100*1024*1024+1))
}

func TestContentType(t *testing.T) {
	assert.NoError(t, ContentType(""))
	assert.NoError(t, ContentType("application/pdf"))
	assert.NoError(t, ContentType("text/plain; charset=utf-8"))
	assert.Error(t, ContentType("not a media type"))
	assert.Error(t, ContentType(strings.Repeat("x", 256)))
}
