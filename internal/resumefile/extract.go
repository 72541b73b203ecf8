// Package resumefile extracts plain text from uploaded resumes.
package resumefile

import (
	"bytes"
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/ledongthuc/pdf"
	"github.com/nguyenthenguyen/docx"
)

var ErrUnsupported = errors.New("unsupported resume file type")

var extractors = map[string]func([]byte) (string, error){
	".txt":  plainText,
	".md":   plainText,
	".pdf":  pdfText,
	".docx": docxText,
}

// Allowed reports whether filename has an extension Extract understands.
func Allowed(filename string) bool {
	_, ok := extractors[strings.ToLower(filepath.Ext(filename))]
	return ok
}

// Extensions lists the accepted file extensions.
func Extensions() []string {
	return []string{".txt", ".md", ".pdf", ".docx"}
}

// Extract returns the trimmed text of a resume, choosing the reader by file
// extension.
func Extract(filename string, data []byte) (string, error) {
	ext := strings.ToLower(filepath.Ext(filename))
	extract, ok := extractors[ext]
	if !ok {
		return "", fmt.Errorf("%w: %q", ErrUnsupported, ext)
	}

	text, err := extract(data)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(text), nil
}

func plainText(data []byte) (string, error) {
	return string(data), nil
}

func pdfText(data []byte) (string, error) {
	reader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("failed to read pdf: %w", err)
	}

	var builder strings.Builder
	for i := 1; i <= reader.NumPage(); i++ {
		page := reader.Page(i)
		if page.V.IsNull() {
			continue
		}

		text, err := page.GetPlainText(nil)
		if err != nil {
			return "", fmt.Errorf("failed to read pdf page %d: %w", i, err)
		}
		if builder.Len() > 0 {
			builder.WriteString("\n")
		}
		builder.WriteString(text)
	}

	return builder.String(), nil
}

func docxText(data []byte) (string, error) {
	doc, err := docx.ReadDocxFromMemory(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("failed to parse docx: %w", err)
	}
	defer doc.Close()

	return stripXML(doc.Editable().GetContent()), nil
}

// stripXML reduces the raw document.xml body to its text runs, with one line
// per paragraph.
func stripXML(content string) string {
	var builder strings.Builder
	inTag := false
	tagStart := 0

	for i := 0; i < len(content); i++ {
		switch c := content[i]; {
		case c == '<':
			inTag = true
			tagStart = i
		case c == '>' && inTag:
			inTag = false
			if tag := content[tagStart : i+1]; strings.HasPrefix(tag, "</w:p>") {
				builder.WriteByte('\n')
			} else if tag == "<w:tab/>" {
				builder.WriteByte('\t')
			}
		case !inTag:
			builder.WriteByte(c)
		}
	}

	return unescapeXML(builder.String())
}

var xmlEntities = strings.NewReplacer(
	"&lt;", "<",
	"&gt;", ">",
	"&quot;", `"`,
	"&apos;", "'",
	"&amp;", "&",
)

func unescapeXML(s string) string {
	return xmlEntities.Replace(s)
}
