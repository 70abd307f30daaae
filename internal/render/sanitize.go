package render

import (
	"archive/zip"
	"bytes"
	"io"
	"regexp"
	"strings"
)

// Placeholders that appear in historical templates with characters go-docx
// cannot address, rewritten to their canonical names before rendering.
var placeholderReplacements = map[string]string{
	"Reaction&amp;WayForword": "Reaction_and_WayForword",
}

// sanitizeTemplate rewrites problematic placeholders inside the docx XML
// parts and returns a fresh docx byte stream. Non-XML parts are copied
// verbatim.
func sanitizeTemplate(template []byte) ([]byte, error) {
	src, err := zip.NewReader(bytes.NewReader(template), int64(len(template)))
	if err != nil {
		return nil, err
	}

	var out bytes.Buffer
	dst := zip.NewWriter(&out)
	for _, item := range src.File {
		rc, err := item.Open()
		if err != nil {
			return nil, err
		}
		data, err := io.ReadAll(rc)
		rc.Close()
		if err != nil {
			return nil, err
		}

		if strings.HasSuffix(item.Name, ".xml") {
			text := string(data)
			for old, repl := range placeholderReplacements {
				text = strings.ReplaceAll(text, old, repl)
			}
			data = []byte(text)
		}

		w, err := dst.Create(item.Name)
		if err != nil {
			return nil, err
		}
		if _, err := w.Write(data); err != nil {
			return nil, err
		}
	}
	if err := dst.Close(); err != nil {
		return nil, err
	}
	return out.Bytes(), nil
}

var (
	illegalFilenameChars = regexp.MustCompile(`[\\/:*?"<>|]+`)
	repeatedWhitespace   = regexp.MustCompile(`\s+`)
)

// SafeFilename strips characters that are illegal on common filesystems and
// tidies whitespace, capping the length.
func SafeFilename(s string, maxLen int) string {
	s = illegalFilenameChars.ReplaceAllString(s, "-")
	s = repeatedWhitespace.ReplaceAllString(s, " ")
	s = strings.Trim(s, " .-")
	if maxLen > 0 && len(s) > maxLen {
		s = s[:maxLen]
	}
	return s
}
