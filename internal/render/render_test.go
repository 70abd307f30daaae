package render

import (
	"archive/zip"
	"bytes"
	"io"
	"strings"
	"testing"

	"github.com/iranzi17/ibc-15kv-reporting/internal/mapper"
	"github.com/iranzi17/ibc-15kv-reporting/internal/model"
)

func TestSafeFilename(t *testing.T) {
	t.Parallel()

	if got := SafeFilename(`SITE: A/B*C?`, 150); got != "SITE- A-B-C" {
		t.Fatalf("SafeFilename = %q", got)
	}
	if got := SafeFilename("  lots   of\tspace . ", 150); got != "lots of space" {
		t.Fatalf("SafeFilename whitespace = %q", got)
	}
	if got := SafeFilename(strings.Repeat("x", 200), 150); len(got) != 150 {
		t.Fatalf("SafeFilename length = %d", len(got))
	}
}

func TestSanitizeTemplate(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	w, _ := zw.Create("word/document.xml")
	io.WriteString(w, `<w:t>{Reaction&amp;WayForword}</w:t>`)
	b, _ := zw.Create("word/media/pic.bin")
	b.Write([]byte("Reaction&amp;WayForword"))
	zw.Close()

	out, err := sanitizeTemplate(buf.Bytes())
	if err != nil {
		t.Fatalf("sanitize: %v", err)
	}

	zr, err := zip.NewReader(bytes.NewReader(out), int64(len(out)))
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	for _, item := range zr.File {
		rc, _ := item.Open()
		data, _ := io.ReadAll(rc)
		rc.Close()
		switch item.Name {
		case "word/document.xml":
			if !strings.Contains(string(data), "{Reaction_and_WayForword}") {
				t.Fatalf("placeholder not rewritten: %s", data)
			}
		case "word/media/pic.bin":
			// Binary parts must not be touched.
			if string(data) != "Reaction&amp;WayForword" {
				t.Fatalf("binary part rewritten: %s", data)
			}
		}
	}
}

func TestDocumentName(t *testing.T) {
	t.Parallel()

	r := NewRenderer("", 11, "Electrical")
	rec := mapper.MapRow(model.SchemaCurrent, []string{"01.02.2024", "Site/A"})
	used := map[string]int{}

	first := r.documentName(rec, used)
	if first != "SITE DAILY REPORT_Site-A_01.02.2024.docx" {
		t.Fatalf("name = %q", first)
	}
	second := r.documentName(rec, used)
	if second != "SITE DAILY REPORT_Site-A_01.02.2024 (2).docx" {
		t.Fatalf("dup name = %q", second)
	}
}

func TestDisciplineFallback(t *testing.T) {
	t.Parallel()

	r := NewRenderer("", 11, "Electrical")

	withCol := mapper.MapRow(model.SchemaCurrent, []string{
		"01.02.2024", "SiteA", "", "", "", "", "", "", "", "", "", "Civil",
	})
	if got := r.discipline(withCol); got != "Civil" {
		t.Fatalf("discipline = %q, want Civil", got)
	}

	short := mapper.MapRow(model.SchemaCurrent, []string{"01.02.2024", "SiteA"})
	if got := r.discipline(short); got != "Electrical" {
		t.Fatalf("discipline fallback = %q, want Electrical", got)
	}

	sig := SignatoryFor("Unknown", "Electrical")
	if sig.ConsultantName != "Alexis IVUGIZA" {
		t.Fatalf("signatory fallback = %+v", sig)
	}
}
