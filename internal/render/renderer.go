// Package render fills the Word report template from mapped records and
// bundles the rendered documents into a zip for download.
package render

import (
	"archive/zip"
	"bytes"
	"fmt"
	"os"
	"path"
	"strings"

	docx "github.com/lukasjarosch/go-docx"

	"github.com/iranzi17/ibc-15kv-reporting/internal/cache"
	"github.com/iranzi17/ibc-15kv-reporting/internal/mapper"
	"github.com/iranzi17/ibc-15kv-reporting/internal/model"
)

// Renderer renders report documents from one docx template.
type Renderer struct {
	templatePath      string
	disciplineCol     int
	defaultDiscipline string
}

// NewRenderer creates a renderer. disciplineCol is the zero-based worksheet
// column holding the discipline; rows without it use defaultDiscipline.
func NewRenderer(templatePath string, disciplineCol int, defaultDiscipline string) *Renderer {
	return &Renderer{
		templatePath:      templatePath,
		disciplineCol:     disciplineCol,
		defaultDiscipline: defaultDiscipline,
	}
}

// UploadLookup returns the operator-uploaded attachments for a site/date
// pair; rendered zips carry them next to the report document.
type UploadLookup func(site, date string) []cache.Upload

// RenderAll renders one document per record and returns a zip of the
// results. Attachments for each (site, date) ride along under an images/
// folder.
func (r *Renderer) RenderAll(records []*model.Record, uploads UploadLookup) ([]byte, error) {
	if len(records) == 0 {
		return nil, fmt.Errorf("no records selected")
	}

	template, err := os.ReadFile(r.templatePath)
	if err != nil {
		return nil, fmt.Errorf("read template: %w", err)
	}
	template, err = sanitizeTemplate(template)
	if err != nil {
		return nil, fmt.Errorf("sanitize template: %w", err)
	}

	var out bytes.Buffer
	zw := zip.NewWriter(&out)
	used := map[string]int{}

	for _, rec := range records {
		name := r.documentName(rec, used)
		data, err := r.renderOne(template, rec)
		if err != nil {
			return nil, fmt.Errorf("render %s: %w", name, err)
		}

		w, err := zw.Create(name)
		if err != nil {
			return nil, err
		}
		if _, err := w.Write(data); err != nil {
			return nil, err
		}

		if uploads == nil {
			continue
		}
		for _, up := range uploads(strings.TrimSpace(rec.Site()), strings.TrimSpace(rec.Date())) {
			imgName := path.Join("images", strings.TrimSuffix(name, ".docx"), SafeFilename(up.Name, 80))
			iw, err := zw.Create(imgName)
			if err != nil {
				return nil, err
			}
			if _, err := iw.Write(up.Data); err != nil {
				return nil, err
			}
		}
	}

	if err := zw.Close(); err != nil {
		return nil, err
	}
	return out.Bytes(), nil
}

// renderOne fills a sanitized template copy with one record.
func (r *Renderer) renderOne(template []byte, rec *model.Record) ([]byte, error) {
	doc, err := docx.OpenBytes(template)
	if err != nil {
		return nil, fmt.Errorf("open template: %w", err)
	}

	if err := doc.ReplaceAll(r.placeholderMap(rec)); err != nil {
		return nil, fmt.Errorf("replace placeholders: %w", err)
	}

	var buf bytes.Buffer
	if err := doc.Write(&buf); err != nil {
		return nil, fmt.Errorf("write document: %w", err)
	}
	return buf.Bytes(), nil
}

func (r *Renderer) placeholderMap(rec *model.Record) docx.PlaceholderMap {
	m := docx.PlaceholderMap{}
	for col, value := range rec.Context() {
		m[col] = value
	}

	sig := SignatoryFor(r.discipline(rec), r.defaultDiscipline)
	m["Consultant_Name"] = sig.ConsultantName
	m["Consultant_Title"] = sig.ConsultantTitle
	m["Contractor_Name"] = sig.ContractorName
	m["Contractor_Title"] = sig.ContractorTitle
	return m
}

// discipline reads the discipline cell; out-of-range or blank cells use the
// default.
func (r *Renderer) discipline(rec *model.Record) string {
	if r.disciplineCol >= 0 && r.disciplineCol < len(rec.Values) {
		if d := strings.TrimSpace(rec.Values[r.disciplineCol]); d != "" {
			return d
		}
	}
	return r.defaultDiscipline
}

// documentName builds the historical report filename, de-duplicated within
// one zip.
func (r *Renderer) documentName(rec *model.Record, used map[string]int) string {
	base := SafeFilename(fmt.Sprintf("SITE DAILY REPORT_%s_%s",
		strings.TrimSpace(rec.Site()), mapper.FormatDateTitle(rec.Date())), 150)
	if base == "" {
		base = "SITE DAILY REPORT"
	}
	used[base]++
	if n := used[base]; n > 1 {
		return fmt.Sprintf("%s (%d).docx", base, n)
	}
	return base + ".docx"
}
