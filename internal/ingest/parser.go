package ingest

import (
	"archive/zip"
	"bytes"
	"encoding/csv"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"github.com/ledongthuc/pdf"
)

// ErrorMarker prefixes the text returned by ExtractText when extraction fails.
const ErrorMarker = "Error"

var ErrUnsupported = errors.New("unsupported file type")

var imageExts = map[string]struct{}{
	".png": {}, ".jpg": {}, ".jpeg": {}, ".tiff": {}, ".bmp": {},
}

type Parsed struct {
	Title       string
	Format      string
	SourcePath  string
	SourceBytes []byte
	Text        string
}

// Metadata describes an extracted document.
type Metadata map[string]string

// Extraction is the outcome of Extract. Err is set when the file could
// not be turned into text; Text is then the ErrorMarker-prefixed message.
type Extraction struct {
	Text     string
	Metadata Metadata
	Err      error
}

func (x Extraction) Failed() bool { return x.Err != nil }

// Extract never panics or returns an error directly; failures travel in Err.
func Extract(path string) Extraction {
	meta := Metadata{"title": filepath.Base(path)}
	parsed, err := ParseFile(path)
	if err != nil {
		return Extraction{Text: fmt.Sprintf("%s: %v", ErrorMarker, err), Metadata: meta, Err: err}
	}
	meta["format"] = parsed.Format
	meta["characters"] = fmt.Sprintf("%d", utf8.RuneCountInString(parsed.Text))
	return Extraction{Text: parsed.Text, Metadata: meta}
}

// ExtractText is Extract for callers that only display the text. A document
// may legitimately start with ErrorMarker, so decide failure with Extract.
func ExtractText(path string) (string, Metadata) {
	x := Extract(path)
	return x.Text, x.Metadata
}

func ParseFile(path string) (*Parsed, error) {
	ext := strings.ToLower(filepath.Ext(path))
	if _, ok := imageExts[ext]; ok {
		return nil, fmt.Errorf("%w: %s (OCR is not available)", ErrUnsupported, ext)
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read file: %w", err)
	}

	var text string
	format := strings.TrimPrefix(ext, ".")
	switch ext {
	case ".docx":
		text, err = parseDOCX(raw)
	case ".pdf":
		text, err = parsePDF(path)
	case ".csv":
		text, err = parseCSV(raw)
	default:
		format = "text"
		if !utf8.Valid(raw) {
			err = fmt.Errorf("%w: %s is not UTF-8 text", ErrUnsupported, filepath.Base(path))
		}
		text = string(raw)
	}
	if err != nil {
		return nil, err
	}

	title := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	return &Parsed{
		Title:       title,
		Format:      format,
		SourcePath:  path,
		SourceBytes: raw,
		Text:        normalizeWhitespace(text),
	}, nil
}

func parseDOCX(raw []byte) (string, error) {
	zr, err := zip.NewReader(bytes.NewReader(raw), int64(len(raw)))
	if err != nil {
		return "", fmt.Errorf("open docx zip: %w", err)
	}

	var xmlData []byte
	for _, f := range zr.File {
		if f.Name == "word/document.xml" {
			rc, openErr := f.Open()
			if openErr != nil {
				return "", fmt.Errorf("open document.xml: %w", openErr)
			}
			defer rc.Close()
			xmlData, err = io.ReadAll(rc)
			if err != nil {
				return "", fmt.Errorf("read document.xml: %w", err)
			}
			break
		}
	}
	if len(xmlData) == 0 {
		return "", fmt.Errorf("word/document.xml not found")
	}
	return docxText(xmlData)
}

func docxText(xmlData []byte) (string, error) {
	decoder := xml.NewDecoder(bytes.NewReader(xmlData))
	var b strings.Builder
	inText := false
	for {
		tok, tokenErr := decoder.Token()
		if tokenErr == io.EOF {
			break
		}
		if tokenErr != nil {
			return "", fmt.Errorf("decode document.xml: %w", tokenErr)
		}

		switch t := tok.(type) {
		case xml.StartElement:
			switch t.Name.Local {
			case "t":
				inText = true
			case "p":
				if b.Len() > 0 {
					b.WriteString("\n")
				}
			case "tab":
				b.WriteString(" ")
			}
		case xml.EndElement:
			if t.Name.Local == "t" {
				inText = false
			}
		case xml.CharData:
			if inText {
				b.Write(t)
			}
		}
	}
	return b.String(), nil
}

func parsePDF(path string) (string, error) {
	f, r, err := pdf.Open(path)
	if err != nil {
		return "", fmt.Errorf("open pdf: %w", err)
	}
	defer f.Close()

	var b strings.Builder
	total := r.NumPage()
	for i := 1; i <= total; i++ {
		p := r.Page(i)
		if p.V.IsNull() {
			continue
		}
		content, pageErr := p.GetPlainText(nil)
		if pageErr != nil {
			continue
		}
		b.WriteString(content)
		b.WriteString("\n")
	}
	if b.Len() == 0 {
		return "", fmt.Errorf("no extractable text found in pdf")
	}
	return b.String(), nil
}

// Spreadsheet rows become lines of space-joined cells; the header row is dropped.
func parseCSV(raw []byte) (string, error) {
	r := csv.NewReader(bytes.NewReader(raw))
	r.FieldsPerRecord = -1
	rows, err := r.ReadAll()
	if err != nil {
		return "", fmt.Errorf("extracting text from spreadsheet: %w", err)
	}
	if len(rows) > 0 {
		rows = rows[1:]
	}
	lines := make([]string, 0, len(rows))
	for _, row := range rows {
		lines = append(lines, strings.Join(row, " "))
	}
	return strings.Join(lines, "\n"), nil
}

func normalizeWhitespace(text string) string {
	lines := strings.Split(text, "\n")
	out := make([]string, 0, len(lines))
	for _, line := range lines {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		line = strings.Join(strings.Fields(line), " ")
		out = append(out, line)
	}
	return strings.Join(out, "\n")
}
