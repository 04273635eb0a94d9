package extract

import (
	"archive/zip"
	"bytes"
	"encoding/xml"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"github.com/ledongthuc/pdf"
)

const (
	mimePDF  = "application/pdf"
	mimeDOCX = "application/vnd.openxmlformats-officedocument.wordprocessingml.document"
	mimeTXT  = "text/plain"
)

// Format identifies a supported document format.
type Format string

const (
	FormatPDF  Format = "pdf"
	FormatDOCX Format = "docx"
	FormatTXT  Format = "txt"
)

// ParseFormat maps a declared MIME type (and file name, for zip-disguised OOXML
// uploads) to a supported Format.
func ParseFormat(mimeType string, fileName string) (Format, error) {
	clean := strings.ToLower(strings.TrimSpace(strings.Split(mimeType, ";")[0]))
	switch clean {
	case mimePDF:
		return FormatPDF, nil
	case mimeDOCX:
		return FormatDOCX, nil
	case mimeTXT, "text/markdown", "text/x-markdown":
		return FormatTXT, nil
	case "application/zip", "application/octet-stream", "":
		// Browsers often report DOCX as zip; fall back to the extension.
		switch strings.ToLower(filepath.Ext(fileName)) {
		case ".pdf":
			return FormatPDF, nil
		case ".docx":
			return FormatDOCX, nil
		case ".txt", ".text", ".md", ".markdown":
			return FormatTXT, nil
		}
	}
	return "", fmt.Errorf("%w: %s", ErrUnsupportedFormat, clean)
}

// FromBytes extracts plain text from an in-memory payload. The size limit is
// enforced before any parser runs; a limit of zero or below disables the check.
// The returned text is whitespace-trimmed and never empty on success.
func FromBytes(data []byte, format Format, maxBytes int64) (string, error) {
	if maxBytes > 0 && int64(len(data)) > maxBytes {
		return "", fmt.Errorf("%w: %d bytes (limit %d)", ErrTooLarge, len(data), maxBytes)
	}

	var (
		text string
		err  error
	)
	switch format {
	case FormatPDF:
		text, err = extractPDF(data)
	case FormatDOCX:
		text, err = extractDOCX(data)
	case FormatTXT:
		text = extractTXT(data)
	default:
		return "", fmt.Errorf("%w: %s", ErrUnsupportedFormat, format)
	}
	if err != nil {
		return "", err
	}

	text = strings.TrimSpace(text)
	if text == "" {
		return "", ErrNoTextContent
	}
	return text, nil
}

// extractPDF walks pages in order and concatenates their text. Pages with no
// extractable text (scanned images) are skipped; only an entirely empty
// document is an error.
func extractPDF(data []byte) (string, error) {
	reader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("%w: pdf: %v", ErrCorruptDocument, err)
	}

	var buf strings.Builder
	for i := 1; i <= reader.NumPage(); i++ {
		page := reader.Page(i)
		if page.V.IsNull() {
			continue
		}
		pageText, err := pageTextOrEmpty(page)
		if err != nil {
			return "", fmt.Errorf("%w: pdf page %d: %v", ErrCorruptDocument, i, err)
		}
		if strings.TrimSpace(pageText) == "" {
			continue
		}
		if buf.Len() > 0 {
			buf.WriteString("\n")
		}
		buf.WriteString(pageText)
	}
	return buf.String(), nil
}

func pageTextOrEmpty(page pdf.Page) (text string, err error) {
	// The pdf library panics on some malformed content streams.
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("page content: %v", r)
		}
	}()
	return page.GetPlainText(nil)
}

// extractDOCX opens word/document.xml and walks it with an XML token decoder,
// joining paragraphs with newlines and linearizing table rows row-major.
func extractDOCX(data []byte) (string, error) {
	if len(data) == 0 {
		return "", fmt.Errorf("%w: empty docx payload", ErrCorruptDocument)
	}
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("%w: docx archive: %v", ErrCorruptDocument, err)
	}

	var docFile *zip.File
	for _, f := range zr.File {
		if strings.ReplaceAll(f.Name, "\\", "/") == "word/document.xml" {
			docFile = f
			break
		}
	}
	if docFile == nil {
		return "", fmt.Errorf("%w: document.xml not found", ErrCorruptDocument)
	}

	rc, err := docFile.Open()
	if err != nil {
		return "", fmt.Errorf("%w: docx open: %v", ErrCorruptDocument, err)
	}
	defer rc.Close()

	raw, err := io.ReadAll(rc)
	if err != nil {
		return "", fmt.Errorf("%w: docx read: %v", ErrCorruptDocument, err)
	}
	return stripDocxXML(raw)
}

func stripDocxXML(raw []byte) (string, error) {
	decoder := xml.NewDecoder(bytes.NewReader(raw))
	var buf strings.Builder
	for {
		tok, err := decoder.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return "", fmt.Errorf("%w: document.xml: %v", ErrCorruptDocument, err)
		}
		switch t := tok.(type) {
		case xml.CharData:
			buf.Write(t)
		case xml.EndElement:
			switch t.Name.Local {
			case "p", "br", "tr":
				if buf.Len() > 0 {
					buf.WriteString("\n")
				}
			case "tc":
				// Cell boundary inside a table row.
				if buf.Len() > 0 {
					buf.WriteString("\t")
				}
			}
		}
	}
	return buf.String(), nil
}

// extractTXT decodes bytes as UTF-8, substituting the replacement character
// for invalid sequences so minor encoding noise never fails an upload.
func extractTXT(data []byte) string {
	if utf8.Valid(data) {
		return string(data)
	}
	var buf strings.Builder
	buf.Grow(len(data))
	for len(data) > 0 {
		r, size := utf8.DecodeRune(data)
		if r == utf8.RuneError && size == 1 {
			buf.WriteRune(utf8.RuneError)
		} else {
			buf.WriteRune(r)
		}
		data = data[size:]
	}
	return buf.String()
}
