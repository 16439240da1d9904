// Package extract pulls plain text out of policy document files.
package extract

import (
	"bytes"
	"fmt"

	"github.com/ledongthuc/pdf"
)

// PDFText extracts the plain text of every readable page. Pages that
// fail to parse are skipped so one damaged page does not sink the
// whole document.
func PDFText(content []byte) (string, error) {
	r, err := pdf.NewReader(bytes.NewReader(content), int64(len(content)))
	if err != nil {
		return "", fmt.Errorf("open PDF: %w", err)
	}
	var buf bytes.Buffer
	numPages := r.NumPage()
	for i := 1; i <= numPages; i++ {
		page := r.Page(i)
		if page.V.IsNull() {
			continue
		}
		text, err := page.GetPlainText(nil)
		if err != nil {
			continue
		}
		buf.WriteString(text)
		if i < numPages {
			buf.WriteByte('\n')
		}
	}
	return buf.String(), nil
}
