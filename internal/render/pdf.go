package render

import (
	"bytes"
	"context"
	"fmt"

	wkhtml "github.com/SebastiaanKlippert/go-wkhtmltopdf"
)

// ToPDF converts a rendered HTML document to PDF bytes through the
// out-of-process wkhtmltopdf renderer. The invocation is bounded by ctx;
// the renderer process is torn down on every exit path, including
// cancellation. Layout matches the reports: A4 landscape, 12mm margins.
func ToPDF(ctx context.Context, html []byte) ([]byte, error) {
	pdfg, err := wkhtml.NewPDFGenerator()
	if err != nil {
		return nil, fmt.Errorf("pdf renderer unavailable: %w", err)
	}

	pdfg.PageSize.Set(wkhtml.PageSizeA4)
	pdfg.Orientation.Set(wkhtml.OrientationLandscape)
	pdfg.MarginTop.Set(12)
	pdfg.MarginBottom.Set(12)
	pdfg.MarginLeft.Set(12)
	pdfg.MarginRight.Set(12)

	page := wkhtml.NewPageReader(bytes.NewReader(html))
	page.PrintMediaType.Set(true)
	pdfg.AddPage(page)

	if err := pdfg.CreateContext(ctx); err != nil {
		return nil, fmt.Errorf("pdf rendering failed: %w", err)
	}

	return pdfg.Bytes(), nil
}
