package service

import (
	"bytes"
	"context"
	"fmt"
	"html/template"
	"net/url"
	"os"
	"time"

	"github.com/chromedp/cdproto/page"
	"github.com/chromedp/chromedp"

	"github.com/BartJoris/live-babetteconcept-sub001/models"
)

// ReportService renders the batch result log as a printable PDF report
type ReportService struct{}

// NewReportService creates a new ReportService
func NewReportService() *ReportService {
	return &ReportService{}
}

// detectChromePath detects the path to Chrome/Chromium executable.
// Checks CHROME_PATH env var first, then common installation paths.
func detectChromePath() string {
	if chromePath := os.Getenv("CHROME_PATH"); chromePath != "" {
		if _, err := os.Stat(chromePath); err == nil {
			return chromePath
		}
	}

	paths := []string{
		"/usr/bin/chromium",
		"/usr/bin/chromium-browser",
		"/usr/bin/google-chrome",
		"/usr/bin/google-chrome-stable",
		"/snap/bin/chromium",
	}

	for _, path := range paths {
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}

	return ""
}

var reportTemplate = template.Must(template.New("report").Parse(`<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<style>
  body { font-family: sans-serif; margin: 24px; }
  h1 { font-size: 20px; }
  .meta { color: #666; font-size: 12px; margin-bottom: 16px; }
  table { border-collapse: collapse; width: 100%; font-size: 12px; }
  th, td { border: 1px solid #ccc; padding: 6px 8px; text-align: left; }
  th { background: #f4f4f4; }
  .ok { color: #2e7d32; font-weight: bold; }
  .fail { color: #c62828; font-weight: bold; }
</style>
</head>
<body>
<h1>Photo synchronization report — {{.Supplier}}</h1>
<div class="meta">Generated {{.GeneratedAt}} — {{.SuccessCount}} succeeded, {{.FailureCount}} failed</div>
<table>
<tr><th>Record</th><th>Product</th><th>Result</th><th>Photos uploaded</th><th>Error</th></tr>
{{range .Results}}
<tr>
  <td>{{.RecordKey}}</td>
  <td>{{.DisplayName}}</td>
  <td>{{if .Success}}<span class="ok">OK</span>{{else}}<span class="fail">FAILED</span>{{end}}</td>
  <td>{{.AssetsUploaded}}</td>
  <td>{{.Error}}</td>
</tr>
{{end}}
</table>
</body>
</html>`))

// RenderHTML renders the report HTML for a set of batch results
func (s *ReportService) RenderHTML(supplier string, results []models.BatchResult) (string, error) {
	successCount := 0
	for _, r := range results {
		if r.Success {
			successCount++
		}
	}

	data := struct {
		Supplier     string
		GeneratedAt  string
		SuccessCount int
		FailureCount int
		Results      []models.BatchResult
	}{
		Supplier:     supplier,
		GeneratedAt:  time.Now().Format("2006-01-02 15:04"),
		SuccessCount: successCount,
		FailureCount: len(results) - successCount,
		Results:      results,
	}

	var buf bytes.Buffer
	if err := reportTemplate.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("failed to render report template: %w", err)
	}
	return buf.String(), nil
}

// GeneratePDF renders the report HTML to a PDF using headless Chrome
func (s *ReportService) GeneratePDF(ctx context.Context, supplier string, results []models.BatchResult) ([]byte, error) {
	html, err := s.RenderHTML(supplier, results)
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.NoSandbox, // Required for running in Docker/containers
	)
	if chromePath := detectChromePath(); chromePath != "" {
		opts = append(opts, chromedp.ExecPath(chromePath))
	}
	allocCtx, allocCancel := chromedp.NewExecAllocator(ctx, opts...)
	defer allocCancel()

	chromedpCtx, chromedpCancel := chromedp.NewContext(allocCtx)
	defer chromedpCancel()

	dataURL := "data:text/html," + url.PathEscape(html)

	var pdfBuf []byte
	err = chromedp.Run(chromedpCtx,
		chromedp.Navigate(dataURL),
		chromedp.WaitReady("body"),
		chromedp.ActionFunc(func(ctx context.Context) error {
			var err error
			// A4 portrait with default margins
			pdfBuf, _, err = page.PrintToPDF().
				WithPrintBackground(true).
				WithPaperWidth(8.27).
				WithPaperHeight(11.69).
				Do(ctx)
			return err
		}),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to generate PDF: %w", err)
	}
	return pdfBuf, nil
}
