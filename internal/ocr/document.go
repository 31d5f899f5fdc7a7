package ocr

import "strings"

// Page is the recognition result for a single source page. A failed page
// carries the backend error in Err with empty text and zero confidence;
// recognition failures never surface as Go errors so that one unreadable
// page cannot abort a multi-page document.
type Page struct {
	Index      int // 1-based source page number
	Text       string
	Confidence float64 // mean word confidence in [0,1]
	Err        string  // non-empty when recognition failed
}

// OK reports whether recognition succeeded for this page.
func (p Page) OK() bool {
	return p.Err == ""
}

// Document is the ordered recognition output for one source file.
type Document struct {
	Pages []Page
}

// CombinedText joins the texts of succeeded pages with a blank line,
// preserving page order.
func (d Document) CombinedText() string {
	texts := make([]string, 0, len(d.Pages))
	for _, p := range d.Pages {
		if p.OK() {
			texts = append(texts, p.Text)
		}
	}
	return strings.Join(texts, "\n\n")
}

// AverageConfidence is the arithmetic mean of confidences over succeeded
// pages, 0 when none succeeded. Failed pages are skipped rather than
// scored as zero.
func (d Document) AverageConfidence() float64 {
	var sum float64
	var n int
	for _, p := range d.Pages {
		if p.OK() {
			sum += p.Confidence
			n++
		}
	}
	if n == 0 {
		return 0
	}
	return sum / float64(n)
}

// Succeeded counts pages whose recognition completed without error.
func (d Document) Succeeded() int {
	n := 0
	for _, p := range d.Pages {
		if p.OK() {
			n++
		}
	}
	return n
}
