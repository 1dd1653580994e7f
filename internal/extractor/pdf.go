package extractor

import (
	"bytes"
	"errors"
	"fmt"
	"strings"

	"github.com/ledongthuc/pdf"
)

// tjWordGap is the TJ adjustment, in thousandths of an em, at or beyond
// which a gap between two strings is treated as a word break.
const tjWordGap = 200

// PDFDecoder extracts text page by page. Every text-showing operator on a
// page yields one run; runs are joined by a single space and pages are
// separated by a newline, front to back.
type PDFDecoder struct{}

func (PDFDecoder) Decode(data []byte) (text string, err error) {
	// The pdf package panics on some malformed inputs.
	defer func() {
		if r := recover(); r != nil {
			text = ""
			err = fmt.Errorf("malformed pdf: %v", r)
		}
	}()

	if len(data) == 0 {
		return "", errors.New("empty pdf")
	}

	pdfReader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("failed to read pdf: %w", err)
	}

	numPages := pdfReader.NumPage()
	pages := make([]string, 0, numPages)
	for i := 1; i <= numPages; i++ {
		pages = append(pages, joinRuns(pageRuns(pdfReader.Page(i))))
	}
	return strings.Join(pages, "\n"), nil
}

// pageRuns returns the decoded strings of every Tj, ', " and TJ operator on
// the page in content-stream order. A TJ array is split where its spacing
// adjustment opens a word-sized gap.
func pageRuns(page pdf.Page) []string {
	if page.V.IsNull() || page.V.Key("Contents").Kind() == pdf.Null {
		return nil
	}

	decode := func(s string) string { return s }
	encoders := make(map[string]pdf.TextEncoding)

	var runs []string
	var current strings.Builder
	flush := func() {
		runs = append(runs, current.String())
		current.Reset()
	}

	pdf.Interpret(page.V.Key("Contents"), func(stk *pdf.Stack, op string) {
		n := stk.Len()
		args := make([]pdf.Value, n)
		for i := n - 1; i >= 0; i-- {
			args[i] = stk.Pop()
		}

		switch op {
		case "Tf":
			if n < 1 {
				return
			}
			name := args[0].Name()
			enc, ok := encoders[name]
			if !ok {
				enc = page.Font(name).Encoder()
				encoders[name] = enc
			}
			decode = enc.Decode
		case "Tj", "'", "\"":
			if n < 1 {
				return
			}
			current.WriteString(decode(args[n-1].RawString()))
			flush()
		case "TJ":
			if n < 1 {
				return
			}
			arr := args[0]
			for i := 0; i < arr.Len(); i++ {
				item := arr.Index(i)
				switch item.Kind() {
				case pdf.String:
					current.WriteString(decode(item.RawString()))
				case pdf.Integer, pdf.Real:
					if -item.Float64() >= tjWordGap {
						flush()
					}
				}
			}
			flush()
		}
	})
	return runs
}

// joinRuns joins the runs of one page with single spaces. Whitespace inside
// a run is collapsed and blank runs are dropped.
func joinRuns(runs []string) string {
	words := make([]string, 0, len(runs))
	for _, run := range runs {
		if run = strings.Join(strings.Fields(run), " "); run != "" {
			words = append(words, run)
		}
	}
	return strings.Join(words, " ")
}
