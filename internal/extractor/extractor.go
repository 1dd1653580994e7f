// Package extractor turns uploaded PDF and Word documents into plain text.
package extractor

// Decoder turns the raw bytes of one document format into text.
type Decoder interface {
	Decode(data []byte) (string, error)
}

// DecoderFunc adapts a plain function to Decoder.
type DecoderFunc func(data []byte) (string, error)

func (f DecoderFunc) Decode(data []byte) (string, error) {
	return f(data)
}

// SourceDocument is a single upload: the bytes plus the content type the
// uploader reported for them.
type SourceDocument struct {
	Data         []byte
	DeclaredType string
}

// Extractor dispatches a document to the decoder registered for its format.
// It holds no per-call state and is safe for concurrent use.
type Extractor struct {
	pdf  Decoder
	docx Decoder
}

// New returns an Extractor backed by the PDF and DOCX libraries.
func New() *Extractor {
	return NewWithDecoders(PDFDecoder{}, DOCXDecoder{})
}

// NewWithDecoders swaps in other decoders, e.g. in tests.
func NewWithDecoders(pdf, docx Decoder) *Extractor {
	return &Extractor{pdf: pdf, docx: docx}
}

// Extract returns the text of data, interpreted as declaredType.
// Unsupported types fail with ErrUnsupportedType before data is read.
func (e *Extractor) Extract(data []byte, declaredType string) (string, error) {
	var dec Decoder
	switch FormatFromMIME(declaredType) {
	case FormatPDF:
		dec = e.pdf
	case FormatDOCX:
		dec = e.docx
	default:
		return "", unsupported(declaredType)
	}

	text, err := dec.Decode(data)
	if err != nil {
		return "", parseFailure(err)
	}
	return text, nil
}

// ExtractDocument is Extract for a SourceDocument.
func (e *Extractor) ExtractDocument(doc SourceDocument) (string, error) {
	return e.Extract(doc.Data, doc.DeclaredType)
}

var defaultExtractor = New()

// Extract runs the default Extractor.
func Extract(data []byte, declaredType string) (string, error) {
	return defaultExtractor.Extract(data, declaredType)
}
