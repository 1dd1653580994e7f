package extractor

// Format is the closed set of document formats the extractor understands.
type Format int

const (
	FormatUnsupported Format = iota
	FormatPDF
	FormatDOCX
)

const (
	MimePDF  = "application/pdf"
	MimeDOC  = "application/msword"
	MimeDOCX = "application/vnd.openxmlformats-officedocument.wordprocessingml.document"
)

// FormatFromMIME maps a declared content type to a Format. The declared type
// is trusted as given; no byte sniffing happens here.
func FormatFromMIME(mime string) Format {
	switch mime {
	case MimePDF:
		return FormatPDF
	case MimeDOC, MimeDOCX:
		return FormatDOCX
	default:
		return FormatUnsupported
	}
}

func (f Format) String() string {
	switch f {
	case FormatPDF:
		return "pdf"
	case FormatDOCX:
		return "docx"
	default:
		return "unsupported"
	}
}
