package api

type (
	// EvidenceTag identifies what an evidence entry contains
	EvidenceTag string

	// EvidenceContent is the payload of one evidence entry, either text or a
	// base64-encoded PNG image
	EvidenceContent struct {
		Tag   EvidenceTag `json:"t"`
		Value string      `json:"v"`
	}

	// Evidence is one append-only audit artifact produced during execution
	Evidence struct {
		Label   string          `json:"label"`
		Content EvidenceContent `json:"content"`
	}
)

const (
	EvidenceTextual  EvidenceTag = "Textual"
	EvidenceImagePNG EvidenceTag = "ImageAsPngBase64"
)

// Textual builds a text evidence entry
func Textual(label, text string) Evidence {
	return Evidence{
		Label:   label,
		Content: EvidenceContent{Tag: EvidenceTextual, Value: text},
	}
}

// ImagePNG builds an image evidence entry from base64-encoded PNG data
func ImagePNG(label, base64Data string) Evidence {
	return Evidence{
		Label:   label,
		Content: EvidenceContent{Tag: EvidenceImagePNG, Value: base64Data},
	}
}
