// Package evidence provides the built-in engine for adding evidence entries
// from scripts
package evidence

import (
	"github.com/veriflow-io/veriflow/pkg/api"
	"github.com/veriflow-io/veriflow/pkg/sdk"
)

const Version = "1.0.0"

// New builds the evidence engine
func New() *sdk.Engine[struct{}] {
	return sdk.New[struct{}](
		"Evidence", "Evidence", Version,
		"Add evidence to the execution report.",
	).
		WithInstruction(
			api.NewInstruction("evidence-add-text", "add_text",
				"Add Text-based Evidence",
				"Add text based evidence to the report.").
				WithParameter("label", "Label", api.String).
				WithParameter("content", "Content", api.String).
				WithFlags(api.FlagInfallible|api.FlagAutomatic),
			func(_ *struct{}, params sdk.Params, _ bool,
				_ api.OutputMap, ev *sdk.EvidenceList) error {
				ev.Add(api.Textual(
					params.String("label"), params.String("content")))
				return nil
			},
		).
		WithInstruction(
			api.NewInstruction("evidence-add-image", "add_image",
				"Add Image Evidence",
				"Add a base64-encoded PNG image to the report.").
				WithParameter("label", "Label", api.String).
				WithParameter("image", "Image Data",
					api.SpecialKind("image-png-base64", "PNG Image")).
				WithFlags(api.FlagInfallible|api.FlagAutomatic),
			func(_ *struct{}, params sdk.Params, _ bool,
				_ api.OutputMap, ev *sdk.EvidenceList) error {
				ev.Add(api.ImagePNG(
					params.String("label"), params.String("image")))
				return nil
			},
		)
}
