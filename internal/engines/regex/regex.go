// Package regex provides the built-in regular expression engine
package regex

import (
	"errors"
	"fmt"
	"regexp"

	"github.com/veriflow-io/veriflow/pkg/api"
	"github.com/veriflow-io/veriflow/pkg/sdk"
)

const Version = "1.0.0"

// New builds the regular expression engine
func New() *sdk.Engine[struct{}] {
	return sdk.New[struct{}](
		"Regular Expressions", "Regex", Version,
		"Check text against regular expressions.",
	).
		WithInstruction(
			api.NewInstruction("regex-validate", "validate",
				"Validate with Regular Expression",
				"Checks that input text matches a regular expression. "+
					"This will cause the flow to error if the text "+
					"doesn't match.").
				WithParameter("regex", "Regular Expression", api.String).
				WithParameter("input", "Input", api.String).
				WithParameter("error", "Error Message", api.String).
				WithFlags(api.FlagPure|api.FlagAutomatic),
			func(_ *struct{}, params sdk.Params, _ bool,
				_ api.OutputMap, ev *sdk.EvidenceList) error {
				re, err := regexp.Compile(params.String("regex"))
				if err != nil {
					return fmt.Errorf("invalid regex in action: %w", err)
				}
				input := params.String("input")
				if !re.MatchString(input) {
					return errors.New(params.String("error"))
				}
				ev.Add(api.Textual("Validation",
					fmt.Sprintf("%q matches %q", input, re.String())))
				return nil
			},
		).
		WithInstruction(
			api.NewInstruction("regex-match", "match",
				"Match with Regular Expression",
				"Returns a boolean if the input text matches a regular "+
					"expression.").
				WithParameter("regex", "Regular Expression", api.String).
				WithParameter("input", "Input", api.String).
				WithOutput("match", "Input matches?", api.Boolean).
				WithFlags(api.FlagPure|api.FlagAutomatic),
			func(_ *struct{}, params sdk.Params, _ bool,
				out api.OutputMap, _ *sdk.EvidenceList) error {
				re, err := regexp.Compile(params.String("regex"))
				if err != nil {
					return fmt.Errorf("invalid regex in action: %w", err)
				}
				out["match"] = api.NewBoolean(
					re.MatchString(params.String("input")))
				return nil
			},
		)
}
