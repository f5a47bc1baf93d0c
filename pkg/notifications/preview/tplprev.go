package preview

import (
	"fmt"
	"strings"
	"text/template"

	"github.com/nicholas-fedor/announcer/pkg/notifications/templates"
	"github.com/nicholas-fedor/announcer/pkg/types"
)

// Render executes a single announcement template against a release.
//
// Parameters:
//   - input: Template string to render.
//   - release: Release providing the template fields.
//
// Returns:
//   - string: Rendered text.
//   - error: Non-nil if parsing or execution fails, nil on success.
func Render(input string, release types.Release) (string, error) {
	tpl, err := template.New("").Funcs(templates.Funcs).Option("missingkey=error").Parse(input)
	if err != nil {
		return "", fmt.Errorf("failed to parse %w", err)
	}

	var buf strings.Builder

	err = tpl.Execute(&buf, release)
	if err != nil {
		return "", fmt.Errorf("failed to execute template: %w", err)
	}

	return buf.String(), nil
}
