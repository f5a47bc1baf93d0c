package notifications

// defaultTemplateName is the builtin template set used when none is configured.
const defaultTemplateName = "pypi"

var commonTemplates = map[string]Templates{
	`pypi`: {
		Title: `{{.Version}} has been deployed to {{.Index}}`,
		Description: "Install it now by executing: ```pip install {{.Package}}=={{.Version}}```" +
			`{{with .DocsURL}}{{"\n\n"}}Documentation can be found at {{.}}{{end}}`,
		Footer: `SHA: {{.Revision}}`,
	},

	`short`: {
		Title:       `{{.Package}} {{.Version}} released`,
		Description: "```pip install -U {{.Package}}=={{.Version}}```",
		Footer:      `SHA: {{.Revision}}`,
	},
}
