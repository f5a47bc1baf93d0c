// Package notifications provides mechanisms for sending release announcements.
// This file renders a release into a webhook message.
package notifications

import (
	"errors"
	"fmt"
	"strings"
	"text/template"

	"github.com/sirupsen/logrus"

	"github.com/nicholas-fedor/announcer/pkg/notifications/templates"
	"github.com/nicholas-fedor/announcer/pkg/types"
)

// DefaultUsername is the sender label shown by the receiving client.
const DefaultUsername = "Github Actions"

// Errors for message rendering.
var (
	// errUnknownTemplate indicates a builtin template name that does not exist.
	errUnknownTemplate = errors.New("unknown message template")
	// errParseTemplate indicates a template string that could not be parsed.
	errParseTemplate = errors.New("failed to parse message template")
	// errExecuteTemplate indicates a template that failed to render.
	errExecuteTemplate = errors.New("failed to execute message template")
)

// Templates holds the text/template sources for each rendered part of the announcement.
type Templates struct {
	Title       string
	Description string
	Footer      string
}

// DefaultTemplates returns the builtin template set used when none is configured.
func DefaultTemplates() Templates {
	return commonTemplates[defaultTemplateName]
}

// GetTemplates looks up a builtin template set by name. An empty name selects the default set.
//
// Parameters:
//   - name: Builtin template set name (e.g., "pypi", "short").
//
// Returns:
//   - Templates: The template set.
//   - error: Non-nil if no set with that name exists.
func GetTemplates(name string) (Templates, error) {
	if name == "" {
		name = defaultTemplateName
	}

	tpls, found := commonTemplates[name]
	if !found {
		return Templates{}, fmt.Errorf("%w: %q", errUnknownTemplate, name)
	}

	logrus.WithField("template", name).Debug("Using common template")

	return tpls, nil
}

// NewReleaseMessage renders the release announcement for a release.
//
// The message has a single embed whose title, description and footer come from the templates.
// Release fields are inserted verbatim; JSON escaping happens when the message is encoded.
//
// Parameters:
//   - release: Release to announce.
//   - tpls: Templates for the title, description and footer.
//
// Returns:
//   - Message: Webhook message ready to encode.
//   - error: Non-nil if a template fails to parse or execute.
func NewReleaseMessage(release types.Release, tpls Templates) (Message, error) {
	clog := logrus.WithFields(logrus.Fields{
		"package":  release.Package,
		"version":  release.Version,
		"revision": release.Revision,
	})
	clog.Debug("Rendering release message")

	title, err := render("title", tpls.Title, release)
	if err != nil {
		return Message{}, err
	}

	description, err := render("description", tpls.Description, release)
	if err != nil {
		return Message{}, err
	}

	footer, err := render("footer", tpls.Footer, release)
	if err != nil {
		return Message{}, err
	}

	color := ColorInt

	embed := Embed{
		Title:       title,
		Description: description,
		Color:       &color,
	}

	if footer != "" {
		embed.Footer = &EmbedFooter{Text: footer}
	}

	clog.WithField("title", title).Debug("Rendered release message")

	return Message{
		Username: DefaultUsername,
		Embeds:   []Embed{embed},
	}, nil
}

// PlainText flattens a message into a title and body for services that do not support embeds.
func PlainText(msg Message) (string, string) {
	var (
		title string
		body  strings.Builder
	)

	if msg.Content != "" {
		body.WriteString(msg.Content)
	}

	for _, embed := range msg.Embeds {
		if title == "" {
			title = embed.Title
		} else if embed.Title != "" {
			writeLine(&body, embed.Title)
		}

		writeLine(&body, embed.Description)

		for _, field := range embed.Fields {
			writeLine(&body, field.Name+": "+field.Value)
		}

		if embed.Footer != nil {
			writeLine(&body, embed.Footer.Text)
		}
	}

	return title, body.String()
}

func writeLine(body *strings.Builder, line string) {
	if line == "" {
		return
	}

	if body.Len() > 0 {
		body.WriteRune('\n')
	}

	body.WriteString(line)
}

// render parses and executes one template against the release.
func render(name, tplString string, release types.Release) (string, error) {
	if tplString == "" {
		return "", nil
	}

	tpl, err := template.New(name).Funcs(templates.Funcs).Option("missingkey=error").Parse(tplString)
	if err != nil {
		return "", fmt.Errorf("%w: %s: %w", errParseTemplate, name, err)
	}

	var out strings.Builder
	if err := tpl.Execute(&out, release); err != nil {
		return "", fmt.Errorf("%w: %s: %w", errExecuteTemplate, name, err)
	}

	return out.String(), nil
}
