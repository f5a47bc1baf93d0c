// Package templates provides utility functions for use in announcement templates.
// The functions are made available to the title, description and footer templates
// rendered by pkg/notifications, allowing formatting of release data (e.g., JSON
// marshaling, case conversion, shortened revisions).
package templates

import (
	"encoding/json"
	"fmt"
	"strings"
	"text/template"

	"github.com/sirupsen/logrus"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// shortRevisionLength is the number of characters kept by Short.
const shortRevisionLength = 7

// Funcs defines a set of utility functions for use in announcement templates.
var Funcs = template.FuncMap{
	"ToUpper": strings.ToUpper,
	"ToLower": strings.ToLower,
	"ToJSON":  toJSON,
	"Title":   cases.Title(language.AmericanEnglish).String,
	"Short":   short,
}

// toJSON marshals a value to a formatted JSON string for use in templates.
// If marshaling fails, it logs a warning and returns an error message as the string.
func toJSON(v any) string {
	bytes, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		logrus.WithError(err).WithFields(logrus.Fields{
			"value": fmt.Sprintf("%v", v), // Avoid recursive marshaling issues
		}).Warn("Failed to marshal JSON in announcement template")

		return fmt.Sprintf("failed to marshal JSON in announcement template: %v", err)
	}

	return string(bytes)
}

// short truncates a revision to its abbreviated form.
func short(revision string) string {
	if len(revision) <= shortRevisionLength {
		return revision
	}

	return revision[:shortRevisionLength]
}
