// Package beautify indents rendered markup for readability.
package beautify

import "github.com/yosssi/gohtml"

type HTML struct{}

func (HTML) Beautify(markup string) string {
	return gohtml.Format(markup)
}
