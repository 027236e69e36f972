// Package renderer defines the rendering backends' common interface and the
// message markup they share.
//
// Messages may carry markup of the form FUNC{operand}: GT{KEY} is replaced by
// the translation of KEY; ACTION, ITEM, ROOM, DENIED, SUBTLE and SUCCESS style
// their operand.
package renderer

import (
	"fmt"
	"regexp"
	"strings"

	"fours/pkg/engine/i18n"
)

var markupPattern = regexp.MustCompile(`([A-Z_]*){([^{}]+)}`)

// styles maps markup functions to text styles.
var styles = map[string]TextStyle{
	"ACTION":  StyleAction,
	"ITEM":    StyleItem,
	"ROOM":    StyleRoom,
	"DENIED":  StyleDenied,
	"SUBTLE":  StyleSubtle,
	"SUCCESS": StyleSuccess,
}

// Markup formats msg with args and expands every FUNC{operand} in the result
// through style. Unknown functions are left as they are.
func Markup(msg string, args []any, style func(text string, s TextStyle) string) string {
	ret := msg
	if len(args) > 0 {
		ret = fmt.Sprintf(msg, args...)
	}

	return markupPattern.ReplaceAllStringFunc(ret, func(match string) string {
		m := markupPattern.FindStringSubmatch(match)
		function, operand := m[1], m[2]

		if function == "GT" {
			return i18n.T(operand)
		}
		s, ok := styles[function]
		if !ok {
			return match
		}
		if s == StyleAction && len(operand) > 1 && !strings.ContainsAny(operand, "0123456789") {
			return style(operand[0:1], StyleActionShort) + style(operand[1:], StyleAction)
		}
		return style(operand, s)
	})
}

// Plain is a style function that drops styling.
func Plain(text string, _ TextStyle) string {
	return text
}
