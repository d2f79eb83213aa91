// SPDX-License-Identifier: GPL-3.0-or-later

package translate

import (
	"strconv"
	"strings"

	"github.com/fwtrace/reflector/internal/tracerecorder"
)

// formatPrintf expands a C printf-style format string against args, each
// already typed by the external parser (spec.md §4.4 USER_EVENT). Verbs it
// does not recognise are copied through literally rather than consuming an
// argument, so a malformed format string degrades gracefully instead of
// misaligning the remaining arguments.
func formatPrintf(format string, args []tracerecorder.Parameter) string {
	var b strings.Builder
	argi := 0
	next := func() (tracerecorder.Parameter, bool) {
		if argi >= len(args) {
			return tracerecorder.Parameter{}, false
		}
		p := args[argi]
		argi++
		return p, true
	}

	for i := 0; i < len(format); i++ {
		c := format[i]
		if c != '%' {
			b.WriteByte(c)
			continue
		}
		j := i + 1
		for j < len(format) && strings.ContainsRune("0123456789.lhz-+ #", rune(format[j])) {
			j++
		}
		if j >= len(format) {
			b.WriteByte(c)
			break
		}
		verb := format[j]
		switch verb {
		case '%':
			b.WriteByte('%')
		case 'd', 'i':
			if p, ok := next(); ok {
				b.WriteString(strconv.FormatInt(p.Int, 10))
			}
		case 'u':
			if p, ok := next(); ok {
				b.WriteString(strconv.FormatUint(p.Uint, 10))
			}
		case 'x':
			if p, ok := next(); ok {
				b.WriteString(strconv.FormatUint(p.Uint, 16))
			}
		case 'X':
			if p, ok := next(); ok {
				b.WriteString(strings.ToUpper(strconv.FormatUint(p.Uint, 16)))
			}
		case 'c':
			if p, ok := next(); ok {
				b.WriteByte(byte(p.Uint))
			}
		case 's':
			if p, ok := next(); ok {
				b.WriteString(p.Str)
			}
		case 'f', 'g', 'e':
			if p, ok := next(); ok {
				b.WriteString(strconv.FormatInt(p.Int, 10))
			}
		default:
			b.WriteByte('%')
			b.WriteByte(verb)
		}
		i = j
	}
	return b.String()
}
