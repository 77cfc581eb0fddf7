/*
Copyright © 2026 Benny Powers <web@bennypowers.com>

This program is free software: you can redistribute it and/or modify
it under the terms of the GNU General Public License as published by
the Free Software Foundation, either version 3 of the License, or
(at your option) any later version.

This program is distributed in the hope that it will be useful,
but WITHOUT ANY WARRANTY; without even the implied warranty of
MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
GNU General Public License for more details.

You should have received a copy of the GNU General Public License
along with this program. If not, see <http://www.gnu.org/licenses/>.
*/

package output

import (
	"fmt"
	"io"
	"sync"

	"github.com/fatih/color"
)

// Logger writes warnings and, when verbose, debug messages to a stream,
// usually stderr.
type Logger struct {
	mu      sync.Mutex
	w       io.Writer
	verbose bool
	warning *color.Color
	debug   *color.Color
}

// NewLogger creates a Logger writing to w.
func NewLogger(w io.Writer, verbose, useColor bool) *Logger {
	return &Logger{
		w:       w,
		verbose: verbose,
		warning: newColor(useColor, color.FgYellow),
		debug:   newColor(useColor, color.Faint),
	}
}

// Warning logs a warning message.
func (l *Logger) Warning(format string, args ...any) {
	l.log(l.warning, "Warning:", format, args...)
}

// Debug logs a debug message if verbose logging is enabled.
func (l *Logger) Debug(format string, args ...any) {
	if !l.verbose {
		return
	}
	l.log(l.debug, "Debug:", format, args...)
}

func (l *Logger) log(c *color.Color, prefix, format string, args ...any) {
	l.mu.Lock()
	defer l.mu.Unlock()
	_, _ = fmt.Fprintf(l.w, "%s %s\n", c.Sprint(prefix), fmt.Sprintf(format, args...))
}
