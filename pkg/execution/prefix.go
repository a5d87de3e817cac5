package execution

import (
	"strconv"
	"strings"
	"time"

	"github.com/itchyny/timefmt-go"
)

// FormatPrefix expands the prefix specifiers:
//
//	%Y %y %m %d %H %I %M %S  calendar fields, zero padded
//	%F %T                    full date, full time
//	%N                       milliseconds
//	%n %t %%                 newline, tab, percent
//	%PID                     child process id
//
// Unknown sequences are copied as written.
func FormatPrefix(format string, now time.Time, pid int) string {
	if !strings.Contains(format, "%") {
		return format
	}
	buf := make([]byte, 0, len(format)+16)
	for i := 0; i < len(format); i++ {
		c := format[i]
		if c != '%' || i == len(format)-1 {
			buf = append(buf, c)
			continue
		}
		if strings.HasPrefix(format[i:], "%PID") {
			buf = strconv.AppendInt(buf, int64(pid), 10)
			i += len("%PID") - 1
			continue
		}
		verb := format[i+1]
		switch verb {
		case 'Y', 'y', 'm', 'd', 'H', 'I', 'M', 'S', 'F', 'T':
			buf = timefmt.AppendFormat(buf, now, "%"+string(verb))
		case 'N':
			ms := now.Nanosecond() / int(time.Millisecond)
			if ms < 100 {
				buf = append(buf, '0')
			}
			if ms < 10 {
				buf = append(buf, '0')
			}
			buf = strconv.AppendInt(buf, int64(ms), 10)
		case 'n':
			buf = append(buf, '\n')
		case 't':
			buf = append(buf, '\t')
		case '%':
			buf = append(buf, '%')
		default:
			buf = append(buf, '%', verb)
		}
		i++
	}
	return string(buf)
}
