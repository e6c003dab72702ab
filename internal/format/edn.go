package format

import (
	"bytes"
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"

	json "github.com/goccy/go-json"
)

// WriteEDN writes the EDN subset our payloads need: maps, vectors, strings,
// numbers, booleans and nil. Values go through JSON first so struct tags
// decide the key names; numbers are kept as written so ids never pass
// through float64.
func WriteEDN(w io.Writer, v any, pretty bool) error {
	b, err := json.Marshal(v)
	if err != nil {
		return err
	}
	dec := json.NewDecoder(bytes.NewReader(b))
	dec.UseNumber()
	var x any
	if err := dec.Decode(&x); err != nil {
		return err
	}

	var buf bytes.Buffer
	enc := ednEncoder{pretty: pretty, indent: 2}
	enc.writeAny(&buf, x, 0)
	buf.WriteByte('\n')
	_, err = w.Write(buf.Bytes())
	return err
}

type ednEncoder struct {
	pretty bool
	indent int
}

func (e ednEncoder) writeAny(buf *bytes.Buffer, v any, level int) {
	switch t := v.(type) {
	case nil:
		buf.WriteString("nil")
	case bool:
		buf.WriteString(strconv.FormatBool(t))
	case string:
		buf.WriteString(strconv.Quote(t))
	case json.Number:
		buf.WriteString(t.String())
	case []any:
		e.writeSeq(buf, '[', ']', len(t), level, func(i int) { e.writeAny(buf, t[i], level+1) })
	case map[string]any:
		keys := make([]string, 0, len(t))
		for k := range t {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		e.writeSeq(buf, '{', '}', len(keys), level, func(i int) {
			buf.WriteByte(':')
			buf.WriteString(ednKeyword(keys[i]))
			buf.WriteByte(' ')
			e.writeAny(buf, t[keys[i]], level+1)
		})
	default:
		buf.WriteString(strconv.Quote(fmt.Sprintf("%v", v)))
	}
}

func (e ednEncoder) writeSeq(buf *bytes.Buffer, open, close byte, n, level int, item func(i int)) {
	buf.WriteByte(open)
	if n == 0 {
		buf.WriteByte(close)
		return
	}
	if e.pretty {
		buf.WriteByte('\n')
	}
	for i := 0; i < n; i++ {
		if e.pretty {
			buf.WriteString(strings.Repeat(" ", (level+1)*e.indent))
		}
		item(i)
		if i != n-1 {
			if e.pretty {
				buf.WriteByte('\n')
			} else {
				buf.WriteByte(' ')
			}
		}
	}
	if e.pretty {
		buf.WriteByte('\n')
		buf.WriteString(strings.Repeat(" ", level*e.indent))
	}
	buf.WriteByte(close)
}

// ednKeyword turns a JSON key into a keyword name; spaces become dashes.
func ednKeyword(s string) string {
	return strings.ReplaceAll(strings.TrimSpace(s), " ", "-")
}
