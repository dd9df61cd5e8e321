package adbfs

import (
	"bufio"
	"io"
)

// WriteListing writes entries to w in the extfs listing format, one row per
// entry in table order.
func WriteListing(w io.Writer, entries []*Entry) error {
	bw := bufio.NewWriter(w)
	for _, e := range entries {
		if _, err := bw.WriteString(e.String()); err != nil {
			return err
		}
		if err := bw.WriteByte('\n'); err != nil {
			return err
		}
	}
	return bw.Flush()
}
