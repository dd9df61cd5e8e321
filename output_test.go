package adbfs

import (
	"bytes"
	"context"
	"testing"

	"github.com/jackfish212/adbfs/mounts"
)

func TestWriteListing(t *testing.T) {
	tr := mounts.NewFixtureTransport()
	tr.AddListing("/", `/:
drwxr-xr-x    2 0        0          4096 Jan  5 10:20:30 2021 system
lrwxrwxrwx    1 0        0            11 Jan  5 10:20:30 2021 etc -> /system/etc

/system:
drwxr-xr-x    2 0        0          4096 Jan  5 10:20:30 2021 etc
`)
	cfg := testConfig()
	cfg.Rescan = false
	l, err := NewLister(tr, cfg).List(context.Background())
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if err := Normalize(l); err != nil {
		t.Fatalf("Normalize: %v", err)
	}

	var buf bytes.Buffer
	if err := WriteListing(&buf, l.Entries); err != nil {
		t.Fatalf("WriteListing: %v", err)
	}
	want := "drwxr-xr-x    2 0        0            4096 01/05/2021 10:20:01 /system\n" +
		"lrwxrwxrwx    1 0        0              11 01/05/2021 10:20:01 /etc -> system/etc\n" +
		"drwxr-xr-x    2 0        0            4096 01/05/2021 10:20:01 /system/etc\n"
	if got := buf.String(); got != want {
		t.Errorf("WriteListing =\n%s\nwant\n%s", got, want)
	}
}

func TestWriteListingEmpty(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteListing(&buf, nil); err != nil {
		t.Fatalf("WriteListing: %v", err)
	}
	if buf.Len() != 0 {
		t.Errorf("output = %q, want empty", buf.String())
	}
}
