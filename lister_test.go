package adbfs

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/jackfish212/adbfs/mounts"
)

const rootListing = `/:
total 40
drwxr-xr-x    2 0        0             0 Jan  1 00:00:00 1970 acct
drwxr-xr-x    3 1000     1000       4096 Mar 14 09:12:33 2021 real_dir
lrwxrwxrwx    1 0        0            17 Jan  1 00:00:00 1970 d -> /sys/kernel/debug
lrwxrwxrwx    1 0        0            21 Jan  1 00:00:00 1970 sdcard -> /storage/self/primary
-rw-r--r--    1 0        0           941 Jan  1 00:00:00 1970 init.rc

/acct:
drwxr-xr-x    2 0        0             0 Jan  1 00:00:00 1970 uid_0

/real_dir:
-rw-rw----    1 1000     1000         12 Mar 14 09:12:33 2021 file.txt
`

const realDirListing = `/real_dir:
total 8
drwxrwx---    2 1000     1000       4096 Mar 14 09:12:33 2021 .
drwxr-xr-x   20 0        0          4096 Jan  1 00:00:00 1970 ..
-rw-rw----    1 1000     1000         12 Mar 14 09:12:33 2021 file.txt
drwxrwx---    2 1000     1000       4096 Mar 14 09:12:33 2021 sub

/real_dir/sub:
-rw-rw----    1 1000     1000          3 Mar 14 09:12:33 2021 deep.txt
`

func testConfig() Config {
	cfg := DefaultConfig()
	cfg.Timeout = 0
	return cfg
}

func filepaths(entries []*Entry) []string {
	out := make([]string, len(entries))
	for i, e := range entries {
		out[i] = e.Filepath
	}
	return out
}

func assertPaths(t *testing.T, entries []*Entry, want ...string) {
	t.Helper()
	got := filepaths(entries)
	if strings.Join(got, "\n") != strings.Join(want, "\n") {
		t.Errorf("entries =\n  %s\nwant\n  %s", strings.Join(got, "\n  "), strings.Join(want, "\n  "))
	}
}

func TestListerRescan(t *testing.T) {
	tr := mounts.NewFixtureTransport()
	tr.AddListing("/", rootListing)
	tr.AddListing("/real_dir", realDirListing)

	listing, err := NewLister(tr, testConfig()).List(context.Background())
	if err != nil {
		t.Fatalf("List: %v", err)
	}

	assertPaths(t, listing.Entries,
		"/real_dir",
		"/real_dir/file.txt",
		"/real_dir/sub",
		"/real_dir/sub/deep.txt",
		"/sdcard",
		"/init.rc",
	)

	calls := tr.ListCalls()
	if strings.Join(calls, ",") != "/,/real_dir" {
		t.Errorf("ListCalls = %q, want [/ /real_dir]", calls)
	}

	if len(listing.Links) != 1 || listing.Links["/sdcard"] == nil {
		t.Errorf("Links = %v, want only /sdcard", listing.Links)
	}
	if got := listing.Links["/sdcard"].LinkTarget; got != "/storage/self/primary" {
		t.Errorf("sdcard LinkTarget = %q", got)
	}
}

func TestListerSingleScan(t *testing.T) {
	tr := mounts.NewFixtureTransport()
	tr.AddListing("/", rootListing)

	cfg := testConfig()
	cfg.Rescan = false
	listing, err := NewLister(tr, cfg).List(context.Background())
	if err != nil {
		t.Fatalf("List: %v", err)
	}

	assertPaths(t, listing.Entries,
		"/real_dir",
		"/sdcard",
		"/init.rc",
		"/real_dir/file.txt",
	)
	if calls := tr.ListCalls(); len(calls) != 1 {
		t.Errorf("ListCalls = %q, want one root call", calls)
	}
}

func TestListerNoSkip(t *testing.T) {
	tr := mounts.NewFixtureTransport()
	tr.AddListing("/", rootListing)

	cfg := testConfig()
	cfg.Rescan = false
	cfg.SkipSystemDirs = false
	listing, err := NewLister(tr, cfg).List(context.Background())
	if err != nil {
		t.Fatalf("List: %v", err)
	}

	assertPaths(t, listing.Entries,
		"/acct",
		"/real_dir",
		"/d",
		"/sdcard",
		"/init.rc",
		"/acct/uid_0",
		"/real_dir/file.txt",
	)
	if len(listing.Links) != 2 {
		t.Errorf("len(Links) = %d, want 2", len(listing.Links))
	}
}

func TestListerSkipOnlyAtRoot(t *testing.T) {
	tr := mounts.NewFixtureTransport()
	tr.AddListing("/", `/:
drwxr-xr-x    2 0        0             0 Jan  1 00:00:00 1970 proc
drwxrwx---    4 0        1015       4096 Mar 14 09:12:33 2021 sdcard

/proc:
-r--r--r--    1 0        0             0 Jan  1 00:00:00 1970 version

/sdcard:
drwxrwx---    2 0        1015       4096 Mar 14 09:12:33 2021 d
-rw-rw----    1 0        1015          7 Mar 14 09:12:33 2021 dev
lrwxrwxrwx    1 0        1015          4 Mar 14 09:12:33 2021 sys -> d

/sdcard/d:
-rw-rw----    1 0        1015          3 Mar 14 09:12:33 2021 notes.txt
`)

	cfg := testConfig()
	cfg.Rescan = false
	listing, err := NewLister(tr, cfg).List(context.Background())
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	assertPaths(t, listing.Entries,
		"/sdcard",
		"/sdcard/d",
		"/sdcard/dev",
		"/sdcard/sys",
		"/sdcard/d/notes.txt",
	)
}

func TestListerHeaderForms(t *testing.T) {
	raw := "./:\r\n" +
		"drwxr-xr-x 2 0 0 4096 Feb  3 04:05:06 2022 etc\r\n" +
		"\r\n" +
		"./etc:\r\n" +
		"-rw-r--r-- 1 0 0 10 Feb  3 04:05:06 2022 hosts\r\n" +
		"garbage line that is not a record\r\n" +
		"crw-rw-rw- 1 0 0 1,   3 Feb  3 04:05:06 2022 null\r\n" +
		"-rw-r--r-- 1 0 0 10 Feb  3 04:05:06 2022 name: with colon\r\n"
	tr := mounts.NewFixtureTransport()
	tr.AddListing("/", raw)

	cfg := testConfig()
	cfg.Rescan = false
	listing, err := NewLister(tr, cfg).List(context.Background())
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	assertPaths(t, listing.Entries, "/etc", "/etc/hosts", "/etc/name: with colon")
}

func TestListerDuplicatesDropped(t *testing.T) {
	tr := mounts.NewFixtureTransport()
	tr.AddListing("/", `/:
-rw-r--r-- 1 0 0 1 Jan  1 00:00:00 2020 a
-rw-r--r-- 1 0 0 2 Jan  1 00:00:00 2020 a
`)
	listing, err := NewLister(tr, testConfig()).List(context.Background())
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(listing.Entries) != 1 || listing.Entries[0].Size != 1 {
		t.Errorf("entries = %+v, want the first /a only", listing.Entries)
	}
}

func TestListerTransportFailureAborts(t *testing.T) {
	tr := mounts.NewFixtureTransport()
	tr.AddListing("/", rootListing)
	tr.FailListing("/real_dir", errors.New("device offline"))

	listing, err := NewLister(tr, testConfig()).List(context.Background())
	if listing != nil {
		t.Error("a failed scan must not return a listing")
	}
	var te *TransportError
	if !errors.As(err, &te) {
		t.Fatalf("err = %v, want *TransportError", err)
	}
	if te.Path != "/real_dir" {
		t.Errorf("Path = %q, want /real_dir", te.Path)
	}
	if !errors.Is(err, ErrTransport) {
		t.Error("err should match ErrTransport")
	}
}

func TestListerParseErrorIsFatal(t *testing.T) {
	tr := mounts.NewFixtureTransport()
	tr.AddListing("/", "/:\n-rw-r--r-- 1 0 0 1 Foo  1 00:00:00 2020 a\n")

	_, err := NewLister(tr, testConfig()).List(context.Background())
	var pe *ParseError
	if !errors.As(err, &pe) {
		t.Fatalf("err = %v, want *ParseError", err)
	}
	if !strings.Contains(pe.Line, "Foo") {
		t.Errorf("Line = %q, want the offending record", pe.Line)
	}
}

func TestListerTimeout(t *testing.T) {
	tr := mounts.NewFixtureTransport()
	tr.AddListing("/", rootListing)
	tr.SetDelay(time.Second)

	cfg := testConfig()
	cfg.Timeout = 20 * time.Millisecond
	_, err := NewLister(tr, cfg).List(context.Background())
	if !errors.Is(err, ErrTimeout) {
		t.Fatalf("err = %v, want ErrTimeout", err)
	}
}

func TestParseRecordFields(t *testing.T) {
	line := "-rwxr-x---    3 2000     1007    123456 Dec 31 23:59:59 1999 run.sh"
	m := recordRe.FindStringSubmatch(line)
	if m == nil {
		t.Fatal("record did not match")
	}
	e, err := parseRecord(m)
	if err != nil {
		t.Fatalf("parseRecord: %v", err)
	}
	if err := e.Update("/data/local/tmp"); err != nil {
		t.Fatalf("Update: %v", err)
	}
	want := "-rwxr-x---    3 2000     1007       123456 12/31/1999 23:59:01 /data/local/tmp/run.sh"
	if got := e.String(); got != want {
		t.Errorf("String() = %q, want %q", got, want)
	}
}
