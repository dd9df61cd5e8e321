package mounts

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestFixtureListing(t *testing.T) {
	f := NewFixtureTransport()
	f.AddListing("/", "root")
	f.AddListing("/sdcard/", "sdcard")
	ctx := context.Background()

	for _, tt := range []struct{ dir, want string }{
		{"", "root\n"},
		{"/", "root\n"},
		{"/sdcard", "sdcard\n"},
		{"/empty", ""},
	} {
		got, err := f.ListDirectory(ctx, tt.dir)
		if err != nil {
			t.Fatalf("ListDirectory(%q): %v", tt.dir, err)
		}
		if got != tt.want {
			t.Errorf("ListDirectory(%q) = %q, want %q", tt.dir, got, tt.want)
		}
	}

	calls := f.ListCalls()
	want := []string{"/", "/", "/sdcard", "/empty"}
	if len(calls) != len(want) {
		t.Fatalf("ListCalls = %q, want %q", calls, want)
	}
	for i := range want {
		if calls[i] != want[i] {
			t.Errorf("ListCalls[%d] = %q, want %q", i, calls[i], want[i])
		}
	}
}

func TestFixtureListingFiltered(t *testing.T) {
	f := NewFixtureTransport()
	f.AddListing("/", "/:\r\ntotal 16\r\n-rw-r--r-- 1 0 0 3 Jan  1 00:00:00 2020 a\r\n")

	got, err := f.ListDirectory(context.Background(), "/")
	if err != nil {
		t.Fatalf("ListDirectory: %v", err)
	}
	want := "/:\n-rw-r--r-- 1 0 0 3 Jan  1 00:00:00 2020 a\n"
	if got != want {
		t.Errorf("ListDirectory = %q, want %q", got, want)
	}
}

func TestFixtureFailure(t *testing.T) {
	f := NewFixtureTransport()
	boom := errors.New("boom")
	f.FailListing("/data", boom)
	if _, err := f.ListDirectory(context.Background(), "/data"); !errors.Is(err, boom) {
		t.Errorf("err = %v, want boom", err)
	}
}

func TestFixtureCommands(t *testing.T) {
	f := NewFixtureTransport()
	f.SetResult("shell", CommandResult{ExitCode: 1, Stderr: "denied"})
	ctx := context.Background()

	code, stderr, err := f.RunCommand(ctx, []string{"shell", "rm", "/x"})
	if err != nil || code != 1 || stderr != "denied" {
		t.Errorf("RunCommand shell = (%d, %q, %v)", code, stderr, err)
	}
	code, stderr, err = f.RunCommand(ctx, []string{"push", "a", "b"})
	if err != nil || code != 0 || stderr != "" {
		t.Errorf("RunCommand push = (%d, %q, %v)", code, stderr, err)
	}

	cmds := f.Commands()
	if len(cmds) != 2 || cmds[1][0] != "push" {
		t.Errorf("Commands = %q", cmds)
	}
}

func TestFixtureDelayHonorsContext(t *testing.T) {
	f := NewFixtureTransport()
	f.SetDelay(time.Second)
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()
	if _, err := f.ListDirectory(ctx, "/"); !errors.Is(err, context.DeadlineExceeded) {
		t.Errorf("err = %v, want DeadlineExceeded", err)
	}
}
