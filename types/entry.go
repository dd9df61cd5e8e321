package types

import (
	"fmt"
	"path"
	"strconv"
	"strings"
	"time"
)

// linkSeparator splits a raw symlink name from its target in ls output.
const linkSeparator = " -> "

// months is the fixed set of month abbreviations accepted in listing dates.
// Matching is case-sensitive.
var months = map[string]time.Month{
	"Jan": time.January,
	"Feb": time.February,
	"Mar": time.March,
	"Apr": time.April,
	"May": time.May,
	"Jun": time.June,
	"Jul": time.July,
	"Aug": time.August,
	"Sep": time.September,
	"Oct": time.October,
	"Nov": time.November,
	"Dec": time.December,
}

// Entry represents one file, directory, symlink or device node on the device.
type Entry struct {
	Perms    string // 10-character mode string, e.g. "drwxr-xr-x"
	Links    int    // hard link count
	UID      int
	GID      int
	Size     int64
	DateTime string // raw "<Mon> <day> <HH:MM:SS> <year>" until Update
	Name     string // base name; raw symlink lines carry " -> target" until Update

	Dirname    string    // absolute containing directory
	Type       EntryType // derived from Perms[0]
	LinkTarget string    // absolute after Update, relative after MakeLinkRelative
	Filepath   string    // Dirname/Name
	Modified   time.Time
}

// Update binds the entry to its containing directory and derives the
// computed fields. It fails with a *ParseError when the date is malformed.
func (e *Entry) Update(dirname string) error {
	modified, err := ParseDateTime(e.DateTime)
	if err != nil {
		return err
	}
	e.Modified = modified
	e.DateTime = FormatDateTime(modified)

	e.Dirname = dirname
	e.Type = TypeOf(e.Perms)

	if e.Type == TypeSymlink {
		if name, target, ok := strings.Cut(e.Name, linkSeparator); ok {
			e.Name = name
			if strings.HasPrefix(target, "/") {
				e.LinkTarget = path.Clean(target)
			} else {
				e.LinkTarget = path.Join(dirname, target)
			}
		}
	}

	e.Filepath = path.Join(dirname, e.Name)
	return nil
}

// MakeLinkRelative rewrites an absolute LinkTarget as a path relative to
// the entry's own directory.
func (e *Entry) MakeLinkRelative() {
	if e.LinkTarget == "" || !strings.HasPrefix(e.LinkTarget, "/") {
		return
	}
	e.LinkTarget = RelPath(e.Dirname, e.LinkTarget)
}

// IsDir reports whether the entry is a directory node.
func (e *Entry) IsDir() bool { return e.Type == TypeDir }

// IsSymlink reports whether the entry is a symbolic link.
func (e *Entry) IsSymlink() bool { return e.Type == TypeSymlink }

// DisplayName is the absolute path plus " -> target" when a link target is set.
func (e *Entry) DisplayName() string {
	if e.LinkTarget != "" {
		return e.Filepath + linkSeparator + e.LinkTarget
	}
	return e.Filepath
}

// String returns the fixed-column extfs listing row for this entry.
func (e Entry) String() string {
	return fmt.Sprintf("%s %4d %-8d %-8d %8d %s %s",
		e.Perms, e.Links, e.UID, e.GID, e.Size, e.DateTime, e.DisplayName())
}

// ParseDateTime parses the "<Mon> <day> <HH:MM:SS> <year>" form printed by
// "ls -e". Runs of spaces between fields are tolerated.
func ParseDateTime(s string) (time.Time, error) {
	fields := strings.Fields(s)
	if len(fields) != 4 {
		return time.Time{}, &ParseError{Field: "date", Value: s}
	}
	month, ok := months[fields[0]]
	if !ok {
		return time.Time{}, &ParseError{Field: "month", Value: fields[0]}
	}
	day, err := strconv.Atoi(fields[1])
	if err != nil {
		return time.Time{}, &ParseError{Field: "day", Value: fields[1], Err: err}
	}
	clock := strings.Split(fields[2], ":")
	if len(clock) != 3 {
		return time.Time{}, &ParseError{Field: "time", Value: fields[2]}
	}
	var hms [3]int
	for i, part := range clock {
		n, err := strconv.Atoi(part)
		if err != nil {
			return time.Time{}, &ParseError{Field: "time", Value: fields[2], Err: err}
		}
		hms[i] = n
	}
	year, err := strconv.Atoi(fields[3])
	if err != nil {
		return time.Time{}, &ParseError{Field: "year", Value: fields[3], Err: err}
	}
	if hms[0] > 23 || hms[1] > 59 || hms[2] > 59 || hms[0] < 0 || hms[1] < 0 || hms[2] < 0 {
		return time.Time{}, &ParseError{Field: "time", Value: fields[2]}
	}

	t := time.Date(year, month, day, hms[0], hms[1], hms[2], 0, time.UTC)
	if t.Day() != day || t.Month() != month {
		return time.Time{}, &ParseError{Field: "day", Value: fields[1]}
	}
	return t, nil
}

// FormatDateTime renders t as "MM/DD/YYYY HH:MM:01". The seconds column is
// always 01.
func FormatDateTime(t time.Time) string {
	return t.Format("01/02/2006 15:04") + ":01"
}

// RelPath returns target relative to dir. Both are absolute slash paths.
func RelPath(dir, target string) string {
	from := splitPath(dir)
	to := splitPath(target)

	common := 0
	for common < len(from) && common < len(to) && from[common] == to[common] {
		common++
	}

	parts := make([]string, 0, len(from)-common+len(to)-common)
	for range from[common:] {
		parts = append(parts, "..")
	}
	parts = append(parts, to[common:]...)
	if len(parts) == 0 {
		return "."
	}
	return strings.Join(parts, "/")
}

func splitPath(p string) []string {
	p = strings.Trim(path.Clean(p), "/")
	if p == "" {
		return nil
	}
	return strings.Split(p, "/")
}
