package types

// EntryType is the single-character type discriminator taken from the first
// character of an ls mode string.
type EntryType byte

const (
	TypeNone    EntryType = 0
	TypeFile    EntryType = '-'
	TypeDir     EntryType = 'd'
	TypeSymlink EntryType = 'l'
	TypeBlock   EntryType = 'b'
	TypeChar    EntryType = 'c'
	TypePipe    EntryType = 'p'
	TypeSocket  EntryType = 's'
)

// TypeOf returns the type discriminator of a mode string, or TypeNone when
// perms is empty.
func TypeOf(perms string) EntryType {
	if perms == "" {
		return TypeNone
	}
	return EntryType(perms[0])
}

func (t EntryType) String() string {
	switch t {
	case TypeNone:
		return "none"
	case TypeFile:
		return "file"
	case TypeDir:
		return "dir"
	case TypeSymlink:
		return "symlink"
	case TypeBlock:
		return "block"
	case TypeChar:
		return "char"
	case TypePipe:
		return "pipe"
	case TypeSocket:
		return "socket"
	}
	return string(rune(t))
}
