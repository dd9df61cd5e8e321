// Package adbfs exposes the filesystem of an Android device, reached over
// adb, as a flat listing for a file manager's external-filesystem protocol.
//
// The Lister drives recursive "ls" calls through a Transport and builds the
// entry table; Normalize resolves symlink chains against that table and
// drops links that lead nowhere; WriteListing renders the result.
package adbfs

import "github.com/jackfish212/adbfs/types"

type (
	Entry          = types.Entry
	EntryType      = types.EntryType
	Transport      = types.Transport
	TransportError = types.TransportError
	MutationError  = types.MutationError
	ParseError     = types.ParseError
	CycleError     = types.CycleError
)

const (
	TypeNone    = types.TypeNone
	TypeFile    = types.TypeFile
	TypeDir     = types.TypeDir
	TypeSymlink = types.TypeSymlink
	TypeBlock   = types.TypeBlock
	TypeChar    = types.TypeChar
	TypePipe    = types.TypePipe
	TypeSocket  = types.TypeSocket
)

var (
	ErrInvocation     = types.ErrInvocation
	ErrTransport      = types.ErrTransport
	ErrMutation       = types.ErrMutation
	ErrParse          = types.ErrParse
	ErrLinkCycle      = types.ErrLinkCycle
	ErrUnresolvedLink = types.ErrUnresolvedLink
	ErrNotSupported   = types.ErrNotSupported
	ErrTimeout        = types.ErrTimeout
)
