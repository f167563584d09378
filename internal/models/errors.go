package models

import (
	"errors"
	"fmt"
)

// ErrorKind はリモートストアのエラー分類です。
type ErrorKind int

const (
	KindUnknown ErrorKind = iota
	KindNotFound
	KindInvalid
	KindUnauthorized
	KindUnavailable
)

func (k ErrorKind) String() string {
	switch k {
	case KindNotFound:
		return "not_found"
	case KindInvalid:
		return "invalid"
	case KindUnauthorized:
		return "unauthorized"
	case KindUnavailable:
		return "unavailable"
	default:
		return "unknown"
	}
}

// RemoteError はストア呼び出しが返す唯一のエラー型です。
type RemoteError struct {
	Op   string
	Kind ErrorKind
	Err  error
}

// NewRemoteError は err を Op と Kind 付きで包みます。
func NewRemoteError(op string, kind ErrorKind, err error) *RemoteError {
	return &RemoteError{Op: op, Kind: kind, Err: err}
}

func (e *RemoteError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("%s failed (%s)", e.Op, e.Kind)
	}
	return fmt.Sprintf("%s failed: %v", e.Op, e.Err)
}

func (e *RemoteError) Unwrap() error {
	return e.Err
}

// KindOf は err の中の RemoteError の Kind を返します。RemoteError でなければ KindUnknown です。
func KindOf(err error) ErrorKind {
	var remoteErr *RemoteError
	if errors.As(err, &remoteErr) {
		return remoteErr.Kind
	}
	return KindUnknown
}
