package memory

import "errors"

// ErrClosed is returned by Append after Close.
var ErrClosed = errors.New("memory history store closed")
