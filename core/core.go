package core

import "errors"

var ErrNotFound = errors.New("core: record not found")
