package audit

import "errors"

// ErrInvalidInput indicates an entry without a case or action.
var ErrInvalidInput = errors.New("invalid audit input")
