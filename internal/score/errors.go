package score

import "errors"

// ErrDataSource marks a failure reading score records. Callers should not expose
// the wrapped detail.
var ErrDataSource = errors.New("score data source unavailable")
