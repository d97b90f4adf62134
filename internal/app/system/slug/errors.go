package slug

import "errors"

// ErrExhausted is returned when every candidate slug was taken.
var ErrExhausted = errors.New("slug: no free slug after retries")
