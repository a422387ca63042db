package rank

import "errors"

// ErrCorpusRequired is returned when Rank is called with a nil corpus.
var ErrCorpusRequired = errors.New("corpus is required")
