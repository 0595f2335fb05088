package errors

import "errors"

// ErrOptimisticLock means the row was modified by a concurrent operation
// after this writer read it. Surfaced to the caller as ConcurrentUpdate;
// never retried silently because validation depends on sibling rows.
var ErrOptimisticLock = errors.New("il dato è stato modificato da un'altra operazione, ricaricare e riprovare")
