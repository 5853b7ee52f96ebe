//nolint
package store

import trustee "github.com/iov-one/trustee"

// Move references for all storage types into this package
// for shorter names everywhere

type ReadOnlyKVStore = trustee.ReadOnlyKVStore
type KVStore = trustee.KVStore
type SetDeleter = trustee.SetDeleter
type Batch = trustee.Batch
type Iterator = trustee.Iterator
type CacheableKVStore = trustee.CacheableKVStore
type KVCacheWrap = trustee.KVCacheWrap
type CommitKVStore = trustee.CommitKVStore
type CommitID = trustee.CommitID
type Model = trustee.Model
