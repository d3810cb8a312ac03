package database

import (
	"bytes"

	"github.com/obsidiannet/obsidiand/domain/consensus/model"
	"github.com/obsidiannet/obsidiand/infrastructure/db/database"
)

var bucketSeparator = []byte("/")

func dbBucketToDatabaseBucket(bucket model.DBBucket) *database.Bucket {
	if bucket, ok := bucket.(dbBucket); ok {
		return bucket.bucket
	}
	// Rebuild the bucket out of its path. Bucket names are assumed to
	// not contain the separator.
	path := bytes.TrimSuffix(bucket.Path(), bucketSeparator)
	return database.MakeBucket(bytes.Split(path, bucketSeparator)...)
}

// MakeBucket creates a new Bucket using the given path of buckets.
func MakeBucket(path ...[]byte) model.DBBucket {
	return dbBucket{bucket: database.MakeBucket(path...)}
}

type dbBucket struct {
	bucket *database.Bucket
}

func (d dbBucket) Bucket(bucketBytes []byte) model.DBBucket {
	return newDBBucket(d.bucket.Bucket(bucketBytes))
}

func (d dbBucket) Key(suffix []byte) model.DBKey {
	return newDBKey(d.bucket.Key(suffix))
}

func (d dbBucket) Path() []byte {
	return d.bucket.Path()
}

func newDBBucket(bucket *database.Bucket) model.DBBucket {
	return dbBucket{bucket: bucket}
}
