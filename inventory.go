package main

import (
	"fmt"
)

// RemoteObject is one normalized inventory entry: ETag quote-stripped and
// lowercased, timestamp reduced to unix seconds to match LocalAsset.
type RemoteObject struct {
	ETag         string
	Size         int64
	LastModified int64
}

// fetchInventory lists the whole bucket and keys the result by object key.
// An empty bucket yields an empty map; the planner reads that as "upload
// everything".
func fetchInventory(client BucketClient, bucket string) (map[string]RemoteObject, error) {
	records, listErr := client.ListObjects(bucket)
	if listErr != nil {
		return nil, fmt.Errorf("%w: listing bucket %s: %v", ErrStorage, bucket, listErr)
	}

	inventory := make(map[string]RemoteObject, len(records))
	for _, record := range records {
		inventory[record.Key] = RemoteObject{
			ETag:         normalizeETag(record.ETag),
			Size:         record.Size,
			LastModified: record.LastModified.Unix(),
		}
	}

	return inventory, nil
}
