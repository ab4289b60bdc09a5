package main

import (
	"errors"
	"fmt"

	log "github.com/sirupsen/logrus"
)

// planUploads returns the subset of assets that must be uploaded, in the
// order the walk produced them. Per asset: no remote object under the same
// key means upload; matching mtime and size means in sync without touching
// the file; anything else falls through to ETag verification.
func planUploads(assets []LocalAsset, inventory map[string]RemoteObject, uploadFolder string, chunkSizeMB int) ([]LocalAsset, error) {
	planned := make([]LocalAsset, 0)
	for _, asset := range assets {
		upload, decideErr := needsUpload(asset, inventory, uploadFolder, chunkSizeMB)
		if decideErr != nil {
			return planned, decideErr
		}
		if upload {
			planned = append(planned, asset)
		}
	}

	return planned, nil
}

func needsUpload(asset LocalAsset, inventory map[string]RemoteObject, uploadFolder string, chunkSizeMB int) (bool, error) {
	key := remoteKey(uploadFolder, asset.RelKey)
	remote, ok := inventory[key]
	if !ok {
		log.Debug(fmt.Sprintf("%s not in bucket, will upload", key))
		return true, nil
	}

	// S3 keeps the upload time as LastModified, so equality only holds
	// when the uploader stamped the object with the local mtime. When it
	// does hold alongside the size, content that happens to differ is
	// skipped anyway; that trade is what keeps this path free of reads.
	if remote.LastModified == asset.ModTime && remote.Size == asset.Size {
		log.Debug(fmt.Sprintf("%s is in sync, no action required", key))
		return false, nil
	}

	match, verifyErr := verifyETag(asset.AbsPath, chunkSizeMB, remote.ETag)
	if verifyErr != nil {
		if errors.Is(verifyErr, ErrGuessExhausted) {
			log.Info(fmt.Sprintf("%s cannot be verified against %s, will re-upload", key, remote.ETag))
			return true, nil
		}
		return false, verifyErr
	}
	if match {
		log.Debug(fmt.Sprintf("%s matches remote checksum, no action required", key))
		return false, nil
	}
	log.Info(fmt.Sprintf("%s has been modified, will update", key))

	return true, nil
}
