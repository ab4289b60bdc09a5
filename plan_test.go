package main

import (
	"crypto/md5"
	"encoding/hex"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
)

func writeAsset(t *testing.T, relKey, content string) LocalAsset {
	t.Helper()
	path := filepath.Join(t.TempDir(), filepath.FromSlash(relKey))
	mkdirErr := os.MkdirAll(filepath.Dir(path), 0755)
	assert.Nil(t, mkdirErr)
	writeErr := os.WriteFile(path, []byte(content), 0644)
	assert.Nil(t, writeErr)
	info, statErr := os.Stat(path)
	assert.Nil(t, statErr)
	return LocalAsset{
		RelKey:  relKey,
		AbsPath: path,
		ModTime: info.ModTime().Unix(),
		Size:    info.Size(),
		Ext:     filepath.Ext(relKey),
	}
}

func md5Hex(content string) string {
	sum := md5.Sum([]byte(content))
	return hex.EncodeToString(sum[:])
}

func TestEmptyInventoryPlansEverything(t *testing.T) {
	assets := []LocalAsset{
		{RelKey: "css/site.css", AbsPath: "/no/read/needed", Size: 10},
		{RelKey: "img/logo.png", AbsPath: "/no/read/needed", Size: 20},
		{RelKey: "index.html", AbsPath: "/no/read/needed", Size: 30},
	}

	planned, planErr := planUploads(assets, map[string]RemoteObject{}, "", 8)

	assert.Nil(t, planErr)
	assert.Equal(t, assets, planned)
}

func TestMetadataFastPathSkipsWithoutReading(t *testing.T) {
	asset := writeAsset(t, "site.css", "body { color: red }")
	// The hash is wrong on purpose: matching mtime and size wins before
	// any content is read.
	inventory := map[string]RemoteObject{
		"site.css": {
			ETag:         "00000000000000000000000000000000",
			Size:         asset.Size,
			LastModified: asset.ModTime,
		},
	}

	planned, planErr := planUploads([]LocalAsset{asset}, inventory, "", 8)

	assert.Nil(t, planErr)
	assert.Len(t, planned, 0)
}

func TestChecksumMatchSkips(t *testing.T) {
	content := "body { color: red }"
	asset := writeAsset(t, "site.css", content)
	inventory := map[string]RemoteObject{
		"site.css": {
			ETag:         md5Hex(content),
			Size:         asset.Size,
			LastModified: asset.ModTime - 3600,
		},
	}

	planned, planErr := planUploads([]LocalAsset{asset}, inventory, "", 8)

	assert.Nil(t, planErr)
	assert.Len(t, planned, 0)
}

func TestChecksumMismatchUploads(t *testing.T) {
	asset := writeAsset(t, "site.css", "body { color: red }")
	inventory := map[string]RemoteObject{
		"site.css": {
			ETag:         md5Hex("body { color: blue }"),
			Size:         asset.Size,
			LastModified: asset.ModTime - 3600,
		},
	}

	planned, planErr := planUploads([]LocalAsset{asset}, inventory, "", 8)

	assert.Nil(t, planErr)
	assert.Len(t, planned, 1)
	assert.Equal(t, "site.css", planned[0].RelKey)
}

func TestGuessExhaustedMeansUpload(t *testing.T) {
	asset := writeAsset(t, "site.css", "tiny")
	// A 2-part multipart tag can never be reproduced from a 4-byte file,
	// so the guess range is empty and the file must be re-uploaded.
	inventory := map[string]RemoteObject{
		"site.css": {
			ETag:         "00000000000000000000000000000000-2",
			Size:         asset.Size,
			LastModified: asset.ModTime - 3600,
		},
	}

	planned, planErr := planUploads([]LocalAsset{asset}, inventory, "", 8)

	assert.Nil(t, planErr)
	assert.Len(t, planned, 1)
}

func TestUploadFolderPrefixUsedForLookup(t *testing.T) {
	asset := writeAsset(t, "site.css", "body { color: red }")
	inventory := map[string]RemoteObject{
		"static/site.css": {
			ETag:         "00000000000000000000000000000000",
			Size:         asset.Size,
			LastModified: asset.ModTime,
		},
	}

	planned, planErr := planUploads([]LocalAsset{asset}, inventory, "static", 8)

	assert.Nil(t, planErr)
	assert.Len(t, planned, 0)
}

func TestUnreadableFileAbortsPlanning(t *testing.T) {
	asset := LocalAsset{
		RelKey:  "gone.css",
		AbsPath: "/does/not/exist",
		ModTime: 1000,
		Size:    10,
	}
	inventory := map[string]RemoteObject{
		"gone.css": {
			ETag:         md5Hex("something"),
			Size:         99,
			LastModified: 2000,
		},
	}

	_, planErr := planUploads([]LocalAsset{asset}, inventory, "", 8)

	assert.ErrorIs(t, planErr, ErrRead)
}
