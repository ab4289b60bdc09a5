package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestWalkAssetsProducesForwardSlashKeys(t *testing.T) {
	root := sourceFolderWith(t, map[string]string{
		"index.html":   "<html></html>",
		"css/site.css": "body {}",
		"img/logo.png": "not-a-real-png",
	})

	assets, walkErr := walkAssets(root, nil)

	assert.Nil(t, walkErr)
	assert.Len(t, assets, 3)
	assert.Equal(t, "css/site.css", assets[0].RelKey)
	assert.Equal(t, "img/logo.png", assets[1].RelKey)
	assert.Equal(t, "index.html", assets[2].RelKey)
	assert.Equal(t, ".css", assets[0].Ext)
	assert.Equal(t, int64(7), assets[0].Size)
	assert.NotZero(t, assets[0].ModTime)
}

func TestWalkAssetsExcludesGlobMatches(t *testing.T) {
	root := sourceFolderWith(t, map[string]string{
		"index.html":     "<html></html>",
		"logs/noise.log": "noise",
		"tmp/a.swp":      "swap",
	})

	assets, walkErr := walkAssets(root, []string{"**/*.log", "tmp/**"})

	assert.Nil(t, walkErr)
	assert.Len(t, assets, 1)
	assert.Equal(t, "index.html", assets[0].RelKey)
}

func TestWalkAssetsBadPatternFails(t *testing.T) {
	root := sourceFolderWith(t, map[string]string{"index.html": "<html></html>"})

	_, walkErr := walkAssets(root, []string{"[invalid"})

	assert.NotNil(t, walkErr)
}

func TestRemoteKey(t *testing.T) {
	assert.Equal(t, "css/site.css", remoteKey("", "css/site.css"))
	assert.Equal(t, "static/css/site.css", remoteKey("static", "css/site.css"))
}
