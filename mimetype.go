package main

import (
	"fmt"

	"github.com/gabriel-vasile/mimetype"
	log "github.com/sirupsen/logrus"
)

const fallbackContentType = "application/octet-stream"

// resolveContentType picks the upload content-type: the configured
// extension override table wins, otherwise the file content is sniffed.
// A sniff failure falls back to octet-stream rather than failing the pass.
func resolveContentType(asset LocalAsset, overrides map[string]string) string {
	if contentType, ok := overrides[asset.Ext]; ok {
		return contentType
	}

	detected, detectErr := mimetype.DetectFile(asset.AbsPath)
	if detectErr != nil {
		log.Warn(fmt.Sprintf("Could not sniff content type for %s: %s", asset.RelKey, detectErr))
		return fallbackContentType
	}

	return detected.String()
}
