package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	log "github.com/sirupsen/logrus"
)

// LocalAsset is one candidate file under the source folder. RelKey always
// uses forward slashes so it can double as the remote object key.
type LocalAsset struct {
	RelKey  string
	AbsPath string
	ModTime int64 // unix seconds
	Size    int64
	Ext     string
}

type walkFunc func(root string, exclude []string) ([]LocalAsset, error)

var concreteWalkFunc = walkAssets

// walkAssets enumerates every regular file under root in lexical walk
// order, skipping anything whose relative key matches an exclude glob.
func walkAssets(root string, exclude []string) ([]LocalAsset, error) {
	assets := make([]LocalAsset, 0)
	walkErr := filepath.Walk(root, func(path string, f os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if f.IsDir() {
			return nil
		}
		rel, relErr := filepath.Rel(root, path)
		if relErr != nil {
			return relErr
		}
		key := filepath.ToSlash(rel)
		for _, pattern := range exclude {
			matched, matchErr := doublestar.Match(pattern, key)
			if matchErr != nil {
				return fmt.Errorf("bad exclude pattern %q: %w", pattern, matchErr)
			}
			if matched {
				log.Debug(fmt.Sprintf("%s matches exclusion list. skipping...", key))
				return nil
			}
		}
		assets = append(assets, LocalAsset{
			RelKey:  key,
			AbsPath: path,
			ModTime: f.ModTime().Unix(),
			Size:    f.Size(),
			Ext:     strings.ToLower(filepath.Ext(path)),
		})
		return nil
	})
	return assets, walkErr
}

// remoteKey joins the configured upload folder prefix with an asset's
// relative key. The prefix is already trimmed of surrounding slashes.
func remoteKey(prefix, relKey string) string {
	if prefix == "" {
		return relKey
	}
	return prefix + "/" + relKey
}
