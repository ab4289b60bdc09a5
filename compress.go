package main

import (
	"bytes"
	"fmt"
	"io"
	"os"

	"github.com/klauspost/compress/flate"
	"github.com/klauspost/compress/gzip"
)

const (
	AlgorithmGzip    = "gzip"
	AlgorithmDeflate = "deflate"

	encodingIdentity = "identity"
)

// needsCompression reports whether the asset should be compressed before
// upload: a supported algorithm is configured and the asset's extension is
// on the eligible list.
func needsCompression(asset LocalAsset, policy CompressionPolicy) bool {
	if policy.Algorithm != AlgorithmGzip && policy.Algorithm != AlgorithmDeflate {
		return false
	}
	for _, ext := range policy.Extensions {
		if ext == asset.Ext {
			return true
		}
	}
	return false
}

// materialize produces the upload body for an asset along with its
// content-encoding label. Eligible assets are read whole and compressed
// into a buffer; everything else is handed back as a lazy file stream
// labeled identity. The caller owns closing the body.
func materialize(asset LocalAsset, policy CompressionPolicy) (io.ReadCloser, string, error) {
	if !needsCompression(asset, policy) {
		fd, openErr := os.Open(asset.AbsPath)
		if openErr != nil {
			return nil, "", fmt.Errorf("%w: %v", ErrRead, openErr)
		}
		return fd, encodingIdentity, nil
	}

	raw, readErr := os.ReadFile(asset.AbsPath)
	if readErr != nil {
		return nil, "", fmt.Errorf("%w: %v", ErrRead, readErr)
	}

	compressed, compressErr := compressBuffer(raw, policy)
	if compressErr != nil {
		return nil, "", fmt.Errorf("compressing %s with %s: %w", asset.RelKey, policy.Algorithm, compressErr)
	}

	return io.NopCloser(compressed), policy.Algorithm, nil
}

func compressBuffer(raw []byte, policy CompressionPolicy) (*bytes.Buffer, error) {
	buffer := new(bytes.Buffer)

	switch policy.Algorithm {
	case AlgorithmGzip:
		writer, writerErr := gzip.NewWriterLevel(buffer, policy.Level)
		if writerErr != nil {
			return nil, writerErr
		}
		if _, writeErr := writer.Write(raw); writeErr != nil {
			return nil, writeErr
		}
		if closeErr := writer.Close(); closeErr != nil {
			return nil, closeErr
		}
	case AlgorithmDeflate:
		writer, writerErr := flate.NewWriter(buffer, policy.Level)
		if writerErr != nil {
			return nil, writerErr
		}
		if _, writeErr := writer.Write(raw); writeErr != nil {
			return nil, writeErr
		}
		if closeErr := writer.Close(); closeErr != nil {
			return nil, closeErr
		}
	default:
		return nil, fmt.Errorf("unsupported compression algorithm %q", policy.Algorithm)
	}

	return buffer, nil
}
