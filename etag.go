package main

import (
	"crypto/md5"
	"encoding/hex"
	"fmt"
	"io"
	"os"
	"regexp"
	"strconv"
	"strings"
)

const mib = 1 << 20

// S3 reports a multipart ETag as the md5 of the concatenated binary part
// digests plus "-<partCount>". A plain ETag is a bare 32-char md5.
var multipartETagPattern = regexp.MustCompile(`^[0-9a-f]{32}-[0-9]+$`)

// normalizeETag strips the quoting S3 wraps around ETags in listings and
// lowercases the hex so comparisons are exact.
func normalizeETag(tag string) string {
	return strings.ToLower(strings.Trim(tag, `"`))
}

// computeETag returns the ETag S3 would report for the file at path when
// uploaded with chunkSizeMB-sized parts. Files smaller than one chunk get
// the plain whole-file md5; everything else gets the multipart format.
func computeETag(path string, chunkSizeMB int) (string, error) {
	if chunkSizeMB <= 0 {
		return "", fmt.Errorf("chunk size must be positive, got %dMB", chunkSizeMB)
	}
	info, statErr := os.Stat(path)
	if statErr != nil {
		return "", fmt.Errorf("%w: %v", ErrRead, statErr)
	}
	if info.Size() < int64(chunkSizeMB)*mib {
		return wholeFileETag(path)
	}
	return multipartETag(path, chunkSizeMB)
}

func wholeFileETag(path string) (string, error) {
	fd, openErr := os.Open(path)
	if openErr != nil {
		return "", fmt.Errorf("%w: %v", ErrRead, openErr)
	}
	defer fd.Close()

	hash := md5.New()
	if _, copyErr := io.Copy(hash, fd); copyErr != nil {
		return "", fmt.Errorf("%w: %v", ErrRead, copyErr)
	}
	return hex.EncodeToString(hash.Sum(nil)), nil
}

// multipartETag always produces the "<md5>-<count>" form, even for a file
// spanning a single chunk: a real multipart upload of one part is tagged
// "-1" by S3, so the suffix is kept rather than collapsed to a bare hash.
func multipartETag(path string, chunkSizeMB int) (string, error) {
	if chunkSizeMB <= 0 {
		return "", fmt.Errorf("chunk size must be positive, got %dMB", chunkSizeMB)
	}
	fd, openErr := os.Open(path)
	if openErr != nil {
		return "", fmt.Errorf("%w: %v", ErrRead, openErr)
	}
	defer fd.Close()

	chunkSize := int64(chunkSizeMB) * mib
	digests := md5.New()
	parts := 0
	for {
		chunkHash := md5.New()
		n, copyErr := io.CopyN(chunkHash, fd, chunkSize)
		if n > 0 {
			digests.Write(chunkHash.Sum(nil))
			parts++
		}
		if copyErr == io.EOF {
			break
		}
		if copyErr != nil {
			return "", fmt.Errorf("%w: %v", ErrRead, copyErr)
		}
	}
	return fmt.Sprintf("%s-%d", hex.EncodeToString(digests.Sum(nil)), parts), nil
}

// verifyETag reports whether the file at path matches the expected tag.
// Plain tags are checked against the whole-file md5. Multipart tags are
// checked at chunkSizeMB first; on a mismatch the part size S3 actually
// used is guessed from the declared part count and the file size, since
// the tag encodes how many parts there were but not how big.
func verifyETag(path string, chunkSizeMB int, expected string) (bool, error) {
	if chunkSizeMB <= 0 {
		return false, fmt.Errorf("chunk size must be positive, got %dMB", chunkSizeMB)
	}
	expected = normalizeETag(expected)

	if !multipartETagPattern.MatchString(expected) {
		got, err := wholeFileETag(path)
		if err != nil {
			return false, err
		}
		return got == expected, nil
	}

	got, err := multipartETag(path, chunkSizeMB)
	if err != nil {
		return false, err
	}
	if got == expected {
		return true, nil
	}
	return guessChunkSize(path, expected)
}

// guessChunkSize scans every chunk size that could have split the file
// into the part count declared by the expected tag, smallest first, and
// stops at the first exact reproduction. The scan is a plain loop so the
// candidate order stays explicit and the stack stays flat.
func guessChunkSize(path string, expected string) (bool, error) {
	info, statErr := os.Stat(path)
	if statErr != nil {
		return false, fmt.Errorf("%w: %v", ErrRead, statErr)
	}
	size := info.Size()

	suffix := expected[strings.LastIndex(expected, "-")+1:]
	declaredParts, parseErr := strconv.Atoi(suffix)
	if parseErr != nil || declaredParts < 1 {
		return false, fmt.Errorf("%w: unparseable part count in %q", ErrGuessExhausted, expected)
	}

	// n parts of c MiB each hold the file iff (n-1)*c < size <= n*c,
	// which bounds c to [ceil(size/n/MiB), floor(size/(n-1)/MiB)].
	minMB := int((size + int64(declaredParts)*mib - 1) / (int64(declaredParts) * mib))
	if minMB < 1 {
		minMB = 1
	}
	maxMB := minMB
	if declaredParts > 1 {
		maxMB = int(size / (int64(declaredParts-1) * mib))
	}

	for candidate := minMB; candidate <= maxMB; candidate++ {
		got, err := multipartETag(path, candidate)
		if err != nil {
			return false, err
		}
		if got == expected {
			return true, nil
		}
	}
	return false, fmt.Errorf("%w: no chunk size in [%d, %d]MB reproduces %s", ErrGuessExhausted, minMB, maxMB, expected)
}
