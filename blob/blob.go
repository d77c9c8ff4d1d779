// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package blob

import (
	"context"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"emperror.dev/errors"
)

// URLPrefix is the path under which stored blobs are served
const URLPrefix = "/images/"

var ErrInvalidKey = errors.New("invalid blob key")

// FileStore keeps blobs as flat files in one directory and hands out
// public URLs under baseURL + URLPrefix.
type FileStore struct {
	dir     string
	baseURL string
}

// NewFileStore creates dir if needed
func NewFileStore(dir, baseURL string) (*FileStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, errors.WrapIf(err, "failed to create blob directory")
	}
	return &FileStore{dir: dir, baseURL: strings.TrimRight(baseURL, "/")}, nil
}

// Put writes data under key and returns its public URL. The write goes to a
// temp file first so readers never observe a partial blob.
func (s *FileStore) Put(ctx context.Context, key, contentType string, data []byte) (string, error) {
	if err := validKey(key); err != nil {
		return "", err
	}
	if err := ctx.Err(); err != nil {
		return "", err
	}

	tmp, err := os.CreateTemp(s.dir, ".upload-*")
	if err != nil {
		return "", errors.WrapIf(err, "failed to create temp file")
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return "", errors.WrapIf(err, "failed to write blob")
	}
	if err := tmp.Close(); err != nil {
		return "", errors.WrapIf(err, "failed to close blob")
	}
	if err := os.Rename(tmp.Name(), filepath.Join(s.dir, key)); err != nil {
		return "", errors.WrapIf(err, "failed to store blob")
	}

	return s.URL(key), nil
}

// Delete removes the blob. Deleting a missing key is not an error.
func (s *FileStore) Delete(ctx context.Context, key string) error {
	if err := validKey(key); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	err := os.Remove(filepath.Join(s.dir, key))
	if err != nil && !os.IsNotExist(err) {
		return errors.WrapIf(err, "failed to delete blob")
	}
	return nil
}

func (s *FileStore) URL(key string) string {
	return s.baseURL + URLPrefix + url.PathEscape(key)
}

// Key builds the blob key for an option image:
// poll-{pollId}-{optionIndex}-{filename}
func Key(pollID, optionIndex int, filename string) string {
	return fmt.Sprintf("poll-%d-%d-%s", pollID, optionIndex, sanitizeFilename(filename))
}

func sanitizeFilename(name string) string {
	name = filepath.Base(strings.ReplaceAll(name, "\\", "/"))
	var b strings.Builder
	for _, r := range name {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '.', r == '_', r == '-':
			b.WriteRune(r)
		default:
			b.WriteRune('-')
		}
	}
	out := strings.TrimLeft(b.String(), ".")
	if out == "" {
		return "image"
	}
	return out
}

func validKey(key string) error {
	if key == "" || key == "." || key == ".." || strings.ContainsAny(key, `/\`) || strings.HasPrefix(key, ".") {
		return ErrInvalidKey
	}
	return nil
}
