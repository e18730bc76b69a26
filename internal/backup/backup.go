// Package backup writes and restores tar.gz snapshots of the theme database
// and its configuration file.
package backup

import (
	"archive/tar"
	"compress/gzip"
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/funaging/themestudio/internal/store"
)

// DatabaseEntry is the archive name of the database snapshot.
const DatabaseEntry = "themestudio.db"

// Create snapshots db with VACUUM INTO and writes it, plus the config file
// when configPath is set, to a gzip-compressed tar archive at out.
func Create(ctx context.Context, db *store.SQLiteStore, configPath, out string) error {
	tmpDir, err := os.MkdirTemp("", "themestudio-backup-")
	if err != nil {
		return fmt.Errorf("creating temp directory: %w", err)
	}
	defer os.RemoveAll(tmpDir)

	snapshot := filepath.Join(tmpDir, DatabaseEntry)
	if err := db.Snapshot(ctx, snapshot); err != nil {
		return err
	}

	f, err := os.OpenFile(out, os.O_CREATE|os.O_WRONLY|os.O_EXCL, 0o600)
	if err != nil {
		return fmt.Errorf("creating archive: %w", err)
	}
	defer f.Close()

	gw := gzip.NewWriter(f)
	tw := tar.NewWriter(gw)

	if err := addFile(tw, snapshot, DatabaseEntry); err != nil {
		return err
	}
	if configPath != "" {
		if err := addFile(tw, configPath, filepath.Base(configPath)); err != nil {
			return err
		}
	}

	if err := tw.Close(); err != nil {
		return fmt.Errorf("finishing archive: %w", err)
	}
	if err := gw.Close(); err != nil {
		return fmt.Errorf("finishing compression: %w", err)
	}
	return f.Close()
}

func addFile(tw *tar.Writer, path, name string) error {
	src, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("opening %s: %w", path, err)
	}
	defer src.Close()

	info, err := src.Stat()
	if err != nil {
		return fmt.Errorf("stat %s: %w", path, err)
	}
	hdr := &tar.Header{
		Name:     name,
		Mode:     0o600,
		Size:     info.Size(),
		ModTime:  time.Now().UTC(),
		Typeflag: tar.TypeReg,
	}
	if err := tw.WriteHeader(hdr); err != nil {
		return fmt.Errorf("writing header for %s: %w", name, err)
	}
	if _, err := io.Copy(tw, src); err != nil {
		return fmt.Errorf("writing %s: %w", name, err)
	}
	return nil
}
