package archive

import (
	"context"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"sort"

	"github.com/klauspost/compress/zip"
)

// Summary describes an archive written by ZipDir
type Summary struct {
	Path    string
	Files   int
	Dirs    int
	Bytes   int64 // Uncompressed size of all files
	Archive int64 // Size of the archive on disk
}

// ZipDir writes a zip archive of srcDir to destPath. Entry names are rooted at the
// base name of srcDir ("_site/index.html"), the layout "zip -r _site _site" produces,
// so extracting next to the old copy recreates the directory under the same name.
// An existing file at destPath is replaced.
func ZipDir(ctx context.Context, srcDir, destPath string) (*Summary, error) {
	info, err := os.Stat(srcDir)
	if err != nil {
		return nil, fmt.Errorf("failed to stat source directory: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("source is not a directory: %s", srcDir)
	}

	entries, err := os.ReadDir(srcDir)
	if err != nil {
		return nil, fmt.Errorf("failed to read source directory: %w", err)
	}
	if len(entries) == 0 {
		return nil, fmt.Errorf("source directory is empty: %s", srcDir)
	}

	absSrc, err := filepath.Abs(srcDir)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve source directory: %w", err)
	}
	root := filepath.Base(absSrc)

	out, err := os.OpenFile(destPath, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0644)
	if err != nil {
		return nil, fmt.Errorf("failed to create archive: %w", err)
	}

	summary := &Summary{Path: destPath}
	zw := zip.NewWriter(out)

	walkErr := filepath.WalkDir(absSrc, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if err := ctx.Err(); err != nil {
			return err
		}

		rel, err := filepath.Rel(absSrc, p)
		if err != nil {
			return err
		}
		name := path.Join(root, filepath.ToSlash(rel))

		// Follow symlinks to regular files, like zip does by default
		fi, err := os.Stat(p)
		if err != nil {
			return err
		}

		switch {
		case fi.IsDir():
			if d.Type()&fs.ModeSymlink != 0 {
				return fmt.Errorf("symlinked directory not supported: %s", p)
			}
			return addDir(zw, name, fi, summary)
		case fi.Mode().IsRegular():
			return addFile(zw, name, p, fi, summary)
		default:
			return fmt.Errorf("unsupported file type %s: %s", fi.Mode().Type(), p)
		}
	})

	closeErr := zw.Close()
	fileErr := out.Close()

	if walkErr != nil {
		return nil, fmt.Errorf("failed to archive %s: %w", srcDir, walkErr)
	}
	if closeErr != nil {
		return nil, fmt.Errorf("failed to finish archive: %w", closeErr)
	}
	if fileErr != nil {
		return nil, fmt.Errorf("failed to write archive: %w", fileErr)
	}

	if st, err := os.Stat(destPath); err == nil {
		summary.Archive = st.Size()
	}

	return summary, nil
}

func addDir(zw *zip.Writer, name string, fi os.FileInfo, summary *Summary) error {
	header, err := zip.FileInfoHeader(fi)
	if err != nil {
		return err
	}
	header.Name = name + "/"
	header.Method = zip.Store

	if _, err := zw.CreateHeader(header); err != nil {
		return err
	}
	summary.Dirs++
	return nil
}

func addFile(zw *zip.Writer, name, src string, fi os.FileInfo, summary *Summary) error {
	header, err := zip.FileInfoHeader(fi)
	if err != nil {
		return err
	}
	header.Name = name
	header.Method = zip.Deflate

	w, err := zw.CreateHeader(header)
	if err != nil {
		return err
	}

	f, err := os.Open(src)
	if err != nil {
		return err
	}
	defer f.Close()

	n, err := io.Copy(w, f)
	if err != nil {
		return err
	}

	summary.Files++
	summary.Bytes += n
	return nil
}

// List returns the entry names of a zip archive in sorted order
func List(archivePath string) ([]string, error) {
	r, err := zip.OpenReader(archivePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open archive: %w", err)
	}
	defer r.Close()

	names := make([]string, 0, len(r.File))
	for _, f := range r.File {
		names = append(names, f.Name)
	}
	sort.Strings(names)
	return names, nil
}
