package services

import (
	"fmt"
	"io"
	"mime/multipart"
	"os"
	"path/filepath"
	"strings"
	"time"

	"blog-cms/pkg/config"
)

// AssetFile is one image under the static assets folder.
type AssetFile struct {
	Name string `json:"name"`
	Path string `json:"path"` // usage path for markdown bodies
	Size int64  `json:"size"`
}

func assetUsagePath(name string) string {
	return "/" + filepath.ToSlash(config.AssetDir) + "/" + name
}

func ListAssets() ([]AssetFile, error) {
	dir := filepath.Join(config.RepoPath, config.AssetDir)
	if _, err := os.Stat(dir); os.IsNotExist(err) {
		os.MkdirAll(dir, 0755)
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}

	var files []AssetFile
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			continue
		}
		files = append(files, AssetFile{
			Name: entry.Name(),
			Path: assetUsagePath(entry.Name()),
			Size: info.Size(),
		})
	}
	return files, nil
}

func SaveAsset(header *multipart.FileHeader) (*AssetFile, error) {
	src, err := header.Open()
	if err != nil {
		return nil, err
	}
	defer src.Close()

	filename := filepath.Base(header.Filename)
	filename = strings.ReplaceAll(filename, " ", "_")
	ext := filepath.Ext(filename)
	name := strings.TrimSuffix(filename, ext)
	filename = fmt.Sprintf("%s_%d%s", name, time.Now().Unix(), ext)

	fullPath := SafeJoin(config.RepoPath, config.AssetDir, filename)
	if fullPath == "" {
		return nil, fmt.Errorf("invalid asset path")
	}
	if err := os.MkdirAll(filepath.Dir(fullPath), 0755); err != nil {
		return nil, err
	}

	dst, err := os.Create(fullPath)
	if err != nil {
		return nil, err
	}
	defer dst.Close()

	if _, err := io.Copy(dst, src); err != nil {
		return nil, err
	}

	return &AssetFile{
		Name: filename,
		Path: assetUsagePath(filename),
		Size: header.Size,
	}, nil
}

func DeleteAsset(name string) error {
	fullPath := SafeJoin(config.RepoPath, config.AssetDir, name)
	if fullPath == "" {
		return fmt.Errorf("invalid asset path")
	}
	return os.Remove(fullPath)
}
