package storage

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/Azure/azure-sdk-for-go/sdk/azcore/to"
	"github.com/Azure/azure-sdk-for-go/sdk/storage/azblob"
	"github.com/Azure/azure-sdk-for-go/sdk/storage/azblob/bloberror"
	"github.com/Azure/azure-sdk-for-go/sdk/storage/azblob/container"
)

type azure struct {
	client    *azblob.Client
	container string
	pageSize  int32
	logger    *slog.Logger
}

// NewAzure creates a storage system backed by an Azure Blob Storage container.
// Virtual directories are derived from "/"-delimited blob names.
func NewAzure(cfg *Config, logger *slog.Logger) (System, error) {
	client, err := azblob.NewClientFromConnectionString(cfg.ConnectionString, nil)
	if err != nil {
		return nil, fmt.Errorf("create storage client: %w", err)
	}

	return &azure{
		client:    client,
		container: cfg.ContainerName,
		pageSize:  cfg.MaxListSize,
		logger:    logger.With("system", "storage", "backend", BackendAzure),
	}, nil
}

func (a *azure) Location(key string) string {
	return fmt.Sprintf("azure://%s/%s", a.container, key)
}

func (a *azure) List(ctx context.Context, prefix string) ([]Entry, error) {
	if err := validatePrefix(prefix); err != nil {
		return nil, err
	}

	opts := &container.ListBlobsHierarchyOptions{
		MaxResults: to.Ptr(a.pageSize),
	}
	if prefix != "" {
		prefix = strings.TrimSuffix(prefix, "/") + "/"
		opts.Prefix = to.Ptr(prefix)
	}

	pager := a.client.
		ServiceClient().
		NewContainerClient(a.container).
		NewListBlobsHierarchyPager("/", opts)

	var entries []Entry
	for pager.More() {
		page, err := pager.NextPage(ctx)
		if err != nil {
			if bloberror.HasCode(err, bloberror.ContainerNotFound) {
				return nil, ErrNotFound
			}
			return nil, fmt.Errorf("list blobs %s: %w", prefix, err)
		}
		if page.Segment == nil {
			continue
		}

		for _, p := range page.Segment.BlobPrefixes {
			if p.Name == nil {
				continue
			}
			name := strings.TrimSuffix(strings.TrimPrefix(*p.Name, prefix), "/")
			entries = append(entries, Entry{Name: name, Dir: true})
		}

		for _, item := range page.Segment.BlobItems {
			if item.Name == nil {
				continue
			}
			e := Entry{Name: strings.TrimPrefix(*item.Name, prefix)}
			if item.Properties != nil && item.Properties.ContentLength != nil {
				e.Size = *item.Properties.ContentLength
			}
			entries = append(entries, e)
		}
	}

	// a virtual directory exists only while it holds blobs
	if prefix != "" && len(entries) == 0 {
		return nil, ErrNotFound
	}

	return entries, nil
}

func (a *azure) Download(ctx context.Context, key string) (io.ReadCloser, error) {
	if err := validateKey(key); err != nil {
		return nil, err
	}

	resp, err := a.client.DownloadStream(ctx, a.container, key, nil)
	if err != nil {
		if bloberror.HasCode(err, bloberror.BlobNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("download blob %s: %w", key, err)
	}

	return resp.Body, nil
}
