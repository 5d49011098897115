// Package archive keeps copies of classified images in Azure Blob Storage.
package archive

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"path"

	"github.com/Azure/azure-sdk-for-go/sdk/storage/azblob"
	"github.com/Azure/azure-sdk-for-go/sdk/storage/azblob/blob"
)

// blobPrefix is the virtual directory readings are stored under.
const blobPrefix = "readings"

// AzureArchiver uploads image bytes to a single blob container.
type AzureArchiver struct {
	client    *azblob.Client
	container string
}

// NewAzureArchiver authenticates with a shared key against the account's
// public blob endpoint.
func NewAzureArchiver(accountName, accountKey, container string) (*AzureArchiver, error) {
	return NewAzureArchiverWithURL(
		fmt.Sprintf("https://%s.blob.core.windows.net", accountName),
		accountName, accountKey, container,
	)
}

// NewAzureArchiverWithURL is NewAzureArchiver with an explicit service URL,
// for emulators such as Azurite.
func NewAzureArchiverWithURL(serviceURL, accountName, accountKey, container string) (*AzureArchiver, error) {
	if accountName == "" {
		return nil, errors.New("azure archive: account name is required")
	}
	if container == "" {
		return nil, errors.New("azure archive: container is required")
	}

	credential, err := azblob.NewSharedKeyCredential(accountName, accountKey)
	if err != nil {
		return nil, fmt.Errorf("azure archive: invalid credentials: %w", err)
	}

	client, err := azblob.NewClientWithSharedKeyCredential(serviceURL, credential, nil)
	if err != nil {
		return nil, fmt.Errorf("azure archive: create client: %w", err)
	}

	return &AzureArchiver{client: client, container: container}, nil
}

// Archive uploads data as readings/<id><ext>, where the extension and
// content type are sniffed from the bytes.
func (a *AzureArchiver) Archive(ctx context.Context, id string, data []byte) error {
	contentType := http.DetectContentType(data)
	name := BlobName(id, contentType)

	_, err := a.client.UploadBuffer(ctx, a.container, name, data, &azblob.UploadBufferOptions{
		HTTPHeaders: &blob.HTTPHeaders{BlobContentType: &contentType},
	})
	if err != nil {
		return fmt.Errorf("upload %s: %w", name, err)
	}
	return nil
}

// Container returns the target container name.
func (a *AzureArchiver) Container() string {
	return a.container
}

// BlobName returns the blob path for a reading id and sniffed content type.
func BlobName(id, contentType string) string {
	return path.Join(blobPrefix, id+extensionFor(contentType))
}

func extensionFor(contentType string) string {
	switch contentType {
	case "image/png":
		return ".png"
	case "image/jpeg":
		return ".jpg"
	case "image/gif":
		return ".gif"
	case "image/webp":
		return ".webp"
	case "image/bmp":
		return ".bmp"
	default:
		return ".bin"
	}
}
