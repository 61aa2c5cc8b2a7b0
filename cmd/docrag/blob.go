package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/bull/docrag/internal/blob"
	"github.com/bull/docrag/internal/config"
)

var blobCmd = &cobra.Command{
	Use:   "blob",
	Short: "Manage documents in the blob bucket",
}

var blobUploadCmd = &cobra.Command{
	Use:   "upload <path>",
	Short: "Upload a file or directory of documents to the bucket",
	Args:  cobra.ExactArgs(1),
	RunE:  runBlobUpload,
}

var blobListCmd = &cobra.Command{
	Use:   "list",
	Short: "List documents in the bucket",
	RunE:  runBlobList,
}

var blobDownloadCmd = &cobra.Command{
	Use:   "download <object> <path>",
	Short: "Download a document from the bucket",
	Args:  cobra.ExactArgs(2),
	RunE:  runBlobDownload,
}

var blobDeleteCmd = &cobra.Command{
	Use:   "delete <object>",
	Short: "Delete a document from the bucket",
	Args:  cobra.ExactArgs(1),
	RunE:  runBlobDelete,
}

func init() {
	blobCmd.AddCommand(blobUploadCmd, blobListCmd, blobDownloadCmd, blobDeleteCmd)
}

// openBlobStore validates blob credentials and connects to the bucket.
func openBlobStore(ctx context.Context, cfg *config.Config) (*blob.Store, error) {
	if err := cfg.Validate(true); err != nil {
		return nil, err
	}
	return blob.NewStore(ctx, blob.Options{
		Endpoint:  cfg.BlobEndpoint,
		AccessKey: cfg.BlobAccessKey,
		SecretKey: cfg.BlobSecretKey,
		Bucket:    cfg.BlobBucket,
		UseSSL:    cfg.BlobUseSSL,
	})
}

func runBlobUpload(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	store, err := openBlobStore(ctx, config.Load())
	if err != nil {
		return err
	}

	info, err := os.Stat(args[0])
	if err != nil {
		return err
	}

	if info.IsDir() {
		names, err := store.UploadDirectory(ctx, args[0])
		if err != nil {
			return err
		}
		fmt.Printf("Uploaded %d files\n", len(names))
		return nil
	}

	name, err := store.Upload(ctx, args[0], "")
	if err != nil {
		return err
	}
	fmt.Printf("Uploaded %s\n", name)
	return nil
}

func runBlobList(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	cfg := config.Load()
	store, err := openBlobStore(ctx, cfg)
	if err != nil {
		return err
	}

	objects, err := store.List(ctx)
	if err != nil {
		return err
	}
	if len(objects) == 0 {
		fmt.Printf("Bucket %q is empty\n", cfg.BlobBucket)
		return nil
	}

	for _, obj := range objects {
		fmt.Printf("  %s  %.1f KB  %s\n", obj.Name, float64(obj.Size)/1024, obj.LastModified.Format("2006-01-02 15:04"))
	}
	return nil
}

func runBlobDownload(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	store, err := openBlobStore(ctx, config.Load())
	if err != nil {
		return err
	}

	if err := store.Download(ctx, args[0], args[1]); err != nil {
		return err
	}
	fmt.Printf("Downloaded %s to %s\n", args[0], args[1])
	return nil
}

func runBlobDelete(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	store, err := openBlobStore(ctx, config.Load())
	if err != nil {
		return err
	}

	if err := store.Delete(ctx, args[0]); err != nil {
		return err
	}
	fmt.Printf("Deleted %s\n", args[0])
	return nil
}
