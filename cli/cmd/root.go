package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"github.com/spf13/cobra"

	"github.com/wbenoit/sift/storage"
)

/*
Root command for the sift tool. Subcommands operate on parquet files addressed
either as local paths or as object ids in an S3-compatible bucket when
--endpoint is supplied.
*/

////////////////////////////////////////////////////////////////////////////////

var (
	s3Endpoint  string
	s3Bucket    string
	s3AccessKey string
	s3SecretKey string
	s3Secure    bool
)

var rootCmd = &cobra.Command{
	Use:   "sift",
	Short: "selective parquet footer inspection",
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func bailf(format string, args ...interface{}) {
	fmt.Fprintf(os.Stderr, format+"\n", args...)
	os.Exit(1)
}

func checkErr(err error) {
	if err != nil {
		bailf("error: %v", err)
	}
}

// openStore resolves a command-line target to a storage provider and an
// object id within it.
func openStore(target string) (storage.Provider, string) {
	if s3Endpoint != "" {
		mc, err := minio.New(s3Endpoint, &minio.Options{
			Creds:  credentials.NewStaticV4(s3AccessKey, s3SecretKey, ""),
			Secure: s3Secure,
		})
		checkErr(err)
		return storage.NewS3Store(mc, s3Bucket), target
	}
	dir, id := filepath.Split(target)
	if dir == "" {
		dir = "."
	}
	return storage.NewDirectoryStore(dir), id
}

func init() {
	rootCmd.PersistentFlags().StringVar(&s3Endpoint, "endpoint", "", "S3-compatible endpoint; targets are object ids when set")
	rootCmd.PersistentFlags().StringVar(&s3Bucket, "bucket", "", "bucket containing the target object")
	rootCmd.PersistentFlags().StringVar(&s3AccessKey, "access-key", "", "S3 access key")
	rootCmd.PersistentFlags().StringVar(&s3SecretKey, "secret-key", "", "S3 secret key")
	rootCmd.PersistentFlags().BoolVar(&s3Secure, "secure", true, "use TLS for S3 connections")
}
