package config

import (
	"os"
	"sync"
)

// StorageConfig holds the object storage (MinIO/S3-compatible) settings for
// raw resume attachments.
type StorageConfig struct {
	Endpoint  string
	AccessKey string
	SecretKey string
	Bucket    string
	UseSSL    bool
}

var (
	storageConfig *StorageConfig
	storageOnce   sync.Once
)

func LoadStorageConfig() *StorageConfig {
	storageOnce.Do(func() {
		bucket := os.Getenv("STORAGE_BUCKET")
		if bucket == "" {
			bucket = "resumes"
		}
		storageConfig = &StorageConfig{
			Endpoint:  os.Getenv("STORAGE_ENDPOINT"),
			AccessKey: os.Getenv("STORAGE_ACCESS_KEY"),
			SecretKey: os.Getenv("STORAGE_SECRET_KEY"),
			Bucket:    bucket,
			UseSSL:    os.Getenv("STORAGE_USE_SSL") == "true",
		}
	})
	return storageConfig
}
