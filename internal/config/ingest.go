package config

import (
	"os"
	"strconv"
	"sync"
)

// IngestConfig binds the deployment's intake mailbox to a tenant and bounds
// the batch-scoring fan-out.
type IngestConfig struct {
	TenantID          string
	MaxAttachmentSize int64
	BatchConcurrency  int
}

var (
	ingestConfig *IngestConfig
	ingestOnce   sync.Once
)

func LoadIngestConfig() *IngestConfig {
	ingestOnce.Do(func() {
		maxSize := int64(10 * 1024 * 1024)
		if v := os.Getenv("INGEST_MAX_ATTACHMENT_SIZE"); v != "" {
			if n, err := strconv.ParseInt(v, 10, 64); err == nil && n > 0 {
				maxSize = n
			}
		}
		concurrency := 4
		if v := os.Getenv("SCREENING_BATCH_CONCURRENCY"); v != "" {
			if n, err := strconv.Atoi(v); err == nil && n > 0 {
				concurrency = n
			}
		}
		ingestConfig = &IngestConfig{
			TenantID:          os.Getenv("INGEST_TENANT_ID"),
			MaxAttachmentSize: maxSize,
			BatchConcurrency:  concurrency,
		}
	})
	return ingestConfig
}
