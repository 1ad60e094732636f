package config

import (
	"os"
	"sync"
)

// MailboxConfig holds the IMAP credentials for the intake mailbox.
type MailboxConfig struct {
	Host     string
	Port     string
	Username string
	Password string
	Folder   string
	UseTLS   bool
}

var (
	mailboxConfig *MailboxConfig
	mailboxOnce   sync.Once
)

func LoadMailboxConfig() *MailboxConfig {
	mailboxOnce.Do(func() {
		port := os.Getenv("IMAP_PORT")
		if port == "" {
			port = "993"
		}
		folder := os.Getenv("IMAP_FOLDER")
		if folder == "" {
			folder = "INBOX"
		}
		mailboxConfig = &MailboxConfig{
			Host:     os.Getenv("IMAP_HOST"),
			Port:     port,
			Username: os.Getenv("IMAP_USERNAME"),
			Password: os.Getenv("IMAP_PASSWORD"),
			Folder:   folder,
			UseTLS:   os.Getenv("IMAP_DISABLE_TLS") != "true",
		}
	})
	return mailboxConfig
}

// Valid reports whether the mailbox credentials are usable. A missing host or
// username aborts a whole ingestion run, not a single item.
func (c *MailboxConfig) Valid() bool {
	return c.Host != "" && c.Username != "" && c.Password != ""
}
