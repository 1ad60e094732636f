package service

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/emersion/go-imap"
	imapclient "github.com/emersion/go-imap/client"
	"github.com/emersion/go-message/mail"

	"github.com/hiredeck/hiredeck/internal/apperror"
	"github.com/hiredeck/hiredeck/internal/config"
)

// EmailAttachment is one attachment pulled from an inbound message.
type EmailAttachment struct {
	Filename string
	Content  []byte
	Size     int64
}

// IncomingMessage is one unread mailbox message with its attachments already
// fetched. SeqNum identifies the message for the later read-marking step.
type IncomingMessage struct {
	SeqNum      uint32
	Sender      string
	Subject     string
	Body        string
	ReceivedAt  time.Time
	Attachments []EmailAttachment
}

// MailboxService polls the intake mailbox over IMAP. Messages are only marked
// read after their attachment bytes have been durably fetched and handled, so
// a crashed run leaves them for the next one.
type MailboxService struct {
	cfg    *config.MailboxConfig
	client *imapclient.Client
}

func NewMailboxService(cfg *config.MailboxConfig) *MailboxService {
	return &MailboxService{cfg: cfg}
}

func (s *MailboxService) connect() error {
	if s.client != nil {
		return nil
	}
	if !s.cfg.Valid() {
		return apperror.NewConfigurationError("mailbox credentials are not configured")
	}

	addr := s.cfg.Host + ":" + s.cfg.Port
	var c *imapclient.Client
	var err error
	if s.cfg.UseTLS {
		c, err = imapclient.DialTLS(addr, nil)
	} else {
		c, err = imapclient.Dial(addr)
	}
	if err != nil {
		return apperror.NewConfigurationError("mailbox connection failed: %v", err)
	}

	if err := c.Login(s.cfg.Username, s.cfg.Password); err != nil {
		_ = c.Logout()
		return apperror.NewConfigurationError("mailbox login failed: %v", err)
	}

	s.client = c
	return nil
}

// FetchUnread returns the currently-unread messages that carry at least one
// attachment. It does not change any message flags.
func (s *MailboxService) FetchUnread(ctx context.Context) ([]IncomingMessage, error) {
	if err := s.connect(); err != nil {
		return nil, err
	}

	if _, err := s.client.Select(s.cfg.Folder, false); err != nil {
		return nil, apperror.NewConfigurationError("cannot select folder %s: %v", s.cfg.Folder, err)
	}

	criteria := imap.NewSearchCriteria()
	criteria.WithoutFlags = []string{imap.SeenFlag}
	ids, err := s.client.Search(criteria)
	if err != nil {
		return nil, fmt.Errorf("mailbox search failed: %w", err)
	}
	if len(ids) == 0 {
		return nil, nil
	}

	seqset := new(imap.SeqSet)
	seqset.AddNum(ids...)

	section := &imap.BodySectionName{}
	items := []imap.FetchItem{imap.FetchEnvelope, imap.FetchInternalDate, section.FetchItem()}

	messages := make(chan *imap.Message, 10)
	done := make(chan error, 1)
	go func() {
		done <- s.client.Fetch(seqset, items, messages)
	}()

	return collectMessages(ctx, messages, done, section)
}

// collectMessages parses fetched messages into IncomingMessages. On context
// cancellation it stops parsing but keeps draining until the fetch goroutine
// closes the channel; returning early would leave that goroutine blocked on a
// send forever.
func collectMessages(ctx context.Context, messages <-chan *imap.Message, done <-chan error, section *imap.BodySectionName) ([]IncomingMessage, error) {
	var result []IncomingMessage
	var ctxErr error

	for msg := range messages {
		if ctxErr != nil {
			continue
		}
		select {
		case <-ctx.Done():
			ctxErr = ctx.Err()
			continue
		default:
		}

		parsed, err := parseMessage(msg, section)
		if err != nil {
			slog.Warn("skipping unparseable message", "seq", msg.SeqNum, "error", err)
			continue
		}
		if len(parsed.Attachments) == 0 {
			continue
		}
		result = append(result, *parsed)
	}

	fetchErr := <-done
	if ctxErr != nil {
		return nil, ctxErr
	}
	if fetchErr != nil {
		return nil, fmt.Errorf("mailbox fetch failed: %w", fetchErr)
	}
	return result, nil
}

// MarkProcessed flags the message as read so the next run skips it.
func (s *MailboxService) MarkProcessed(ctx context.Context, seqNum uint32) error {
	if s.client == nil {
		return fmt.Errorf("mailbox not connected")
	}

	seqset := new(imap.SeqSet)
	seqset.AddNum(seqNum)

	item := imap.FormatFlagsOp(imap.AddFlags, true)
	flags := []interface{}{imap.SeenFlag}
	if err := s.client.Store(seqset, item, flags, nil); err != nil {
		return fmt.Errorf("failed to mark message %d read: %w", seqNum, err)
	}
	return nil
}

// Close logs out of the IMAP session.
func (s *MailboxService) Close() error {
	if s.client == nil {
		return nil
	}
	err := s.client.Logout()
	s.client = nil
	return err
}

func parseMessage(msg *imap.Message, section *imap.BodySectionName) (*IncomingMessage, error) {
	out := &IncomingMessage{
		SeqNum:     msg.SeqNum,
		ReceivedAt: msg.InternalDate,
	}
	if msg.Envelope != nil {
		out.Subject = msg.Envelope.Subject
		if len(msg.Envelope.From) > 0 {
			out.Sender = msg.Envelope.From[0].Address()
		}
		if !msg.Envelope.Date.IsZero() {
			out.ReceivedAt = msg.Envelope.Date
		}
	}

	body := msg.GetBody(section)
	if body == nil {
		return nil, fmt.Errorf("server returned no body section")
	}

	mr, err := mail.CreateReader(body)
	if err != nil {
		return nil, fmt.Errorf("create mail reader: %w", err)
	}

	for {
		p, err := mr.NextPart()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read mail part: %w", err)
		}

		switch h := p.Header.(type) {
		case *mail.InlineHeader:
			b, err := io.ReadAll(p.Body)
			if err == nil {
				out.Body += string(b)
			}
		case *mail.AttachmentHeader:
			filename, _ := h.Filename()
			if filename == "" {
				continue
			}
			content, err := io.ReadAll(p.Body)
			if err != nil {
				return nil, fmt.Errorf("read attachment %s: %w", filename, err)
			}
			out.Attachments = append(out.Attachments, EmailAttachment{
				Filename: filename,
				Content:  content,
				Size:     int64(len(content)),
			})
		}
	}

	return out, nil
}
