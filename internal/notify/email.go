package notify

import (
	"bytes"
	"context"
	"crypto/tls"
	"fmt"
	"net"
	"net/smtp"
	"time"

	"go.uber.org/zap"

	"github.com/qualitygate/qualitygate/internal/config"
	"github.com/qualitygate/qualitygate/internal/domain"
	"github.com/qualitygate/qualitygate/internal/report"
)

// Service emails the quality report when the gate rejects a run
type Service struct {
	config    config.EmailConfig
	logger    *zap.Logger
	formatter *report.Formatter
}

// NewService creates a new notification Service
func NewService(cfg config.EmailConfig, logger *zap.Logger) *Service {
	return &Service{
		config:    cfg,
		logger:    logger,
		formatter: report.NewFormatter(),
	}
}

// SendReport sends the quality report via email
func (s *Service) SendReport(ctx context.Context, rpt *domain.QualityReport) error {
	body, err := s.formatter.Render(rpt, "text")
	if err != nil {
		return fmt.Errorf("rendering report body: %w", err)
	}
	subject := s.buildSubject(rpt)

	return s.send(ctx, subject, string(body))
}

func (s *Service) buildSubject(rpt *domain.QualityReport) string {
	if rpt.Passed() {
		return fmt.Sprintf("[qualitygate] %s - PASS (score %.1f)", rpt.Scan.Target, rpt.OverallScore)
	}

	critical := rpt.Scan.CriticalCount()
	if critical > 0 {
		return fmt.Sprintf("[qualitygate] %s - FAIL (score %.1f, %d critical)",
			rpt.Scan.Target, rpt.OverallScore, critical)
	}
	return fmt.Sprintf("[qualitygate] %s - FAIL (score %.1f)", rpt.Scan.Target, rpt.OverallScore)
}

func (s *Service) send(ctx context.Context, subject, body string) error {
	addr := fmt.Sprintf("%s:%d", s.config.SMTPHost, s.config.SMTPPort)
	message := s.buildMessage(subject, body)

	// Retry logic
	var lastErr error
	for attempt := 1; attempt <= 3; attempt++ {
		if ctx.Err() != nil {
			return ctx.Err()
		}

		err := s.sendWithTimeout(addr, message, 30*time.Second)
		if err == nil {
			return nil
		}

		lastErr = err
		s.logger.Warn("email attempt failed", zap.Int("attempt", attempt), zap.Error(err))

		if attempt < 3 {
			time.Sleep(time.Duration(attempt*attempt) * time.Second)
		}
	}

	return fmt.Errorf("failed after 3 attempts: %w", lastErr)
}

func (s *Service) buildMessage(subject, body string) []byte {
	var buf bytes.Buffer

	// Headers
	buf.WriteString(fmt.Sprintf("From: %s <%s>\r\n", s.config.FromName, s.config.FromAddress))
	buf.WriteString(fmt.Sprintf("To: %s\r\n", s.config.ToAddress))
	buf.WriteString(fmt.Sprintf("Subject: %s\r\n", subject))
	buf.WriteString("MIME-Version: 1.0\r\n")
	buf.WriteString("Content-Type: text/plain; charset=UTF-8\r\n")
	buf.WriteString(fmt.Sprintf("Date: %s\r\n", time.Now().Format(time.RFC1123Z)))
	buf.WriteString(fmt.Sprintf("Message-ID: <%d@%s>\r\n", time.Now().UnixNano(), s.config.SMTPHost))
	buf.WriteString("\r\n")

	// Body
	buf.WriteString(body)

	return buf.Bytes()
}

func (s *Service) sendWithTimeout(addr string, message []byte, timeout time.Duration) error {
	conn, err := net.DialTimeout("tcp", addr, timeout)
	if err != nil {
		return fmt.Errorf("connecting to SMTP server: %w", err)
	}
	defer conn.Close()

	conn.SetDeadline(time.Now().Add(timeout))

	client, err := smtp.NewClient(conn, s.config.SMTPHost)
	if err != nil {
		return fmt.Errorf("creating SMTP client: %w", err)
	}
	defer client.Quit()

	// Start TLS if port is 587
	if s.config.SMTPPort == 587 {
		tlsConfig := &tls.Config{ServerName: s.config.SMTPHost}
		if err = client.StartTLS(tlsConfig); err != nil {
			return fmt.Errorf("starting TLS: %w", err)
		}
	}

	// Authenticate
	if s.config.SMTPUser != "" && s.config.SMTPPassword != "" {
		auth := smtp.PlainAuth("", s.config.SMTPUser, s.config.SMTPPassword, s.config.SMTPHost)
		if err = client.Auth(auth); err != nil {
			return fmt.Errorf("authenticating: %w", err)
		}
	}

	// Set sender
	if err = client.Mail(s.config.FromAddress); err != nil {
		return fmt.Errorf("setting sender: %w", err)
	}

	// Set recipient
	if err = client.Rcpt(s.config.ToAddress); err != nil {
		return fmt.Errorf("setting recipient: %w", err)
	}

	// Send message body
	writer, err := client.Data()
	if err != nil {
		return fmt.Errorf("getting data writer: %w", err)
	}

	_, err = writer.Write(message)
	if err != nil {
		return fmt.Errorf("writing message: %w", err)
	}

	return writer.Close()
}
