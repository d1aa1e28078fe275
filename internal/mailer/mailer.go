package mailer

import (
	"encoding/json"
	"fmt"
	"net/smtp"
	"os"
	"strings"
	"time"

	"github.com/CampusConnect/notice-service/internal/dto"
	"github.com/CampusConnect/notice-service/internal/rabbitmq"
	"go.uber.org/zap"
)

type Mailer struct {
	logger *zap.Logger
	rabbitmq *rabbitmq.MQConn

	from string
	pass string
	host string
	port string
	list []string
}

func New(logger *zap.Logger, rabbitmq *rabbitmq.MQConn) *Mailer {
	return &Mailer{
		logger: logger,
		rabbitmq: rabbitmq,
		from: os.Getenv("SMTP_FROM"),
		pass: os.Getenv("SMTP_PASS"),
		host: os.Getenv("SMTP_HOST"),
		port: os.Getenv("SMTP_PORT"),
		list: splitList(os.Getenv("NOTICE_MAIL_LIST")),
	}
}

func (m *Mailer) StartProcessing() {
	go m.ProcessPostedNotices()
}

// ProcessPostedNotices emails the campus distribution list for every notice
// an admin posts.
func (m *Mailer) ProcessPostedNotices() {
	queue := rabbitmq.NOTICE_POSTED_QUEUE
	msgs, err := m.rabbitmq.Consume(queue)
	if err != nil {
		m.logger.Sugar().Fatalf("Failed to start consuming(%s): %s", queue, err.Error())
	}

	for msg := range msgs {
		var message dto.MQNoticePosted
		if err := json.Unmarshal(msg.Body, &message); err != nil {
			m.logger.Sugar().Errorf("Failed to unmarshal json in queue(%s): %s", queue, err.Error())
			msg.Nack(false, false)
			continue
		}

		if err := m.SendNoticePostedMail(message); err != nil {
			m.logger.Sugar().Errorf("Failed to send notice(%s) mail: %s", message.NoticeID.String(), err.Error())
			msg.Nack(false, true)
			continue
		}

		msg.Ack(false)

		m.logger.Sugar().Infof("Successfully sent notice(%s) announcement to the mail list", message.NoticeID.String())
		time.Sleep(time.Millisecond * 10)
	}
}

func (m *Mailer) SendNoticePostedMail(input dto.MQNoticePosted) error {
	if len(m.list) == 0 {
		return nil
	}

	subject := fmt.Sprintf("[%s] New campus notice: %s", input.Category, input.Title)
	body := fmt.Sprintf("A new notice was posted by <b>%s</b>:\n<b>%s</b>", input.PostedBy, input.Title)

	msg := []byte("Subject: " + subject + "\r\n" +
	"MIME-version: 1.0;\nContent-Type: text/html; charset=\"UTF-8\";\n\n" +
	"\r\n" + body)

	auth := smtp.PlainAuth("", m.from, m.pass, m.host)

	if err := smtp.SendMail(m.host + ":" + m.port, auth, m.from, m.list, msg); err != nil {
		return err
	}

	return nil
}

func splitList(raw string) []string {
	var list []string
	for _, addr := range strings.Split(raw, ",") {
		if addr = strings.TrimSpace(addr); addr != "" {
			list = append(list, addr)
		}
	}
	return list
}
