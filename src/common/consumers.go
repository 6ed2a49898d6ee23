package common

import (
	"context"
	"fmt"
	"log"
	"os"

	"rcm/src/db"
	"rcm/src/lib"
	awslib "rcm/src/lib/aws"
	"rcm/src/lib/mailer"
	"rcm/src/models"
	"rcm/src/stor"
	"rcm/src/types"
	"rcm/src/utils"

	"firebase.google.com/go/v4/messaging"
	"github.com/aws/aws-sdk-go-v2/aws"
	sestypes "github.com/aws/aws-sdk-go-v2/service/ses/types"
	"github.com/tidwall/gjson"
)

// SQSConsumers starts the background delivery workers.
func SQSConsumers() {
	notifications := awslib.NewSQSConsumer(utils.WithSuffix(NotificationsQueue), notificationsToSendHandler)
	notifications.Listen()
	emails := awslib.NewSQSConsumer(utils.WithSuffix(os.Getenv("EMAIL_QUEUE")), emailQueueHandler)
	emails.Listen()
}

// SNSSubscribes wires the notification topic into its delivery queue.
func SNSSubscribes() {
	notifications := awslib.NewSNSSubscriber(utils.WithSuffix(NotificationsQueue))
	if notifications != nil {
		notifications.Subscribe("sqs", lib.GetQueueArn(utils.WithSuffix(NotificationsQueue)))
	}
}

// KafkaConsumers mirrors the queue pipeline for local environments without
// AWS connectivity.
func KafkaConsumers() {
	lib.KafkaConsumer("rcm-api", []string{utils.WithSuffix(RequestEventsTopic)}, func(value []byte) {
		log.Printf("request status event: %s\n", string(value))
	})
}

// notificationsToSendHandler delivers one queued notification: email via SES
// and push via FCM when the resident has a cached device token. Delivery
// problems mark the row failed and are otherwise swallowed.
func notificationsToSendHandler(payload string) {
	id := gjson.Get(payload, "id").String()
	userID := uint(gjson.Get(payload, "userId").Uint())
	title := gjson.Get(payload, "title").String()
	template := gjson.Get(payload, "template").String()

	users := stor.NewGormUserStor(db.GetDb())
	user, err := users.GetByID(userID)
	if err != nil {
		log.Printf("[%s] Error loading user %d: %s\n", NotificationsQueue, userID, err.Error())
		markNotification(id, types.NOTIFICATION_FAILED)
		return
	}

	delivered := false
	if user.Email != "" {
		from := os.Getenv("MAIL_FROM")
		err := awslib.SESSendMessage(
			aws.String(from),
			&sestypes.Destination{ToAddresses: []string{user.Email}},
			&sestypes.Message{
				Subject: &sestypes.Content{Data: aws.String(title)},
				Body: &sestypes.Body{
					Text: &sestypes.Content{Data: aws.String(title)},
				},
			},
		)
		if err != nil {
			// SES is unreachable, hand the message to the SMTP queue instead.
			err = mailer.NewMailerMessage(&lib.SendMailInput{
				From:    from,
				To:      []string{user.Email},
				Subject: title,
				Body:    title,
			})
			if err != nil {
				log.Printf("[%s] Error queueing fallback email for %s: %s\n", NotificationsQueue, user.Email, err.Error())
			} else {
				delivered = true
			}
		} else {
			delivered = true
		}
	}

	if user.UID != "" {
		rd := lib.GetRedisClient()
		if rd != nil {
			key := fmt.Sprintf("%s:fcm", user.UID)
			token := rd.Get(context.Background(), key).Val()
			if token != "" {
				fcm, err := lib.GetFirebaseMessaging()
				if err == nil {
					res, err := fcm.Send(context.Background(), &messaging.Message{
						Token: token,
						Data: map[string]string{
							"title":    title,
							"template": template,
						},
					})
					if err != nil {
						log.Printf("[FCM] error sending notification message: %s\n", err.Error())
					} else {
						log.Printf("[FCM] notification sent: %s\n", res)
						delivered = true
					}
				}
			}
		}
	}

	if delivered {
		markNotification(id, types.NOTIFICATION_SENT)
	} else {
		markNotification(id, types.NOTIFICATION_FAILED)
	}
}

// emailQueueHandler sends a raw mailer message through SMTP.
func emailQueueHandler(payload string) {
	input := &lib.SendMailInput{
		From:     gjson.Get(payload, "from").String(),
		FromName: gjson.Get(payload, "from-name").String(),
		ReplyTo:  gjson.Get(payload, "reply-to").String(),
		Subject:  gjson.Get(payload, "subject").String(),
		Body:     gjson.Get(payload, "body").String(),
		Html:     gjson.Get(payload, "html").Bool(),
	}
	for _, to := range gjson.Get(payload, "to").Array() {
		input.To = append(input.To, to.String())
	}
	for _, cc := range gjson.Get(payload, "cc").Array() {
		input.Cc = append(input.Cc, cc.String())
	}
	for _, bcc := range gjson.Get(payload, "bcc").Array() {
		input.Bcc = append(input.Bcc, bcc.String())
	}
	if err := lib.SendMail(input); err != nil {
		log.Printf("Error sending email: %s\n", err.Error())
	}
}

func markNotification(id string, status types.NotificationStatus) {
	if id == "" {
		return
	}
	conn := db.GetDb()
	if err := conn.Model(&models.Notification{}).Where("id = ?", id).Update("status", status).Error; err != nil {
		log.Printf("Error updating notification %s: %s\n", id, err.Error())
	}
}
