package common

import (
	"encoding/json"
	"log"

	"rcm/src/db"
	"rcm/src/lib"
	"rcm/src/models"
	"rcm/src/services"
	"rcm/src/types"
	"rcm/src/utils"
)

const NotificationsQueue = "NotificationsToSend"
const RequestEventsTopic = "request-status-events"

// QueueNotifier persists a notification row and hands delivery to the queue
// pipeline. The row is the source of truth; SNS and kafka publication are
// best-effort and only logged when they fail.
type QueueNotifier struct{}

func NewQueueNotifier() *QueueNotifier {
	return &QueueNotifier{}
}

func (n *QueueNotifier) Notify(userID uint, templateSlug string, title string, data types.JSONB) services.Outcome {
	conn := db.GetDb()
	notification := models.Notification{
		UserID:       userID,
		TemplateSlug: templateSlug,
		Title:        title,
		Data:         &data,
	}
	if err := conn.Create(&notification).Error; err != nil {
		log.Printf("Error saving notification: %s\n", err.Error())
		return services.OutcomeFailed
	}

	payload := types.JSONB{
		"id":       notification.ID.String(),
		"userId":   userID,
		"template": templateSlug,
		"title":    title,
		"data":     map[string]any(data),
	}
	body, err := json.Marshal(payload)
	if err != nil {
		log.Printf("Error marshalling notification payload: %s\n", err.Error())
		return services.OutcomeOK
	}
	if err := lib.SNSPublishMessage(utils.WithSuffix(NotificationsQueue), string(body)); err != nil {
		log.Printf("Error publishing notification %s: %s\n", notification.ID.String(), err.Error())
	}
	if err := lib.KafkaProduceMessage("notifications", utils.WithSuffix(RequestEventsTopic), payload); err != nil {
		log.Printf("Error producing status event for notification %s: %s\n", notification.ID.String(), err.Error())
	}
	return services.OutcomeOK
}
