package common

import (
	"fmt"
	"log"
	"time"

	"rcm/src/db"
	"rcm/src/lib"
	"rcm/src/models"
	"rcm/src/services"
	"rcm/src/types"

	"github.com/go-co-op/gocron/v2"
	"github.com/google/uuid"
)

const JobApprovalLapse = "approval-lapse"

// LocalReminders schedules one-time gocron jobs and mirrors each into a
// JobTask row so pending reminders survive a restart (boot re-queues them).
type LocalReminders struct {
	notifier services.Notifier
}

func NewLocalReminders(notifier services.Notifier) *LocalReminders {
	return &LocalReminders{notifier: notifier}
}

func (r *LocalReminders) ScheduleApprovalLapse(workflow types.Workflow, requestID uint, runsAt time.Time) services.Outcome {
	conn := db.GetDb()
	task := models.JobTask{
		Name:      fmt.Sprintf("%s-%s-%d", JobApprovalLapse, workflow, requestID),
		JobType:   JobApprovalLapse,
		Workflow:  workflow,
		RequestID: requestID,
		RunsAt:    runsAt,
		Payload:   types.JSONB{"workflow": string(workflow), "requestId": requestID},
	}
	if err := conn.Create(&task).Error; err != nil {
		log.Printf("Error saving job task: %s\n", err.Error())
		return services.OutcomeFailed
	}
	if err := r.enqueue(&task); err != nil {
		log.Printf("Error scheduling job %s: %s\n", task.Name, err.Error())
		return services.OutcomeFailed
	}
	return services.OutcomeOK
}

// Requeue puts a persisted pending task back on the scheduler. Tasks whose
// run time already passed fire immediately.
func (r *LocalReminders) Requeue(task *models.JobTask) error {
	if task.RunsAt.Before(time.Now()) {
		go r.run(task.ID)
		return nil
	}
	return r.enqueue(task)
}

func (r *LocalReminders) enqueue(task *models.JobTask) error {
	_, err := lib.CreateOneTimeCronJob(task.RunsAt, gocron.NewTask(r.run, task.ID))
	return err
}

// run fires the reminder: if the request is still approved and active when
// the job lands, the resident gets a heads-up that the close window is about
// to lapse.
func (r *LocalReminders) run(taskID uuid.UUID) {
	conn := db.GetDb()
	var task models.JobTask
	if err := conn.First(&task, "id = ?", taskID).Error; err != nil {
		log.Printf("Error loading job task %s: %s\n", taskID.String(), err.Error())
		return
	}
	if task.Status != "pending" {
		return
	}

	switch task.Workflow {
	case types.WORKFLOW_MOVE_IN:
		var req models.MoveInRequest
		if err := conn.First(&req, task.RequestID).Error; err != nil {
			log.Printf("Error loading move-in request %d: %s\n", task.RequestID, err.Error())
			return
		}
		if req.IsActive && req.Status == types.REQUEST_APPROVED && r.notifier != nil {
			r.notifier.Notify(req.UserID, "move-in-approval-lapsing", "Your move-in approval is about to lapse", types.JSONB{
				"requestNumber": req.RequestNumber,
			})
		}
	default:
		log.Printf("No lapse reminder handler for workflow %s\n", task.Workflow)
	}

	if err := conn.Model(&models.JobTask{}).Where("id = ?", task.ID).Update("status", "done").Error; err != nil {
		log.Printf("Error completing job task %s: %s\n", task.ID.String(), err.Error())
	}
}
