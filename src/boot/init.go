package boot

import (
	"log"
	"os"
	"path"
	"strings"
	"time"

	"rcm/src/common"
	"rcm/src/db"
	"rcm/src/lib"
	"rcm/src/models"

	"gorm.io/gorm"
)

func InitDb() *gorm.DB {
	db := db.GetDb()

	err := db.AutoMigrate(
		&models.User{},
		&models.Community{},
		&models.Building{},
		&models.Unit{},
		&models.UnitBooking{},
		&models.MoveInTemplate{},
		&models.MoveInRequest{},
		&models.MoveInDetails{},
		&models.MoveOutRequest{},
		&models.MoveOutDetails{},
		&models.RenewalRequest{},
		&models.RenewalDetails{},
		&models.RequestDocument{},
		&models.RequestLog{},
		&models.Notification{},
		&models.JobTask{},
	)
	if err != nil {
		log.Fatalf("error migration: %s", err.Error())
	}

	return db
}

// InitBroker starts the queue consumers and makes sure the kafka topics
// exist.
func InitBroker() {
	go lib.KafkaCreateTopics(common.RequestEventsTopic)
	go common.KafkaConsumers()
	go common.SNSSubscribes()
	common.SQSConsumers()
}

func InitScheduler(reminders *common.LocalReminders) {
	sched, err := lib.GetScheduler()
	if err != nil {
		log.Println("An error has occurred. Check logs for info")
		return
	}
	go RecoverQueuedJobs(reminders)
	if _, err := lib.CreateCronJob(CleanupTempFiles, 24*time.Hour); err != nil {
		log.Printf("Error scheduling temp cleanup: %s\n", err.Error())
	}
	jobsWaitingInQueue := len(sched.Jobs())
	log.Println("Jobs in queue:", jobsWaitingInQueue)
	sched.Start()
}

func StopScheduler() {
	sched, err := lib.GetScheduler()
	if err != nil {
		log.Println("Error retrieving Scheduler. Check logs for info")
		return
	}
	if err := sched.Shutdown(); err != nil {
		log.Println("An error has occurred while stopping Scheduler. Check logs for info")
	}
}

// RecoverQueuedJobs puts pending reminder tasks back on the scheduler after
// a restart. Tasks already past their run time fire immediately through
// Requeue.
func RecoverQueuedJobs(reminders *common.LocalReminders) error {
	db := db.GetDb()
	ss := db.Session(&gorm.Session{PrepareStmt: true})
	var jobTasks []models.JobTask
	err := ss.
		Model(&models.JobTask{}).
		Where(&models.JobTask{Status: "pending"}).
		Order("runs_at asc").
		Limit(100).
		Find(&jobTasks).
		Error
	if err != nil {
		log.Printf("Error retrieving jobs: %s\n", err.Error())
		return err
	}
	log.Printf("Found %d pending jobs", len(jobTasks))
	for _, jobTask := range jobTasks {
		if err := reminders.Requeue(&jobTask); err != nil {
			log.Printf("Failed to schedule job [%s]. Skipping: %s\n", jobTask.ID.String(), err.Error())
		}
	}
	return nil
}

// CleanupTempFiles drops generated permit images older than a day from the
// temp directory.
func CleanupTempFiles() {
	tempdir := os.Getenv("TEMP_DIR")
	if tempdir == "" {
		return
	}
	wd, err := os.Getwd()
	if err != nil {
		return
	}
	dir := path.Join(wd, tempdir)
	entries, err := os.ReadDir(dir)
	if err != nil {
		log.Printf("Error reading temp dir: %s\n", err.Error())
		return
	}
	cutoff := time.Now().Add(-24 * time.Hour)
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".jpeg") {
			continue
		}
		info, err := entry.Info()
		if err != nil || info.ModTime().After(cutoff) {
			continue
		}
		if err := os.Remove(path.Join(dir, entry.Name())); err != nil {
			log.Printf("Error removing temp file %s: %s\n", entry.Name(), err.Error())
		}
	}
}
