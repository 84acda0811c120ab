package cron

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"slotwise/config"
	bookingRepo "slotwise/database/repository/booking"
	"slotwise/models"
	"slotwise/services/notification"
	"slotwise/services/tasks"

	"github.com/hibiken/asynq"
)

// InitReminderWorker runs the async reminder worker in background.
func InitReminderWorker(notifSvc notification.NotificationService, bookings bookingRepo.BookingRepository) {
	redisOpts := asynq.RedisClientOpt{
		Addr:     config.AppConfig.RedisAddr,
		Password: config.AppConfig.RedisPassword,
		DB:       config.AppConfig.RedisQueueDB,
	}

	srv := asynq.NewServer(
		redisOpts,
		asynq.Config{
			Concurrency: 10,
			Queues: map[string]int{
				"default": 1,
			},
		},
	)

	mux := asynq.NewServeMux()
	mux.HandleFunc(tasks.TypeSendReminder, handleReminderTask(notifSvc, bookings))

	go func() {
		log.Println("[ReminderWorker] starting async worker...")
		const maxAttempts = 5

		for attempts := 1; attempts <= maxAttempts; attempts++ {
			if err := srv.Run(mux); err != nil {
				log.Printf("[ReminderWorker] attempt %d/%d failed to start worker: %v", attempts, maxAttempts, err)

				if attempts == maxAttempts {
					log.Fatal("[ReminderWorker] max retry attempts reached. Exiting.")
				}
				time.Sleep(time.Duration(attempts*2) * time.Second)
			} else {
				break
			}
		}
	}()
}

func handleReminderTask(notifSvc notification.NotificationService, bookings bookingRepo.BookingRepository) asynq.HandlerFunc {
	return func(ctx context.Context, task *asynq.Task) error {
		var p models.ReminderPayload
		if err := json.Unmarshal(task.Payload(), &p); err != nil {
			log.Printf("[ReminderHandler] invalid payload: %v", err)
			return err
		}

		// A booking cancelled after the task was scheduled gets no reminder.
		current, err := bookings.GetByID(p.BookingID)
		if err != nil {
			log.Printf("[ReminderHandler] booking %s lookup failed: %v", p.BookingID, err)
			return nil
		}
		if current.Status != models.BookingStatusConfirmed {
			return nil
		}

		subject := fmt.Sprintf("Reminder: %s", p.Title)
		body := fmt.Sprintf(
			"Hi %s,\n\nthis is a reminder for your upcoming appointment %q starting at %s.\n",
			p.Name, p.Title, p.Start.Format(time.RFC1123),
		)
		if err := notifSvc.Send(p.Email, subject, body); err != nil {
			log.Printf("[ReminderHandler] failed to send reminder for booking %s: %v", p.BookingID, err)
			return err
		}
		return nil
	}
}
