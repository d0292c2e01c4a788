package services

import (
	"errors"
	"fmt"
	"time"

	"eduProject/models"
	"eduProject/utils"
	"gorm.io/gorm"
)

// NotificationType представляет тип уведомления
type NotificationType string

const (
	NotificationCourseUpdated NotificationType = "course_updated" // Курс обновлен
	NotificationLessonAdded   NotificationType = "lesson_added"   // Добавлен новый урок
)

// Порог повторных уведомлений: если курс обновлялся менее 4 часов назад,
// уведомление о новом уроке не отправляется
const lessonNotificationThreshold = 4 * time.Hour

// NotificationTask представляет задачу на отправку уведомлений
type NotificationTask struct {
	Type     NotificationType
	CourseID uint
}

// NotificationProducer описывает постановку задачи в очередь уведомлений.
// Постановка не блокирует вызывающий запрос.
type NotificationProducer interface {
	Enqueue(task NotificationTask)
}

// NotificationService реализует очередь уведомлений: продюсер кладет задачи
// в канал, отдельный воркер рассылает письма подписчикам курса.
// Ошибки доставки логируются и не влияют на исходный запрос.
type NotificationService struct {
	db     *gorm.DB
	sender EmailSender
	tasks  chan NotificationTask
	done   chan struct{}
}

// NewNotificationService создает новый экземпляр NotificationService
func NewNotificationService(db *gorm.DB, sender EmailSender) *NotificationService {
	return &NotificationService{
		db:     db,
		sender: sender,
		tasks:  make(chan NotificationTask, 64),
		done:   make(chan struct{}),
	}
}

// Enqueue ставит задачу в очередь. При переполнении очереди задача
// отбрасывается с записью в лог.
func (s *NotificationService) Enqueue(task NotificationTask) {
	select {
	case s.tasks <- task:
	default:
		utils.GetMetrics().RecordDroppedNotification()
		utils.LogError("Очередь уведомлений переполнена, задача %s для курса #%d отброшена", task.Type, task.CourseID)
	}
}

// Start запускает воркер очереди уведомлений
func (s *NotificationService) Start() {
	go func() {
		for {
			select {
			case task := <-s.tasks:
				if err := s.handleTask(task); err != nil {
					utils.LogError("Ошибка при обработке уведомления %s для курса #%d: %v", task.Type, task.CourseID, err)
				}
			case <-s.done:
				return
			}
		}
	}()
}

// Stop останавливает воркер очереди уведомлений
func (s *NotificationService) Stop() {
	close(s.done)
}

// handleTask обрабатывает одну задачу из очереди
func (s *NotificationService) handleTask(task NotificationTask) error {
	// Получаем курс
	var course models.Course
	if err := s.db.First(&course, task.CourseID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("курс #%d не найден", task.CourseID)
		}
		return errors.New("ошибка при поиске курса")
	}

	if task.Type == NotificationLessonAdded {
		// Если курс обновлялся недавно, уведомление не отправляем
		threshold := time.Now().Add(-lessonNotificationThreshold)
		if course.UpdatedAt.After(threshold) {
			utils.LogInfo("Курс #%d обновлялся недавно, уведомление не отправлено", course.ID)
			return nil
		}
	}

	// Получаем подписчиков курса
	var subscriptions []models.Subscription
	if err := s.db.Where("course_id = ?", course.ID).
		Preload("User").
		Find(&subscriptions).Error; err != nil {
		return errors.New("ошибка при получении подписчиков")
	}

	subject, body := s.composeMessage(task.Type, &course)

	// Рассылаем письма подписчикам
	for _, subscription := range subscriptions {
		err := s.sender.SendEmail(subscription.User.Email, subject, body)
		utils.GetMetrics().RecordNotification(err)
		if err != nil {
			utils.LogError("Ошибка отправки уведомления на %s: %v", subscription.User.Email, err)
		}
	}

	if task.Type == NotificationLessonAdded {
		// Обновляем время последнего обновления курса
		course.UpdatedAt = time.Now()
		if err := s.db.Save(&course).Error; err != nil {
			return errors.New("ошибка при обновлении курса")
		}
	}

	utils.LogInfo("Уведомления %s отправлены для курса %s", task.Type, course.Title)
	return nil
}

// composeMessage формирует тему и текст письма для типа уведомления
func (s *NotificationService) composeMessage(notificationType NotificationType, course *models.Course) (string, string) {
	switch notificationType {
	case NotificationLessonAdded:
		subject := fmt.Sprintf("Новый урок в курсе: %s", course.Title)
		body := fmt.Sprintf(
			"В курсе \"%s\" добавлен новый урок. Не пропустите новые знания!\n\n"+
				"С уважением, команда образовательной платформы",
			course.Title,
		)
		return subject, body
	default:
		subject := fmt.Sprintf("Обновление курса: %s", course.Title)
		body := fmt.Sprintf(
			"Курс \"%s\" был обновлен. Загляните, чтобы ознакомиться с новыми материалами!\n\n"+
				"С уважением, команда образовательной платформы",
			course.Title,
		)
		return subject, body
	}
}
