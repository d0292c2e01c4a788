package services

import (
	"errors"
	"testing"

	"eduProject/models"
	"eduProject/utils"
)

func TestValidateVideoLink(t *testing.T) {
	cases := []struct {
		link  string
		valid bool
	}{
		{"", true},
		{"https://www.youtube.com/watch?v=abc123", true},
		{"https://youtube.com/watch?v=abc123", true},
		{"https://vimeo.com/12345", false},
		{"https://rutube.ru/video/abc", false},
		{"https://evil.com/youtube.com", false},
	}

	for _, c := range cases {
		err := ValidateVideoLink(c.link)
		if c.valid && err != nil {
			t.Errorf("link %q must be valid, got %v", c.link, err)
		}
		if !c.valid && err == nil {
			t.Errorf("link %q must be rejected", c.link)
		}
	}
}

func TestLessonCreateRejectsForeignVideoLink(t *testing.T) {
	db := setupTestDB(t)
	service := NewLessonService(db, &discardProducer{})

	owner := createTestUser(t, db, "owner@example.com", models.RoleMember)
	course := createTestCourse(t, db, owner.ID, "Основы Go")

	_, err := service.Create(accessFor(owner), CreateLessonRequest{
		Title:     "Урок с плохой ссылкой",
		VideoLink: "https://vimeo.com/12345",
		CourseID:  course.ID,
	})

	var validationErr *utils.ValidationError
	if !errors.As(err, &validationErr) {
		t.Errorf("expected validation error, got %v", err)
	}

	var count int64
	db.Model(&models.Lesson{}).Count(&count)
	if count != 0 {
		t.Errorf("lesson must not be created, got %d", count)
	}
}

func TestLessonCreateEnqueuesNotification(t *testing.T) {
	db := setupTestDB(t)
	producer := &discardProducer{}
	service := NewLessonService(db, producer)

	owner := createTestUser(t, db, "owner@example.com", models.RoleMember)
	course := createTestCourse(t, db, owner.ID, "Основы Go")

	lesson, err := service.Create(accessFor(owner), CreateLessonRequest{
		Title:     "Введение",
		VideoLink: "https://www.youtube.com/watch?v=abc123",
		CourseID:  course.ID,
	})
	if err != nil {
		t.Fatalf("не удалось создать урок: %v", err)
	}
	if lesson.CourseID != course.ID {
		t.Errorf("wrong course id: got %d want %d", lesson.CourseID, course.ID)
	}

	if len(producer.tasks) != 1 {
		t.Fatalf("one notification task expected, got %d", len(producer.tasks))
	}
	if producer.tasks[0].Type != NotificationLessonAdded {
		t.Errorf("wrong task type: %s", producer.tasks[0].Type)
	}
}

func TestLessonCreateForbiddenForModerator(t *testing.T) {
	db := setupTestDB(t)
	service := NewLessonService(db, &discardProducer{})

	owner := createTestUser(t, db, "owner@example.com", models.RoleMember)
	moderator := createTestUser(t, db, "mod@example.com", models.RoleModerator)
	course := createTestCourse(t, db, owner.ID, "Основы Go")

	_, err := service.Create(accessFor(moderator), CreateLessonRequest{
		Title:    "Урок модератора",
		CourseID: course.ID,
	})

	var forbiddenErr *utils.ForbiddenError
	if !errors.As(err, &forbiddenErr) {
		t.Errorf("expected forbidden error, got %v", err)
	}
}

func TestLessonCreateMissingCourse(t *testing.T) {
	db := setupTestDB(t)
	service := NewLessonService(db, &discardProducer{})

	owner := createTestUser(t, db, "owner@example.com", models.RoleMember)

	_, err := service.Create(accessFor(owner), CreateLessonRequest{
		Title:    "Урок без курса",
		CourseID: 999,
	})

	var notFoundErr *utils.NotFoundError
	if !errors.As(err, &notFoundErr) {
		t.Errorf("expected not found error, got %v", err)
	}
}

func TestLessonListVisibility(t *testing.T) {
	db := setupTestDB(t)
	service := NewLessonService(db, &discardProducer{})

	owner := createTestUser(t, db, "owner@example.com", models.RoleMember)
	other := createTestUser(t, db, "other@example.com", models.RoleMember)
	moderator := createTestUser(t, db, "mod@example.com", models.RoleModerator)

	course := createTestCourse(t, db, owner.ID, "Основы Go")
	createTestLesson(t, db, course.ID, owner.ID, "Урок владельца")
	createTestLesson(t, db, course.ID, other.ID, "Чужой урок")

	pagination := utils.Pagination{Page: 1, PageSize: 10}

	_, count, err := service.List(accessFor(owner), pagination)
	if err != nil {
		t.Fatalf("не удалось получить список уроков: %v", err)
	}
	if count != 1 {
		t.Errorf("owner must see only own lessons: got %d want 1", count)
	}

	_, count, err = service.List(accessFor(moderator), pagination)
	if err != nil {
		t.Fatalf("не удалось получить список уроков: %v", err)
	}
	if count != 2 {
		t.Errorf("moderator must see all lessons: got %d want 2", count)
	}
}

func TestLessonUpdateRejectsForeignVideoLink(t *testing.T) {
	db := setupTestDB(t)
	service := NewLessonService(db, &discardProducer{})

	owner := createTestUser(t, db, "owner@example.com", models.RoleMember)
	course := createTestCourse(t, db, owner.ID, "Основы Go")
	lesson := createTestLesson(t, db, course.ID, owner.ID, "Введение")

	_, err := service.Update(accessFor(owner), lesson.ID, UpdateLessonRequest{
		VideoLink: "https://vimeo.com/12345",
	})

	var validationErr *utils.ValidationError
	if !errors.As(err, &validationErr) {
		t.Errorf("expected validation error, got %v", err)
	}
}
