package services

import (
	"errors"
	"testing"

	"eduProject/models"
	"eduProject/utils"
)

func TestCourseListVisibility(t *testing.T) {
	db := setupTestDB(t)
	service := NewCourseService(db, &discardProducer{})

	owner := createTestUser(t, db, "owner@example.com", models.RoleMember)
	other := createTestUser(t, db, "other@example.com", models.RoleMember)
	moderator := createTestUser(t, db, "mod@example.com", models.RoleModerator)

	createTestCourse(t, db, owner.ID, "Курс владельца")
	createTestCourse(t, db, other.ID, "Чужой курс")

	pagination := utils.Pagination{Page: 1, PageSize: 10}

	// Обычный пользователь видит только свои курсы
	courses, count, err := service.List(accessFor(owner), pagination)
	if err != nil {
		t.Fatalf("не удалось получить список курсов: %v", err)
	}
	if count != 1 || len(courses) != 1 {
		t.Errorf("owner must see only own courses: count=%d len=%d", count, len(courses))
	}
	if courses[0].Title != "Курс владельца" {
		t.Errorf("wrong course: got %s", courses[0].Title)
	}

	// Модератор видит все курсы
	_, count, err = service.List(accessFor(moderator), pagination)
	if err != nil {
		t.Fatalf("не удалось получить список курсов: %v", err)
	}
	if count != 2 {
		t.Errorf("moderator must see all courses: got %d want 2", count)
	}
}

func TestCourseCreateForbiddenForModerator(t *testing.T) {
	db := setupTestDB(t)
	service := NewCourseService(db, &discardProducer{})

	moderator := createTestUser(t, db, "mod@example.com", models.RoleModerator)

	_, err := service.Create(accessFor(moderator), CreateCourseRequest{Title: "Новый курс"})

	var forbiddenErr *utils.ForbiddenError
	if !errors.As(err, &forbiddenErr) {
		t.Errorf("expected forbidden error, got %v", err)
	}
}

func TestCourseDeleteForbiddenForModerator(t *testing.T) {
	db := setupTestDB(t)
	service := NewCourseService(db, &discardProducer{})

	owner := createTestUser(t, db, "owner@example.com", models.RoleMember)
	moderator := createTestUser(t, db, "mod@example.com", models.RoleModerator)
	course := createTestCourse(t, db, owner.ID, "Курс владельца")

	err := service.Delete(accessFor(moderator), course.ID)

	var forbiddenErr *utils.ForbiddenError
	if !errors.As(err, &forbiddenErr) {
		t.Errorf("expected forbidden error, got %v", err)
	}
}

func TestCourseAccessHiddenAsNotFound(t *testing.T) {
	db := setupTestDB(t)
	service := NewCourseService(db, &discardProducer{})

	owner := createTestUser(t, db, "owner@example.com", models.RoleMember)
	other := createTestUser(t, db, "other@example.com", models.RoleMember)
	course := createTestCourse(t, db, owner.ID, "Курс владельца")

	// Чужой курс неотличим от несуществующего
	_, err := service.GetByID(accessFor(other), course.ID)
	var notFoundErr *utils.NotFoundError
	if !errors.As(err, &notFoundErr) {
		t.Errorf("expected not found error for foreign course, got %v", err)
	}

	err = service.Delete(accessFor(other), course.ID)
	if !errors.As(err, &notFoundErr) {
		t.Errorf("expected not found error on foreign delete, got %v", err)
	}

	// Курс при этом остается на месте
	var count int64
	db.Model(&models.Course{}).Count(&count)
	if count != 1 {
		t.Errorf("course must not be deleted, got %d courses", count)
	}
}

func TestCourseUpdateEnqueuesNotification(t *testing.T) {
	db := setupTestDB(t)
	producer := &discardProducer{}
	service := NewCourseService(db, producer)

	owner := createTestUser(t, db, "owner@example.com", models.RoleMember)
	course := createTestCourse(t, db, owner.ID, "Курс владельца")

	_, err := service.Update(accessFor(owner), course.ID, UpdateCourseRequest{
		Description: "Новое описание",
	})
	if err != nil {
		t.Fatalf("не удалось обновить курс: %v", err)
	}

	if len(producer.tasks) != 1 {
		t.Fatalf("one notification task expected, got %d", len(producer.tasks))
	}
	task := producer.tasks[0]
	if task.Type != NotificationCourseUpdated || task.CourseID != course.ID {
		t.Errorf("wrong task: type=%s courseID=%d", task.Type, task.CourseID)
	}
}

func TestCourseModeratorCanUpdateForeign(t *testing.T) {
	db := setupTestDB(t)
	service := NewCourseService(db, &discardProducer{})

	owner := createTestUser(t, db, "owner@example.com", models.RoleMember)
	moderator := createTestUser(t, db, "mod@example.com", models.RoleModerator)
	course := createTestCourse(t, db, owner.ID, "Курс владельца")

	// Модератор может редактировать чужие курсы
	updated, err := service.Update(accessFor(moderator), course.ID, UpdateCourseRequest{
		Title: "Исправленное название",
	})
	if err != nil {
		t.Fatalf("модератор не смог обновить курс: %v", err)
	}
	if updated.Title != "Исправленное название" {
		t.Errorf("wrong title after update: %s", updated.Title)
	}
}
