package repository

import (
	"context"
	"errors"
	"fmt"

	"attendance/domain"

	"gorm.io/gorm"
)

type directoryRepository struct {
	db *gorm.DB
}

// NewDirectoryRepository exposes the read-only student/course directory the
// attendance engine consumes. Entity CRUD is managed elsewhere.
func NewDirectoryRepository(database *gorm.DB) domain.DirectoryRepo {
	return &directoryRepository{
		db: database,
	}
}

func (dr *directoryRepository) GetStudent(ctx context.Context, studentID string) (*domain.Student, error) {
	var student domain.Student
	err := dr.db.WithContext(ctx).Where("student_id = ?", studentID).First(&student).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("student with ID %s: %w", studentID, domain.ErrNotFound)
		}
		return nil, &domain.BackendError{Op: "could not fetch student", Err: err}
	}
	return &student, nil
}

func (dr *directoryRepository) GetCourse(ctx context.Context, courseID string) (*domain.Course, error) {
	var course domain.Course
	err := dr.db.WithContext(ctx).Where("course_id = ?", courseID).First(&course).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("course with ID %s: %w", courseID, domain.ErrNotFound)
		}
		return nil, &domain.BackendError{Op: "could not fetch course", Err: err}
	}
	return &course, nil
}

func (dr *directoryRepository) StudentsByIDs(ctx context.Context, studentIDs []string) (map[string]domain.Student, error) {
	var students []domain.Student
	err := dr.db.WithContext(ctx).Where("student_id IN ?", studentIDs).Find(&students).Error
	if err != nil {
		return nil, &domain.BackendError{Op: "could not fetch students", Err: err}
	}

	byID := make(map[string]domain.Student, len(students))
	for _, s := range students {
		byID[s.StudentID] = s
	}
	return byID, nil
}

func (dr *directoryRepository) CoursesByIDs(ctx context.Context, courseIDs []string) (map[string]domain.Course, error) {
	var courses []domain.Course
	err := dr.db.WithContext(ctx).Where("course_id IN ?", courseIDs).Find(&courses).Error
	if err != nil {
		return nil, &domain.BackendError{Op: "could not fetch courses", Err: err}
	}

	byID := make(map[string]domain.Course, len(courses))
	for _, c := range courses {
		byID[c.CourseID] = c
	}
	return byID, nil
}

func (dr *directoryRepository) CoursesBySemester(ctx context.Context, semID string) ([]domain.Course, error) {
	var courses []domain.Course
	err := dr.db.WithContext(ctx).
		Where("sem_id = ?", semID).
		Order("course_name").
		Find(&courses).Error
	if err != nil {
		return nil, &domain.BackendError{Op: "could not fetch semester courses", Err: err}
	}
	return courses, nil
}
