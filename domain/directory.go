package domain

import "context"

// Entity CRUD for faculty/department/program/semester/course lives outside
// this core. The directory is the read-only slice the attendance engine
// consumes.

type Student struct {
	StudentID   string  `gorm:"primaryKey;type:varchar(255)" json:"student_id"`
	StudentName string  `gorm:"type:varchar(255);not null" json:"student_name"`
	PhoneNumber *string `gorm:"type:varchar(20)" json:"phone_number"`
	SemID       *string `gorm:"type:varchar(255)" json:"sem_id"`
}

func (Student) TableName() string {
	return "students"
}

type Course struct {
	CourseID   string `gorm:"primaryKey;type:varchar(255)" json:"course_id"`
	CourseName string `gorm:"type:varchar(255);not null" json:"course_name"`
	SemID      string `gorm:"type:varchar(255);not null" json:"sem_id"`
}

func (Course) TableName() string {
	return "course"
}

type DirectoryRepo interface {
	GetStudent(ctx context.Context, studentID string) (*Student, error)
	GetCourse(ctx context.Context, courseID string) (*Course, error)
	StudentsByIDs(ctx context.Context, studentIDs []string) (map[string]Student, error)
	CoursesByIDs(ctx context.Context, courseIDs []string) (map[string]Course, error)
	CoursesBySemester(ctx context.Context, semID string) ([]Course, error)
}
