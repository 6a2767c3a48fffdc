package repository

import (
	"context"
	"fmt"

	"github.com/tutorhub/tutorhub/internal/model"
	"github.com/tutorhub/tutorhub/internal/repository/base"
)

type CourseRepository struct {
	db base.Querier
}

func NewCourseRepository(db base.Querier) *CourseRepository {
	return &CourseRepository{db: db}
}

// CountOwned returns how many of the given course ids belong to the tutor.
// Callers compare against len(courseIDs) to validate ownership.
func (r *CourseRepository) CountOwned(ctx context.Context, tutorID int64, courseIDs []int64) (int, error) {
	query := `
		SELECT count(*)
		FROM courses
		WHERE tutor_id = $1 AND id = ANY($2)
	`

	var count int
	err := r.db.QueryRow(ctx, query, tutorID, courseIDs).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("count owned courses: %w", err)
	}

	return count, nil
}

// GetByTutorID returns all courses a tutor teaches.
func (r *CourseRepository) GetByTutorID(ctx context.Context, tutorID int64) ([]*model.Course, error) {
	query := `
		SELECT id, tutor_id, name, created_at
		FROM courses
		WHERE tutor_id = $1
		ORDER BY name
	`

	rows, err := r.db.Query(ctx, query, tutorID)
	if err != nil {
		return nil, fmt.Errorf("get courses by tutor: %w", err)
	}
	defer rows.Close()

	var courses []*model.Course
	for rows.Next() {
		var course model.Course
		err := rows.Scan(&course.ID, &course.TutorID, &course.Name, &course.CreatedAt)
		if err != nil {
			return nil, fmt.Errorf("scan course: %w", err)
		}
		courses = append(courses, &course)
	}

	return courses, rows.Err()
}
