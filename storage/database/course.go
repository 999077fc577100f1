package database

import (
	"database/sql"

	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"

	"github.com/zeroonecreation/classify/core/course"
)

type courseRepository struct {
	db *sqlx.DB
}

var _ course.Repository = (*courseRepository)(nil) // interface compliance check

func NewCourseRepository(db *sqlx.DB) course.Repository {
	return &courseRepository{db: db}
}

// Courses

func (repo *courseRepository) CreateCourse(c course.Course) (course.Course, error) {
	_, err := repo.db.NamedExec(`
		INSERT INTO course (
			id, title, description, created_by, original_cost, discount, thumbnail,
			duration, validity, demo_videos, faq, social_media, is_published,
			category, language, rating_average, rating_count, created_at, updated_at
		)
		VALUES (
			:id, :title, :description, :created_by, :original_cost, :discount, :thumbnail,
			:duration, :validity, :demo_videos, :faq, :social_media, :is_published,
			:category, :language, :rating_average, :rating_count, :created_at, :updated_at
		)`, c)
	if err != nil {
		return course.Course{}, errors.Wrap(err, "inserting course")
	}
	return c, nil
}

func (repo *courseRepository) QueryAllCourses() ([]course.Course, error) {
	var courses []course.Course
	err := repo.db.Select(&courses, `SELECT * FROM course ORDER BY created_at DESC`)
	if err != nil {
		return nil, errors.Wrap(err, "querying courses")
	}
	return courses, nil
}

func (repo *courseRepository) GetCourseByID(id string) (course.Course, error) {
	var c course.Course
	err := repo.db.Get(&c, `SELECT * FROM course WHERE id = $1`, id)
	if err == sql.ErrNoRows {
		return course.Course{}, course.ErrNotFound
	}
	if err != nil {
		return course.Course{}, errors.Wrap(err, "getting course by ID")
	}
	return c, nil
}

func (repo *courseRepository) UpdateCourse(c course.Course) (course.Course, error) {
	res, err := repo.db.NamedExec(`
		UPDATE course
		SET title = :title, description = :description, original_cost = :original_cost,
			discount = :discount, thumbnail = :thumbnail, duration = :duration,
			validity = :validity, demo_videos = :demo_videos, faq = :faq,
			social_media = :social_media, is_published = :is_published,
			category = :category, language = :language, rating_average = :rating_average,
			rating_count = :rating_count, updated_at = :updated_at
		WHERE id = :id`, c)
	if err != nil {
		return course.Course{}, errors.Wrap(err, "updating course")
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return course.Course{}, course.ErrNotFound
	}
	return c, nil
}

func (repo *courseRepository) DeleteCourse(id string) error {
	res, err := repo.db.Exec(`DELETE FROM course WHERE id = $1`, id)
	if err != nil {
		return errors.Wrap(err, "deleting course")
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return course.ErrNotFound
	}
	return nil
}

// Subjects

func (repo *courseRepository) CheckSubjectNameUniqueness(name string) error {
	var exists bool
	err := repo.db.Get(&exists, `SELECT EXISTS (SELECT 1 FROM subject WHERE lower(name) = lower($1))`, name)
	if err != nil {
		return errors.Wrap(err, "checking subject name")
	}
	if exists {
		return course.ErrSubjectNameExists
	}
	return nil
}

func (repo *courseRepository) CreateSubject(s course.Subject) (course.Subject, error) {
	_, err := repo.db.NamedExec(`
		INSERT INTO subject (id, name, description, image_url, course_id, created_at, updated_at)
		VALUES (:id, :name, :description, :image_url, :course_id, :created_at, :updated_at)`, s)
	if err != nil {
		return course.Subject{}, errors.Wrap(err, "inserting subject")
	}
	return s, nil
}

func (repo *courseRepository) QuerySubjectsByCourse(courseID string) ([]course.Subject, error) {
	var subjects []course.Subject
	err := repo.db.Select(&subjects, `SELECT * FROM subject WHERE course_id = $1 ORDER BY created_at`, courseID)
	if err != nil {
		return nil, errors.Wrap(err, "querying subjects")
	}
	return subjects, nil
}

func (repo *courseRepository) GetSubjectByID(id string) (course.Subject, error) {
	var s course.Subject
	err := repo.db.Get(&s, `SELECT * FROM subject WHERE id = $1`, id)
	if err == sql.ErrNoRows {
		return course.Subject{}, course.ErrSubjectNotFound
	}
	if err != nil {
		return course.Subject{}, errors.Wrap(err, "getting subject by ID")
	}
	return s, nil
}

func (repo *courseRepository) UpdateSubject(s course.Subject) (course.Subject, error) {
	res, err := repo.db.NamedExec(`
		UPDATE subject
		SET name = :name, description = :description, image_url = :image_url, updated_at = :updated_at
		WHERE id = :id`, s)
	if err != nil {
		return course.Subject{}, errors.Wrap(err, "updating subject")
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return course.Subject{}, course.ErrSubjectNotFound
	}
	return s, nil
}

func (repo *courseRepository) DeleteSubject(id string) error {
	res, err := repo.db.Exec(`DELETE FROM subject WHERE id = $1`, id)
	if err != nil {
		return errors.Wrap(err, "deleting subject")
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return course.ErrSubjectNotFound
	}
	return nil
}

// Chapters

func (repo *courseRepository) CreateChapter(c course.Chapter) (course.Chapter, error) {
	_, err := repo.db.NamedExec(`
		INSERT INTO chapter (id, title, description, subject_id, resources, thumbnail, created_at, updated_at)
		VALUES (:id, :title, :description, :subject_id, :resources, :thumbnail, :created_at, :updated_at)`, c)
	if err != nil {
		return course.Chapter{}, errors.Wrap(err, "inserting chapter")
	}
	return c, nil
}

func (repo *courseRepository) QueryChaptersBySubject(subjectID string) ([]course.Chapter, error) {
	var chapters []course.Chapter
	err := repo.db.Select(&chapters, `SELECT * FROM chapter WHERE subject_id = $1 ORDER BY created_at`, subjectID)
	if err != nil {
		return nil, errors.Wrap(err, "querying chapters")
	}
	return chapters, nil
}

func (repo *courseRepository) GetChapterByID(id string) (course.Chapter, error) {
	var c course.Chapter
	err := repo.db.Get(&c, `SELECT * FROM chapter WHERE id = $1`, id)
	if err == sql.ErrNoRows {
		return course.Chapter{}, course.ErrChapterNotFound
	}
	if err != nil {
		return course.Chapter{}, errors.Wrap(err, "getting chapter by ID")
	}
	return c, nil
}

func (repo *courseRepository) UpdateChapter(c course.Chapter) (course.Chapter, error) {
	res, err := repo.db.NamedExec(`
		UPDATE chapter
		SET title = :title, description = :description, resources = :resources,
			thumbnail = :thumbnail, updated_at = :updated_at
		WHERE id = :id`, c)
	if err != nil {
		return course.Chapter{}, errors.Wrap(err, "updating chapter")
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return course.Chapter{}, course.ErrChapterNotFound
	}
	return c, nil
}

func (repo *courseRepository) DeleteChapter(id string) error {
	res, err := repo.db.Exec(`DELETE FROM chapter WHERE id = $1`, id)
	if err != nil {
		return errors.Wrap(err, "deleting chapter")
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return course.ErrChapterNotFound
	}
	return nil
}

// Videos

func (repo *courseRepository) CreateVideo(v course.Video) (course.Video, error) {
	_, err := repo.db.NamedExec(`
		INSERT INTO video (id, title, url, description, chapter_id, is_live, is_live_chat_enabled, created_at, updated_at)
		VALUES (:id, :title, :url, :description, :chapter_id, :is_live, :is_live_chat_enabled, :created_at, :updated_at)`, v)
	if err != nil {
		return course.Video{}, errors.Wrap(err, "inserting video")
	}
	return v, nil
}

func (repo *courseRepository) QueryVideosByChapter(chapterID string) ([]course.Video, error) {
	var videos []course.Video
	err := repo.db.Select(&videos, `SELECT * FROM video WHERE chapter_id = $1 ORDER BY created_at`, chapterID)
	if err != nil {
		return nil, errors.Wrap(err, "querying videos")
	}
	return videos, nil
}

func (repo *courseRepository) GetVideoByID(id string) (course.Video, error) {
	var v course.Video
	err := repo.db.Get(&v, `SELECT * FROM video WHERE id = $1`, id)
	if err == sql.ErrNoRows {
		return course.Video{}, course.ErrVideoNotFound
	}
	if err != nil {
		return course.Video{}, errors.Wrap(err, "getting video by ID")
	}
	return v, nil
}

func (repo *courseRepository) GetLiveVideo(courseID string) (course.Video, error) {
	var v course.Video
	err := repo.db.Get(&v, `
		SELECT video.* FROM video
		JOIN chapter ON chapter.id = video.chapter_id
		JOIN subject ON subject.id = chapter.subject_id
		WHERE subject.course_id = $1 AND video.is_live
		ORDER BY video.created_at
		LIMIT 1`, courseID)
	if err == sql.ErrNoRows {
		return course.Video{}, course.ErrNoLiveVideo
	}
	if err != nil {
		return course.Video{}, errors.Wrap(err, "getting live video")
	}
	return v, nil
}

func (repo *courseRepository) UpdateVideo(v course.Video) (course.Video, error) {
	res, err := repo.db.NamedExec(`
		UPDATE video
		SET title = :title, url = :url, description = :description, is_live = :is_live,
			is_live_chat_enabled = :is_live_chat_enabled, updated_at = :updated_at
		WHERE id = :id`, v)
	if err != nil {
		return course.Video{}, errors.Wrap(err, "updating video")
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return course.Video{}, course.ErrVideoNotFound
	}
	return v, nil
}

func (repo *courseRepository) DeleteVideo(id string) error {
	res, err := repo.db.Exec(`DELETE FROM video WHERE id = $1`, id)
	if err != nil {
		return errors.Wrap(err, "deleting video")
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return course.ErrVideoNotFound
	}
	return nil
}
