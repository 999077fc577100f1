package dummydb

import (
	"sort"

	"github.com/zeroonecreation/classify/core/course"
)

type courseRepository struct {
	db *courseTable
}

var _ course.Repository = (*courseRepository)(nil) // interface compliance check

func NewCourseRepository(db *DB) course.Repository {
	return &courseRepository{db: db.course}
}

// Courses

func (repo *courseRepository) CreateCourse(c course.Course) (course.Course, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	repo.db.courses[c.ID] = &c
	return c, nil
}

func (repo *courseRepository) QueryAllCourses() ([]course.Course, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	courses := make([]course.Course, 0, len(repo.db.courses))
	for _, c := range repo.db.courses {
		courses = append(courses, *c)
	}
	sort.Slice(courses, func(i, j int) bool { return courses[i].CreatedAt.After(courses[j].CreatedAt) })
	return courses, nil
}

func (repo *courseRepository) GetCourseByID(id string) (course.Course, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	if c, ok := repo.db.courses[id]; ok {
		return *c, nil
	}
	return course.Course{}, course.ErrNotFound
}

func (repo *courseRepository) UpdateCourse(c course.Course) (course.Course, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	if _, ok := repo.db.courses[c.ID]; !ok {
		return course.Course{}, course.ErrNotFound
	}
	repo.db.courses[c.ID] = &c
	return c, nil
}

func (repo *courseRepository) DeleteCourse(id string) error {
	repo.db.Lock()
	defer repo.db.Unlock()

	if _, ok := repo.db.courses[id]; !ok {
		return course.ErrNotFound
	}
	delete(repo.db.courses, id)
	// cascade like the FK constraints do
	for sid, sub := range repo.db.subjects {
		if sub.CourseID == id {
			repo.deleteSubjectTree(sid)
		}
	}
	return nil
}

// deleteSubjectTree removes a subject with its chapters and videos.
// Callers must hold the write lock.
func (repo *courseRepository) deleteSubjectTree(id string) {
	delete(repo.db.subjects, id)
	for cid, chp := range repo.db.chapters {
		if chp.SubjectID == id {
			repo.deleteChapterTree(cid)
		}
	}
}

func (repo *courseRepository) deleteChapterTree(id string) {
	delete(repo.db.chapters, id)
	for vid, v := range repo.db.videos {
		if v.ChapterID == id {
			delete(repo.db.videos, vid)
		}
	}
}

// Subjects

func (repo *courseRepository) CheckSubjectNameUniqueness(name string) error {
	repo.db.RLock()
	defer repo.db.RUnlock()

	for _, s := range repo.db.subjects {
		if s.Name == name {
			return course.ErrSubjectNameExists
		}
	}
	return nil
}

func (repo *courseRepository) CreateSubject(s course.Subject) (course.Subject, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	repo.db.subjects[s.ID] = &s
	return s, nil
}

func (repo *courseRepository) QuerySubjectsByCourse(courseID string) ([]course.Subject, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	subjects := make([]course.Subject, 0)
	for _, s := range repo.db.subjects {
		if s.CourseID == courseID {
			subjects = append(subjects, *s)
		}
	}
	sort.Slice(subjects, func(i, j int) bool { return subjects[i].CreatedAt.Before(subjects[j].CreatedAt) })
	return subjects, nil
}

func (repo *courseRepository) GetSubjectByID(id string) (course.Subject, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	if s, ok := repo.db.subjects[id]; ok {
		return *s, nil
	}
	return course.Subject{}, course.ErrSubjectNotFound
}

func (repo *courseRepository) UpdateSubject(s course.Subject) (course.Subject, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	if _, ok := repo.db.subjects[s.ID]; !ok {
		return course.Subject{}, course.ErrSubjectNotFound
	}
	repo.db.subjects[s.ID] = &s
	return s, nil
}

func (repo *courseRepository) DeleteSubject(id string) error {
	repo.db.Lock()
	defer repo.db.Unlock()

	if _, ok := repo.db.subjects[id]; !ok {
		return course.ErrSubjectNotFound
	}
	repo.deleteSubjectTree(id)
	return nil
}

// Chapters

func (repo *courseRepository) CreateChapter(c course.Chapter) (course.Chapter, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	repo.db.chapters[c.ID] = &c
	return c, nil
}

func (repo *courseRepository) QueryChaptersBySubject(subjectID string) ([]course.Chapter, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	chapters := make([]course.Chapter, 0)
	for _, c := range repo.db.chapters {
		if c.SubjectID == subjectID {
			chapters = append(chapters, *c)
		}
	}
	sort.Slice(chapters, func(i, j int) bool { return chapters[i].CreatedAt.Before(chapters[j].CreatedAt) })
	return chapters, nil
}

func (repo *courseRepository) GetChapterByID(id string) (course.Chapter, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	if c, ok := repo.db.chapters[id]; ok {
		return *c, nil
	}
	return course.Chapter{}, course.ErrChapterNotFound
}

func (repo *courseRepository) UpdateChapter(c course.Chapter) (course.Chapter, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	if _, ok := repo.db.chapters[c.ID]; !ok {
		return course.Chapter{}, course.ErrChapterNotFound
	}
	repo.db.chapters[c.ID] = &c
	return c, nil
}

func (repo *courseRepository) DeleteChapter(id string) error {
	repo.db.Lock()
	defer repo.db.Unlock()

	if _, ok := repo.db.chapters[id]; !ok {
		return course.ErrChapterNotFound
	}
	repo.deleteChapterTree(id)
	return nil
}

// Videos

func (repo *courseRepository) CreateVideo(v course.Video) (course.Video, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	repo.db.videos[v.ID] = &v
	return v, nil
}

func (repo *courseRepository) QueryVideosByChapter(chapterID string) ([]course.Video, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	videos := make([]course.Video, 0)
	for _, v := range repo.db.videos {
		if v.ChapterID == chapterID {
			videos = append(videos, *v)
		}
	}
	sort.Slice(videos, func(i, j int) bool { return videos[i].CreatedAt.Before(videos[j].CreatedAt) })
	return videos, nil
}

func (repo *courseRepository) GetVideoByID(id string) (course.Video, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	if v, ok := repo.db.videos[id]; ok {
		return *v, nil
	}
	return course.Video{}, course.ErrVideoNotFound
}

func (repo *courseRepository) GetLiveVideo(courseID string) (course.Video, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	live := make([]course.Video, 0)
	for _, v := range repo.db.videos {
		if !v.IsLive {
			continue
		}
		chp, ok := repo.db.chapters[v.ChapterID]
		if !ok {
			continue
		}
		sub, ok := repo.db.subjects[chp.SubjectID]
		if !ok || sub.CourseID != courseID {
			continue
		}
		live = append(live, *v)
	}
	if len(live) == 0 {
		return course.Video{}, course.ErrNoLiveVideo
	}
	sort.Slice(live, func(i, j int) bool { return live[i].CreatedAt.Before(live[j].CreatedAt) })
	return live[0], nil
}

func (repo *courseRepository) UpdateVideo(v course.Video) (course.Video, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	if _, ok := repo.db.videos[v.ID]; !ok {
		return course.Video{}, course.ErrVideoNotFound
	}
	repo.db.videos[v.ID] = &v
	return v, nil
}

func (repo *courseRepository) DeleteVideo(id string) error {
	repo.db.Lock()
	defer repo.db.Unlock()

	if _, ok := repo.db.videos[id]; !ok {
		return course.ErrVideoNotFound
	}
	delete(repo.db.videos, id)
	return nil
}
