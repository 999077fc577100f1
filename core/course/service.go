package course

import (
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/zeroonecreation/classify/core"
)

var (
	// errors
	ErrNotFound          = errors.New("Course not found")
	ErrSubjectNotFound   = errors.New("Subject not found")
	ErrChapterNotFound   = errors.New("Chapter not found")
	ErrVideoNotFound     = errors.New("Video not found")
	ErrNoLiveVideo       = errors.New("No live video found")
	ErrVideoNotLive      = errors.New("Video is not live")
	ErrSubjectNameExists = errors.New("Subject with this name already exists")
)

type (
	Repository interface {
		CreateCourse(c Course) (Course, error)
		QueryAllCourses() ([]Course, error)
		GetCourseByID(id string) (Course, error)
		UpdateCourse(c Course) (Course, error)
		DeleteCourse(id string) error

		CheckSubjectNameUniqueness(name string) error
		CreateSubject(s Subject) (Subject, error)
		QuerySubjectsByCourse(courseID string) ([]Subject, error)
		GetSubjectByID(id string) (Subject, error)
		UpdateSubject(s Subject) (Subject, error)
		DeleteSubject(id string) error

		CreateChapter(c Chapter) (Chapter, error)
		QueryChaptersBySubject(subjectID string) ([]Chapter, error)
		GetChapterByID(id string) (Chapter, error)
		UpdateChapter(c Chapter) (Chapter, error)
		DeleteChapter(id string) error

		CreateVideo(v Video) (Video, error)
		QueryVideosByChapter(chapterID string) ([]Video, error)
		GetVideoByID(id string) (Video, error)
		// GetLiveVideo returns the earliest-created live video.
		GetLiveVideo(courseID string) (Video, error)
		UpdateVideo(v Video) (Video, error)
		DeleteVideo(id string) error
	}

	Service interface {
		Create(adminID string, nc NewCourse) (Course, error)
		QueryAll() ([]Course, error)
		GetByID(id string) (Course, error)
		Update(id string, uc UpdateCourse) (Course, error)
		Delete(id string) error

		CheckSubjectNameUniqueness(name string) error
		CreateSubject(courseID string, ns NewSubject) (Subject, error)
		QuerySubjects(courseID string) ([]Subject, error)
		GetSubjectByID(id string) (Subject, error)
		UpdateSubject(id string, us UpdateSubject) (Subject, error)
		DeleteSubject(id string) error

		CreateChapter(subjectID string, nc NewChapter) (Chapter, error)
		QueryChapters(subjectID string) ([]Chapter, error)
		GetChapterByID(id string) (Chapter, error)
		UpdateChapter(id string, uc UpdateChapter) (Chapter, error)
		DeleteChapter(id string) error

		CreateVideo(chapterID string, nv NewVideo) (Video, error)
		QueryVideos(chapterID string) ([]Video, error)
		GetVideoByID(id string) (Video, error)
		// GetLiveVideo fails with ErrNoLiveVideo when no video is live.
		GetLiveVideo(courseID string) (Video, error)
		UpdateVideo(id string, uv UpdateVideo) (Video, error)
		// EndLive fails with ErrVideoNotLive when the video is not live.
		EndLive(id string) (Video, error)
		DeleteVideo(id string) error
	}

	service struct {
		repo Repository
	}
)

func NewService(repo Repository) Service {
	return &service{repo: repo}
}

func priced(c Course, err error) (Course, error) {
	c.FinalPrice = c.finalPrice()
	return c, err
}

// Courses

func (svc *service) Create(adminID string, nc NewCourse) (Course, error) {
	now := time.Now().UTC()
	crs := Course{
		ID:           uuid.NewString(),
		Title:        nc.Title,
		Description:  nc.Description,
		CreatedBy:    adminID,
		OriginalCost: nc.OriginalCost,
		Discount:     nc.Discount,
		Thumbnail:    nc.Thumbnail,
		Duration:     nc.Duration,
		Validity:     nc.Validity,
		DemoVideos:   nc.DemoVideos,
		FAQ:          nc.FAQ,
		SocialMedia:  nc.SocialMedia,
		IsPublished:  nc.IsPublished,
		Category:     nc.Category,
		Language:     nc.Language,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	return priced(svc.repo.CreateCourse(crs))
}

func (svc *service) QueryAll() ([]Course, error) {
	courses, err := svc.repo.QueryAllCourses()
	if err != nil {
		return nil, err
	}
	for i := range courses {
		courses[i].FinalPrice = courses[i].finalPrice()
	}
	return courses, nil
}

func (svc *service) GetByID(id string) (Course, error) {
	return priced(svc.repo.GetCourseByID(id))
}

func (svc *service) Update(id string, uc UpdateCourse) (Course, error) {
	crs, err := svc.repo.GetCourseByID(id)
	if err != nil {
		return Course{}, err
	}
	if uc.Title != "" {
		crs.Title = uc.Title
	}
	if uc.Description != "" {
		crs.Description = uc.Description
	}
	if uc.OriginalCost != nil {
		crs.OriginalCost = *uc.OriginalCost
	}
	if uc.Discount != nil {
		crs.Discount = *uc.Discount
	}
	if uc.Thumbnail != "" {
		crs.Thumbnail = uc.Thumbnail
	}
	if uc.Duration != nil {
		crs.Duration = *uc.Duration
	}
	if uc.Validity != nil {
		crs.Validity = *uc.Validity
	}
	if uc.DemoVideos != nil {
		crs.DemoVideos = uc.DemoVideos
	}
	if uc.FAQ != nil {
		crs.FAQ = uc.FAQ
	}
	if uc.SocialMedia != nil {
		crs.SocialMedia = uc.SocialMedia
	}
	if uc.IsPublished != nil {
		crs.IsPublished = *uc.IsPublished
	}
	if uc.Category != "" {
		crs.Category = uc.Category
	}
	if uc.Language != "" {
		crs.Language = uc.Language
	}
	crs.UpdatedAt = time.Now().UTC()
	return priced(svc.repo.UpdateCourse(crs))
}

func (svc *service) Delete(id string) error {
	return svc.repo.DeleteCourse(id)
}

// Subjects

func (svc *service) CheckSubjectNameUniqueness(name string) error {
	if err := svc.repo.CheckSubjectNameUniqueness(name); err != nil {
		if err == ErrSubjectNameExists {
			return core.NewValidationError(err, core.FieldError{Field: "name", Error: err.Error()})
		}
		return err
	}
	return nil
}

func (svc *service) CreateSubject(courseID string, ns NewSubject) (Subject, error) {
	if _, err := svc.repo.GetCourseByID(courseID); err != nil {
		return Subject{}, err
	}
	now := time.Now().UTC()
	sub := Subject{
		ID:          uuid.NewString(),
		Name:        ns.Name,
		Description: ns.Description,
		ImageURL:    ns.ImageURL,
		CourseID:    courseID,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	return svc.repo.CreateSubject(sub)
}

func (svc *service) QuerySubjects(courseID string) ([]Subject, error) {
	return svc.repo.QuerySubjectsByCourse(courseID)
}

func (svc *service) GetSubjectByID(id string) (Subject, error) {
	return svc.repo.GetSubjectByID(id)
}

func (svc *service) UpdateSubject(id string, us UpdateSubject) (Subject, error) {
	sub, err := svc.repo.GetSubjectByID(id)
	if err != nil {
		return Subject{}, err
	}
	sub.Name = us.Name
	sub.Description = us.Description
	sub.ImageURL = us.ImageURL
	sub.UpdatedAt = time.Now().UTC()
	return svc.repo.UpdateSubject(sub)
}

func (svc *service) DeleteSubject(id string) error {
	return svc.repo.DeleteSubject(id)
}

// Chapters

func (svc *service) CreateChapter(subjectID string, nc NewChapter) (Chapter, error) {
	if _, err := svc.repo.GetSubjectByID(subjectID); err != nil {
		return Chapter{}, err
	}
	now := time.Now().UTC()
	chp := Chapter{
		ID:          uuid.NewString(),
		Title:       nc.Title,
		Description: nc.Description,
		SubjectID:   subjectID,
		Resources:   nc.Resources,
		Thumbnail:   nc.Thumbnail,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	return svc.repo.CreateChapter(chp)
}

func (svc *service) QueryChapters(subjectID string) ([]Chapter, error) {
	return svc.repo.QueryChaptersBySubject(subjectID)
}

func (svc *service) GetChapterByID(id string) (Chapter, error) {
	return svc.repo.GetChapterByID(id)
}

func (svc *service) UpdateChapter(id string, uc UpdateChapter) (Chapter, error) {
	chp, err := svc.repo.GetChapterByID(id)
	if err != nil {
		return Chapter{}, err
	}
	chp.Title = uc.Title
	chp.Description = uc.Description
	chp.Resources = uc.Resources
	chp.Thumbnail = uc.Thumbnail
	chp.UpdatedAt = time.Now().UTC()
	return svc.repo.UpdateChapter(chp)
}

func (svc *service) DeleteChapter(id string) error {
	return svc.repo.DeleteChapter(id)
}

// Videos

func (svc *service) CreateVideo(chapterID string, nv NewVideo) (Video, error) {
	if _, err := svc.repo.GetChapterByID(chapterID); err != nil {
		return Video{}, err
	}
	now := time.Now().UTC()
	vid := Video{
		ID:                uuid.NewString(),
		Title:             nv.Title,
		URL:               nv.URL,
		Description:       nv.Description,
		ChapterID:         chapterID,
		IsLive:            true,
		IsLiveChatEnabled: true,
		CreatedAt:         now,
		UpdatedAt:         now,
	}
	if nv.IsLive != nil {
		vid.IsLive = *nv.IsLive
	}
	if nv.IsLiveChatEnabled != nil {
		vid.IsLiveChatEnabled = *nv.IsLiveChatEnabled
	}
	return svc.repo.CreateVideo(vid)
}

func (svc *service) QueryVideos(chapterID string) ([]Video, error) {
	return svc.repo.QueryVideosByChapter(chapterID)
}

func (svc *service) GetVideoByID(id string) (Video, error) {
	return svc.repo.GetVideoByID(id)
}

func (svc *service) GetLiveVideo(courseID string) (Video, error) {
	return svc.repo.GetLiveVideo(courseID)
}

func (svc *service) UpdateVideo(id string, uv UpdateVideo) (Video, error) {
	vid, err := svc.repo.GetVideoByID(id)
	if err != nil {
		return Video{}, err
	}
	vid.Title = uv.Title
	vid.URL = uv.URL
	vid.Description = uv.Description
	if uv.IsLive != nil {
		vid.IsLive = *uv.IsLive
	}
	if uv.IsLiveChatEnabled != nil {
		vid.IsLiveChatEnabled = *uv.IsLiveChatEnabled
	}
	vid.UpdatedAt = time.Now().UTC()
	return svc.repo.UpdateVideo(vid)
}

func (svc *service) EndLive(id string) (Video, error) {
	vid, err := svc.repo.GetVideoByID(id)
	if err != nil {
		return Video{}, err
	}
	if !vid.IsLive {
		return Video{}, core.NewValidationError(ErrVideoNotLive)
	}
	vid.IsLive = false
	vid.UpdatedAt = time.Now().UTC()
	return svc.repo.UpdateVideo(vid)
}

func (svc *service) DeleteVideo(id string) error {
	return svc.repo.DeleteVideo(id)
}
