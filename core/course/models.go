package course

import (
	"database/sql/driver"
	"encoding/json"
	"time"

	"github.com/pkg/errors"

	"github.com/zeroonecreation/classify/core"
)

const defaultLanguage = "Hindi"

type (
	DemoVideo struct {
		Title string `json:"title" validate:"required"`
		URL   string `json:"url" validate:"required,httpurl"`
	}

	FAQ struct {
		Question string `json:"question" validate:"required,min=10"`
		Answer   string `json:"answer" validate:"required,min=10"`
	}

	SocialMedia struct {
		Platform string `json:"platform" validate:"required"`
		URL      string `json:"url" validate:"required,httpurl"`
	}

	Resource struct {
		Title string `json:"title" validate:"required,min=3,max=100"`
		URL   string `json:"url" validate:"required,httpurl"`
	}

	DemoVideoList   []DemoVideo
	FAQList         []FAQ
	SocialMediaList []SocialMedia
	ResourceList    []Resource
)

// JSONB plumbing; nil lists round-trip as SQL NULL.

func jsonbValue(v interface{}) (driver.Value, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return nil, errors.Wrap(err, "marshaling jsonb")
	}
	return b, nil
}

func jsonbScan(src, dst interface{}) error {
	if src == nil {
		return nil
	}
	b, ok := src.([]byte)
	if !ok {
		return errors.Errorf("unsupported jsonb source type %T", src)
	}
	return errors.Wrap(json.Unmarshal(b, dst), "unmarshaling jsonb")
}

func (l DemoVideoList) Value() (driver.Value, error) {
	if l == nil {
		return nil, nil
	}
	return jsonbValue(l)
}
func (l *DemoVideoList) Scan(src interface{}) error { return jsonbScan(src, l) }

func (l FAQList) Value() (driver.Value, error) {
	if l == nil {
		return nil, nil
	}
	return jsonbValue(l)
}
func (l *FAQList) Scan(src interface{}) error { return jsonbScan(src, l) }

func (l SocialMediaList) Value() (driver.Value, error) {
	if l == nil {
		return nil, nil
	}
	return jsonbValue(l)
}
func (l *SocialMediaList) Scan(src interface{}) error { return jsonbScan(src, l) }

func (l ResourceList) Value() (driver.Value, error) {
	if l == nil {
		return nil, nil
	}
	return jsonbValue(l)
}
func (l *ResourceList) Scan(src interface{}) error { return jsonbScan(src, l) }

type Course struct {
	ID            string          `json:"id" db:"id"`
	Title         string          `json:"title" db:"title"`
	Description   string          `json:"description" db:"description"`
	CreatedBy     string          `json:"createdBy" db:"created_by"`
	OriginalCost  float64         `json:"originalCost" db:"original_cost"`
	Discount      float64         `json:"discount" db:"discount"`
	Thumbnail     string          `json:"courseThumbnail" db:"thumbnail"`
	Duration      float64         `json:"duration" db:"duration"`
	Validity      int             `json:"validity" db:"validity"` // days
	DemoVideos    DemoVideoList   `json:"demoVideo" db:"demo_videos"`
	FAQ           FAQList         `json:"faq" db:"faq"`
	SocialMedia   SocialMediaList `json:"socialMedia" db:"social_media"`
	IsPublished   bool            `json:"isPublished" db:"is_published"`
	Category      string          `json:"category" db:"category"`
	Language      string          `json:"language" db:"language"`
	RatingAverage float64         `json:"ratingAverage" db:"rating_average"`
	RatingCount   int             `json:"ratingCount" db:"rating_count"`
	CreatedAt     time.Time       `json:"createdAt" db:"created_at"` // UTC
	UpdatedAt     time.Time       `json:"updatedAt" db:"updated_at"` // UTC

	// FinalPrice is derived from OriginalCost and Discount; the service
	// stamps it on every Course it returns.
	FinalPrice float64 `json:"finalPrice" db:"-"`
}

func (c Course) finalPrice() float64 {
	return c.OriginalCost - (c.OriginalCost * c.Discount / 100)
}

type Subject struct {
	ID          string    `json:"id" db:"id"`
	Name        string    `json:"name" db:"name"`
	Description string    `json:"description" db:"description"`
	ImageURL    string    `json:"imageUrl" db:"image_url"`
	CourseID    string    `json:"courseId" db:"course_id"`
	CreatedAt   time.Time `json:"createdAt" db:"created_at"` // UTC
	UpdatedAt   time.Time `json:"updatedAt" db:"updated_at"` // UTC
}

type Chapter struct {
	ID          string       `json:"id" db:"id"`
	Title       string       `json:"title" db:"title"`
	Description string       `json:"description" db:"description"`
	SubjectID   string       `json:"subjectId" db:"subject_id"`
	Resources   ResourceList `json:"resources" db:"resources"`
	Thumbnail   string       `json:"chapterThumbnail" db:"thumbnail"`
	CreatedAt   time.Time    `json:"createdAt" db:"created_at"` // UTC
	UpdatedAt   time.Time    `json:"updatedAt" db:"updated_at"` // UTC
}

type Video struct {
	ID                string    `json:"id" db:"id"`
	Title             string    `json:"title" db:"title"`
	URL               string    `json:"url" db:"url"`
	Description       string    `json:"description" db:"description"`
	ChapterID         string    `json:"chapterId" db:"chapter_id"`
	IsLive            bool      `json:"isLive" db:"is_live"`
	IsLiveChatEnabled bool      `json:"isLiveChatEnabled" db:"is_live_chat_enabled"`
	CreatedAt         time.Time `json:"createdAt" db:"created_at"` // UTC
	UpdatedAt         time.Time `json:"updatedAt" db:"updated_at"` // UTC
}

// NewCourse contains information needed to create a new Course.
type NewCourse struct {
	Title        string          `json:"title" validate:"required,min=3,max=100"`
	Description  string          `json:"description" validate:"required,min=10"`
	OriginalCost float64         `json:"originalCost" validate:"gte=0"`
	Discount     float64         `json:"discount" validate:"gte=0,lte=100"`
	Thumbnail    string          `json:"courseThumbnail" validate:"omitempty,httpurl"`
	Duration     float64         `json:"duration" validate:"gte=0"`
	Validity     int             `json:"validity" validate:"required,gte=1"`
	DemoVideos   DemoVideoList   `json:"demoVideo" validate:"omitempty,dive"`
	FAQ          FAQList         `json:"faq" validate:"omitempty,dive"`
	SocialMedia  SocialMediaList `json:"socialMedia" validate:"omitempty,dive"`
	IsPublished  bool            `json:"isPublished"`
	Category     string          `json:"category"`
	Language     string          `json:"language"`
}

func (nc *NewCourse) Validate() error {
	nc.Title = core.CleanString(nc.Title)
	nc.Description = core.CleanString(nc.Description)
	nc.Category = core.CleanString(nc.Category)
	if nc.Language = core.CleanString(nc.Language); nc.Language == "" {
		nc.Language = defaultLanguage
	}
	return core.Validate.Struct(nc)
}

// UpdateCourse defines what information may be provided to modify an existing Course.
type UpdateCourse struct {
	Title        string          `json:"title" validate:"omitempty,min=3,max=100"`
	Description  string          `json:"description" validate:"omitempty,min=10"`
	OriginalCost *float64        `json:"originalCost" validate:"omitempty,gte=0"`
	Discount     *float64        `json:"discount" validate:"omitempty,gte=0,lte=100"`
	Thumbnail    string          `json:"courseThumbnail" validate:"omitempty,httpurl"`
	Duration     *float64        `json:"duration" validate:"omitempty,gte=0"`
	Validity     *int            `json:"validity" validate:"omitempty,gte=1"`
	DemoVideos   DemoVideoList   `json:"demoVideo" validate:"omitempty,dive"`
	FAQ          FAQList         `json:"faq" validate:"omitempty,dive"`
	SocialMedia  SocialMediaList `json:"socialMedia" validate:"omitempty,dive"`
	IsPublished  *bool           `json:"isPublished"`
	Category     string          `json:"category"`
	Language     string          `json:"language"`
}

func (uc *UpdateCourse) Validate() error {
	uc.Title = core.CleanString(uc.Title)
	uc.Description = core.CleanString(uc.Description)
	uc.Category = core.CleanString(uc.Category)
	uc.Language = core.CleanString(uc.Language)
	return core.Validate.Struct(uc)
}

type NewSubject struct {
	Name        string `json:"name" validate:"required,min=2,max=50"`
	Description string `json:"description" validate:"required,max=500"`
	ImageURL    string `json:"imageUrl" validate:"omitempty,httpurl"`
}

func (ns *NewSubject) Validate(svc Service) error {
	ns.Name = core.CleanString(ns.Name)
	ns.Description = core.CleanString(ns.Description)

	if err := core.Validate.Struct(ns); err != nil {
		return err
	}
	return svc.CheckSubjectNameUniqueness(ns.Name)
}

type UpdateSubject struct {
	Name        string `json:"name" validate:"omitempty,min=2,max=50"`
	Description string `json:"description" validate:"omitempty,max=500"`
	ImageURL    string `json:"imageUrl" validate:"omitempty,httpurl"`
}

func (us *UpdateSubject) Validate(orig Subject, svc Service) error {
	if name := core.CleanString(us.Name); name != "" {
		us.Name = name
	} else {
		us.Name = orig.Name
	}
	if desc := core.CleanString(us.Description); desc != "" {
		us.Description = desc
	} else {
		us.Description = orig.Description
	}
	if us.ImageURL == "" {
		us.ImageURL = orig.ImageURL
	}

	if err := core.Validate.Struct(us); err != nil {
		return err
	}
	if us.Name != orig.Name {
		return svc.CheckSubjectNameUniqueness(us.Name)
	}
	return nil
}

type NewChapter struct {
	Title       string       `json:"title" validate:"required,min=3,max=100"`
	Description string       `json:"description" validate:"required,max=1000"`
	Resources   ResourceList `json:"resources" validate:"omitempty,dive"`
	Thumbnail   string       `json:"chapterThumbnail" validate:"omitempty,httpurl"`
}

func (nc *NewChapter) Validate() error {
	nc.Title = core.CleanString(nc.Title)
	nc.Description = core.CleanString(nc.Description)
	return core.Validate.Struct(nc)
}

type UpdateChapter struct {
	Title       string       `json:"title" validate:"omitempty,min=3,max=100"`
	Description string       `json:"description" validate:"omitempty,max=1000"`
	Resources   ResourceList `json:"resources" validate:"omitempty,dive"`
	Thumbnail   string       `json:"chapterThumbnail" validate:"omitempty,httpurl"`
}

func (uc *UpdateChapter) Validate(orig Chapter) error {
	if title := core.CleanString(uc.Title); title != "" {
		uc.Title = title
	} else {
		uc.Title = orig.Title
	}
	if desc := core.CleanString(uc.Description); desc != "" {
		uc.Description = desc
	} else {
		uc.Description = orig.Description
	}
	if uc.Resources == nil {
		uc.Resources = orig.Resources
	}
	if uc.Thumbnail == "" {
		uc.Thumbnail = orig.Thumbnail
	}
	return core.Validate.Struct(uc)
}

type NewVideo struct {
	Title             string `json:"title" validate:"required,min=3,max=100"`
	URL               string `json:"url" validate:"required,httpurl"`
	Description       string `json:"description"`
	IsLive            *bool  `json:"isLive"`
	IsLiveChatEnabled *bool  `json:"isLiveChatEnabled"`
}

func (nv *NewVideo) Validate() error {
	nv.Title = core.CleanString(nv.Title)
	nv.Description = core.CleanString(nv.Description)
	return core.Validate.Struct(nv)
}

type UpdateVideo struct {
	Title             string `json:"title" validate:"omitempty,min=3,max=100"`
	URL               string `json:"url" validate:"omitempty,httpurl"`
	Description       string `json:"description"`
	IsLive            *bool  `json:"isLive"`
	IsLiveChatEnabled *bool  `json:"isLiveChatEnabled"`
}

func (uv *UpdateVideo) Validate(orig Video) error {
	if title := core.CleanString(uv.Title); title != "" {
		uv.Title = title
	} else {
		uv.Title = orig.Title
	}
	if uv.URL == "" {
		uv.URL = orig.URL
	}
	if desc := core.CleanString(uv.Description); desc == "" {
		uv.Description = orig.Description
	} else {
		uv.Description = desc
	}
	return core.Validate.Struct(uv)
}
