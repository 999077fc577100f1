package echoapi

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/zeroonecreation/classify/core/course"
	"github.com/zeroonecreation/classify/core/student"
	chatsvc "github.com/zeroonecreation/classify/services/chat"
	mediasvc "github.com/zeroonecreation/classify/services/media"
)

type courseApi struct {
	svc        course.Service
	studentSvc student.Service
	mediaSvc   mediasvc.Service
	hub        *chatsvc.Hub
}

func registerCourseAPI(
	g *echo.Group,
	adminRequired echo.MiddlewareFunc,
	svc course.Service,
	studentSvc student.Service,
	mediaSvc mediasvc.Service,
	hub *chatsvc.Hub,
) {
	api := courseApi{svc: svc, studentSvc: studentSvc, mediaSvc: mediaSvc, hub: hub}

	cg := g.Group("/courses")
	cg.GET("", api.query)
	cg.GET("/:id", api.retrieve)

	cg.POST("", api.create, adminRequired)
	cg.PUT("/:id", api.update, adminRequired)
	cg.DELETE("/:id", api.destroy, adminRequired)
	cg.POST("/:id/enrollment", api.enroll, adminRequired)

	// nested content
	sg := cg.Group("/:id/subject")
	sg.GET("", api.querySubjects)
	sg.POST("", api.createSubject, adminRequired)
	sg.GET("/:subjectId", api.retrieveSubject)
	sg.PUT("/:subjectId", api.updateSubject, adminRequired)
	sg.DELETE("/:subjectId", api.destroySubject, adminRequired)

	chg := sg.Group("/:subjectId/chapter")
	chg.GET("", api.queryChapters)
	chg.POST("", api.createChapter, adminRequired)
	chg.GET("/:chapterId", api.retrieveChapter)
	chg.PUT("/:chapterId", api.updateChapter, adminRequired)
	chg.DELETE("/:chapterId", api.destroyChapter, adminRequired)

	vg := chg.Group("/:chapterId/videos")
	vg.GET("", api.queryVideos)
	vg.POST("", api.createVideo, adminRequired)
	vg.GET("/get-live", api.getLive)
	vg.GET("/:videoId", api.retrieveVideo)
	vg.PUT("/:videoId", api.updateVideo, adminRequired)
	vg.DELETE("/:videoId", api.destroyVideo, adminRequired)
	vg.PATCH("/:videoId/end-live", api.endLive, adminRequired)

	// enrollment helpers used by the storefront
	g.POST("/is-already-enrolled", api.isAlreadyEnrolled)
	g.POST("/enrolled-courses", api.enrolledCourses)
}

// Handlers

// courseListItem decorates a course with the requesting student's
// enrollment state.
type courseListItem struct {
	course.Course
	IsEnrolled *bool `json:"isEnrolled,omitempty"`
}

func (api *courseApi) query(ctx echo.Context) error {
	courses, err := api.svc.QueryAll()
	if err != nil {
		return errors.Wrap(err, "querying courses")
	}

	studentID := ctx.QueryParam("studentId")
	if studentID == "" {
		return respond(ctx, http.StatusOK, courses)
	}

	enrolledIDs, err := api.studentSvc.EnrolledCourseIDs(studentID)
	if err != nil {
		return errors.Wrap(err, "querying enrollments")
	}
	enrolled := make(map[string]bool, len(enrolledIDs))
	for _, id := range enrolledIDs {
		enrolled[id] = true
	}

	items := make([]courseListItem, len(courses))
	for i, crs := range courses {
		isEnrolled := enrolled[crs.ID]
		items[i] = courseListItem{Course: crs, IsEnrolled: &isEnrolled}
	}
	return respond(ctx, http.StatusOK, items)
}

func (api *courseApi) retrieve(ctx echo.Context) error {
	crs, err := api.svc.GetByID(ctx.Param("id"))
	if err != nil {
		return err
	}
	return respond(ctx, http.StatusOK, crs)
}

// bindCourseInput decodes a course payload from either a plain JSON body or
// a multipart form carrying the JSON under "data" plus an optional
// "thumbnail" image. The uploaded thumbnail URL wins over any URL in the
// payload.
func (api *courseApi) bindCourseInput(ctx echo.Context, dst interface{}, thumbnail *string) error {
	contentType := ctx.Request().Header.Get(echo.HeaderContentType)
	if !strings.HasPrefix(contentType, echo.MIMEMultipartForm) {
		return ctx.Bind(dst)
	}

	if payload := ctx.FormValue("data"); payload != "" {
		if err := json.Unmarshal([]byte(payload), dst); err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "Malformed course payload").SetInternal(err)
		}
	}

	file, err := ctx.FormFile("thumbnail")
	if err != nil {
		return nil // no file attached
	}
	src, err := file.Open()
	if err != nil {
		return errors.Wrap(err, "opening uploaded thumbnail")
	}
	defer src.Close()

	url, err := api.mediaSvc.Upload(
		ctx.Request().Context(),
		file.Filename,
		file.Header.Get(echo.HeaderContentType),
		file.Size,
		src,
	)
	if err != nil {
		return err
	}
	*thumbnail = url
	return nil
}

func (api *courseApi) create(ctx echo.Context) error {
	var data course.NewCourse
	var thumbnail string
	if err := api.bindCourseInput(ctx, &data, &thumbnail); err != nil {
		return err
	}
	if thumbnail != "" {
		data.Thumbnail = thumbnail
	}
	if err := data.Validate(); err != nil {
		return err
	}

	adm, err := getContextAdmin(ctx)
	if err != nil {
		return errors.Wrap(err, "getting context admin")
	}
	crs, err := api.svc.Create(adm.ID, data)
	if err != nil {
		return err
	}
	return respond(ctx, http.StatusCreated, crs)
}

func (api *courseApi) update(ctx echo.Context) error {
	var data course.UpdateCourse
	var thumbnail string
	if err := api.bindCourseInput(ctx, &data, &thumbnail); err != nil {
		return err
	}
	if thumbnail != "" {
		data.Thumbnail = thumbnail
	}
	if err := data.Validate(); err != nil {
		return err
	}

	crs, err := api.svc.Update(ctx.Param("id"), data)
	if err != nil {
		return err
	}
	return respond(ctx, http.StatusOK, crs)
}

func (api *courseApi) destroy(ctx echo.Context) error {
	if err := api.svc.Delete(ctx.Param("id")); err != nil {
		return err
	}
	return respondMessage(ctx, http.StatusOK, "Course deleted successfully.")
}

// enroll grants a student access to a course by email and starts their
// subscription year.
func (api *courseApi) enroll(ctx echo.Context) error {
	var data EmailRequest
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to EmailRequest")
	}
	if err := data.Validate(); err != nil {
		return err
	}

	std, err := api.studentSvc.GetByEmail(data.Email)
	if err != nil {
		return err
	}
	if _, err = api.svc.GetByID(ctx.Param("id")); err != nil {
		return err
	}
	std, err = api.studentSvc.Enroll(std.ID, ctx.Param("id"))
	if err != nil {
		return err
	}
	return respondMessageData(ctx, http.StatusOK, "Student enrolled successfully.", std)
}

func (api *courseApi) isAlreadyEnrolled(ctx echo.Context) error {
	var data EnrollmentCheckRequest
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to EnrollmentCheckRequest")
	}
	if err := data.Validate(); err != nil {
		return err
	}

	std, err := api.studentSvc.GetByEmail(data.Email)
	if err != nil {
		return err
	}
	enrolled, err := api.studentSvc.IsEnrolled(std.ID, data.CourseID)
	if err != nil {
		return errors.Wrap(err, "checking enrollment")
	}
	return respond(ctx, http.StatusOK, echo.Map{"isEnrolled": enrolled})
}

func (api *courseApi) enrolledCourses(ctx echo.Context) error {
	var data EmailRequest
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to EmailRequest")
	}
	if err := data.Validate(); err != nil {
		return err
	}

	std, err := api.studentSvc.GetByEmail(data.Email)
	if err != nil {
		return err
	}
	ids, err := api.studentSvc.EnrolledCourseIDs(std.ID)
	if err != nil {
		return errors.Wrap(err, "querying enrollments")
	}

	courses := make([]course.Course, 0, len(ids))
	for _, id := range ids {
		crs, err := api.svc.GetByID(id)
		if err != nil {
			if errors.Cause(err) == course.ErrNotFound {
				continue // course was deleted after enrollment
			}
			return err
		}
		courses = append(courses, crs)
	}
	return respond(ctx, http.StatusOK, courses)
}

// Subjects

func (api *courseApi) querySubjects(ctx echo.Context) error {
	subjects, err := api.svc.QuerySubjects(ctx.Param("id"))
	if err != nil {
		return errors.Wrap(err, "querying subjects")
	}
	return respond(ctx, http.StatusOK, subjects)
}

func (api *courseApi) createSubject(ctx echo.Context) error {
	var data course.NewSubject
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewSubject")
	}
	if err := data.Validate(api.svc); err != nil {
		return err
	}
	sub, err := api.svc.CreateSubject(ctx.Param("id"), data)
	if err != nil {
		return err
	}
	return respond(ctx, http.StatusCreated, sub)
}

func (api *courseApi) retrieveSubject(ctx echo.Context) error {
	sub, err := api.svc.GetSubjectByID(ctx.Param("subjectId"))
	if err != nil {
		return err
	}
	return respond(ctx, http.StatusOK, sub)
}

func (api *courseApi) updateSubject(ctx echo.Context) error {
	sub, err := api.svc.GetSubjectByID(ctx.Param("subjectId"))
	if err != nil {
		return err
	}

	var data course.UpdateSubject
	if err = ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to UpdateSubject")
	}
	if err = data.Validate(sub, api.svc); err != nil {
		return err
	}

	sub, err = api.svc.UpdateSubject(sub.ID, data)
	if err != nil {
		return err
	}
	return respond(ctx, http.StatusOK, sub)
}

func (api *courseApi) destroySubject(ctx echo.Context) error {
	if err := api.svc.DeleteSubject(ctx.Param("subjectId")); err != nil {
		return err
	}
	return respondMessage(ctx, http.StatusOK, "Subject deleted successfully.")
}

// Chapters

func (api *courseApi) queryChapters(ctx echo.Context) error {
	chapters, err := api.svc.QueryChapters(ctx.Param("subjectId"))
	if err != nil {
		return errors.Wrap(err, "querying chapters")
	}
	return respond(ctx, http.StatusOK, chapters)
}

func (api *courseApi) createChapter(ctx echo.Context) error {
	var data course.NewChapter
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewChapter")
	}
	if err := data.Validate(); err != nil {
		return err
	}
	chp, err := api.svc.CreateChapter(ctx.Param("subjectId"), data)
	if err != nil {
		return err
	}
	return respond(ctx, http.StatusCreated, chp)
}

func (api *courseApi) retrieveChapter(ctx echo.Context) error {
	chp, err := api.svc.GetChapterByID(ctx.Param("chapterId"))
	if err != nil {
		return err
	}
	return respond(ctx, http.StatusOK, chp)
}

func (api *courseApi) updateChapter(ctx echo.Context) error {
	chp, err := api.svc.GetChapterByID(ctx.Param("chapterId"))
	if err != nil {
		return err
	}

	var data course.UpdateChapter
	if err = ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to UpdateChapter")
	}
	if err = data.Validate(chp); err != nil {
		return err
	}

	chp, err = api.svc.UpdateChapter(chp.ID, data)
	if err != nil {
		return err
	}
	return respond(ctx, http.StatusOK, chp)
}

func (api *courseApi) destroyChapter(ctx echo.Context) error {
	if err := api.svc.DeleteChapter(ctx.Param("chapterId")); err != nil {
		return err
	}
	return respondMessage(ctx, http.StatusOK, "Chapter deleted successfully.")
}

// Videos

func (api *courseApi) queryVideos(ctx echo.Context) error {
	videos, err := api.svc.QueryVideos(ctx.Param("chapterId"))
	if err != nil {
		return errors.Wrap(err, "querying videos")
	}
	return respond(ctx, http.StatusOK, videos)
}

func (api *courseApi) createVideo(ctx echo.Context) error {
	var data course.NewVideo
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewVideo")
	}
	if err := data.Validate(); err != nil {
		return err
	}
	vid, err := api.svc.CreateVideo(ctx.Param("chapterId"), data)
	if err != nil {
		return err
	}
	return respond(ctx, http.StatusCreated, vid)
}

func (api *courseApi) retrieveVideo(ctx echo.Context) error {
	vid, err := api.svc.GetVideoByID(ctx.Param("videoId"))
	if err != nil {
		return err
	}
	return respond(ctx, http.StatusOK, vid)
}

func (api *courseApi) updateVideo(ctx echo.Context) error {
	vid, err := api.svc.GetVideoByID(ctx.Param("videoId"))
	if err != nil {
		return err
	}

	var data course.UpdateVideo
	if err = ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to UpdateVideo")
	}
	if err = data.Validate(vid); err != nil {
		return err
	}

	vid, err = api.svc.UpdateVideo(vid.ID, data)
	if err != nil {
		return err
	}
	return respond(ctx, http.StatusOK, vid)
}

func (api *courseApi) destroyVideo(ctx echo.Context) error {
	if err := api.svc.DeleteVideo(ctx.Param("videoId")); err != nil {
		return err
	}
	return respondMessage(ctx, http.StatusOK, "Video deleted successfully.")
}

// Live

func (api *courseApi) getLive(ctx echo.Context) error {
	vid, err := api.svc.GetLiveVideo(ctx.Param("id"))
	if err != nil {
		return err
	}
	return respond(ctx, http.StatusOK, vid)
}

func (api *courseApi) endLive(ctx echo.Context) error {
	vid, err := api.svc.EndLive(ctx.Param("videoId"))
	if err != nil {
		return err
	}
	// kick everyone out of the chat room for the ended stream
	api.hub.CloseRoom(vid.ID)
	return respondMessageData(ctx, http.StatusOK, "Live session ended.", vid)
}
