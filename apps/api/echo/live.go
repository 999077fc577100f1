package echoapi

import (
	"net/http"

	"github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/zeroonecreation/classify/core"
	"github.com/zeroonecreation/classify/core/course"
	chatsvc "github.com/zeroonecreation/classify/services/chat"
)

var errChatDisabled = echo.NewHTTPError(http.StatusForbidden, "Live chat is disabled for this video")

type liveApi struct {
	courseSvc course.Service
	hub       *chatsvc.Hub
	logger    core.Logger
	upgrader  websocket.Upgrader
}

func registerLiveAPI(
	g *echo.Group,
	sessionRequired echo.MiddlewareFunc,
	courseSvc course.Service,
	hub *chatsvc.Hub,
	logger core.Logger,
) {
	api := liveApi{
		courseSvc: courseSvc,
		hub:       hub,
		logger:    logger,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			// the browser front end is served from a different origin
			CheckOrigin: func(*http.Request) bool { return true },
		},
	}

	g.GET("/live/:videoId/chat", api.chat, sessionRequired)
}

// chat upgrades the connection and joins the video's chat room. The room
// lives as long as the video is live; messages are fanned out to every
// connected student.
func (api *liveApi) chat(ctx echo.Context) error {
	vid, err := api.courseSvc.GetVideoByID(ctx.Param("videoId"))
	if err != nil {
		return err
	}
	if !vid.IsLive {
		return core.NewValidationError(course.ErrVideoNotLive)
	}
	if !vid.IsLiveChatEnabled {
		return errChatDisabled
	}

	std, err := getContextStudent(ctx)
	if err != nil {
		return errors.Wrap(err, "getting context student")
	}

	conn, err := api.upgrader.Upgrade(ctx.Response(), ctx.Request(), nil)
	if err != nil {
		return errors.Wrap(err, "upgrading connection")
	}

	api.hub.Join(vid.ID, std.FullName, conn)
	return nil
}
