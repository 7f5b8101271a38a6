package main

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/bluesky-social/mindmap/mindmap"
	"github.com/bluesky-social/mindmap/mindmap/api"

	"github.com/labstack/echo/v4"
)

// request body for POST /maps/:id/leafs; both fields are required
type addLeafBody struct {
	Path *string `json:"path"`
	Text *string `json:"text"`
}

func (srv *Server) HandleHealthCheck(c echo.Context) error {
	return c.JSON(http.StatusOK, api.GenericStatus{Status: "ok", Daemon: "mindmapd"})
}

func (srv *Server) HandleHome(c echo.Context) error {
	return c.String(http.StatusOK, `
 _ __ ___ (_)_ __   __| |_ __ ___   __ _ _ __
| '_ ' _ \| | '_ \ / _' | '_ ' _ \ / _' | '_ \
| | | | | | | | | | (_| | | | | | | (_| | |_) |
|_| |_| |_|_|_| |_|\__,_|_| |_| |_|\__,_| .__/
                                        |_|

This is a mind map tree service

  POST /maps                         {"id": "<map>"}
  POST /maps/<map>/leafs             {"path": "a/b/c", "text": "..."}
  GET  /maps/<map>/leafs/<leaf>
  GET  /maps/<map>
  GET  /prettyPrint/<map>
`)
}

// mapError turns service errors into HTTP responses. Anything not
// recognized is passed to the echo error handler as an internal error.
func mapError(c echo.Context, err error) error {
	switch {
	case errors.Is(err, mindmap.ErrLeafNotFound):
		return c.JSON(http.StatusNotFound, api.GenericError{
			Error:   api.ErrorLeafNotFound,
			Message: api.MessageLeafNotFound,
		})
	case errors.Is(err, mindmap.ErrMapNotFound):
		return c.JSON(http.StatusNotFound, api.GenericError{
			Error:   api.ErrorMapNotFound,
			Message: api.MessageMapNotFound,
		})
	case errors.Is(err, mindmap.ErrTooDeep):
		return c.JSON(http.StatusBadRequest, api.GenericError{
			Error:   api.ErrorPathTooDeep,
			Message: fmt.Sprintf("path would nest the map deeper than %d levels", mindmap.MaxDepth),
		})
	case errors.Is(err, mindmap.ErrInvalidMapName):
		return c.JSON(http.StatusBadRequest, api.GenericError{
			Error:   api.ErrorBadRequest,
			Message: err.Error(),
		})
	}
	return err
}

func badRequest(c echo.Context, msg string) error {
	return c.JSON(http.StatusBadRequest, api.GenericError{
		Error:   api.ErrorBadRequest,
		Message: msg,
	})
}

func (srv *Server) HandleCreateMap(c echo.Context) error {
	ctx := c.Request().Context()

	var body api.CreateMapInput
	if err := c.Bind(&body); err != nil {
		return badRequest(c, "invalid request body")
	}
	if err := srv.svc.CreateMap(ctx, body.ID); err != nil {
		return mapError(c, err)
	}
	return c.NoContent(http.StatusCreated)
}

func (srv *Server) HandleGetMap(c echo.Context) error {
	ctx := c.Request().Context()

	root, err := srv.svc.GetMap(ctx, c.Param("id"))
	if err != nil {
		return mapError(c, err)
	}
	doc, err := mindmap.MarshalDocument(root)
	if err != nil {
		return err
	}
	return c.JSONBlob(http.StatusOK, doc)
}

func (srv *Server) HandleAddLeaf(c echo.Context) error {
	ctx := c.Request().Context()

	var body addLeafBody
	if err := c.Bind(&body); err != nil {
		return badRequest(c, "invalid request body")
	}
	if body.Path == nil || body.Text == nil {
		return badRequest(c, "path and text are required")
	}
	if err := srv.svc.AddLeaf(ctx, c.Param("id"), *body.Path, *body.Text); err != nil {
		return mapError(c, err)
	}
	return c.NoContent(http.StatusOK)
}

func (srv *Server) HandleReadLeaf(c echo.Context) error {
	ctx := c.Request().Context()

	leaf, err := srv.svc.ReadLeaf(ctx, c.Param("mapId"), c.Param("leafId"))
	if err != nil {
		return mapError(c, err)
	}
	return c.JSON(http.StatusOK, api.LeafOutput{
		Path: leaf.Path,
		Text: leaf.Text,
	})
}

func (srv *Server) HandlePrettyPrint(c echo.Context) error {
	ctx := c.Request().Context()

	out, err := srv.svc.PrettyPrint(ctx, c.Param("mapId"))
	if err != nil {
		return mapError(c, err)
	}
	return c.String(http.StatusOK, out)
}
