package rest

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/yourusername/video-sharing-platform/internal/middleware"
	"github.com/yourusername/video-sharing-platform/internal/service"
	"github.com/yourusername/video-sharing-platform/internal/validation"
)

type PlaylistHandler struct {
	playlists *service.PlaylistService
}

func NewPlaylistHandler(playlists *service.PlaylistService) *PlaylistHandler {
	return &PlaylistHandler{playlists: playlists}
}

func (h *PlaylistHandler) RegisterRoutes(rg *gin.RouterGroup, auth gin.HandlerFunc) {
	playlists := rg.Group("/playlists")
	{
		playlists.POST("", auth, h.create)
		playlists.GET("/user/:userId", h.listByUser)
		playlists.GET("/:playlistId", h.get)
		playlists.PATCH("/:playlistId", auth, h.update)
		playlists.DELETE("/:playlistId", auth, h.delete)
		playlists.PATCH("/add/:videoId/:playlistId", auth, h.addVideo)
		playlists.PATCH("/remove/:videoId/:playlistId", auth, h.removeVideo)
	}
}

type playlistRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

func (h *PlaylistHandler) create(c *gin.Context) {
	var req playlistRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "invalid request body")
		return
	}

	playlist, err := h.playlists.Create(c.Request.Context(), middleware.CallerID(c), req.Name, req.Description)
	if err != nil {
		respondError(c, err)
		return
	}
	respond(c, http.StatusCreated, playlist, "playlist created successfully")
}

func (h *PlaylistHandler) listByUser(c *gin.Context) {
	userID, err := validation.ObjectID("userId", c.Param("userId"))
	if err != nil {
		respondBadRequest(c, err.Error())
		return
	}

	playlists, err := h.playlists.ListByOwner(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err)
		return
	}
	respond(c, http.StatusOK, playlists, "playlists fetched successfully")
}

func (h *PlaylistHandler) get(c *gin.Context) {
	playlistID, err := validation.ObjectID("playlistId", c.Param("playlistId"))
	if err != nil {
		respondBadRequest(c, err.Error())
		return
	}

	playlist, err := h.playlists.GetByID(c.Request.Context(), playlistID)
	if err != nil {
		respondError(c, err)
		return
	}
	respond(c, http.StatusOK, playlist, "playlist fetched successfully")
}

func (h *PlaylistHandler) update(c *gin.Context) {
	playlistID, err := validation.ObjectID("playlistId", c.Param("playlistId"))
	if err != nil {
		respondBadRequest(c, err.Error())
		return
	}

	var req playlistRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "invalid request body")
		return
	}

	playlist, err := h.playlists.Update(c.Request.Context(), playlistID, middleware.CallerID(c), req.Name, req.Description)
	if err != nil {
		respondError(c, err)
		return
	}
	respond(c, http.StatusOK, playlist, "playlist updated successfully")
}

func (h *PlaylistHandler) delete(c *gin.Context) {
	playlistID, err := validation.ObjectID("playlistId", c.Param("playlistId"))
	if err != nil {
		respondBadRequest(c, err.Error())
		return
	}

	if err := h.playlists.Delete(c.Request.Context(), playlistID, middleware.CallerID(c)); err != nil {
		respondError(c, err)
		return
	}
	respond(c, http.StatusOK, nil, "playlist deleted successfully")
}

func (h *PlaylistHandler) addVideo(c *gin.Context) {
	playlistID, videoID, ok := h.memberIDs(c)
	if !ok {
		return
	}

	playlist, err := h.playlists.AddVideo(c.Request.Context(), playlistID, videoID, middleware.CallerID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	respond(c, http.StatusOK, playlist, "video added to playlist successfully")
}

func (h *PlaylistHandler) removeVideo(c *gin.Context) {
	playlistID, videoID, ok := h.memberIDs(c)
	if !ok {
		return
	}

	playlist, err := h.playlists.RemoveVideo(c.Request.Context(), playlistID, videoID, middleware.CallerID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	respond(c, http.StatusOK, playlist, "video removed from playlist successfully")
}

func (h *PlaylistHandler) memberIDs(c *gin.Context) (playlistID, videoID primitive.ObjectID, ok bool) {
	playlistID, err := validation.ObjectID("playlistId", c.Param("playlistId"))
	if err != nil {
		respondBadRequest(c, err.Error())
		return playlistID, videoID, false
	}
	videoID, err = validation.ObjectID("videoId", c.Param("videoId"))
	if err != nil {
		respondBadRequest(c, err.Error())
		return playlistID, videoID, false
	}
	return playlistID, videoID, true
}
