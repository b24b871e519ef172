package server

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/shouni/go-social-kit/pkg/campaign"
	"github.com/shouni/go-social-kit/pkg/domain"
	"github.com/shouni/go-social-kit/pkg/i18n"
)

const langCookie = "lang"

type submitRequest struct {
	Idea     string          `json:"idea" form:"idea"`
	Tone     domain.Tone     `json:"tone" form:"tone" binding:"omitempty,oneof=Professional Witty Urgent Inspirational Educational"`
	Language domain.Language `json:"language" form:"language" binding:"omitempty,oneof=en zh"`
}

type textRequest struct {
	Text string `json:"text"`
}

type imageRequest struct {
	AspectRatio domain.AspectRatio `json:"aspectRatio" binding:"required"`
	Prompt      string             `json:"prompt"`
}

type imageSizeRequest struct {
	ImageSize domain.ImageSize `json:"imageSize" binding:"required"`
}

func (s *Server) handleState(c *gin.Context) {
	c.JSON(http.StatusOK, s.store.Snapshot())
}

func (s *Server) handleSubmit(c *gin.Context) {
	var req submitRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, err.Error())
		return
	}
	if req.Language == "" {
		req.Language = s.resolveLanguage(c)
	}

	err := s.store.SubmitIdea(c.Request.Context(), req.Idea, req.Tone, req.Language)
	switch {
	case err == nil:
		c.JSON(http.StatusOK, s.store.Snapshot())
	case errors.Is(err, campaign.ErrDraftInProgress):
		respondError(c, http.StatusConflict, err.Error())
	case errors.Is(err, campaign.ErrTextGeneration):
		respondError(c, http.StatusBadGateway, i18n.For(req.Language).AlertFailed)
	default:
		respondError(c, http.StatusInternalServerError, err.Error())
	}
}

func (s *Server) handleUpdateText(c *gin.Context) {
	p, ok := platformParam(c)
	if !ok {
		return
	}
	var req textRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, err.Error())
		return
	}
	if err := s.store.UpdateText(p, req.Text); err != nil {
		respondStoreError(c, err)
		return
	}
	c.JSON(http.StatusOK, s.store.Snapshot())
}

func (s *Server) handleRegenerate(c *gin.Context) {
	p, ok := platformParam(c)
	if !ok {
		return
	}
	var req imageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, err.Error())
		return
	}
	if err := s.store.RegenerateImage(p, req.Prompt, req.AspectRatio); err != nil {
		respondStoreError(c, err)
		return
	}
	c.JSON(http.StatusAccepted, s.store.Snapshot())
}

func (s *Server) handleImageSize(c *gin.Context) {
	var req imageSizeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, err.Error())
		return
	}
	if err := s.store.SetImageSize(req.ImageSize); err != nil {
		respondStoreError(c, err)
		return
	}
	c.JSON(http.StatusOK, s.store.Snapshot())
}

func (s *Server) handleAsset(c *gin.Context) {
	if s.assets == nil {
		c.Status(http.StatusNotFound)
		return
	}
	img, ok := s.assets.Get(c.Param("id"))
	if !ok {
		c.Status(http.StatusNotFound)
		return
	}
	c.Header("Cache-Control", "private, max-age=3600")
	c.Data(http.StatusOK, img.MimeType, img.Data)
}

func (s *Server) handleKey(c *gin.Context) {
	lang := s.resolveLanguage(c)
	if s.keys == nil {
		c.HTML(http.StatusNotFound, "key.html", newKeyPage(lang, ""))
		return
	}
	key := strings.TrimSpace(c.PostForm("key"))
	if key == "" {
		c.HTML(http.StatusBadRequest, "key.html", newKeyPage(lang, i18n.For(lang).KeyPlaceholder))
		return
	}

	s.keys.Offer(key)
	if err := s.gate.Open(c.Request.Context()); err != nil {
		slog.WarnContext(c.Request.Context(), "API key selection failed", "error", err)
		c.HTML(http.StatusBadRequest, "key.html", newKeyPage(lang, err.Error()))
		return
	}
	c.Redirect(http.StatusSeeOther, "/?lang="+string(lang))
}

func (s *Server) handleIndex(c *gin.Context) {
	lang := s.resolveLanguage(c)
	ok, err := s.gate.Check(c.Request.Context())
	if err != nil {
		slog.ErrorContext(c.Request.Context(), "API key check failed", "error", err)
		c.HTML(http.StatusInternalServerError, "key.html", newKeyPage(lang, err.Error()))
		return
	}
	if !ok {
		c.HTML(http.StatusOK, "key.html", newKeyPage(lang, ""))
		return
	}
	c.HTML(http.StatusOK, "index.html", newIndexPage(lang, s.store.Snapshot()))
}

// resolveLanguage は ?lang=、Cookie、Accept-Language、設定の既定言語の順に表示言語を決定します。
// ?lang= で指定された場合は Cookie に保存します。
func (s *Server) resolveLanguage(c *gin.Context) domain.Language {
	if q := domain.Language(c.Query("lang")); q.Valid() {
		c.SetCookie(langCookie, string(q), 365*24*60*60, "/", "", false, true)
		return q
	}
	if v, err := c.Cookie(langCookie); err == nil {
		if l := domain.Language(v); l.Valid() {
			return l
		}
	}
	return i18n.MatchOr(s.defaultLang, c.GetHeader("Accept-Language"))
}

func platformParam(c *gin.Context) (domain.Platform, bool) {
	p, err := domain.ParsePlatform(c.Param("platform"))
	if err != nil {
		respondError(c, http.StatusNotFound, err.Error())
		return "", false
	}
	return p, true
}

func respondStoreError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, campaign.ErrNoCampaign), errors.Is(err, campaign.ErrStaleCampaign):
		respondError(c, http.StatusConflict, err.Error())
	case errors.Is(err, domain.ErrUnknownPlatform):
		respondError(c, http.StatusNotFound, err.Error())
	case errors.Is(err, domain.ErrInvalidAspectRatio), errors.Is(err, domain.ErrInvalidImageSize):
		respondError(c, http.StatusBadRequest, err.Error())
	default:
		respondError(c, http.StatusInternalServerError, err.Error())
	}
}

func respondError(c *gin.Context, status int, message string) {
	c.AbortWithStatusJSON(status, gin.H{
		"success": false,
		"message": message,
	})
}
