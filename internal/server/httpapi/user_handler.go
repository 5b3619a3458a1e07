package httpapi

import (
	"fmt"
	"mime/multipart"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Muhammad-Tayyab-Bhutto/GoTube-Backend/internal/common"
	"github.com/Muhammad-Tayyab-Bhutto/GoTube-Backend/internal/server/services"
)

type loginRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password" binding:"required"`
}

type refreshRequest struct {
	RefreshToken string `json:"refreshToken"`
}

type changePasswordRequest struct {
	OldPassword     string `json:"oldPassword" binding:"required"`
	NewPassword     string `json:"newPassword" binding:"required"`
	ConfirmPassword string `json:"confirmPassword" binding:"required"`
}

type updateAccountRequest struct {
	Fullname string `json:"fullname" binding:"required"`
	Email    string `json:"email" binding:"required"`
}

func (s *Server) handleRegister(c *gin.Context) {
	params := services.RegisterParams{
		Fullname: c.PostForm("fullname"),
		Username: c.PostForm("username"),
		Email:    c.PostForm("email"),
		Password: c.PostForm("password"),
	}

	avatar, closeAvatar, err := formFile(c, "avatar")
	if err != nil {
		respondError(c, fmt.Errorf("%w: avatar is required", common.ErrorValidation))
		return
	}
	defer closeAvatar()
	params.Avatar = avatar

	// Cover image is optional; a missing part is fine.
	if cover, closeCover, err := formFile(c, "coverImage"); err == nil {
		defer closeCover()
		params.CoverImage = cover
	}

	profile, err := s.users.Register(c.Request.Context(), params)
	if err != nil {
		respondError(c, err)
		return
	}

	respond(c, http.StatusCreated, profile, "registration successful")
}

func (s *Server) handleLogin(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, fmt.Errorf("%w: password is required", common.ErrorValidation))
		return
	}

	identifier := req.Email
	if identifier == "" {
		identifier = req.Username
	}

	profile, pair, err := s.users.Login(c.Request.Context(), identifier, req.Password)
	if err != nil {
		respondError(c, err)
		return
	}

	s.setAuthCookies(c, pair)
	respond(c, http.StatusOK, gin.H{
		"user":         profile,
		"accessToken":  pair.AccessToken,
		"refreshToken": pair.RefreshToken,
	}, "login successful")
}

func (s *Server) handleLogout(c *gin.Context) {
	if err := s.users.Logout(c.Request.Context(), currentUser(c).ID); err != nil {
		respondError(c, err)
		return
	}

	s.clearAuthCookies(c)
	respond(c, http.StatusOK, gin.H{}, "logout successful")
}

func (s *Server) handleRefreshToken(c *gin.Context) {
	presented, _ := c.Cookie(common.RefreshTokenCookieName)
	if presented == "" {
		var req refreshRequest
		if err := c.ShouldBindJSON(&req); err == nil {
			presented = req.RefreshToken
		}
	}

	pair, err := s.users.Refresh(c.Request.Context(), presented)
	if err != nil {
		respondError(c, err)
		return
	}

	s.setAuthCookies(c, pair)
	respond(c, http.StatusOK, gin.H{
		"accessToken":  pair.AccessToken,
		"refreshToken": pair.RefreshToken,
	}, "token refreshed successfully")
}

func (s *Server) handleChangePassword(c *gin.Context) {
	var req changePasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, fmt.Errorf("%w: oldPassword, newPassword and confirmPassword are required", common.ErrorValidation))
		return
	}

	err := s.users.ChangePassword(c.Request.Context(), currentUser(c).ID,
		req.OldPassword, req.NewPassword, req.ConfirmPassword)
	if err != nil {
		respondError(c, err)
		return
	}

	respond(c, http.StatusOK, gin.H{}, "password changed successfully")
}

func (s *Server) handleCurrentUser(c *gin.Context) {
	respond(c, http.StatusOK, currentUser(c), "user fetched successfully")
}

func (s *Server) handleUpdateAccountDetails(c *gin.Context) {
	var req updateAccountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, fmt.Errorf("%w: fullname and email are required", common.ErrorValidation))
		return
	}

	profile, err := s.users.UpdateAccountDetails(c.Request.Context(), currentUser(c).ID, req.Fullname, req.Email)
	if err != nil {
		respondError(c, err)
		return
	}

	respond(c, http.StatusOK, profile, "account updated successfully")
}

func (s *Server) handleUpdateAvatar(c *gin.Context) {
	file, closeFile, err := formFile(c, "avatar")
	if err != nil {
		respondError(c, fmt.Errorf("%w: avatar is required", common.ErrorValidation))
		return
	}
	defer closeFile()

	profile, err := s.users.UpdateAvatar(c.Request.Context(), currentUser(c).ID, file)
	if err != nil {
		respondError(c, err)
		return
	}

	respond(c, http.StatusOK, profile, "avatar updated successfully")
}

func (s *Server) handleUpdateCoverImage(c *gin.Context) {
	file, closeFile, err := formFile(c, "coverImage")
	if err != nil {
		respondError(c, fmt.Errorf("%w: cover image is required", common.ErrorValidation))
		return
	}
	defer closeFile()

	profile, err := s.users.UpdateCoverImage(c.Request.Context(), currentUser(c).ID, file)
	if err != nil {
		respondError(c, err)
		return
	}

	respond(c, http.StatusOK, profile, "cover image updated successfully")
}

func (s *Server) handleUserProfile(c *gin.Context) {
	profile, err := s.users.ChannelProfile(c.Request.Context(), c.Param("username"), currentUser(c).ID)
	if err != nil {
		respondError(c, err)
		return
	}

	respond(c, http.StatusOK, profile, "channel fetched successfully")
}

func (s *Server) handleWatchHistory(c *gin.Context) {
	entries, err := s.users.WatchHistory(c.Request.Context(), currentUser(c).ID)
	if err != nil {
		respondError(c, err)
		return
	}

	respond(c, http.StatusOK, entries, "watch history fetched successfully")
}

func (s *Server) handleRecordWatch(c *gin.Context) {
	if err := s.users.RecordWatch(c.Request.Context(), currentUser(c).ID, c.Param("videoId")); err != nil {
		respondError(c, err)
		return
	}

	respond(c, http.StatusOK, gin.H{}, "watch recorded")
}

// formFile opens a multipart file part as a service FileUpload. The second
// return value closes the underlying file and must be called after the
// service is done reading.
func formFile(c *gin.Context, name string) (*services.FileUpload, func(), error) {
	fh, err := c.FormFile(name)
	if err != nil {
		return nil, nil, err
	}

	var f multipart.File
	f, err = fh.Open()
	if err != nil {
		return nil, nil, err
	}

	return &services.FileUpload{
		Filename:    fh.Filename,
		ContentType: fh.Header.Get("Content-Type"),
		Content:     f,
	}, func() { _ = f.Close() }, nil
}
