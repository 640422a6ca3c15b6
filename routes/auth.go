package routes

import (
	"bitbucket.org/mmdatafocus/esg_backend/models"
	"github.com/gin-gonic/gin"
)

func login(c *gin.Context) {
	var input struct {
		Username string `json:"username" binding:"required"`
		Password string `json:"password" binding:"required"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		respondError(c, err)
		return
	}
	info, err := models.Login(c.Request.Context(), input.Username, input.Password)
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, info)
}

func currentUser(c *gin.Context) {
	user, err := models.GetCurrentUser(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, user)
}

func updateProfile(c *gin.Context) {
	var input models.UpdateProfileInput
	if err := c.ShouldBindJSON(&input); err != nil {
		respondError(c, err)
		return
	}
	user, err := models.UpdateProfile(c.Request.Context(), &input)
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, user)
}

func changePassword(c *gin.Context) {
	var input struct {
		OldPassword string `json:"old_password" binding:"required"`
		NewPassword string `json:"new_password" binding:"required,min=8"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		respondError(c, err)
		return
	}
	if err := models.ChangePassword(c.Request.Context(), input.OldPassword, input.NewPassword); err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, gin.H{"changed": true})
}
