package routes

import (
	"bitbucket.org/mmdatafocus/esg_backend/models"
	"github.com/gin-gonic/gin"
)

func listUsers(c *gin.Context) {
	users, err := models.GetAllUsers(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, users)
}

func createUser(c *gin.Context) {
	var input models.NewUser
	if err := c.ShouldBindJSON(&input); err != nil {
		respondError(c, err)
		return
	}
	user, err := models.CreateUser(c.Request.Context(), &input)
	if err != nil {
		respondError(c, err)
		return
	}
	respondCreated(c, user)
}

func getUser(c *gin.Context) {
	id, ok := parseIdParam(c, "id")
	if !ok {
		return
	}
	user, err := models.GetUser(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, user)
}

func updateUser(c *gin.Context) {
	id, ok := parseIdParam(c, "id")
	if !ok {
		return
	}
	var input models.NewUser
	if err := c.ShouldBindJSON(&input); err != nil {
		respondError(c, err)
		return
	}
	user, err := models.UpdateUser(c.Request.Context(), id, &input)
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, user)
}

func deleteUser(c *gin.Context) {
	id, ok := parseIdParam(c, "id")
	if !ok {
		return
	}
	user, err := models.DeleteUser(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, user)
}

func toggleUserStatus(c *gin.Context) {
	id, ok := parseIdParam(c, "id")
	if !ok {
		return
	}
	user, err := models.ToggleUserStatus(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, user)
}
