package routes

import (
	"bitbucket.org/mmdatafocus/esg_backend/models"
	"github.com/gin-gonic/gin"
)

func listRoles(c *gin.Context) {
	roles, err := models.GetRoles(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, roles)
}

func createRole(c *gin.Context) {
	var input models.NewRole
	if err := c.ShouldBindJSON(&input); err != nil {
		respondError(c, err)
		return
	}
	role, err := models.CreateRole(c.Request.Context(), &input)
	if err != nil {
		respondError(c, err)
		return
	}
	respondCreated(c, role)
}

func getRole(c *gin.Context) {
	id, ok := parseIdParam(c, "id")
	if !ok {
		return
	}
	role, err := models.GetRole(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, role)
}

func updateRole(c *gin.Context) {
	id, ok := parseIdParam(c, "id")
	if !ok {
		return
	}
	var input models.NewRole
	if err := c.ShouldBindJSON(&input); err != nil {
		respondError(c, err)
		return
	}
	role, err := models.UpdateRole(c.Request.Context(), id, &input)
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, role)
}

func deleteRole(c *gin.Context) {
	id, ok := parseIdParam(c, "id")
	if !ok {
		return
	}
	role, err := models.DeleteRole(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, role)
}

func getRolePermissions(c *gin.Context) {
	id, ok := parseIdParam(c, "id")
	if !ok {
		return
	}
	permissions, err := models.GetRolePermissions(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, permissions)
}

func updateRolePermissions(c *gin.Context) {
	id, ok := parseIdParam(c, "id")
	if !ok {
		return
	}
	var input struct {
		Permissions models.PermissionMatrix `json:"permissions" binding:"required"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		respondError(c, err)
		return
	}
	role, err := models.UpdateRolePermissions(c.Request.Context(), id, input.Permissions)
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, role)
}
