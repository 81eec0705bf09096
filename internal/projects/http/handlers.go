package http

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/markode-co/MarkodeAITool/internal/auth"
	"github.com/markode-co/MarkodeAITool/internal/projects/domain"
	"github.com/markode-co/MarkodeAITool/internal/projects/service"
)

func (h *Handler) create(c *gin.Context) {
	var req createReq
	if err := c.ShouldBindJSON(&req); err != nil {
		badBody(c)
		return
	}
	if err := domain.ValidateName(req.Name); err != nil {
		writeError(c, "create_project", err)
		return
	}

	p, err := h.generation.CreateFromPrompt(c.Request.Context(), auth.UserFirebaseUID(c),
		req.Name, req.Framework, req.Language, req.Description, req.Prompt)
	if err != nil {
		writeError(c, "create_project", err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"ok": true, "project": p})
}

func (h *Handler) createFromTemplate(c *gin.Context) {
	var req createFromTemplateReq
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			badBody(c)
			return
		}
	}

	p, err := h.projects.CreateFromTemplate(c.Request.Context(), auth.UserFirebaseUID(c),
		c.Param("template_id"), req.Name, req.Description)
	if err != nil {
		writeError(c, "create_from_template", err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"ok": true, "project": p})
}

func (h *Handler) list(c *gin.Context) {
	items, err := h.projects.List(c.Request.Context(), auth.UserFirebaseUID(c))
	if err != nil {
		writeError(c, "list_projects", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true, "projects": items})
}

func (h *Handler) get(c *gin.Context) {
	p, err := h.projects.Get(c.Request.Context(), auth.UserFirebaseUID(c), c.Param("id"))
	if err != nil {
		writeError(c, "get_project", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true, "project": p})
}

func (h *Handler) update(c *gin.Context) {
	var req updateReq
	if err := c.ShouldBindJSON(&req); err != nil {
		badBody(c)
		return
	}

	p, err := h.projects.Update(c.Request.Context(), auth.UserFirebaseUID(c), c.Param("id"), service.UpdateInput{
		Name:        req.Name,
		Description: req.Description,
		Framework:   req.Framework,
		Language:    req.Language,
		IsPublic:    req.IsPublic,
	})
	if err != nil {
		writeError(c, "update_project", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true, "project": p})
}

func (h *Handler) delete(c *gin.Context) {
	if err := h.projects.Delete(c.Request.Context(), auth.UserFirebaseUID(c), c.Param("id")); err != nil {
		writeError(c, "delete_project", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true})
}

func (h *Handler) saveFile(c *gin.Context) {
	var req saveFileReq
	if err := c.ShouldBindJSON(&req); err != nil || req.Content == nil {
		badBody(c)
		return
	}

	p, err := h.projects.SaveFile(c.Request.Context(), auth.UserFirebaseUID(c), c.Param("id"), req.Filename, *req.Content)
	if err != nil {
		writeError(c, "save_file", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true, "project": p})
}

func (h *Handler) improve(c *gin.Context) {
	var req improveReq
	if err := c.ShouldBindJSON(&req); err != nil {
		badBody(c)
		return
	}
	instructions := req.Instructions
	if strings.TrimSpace(instructions) == "" {
		instructions = req.Improvements
	}

	improved, err := h.improvement.ImproveFile(c.Request.Context(), c.Param("id"), auth.UserFirebaseUID(c),
		req.Filename, req.Code, instructions)
	if err != nil {
		writeError(c, "improve_file", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true, "filename": req.Filename, "improved_code": improved})
}

func (h *Handler) regenerate(c *gin.Context) {
	p, err := h.generation.Regenerate(c.Request.Context(), auth.UserFirebaseUID(c), c.Param("id"))
	if err != nil {
		writeError(c, "regenerate_project", err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"ok": true, "project": p})
}

func (h *Handler) deploy(c *gin.Context) {
	var req deployReq
	if err := c.ShouldBindJSON(&req); err != nil {
		badBody(c)
		return
	}

	p, err := h.projects.MarkDeployed(c.Request.Context(), auth.UserFirebaseUID(c), c.Param("id"), req.DeployURL)
	if err != nil {
		writeError(c, "deploy_project", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true, "project": p})
}
