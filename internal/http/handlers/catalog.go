package handlers

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	catalogrepos "github.com/pathwise/pathwise-backend/internal/data/repos/catalog"
	"github.com/pathwise/pathwise-backend/internal/http/response"
	"github.com/pathwise/pathwise-backend/internal/pkg/dbctx"
	"github.com/pathwise/pathwise-backend/internal/platform/logger"
)

type CatalogHandler struct {
	log          *logger.Logger
	skills       catalogrepos.SkillRepo
	roles        catalogrepos.RoleRepo
	requirements catalogrepos.SkillRequirementRepo
}

func NewCatalogHandler(log *logger.Logger, skills catalogrepos.SkillRepo, roles catalogrepos.RoleRepo, requirements catalogrepos.SkillRequirementRepo) *CatalogHandler {
	return &CatalogHandler{
		log:          log.With("handler", "CatalogHandler"),
		skills:       skills,
		roles:        roles,
		requirements: requirements,
	}
}

func (h *CatalogHandler) ListSkills(c *gin.Context) {
	skills, err := h.skills.ListAll(dbctx.New(c.Request.Context()))
	if err != nil {
		response.RespondMapped(c, err, "skill_list_failed")
		return
	}
	response.RespondOK(c, gin.H{"skills": skills})
}

func (h *CatalogHandler) GetRole(c *gin.Context) {
	dbc := dbctx.New(c.Request.Context())

	role, err := h.roles.GetBySlug(dbc, c.Param("slug"))
	if err != nil {
		response.RespondMapped(c, err, "role_read_failed")
		return
	}
	if role == nil {
		response.RespondError(c, http.StatusNotFound, "not_found", fmt.Errorf("role %q not found", c.Param("slug")))
		return
	}

	reqs, err := h.requirements.ListByRole(dbc, role.ID)
	if err != nil {
		response.RespondMapped(c, err, "role_read_failed")
		return
	}
	response.RespondOK(c, gin.H{"role": role, "requirements": reqs})
}
