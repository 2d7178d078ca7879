package handler

import (
	"net/http"
	"strconv"
	"time"

	"storefront/internal/usecase"

	"github.com/labstack/echo/v4"
)

// GET /api/admin/audit-logs
// ?actor_user_id=&action=&resource_type=&resource_id=&from=&to=&limit=&offset=
func (h *AdminUserHandler) listAuditLogs(c echo.Context) error {
	var q usecase.AuditLogQuery

	if v := c.QueryParam("limit"); v != "" {
		l, err := strconv.Atoi(v)
		if err != nil {
			return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid limit"})
		}
		q.Limit = l
	}
	if v := c.QueryParam("offset"); v != "" {
		o, err := strconv.Atoi(v)
		if err != nil {
			return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid offset"})
		}
		q.Offset = o
	}

	if v := c.QueryParam("actor_user_id"); v != "" {
		id, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid actor_user_id"})
		}
		q.ActorUserID = &id
	}
	if v := c.QueryParam("resource_id"); v != "" {
		id, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid resource_id"})
		}
		q.ResourceID = &id
	}

	q.Action = c.QueryParam("action")
	q.ResourceType = c.QueryParam("resource_type")

	if v := c.QueryParam("from"); v != "" {
		tm, err := time.Parse(time.RFC3339, v)
		if err != nil {
			return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid from"})
		}
		q.From = &tm
	}
	if v := c.QueryParam("to"); v != "" {
		tm, err := time.Parse(time.RFC3339, v)
		if err != nil {
			return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid to"})
		}
		q.To = &tm
	}

	out, err := h.uc.ListAuditLogs(c.Request().Context(), q)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}
