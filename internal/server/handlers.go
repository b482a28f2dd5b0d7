package server

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/goliatone/go-framepanel/pkg/control"
	"github.com/goliatone/go-framepanel/pkg/logging"
)

func (s *Server) handleIndex(c *gin.Context) {
	out, err := s.renderer.Render(c.Request.Context(), s.controller.Root(), s.renderOpts)
	if err != nil {
		s.log.Error("render failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "render failed"})
		return
	}
	c.Data(http.StatusOK, s.renderer.ContentType(), out)
}

func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (s *Server) handleListControls(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"controls": s.controller.ControlIDs()})
}

// handleSubmit applies submitted form values to the control's fields and
// invokes its handler. Failures surface in the log stream, not the response;
// the redirect keeps plain HTML form posts working.
func (s *Server) handleSubmit(c *gin.Context) {
	id := c.Param("id")
	ctrl, ok := s.controller.Control(id)
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "unknown control", "id": id})
		return
	}
	if !ctrl.Rendered() {
		c.JSON(http.StatusConflict, gin.H{"error": "panel not rendered yet", "id": id})
		return
	}

	ctx := c.Request.Context()
	for _, field := range ctrl.Fields() {
		widgetID := field.WidgetID()
		switch field.Type {
		case control.FieldTypeDiv:
			// Read-only region, never submitted.
		case control.FieldTypeSelect:
			if field.Multiple {
				values, present := c.GetPostFormArray(widgetID)
				if !present {
					continue
				}
				if err := ctrl.ApplyFieldValue(ctx, widgetID, control.TextsValue(values...)); err != nil {
					s.log.Warn("field update failed", zap.String("control", id), zap.String("field", widgetID), zap.Error(err))
				}
				continue
			}
			value, present := c.GetPostForm(widgetID)
			if !present {
				continue
			}
			if err := ctrl.ApplyFieldValue(ctx, widgetID, control.TextValue(value)); err != nil {
				s.log.Warn("field update failed", zap.String("control", id), zap.String("field", widgetID), zap.Error(err))
			}
		case control.FieldTypeCheckbox:
			_, present := c.GetPostForm(widgetID)
			if err := ctrl.ApplyFieldValue(ctx, widgetID, control.BoolValue(present)); err != nil {
				s.log.Warn("field update failed", zap.String("control", id), zap.String("field", widgetID), zap.Error(err))
			}
		default:
			value, present := c.GetPostForm(widgetID)
			if !present {
				continue
			}
			if err := ctrl.ApplyFieldValue(ctx, widgetID, control.TextValue(value)); err != nil {
				s.log.Warn("field update failed", zap.String("control", id), zap.String("field", widgetID), zap.Error(err))
			}
		}
	}

	if err := ctrl.Submit(ctx); err != nil {
		s.log.Warn("submit failed", zap.String("control", id), zap.Error(err))
	}
	if err := s.controller.RefreshState(ctx); err != nil {
		s.log.Warn("refresh after submit failed", zap.Error(err))
	}

	c.Redirect(http.StatusSeeOther, "/")
}

func (s *Server) handleRefresh(c *gin.Context) {
	if err := s.controller.RefreshState(c.Request.Context()); err != nil {
		s.log.Warn("refresh failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "refresh failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (s *Server) handleExpanded(c *gin.Context) {
	var body struct {
		Expanded bool `json:"expanded"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid body"})
		return
	}
	if body.Expanded {
		s.controller.ExpandAll()
	} else {
		s.controller.CollapseAll()
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok", "expanded": body.Expanded})
}

func (s *Server) handleLog(c *gin.Context) {
	entries := []logging.Entry{}
	if s.tail != nil {
		entries = s.tail.Entries()
	}
	c.JSON(http.StatusOK, gin.H{"entries": entries})
}
