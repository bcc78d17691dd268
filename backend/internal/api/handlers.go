package api

import (
	"encoding/json"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"socialgraph/backend/internal/facade"
	apperrors "socialgraph/backend/pkg/errors"
)

func (s *Server) listOperations(c *gin.Context) {
	c.JSON(http.StatusOK, facade.Operations())
}

// executeOperation runs any operation by name with the request body as args
func (s *Server) executeOperation(c *gin.Context) {
	body, err := c.GetRawData()
	if err != nil {
		s.badRequest(c, "body", err.Error())
		return
	}
	s.run(c, c.Param("name"), body)
}

// fielded reports the value of a record field by its JSON name
type fielded interface {
	FieldValue(field string) (any, bool)
}

// list serves GET /<kind>?field=...&equals=... ; without field every record is returned.
// sample is a zero record of the kind, used to read equals in the field's type.
func (s *Server) list(op string, sample fielded) gin.HandlerFunc {
	return func(c *gin.Context) {
		field := c.Query("field")
		if field == "" {
			s.run(c, op, nil)
			return
		}
		equals := filterValue(sample, field, c.Query("equals"))
		s.runWith(c, op, gin.H{"where": gin.H{"field": field, "equals": equals}})
	}
}

// filterValue reads raw as JSON when the decoded value fits the field, so
// numeric fields match numbers and string fields keep values like 123 as text
func filterValue(sample fielded, field, raw string) any {
	var parsed any
	if err := json.Unmarshal([]byte(raw), &parsed); err != nil {
		return raw
	}
	zero, ok := sample.FieldValue(field)
	if !ok {
		return parsed
	}
	switch zero.(type) {
	case string:
		if str, isStr := parsed.(string); isStr {
			return str
		}
		return raw
	case []string:
		switch parsed.(type) {
		case string, []any:
			return parsed
		}
		return raw
	}
	return parsed
}

func (s *Server) create(op string) gin.HandlerFunc {
	return func(c *gin.Context) {
		body, err := c.GetRawData()
		if err != nil {
			s.badRequest(c, "body", err.Error())
			return
		}
		s.run(c, op, body)
	}
}

func (s *Server) byID(op string) gin.HandlerFunc {
	return func(c *gin.Context) {
		s.runWith(c, op, gin.H{"id": c.Param("id")})
	}
}

func (s *Server) noArgs(op string) gin.HandlerFunc {
	return func(c *gin.Context) {
		s.run(c, op, nil)
	}
}

// patch merges the path id into the JSON object body
func (s *Server) patch(op string) gin.HandlerFunc {
	return func(c *gin.Context) {
		fields := map[string]json.RawMessage{}
		if err := c.ShouldBindJSON(&fields); err != nil {
			s.badRequest(c, "body", err.Error())
			return
		}
		if fields == nil {
			s.badRequest(c, "body", "must be a JSON object")
			return
		}
		id, err := json.Marshal(c.Param("id"))
		if err != nil {
			s.badRequest(c, "id", err.Error())
			return
		}
		fields["id"] = id
		s.runWith(c, op, fields)
	}
}

// edge serves subscribeTo and unsubscribeFrom. The path id is the account
// being followed, the body names the follower.
func (s *Server) edge(op string) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req struct {
			AccountID string `json:"accountId" binding:"required"`
		}
		if err := c.ShouldBindJSON(&req); err != nil {
			s.badRequest(c, "accountId", err.Error())
			return
		}
		s.runWith(c, op, gin.H{"followerId": req.AccountID, "targetId": c.Param("id")})
	}
}

func (s *Server) runWith(c *gin.Context, op string, args any) {
	raw, err := json.Marshal(args)
	if err != nil {
		s.logger.Error("Failed to encode operation args", zap.String("operation", op), zap.Error(err))
		c.JSON(http.StatusInternalServerError, facade.Result{Error: "failed to encode args"})
		return
	}
	s.run(c, op, raw)
}

func (s *Server) run(c *gin.Context, op string, args json.RawMessage) {
	res := s.facade.Execute(c.Request.Context(), op, args)
	if res.Status() >= http.StatusInternalServerError {
		s.logger.Error("Operation failed", zap.String("operation", op), zap.Error(res.Err()))
	}
	c.JSON(res.Status(), res)
}

func (s *Server) badRequest(c *gin.Context, field, reason string) {
	err := apperrors.NewValidationFailed(field, reason)
	c.JSON(http.StatusBadRequest, facade.Result{
		Error: err.Error(),
		Code:  apperrors.TypeOf(err),
	})
}
