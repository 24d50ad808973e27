package server

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"

	"github.com/abdul-hamid-achik/hitrelay/packages/execlog"
	"github.com/abdul-hamid-achik/hitrelay/packages/executor"
	"github.com/abdul-hamid-achik/hitrelay/packages/store"
	"github.com/gin-gonic/gin"
)

func (s *Server) execute(c *gin.Context) {
	body, err := io.ReadAll(c.Request.Body)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": []string{"request body could not be read"}})
		return
	}

	if problems := ValidateDescription(body); len(problems) > 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": problems})
		return
	}

	var desc executor.Description
	if err := json.Unmarshal(body, &desc); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": []string{err.Error()}})
		return
	}

	result, execID := s.runner.Execute(c.Request.Context(), desc)
	c.Header(ExecutionIDHeader, execID)
	c.JSON(result.StatusCode, result.Body)
}

func (s *Server) createItem(c *gin.Context) {
	table := strings.TrimSpace(c.Param("tableName"))
	if table == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Table name is required"})
		return
	}
	if s.store == nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create item", "details": "no store configured"})
		return
	}

	var item map[string]any
	if err := c.ShouldBindJSON(&item); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid item", "details": err.Error()})
		return
	}

	result, err := s.store.PutRecord(c.Request.Context(), table, item)
	if err != nil {
		s.logger.WithError(err).WithField("table", table).Error("Error creating item")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create item", "details": err.Error()})
		return
	}
	if !result.OK {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create item", "details": result.Message})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"message": "Item created successfully", "item": item})
}

func (s *Server) getExecution(c *gin.Context) {
	if s.reader == nil {
		c.JSON(http.StatusNotImplemented, gin.H{"error": "Execution history is not available"})
		return
	}

	id := c.Param("id")
	records, err := execlog.History(c.Request.Context(), s.reader, id)
	if err != nil {
		if errors.Is(err, store.ErrReadUnsupported) {
			c.JSON(http.StatusNotImplemented, gin.H{"error": "Execution history is not available"})
			return
		}
		s.logger.WithError(err).WithField("executionId", id).Error("Error reading execution history")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to read execution", "details": err.Error()})
		return
	}
	if len(records) == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "Execution not found"})
		return
	}

	response := gin.H{"executionId": id, "records": records}
	if parent, ok := execlog.Parent(records); ok {
		response["status"] = parent.Status
	}
	c.JSON(http.StatusOK, response)
}

func (s *Server) getStats(c *gin.Context) {
	if s.stats == nil {
		c.JSON(http.StatusNotImplemented, gin.H{"error": "Statistics are not enabled"})
		return
	}
	c.JSON(http.StatusOK, s.stats.Summary())
}
