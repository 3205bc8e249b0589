package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

type MetaHandler struct {
	env     string
	version string
	store   string
}

func NewMetaHandler(env, version, store string) *MetaHandler {
	return &MetaHandler{env: env, version: version, store: store}
}

func (h *MetaHandler) GetMeta(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"name":    "Credit Risk Service",
		"version": h.version,
		"env":     h.env,
		"store":   h.store,
	})
}
