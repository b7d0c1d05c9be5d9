package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"

	"contribution-service/internal/services"
)

// mpesaResponse is the fixed response envelope the M-Pesa network expects
// from both C2B endpoints.
type mpesaResponse struct {
	ResultCode int    `json:"ResultCode"`
	ResultDesc string `json:"ResultDesc"`
}

// C2BHandler exposes the M-Pesa C2B callback endpoints.
type C2BHandler struct {
	Service *services.C2BService
}

func NewC2BHandler(service *services.C2BService) *C2BHandler {
	return &C2BHandler{Service: service}
}

// Validation handles the pre-payment gate. M-Pesa calls this before funds
// move and waits only a few seconds; the handler makes no outbound calls.
func (h *C2BHandler) Validation(c *gin.Context) {
	var data services.C2BCallbackData
	if err := c.ShouldBindJSON(&data); err != nil {
		log.Warn("C2B validation: invalid JSON: ", err)
		c.JSON(http.StatusBadRequest, mpesaResponse{ResultCode: 1, ResultDesc: "Invalid JSON"})
		return
	}

	result := h.Service.ValidateC2BPayment(data)
	if result.Accept {
		c.JSON(http.StatusOK, mpesaResponse{ResultCode: 0, ResultDesc: "Accepted"})
		return
	}
	c.JSON(http.StatusOK, mpesaResponse{ResultCode: 1, ResultDesc: result.Message})
}

// Confirmation handles the post-payment notification. The acknowledgement is
// always ResultCode 0 regardless of internal outcome; anything else makes
// the network re-deliver a payload whose audit record already exists.
// Malformed JSON is the sole exception.
func (h *C2BHandler) Confirmation(c *gin.Context) {
	var data services.C2BCallbackData
	if err := c.ShouldBindJSON(&data); err != nil {
		log.Warn("C2B confirmation: invalid JSON: ", err)
		c.JSON(http.StatusBadRequest, mpesaResponse{ResultCode: 1, ResultDesc: "Invalid JSON"})
		return
	}

	result := h.Service.ProcessC2BConfirmation(data)
	if !result.Success {
		log.WithFields(log.Fields{
			"trans_id": data.TransID,
			"message":  result.Message,
		}).Error("C2B confirmation failed internally, acknowledging anyway")
	}

	c.JSON(http.StatusOK, mpesaResponse{ResultCode: 0, ResultDesc: "Accepted"})
}
