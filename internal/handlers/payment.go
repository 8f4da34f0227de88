package handlers

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/pushp314/bloodbridge-backend/internal/config"
	"github.com/pushp314/bloodbridge-backend/internal/database"
	"github.com/pushp314/bloodbridge-backend/internal/models"
	"github.com/pushp314/bloodbridge-backend/pkg/logger"
	razorpay "github.com/razorpay/razorpay-go"
)

type CreateOrderInput struct {
	Amount int `json:"amount" binding:"required,min=1,max=500000"` // rupees
}

type VerifyPaymentInput struct {
	RazorpayPaymentID string `json:"razorpay_payment_id" binding:"required"`
	RazorpayOrderID   string `json:"razorpay_order_id" binding:"required"`
	RazorpaySignature string `json:"razorpay_signature" binding:"required"`
}

// orderCreator is the part of the Razorpay client CreateOrder needs.
type orderCreator interface {
	Create(data map[string]interface{}, extraHeaders map[string]string) (map[string]interface{}, error)
}

// newOrderClient is swapped in tests.
var newOrderClient = func(keyID, keySecret string) orderCreator {
	return razorpay.NewClient(keyID, keySecret).Order
}

func razorpayKeys() (string, string) {
	if config.AppConfig == nil {
		return "", ""
	}
	return config.AppConfig.RazorpayKeyID, config.AppConfig.RazorpayKeySecret
}

// CreateOrder handles POST /payments/order for a monetary donation.
func CreateOrder(c *gin.Context) {
	var input CreateOrderInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	keyID, keySecret := razorpayKeys()
	if keyID == "" || keySecret == "" {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Payment gateway not configured"})
		return
	}

	userID := c.GetString("userId")
	amountInPaise := input.Amount * 100
	data := map[string]interface{}{
		"amount":   amountInPaise,
		"currency": "INR",
		"receipt":  fmt.Sprintf("don_%d", time.Now().UnixNano()),
	}

	body, err := newOrderClient(keyID, keySecret).Create(data, nil)
	if err != nil {
		logger.Error().Err(err).Str("user_id", userID).Msg("Razorpay order creation failed")
		c.JSON(http.StatusBadGateway, gin.H{"error": "Failed to create order"})
		return
	}

	orderID, _ := body["id"].(string)
	if orderID == "" {
		c.JSON(http.StatusBadGateway, gin.H{"error": "Payment gateway returned no order id"})
		return
	}

	donation := models.MonetaryDonation{
		UserID:   userID,
		Amount:   input.Amount,
		Currency: "INR",
		OrderID:  orderID,
		Status:   models.MonetaryCreated,
	}
	if err := database.DB.Create(&donation).Error; err != nil {
		logger.Error().Err(err).Str("order_id", orderID).Msg("Failed to record order")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to record order"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"orderId":  orderID,
		"amount":   amountInPaise,
		"currency": "INR",
		"keyId":    keyID,
	})
}

func signPayment(secret, orderID, paymentID string) string {
	h := hmac.New(sha256.New, []byte(secret))
	h.Write([]byte(orderID + "|" + paymentID))
	return hex.EncodeToString(h.Sum(nil))
}

// VerifyPayment handles POST /payments/verify
func VerifyPayment(c *gin.Context) {
	var input VerifyPaymentInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	_, keySecret := razorpayKeys()
	if keySecret == "" {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Payment gateway not configured"})
		return
	}

	expected := signPayment(keySecret, input.RazorpayOrderID, input.RazorpayPaymentID)
	if !hmac.Equal([]byte(expected), []byte(input.RazorpaySignature)) {
		logger.Warn().Str("order_id", input.RazorpayOrderID).Msg("Payment signature mismatch")
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid signature"})
		return
	}

	var donation models.MonetaryDonation
	if err := database.DB.Where("order_id = ? AND user_id = ?", input.RazorpayOrderID, c.GetString("userId")).
		First(&donation).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Order not found"})
		return
	}

	if donation.Status != models.MonetaryPaid {
		if err := database.DB.Model(&donation).Updates(map[string]interface{}{
			"status":     models.MonetaryPaid,
			"payment_id": input.RazorpayPaymentID,
		}).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to record payment"})
			return
		}
		logger.Info().Str("order_id", donation.OrderID).Int("amount", donation.Amount).Msg("Monetary donation paid")
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Thank you for your donation"})
}
